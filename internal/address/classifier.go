// Package address implements AddressClassifier: parsing a recipient string
// into {cosmos, evm, invalid} and converting between the two encodings of
// the same 20-byte payload, grounded on the evm/cosmos dual-address codec
// pattern (zeta-chain-evm's encoding/address.evmCodec).
package address

import (
	"fmt"

	"github.com/cosmos/cosmos-sdk/types/bech32"
	"github.com/ethereum/go-ethereum/common"
)

// Kind classifies a recipient string.
type Kind int

const (
	KindInvalid Kind = iota
	KindEVM
	KindCosmos
)

func (k Kind) String() string {
	switch k {
	case KindEVM:
		return "evm"
	case KindCosmos:
		return "cosmos"
	default:
		return "invalid"
	}
}

// Recipient is the parsed view of a raw address string, valid for the
// lifetime of one request.
type Recipient struct {
	Raw    string
	Kind   Kind
	Hex20  common.Address
	Bech32 string
}

// Classifier parses recipient strings against a configured bech32 HRP.
type Classifier struct {
	hrp string
}

// NewClassifier builds a Classifier bound to hrp (e.g. "cosmos").
func NewClassifier(hrp string) *Classifier {
	return &Classifier{hrp: hrp}
}

// Classify parses s into a Recipient. An EVM match requires
// common.IsHexAddress (0x + 40 hex chars, with an EIP-55 checksum check
// applied only when the input is mixed-case — go-ethereum's IsHexAddress
// does not itself checksum-validate, so mixed-case input is checksum
// checked explicitly below). A Cosmos match requires successful bech32
// decoding with the configured HRP and a 20-byte payload. Anything else is
// KindInvalid.
func (c *Classifier) Classify(s string) Recipient {
	switch {
	case common.IsHexAddress(s):
		if !acceptableCase(s) {
			return Recipient{Raw: s, Kind: KindInvalid}
		}
		addr := common.HexToAddress(s)
		return Recipient{
			Raw:   s,
			Kind:  KindEVM,
			Hex20: addr,
		}
	default:
		hrp, data, err := bech32.DecodeAndConvert(s)
		if err != nil || hrp != c.hrp || len(data) != 20 {
			return Recipient{Raw: s, Kind: KindInvalid}
		}
		var addr common.Address
		copy(addr[:], data)
		return Recipient{
			Raw:    s,
			Kind:   KindCosmos,
			Hex20:  addr,
			Bech32: s,
		}
	}
}

// acceptableCase rejects mixed-case hex input that fails the EIP-55
// checksum while accepting all-lower and all-upper input unconditionally
// (those present no checksum to validate), per §4.2's edge case.
func acceptableCase(s string) bool {
	body := s[2:]
	isAllLower, isAllUpper := true, true
	for _, r := range body {
		if r >= 'a' && r <= 'z' {
			isAllUpper = false
		} else if r >= 'A' && r <= 'Z' {
			isAllLower = false
		}
	}
	if isAllLower || isAllUpper {
		return true
	}
	return common.HexToAddress(s).Hex() == s
}

// ToHex20 returns the canonical 20-byte binary form of recipient.
func (c *Classifier) ToHex20(r Recipient) common.Address {
	return r.Hex20
}

// ToBech32 bech32-encodes a raw 20-byte payload under hrp, with no extra
// hashing.
func (c *Classifier) ToBech32(addr common.Address, hrp string) (string, error) {
	encoded, err := bech32.ConvertAndEncode(hrp, addr.Bytes())
	if err != nil {
		return "", fmt.Errorf("bech32 encode: %w", err)
	}
	return encoded, nil
}

// CosmosProjection returns r's bech32 form under the classifier's
// configured HRP, deriving it from Hex20 when r was parsed as EVM-kind.
func (c *Classifier) CosmosProjection(r Recipient) (string, error) {
	if r.Bech32 != "" {
		return r.Bech32, nil
	}
	return c.ToBech32(r.Hex20, c.hrp)
}
