package keys

import (
	"fmt"

	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// SignEvmTx hashes unsigned with signer (an EIP-1559-aware go-ethereum
// Signer built from the configured chain-id) and returns the same
// transaction with a signature attached, v folded per the parity
// convention per §6.
func (m *Manager) SignEvmTx(unsigned *gethtypes.Transaction, signer gethtypes.Signer) (*gethtypes.Transaction, error) {
	hash := signer.Hash(unsigned)
	sig, err := m.signDigest(hash[:])
	if err != nil {
		m.audit.append("sign-evm-tx", false, err.Error())
		return nil, fmt.Errorf("sign evm tx: %w", err)
	}
	signed, err := unsigned.WithSignature(signer, sig)
	if err != nil {
		m.audit.append("sign-evm-tx", false, err.Error())
		return nil, fmt.Errorf("attach signature: %w", err)
	}
	m.audit.append("sign-evm-tx", true, signed.Hash().Hex())
	return signed, nil
}

// SignCosmosTx keccak-256-hashes signDocBytes (the protobuf-encoded
// SignDoc) and returns the 64-byte r||s signature SIGN_MODE_DIRECT expects
// — the chain verifies against the ethermint-family pubkey, which recovers
// over keccak-256 rather than SHA-256.
func (m *Manager) SignCosmosTx(signDocBytes []byte) ([]byte, error) {
	digest := gethcrypto.Keccak256(signDocBytes)
	sig, err := m.signDigest(digest)
	if err != nil {
		m.audit.append("sign-cosmos-tx", false, err.Error())
		return nil, fmt.Errorf("sign cosmos tx: %w", err)
	}
	m.audit.append("sign-cosmos-tx", true, "")
	return sig[:64], nil
}

// PubKeyAny wraps the 33-byte compressed public key in a codectypes.Any
// under typeURL, encoded as the single-field protobuf message
// `{bytes key = 1;}`. No library in the pack exposes the cosmos/evm
// ethsecp256k1.PubKey wire type directly (it lives in a module this
// repository does not import — see DESIGN.md), but the wire shape is
// trivial and stable: a length-delimited field 1 carrying the raw key
// bytes, identical to the standard cosmos secp256k1.PubKey encoding that
// *is* available, with only the type URL differing per §4.1.
func (m *Manager) PubKeyAny(typeURL string) *codectypes.Any {
	key := m.CompressedPubKey()
	return &codectypes.Any{
		TypeUrl: typeURL,
		Value:   encodeSingleBytesField(key),
	}
}

// encodeSingleBytesField protobuf-encodes a message with exactly one field,
// `bytes key = 1`, holding value.
func encodeSingleBytesField(value []byte) []byte {
	const fieldOneLengthDelimited = 0x0A // (1<<3)|2
	out := make([]byte, 0, len(value)+6)
	out = append(out, fieldOneLengthDelimited)
	out = appendVarint(out, uint64(len(value)))
	out = append(out, value...)
	return out
}

func appendVarint(out []byte, v uint64) []byte {
	for v >= 0x80 {
		out = append(out, byte(v)|0x80)
		v >>= 7
	}
	return append(out, byte(v))
}
