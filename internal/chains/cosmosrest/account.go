package cosmosrest

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pushchain/universal-faucet/internal/ferrors"
)

// Account is the parsed view of the operator account, regardless of which
// of the two REST shapes it arrived in.
type Account struct {
	Address       string
	AccountNumber uint64
	Sequence      uint64
}

// accountEnvelope is the top-level /cosmos/auth/v1beta1/accounts/{addr}
// response shape.
type accountEnvelope struct {
	Account json.RawMessage `json:"account"`
}

// taggedAccount peeks at the "@type" discriminator common to both
// variants, per the §9 design note: model the duck-typed account shape as
// a tagged variant and pattern-match at parse time rather than treating
// fields as optional.
type taggedAccount struct {
	TypeURL string `json:"@type"`
}

// baseAccountJSON is the plain cosmos-sdk x/auth BaseAccount shape.
type baseAccountJSON struct {
	Address       string `json:"address"`
	AccountNumber string `json:"account_number"`
	Sequence      string `json:"sequence"`
}

// ethAccountJSON is the ethermint-family EthAccount shape, which nests the
// base fields under base_account.
type ethAccountJSON struct {
	BaseAccount baseAccountJSON `json:"base_account"`
	CodeHash    string          `json:"code_hash"`
}

// GetAccount fetches and parses the operator account's account_number and
// sequence, handling both the base-account and ethermint EthAccount
// response shapes.
func (c *Client) GetAccount(ctx context.Context, bech32Addr string) (Account, error) {
	var env accountEnvelope
	if err := c.getJSON(ctx, "/cosmos/auth/v1beta1/accounts/"+bech32Addr, &env); err != nil {
		return Account{}, err
	}

	var tag taggedAccount
	if err := json.Unmarshal(env.Account, &tag); err != nil {
		return Account{}, ferrors.Wrap(ferrors.CodeInternal, err, "parse account type tag")
	}

	var base baseAccountJSON
	switch {
	case isEthAccountType(tag.TypeURL):
		var eth ethAccountJSON
		if err := json.Unmarshal(env.Account, &eth); err != nil {
			return Account{}, ferrors.Wrap(ferrors.CodeInternal, err, "parse eth account")
		}
		base = eth.BaseAccount
	default:
		if err := json.Unmarshal(env.Account, &base); err != nil {
			return Account{}, ferrors.Wrap(ferrors.CodeInternal, err, "parse base account")
		}
	}

	accNum, err := strconv.ParseUint(base.AccountNumber, 10, 64)
	if err != nil {
		return Account{}, ferrors.Wrap(ferrors.CodeInternal, err, fmt.Sprintf("invalid account_number %q", base.AccountNumber))
	}
	seq, err := strconv.ParseUint(base.Sequence, 10, 64)
	if err != nil {
		return Account{}, ferrors.Wrap(ferrors.CodeInternal, err, fmt.Sprintf("invalid sequence %q", base.Sequence))
	}

	return Account{Address: base.Address, AccountNumber: accNum, Sequence: seq}, nil
}

// isEthAccountType matches the family of ethermint-style EthAccount type
// URLs observed across chains in this family (ethermint, cosmos/evm,
// injective), rather than a single hardcoded string, mirroring the
// open-question note in spec §9 about pubkey type URL variance extending
// to the account type URL too.
func isEthAccountType(typeURL string) bool {
	switch typeURL {
	case "/ethermint.types.v1.EthAccount",
		"/cosmos.evm.types.v1.EthAccount",
		"/injective.types.v1beta1.EthAccount":
		return true
	default:
		return false
	}
}
