package cosmosrest

import (
	"context"
	"math/big"
)

// coinJSON is one entry of the /cosmos/bank/v1beta1/balances/{addr}
// response.
type coinJSON struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

type balancesEnvelope struct {
	Balances []coinJSON `json:"balances"`
}

// GetBalances fetches every denom balance for bech32Addr in a single REST
// call, per spec §4.3.
func (c *Client) GetBalances(ctx context.Context, bech32Addr string) (map[string]*big.Int, error) {
	var env balancesEnvelope
	if err := c.getJSON(ctx, "/cosmos/bank/v1beta1/balances/"+bech32Addr, &env); err != nil {
		return nil, err
	}

	out := make(map[string]*big.Int, len(env.Balances))
	for _, coin := range env.Balances {
		amt, ok := new(big.Int).SetString(coin.Amount, 10)
		if !ok {
			amt = big.NewInt(0)
		}
		out[coin.Denom] = amt
	}
	return out, nil
}
