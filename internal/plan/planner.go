// Package plan implements DistributionPlanner: turning a BalanceOracle
// reading into an ordered TransferPlan, per spec §4.4. The algorithm is a
// plain per-token clamp with no external dependency, matching the teacher's
// own preference for small pure functions at this layer (cf.
// x/uexecutor/keeper's fee-calculation helpers).
package plan

import (
	"math/big"

	"github.com/pushchain/universal-faucet/internal/balance"
	"github.com/pushchain/universal-faucet/internal/config"
)

// Item is one token's planned transfer.
type Item struct {
	Symbol        string
	CosmosDenom   string
	Erc20Contract string
	Amount        *big.Int
	NativeView    bool
}

// Plan is an ordered, non-empty-checked list of transfer items. Items with
// a zero amount are never included.
type Plan struct {
	Items []Item
}

// Empty reports whether the plan has no items, meaning every token was
// already at or above its target ceiling or had no usable balance reading.
func (p Plan) Empty() bool {
	return len(p.Items) == 0
}

// Planner computes TransferPlans from balance readings.
type Planner struct{}

// New builds a Planner. It carries no state: every call is a pure function
// of its inputs, per §4.4's determinism invariant.
func New() *Planner {
	return &Planner{}
}

// Plan computes, for each token in tokens (in configured order), item =
// min(perRequestAmount, max(0, targetCeiling - current)), omitting zero
// items. Per-token readings marked Unavailable are skipped entirely (the
// dispenser reports balance-unavailable for them, not a zero transfer).
func (pl *Planner) Plan(readings map[string]balance.Reading, tokens []config.TokenDescriptor) (Plan, []string) {
	var out Plan
	var unavailable []string

	for _, tok := range tokens {
		reading, ok := readings[tok.Symbol]
		if !ok || reading.Unavailable || reading.Current == nil {
			unavailable = append(unavailable, tok.Symbol)
			continue
		}

		perRequest, target, err := tok.AmountsAsBigInt()
		if err != nil {
			unavailable = append(unavailable, tok.Symbol)
			continue
		}

		need := new(big.Int).Sub(target, reading.Current)
		if need.Sign() < 0 {
			need = big.NewInt(0)
		}

		amount := perRequest
		if need.Cmp(perRequest) < 0 {
			amount = need
		}
		if amount.Sign() <= 0 {
			continue
		}

		out.Items = append(out.Items, Item{
			Symbol:        tok.Symbol,
			CosmosDenom:   tok.CosmosDenom,
			Erc20Contract: tok.Erc20Contract,
			Amount:        new(big.Int).Set(amount),
			NativeView:    tok.IsNativeView(),
		})
	}

	return out, unavailable
}
