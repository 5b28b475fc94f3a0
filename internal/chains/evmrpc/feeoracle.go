package evmrpc

import (
	"context"
	"math/big"

	"github.com/pushchain/universal-faucet/internal/ferrors"
)

// Fees is the pair of EIP-1559 fee caps a DynamicFeeTx is built with.
type Fees struct {
	TipCap *big.Int // maxPriorityFeePerGas
	FeeCap *big.Int // maxFeePerGas
}

// SuggestFees implements the EIP-1559 fee oracle from spec §6:
// eth_maxPriorityFeePerGas for the tip, clamped to the configured
// priority-fee ceiling, and eth_getBlockByNumber(latest) for the current
// base fee, combined as feeCap = 2*baseFee + tip (using the clamped tip) —
// the standard headroom formula so the tx stays includable across a couple
// of base-fee adjustments.
func (c *Client) SuggestFees(ctx context.Context, priorityFeeCap *big.Int) (Fees, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	tip, err := c.rpc.SuggestGasTipCap(callCtx)
	if err != nil {
		return Fees{}, ferrors.Wrap(ferrors.CodeInternal, err, "eth_maxPriorityFeePerGas")
	}
	if priorityFeeCap != nil && tip.Cmp(priorityFeeCap) > 0 {
		tip = priorityFeeCap
	}

	header, err := c.rpc.HeaderByNumber(callCtx, nil)
	if err != nil {
		return Fees{}, ferrors.Wrap(ferrors.CodeInternal, err, "eth_getBlockByNumber(latest)")
	}
	baseFee := header.BaseFee
	if baseFee == nil {
		baseFee = big.NewInt(0)
	}

	feeCap := new(big.Int).Add(tip, new(big.Int).Mul(baseFee, big.NewInt(2)))

	return Fees{TipCap: tip, FeeCap: feeCap}, nil
}
