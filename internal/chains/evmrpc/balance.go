package evmrpc

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/pushchain/universal-faucet/internal/contracts/erc20"
	"github.com/pushchain/universal-faucet/internal/ferrors"
)

// ERC20BalanceOf calls balanceOf(account) on the ERC-20 token at contract.
func (c *Client) ERC20BalanceOf(ctx context.Context, contract, account common.Address) (*big.Int, error) {
	token, err := erc20.NewIERC20(contract, c.rpc)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.CodeBalanceQueryFail, err, "bind erc20 contract")
	}
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	bal, err := token.BalanceOf(&bind.CallOpts{Context: callCtx}, account)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.CodeBalanceQueryFail, err, "erc20 balanceOf")
	}
	return bal, nil
}
