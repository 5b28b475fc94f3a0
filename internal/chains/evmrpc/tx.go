package evmrpc

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/pushchain/universal-faucet/internal/contracts/atomicbatch"
	"github.com/pushchain/universal-faucet/internal/ferrors"
	"github.com/pushchain/universal-faucet/internal/keys"
)

// BuildAtomicMultiSend assembles the unsigned EIP-1559 (type 0x02)
// transaction calling atomicMultiSend(recipient, transfers) on
// batchContract, forwarding nativeValue via msg.value, per spec §6.
func (c *Client) BuildAtomicMultiSend(
	nonce uint64,
	batchContract common.Address,
	recipient common.Address,
	transfers []atomicbatch.AtomicMultiSendTransfer,
	nativeValue *big.Int,
	gasLimit uint64,
	fees Fees,
) (*gethtypes.Transaction, error) {
	data, err := atomicbatch.PackAtomicMultiSend(recipient, transfers)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.CodeInternal, err, "pack atomicMultiSend calldata")
	}
	if nativeValue == nil {
		nativeValue = big.NewInt(0)
	}
	return gethtypes.NewTx(&gethtypes.DynamicFeeTx{
		ChainID:   c.chainID,
		Nonce:     nonce,
		GasTipCap: fees.TipCap,
		GasFeeCap: fees.FeeCap,
		Gas:       gasLimit,
		To:        &batchContract,
		Value:     nativeValue,
		Data:      data,
	}), nil
}

// Signer returns the EIP-1559-aware signer for this client's chain-id.
func (c *Client) Signer() gethtypes.Signer {
	return gethtypes.LatestSignerForChainID(c.chainID)
}

// SignAndBroadcast signs unsigned with km and submits it via
// eth_sendRawTransaction.
func (c *Client) SignAndBroadcast(ctx context.Context, km *keys.Manager, unsigned *gethtypes.Transaction) (*gethtypes.Transaction, error) {
	signed, err := km.SignEvmTx(unsigned, c.Signer())
	if err != nil {
		return nil, ferrors.Wrap(ferrors.CodeSignatureRejected, err, "sign evm tx")
	}

	sendCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.rpc.SendTransaction(sendCtx, signed); err != nil {
		return nil, classifyBroadcastError(err)
	}
	return signed, nil
}

// WaitReceipt polls for signed's receipt until ctx is done, returning
// ferrors.CodeBroadcastTimeout if it never arrives within the caller's
// deadline.
func (c *Client) WaitReceipt(ctx context.Context, signed *gethtypes.Transaction) (*gethtypes.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, c.rpc, signed)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.CodeBroadcastTimeout, err, "waiting for evm receipt")
	}
	if receipt.Status != gethtypes.ReceiptStatusSuccessful {
		return receipt, ferrors.New(ferrors.CodeChainReverted, "atomicMultiSend reverted").
			WithContext("txHash", signed.Hash().Hex())
	}
	return receipt, nil
}

// classifyBroadcastError maps common eth_sendRawTransaction JSON-RPC error
// strings to the §7 error taxonomy. Node implementations vary in exact
// wording, hence substring matching rather than typed error values.
func classifyBroadcastError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "nonce too low") || strings.Contains(msg, "nonce too high") || strings.Contains(msg, "replacement transaction underpriced"):
		return ferrors.Wrap(ferrors.CodeNonceDrift, err, "evm nonce drift")
	case strings.Contains(msg, "insufficient funds"):
		return ferrors.Wrap(ferrors.CodeOperatorUnderfund, err, "operator lacks gas")
	case strings.Contains(msg, "invalid sender") || strings.Contains(msg, "invalid signature"):
		return ferrors.Wrap(ferrors.CodeSignatureRejected, err, "evm signature rejected")
	default:
		return ferrors.Wrap(ferrors.CodeInternal, err, "eth_sendRawTransaction")
	}
}
