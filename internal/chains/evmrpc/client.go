// Package evmrpc wraps the EVM JSON-RPC interface: connection lifecycle,
// EIP-1559 fee oracle, ERC-20/native balance reads, and atomic-batch
// transaction submission. Structured after universalClient/chains/evm's
// Client lifecycle (NewClient/Start/IsHealthy/Stop) and
// OutboundTxBuilder's build/sign/broadcast split.
package evmrpc

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"

	"github.com/pushchain/universal-faucet/internal/ferrors"
)

// Client wraps an ethclient.Client with the chain-id verification and
// health check universalClient/chains/evm.Client performs at startup.
type Client struct {
	rpc     *ethclient.Client
	chainID *big.Int
	log     zerolog.Logger
	timeout time.Duration
}

// NewClient dials endpoint and verifies its eth_chainId matches
// expectedChainID before returning, the way chains/evm/client.go's Start()
// does.
func NewClient(ctx context.Context, endpoint string, expectedChainID uint64, timeout time.Duration, log zerolog.Logger) (*Client, error) {
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	rpc, err := ethclient.DialContext(dialCtx, endpoint)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.CodeInternal, err, "dial evm json-rpc endpoint")
	}

	chainCtx, cancel2 := context.WithTimeout(ctx, timeout)
	defer cancel2()
	gotChainID, err := rpc.ChainID(chainCtx)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.CodeInternal, err, "query evm chain id")
	}
	if gotChainID.Uint64() != expectedChainID {
		return nil, ferrors.New(ferrors.CodeInternal, fmt.Sprintf("evm chain id mismatch: configured %d, endpoint reports %d", expectedChainID, gotChainID.Uint64()))
	}

	return &Client{
		rpc:     rpc,
		chainID: gotChainID,
		log:     log.With().Str("component", "evmrpc").Logger(),
		timeout: timeout,
	}, nil
}

// ChainID returns the verified chain-id.
func (c *Client) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

// Raw exposes the underlying ethclient.Client for the contract bindings,
// which need a bind.ContractBackend / bind.ContractCaller.
func (c *Client) Raw() *ethclient.Client {
	return c.rpc
}

// IsHealthy reports liveness via a bounded eth_blockNumber call, the way
// chains/evm/client.go's IsHealthy does.
func (c *Client) IsHealthy(ctx context.Context) error {
	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := c.rpc.BlockNumber(healthCtx)
	if err != nil {
		return ferrors.Wrap(ferrors.CodeInternal, err, "evm health check")
	}
	return nil
}

// NativeBalance reads the native balance of addr at the pending block.
func (c *Client) NativeBalance(ctx context.Context, addr common.Address) (*big.Int, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	bal, err := c.rpc.PendingBalanceAt(callCtx, addr)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.CodeBalanceQueryFail, err, "eth_getBalance")
	}
	return bal, nil
}

// PendingNonce reads the operator's pending-nonce.
func (c *Client) PendingNonce(ctx context.Context, addr common.Address) (uint64, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.rpc.PendingNonceAt(callCtx, addr)
}

// Close releases the underlying connection.
func (c *Client) Close() {
	c.rpc.Close()
}
