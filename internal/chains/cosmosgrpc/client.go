// Package cosmosgrpc is the optional gRPC alternative to cosmosrest named in
// spec §6. It is trimmed from pushcore.Client's multi-endpoint round-robin
// fan-out down to a single dialed endpoint: the faucet talks to one operator
// node, not a validator set, so failover across endpoints buys nothing here.
package cosmosgrpc

import (
	"context"
	"fmt"
	"strings"

	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/cosmos/cosmos-sdk/types/tx"

	"github.com/pushchain/universal-faucet/internal/chains/cosmosrest"
	"github.com/pushchain/universal-faucet/internal/ferrors"
)

// Client wraps a single gRPC connection to a Cosmos node, exposing only the
// query and broadcast surface this service needs.
type Client struct {
	conn        *grpc.ClientConn
	authClient  authtypes.QueryClient
	bankClient  banktypes.QueryClient
	txClient    tx.ServiceClient
	log         zerolog.Logger
}

// New dials endpoint (e.g. "localhost:9090" or "https://grpc.example.com").
func New(endpoint string, log zerolog.Logger) (*Client, error) {
	conn, err := dial(endpoint)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.CodeInternal, err, "dial cosmos grpc endpoint")
	}
	return &Client{
		conn:       conn,
		authClient: authtypes.NewQueryClient(conn),
		bankClient: banktypes.NewQueryClient(conn),
		txClient:   tx.NewServiceClient(conn),
		log:        log.With().Str("component", "cosmosgrpc").Logger(),
	}, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// GetAccount fetches account_number and sequence for bech32Addr, returning
// the same cosmosrest.Account shape so NonceCoordinator can fall back to
// this client without a second result type. Unlike cosmosrest.GetAccount,
// this only decodes the plain BaseAccount proto shape: the ethermint-family
// EthAccount proto type isn't vendored into this module, so an operator
// whose account is an EthAccount must rely on the REST path (gRPC here is
// the fallback, not the primary).

func (c *Client) GetAccount(ctx context.Context, bech32Addr string) (cosmosrest.Account, error) {
	resp, err := c.authClient.Account(ctx, &authtypes.QueryAccountRequest{Address: bech32Addr})
	if err != nil {
		return cosmosrest.Account{}, ferrors.Wrap(ferrors.CodeInternal, err, "grpc account query failed")
	}
	var base authtypes.BaseAccount
	if err := base.Unmarshal(resp.Account.Value); err != nil {
		return cosmosrest.Account{}, ferrors.Wrap(ferrors.CodeInternal, err, "decode account Any")
	}
	return cosmosrest.Account{Address: base.Address, AccountNumber: base.AccountNumber, Sequence: base.Sequence}, nil
}

// GetBalance fetches the balance of a single denom for bech32Addr.
func (c *Client) GetBalance(ctx context.Context, bech32Addr, denom string) (string, error) {
	resp, err := c.bankClient.Balance(ctx, &banktypes.QueryBalanceRequest{Address: bech32Addr, Denom: denom})
	if err != nil {
		return "", ferrors.Wrap(ferrors.CodeInternal, err, "grpc balance query failed")
	}
	if resp.Balance == nil {
		return "0", nil
	}
	return resp.Balance.Amount.String(), nil
}

// BroadcastTx submits txBytes with BROADCAST_MODE_SYNC, returning the same
// cosmosrest.BroadcastResult shape (and the same §7 error classification)
// as the REST path.
func (c *Client) BroadcastTx(ctx context.Context, txBytes []byte) (cosmosrest.BroadcastResult, error) {
	resp, err := c.txClient.BroadcastTx(ctx, &tx.BroadcastTxRequest{
		TxBytes: txBytes,
		Mode:    tx.BroadcastMode_BROADCAST_MODE_SYNC,
	})
	if err != nil {
		return cosmosrest.BroadcastResult{}, ferrors.Wrap(ferrors.CodeInternal, err, "grpc broadcast failed")
	}

	result := cosmosrest.BroadcastResult{
		TxHash:  resp.TxResponse.TxHash,
		Code:    int(resp.TxResponse.Code),
		RawLog:  resp.TxResponse.RawLog,
		GasUsed: uint64(resp.TxResponse.GasUsed),
	}
	if result.Code != 0 {
		return result, cosmosrest.ClassifyBroadcastCode(result.Code, result.RawLog)
	}
	return result, nil
}

// dial mirrors pushcore.CreateGRPCConnection's scheme detection and default
// port, trimmed to a single endpoint with no fan-out bookkeeping.
func dial(endpoint string) (*grpc.ClientConn, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("cosmosgrpc: empty endpoint")
	}

	processed := endpoint
	useTLS := false
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		processed = strings.TrimPrefix(endpoint, "https://")
		useTLS = true
	case strings.HasPrefix(endpoint, "http://"):
		processed = strings.TrimPrefix(endpoint, "http://")
	}
	if !strings.Contains(processed, ":") {
		processed += ":9090"
	}

	var opts []grpc.DialOption
	if useTLS {
		opts = append(opts, grpc.WithTransportCredentials(credentials.NewTLS(nil)))
	} else {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}

	conn, err := grpc.NewClient(processed, opts...)
	if err != nil {
		return nil, fmt.Errorf("cosmosgrpc: dial %s: %w", processed, err)
	}
	return conn, nil
}
