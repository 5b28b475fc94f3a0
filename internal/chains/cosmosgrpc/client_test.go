package cosmosgrpc

import (
	"context"
	"errors"
	"testing"

	sdkmath "cosmossdk.io/math"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdktypes "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/tx"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/pushchain/universal-faucet/internal/ferrors"
)

// mockAuthQueryClient embeds the interface and overrides only Account, the
// same pattern pushcore_test.go uses for its own query-client mocks.
type mockAuthQueryClient struct {
	authtypes.QueryClient
	resp *authtypes.QueryAccountResponse
	err  error
}

func (m *mockAuthQueryClient) Account(ctx context.Context, req *authtypes.QueryAccountRequest, opts ...grpc.CallOption) (*authtypes.QueryAccountResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

type mockBankQueryClient struct {
	banktypes.QueryClient
	resp *banktypes.QueryBalanceResponse
	err  error
}

func (m *mockBankQueryClient) Balance(ctx context.Context, req *banktypes.QueryBalanceRequest, opts ...grpc.CallOption) (*banktypes.QueryBalanceResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

type mockTxServiceClient struct {
	tx.ServiceClient
	resp *tx.BroadcastTxResponse
	err  error
}

func (m *mockTxServiceClient) BroadcastTx(ctx context.Context, req *tx.BroadcastTxRequest, opts ...grpc.CallOption) (*tx.BroadcastTxResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

var errQueryFailed = errors.New("query failed")

func mustAnyAccount(t *testing.T, base authtypes.BaseAccount) *codectypes.Any {
	t.Helper()
	bz, err := base.Marshal()
	require.NoError(t, err)
	return &codectypes.Any{TypeUrl: "/cosmos.auth.v1beta1.BaseAccount", Value: bz}
}

func TestGetAccountDecodesBaseAccount(t *testing.T) {
	base := authtypes.BaseAccount{Address: "cosmos1abc", AccountNumber: 7, Sequence: 3}
	c := &Client{
		authClient: &mockAuthQueryClient{resp: &authtypes.QueryAccountResponse{Account: mustAnyAccount(t, base)}},
		log:        zerolog.Nop(),
	}

	acc, err := c.GetAccount(context.Background(), "cosmos1abc")
	require.NoError(t, err)
	require.Equal(t, uint64(7), acc.AccountNumber)
	require.Equal(t, uint64(3), acc.Sequence)
}

func TestGetAccountPropagatesQueryError(t *testing.T) {
	c := &Client{
		authClient: &mockAuthQueryClient{err: errQueryFailed},
		log:        zerolog.Nop(),
	}

	_, err := c.GetAccount(context.Background(), "cosmos1abc")
	require.Error(t, err)
}

func TestGetBalanceMissingCoinDefaultsZero(t *testing.T) {
	c := &Client{
		bankClient: &mockBankQueryClient{resp: &banktypes.QueryBalanceResponse{Balance: nil}},
		log:        zerolog.Nop(),
	}

	amt, err := c.GetBalance(context.Background(), "cosmos1abc", "upc")
	require.NoError(t, err)
	require.Equal(t, "0", amt)
}

func TestGetBalancePresentCoin(t *testing.T) {
	c := &Client{
		bankClient: &mockBankQueryClient{resp: &banktypes.QueryBalanceResponse{
			Balance: &sdktypes.Coin{Denom: "upc", Amount: sdkmath.NewInt(42)},
		}},
		log: zerolog.Nop(),
	}

	amt, err := c.GetBalance(context.Background(), "cosmos1abc", "upc")
	require.NoError(t, err)
	require.Equal(t, "42", amt)
}

func TestBroadcastTxSuccess(t *testing.T) {
	c := &Client{
		txClient: &mockTxServiceClient{resp: &tx.BroadcastTxResponse{
			TxResponse: &sdktypes.TxResponse{TxHash: "ABC123", Code: 0, GasUsed: 21000},
		}},
		log: zerolog.Nop(),
	}

	result, err := c.BroadcastTx(context.Background(), []byte("tx-bytes"))
	require.NoError(t, err)
	require.Equal(t, "ABC123", result.TxHash)
	require.Equal(t, uint64(21000), result.GasUsed)
}

func TestBroadcastTxSequenceMismatchClassifiesAsNonceDrift(t *testing.T) {
	c := &Client{
		txClient: &mockTxServiceClient{resp: &tx.BroadcastTxResponse{
			TxResponse: &sdktypes.TxResponse{TxHash: "DEF456", Code: 32, RawLog: "account sequence mismatch, expected 5, got 4"},
		}},
		log: zerolog.Nop(),
	}

	_, err := c.BroadcastTx(context.Background(), []byte("tx-bytes"))
	require.Error(t, err)
	require.Equal(t, ferrors.CodeNonceDrift, ferrors.CodeOf(err))
}

func TestDialDetectsSchemeAndDefaultPort(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		wantErr  bool
	}{
		{name: "empty endpoint", endpoint: "", wantErr: true},
		{name: "http with no port", endpoint: "http://localhost", wantErr: false},
		{name: "https with no port", endpoint: "https://localhost", wantErr: false},
		{name: "bare host with port", endpoint: "localhost:9090", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := dial(tt.endpoint)
			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, conn)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, conn)
			_ = conn.Close()
		})
	}
}
