package dispatch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cosmos/cosmos-sdk/types/bech32"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/pushchain/universal-faucet/internal/address"
	"github.com/pushchain/universal-faucet/internal/balance"
	"github.com/pushchain/universal-faucet/internal/chains/cosmosrest"
	"github.com/pushchain/universal-faucet/internal/config"
	"github.com/pushchain/universal-faucet/internal/ferrors"
	"github.com/pushchain/universal-faucet/internal/keys"
	"github.com/pushchain/universal-faucet/internal/nonce"
	"github.com/pushchain/universal-faucet/internal/plan"
	"github.com/pushchain/universal-faucet/internal/ratelimit"
)

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	limiter, err := ratelimit.Open(
		filepath.Join(t.TempDir(), "rl.db"),
		ratelimit.Config{AddrWindow: time.Hour, AddrLimit: 1, IPWindow: time.Hour, IPLimit: 5},
		zerolog.Nop(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = limiter.Close() })

	cfg := config.Config{HRP: "cosmos", Tokens: []config.TokenDescriptor{
		{Symbol: "A", CosmosDenom: "ua", Erc20Contract: "0x1111111111111111111111111111111111111111", PerRequestAmount: "1", TargetCeiling: "10"},
	}}

	return New(cfg, address.NewClassifier("cosmos"), limiter, nil, plan.New(), nil, nil, nil, nil, zerolog.Nop())
}

func TestDispenseRejectsInvalidAddress(t *testing.T) {
	d := newTestDispatcher(t)
	result := d.Dispense(context.Background(), "not-an-address", "1.2.3.4")
	require.Equal(t, StatusFailed, result.Status)
	require.Equal(t, ferrors.CodeInvalidAddress, result.ErrorKind)
}

func TestInspectBalanceRejectsInvalidAddress(t *testing.T) {
	d := newTestDispatcher(t)
	_, err := d.InspectBalance(context.Background(), "not-an-address")
	require.Error(t, err)
	require.Equal(t, ferrors.CodeInvalidAddress, ferrors.CodeOf(err))
}

func TestDispenseReportsRateLimited(t *testing.T) {
	d := newTestDispatcher(t)
	addr := "0x1111111111111111111111111111111111111111"

	require.NoError(t, d.limiter.Record(ratelimit.AddrKey(addr), ratelimit.IPKey("9.9.9.9"), time.Now()))

	result := d.Dispense(context.Background(), addr, "1.2.3.4")
	require.Equal(t, StatusRateLimited, result.Status)
	require.Equal(t, ferrors.CodeRateLimited, result.ErrorKind)
}

// cosmosLCDStub is a minimal in-memory stand-in for the three LCD endpoints
// the cosmos Dispense path touches, in the same httptest style as
// internal/chains/cosmosrest/account_test.go. broadcastCode lets a test
// drive a submit failure without a second server.
type cosmosLCDStub struct {
	balanceDenom string
	broadcastCode int
	broadcastLog  string
}

func (s *cosmosLCDStub) server() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/cosmos/bank/v1beta1/balances/"):
			fmt.Fprintf(w, `{"balances":[]}`)
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/cosmos/auth/v1beta1/accounts/"):
			fmt.Fprintf(w, `{"account":{"@type":"/cosmos.auth.v1beta1.BaseAccount","address":"op","account_number":"4","sequence":"2"}}`)
		case r.Method == http.MethodPost && r.URL.Path == "/cosmos/tx/v1beta1/txs":
			fmt.Fprintf(w, `{"tx_response":{"txhash":"TESTHASH","code":%d,"raw_log":%q,"gas_used":"90000"}}`, s.broadcastCode, s.broadcastLog)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

// newCosmosWiredDispatcher builds a Dispatcher whose Cosmos path is backed
// by a real nonce.Coordinator and cosmosrest.Client pointed at an in-process
// LCD stub, exercising Dispense's classify -> balance -> plan -> submit ->
// record chain end to end rather than stopping at the early returns.
func newCosmosWiredDispatcher(t *testing.T, stub *cosmosLCDStub) (*Dispatcher, string) {
	t.Helper()
	srv := stub.server()
	t.Cleanup(srv.Close)

	limiter, err := ratelimit.Open(
		filepath.Join(t.TempDir(), "rl.db"),
		ratelimit.Config{AddrWindow: time.Hour, AddrLimit: 1, IPWindow: time.Hour, IPLimit: 5},
		zerolog.Nop(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = limiter.Close() })

	cfg := config.Config{
		HRP:           "cosmos",
		PubkeyTypeURL: "/cosmos.evm.crypto.v1.ethsecp256k1.PubKey",
		CosmosChainID: "test-chain",
		Tokens: []config.TokenDescriptor{
			{Symbol: "A", CosmosDenom: stub.balanceDenom, PerRequestAmount: "1", TargetCeiling: "10"},
		},
		Fees: config.FeePolicy{CosmosGasPrice: "5000"},
	}

	km := keys.NewManager(zerolog.Nop())
	require.NoError(t, km.Initialize(testOperatorMnemonic))

	cosmosClient := cosmosrest.NewClient(srv.URL, 5*time.Second, zerolog.Nop())
	oracle := balance.New(nil, cosmosClient, cfg.HRP)
	coord := nonce.New(nil, cosmosClient, nil, km, cfg.CosmosChainID, 0, time.Second, 5*time.Second, 3, zerolog.Nop())

	d := New(cfg, address.NewClassifier(cfg.HRP), limiter, oracle, plan.New(), coord, km, nil, cosmosClient, zerolog.Nop())

	recipientAddr := common20Bytes(0x42)
	recipientBech32, err := bech32.ConvertAndEncode(cfg.HRP, recipientAddr)
	require.NoError(t, err)

	return d, recipientBech32
}

func common20Bytes(fill byte) []byte {
	b := make([]byte, 20)
	for i := range b {
		b[i] = fill
	}
	return b
}

// testOperatorMnemonic is the well-known BIP-39 test vector, distinct from
// the recipient address so the operator never dispenses to itself.
const testOperatorMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestDispenseCosmosSucceeds(t *testing.T) {
	d, recipient := newCosmosWiredDispatcher(t, &cosmosLCDStub{balanceDenom: "ua", broadcastCode: 0})

	result := d.Dispense(context.Background(), recipient, "1.2.3.4")
	require.Equal(t, StatusSuccess, result.Status)
	require.Equal(t, "TESTHASH", result.TxHash)
	require.Equal(t, uint64(90000), result.GasUsed)
	require.Len(t, result.Items, 1)
	require.True(t, result.Items[0].Sent)
}

func TestDispenseCosmosReportsSkippedWhenAlreadyFunded(t *testing.T) {
	stub := &cosmosLCDStub{balanceDenom: "ua"}
	d, recipient := newCosmosWiredDispatcher(t, stub)
	// Override the planner's view by requesting a ceiling the recipient
	// already meets: zero balance vs zero ceiling.
	d.cfg.Tokens[0].TargetCeiling = "0"

	result := d.Dispense(context.Background(), recipient, "1.2.3.4")
	require.Equal(t, StatusSkipped, result.Status)
	require.Equal(t, ferrors.CodeSufficientBalance, result.ErrorKind)
}

func TestDispenseCosmosReportsFailedWhenBroadcastRejected(t *testing.T) {
	d, recipient := newCosmosWiredDispatcher(t, &cosmosLCDStub{
		balanceDenom:  "ua",
		broadcastCode: 32,
		broadcastLog:  "account sequence mismatch",
	})

	result := d.Dispense(context.Background(), recipient, "1.2.3.4")
	require.Equal(t, StatusFailed, result.Status)
	require.Equal(t, ferrors.CodeNonceDrift, result.ErrorKind)
}
