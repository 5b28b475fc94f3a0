package nonce

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/pushchain/universal-faucet/internal/chains/cosmosrest"
	"github.com/pushchain/universal-faucet/internal/chains/evmrpc"
	"github.com/pushchain/universal-faucet/internal/contracts/atomicbatch"
	"github.com/pushchain/universal-faucet/internal/ferrors"
	"github.com/pushchain/universal-faucet/internal/keys"
)

// testMnemonic is the same well-known BIP-39 test vector used by
// internal/keys's own tests.
const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func newTestManager(t *testing.T) *keys.Manager {
	t.Helper()
	m := keys.NewManager(zerolog.Nop())
	require.NoError(t, m.Initialize(testMnemonic))
	return m
}

// newTestCoordinator builds a Coordinator by struct literal rather than New,
// so fakes satisfying evmChain/cosmosPrimary/cosmosFallback can be injected
// directly and retryBackoff can be shrunk to keep retry tests fast.
func newTestCoordinator(km *keys.Manager) *Coordinator {
	return &Coordinator{
		evmSem:            make(chan struct{}, 1),
		cosmosSem:         make(chan struct{}, 1),
		km:                km,
		cosmosChainID:     "test-chain",
		mutexTimeout:      time.Second,
		receiptTimeout:    time.Second,
		maxSubmitAttempts: 3,
		retryBackoff:      time.Millisecond,
		log:               zerolog.Nop(),
	}
}

func TestAcquireTimesOutWhenSemaphoreHeld(t *testing.T) {
	c := newTestCoordinator(nil)
	c.mutexTimeout = 50 * time.Millisecond

	require.True(t, c.acquire(context.Background(), c.evmSem))
	defer c.release(c.evmSem)

	ok := c.acquire(context.Background(), c.evmSem)
	require.False(t, ok)
}

func TestAcquireSucceedsAfterRelease(t *testing.T) {
	c := newTestCoordinator(nil)
	c.mutexTimeout = 50 * time.Millisecond

	require.True(t, c.acquire(context.Background(), c.cosmosSem))
	c.release(c.cosmosSem)

	require.True(t, c.acquire(context.Background(), c.cosmosSem))
	c.release(c.cosmosSem)
}

func TestAcquireRespectsContextCancellation(t *testing.T) {
	c := newTestCoordinator(nil)
	require.True(t, c.acquire(context.Background(), c.evmSem))
	defer c.release(c.evmSem)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok := c.acquire(ctx, c.evmSem)
	require.False(t, ok)
}

// fakeEvmChain fails only at PendingNonce; every later stage of
// submitEvmOnce succeeds. failUntilAttempt makes PendingNonce report nonce
// drift on the first N
// calls and succeed after, mirroring a node observing a stale nonce.
type fakeEvmChain struct {
	calls            int
	failUntilAttempt int
	alwaysNonceDrift bool
}

func (f *fakeEvmChain) PendingNonce(ctx context.Context, addr common.Address) (uint64, error) {
	f.calls++
	if f.alwaysNonceDrift || f.calls <= f.failUntilAttempt {
		return 0, ferrors.New(ferrors.CodeNonceDrift, "nonce too low")
	}
	return 7, nil
}

func (f *fakeEvmChain) SuggestFees(ctx context.Context, priorityFeeCap *big.Int) (evmrpc.Fees, error) {
	return evmrpc.Fees{TipCap: big.NewInt(1), FeeCap: big.NewInt(2)}, nil
}

func (f *fakeEvmChain) BuildAtomicMultiSend(nonce uint64, batchContract, recipient common.Address, transfers []atomicbatch.AtomicMultiSendTransfer, nativeValue *big.Int, gasLimit uint64, fees evmrpc.Fees) (*gethtypes.Transaction, error) {
	return gethtypes.NewTx(&gethtypes.LegacyTx{Nonce: nonce, Gas: gasLimit, To: &batchContract}), nil
}

func (f *fakeEvmChain) SignAndBroadcast(ctx context.Context, km *keys.Manager, unsigned *gethtypes.Transaction) (*gethtypes.Transaction, error) {
	return unsigned, nil
}

func (f *fakeEvmChain) WaitReceipt(ctx context.Context, signed *gethtypes.Transaction) (*gethtypes.Receipt, error) {
	return &gethtypes.Receipt{GasUsed: 21000}, nil
}

func testEvmSubmission() EvmSubmission {
	return EvmSubmission{
		Recipient:     common.HexToAddress("0x1111111111111111111111111111111111111111"),
		BatchContract: common.HexToAddress("0x2222222222222222222222222222222222222222"),
		GasLimit:      300000,
	}
}

func TestSubmitEvmRetriesOnNonceDriftThenSucceeds(t *testing.T) {
	km := newTestManager(t)
	fake := &fakeEvmChain{failUntilAttempt: 1}
	c := newTestCoordinator(km)
	c.evm = fake

	result, err := c.SubmitEvm(context.Background(), testEvmSubmission())
	require.NoError(t, err)
	require.Equal(t, uint64(21000), result.GasUsed)
	require.Equal(t, 2, fake.calls)
}

func TestSubmitEvmGivesUpAfterMaxAttempts(t *testing.T) {
	km := newTestManager(t)
	fake := &fakeEvmChain{alwaysNonceDrift: true}
	c := newTestCoordinator(km)
	c.evm = fake

	_, err := c.SubmitEvm(context.Background(), testEvmSubmission())
	require.Error(t, err)
	require.Equal(t, ferrors.CodeNonceDrift, ferrors.CodeOf(err))
	require.Equal(t, c.maxSubmitAttempts, fake.calls)
}

// fakeCosmosPrimary drives submitCosmosOnce's REST path. broadcastErrs is
// consumed in order, one entry per Broadcast call, so a retry scenario can
// fail N times and then succeed.
type fakeCosmosPrimary struct {
	getAccountCalls int
	getAccountErr   error
	account         cosmosrest.Account

	buildErr error

	broadcastCalls int
	broadcastErrs  []error
	broadcastOK    cosmosrest.BroadcastResult
}

func (f *fakeCosmosPrimary) GetAccount(ctx context.Context, bech32Addr string) (cosmosrest.Account, error) {
	f.getAccountCalls++
	return f.account, f.getAccountErr
}

func (f *fakeCosmosPrimary) BuildAndSignMsgSendBatch(km *keys.Manager, pubkeyTypeURL, fromBech32, toBech32 string, transfers []cosmosrest.BankTransfer, chainID string, accountNumber, sequence uint64, feeDenom, feeAmount string, gasLimit uint64) ([]byte, error) {
	if f.buildErr != nil {
		return nil, f.buildErr
	}
	return []byte("signed-tx"), nil
}

func (f *fakeCosmosPrimary) Broadcast(ctx context.Context, txBytes []byte) (cosmosrest.BroadcastResult, error) {
	idx := f.broadcastCalls
	f.broadcastCalls++
	if idx < len(f.broadcastErrs) && f.broadcastErrs[idx] != nil {
		return cosmosrest.BroadcastResult{}, f.broadcastErrs[idx]
	}
	return f.broadcastOK, nil
}

func (f *fakeCosmosPrimary) Simulate(ctx context.Context, txBytes []byte) (uint64, error) {
	return 0, nil
}

// fakeCosmosFallback drives the gRPC fallback path.
type fakeCosmosFallback struct {
	getAccountCalls int
	account         cosmosrest.Account
	getAccountErr   error

	broadcastCalls int
	broadcastOK    cosmosrest.BroadcastResult
	broadcastErr   error
}

func (f *fakeCosmosFallback) GetAccount(ctx context.Context, bech32Addr string) (cosmosrest.Account, error) {
	f.getAccountCalls++
	return f.account, f.getAccountErr
}

func (f *fakeCosmosFallback) BroadcastTx(ctx context.Context, txBytes []byte) (cosmosrest.BroadcastResult, error) {
	f.broadcastCalls++
	return f.broadcastOK, f.broadcastErr
}

func testCosmosSubmission() CosmosSubmission {
	return CosmosSubmission{
		FromBech32: "cosmos1from",
		ToBech32:   "cosmos1to",
		GasLimit:   200000,
	}
}

func TestSubmitCosmosRetriesOnSequenceMismatchThenSucceeds(t *testing.T) {
	km := newTestManager(t)
	primary := &fakeCosmosPrimary{
		account:       cosmosrest.Account{AccountNumber: 1, Sequence: 5},
		broadcastErrs: []error{ferrors.New(ferrors.CodeNonceDrift, "account sequence mismatch")},
		broadcastOK:   cosmosrest.BroadcastResult{TxHash: "abc123", GasUsed: 150000},
	}
	c := newTestCoordinator(km)
	c.cosmos = primary

	result, err := c.SubmitCosmos(context.Background(), testCosmosSubmission())
	require.NoError(t, err)
	require.Equal(t, "abc123", result.TxHash)
	require.Equal(t, 2, primary.broadcastCalls)
	require.Equal(t, 2, primary.getAccountCalls)
}

func TestSubmitCosmosGivesUpAfterMaxAttempts(t *testing.T) {
	km := newTestManager(t)
	driftErr := ferrors.New(ferrors.CodeNonceDrift, "account sequence mismatch")
	primary := &fakeCosmosPrimary{
		account:       cosmosrest.Account{AccountNumber: 1, Sequence: 5},
		broadcastErrs: []error{driftErr, driftErr, driftErr},
	}
	c := newTestCoordinator(km)
	c.cosmos = primary

	_, err := c.SubmitCosmos(context.Background(), testCosmosSubmission())
	require.Error(t, err)
	require.Equal(t, ferrors.CodeNonceDrift, ferrors.CodeOf(err))
	require.Equal(t, c.maxSubmitAttempts, primary.broadcastCalls)
}

func TestSubmitCosmosFallsBackToGRPCOnRestAccountFailure(t *testing.T) {
	km := newTestManager(t)
	primary := &fakeCosmosPrimary{
		getAccountErr: ferrors.New(ferrors.CodeInternal, "rest endpoint unreachable"),
		broadcastOK:   cosmosrest.BroadcastResult{TxHash: "def456", GasUsed: 120000},
	}
	fallback := &fakeCosmosFallback{
		account: cosmosrest.Account{AccountNumber: 2, Sequence: 9},
	}
	c := newTestCoordinator(km)
	c.cosmos = primary
	c.cosmosGRPC = fallback

	result, err := c.SubmitCosmos(context.Background(), testCosmosSubmission())
	require.NoError(t, err)
	require.Equal(t, "def456", result.TxHash)
	require.Equal(t, 1, primary.getAccountCalls)
	require.Equal(t, 1, fallback.getAccountCalls)
	require.Equal(t, 1, primary.broadcastCalls)
}

func TestSubmitCosmosBroadcastFallsBackToGRPCOnTransportFailure(t *testing.T) {
	km := newTestManager(t)
	primary := &fakeCosmosPrimary{
		account:       cosmosrest.Account{AccountNumber: 1, Sequence: 5},
		broadcastErrs: []error{ferrors.New(ferrors.CodeInternal, "connection reset")},
	}
	fallback := &fakeCosmosFallback{
		broadcastOK: cosmosrest.BroadcastResult{TxHash: "ghi789", GasUsed: 110000},
	}
	c := newTestCoordinator(km)
	c.cosmos = primary
	c.cosmosGRPC = fallback

	result, err := c.SubmitCosmos(context.Background(), testCosmosSubmission())
	require.NoError(t, err)
	require.Equal(t, "ghi789", result.TxHash)
	require.Equal(t, 1, primary.broadcastCalls)
	require.Equal(t, 1, fallback.broadcastCalls)
}
