// Package nonce implements NonceCoordinator: one mutex per interface,
// acquired before fetching chain state and released only after the
// submission reaches a terminal state, per spec §4.6. The retry-with-bounded-
// attempts loop for nonce/sequence drift mirrors
// universalClient/tx.Broadcaster's resubmission pattern.
package nonce

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"

	"github.com/pushchain/universal-faucet/internal/chains/cosmosgrpc"
	"github.com/pushchain/universal-faucet/internal/chains/cosmosrest"
	"github.com/pushchain/universal-faucet/internal/chains/evmrpc"
	"github.com/pushchain/universal-faucet/internal/contracts/atomicbatch"
	"github.com/pushchain/universal-faucet/internal/ferrors"
	"github.com/pushchain/universal-faucet/internal/keys"
)

// State names the submission state machine's positions, per §4.6:
// Acquired -> StateFetched -> Signed -> Broadcast -> {Confirmed|Rejected|TimedOut}.
type State int

const (
	StateAcquired State = iota
	StateFetched
	StateSigned
	StateBroadcast
	StateConfirmed
	StateRejected
	StateTimedOut
)

// EvmSubmission is everything NonceCoordinator needs to submit one atomic
// multi-send batch.
type EvmSubmission struct {
	Recipient     common.Address
	BatchContract common.Address
	Transfers     []atomicbatch.AtomicMultiSendTransfer
	NativeValue   *big.Int
	GasLimit      uint64
	PriorityFeeCap *big.Int
}

// EvmResult is the outcome of a successful EVM submission.
type EvmResult struct {
	TxHash  string
	GasUsed uint64
}

// CosmosSubmission is everything NonceCoordinator needs to submit one
// single-signed MsgSend batch.
type CosmosSubmission struct {
	FromBech32    string
	ToBech32      string
	Transfers     []cosmosrest.BankTransfer
	PubkeyTypeURL string
	FeeDenom      string
	FeeAmount     string
	GasLimit      uint64
}

// CosmosResult is the outcome of a successful Cosmos submission.
type CosmosResult struct {
	TxHash  string
	GasUsed uint64
}

// evmChain is the slice of evmrpc.Client that submitEvmOnce drives. Extracted
// so coordinator_test.go can exercise the retry loop against a fake instead
// of a live JSON-RPC endpoint.
type evmChain interface {
	PendingNonce(ctx context.Context, addr common.Address) (uint64, error)
	SuggestFees(ctx context.Context, priorityFeeCap *big.Int) (evmrpc.Fees, error)
	BuildAtomicMultiSend(nonce uint64, batchContract, recipient common.Address, transfers []atomicbatch.AtomicMultiSendTransfer, nativeValue *big.Int, gasLimit uint64, fees evmrpc.Fees) (*gethtypes.Transaction, error)
	SignAndBroadcast(ctx context.Context, km *keys.Manager, unsigned *gethtypes.Transaction) (*gethtypes.Transaction, error)
	WaitReceipt(ctx context.Context, signed *gethtypes.Transaction) (*gethtypes.Receipt, error)
}

// cosmosPrimary is the slice of cosmosrest.Client that submitCosmosOnce
// drives directly: account lookup, signing, simulation, and broadcast.
// *cosmosrest.Client satisfies this without any change.
type cosmosPrimary interface {
	GetAccount(ctx context.Context, bech32Addr string) (cosmosrest.Account, error)
	BuildAndSignMsgSendBatch(km *keys.Manager, pubkeyTypeURL, fromBech32, toBech32 string, transfers []cosmosrest.BankTransfer, chainID string, accountNumber, sequence uint64, feeDenom, feeAmount string, gasLimit uint64) ([]byte, error)
	Broadcast(ctx context.Context, txBytes []byte) (cosmosrest.BroadcastResult, error)
	Simulate(ctx context.Context, txBytes []byte) (uint64, error)
}

// cosmosFallback is the narrower gRPC fallback path: just the two network
// calls the REST client also exposes, reshaped to the same result types
// (§12's supplemented Cosmos gRPC alternative). *cosmosgrpc.Client satisfies
// this without any change.
type cosmosFallback interface {
	GetAccount(ctx context.Context, bech32Addr string) (cosmosrest.Account, error)
	BroadcastTx(ctx context.Context, txBytes []byte) (cosmosrest.BroadcastResult, error)
}

// Coordinator serializes submissions per interface behind two independent
// binary semaphores, so EVM and Cosmos dispenses can proceed simultaneously
// (disjoint nonce spaces), per §5. A buffered channel is used instead of
// sync.Mutex because acquisition must respect a timeout (§5's backpressure
// note) without leaking a goroutine permanently blocked on Lock().
type Coordinator struct {
	evmSem    chan struct{}
	cosmosSem chan struct{}

	evm        evmChain
	cosmos     cosmosPrimary
	cosmosGRPC cosmosFallback
	km         *keys.Manager

	cosmosChainID     string
	cosmosGasBuffer   float64
	mutexTimeout      time.Duration
	receiptTimeout    time.Duration
	maxSubmitAttempts int
	retryBackoff      time.Duration

	log zerolog.Logger
}

// New builds a Coordinator bound to both chain clients and the operator key.
// cosmosGRPC is optional (nil when the faucet isn't configured with a
// cosmosGrpc endpoint, per §6): when set, it is tried after the REST path
// fails rather than in place of it, since the REST client also understands
// the ethermint EthAccount account shape that the gRPC fallback does not.
func New(evm *evmrpc.Client, cosmos *cosmosrest.Client, cosmosGRPC *cosmosgrpc.Client, km *keys.Manager, cosmosChainID string, cosmosGasBuffer float64, mutexTimeout, receiptTimeout time.Duration, maxSubmitAttempts int, log zerolog.Logger) *Coordinator {
	c := &Coordinator{
		evmSem:            make(chan struct{}, 1),
		cosmosSem:         make(chan struct{}, 1),
		evm:               evm,
		cosmos:            cosmos,
		km:                km,
		cosmosChainID:     cosmosChainID,
		cosmosGasBuffer:   cosmosGasBuffer,
		mutexTimeout:      mutexTimeout,
		receiptTimeout:    receiptTimeout,
		maxSubmitAttempts: maxSubmitAttempts,
		retryBackoff:      500 * time.Millisecond,
		log:               log.With().Str("component", "nonce").Logger(),
	}
	// Assigned only when non-nil: storing a nil *cosmosgrpc.Client directly
	// in the cosmosFallback interface field would make c.cosmosGRPC == nil
	// false (a typed-nil interface), breaking the "no fallback configured"
	// check in fetchCosmosAccount/broadcastCosmos.
	if cosmosGRPC != nil {
		c.cosmosGRPC = cosmosGRPC
	}
	return c
}

// SubmitEvm assembles, signs, broadcasts, and confirms one atomicMultiSend
// call, retrying on nonce drift up to maxSubmitAttempts times.
func (c *Coordinator) SubmitEvm(ctx context.Context, sub EvmSubmission) (EvmResult, error) {
	if !c.acquire(ctx, c.evmSem) {
		return EvmResult{}, ferrors.New(ferrors.CodeBusy, "timed out acquiring evm nonce mutex")
	}
	defer c.release(c.evmSem)

	var lastErr error
	for attempt := 1; attempt <= c.maxSubmitAttempts; attempt++ {
		result, err := c.submitEvmOnce(ctx, sub)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if ferrors.CodeOf(err) != ferrors.CodeNonceDrift {
			return EvmResult{}, err
		}
		c.log.Warn().Int("attempt", attempt).Err(err).Msg("evm nonce drift, retrying")
		time.Sleep(c.retryBackoff * time.Duration(attempt))
	}
	return EvmResult{}, ferrors.Wrap(ferrors.CodeNonceDrift, lastErr, "evm submission exhausted retry attempts")
}

func (c *Coordinator) submitEvmOnce(ctx context.Context, sub EvmSubmission) (EvmResult, error) {
	operatorAddr := c.km.EvmAddress()

	nonce, err := c.evm.PendingNonce(ctx, operatorAddr)
	if err != nil {
		return EvmResult{}, ferrors.Wrap(ferrors.CodeInternal, err, "fetch evm pending nonce")
	}

	fees, err := c.evm.SuggestFees(ctx, sub.PriorityFeeCap)
	if err != nil {
		return EvmResult{}, err
	}

	unsigned, err := c.evm.BuildAtomicMultiSend(nonce, sub.BatchContract, sub.Recipient, sub.Transfers, sub.NativeValue, sub.GasLimit, fees)
	if err != nil {
		return EvmResult{}, err
	}

	signed, err := c.evm.SignAndBroadcast(ctx, c.km, unsigned)
	if err != nil {
		return EvmResult{}, err
	}

	receiptCtx, cancel := context.WithTimeout(ctx, c.receiptTimeout)
	defer cancel()
	receipt, err := c.evm.WaitReceipt(receiptCtx, signed)
	if err != nil {
		return EvmResult{}, err
	}

	return EvmResult{TxHash: signed.Hash().Hex(), GasUsed: receipt.GasUsed}, nil
}

// SubmitCosmos assembles, signs, and broadcasts (SYNC mode) one
// single-signed MsgSend batch, retrying on sequence drift up to
// maxSubmitAttempts times. It returns once the broadcast is accepted; block
// inclusion is not awaited.
func (c *Coordinator) SubmitCosmos(ctx context.Context, sub CosmosSubmission) (CosmosResult, error) {
	if !c.acquire(ctx, c.cosmosSem) {
		return CosmosResult{}, ferrors.New(ferrors.CodeBusy, "timed out acquiring cosmos nonce mutex")
	}
	defer c.release(c.cosmosSem)

	var lastErr error
	for attempt := 1; attempt <= c.maxSubmitAttempts; attempt++ {
		result, err := c.submitCosmosOnce(ctx, sub)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if ferrors.CodeOf(err) != ferrors.CodeNonceDrift {
			return CosmosResult{}, err
		}
		c.log.Warn().Int("attempt", attempt).Err(err).Msg("cosmos sequence drift, retrying")
		time.Sleep(c.retryBackoff * time.Duration(attempt))
	}
	return CosmosResult{}, ferrors.Wrap(ferrors.CodeNonceDrift, lastErr, "cosmos submission exhausted retry attempts")
}

func (c *Coordinator) submitCosmosOnce(ctx context.Context, sub CosmosSubmission) (CosmosResult, error) {
	account, err := c.fetchCosmosAccount(ctx, sub.FromBech32)
	if err != nil {
		return CosmosResult{}, ferrors.Wrap(ferrors.CodeInternal, err, "fetch cosmos account")
	}

	// estimatedGasLimit signs its own probe tx to drive Simulate; SIGN_MODE_DIRECT's
	// AuthInfo (and so the sign bytes) embeds the gas limit/fee, so the final
	// tx below must be signed again once the buffered limit is known.
	gasLimit := c.estimatedGasLimit(ctx, c.km, sub, account)

	txBytes, err := c.cosmos.BuildAndSignMsgSendBatch(
		c.km, sub.PubkeyTypeURL, sub.FromBech32, sub.ToBech32, sub.Transfers,
		c.cosmosChainID, account.AccountNumber, account.Sequence,
		sub.FeeDenom, sub.FeeAmount, gasLimit,
	)
	if err != nil {
		return CosmosResult{}, err
	}

	result, err := c.broadcastCosmos(ctx, txBytes)
	if err != nil {
		return CosmosResult{}, err
	}

	return CosmosResult{TxHash: result.TxHash, GasUsed: result.GasUsed}, nil
}

// fetchCosmosAccount tries the REST path first and falls back to gRPC
// (when configured) only on failure, since REST additionally understands
// the ethermint EthAccount shape that the gRPC fallback does not.
func (c *Coordinator) fetchCosmosAccount(ctx context.Context, bech32Addr string) (cosmosrest.Account, error) {
	account, err := c.cosmos.GetAccount(ctx, bech32Addr)
	if err == nil {
		return account, nil
	}
	if c.cosmosGRPC == nil {
		return cosmosrest.Account{}, err
	}
	c.log.Warn().Err(err).Msg("cosmos rest account query failed, falling back to grpc")
	return c.cosmosGRPC.GetAccount(ctx, bech32Addr)
}

// broadcastCosmos tries the REST path first and falls back to gRPC (when
// configured) only on a transport/internal failure; an ABCI-level rejection
// (sequence mismatch, insufficient funds, etc) is a real answer from the
// chain and is returned as-is rather than retried against the other
// transport.
func (c *Coordinator) broadcastCosmos(ctx context.Context, txBytes []byte) (cosmosrest.BroadcastResult, error) {
	result, err := c.cosmos.Broadcast(ctx, txBytes)
	if err == nil || ferrors.CodeOf(err) != ferrors.CodeInternal || c.cosmosGRPC == nil {
		return result, err
	}
	c.log.Warn().Err(err).Msg("cosmos rest broadcast failed, falling back to grpc")
	return c.cosmosGRPC.BroadcastTx(ctx, txBytes)
}

// estimatedGasLimit simulates the batch at sub.GasLimit and scales the
// observed gas by cosmosGasBuffer, per §10's fee policy. Simulate failures
// (e.g. the REST endpoint being unreachable) fall back to sub.GasLimit
// unscaled rather than blocking the submission on an estimate.
func (c *Coordinator) estimatedGasLimit(ctx context.Context, km *keys.Manager, sub CosmosSubmission, account cosmosrest.Account) uint64 {
	if c.cosmosGasBuffer <= 0 {
		return sub.GasLimit
	}

	probeBytes, err := c.cosmos.BuildAndSignMsgSendBatch(
		km, sub.PubkeyTypeURL, sub.FromBech32, sub.ToBech32, sub.Transfers,
		c.cosmosChainID, account.AccountNumber, account.Sequence,
		sub.FeeDenom, sub.FeeAmount, sub.GasLimit,
	)
	if err != nil {
		return sub.GasLimit
	}

	gasUsed, err := c.cosmos.Simulate(ctx, probeBytes)
	if err != nil || gasUsed == 0 {
		return sub.GasLimit
	}

	buffered := uint64(float64(gasUsed) * c.cosmosGasBuffer)
	// Floored at gasUsed as well as sub.GasLimit: a buffer below 1.0 must
	// never return less gas than Simulate just measured as required.
	if buffered < gasUsed {
		buffered = gasUsed
	}
	if buffered < sub.GasLimit {
		return sub.GasLimit
	}
	return buffered
}

// acquire takes sem's single slot within mutexTimeout, never leaking a
// pending acquisition: on timeout or context cancellation it simply gives up
// without having touched sem.
func (c *Coordinator) acquire(ctx context.Context, sem chan struct{}) bool {
	select {
	case sem <- struct{}{}:
		return true
	case <-time.After(c.mutexTimeout):
		return false
	case <-ctx.Done():
		return false
	}
}

func (c *Coordinator) release(sem chan struct{}) {
	<-sem
}
