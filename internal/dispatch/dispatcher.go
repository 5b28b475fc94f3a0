// Package dispatch implements Dispatcher: the top-level orchestration of
// classify -> rate-check -> balance-read -> plan -> submit -> record, per
// spec §4.7. It is the composition root for the other six components, wired
// together as explicit struct fields rather than globals, per §9's design
// note on replacing global singletons with DI'd components.
package dispatch

import (
	"context"
	"math/big"
	"strings"
	"time"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/pushchain/universal-faucet/internal/address"
	"github.com/pushchain/universal-faucet/internal/balance"
	"github.com/pushchain/universal-faucet/internal/chains/cosmosrest"
	"github.com/pushchain/universal-faucet/internal/chains/evmrpc"
	"github.com/pushchain/universal-faucet/internal/config"
	"github.com/pushchain/universal-faucet/internal/contracts/atomicbatch"
	"github.com/pushchain/universal-faucet/internal/ferrors"
	"github.com/pushchain/universal-faucet/internal/keys"
	"github.com/pushchain/universal-faucet/internal/nonce"
	"github.com/pushchain/universal-faucet/internal/plan"
	"github.com/pushchain/universal-faucet/internal/ratelimit"
)

// Status is the outcome bucket of one Dispense call, per spec §3's
// TransactionResult.Status.
type Status string

const (
	StatusSuccess     Status = "success"
	StatusPartial     Status = "partial"
	StatusSkipped     Status = "skipped"
	StatusRateLimited Status = "rate-limited"
	StatusFailed      Status = "failed"
)

// ItemOutcome records whether one token's planned transfer was included in
// the broadcast transaction, skipped, and if so why.
type ItemOutcome struct {
	Symbol string
	Amount string
	Sent   bool
	Reason string
}

// TransactionResult is the full outcome of one Dispense call.
type TransactionResult struct {
	Status          Status
	TxHash          string
	GasUsed         uint64
	Items           []ItemOutcome
	ErrorKind       ferrors.Code
	RetryAt         time.Time
	ExplorerURLHint string
}

// TokenBalanceView is one token's current/target/decimals triple, returned
// by InspectBalance.
type TokenBalanceView struct {
	Current  string
	Target   string
	Decimals uint8
}

// Dispatcher wires together all six other components behind a single
// Dispense entry point (plus the read-only InspectBalance).
type Dispatcher struct {
	cfg        config.Config
	classifier *address.Classifier
	limiter    *ratelimit.Limiter
	oracle     *balance.Oracle
	planner    *plan.Planner
	coord      *nonce.Coordinator
	km         *keys.Manager
	evm        *evmrpc.Client
	cosmos     *cosmosrest.Client
	log        zerolog.Logger
}

// New builds a Dispatcher from its already-initialized dependencies.
func New(
	cfg config.Config,
	classifier *address.Classifier,
	limiter *ratelimit.Limiter,
	oracle *balance.Oracle,
	planner *plan.Planner,
	coord *nonce.Coordinator,
	km *keys.Manager,
	evm *evmrpc.Client,
	cosmos *cosmosrest.Client,
	log zerolog.Logger,
) *Dispatcher {
	return &Dispatcher{
		cfg:        cfg,
		classifier: classifier,
		limiter:    limiter,
		oracle:     oracle,
		planner:    planner,
		coord:      coord,
		km:         km,
		evm:        evm,
		cosmos:     cosmos,
		log:        log.With().Str("component", "dispatch").Logger(),
	}
}

// Dispense is the first inbound operation named in spec §6: classify, rate
// check, balance read, plan, route by kind, submit, record.
func (d *Dispatcher) Dispense(ctx context.Context, rawAddress, clientIP string) TransactionResult {
	recipient := d.classifier.Classify(rawAddress)
	if recipient.Kind == address.KindInvalid {
		return TransactionResult{Status: StatusFailed, ErrorKind: ferrors.CodeInvalidAddress}
	}

	addrKey := ratelimit.AddrKey(recipient.Hex20.Hex())
	ipKey := ratelimit.IPKey(clientIP)

	decision, err := d.limiter.Check(addrKey, ipKey, time.Now())
	if err != nil {
		d.log.Error().Err(err).Msg("rate limit check failed")
		return TransactionResult{Status: StatusFailed, ErrorKind: ferrors.CodeInternal}
	}
	if !decision.Allowed {
		return TransactionResult{Status: StatusRateLimited, ErrorKind: ferrors.CodeRateLimited, RetryAt: decision.RetryAt}
	}

	readings, err := d.oracle.Read(ctx, recipient, d.cfg.Tokens)
	if err != nil {
		d.log.Error().Err(err).Str("recipient", rawAddress).Msg("balance read failed")
		return TransactionResult{Status: StatusFailed, ErrorKind: ferrors.CodeBalanceQueryFail}
	}

	transferPlan, unavailable := d.planner.Plan(readings, d.cfg.Tokens)
	if transferPlan.Empty() {
		items := make([]ItemOutcome, 0, len(unavailable))
		for _, sym := range unavailable {
			items = append(items, ItemOutcome{Symbol: sym, Sent: false, Reason: "balance-unavailable"})
		}
		return TransactionResult{Status: StatusSkipped, ErrorKind: ferrors.CodeSufficientBalance, Items: items}
	}

	var result TransactionResult
	switch recipient.Kind {
	case address.KindEVM:
		result = d.submitEvm(ctx, recipient, transferPlan)
	case address.KindCosmos:
		result = d.submitCosmos(ctx, recipient, transferPlan)
	}

	for _, sym := range unavailable {
		result.Items = append(result.Items, ItemOutcome{Symbol: sym, Sent: false, Reason: "balance-unavailable"})
	}

	if result.Status == StatusSuccess || result.Status == StatusPartial {
		if err := d.limiter.Record(addrKey, ipKey, time.Now()); err != nil {
			d.log.Error().Err(err).Msg("rate limit record failed after successful dispense")
		}
	}

	return result
}

func (d *Dispatcher) submitEvm(ctx context.Context, recipient address.Recipient, p plan.Plan) TransactionResult {
	transfers := make([]atomicbatch.AtomicMultiSendTransfer, 0, len(p.Items))
	nativeValue := big.NewInt(0)
	items := make([]ItemOutcome, 0, len(p.Items))

	for _, item := range p.Items {
		if item.NativeView {
			transfers = append(transfers, atomicbatch.AtomicMultiSendTransfer{
				Token:  common.Address{},
				Amount: item.Amount,
			})
			nativeValue = new(big.Int).Add(nativeValue, item.Amount)
		} else {
			transfers = append(transfers, atomicbatch.AtomicMultiSendTransfer{
				Token:  common.HexToAddress(item.Erc20Contract),
				Amount: item.Amount,
			})
		}
		items = append(items, ItemOutcome{Symbol: item.Symbol, Amount: item.Amount.String(), Sent: true})
	}

	sub := nonce.EvmSubmission{
		Recipient:      recipient.Hex20,
		BatchContract:  common.HexToAddress(d.cfg.AtomicBatchContract),
		Transfers:      transfers,
		NativeValue:    nativeValue,
		GasLimit:       d.cfg.Fees.EvmGasLimitBatch,
		PriorityFeeCap: parseBigOrNil(d.cfg.Fees.EvmPriorityFeeCap),
	}

	res, err := d.coord.SubmitEvm(ctx, sub)
	if err != nil {
		d.log.Error().Err(err).Msg("evm submission failed")
		return TransactionResult{Status: StatusFailed, ErrorKind: ferrors.CodeOf(err)}
	}

	return TransactionResult{
		Status:  StatusSuccess,
		TxHash:  res.TxHash,
		GasUsed: res.GasUsed,
		Items:   items,
	}
}

func (d *Dispatcher) submitCosmos(ctx context.Context, recipient address.Recipient, p plan.Plan) TransactionResult {
	operatorBech32, err := d.km.CosmosAddress(d.cfg.HRP)
	if err != nil {
		d.log.Error().Err(err).Msg("derive operator bech32 address")
		return TransactionResult{Status: StatusFailed, ErrorKind: ferrors.CodeInternal}
	}

	transfers := make([]cosmosrest.BankTransfer, 0, len(p.Items))
	items := make([]ItemOutcome, 0, len(p.Items))
	for _, item := range p.Items {
		transfers = append(transfers, cosmosrest.BankTransfer{Denom: item.CosmosDenom, Amount: math.NewIntFromBigInt(item.Amount)})
		items = append(items, ItemOutcome{Symbol: item.Symbol, Amount: item.Amount.String(), Sent: true})
	}

	sub := nonce.CosmosSubmission{
		FromBech32:    operatorBech32,
		ToBech32:      recipient.Bech32,
		Transfers:     transfers,
		PubkeyTypeURL: d.cfg.PubkeyTypeURL,
		FeeDenom:      feeDenom(d.cfg.Tokens),
		FeeAmount:     d.cfg.Fees.CosmosGasPrice,
		GasLimit:      defaultCosmosGasLimit,
	}

	res, err := d.coord.SubmitCosmos(ctx, sub)
	if err != nil {
		d.log.Error().Err(err).Msg("cosmos submission failed")
		return TransactionResult{Status: StatusFailed, ErrorKind: ferrors.CodeOf(err)}
	}

	return TransactionResult{
		Status:  StatusSuccess,
		TxHash:  res.TxHash,
		GasUsed: res.GasUsed,
		Items:   items,
	}
}

// InspectBalance reports every configured token's current/target/decimals
// for recipient without submitting anything, the second inbound operation
// named in spec §6.
func (d *Dispatcher) InspectBalance(ctx context.Context, rawAddress string) (map[string]TokenBalanceView, error) {
	recipient := d.classifier.Classify(rawAddress)
	if recipient.Kind == address.KindInvalid {
		return nil, ferrors.New(ferrors.CodeInvalidAddress, "cannot inspect invalid recipient")
	}

	readings, err := d.oracle.Read(ctx, recipient, d.cfg.Tokens)
	if err != nil {
		return nil, err
	}

	out := make(map[string]TokenBalanceView, len(d.cfg.Tokens))
	for _, tok := range d.cfg.Tokens {
		reading := readings[tok.Symbol]
		current := "unknown"
		if !reading.Unavailable && reading.Current != nil {
			current = reading.Current.String()
		}
		out[tok.Symbol] = TokenBalanceView{Current: current, Target: tok.TargetCeiling, Decimals: tok.Decimals}
	}
	return out, nil
}

// Healthy reports whether both upstream chain clients are reachable.
func (d *Dispatcher) Healthy(ctx context.Context) error {
	if err := d.evm.IsHealthy(ctx); err != nil {
		return ferrors.Wrap(ferrors.CodeInternal, err, "evm client unhealthy")
	}
	if err := d.cosmos.IsHealthy(ctx); err != nil {
		return ferrors.Wrap(ferrors.CodeInternal, err, "cosmos client unhealthy")
	}
	return nil
}

const defaultCosmosGasLimit = 300000

func feeDenom(tokens []config.TokenDescriptor) string {
	for _, t := range tokens {
		if t.CosmosDenom != "" {
			return t.CosmosDenom
		}
	}
	return ""
}

func parseBigOrNil(s string) *big.Int {
	if s == "" {
		return nil
	}
	v, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return nil
	}
	return v
}
