// Package balance implements BalanceOracle: reading per-token current
// balances for a classified recipient across either interface, per spec
// §4.3. EVM-kind reads fan out one eth_getBalance plus one eth_call per
// ERC-20 token concurrently; Cosmos-kind reads resolve in a single REST
// call. Per-token failures degrade to "unknown" rather than failing the
// whole read, mirroring universalClient/chains/evm's per-call error
// isolation.
package balance

import (
	"context"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/pushchain/universal-faucet/internal/address"
	"github.com/pushchain/universal-faucet/internal/chains/cosmosrest"
	"github.com/pushchain/universal-faucet/internal/chains/evmrpc"
	"github.com/pushchain/universal-faucet/internal/config"
	"github.com/pushchain/universal-faucet/internal/ferrors"
)

// Reading is one token's balance read outcome. Unavailable is set when the
// per-token read failed but the overall call otherwise succeeded; Current
// is nil in that case.
type Reading struct {
	Symbol      string
	Current     *big.Int
	Unavailable bool
}

// Oracle reads token balances over both interfaces.
type Oracle struct {
	evm    *evmrpc.Client
	cosmos *cosmosrest.Client
	hrp    string
}

// New builds an Oracle bound to both chain clients.
func New(evm *evmrpc.Client, cosmos *cosmosrest.Client, hrp string) *Oracle {
	return &Oracle{evm: evm, cosmos: cosmos, hrp: hrp}
}

// Read returns a map of token symbol -> Reading for recipient, covering
// every token in tokens. It fails only when every endpoint needed for
// recipient's interface is unreachable; individual token failures surface
// as Reading.Unavailable instead of a returned error.
func (o *Oracle) Read(ctx context.Context, recipient address.Recipient, tokens []config.TokenDescriptor) (map[string]Reading, error) {
	switch recipient.Kind {
	case address.KindCosmos:
		return o.readCosmos(ctx, recipient, tokens)
	case address.KindEVM:
		return o.readEVM(ctx, recipient, tokens)
	default:
		return nil, ferrors.New(ferrors.CodeInvalidAddress, "cannot read balance for invalid recipient")
	}
}

func (o *Oracle) readCosmos(ctx context.Context, recipient address.Recipient, tokens []config.TokenDescriptor) (map[string]Reading, error) {
	balances, err := o.cosmos.GetBalances(ctx, recipient.Bech32)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.CodeBalanceQueryFail, err, "cosmos rest balances query")
	}

	out := make(map[string]Reading, len(tokens))
	for _, tok := range tokens {
		amt, ok := balances[tok.CosmosDenom]
		if !ok {
			// Absent denom means a true zero balance for a Cosmos-kind
			// recipient (ERC20-only tokens have no cosmos denom and are
			// reported as zero, per §4.3).
			amt = big.NewInt(0)
		}
		out[tok.Symbol] = Reading{Symbol: tok.Symbol, Current: amt}
	}
	return out, nil
}

func (o *Oracle) readEVM(ctx context.Context, recipient address.Recipient, tokens []config.TokenDescriptor) (map[string]Reading, error) {
	type result struct {
		symbol string
		amt    *big.Int
		err    error
	}

	results := make([]result, len(tokens))
	var wg sync.WaitGroup
	var anyReachable sync.Map // symbol -> true once a read (success or revert) reaches the node

	for i, tok := range tokens {
		wg.Add(1)
		go func(i int, tok config.TokenDescriptor) {
			defer wg.Done()
			var amt *big.Int
			var err error
			if tok.IsNativeView() {
				amt, err = o.evm.NativeBalance(ctx, recipient.Hex20)
			} else {
				amt, err = o.evm.ERC20BalanceOf(ctx, common.HexToAddress(tok.Erc20Contract), recipient.Hex20)
			}
			if err == nil || strings.Contains(err.Error(), "execution reverted") {
				anyReachable.Store(tok.Symbol, true)
			}
			results[i] = result{symbol: tok.Symbol, amt: amt, err: err}
		}(i, tok)
	}
	wg.Wait()

	reachedAny := false
	anyReachable.Range(func(_, _ interface{}) bool {
		reachedAny = true
		return false
	})
	if !reachedAny && len(tokens) > 0 {
		return nil, ferrors.New(ferrors.CodeBalanceQueryFail, "all evm balance endpoints unreachable")
	}

	out := make(map[string]Reading, len(tokens))
	for _, r := range results {
		if r.err != nil {
			out[r.symbol] = Reading{Symbol: r.symbol, Unavailable: true}
			continue
		}
		out[r.symbol] = Reading{Symbol: r.symbol, Current: r.amt}
	}
	return out, nil
}
