package config

import "time"

// TokenDescriptor is the immutable-after-load description of one dispensed
// token. PerRequestAmount and TargetCeiling are expressed in the token's
// smallest unit.
type TokenDescriptor struct {
	Symbol            string `json:"symbol"`
	Name              string `json:"name"`
	CosmosDenom       string `json:"cosmosDenom"`
	Decimals          uint8  `json:"decimals"`
	Erc20Contract     string `json:"erc20Contract"`
	PerRequestAmount  string `json:"perRequestAmount"`
	TargetCeiling     string `json:"targetCeiling"`
	IBCSourceChannel  string `json:"ibcSourceChannel,omitempty"`
	IBCDenomTrace     string `json:"ibcDenomTrace,omitempty"`
}

// NativeViewSentinel is the ERC-20 contract address that denotes the
// native-token view of the batch contract rather than a real token
// contract.
const NativeViewSentinel = "0xEeEeEeEeEeEeEeEeEeEeEeEeEeEeEeEeEeEeEeEe"

// RateLimitConfig holds the per-family sliding-window parameters.
type RateLimitConfig struct {
	AddrWindow time.Duration `json:"addrWindow"`
	AddrLimit  int           `json:"addrLimit"`
	IPWindow   time.Duration `json:"ipWindow"`
	IPLimit    int           `json:"ipLimit"`
}

// FeePolicy holds the fee parameters for both interfaces.
type FeePolicy struct {
	CosmosGasPrice string `json:"cosmosGasPrice"`
	// CosmosGasBuffer multiplies the gas Simulate reports to size the real
	// submission's gas limit. 0 disables estimation (use the static batch
	// limit instead). The coordinator never submits less gas than Simulate
	// measured, so values below 1.0 are accepted but have no effect below
	// the measured floor.
	CosmosGasBuffer   float64 `json:"cosmosGasBuffer"`
	EvmPriorityFeeCap string  `json:"evmPriorityFeeCap"`
	EvmGasLimitBatch  uint64  `json:"evmGasLimitBatch"`
}

// Config is the full, immutable-after-load process configuration. It is
// loaded once at startup and shared read-only across every component.
type Config struct {
	LogLevel   int  `json:"logLevel"`
	LogFormat  string `json:"logFormat"`
	LogSampler bool `json:"logSampler"`

	CosmosChainID string `json:"cosmosChainId"`
	EvmChainID    uint64 `json:"evmChainId"`
	HRP           string `json:"hrp"`

	// PubkeyTypeURL is the ethermint-family pubkey type URL to emit in the
	// Cosmos AuthInfo. Overridable per §9's open question — chains in this
	// family have been observed using different URLs for the same wire
	// shape.
	PubkeyTypeURL string `json:"pubkeyTypeUrl"`

	CosmosRest string `json:"cosmosRest"`
	CosmosGRPC string `json:"cosmosGrpc"`
	CosmosRPC  string `json:"cosmosRpc"`
	EvmJSONRPC string `json:"evmJsonRpc"`
	EvmWS      string `json:"evmWs"`

	Tokens []TokenDescriptor `json:"tokens"`

	AtomicBatchContract string `json:"atomicBatchContract"`

	RateLimit RateLimitConfig `json:"rateLimit"`
	Fees      FeePolicy       `json:"fees"`

	RatelimitStorePath string `json:"ratelimitStorePath"`

	// NetworkTimeout bounds every individual network round trip (REST,
	// JSON-RPC, gRPC).
	NetworkTimeout time.Duration `json:"networkTimeout"`
	// ReceiptTimeout bounds how long NonceCoordinator waits for an EVM
	// receipt before reporting broadcast-timeout. The Cosmos path returns
	// once the SYNC broadcast is accepted and does not wait for inclusion.
	ReceiptTimeout time.Duration `json:"receiptTimeout"`
	// MutexTimeout bounds how long a submission waits to acquire the
	// per-interface NonceCoordinator mutex before failing busy.
	MutexTimeout time.Duration `json:"mutexTimeout"`
	// MaxSubmitAttempts bounds nonce/sequence-drift retries.
	MaxSubmitAttempts int `json:"maxSubmitAttempts"`

	// BasePath is not persisted to JSON; it records where this Config was
	// loaded from, for derived paths (keyring dir equivalents, etc).
	BasePath string `json:"-"`
}

// Validate enforces the cross-field invariants from spec §3 and fills in
// defaults the way universalClient/config.validateConfig does.
func (c *Config) Validate() error {
	return validateConfig(c)
}
