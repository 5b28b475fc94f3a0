package config

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	configSubdir   = "config"
	configFileName = "faucet_config.json"
)

// validateConfig checks the §3 TokenDescriptor invariant (per-request-amount
// <= target-ceiling, decimals in [0,18]) and fills in the defaults the
// teacher's config layer fills in for its own knobs, adapted to this
// service's surface.
func validateConfig(cfg *Config) error {
	if cfg.LogLevel < 0 || cfg.LogLevel > 5 {
		return fmt.Errorf("log level must be between 0 and 5")
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return fmt.Errorf("log format must be 'json' or 'console'")
	}
	if cfg.HRP == "" {
		return fmt.Errorf("hrp is required")
	}
	if cfg.PubkeyTypeURL == "" {
		cfg.PubkeyTypeURL = "/cosmos.evm.crypto.v1.ethsecp256k1.PubKey"
	}
	if cfg.NetworkTimeout == 0 {
		cfg.NetworkTimeout = 10 * time.Second
	}
	if cfg.ReceiptTimeout == 0 {
		cfg.ReceiptTimeout = 60 * time.Second
	}
	if cfg.MutexTimeout == 0 {
		cfg.MutexTimeout = 15 * time.Second
	}
	if cfg.MaxSubmitAttempts == 0 {
		cfg.MaxSubmitAttempts = 3
	}
	if len(cfg.Tokens) == 0 {
		return fmt.Errorf("at least one token must be configured")
	}

	seen := make(map[string]bool, len(cfg.Tokens))
	for i := range cfg.Tokens {
		t := &cfg.Tokens[i]
		if t.Symbol == "" {
			return fmt.Errorf("token[%d]: symbol is required", i)
		}
		if seen[t.Symbol] {
			return fmt.Errorf("token[%d]: duplicate symbol %q", i, t.Symbol)
		}
		seen[t.Symbol] = true
		if t.Decimals > 18 {
			return fmt.Errorf("token %s: decimals must be in [0,18], got %d", t.Symbol, t.Decimals)
		}
		perReq, ok := new(big.Int).SetString(t.PerRequestAmount, 10)
		if !ok {
			return fmt.Errorf("token %s: perRequestAmount %q is not a valid integer", t.Symbol, t.PerRequestAmount)
		}
		target, ok := new(big.Int).SetString(t.TargetCeiling, 10)
		if !ok {
			return fmt.Errorf("token %s: targetCeiling %q is not a valid integer", t.Symbol, t.TargetCeiling)
		}
		if perReq.Cmp(target) > 0 {
			return fmt.Errorf("token %s: perRequestAmount %s exceeds targetCeiling %s", t.Symbol, perReq, target)
		}
		if t.Erc20Contract == "" {
			return fmt.Errorf("token %s: erc20Contract is required (use %s for native view)", t.Symbol, NativeViewSentinel)
		}
	}

	if cfg.RateLimit.AddrWindow == 0 {
		cfg.RateLimit.AddrWindow = 24 * time.Hour
	}
	if cfg.RateLimit.AddrLimit == 0 {
		cfg.RateLimit.AddrLimit = 1
	}
	if cfg.RateLimit.IPWindow == 0 {
		cfg.RateLimit.IPWindow = 24 * time.Hour
	}
	if cfg.RateLimit.IPLimit == 0 {
		cfg.RateLimit.IPLimit = 5
	}
	if cfg.RatelimitStorePath == "" {
		return fmt.Errorf("ratelimitStorePath is required")
	}
	if cfg.AtomicBatchContract == "" {
		return fmt.Errorf("atomicBatchContract is required")
	}

	return nil
}

// Save writes cfg to <basePath>/config/faucet_config.json, the way
// universalClient/config.Save does: 0o750 directory, 0o600 file, validated
// first. The operator mnemonic is never part of Config, so it never reaches
// this file.
func Save(cfg *Config, basePath string) error {
	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	configDir := filepath.Join(basePath, configSubdir)
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configDir, configFileName)
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Load reads and validates the config from <basePath>/config/faucet_config.json.
func Load(basePath string) (Config, error) {
	configFile := filepath.Join(basePath, configSubdir, configFileName)
	data, err := os.ReadFile(filepath.Clean(configFile))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validateConfig(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	cfg.BasePath = basePath
	return cfg, nil
}

// AmountsAsBigInt parses a TokenDescriptor's string amounts. Validate has
// already confirmed both parse, so errors here indicate the descriptor was
// mutated after load.
func (t TokenDescriptor) AmountsAsBigInt() (perRequest, target *big.Int, err error) {
	perRequest, ok := new(big.Int).SetString(t.PerRequestAmount, 10)
	if !ok {
		return nil, nil, fmt.Errorf("token %s: invalid perRequestAmount %q", t.Symbol, t.PerRequestAmount)
	}
	target, ok = new(big.Int).SetString(t.TargetCeiling, 10)
	if !ok {
		return nil, nil, fmt.Errorf("token %s: invalid targetCeiling %q", t.Symbol, t.TargetCeiling)
	}
	return perRequest, target, nil
}

// IsNativeView reports whether this descriptor's ERC-20 address is the
// native-token sentinel.
func (t TokenDescriptor) IsNativeView() bool {
	return strings.EqualFold(t.Erc20Contract, NativeViewSentinel)
}
