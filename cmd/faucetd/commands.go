package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	sdkversion "github.com/cosmos/cosmos-sdk/version"
	"github.com/spf13/cobra"

	"github.com/pushchain/universal-faucet/internal/address"
	"github.com/pushchain/universal-faucet/internal/balance"
	"github.com/pushchain/universal-faucet/internal/chains/cosmosgrpc"
	"github.com/pushchain/universal-faucet/internal/chains/cosmosrest"
	"github.com/pushchain/universal-faucet/internal/chains/evmrpc"
	"github.com/pushchain/universal-faucet/internal/config"
	"github.com/pushchain/universal-faucet/internal/dispatch"
	"github.com/pushchain/universal-faucet/internal/keys"
	"github.com/pushchain/universal-faucet/internal/logger"
	"github.com/pushchain/universal-faucet/internal/nonce"
	"github.com/pushchain/universal-faucet/internal/plan"
	"github.com/pushchain/universal-faucet/internal/ratelimit"
)

// defaultHomeDir is this faucet's on-disk home, the same role
// constant.DefaultNodeHome plays for puniversald.
var defaultHomeDir = os.ExpandEnv("$HOME/") + ".faucetd"

func InitRootCmd(rootCmd *cobra.Command) {
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(dispenseCmd())
	rootCmd.AddCommand(inspectCmd())
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print faucetd version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Name:       %s\n", sdkversion.Name)
			fmt.Printf("App Name:   %s\n", sdkversion.AppName)
			fmt.Printf("Version:    %s\n", sdkversion.Version)
			fmt.Printf("Commit:     %s\n", sdkversion.Commit)
		},
	}
}

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file to the faucet home directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := defaultConfig()
			if err := config.Save(&cfg, defaultHomeDir); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Printf("config saved to %s/config/faucet_config.json\n", defaultHomeDir)
			fmt.Printf("set the %s environment variable before running dispense/inspect\n", config.MnemonicEnvVar)
			return nil
		},
	}
	return cmd
}

func dispenseCmd() *cobra.Command {
	var clientIP string

	cmd := &cobra.Command{
		Use:   "dispense [recipient]",
		Short: "Dispense configured tokens to a recipient address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, cleanup, err := buildDispatcher()
			if err != nil {
				return err
			}
			defer cleanup()

			result := d.Dispense(context.Background(), args[0], clientIP)
			return printJSON(result)
		},
	}
	cmd.Flags().StringVar(&clientIP, "client-ip", "127.0.0.1", "client IP attributed to this request for rate limiting")
	return cmd
}

func inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [recipient]",
		Short: "Report current/target balances for a recipient without dispensing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, cleanup, err := buildDispatcher()
			if err != nil {
				return err
			}
			defer cleanup()

			views, err := d.InspectBalance(context.Background(), args[0])
			if err != nil {
				return err
			}
			return printJSON(views)
		},
	}
	return cmd
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func defaultConfig() config.Config {
	return config.Config{
		LogLevel:      1,
		LogFormat:     "console",
		CosmosChainID: "push_4221-1",
		EvmChainID:    4221,
		HRP:           "cosmos",
		PubkeyTypeURL: "/cosmos.evm.crypto.v1.ethsecp256k1.PubKey",
		CosmosRest:    "http://localhost:1317",
		CosmosGRPC:    "localhost:9090",
		EvmJSONRPC:    "http://localhost:8545",
		Tokens: []config.TokenDescriptor{
			{
				Symbol:           "PC",
				Name:             "Push Coin",
				CosmosDenom:      "upc",
				Decimals:         6,
				Erc20Contract:    config.NativeViewSentinel,
				PerRequestAmount: "1000000",
				TargetCeiling:    "1000000000",
			},
		},
		AtomicBatchContract: "0x0000000000000000000000000000000000000000",
		RateLimit: config.RateLimitConfig{
			AddrWindow: 0,
			AddrLimit:  0,
			IPWindow:   0,
			IPLimit:    0,
		},
		Fees: config.FeePolicy{
			CosmosGasPrice:    "5000",
			EvmPriorityFeeCap: "2000000000",
			EvmGasLimitBatch:  300000,
		},
		RatelimitStorePath: defaultHomeDir + "/ratelimit.db",
	}
}

// buildDispatcher is the composition root: load config and secrets, dial
// both chains, initialize the operator key, and wire every component into
// a Dispatcher. Returned cleanup releases the operator key and chain
// connections.
func buildDispatcher() (*dispatch.Dispatcher, func(), error) {
	cfg, err := config.Load(defaultHomeDir)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	mnemonic, err := config.Mnemonic()
	if err != nil {
		return nil, nil, fmt.Errorf("load operator mnemonic: %w", err)
	}

	log := logger.Init(cfg)

	km := keys.NewManager(log)
	if err := km.Initialize(mnemonic); err != nil {
		return nil, nil, fmt.Errorf("initialize operator key: %w", err)
	}

	ctx := context.Background()
	evmClient, err := evmrpc.NewClient(ctx, cfg.EvmJSONRPC, cfg.EvmChainID, cfg.NetworkTimeout, log)
	if err != nil {
		km.Shutdown()
		return nil, nil, fmt.Errorf("dial evm endpoint: %w", err)
	}

	cosmosClient := cosmosrest.NewClient(cfg.CosmosRest, cfg.NetworkTimeout, log)

	// cosmosGRPC is the optional fallback path named in spec §6: only dialed
	// when an endpoint is actually configured, since most deployments run
	// REST-only.
	var cosmosGRPCClient *cosmosgrpc.Client
	if cfg.CosmosGRPC != "" {
		cosmosGRPCClient, err = cosmosgrpc.New(cfg.CosmosGRPC, log)
		if err != nil {
			log.Warn().Err(err).Msg("cosmos grpc endpoint configured but dial failed, continuing rest-only")
			cosmosGRPCClient = nil
		}
	}

	classifier := address.NewClassifier(cfg.HRP)
	oracle := balance.New(evmClient, cosmosClient, cfg.HRP)
	planner := plan.New()

	limiter, err := ratelimit.Open(cfg.RatelimitStorePath, ratelimit.Config{
		AddrWindow: cfg.RateLimit.AddrWindow,
		AddrLimit:  cfg.RateLimit.AddrLimit,
		IPWindow:   cfg.RateLimit.IPWindow,
		IPLimit:    cfg.RateLimit.IPLimit,
	}, log)
	if err != nil {
		evmClient.Close()
		km.Shutdown()
		return nil, nil, fmt.Errorf("open ratelimit store: %w", err)
	}

	coord := nonce.New(evmClient, cosmosClient, cosmosGRPCClient, km, cfg.CosmosChainID, cfg.Fees.CosmosGasBuffer, cfg.MutexTimeout, cfg.ReceiptTimeout, cfg.MaxSubmitAttempts, log)

	d := dispatch.New(cfg, classifier, limiter, oracle, planner, coord, km, evmClient, cosmosClient, log)

	cleanup := func() {
		_ = limiter.Close()
		evmClient.Close()
		if cosmosGRPCClient != nil {
			_ = cosmosGRPCClient.Close()
		}
		km.Shutdown()
	}

	return d, cleanup, nil
}
