package main

import (
	"fmt"
	"os"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	setupSDKConfig()

	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.OutOrStderr(), err)
		os.Exit(1)
	}
}

// setupSDKConfig seals the process-wide bech32 prefix and coin-type config
// cosmos-sdk's address codecs read from, matching the operator HRP this
// faucet dispenses to.
func setupSDKConfig() {
	config := sdk.GetConfig()
	config.SetBech32PrefixForAccount(defaultHRP, defaultHRP+"pub")
	config.SetBech32PrefixForValidator(defaultHRP+"valoper", defaultHRP+"valoperpub")
	config.SetBech32PrefixForConsensusNode(defaultHRP+"valcons", defaultHRP+"valconspub")
	config.SetCoinType(60)
	config.Seal()
}

const defaultHRP = "cosmos"
