package main

import (
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "faucetd",
		Short: "Dual-interface testnet faucet daemon",
	}

	InitRootCmd(rootCmd)

	return rootCmd
}
