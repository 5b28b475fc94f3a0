package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// MnemonicEnvVar is the environment variable the operator mnemonic is read
// from. It is never part of the JSON config file.
const MnemonicEnvVar = "FAUCET_OPERATOR_MNEMONIC"

// LoadEnv loads a .env file from the current directory, walking up to five
// parent directories the way utils/env.LoadEnv does, then returns silently
// if none is found — the process environment may already carry the needed
// variables (e.g. under a process supervisor).
func LoadEnv() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for i := 0; i < 5; i++ {
		candidate := filepath.Join(dir, ".env")
		if _, statErr := os.Stat(candidate); statErr == nil {
			_ = godotenv.Load(candidate)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

// Mnemonic returns the operator mnemonic from the environment, failing
// loudly rather than starting with an empty key.
func Mnemonic() (string, error) {
	m := os.Getenv(MnemonicEnvVar)
	if m == "" {
		return "", fmt.Errorf("%s is not set; refusing to start without an operator mnemonic", MnemonicEnvVar)
	}
	return m, nil
}
