// Package keys implements the operator KeyManager: single mnemonic in,
// dual-interface address pair and signing primitives out, held in memory
// for the process lifetime.
package keys

import (
	"crypto/ecdsa"
	"fmt"
	"sync"

	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	bip39 "github.com/cosmos/go-bip39"
	"github.com/ethereum/go-ethereum/common"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"
)

// HDPath is the fixed BIP-44 derivation path the operator key is derived
// from, coin type 60 per §3.
const HDPath = "m/44'/60'/0'/0/0"

// Manager holds the operator's secp256k1 private key in memory and exposes
// the dual-address view and signing primitives over it. The zero value is
// not usable; construct with NewManager.
type Manager struct {
	mu sync.RWMutex

	priv       *ecdsa.PrivateKey
	evmAddr    common.Address
	compressed []byte

	initialized bool

	log   zerolog.Logger
	audit *auditLog
}

// NewManager constructs an uninitialized Manager.
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{
		log:   log.With().Str("component", "keymanager").Logger(),
		audit: newAuditLog(),
	}
}

// Initialize validates mnemonic's checksum against the standard wordlist,
// derives the BIP-32 node at HDPath, and holds the resulting 32-byte scalar
// for the process lifetime. It fails fatally (non-retryable) on a bad
// mnemonic; callers should treat a non-nil error as fatal to startup.
func (m *Manager) Initialize(mnemonic string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return fmt.Errorf("key manager already initialized")
	}

	if !bip39.IsMnemonicValid(mnemonic) {
		m.audit.append("initialize", false, "mnemonic failed checksum validation")
		return fmt.Errorf("invalid mnemonic: failed checksum validation")
	}

	derive := hd.Secp256k1.Derive()
	raw, err := derive(mnemonic, "", HDPath)
	if err != nil {
		m.audit.append("initialize", false, err.Error())
		return fmt.Errorf("failed to derive operator key: %w", err)
	}

	priv, err := gethcrypto.ToECDSA(raw)
	if err != nil {
		m.audit.append("initialize", false, err.Error())
		return fmt.Errorf("derived scalar is not a valid secp256k1 key: %w", err)
	}

	m.priv = priv
	m.evmAddr = gethcrypto.PubkeyToAddress(priv.PublicKey)
	m.compressed = gethcrypto.CompressPubkey(&priv.PublicKey)
	m.initialized = true

	m.audit.append("initialize", true, m.evmAddr.Hex())
	m.log.Info().Str("evmAddress", m.evmAddr.Hex()).Msg("operator key initialized")
	return nil
}

// Shutdown zeroes the in-memory scalar. The Manager is unusable afterward.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.priv != nil {
		m.priv.D.SetInt64(0)
		m.priv = nil
	}
	m.initialized = false
	m.audit.append("shutdown", true, "")
	m.log.Info().Msg("operator key zeroed")
}

// EvmAddress is a pure reader over the derived EVM address.
func (m *Manager) EvmAddress() common.Address {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.evmAddr
}

// CosmosAddress bech32-encodes the same 20-byte payload as EvmAddress under
// hrp, with no extra hashing — the §3 invariant that the two addresses
// decode to identical bytes.
func (m *Manager) CosmosAddress(hrp string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.initialized {
		return "", fmt.Errorf("key manager not initialized")
	}
	return bech32.ConvertAndEncode(hrp, m.evmAddr.Bytes())
}

// CompressedPubKey returns the 33-byte compressed secp256k1 public key.
func (m *Manager) CompressedPubKey() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]byte, len(m.compressed))
	copy(out, m.compressed)
	return out
}

// signDigest performs a deterministic ECDSA signature over a 32-byte digest,
// returning the 65-byte r||s||v(0/1) go-ethereum signature format. Signing
// is infallible once Initialize has succeeded, per §4.1.
func (m *Manager) signDigest(digest []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.initialized {
		return nil, fmt.Errorf("key manager not initialized")
	}
	if len(digest) != 32 {
		return nil, fmt.Errorf("digest must be 32 bytes, got %d", len(digest))
	}
	return gethcrypto.Sign(digest, m.priv)
}

// AuditTrail returns a snapshot of every Sign*/Initialize/Shutdown call
// recorded so far, most recent last.
func (m *Manager) AuditTrail() []AuditRecord {
	return m.audit.snapshot()
}
