package wallet

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"secretmigrate/internal/model"
)

// keyFileFormat is the on-disk layout of a key file. ViewingKeys mirrors the
// per-contract key table a browser wallet would manage; entries can be
// exported from the extension and carried over.
type keyFileFormat struct {
	Address     string            `json:"address"`
	PrivKeyHex  string            `json:"priv_key"`
	ChainIDs    []string          `json:"chain_ids,omitempty"`
	ViewingKeys map[string]string `json:"viewing_keys,omitempty"`
}

// KeyFileWallet implements Wallet with a local secp256k1 key file.
// Signatures use RFC6979 deterministic nonces, so the same sign document
// always produces the same signature.
type KeyFileWallet struct {
	address     string
	privKey     *secp256k1.PrivateKey
	chainIDs    map[string]bool
	viewingKeys map[string]string
}

// LoadKeyFile reads and validates a key file.
func LoadKeyFile(path string) (*KeyFileWallet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}

	var kf keyFileFormat
	if err := json.Unmarshal(raw, &kf); err != nil {
		return nil, fmt.Errorf("parse key file: %w", err)
	}
	if kf.Address == "" {
		return nil, fmt.Errorf("key file has no address")
	}

	keyBytes, err := hex.DecodeString(kf.PrivKeyHex)
	if err != nil {
		return nil, fmt.Errorf("decode private key: %w", err)
	}
	if len(keyBytes) != 32 {
		return nil, fmt.Errorf("private key must be 32 bytes, got %d", len(keyBytes))
	}

	chainIDs := make(map[string]bool, len(kf.ChainIDs))
	for _, id := range kf.ChainIDs {
		chainIDs[id] = true
	}

	viewingKeys := kf.ViewingKeys
	if viewingKeys == nil {
		viewingKeys = make(map[string]string)
	}

	return &KeyFileWallet{
		address:     kf.Address,
		privKey:     secp256k1.PrivKeyFromBytes(keyBytes),
		chainIDs:    chainIDs,
		viewingKeys: viewingKeys,
	}, nil
}

// EnableChain checks the key file covers the chain. A key file with no
// chain_ids list is treated as unrestricted.
func (w *KeyFileWallet) EnableChain(_ context.Context, chainID string) error {
	if len(w.chainIDs) > 0 && !w.chainIDs[chainID] {
		return fmt.Errorf("key file does not cover chain %s", chainID)
	}
	return nil
}

// Accounts returns the single key-file account.
func (w *KeyFileWallet) Accounts(_ context.Context, _ string) ([]Account, error) {
	return []Account{{Address: w.address}}, nil
}

// SignAmino signs sha256(doc) with the key-file key.
func (w *KeyFileWallet) SignAmino(_ context.Context, _, address string, doc []byte) ([]byte, error) {
	if address != w.address {
		return nil, fmt.Errorf("address %s not held by this key file", address)
	}
	digest := sha256.Sum256(doc)
	sig := ecdsa.Sign(w.privKey, digest[:])
	return sig.Serialize(), nil
}

// StoredCredential looks up the local viewing-key table.
func (w *KeyFileWallet) StoredCredential(_ context.Context, _, contractAddress string) (string, error) {
	key, ok := w.viewingKeys[contractAddress]
	if !ok || key == "" {
		return "", model.ErrNoCredential
	}
	return key, nil
}

// SuggestToken is a no-op for a key file; there is no UI to register the
// token with.
func (w *KeyFileWallet) SuggestToken(_ context.Context, _, _ string) error {
	return nil
}
