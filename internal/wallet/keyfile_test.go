package wallet

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"secretmigrate/internal/model"
)

const testKeyFile = `{
	"address": "secret1testwallet",
	"priv_key": "1111111111111111111111111111111111111111111111111111111111111111",
	"chain_ids": ["secret-4"],
	"viewing_keys": {"secret1pool": "api_key_local"}
}`

func loadTestWallet(t *testing.T) *KeyFileWallet {
	t.Helper()
	path := filepath.Join(t.TempDir(), "key.json")
	if err := os.WriteFile(path, []byte(testKeyFile), 0o600); err != nil {
		t.Fatalf("write key file: %v", err)
	}
	w, err := LoadKeyFile(path)
	if err != nil {
		t.Fatalf("load key file: %v", err)
	}
	return w
}

func TestKeyFileWalletAccounts(t *testing.T) {
	w := loadTestWallet(t)
	ctx := context.Background()

	if err := w.EnableChain(ctx, "secret-4"); err != nil {
		t.Fatalf("enable chain: %v", err)
	}
	if err := w.EnableChain(ctx, "cosmoshub-4"); err == nil {
		t.Fatalf("expected error for uncovered chain")
	}

	accounts, err := w.Accounts(ctx, "secret-4")
	if err != nil {
		t.Fatalf("accounts: %v", err)
	}
	if len(accounts) != 1 || accounts[0].Address != "secret1testwallet" {
		t.Fatalf("unexpected accounts: %+v", accounts)
	}
}

func TestKeyFileWalletSignsDeterministically(t *testing.T) {
	w := loadTestWallet(t)
	ctx := context.Background()
	doc := []byte(`{"chain_id":"secret-4","memo":"m"}`)

	first, err := w.SignAmino(ctx, "secret-4", "secret1testwallet", doc)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	second, err := w.SignAmino(ctx, "secret-4", "secret1testwallet", doc)
	if err != nil {
		t.Fatalf("sign again: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("signature not deterministic")
	}

	if _, err := w.SignAmino(ctx, "secret-4", "secret1other", doc); err == nil {
		t.Fatalf("expected error signing for foreign address")
	}
}

func TestKeyFileWalletStoredCredential(t *testing.T) {
	w := loadTestWallet(t)
	ctx := context.Background()

	key, err := w.StoredCredential(ctx, "secret-4", "secret1pool")
	if err != nil {
		t.Fatalf("stored credential: %v", err)
	}
	if key != "api_key_local" {
		t.Fatalf("unexpected key: %q", key)
	}

	_, err = w.StoredCredential(ctx, "secret-4", "secret1unknown")
	if !errors.Is(err, model.ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential, got %v", err)
	}
}

func TestLoadKeyFileRejectsBadKeys(t *testing.T) {
	dir := t.TempDir()

	short := filepath.Join(dir, "short.json")
	if err := os.WriteFile(short, []byte(`{"address":"secret1x","priv_key":"abcd"}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadKeyFile(short); err == nil {
		t.Fatalf("expected error for short key")
	}

	noAddr := filepath.Join(dir, "noaddr.json")
	if err := os.WriteFile(noAddr, []byte(`{"priv_key":"1111111111111111111111111111111111111111111111111111111111111111"}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadKeyFile(noAddr); err == nil {
		t.Fatalf("expected error for missing address")
	}
}
