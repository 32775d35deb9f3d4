// Package wallet defines the narrow capability interface this tool needs
// from a signing wallet, plus a local key-file implementation usable without
// a browser extension.
package wallet

import "context"

// Account is one address the wallet controls.
type Account struct {
	Address string
}

// Wallet is the capability surface consumed by the migration flow. Account
// access, signing, and per-contract viewing-key storage stay behind it;
// nothing else in the tool touches key material.
type Wallet interface {
	// EnableChain asks the wallet to unlock the given chain.
	EnableChain(ctx context.Context, chainID string) error

	// Accounts lists the wallet's addresses for the chain.
	Accounts(ctx context.Context, chainID string) ([]Account, error)

	// SignAmino produces a deterministic signature over a canonical sign
	// document. Signing the same document twice yields the same bytes.
	SignAmino(ctx context.Context, chainID, address string, doc []byte) ([]byte, error)

	// StoredCredential returns the wallet-managed viewing key for a
	// contract, or model.ErrNoCredential when none is stored.
	StoredCredential(ctx context.Context, chainID, contractAddress string) (string, error)

	// SuggestToken asks the wallet to track a token contract. Best-effort;
	// failures are ignorable.
	SuggestToken(ctx context.Context, chainID, contractAddress string) error
}
