// Package storage persists migration records: which contracts already carry
// the derived-signature credential for a wallet, and the derived signature
// itself.
package storage

import "context"

// RecordStore is keyed by wallet address. Issued-contract sets have set
// semantics: merging never produces duplicates and never drops previously
// recorded contracts.
type RecordStore interface {
	// IssuedContracts returns the contracts recorded as carrying the
	// derived credential for the wallet. Missing wallets yield an empty
	// set, not an error.
	IssuedContracts(ctx context.Context, walletAddress string) ([]string, error)

	// RecordIssued merges contracts into the wallet's issued set.
	RecordIssued(ctx context.Context, walletAddress string, contracts []string) error

	// DerivedSignature returns the cached migration credential, or "" when
	// none is stored.
	DerivedSignature(ctx context.Context, walletAddress string) (string, error)

	// SetDerivedSignature caches the migration credential.
	SetDerivedSignature(ctx context.Context, walletAddress, signature string) error

	// Clear drops every record for the wallet.
	Clear(ctx context.Context, walletAddress string) error
}
