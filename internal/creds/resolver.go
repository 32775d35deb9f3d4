package creds

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"secretmigrate/internal/model"
	"secretmigrate/internal/wallet"
)

// Resolver determines which credential, if any, a contract already has for a
// wallet. The wallet's own stored key always wins over the recorded
// derived-signature set.
type Resolver struct {
	wallet  wallet.Wallet
	chainID string
	logger  *zap.Logger
}

// NewResolver builds a Resolver.
func NewResolver(w wallet.Wallet, chainID string, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{wallet: w, chainID: chainID, logger: logger}
}

// Resolve returns the credential status for one contract. recorded is the
// set of contracts previously issued the derived credential for this wallet.
// Wallet lookup failures are downgraded to "no key from this source"; a
// single contract's failure never aborts a catalog sweep.
func (r *Resolver) Resolve(ctx context.Context, contractAddress string, recorded map[string]bool) model.CredentialStatus {
	key, err := r.wallet.StoredCredential(ctx, r.chainID, contractAddress)
	if err == nil && key != "" {
		return model.CredentialStatus{
			Contract:      contractAddress,
			HasCredential: true,
			Source:        model.SourceWallet,
		}
	}
	if err != nil && !errors.Is(err, model.ErrNoCredential) {
		r.logger.Warn("wallet credential lookup failed",
			zap.String("contract", contractAddress),
			zap.Error(err),
		)
	}

	if recorded[contractAddress] {
		return model.CredentialStatus{
			Contract:      contractAddress,
			HasCredential: true,
			Source:        model.SourceDerived,
		}
	}

	return model.NoCredential(contractAddress)
}

// ResolveAll resolves every contract independently.
func (r *Resolver) ResolveAll(ctx context.Context, contractAddresses []string, recorded map[string]bool) map[string]model.CredentialStatus {
	statuses := make(map[string]model.CredentialStatus, len(contractAddresses))
	for _, addr := range contractAddresses {
		statuses[addr] = r.Resolve(ctx, addr, recorded)
	}
	return statuses
}

// MarkStale applies a credential-invalid query result to a status. A stale
// derived key reverts to no credential so it can be re-issued; a stale
// wallet-managed key stays, flagged, because only the wallet can replace it.
func MarkStale(status model.CredentialStatus) model.CredentialStatus {
	if status.Source == model.SourceDerived {
		return model.NoCredential(status.Contract)
	}
	status.Stale = true
	return status
}
