package creds

import (
	"math/big"

	"secretmigrate/internal/model"
)

// BalanceState is what the selection rule needs to know about a contract's
// balance: whether a query succeeded, and the amount if so.
type BalanceState struct {
	Known bool
	Raw   string
}

// Positive reports whether the balance is known and greater than zero.
func (b BalanceState) Positive() bool {
	if !b.Known {
		return false
	}
	amount, ok := new(big.Int).SetString(b.Raw, 10)
	return ok && amount.Sign() > 0
}

// Selectable decides whether a contract may be selected for batch action.
//
// A contract is selectable when selecting it would do something: either it
// has no valid credential (selection issues one), or it has a valid non-stale
// credential and a known positive balance (selection withdraws it). A valid
// credential with a zero or not-yet-queried balance is not actionable; an
// unverified balance must not be withdrawn. A stale derived key is treated
// as no credential and is selectable for re-issuance; a stale wallet-managed
// key can only be replaced inside the wallet, so its contract is never
// selectable.
func Selectable(status model.CredentialStatus, balance BalanceState) bool {
	if status.Stale {
		// A stale derived key counts as no credential: selecting the
		// contract re-issues one. A wallet-managed key can only be rotated
		// inside the wallet.
		return status.Source != model.SourceWallet
	}
	if !status.HasCredential {
		return true
	}
	return balance.Positive()
}
