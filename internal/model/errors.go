package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCredential is returned by wallet credential lookups when the
	// wallet has no stored key for the contract. It is an expected state,
	// not a failure.
	ErrNoCredential = errors.New("no stored credential")

	// ErrNothingNeedsKeys rejects a key-issuance request whose selection
	// contains no contract missing a credential.
	ErrNothingNeedsKeys = errors.New("no selected pools need a viewing key")

	// ErrNothingWithdrawable rejects a withdrawal request whose selection
	// contains no contract with a known positive balance or emergency path.
	ErrNothingWithdrawable = errors.New("no selected pools have a withdrawable balance")

	// ErrUnrecognizedResponse marks a query response matching no known
	// shape. Callers must treat the result as unknown, never as zero.
	ErrUnrecognizedResponse = errors.New("unrecognized query response")
)

// TxFailedError wraps a nonzero on-chain execution result, keeping the
// chain-provided log verbatim.
type TxFailedError struct {
	Code   uint32
	RawLog string
}

func (e *TxFailedError) Error() string {
	return fmt.Sprintf("transaction failed with code %d: %s", e.Code, e.RawLog)
}
