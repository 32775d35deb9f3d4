package model

// CredentialSource tells where a contract's viewing credential came from.
type CredentialSource string

const (
	// SourceWallet is a credential stored and managed by the wallet itself.
	SourceWallet CredentialSource = "wallet"
	// SourceDerived is the migration credential derived from a wallet
	// signature and set on the contract by this tool.
	SourceDerived CredentialSource = "derived"
	// SourceNone means no usable credential is known for the contract.
	SourceNone CredentialSource = "none"
)

// CredentialStatus is the resolved credential state for one contract and one
// wallet. Stale is set only after a query came back with a credential error;
// it distinguishes "never had a key" from "had a key that no longer
// decrypts".
type CredentialStatus struct {
	Contract      string           `json:"contract"`
	HasCredential bool             `json:"has_credential"`
	Source        CredentialSource `json:"source"`
	Stale         bool             `json:"stale,omitempty"`
}

// NoCredential returns the default status for a contract entering scope.
func NoCredential(contract string) CredentialStatus {
	return CredentialStatus{Contract: contract, Source: SourceNone}
}
