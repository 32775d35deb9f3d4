// Package creds owns the viewing-credential lifecycle: resolving which
// credential a contract already has, deciding selectability, deriving the
// migration credential from a wallet signature, and issuing it on chain.
package creds

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"secretmigrate/internal/storage"
	"secretmigrate/internal/wallet"
)

// permitDoc is the fixed sign document whose signature becomes the shared
// migration credential. Every field is constant apart from the chain id, so
// a deterministic signer always returns the same credential for a wallet.
type permitDoc struct {
	ChainID       string      `json:"chain_id"`
	AccountNumber string      `json:"account_number"`
	Sequence      string      `json:"sequence"`
	Fee           permitFee   `json:"fee"`
	Msgs          []permitMsg `json:"msgs"`
	Memo          string      `json:"memo"`
}

type permitFee struct {
	Amount []struct{} `json:"amount"`
	Gas    string     `json:"gas"`
}

type permitMsg struct {
	Type  string      `json:"type"`
	Value permitValue `json:"value"`
}

type permitValue struct {
	PermitName    string   `json:"permit_name"`
	AllowedTokens []string `json:"allowed_tokens"`
	Permissions   []string `json:"permissions"`
}

const permitMemo = "SecretSwap Migration Permit - Generated deterministically for viewing key creation"

func buildPermitDoc(chainID string) ([]byte, error) {
	doc := permitDoc{
		ChainID:       chainID,
		AccountNumber: "0",
		Sequence:      "0",
		Fee:           permitFee{Amount: []struct{}{}, Gas: "1"},
		Msgs: []permitMsg{{
			Type: "query_permit",
			Value: permitValue{
				PermitName:    "SecretSwap Migration",
				AllowedTokens: []string{"*"},
				Permissions:   []string{"balance", "allowance"},
			},
		}},
		Memo: permitMemo,
	}
	return json.Marshal(doc)
}

// DerivedSignature returns the migration credential for a wallet address,
// reusing the persisted value when one exists and otherwise requesting a
// signature and persisting it. Exactly one derived signature exists per
// wallet address until records are explicitly cleared.
func DerivedSignature(ctx context.Context, w wallet.Wallet, records storage.RecordStore, chainID, address string) (string, error) {
	cached, err := records.DerivedSignature(ctx, address)
	if err != nil {
		return "", fmt.Errorf("load derived signature: %w", err)
	}
	if cached != "" {
		return cached, nil
	}

	doc, err := buildPermitDoc(chainID)
	if err != nil {
		return "", fmt.Errorf("build permit doc: %w", err)
	}

	sig, err := w.SignAmino(ctx, chainID, address, doc)
	if err != nil {
		return "", fmt.Errorf("sign permit: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(sig)
	if err := records.SetDerivedSignature(ctx, address, encoded); err != nil {
		return "", fmt.Errorf("persist derived signature: %w", err)
	}
	return encoded, nil
}
