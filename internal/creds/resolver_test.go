package creds

import (
	"context"
	"fmt"
	"testing"

	"secretmigrate/internal/model"
	"secretmigrate/internal/wallet"
)

type fakeWallet struct {
	stored    map[string]string
	lookupErr map[string]error
	signed    [][]byte
}

func (w *fakeWallet) EnableChain(context.Context, string) error { return nil }

func (w *fakeWallet) Accounts(context.Context, string) ([]wallet.Account, error) {
	return []wallet.Account{{Address: "secret1wallet"}}, nil
}

func (w *fakeWallet) SignAmino(_ context.Context, _, _ string, doc []byte) ([]byte, error) {
	w.signed = append(w.signed, doc)
	return []byte("deterministic-signature"), nil
}

func (w *fakeWallet) StoredCredential(_ context.Context, _, contract string) (string, error) {
	if err, ok := w.lookupErr[contract]; ok {
		return "", err
	}
	if key, ok := w.stored[contract]; ok {
		return key, nil
	}
	return "", model.ErrNoCredential
}

func (w *fakeWallet) SuggestToken(context.Context, string, string) error { return nil }

func TestResolvePrecedence(t *testing.T) {
	w := &fakeWallet{stored: map[string]string{"secret1both": "wallet-key"}}
	recorded := map[string]bool{"secret1both": true, "secret1derived": true}
	r := NewResolver(w, "secret-4", nil)

	status := r.Resolve(context.Background(), "secret1both", recorded)
	if !status.HasCredential || status.Source != model.SourceWallet {
		t.Fatalf("wallet key should win over recorded issuance: %+v", status)
	}

	status = r.Resolve(context.Background(), "secret1derived", recorded)
	if !status.HasCredential || status.Source != model.SourceDerived {
		t.Fatalf("recorded issuance should resolve derived: %+v", status)
	}

	status = r.Resolve(context.Background(), "secret1neither", recorded)
	if status.HasCredential || status.Source != model.SourceNone {
		t.Fatalf("expected no credential: %+v", status)
	}
}

func TestResolveLookupFailureIsNonFatal(t *testing.T) {
	w := &fakeWallet{
		stored:    map[string]string{"secret1good": "wallet-key"},
		lookupErr: map[string]error{"secret1bad": fmt.Errorf("extension timeout")},
	}
	r := NewResolver(w, "secret-4", nil)

	statuses := r.ResolveAll(context.Background(),
		[]string{"secret1good", "secret1bad"},
		map[string]bool{"secret1bad": true})

	if statuses["secret1good"].Source != model.SourceWallet {
		t.Fatalf("healthy contract affected by neighbor failure: %+v", statuses["secret1good"])
	}
	// The failed wallet lookup falls through to the recorded set.
	if statuses["secret1bad"].Source != model.SourceDerived {
		t.Fatalf("lookup failure should downgrade, not abort: %+v", statuses["secret1bad"])
	}
}

func TestMarkStale(t *testing.T) {
	derived := model.CredentialStatus{
		Contract: "secret1pool", HasCredential: true, Source: model.SourceDerived,
	}
	got := MarkStale(derived)
	if got.HasCredential || got.Source != model.SourceNone {
		t.Fatalf("stale derived key should revert to none: %+v", got)
	}

	walletKey := model.CredentialStatus{
		Contract: "secret1pool", HasCredential: true, Source: model.SourceWallet,
	}
	got = MarkStale(walletKey)
	if !got.HasCredential || !got.Stale || got.Source != model.SourceWallet {
		t.Fatalf("stale wallet key should stay, flagged: %+v", got)
	}
}
