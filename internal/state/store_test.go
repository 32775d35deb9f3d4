package state

import (
	"testing"

	"secretmigrate/internal/model"
)

func TestDispatchDropsStaleSession(t *testing.T) {
	store := NewStore()
	session := store.Connect("secret1wallet")

	// A fetch started under this session is still in flight when the wallet
	// disconnects.
	store.Disconnect()

	applied := store.Dispatch(SetBalances{
		Session:  session,
		Balances: map[string]model.PoolBalance{"secret1pool": {PoolAddress: "secret1pool", Raw: "100"}},
	})
	if applied {
		t.Fatalf("stale result applied after disconnect")
	}
	if len(store.Snapshot().Balances) != 0 {
		t.Fatalf("disconnected state not empty: %+v", store.Snapshot())
	}
}

func TestDispatchDropsResultsFromPreviousSession(t *testing.T) {
	store := NewStore()
	old := store.Connect("secret1wallet")

	// Reconnecting, even as the same address, invalidates in-flight work.
	store.Disconnect()
	store.Connect("secret1wallet")

	applied := store.Dispatch(SetBalances{
		Session:  old,
		Balances: map[string]model.PoolBalance{"secret1pool": {Raw: "100"}},
	})
	if applied {
		t.Fatalf("result from a previous session applied")
	}

	if len(store.Snapshot().Balances) != 0 {
		t.Fatalf("previous session leaked into fresh state")
	}
}

func TestConnectResetsState(t *testing.T) {
	store := NewStore()
	session := store.Connect("secret1old")
	store.Dispatch(SetCredentials{
		Session: session,
		Statuses: map[string]model.CredentialStatus{
			"secret1pool": {Contract: "secret1pool", HasCredential: true, Source: model.SourceWallet},
		},
	})
	store.Dispatch(ToggleSelection{Contract: "secret1pool"})

	store.Connect("secret1new")

	s := store.Snapshot()
	if len(s.Credentials) != 0 || len(s.Selected) != 0 {
		t.Fatalf("previous wallet state survived reconnect: %+v", s)
	}
	if s.Session.Address != "secret1new" {
		t.Fatalf("session address mismatch: %+v", s.Session)
	}
}

func TestSetBalancesBucketsAreExclusive(t *testing.T) {
	store := NewStore()
	session := store.Connect("secret1wallet")

	store.Dispatch(SetBalances{
		Session:  session,
		Balances: map[string]model.PoolBalance{"secret1pool": {PoolAddress: "secret1pool", Raw: "100"}},
	})
	// The key went stale between fetches; the invalid verdict replaces the
	// old balance.
	store.Dispatch(SetBalances{
		Session: session,
		Invalid: map[string]model.CredentialSource{"secret1pool": model.SourceDerived},
	})

	s := store.Snapshot()
	if _, ok := s.Balances["secret1pool"]; ok {
		t.Fatalf("stale balance kept alongside invalid verdict")
	}
	if s.Invalid["secret1pool"] != model.SourceDerived {
		t.Fatalf("invalid verdict missing: %+v", s.Invalid)
	}

	// And a later successful fetch clears the invalid flag again.
	store.Dispatch(SetBalances{
		Session:  session,
		Balances: map[string]model.PoolBalance{"secret1pool": {PoolAddress: "secret1pool", Raw: "50"}},
	})
	s = store.Snapshot()
	if _, ok := s.Invalid["secret1pool"]; ok {
		t.Fatalf("invalid verdict kept alongside fresh balance")
	}
	if s.Balances["secret1pool"].Raw != "50" {
		t.Fatalf("fresh balance missing: %+v", s.Balances)
	}
}

func TestMarkStaleBySource(t *testing.T) {
	store := NewStore()
	session := store.Connect("secret1wallet")
	store.Dispatch(SetCredentials{
		Session: session,
		Statuses: map[string]model.CredentialStatus{
			"secret1derived": {Contract: "secret1derived", HasCredential: true, Source: model.SourceDerived},
			"secret1wkey":    {Contract: "secret1wkey", HasCredential: true, Source: model.SourceWallet},
		},
	})

	store.Dispatch(MarkStale{Session: session, Contracts: []string{"secret1derived", "secret1wkey"}})

	s := store.Snapshot()
	if s.Credentials["secret1derived"].HasCredential {
		t.Fatalf("stale derived key should revert to none: %+v", s.Credentials["secret1derived"])
	}
	wkey := s.Credentials["secret1wkey"]
	if !wkey.HasCredential || !wkey.Stale {
		t.Fatalf("stale wallet key should stay, flagged: %+v", wkey)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	store := NewStore()
	store.Connect("secret1wallet")
	store.Dispatch(ToggleSelection{Contract: "secret1pool"})

	s := store.Snapshot()
	s.Selected["secret1other"] = true
	delete(s.Selected, "secret1pool")

	fresh := store.Snapshot()
	if !fresh.Selected["secret1pool"] || fresh.Selected["secret1other"] {
		t.Fatalf("snapshot mutation leaked into store: %+v", fresh.Selected)
	}
}
