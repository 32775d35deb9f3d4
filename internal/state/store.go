// Package state holds the in-memory migration session state behind a
// serialized reducer. Every mutation goes through Dispatch; async results
// carry the session that produced them and are dropped if the wallet has
// since disconnected or changed, so a slow fetch can never repopulate a
// reset session.
package state

import (
	"sync"

	"secretmigrate/internal/model"
)

// Session identifies one wallet connection. A new connection gets a fresh
// session even for the same address.
type Session struct {
	ID      uint64
	Address string
}

// State is the full migration view for the connected wallet.
type State struct {
	Session   Session
	Connected bool

	Credentials map[string]model.CredentialStatus
	Balances    map[string]model.PoolBalance
	LPBalances  map[string]model.LPBalance
	Invalid     map[string]model.CredentialSource
	Selected    map[string]bool
}

func emptyState() State {
	return State{
		Credentials: make(map[string]model.CredentialStatus),
		Balances:    make(map[string]model.PoolBalance),
		LPBalances:  make(map[string]model.LPBalance),
		Invalid:     make(map[string]model.CredentialSource),
		Selected:    make(map[string]bool),
	}
}

// Action mutates the state. Actions that deliver async results embed the
// session the work started under.
type Action interface {
	apply(s *State)
	session() (Session, bool)
}

// Store serializes all state transitions.
type Store struct {
	mu     sync.Mutex
	state  State
	nextID uint64
}

// NewStore returns an empty, disconnected store.
func NewStore() *Store {
	return &Store{state: emptyState()}
}

// Connect opens a new session for the address, resetting all per-wallet
// state, and returns the session tag async work must carry.
func (s *Store) Connect(address string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.state = emptyState()
	s.state.Session = Session{ID: s.nextID, Address: address}
	s.state.Connected = true
	return s.state.Session
}

// Disconnect clears the session. In-flight results tagged with the old
// session are dropped when they arrive.
func (s *Store) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = emptyState()
}

// Dispatch applies the action unless it carries a stale session.
func (s *Store) Dispatch(a Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, tagged := a.session(); tagged {
		if !s.state.Connected || sess != s.state.Session {
			return false
		}
	}
	a.apply(&s.state)
	return true
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.state
	out.Credentials = copyMap(s.state.Credentials)
	out.Balances = copyMap(s.state.Balances)
	out.LPBalances = copyMap(s.state.LPBalances)
	out.Invalid = copyMap(s.state.Invalid)
	out.Selected = copyMap(s.state.Selected)
	return out
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// SetCredentials replaces the credential status set. Session-tagged.
type SetCredentials struct {
	Session  Session
	Statuses map[string]model.CredentialStatus
}

func (a SetCredentials) session() (Session, bool) { return a.Session, true }

func (a SetCredentials) apply(s *State) {
	s.Credentials = make(map[string]model.CredentialStatus, len(a.Statuses))
	for k, v := range a.Statuses {
		s.Credentials[k] = v
	}
}

// SetBalances merges a fetch result into the state. Contracts absent from
// the result keep their previous value; invalid credentials overwrite any
// prior balance for that contract. Session-tagged.
type SetBalances struct {
	Session    Session
	Balances   map[string]model.PoolBalance
	LPBalances map[string]model.LPBalance
	Invalid    map[string]model.CredentialSource
}

func (a SetBalances) session() (Session, bool) { return a.Session, true }

func (a SetBalances) apply(s *State) {
	for k, v := range a.Balances {
		s.Balances[k] = v
		delete(s.Invalid, k)
	}
	for k, v := range a.LPBalances {
		s.LPBalances[k] = v
		delete(s.Invalid, k)
	}
	for k, v := range a.Invalid {
		s.Invalid[k] = v
		delete(s.Balances, k)
		delete(s.LPBalances, k)
	}
}

// MarkStale flags contracts whose credential was rejected on-chain.
// Session-tagged.
type MarkStale struct {
	Session   Session
	Contracts []string
}

func (a MarkStale) session() (Session, bool) { return a.Session, true }

func (a MarkStale) apply(s *State) {
	for _, addr := range a.Contracts {
		status, ok := s.Credentials[addr]
		if !ok {
			continue
		}
		switch status.Source {
		case model.SourceDerived:
			// A rejected derived key means the recorded issuance no longer
			// holds; back to issuable.
			s.Credentials[addr] = model.NoCredential(status.Contract)
		case model.SourceWallet:
			status.Stale = true
			s.Credentials[addr] = status
		}
	}
}

// ToggleSelection flips a contract's selection. Not session-tagged: it is a
// direct user action against the current session.
type ToggleSelection struct {
	Contract string
}

func (a ToggleSelection) session() (Session, bool) { return Session{}, false }

func (a ToggleSelection) apply(s *State) {
	if s.Selected[a.Contract] {
		delete(s.Selected, a.Contract)
	} else {
		s.Selected[a.Contract] = true
	}
}

// ClearSelections drops all selections, e.g. after a committed withdrawal.
type ClearSelections struct{}

func (a ClearSelections) session() (Session, bool) { return Session{}, false }

func (a ClearSelections) apply(s *State) {
	s.Selected = make(map[string]bool)
}
