package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// FileStore keeps migration records in a single JSON file under the state
// directory. It is the default store; Postgres is available for shared
// deployments.
type FileStore struct {
	path string
	mu   sync.Mutex
}

type fileRecords struct {
	// Wallet address -> contract addresses with the derived credential set.
	Issued map[string][]string `json:"issued"`
	// Wallet address -> cached derived signature.
	Signatures map[string]string `json:"signatures"`
}

// NewFileStore creates a store backed by the given path. The file is created
// lazily on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) load() (fileRecords, error) {
	records := fileRecords{Issued: map[string][]string{}, Signatures: map[string]string{}}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return records, nil
		}
		return records, fmt.Errorf("read records: %w", err)
	}
	if err := json.Unmarshal(raw, &records); err != nil {
		return records, fmt.Errorf("parse records: %w", err)
	}
	if records.Issued == nil {
		records.Issued = map[string][]string{}
	}
	if records.Signatures == nil {
		records.Signatures = map[string]string{}
	}
	return records, nil
}

func (s *FileStore) save(records fileRecords) error {
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}

	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace records: %w", err)
	}
	return nil
}

// IssuedContracts returns the wallet's issued set.
func (s *FileStore) IssuedContracts(_ context.Context, walletAddress string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}
	return append([]string(nil), records.Issued[walletAddress]...), nil
}

// RecordIssued merges contracts into the wallet's issued set.
func (s *FileStore) RecordIssued(_ context.Context, walletAddress string, contracts []string) error {
	if len(contracts) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(records.Issued[walletAddress])+len(contracts))
	merged := make([]string, 0, len(records.Issued[walletAddress])+len(contracts))
	for _, addr := range records.Issued[walletAddress] {
		if !seen[addr] {
			seen[addr] = true
			merged = append(merged, addr)
		}
	}
	for _, addr := range contracts {
		if !seen[addr] {
			seen[addr] = true
			merged = append(merged, addr)
		}
	}
	sort.Strings(merged)

	records.Issued[walletAddress] = merged
	return s.save(records)
}

// DerivedSignature returns the cached signature or "".
func (s *FileStore) DerivedSignature(_ context.Context, walletAddress string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return "", err
	}
	return records.Signatures[walletAddress], nil
}

// SetDerivedSignature caches the signature.
func (s *FileStore) SetDerivedSignature(_ context.Context, walletAddress, signature string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	records.Signatures[walletAddress] = signature
	return s.save(records)
}

// Clear drops every record for the wallet.
func (s *FileStore) Clear(_ context.Context, walletAddress string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	delete(records.Issued, walletAddress)
	delete(records.Signatures, walletAddress)
	return s.save(records)
}
