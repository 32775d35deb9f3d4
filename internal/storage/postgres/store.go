// Package postgres provides a RecordStore backed by Postgres for shared
// deployments.
//
// Schema:
//
//	CREATE TABLE issued_credentials (
//	    wallet_address   TEXT NOT NULL,
//	    contract_address TEXT NOT NULL,
//	    created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
//	    PRIMARY KEY (wallet_address, contract_address)
//	);
//
//	CREATE TABLE derived_signatures (
//	    wallet_address TEXT PRIMARY KEY,
//	    signature      TEXT NOT NULL,
//	    created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store implements storage.RecordStore on a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to the DSN.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// IssuedContracts returns the wallet's issued set.
func (s *Store) IssuedContracts(ctx context.Context, walletAddress string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT contract_address
		FROM issued_credentials
		WHERE wallet_address = $1
		ORDER BY contract_address
	`, walletAddress)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contracts []string
	for rows.Next() {
		var addr string
		if err := rows.Scan(&addr); err != nil {
			return nil, err
		}
		contracts = append(contracts, addr)
	}
	return contracts, rows.Err()
}

// RecordIssued merges contracts into the wallet's issued set. The primary
// key gives the union semantics; re-recording a contract is a no-op.
func (s *Store) RecordIssued(ctx context.Context, walletAddress string, contracts []string) error {
	if len(contracts) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, contract := range contracts {
		batch.Queue(`
			INSERT INTO issued_credentials (wallet_address, contract_address)
			VALUES ($1, $2)
			ON CONFLICT (wallet_address, contract_address) DO NOTHING
		`, walletAddress, contract)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range contracts {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// DerivedSignature returns the cached signature or "".
func (s *Store) DerivedSignature(ctx context.Context, walletAddress string) (string, error) {
	var signature string
	err := s.pool.QueryRow(ctx, `
		SELECT signature FROM derived_signatures WHERE wallet_address = $1
	`, walletAddress).Scan(&signature)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return signature, nil
}

// SetDerivedSignature caches the signature.
func (s *Store) SetDerivedSignature(ctx context.Context, walletAddress, signature string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO derived_signatures (wallet_address, signature)
		VALUES ($1, $2)
		ON CONFLICT (wallet_address) DO UPDATE SET signature = EXCLUDED.signature
	`, walletAddress, signature)
	return err
}

// Clear drops every record for the wallet.
func (s *Store) Clear(ctx context.Context, walletAddress string) error {
	if _, err := s.pool.Exec(ctx, `
		DELETE FROM issued_credentials WHERE wallet_address = $1
	`, walletAddress); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx, `
		DELETE FROM derived_signatures WHERE wallet_address = $1
	`, walletAddress)
	return err
}
