// Package storage is the key-value persistence layer behind the account list,
// the session slot and the cached device fingerprint.
//
// Backends:
//
//   - MemoryStore   process-local map, used by tests and the "memory" driver
//   - SQLiteStore   single-file database (modernc.org/sqlite), the default
//   - PostgresStore shared database via pgx
//   - S3Store       one object per key in an S3-compatible bucket
//
// All backends share one contract: Get returns (nil, nil) for a missing key,
// Set overwrites, Delete of a missing key is not an error.
package storage

import "context"

// Store is a flat byte-valued key-value store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// SetMany writes all entries; SQL backends do it in one transaction.
	SetMany(ctx context.Context, entries map[string][]byte) error
	Close() error
}
