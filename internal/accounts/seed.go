package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/signaldesk/internal/storage"
)

// demoAccounts are written on first start so the client can be tried out.
var demoAccounts = []NewAccount{
	{Username: "demo", Secret: []byte("demo123"), Validity: Days(30)},
	{Username: "trader1", Secret: []byte("pass123"), Validity: Lifetime()},
}

// Seed writes the demo accounts if no account list has been stored yet.
// It reports whether anything was written.
func (s *Store) Seed(ctx context.Context) (bool, error) {
	raw, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		return false, err
	}
	if raw != nil {
		return false, nil
	}

	for _, d := range demoAccounts {
		in := d
		in.Secret = append([]byte(nil), d.Secret...)
		if _, err := s.Add(ctx, in); err != nil {
			return false, fmt.Errorf("seed %s: %w", d.Username, err)
		}
	}
	return true, nil
}

// CorruptPolicy says what to do when the stored account list cannot be read.
type CorruptPolicy string

const (
	// PolicyFail surfaces storage.ErrCorrupt to the caller.
	PolicyFail CorruptPolicy = "fail"
	// PolicyReset drops the list and seeds the demo accounts again.
	PolicyReset CorruptPolicy = "reset"
)

// Init seeds the store, applying policy if the existing list is corrupt.
// It reports whether the list was reset.
func (s *Store) Init(ctx context.Context, policy CorruptPolicy) (reset bool, err error) {
	if _, err := s.List(ctx); err != nil {
		if !errors.Is(err, storage.ErrCorrupt) || policy != PolicyReset {
			return false, err
		}
		if err := s.Reset(ctx); err != nil {
			return false, err
		}
		reset = true
	}
	if _, err := s.Seed(ctx); err != nil {
		return reset, err
	}
	return reset, nil
}

