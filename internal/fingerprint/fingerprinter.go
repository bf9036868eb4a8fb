package fingerprint

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/signaldesk/internal/storage"
)

// StorageKey is where the last stored fingerprint is cached.
const StorageKey = "deviceFingerprint"

// Fingerprinter computes the current device fingerprint and keeps the last
// stored one in a storage.Store.
type Fingerprinter struct {
	kv      storage.Store
	collect func() Environment
}

func NewFingerprinter(kv storage.Store) *Fingerprinter {
	return &Fingerprinter{kv: kv, collect: Collect}
}

// WithEnvironment pins the environment, for tests and for callers that
// collect attributes themselves.
func (f *Fingerprinter) WithEnvironment(env Environment) *Fingerprinter {
	return &Fingerprinter{kv: f.kv, collect: func() Environment { return env }}
}

func (f *Fingerprinter) Current(_ context.Context) (string, error) {
	return Generate(f.collect()), nil
}

// Stored returns the cached fingerprint or "" if none was stored.
func (f *Fingerprinter) Stored(ctx context.Context) (string, error) {
	var fp string
	found, err := storage.GetJSON(ctx, f.kv, StorageKey, &fp)
	if err != nil {
		return "", fmt.Errorf("read fingerprint: %w", err)
	}
	if !found {
		return "", nil
	}
	return fp, nil
}

func (f *Fingerprinter) Store(ctx context.Context, fp string) error {
	return storage.SetJSON(ctx, f.kv, StorageKey, fp)
}

// Verify recomputes the fingerprint and compares it with the stored one.
// It is false when nothing has been stored.
func (f *Fingerprinter) Verify(ctx context.Context) (bool, error) {
	stored, err := f.Stored(ctx)
	if err != nil || stored == "" {
		return false, err
	}
	current, err := f.Current(ctx)
	if err != nil {
		return false, err
	}
	return current == stored, nil
}
