package storage

import "errors"

var (
	// ErrCorrupt marks a persisted value that can no longer be decoded.
	ErrCorrupt = errors.New("storage corrupt")

	ErrUnknownDriver = errors.New("unknown storage driver")
)
