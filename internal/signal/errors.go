package signal

import "errors"

var (
	// ErrSignalUnavailable covers every failed fetch: transport errors,
	// timeouts, non-2xx statuses and payloads that fail validation.
	ErrSignalUnavailable = errors.New("signal unavailable")

	ErrInvalidTimer = errors.New("invalid timer")
	ErrUnknownPair  = errors.New("unknown pair")
	ErrNotRunning   = errors.New("poller is not running")
)
