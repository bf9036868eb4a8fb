// Package status exposes the active signal poller to the outside: a small
// HTTP API with Prometheus metrics, and a gRPC health service that reports
// SERVING while a valid signal is held.
package status

import (
	"sync"

	"github.com/dmitrijs2005/signaldesk/internal/signal"
)

// Board holds the latest snapshot published by whichever poller is active.
type Board struct {
	mu       sync.RWMutex
	latest   signal.Snapshot
	watchers []func(signal.Snapshot)
}

func NewBoard() *Board {
	return &Board{}
}

// Publish records s. It is meant to be passed to Poller.OnChange.
func (b *Board) Publish(s signal.Snapshot) {
	b.mu.Lock()
	b.latest = s
	ws := make([]func(signal.Snapshot), len(b.watchers))
	copy(ws, b.watchers)
	b.mu.Unlock()

	for _, fn := range ws {
		fn(s)
	}
}

func (b *Board) Latest() signal.Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.latest
}

// Watch registers fn to be called on every Publish.
func (b *Board) Watch(fn func(signal.Snapshot)) {
	b.mu.Lock()
	b.watchers = append(b.watchers, fn)
	b.mu.Unlock()
}
