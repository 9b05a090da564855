package bot

import (
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Guard admits a single in-flight request. Requests arriving while it is held are
// turned away, never queued.
type Guard struct {
	sem  *semaphore.Weighted
	held atomic.Bool
}

// NewGuard creates a new single-slot guard
func NewGuard() *Guard {
	return &Guard{sem: semaphore.NewWeighted(1)}
}

// TryAcquire takes the slot if it is free. Callers that get true must Release.
func (g *Guard) TryAcquire() bool {
	if !g.sem.TryAcquire(1) {
		return false
	}
	g.held.Store(true)
	return true
}

// Release frees the slot taken by a successful TryAcquire
func (g *Guard) Release() {
	g.held.Store(false)
	g.sem.Release(1)
}

// Busy reports whether the slot is held. It is advisory, for status reporting only;
// admission is decided by TryAcquire alone.
func (g *Guard) Busy() bool {
	return g.held.Load()
}
