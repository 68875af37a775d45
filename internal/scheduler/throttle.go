package scheduler

import (
	"sync"
	"time"
)

// Throttler admits at most one call per window. Calls inside the window are
// dropped, not queued.
type Throttler struct {
	clock  Clock
	window time.Duration

	mu    sync.Mutex
	until time.Time
}

func NewThrottler(clock Clock, window time.Duration) *Throttler {
	return &Throttler{clock: clock, window: window}
}

// Allow reports whether a call may run now and, if so, opens a new window.
func (t *Throttler) Allow() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	if now.Before(t.until) {
		return false
	}
	t.until = now.Add(t.window)
	return true
}
