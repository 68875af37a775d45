// Package scheduler runs calculator work on a single goroutine and provides
// the cooperative timing policies layered on top of it: debounce, throttle
// and delayed tasks.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrClosed is returned when posting to a loop that has shut down.
var ErrClosed = errors.New("scheduler: loop closed")

const queueSize = 256

// Loop executes posted tasks one at a time, in posting order, on a single
// goroutine. State touched only from tasks needs no further locking.
//
// Tasks must not call Call on their own loop; they may Post.
type Loop struct {
	clock Clock
	tasks chan func()
	quit  chan struct{}
	done  chan struct{}
	once  sync.Once
}

// NewLoop starts a loop driven by clock.
func NewLoop(clock Clock) *Loop {
	if clock == nil {
		clock = RealClock()
	}
	l := &Loop{
		clock: clock,
		tasks: make(chan func(), queueSize),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		select {
		case fn := <-l.tasks:
			fn()
		case <-l.quit:
			return
		}
	}
}

// Clock returns the loop's clock.
func (l *Loop) Clock() Clock { return l.clock }

// Post enqueues fn. It reports false once the loop is closed.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.quit:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.quit:
		return false
	}
}

// Call runs fn on the loop and waits for it to finish.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrClosed
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrClosed
	}
}

// AfterFunc posts fn onto the loop once d has elapsed on the loop's clock.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	return l.clock.AfterFunc(d, func() { l.Post(fn) })
}

// Close stops the loop after the task in progress. Queued tasks are dropped.
func (l *Loop) Close() {
	l.once.Do(func() { close(l.quit) })
	<-l.done
}
