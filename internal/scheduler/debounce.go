package scheduler

import "time"

// Debouncer runs only the most recent of a burst of calls, once the burst
// has been quiet for the configured delay. Each Trigger supersedes the one
// before it. Trigger and Cancel must be called from tasks on the loop.
type Debouncer struct {
	loop  *Loop
	delay time.Duration
	timer Timer
	gen   uint64
}

func NewDebouncer(loop *Loop, delay time.Duration) *Debouncer {
	return &Debouncer{loop: loop, delay: delay}
}

// Trigger schedules fn, cancelling any call still waiting.
func (d *Debouncer) Trigger(fn func()) {
	d.Cancel()
	gen := d.gen
	d.timer = d.loop.AfterFunc(d.delay, func() {
		// A superseded timer can still land in the queue after Stop lost the race.
		if d.gen != gen {
			return
		}
		d.timer = nil
		fn()
	})
}

// Cancel drops the waiting call, if any.
func (d *Debouncer) Cancel() {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending reports whether a call is waiting.
func (d *Debouncer) Pending() bool {
	return d.timer != nil
}
