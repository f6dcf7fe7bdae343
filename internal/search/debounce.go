// Package search keeps the invoice listing in step with a debounced search box.
package search

import (
	"sync"
	"time"
)

// DefaultWait is the quiet period after the last keystroke before the
// listing query is updated.
const DefaultWait = 500 * time.Millisecond

// Timer is a pending call scheduled by a Clock.
type Timer interface {
	Stop() bool
}

// Clock schedules deferred calls.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// SystemClock schedules on the runtime timer.
var SystemClock Clock = realClock{}

// Debouncer runs the most recently triggered function once no trigger has
// arrived for the wait period. Each Trigger replaces the pending call.
type Debouncer struct {
	clock Clock
	wait  time.Duration

	mu     sync.Mutex
	timer  Timer
	gen    uint64
	closed bool
}

// NewDebouncer returns a trailing-edge debouncer. A nil clock uses SystemClock.
func NewDebouncer(wait time.Duration, clock Clock) *Debouncer {
	if wait <= 0 {
		wait = DefaultWait
	}
	if clock == nil {
		clock = SystemClock
	}
	return &Debouncer{clock: clock, wait: wait}
}

// Trigger schedules fn after the wait period, discarding any call still pending.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.stopLocked()
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.wait, func() {
		d.mu.Lock()
		// A timer that could not be stopped in time must not run.
		if d.closed || d.gen != gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

// Close cancels the pending call and ignores later triggers.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.closed = true
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}
