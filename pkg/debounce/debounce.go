// Package debounce provides a cancellable timer for coalescing bursts of
// calls into a single trailing invocation, such as typeahead input driving
// suggestion fetches.
package debounce

import (
	"sync"
	"time"
)

// Debouncer schedules a function to run after a fixed delay. Scheduling again
// before the delay elapses cancels the pending call, so only the most recent
// scheduled function fires.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// New creates a Debouncer with the given trailing delay.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Schedule arranges for fn to run after the configured delay, cancelling any
// previously scheduled call that has not fired yet. fn runs on its own
// goroutine (the timer's).
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending call. It reports whether a call was pending.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer == nil {
		return false
	}
	stopped := d.timer.Stop()
	d.timer = nil
	return stopped
}
