// Package scheduler provides the single logical event loop that drives a
// breathing session, plus a virtual-time implementation for tests.
//
// Every callback handed to a Scheduler runs on the same loop, one at a time.
// Cancel functions may be called from any goroutine. Once Cancel returns, the
// ticker's callback is never started again, even if a tick was already
// queued; a callback already running on the loop finishes normally.
package scheduler

import "time"

// Cancel stops a periodic callback.
type Cancel func()

// Scheduler runs callbacks on one logical loop.
type Scheduler interface {
	// Now returns the loop's clock.
	Now() time.Time
	// Every runs fn on the loop once per interval until cancelled.
	Every(interval time.Duration, fn func(now time.Time)) Cancel
	// Post runs fn on a later turn of the loop.
	Post(fn func())
}
