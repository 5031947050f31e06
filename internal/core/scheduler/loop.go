package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrLoopStopped is returned by Do after the loop has stopped.
var ErrLoopStopped = errors.New("loop stopped")

// Loop is a real-time Scheduler backed by a single goroutine.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	done    chan struct{}
	stopped sync.Once
	now     func() time.Time
}

type loopTicker struct {
	cancelled atomic.Bool
	stop      chan struct{}
	once      sync.Once
}

// NewLoop creates a loop using the wall clock.
func NewLoop() *Loop {
	return NewLoopWithClock(time.Now)
}

// NewLoopWithClock creates a loop with a custom clock source.
func NewLoopWithClock(now func() time.Time) *Loop {
	if now == nil {
		now = time.Now
	}
	return &Loop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
		now:  now,
	}
}

// Run drains the task queue until ctx is cancelled or Stop is called.
func (loop *Loop) Run(ctx context.Context) {
	defer loop.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-loop.done:
			return
		case <-loop.wake:
			loop.drain()
		}
	}
}

// Stop terminates the loop and all tickers.
func (loop *Loop) Stop() {
	loop.stopped.Do(func() {
		close(loop.done)
	})
}

// Done is closed once the loop stops.
func (loop *Loop) Done() <-chan struct{} {
	return loop.done
}

// Now returns the loop's clock.
func (loop *Loop) Now() time.Time {
	return loop.now()
}

// Post queues fn for a later turn.
func (loop *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	select {
	case <-loop.done:
		return
	default:
	}

	loop.mu.Lock()
	loop.queue = append(loop.queue, fn)
	loop.mu.Unlock()

	select {
	case loop.wake <- struct{}{}:
	default:
	}
}

// Do runs fn on the loop and waits for it. It must not be called from the loop.
func (loop *Loop) Do(fn func()) error {
	finished := make(chan struct{})
	loop.Post(func() {
		defer close(finished)
		fn()
	})
	select {
	case <-finished:
		return nil
	case <-loop.done:
		return ErrLoopStopped
	}
}

// Every starts a ticker whose callbacks are delivered through the loop.
func (loop *Loop) Every(interval time.Duration, fn func(now time.Time)) Cancel {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := &loopTicker{stop: make(chan struct{})}

	go func() {
		timer := time.NewTicker(interval)
		defer timer.Stop()
		for {
			select {
			case <-ticker.stop:
				return
			case <-loop.done:
				return
			case <-timer.C:
				loop.Post(func() {
					if ticker.cancelled.Load() {
						return
					}
					fn(loop.now())
				})
			}
		}
	}()

	return func() {
		ticker.cancelled.Store(true)
		ticker.once.Do(func() {
			close(ticker.stop)
		})
	}
}

func (loop *Loop) drain() {
	for {
		loop.mu.Lock()
		if len(loop.queue) == 0 {
			loop.mu.Unlock()
			return
		}
		tasks := loop.queue
		loop.queue = nil
		loop.mu.Unlock()

		for _, task := range tasks {
			select {
			case <-loop.done:
				return
			default:
			}
			task()
		}
	}
}
