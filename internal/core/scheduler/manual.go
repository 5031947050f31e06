package scheduler

import (
	"sync"
	"time"
)

// Manual is a virtual-time Scheduler. Time only moves when Advance or Set is
// called, which makes session timing deterministic in tests and previews.
//
// Tickers run on a monotonic timeline; Set only shifts the wall clock that
// Now reports, the same way a system clock change leaves real tickers alone.
type Manual struct {
	mu      sync.Mutex
	mono    time.Time
	offset  time.Duration
	seq     int
	tickers []*manualTicker
	queue   []func()
}

type manualTicker struct {
	seq       int
	interval  time.Duration
	next      time.Time
	fn        func(time.Time)
	cancelled bool
}

// NewManual creates a virtual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{mono: start}
}

// Now returns the virtual wall time.
func (manual *Manual) Now() time.Time {
	manual.mu.Lock()
	defer manual.mu.Unlock()
	return manual.nowLocked()
}

// Every registers a virtual ticker.
func (manual *Manual) Every(interval time.Duration, fn func(now time.Time)) Cancel {
	if interval <= 0 {
		interval = time.Second
	}
	manual.mu.Lock()
	manual.seq++
	ticker := &manualTicker{
		seq:      manual.seq,
		interval: interval,
		next:     manual.mono.Add(interval),
		fn:       fn,
	}
	manual.tickers = append(manual.tickers, ticker)
	manual.mu.Unlock()

	return func() {
		manual.mu.Lock()
		ticker.cancelled = true
		manual.mu.Unlock()
	}
}

// Post queues fn until the next Advance or RunPending.
func (manual *Manual) Post(fn func()) {
	if fn == nil {
		return
	}
	manual.mu.Lock()
	manual.queue = append(manual.queue, fn)
	manual.mu.Unlock()
}

// RunPending drains posted tasks without moving time.
func (manual *Manual) RunPending() {
	for {
		manual.mu.Lock()
		if len(manual.queue) == 0 {
			manual.mu.Unlock()
			return
		}
		task := manual.queue[0]
		manual.queue = manual.queue[1:]
		manual.mu.Unlock()
		task()
	}
}

// Advance moves time forward by delta, firing due ticks in time order.
func (manual *Manual) Advance(delta time.Duration) {
	manual.RunPending()

	manual.mu.Lock()
	target := manual.mono.Add(delta)
	manual.mu.Unlock()

	for {
		manual.mu.Lock()
		ticker := manual.nextDueLocked(target)
		if ticker == nil {
			manual.mono = target
			manual.mu.Unlock()
			break
		}
		manual.mono = ticker.next
		ticker.next = ticker.next.Add(ticker.interval)
		now := manual.nowLocked()
		manual.mu.Unlock()

		ticker.fn(now)
		manual.RunPending()
	}

	manual.RunPending()
}

// Set jumps the wall clock to t without firing tickers.
func (manual *Manual) Set(t time.Time) {
	manual.mu.Lock()
	manual.offset = t.Sub(manual.mono)
	manual.mu.Unlock()
}

// ActiveTickers counts tickers that have not been cancelled.
func (manual *Manual) ActiveTickers() int {
	manual.mu.Lock()
	defer manual.mu.Unlock()
	count := 0
	for _, ticker := range manual.tickers {
		if !ticker.cancelled {
			count++
		}
	}
	return count
}

func (manual *Manual) nowLocked() time.Time {
	return manual.mono.Add(manual.offset)
}

func (manual *Manual) nextDueLocked(target time.Time) *manualTicker {
	var due *manualTicker
	live := manual.tickers[:0]
	for _, ticker := range manual.tickers {
		if ticker.cancelled {
			continue
		}
		live = append(live, ticker)
		if ticker.next.After(target) {
			continue
		}
		if due == nil || ticker.next.Before(due.next) || (ticker.next.Equal(due.next) && ticker.seq < due.seq) {
			due = ticker
		}
	}
	manual.tickers = live
	return due
}
