package breath

import (
	"math"
	"time"
)

// PhaseClock times a single phase from an absolute start instant, so a late
// or skipped tick never shifts the phase boundary.
type PhaseClock struct {
	duration  float64
	startedAt time.Time
}

// StartPhaseClock starts timing a phase of duration seconds at startedAt.
func StartPhaseClock(duration float64, startedAt time.Time) *PhaseClock {
	return &PhaseClock{duration: duration, startedAt: startedAt}
}

// Duration returns the phase length in seconds.
func (clock *PhaseClock) Duration() float64 {
	return clock.duration
}

// StartedAt returns the phase start instant.
func (clock *PhaseClock) StartedAt() time.Time {
	return clock.startedAt
}

// Elapsed returns seconds since start, never negative.
func (clock *PhaseClock) Elapsed(now time.Time) float64 {
	elapsed := now.Sub(clock.startedAt).Seconds()
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// Remaining returns whole seconds left, rounded up.
func (clock *PhaseClock) Remaining(now time.Time) int {
	remaining := clock.duration - clock.Elapsed(now)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining))
}

// IsComplete reports whether the full duration has elapsed.
func (clock *PhaseClock) IsComplete(now time.Time) bool {
	return clock.Elapsed(now) >= clock.duration
}

// Fill returns the completed share of the phase in [0,1].
func (clock *PhaseClock) Fill(now time.Time) float64 {
	if clock.duration <= 0 {
		return 1
	}
	fill := clock.Elapsed(now) / clock.duration
	if fill > 1 {
		return 1
	}
	return fill
}

// rebase moves the start so that elapsed at now equals elapsed.
func (clock *PhaseClock) rebase(now time.Time, elapsed float64) {
	clock.startedAt = now.Add(-time.Duration(elapsed * float64(time.Second)))
}
