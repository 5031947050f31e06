package breath

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var epoch = time.Date(2026, 3, 1, 7, 30, 0, 0, time.UTC)

func TestPhaseClock_RemainingStartsAtCeilDuration(t *testing.T) {
	clock := StartPhaseClock(5, epoch)
	require.Equal(t, 5, clock.Remaining(epoch))
	require.Equal(t, 5, clock.Remaining(epoch.Add(300*time.Millisecond)))
	require.Equal(t, 4, clock.Remaining(epoch.Add(time.Second)))
	require.Equal(t, 1, clock.Remaining(epoch.Add(4500*time.Millisecond)))
	require.False(t, clock.IsComplete(epoch.Add(4999*time.Millisecond)))
	require.Equal(t, 0, clock.Remaining(epoch.Add(5*time.Second)))
	require.True(t, clock.IsComplete(epoch.Add(5*time.Second)))
}

func TestPhaseClock_FractionalDuration(t *testing.T) {
	clock := StartPhaseClock(4.5, epoch)
	require.Equal(t, 5, clock.Remaining(epoch))
	require.Equal(t, 4, clock.Remaining(epoch.Add(time.Second)))
	require.Equal(t, 1, clock.Remaining(epoch.Add(4*time.Second)))
	require.Equal(t, 0, clock.Remaining(epoch.Add(5*time.Second)))
}

func TestPhaseClock_ClockBeforeStart(t *testing.T) {
	clock := StartPhaseClock(5, epoch)
	earlier := epoch.Add(-time.Minute)
	require.Equal(t, 0.0, clock.Elapsed(earlier))
	require.Equal(t, 0.0, clock.Fill(earlier))
	require.Equal(t, 5, clock.Remaining(earlier))
}

func TestPhaseClock_StaleJumpCompletes(t *testing.T) {
	clock := StartPhaseClock(5, epoch)
	later := epoch.Add(time.Hour)
	require.True(t, clock.IsComplete(later))
	require.Equal(t, 0, clock.Remaining(later))
	require.Equal(t, 1.0, clock.Fill(later))
}

func TestPhaseClock_FillMonotonicAndLandsAtOne(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		durationMillis := rapid.IntRange(500, 20000).Draw(r, "durationMillis")
		steps := rapid.SliceOfN(rapid.IntRange(0, 1500), 1, 60).Draw(r, "steps")

		duration := float64(durationMillis) / 1000
		clock := StartPhaseClock(duration, epoch)
		now := epoch
		previous := clock.Fill(now)
		require.Equal(r, 0.0, previous)

		for _, step := range steps {
			now = now.Add(time.Duration(step) * time.Millisecond)
			fill := clock.Fill(now)
			require.GreaterOrEqual(r, fill, previous)
			require.LessOrEqual(r, fill, 1.0)
			if clock.IsComplete(now) {
				require.Equal(r, 1.0, fill)
				require.Equal(r, 0, clock.Remaining(now))
			}
			previous = fill
		}
	})
}

func TestPhase_DisplayFill(t *testing.T) {
	require.Equal(t, 0.25, PhaseInhale.DisplayFill(0.25))
	require.Equal(t, 0.75, PhaseExhale.DisplayFill(0.25))
	require.Equal(t, "Exhale", PhaseExhale.Title())
}
