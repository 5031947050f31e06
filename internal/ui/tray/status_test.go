package tray

import (
	"testing"

	"breathflow/internal/core/breath"
	"breathflow/internal/storage"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestFormatStatus(t *testing.T) {
	require.Equal(t, "Ready", FormatStatus(breath.Snapshot{State: breath.StateIdle}))
	require.Equal(t, "Ready", FormatStatus(breath.Snapshot{State: breath.StateCancelled}))
	require.Equal(t, "Get ready 3", FormatStatus(breath.Snapshot{State: breath.StateCountdown, CountdownValue: 3}))
	require.Equal(t, "Inhale 4s · 12/60 breaths (20%)", FormatStatus(breath.Snapshot{
		State:                 breath.StateBreathing,
		Phase:                 breath.PhaseInhale,
		PhaseSecondsRemaining: 4,
		TotalBreaths:          60,
		BreathsRemaining:      48,
	}))
	require.Equal(t, "Paused · 0/25 breaths (0%)", FormatStatus(breath.Snapshot{
		State:            breath.StatePaused,
		TotalBreaths:     25,
		BreathsRemaining: 25,
	}))
	require.Equal(t, "Session complete", FormatStatus(breath.Snapshot{State: breath.StateCompleted}))
}

func TestFormatStatus_ZeroBreaths(t *testing.T) {
	require.Equal(t, "Exhale 2s", FormatStatus(breath.Snapshot{
		State:                 breath.StateBreathing,
		Phase:                 breath.PhaseExhale,
		PhaseSecondsRemaining: 2,
	}))
	require.Equal(t, "Paused", FormatStatus(breath.Snapshot{State: breath.StatePaused}))
}

func TestFormatStatus_NeverPanics(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		snapshot := breath.Snapshot{
			State:                 rapid.SampledFrom([]breath.State{breath.StateIdle, breath.StateCountdown, breath.StateBreathing, breath.StatePaused, breath.StateCompleted, breath.StateCancelled}).Draw(r, "state"),
			Phase:                 rapid.SampledFrom([]breath.Phase{breath.PhaseInhale, breath.PhaseExhale}).Draw(r, "phase"),
			TotalBreaths:          rapid.IntRange(0, 200).Draw(r, "total"),
			BreathsRemaining:      rapid.IntRange(-5, 250).Draw(r, "remaining"),
			PhaseSecondsRemaining: rapid.IntRange(0, 20).Draw(r, "seconds"),
		}
		require.NotEmpty(r, FormatStatus(snapshot))
	})
}

func TestFormatStats(t *testing.T) {
	require.Equal(t, "No sessions yet", FormatStats(storage.UserStats{}))
	require.Equal(t, "Streak 1 day · 12 min", FormatStats(storage.UserStats{CurrentStreak: 1, TotalSecondsBreathed: 720}))
	require.Equal(t, "Streak 3 days · 1h 5m", FormatStats(storage.UserStats{CurrentStreak: 3, TotalSecondsBreathed: 3900}))
}
