package model

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestComputePlan_Balanced(t *testing.T) {
	plan, err := ComputePlan(Balanced, 600)
	require.NoError(t, err)
	require.Equal(t, 60, plan.TotalBreaths)
	require.Equal(t, 600, plan.TotalSeconds)
	require.False(t, plan.IsDegenerate())
}

func TestComputePlan_Relaxing(t *testing.T) {
	require.Equal(t, 12.0, Relaxing.CycleDuration())

	plan, err := ComputePlan(Relaxing, 300)
	require.NoError(t, err)
	require.Equal(t, 25, plan.TotalBreaths)
}

func TestComputePlan_ShorterThanOneCycle(t *testing.T) {
	plan, err := ComputePlan(Relaxing, 11)
	require.NoError(t, err)
	require.Equal(t, 0, plan.TotalBreaths)
	require.True(t, plan.IsDegenerate())
	require.Equal(t, 0.0, plan.Progress(0))
}

func TestComputePlan_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		pattern ExercisePattern
		seconds int
		field   string
	}{
		{"zero inhale", ExercisePattern{InhaleSeconds: 0, ExhaleSeconds: 5}, 60, "inhale_seconds"},
		{"negative exhale", ExercisePattern{InhaleSeconds: 4, ExhaleSeconds: -1}, 60, "exhale_seconds"},
		{"nan inhale", ExercisePattern{InhaleSeconds: math.NaN(), ExhaleSeconds: 5}, 60, "inhale_seconds"},
		{"zero seconds", Balanced, 0, "total_seconds"},
		{"negative seconds", Balanced, -60, "total_seconds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputePlan(tt.pattern, tt.seconds)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrInvalidConfiguration)

			var configErr *ConfigurationError
			require.True(t, errors.As(err, &configErr))
			require.Equal(t, tt.field, configErr.Field)
		})
	}
}

func TestComputePlan_FloorProperty(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		inhale := rapid.IntRange(1, 20).Draw(r, "inhale")
		exhale := rapid.IntRange(1, 20).Draw(r, "exhale")
		minutes := rapid.IntRange(1, 60).Draw(r, "minutes")

		pattern := ExercisePattern{ID: "p", InhaleSeconds: float64(inhale), ExhaleSeconds: float64(exhale)}
		plan, err := ComputePlan(pattern, minutes*60)
		require.NoError(r, err)
		require.Equal(r, (minutes*60)/(inhale+exhale), plan.TotalBreaths)
		require.GreaterOrEqual(r, plan.TotalBreaths, 0)
	})
}

func TestBreathProgress(t *testing.T) {
	require.Equal(t, 0.0, BreathProgress(0, 0))
	require.Equal(t, 0.0, BreathProgress(10, 10))
	require.Equal(t, 0.5, BreathProgress(10, 5))
	require.Equal(t, 1.0, BreathProgress(10, 0))
	require.Equal(t, 1.0, BreathProgress(10, -3))
}

func TestSessionDuration_Validate(t *testing.T) {
	for _, duration := range Durations() {
		require.NoError(t, duration.Validate())
	}
	require.ErrorIs(t, SessionDuration(0).Validate(), ErrInvalidConfiguration)
	require.ErrorIs(t, SessionDuration(90).Validate(), ErrInvalidConfiguration)
	require.Equal(t, "10 min", TenMinutes.DisplayName())
	require.Equal(t, FifteenMinutes, DurationFromMinutes(15))
}

func TestPatternByID(t *testing.T) {
	pattern, ok := PatternByID("relaxing")
	require.True(t, ok)
	require.Equal(t, Relaxing, pattern)
	require.Equal(t, "4 in / 8 out", pattern.Label())

	_, ok = PatternByID("missing")
	require.False(t, ok)
}

func TestSessionConfig_WithDefaults(t *testing.T) {
	config := SessionConfig{Pattern: Balanced, Duration: FiveMinutes}.WithDefaults()
	require.Equal(t, DefaultCountdownTicks, config.CountdownTicks)
	require.Equal(t, DefaultTickInterval, config.TickInterval)
	require.NoError(t, config.Validate())
}
