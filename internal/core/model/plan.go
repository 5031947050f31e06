package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfiguration is matched by every ConfigurationError.
var ErrInvalidConfiguration = errors.New("invalid session configuration")

// ConfigurationError reports an unusable pattern or duration.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (err *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid session configuration: %s %s", err.Field, err.Reason)
}

// Is lets errors.Is match ErrInvalidConfiguration.
func (err *ConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// SessionPlan is computed once when breathing begins.
type SessionPlan struct {
	Pattern      ExercisePattern
	TotalSeconds int
	TotalBreaths int
}

// ComputePlan derives the breath count for a pattern and session length.
func ComputePlan(pattern ExercisePattern, totalSeconds int) (SessionPlan, error) {
	if err := pattern.Validate(); err != nil {
		return SessionPlan{}, err
	}
	if totalSeconds <= 0 {
		return SessionPlan{}, &ConfigurationError{Field: "total_seconds", Reason: fmt.Sprintf("must be positive, got %d", totalSeconds)}
	}

	breaths := int(math.Floor(float64(totalSeconds) / pattern.CycleDuration()))
	if breaths < 0 {
		breaths = 0
	}
	return SessionPlan{
		Pattern:      pattern,
		TotalSeconds: totalSeconds,
		TotalBreaths: breaths,
	}, nil
}

// IsDegenerate reports a plan too short for a single cycle.
func (plan SessionPlan) IsDegenerate() bool {
	return plan.TotalBreaths == 0
}

// Progress returns the completed share of breaths in [0,1].
func (plan SessionPlan) Progress(breathsRemaining int) float64 {
	return BreathProgress(plan.TotalBreaths, breathsRemaining)
}

// BreathProgress returns (total - remaining) / total, or 0 for an empty plan.
func BreathProgress(totalBreaths, breathsRemaining int) float64 {
	if totalBreaths <= 0 {
		return 0
	}
	progress := float64(totalBreaths-breathsRemaining) / float64(totalBreaths)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}
