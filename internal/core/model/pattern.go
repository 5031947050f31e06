package model

import (
	"fmt"
	"math"
)

// ExercisePattern describes one breathing exercise.
type ExercisePattern struct {
	ID            string
	DisplayName   string
	Description   string
	InhaleSeconds float64
	ExhaleSeconds float64
}

// Built-in exercise patterns.
var (
	Balanced = ExercisePattern{
		ID:            "balanced",
		DisplayName:   "Balanced",
		Description:   "Equal breathing for focus and calm",
		InhaleSeconds: 5,
		ExhaleSeconds: 5,
	}
	Relaxing = ExercisePattern{
		ID:            "relaxing",
		DisplayName:   "Relaxing",
		Description:   "Extended exhale for deep relaxation",
		InhaleSeconds: 4,
		ExhaleSeconds: 8,
	}
)

// Patterns returns the exercise catalog in display order.
func Patterns() []ExercisePattern {
	return []ExercisePattern{Balanced, Relaxing}
}

// PatternByID looks up a catalog pattern.
func PatternByID(id string) (ExercisePattern, bool) {
	for _, pattern := range Patterns() {
		if pattern.ID == id {
			return pattern, true
		}
	}
	return ExercisePattern{}, false
}

// CycleDuration is the length of one inhale plus one exhale in seconds.
func (pattern ExercisePattern) CycleDuration() float64 {
	return pattern.InhaleSeconds + pattern.ExhaleSeconds
}

// Label returns the short "5 in / 5 out" form.
func (pattern ExercisePattern) Label() string {
	return fmt.Sprintf("%s in / %s out", formatSeconds(pattern.InhaleSeconds), formatSeconds(pattern.ExhaleSeconds))
}

// Validate reports a ConfigurationError for unusable durations.
func (pattern ExercisePattern) Validate() error {
	if !isPositive(pattern.InhaleSeconds) {
		return &ConfigurationError{Field: "inhale_seconds", Reason: fmt.Sprintf("must be positive, got %v", pattern.InhaleSeconds)}
	}
	if !isPositive(pattern.ExhaleSeconds) {
		return &ConfigurationError{Field: "exhale_seconds", Reason: fmt.Sprintf("must be positive, got %v", pattern.ExhaleSeconds)}
	}
	return nil
}

func isPositive(value float64) bool {
	return value > 0 && !math.IsInf(value, 1)
}

func formatSeconds(value float64) string {
	if value == math.Trunc(value) {
		return fmt.Sprintf("%d", int(value))
	}
	return fmt.Sprintf("%.1f", value)
}
