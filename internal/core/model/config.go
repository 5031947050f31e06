package model

import "time"

// Session timing defaults.
const (
	DefaultCountdownTicks = 3
	DefaultTickInterval   = time.Second
)

// SessionConfig contains runtime settings for one breathing session.
type SessionConfig struct {
	Pattern  ExercisePattern
	Duration SessionDuration

	CountdownTicks int
	TickInterval   time.Duration
}

// NewSessionConfig returns a config with default timing.
func NewSessionConfig(pattern ExercisePattern, duration SessionDuration) SessionConfig {
	return SessionConfig{
		Pattern:        pattern,
		Duration:       duration,
		CountdownTicks: DefaultCountdownTicks,
		TickInterval:   DefaultTickInterval,
	}
}

// Validate checks the pattern and duration.
func (config SessionConfig) Validate() error {
	if err := config.Pattern.Validate(); err != nil {
		return err
	}
	return config.Duration.Validate()
}

// WithDefaults fills zero timing values.
func (config SessionConfig) WithDefaults() SessionConfig {
	if config.CountdownTicks <= 0 {
		config.CountdownTicks = DefaultCountdownTicks
	}
	if config.TickInterval <= 0 {
		config.TickInterval = DefaultTickInterval
	}
	return config
}
