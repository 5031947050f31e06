package model

import "fmt"

// SessionDuration is a requested session length in seconds.
type SessionDuration int

// Selectable session lengths.
const (
	FiveMinutes    SessionDuration = 5 * 60
	TenMinutes     SessionDuration = 10 * 60
	FifteenMinutes SessionDuration = 15 * 60
	TwentyMinutes  SessionDuration = 20 * 60
)

// Durations returns the selectable session lengths in display order.
func Durations() []SessionDuration {
	return []SessionDuration{FiveMinutes, TenMinutes, FifteenMinutes, TwentyMinutes}
}

// DurationFromMinutes converts whole minutes to a SessionDuration.
func DurationFromMinutes(minutes int) SessionDuration {
	return SessionDuration(minutes * 60)
}

// TotalSeconds returns the duration in seconds.
func (duration SessionDuration) TotalSeconds() int {
	return int(duration)
}

// Minutes returns the duration in whole minutes.
func (duration SessionDuration) Minutes() int {
	return int(duration) / 60
}

// DisplayName returns the "5 min" form.
func (duration SessionDuration) DisplayName() string {
	return fmt.Sprintf("%d min", duration.Minutes())
}

// Validate reports a ConfigurationError unless the duration is a positive
// whole number of minutes.
func (duration SessionDuration) Validate() error {
	if duration <= 0 {
		return &ConfigurationError{Field: "total_seconds", Reason: fmt.Sprintf("must be positive, got %d", int(duration))}
	}
	if duration%60 != 0 {
		return &ConfigurationError{Field: "total_seconds", Reason: fmt.Sprintf("must be a multiple of 60, got %d", int(duration))}
	}
	return nil
}
