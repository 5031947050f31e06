package preferences

import (
	"breathflow/internal/core/model"
	"breathflow/internal/reminder"
)

// Settings defines editable user preferences.
type Settings struct {
	ExerciseID     string
	Duration       model.SessionDuration
	SoundEnabled   bool
	JournalEnabled bool
	LaunchAtLogin  bool
	Reminder       reminder.Settings
}

// DefaultSettings returns default settings for BreathFlow.
func DefaultSettings() Settings {
	return Settings{
		ExerciseID:   model.Balanced.ID,
		Duration:     model.TenMinutes,
		SoundEnabled: true,
		Reminder:     reminder.DefaultSettings(),
	}
}

// Pattern resolves the selected exercise, falling back to Balanced.
func (settings Settings) Pattern() model.ExercisePattern {
	if pattern, ok := model.PatternByID(settings.ExerciseID); ok {
		return pattern
	}
	return model.Balanced
}

// SessionConfig converts settings to a controller configuration.
func (settings Settings) SessionConfig() model.SessionConfig {
	duration := settings.Duration
	if duration.Validate() != nil {
		duration = model.TenMinutes
	}
	return model.NewSessionConfig(settings.Pattern(), duration)
}
