// Package storage persists BreathFlow settings, streak statistics, session
// history and the mindful journal under the application data directory.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"breathflow/internal/core/model"
	"breathflow/internal/ui/preferences"
	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	ExerciseID      string       `yaml:"exercise_id"`
	DurationMinutes int          `yaml:"duration_minutes"`
	SoundEnabled    *bool        `yaml:"sound_enabled"`
	JournalEnabled  bool         `yaml:"journal_enabled"`
	LaunchAtLogin   bool         `yaml:"launch_at_login"`
	Reminder        yamlReminder `yaml:"reminder"`
}

type yamlReminder struct {
	Enabled bool  `yaml:"enabled"`
	Hour    *int  `yaml:"hour"`
	Minute  *int  `yaml:"minute"`
	Smart   *bool `yaml:"smart"`
}

// SettingsPath returns the settings file inside dataDir.
func SettingsPath(dataDir string) string {
	return filepath.Join(dataDir, settingsFileName)
}

// LoadSettings reads user preferences from {dataDir}/settings.yaml.
// If the file does not exist, default settings are returned.
func LoadSettings(dataDir string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(SettingsPath(dataDir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to {dataDir}/settings.yaml.
func SaveSettings(dataDir string, settings preferences.Settings) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	hour, minute := settings.Reminder.Hour, settings.Reminder.Minute
	fileData := yamlSettings{
		ExerciseID:      settings.ExerciseID,
		DurationMinutes: settings.Duration.Minutes(),
		SoundEnabled:    &settings.SoundEnabled,
		JournalEnabled:  settings.JournalEnabled,
		LaunchAtLogin:   settings.LaunchAtLogin,
		Reminder: yamlReminder{
			Enabled: settings.Reminder.Enabled,
			Hour:    &hour,
			Minute:  &minute,
			Smart:   &settings.Reminder.Smart,
		},
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := writeFileAtomic(SettingsPath(dataDir), serialized); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if _, ok := model.PatternByID(fileData.ExerciseID); ok {
		settings.ExerciseID = fileData.ExerciseID
	}
	if duration := model.DurationFromMinutes(fileData.DurationMinutes); duration.Validate() == nil {
		settings.Duration = duration
	}
	if fileData.SoundEnabled != nil {
		settings.SoundEnabled = *fileData.SoundEnabled
	}

	settings.JournalEnabled = fileData.JournalEnabled
	settings.LaunchAtLogin = fileData.LaunchAtLogin
	settings.Reminder.Enabled = fileData.Reminder.Enabled

	if hour := fileData.Reminder.Hour; hour != nil && *hour >= 0 && *hour <= 23 {
		settings.Reminder.Hour = *hour
	}
	if minute := fileData.Reminder.Minute; minute != nil && *minute >= 0 && *minute <= 59 {
		settings.Reminder.Minute = *minute
	}
	if fileData.Reminder.Smart != nil {
		settings.Reminder.Smart = *fileData.Reminder.Smart
	}
}

// writeFileAtomic writes to a temp file in the same directory and renames it
// over path.
func writeFileAtomic(path string, data []byte) error {
	temp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return err
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return err
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return err
	}
	return nil
}
