package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const statsFileName = "stats.yaml"

// UserStats holds lifetime totals and the daily streak.
type UserStats struct {
	TotalSecondsBreathed int
	LastSessionDate      time.Time
	CurrentStreak        int
}

// FormatTotal renders the total as "1h 5m", "12 min" or "0 min".
func (stats UserStats) FormatTotal() string {
	hours := stats.TotalSecondsBreathed / 3600
	minutes := (stats.TotalSecondsBreathed % 3600) / 60
	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%d min", minutes)
	default:
		return "0 min"
	}
}

type yamlStats struct {
	TotalSecondsBreathed int    `yaml:"total_seconds_breathed"`
	LastSessionDate      string `yaml:"last_session_date,omitempty"`
	CurrentStreak        int    `yaml:"current_streak"`
}

const statsDateLayout = "2006-01-02"

// StatsStore keeps UserStats in {dataDir}/stats.yaml.
type StatsStore struct {
	mu   sync.Mutex
	path string
}

// NewStatsStore creates a store rooted at dataDir.
func NewStatsStore(dataDir string) *StatsStore {
	return &StatsStore{path: filepath.Join(dataDir, statsFileName)}
}

// Load returns the stored stats, or zero stats if the file does not exist.
func (store *StatsStore) Load() (UserStats, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.loadLocked()
}

// RecordCompletion adds durationSeconds to the total and advances the streak
// using the local calendar day of at.
func (store *StatsStore) RecordCompletion(durationSeconds int, at time.Time) (UserStats, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	stats, err := store.loadLocked()
	if err != nil {
		return stats, err
	}

	if durationSeconds > 0 {
		stats.TotalSecondsBreathed += durationSeconds
	}
	stats = advanceStreak(stats, at)

	if err := store.saveLocked(stats); err != nil {
		return stats, err
	}
	return stats, nil
}

// Reset clears all stats.
func (store *StatsStore) Reset() error {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.saveLocked(UserStats{})
}

func advanceStreak(stats UserStats, at time.Time) UserStats {
	today := startOfDay(at)
	if stats.LastSessionDate.IsZero() {
		stats.CurrentStreak = 1
		stats.LastSessionDate = today
		return stats
	}

	// Compare calendar days; the stored date carries no meaningful zone.
	year, month, day := stats.LastSessionDate.Date()
	last := time.Date(year, month, day, 0, 0, 0, 0, at.Location())
	switch {
	case last.Equal(today):
	case last.Equal(today.AddDate(0, 0, -1)):
		stats.CurrentStreak++
	default:
		stats.CurrentStreak = 1
	}
	if stats.CurrentStreak < 1 {
		stats.CurrentStreak = 1
	}
	stats.LastSessionDate = today
	return stats
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func (store *StatsStore) loadLocked() (UserStats, error) {
	rawData, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return UserStats{}, nil
		}
		return UserStats{}, fmt.Errorf("read stats file: %w", err)
	}

	var fileData yamlStats
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return UserStats{}, fmt.Errorf("parse stats yaml: %w", err)
	}

	stats := UserStats{
		TotalSecondsBreathed: max(fileData.TotalSecondsBreathed, 0),
		CurrentStreak:        max(fileData.CurrentStreak, 0),
	}
	if fileData.LastSessionDate != "" {
		date, err := time.ParseInLocation(statsDateLayout, fileData.LastSessionDate, time.Local)
		if err != nil {
			return UserStats{}, fmt.Errorf("parse last session date: %w", err)
		}
		stats.LastSessionDate = date
	}
	return stats, nil
}

func (store *StatsStore) saveLocked(stats UserStats) error {
	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return fmt.Errorf("create stats directory: %w", err)
	}

	fileData := yamlStats{
		TotalSecondsBreathed: stats.TotalSecondsBreathed,
		CurrentStreak:        stats.CurrentStreak,
	}
	if !stats.LastSessionDate.IsZero() {
		fileData.LastSessionDate = stats.LastSessionDate.Format(statsDateLayout)
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal stats yaml: %w", err)
	}
	if err := writeFileAtomic(store.path, serialized); err != nil {
		return fmt.Errorf("write stats file: %w", err)
	}
	return nil
}
