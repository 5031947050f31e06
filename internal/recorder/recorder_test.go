package recorder

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"breathflow/internal/core/breath"
	"breathflow/internal/core/model"
	"breathflow/internal/core/scheduler"
	"breathflow/internal/logging"
	"breathflow/internal/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeHistory struct {
	mu      sync.Mutex
	records []storage.SessionRecord
	err     error
}

func (history *fakeHistory) RecordSession(_ context.Context, record storage.SessionRecord) error {
	history.mu.Lock()
	defer history.mu.Unlock()
	if history.err != nil {
		return history.err
	}
	history.records = append(history.records, record)
	return nil
}

type fakeStats struct {
	mu      sync.Mutex
	seconds []int
	err     error
}

func (stats *fakeStats) RecordCompletion(durationSeconds int, _ time.Time) (storage.UserStats, error) {
	stats.mu.Lock()
	defer stats.mu.Unlock()
	if stats.err != nil {
		return storage.UserStats{}, stats.err
	}
	stats.seconds = append(stats.seconds, durationSeconds)
	return storage.UserStats{TotalSecondsBreathed: durationSeconds, CurrentStreak: 1}, nil
}

type journalEntry struct {
	start, end time.Time
	name       string
}

type fakeJournal struct {
	mu      sync.Mutex
	entries []journalEntry
}

func (journal *fakeJournal) SaveMindfulSession(_ context.Context, start, end time.Time, name string) error {
	journal.mu.Lock()
	defer journal.mu.Unlock()
	journal.entries = append(journal.entries, journalEntry{start: start, end: end, name: name})
	return nil
}

var started = time.Date(2026, 3, 1, 7, 30, 3, 0, time.UTC)

func summary(breaths int) breath.Summary {
	return breath.Summary{
		PatternID:    "balanced",
		PatternName:  "Balanced",
		TotalSeconds: 600,
		TotalBreaths: breaths,
		StartedAt:    started,
		EndedAt:      started.Add(10 * time.Minute),
	}
}

func TestRecorder_WritesAllCollaborators(t *testing.T) {
	history, stats, journal := &fakeHistory{}, &fakeStats{}, &fakeJournal{}
	var recorded storage.UserStats
	recorder := New(Options{
		History:        history,
		Stats:          stats,
		Journal:        journal,
		JournalEnabled: func() bool { return true },
		OnRecorded:     func(updated storage.UserStats) { recorded = updated },
	})

	recorder.OnSessionCompleted(summary(60))
	recorder.Wait()

	require.Len(t, history.records, 1)
	record := history.records[0]
	require.Equal(t, "balanced", record.ExerciseType)
	require.Equal(t, "Balanced", record.ExerciseName)
	require.Equal(t, 600, record.DurationSeconds)
	require.Equal(t, 60, record.BreathCount)
	require.Equal(t, []int{600}, stats.seconds)
	require.Equal(t, 1, recorded.CurrentStreak)
	require.Equal(t, []journalEntry{{start: started, end: started.Add(10 * time.Minute), name: "Balanced"}}, journal.entries)
}

func TestRecorder_JournalDisabled(t *testing.T) {
	journal := &fakeJournal{}
	recorder := New(Options{Journal: journal, JournalEnabled: func() bool { return false }})
	recorder.OnSessionCompleted(summary(60))
	recorder.Wait()
	require.Empty(t, journal.entries)
}

func TestRecorder_ZeroBreathsSkipsHistoryButCountsStats(t *testing.T) {
	history, stats := &fakeHistory{}, &fakeStats{}
	recorder := New(Options{History: history, Stats: stats})
	recorder.OnSessionCompleted(summary(0))
	recorder.Wait()

	require.Empty(t, history.records)
	require.Equal(t, []int{600}, stats.seconds)
}

func TestRecorder_SwallowsFailures(t *testing.T) {
	var logs bytes.Buffer
	history := &fakeHistory{err: errors.New("database is locked")}
	stats := &fakeStats{err: errors.New("read-only file system")}
	called := false
	recorder := New(Options{
		History:    history,
		Stats:      stats,
		OnRecorded: func(storage.UserStats) { called = true },
		Logger:     logging.New(&logs, logging.LevelWarn),
	})

	recorder.OnSessionCompleted(summary(60))
	recorder.Wait()

	require.False(t, called)
	require.Contains(t, logs.String(), "record session failed")
	require.Contains(t, logs.String(), "record stats failed")
}

func TestRecorder_LogsCarryHistoryRecordID(t *testing.T) {
	var logs bytes.Buffer
	history := &fakeHistory{}
	recorder := New(Options{History: history, Logger: logging.New(&logs, logging.LevelInfo)})

	recorder.OnSessionCompleted(summary(60))
	recorder.Wait()

	require.Len(t, history.records, 1)
	require.NotEqual(t, uuid.Nil, history.records[0].ID)
	require.Contains(t, logs.String(), "session recorded")
	require.Contains(t, logs.String(), "session_id="+history.records[0].ID.String())
}

func TestRecorder_ControllerCompletionIsPersisted(t *testing.T) {
	history, stats := &fakeHistory{}, &fakeStats{}
	recorder := New(Options{History: history, Stats: stats})
	clock := scheduler.NewManual(started.Add(-3 * time.Second))

	controller, err := breath.New(model.NewSessionConfig(model.Relaxing, model.FiveMinutes), clock, recorder)
	require.NoError(t, err)
	require.NoError(t, controller.Start())

	clock.Advance(3*time.Second + 300*time.Second)
	require.Equal(t, breath.StateCompleted, controller.State())
	recorder.Wait()

	require.Len(t, history.records, 1)
	require.Equal(t, 25, history.records[0].BreathCount)
	require.Equal(t, "relaxing", history.records[0].ExerciseType)
	require.Equal(t, []int{300}, stats.seconds)
}
