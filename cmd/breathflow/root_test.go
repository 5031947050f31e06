package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"breathflow/internal/core/breath"
	"breathflow/internal/core/model"
	"breathflow/internal/logging"
	"breathflow/internal/storage"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.Execute()
	return out.String(), err
}

func TestExercisesCommand(t *testing.T) {
	out, err := execute(t, "exercises", "--data-dir", t.TempDir())
	require.NoError(t, err)
	require.Contains(t, out, "balanced")
	require.Contains(t, out, "Relaxing")
	require.Contains(t, out, "4 in / 8 out")
	require.Contains(t, out, "Lengths: 5 min, 10 min, 15 min, 20 min")
}

func TestStatsCommand_ShowAndReset(t *testing.T) {
	dir := t.TempDir()
	_, err := storage.NewStatsStore(dir).RecordCompletion(600, time.Now())
	require.NoError(t, err)

	out, err := execute(t, "stats", "--data-dir", dir)
	require.NoError(t, err)
	require.Contains(t, out, "1 day")
	require.Contains(t, out, "10 min")

	out, err = execute(t, "stats", "--reset", "--data-dir", dir)
	require.NoError(t, err)
	require.Contains(t, out, "Stats reset.")

	out, err = execute(t, "stats", "--data-dir", dir)
	require.NoError(t, err)
	require.Contains(t, out, "0 days")
}

func TestHistoryCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "history", "--data-dir", dir)
	require.NoError(t, err)
	require.Contains(t, out, "No sessions yet.")

	store, err := storage.OpenSQLiteStore(context.Background(), dir)
	require.NoError(t, err)
	record := storage.NewSessionRecord(model.Balanced, 600, 60, time.Now())
	require.NoError(t, store.RecordSession(context.Background(), record))
	require.NoError(t, store.Close())

	out, err = execute(t, "history", "--data-dir", dir)
	require.NoError(t, err)
	require.Contains(t, out, "Balanced")
	require.Contains(t, out, "60 breaths")
	require.Contains(t, out, record.ID.String())
	require.Contains(t, out, "1 sessions · 10 min · 60 breaths")

	out, err = execute(t, "history", "--delete", record.ID.String(), "--data-dir", dir)
	require.NoError(t, err)
	require.Contains(t, out, "Deleted "+record.ID.String())

	_, err = execute(t, "history", "--delete", record.ID.String(), "--data-dir", dir)
	require.ErrorIs(t, err, storage.ErrRecordNotFound)

	_, err = execute(t, "history", "--delete", "not-a-uuid", "--data-dir", dir)
	require.Error(t, err)
}

func TestHistoryCommand_Journal(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "history", "--journal", "--data-dir", dir)
	require.NoError(t, err)
	require.Contains(t, out, "No journal entries yet.")

	store, err := storage.OpenSQLiteStore(context.Background(), dir)
	require.NoError(t, err)
	start := time.Date(2026, 3, 1, 7, 30, 0, 0, time.Local)
	require.NoError(t, store.SaveMindfulSession(context.Background(), start, start.Add(10*time.Minute), "Relaxing"))
	require.NoError(t, store.Close())

	out, err = execute(t, "history", "--journal", "--data-dir", dir)
	require.NoError(t, err)
	require.Contains(t, out, "2026-03-01  07:30-07:40  Relaxing")

	_, err = execute(t, "history", "--journal", "--delete", "x", "--data-dir", dir)
	require.Error(t, err)
}

func TestRunCommand_RejectsBadInput(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "run", "--exercise", "box", "--data-dir", dir)
	require.ErrorContains(t, err, `unknown exercise "box"`)

	_, err = execute(t, "run", "--minutes", "0", "--data-dir", dir)
	require.ErrorIs(t, err, model.ErrInvalidConfiguration)
}

func TestDataDir_FromEnvironment(t *testing.T) {
	dir := t.TempDir()
	_, err := storage.NewStatsStore(dir).RecordCompletion(300, time.Now())
	require.NoError(t, err)
	t.Setenv("BREATHFLOW_DATA_DIR", dir)

	out, err := execute(t, "stats")
	require.NoError(t, err)
	require.Contains(t, out, "1 day")
	require.Contains(t, out, "5 min")
}

func TestDataDir_FromConfigFile(t *testing.T) {
	dir := t.TempDir()
	_, err := storage.NewStatsStore(dir).RecordCompletion(900, time.Now())
	require.NoError(t, err)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("data_dir: "+dir+"\nlog_level: debug\n"), 0o644))

	out, err := execute(t, "stats", "--config", configPath)
	require.NoError(t, err)
	require.Contains(t, out, "15 min")

	_, err = execute(t, "stats", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestTerminalSession_InterruptCancels(t *testing.T) {
	var out bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	session := terminalSession{
		out:    &out,
		config: model.NewSessionConfig(model.Balanced, model.FiveMinutes),
		logger: logging.Nop(),
	}
	state, err := session.run(ctx)
	require.NoError(t, err)
	require.Equal(t, breath.StateCancelled, state)
	require.Contains(t, out.String(), "Get ready 3")
	require.Contains(t, out.String(), "Session stopped.")
}
