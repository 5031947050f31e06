package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"breathflow/internal/core/model"
)

// HistoryFileName is the SQLite database inside the data directory.
const HistoryFileName = "history.db"

// ErrRecordNotFound is returned when a record id does not exist.
var ErrRecordNotFound = errors.New("record not found")

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	recorded_at INTEGER NOT NULL,
	exercise_type TEXT NOT NULL,
	exercise_name TEXT NOT NULL,
	duration_seconds INTEGER NOT NULL,
	breath_count INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_recorded_at ON sessions(recorded_at);

CREATE TABLE IF NOT EXISTS mindful_sessions (
	id TEXT PRIMARY KEY,
	started_at INTEGER NOT NULL,
	ended_at INTEGER NOT NULL,
	exercise_name TEXT NOT NULL,
	source TEXT NOT NULL DEFAULT 'BreathFlow'
);
`

// SessionRecord is one completed session in the history.
type SessionRecord struct {
	ID              uuid.UUID
	Date            time.Time
	ExerciseType    string
	ExerciseName    string
	DurationSeconds int
	BreathCount     int
}

// NewSessionRecord builds a record with a fresh id.
func NewSessionRecord(pattern model.ExercisePattern, durationSeconds, breathCount int, at time.Time) SessionRecord {
	return SessionRecord{
		ID:              uuid.New(),
		Date:            at,
		ExerciseType:    pattern.ID,
		ExerciseName:    pattern.DisplayName,
		DurationSeconds: durationSeconds,
		BreathCount:     breathCount,
	}
}

// FormattedDuration returns the "10 min" form.
func (record SessionRecord) FormattedDuration() string {
	return fmt.Sprintf("%d min", record.DurationSeconds/60)
}

// MindfulSession is one journal entry.
type MindfulSession struct {
	ID           uuid.UUID
	Start        time.Time
	End          time.Time
	ExerciseName string
	Source       string
}

// Totals aggregates the whole history.
type Totals struct {
	Sessions int
	Seconds  int
	Breaths  int
}

// HistoryStore persists completed sessions.
type HistoryStore interface {
	RecordSession(ctx context.Context, record SessionRecord) error
	Recent(ctx context.Context, limit int) ([]SessionRecord, error)
	ByDay(ctx context.Context, day time.Time) ([]SessionRecord, error)
	HasSessionOn(ctx context.Context, day time.Time) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Totals(ctx context.Context) (Totals, error)
}

// MindfulJournal stores mindful-minutes entries.
type MindfulJournal interface {
	SaveMindfulSession(ctx context.Context, start, end time.Time, exerciseName string) error
	MindfulSessions(ctx context.Context, limit int) ([]MindfulSession, error)
}

var (
	_ HistoryStore   = (*SQLiteStore)(nil)
	_ MindfulJournal = (*SQLiteStore)(nil)
)

// SQLiteStore implements HistoryStore and MindfulJournal on one database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLiteStore opens or creates {dataDir}/history.db and applies the schema.
func OpenSQLiteStore(ctx context.Context, dataDir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	path := filepath.Join(dataDir, HistoryFileName)

	db, err := sql.Open("sqlite3", "file:"+path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping history database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply history schema: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Path returns the database file path.
func (store *SQLiteStore) Path() string {
	return store.path
}

// Close closes the database.
func (store *SQLiteStore) Close() error {
	return store.db.Close()
}

// RecordSession inserts a record. A zero id is replaced with a new one.
func (store *SQLiteStore) RecordSession(ctx context.Context, record SessionRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	_, err := store.db.ExecContext(ctx, `
		INSERT INTO sessions (id, recorded_at, exercise_type, exercise_name, duration_seconds, breath_count)
		VALUES (?, ?, ?, ?, ?, ?)`,
		record.ID.String(),
		record.Date.UnixMilli(),
		record.ExerciseType,
		record.ExerciseName,
		record.DurationSeconds,
		record.BreathCount,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first. limit <= 0 returns all.
func (store *SQLiteStore) Recent(ctx context.Context, limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := store.db.QueryContext(ctx, `
		SELECT id, recorded_at, exercise_type, exercise_name, duration_seconds, breath_count
		FROM sessions
		ORDER BY recorded_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	return collectSessions(rows)
}

// ByDay returns the records on day's calendar date in day's location.
func (store *SQLiteStore) ByDay(ctx context.Context, day time.Time) ([]SessionRecord, error) {
	start, end := dayBounds(day)
	rows, err := store.db.QueryContext(ctx, `
		SELECT id, recorded_at, exercise_type, exercise_name, duration_seconds, breath_count
		FROM sessions
		WHERE recorded_at >= ? AND recorded_at < ?
		ORDER BY recorded_at DESC, rowid DESC`,
		start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("query sessions by day: %w", err)
	}
	return collectSessions(rows)
}

// HasSessionOn reports whether any record falls on day.
func (store *SQLiteStore) HasSessionOn(ctx context.Context, day time.Time) (bool, error) {
	start, end := dayBounds(day)
	var found int
	err := store.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM sessions WHERE recorded_at >= ? AND recorded_at < ?)`,
		start.UnixMilli(), end.UnixMilli()).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("query session existence: %w", err)
	}
	return found == 1, nil
}

// Delete removes a record by id.
func (store *SQLiteStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := store.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete session %s: %w", id, ErrRecordNotFound)
	}
	return nil
}

// Totals sums sessions, seconds and breaths.
func (store *SQLiteStore) Totals(ctx context.Context) (Totals, error) {
	var totals Totals
	err := store.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(duration_seconds), 0), COALESCE(SUM(breath_count), 0)
		FROM sessions`).Scan(&totals.Sessions, &totals.Seconds, &totals.Breaths)
	if err != nil {
		return Totals{}, fmt.Errorf("query totals: %w", err)
	}
	return totals, nil
}

// SaveMindfulSession writes a journal entry for [start, end].
func (store *SQLiteStore) SaveMindfulSession(ctx context.Context, start, end time.Time, exerciseName string) error {
	if end.Before(start) {
		return fmt.Errorf("save mindful session: end %s before start %s", end, start)
	}
	_, err := store.db.ExecContext(ctx, `
		INSERT INTO mindful_sessions (id, started_at, ended_at, exercise_name)
		VALUES (?, ?, ?, ?)`,
		uuid.NewString(), start.UnixMilli(), end.UnixMilli(), exerciseName)
	if err != nil {
		return fmt.Errorf("insert mindful session: %w", err)
	}
	return nil
}

// MindfulSessions returns up to limit journal entries, newest first.
func (store *SQLiteStore) MindfulSessions(ctx context.Context, limit int) ([]MindfulSession, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := store.db.QueryContext(ctx, `
		SELECT id, started_at, ended_at, exercise_name, source
		FROM mindful_sessions
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query mindful sessions: %w", err)
	}
	defer rows.Close()

	var sessions []MindfulSession
	for rows.Next() {
		var (
			rawID      string
			start, end int64
			session    MindfulSession
		)
		if err := rows.Scan(&rawID, &start, &end, &session.ExerciseName, &session.Source); err != nil {
			return nil, fmt.Errorf("scan mindful session: %w", err)
		}
		id, err := uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("parse mindful session id: %w", err)
		}
		session.ID = id
		session.Start = time.UnixMilli(start)
		session.End = time.UnixMilli(end)
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mindful sessions: %w", err)
	}
	return sessions, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (SessionRecord, error) {
	var (
		rawID      string
		recordedAt int64
		record     SessionRecord
	)
	if err := row.Scan(&rawID, &recordedAt, &record.ExerciseType, &record.ExerciseName, &record.DurationSeconds, &record.BreathCount); err != nil {
		return SessionRecord{}, fmt.Errorf("scan session: %w", err)
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return SessionRecord{}, fmt.Errorf("parse session id: %w", err)
	}
	record.ID = id
	record.Date = time.UnixMilli(recordedAt)
	return record, nil
}

func collectSessions(rows *sql.Rows) ([]SessionRecord, error) {
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		record, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return records, nil
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	start := startOfDay(day)
	return start, start.AddDate(0, 0, 1)
}

// DayGroup is a run of records sharing a calendar date.
type DayGroup struct {
	Day     time.Time
	Label   string
	Records []SessionRecord
}

// GroupByDate groups records by local calendar date, newest day first.
// Record order within a day is preserved.
func GroupByDate(records []SessionRecord) []DayGroup {
	var groups []DayGroup
	index := make(map[string]int)
	for _, record := range records {
		day := startOfDay(record.Date.Local())
		key := day.Format(statsDateLayout)
		position, ok := index[key]
		if !ok {
			position = len(groups)
			index[key] = position
			groups = append(groups, DayGroup{Day: day, Label: day.Format("Jan 2, 2006")})
		}
		groups[position].Records = append(groups[position].Records, record)
	}

	slices.SortStableFunc(groups, func(a, b DayGroup) int {
		return b.Day.Compare(a.Day)
	})
	return groups
}
