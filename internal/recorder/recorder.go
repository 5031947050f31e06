// Package recorder persists completed sessions without blocking the
// session loop.
package recorder

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"breathflow/internal/core/breath"
	"breathflow/internal/logging"
	"breathflow/internal/storage"
)

// DefaultTimeout bounds one completion's persistence work.
const DefaultTimeout = 10 * time.Second

// History records sessions.
type History interface {
	RecordSession(ctx context.Context, record storage.SessionRecord) error
}

// Stats accumulates totals and the streak.
type Stats interface {
	RecordCompletion(durationSeconds int, at time.Time) (storage.UserStats, error)
}

// Journal stores mindful-minutes entries.
type Journal interface {
	SaveMindfulSession(ctx context.Context, start, end time.Time, exerciseName string) error
}

// Options configures a Recorder. Nil collaborators are skipped.
type Options struct {
	History History
	Stats   Stats
	Journal Journal
	// JournalEnabled is read at completion time.
	JournalEnabled func() bool
	// OnRecorded receives the updated stats after a successful stats write.
	OnRecorded func(storage.UserStats)
	Timeout    time.Duration
	Logger     *logging.Logger
}

// Recorder is a breath.SessionEventSink that writes history, stats and the
// journal on completion. Failures are logged and never reach the session.
type Recorder struct {
	breath.NopSink

	options Options
	logger  *logging.Logger
	wg      sync.WaitGroup
}

// New creates a Recorder.
func New(options Options) *Recorder {
	if options.Timeout <= 0 {
		options.Timeout = DefaultTimeout
	}
	logger := options.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	return &Recorder{options: options, logger: logger.WithComponent("recorder")}
}

// OnSessionCompleted starts persistence on its own goroutine.
func (recorder *Recorder) OnSessionCompleted(summary breath.Summary) {
	journal := recorder.options.Journal != nil &&
		recorder.options.JournalEnabled != nil &&
		recorder.options.JournalEnabled()

	recorder.wg.Add(1)
	go func() {
		defer recorder.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), recorder.options.Timeout)
		defer cancel()
		recorder.persist(ctx, summary, journal)
	}()
}

// Wait blocks until in-flight writes finish.
func (recorder *Recorder) Wait() {
	recorder.wg.Wait()
}

func (recorder *Recorder) persist(ctx context.Context, summary breath.Summary, journal bool) {
	// The history record id tags every log line for this completion.
	sessionID := uuid.New()
	logger := recorder.logger.WithSession(sessionID.String()).
		With("pattern", summary.PatternID, "breaths", summary.TotalBreaths)

	if recorder.options.History != nil && summary.TotalBreaths > 0 {
		record := storage.SessionRecord{
			ID:              sessionID,
			Date:            summary.EndedAt,
			ExerciseType:    summary.PatternID,
			ExerciseName:    summary.PatternName,
			DurationSeconds: summary.TotalSeconds,
			BreathCount:     summary.TotalBreaths,
		}
		if err := recorder.options.History.RecordSession(ctx, record); err != nil {
			logger.Warn("record session failed", "error", err)
		}
	}

	if recorder.options.Stats != nil {
		stats, err := recorder.options.Stats.RecordCompletion(summary.TotalSeconds, summary.EndedAt)
		if err != nil {
			logger.Warn("record stats failed", "error", err)
		} else if recorder.options.OnRecorded != nil {
			recorder.options.OnRecorded(stats)
		}
	}

	if journal {
		if err := recorder.options.Journal.SaveMindfulSession(ctx, summary.StartedAt, summary.EndedAt, summary.PatternName); err != nil {
			logger.Warn("save mindful session failed", "error", err)
		}
	}

	logger.Info("session recorded", "seconds", summary.TotalSeconds)
}
