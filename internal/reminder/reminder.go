// Package reminder decides when the daily "time to breathe" notification
// fires. It is driven by a periodic Check from the application ticker.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"breathflow/internal/logging"
	"breathflow/internal/platform"
)

// Notification text shown when a reminder fires.
const (
	NotificationTitle = "Time to Breathe"
	NotificationBody  = "Take a moment for your daily breathing practice"
)

// Idle handling.
const (
	IdleThreshold = 5 * time.Minute
	PostponeBy    = 10 * time.Minute
)

// Settings configures the daily reminder.
type Settings struct {
	Enabled bool
	Hour    int
	Minute  int
	Smart   bool
}

// DefaultSettings returns a disabled 09:00 smart reminder.
func DefaultSettings() Settings {
	return Settings{Hour: 9, Minute: 0, Smart: true}
}

// Validate checks the time of day.
func (settings Settings) Validate() error {
	if settings.Hour < 0 || settings.Hour > 23 {
		return fmt.Errorf("reminder hour %d out of range", settings.Hour)
	}
	if settings.Minute < 0 || settings.Minute > 59 {
		return fmt.Errorf("reminder minute %d out of range", settings.Minute)
	}
	return nil
}

// TimeOfDay returns the "09:05" form.
func (settings Settings) TimeOfDay() string {
	return fmt.Sprintf("%02d:%02d", settings.Hour, settings.Minute)
}

// NextFire returns the first hour:minute strictly after now, in now's location.
func NextFire(now time.Time, settings Settings) time.Time {
	candidate := time.Date(now.Year(), now.Month(), now.Day(), settings.Hour, settings.Minute, 0, 0, now.Location())
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate
}

// SessionLookup reports whether a session exists on a calendar day.
type SessionLookup interface {
	HasSessionOn(ctx context.Context, day time.Time) (bool, error)
}

// IdleProvider returns the duration since last user input.
type IdleProvider interface {
	IdleDuration() (time.Duration, error)
}

// Notifier shows a desktop notification.
type Notifier interface {
	Notify(title, body string)
}

// Outcome describes what a Check did.
type Outcome string

const (
	OutcomeDisabled  Outcome = "disabled"
	OutcomeNotDue    Outcome = "not_due"
	OutcomeFired     Outcome = "fired"
	OutcomeSkipped   Outcome = "skipped"
	OutcomePostponed Outcome = "postponed"
)

// Reminder tracks the next fire time for one Settings value.
type Reminder struct {
	mu       sync.Mutex
	settings Settings
	next     time.Time
	history  SessionLookup
	idle     IdleProvider
	notifier Notifier
	logger   *logging.Logger
}

// New creates a Reminder. history and idle may be nil.
func New(settings Settings, history SessionLookup, idle IdleProvider, notifier Notifier, logger *logging.Logger) *Reminder {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Reminder{
		settings: settings,
		history:  history,
		idle:     idle,
		notifier: notifier,
		logger:   logger.WithComponent("reminder"),
	}
}

// Update replaces the settings and reschedules from now.
func (reminder *Reminder) Update(settings Settings, now time.Time) {
	reminder.mu.Lock()
	defer reminder.mu.Unlock()
	reminder.settings = settings
	reminder.next = NextFire(now, settings)
}

// Next returns the scheduled fire time, zero until the first Check or Update.
func (reminder *Reminder) Next() time.Time {
	reminder.mu.Lock()
	defer reminder.mu.Unlock()
	return reminder.next
}

// Check fires the reminder if it is due.
func (reminder *Reminder) Check(ctx context.Context, now time.Time) Outcome {
	reminder.mu.Lock()
	defer reminder.mu.Unlock()

	if !reminder.settings.Enabled {
		return OutcomeDisabled
	}
	if reminder.next.IsZero() {
		reminder.next = NextFire(now, reminder.settings)
		return OutcomeNotDue
	}
	if now.Before(reminder.next) {
		return OutcomeNotDue
	}

	if reminder.userIdleLocked() {
		reminder.next = now.Add(PostponeBy)
		reminder.logger.Debug("reminder postponed", "until", reminder.next)
		return OutcomePostponed
	}

	reminder.next = NextFire(now, reminder.settings)

	if reminder.settings.Smart && reminder.practicedTodayLocked(ctx, now) {
		reminder.logger.Debug("reminder skipped, already practiced today")
		return OutcomeSkipped
	}

	if reminder.notifier != nil {
		reminder.notifier.Notify(NotificationTitle, NotificationBody)
	}
	reminder.logger.Info("reminder fired", "next", reminder.next)
	return OutcomeFired
}

func (reminder *Reminder) userIdleLocked() bool {
	if reminder.idle == nil {
		return false
	}
	idleFor, err := reminder.idle.IdleDuration()
	if err != nil {
		if !errors.Is(err, platform.ErrIdleUnsupported) {
			reminder.logger.Warn("idle check failed", "error", err)
		}
		return false
	}
	return idleFor > IdleThreshold
}

func (reminder *Reminder) practicedTodayLocked(ctx context.Context, now time.Time) bool {
	if reminder.history == nil {
		return false
	}
	practiced, err := reminder.history.HasSessionOn(ctx, now)
	if err != nil {
		reminder.logger.Warn("history lookup failed", "error", err)
		return false
	}
	return practiced
}
