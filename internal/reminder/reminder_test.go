package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"breathflow/internal/platform"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type fakeHistory struct {
	practiced bool
	err       error
	calls     int
}

func (history *fakeHistory) HasSessionOn(context.Context, time.Time) (bool, error) {
	history.calls++
	return history.practiced, history.err
}

type fakeNotifier struct {
	titles []string
}

func (notifier *fakeNotifier) Notify(title, _ string) {
	notifier.titles = append(notifier.titles, title)
}

func idleFor(duration time.Duration, err error) platform.IdleFunc {
	return func() (time.Duration, error) { return duration, err }
}

var morning = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func enabled() Settings {
	settings := DefaultSettings()
	settings.Enabled = true
	return settings
}

func TestNextFire(t *testing.T) {
	settings := Settings{Hour: 9, Minute: 30}

	require.Equal(t, time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC), NextFire(morning, settings))

	atFire := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	require.Equal(t, time.Date(2026, 3, 3, 9, 30, 0, 0, time.UTC), NextFire(atFire, settings))

	evening := time.Date(2026, 12, 31, 22, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2027, 1, 1, 9, 30, 0, 0, time.UTC), NextFire(evening, settings))
}

func TestNextFire_WithinOneDayAndMatchesTime(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		settings := Settings{
			Hour:   rapid.IntRange(0, 23).Draw(r, "hour"),
			Minute: rapid.IntRange(0, 59).Draw(r, "minute"),
		}
		now := morning.Add(time.Duration(rapid.Int64Range(0, int64(400*24*time.Hour)).Draw(r, "offset")))

		next := NextFire(now, settings)
		require.True(r, next.After(now))
		require.LessOrEqual(r, next.Sub(now), 24*time.Hour)
		require.Equal(r, settings.Hour, next.Hour())
		require.Equal(r, settings.Minute, next.Minute())
	})
}

func TestSettings_Validate(t *testing.T) {
	require.NoError(t, DefaultSettings().Validate())
	require.Error(t, Settings{Hour: 24}.Validate())
	require.Error(t, Settings{Minute: -1}.Validate())
	require.Equal(t, "09:00", DefaultSettings().TimeOfDay())
}

func TestCheck_Disabled(t *testing.T) {
	notifier := &fakeNotifier{}
	reminder := New(DefaultSettings(), nil, nil, notifier, nil)
	require.Equal(t, OutcomeDisabled, reminder.Check(context.Background(), morning))
	require.Empty(t, notifier.titles)
}

func TestCheck_FiresWhenDueThenReschedules(t *testing.T) {
	notifier := &fakeNotifier{}
	reminder := New(enabled(), &fakeHistory{}, nil, notifier, nil)
	ctx := context.Background()

	require.Equal(t, OutcomeNotDue, reminder.Check(ctx, morning))
	require.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), reminder.Next())
	require.Equal(t, OutcomeNotDue, reminder.Check(ctx, morning.Add(59*time.Minute)))

	require.Equal(t, OutcomeFired, reminder.Check(ctx, morning.Add(time.Hour)))
	require.Equal(t, []string{NotificationTitle}, notifier.titles)
	require.Equal(t, time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC), reminder.Next())

	require.Equal(t, OutcomeNotDue, reminder.Check(ctx, morning.Add(2*time.Hour)))
}

func TestCheck_SmartSkipsWhenPracticedToday(t *testing.T) {
	notifier := &fakeNotifier{}
	history := &fakeHistory{practiced: true}
	reminder := New(enabled(), history, nil, notifier, nil)
	reminder.Update(enabled(), morning)

	require.Equal(t, OutcomeSkipped, reminder.Check(context.Background(), morning.Add(time.Hour)))
	require.Empty(t, notifier.titles)
	require.Equal(t, 1, history.calls)
}

func TestCheck_NonSmartIgnoresHistory(t *testing.T) {
	settings := enabled()
	settings.Smart = false
	notifier := &fakeNotifier{}
	history := &fakeHistory{practiced: true}
	reminder := New(settings, history, nil, notifier, nil)
	reminder.Update(settings, morning)

	require.Equal(t, OutcomeFired, reminder.Check(context.Background(), morning.Add(time.Hour)))
	require.Zero(t, history.calls)
}

func TestCheck_HistoryFailureStillFires(t *testing.T) {
	notifier := &fakeNotifier{}
	reminder := New(enabled(), &fakeHistory{err: errors.New("disk gone")}, nil, notifier, nil)
	reminder.Update(enabled(), morning)

	require.Equal(t, OutcomeFired, reminder.Check(context.Background(), morning.Add(time.Hour)))
	require.Len(t, notifier.titles, 1)
}

func TestCheck_PostponesWhileIdle(t *testing.T) {
	notifier := &fakeNotifier{}
	reminder := New(enabled(), nil, idleFor(6*time.Minute, nil), notifier, nil)
	reminder.Update(enabled(), morning)
	due := morning.Add(time.Hour)

	require.Equal(t, OutcomePostponed, reminder.Check(context.Background(), due))
	require.Equal(t, due.Add(PostponeBy), reminder.Next())
	require.Empty(t, notifier.titles)
}

func TestCheck_IdleUnsupportedFiresAnyway(t *testing.T) {
	notifier := &fakeNotifier{}
	reminder := New(enabled(), nil, idleFor(0, platform.ErrIdleUnsupported), notifier, nil)
	reminder.Update(enabled(), morning)

	require.Equal(t, OutcomeFired, reminder.Check(context.Background(), morning.Add(time.Hour)))
	require.Len(t, notifier.titles, 1)
}

func TestCheck_ShortIdleDoesNotPostpone(t *testing.T) {
	notifier := &fakeNotifier{}
	reminder := New(enabled(), nil, idleFor(IdleThreshold, nil), notifier, nil)
	reminder.Update(enabled(), morning)

	require.Equal(t, OutcomeFired, reminder.Check(context.Background(), morning.Add(time.Hour)))
}
