package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/spf13/cobra"

	"breathflow/internal/core/breath"
	"breathflow/internal/core/scheduler"
	"breathflow/internal/cue"
	"breathflow/internal/logging"
	"breathflow/internal/platform"
	"breathflow/internal/recorder"
	"breathflow/internal/reminder"
	"breathflow/internal/storage"
	"breathflow/internal/ui/breathing"
	"breathflow/internal/ui/preferences"
	"breathflow/internal/ui/tray"
)

const (
	appID                 = "io.breathflow.app"
	trayRefreshInterval   = time.Second
	reminderCheckInterval = 30 * time.Second
)

func (cli *cli) runDesktop(cmd *cobra.Command, args []string) error {
	lock, err := platform.AcquireInstanceLock(appName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "BreathFlow is already running")
			return nil
		}
		return err
	}
	defer func() {
		_ = lock.Release()
	}()

	dataDir, err := cli.dataDir()
	if err != nil {
		return err
	}
	logger, err := logging.NewFileLogger(dataDir, cli.logLevel())
	if err != nil {
		logger = logging.New(cmd.ErrOrStderr(), cli.logLevel())
		logger.Warn("open log file failed", "error", err)
	}
	defer func() {
		_ = logger.Close()
	}()

	settings, err := storage.LoadSettings(dataDir)
	if err != nil {
		logger.Warn("load settings failed, using defaults", "error", err)
	}
	history, err := storage.OpenSQLiteStore(cmd.Context(), dataDir)
	if err != nil {
		return err
	}
	defer func() {
		_ = history.Close()
	}()

	application := &trayApp{
		dataDir:  dataDir,
		settings: settings,
		history:  history,
		stats:    storage.NewStatsStore(dataDir),
		loop:     scheduler.NewLoop(),
		logger:   logger,
	}
	return application.run()
}

// trayApp owns the desktop session: one loop, at most one live controller.
type trayApp struct {
	dataDir string
	history *storage.SQLiteStore
	stats   *storage.StatsStore
	loop    *scheduler.Loop
	logger  *logging.Logger

	fyne     fyne.App
	tray     *tray.Manager
	prefs    *preferences.Window
	session  *breathing.Window
	cues     *cue.Sink
	recorder *recorder.Recorder
	reminder *reminder.Reminder

	mu         sync.Mutex
	settings   preferences.Settings
	controller *breath.Controller
}

func (application *trayApp) run() error {
	application.fyne = app.NewWithID(appID)
	desktopApp, ok := application.fyne.(desktop.App)
	if !ok {
		return errors.New("system tray unsupported on this platform")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go application.loop.Run(ctx)

	trayWindow := application.fyne.NewWindow("BreathFlow")
	trayWindow.SetContent(widget.NewLabel("BreathFlow is running in the system tray."))
	trayWindow.SetCloseIntercept(func() {
		trayWindow.Hide()
	})
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)

	settings := application.currentSettings()
	application.cues = cue.NewSink(cue.NewBellPlayer(os.Stdout), !settings.SoundEnabled)
	application.recorder = recorder.New(recorder.Options{
		History: application.history,
		Stats:   application.stats,
		Journal: application.history,
		JournalEnabled: func() bool {
			return application.currentSettings().JournalEnabled
		},
		OnRecorded: application.onRecorded,
		Logger:     application.logger,
	})
	application.reminder = reminder.New(
		settings.Reminder,
		application.history,
		platform.NewIdleProvider(),
		fyneNotifier{app: application.fyne},
		application.logger,
	)
	application.reminder.Update(settings.Reminder, time.Now())

	application.session = breathing.New(application.fyne, breathing.Callbacks{
		OnTogglePause: application.togglePause,
		OnStop:        application.stopSession,
		OnVisibility:  application.cues.SetBackground,
	})
	application.prefs = preferences.New(application.fyne, settings, application.applySettings)
	application.tray = tray.New(desktopApp, tray.Callbacks{
		OnStart:       application.startSession,
		OnTogglePause: application.togglePause,
		OnStop:        application.stopSession,
		OnShowSession: application.session.Show,
		OnPreferences: application.prefs.Show,
		OnQuit:        application.quit,
	})
	if stats, err := application.stats.Load(); err != nil {
		application.logger.Warn("load stats failed", "error", err)
	} else {
		application.tray.SetStats(tray.FormatStats(stats))
	}

	stopRefresh := application.loop.Every(trayRefreshInterval, func(time.Time) {
		snapshot := application.snapshot()
		fyne.Do(func() {
			application.tray.SetSnapshot(snapshot)
		})
	})
	defer stopRefresh()
	go application.watchReminders(ctx)

	application.logger.Info("desktop app started", "data_dir", application.dataDir)
	application.fyne.Run()

	application.cancelActive()
	application.recorder.Wait()
	application.logger.Info("desktop app stopped")
	return nil
}

func (application *trayApp) currentSettings() preferences.Settings {
	application.mu.Lock()
	defer application.mu.Unlock()
	return application.settings
}

func (application *trayApp) activeController() *breath.Controller {
	application.mu.Lock()
	defer application.mu.Unlock()
	return application.controller
}

func (application *trayApp) snapshot() breath.Snapshot {
	controller := application.activeController()
	if controller == nil {
		return breath.Snapshot{State: breath.StateIdle}
	}
	return controller.Snapshot()
}

// startSession runs on the fyne thread.
func (application *trayApp) startSession() {
	if controller := application.activeController(); controller != nil && !controller.State().IsTerminal() {
		application.session.Show()
		return
	}

	config := application.currentSettings().SessionConfig()
	controller, err := breath.New(config, application.loop, breath.MultiSink{
		application.recorder,
		application.cues,
		application.session,
	})
	if err != nil {
		application.logger.Error("create session failed", "error", err)
		return
	}

	application.mu.Lock()
	application.controller = controller
	application.mu.Unlock()

	application.session.Attach(controller.Snapshot, fmt.Sprintf("%s · %s", config.Pattern.DisplayName, config.Duration.DisplayName()))
	application.session.Show()
	application.loop.Post(func() {
		if err := controller.Start(); err != nil {
			application.logger.Warn("start session failed", "error", err)
		}
	})
	application.logger.Info("session started", "pattern", config.Pattern.ID, "seconds", config.Duration.TotalSeconds())
}

func (application *trayApp) togglePause() {
	controller := application.activeController()
	if controller == nil {
		return
	}
	application.loop.Post(func() {
		if err := controller.TogglePause(); err != nil {
			application.logger.Debug("toggle pause ignored", "error", err)
		}
	})
}

func (application *trayApp) stopSession() {
	application.cancelActive()
	application.session.Close()
}

func (application *trayApp) cancelActive() {
	if controller := application.activeController(); controller != nil {
		application.loop.Post(controller.Cancel)
	}
}

func (application *trayApp) quit() {
	application.cancelActive()
	application.fyne.Quit()
}

// onRecorded runs on the recorder goroutine.
func (application *trayApp) onRecorded(stats storage.UserStats) {
	application.session.SetStats(stats)
	fyne.Do(func() {
		application.tray.SetStats(tray.FormatStats(stats))
	})
}

// applySettings runs on the fyne thread after the preferences window saves.
func (application *trayApp) applySettings(updated preferences.Settings) {
	application.mu.Lock()
	previous := application.settings
	application.settings = updated
	application.mu.Unlock()

	if err := storage.SaveSettings(application.dataDir, updated); err != nil {
		application.logger.Warn("save settings failed", "error", err)
	}
	if updated.LaunchAtLogin != previous.LaunchAtLogin {
		if err := platform.SetLaunchAtLogin(platform.NewService(), appName, updated.LaunchAtLogin); err != nil {
			application.logger.Warn("update launch at login failed", "error", err)
		}
	}
	application.cues.SetMuted(!updated.SoundEnabled)
	application.reminder.Update(updated.Reminder, time.Now())
}

func (application *trayApp) watchReminders(ctx context.Context) {
	ticker := time.NewTicker(reminderCheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			outcome := application.reminder.Check(ctx, now)
			if outcome != reminder.OutcomeNotDue && outcome != reminder.OutcomeDisabled {
				application.logger.Debug("reminder checked", "outcome", string(outcome), "next", application.reminder.Next())
			}
		}
	}
}

// fyneNotifier delivers reminders as desktop notifications.
type fyneNotifier struct {
	app fyne.App
}

func (notifier fyneNotifier) Notify(title, body string) {
	fyne.Do(func() {
		notifier.app.SendNotification(fyne.NewNotification(title, body))
	})
}
