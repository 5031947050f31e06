package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"breathflow/internal/console"
	"breathflow/internal/core/breath"
	"breathflow/internal/core/model"
	"breathflow/internal/core/scheduler"
	"breathflow/internal/cue"
	"breathflow/internal/logging"
	"breathflow/internal/recorder"
	"breathflow/internal/storage"
)

func (cli *cli) newRunCmd() *cobra.Command {
	var (
		exerciseID string
		minutes    int
		noBell     bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a breathing session in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(cmd.ErrOrStderr(), cli.logLevel())

			dataDir, err := cli.dataDir()
			if err != nil {
				return err
			}
			settings, err := storage.LoadSettings(dataDir)
			if err != nil {
				logger.Warn("load settings failed, using defaults", "error", err)
			}

			pattern := settings.Pattern()
			if cmd.Flags().Changed("exercise") {
				found, ok := model.PatternByID(exerciseID)
				if !ok {
					return fmt.Errorf("unknown exercise %q (see `breathflow exercises`)", exerciseID)
				}
				pattern = found
			}
			duration := settings.Duration
			if cmd.Flags().Changed("minutes") {
				duration = model.DurationFromMinutes(minutes)
			}

			config := model.NewSessionConfig(pattern, duration)
			if err := config.Validate(); err != nil {
				return err
			}

			history, err := storage.OpenSQLiteStore(cmd.Context(), dataDir)
			if err != nil {
				return err
			}
			defer func() {
				_ = history.Close()
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			session := terminalSession{
				out:            cmd.OutOrStdout(),
				config:         config,
				history:        history,
				stats:          storage.NewStatsStore(dataDir),
				journal:        history,
				journalEnabled: settings.JournalEnabled,
				bell:           settings.SoundEnabled && !noBell,
				logger:         logger,
			}
			_, err = session.run(ctx)
			return err
		},
	}

	cmd.Flags().StringVarP(&exerciseID, "exercise", "e", model.Balanced.ID, "exercise id")
	cmd.Flags().IntVarP(&minutes, "minutes", "m", model.TenMinutes.Minutes(), "session length in minutes")
	cmd.Flags().BoolVar(&noBell, "no-countdown-bell", false, "disable terminal bell cues")
	return cmd
}

// terminalSession runs one controller on its own loop, printing to out.
type terminalSession struct {
	out            io.Writer
	config         model.SessionConfig
	history        recorder.History
	stats          recorder.Stats
	journal        recorder.Journal
	journalEnabled bool
	bell           bool
	logger         *logging.Logger
}

// run blocks until the session completes or ctx is cancelled, and returns
// the terminal state. Completion stats are printed after persistence.
func (session terminalSession) run(ctx context.Context) (breath.State, error) {
	loop := scheduler.NewLoop()
	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	go loop.Run(loopCtx)

	printer := console.New(session.out)
	var player cue.Player = cue.NopPlayer{}
	if session.bell {
		player = cue.NewBellPlayer(session.out)
	}
	rec := recorder.New(recorder.Options{
		History:        session.history,
		Stats:          session.stats,
		Journal:        session.journal,
		JournalEnabled: func() bool { return session.journalEnabled },
		OnRecorded:     printer.Stats,
		Logger:         session.logger,
	})
	events := breath.NewChannelSink()
	done := events.Subscribe(8)

	controller, err := breath.New(session.config, loop, breath.MultiSink{
		printer,
		cue.NewSink(player, false),
		rec,
		events,
	})
	if err != nil {
		return breath.StateIdle, err
	}

	var startErr error
	if err := loop.Do(func() { startErr = controller.Start() }); err != nil {
		return breath.StateIdle, fmt.Errorf("start session: %w", err)
	}
	if startErr != nil {
		return breath.StateIdle, fmt.Errorf("start session: %w", startErr)
	}
	session.logger.Debug("session started", "pattern", session.config.Pattern.ID, "seconds", session.config.Duration.TotalSeconds())

	interrupted := ctx.Done()
	for open := true; open; {
		select {
		case <-interrupted:
			loop.Post(controller.Cancel)
			interrupted = nil
		case _, open = <-done:
		}
	}

	rec.Wait()
	return controller.State(), nil
}
