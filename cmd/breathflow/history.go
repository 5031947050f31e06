package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"breathflow/internal/storage"
)

func (cli *cli) newHistoryCmd() *cobra.Command {
	var (
		limit    int
		deleteID string
		journal  bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded sessions grouped by day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dataDir, err := cli.dataDir()
			if err != nil {
				return err
			}
			store, err := storage.OpenSQLiteStore(cmd.Context(), dataDir)
			if err != nil {
				return err
			}
			defer func() {
				_ = store.Close()
			}()

			if deleteID != "" {
				id, err := uuid.Parse(deleteID)
				if err != nil {
					return fmt.Errorf("parse session id: %w", err)
				}
				if err := store.Delete(cmd.Context(), id); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
				return nil
			}

			if journal {
				sessions, err := store.MindfulSessions(cmd.Context(), limit)
				if err != nil {
					return err
				}
				printJournal(cmd.OutOrStdout(), sessions)
				return nil
			}

			records, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			totals, err := store.Totals(cmd.Context())
			if err != nil {
				return err
			}
			printHistory(cmd.OutOrStdout(), storage.GroupByDate(records), totals)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum sessions to show (0 for all)")
	cmd.Flags().StringVar(&deleteID, "delete", "", "delete the session with this id")
	cmd.Flags().BoolVar(&journal, "journal", false, "list mindful-minutes journal entries instead")
	cmd.MarkFlagsMutuallyExclusive("delete", "journal")
	return cmd
}

func printHistory(out io.Writer, groups []storage.DayGroup, totals storage.Totals) {
	renderer := lipgloss.NewRenderer(out)
	heading := renderer.NewStyle().Bold(true)
	muted := renderer.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#707070", Dark: "#9A9A9A"})

	if len(groups) == 0 {
		_, _ = fmt.Fprintln(out, muted.Render("No sessions yet."))
		return
	}
	for _, group := range groups {
		_, _ = fmt.Fprintln(out, heading.Render(group.Label))
		for _, record := range group.Records {
			_, _ = fmt.Fprintf(out, "  %s  %-9s %6s  %3d breaths  %s\n",
				record.Date.Local().Format("15:04"),
				record.ExerciseName,
				record.FormattedDuration(),
				record.BreathCount,
				muted.Render(record.ID.String()),
			)
		}
	}
	_, _ = fmt.Fprintf(out, "%s %d sessions · %d min · %d breaths\n",
		muted.Render("All time"), totals.Sessions, totals.Seconds/60, totals.Breaths)
}

func printJournal(out io.Writer, sessions []storage.MindfulSession) {
	renderer := lipgloss.NewRenderer(out)
	muted := renderer.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#707070", Dark: "#9A9A9A"})

	if len(sessions) == 0 {
		_, _ = fmt.Fprintln(out, muted.Render("No journal entries yet."))
		return
	}
	for _, session := range sessions {
		start, end := session.Start.Local(), session.End.Local()
		_, _ = fmt.Fprintf(out, "%s  %s-%s  %-9s %s\n",
			start.Format("2006-01-02"),
			start.Format("15:04"),
			end.Format("15:04"),
			session.ExerciseName,
			muted.Render(session.Source),
		)
	}
}
