package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"breathflow/internal/core/model"
)

func (cli *cli) newExercisesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exercises",
		Short: "List exercises and session lengths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, pattern := range model.Patterns() {
				_, _ = fmt.Fprintf(out, "%-10s %-9s %-14s %s\n",
					pattern.ID, pattern.DisplayName, pattern.Label(), pattern.Description)
			}

			lengths := make([]string, 0, len(model.Durations()))
			for _, duration := range model.Durations() {
				lengths = append(lengths, duration.DisplayName())
			}
			_, _ = fmt.Fprintf(out, "\nLengths: %s\n", strings.Join(lengths, ", "))
			return nil
		},
	}
}
