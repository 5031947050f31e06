package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"breathflow/internal/console"
	"breathflow/internal/storage"
)

func (cli *cli) newStatsCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the current streak and total time breathed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dataDir, err := cli.dataDir()
			if err != nil {
				return err
			}
			store := storage.NewStatsStore(dataDir)

			if reset {
				if err := store.Reset(); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Stats reset.")
				return nil
			}

			stats, err := store.Load()
			if err != nil {
				return err
			}
			console.New(cmd.OutOrStdout()).Stats(stats)
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "clear the streak and total")
	return cmd
}
