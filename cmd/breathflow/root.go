package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"breathflow/internal/logging"
	"breathflow/internal/platform"
)

const appName = "BreathFlow"

// cli holds the layered configuration shared by every command:
// flags over BREATHFLOW_* environment over the optional config file.
type cli struct {
	viper   *viper.Viper
	cfgFile string
}

func newRootCmd() *cobra.Command {
	cli := &cli{viper: viper.New()}

	root := &cobra.Command{
		Use:           "breathflow",
		Short:         "Guided breathing sessions",
		Long:          `BreathFlow paces inhale and exhale phases for a chosen exercise and session length. Without a subcommand it runs the desktop tray app.`,
		Version:       version,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.initConfig()
		},
		RunE: cli.runDesktop,
	}

	root.PersistentFlags().StringVarP(&cli.cfgFile, "config", "c", "",
		"config file (yaml, toml or json)")
	root.PersistentFlags().String("data-dir", "",
		"directory for settings, stats and history (default: user config dir)")
	root.PersistentFlags().String("log-level", logging.LevelInfo,
		"log level: debug, info, warn or error")

	_ = cli.viper.BindPFlag("data_dir", root.PersistentFlags().Lookup("data-dir"))
	_ = cli.viper.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(
		cli.newRunCmd(),
		cli.newHistoryCmd(),
		cli.newStatsCmd(),
		cli.newExercisesCmd(),
	)
	return root
}

func (cli *cli) initConfig() error {
	cli.viper.SetEnvPrefix("BREATHFLOW")
	cli.viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	cli.viper.AutomaticEnv()

	if cli.cfgFile == "" {
		return nil
	}
	cli.viper.SetConfigFile(cli.cfgFile)
	if err := cli.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", cli.cfgFile, err)
	}
	return nil
}

func (cli *cli) dataDir() (string, error) {
	if dir := cli.viper.GetString("data_dir"); dir != "" {
		return dir, nil
	}
	dir, err := platform.DataDir(platform.NewService(), appName)
	if err != nil {
		return "", fmt.Errorf("resolve data dir: %w", err)
	}
	return dir, nil
}

func (cli *cli) logLevel() string {
	return logging.ParseLevel(cli.viper.GetString("log_level"))
}
