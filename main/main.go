package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"autogroupchat/config"
)

// flags shared by every command
type options struct {
	configPath string
	verbose    bool
	dryRun     bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "autogroupchat",
		Short: "Create GroupMe groups from a scheduling spreadsheet",
		Long: `autogroupchat reads a schedule from a Google Sheet or an .xlsx file and, for
every column dated today, creates a group with the people marked in it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default config/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&opts.dryRun, "dry-run", false, "Log what would be done instead of calling GroupMe")

	rootCmd.AddCommand(newRunCommand(opts))
	rootCmd.AddCommand(newScheduleCommand(opts))
	rootCmd.AddCommand(newMakeCommand(opts))
	rootCmd.AddCommand(newPurgeCommand(opts))
	rootCmd.AddCommand(newAuthCommand(opts))

	return rootCmd
}

// load reads and validates the configuration and builds the logger from it.
func (o *options) load() (config.Config, *zap.Logger, error) {
	cfg, err := config.Read(o.configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	if o.verbose {
		cfg.Verbose = true
	}
	if o.dryRun {
		cfg.Gateway = config.GatewayDryRun
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, err
	}

	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logger, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
