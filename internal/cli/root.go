// Package cli implements the groupsync command-line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"groupsync/internal/config"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// rootOptions holds the persistent flags shared by all subcommands.
type rootOptions struct {
	configPath string
	envFile    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "groupsync",
		Short:         "Reconcile group membership into a permissions store",
		Long:          "groupsync reconciles group membership between an authoritative admin database and a permissions database, applying grants and revocations transactionally with a full audit trail.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to YAML config file (env vars take precedence)")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Path to .env file")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	rootCmd.AddCommand(
		newSyncCmd(opts),
		newDaemonCmd(opts),
		newMigrateCmd(opts),
		newSeedCmd(opts),
		newAuditCmd(opts),
	)

	return rootCmd
}

// setup loads the environment and config, and builds the logger. Precedence:
// flag > env var > config file > default.
func setup(opts *rootOptions) (*config.Config, *slog.Logger, error) {
	if err := config.LoadDotEnv(opts.envFile); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}

	return cfg, logger, nil
}
