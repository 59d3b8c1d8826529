package main

import (
	"fmt"
	"os"

	"capability-sync/internal/config"
	"capability-sync/internal/pkg/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "capability-sync",
		Short:         "Capability consensus and requirement matching service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	cmd.AddCommand(serveCmd(), migrateCmd(), seedCmd(), tokenCmd())
	return cmd
}

// setup loads configuration and the logger shared by every subcommand.
func setup() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("build logger: %w", err)
	}
	return cfg, logger.With(zap.String("app", cfg.App.AppName), zap.String("env", cfg.App.Environment)), nil
}
