package main

import (
	"fmt"
	"io"
	"log/slog"

	"imagevault/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	serve := newServeCommand()

	rootCmd := &cobra.Command{
		Use:   "imagevault",
		Short: "Image library API server",
		Long: `imagevault serves a per-user library of nested folders and images.
Running it without a subcommand starts the HTTP server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	rootCmd.AddCommand(serve)
	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newResetCommand())
	rootCmd.AddCommand(newSeedCommand())

	return rootCmd
}

// bootstrap loads .env and configuration and builds the logger.
// The returned closer flushes the optional log file.
func bootstrap() (*config.Config, *slog.Logger, io.Closer, error) {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, closer, err := config.NewLogger(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("setup logging: %w", err)
	}
	slog.SetDefault(logger)

	return cfg, logger, closer, nil
}
