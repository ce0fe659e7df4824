package main

import (
	"context"
	"errors"
	"fmt"

	"imagevault/internal/config"
	"imagevault/internal/repository/postgres"

	"github.com/spf13/cobra"
)

func newResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Drop all tables of the current environment",
		Long: `Drop the folder, image and migration tables that belong to the current
TABLE_PREFIX. Refuses to run when ENVIRONMENT=prod.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReset(cmd.Context())
		},
	}
}

func runReset(ctx context.Context) error {
	cfg, logger, logCloser, err := bootstrap()
	if err != nil {
		return err
	}
	defer logCloser.Close()

	if cfg.Environment == "prod" {
		return errors.New("refusing to reset a prod environment")
	}
	if cfg.StoreDriver != config.StoreDriverPostgres {
		return fmt.Errorf("reset is only supported for the postgres store, got %q", cfg.StoreDriver)
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.Reset(ctx, pool, cfg.TablePrefix); err != nil {
		return err
	}

	logger.Info("all tables dropped", "table_prefix", cfg.TablePrefix)
	fmt.Printf("All tables dropped successfully (prefix: %s)\n", cfg.TablePrefix)
	return nil
}
