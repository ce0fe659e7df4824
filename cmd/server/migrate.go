package main

import (
	"context"
	"fmt"

	"imagevault/internal/config"
	"imagevault/internal/repository/mongo"
	"imagevault/internal/repository/postgres"

	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations (postgres) or create indexes (mongo)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context())
		},
	}
}

func runMigrate(ctx context.Context) error {
	cfg, logger, logCloser, err := bootstrap()
	if err != nil {
		return err
	}
	defer logCloser.Close()

	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := postgres.RunMigrations(ctx, pool, cfg.TablePrefix); err != nil {
			return err
		}
		logger.Info("migrations applied", "table_prefix", cfg.TablePrefix)

	case config.StoreDriverMongo:
		store, err := mongo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.EnsureIndexes(ctx); err != nil {
			return err
		}

	case config.StoreDriverMemory:
		logger.Info("memory store needs no migrations")

	default:
		return fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	return nil
}
