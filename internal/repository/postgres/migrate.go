package postgres

import (
	"context"
	"fmt"
	"os"

	"imagevault/internal/repository/postgres/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// RunMigrations applies the embedded migrations for the given table prefix.
// The goose version table is prefixed as well, so environments sharing a
// database keep independent histories.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, tablePrefix string) error {
	db := stdlib.OpenDBFromPool(pool)
	defer func() { _ = db.Close() }()

	if err := configureGoose(tablePrefix); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Reset drops every table owned by the given prefix, including the goose
// version table, so the next RunMigrations starts from scratch.
func Reset(ctx context.Context, pool *pgxpool.Pool, tablePrefix string) error {
	tables := NewTableNames(tablePrefix)

	for _, table := range []string{tables.Images, tables.Folders, tables.Goose} {
		if _, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)); err != nil {
			return fmt.Errorf("drop table %s: %w", table, err)
		}
	}
	return nil
}

func configureGoose(tablePrefix string) error {
	// Migrations reference ${TABLE_PREFIX}; goose ENVSUB reads it from the environment
	if err := os.Setenv("TABLE_PREFIX", tablePrefix); err != nil {
		return fmt.Errorf("set TABLE_PREFIX: %w", err)
	}
	goose.SetBaseFS(migrations.FS)
	goose.SetTableName(NewTableNames(tablePrefix).Goose)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return nil
}
