package datastore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/coreybb/roster/migrations"
	"github.com/pressly/goose/v3"
)

// RunMigrations applies the embedded schema migrations against the provided
// database connection.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
