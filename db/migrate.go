package db

import (
	"context"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"routeplug/db/migrations"
)

// goose keeps its dialect and base FS in package state.
var gooseMu sync.Mutex

// Migrate runs a goose command ("up", "down", "status", ...) against db.
func Migrate(ctx context.Context, db *sqlx.DB, cmd string) error {
	dialect := "sqlite3"
	if db.DriverName() == DriverPgx {
		dialect = "postgres"
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.RunContext(ctx, cmd, db.DB, "."); err != nil {
		return fmt.Errorf("goose run %q: %w", cmd, err)
	}
	return nil
}
