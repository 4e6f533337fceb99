package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"routeplug/config"
)

func TestDSN(t *testing.T) {
	t.Parallel()

	driver, dsn, err := DSN(config.Config{DBDriver: "sqlite"})
	require.NoError(t, err)
	require.Equal(t, DriverSQLite, driver)
	require.Equal(t, defaultSQLiteDSN, dsn)

	driver, dsn, err = DSN(config.Config{
		DBDriver: "pgx", DBHost: "db", DBPort: 5432, DBName: "items", DBUser: "app", DBPassword: "secret",
	})
	require.NoError(t, err)
	require.Equal(t, DriverPgx, driver)
	require.Equal(t, "postgres://app:secret@db:5432/items", dsn)

	_, _, err = DSN(config.Config{DBDriver: "pgx"})
	require.Error(t, err)

	_, _, err = DSN(config.Config{DBDriver: "mysql"})
	require.Error(t, err)
}

func TestNewSQLXDB_SQLiteMigratesOnStart(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	db, err := NewSQLXDB(lc, config.Config{
		DBDriver: "sqlite",
		DBDSN:    "file:db_test?mode=memory&cache=shared",
	}, zap.NewNop().Sugar())
	require.NoError(t, err)

	lc.RequireStart()
	defer lc.RequireStop()

	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM items"))
	require.Zero(t, n)
}

func TestTx_RollsBackOnError(t *testing.T) {
	db, err := sqlx.Open("sqlite", "file:tx_test?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(context.Background(), db, "up"))

	boom := errors.New("boom")
	_, err = Tx(context.Background(), db, func(tx *sqlx.Tx) (struct{}, error) {
		_, err := tx.Exec(`INSERT INTO items (id, name, created_at_ms) VALUES (?, ?, ?)`, "a", "A", 1)
		require.NoError(t, err)
		return struct{}{}, boom
	})
	require.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM items"))
	require.Zero(t, n)

	_, err = Tx(context.Background(), nil, func(tx *sqlx.Tx) (int, error) { return 0, nil })
	require.ErrorIs(t, err, ErrNoDB)
}
