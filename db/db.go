package db

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"routeplug/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite = "sqlite"
	DriverPgx    = "pgx"

	defaultSQLiteDSN = "file:routeplug?mode=memory&cache=shared"
)

// NewSQLXDB opens the item store database. Embedded sqlite is migrated on
// start; postgres is expected to be migrated with cmd/migrate.
func NewSQLXDB(lc fx.Lifecycle, cfg config.Config, log *zap.SugaredLogger) (*sqlx.DB, error) {
	driver, dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// One connection keeps the in-memory database alive and serialises writes.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if err := db.PingContext(pingCtx); err != nil {
				_ = db.Close()
				return fmt.Errorf("%s ping failed: %w", driver, err)
			}
			if driver == DriverSQLite {
				if err := Migrate(ctx, db, "up"); err != nil {
					return err
				}
			}
			log.Infow("db connected", "driver", driver)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := db.Close(); err != nil {
				log.Warnw("db close failed", "driver", driver, "err", err)
			}
			return nil
		},
	})

	return db, nil
}

// DSN picks the driver and connection string from cfg.
func DSN(cfg config.Config) (driver, dsn string, err error) {
	switch cfg.DBDriver {
	case "", DriverSQLite:
		dsn = strings.TrimSpace(cfg.DBDSN)
		if dsn == "" {
			dsn = defaultSQLiteDSN
		}
		return DriverSQLite, dsn, nil
	case DriverPgx:
		if dsn = strings.TrimSpace(cfg.DBDSN); dsn != "" {
			return DriverPgx, dsn, nil
		}
		if strings.TrimSpace(cfg.DBHost) == "" || strings.TrimSpace(cfg.DBName) == "" {
			return "", "", fmt.Errorf("postgres needs DB_DSN or DB_HOST and DB_NAME")
		}
		return DriverPgx, postgresDSN(cfg), nil
	default:
		return "", "", fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
}

func postgresDSN(cfg config.Config) string {
	u := &url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", cfg.DBHost, cfg.DBPort),
		Path:   cfg.DBName,
	}
	if strings.TrimSpace(cfg.DBUser) != "" {
		if cfg.DBPassword == "" {
			u.User = url.User(cfg.DBUser)
		} else {
			u.User = url.UserPassword(cfg.DBUser, cfg.DBPassword)
		}
	}
	return u.String()
}
