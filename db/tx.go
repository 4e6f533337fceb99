package db

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrNoDB = errors.New("db is not configured")

type TxFunc[T any] func(*sqlx.Tx) (T, error)

// Tx runs fn in a transaction, rolling back when fn fails.
func Tx[T any](ctx context.Context, db *sqlx.DB, fn TxFunc[T]) (T, error) {
	var zero T
	if db == nil {
		return zero, ErrNoDB
	}
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return zero, err
	}
	out, err := fn(tx)
	if err != nil {
		_ = tx.Rollback()
		return zero, err
	}
	if err := tx.Commit(); err != nil {
		return zero, err
	}
	return out, nil
}
