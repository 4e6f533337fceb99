package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"routeplug/db"
)

var ErrNotFound = errors.New("item not found")

type Item struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	CreatedBy   string `db:"created_by" json:"created_by"`
	CreatedAtMs int64  `db:"created_at_ms" json:"created_at_ms"`
}

type CreateInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	CreatedBy   string `json:"-"`
}

type Store struct {
	db        *sqlx.DB
	validator *validator.Validate
	now       func() time.Time
}

func NewStore(conn *sqlx.DB) *Store {
	return &Store{
		db:        conn,
		validator: validator.New(),
		now:       time.Now,
	}
}

func (s *Store) List(ctx context.Context, limit int) ([]Item, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	out := []Item{}
	q := s.db.Rebind(`SELECT id, name, description, created_by, created_at_ms FROM items ORDER BY created_at_ms DESC, id LIMIT ?`)
	if err := s.db.SelectContext(ctx, &out, q, limit); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id string) (Item, error) {
	var it Item
	q := s.db.Rebind(`SELECT id, name, description, created_by, created_at_ms FROM items WHERE id = ?`)
	err := s.db.GetContext(ctx, &it, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, ErrNotFound
	}
	if err != nil {
		return Item{}, fmt.Errorf("get item %s: %w", id, err)
	}
	return it, nil
}

// Create validates in and inserts a new item. Validation failures are
// validator.ValidationErrors.
func (s *Store) Create(ctx context.Context, in CreateInput) (Item, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validator.Struct(in); err != nil {
		return Item{}, err
	}

	it := Item{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		CreatedBy:   in.CreatedBy,
		CreatedAtMs: s.now().UnixMilli(),
	}

	return db.Tx(ctx, s.db, func(tx *sqlx.Tx) (Item, error) {
		q := tx.Rebind(`INSERT INTO items (id, name, description, created_by, created_at_ms) VALUES (?, ?, ?, ?, ?)`)
		if _, err := tx.ExecContext(ctx, q, it.ID, it.Name, it.Description, it.CreatedBy, it.CreatedAtMs); err != nil {
			return Item{}, fmt.Errorf("insert item: %w", err)
		}
		return it, nil
	})
}

func (s *Store) Delete(ctx context.Context, id string) error {
	q := s.db.Rebind(`DELETE FROM items WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete item %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete item %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
