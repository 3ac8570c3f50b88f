package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"dinner-planner/internal/pkg/common"
)

// StoreRepository is data access for grocery stores.
type StoreRepository interface {
	Create(ctx context.Context, name string) (*GroceryStore, error)
	Get(ctx context.Context, id int64) (*GroceryStore, error)
	List(ctx context.Context) ([]GroceryStore, error)
	Update(ctx context.Context, id int64, name string) (*GroceryStore, error)
	Delete(ctx context.Context, id int64) error
}

type storeRepository struct {
	db *DB
}

// NewStoreRepository creates a store repository over the pool.
func NewStoreRepository(db *DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Create(ctx context.Context, name string) (*GroceryStore, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.NewValidationError("store name is required")
	}

	var s GroceryStore
	err := r.db.QueryRow(ctx,
		`INSERT INTO stores (name) VALUES ($1) RETURNING id, name, created_at`,
		name,
	).Scan(&s.ID, &s.Name, &s.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	return &s, nil
}

func (r *storeRepository) Get(ctx context.Context, id int64) (*GroceryStore, error) {
	var s GroceryStore
	err := r.db.QueryRow(ctx,
		`SELECT id, name, created_at FROM stores WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.Name, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to get store: %w", err)
	}
	return &s, nil
}

func (r *storeRepository) List(ctx context.Context) ([]GroceryStore, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, created_at FROM stores ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	defer rows.Close()

	stores := []GroceryStore{}
	for rows.Next() {
		var s GroceryStore
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan store: %w", err)
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

func (r *storeRepository) Update(ctx context.Context, id int64, name string) (*GroceryStore, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.NewValidationError("store name is required")
	}

	var s GroceryStore
	err := r.db.QueryRow(ctx,
		`UPDATE stores SET name = $2 WHERE id = $1 RETURNING id, name, created_at`,
		id, name,
	).Scan(&s.ID, &s.Name, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrStoreNotFound
		}
		if isUniqueViolation(err) {
			return nil, common.ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to update store: %w", err)
	}
	return &s, nil
}

func (r *storeRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete store: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrStoreNotFound
	}
	return nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
