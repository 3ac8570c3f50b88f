package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"dinner-planner/internal/pkg/common"
)

// ShoppingItemInput carries the writable fields of a shopping list item.
type ShoppingItemInput struct {
	DishID         *int64   `json:"dish_id"`
	IngredientName string   `json:"ingredient_name"`
	Quantity       *float64 `json:"quantity"`
	Unit           *string  `json:"unit"`
	Category       *string  `json:"category"`
	Notes          *string  `json:"notes"`
}

// ShoppingRepository is data access for persisted shopping list items.
type ShoppingRepository interface {
	Create(ctx context.Context, input ShoppingItemInput) (*ShoppingListItem, error)
	CreateBatch(ctx context.Context, inputs []ShoppingItemInput) ([]ShoppingListItem, error)
	Get(ctx context.Context, id int64) (*ShoppingListItem, error)
	List(ctx context.Context) ([]ShoppingListItem, error)
	Update(ctx context.Context, id int64, input ShoppingItemInput) (*ShoppingListItem, error)
	ToggleChecked(ctx context.Context, id int64) (*ShoppingListItem, error)
	Delete(ctx context.Context, id int64) error
	Clear(ctx context.Context) (int64, error)
}

type shoppingRepository struct {
	db *DB
}

// NewShoppingRepository creates a shopping repository over the pool.
func NewShoppingRepository(db *DB) ShoppingRepository {
	return &shoppingRepository{db: db}
}

const shoppingColumns = `id, dish_id, ingredient_name, quantity, unit, category, notes, is_checked, created_at, updated_at`

func scanShoppingItem(row pgx.Row) (*ShoppingListItem, error) {
	var item ShoppingListItem
	err := row.Scan(&item.ID, &item.DishID, &item.IngredientName, &item.Quantity,
		&item.Unit, &item.Category, &item.Notes, &item.IsChecked,
		&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *shoppingRepository) Create(ctx context.Context, input ShoppingItemInput) (*ShoppingListItem, error) {
	input.IngredientName = strings.TrimSpace(input.IngredientName)
	if input.IngredientName == "" {
		return nil, common.NewValidationError("ingredient name is required")
	}

	item, err := scanShoppingItem(r.db.QueryRow(ctx,
		`INSERT INTO shopping_list_items (dish_id, ingredient_name, quantity, unit, category, notes)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+shoppingColumns,
		input.DishID, input.IngredientName, input.Quantity, input.Unit, input.Category, input.Notes,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create shopping item: %w", err)
	}
	return item, nil
}

// CreateBatch inserts consolidated items in one transaction so a failed
// generation never leaves a partial list behind.
func (r *shoppingRepository) CreateBatch(ctx context.Context, inputs []ShoppingItemInput) ([]ShoppingListItem, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	items := make([]ShoppingListItem, 0, len(inputs))
	for _, input := range inputs {
		input.IngredientName = strings.TrimSpace(input.IngredientName)
		if input.IngredientName == "" {
			return nil, common.NewValidationError("ingredient name is required")
		}
		item, err := scanShoppingItem(tx.QueryRow(ctx,
			`INSERT INTO shopping_list_items (dish_id, ingredient_name, quantity, unit, category, notes)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING `+shoppingColumns,
			input.DishID, input.IngredientName, input.Quantity, input.Unit, input.Category, input.Notes,
		))
		if err != nil {
			return nil, fmt.Errorf("failed to insert shopping item: %w", err)
		}
		items = append(items, *item)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit shopping items: %w", err)
	}
	return items, nil
}

func (r *shoppingRepository) Get(ctx context.Context, id int64) (*ShoppingListItem, error) {
	item, err := scanShoppingItem(r.db.QueryRow(ctx,
		`SELECT `+shoppingColumns+` FROM shopping_list_items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrShoppingItemNotFound
		}
		return nil, fmt.Errorf("failed to get shopping item: %w", err)
	}
	return item, nil
}

func (r *shoppingRepository) List(ctx context.Context) ([]ShoppingListItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+shoppingColumns+` FROM shopping_list_items
		 ORDER BY category NULLS LAST, ingredient_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping items: %w", err)
	}
	defer rows.Close()

	items := []ShoppingListItem{}
	for rows.Next() {
		item, err := scanShoppingItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shopping item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *shoppingRepository) Update(ctx context.Context, id int64, input ShoppingItemInput) (*ShoppingListItem, error) {
	input.IngredientName = strings.TrimSpace(input.IngredientName)
	if input.IngredientName == "" {
		return nil, common.NewValidationError("ingredient name is required")
	}

	item, err := scanShoppingItem(r.db.QueryRow(ctx,
		`UPDATE shopping_list_items
		 SET dish_id = $2, ingredient_name = $3, quantity = $4, unit = $5,
		     category = $6, notes = $7, updated_at = now()
		 WHERE id = $1
		 RETURNING `+shoppingColumns,
		id, input.DishID, input.IngredientName, input.Quantity, input.Unit, input.Category, input.Notes,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrShoppingItemNotFound
		}
		return nil, fmt.Errorf("failed to update shopping item: %w", err)
	}
	return item, nil
}

func (r *shoppingRepository) ToggleChecked(ctx context.Context, id int64) (*ShoppingListItem, error) {
	item, err := scanShoppingItem(r.db.QueryRow(ctx,
		`UPDATE shopping_list_items
		 SET is_checked = NOT is_checked, updated_at = now()
		 WHERE id = $1
		 RETURNING `+shoppingColumns,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrShoppingItemNotFound
		}
		return nil, fmt.Errorf("failed to toggle shopping item: %w", err)
	}
	return item, nil
}

func (r *shoppingRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM shopping_list_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shopping item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrShoppingItemNotFound
	}
	return nil
}

// Clear removes every shopping list item and reports how many were deleted.
func (r *shoppingRepository) Clear(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM shopping_list_items`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear shopping list: %w", err)
	}
	return tag.RowsAffected(), nil
}
