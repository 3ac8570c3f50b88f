package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"dinner-planner/internal/pkg/common"
)

// IngredientInput carries the writable fields of an ingredient definition.
type IngredientInput struct {
	Name    string `json:"name"`
	StoreID *int64 `json:"store_id"`
	Unit    string `json:"unit"`
}

// InstanceInput attaches an ingredient to a dish.
type InstanceInput struct {
	IngredientID int64   `json:"ingredient_id"`
	DishID       int64   `json:"dish_id"`
	Quantity     float64 `json:"quantity"`
	Notes        *string `json:"notes"`
}

// IngredientRepository is data access for ingredients and their per-dish
// instances.
type IngredientRepository interface {
	Create(ctx context.Context, input IngredientInput) (*Ingredient, error)
	Get(ctx context.Context, id int64) (*Ingredient, error)
	GetByName(ctx context.Context, name string) (*Ingredient, error)
	List(ctx context.Context) ([]Ingredient, error)
	Update(ctx context.Context, id int64, input IngredientInput) (*Ingredient, error)
	SetPurchased(ctx context.Context, id int64, purchased bool) (*Ingredient, error)
	Delete(ctx context.Context, id int64) error

	AddInstance(ctx context.Context, input InstanceInput) (*IngredientInstance, error)
	DeleteInstance(ctx context.Context, id int64) error
	ListForShopping(ctx context.Context) ([]DishIngredient, error)
}

type ingredientRepository struct {
	db *DB
}

// NewIngredientRepository creates an ingredient repository over the pool.
func NewIngredientRepository(db *DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

const ingredientColumns = `id, name, store_id, unit, is_purchased, created_at, updated_at`

func scanIngredient(row pgx.Row) (*Ingredient, error) {
	var ing Ingredient
	err := row.Scan(&ing.ID, &ing.Name, &ing.StoreID, &ing.Unit,
		&ing.IsPurchased, &ing.CreatedAt, &ing.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &ing, nil
}

func (r *ingredientRepository) Create(ctx context.Context, input IngredientInput) (*Ingredient, error) {
	input.Name = strings.ToLower(strings.TrimSpace(input.Name))
	if input.Name == "" {
		return nil, common.NewValidationError("ingredient name is required")
	}
	if input.Unit = strings.TrimSpace(input.Unit); input.Unit == "" {
		input.Unit = "each"
	}

	ing, err := scanIngredient(r.db.QueryRow(ctx,
		`INSERT INTO ingredients (name, store_id, unit)
		 VALUES ($1, $2, $3)
		 RETURNING `+ingredientColumns,
		input.Name, input.StoreID, input.Unit,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to create ingredient: %w", err)
	}
	return ing, nil
}

func (r *ingredientRepository) Get(ctx context.Context, id int64) (*Ingredient, error) {
	ing, err := scanIngredient(r.db.QueryRow(ctx,
		`SELECT `+ingredientColumns+` FROM ingredients WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrIngredientNotFound
		}
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	return ing, nil
}

func (r *ingredientRepository) GetByName(ctx context.Context, name string) (*Ingredient, error) {
	ing, err := scanIngredient(r.db.QueryRow(ctx,
		`SELECT `+ingredientColumns+` FROM ingredients WHERE name = $1`,
		strings.ToLower(strings.TrimSpace(name))))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrIngredientNotFound
		}
		return nil, fmt.Errorf("failed to get ingredient by name: %w", err)
	}
	return ing, nil
}

func (r *ingredientRepository) List(ctx context.Context) ([]Ingredient, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+ingredientColumns+` FROM ingredients ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	defer rows.Close()

	ingredients := []Ingredient{}
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, *ing)
	}
	return ingredients, rows.Err()
}

func (r *ingredientRepository) Update(ctx context.Context, id int64, input IngredientInput) (*Ingredient, error) {
	input.Name = strings.ToLower(strings.TrimSpace(input.Name))
	if input.Name == "" {
		return nil, common.NewValidationError("ingredient name is required")
	}
	if input.Unit = strings.TrimSpace(input.Unit); input.Unit == "" {
		input.Unit = "each"
	}

	ing, err := scanIngredient(r.db.QueryRow(ctx,
		`UPDATE ingredients
		 SET name = $2, store_id = $3, unit = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING `+ingredientColumns,
		id, input.Name, input.StoreID, input.Unit,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrIngredientNotFound
		}
		if isUniqueViolation(err) {
			return nil, common.ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to update ingredient: %w", err)
	}
	return ing, nil
}

func (r *ingredientRepository) SetPurchased(ctx context.Context, id int64, purchased bool) (*Ingredient, error) {
	ing, err := scanIngredient(r.db.QueryRow(ctx,
		`UPDATE ingredients SET is_purchased = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING `+ingredientColumns,
		id, purchased,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrIngredientNotFound
		}
		return nil, fmt.Errorf("failed to set ingredient purchased: %w", err)
	}
	return ing, nil
}

func (r *ingredientRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM ingredients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ingredient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrIngredientNotFound
	}
	return nil
}

func (r *ingredientRepository) AddInstance(ctx context.Context, input InstanceInput) (*IngredientInstance, error) {
	if input.Quantity <= 0 {
		input.Quantity = 1.0
	}

	var inst IngredientInstance
	err := r.db.QueryRow(ctx,
		`INSERT INTO ingredient_instances (ingredient_id, dish_id, quantity, notes)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, ingredient_id, dish_id, quantity, notes, created_at`,
		input.IngredientID, input.DishID, input.Quantity, input.Notes,
	).Scan(&inst.ID, &inst.IngredientID, &inst.DishID, &inst.Quantity, &inst.Notes, &inst.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add ingredient instance: %w", err)
	}
	return &inst, nil
}

func (r *ingredientRepository) DeleteInstance(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM ingredient_instances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ingredient instance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrIngredientNotFound
	}
	return nil
}

// ListForShopping returns every dish's ingredient instances joined with
// ingredient and store names, the raw material for list generation.
func (r *ingredientRepository) ListForShopping(ctx context.Context) ([]DishIngredient, error) {
	rows, err := r.db.Query(ctx,
		`SELECT ii.id, d.id, d.name, i.id, i.name, i.unit, ii.quantity,
		        s.name, i.is_purchased, ii.notes
		 FROM ingredient_instances ii
		 JOIN dishes d ON d.id = ii.dish_id
		 JOIN ingredients i ON i.id = ii.ingredient_id
		 LEFT JOIN stores s ON s.id = i.store_id
		 ORDER BY d.name, i.name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list dish ingredients: %w", err)
	}
	defer rows.Close()

	items := []DishIngredient{}
	for rows.Next() {
		var di DishIngredient
		err := rows.Scan(&di.InstanceID, &di.DishID, &di.DishName,
			&di.IngredientID, &di.IngredientName, &di.Unit, &di.Quantity,
			&di.StoreName, &di.IsPurchased, &di.Notes)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dish ingredient: %w", err)
		}
		items = append(items, di)
	}
	return items, rows.Err()
}
