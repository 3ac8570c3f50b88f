package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"dinner-planner/internal/pkg/common"
)

// DishInput carries the writable fields of a dish.
type DishInput struct {
	Name        string     `json:"name"`
	Course      CourseType `json:"course"`
	Description *string    `json:"description"`
	Servings    *int       `json:"servings"`
	RecipeURL   *string    `json:"recipe_url"`
}

// DishRepository is data access for dishes.
type DishRepository interface {
	Create(ctx context.Context, input DishInput) (*Dish, error)
	Get(ctx context.Context, id int64) (*Dish, error)
	List(ctx context.Context) ([]Dish, error)
	ListByCourse(ctx context.Context, course CourseType) ([]Dish, error)
	Update(ctx context.Context, id int64, input DishInput) (*Dish, error)
	Delete(ctx context.Context, id int64) error
}

type dishRepository struct {
	db *DB
}

// NewDishRepository creates a dish repository over the pool.
func NewDishRepository(db *DB) DishRepository {
	return &dishRepository{db: db}
}

const dishColumns = `id, name, course, description, servings, recipe_url, created_at, updated_at`

func scanDish(row pgx.Row) (*Dish, error) {
	var d Dish
	err := row.Scan(&d.ID, &d.Name, &d.Course, &d.Description, &d.Servings,
		&d.RecipeURL, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func validateDishInput(input *DishInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return common.NewValidationError("dish name is required")
	}
	if input.Course == "" {
		input.Course = CourseMain
	}
	if !ValidCourse(input.Course) {
		return common.NewValidationError(fmt.Sprintf("unknown course %q", input.Course))
	}
	if input.Servings != nil && *input.Servings <= 0 {
		return common.NewValidationError("servings must be positive")
	}
	return nil
}

func (r *dishRepository) Create(ctx context.Context, input DishInput) (*Dish, error) {
	if err := validateDishInput(&input); err != nil {
		return nil, err
	}

	d, err := scanDish(r.db.QueryRow(ctx,
		`INSERT INTO dishes (name, course, description, servings, recipe_url)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+dishColumns,
		input.Name, input.Course, input.Description, input.Servings, input.RecipeURL,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create dish: %w", err)
	}
	return d, nil
}

func (r *dishRepository) Get(ctx context.Context, id int64) (*Dish, error) {
	d, err := scanDish(r.db.QueryRow(ctx,
		`SELECT `+dishColumns+` FROM dishes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrDishNotFound
		}
		return nil, fmt.Errorf("failed to get dish: %w", err)
	}
	return d, nil
}

func (r *dishRepository) List(ctx context.Context) ([]Dish, error) {
	return r.list(ctx, `SELECT `+dishColumns+` FROM dishes ORDER BY course, name`)
}

func (r *dishRepository) ListByCourse(ctx context.Context, course CourseType) ([]Dish, error) {
	if !ValidCourse(course) {
		return nil, common.NewValidationError(fmt.Sprintf("unknown course %q", course))
	}
	return r.list(ctx,
		`SELECT `+dishColumns+` FROM dishes WHERE course = $1 ORDER BY name`, course)
}

func (r *dishRepository) list(ctx context.Context, query string, args ...any) ([]Dish, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list dishes: %w", err)
	}
	defer rows.Close()

	dishes := []Dish{}
	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dish: %w", err)
		}
		dishes = append(dishes, *d)
	}
	return dishes, rows.Err()
}

func (r *dishRepository) Update(ctx context.Context, id int64, input DishInput) (*Dish, error) {
	if err := validateDishInput(&input); err != nil {
		return nil, err
	}

	d, err := scanDish(r.db.QueryRow(ctx,
		`UPDATE dishes
		 SET name = $2, course = $3, description = $4, servings = $5, recipe_url = $6,
		     updated_at = now()
		 WHERE id = $1
		 RETURNING `+dishColumns,
		id, input.Name, input.Course, input.Description, input.Servings, input.RecipeURL,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrDishNotFound
		}
		return nil, fmt.Errorf("failed to update dish: %w", err)
	}
	return d, nil
}

func (r *dishRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM dishes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete dish: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrDishNotFound
	}
	return nil
}
