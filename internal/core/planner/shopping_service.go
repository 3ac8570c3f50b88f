// Package planner holds the application services that tie persistence, the
// LLM parser, and the consolidation core together.
package planner

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"dinner-planner/internal/core/shopping"
	"dinner-planner/internal/core/units"
	"dinner-planner/internal/infrastructure/config"
	"dinner-planner/internal/pkg/common"
	"dinner-planner/internal/store"
)

// ShoppingService generates and consolidates shopping lists.
type ShoppingService struct {
	config      *config.Config
	table       *units.Table
	ingredients store.IngredientRepository
	items       store.ShoppingRepository
}

// NewShoppingService wires the shopping service.
func NewShoppingService(cfg *config.Config, table *units.Table, ingredients store.IngredientRepository, items store.ShoppingRepository) *ShoppingService {
	return &ShoppingService{
		config:      cfg,
		table:       table,
		ingredients: ingredients,
		items:       items,
	}
}

// Options are per-request overrides of the configured consolidation
// behavior. Nil fields fall back to the server configuration.
type Options struct {
	Defaults             *shopping.Defaults `json:"defaults,omitempty"`
	EnableUnitConversion *bool              `json:"enable_unit_conversion,omitempty"`
}

// consolidationConfig maps application settings onto the core's knobs,
// overlaying any per-request overrides.
func (s *ShoppingService) consolidationConfig(opts *Options) shopping.Config {
	cfg := shopping.Config{
		Defaults: shopping.Defaults{
			Quantity:   s.config.Shopping.DefaultQuantity,
			Price:      s.config.Shopping.DefaultPrice,
			Location:   s.config.Shopping.DefaultLocation,
			Unit:       s.config.Shopping.DefaultUnit,
			Ingredient: s.config.Shopping.DefaultIngredient,
		},
		UnitConversionEnabled: s.config.Shopping.UnitConversion,
	}
	if opts != nil {
		if opts.Defaults != nil {
			cfg.Defaults = *opts.Defaults
		}
		if opts.EnableUnitConversion != nil {
			cfg.UnitConversionEnabled = *opts.EnableUnitConversion
		}
	}
	return cfg
}

// Consolidate runs the core over ad hoc rows without touching persistence.
func (s *ShoppingService) Consolidate(rows []shopping.Row, opts *Options) shopping.Result {
	return shopping.Consolidate(rows, s.table, s.consolidationConfig(opts))
}

// Generate builds a consolidated list from every dish's ingredients,
// replaces the persisted shopping list with it, and returns both the
// consolidation result and the stored items.
func (s *ShoppingService) Generate(ctx context.Context, opts *Options) (*shopping.Result, []store.ShoppingListItem, error) {
	dishIngredients, err := s.ingredients.ListForShopping(ctx)
	if err != nil {
		return nil, nil, err
	}

	rows := make([]shopping.Row, 0, len(dishIngredients))
	for _, di := range dishIngredients {
		row := shopping.Row{
			Dish:       di.DishName,
			Ingredient: di.IngredientName,
			Quantity:   strconv.FormatFloat(di.Quantity, 'f', -1, 64),
			Unit:       di.Unit,
		}
		if di.StoreName != nil {
			row.Location = *di.StoreName
		}
		if di.IsPurchased {
			row.Purchased = "true"
		}
		if di.Notes != nil {
			row.Notes = *di.Notes
		}
		rows = append(rows, row)
	}

	result := shopping.Consolidate(rows, s.table, s.consolidationConfig(opts))

	cleared, err := s.items.Clear(ctx)
	if err != nil {
		return nil, nil, err
	}

	inputs := make([]store.ShoppingItemInput, 0, len(result.Items))
	for _, item := range result.Items {
		quantity := item.Quantity
		unit := item.Unit
		category := item.Location
		input := store.ShoppingItemInput{
			IngredientName: item.Ingredient,
			Quantity:       &quantity,
			Unit:           &unit,
			Category:       &category,
		}
		if notes := provenanceNotes(item.SourceLines); notes != "" {
			input.Notes = &notes
		}
		inputs = append(inputs, input)
	}

	saved, err := s.items.CreateBatch(ctx, inputs)
	if err != nil {
		return nil, nil, err
	}

	common.LogInfo("shopping list generated",
		zap.Int("source_rows", len(rows)),
		zap.Int("items", len(saved)),
		zap.Int64("replaced", cleared),
		zap.Int("warnings", len(result.Warnings)),
		zap.Int("conversions", len(result.ConversionsApplied)),
	)
	return &result, saved, nil
}

// provenanceNotes renders "dish: note" pairs for the persisted item.
func provenanceNotes(lines []shopping.Provenance) string {
	out := ""
	for _, line := range lines {
		if line.Notes == "" {
			continue
		}
		note := line.Notes
		if line.Dish != "" {
			note = line.Dish + ": " + note
		}
		if out != "" {
			out += "; "
		}
		out += note
	}
	return out
}
