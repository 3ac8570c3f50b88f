package planner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinner-planner/internal/core/shopping"
	"dinner-planner/internal/core/units"
	"dinner-planner/internal/infrastructure/config"
	"dinner-planner/internal/store"
)

type fakeIngredientRepo struct {
	store.IngredientRepository
	forShopping []store.DishIngredient
}

func (f *fakeIngredientRepo) ListForShopping(ctx context.Context) ([]store.DishIngredient, error) {
	return f.forShopping, nil
}

type fakeShoppingRepo struct {
	store.ShoppingRepository
	cleared int64
	saved   []store.ShoppingItemInput
}

func (f *fakeShoppingRepo) Clear(ctx context.Context) (int64, error) {
	return f.cleared, nil
}

func (f *fakeShoppingRepo) CreateBatch(ctx context.Context, inputs []store.ShoppingItemInput) ([]store.ShoppingListItem, error) {
	f.saved = inputs
	items := make([]store.ShoppingListItem, len(inputs))
	for i, input := range inputs {
		items[i] = store.ShoppingListItem{
			ID:             int64(i + 1),
			IngredientName: input.IngredientName,
			Quantity:       input.Quantity,
			Unit:           input.Unit,
			Category:       input.Category,
			Notes:          input.Notes,
		}
	}
	return items, nil
}

func shoppingTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Shopping.DefaultQuantity = 1.0
	cfg.Shopping.DefaultLocation = "Unknown"
	cfg.Shopping.DefaultUnit = "each"
	cfg.Shopping.DefaultIngredient = "Unknown Item"
	cfg.Shopping.UnitConversion = true
	return cfg
}

func strPtr(s string) *string { return &s }

func TestGenerateConsolidatesAcrossDishes(t *testing.T) {
	ingredients := &fakeIngredientRepo{forShopping: []store.DishIngredient{
		{DishName: "Lasagna", IngredientName: "tomato", Unit: "pound", Quantity: 2, StoreName: strPtr("Green Grocer")},
		{DishName: "Salad", IngredientName: "tomato", Unit: "pound", Quantity: 1, StoreName: strPtr("Green Grocer")},
		{DishName: "Cake", IngredientName: "sugar", Unit: "cup", Quantity: 1, StoreName: strPtr("Baking Supply")},
	}}
	items := &fakeShoppingRepo{}
	svc := NewShoppingService(shoppingTestConfig(), units.DefaultTable(), ingredients, items)

	result, saved, err := svc.Generate(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, 3, result.TotalRowsProcessed)

	require.Len(t, items.saved, 2)
	first := items.saved[0]
	assert.Equal(t, "sugar", first.IngredientName)
	assert.Equal(t, "Baking Supply", *first.Category)

	second := items.saved[1]
	assert.Equal(t, "tomato", second.IngredientName)
	assert.InDelta(t, 3.0, *second.Quantity, 1e-9)
	assert.Equal(t, "pound", *second.Unit)
	assert.Equal(t, "Green Grocer", *second.Category)
}

func TestGenerateSkipsPurchasedIngredients(t *testing.T) {
	ingredients := &fakeIngredientRepo{forShopping: []store.DishIngredient{
		{DishName: "Lasagna", IngredientName: "tomato", Unit: "pound", Quantity: 2, IsPurchased: true},
		{DishName: "Salad", IngredientName: "cucumber", Unit: "each", Quantity: 1},
	}}
	items := &fakeShoppingRepo{}
	svc := NewShoppingService(shoppingTestConfig(), units.DefaultTable(), ingredients, items)

	_, saved, err := svc.Generate(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "cucumber", saved[0].IngredientName)
}

func TestGenerateCarriesNotes(t *testing.T) {
	ingredients := &fakeIngredientRepo{forShopping: []store.DishIngredient{
		{DishName: "Lasagna", IngredientName: "tomato", Unit: "pound", Quantity: 2, Notes: strPtr("ripe")},
	}}
	items := &fakeShoppingRepo{}
	svc := NewShoppingService(shoppingTestConfig(), units.DefaultTable(), ingredients, items)

	_, saved, err := svc.Generate(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	require.NotNil(t, saved[0].Notes)
	assert.Equal(t, "Lasagna: ripe", *saved[0].Notes)
}

func TestConsolidatePassthrough(t *testing.T) {
	svc := NewShoppingService(shoppingTestConfig(), units.DefaultTable(), nil, nil)

	result := svc.Consolidate(nil, nil)
	assert.Empty(t, result.Items)
	assert.Zero(t, result.TotalRowsProcessed)
}

func TestConsolidateRequestOverrides(t *testing.T) {
	svc := NewShoppingService(shoppingTestConfig(), units.DefaultTable(), nil, nil)
	rows := []shopping.Row{
		{Ingredient: "tomatoes", Quantity: "2", Unit: "lbs", Location: "Green Grocer"},
		{Ingredient: "tomatoes", Quantity: "16", Unit: "oz", Location: "Green Grocer"},
	}

	t.Run("disabling conversion keeps units apart", func(t *testing.T) {
		off := false
		result := svc.Consolidate(rows, &Options{EnableUnitConversion: &off})
		assert.Len(t, result.Items, 2)
	})

	t.Run("nil options use configured conversion", func(t *testing.T) {
		result := svc.Consolidate(rows, nil)
		require.Len(t, result.Items, 1)
		assert.InDelta(t, 3.0, result.Items[0].Quantity, 1e-9)
	})

	t.Run("request defaults replace configured defaults", func(t *testing.T) {
		result := svc.Consolidate([]shopping.Row{
			{Ingredient: "salt", Quantity: "1"},
		}, &Options{Defaults: &shopping.Defaults{
			Quantity: 1,
			Location: "Pantry",
			Unit:     "pinch",
		}})
		require.Len(t, result.Items, 1)
		assert.Equal(t, "Pantry", result.Items[0].Location)
		assert.Equal(t, "pinch", result.Items[0].Unit)
	})
}

func TestGenerateWithConversionDisabled(t *testing.T) {
	ingredients := &fakeIngredientRepo{forShopping: []store.DishIngredient{
		{DishName: "Lasagna", IngredientName: "tomato", Unit: "pound", Quantity: 2},
		{DishName: "Salad", IngredientName: "tomato", Unit: "oz", Quantity: 8},
	}}
	items := &fakeShoppingRepo{}
	svc := NewShoppingService(shoppingTestConfig(), units.DefaultTable(), ingredients, items)

	off := false
	_, saved, err := svc.Generate(context.Background(), &Options{EnableUnitConversion: &off})
	require.NoError(t, err)
	assert.Len(t, saved, 2)
}
