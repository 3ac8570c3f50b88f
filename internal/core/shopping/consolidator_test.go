package shopping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinner-planner/internal/core/units"
)

func consolidate(t *testing.T, rows []Row, cfg Config) Result {
	t.Helper()
	return Consolidate(rows, units.DefaultTable(), cfg)
}

func TestConsolidateSameUnit(t *testing.T) {
	rows := []Row{
		{Ingredient: "Tomatoes", Quantity: "2", Unit: "lbs", Location: "Store A"},
		{Ingredient: "Tomatoes", Quantity: "1", Unit: "lbs", Location: "Store A"},
	}
	result := consolidate(t, rows, DefaultConfig())

	require.Len(t, result.Items, 1)
	item := result.Items[0]
	assert.Equal(t, "Store A", item.Location)
	assert.Equal(t, "Tomatoes", item.Ingredient)
	assert.InDelta(t, 3.0, item.Quantity, 1e-9)
	assert.Equal(t, "pound", item.Unit)
	assert.Empty(t, result.ConversionsApplied)
	assert.Equal(t, 2, result.TotalRowsProcessed)
	assert.Zero(t, result.RowsSkipped)
	assert.Len(t, item.SourceLines, 2)
}

func TestConsolidateDensityConversion(t *testing.T) {
	rows := []Row{
		{Ingredient: "Sugar", Quantity: "1", Unit: "cup", Location: "Store A"},
		{Ingredient: "Sugar", Quantity: "8", Unit: "oz", Location: "Store A"},
	}
	result := consolidate(t, rows, DefaultConfig())

	require.Len(t, result.Items, 1)
	item := result.Items[0]
	// One cup of sugar is 7.05 oz, so the total lands at 15.05 oz. The first
	// line crossed from volume to weight, so the item displays in ounces.
	assert.InDelta(t, 15.05, item.Quantity, 1e-9)
	assert.Equal(t, "ounce", item.Unit)
	require.Len(t, result.ConversionsApplied, 1)
	assert.Contains(t, result.ConversionsApplied[0], "Sugar")
	assert.Contains(t, result.ConversionsApplied[0], "cup")
}

func TestConsolidateMissingIngredientSkipsRow(t *testing.T) {
	rows := []Row{
		{Ingredient: "", Quantity: "2", Unit: "lbs", Location: "Store A"},
	}
	result := consolidate(t, rows, DefaultConfig())

	assert.Equal(t, 1, result.RowsSkipped)
	// skipped rows still count as processed
	assert.Equal(t, 1, result.TotalRowsProcessed)
	assert.Empty(t, result.Items)
	// A dropped row contributes nothing beyond the counts.
	assert.Empty(t, result.Warnings)
}

func TestConsolidateDefaultsAndWarnings(t *testing.T) {
	rows := []Row{
		{Ingredient: "Salt", Quantity: "invalid_qty", Unit: "", Location: ""},
	}
	result := consolidate(t, rows, DefaultConfig())

	require.Len(t, result.Items, 1)
	item := result.Items[0]
	assert.Equal(t, "Unknown", item.Location)
	assert.Equal(t, "Salt", item.Ingredient)
	assert.InDelta(t, 1.0, item.Quantity, 1e-9)
	assert.Equal(t, "each", item.Unit)

	require.Len(t, result.Warnings, 3)
	messages := make([]string, 0, len(result.Warnings))
	for _, w := range result.Warnings {
		assert.Equal(t, 1, w.Row)
		messages = append(messages, w.Message)
	}
	assert.Contains(t, messages[0], "invalid quantity")
	assert.Contains(t, messages[1], "missing unit")
	assert.Contains(t, messages[2], "missing location")
}

func TestConsolidateOpaqueUnitsNeverMerge(t *testing.T) {
	rows := []Row{
		{Ingredient: "Garlic", Quantity: "2", Unit: "each", Location: "Store A"},
		{Ingredient: "Garlic", Quantity: "1", Unit: "head", Location: "Store A"},
	}
	result := consolidate(t, rows, DefaultConfig())

	require.Len(t, result.Items, 2)
	unitsSeen := map[string]float64{}
	for _, item := range result.Items {
		assert.Equal(t, "Garlic", item.Ingredient)
		unitsSeen[item.Unit] = item.Quantity
	}
	assert.InDelta(t, 2.0, unitsSeen["each"], 1e-9)
	assert.InDelta(t, 1.0, unitsSeen["head"], 1e-9)
}

func TestConsolidateConversionDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UnitConversionEnabled = false
	rows := []Row{
		{Ingredient: "Sugar", Quantity: "1", Unit: "cup", Location: "Store A"},
		{Ingredient: "Sugar", Quantity: "8", Unit: "oz", Location: "Store A"},
	}
	result := consolidate(t, rows, cfg)

	require.Len(t, result.Items, 2)
	assert.Empty(t, result.ConversionsApplied)
	unitsSeen := map[string]float64{}
	for _, item := range result.Items {
		unitsSeen[item.Unit] = item.Quantity
	}
	assert.InDelta(t, 1.0, unitsSeen["cup"], 1e-9)
	assert.InDelta(t, 8.0, unitsSeen["oz"], 1e-9)
}

func TestConsolidateCrossUnitSameDimension(t *testing.T) {
	rows := []Row{
		{Ingredient: "Milk", Quantity: "1", Unit: "quart", Location: "Dairy Mart"},
		{Ingredient: "Milk", Quantity: "2", Unit: "cups", Location: "Dairy Mart"},
	}
	result := consolidate(t, rows, DefaultConfig())

	require.Len(t, result.Items, 1)
	item := result.Items[0]
	// 32 fl oz + 16 fl oz displayed in the first line's unit.
	assert.Equal(t, "quart", item.Unit)
	assert.InDelta(t, 1.5, item.Quantity, 1e-9)
	// The cups line was re-expressed in quarts, which counts as a conversion.
	require.Len(t, result.ConversionsApplied, 1)
	assert.Contains(t, result.ConversionsApplied[0], "cup")
	assert.Contains(t, result.ConversionsApplied[0], "quart")
}

func TestConsolidateLocationsStaySeparate(t *testing.T) {
	rows := []Row{
		{Ingredient: "Tomatoes", Quantity: "2", Unit: "lbs", Location: "Store A"},
		{Ingredient: "Tomatoes", Quantity: "1", Unit: "lbs", Location: "Store B"},
	}
	result := consolidate(t, rows, DefaultConfig())

	require.Len(t, result.Items, 2)
	assert.Equal(t, "Store A", result.Items[0].Location)
	assert.Equal(t, "Store B", result.Items[1].Location)
}

func TestConsolidateCaseInsensitiveNames(t *testing.T) {
	rows := []Row{
		{Ingredient: "Olive Oil", Quantity: "1", Unit: "cup", Location: "Store A"},
		{Ingredient: "olive  oil", Quantity: "8", Unit: "tbsp", Location: "Store A"},
	}
	result := consolidate(t, rows, DefaultConfig())

	require.Len(t, result.Items, 1)
	assert.Equal(t, "Olive Oil", result.Items[0].Ingredient)
	assert.InDelta(t, 1.5, result.Items[0].Quantity, 1e-9)
	assert.Equal(t, "cup", result.Items[0].Unit)
}

func TestConsolidatePricesSum(t *testing.T) {
	rows := []Row{
		{Ingredient: "Cheese", Quantity: "1", Unit: "lb", Location: "Store A", Price: "4.99"},
		{Ingredient: "Cheese", Quantity: "1", Unit: "lb", Location: "Store A", Price: "$5.01"},
	}
	result := consolidate(t, rows, DefaultConfig())

	require.Len(t, result.Items, 1)
	assert.InDelta(t, 10.0, result.Items[0].Price, 1e-9)
}

func TestConsolidatePurchasedExcluded(t *testing.T) {
	rows := []Row{
		{Ingredient: "Bread", Quantity: "1", Unit: "each", Location: "Bakery", Purchased: "x"},
		{Ingredient: "Bread", Quantity: "2", Unit: "each", Location: "Bakery"},
	}
	result := consolidate(t, rows, DefaultConfig())

	require.Len(t, result.Items, 1)
	assert.InDelta(t, 2.0, result.Items[0].Quantity, 1e-9)
	assert.Equal(t, 2, result.TotalRowsProcessed)
	assert.Zero(t, result.RowsSkipped)
}

func TestConsolidateNeverNegative(t *testing.T) {
	rows := []Row{
		{Ingredient: "Onions", Quantity: "-3", Unit: "lbs", Location: "Store A", Price: "-2.50"},
		{Ingredient: "Onions", Quantity: "0", Unit: "lbs", Location: "Store A"},
	}
	result := consolidate(t, rows, DefaultConfig())

	require.Len(t, result.Items, 1)
	assert.GreaterOrEqual(t, result.Items[0].Quantity, 0.0)
	assert.GreaterOrEqual(t, result.Items[0].Price, 0.0)
	// Both rows clamp to the default quantity of one pound.
	assert.InDelta(t, 2.0, result.Items[0].Quantity, 1e-9)
}

func TestConsolidateProvenance(t *testing.T) {
	rows := []Row{
		{Dish: "Lasagna", Ingredient: "Tomatoes", Quantity: "2", Unit: "lbs", Location: "Store A", Notes: "ripe"},
		{Dish: "Salad", Ingredient: "Tomatoes", Quantity: "1", Unit: "lb", Location: "Store A"},
	}
	result := consolidate(t, rows, DefaultConfig())

	require.Len(t, result.Items, 1)
	lines := result.Items[0].SourceLines
	require.Len(t, lines, 2)
	assert.Equal(t, Provenance{Dish: "Lasagna", Quantity: 2, Unit: "lbs", Notes: "ripe"}, lines[0])
	assert.Equal(t, Provenance{Dish: "Salad", Quantity: 1, Unit: "lb"}, lines[1])
}

func TestConsolidateDeterministicOrdering(t *testing.T) {
	rows := []Row{
		{Ingredient: "Zucchini", Quantity: "1", Unit: "each", Location: "Store B"},
		{Ingredient: "Apples", Quantity: "3", Unit: "each", Location: "Store A"},
		{Ingredient: "Bananas", Quantity: "6", Unit: "each", Location: "Store A"},
	}
	first := consolidate(t, rows, DefaultConfig())
	second := consolidate(t, rows, DefaultConfig())

	assert.Equal(t, first, second)
	require.Len(t, first.Items, 3)
	assert.Equal(t, "Apples", first.Items[0].Ingredient)
	assert.Equal(t, "Bananas", first.Items[1].Ingredient)
	assert.Equal(t, "Zucchini", first.Items[2].Ingredient)
}

func TestConsolidateIdempotent(t *testing.T) {
	rows := []Row{
		{Ingredient: "Tomatoes", Quantity: "2", Unit: "lbs", Location: "Store A", Price: "3.00"},
		{Ingredient: "Tomatoes", Quantity: "1", Unit: "lbs", Location: "Store A", Price: "1.50"},
		{Ingredient: "Garlic", Quantity: "1", Unit: "head", Location: "Store A"},
	}
	first := consolidate(t, rows, DefaultConfig())

	// Feed the consolidated output back in as rows.
	again := make([]Row, 0, len(first.Items))
	for _, item := range first.Items {
		again = append(again, Row{
			Ingredient: item.Ingredient,
			Quantity:   formatQuantity(item.Quantity),
			Unit:       item.Unit,
			Location:   item.Location,
			Price:      formatQuantity(item.Price),
		})
	}
	second := consolidate(t, again, DefaultConfig())

	require.Len(t, second.Items, len(first.Items))
	for i := range first.Items {
		assert.Equal(t, first.Items[i].Ingredient, second.Items[i].Ingredient)
		assert.Equal(t, first.Items[i].Unit, second.Items[i].Unit)
		assert.InDelta(t, first.Items[i].Quantity, second.Items[i].Quantity, 1e-6)
		assert.InDelta(t, first.Items[i].Price, second.Items[i].Price, 1e-6)
	}
}
