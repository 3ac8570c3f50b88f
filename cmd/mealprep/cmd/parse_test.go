package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinner-planner/internal/core/parser"
)

func floatPtr(f float64) *float64 { return &f }

func TestRowsFromParsed(t *testing.T) {
	parsed := []parser.ParsedIngredient{
		{Name: "tomatoes", Quantity: floatPtr(2), Unit: "pound", Notes: "ripe"},
		{Name: "salt", Notes: "to taste"},
	}

	rows := rowsFromParsed("Pasta", parsed)
	require.Len(t, rows, 2)

	assert.Equal(t, "Pasta", rows[0].Dish)
	assert.Equal(t, "tomatoes", rows[0].Ingredient)
	assert.Equal(t, "2", rows[0].Quantity)
	assert.Equal(t, "pound", rows[0].Unit)
	assert.Equal(t, "False", rows[0].Purchased)

	// no quantity stays blank rather than defaulting to 1
	assert.Empty(t, rows[1].Quantity)
	assert.Equal(t, "to taste", rows[1].Notes)
}

func TestReadInputLiteral(t *testing.T) {
	got, err := readInput("  2 lbs tomatoes  ")
	require.NoError(t, err)
	assert.Equal(t, "2 lbs tomatoes", got)
}

func TestReadInputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipe.txt")
	require.NoError(t, os.WriteFile(path, []byte("1 head garlic\n"), 0o644))

	got, err := readInput(path)
	require.NoError(t, err)
	assert.Equal(t, "1 head garlic", got)
}

func TestLoadDishConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dishes.yaml")
	content := "dishes:\n" +
		"  \"Mushroom Wellington\": \"wellington.txt\"\n" +
		"  \"Caesar Salad\": \"salad.txt\"\n" +
		"  \"Apple Pie\": \"pie.txt\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	dishes, err := loadDishConfig(path)
	require.NoError(t, err)
	// document order is preserved, not sorted or shuffled
	assert.Equal(t, []dishEntry{
		{Name: "Mushroom Wellington", File: "wellington.txt"},
		{Name: "Caesar Salad", File: "salad.txt"},
		{Name: "Apple Pie", File: "pie.txt"},
	}, dishes)
}

func TestLoadDishConfigMissing(t *testing.T) {
	_, err := loadDishConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
