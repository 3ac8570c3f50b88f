package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		name          string
		unit          string
		wantName      string
		wantDimension Dimension
		wantFactor    float64
		wantOK        bool
	}{
		{name: "canonical name", unit: "pound", wantName: "pound", wantDimension: Weight, wantFactor: 16, wantOK: true},
		{name: "alias lbs", unit: "lbs", wantName: "pound", wantDimension: Weight, wantFactor: 16, wantOK: true},
		{name: "alias oz", unit: "oz", wantName: "ounce", wantDimension: Weight, wantFactor: 1, wantOK: true},
		{name: "case insensitive", unit: "CUPS", wantName: "cup", wantDimension: Volume, wantFactor: 8, wantOK: true},
		{name: "surrounding whitespace", unit: "  tbsp ", wantName: "tablespoon", wantDimension: Volume, wantFactor: 0.5, wantOK: true},
		{name: "teaspoon fraction", unit: "tsp", wantName: "teaspoon", wantDimension: Volume, wantFactor: 1.0 / 6.0, wantOK: true},
		{name: "gallon", unit: "gallon", wantName: "gallon", wantDimension: Volume, wantFactor: 128, wantOK: true},
		{name: "metric weight", unit: "kg", wantName: "kilogram", wantDimension: Weight, wantFactor: 35.274, wantOK: true},
		{name: "metric volume", unit: "ml", wantName: "milliliter", wantDimension: Volume, wantFactor: 0.033814, wantOK: true},
		{name: "butter stick", unit: "stick", wantName: "stick", wantDimension: Weight, wantFactor: 4, wantOK: true},
		{name: "count each", unit: "each", wantName: "each", wantDimension: Count, wantFactor: 1, wantOK: true},
		{name: "dozen", unit: "dozen", wantName: "dozen", wantDimension: Count, wantFactor: 12, wantOK: true},
		{name: "unknown unit", unit: "pinch", wantOK: false},
		{name: "empty unit", unit: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, ok := table.Resolve(tt.unit)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantName, def.Name)
			assert.Equal(t, tt.wantDimension, def.Dimension)
			assert.InDelta(t, tt.wantFactor, def.FactorToBase, 1e-9)
		})
	}
}

func TestResolveDensity(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		name       string
		ingredient string
		wantCups   float64
		wantOK     bool
	}{
		{name: "exact sugar", ingredient: "sugar", wantCups: 7.05, wantOK: true},
		{name: "qualified sugar", ingredient: "brown sugar", wantCups: 7.05, wantOK: true},
		{name: "flour", ingredient: "all-purpose flour", wantCups: 4.25, wantOK: true},
		{name: "butter", ingredient: "Unsalted Butter", wantCups: 8.0, wantOK: true},
		{name: "no override", ingredient: "tomatoes", wantOK: false},
		{name: "empty name", ingredient: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ov, ok := table.ResolveDensity(tt.ingredient)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.InDelta(t, tt.wantCups, ov.CupsToOunces, 1e-9)
			}
		})
	}
}

func TestOuncesFromVolume(t *testing.T) {
	table := DefaultTable()
	sugar, ok := table.ResolveDensity("sugar")
	require.True(t, ok)

	cup, ok := table.Resolve("cup")
	require.True(t, ok)
	tbsp, ok := table.Resolve("tbsp")
	require.True(t, ok)

	// One cup of sugar weighs 7.05 oz; a tablespoon is 1/16 of that.
	assert.InDelta(t, 7.05, sugar.OuncesFromVolume(1, cup), 1e-9)
	assert.InDelta(t, 14.1, sugar.OuncesFromVolume(2, cup), 1e-9)
	assert.InDelta(t, 7.05/16, sugar.OuncesFromVolume(1, tbsp), 1e-9)
}

func TestBaseUnit(t *testing.T) {
	assert.Equal(t, "fluid_ounce", BaseUnit(Volume))
	assert.Equal(t, "ounce", BaseUnit(Weight))
	assert.Equal(t, "each", BaseUnit(Count))
}
