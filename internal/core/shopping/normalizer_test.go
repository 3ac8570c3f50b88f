package shopping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinner-planner/internal/core/units"
)

func TestNormalizeLine(t *testing.T) {
	n := NewNormalizer(units.DefaultTable(), DefaultConfig())

	tests := []struct {
		name          string
		line          ValidatedLine
		wantBaseQty   float64
		wantBaseUnit  string
		wantDimension units.Dimension
		wantConverted bool
	}{
		{
			name:          "pounds to ounces",
			line:          ValidatedLine{Ingredient: "Tomatoes", Quantity: 2, Unit: "lbs"},
			wantBaseQty:   32,
			wantBaseUnit:  "ounce",
			wantDimension: units.Weight,
		},
		{
			name:          "cups to fluid ounces",
			line:          ValidatedLine{Ingredient: "Milk", Quantity: 3, Unit: "cups"},
			wantBaseQty:   24,
			wantBaseUnit:  "fluid_ounce",
			wantDimension: units.Volume,
		},
		{
			name:          "density override crosses to weight",
			line:          ValidatedLine{Ingredient: "Sugar", Quantity: 2, Unit: "cup"},
			wantBaseQty:   14.1,
			wantBaseUnit:  "ounce",
			wantDimension: units.Weight,
			wantConverted: true,
		},
		{
			name:          "flour density",
			line:          ValidatedLine{Ingredient: "bread flour", Quantity: 1, Unit: "cup"},
			wantBaseQty:   4.25,
			wantBaseUnit:  "ounce",
			wantDimension: units.Weight,
			wantConverted: true,
		},
		{
			name:          "density only applies to volume",
			line:          ValidatedLine{Ingredient: "Sugar", Quantity: 8, Unit: "oz"},
			wantBaseQty:   8,
			wantBaseUnit:  "ounce",
			wantDimension: units.Weight,
		},
		{
			name:          "opaque unit kept verbatim",
			line:          ValidatedLine{Ingredient: "Garlic", Quantity: 1, Unit: "head"},
			wantBaseQty:   1,
			wantBaseUnit:  "head",
			wantDimension: units.Count,
		},
		{
			name:          "zero quantity clamps to default",
			line:          ValidatedLine{Ingredient: "Onions", Quantity: 0, Unit: "lbs"},
			wantBaseQty:   16,
			wantBaseUnit:  "ounce",
			wantDimension: units.Weight,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.normalizeLine(tt.line)
			assert.InDelta(t, tt.wantBaseQty, got.BaseQuantity, 1e-9)
			assert.Equal(t, tt.wantBaseUnit, got.BaseUnit)
			assert.Equal(t, tt.wantDimension, got.Dimension)
			if tt.wantConverted {
				assert.NotEmpty(t, got.Conversion)
			} else {
				assert.Empty(t, got.Conversion)
			}
		})
	}
}

func TestNormalizeConversionDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UnitConversionEnabled = false
	n := NewNormalizer(units.DefaultTable(), cfg)

	got := n.normalizeLine(ValidatedLine{Ingredient: "Sugar", Quantity: 2, Unit: "cup"})
	assert.InDelta(t, 2.0, got.BaseQuantity, 1e-9)
	assert.Equal(t, "cup", got.BaseUnit)
	assert.Equal(t, units.Count, got.Dimension)
	assert.Empty(t, got.Conversion)
}

func TestNormalizeKeepsLineOrder(t *testing.T) {
	n := NewNormalizer(units.DefaultTable(), DefaultConfig())
	lines := []ValidatedLine{
		{Row: 1, Ingredient: "A", Quantity: 1, Unit: "lb"},
		{Row: 2, Ingredient: "B", Quantity: 1, Unit: "cup"},
	}
	out := n.Normalize(lines)
	require.Len(t, out, 2)
	assert.Equal(t, 1, out[0].Row)
	assert.Equal(t, 2, out[1].Row)
}
