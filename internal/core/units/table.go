// Package units holds the immutable cooking-unit conversion table used by
// shopping list consolidation. Units belong to exactly one dimension and
// convert linearly to that dimension's base unit.
package units

import (
	"strings"
)

// Dimension is a category of measurement within which units convert linearly.
type Dimension string

const (
	Volume Dimension = "volume"
	Weight Dimension = "weight"
	Count  Dimension = "count"
)

// Base units per dimension. All conversion factors are relative to these.
const (
	BaseVolumeUnit = "fluid_ounce"
	BaseWeightUnit = "ounce"
	BaseCountUnit  = "each"
)

// Definition describes one canonical unit.
type Definition struct {
	Name         string
	Aliases      []string
	Dimension    Dimension
	FactorToBase float64
}

// DensityOverride re-expresses a volume of a specific ingredient as weight,
// e.g. one cup of granulated sugar weighs 7.05 ounces. Matching is a
// case-insensitive substring test so "brown sugar" matches "sugar".
type DensityOverride struct {
	IngredientPattern string
	CupsToOunces      float64
}

// Table is the read-only unit lookup shared by every consolidation run.
type Table struct {
	byAlias   map[string]Definition
	densities []DensityOverride
}

// NewTable builds a lookup table from unit definitions and density overrides.
func NewTable(defs []Definition, densities []DensityOverride) *Table {
	byAlias := make(map[string]Definition)
	for _, def := range defs {
		byAlias[strings.ToLower(def.Name)] = def
		for _, alias := range def.Aliases {
			byAlias[strings.ToLower(alias)] = def
		}
	}
	return &Table{
		byAlias:   byAlias,
		densities: densities,
	}
}

// Resolve looks up a unit by name or alias, case-insensitively.
func (t *Table) Resolve(unitText string) (Definition, bool) {
	def, ok := t.byAlias[strings.ToLower(strings.TrimSpace(unitText))]
	return def, ok
}

// ResolveDensity returns the density override whose pattern occurs in the
// ingredient name, if any. Callers apply it only to volume quantities.
func (t *Table) ResolveDensity(ingredientName string) (DensityOverride, bool) {
	name := strings.ToLower(ingredientName)
	for _, ov := range t.densities {
		if strings.Contains(name, ov.IngredientPattern) {
			return ov, true
		}
	}
	return DensityOverride{}, false
}

// BaseUnit returns the base unit name for a dimension.
func BaseUnit(d Dimension) string {
	switch d {
	case Volume:
		return BaseVolumeUnit
	case Weight:
		return BaseWeightUnit
	default:
		return BaseCountUnit
	}
}

const fluidOuncesPerCup = 8.0

// OuncesFromVolume converts a quantity in the given volume unit to ounces of
// weight using the override's cups-to-ounces factor.
func (ov DensityOverride) OuncesFromVolume(quantity float64, def Definition) float64 {
	cups := quantity * def.FactorToBase / fluidOuncesPerCup
	return cups * ov.CupsToOunces
}

// DefaultTable returns the standard cooking unit table.
//
// Produce and packaging units (head, bunch, clove, can, pinch, ...) are
// deliberately absent: an unknown unit stays opaque so entries measured in it
// never merge with entries measured differently.
func DefaultTable() *Table {
	defs := []Definition{
		// volume, base fluid_ounce
		{Name: "teaspoon", Aliases: []string{"tsp", "tsps", "teaspoons", "t"}, Dimension: Volume, FactorToBase: 1.0 / 6.0},
		{Name: "tablespoon", Aliases: []string{"tbsp", "tbsps", "tablespoons", "tbs"}, Dimension: Volume, FactorToBase: 0.5},
		{Name: "fluid_ounce", Aliases: []string{"fl oz", "fluid oz", "fl_oz", "fluid ounce", "fluid ounces"}, Dimension: Volume, FactorToBase: 1},
		{Name: "cup", Aliases: []string{"c", "cups"}, Dimension: Volume, FactorToBase: 8},
		{Name: "pint", Aliases: []string{"pt", "pints"}, Dimension: Volume, FactorToBase: 16},
		{Name: "quart", Aliases: []string{"qt", "quarts"}, Dimension: Volume, FactorToBase: 32},
		{Name: "gallon", Aliases: []string{"gal", "gallons"}, Dimension: Volume, FactorToBase: 128},
		{Name: "milliliter", Aliases: []string{"ml", "mls", "milliliters"}, Dimension: Volume, FactorToBase: 0.033814},
		{Name: "liter", Aliases: []string{"l", "liters"}, Dimension: Volume, FactorToBase: 33.814},

		// weight, base ounce
		{Name: "ounce", Aliases: []string{"oz", "ozs", "ounces"}, Dimension: Weight, FactorToBase: 1},
		{Name: "pound", Aliases: []string{"lb", "lbs", "pounds"}, Dimension: Weight, FactorToBase: 16},
		{Name: "gram", Aliases: []string{"g", "grams"}, Dimension: Weight, FactorToBase: 0.035274},
		{Name: "kilogram", Aliases: []string{"kg", "kgs", "kilograms"}, Dimension: Weight, FactorToBase: 35.274},
		// stick of butter, the standard US 4 oz
		{Name: "stick", Aliases: []string{"sticks"}, Dimension: Weight, FactorToBase: 4},

		// count, base each
		{Name: "each", Aliases: []string{"ea", "pc", "pcs", "piece", "pieces"}, Dimension: Count, FactorToBase: 1},
		{Name: "dozen", Aliases: []string{"doz"}, Dimension: Count, FactorToBase: 12},
	}

	densities := []DensityOverride{
		{IngredientPattern: "sugar", CupsToOunces: 7.05},
		{IngredientPattern: "flour", CupsToOunces: 4.25},
		{IngredientPattern: "butter", CupsToOunces: 8.0},
	}

	return NewTable(defs, densities)
}
