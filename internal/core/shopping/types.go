// Package shopping implements shopping list consolidation: raw ingredient
// rows are validated, quantities are normalized through the unit table, and
// rows naming the same item at the same store are summed into one entry.
package shopping

import (
	"dinner-planner/internal/core/units"
)

// Row is one raw input row, as it arrives from a CSV record, the API, or the
// LLM parser. Quantity and price stay strings until validation so malformed
// values can be reported with the offending text.
type Row struct {
	Dish       string `json:"dish,omitempty"`
	Ingredient string `json:"ingredient"`
	Quantity   string `json:"quantity"`
	Unit       string `json:"unit"`
	Location   string `json:"location"`
	Price      string `json:"price"`
	Purchased  string `json:"purchased"`
	Notes      string `json:"notes,omitempty"`
}

// ValidatedLine is a Row after defaulting. Rows never mutate; validation
// always produces a fresh line.
type ValidatedLine struct {
	Row        int // 1-based input row, for warning attribution
	Dish       string
	Ingredient string
	Quantity   float64
	Unit       string
	Location   string
	Price      float64
	Purchased  bool
	Notes      string
}

// NormalizedLine carries a validated line's quantity re-expressed in the base
// unit of its dimension. Conversion is a human-readable description of a
// density conversion, empty otherwise.
type NormalizedLine struct {
	ValidatedLine
	BaseQuantity  float64
	BaseUnit      string
	Dimension     units.Dimension
	CanonicalUnit string // resolved unit name, or the raw unit when unresolvable
	Conversion    string
}

// Provenance records which dish/row contributed how much to a consolidated item.
type Provenance struct {
	Dish     string  `json:"dish,omitempty"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Notes    string  `json:"notes,omitempty"`
}

// ConsolidatedItem is one summed shopping list entry.
type ConsolidatedItem struct {
	Location    string       `json:"location"`
	Ingredient  string       `json:"ingredient"`
	Quantity    float64      `json:"quantity"`
	Unit        string       `json:"unit"`
	Price       float64      `json:"price"`
	SourceLines []Provenance `json:"source_lines,omitempty"`
}

// Warning is one validation warning, attributed to a 1-based input row.
type Warning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Defaults are the values substituted for missing or invalid row fields.
type Defaults struct {
	Quantity   float64 `json:"quantity"`
	Price      float64 `json:"price"`
	Location   string  `json:"location"`
	Unit       string  `json:"unit"`
	Ingredient string  `json:"ingredient"`
}

// DefaultDefaults returns the standard defaults.
func DefaultDefaults() Defaults {
	return Defaults{
		Quantity:   1.0,
		Price:      0.0,
		Location:   "Unknown",
		Unit:       "each",
		Ingredient: "Unknown Item",
	}
}

// Config controls one consolidation run.
type Config struct {
	Defaults              Defaults
	UnitConversionEnabled bool
}

// DefaultConfig returns a Config with standard defaults and conversion enabled.
func DefaultConfig() Config {
	return Config{
		Defaults:              DefaultDefaults(),
		UnitConversionEnabled: true,
	}
}

// Result is the outcome of one consolidation run. Warnings and skip counts
// always accompany the items so callers can render a validation summary.
type Result struct {
	Items              []ConsolidatedItem `json:"items"`
	TotalRowsProcessed int                `json:"total_rows_processed"`
	RowsSkipped        int                `json:"rows_skipped"`
	Warnings           []Warning          `json:"warnings"`
	ConversionsApplied []string           `json:"conversions_applied"`
}
