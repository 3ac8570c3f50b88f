package shopping

import (
	"fmt"
	"strings"

	"dinner-planner/internal/core/units"
)

// Normalizer re-expresses validated lines in the base unit of their
// dimension so lines measured in different units become comparable.
// Ingredients with a density override additionally cross from volume to
// weight, which is what lets "2 cups sugar" merge with "1 lb sugar".
type Normalizer struct {
	table *units.Table
	cfg   Config
}

// NewNormalizer builds a Normalizer over the given unit table.
func NewNormalizer(table *units.Table, cfg Config) *Normalizer {
	return &Normalizer{table: table, cfg: cfg}
}

// Normalize converts each line independently. It never drops lines and
// never warns: an unrecognized unit simply stays in its own bucket.
func (n *Normalizer) Normalize(lines []ValidatedLine) []NormalizedLine {
	out := make([]NormalizedLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, n.normalizeLine(line))
	}
	return out
}

func (n *Normalizer) normalizeLine(line ValidatedLine) NormalizedLine {
	if line.Quantity == 0 {
		line.Quantity = n.cfg.Defaults.Quantity
	}

	nl := NormalizedLine{ValidatedLine: line}

	rawUnit := strings.TrimSpace(line.Unit)
	if !n.cfg.UnitConversionEnabled {
		nl.BaseQuantity = line.Quantity
		nl.BaseUnit = rawUnit
		nl.CanonicalUnit = rawUnit
		nl.Dimension = units.Count
		return nl
	}

	def, ok := n.table.Resolve(rawUnit)
	if !ok {
		// Opaque unit. Keep it verbatim so identical spellings still merge.
		nl.BaseQuantity = line.Quantity
		nl.BaseUnit = rawUnit
		nl.CanonicalUnit = rawUnit
		nl.Dimension = units.Count
		return nl
	}

	nl.CanonicalUnit = def.Name

	if def.Dimension == units.Volume {
		if ov, found := n.table.ResolveDensity(line.Ingredient); found {
			oz := ov.OuncesFromVolume(line.Quantity, def)
			nl.BaseQuantity = oz
			nl.BaseUnit = units.BaseUnit(units.Weight)
			nl.Dimension = units.Weight
			nl.Conversion = fmt.Sprintf("%s: %s %s converted to %s oz by density",
				line.Ingredient, formatQuantity(line.Quantity), def.Name, formatQuantity(oz))
			return nl
		}
	}

	nl.BaseQuantity = line.Quantity * def.FactorToBase
	nl.BaseUnit = units.BaseUnit(def.Dimension)
	nl.Dimension = def.Dimension
	return nl
}

// formatQuantity trims trailing zeros so summaries read "2" and "14.1"
// rather than "2.00" and "14.10".
func formatQuantity(q float64) string {
	s := fmt.Sprintf("%.2f", q)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
