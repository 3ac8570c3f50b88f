package shopping

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"dinner-planner/internal/core/units"
)

// groupKey identifies one consolidated entry. The base unit is part of the
// key so count-like units with different spellings ("each" vs "head") never
// merge, while volume and weight lines collapse onto their shared base.
type groupKey struct {
	location  string
	name      string
	dimension units.Dimension
	unit      string
}

type group struct {
	key          groupKey
	displayName  string
	displayUnit  string
	displayOK    bool    // display unit resolves in the table
	displayToOne float64 // base quantity per one display unit
	baseQuantity float64
	price        decimal.Decimal
	lines        []NormalizedLine
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// canonicalName normalizes an ingredient name for matching: trimmed,
// lowercased, inner whitespace collapsed.
func canonicalName(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), " ")
}

// Consolidate validates, normalizes, and merges rows into one shopping list.
// Rows without an ingredient name are dropped before validation and counted
// in RowsSkipped, with no further warnings about their other fields.
// Purchased rows are still validated so their warnings surface, but they do
// not appear in the output. Output items are sorted by location then
// ingredient so repeated runs over the same input produce identical results.
func Consolidate(rows []Row, table *units.Table, cfg Config) Result {
	result := Result{
		Items:              []ConsolidatedItem{},
		Warnings:           []Warning{},
		ConversionsApplied: []string{},
	}

	kept := make([]Row, 0, len(rows))
	keptRowNums := make([]int, 0, len(rows))
	for i, row := range rows {
		if strings.TrimSpace(row.Ingredient) == "" {
			result.RowsSkipped++
			continue
		}
		kept = append(kept, row)
		keptRowNums = append(keptRowNums, i+1)
	}
	// Every row seen counts as processed, skipped ones included.
	result.TotalRowsProcessed = len(rows)

	validator := NewValidator(cfg.Defaults)
	lines, warnings := validator.Validate(kept)
	// Validation numbers rows within the kept slice; map back to input rows.
	for i := range lines {
		lines[i].Row = keptRowNums[lines[i].Row-1]
	}
	for _, w := range warnings {
		w.Row = keptRowNums[w.Row-1]
		result.Warnings = append(result.Warnings, w)
	}

	normalizer := NewNormalizer(table, cfg)
	normalized := normalizer.Normalize(lines)

	groups := make(map[groupKey]*group)
	var order []groupKey
	for _, nl := range normalized {
		if nl.Purchased {
			continue
		}
		key := groupKey{
			location:  nl.Location,
			name:      canonicalName(nl.Ingredient),
			dimension: nl.Dimension,
			unit:      nl.BaseUnit,
		}
		g, ok := groups[key]
		if !ok {
			g = newGroup(key, nl, table)
			groups[key] = g
			order = append(order, key)
		}
		g.baseQuantity += nl.BaseQuantity
		g.price = g.price.Add(decimal.NewFromFloat(nl.Price))
		g.lines = append(g.lines, nl)
	}

	seen := make(map[string]bool)
	addConversion := func(desc string) {
		if desc == "" || seen[desc] {
			return
		}
		seen[desc] = true
		result.ConversionsApplied = append(result.ConversionsApplied, desc)
	}

	for _, key := range order {
		g := groups[key]
		item := ConsolidatedItem{
			Location:   g.key.location,
			Ingredient: g.displayName,
			Unit:       g.displayUnit,
			Quantity:   g.baseQuantity / g.displayToOne,
			Price:      priceToFloat(g.price),
		}
		for _, nl := range g.lines {
			item.SourceLines = append(item.SourceLines, Provenance{
				Dish:     nl.Dish,
				Quantity: nl.Quantity,
				Unit:     nl.ValidatedLine.Unit,
				Notes:    nl.Notes,
			})
			addConversion(nl.Conversion)
			if nl.Conversion == "" && nl.CanonicalUnit != g.displayUnit {
				addConversion(fmt.Sprintf("%s: %s %s converted to %s",
					nl.Ingredient, formatQuantity(nl.Quantity), nl.CanonicalUnit, g.displayUnit))
			}
		}
		result.Items = append(result.Items, item)
	}

	sort.SliceStable(result.Items, func(i, j int) bool {
		a, b := result.Items[i], result.Items[j]
		if a.Location != b.Location {
			return a.Location < b.Location
		}
		return strings.ToLower(a.Ingredient) < strings.ToLower(b.Ingredient)
	})
	return result
}

// newGroup fixes the group's display name and unit from its first line.
// A density-converted first line displays in ounces since the original
// volume unit no longer applies to a weight total.
func newGroup(key groupKey, first NormalizedLine, table *units.Table) *group {
	g := &group{
		key:          key,
		displayName:  strings.TrimSpace(first.Ingredient),
		displayToOne: 1,
	}
	switch {
	case first.Conversion != "":
		g.displayUnit = units.BaseUnit(units.Weight)
		g.displayOK = true
	default:
		g.displayUnit = first.CanonicalUnit
		if def, ok := table.Resolve(first.CanonicalUnit); ok && def.Dimension == first.Dimension {
			g.displayOK = true
			g.displayToOne = def.FactorToBase
		}
	}
	return g
}

func priceToFloat(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
