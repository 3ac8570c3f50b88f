package shopping

import (
	"fmt"
	"strconv"
	"strings"
)

// Validator turns raw rows into validated lines, substituting defaults for
// missing or malformed fields and collecting warnings by row number. Rows
// without an ingredient name never reach the Validator; every row it sees is
// worth keeping, however messy its fields.
type Validator struct {
	defaults Defaults
}

// NewValidator builds a Validator with the given defaults.
func NewValidator(defaults Defaults) *Validator {
	return &Validator{defaults: defaults}
}

// Validate processes rows in order. The returned warnings use 1-based row
// numbers matching the input slice.
func (v *Validator) Validate(rows []Row) ([]ValidatedLine, []Warning) {
	lines := make([]ValidatedLine, 0, len(rows))
	var warnings []Warning

	for i, row := range rows {
		rowNum := i + 1
		warn := func(format string, args ...any) {
			warnings = append(warnings, Warning{Row: rowNum, Message: fmt.Sprintf(format, args...)})
		}

		line := ValidatedLine{
			Row:        rowNum,
			Dish:       strings.TrimSpace(row.Dish),
			Ingredient: strings.TrimSpace(row.Ingredient),
			Notes:      strings.TrimSpace(row.Notes),
		}

		line.Quantity = v.parseQuantity(row.Quantity, warn)
		line.Price = v.parsePrice(row.Price, warn)

		line.Unit = strings.TrimSpace(row.Unit)
		if line.Unit == "" {
			line.Unit = v.defaults.Unit
			warn("missing unit, using %q", v.defaults.Unit)
		}

		line.Location = strings.TrimSpace(row.Location)
		if line.Location == "" {
			line.Location = v.defaults.Location
			warn("missing location, using %q", v.defaults.Location)
		}

		line.Purchased = parsePurchased(row.Purchased)

		lines = append(lines, line)
	}
	return lines, warnings
}

func (v *Validator) parseQuantity(raw string, warn func(string, ...any)) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		warn("missing quantity, using %g", v.defaults.Quantity)
		return v.defaults.Quantity
	}
	qty, err := strconv.ParseFloat(s, 64)
	if err != nil {
		warn("invalid quantity %q, using %g", raw, v.defaults.Quantity)
		return v.defaults.Quantity
	}
	if qty < 0 {
		warn("negative quantity %g, using %g", qty, v.defaults.Quantity)
		return v.defaults.Quantity
	}
	return qty
}

func (v *Validator) parsePrice(raw string, warn func(string, ...any)) float64 {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return v.defaults.Price
	}
	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		warn("invalid price %q, using %g", raw, v.defaults.Price)
		return v.defaults.Price
	}
	if price < 0 {
		warn("negative price %g, using %g", price, v.defaults.Price)
		return v.defaults.Price
	}
	return price
}

// parsePurchased accepts the spellings that show up in hand-edited sheets.
func parsePurchased(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "y", "x", "1", "done":
		return true
	default:
		return false
	}
}
