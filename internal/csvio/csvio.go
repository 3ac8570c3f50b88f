// Package csvio reads and writes the two CSV formats of the offline
// workflow: the 8-column master ingredient list and the 5-column
// consolidated shopping list.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"dinner-planner/internal/core/shopping"
)

// MasterHeader is the column order of the master ingredient CSV.
var MasterHeader = []string{"Dish", "Ingredient", "Qty", "Units", "Location", "Done?", "Price", "Notes"}

// ShoppingHeader is the column order of the consolidated shopping list CSV.
var ShoppingHeader = []string{"Location", "Ingredient", "Qty", "Units", "Price"}

// ReadMaster parses a master ingredient CSV into rows. Columns are matched
// by header name so column order does not matter; unknown columns are
// ignored.
func ReadMaster(r io.Reader) ([]shopping.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV is empty")
	}

	index := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"ingredient"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("CSV is missing required column %q", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	rows := make([]shopping.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		if isEmptyRecord(record) {
			continue
		}
		rows = append(rows, shopping.Row{
			Dish:       field(record, "dish"),
			Ingredient: field(record, "ingredient"),
			Quantity:   field(record, "qty"),
			Unit:       field(record, "units"),
			Location:   field(record, "location"),
			Purchased:  field(record, "done?"),
			Price:      field(record, "price"),
			Notes:      field(record, "notes"),
		})
	}
	return rows, nil
}

// WriteMaster writes rows in the master CSV format.
func WriteMaster(w io.Writer, rows []shopping.Row) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(MasterHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		purchased := row.Purchased
		if purchased == "" {
			purchased = "False"
		}
		record := []string{
			row.Dish,
			row.Ingredient,
			row.Quantity,
			row.Unit,
			row.Location,
			purchased,
			row.Price,
			row.Notes,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteShopping writes consolidated items in the shopping list CSV format.
func WriteShopping(w io.Writer, items []shopping.ConsolidatedItem) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ShoppingHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, item := range items {
		record := []string{
			item.Location,
			item.Ingredient,
			formatFloat(item.Quantity),
			item.Unit,
			formatFloat(item.Price),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write item: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func isEmptyRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
