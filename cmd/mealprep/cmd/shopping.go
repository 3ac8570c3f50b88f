// Package cmd - shopping command
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dinner-planner/internal/core/shopping"
	"dinner-planner/internal/core/units"
	"dinner-planner/internal/csvio"
)

var shoppingOutput string

// shoppingCmd represents the shopping command
var shoppingCmd = &cobra.Command{
	Use:   "shopping [master-csv]",
	Short: "Consolidate a master CSV into a shopping list",
	Long: `Consolidate a master ingredient CSV into a shopping list grouped by
store and ingredient, with unit conversion. Rows marked done are skipped.

Examples:
  mealprep shopping ingredients.csv -o shopping.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runShopping,
}

func init() {
	shoppingCmd.Flags().StringVarP(&shoppingOutput, "output", "o", "", "path for the consolidated shopping list CSV")
	shoppingCmd.MarkFlagRequired("output")
}

func runShopping(cmd *cobra.Command, args []string) error {
	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	rows, err := csvio.ReadMaster(file)
	if err != nil {
		return err
	}

	if err := consolidateToFile(rows, shoppingOutput); err != nil {
		return err
	}
	return nil
}

// consolidateToFile runs the consolidator over the rows and writes the
// shopping list CSV, reporting warnings on stderr.
func consolidateToFile(rows []shopping.Row, outputPath string) error {
	result := shopping.Consolidate(rows, units.DefaultTable(), consolidationConfig())

	for _, warning := range result.Warnings {
		fmt.Fprintf(os.Stderr, "  Warning: row %d: %s\n", warning.Row, warning.Message)
	}
	if verbose {
		for _, conv := range result.ConversionsApplied {
			fmt.Printf("  Converted: %s\n", conv)
		}
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()
	if err := csvio.WriteShopping(out, result.Items); err != nil {
		return fmt.Errorf("failed to write shopping list: %w", err)
	}

	fmt.Printf("Wrote %d items to %s (%d rows processed, %d skipped)\n",
		len(result.Items), outputPath, result.TotalRowsProcessed, result.RowsSkipped)
	return nil
}

func consolidationConfig() shopping.Config {
	return shopping.Config{
		Defaults: shopping.Defaults{
			Quantity:   cfg.Shopping.DefaultQuantity,
			Price:      cfg.Shopping.DefaultPrice,
			Location:   cfg.Shopping.DefaultLocation,
			Unit:       cfg.Shopping.DefaultUnit,
			Ingredient: cfg.Shopping.DefaultIngredient,
		},
		UnitConversionEnabled: cfg.Shopping.UnitConversion,
	}
}
