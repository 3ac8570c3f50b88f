// Package cmd - parse command
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"dinner-planner/internal/core/parser"
	"dinner-planner/internal/core/parser/cache"
	"dinner-planner/internal/core/shopping"
	"dinner-planner/internal/core/units"
	"dinner-planner/internal/csvio"
)

var (
	parseDish   string
	parseOutput string
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse [input]",
	Short: "Parse natural language ingredients into a master CSV",
	Long: `Parse a natural language ingredient list into the structured master CSV.

The input can be a literal string, a path to a .txt file, or '-' for stdin.

Examples:
  mealprep parse "2 lbs tomatoes, 1 head garlic" -d "Pasta" -o pasta.csv
  mealprep parse wellington.txt -d "Wellington" -o wellington.csv
  echo "salt to taste" | mealprep parse - -d "Soup" -o soup.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseDish, "dish", "d", "", "name of the dish these ingredients are for")
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "", "path for the master CSV")
	parseCmd.MarkFlagRequired("dish")
	parseCmd.MarkFlagRequired("output")
}

func runParse(cmd *cobra.Command, args []string) error {
	input, err := readInput(args[0])
	if err != nil {
		return err
	}
	if input == "" {
		return fmt.Errorf("no input provided")
	}

	svc, closeSvc, err := newParserService()
	if err != nil {
		return err
	}
	defer closeSvc()

	fmt.Printf("Parsing ingredients for '%s'...\n", parseDish)
	parsed, err := svc.Parse(context.Background(), input, nil)
	if err != nil {
		return fmt.Errorf("failed to parse ingredients: %w", err)
	}

	rows := rowsFromParsed(parseDish, parsed)
	if err := writeMasterFile(parseOutput, rows); err != nil {
		return err
	}

	fmt.Printf("Wrote %d ingredients to %s\n", len(rows), parseOutput)
	return nil
}

// readInput resolves the input argument: '-' reads stdin, a .txt path reads
// the file, anything else is the literal text.
func readInput(arg string) (string, error) {
	switch {
	case arg == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	case strings.HasSuffix(arg, ".txt"):
		data, err := os.ReadFile(arg)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	default:
		return strings.TrimSpace(arg), nil
	}
}

func newParserService() (*parser.Service, func(), error) {
	cacheStore, err := cache.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	svc := parser.NewService(cfg, parser.NewClient(cfg), cacheStore, units.DefaultTable())
	closeFn := func() {
		if cacheStore != nil {
			cacheStore.Close()
		}
	}
	return svc, closeFn, nil
}

// rowsFromParsed converts parsed ingredients into master CSV rows. Location
// and price stay blank for manual entry.
func rowsFromParsed(dish string, parsed []parser.ParsedIngredient) []shopping.Row {
	rows := make([]shopping.Row, 0, len(parsed))
	for _, ing := range parsed {
		row := shopping.Row{
			Dish:       dish,
			Ingredient: ing.Name,
			Unit:       ing.Unit,
			Purchased:  "False",
			Notes:      ing.Notes,
		}
		if ing.Quantity != nil {
			row.Quantity = strconv.FormatFloat(*ing.Quantity, 'f', -1, 64)
		}
		rows = append(rows, row)
	}
	return rows
}

func writeMasterFile(path string, rows []shopping.Row) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()
	if err := csvio.WriteMaster(file, rows); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}
