// Package cmd - process command
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"dinner-planner/internal/core/shopping"
)

var (
	processOutput   string
	processShopping string
	processConfig   string
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process [folder]",
	Short: "Process a folder of recipe files into a unified master CSV",
	Long: `Process every recipe listed in the folder's dishes.yaml into one
unified master CSV, optionally chaining shopping list consolidation.

dishes.yaml format:
  dishes:
    "Mushroom Wellington": "wellington.txt"
    "Caesar Salad": "salad.txt"

Examples:
  mealprep process ./recipes -o ingredients.csv
  mealprep process ./recipes -o ingredients.csv --shopping-list shopping.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVarP(&processOutput, "output", "o", "", "path for the unified master CSV")
	processCmd.Flags().StringVar(&processShopping, "shopping-list", "", "also write a consolidated shopping list CSV")
	processCmd.Flags().StringVar(&processConfig, "config", "dishes.yaml", "name of the dish mapping file in the folder")
	processCmd.MarkFlagRequired("output")
}

// dishEntry is one dish → recipe file pair, in document order.
type dishEntry struct {
	Name string
	File string
}

func runProcess(cmd *cobra.Command, args []string) error {
	folder := args[0]
	info, err := os.Stat(folder)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("'%s' is not a directory", folder)
	}

	dishes, err := loadDishConfig(filepath.Join(folder, processConfig))
	if err != nil {
		return err
	}
	if len(dishes) == 0 {
		return fmt.Errorf("no dishes defined in %s", processConfig)
	}
	fmt.Printf("Found %d dishes in config\n", len(dishes))

	svc, closeSvc, err := newParserService()
	if err != nil {
		return err
	}
	defer closeSvc()

	var allRows []shopping.Row
	for _, dish := range dishes {
		recipePath := filepath.Join(folder, dish.File)
		text, err := os.ReadFile(recipePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  Warning: recipe file not found: '%s'\n", recipePath)
			continue
		}

		fmt.Printf("Processing '%s' from %s...\n", dish.Name, dish.File)
		parsed, err := svc.Parse(context.Background(), string(text), nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  Warning: failed to parse '%s': %v\n", dish.Name, err)
			continue
		}

		rows := rowsFromParsed(dish.Name, parsed)
		allRows = append(allRows, rows...)
		fmt.Printf("  Found %d ingredients\n", len(rows))
	}

	if err := writeMasterFile(processOutput, allRows); err != nil {
		return err
	}
	fmt.Printf("\nWrote %d total ingredients to %s\n", len(allRows), processOutput)

	if processShopping != "" {
		fmt.Println("\nGenerating shopping list...")
		if err := consolidateToFile(allRows, processShopping); err != nil {
			return err
		}
	}
	return nil
}

// loadDishConfig reads the dish mapping, preserving document order so the
// unified CSV lists dishes the way the file does. A plain map would
// shuffle them.
func loadDishConfig(path string) ([]dishEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config file not found at '%s'", path)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s must be a mapping with a 'dishes' key", filepath.Base(path))
	}

	root := doc.Content[0]
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "dishes" {
			continue
		}
		mapping := root.Content[i+1]
		if mapping.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("'dishes' must be a mapping of dish name to recipe file")
		}
		entries := make([]dishEntry, 0, len(mapping.Content)/2)
		for j := 0; j+1 < len(mapping.Content); j += 2 {
			entries = append(entries, dishEntry{
				Name: mapping.Content[j].Value,
				File: mapping.Content[j+1].Value,
			})
		}
		return entries, nil
	}
	return nil, nil
}
