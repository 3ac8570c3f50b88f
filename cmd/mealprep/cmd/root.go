// Package cmd provides the CLI commands for mealprep, the offline meal
// planning workflow: parse ingredient text, process recipe folders, and
// consolidate shopping lists without running the API server.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dinner-planner/internal/infrastructure/config"
	"dinner-planner/internal/pkg/common"
)

var (
	verbose bool
	cfg     *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "mealprep",
	Short: "Offline meal planning: parse recipes and build shopping lists",
	Long: `mealprep turns natural language ingredient lists into structured CSVs
and consolidates them into a shopping list, without the API server.

Examples:
  mealprep parse "2 lbs tomatoes, 1 head garlic" -d "Pasta" -o pasta.csv
  echo "salt to taste" | mealprep parse - -d "Soup" -o soup.csv
  mealprep process ./recipes -o ingredients.csv --shopping-list shopping.csv
  mealprep shopping ingredients.csv -o shopping.csv`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(shoppingCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	loaded, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg = loaded

	logLevel := cfg.LogLevel
	if verbose {
		logLevel = "debug"
	}
	if err := common.InitLogger(logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("mealprep version 0.1.0")
	},
}
