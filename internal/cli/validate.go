package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"salesboard/internal/errors"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and the dataset columns",
	Long: `Validate loads the configuration and the dataset once and checks that the
dataset carries the required columns.

Checks performed:
  - Configuration syntax and required fields
  - Data source reachability
  - Required columns: Country, Category, Sales, Discount
  - Numeric Sales and Discount values

Example:
  salesboard validate --source ./superstore.csv`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap(true)
	if err != nil {
		return err
	}
	defer rt.Close()

	res, err := rt.service.Validate(context.Background())
	if err != nil {
		return err
	}

	cmd.Printf("\n=== Dataset Validation ===\n")
	cmd.Printf("Source:  %s\n", res.Source)
	cmd.Printf("Hash:    %s\n", res.Dataset.Short())
	cmd.Printf("Rows:    %d\n", res.Rows)
	cmd.Printf("Columns: %s\n", strings.Join(res.Columns, ", "))

	if !res.Valid() {
		cmd.Printf("Missing: %s\n", strings.Join(res.Missing, ", "))
		return errors.MissingColumns(res.Missing)
	}

	cmd.Printf("Countries:  %d\n", res.Countries)
	cmd.Printf("Categories: %d\n", res.Categories)

	for _, p := range res.Profiles {
		cmd.Printf("\n%s: mean %.2f, median %.2f, min %.2f, max %.2f, skew %.2f, %d outliers\n",
			p.Name, p.Summary.Mean, p.Summary.Median, p.Summary.Min, p.Summary.Max, p.Skewness, p.Outliers)
	}
	cmd.Printf("\n✓ Dataset is valid\n")
	return nil
}
