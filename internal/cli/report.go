package cli

import (
	"context"

	"github.com/spf13/cobra"

	"salesboard/domain/core"
	"salesboard/internal/dashboard"
	"salesboard/internal/report"
)

var (
	reportCountries  []string
	reportCategories []string
	reportTopN       int
	reportPalette    string
	reportColor      bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the sales story to the terminal",
	Long: `Report runs the dashboard pipeline once and prints the three insights and
the filtered rows. Without --country or --category the dashboard defaults apply:
the first three countries and the first two categories in the data. Giving only
one of the two lists selects every value of the other.

Example:
  salesboard report --country Mexico --country Brazil --category Technology --top-n 20`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringSliceVar(&reportCountries, "country", nil, "Countries to include (repeatable)")
	reportCmd.Flags().StringSliceVar(&reportCategories, "category", nil, "Categories to include (repeatable)")
	reportCmd.Flags().IntVar(&reportTopN, "top-n", 0, "Number of highest sales rows to keep (5-50)")
	reportCmd.Flags().StringVar(&reportPalette, "palette", "", "Color scheme recorded with the run")
	reportCmd.Flags().BoolVar(&reportColor, "color", true, "Color the headings")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap(true)
	if err != nil {
		return err
	}
	defer rt.Close()

	snap, err := rt.service.Load(context.Background())
	if err != nil {
		return err
	}

	req := dashboard.Selection{
		Countries:  reportCountries,
		Categories: reportCategories,
		TopN:       reportTopN,
		Palette:    reportPalette,
		Explicit:   cmd.Flags().Changed("country") || cmd.Flags().Changed("category"),
	}
	if req.Explicit {
		// a list left off the command line means every value on offer
		if !cmd.Flags().Changed("country") {
			req.Countries = snap.Rows.Countries()
		}
		if !cmd.Flags().Changed("category") {
			req.Categories = dashboard.FilterCountries(snap.Rows, req.Countries).Categories()
		}
	}

	d, err := rt.service.RunLoaded(core.NewRunID(), snap, req)
	if err != nil {
		return err
	}

	return report.NewPrinter(cmd.OutOrStdout(), reportColor).Print(report.Input{
		Source:    d.Source,
		TotalRows: d.TotalRows,
		Selection: d.Selection,
		Rows:      d.Rows,
		Insights:  d.Insights,
	})
}
