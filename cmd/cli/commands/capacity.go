package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jakechorley/relief-coordinator/pkg/core/services"
)

// CapacityCmd creates the capacity command
func CapacityCmd(app *AppContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "capacity",
		Short: "Show needed, filled and remaining capacity for every operation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := services.CapacityReport(app.Ctx, app.Database, app.Logger)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(os.Stdout, report)
			}

			fmt.Printf("\nCapacity for %d operations\n\n", len(report.Capacity))
			printCapacity(os.Stdout, report.Capacity)
			printWarnings(os.Stdout, report.Warnings)

			fmt.Println()
			fmt.Println("Legend:")
			fmt.Printf("  %sRemaining%s = filled\n", colorGreen, colorReset)
			fmt.Printf("  %sRemaining%s = partly filled\n", colorYellow, colorReset)
			fmt.Printf("  %sRemaining%s = a quarter filled or less, or over-assigned\n", colorRed, colorReset)

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")

	return cmd
}

// StatsCmd creates the stats command
func StatsCmd(app *AppContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show assignment statistics across all volunteers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := services.Statistics(app.Ctx, app.Database, app.Logger)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(os.Stdout, stats)
			}

			fmt.Println()
			printStatistics(os.Stdout, stats)
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	return cmd
}
