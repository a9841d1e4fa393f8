package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jakechorley/relief-coordinator/pkg/core/services"
)

// ReportCmd creates the report command
func ReportCmd(app *AppContext) *cobra.Command {
	var (
		next   int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a capacity and assignment report with the next scheduled report times",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if next < 0 {
				return fmt.Errorf("next must not be negative, got: %d", next)
			}

			overview, err := services.BuildOverview(app.Ctx, app.Database, app.Logger, app.Cfg.ReportSchedule, next, time.Now())
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(os.Stdout, overview)
			}

			fmt.Printf("\nRelief report - %s\n\n", overview.GeneratedAt.Format("Mon 02 Jan 2006 15:04"))
			printStatistics(os.Stdout, overview.Statistics)
			fmt.Println()
			printCapacity(os.Stdout, overview.Capacity)
			printWarnings(os.Stdout, overview.Warnings)

			if len(overview.NextReports) > 0 {
				fmt.Printf("\nNext reports:\n")
				for i, t := range overview.NextReports {
					fmt.Printf("  %2d. %s\n", i+1, t.Format("2006-01-02 15:04 (Monday)"))
				}
			} else if app.Cfg.ReportSchedule == "" {
				fmt.Printf("\n%sNo reportSchedule configured%s\n", colorDim, colorReset)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().IntVar(&next, "next", 3, "Number of upcoming scheduled report times to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	return cmd
}
