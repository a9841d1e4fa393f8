package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/relief-coordinator/pkg/core/services"
)

// ListVolunteersCmd creates the listVolunteers command
func ListVolunteersCmd(app *AppContext) *cobra.Command {
	var (
		params services.FilterParams
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "listVolunteers",
		Short: "List volunteers, optionally filtered",
		Long: `List volunteers sorted by name. Role, language and availability filters are facets:
a volunteer must hold every selected value. Other filters match case-insensitively.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := params.Spec()
			if err != nil {
				return err
			}

			app.Logger.Debug("listVolunteers command", zap.Any("filter", params))

			volunteers, err := services.ListVolunteers(app.Ctx, app.Database, app.Logger, spec)
			if err != nil {
				return fmt.Errorf("failed to list volunteers: %w", err)
			}

			if asJSON {
				return writeJSON(os.Stdout, volunteers)
			}

			fmt.Printf("\nFound %d volunteers:\n\n", len(volunteers))
			for _, v := range volunteers {
				fmt.Println(volunteerLine(v))
			}
			fmt.Println()

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&params.Text, "query", "q", "", "Free-text search across name, contact, area, roles and languages")
	flags.StringVar(&params.Operation, "operation", "", "Operation name contains")
	flags.StringVar(&params.Type, "type", "", "Volunteer type (individual or team)")
	flags.StringVar(&params.Status, "status", "", "Assignment status (assigned or not_assigned)")
	flags.StringSliceVar(&params.Languages, "language", nil, "Required language (repeatable)")
	flags.StringSliceVar(&params.Roles, "role", nil, "Required role (repeatable)")
	flags.StringVar(&params.Area, "area", "", "Living area contains")
	flags.StringVar(&params.DateFrom, "date-from", "", "Earliest volunteer date (YYYY-MM-DD)")
	flags.StringSliceVar(&params.Available, "available", nil, "Required time slot: daytime or night (repeatable)")
	flags.BoolVar(&asJSON, "json", false, "Print JSON instead of a listing")

	return cmd
}
