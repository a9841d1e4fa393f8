package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/relief-coordinator/pkg/core/engine"
	"github.com/jakechorley/relief-coordinator/pkg/core/services"
)

// AssignCmd creates the assign command
func AssignCmd(app *AppContext) *cobra.Command {
	var (
		assignedBy string
		date       string
		notes      string
	)

	cmd := &cobra.Command{
		Use:   "assign <volunteer_id> <operation>",
		Short: "Assign a volunteer to an operation, given by ID or name",
		Long: `Assign a volunteer to an operation. The operation may be given by ID or by name
(case-insensitive). Assigning an assigned volunteer to a different operation reassigns them;
repeating the current assignment changes nothing.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			assignedDate, err := parseOptionalDate(date)
			if err != nil {
				return err
			}

			app.Logger.Debug("assign command",
				zap.String("volunteer_id", args[0]),
				zap.String("target", args[1]))

			result, err := services.AssignVolunteer(app.Ctx, app.Database, app.Logger, services.AssignRequest{
				VolunteerID:  args[0],
				Target:       args[1],
				AssignedBy:   assignedBy,
				AssignedDate: assignedDate,
				Notes:        notes,
			}, time.Now())
			if err != nil {
				return err
			}

			printTransition(os.Stdout, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&assignedBy, "by", os.Getenv("USER"), "Coordinator making the assignment")
	cmd.Flags().StringVar(&date, "date", "", "Assignment date (YYYY-MM-DD), defaults to now")
	cmd.Flags().StringVar(&notes, "notes", "", "Assignment notes")

	return cmd
}

// UnassignCmd creates the unassign command
func UnassignCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "unassign <volunteer_id>",
		Short: "Return a volunteer to the unassigned pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.UnassignVolunteer(app.Ctx, app.Database, app.Logger, args[0], time.Now())
			if err != nil {
				return err
			}

			printTransition(os.Stdout, result)
			return nil
		},
	}
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("date must be YYYY-MM-DD, got: %s", s)
	}
	return &t, nil
}

func printTransition(w io.Writer, result *engine.TransitionResult) {
	v := result.After
	if !result.Changed {
		fmt.Fprintf(w, "\n%sNo change:%s %s is already %s\n", colorDim, colorReset, v.FullName, v.AssignmentStatus)
	} else if v.IsAssigned() && v.OperationID == "" {
		fmt.Fprintf(w, "\n✓ %s assigned to %s\n", v.FullName, v.AssignedTo)
	} else if v.IsAssigned() {
		fmt.Fprintf(w, "\n✓ %s assigned to %s (%s)\n", v.FullName, v.OperationName, v.OperationID)
	} else {
		fmt.Fprintf(w, "\n✓ %s unassigned\n", v.FullName)
	}

	if len(result.Affected) > 0 {
		fmt.Fprintln(w)
		printCapacity(w, result.Affected)
	}
	fmt.Fprintln(w)
	printStatistics(w, result.Statistics)
	printWarnings(w, result.Warnings)
	fmt.Fprintln(w)
}
