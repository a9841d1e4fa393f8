package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jakechorley/relief-coordinator/pkg/core/engine"
	"github.com/jakechorley/relief-coordinator/pkg/core/model"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// capacityColor picks green once an operation is filled, red while it is at most
// a quarter filled and yellow in between. Over-assignment is also red.
func capacityColor(s model.CapacitySnapshot, green, yellow, red string) string {
	switch {
	case s.OverAssigned():
		return red
	case s.Remaining == 0:
		return green
	case s.Filled*4 <= s.Needed:
		return red
	default:
		return yellow
	}
}

func printCapacity(w io.Writer, capacity []model.CapacitySnapshot) {
	nameColWidth := 24
	for _, s := range capacity {
		if len(s.OperationName)+2 > nameColWidth {
			nameColWidth = len(s.OperationName) + 2
		}
	}

	fmt.Fprintf(w, "%-12s%-*s%8s%8s%11s\n", "ID", nameColWidth, "Operation", "Needed", "Filled", "Remaining")
	fmt.Fprintln(w, strings.Repeat("-", 12+nameColWidth+27))
	for _, s := range capacity {
		color := capacityColor(s, colorGreen, colorYellow, colorRed)
		fmt.Fprintf(w, "%-12s%-*s%8d%8d%s%11d%s\n",
			s.OperationID, nameColWidth, s.OperationName, s.Needed, s.Filled, color, s.Remaining, colorReset)
	}
}

func printStatistics(w io.Writer, stats model.Statistics) {
	fmt.Fprintf(w, "Volunteers:  %d (%d individuals, %d teams)\n", stats.Total, stats.Individuals, stats.Teams)
	fmt.Fprintf(w, "Assigned:    %d (%d%%), %d capacity units\n", stats.Assigned, stats.AssignedPercentage, stats.AssignedUnits)
	fmt.Fprintf(w, "Unassigned:  %d\n", stats.Unassigned)
}

func printWarnings(w io.Writer, warnings []engine.Warning) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s⚠️  %d data warnings:%s\n", colorYellow, len(warnings), colorReset)
	for _, warning := range warnings {
		fmt.Fprintf(w, "  - %s\n", warning)
	}
}

// volunteerLine formats one volunteer for listings
func volunteerLine(v model.Volunteer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- %s (%s) - %s", v.FullName, v.ID, v.VolunteerType.Label())
	if v.VolunteerType == model.VolunteerTypeTeam {
		fmt.Fprintf(&b, " of %d", v.Members)
	}

	if v.IsAssigned() {
		target := v.OperationName
		if target == "" {
			target = v.AssignedTo
		}
		fmt.Fprintf(&b, " - assigned to %s", target)
	} else {
		b.WriteString(" - unassigned")
	}

	if len(v.Roles) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(v.Roles, ", "))
	}
	if v.LivingArea != "" {
		fmt.Fprintf(&b, " (%s)", v.LivingArea)
	}
	return b.String()
}
