package engine

import (
	"github.com/jakechorley/relief-coordinator/pkg/core/model"
)

// Summarize counts assigned and unassigned volunteers.
// Assignment is read from AssignmentStatus only; a linked OperationID does not imply assigned.
func Summarize(volunteers []model.Volunteer) model.Statistics {
	stats := model.Statistics{Total: len(volunteers)}

	for _, v := range volunteers {
		if v.VolunteerType == model.VolunteerTypeTeam {
			stats.Teams++
		} else {
			stats.Individuals++
		}
		if v.IsAssigned() {
			stats.Assigned++
			stats.AssignedUnits += CapacityUnits(v)
		}
	}

	stats.Unassigned = stats.Total - stats.Assigned
	stats.AssignedPercentage = percentage(stats.Assigned, stats.Total)

	return stats
}

// percentage returns round(100*part/total) with ties rounded up, and 0 when total is 0
func percentage(part, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*part + total) / (2 * total)
}
