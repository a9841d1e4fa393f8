package engine

import (
	"github.com/jakechorley/relief-coordinator/pkg/core/model"
)

// Report is the capacity picture for every operation in one snapshot
type Report struct {
	Capacity []model.CapacitySnapshot `json:"capacity"`
	Warnings []Warning                `json:"warnings,omitempty"`
}

// CapacityUnits is the capacity one volunteer record contributes:
// members for a team (missing members count as 1), 1 for an individual
func CapacityUnits(v model.Volunteer) int {
	if v.VolunteerType != model.VolunteerTypeTeam {
		return 1
	}
	if v.Members < 1 {
		return 1
	}
	return v.Members
}

// Needed returns the operation's target capacity, treating invalid values as 0
func Needed(op model.Operation) int {
	if op.VolunteerCountNeeded < 0 {
		return 0
	}
	return op.VolunteerCountNeeded
}

// AccountFor computes needed/filled/remaining for one operation.
// Remaining is not clamped: a negative value means the operation is over-assigned.
// m must be built from the full operation list so that a volunteer linked to a
// different operation is never credited here; a nil m matches nothing.
func AccountFor(op model.Operation, volunteers []model.Volunteer, m *Matcher) model.CapacitySnapshot {
	if m == nil {
		return snapshotFor(op, 0)
	}

	filled := 0
	for _, v := range volunteers {
		if !v.IsAssigned() {
			continue
		}
		res := m.Match(v)
		if res.Operation == nil || res.Operation.ID != op.ID {
			continue
		}
		filled += CapacityUnits(v)
	}

	return snapshotFor(op, filled)
}

// AccountAll computes a capacity snapshot for every operation, sorted by operation ID,
// together with the data-quality warnings found while matching
func AccountAll(volunteers []model.Volunteer, operations []model.Operation) Report {
	m := NewMatcher(operations)

	filled := make(map[string]int)
	var warnings []Warning
	for _, v := range volunteers {
		res := m.Match(v)
		warnings = append(warnings, res.Warnings...)
		if res.Operation == nil || !v.IsAssigned() {
			continue
		}
		filled[res.Operation.ID] += CapacityUnits(v)
	}

	ops := m.Operations()
	report := Report{Capacity: make([]model.CapacitySnapshot, 0, len(ops))}
	for _, op := range ops {
		snap := snapshotFor(op, filled[op.ID])
		if snap.OverAssigned() {
			warnings = append(warnings, overAssignedWarning(op.ID, snap.Needed, snap.Filled))
		}
		report.Capacity = append(report.Capacity, snap)
	}
	report.Warnings = warnings

	return report
}

func snapshotFor(op model.Operation, filled int) model.CapacitySnapshot {
	needed := Needed(op)
	return model.CapacitySnapshot{
		OperationID:   op.ID,
		OperationName: op.Name,
		Needed:        needed,
		Filled:        filled,
		Remaining:     needed - filled,
	}
}
