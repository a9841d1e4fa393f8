package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/jakechorley/relief-coordinator/pkg/core/model"
)

// Snapshot is one authoritative view of the records an engine call works on
type Snapshot struct {
	Volunteers []model.Volunteer
	Operations []model.Operation
}

// Command requests an assignment transition for one volunteer
type Command struct {
	VolunteerID string
	TargetState model.AssignmentStatus
	// AssignedTo is the free-text target: an operation ID or name
	AssignedTo string
	AssignedBy string
	// AssignedDate defaults to now when nil
	AssignedDate *time.Time
	Notes        string
}

// TransitionResult carries the new volunteer state and everything recomputed from
// the post-transition snapshot
type TransitionResult struct {
	Before  model.Volunteer
	After   model.Volunteer
	Changed bool

	// Previous and Current are the matched operations before and after the transition
	Previous *model.Operation
	Current  *model.Operation

	// Affected holds capacity for Previous and Current (deduplicated, sorted by ID)
	Affected   []model.CapacitySnapshot
	Statistics model.Statistics

	// Snapshot is the post-transition snapshot the outputs above were computed from
	Snapshot Snapshot
	Warnings []Warning
}

// ApplyTransition moves a volunteer between not_assigned and assigned. It is pure: the input
// snapshot is not modified, so callers may apply it optimistically and reconcile later.
//
// A repeated transition (assigned to the same target, or unassigning an unassigned
// volunteer) is a no-op success. Assigning an assigned volunteer to a different target
// is a reassignment in one step.
func ApplyTransition(snapshot Snapshot, cmd Command, now time.Time) (*TransitionResult, error) {
	if !cmd.TargetState.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidState, cmd.TargetState)
	}

	idx := -1
	for i, v := range snapshot.Volunteers {
		if v.ID == cmd.VolunteerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrVolunteerNotFound, cmd.VolunteerID)
	}

	m := NewMatcher(snapshot.Operations)
	before := snapshot.Volunteers[idx].Clone()
	previous := m.Match(before)

	var (
		after    model.Volunteer
		changed  bool
		warnings []Warning
		err      error
	)
	switch cmd.TargetState {
	case model.StatusAssigned:
		after, changed, warnings, err = assign(before, previous, cmd, m, now)
	case model.StatusNotAssigned:
		after, changed = unassign(before)
	}
	if err != nil {
		return nil, err
	}

	volunteers := make([]model.Volunteer, len(snapshot.Volunteers))
	copy(volunteers, snapshot.Volunteers)
	volunteers[idx] = after

	current := m.Match(after)
	warnings = append(warnings, current.Warnings...)

	result := &TransitionResult{
		Before:     before,
		After:      after,
		Changed:    changed,
		Previous:   previous.Operation,
		Current:    current.Operation,
		Statistics: Summarize(volunteers),
		Snapshot: Snapshot{
			Volunteers: volunteers,
			Operations: m.Operations(),
		},
	}

	for _, op := range affectedOperations(previous.Operation, current.Operation) {
		snap := AccountFor(op, volunteers, m)
		if snap.OverAssigned() {
			warnings = append(warnings, overAssignedWarning(op.ID, snap.Needed, snap.Filled))
		}
		result.Affected = append(result.Affected, snap)
	}
	result.Warnings = warnings

	return result, nil
}

func assign(before model.Volunteer, previous MatchResult, cmd Command, m *Matcher, now time.Time) (model.Volunteer, bool, []Warning, error) {
	target := strings.TrimSpace(cmd.AssignedTo)
	if target == "" {
		return before, false, nil, model.NewValidationError("assignedTo", "is required when assigning a volunteer")
	}

	op, warnings := m.Resolve(before.ID, target)

	if before.IsAssigned() && sameTarget(before, previous, target, op) {
		return before, false, warnings, nil
	}

	after := before.Clone()
	after.AssignmentStatus = model.StatusAssigned
	after.AssignedTo = target
	after.AssignedBy = strings.TrimSpace(cmd.AssignedBy)
	after.AssignmentNotes = strings.TrimSpace(cmd.Notes)
	after.AssignedDate = now
	if cmd.AssignedDate != nil {
		after.AssignedDate = *cmd.AssignedDate
	}

	// Keep the denormalized fields in step with the assignment target
	if op != nil {
		after.OperationID = op.ID
		after.OperationName = op.Name
	} else {
		after.OperationID = ""
		after.OperationName = ""
		warnings = append(warnings, unresolvedTargetWarning(before.ID, target, m.Suggest(target)))
	}

	return after, true, warnings, nil
}

// unassign returns the volunteer fully to the unassigned pool
func unassign(before model.Volunteer) (model.Volunteer, bool) {
	if !before.IsAssigned() {
		return before, false
	}

	after := before.Clone()
	after.AssignmentStatus = model.StatusNotAssigned
	after.AssignedDate = time.Time{}
	after.AssignedBy = ""
	after.AssignedTo = ""
	after.AssignmentNotes = ""

	return after, true
}

// sameTarget reports whether target designates what the volunteer is already assigned to
func sameTarget(before model.Volunteer, previous MatchResult, target string, op *model.Operation) bool {
	if op != nil {
		return previous.Operation != nil && previous.Operation.ID == op.ID
	}
	return previous.Operation == nil && equalFold(before.AssignedTo, target)
}

func affectedOperations(previous, current *model.Operation) []model.Operation {
	var ops []model.Operation
	if previous != nil {
		ops = append(ops, *previous)
	}
	if current != nil && (previous == nil || previous.ID != current.ID) {
		ops = append(ops, *current)
	}
	if len(ops) == 2 && ops[1].ID < ops[0].ID {
		ops[0], ops[1] = ops[1], ops[0]
	}
	return ops
}
