package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNilRecord is returned when a record is required but nil was supplied
	ErrNilRecord = errors.New("record is nil")

	// ErrVolunteerNotFound is returned when a command references a volunteer missing from the snapshot
	ErrVolunteerNotFound = errors.New("volunteer not found in snapshot")

	// ErrInvalidState is returned for a target state outside {assigned, not_assigned}
	ErrInvalidState = errors.New("invalid assignment state")
)

type WarningKind string

const (
	WarningAmbiguousMatch    WarningKind = "ambiguous_match"
	WarningDanglingReference WarningKind = "dangling_reference"
	WarningUnresolvedTarget  WarningKind = "unresolved_target"
	WarningOverAssigned      WarningKind = "over_assigned"
)

// Warning flags a data-quality problem. Warnings are returned next to results and never raised.
type Warning struct {
	Kind        WarningKind `json:"kind"`
	VolunteerID string      `json:"volunteerId,omitempty"`
	OperationID string      `json:"operationId,omitempty"`
	Candidates  []string    `json:"candidates,omitempty"`
	Suggestion  string      `json:"suggestion,omitempty"`
	Message     string      `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s", w.Kind, w.Message)
}

func ambiguousMatchWarning(volunteerID, name string, candidateIDs []string) Warning {
	return Warning{
		Kind:        WarningAmbiguousMatch,
		VolunteerID: volunteerID,
		OperationID: candidateIDs[0],
		Candidates:  candidateIDs,
		Message: fmt.Sprintf("%d operations are named %q (%s); using %s",
			len(candidateIDs), name, strings.Join(candidateIDs, ", "), candidateIDs[0]),
	}
}

func danglingReferenceWarning(volunteerID, operationID string) Warning {
	return Warning{
		Kind:        WarningDanglingReference,
		VolunteerID: volunteerID,
		OperationID: operationID,
		Message:     fmt.Sprintf("volunteer %s references unknown operation %s", volunteerID, operationID),
	}
}

func unresolvedTargetWarning(volunteerID, target, suggestion string) Warning {
	msg := fmt.Sprintf("assignment target %q does not match any operation", target)
	if suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
	}
	return Warning{
		Kind:        WarningUnresolvedTarget,
		VolunteerID: volunteerID,
		Suggestion:  suggestion,
		Message:     msg,
	}
}

func overAssignedWarning(operationID string, needed, filled int) Warning {
	return Warning{
		Kind:        WarningOverAssigned,
		OperationID: operationID,
		Message:     fmt.Sprintf("operation %s is over-assigned: %d filled of %d needed", operationID, filled, needed),
	}
}
