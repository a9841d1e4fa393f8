package db

import (
	"context"
	"errors"
	"time"

	"github.com/jakechorley/relief-coordinator/pkg/core/model"
)

// ErrNotFound is returned when a record addressed by ID does not exist
var ErrNotFound = errors.New("record not found")

// VolunteerQuery holds the predicates a store may apply before the engine sees the data.
// Zero values mean "no filter". Set matching is case-insensitive containment.
type VolunteerQuery struct {
	Roles         []string
	Languages     []string
	AvailableTime []model.TimeSlot
	// DateFrom is an inclusive, date-only lower bound
	DateFrom      time.Time
	AssignedState model.AssignmentStatus
}

// IsEmpty reports whether the query selects every volunteer
func (q VolunteerQuery) IsEmpty() bool {
	return len(q.Roles) == 0 && len(q.Languages) == 0 && len(q.AvailableTime) == 0 &&
		q.DateFrom.IsZero() && q.AssignedState == ""
}

// OperationStore defines the interface for operation database operations
type OperationStore interface {
	GetOperations(ctx context.Context) ([]model.Operation, error)
	UpsertOperations(ctx context.Context, operations []model.Operation) error
}

// VolunteerStore defines the interface for volunteer database operations
type VolunteerStore interface {
	GetVolunteers(ctx context.Context, query VolunteerQuery) ([]model.Volunteer, error)
	InsertVolunteer(ctx context.Context, volunteer *model.Volunteer) error
	UpdateVolunteer(ctx context.Context, volunteer *model.Volunteer) error
	DeleteVolunteer(ctx context.Context, id string) error
	UpsertVolunteers(ctx context.Context, volunteers []model.Volunteer) error
}

// Database defines the interface for all database operations.
// postgres.DB implements this interface.
type Database interface {
	OperationStore
	VolunteerStore
	Ping(ctx context.Context) error
}
