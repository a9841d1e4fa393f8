package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/relief-coordinator/pkg/core/engine"
	"github.com/jakechorley/relief-coordinator/pkg/core/model"
)

// RegistrationStore persists new volunteers
type RegistrationStore interface {
	InsertVolunteer(ctx context.Context, volunteer *model.Volunteer) error
}

// DeletionStore removes volunteers
type DeletionStore interface {
	DeleteVolunteer(ctx context.Context, id string) error
}

// RegisterVolunteer normalizes and validates a registration and stores it.
// New volunteers always start unassigned; an operation link from the form is kept.
func RegisterVolunteer(ctx context.Context, store RegistrationStore, logger *zap.Logger, raw engine.Record, now time.Time) (*model.Volunteer, error) {
	v, err := engine.NormalizeVolunteer(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize registration: %w", err)
	}

	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.Date.IsZero() {
		v.Date = now
	}
	v.AssignmentStatus = model.StatusNotAssigned
	v.AssignedDate = time.Time{}
	v.AssignedBy = ""
	v.AssignedTo = ""
	v.AssignmentNotes = ""

	if err := model.ValidateVolunteer(v); err != nil {
		return nil, err
	}

	if err := store.InsertVolunteer(ctx, &v); err != nil {
		return nil, fmt.Errorf("failed to insert volunteer: %w", err)
	}

	logger.Info("Volunteer registered",
		zap.String("volunteer_id", v.ID),
		zap.String("type", string(v.VolunteerType)),
		zap.Int("members", v.Members))

	return &v, nil
}

// DeleteVolunteer removes a volunteer. Capacity is recomputed on the next query.
func DeleteVolunteer(ctx context.Context, store DeletionStore, logger *zap.Logger, id string) error {
	if id == "" {
		return model.NewValidationError("id", "is required")
	}

	if err := store.DeleteVolunteer(ctx, id); err != nil {
		return fmt.Errorf("failed to delete volunteer: %w", err)
	}

	logger.Info("Volunteer deleted", zap.String("volunteer_id", id))
	return nil
}
