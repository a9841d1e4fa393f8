package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/relief-coordinator/pkg/core/engine"
	"github.com/jakechorley/relief-coordinator/pkg/core/model"
	"github.com/jakechorley/relief-coordinator/pkg/db"
)

// AssignmentStore can read a snapshot and persist one changed volunteer
type AssignmentStore interface {
	SnapshotReader
	UpdateVolunteer(ctx context.Context, volunteer *model.Volunteer) error
}

// AssignRequest asks for a volunteer to be assigned to an operation (by ID or name)
type AssignRequest struct {
	VolunteerID  string
	Target       string
	AssignedBy   string
	AssignedDate *time.Time
	Notes        string
}

// AssignVolunteer assigns or reassigns a volunteer. Assigning to the current target is a no-op.
func AssignVolunteer(ctx context.Context, store AssignmentStore, logger *zap.Logger, req AssignRequest, now time.Time) (*engine.TransitionResult, error) {
	return TransitionVolunteer(ctx, store, logger, engine.Command{
		VolunteerID:  req.VolunteerID,
		TargetState:  model.StatusAssigned,
		AssignedTo:   req.Target,
		AssignedBy:   req.AssignedBy,
		AssignedDate: req.AssignedDate,
		Notes:        req.Notes,
	}, now)
}

// UnassignVolunteer returns a volunteer to the unassigned pool
func UnassignVolunteer(ctx context.Context, store AssignmentStore, logger *zap.Logger, volunteerID string, now time.Time) (*engine.TransitionResult, error) {
	return TransitionVolunteer(ctx, store, logger, engine.Command{
		VolunteerID: volunteerID,
		TargetState: model.StatusNotAssigned,
	}, now)
}

// TransitionVolunteer applies cmd to a fresh snapshot and persists the volunteer when it changed.
// The returned capacity and statistics describe the post-transition snapshot.
func TransitionVolunteer(ctx context.Context, store AssignmentStore, logger *zap.Logger, cmd engine.Command, now time.Time) (*engine.TransitionResult, error) {
	logger.Debug("Applying assignment transition",
		zap.String("volunteer_id", cmd.VolunteerID),
		zap.String("target_state", string(cmd.TargetState)),
		zap.String("assigned_to", cmd.AssignedTo))

	snapshot, err := loadSnapshot(ctx, store, logger, db.VolunteerQuery{})
	if err != nil {
		return nil, err
	}

	result, err := engine.ApplyTransition(snapshot, cmd, now)
	if err != nil {
		return nil, fmt.Errorf("failed to apply transition: %w", err)
	}
	logWarnings(logger, result.Warnings)

	if !result.Changed {
		logger.Info("Assignment unchanged",
			zap.String("volunteer_id", cmd.VolunteerID),
			zap.String("status", string(result.After.AssignmentStatus)))
		return result, nil
	}

	if err := store.UpdateVolunteer(ctx, &result.After); err != nil {
		return nil, fmt.Errorf("failed to save volunteer: %w", err)
	}

	fields := []zap.Field{
		zap.String("volunteer_id", result.After.ID),
		zap.String("status", string(result.After.AssignmentStatus)),
		zap.Int("assigned", result.Statistics.Assigned),
		zap.Int("assigned_percentage", result.Statistics.AssignedPercentage),
	}
	if result.Previous != nil {
		fields = append(fields, zap.String("previous_operation", result.Previous.ID))
	}
	if result.Current != nil {
		fields = append(fields, zap.String("current_operation", result.Current.ID))
	}
	logger.Info("Assignment updated", fields...)

	return result, nil
}
