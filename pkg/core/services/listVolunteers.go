package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/relief-coordinator/pkg/core/engine"
	"github.com/jakechorley/relief-coordinator/pkg/core/model"
	"github.com/jakechorley/relief-coordinator/pkg/db"
)

// ListVolunteers returns the volunteers matching spec, sorted by name then ID.
// Facet, date and assignment predicates are pushed down to the store and only the
// residual predicates run in the engine, so nothing is filtered twice.
func ListVolunteers(ctx context.Context, store SnapshotReader, logger *zap.Logger, spec engine.FilterSpec) ([]model.Volunteer, error) {
	pushed, residual := spec.Pushdown()

	snapshot, err := loadSnapshot(ctx, store, logger, queryFromPushdown(pushed))
	if err != nil {
		return nil, err
	}

	volunteers := engine.Filter(snapshot.Volunteers, residual, engine.NewMatcher(snapshot.Operations))

	logger.Debug("Filtered volunteers",
		zap.Int("fetched", len(snapshot.Volunteers)),
		zap.Int("matched", len(volunteers)))

	return volunteers, nil
}

func queryFromPushdown(p engine.Pushdown) db.VolunteerQuery {
	return db.VolunteerQuery{
		Roles:         p.Roles,
		Languages:     p.Languages,
		AvailableTime: p.AvailableTime,
		DateFrom:      p.DateFrom,
		AssignedState: p.AssignedState,
	}
}
