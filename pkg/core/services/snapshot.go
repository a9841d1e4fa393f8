package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jakechorley/relief-coordinator/pkg/core/engine"
	"github.com/jakechorley/relief-coordinator/pkg/core/model"
	"github.com/jakechorley/relief-coordinator/pkg/db"
)

// SnapshotReader is the read side every engine use case needs
type SnapshotReader interface {
	GetOperations(ctx context.Context) ([]model.Operation, error)
	GetVolunteers(ctx context.Context, query db.VolunteerQuery) ([]model.Volunteer, error)
}

// loadSnapshot fetches operations and volunteers concurrently into one snapshot.
// Capacity and statistics must be computed from an unfiltered snapshot, so only
// listing passes a non-empty query.
func loadSnapshot(ctx context.Context, store SnapshotReader, logger *zap.Logger, query db.VolunteerQuery) (engine.Snapshot, error) {
	var snapshot engine.Snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ops, err := store.GetOperations(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch operations: %w", err)
		}
		snapshot.Operations = ops
		return nil
	})
	g.Go(func() error {
		vols, err := store.GetVolunteers(gctx, query)
		if err != nil {
			return fmt.Errorf("failed to fetch volunteers: %w", err)
		}
		snapshot.Volunteers = vols
		return nil
	})
	if err := g.Wait(); err != nil {
		return engine.Snapshot{}, err
	}

	logger.Debug("Loaded snapshot",
		zap.Int("operations", len(snapshot.Operations)),
		zap.Int("volunteers", len(snapshot.Volunteers)),
		zap.Bool("prefiltered", !query.IsEmpty()))

	return snapshot, nil
}

// logWarnings records engine data-quality warnings; they never fail a call
func logWarnings(logger *zap.Logger, warnings []engine.Warning) {
	for _, w := range warnings {
		logger.Warn(w.Message,
			zap.String("kind", string(w.Kind)),
			zap.String("volunteer_id", w.VolunteerID),
			zap.String("operation_id", w.OperationID))
	}
}
