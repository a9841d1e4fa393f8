package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jakechorley/relief-coordinator/pkg/core/engine"
	"github.com/jakechorley/relief-coordinator/pkg/core/model"
)

// importNamespace seeds deterministic IDs for imported volunteers that have none,
// so re-importing the same sheet updates rows instead of duplicating them
var importNamespace = uuid.MustParse("6f1c2a8e-3d4b-4f7a-9c1e-52b7d0a4e913")

// RecordSource supplies raw operation and volunteer records from an external collaborator
type RecordSource interface {
	FetchOperations(ctx context.Context) ([]engine.Record, error)
	FetchVolunteers(ctx context.Context) ([]engine.Record, error)
}

// ImportStore upserts imported records
type ImportStore interface {
	UpsertOperations(ctx context.Context, operations []model.Operation) error
	UpsertVolunteers(ctx context.Context, volunteers []model.Volunteer) error
}

// SkippedRecord explains why an imported row was not stored
type SkippedRecord struct {
	Kind   string `json:"kind"`
	Index  int    `json:"index"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason"`
}

// ImportResult summarizes an import run
type ImportResult struct {
	Operations int             `json:"operations"`
	Volunteers int             `json:"volunteers"`
	Skipped    []SkippedRecord `json:"skipped,omitempty"`
}

// ImportRecords pulls records from source, normalizes and validates them and upserts the
// valid ones. Invalid rows are skipped and reported rather than failing the import.
func ImportRecords(ctx context.Context, source RecordSource, store ImportStore, logger *zap.Logger) (*ImportResult, error) {
	var rawOps, rawVols []engine.Record

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rawOps, err = source.FetchOperations(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch operations: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		rawVols, err = source.FetchVolunteers(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch volunteers: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info("Fetched records",
		zap.Int("operations", len(rawOps)),
		zap.Int("volunteers", len(rawVols)))

	result := &ImportResult{}
	operations := importOperations(rawOps, result)
	volunteers := importVolunteers(rawVols, result)

	for _, s := range result.Skipped {
		logger.Warn("Skipping record",
			zap.String("kind", s.Kind),
			zap.Int("index", s.Index),
			zap.String("id", s.ID),
			zap.String("reason", s.Reason))
	}

	if err := store.UpsertOperations(ctx, operations); err != nil {
		return nil, fmt.Errorf("failed to store operations: %w", err)
	}
	if err := store.UpsertVolunteers(ctx, volunteers); err != nil {
		return nil, fmt.Errorf("failed to store volunteers: %w", err)
	}

	result.Operations = len(operations)
	result.Volunteers = len(volunteers)

	logger.Info("Import complete",
		zap.Int("operations", result.Operations),
		zap.Int("volunteers", result.Volunteers),
		zap.Int("skipped", len(result.Skipped)))

	return result, nil
}

func importOperations(raws []engine.Record, result *ImportResult) []model.Operation {
	seen := make(map[string]bool, len(raws))
	operations := make([]model.Operation, 0, len(raws))

	for i, raw := range raws {
		skip := func(id, reason string) {
			result.Skipped = append(result.Skipped, SkippedRecord{Kind: "operation", Index: i, ID: id, Reason: reason})
		}

		op, err := engine.NormalizeOperation(raw)
		if err != nil {
			skip("", err.Error())
			continue
		}
		if op.ID == "" {
			skip("", "missing id")
			continue
		}
		if seen[op.ID] {
			skip(op.ID, "duplicate id")
			continue
		}
		seen[op.ID] = true
		operations = append(operations, op)
	}

	return operations
}

func importVolunteers(raws []engine.Record, result *ImportResult) []model.Volunteer {
	seen := make(map[string]bool, len(raws))
	volunteers := make([]model.Volunteer, 0, len(raws))

	for i, raw := range raws {
		skip := func(id, reason string) {
			result.Skipped = append(result.Skipped, SkippedRecord{Kind: "volunteer", Index: i, ID: id, Reason: reason})
		}

		v, err := engine.NormalizeVolunteer(raw)
		if err != nil {
			skip("", err.Error())
			continue
		}
		if v.ID == "" {
			v.ID = importedVolunteerID(v)
		}
		if seen[v.ID] {
			skip(v.ID, "duplicate id")
			continue
		}
		if err := model.ValidateVolunteer(v); err != nil {
			skip(v.ID, err.Error())
			continue
		}
		seen[v.ID] = true
		volunteers = append(volunteers, v)
	}

	return volunteers
}

// importedVolunteerID derives a stable ID from identifying fields
func importedVolunteerID(v model.Volunteer) string {
	key := strings.ToLower(strings.Join([]string{
		strings.TrimSpace(v.FullName),
		strings.TrimSpace(v.Phone),
		strings.TrimSpace(v.Email),
	}, "|"))
	return uuid.NewSHA1(importNamespace, []byte(key)).String()
}
