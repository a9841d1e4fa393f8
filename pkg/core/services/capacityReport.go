package services

import (
	"context"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/jakechorley/relief-coordinator/pkg/core/engine"
	"github.com/jakechorley/relief-coordinator/pkg/core/model"
	"github.com/jakechorley/relief-coordinator/pkg/db"
)

// Overview is the dashboard picture of one snapshot
type Overview struct {
	Capacity   []model.CapacitySnapshot `json:"capacity"`
	Statistics model.Statistics         `json:"statistics"`
	Warnings   []engine.Warning         `json:"warnings,omitempty"`
	// NextReports lists upcoming scheduled report times, when a schedule is configured
	NextReports []time.Time `json:"nextReports,omitempty"`
	GeneratedAt time.Time   `json:"generatedAt"`
}

// CapacityReport computes needed/filled/remaining for every operation
func CapacityReport(ctx context.Context, store SnapshotReader, logger *zap.Logger) (*engine.Report, error) {
	snapshot, err := loadSnapshot(ctx, store, logger, db.VolunteerQuery{})
	if err != nil {
		return nil, err
	}

	report := engine.AccountAll(snapshot.Volunteers, snapshot.Operations)
	logWarnings(logger, report.Warnings)

	logger.Debug("Capacity computed", zap.Int("operations", len(report.Capacity)))

	return &report, nil
}

// Statistics summarizes assignment counts across all volunteers
func Statistics(ctx context.Context, store SnapshotReader, logger *zap.Logger) (model.Statistics, error) {
	snapshot, err := loadSnapshot(ctx, store, logger, db.VolunteerQuery{})
	if err != nil {
		return model.Statistics{}, err
	}
	return engine.Summarize(snapshot.Volunteers), nil
}

// BuildOverview computes capacity and statistics from the same snapshot.
// schedule is an optional recurrence rule; when set the next reportCount occurrences
// after now are included.
func BuildOverview(ctx context.Context, store SnapshotReader, logger *zap.Logger, schedule string, reportCount int, now time.Time) (*Overview, error) {
	snapshot, err := loadSnapshot(ctx, store, logger, db.VolunteerQuery{})
	if err != nil {
		return nil, err
	}

	report := engine.AccountAll(snapshot.Volunteers, snapshot.Operations)
	logWarnings(logger, report.Warnings)

	overview := &Overview{
		Capacity:    report.Capacity,
		Statistics:  engine.Summarize(snapshot.Volunteers),
		Warnings:    report.Warnings,
		GeneratedAt: now,
	}

	if schedule != "" {
		overview.NextReports, err = NextReportDates(schedule, now, reportCount)
		if err != nil {
			return nil, err
		}
	}

	return overview, nil
}

// NextReportDates returns the first n occurrences of schedule strictly after from
func NextReportDates(schedule string, from time.Time, n int) ([]time.Time, error) {
	if n <= 0 {
		return nil, nil
	}

	opt, err := rrule.StrToROption(schedule)
	if err != nil {
		return nil, fmt.Errorf("invalid report schedule: %w", err)
	}
	opt.Dtstart = from

	rule, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("invalid report schedule: %w", err)
	}

	dates := make([]time.Time, 0, n)
	next := rule.Iterator()
	for len(dates) < n {
		t, ok := next()
		if !ok {
			break
		}
		if !t.After(from) {
			continue
		}
		dates = append(dates, t)
	}

	return dates, nil
}
