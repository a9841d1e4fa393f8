package sheetsclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/jakechorley/relief-coordinator/internal/config"
	"github.com/jakechorley/relief-coordinator/pkg/core/engine"
)

// ValuesGetter reads a range of cells
type ValuesGetter interface {
	GetValues(ctx context.Context, spreadsheetID, sheetRange string) ([][]interface{}, error)
}

// Source reads operations and volunteers from the registration spreadsheet.
// Each row becomes a record keyed by its column header; the normalizer resolves aliases.
type Source struct {
	values        ValuesGetter
	spreadsheetID string
	operationsTab string
	volunteersTab string
}

// NewSource creates a record source for the configured spreadsheet
func NewSource(values ValuesGetter, cfg config.SheetsConfig) *Source {
	return &Source{
		values:        values,
		spreadsheetID: cfg.SpreadsheetID,
		operationsTab: cfg.OperationsTab,
		volunteersTab: cfg.VolunteersTab,
	}
}

// FetchOperations reads the operations tab
func (s *Source) FetchOperations(ctx context.Context) ([]engine.Record, error) {
	return s.fetch(ctx, s.operationsTab)
}

// FetchVolunteers reads the volunteers tab
func (s *Source) FetchVolunteers(ctx context.Context) ([]engine.Record, error) {
	return s.fetch(ctx, s.volunteersTab)
}

func (s *Source) fetch(ctx context.Context, tab string) ([]engine.Record, error) {
	values, err := s.values.GetValues(ctx, s.spreadsheetID, tab)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", tab, err)
	}

	records, err := rowsToRecords(values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", tab, err)
	}

	return records, nil
}

// rowsToRecords converts raw spreadsheet data into records keyed by the header row.
// Blank cells are left out so missing values take their defaults, and blank rows are skipped.
func rowsToRecords(raw [][]interface{}) ([]engine.Record, error) {
	if len(raw) < 1 {
		return nil, fmt.Errorf("no header row found")
	}

	headers := make([]string, len(raw[0]))
	seen := make(map[string]bool, len(raw[0]))
	for i, cell := range raw[0] {
		header := strings.TrimSpace(fmt.Sprint(cell))
		if header == "" {
			continue
		}
		if seen[header] {
			return nil, fmt.Errorf("duplicate column in header: %s", header)
		}
		seen[header] = true
		headers[i] = header
	}

	records := make([]engine.Record, 0, len(raw)-1)
	for _, row := range raw[1:] {
		record := engine.Record{}
		for i, cell := range row {
			if i >= len(headers) || headers[i] == "" {
				continue
			}
			if str, ok := cell.(string); ok {
				str = strings.TrimSpace(str)
				if str == "" {
					continue
				}
				record[headers[i]] = str
				continue
			}
			if cell != nil {
				record[headers[i]] = cell
			}
		}
		if len(record) == 0 {
			continue
		}
		records = append(records, record)
	}

	return records, nil
}
