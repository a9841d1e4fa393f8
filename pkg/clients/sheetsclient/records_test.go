package sheetsclient

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/relief-coordinator/internal/config"
	"github.com/jakechorley/relief-coordinator/pkg/core/engine"
	"github.com/jakechorley/relief-coordinator/pkg/core/model"
)

type mockValues struct {
	tabs map[string][][]interface{}
	err  error
	// calls records "spreadsheet!range" per request
	calls []string
}

func (m *mockValues) GetValues(ctx context.Context, spreadsheetID, sheetRange string) ([][]interface{}, error) {
	m.calls = append(m.calls, spreadsheetID+"!"+sheetRange)
	if m.err != nil {
		return nil, m.err
	}
	return m.tabs[sheetRange], nil
}

var testSheets = config.SheetsConfig{
	SpreadsheetID: "sheet123",
	OperationsTab: "Operations",
	VolunteersTab: "Volunteers",
}

func TestRowsToRecords(t *testing.T) {
	raw := [][]interface{}{
		{"ID", " Full name ", "", "Team size", "Skills"},
		{"v1", "Ana Lopez", "ignored", "", "Medic, Driver"},
		{"", "", "", ""},
		{"v2", "  Rescue Crew ", nil, float64(4)},
		{"v3"},
	}

	records, err := rowsToRecords(raw)
	require.NoError(t, err)

	assert.Equal(t, []engine.Record{
		{"ID": "v1", "Full name": "Ana Lopez", "Skills": "Medic, Driver"},
		{"ID": "v2", "Full name": "Rescue Crew", "Team size": float64(4)},
		{"ID": "v3"},
	}, records)
}

func TestRowsToRecords_Errors(t *testing.T) {
	_, err := rowsToRecords(nil)
	assert.ErrorContains(t, err, "no header row")

	_, err = rowsToRecords([][]interface{}{{"Name", "Name"}})
	assert.ErrorContains(t, err, "duplicate column")
}

func TestSource_FetchFeedsNormalizer(t *testing.T) {
	values := &mockValues{tabs: map[string][][]interface{}{
		"Operations": {
			{"Operation ID", "Title", "Volunteers needed"},
			{"op1", "Flood Relief A", "5"},
		},
		"Volunteers": {
			{"Volunteer ID", "Name", "Type", "Members", "Assignment status", "Assigned to", "Availability"},
			{"t1", "Rescue Crew", "Team", "3", "Assigned", "Flood Relief A", "Day; Night"},
		},
	}}
	source := NewSource(values, testSheets)

	rawOps, err := source.FetchOperations(t.Context())
	require.NoError(t, err)
	ops, err := engine.NormalizeOperations(rawOps)
	require.NoError(t, err)

	rawVols, err := source.FetchVolunteers(t.Context())
	require.NoError(t, err)
	vols, err := engine.NormalizeVolunteers(rawVols)
	require.NoError(t, err)

	require.Len(t, ops, 1)
	assert.Equal(t, model.Operation{ID: "op1", Name: "Flood Relief A", VolunteerCountNeeded: 5}, ops[0])

	require.Len(t, vols, 1)
	v := vols[0]
	assert.Equal(t, "t1", v.ID)
	assert.Equal(t, model.VolunteerTypeTeam, v.VolunteerType)
	assert.Equal(t, 3, v.Members)
	assert.Equal(t, model.StatusAssigned, v.AssignmentStatus)
	assert.Equal(t, []model.TimeSlot{model.SlotDaytime, model.SlotNight}, v.AvailableTime)

	report := engine.AccountAll(vols, ops)
	assert.Equal(t, 3, report.Capacity[0].Filled)

	assert.Equal(t, []string{"sheet123!Operations", "sheet123!Volunteers"}, values.calls)
}

func TestSource_FetchError(t *testing.T) {
	source := NewSource(&mockValues{err: errors.New("quota exceeded")}, testSheets)

	_, err := source.FetchVolunteers(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read Volunteers")
	assert.Contains(t, err.Error(), "quota exceeded")
}
