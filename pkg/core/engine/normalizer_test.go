package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/relief-coordinator/pkg/core/model"
)

func TestNormalizeOperation_NameAliases(t *testing.T) {
	tests := []struct {
		name string
		raw  Record
	}{
		{"operationName", Record{"id": "op1", "operationName": "Flood Relief A"}},
		{"name", Record{"id": "op1", "name": "Flood Relief A"}},
		{"title", Record{"id": "op1", "title": "Flood Relief A"}},
		{"header style", Record{"ID": "op1", "Operation name": "Flood Relief A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := NormalizeOperation(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, "op1", op.ID)
			assert.Equal(t, "Flood Relief A", op.Name)
		})
	}
}

func TestNormalizeOperation_AliasPrecedence(t *testing.T) {
	op, err := NormalizeOperation(Record{"name": "Second", "operationName": "First", "title": "Third"})
	require.NoError(t, err)
	assert.Equal(t, "First", op.Name)

	// blank values do not shadow later aliases
	op, err = NormalizeOperation(Record{"operationName": "  ", "title": "Fallback"})
	require.NoError(t, err)
	assert.Equal(t, "Fallback", op.Name)
}

func TestNormalizeOperation_NeededDefaults(t *testing.T) {
	tests := []struct {
		name     string
		raw      Record
		expected int
	}{
		{"missing", Record{}, 0},
		{"float from json", Record{"volunteerCountNeeded": float64(5)}, 5},
		{"int from yaml", Record{"volunteersNeeded": 7}, 7},
		{"numeric string", Record{"needed": " 12 "}, 12},
		{"garbage string", Record{"needed": "lots"}, 0},
		{"negative", Record{"needed": -3}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := NormalizeOperation(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, op.VolunteerCountNeeded)
		})
	}
}

func TestNormalizeOperation_NilRecord(t *testing.T) {
	_, err := NormalizeOperation(nil)
	assert.ErrorIs(t, err, ErrNilRecord)
}

func TestNormalizeVolunteer_EmptyRecordDefaults(t *testing.T) {
	v, err := NormalizeVolunteer(Record{})
	require.NoError(t, err)

	assert.Equal(t, "", v.ID)
	assert.Equal(t, model.VolunteerTypeIndividual, v.VolunteerType)
	assert.Equal(t, 1, v.Members)
	assert.Equal(t, model.StatusNotAssigned, v.AssignmentStatus)
	assert.Empty(t, v.Roles)
	assert.Empty(t, v.Languages)
	assert.True(t, v.Date.IsZero())
}

func TestNormalizeVolunteer_FullRecord(t *testing.T) {
	raw := Record{
		"_id":              "vol-9",
		"Full name":        " Leila Haddad ",
		"phoneNumber":      "+961 555 0101",
		"email":            "leila@example.com",
		"type":             "Team",
		"teamSize":         float64(4),
		"skills":           []any{"Medic", "driver", "medic"},
		"language":         "Arabic; English",
		"registrationDate": "2025-03-14",
		"availability":     "Day, Nights",
		"area":             "Tripoli",
		"operation":        "Flood Relief A",
		"status":           "Assigned",
		"assignedDate":     "2025-03-15T09:30:00Z",
		"assignedBy":       "coordinator",
		"assignment":       "Flood Relief A",
		"assignmentNotes":  "bring kits",
		"notes":            "has truck",
	}

	v, err := NormalizeVolunteer(raw)
	require.NoError(t, err)

	assert.Equal(t, "vol-9", v.ID)
	assert.Equal(t, "Leila Haddad", v.FullName)
	assert.Equal(t, "+961 555 0101", v.Phone)
	assert.Equal(t, model.VolunteerTypeTeam, v.VolunteerType)
	assert.Equal(t, 4, v.Members)
	assert.Equal(t, []string{"Medic", "driver"}, v.Roles)
	assert.Equal(t, []string{"Arabic", "English"}, v.Languages)
	assert.Equal(t, date("2025-03-14"), v.Date)
	assert.Equal(t, []model.TimeSlot{model.SlotDaytime, model.SlotNight}, v.AvailableTime)
	assert.Equal(t, "Tripoli", v.LivingArea)
	assert.Equal(t, "Flood Relief A", v.OperationName)
	assert.Equal(t, model.StatusAssigned, v.AssignmentStatus)
	assert.Equal(t, time.Date(2025, 3, 15, 9, 30, 0, 0, time.UTC), v.AssignedDate)
	assert.Equal(t, "coordinator", v.AssignedBy)
	assert.Equal(t, "Flood Relief A", v.AssignedTo)
	assert.Equal(t, "bring kits", v.AssignmentNotes)
	assert.Equal(t, "has truck", v.Notes)
}

func TestNormalizeVolunteer_MissingMembersDefaultsToOne(t *testing.T) {
	v, err := NormalizeVolunteer(Record{"volunteerType": "team"})
	require.NoError(t, err)
	assert.Equal(t, 1, v.Members)
}

func TestNormalizeVolunteer_IDAliasesAreDeterministic(t *testing.T) {
	for i := 0; i < 20; i++ {
		v, err := NormalizeVolunteer(Record{"_id": "from-underscore", "id": "from-id"})
		require.NoError(t, err)
		assert.Equal(t, "from-underscore", v.ID)
	}

	v, err := NormalizeVolunteer(Record{"_id": "", "id": "from-id"})
	require.NoError(t, err)
	assert.Equal(t, "from-id", v.ID)
}

func TestNormalizeVolunteer_YAMLTimeValue(t *testing.T) {
	when := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	v, err := NormalizeVolunteer(Record{"date": when})
	require.NoError(t, err)
	assert.Equal(t, when, v.Date)
}

func TestParseAssignmentStatus(t *testing.T) {
	tests := []struct {
		in       string
		expected model.AssignmentStatus
	}{
		{"assigned", model.StatusAssigned},
		{"ASSIGNED", model.StatusAssigned},
		{"confirmed", model.StatusAssigned},
		{"not_assigned", model.StatusNotAssigned},
		{"Not assigned", model.StatusNotAssigned},
		{"unassigned", model.StatusNotAssigned},
		{"", model.StatusNotAssigned},
		{"whatever", model.StatusNotAssigned},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseAssignmentStatus(tt.in))
		})
	}
}

func TestNormalizeVolunteers_NilRecordIsStructuralError(t *testing.T) {
	_, err := NormalizeVolunteers([]Record{{"id": "a"}, nil})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNilRecord)
	assert.Contains(t, err.Error(), "volunteer record 1")
}
