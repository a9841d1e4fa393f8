package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validVolunteer() Volunteer {
	return Volunteer{
		ID:               "vol-1",
		FullName:         "Amina Yusuf",
		Email:            "amina@example.com",
		VolunteerType:    VolunteerTypeIndividual,
		Members:          1,
		AvailableTime:    []TimeSlot{SlotDaytime},
		AssignmentStatus: StatusNotAssigned,
	}
}

func TestValidateVolunteer_Valid(t *testing.T) {
	assert.NoError(t, ValidateVolunteer(validVolunteer()))
}

func TestValidateVolunteer_ValidTeam(t *testing.T) {
	v := validVolunteer()
	v.VolunteerType = VolunteerTypeTeam
	v.Members = 4

	assert.NoError(t, ValidateVolunteer(v))
}

func TestValidateVolunteer_MembersMustAgreeWithType(t *testing.T) {
	tests := []struct {
		name    string
		vType   VolunteerType
		members int
		message string
	}{
		{"team of one", VolunteerTypeTeam, 1, "at least 2 members"},
		{"individual with three members", VolunteerTypeIndividual, 3, "exactly 1 member"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validVolunteer()
			v.VolunteerType = tt.vType
			v.Members = tt.members

			err := ValidateVolunteer(v)
			require.Error(t, err)
			assert.True(t, IsValidationError(err))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestValidateVolunteer_MissingRequiredFields(t *testing.T) {
	err := ValidateVolunteer(Volunteer{Members: 1})
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	fields := make([]string, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		fields = append(fields, f.Field)
	}
	assert.Contains(t, fields, "fullName")
	assert.Contains(t, fields, "volunteerType")
	assert.Contains(t, fields, "assignmentStatus")
}

func TestValidateVolunteer_InvalidEmailAndSlot(t *testing.T) {
	v := validVolunteer()
	v.Email = "not-an-email"
	v.AvailableTime = []TimeSlot{"weekends"}

	err := ValidateVolunteer(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
	assert.Contains(t, err.Error(), "daytime night")
}

func TestIsValidationError_Wrapped(t *testing.T) {
	err := fmt.Errorf("failed to register volunteer: %w", NewValidationError("assignedTo", "is required"))
	assert.True(t, IsValidationError(err))
	assert.False(t, IsValidationError(fmt.Errorf("plain")))
}

func TestCapacitySnapshot_OverAssigned(t *testing.T) {
	assert.True(t, CapacitySnapshot{Remaining: -1}.OverAssigned())
	assert.False(t, CapacitySnapshot{Remaining: 0}.OverAssigned())
}

func TestVolunteer_CloneDoesNotShareSlices(t *testing.T) {
	v := validVolunteer()
	v.Roles = []string{"Medic"}

	c := v.Clone()
	c.Roles[0] = "Driver"

	assert.Equal(t, "Medic", v.Roles[0])
}
