package model

import (
	"time"
)

type VolunteerType string

const (
	VolunteerTypeIndividual VolunteerType = "individual"
	VolunteerTypeTeam       VolunteerType = "team"
)

func (t VolunteerType) IsValid() bool {
	return t == VolunteerTypeIndividual || t == VolunteerTypeTeam
}

// Label returns the human readable type name used in listings and text search
func (t VolunteerType) Label() string {
	if t == VolunteerTypeTeam {
		return "Team"
	}
	return "Individual"
}

type AssignmentStatus string

const (
	StatusNotAssigned AssignmentStatus = "not_assigned"
	StatusAssigned    AssignmentStatus = "assigned"
)

func (s AssignmentStatus) IsValid() bool {
	return s == StatusNotAssigned || s == StatusAssigned
}

type TimeSlot string

const (
	SlotDaytime TimeSlot = "daytime"
	SlotNight   TimeSlot = "night"
)

func (s TimeSlot) IsValid() bool {
	return s == SlotDaytime || s == SlotNight
}

// Volunteer represents a registered individual or team
type Volunteer struct {
	ID            string        `json:"id" yaml:"id"`
	FullName      string        `json:"fullName" yaml:"fullName" validate:"required"`
	Phone         string        `json:"phone,omitempty" yaml:"phone,omitempty"`
	Email         string        `json:"email,omitempty" yaml:"email,omitempty" validate:"omitempty,email"`
	VolunteerType VolunteerType `json:"volunteerType" yaml:"volunteerType" validate:"required,oneof=individual team"`
	Members       int           `json:"members" yaml:"members" validate:"min=1"`
	Roles         []string      `json:"roles" yaml:"roles"`
	Languages     []string      `json:"languages" yaml:"languages"`
	Date          time.Time     `json:"date" yaml:"date"`
	AvailableTime []TimeSlot    `json:"availableTime" yaml:"availableTime" validate:"dive,oneof=daytime night"`
	LivingArea    string        `json:"livingArea,omitempty" yaml:"livingArea,omitempty"`

	// OperationID is a foreign reference that may be stale or empty
	OperationID string `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	// OperationName is a denormalized display copy of the operation's name
	OperationName string `json:"operationName,omitempty" yaml:"operationName,omitempty"`

	AssignmentStatus AssignmentStatus `json:"assignmentStatus" yaml:"assignmentStatus" validate:"required,oneof=assigned not_assigned"`
	AssignedDate     time.Time        `json:"assignedDate" yaml:"assignedDate"`
	AssignedBy       string           `json:"assignedBy,omitempty" yaml:"assignedBy,omitempty"`
	AssignedTo       string           `json:"assignedTo,omitempty" yaml:"assignedTo,omitempty"`
	AssignmentNotes  string           `json:"assignmentNotes,omitempty" yaml:"assignmentNotes,omitempty"`
	Notes            string           `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// IsAssigned reports the confirmed assignment state. A linked OperationID alone does not count.
func (v Volunteer) IsAssigned() bool {
	return v.AssignmentStatus == StatusAssigned
}

// Clone returns a copy that shares no slices with v
func (v Volunteer) Clone() Volunteer {
	c := v
	c.Roles = cloneStrings(v.Roles)
	c.Languages = cloneStrings(v.Languages)
	if v.AvailableTime != nil {
		c.AvailableTime = append([]TimeSlot(nil), v.AvailableTime...)
	}
	return c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

// Operation represents a relief effort with a target volunteer headcount
type Operation struct {
	ID                   string `json:"id" yaml:"id"`
	Name                 string `json:"name" yaml:"name"`
	VolunteerCountNeeded int    `json:"volunteerCountNeeded" yaml:"volunteerCountNeeded"`
	Status               string `json:"status,omitempty" yaml:"status,omitempty"`
}

// CapacitySnapshot is derived from the current volunteer and operation snapshot and never stored
type CapacitySnapshot struct {
	OperationID   string `json:"operationId"`
	OperationName string `json:"operationName"`
	Needed        int    `json:"needed"`
	Filled        int    `json:"filled"`
	Remaining     int    `json:"remaining"`
}

// OverAssigned reports whether more capacity was assigned than the operation needs
func (s CapacitySnapshot) OverAssigned() bool {
	return s.Remaining < 0
}

// Statistics summarises assignment state across a volunteer set.
// Teams and Individuals count records; AssignedUnits counts capacity units.
type Statistics struct {
	Total              int `json:"total"`
	Assigned           int `json:"assigned"`
	Unassigned         int `json:"unassigned"`
	AssignedPercentage int `json:"assignedPercentage"`
	Teams              int `json:"teams"`
	Individuals        int `json:"individuals"`
	AssignedUnits      int `json:"assignedUnits"`
}
