package engine

import (
	"slices"
	"strings"
	"time"

	"github.com/jakechorley/relief-coordinator/pkg/core/model"
)

// FilterSpec describes a volunteer search. Zero values disable a predicate.
type FilterSpec struct {
	// TextQuery matches if it appears in any searchable field (OR)
	TextQuery             string
	OperationNameContains string
	VolunteerType         model.VolunteerType
	AssignedState         model.AssignmentStatus
	// Languages, Roles and AvailableTime are facets: the volunteer must hold every selected value (AND)
	Languages          []string
	Roles              []string
	LivingAreaContains string
	// DateFrom is an inclusive, date-only lower bound on the volunteer's date
	DateFrom      time.Time
	AvailableTime []model.TimeSlot
}

// Pushdown holds the predicates a query layer can evaluate before the engine sees the data
type Pushdown struct {
	Roles         []string
	Languages     []string
	AvailableTime []model.TimeSlot
	DateFrom      time.Time
	AssignedState model.AssignmentStatus
}

// IsEmpty reports whether no predicate is set
func (p Pushdown) IsEmpty() bool {
	return len(p.Roles) == 0 && len(p.Languages) == 0 && len(p.AvailableTime) == 0 &&
		p.DateFrom.IsZero() && p.AssignedState == ""
}

// Pushdown splits s into the predicates an external query layer applies and the
// residual filter the engine still has to apply, so no predicate is evaluated twice
func (s FilterSpec) Pushdown() (Pushdown, FilterSpec) {
	pushed := Pushdown{
		Roles:         s.Roles,
		Languages:     s.Languages,
		AvailableTime: s.AvailableTime,
		DateFrom:      s.DateFrom,
		AssignedState: s.AssignedState,
	}

	residual := s
	residual.Roles = nil
	residual.Languages = nil
	residual.AvailableTime = nil
	residual.DateFrom = time.Time{}
	residual.AssignedState = ""

	return pushed, residual
}

type candidate struct {
	volunteer     model.Volunteer
	operationName string
}

type predicate func(c candidate) bool

// Filter applies every predicate in spec and returns the matches ordered by
// case-insensitive full name, then ID. The input slice is left untouched.
func Filter(volunteers []model.Volunteer, spec FilterSpec, m *Matcher) []model.Volunteer {
	if m == nil {
		m = NewMatcher(nil)
	}
	predicates := buildPredicates(spec)

	out := make([]model.Volunteer, 0, len(volunteers))
	for _, v := range volunteers {
		c := candidate{volunteer: v, operationName: matchedOperationName(v, m)}
		if matchesAll(c, predicates) {
			out = append(out, v.Clone())
		}
	}

	SortVolunteers(out)
	return out
}

// SortVolunteers orders volunteers by case-insensitive full name, ties broken by ID
func SortVolunteers(volunteers []model.Volunteer) {
	slices.SortStableFunc(volunteers, func(a, b model.Volunteer) int {
		if c := strings.Compare(fold(a.FullName), fold(b.FullName)); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

func matchesAll(c candidate, predicates []predicate) bool {
	for _, p := range predicates {
		if !p(c) {
			return false
		}
	}
	return true
}

func buildPredicates(spec FilterSpec) []predicate {
	var ps []predicate

	if q := strings.TrimSpace(spec.TextQuery); q != "" {
		ps = append(ps, textQueryPredicate(q))
	}
	if name := strings.TrimSpace(spec.OperationNameContains); name != "" {
		ps = append(ps, func(c candidate) bool {
			return containsFold(c.operationName, name)
		})
	}
	if spec.VolunteerType != "" {
		ps = append(ps, func(c candidate) bool {
			return c.volunteer.VolunteerType == spec.VolunteerType
		})
	}
	if spec.AssignedState != "" {
		ps = append(ps, func(c candidate) bool {
			return c.volunteer.AssignmentStatus == spec.AssignedState
		})
	}
	if len(spec.Languages) > 0 {
		ps = append(ps, func(c candidate) bool {
			return isSupersetFold(c.volunteer.Languages, spec.Languages)
		})
	}
	if len(spec.Roles) > 0 {
		ps = append(ps, func(c candidate) bool {
			return isSupersetFold(c.volunteer.Roles, spec.Roles)
		})
	}
	if area := strings.TrimSpace(spec.LivingAreaContains); area != "" {
		ps = append(ps, func(c candidate) bool {
			return containsFold(c.volunteer.LivingArea, area)
		})
	}
	if !spec.DateFrom.IsZero() {
		from := dateOnly(spec.DateFrom)
		ps = append(ps, func(c candidate) bool {
			if c.volunteer.Date.IsZero() {
				return false
			}
			return !dateOnly(c.volunteer.Date).Before(from)
		})
	}
	if len(spec.AvailableTime) > 0 {
		want := slotStrings(spec.AvailableTime)
		ps = append(ps, func(c candidate) bool {
			return isSupersetFold(slotStrings(c.volunteer.AvailableTime), want)
		})
	}

	return ps
}

// textQueryPredicate matches when the query is a substring of any searchable field
func textQueryPredicate(q string) predicate {
	needle := fold(q)
	return func(c candidate) bool {
		v := c.volunteer
		fields := []string{
			v.FullName,
			v.Phone,
			v.Email,
			v.LivingArea,
			c.operationName,
			v.VolunteerType.Label(),
			v.Notes,
			v.AssignedTo,
		}
		fields = append(fields, v.Roles...)
		fields = append(fields, v.Languages...)

		for _, f := range fields {
			if f != "" && strings.Contains(fold(f), needle) {
				return true
			}
		}
		return false
	}
}

// matchedOperationName returns the name of the matched operation, falling back to the
// denormalized copy for volunteers that match nothing
func matchedOperationName(v model.Volunteer, m *Matcher) string {
	if op := m.Match(v).Operation; op != nil {
		return op.Name
	}
	return v.OperationName
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func slotStrings(slots []model.TimeSlot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, string(s))
	}
	return out
}
