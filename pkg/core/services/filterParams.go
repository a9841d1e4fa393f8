package services

import (
	"strings"
	"time"

	"github.com/jakechorley/relief-coordinator/pkg/core/engine"
	"github.com/jakechorley/relief-coordinator/pkg/core/model"
)

// FilterParams is the string form of a volunteer search as it arrives from
// command-line flags or URL query parameters
type FilterParams struct {
	Text      string   `schema:"q"`
	Operation string   `schema:"operation"`
	Type      string   `schema:"type"`
	Status    string   `schema:"status"`
	Languages []string `schema:"language"`
	Roles     []string `schema:"role"`
	Area      string   `schema:"area"`
	DateFrom  string   `schema:"dateFrom"`
	Available []string `schema:"available"`
}

// Spec parses the params into a FilterSpec. Every malformed value is reported
// in a single ValidationError.
func (p FilterParams) Spec() (engine.FilterSpec, error) {
	spec := engine.FilterSpec{
		TextQuery:             strings.TrimSpace(p.Text),
		OperationNameContains: strings.TrimSpace(p.Operation),
		LivingAreaContains:    strings.TrimSpace(p.Area),
		Languages:             splitValues(p.Languages),
		Roles:                 splitValues(p.Roles),
	}
	verr := &model.ValidationError{}

	if t := strings.ToLower(strings.TrimSpace(p.Type)); t != "" {
		spec.VolunteerType = model.VolunteerType(t)
		if !spec.VolunteerType.IsValid() {
			verr.Fields = append(verr.Fields, model.FieldError{Field: "type", Message: "must be individual or team"})
		}
	}

	if s := strings.ToLower(strings.TrimSpace(p.Status)); s != "" {
		spec.AssignedState = model.AssignmentStatus(s)
		if !spec.AssignedState.IsValid() {
			verr.Fields = append(verr.Fields, model.FieldError{Field: "status", Message: "must be assigned or not_assigned"})
		}
	}

	if d := strings.TrimSpace(p.DateFrom); d != "" {
		date, err := time.Parse(time.DateOnly, d)
		if err != nil {
			verr.Fields = append(verr.Fields, model.FieldError{Field: "dateFrom", Message: "must be a YYYY-MM-DD date"})
		}
		spec.DateFrom = date
	}

	for _, a := range splitValues(p.Available) {
		slot := model.TimeSlot(strings.ToLower(a))
		if !slot.IsValid() {
			verr.Fields = append(verr.Fields, model.FieldError{Field: "available", Message: "must be daytime or night"})
			continue
		}
		spec.AvailableTime = append(spec.AvailableTime, slot)
	}

	if len(verr.Fields) > 0 {
		return engine.FilterSpec{}, verr
	}
	return spec, nil
}

// splitValues accepts repeated values as well as comma separated lists
func splitValues(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
