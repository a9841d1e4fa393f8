package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterStructValidation(volunteerStructLevel, Volunteer{})
}

// ValidationError is returned for malformed input that must be rejected before it reaches the engine
type ValidationError struct {
	Fields []FieldError
}

// FieldError describes a single rejected field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a ValidationError for a single field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// IsValidationError reports whether err wraps a *ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidateVolunteer checks a volunteer record before it is persisted.
// Team registrations need at least two members; individuals exactly one.
func ValidateVolunteer(v Volunteer) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate volunteer: %w", err)
	}

	ve := &ValidationError{}
	for _, fe := range verrs {
		ve.Fields = append(ve.Fields, FieldError{
			Field:   fieldName(fe),
			Message: describe(fe),
		})
	}
	return ve
}

func volunteerStructLevel(sl validator.StructLevel) {
	v := sl.Current().Interface().(Volunteer)

	switch v.VolunteerType {
	case VolunteerTypeTeam:
		if v.Members < 2 {
			sl.ReportError(v.Members, "members", "Members", "team_members", "")
		}
	case VolunteerTypeIndividual:
		if v.Members != 1 {
			sl.ReportError(v.Members, "members", "Members", "individual_members", "")
		}
	}
}

func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return fe.StructField()
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "team_members":
		return "a team must have at least 2 members"
	case "individual_members":
		return "an individual registration must have exactly 1 member"
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}
