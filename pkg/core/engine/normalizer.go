package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/jakechorley/relief-coordinator/pkg/core/model"
)

// Record is a raw operation or volunteer as delivered by a collaborator
// (a sheet row keyed by header, decoded JSON/YAML, an API request body)
type Record map[string]any

// Alias chains, first present key wins. Keys are compared after canonicalKey.
var (
	operationIDKeys     = []string{"id", "operationId", "_id"}
	operationNameKeys   = []string{"operationName", "name", "title"}
	operationNeededKeys = []string{"volunteerCountNeeded", "volunteersNeeded", "needed"}
	operationStatusKeys = []string{"status"}

	volunteerIDKeys            = []string{"id", "volunteerId", "_id"}
	volunteerNameKeys          = []string{"fullName", "name"}
	volunteerPhoneKeys         = []string{"phone", "phoneNumber", "contactPhone"}
	volunteerEmailKeys         = []string{"email", "contactEmail"}
	volunteerTypeKeys          = []string{"volunteerType", "type"}
	volunteerMembersKeys       = []string{"members", "teamSize", "memberCount"}
	volunteerRolesKeys         = []string{"roles", "skills"}
	volunteerLanguagesKeys     = []string{"languages", "language"}
	volunteerDateKeys          = []string{"date", "availableDate", "registrationDate"}
	volunteerAvailableKeys     = []string{"availableTime", "availability"}
	volunteerAreaKeys          = []string{"livingArea", "area", "location"}
	volunteerOperationIDKeys   = []string{"operationId"}
	volunteerOperationNameKeys = []string{"operationName", "operation"}
	volunteerStatusKeys        = []string{"assignmentStatus", "status"}
	volunteerAssignedDateKeys  = []string{"assignedDate"}
	volunteerAssignedByKeys    = []string{"assignedBy"}
	volunteerAssignedToKeys    = []string{"assignedTo", "assignment"}
	volunteerAssignNotesKeys   = []string{"assignmentNotes"}
	volunteerNotesKeys         = []string{"notes"}
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
}

// NormalizeOperation resolves field aliases into the canonical Operation shape.
// Missing fields default to zero values.
func NormalizeOperation(raw Record) (model.Operation, error) {
	if raw == nil {
		return model.Operation{}, ErrNilRecord
	}
	r := canonicalize(raw)

	needed := r.getInt(operationNeededKeys)
	if needed < 0 {
		needed = 0
	}

	return model.Operation{
		ID:                   r.getString(operationIDKeys),
		Name:                 r.getString(operationNameKeys),
		VolunteerCountNeeded: needed,
		Status:               r.getString(operationStatusKeys),
	}, nil
}

// NormalizeVolunteer resolves field aliases into the canonical Volunteer shape.
// Missing fields default to zero values, members defaults to 1 and status to not_assigned.
func NormalizeVolunteer(raw Record) (model.Volunteer, error) {
	if raw == nil {
		return model.Volunteer{}, ErrNilRecord
	}
	r := canonicalize(raw)

	members := r.getInt(volunteerMembersKeys)
	if members < 1 {
		members = 1
	}

	return model.Volunteer{
		ID:               r.getString(volunteerIDKeys),
		FullName:         r.getString(volunteerNameKeys),
		Phone:            r.getString(volunteerPhoneKeys),
		Email:            r.getString(volunteerEmailKeys),
		VolunteerType:    parseVolunteerType(r.getString(volunteerTypeKeys)),
		Members:          members,
		Roles:            r.getSet(volunteerRolesKeys),
		Languages:        r.getSet(volunteerLanguagesKeys),
		Date:             r.getTime(volunteerDateKeys),
		AvailableTime:    parseTimeSlots(r.getSet(volunteerAvailableKeys)),
		LivingArea:       r.getString(volunteerAreaKeys),
		OperationID:      r.getString(volunteerOperationIDKeys),
		OperationName:    r.getString(volunteerOperationNameKeys),
		AssignmentStatus: ParseAssignmentStatus(r.getString(volunteerStatusKeys)),
		AssignedDate:     r.getTime(volunteerAssignedDateKeys),
		AssignedBy:       r.getString(volunteerAssignedByKeys),
		AssignedTo:       r.getString(volunteerAssignedToKeys),
		AssignmentNotes:  r.getString(volunteerAssignNotesKeys),
		Notes:            r.getString(volunteerNotesKeys),
	}, nil
}

// NormalizeOperations normalizes a batch, failing on the first nil record
func NormalizeOperations(raws []Record) ([]model.Operation, error) {
	ops := make([]model.Operation, 0, len(raws))
	for i, raw := range raws {
		op, err := NormalizeOperation(raw)
		if err != nil {
			return nil, fmt.Errorf("operation record %d: %w", i, err)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// NormalizeVolunteers normalizes a batch, failing on the first nil record
func NormalizeVolunteers(raws []Record) ([]model.Volunteer, error) {
	vols := make([]model.Volunteer, 0, len(raws))
	for i, raw := range raws {
		v, err := NormalizeVolunteer(raw)
		if err != nil {
			return nil, fmt.Errorf("volunteer record %d: %w", i, err)
		}
		vols = append(vols, v)
	}
	return vols, nil
}

// ParseAssignmentStatus maps the spellings seen in the wild onto the two states.
// Anything unrecognised is treated as not_assigned.
func ParseAssignmentStatus(s string) model.AssignmentStatus {
	switch canonicalKey(s) {
	case "assigned", "confirmed", "deployed":
		return model.StatusAssigned
	default:
		return model.StatusNotAssigned
	}
}

func parseVolunteerType(s string) model.VolunteerType {
	switch canonicalKey(s) {
	case "team", "group":
		return model.VolunteerTypeTeam
	default:
		return model.VolunteerTypeIndividual
	}
}

func parseTimeSlots(values []string) []model.TimeSlot {
	var slots []model.TimeSlot
	seen := make(map[model.TimeSlot]bool)
	for _, v := range values {
		var slot model.TimeSlot
		switch canonicalKey(v) {
		case "daytime", "day", "days":
			slot = model.SlotDaytime
		case "night", "nights", "nighttime":
			slot = model.SlotNight
		default:
			continue
		}
		if !seen[slot] {
			seen[slot] = true
			slots = append(slots, slot)
		}
	}
	return slots
}

// canonicalKey lower-cases s and drops spaces, underscores and hyphens,
// so "Full name", "full_name" and "fullName" compare equal
func canonicalKey(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsSpace(r) || r == '_' || r == '-' {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

type canonicalRecord map[string]any

func canonicalize(raw Record) canonicalRecord {
	r := make(canonicalRecord, len(raw))
	winners := make(map[string]string, len(raw))
	for k, v := range raw {
		key := canonicalKey(k)
		// Several raw keys can fold together ("_id" and "id"): prefer a non-empty
		// value, then the smallest raw key, so the result is independent of map order
		if prev, ok := winners[key]; ok {
			if isEmpty(v) || (!isEmpty(r[key]) && prev < k) {
				continue
			}
		}
		winners[key] = k
		r[key] = v
	}
	return r
}

func (r canonicalRecord) lookup(keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := r[canonicalKey(k)]; ok && !isEmpty(v) {
			return v, true
		}
	}
	return nil, false
}

func (r canonicalRecord) getString(keys []string) string {
	v, ok := r.lookup(keys)
	if !ok {
		return ""
	}
	return strings.TrimSpace(toString(v))
}

func (r canonicalRecord) getInt(keys []string) int {
	v, ok := r.lookup(keys)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return int(n)
	case float32:
		return int(n)
	case string:
		s := strings.TrimSpace(n)
		if i, err := strconv.Atoi(s); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return int(f)
		}
	}
	return 0
}

func (r canonicalRecord) getSet(keys []string) []string {
	v, ok := r.lookup(keys)
	if !ok {
		return nil
	}

	var items []string
	switch s := v.(type) {
	case []string:
		items = s
	case []any:
		for _, item := range s {
			items = append(items, toString(item))
		}
	case string:
		items = strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	default:
		items = []string{toString(s)}
	}

	var out []string
	seen := make(map[string]bool)
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := fold(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

func (r canonicalRecord) getTime(keys []string) time.Time {
	v, ok := r.lookup(keys)
	if !ok {
		return time.Time{}
	}
	switch t := v.(type) {
	case time.Time:
		return t
	case *time.Time:
		if t != nil {
			return *t
		}
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(s)
	}
}

func isEmpty(v any) bool {
	switch s := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(s) == ""
	case []any:
		return len(s) == 0
	case []string:
		return len(s) == 0
	}
	return false
}
