package engine

import (
	"slices"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/jakechorley/relief-coordinator/pkg/core/model"
)

type MatchMethod string

const (
	MatchNone   MatchMethod = "none"
	MatchByID   MatchMethod = "id"
	MatchByName MatchMethod = "name"
)

// minSuggestionSimilarity is the Levenshtein similarity an operation name needs
// before it is offered as a suggestion for an unresolved target
const minSuggestionSimilarity = 0.5

// MatchResult is the outcome of matching one volunteer against the operation list
type MatchResult struct {
	// Operation is nil when the volunteer matches nothing
	Operation *model.Operation
	Method    MatchMethod
	Warnings  []Warning
}

// OperationID returns the matched operation's ID, or "" when unmatched
func (r MatchResult) OperationID() string {
	if r.Operation == nil {
		return ""
	}
	return r.Operation.ID
}

// Matcher resolves which operation a volunteer record belongs to.
// It is built per call from an explicit operation list and holds no shared state.
type Matcher struct {
	operations []model.Operation // sorted by ID, unique IDs
	byID       map[string]int
	byName     map[string][]int // folded name -> indexes sorted by ID
}

// NewMatcher indexes operations by ID and by case-folded name. Operations are ordered by
// plain string comparison of their IDs, which decides ambiguous name matches.
// When IDs repeat, the first occurrence wins.
func NewMatcher(operations []model.Operation) *Matcher {
	m := &Matcher{
		byID:   make(map[string]int, len(operations)),
		byName: make(map[string][]int),
	}

	seen := make(map[string]bool, len(operations))
	for _, op := range operations {
		id := strings.TrimSpace(op.ID)
		if seen[id] {
			continue
		}
		seen[id] = true
		m.operations = append(m.operations, op)
	}
	slices.SortStableFunc(m.operations, func(a, b model.Operation) int {
		return strings.Compare(a.ID, b.ID)
	})

	for i, op := range m.operations {
		if id := strings.TrimSpace(op.ID); id != "" {
			m.byID[id] = i
		}
		if name := fold(op.Name); name != "" {
			m.byName[name] = append(m.byName[name], i)
		}
	}

	return m
}

// Operations returns the indexed operations sorted by ID
func (m *Matcher) Operations() []model.Operation {
	return slices.Clone(m.operations)
}

// Lookup returns the operation with the given ID
func (m *Matcher) Lookup(id string) (*model.Operation, bool) {
	i, ok := m.byID[strings.TrimSpace(id)]
	if !ok {
		return nil, false
	}
	op := m.operations[i]
	return &op, true
}

// Match runs the ordered chain: identity, then name fallback, then none.
// An explicit ID match is never overridden by a name match.
func (m *Matcher) Match(v model.Volunteer) MatchResult {
	if op, ok := m.matchByID(v); ok {
		return MatchResult{Operation: op, Method: MatchByID}
	}

	var warnings []Warning
	if id := strings.TrimSpace(v.OperationID); id != "" {
		warnings = append(warnings, danglingReferenceWarning(v.ID, id))
	}

	if op, w, ok := m.matchByName(v); ok {
		if w != nil {
			warnings = append(warnings, *w)
		}
		return MatchResult{Operation: op, Method: MatchByName, Warnings: warnings}
	}

	return MatchResult{Method: MatchNone, Warnings: warnings}
}

// matchByID matches on operationId == operation.id with both non-empty
func (m *Matcher) matchByID(v model.Volunteer) (*model.Operation, bool) {
	if strings.TrimSpace(v.OperationID) == "" {
		return nil, false
	}
	return m.Lookup(v.OperationID)
}

// matchByName compares operation names with assignedTo, then with the denormalized operationName.
// Blank values never match each other.
func (m *Matcher) matchByName(v model.Volunteer) (*model.Operation, *Warning, bool) {
	for _, candidate := range []string{v.AssignedTo, v.OperationName} {
		op, w, ok := m.lookupName(v.ID, candidate)
		if ok {
			return op, w, true
		}
	}
	return nil, nil, false
}

func (m *Matcher) lookupName(volunteerID, name string) (*model.Operation, *Warning, bool) {
	key := fold(name)
	if key == "" {
		return nil, nil, false
	}
	idxs, ok := m.byName[key]
	if !ok {
		return nil, nil, false
	}

	op := m.operations[idxs[0]]
	if len(idxs) == 1 {
		return &op, nil, true
	}

	ids := make([]string, 0, len(idxs))
	for _, i := range idxs {
		ids = append(ids, m.operations[i].ID)
	}
	w := ambiguousMatchWarning(volunteerID, strings.TrimSpace(name), ids)
	return &op, &w, true
}

// Resolve turns a free-text assignment target into an operation: exact ID first, then name.
func (m *Matcher) Resolve(volunteerID, target string) (*model.Operation, []Warning) {
	if op, ok := m.Lookup(target); ok {
		return op, nil
	}
	op, w, ok := m.lookupName(volunteerID, target)
	if !ok {
		return nil, nil
	}
	if w != nil {
		return op, []Warning{*w}
	}
	return op, nil
}

// Suggest returns the operation name closest to target, or "" when nothing is close enough
func (m *Matcher) Suggest(target string) string {
	key := fold(target)
	if key == "" {
		return ""
	}

	best := ""
	var bestScore float32
	for _, op := range m.operations {
		if strings.TrimSpace(op.Name) == "" {
			continue
		}
		score, err := edlib.StringsSimilarity(key, fold(op.Name), edlib.Levenshtein)
		if err != nil {
			continue
		}
		if score > bestScore {
			best, bestScore = op.Name, score
		}
	}

	if bestScore < minSuggestionSimilarity {
		return ""
	}
	return best
}
