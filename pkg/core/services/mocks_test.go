package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jakechorley/relief-coordinator/pkg/core/engine"
	"github.com/jakechorley/relief-coordinator/pkg/core/model"
	"github.com/jakechorley/relief-coordinator/pkg/db"
)

// mockStore implements every store interface the services use
type mockStore struct {
	operations []model.Operation
	volunteers []model.Volunteer

	getOperationsErr error
	getVolunteersErr error
	updateErr        error
	insertErr        error
	deleteErr        error
	upsertErr        error

	queries         []db.VolunteerQuery
	updated         []model.Volunteer
	inserted        []model.Volunteer
	deleted         []string
	upsertedOps     []model.Operation
	upsertedVols    []model.Volunteer
	upsertOpsCalls  int
	upsertVolsCalls int
}

func (m *mockStore) GetOperations(ctx context.Context) ([]model.Operation, error) {
	if m.getOperationsErr != nil {
		return nil, m.getOperationsErr
	}
	return m.operations, nil
}

// GetVolunteers applies the query the way the Postgres store does
func (m *mockStore) GetVolunteers(ctx context.Context, query db.VolunteerQuery) ([]model.Volunteer, error) {
	m.queries = append(m.queries, query)
	if m.getVolunteersErr != nil {
		return nil, m.getVolunteersErr
	}
	if query.IsEmpty() {
		return m.volunteers, nil
	}
	return engine.Filter(m.volunteers, engine.FilterSpec{
		Roles:         query.Roles,
		Languages:     query.Languages,
		AvailableTime: query.AvailableTime,
		DateFrom:      query.DateFrom,
		AssignedState: query.AssignedState,
	}, nil), nil
}

func (m *mockStore) UpdateVolunteer(ctx context.Context, volunteer *model.Volunteer) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	for i := range m.volunteers {
		if m.volunteers[i].ID == volunteer.ID {
			m.volunteers[i] = *volunteer
			m.updated = append(m.updated, *volunteer)
			return nil
		}
	}
	return fmt.Errorf("volunteer %s: %w", volunteer.ID, db.ErrNotFound)
}

func (m *mockStore) InsertVolunteer(ctx context.Context, volunteer *model.Volunteer) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, *volunteer)
	m.volunteers = append(m.volunteers, *volunteer)
	return nil
}

func (m *mockStore) DeleteVolunteer(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for i := range m.volunteers {
		if m.volunteers[i].ID == id {
			m.volunteers = append(m.volunteers[:i], m.volunteers[i+1:]...)
			m.deleted = append(m.deleted, id)
			return nil
		}
	}
	return fmt.Errorf("volunteer %s: %w", id, db.ErrNotFound)
}

func (m *mockStore) UpsertOperations(ctx context.Context, operations []model.Operation) error {
	m.upsertOpsCalls++
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upsertedOps = append(m.upsertedOps, operations...)
	return nil
}

func (m *mockStore) UpsertVolunteers(ctx context.Context, volunteers []model.Volunteer) error {
	m.upsertVolsCalls++
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upsertedVols = append(m.upsertedVols, volunteers...)
	return nil
}

// mockSource implements RecordSource
type mockSource struct {
	operations []engine.Record
	volunteers []engine.Record
	opsErr     error
	volsErr    error
}

func (m *mockSource) FetchOperations(ctx context.Context) ([]engine.Record, error) {
	return m.operations, m.opsErr
}

func (m *mockSource) FetchVolunteers(ctx context.Context) ([]engine.Record, error) {
	return m.volunteers, m.volsErr
}

var testNow = time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)

func testOperations() []model.Operation {
	return []model.Operation{
		{ID: "op1", Name: "Flood Relief A", VolunteerCountNeeded: 5, Status: "active"},
		{ID: "op2", Name: "Shelter North", VolunteerCountNeeded: 3, Status: "active"},
	}
}

func testVolunteer(id, name string) model.Volunteer {
	return model.Volunteer{
		ID:               id,
		FullName:         name,
		VolunteerType:    model.VolunteerTypeIndividual,
		Members:          1,
		AssignmentStatus: model.StatusNotAssigned,
	}
}

func testTeam(id, name string, members int) model.Volunteer {
	v := testVolunteer(id, name)
	v.VolunteerType = model.VolunteerTypeTeam
	v.Members = members
	return v
}

func assigned(v model.Volunteer, operationID string) model.Volunteer {
	v.AssignmentStatus = model.StatusAssigned
	v.OperationID = operationID
	v.AssignedTo = operationID
	return v
}

func newTestStore() *mockStore {
	medic := testVolunteer("v2", "Ben")
	medic.Roles = []string{"Medic"}
	medic.Languages = []string{"English"}

	return &mockStore{
		operations: testOperations(),
		volunteers: []model.Volunteer{
			assigned(testVolunteer("v1", "Ana"), "op1"),
			medic,
			assigned(testTeam("t1", "Rescue Team", 3), "op1"),
			testVolunteer("v3", "Cara"),
		},
	}
}
