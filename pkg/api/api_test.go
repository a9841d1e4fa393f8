package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/relief-coordinator/pkg/core/engine"
	"github.com/jakechorley/relief-coordinator/pkg/core/model"
	"github.com/jakechorley/relief-coordinator/pkg/core/services"
	"github.com/jakechorley/relief-coordinator/pkg/db"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testNow = time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)

type mockStore struct {
	operations []model.Operation
	volunteers []model.Volunteer

	pingErr          error
	getOperationsErr error
}

func (m *mockStore) Ping(ctx context.Context) error {
	return m.pingErr
}

func (m *mockStore) GetOperations(ctx context.Context) ([]model.Operation, error) {
	return m.operations, m.getOperationsErr
}

func (m *mockStore) GetVolunteers(ctx context.Context, query db.VolunteerQuery) ([]model.Volunteer, error) {
	return engine.Filter(m.volunteers, engine.FilterSpec{
		Roles:         query.Roles,
		Languages:     query.Languages,
		AvailableTime: query.AvailableTime,
		DateFrom:      query.DateFrom,
		AssignedState: query.AssignedState,
	}, nil), nil
}

func (m *mockStore) UpdateVolunteer(ctx context.Context, volunteer *model.Volunteer) error {
	for i := range m.volunteers {
		if m.volunteers[i].ID == volunteer.ID {
			m.volunteers[i] = *volunteer
			return nil
		}
	}
	return fmt.Errorf("volunteer %s: %w", volunteer.ID, db.ErrNotFound)
}

func (m *mockStore) InsertVolunteer(ctx context.Context, volunteer *model.Volunteer) error {
	m.volunteers = append(m.volunteers, *volunteer)
	return nil
}

func (m *mockStore) DeleteVolunteer(ctx context.Context, id string) error {
	for i := range m.volunteers {
		if m.volunteers[i].ID == id {
			m.volunteers = append(m.volunteers[:i], m.volunteers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("volunteer %s: %w", id, db.ErrNotFound)
}

func volunteer(id, name string, members int) model.Volunteer {
	v := model.Volunteer{
		ID:               id,
		FullName:         name,
		VolunteerType:    model.VolunteerTypeIndividual,
		Members:          members,
		AssignmentStatus: model.StatusNotAssigned,
	}
	if members > 1 {
		v.VolunteerType = model.VolunteerTypeTeam
	}
	return v
}

func assignedTo(v model.Volunteer, operationID string) model.Volunteer {
	v.AssignmentStatus = model.StatusAssigned
	v.OperationID = operationID
	v.AssignedTo = operationID
	return v
}

func newTestStore() *mockStore {
	medic := volunteer("v2", "Ben", 1)
	medic.Roles = []string{"Medic"}
	medic.Languages = []string{"English"}

	return &mockStore{
		operations: []model.Operation{
			{ID: "op1", Name: "Flood Relief A", VolunteerCountNeeded: 5},
			{ID: "op2", Name: "Shelter North", VolunteerCountNeeded: 3},
		},
		volunteers: []model.Volunteer{
			assignedTo(volunteer("v1", "Ana", 1), "op1"),
			medic,
			assignedTo(volunteer("t1", "Rescue Team", 3), "op1"),
			volunteer("v3", "Cara", 1),
		},
	}
}

type testServer struct {
	server  *Server
	store   *mockStore
	metrics *Metrics
}

func newTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry, registry)
	store := newTestStore()
	if opts.Now == nil {
		opts.Now = func() time.Time { return testNow }
	}
	return &testServer{
		server:  NewServer(store, zap.NewNop(), metrics, opts),
		store:   store,
		metrics: metrics,
	}
}

func (ts *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, Options{})

	rec := ts.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	ts.store.pingErr = errors.New("connection refused")
	rec = ts.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestListVolunteers(t *testing.T) {
	ts := newTestServer(t, Options{})

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{name: "no filter", query: "", wantIDs: []string{"v1", "v2", "v3", "t1"}},
		{name: "facets", query: "?role=medic&language=English", wantIDs: []string{"v2"}},
		{name: "status", query: "?status=assigned", wantIDs: []string{"v1", "t1"}},
		{name: "operation name", query: "?operation=flood&type=team", wantIDs: []string{"t1"}},
		{name: "text", query: "?q=cara", wantIDs: []string{"v3"}},
		{name: "no match", query: "?role=Pilot", wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodGet, "/volunteers"+tt.query, "")
			require.Equal(t, http.StatusOK, rec.Code)

			resp := decode[listResponse](t, rec)
			ids := []string{}
			for _, v := range resp.Volunteers {
				ids = append(ids, v.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, len(tt.wantIDs), resp.Count)
		})
	}
}

func TestListVolunteers_InvalidFilter(t *testing.T) {
	ts := newTestServer(t, Options{})

	rec := ts.do(t, http.MethodGet, "/volunteers?status=maybe&dateFrom=yesterday", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decode[errorResponse](t, rec)
	require.Len(t, resp.Fields, 2)
	assert.Equal(t, "status", resp.Fields[0].Field)
	assert.Equal(t, "dateFrom", resp.Fields[1].Field)
}

func TestStatistics(t *testing.T) {
	ts := newTestServer(t, Options{})

	rec := ts.do(t, http.MethodGet, "/volunteers/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, model.Statistics{
		Total:              4,
		Assigned:           2,
		Unassigned:         2,
		AssignedPercentage: 50,
		Teams:              1,
		Individuals:        3,
		AssignedUnits:      4,
	}, decode[model.Statistics](t, rec))
}

func TestCapacity(t *testing.T) {
	ts := newTestServer(t, Options{})

	rec := ts.do(t, http.MethodGet, "/operations/capacity", "")
	require.Equal(t, http.StatusOK, rec.Code)

	report := decode[engine.Report](t, rec)
	assert.Equal(t, []model.CapacitySnapshot{
		{OperationID: "op1", OperationName: "Flood Relief A", Needed: 5, Filled: 4, Remaining: 1},
		{OperationID: "op2", OperationName: "Shelter North", Needed: 3, Filled: 0, Remaining: 3},
	}, report.Capacity)
}

func TestCapacity_StoreErrorIsHidden(t *testing.T) {
	ts := newTestServer(t, Options{})
	ts.store.getOperationsErr = errors.New("pq: password authentication failed")

	rec := ts.do(t, http.MethodGet, "/operations/capacity", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestOverview_IncludesScheduledReports(t *testing.T) {
	ts := newTestServer(t, Options{ReportSchedule: "FREQ=DAILY;BYHOUR=8;BYMINUTE=0;BYSECOND=0"})

	rec := ts.do(t, http.MethodGet, "/overview", "")
	require.Equal(t, http.StatusOK, rec.Code)

	overview := decode[services.Overview](t, rec)
	assert.Equal(t, 2, overview.Statistics.Assigned)
	require.Len(t, overview.NextReports, 3)
	assert.True(t, overview.NextReports[0].Equal(time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC)))
}

func TestAssignment(t *testing.T) {
	ts := newTestServer(t, Options{})

	rec := ts.do(t, http.MethodPut, "/volunteers/v2/assignment",
		`{"status":"assigned","assignedTo":"shelter north","assignedBy":"coordinator"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[transitionResponse](t, rec)
	assert.True(t, resp.Changed)
	assert.Equal(t, model.StatusAssigned, resp.Volunteer.AssignmentStatus)
	assert.Equal(t, "op2", resp.Volunteer.OperationID)
	assert.Equal(t, "coordinator", resp.Volunteer.AssignedBy)
	assert.Equal(t, []model.CapacitySnapshot{
		{OperationID: "op2", OperationName: "Shelter North", Needed: 3, Filled: 1, Remaining: 2},
	}, resp.Affected)
	assert.Equal(t, 3, resp.Statistics.Assigned)
	assert.Equal(t, 75, resp.Statistics.AssignedPercentage)

	// repeating the same assignment is a no-op
	rec = ts.do(t, http.MethodPut, "/volunteers/v2/assignment", `{"status":"assigned","assignedTo":"op2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[transitionResponse](t, rec).Changed)

	assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.transitions.WithLabelValues("assigned", "changed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.transitions.WithLabelValues("assigned", "noop")))
}

func TestUnassignment(t *testing.T) {
	ts := newTestServer(t, Options{})

	rec := ts.do(t, http.MethodPut, "/volunteers/t1/assignment", `{"status":"not_assigned"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[transitionResponse](t, rec)
	assert.True(t, resp.Changed)
	assert.Equal(t, model.StatusNotAssigned, resp.Volunteer.AssignmentStatus)
	assert.Empty(t, resp.Volunteer.AssignedTo)
	assert.Equal(t, []model.CapacitySnapshot{
		{OperationID: "op1", OperationName: "Flood Relief A", Needed: 5, Filled: 1, Remaining: 4},
	}, resp.Affected)
	assert.Equal(t, model.StatusNotAssigned, ts.store.volunteers[2].AssignmentStatus)
}

func TestAssignment_Errors(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		body     string
		wantCode int
	}{
		{name: "unknown volunteer", id: "nobody", body: `{"status":"assigned","assignedTo":"op1"}`, wantCode: http.StatusNotFound},
		{name: "missing target", id: "v2", body: `{"status":"assigned"}`, wantCode: http.StatusBadRequest},
		{name: "invalid state", id: "v2", body: `{"status":"retired"}`, wantCode: http.StatusBadRequest},
		{name: "missing status", id: "v2", body: `{"assignedTo":"op1"}`, wantCode: http.StatusBadRequest},
		{name: "malformed body", id: "v2", body: `{"status":`, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, Options{})
			rec := ts.do(t, http.MethodPut, "/volunteers/"+tt.id+"/assignment", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}
}

func TestRegisterVolunteer(t *testing.T) {
	ts := newTestServer(t, Options{})

	rec := ts.do(t, http.MethodPost, "/volunteers",
		`{"Full name":"Dana","type":"Team","members":4,"skills":"Driver, Cook","assignmentStatus":"assigned"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	v := decode[model.Volunteer](t, rec)
	assert.NotEmpty(t, v.ID)
	assert.Equal(t, "Dana", v.FullName)
	assert.Equal(t, model.VolunteerTypeTeam, v.VolunteerType)
	assert.Equal(t, 4, v.Members)
	assert.Equal(t, []string{"Driver", "Cook"}, v.Roles)
	assert.Equal(t, model.StatusNotAssigned, v.AssignmentStatus)
	assert.Len(t, ts.store.volunteers, 5)
}

func TestRegisterVolunteer_Rejected(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{name: "missing name", body: `{"members":1}`, wantField: "fullName"},
		{name: "team of one", body: `{"fullName":"Solo","type":"team"}`, wantField: "members"},
		{name: "bad email", body: `{"fullName":"Eve","email":"not-an-email"}`, wantField: "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, Options{})
			rec := ts.do(t, http.MethodPost, "/volunteers", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			resp := decode[errorResponse](t, rec)
			require.NotEmpty(t, resp.Fields)
			assert.Equal(t, tt.wantField, resp.Fields[0].Field)
			assert.Len(t, ts.store.volunteers, 4)
		})
	}
}

func TestRegisterVolunteer_NullBody(t *testing.T) {
	ts := newTestServer(t, Options{})
	rec := ts.do(t, http.MethodPost, "/volunteers", `null`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteVolunteer(t *testing.T) {
	ts := newTestServer(t, Options{})

	rec := ts.do(t, http.MethodDelete, "/volunteers/v3", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Len(t, ts.store.volunteers, 3)

	rec = ts.do(t, http.MethodDelete, "/volunteers/v3", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, Options{})
	ts.do(t, http.MethodGet, "/volunteers/stats", "")
	ts.do(t, http.MethodGet, "/volunteers/stats", "")

	assert.Equal(t, 2.0, testutil.ToFloat64(ts.metrics.requestTotal.WithLabelValues("GET", "/volunteers/stats", "200")))

	rec := ts.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `relief_api_http_requests_total{method="GET",route="/volunteers/stats",status="200"} 2`)
}

func TestNewMetrics_ReusesRegisteredCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()
	first := NewMetrics(registry, registry)
	second := NewMetrics(registry, registry)

	assert.Same(t, first.requestTotal, second.requestTotal)
	assert.Same(t, first.requestDuration, second.requestDuration)
	assert.Same(t, first.transitions, second.transitions)
}
