package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Alik192/AI-Travel-Planner/internal/api/location"
	"github.com/Alik192/AI-Travel-Planner/internal/types"
)

type MockPlannerService struct {
	mock.Mock
}

func (m *MockPlannerService) BuildContext(ctx context.Context, req types.TripRequest) (types.TripContext, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(types.TripContext), args.Error(1)
}

func (m *MockPlannerService) ComposePlan(ctx context.Context, tc types.TripContext) (string, error) {
	args := m.Called(ctx, tc)
	return args.String(0), args.Error(1)
}

func (m *MockPlannerService) Plan(ctx context.Context, req types.TripRequest) (types.PlanResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(types.PlanResult), args.Error(1)
}

func newTestRouter(service Service, resolver location.Resolver) http.Handler {
	h := NewHandler(service, resolver, slog.Default())
	r := chi.NewRouter()
	r.Post("/api/v1/plan", h.GeneratePlan)
	r.Get("/api/v1/locations/{city}", h.ResolveLocation)
	return r
}

func validPlanBody() map[string]any {
	return map[string]any{
		"origin_iata":      "ARN",
		"destination_city": "Lisbon",
		"vacation_type":    "Relaxing",
		"adults":           2,
		"children":         0,
		"duration_days":    7,
		"start_date":       "2026-10-10",
		"budget":           3000,
		"budget_currency":  "EUR",
	}
}

func postPlan(t *testing.T, router http.Handler, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/plan", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGeneratePlan_Success(t *testing.T) {
	service := new(MockPlannerService)
	planID := uuid.New()
	service.On("Plan", mock.Anything, mock.MatchedBy(func(req types.TripRequest) bool {
		return req.OriginIATA == "ARN" && req.DestinationCity == "Lisbon" && req.Adults == 2
	})).Return(types.PlanResult{
		ID:       planID,
		PlanText: samplePlan,
		Context:  types.TripContext{Destination: types.LocationCode{IATA: "LIS", Country: "PT"}},
	}, nil)

	rec := postPlan(t, newTestRouter(service, nil), validPlanBody())
	require.Equal(t, http.StatusOK, rec.Code)

	var resp planResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, planID.String(), resp.ID)
	assert.Equal(t, samplePlan, resp.PlanText)
	assert.Contains(t, resp.Sections.Accommodation, "Hotel Tejo")
	assert.Equal(t, 780.0, resp.Costs["Flights"])
	assert.Equal(t, "LIS", resp.Context.Destination.IATA)
	service.AssertExpectations(t)
}

func TestGeneratePlan_ValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(body map[string]any)
	}{
		{"missing origin", func(b map[string]any) { b["origin_iata"] = "" }},
		{"missing destination", func(b map[string]any) { b["destination_city"] = "  " }},
		{"zero adults", func(b map[string]any) { b["adults"] = 0 }},
		{"negative children", func(b map[string]any) { b["children"] = -1 }},
		{"zero duration", func(b map[string]any) { b["duration_days"] = 0 }},
		{"zero budget", func(b map[string]any) { b["budget"] = 0 }},
		{"bad start date", func(b map[string]any) { b["start_date"] = "10/10/2026" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockPlannerService)
			body := validPlanBody()
			tt.mutate(body)

			rec := postPlan(t, newTestRouter(service, nil), body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			service.AssertNotCalled(t, "Plan", mock.Anything, mock.Anything)
		})
	}
}

func TestGeneratePlan_MalformedJSON(t *testing.T) {
	service := new(MockPlannerService)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/plan", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	newTestRouter(service, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	service.AssertNotCalled(t, "Plan", mock.Anything, mock.Anything)
}

func TestGeneratePlan_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"unknown destination", fmt.Errorf("could not generate plan: %w", types.ErrNotFound), http.StatusNotFound},
		{"missing credential", fmt.Errorf("amadeus credentials missing: %w", types.ErrConfig), http.StatusServiceUnavailable},
		{"generation failure", fmt.Errorf("model returned no content: %w", types.ErrGeneration), http.StatusBadGateway},
		{"unexpected failure", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockPlannerService)
			service.On("Plan", mock.Anything, mock.Anything).Return(types.PlanResult{}, tt.err)

			rec := postPlan(t, newTestRouter(service, nil), validPlanBody())
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestResolveLocation_Success(t *testing.T) {
	resolver := new(MockResolver)
	resolver.On("Resolve", mock.Anything, "Lisbon").Return(types.LocationCode{IATA: "LIS", Country: "PT"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/locations/Lisbon", nil)
	rec := httptest.NewRecorder()
	newTestRouter(new(MockPlannerService), resolver).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var loc types.LocationCode
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loc))
	assert.Equal(t, "LIS", loc.IATA)
	assert.Equal(t, "PT", loc.Country)
}

func TestResolveLocation_NotFound(t *testing.T) {
	resolver := new(MockResolver)
	resolver.On("Resolve", mock.Anything, "Atlantis").
		Return(types.LocationCode{}, fmt.Errorf("no airport codes for city %q: %w", "Atlantis", types.ErrNotFound))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/locations/Atlantis", nil)
	rec := httptest.NewRecorder()
	newTestRouter(new(MockPlannerService), resolver).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
