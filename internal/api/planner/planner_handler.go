package planner

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alik192/AI-Travel-Planner/internal/api"
	"github.com/Alik192/AI-Travel-Planner/internal/api/location"
	"github.com/Alik192/AI-Travel-Planner/internal/types"
)

type Handler struct {
	service  Service
	resolver location.Resolver
	logger   *slog.Logger
}

func NewHandler(service Service, resolver location.Resolver, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		resolver: resolver,
		logger:   logger,
	}
}

// planResponse is the JSON body returned for a generated plan. Sections are
// parsed defensively out of the raw text; raw text is always present.
type planResponse struct {
	ID       string             `json:"id"`
	PlanText string             `json:"plan_text"`
	Sections PlanSections       `json:"sections"`
	Costs    map[string]float64 `json:"costs,omitempty"`
	Context  types.TripContext  `json:"context"`
}

// GeneratePlan handles POST /api/v1/plan.
func (h *Handler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("GeneratePlan").Start(r.Context(), "GeneratePlan", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/plan"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GeneratePlan"))

	var req api.PlanRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	tripReq, err := toTripRequest(req)
	if err != nil {
		l.WarnContext(ctx, "Invalid plan request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	l = l.With(
		slog.String("destination", tripReq.DestinationCity),
		slog.String("origin", tripReq.OriginIATA),
	)

	result, err := h.service.Plan(ctx, tripReq)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, err.Error())
		case errors.Is(err, types.ErrConfig):
			api.ErrorResponse(w, r, http.StatusServiceUnavailable, err.Error())
		case errors.Is(err, types.ErrGeneration):
			api.ErrorResponse(w, r, http.StatusBadGateway, err.Error())
		default:
			l.ErrorContext(ctx, "Plan generation failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to generate plan")
		}
		return
	}

	sections := SplitSections(result.PlanText)
	resp := planResponse{
		ID:       result.ID.String(),
		PlanText: result.PlanText,
		Sections: sections,
		Costs:    ParseCostBreakdown(sections.Cost),
		Context:  result.Context,
	}
	l.InfoContext(ctx, "Plan generated", slog.String("plan_id", resp.ID))
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// ResolveLocation handles GET /api/v1/locations/{city}, a probe for the
// airport-code resolver.
func (h *Handler) ResolveLocation(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ResolveLocation").Start(r.Context(), "ResolveLocation", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/locations/{city}"),
	))
	defer span.End()

	city := chi.URLParam(r, "city")
	if strings.TrimSpace(city) == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "city is required")
		return
	}

	loc, err := h.resolver.Resolve(ctx, city)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, err.Error())
			return
		}
		h.logger.ErrorContext(ctx, "Location resolution failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to resolve location")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, loc)
}

// toTripRequest validates the wire request and converts it to the internal
// immutable trip request.
func toTripRequest(req api.PlanRequest) (types.TripRequest, error) {
	if strings.TrimSpace(req.OriginIATA) == "" {
		return types.TripRequest{}, errors.New("origin_iata is required")
	}
	if strings.TrimSpace(req.DestinationCity) == "" {
		return types.TripRequest{}, errors.New("destination_city is required")
	}
	if req.Adults < 1 {
		return types.TripRequest{}, errors.New("adults must be at least 1")
	}
	if req.Children < 0 {
		return types.TripRequest{}, errors.New("children must not be negative")
	}
	if req.DurationDays < 1 {
		return types.TripRequest{}, errors.New("duration_days must be at least 1")
	}
	if req.Budget <= 0 {
		return types.TripRequest{}, errors.New("budget must be positive")
	}
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return types.TripRequest{}, errors.New("start_date must be formatted as YYYY-MM-DD")
	}
	return types.TripRequest{
		OriginIATA:      strings.ToUpper(strings.TrimSpace(req.OriginIATA)),
		DestinationCity: strings.TrimSpace(req.DestinationCity),
		VacationType:    req.VacationType,
		Adults:          req.Adults,
		Children:        req.Children,
		DurationDays:    req.DurationDays,
		StartDate:       startDate,
		Budget:          req.Budget,
		BudgetCurrency:  req.BudgetCurrency,
	}, nil
}
