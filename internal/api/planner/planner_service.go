// Package planner aggregates provider results for one trip request into a
// TripContext and composes the final vacation plan from it.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Alik192/AI-Travel-Planner/app/observability/metrics"
	"github.com/Alik192/AI-Travel-Planner/internal/api/attractions"
	"github.com/Alik192/AI-Travel-Planner/internal/api/currency"
	"github.com/Alik192/AI-Travel-Planner/internal/api/flights"
	"github.com/Alik192/AI-Travel-Planner/internal/api/hotels"
	"github.com/Alik192/AI-Travel-Planner/internal/api/location"
	"github.com/Alik192/AI-Travel-Planner/internal/api/weather"
	"github.com/Alik192/AI-Travel-Planner/internal/cache"
	"github.com/Alik192/AI-Travel-Planner/internal/types"
)

const dateLayout = "2006-01-02"

// Display placeholders for degraded categories. Each one is an honest "no
// data" marker, never a fabricated provider result.
const (
	noFlightsPlaceholder    = "No flights found for this route and dates."
	flightsErrorPlaceholder = "No flights found or an error occurred."
	noHotelsPlaceholder     = "No hotels found for this destination."
	hotelsErrorPlaceholder  = "No hotels found or an error occurred."
	weatherErrorPlaceholder = "Weather forecast is currently unavailable."
)

var _ Service = (*ServiceImpl)(nil)

// Service is the planning pipeline contract.
type Service interface {
	// BuildContext resolves the destination and merges all provider
	// results into one complete TripContext. Only a resolver miss is
	// fatal; every adapter failure degrades its own category.
	BuildContext(ctx context.Context, req types.TripRequest) (types.TripContext, error)
	// ComposePlan renders the TripContext into the fixed-section prompt
	// and returns the generated plan text verbatim.
	ComposePlan(ctx context.Context, tc types.TripContext) (string, error)
	// Plan runs BuildContext and ComposePlan for one request.
	Plan(ctx context.Context, req types.TripRequest) (types.PlanResult, error)
}

// Options are the planning knobs taken from configuration.
type Options struct {
	FlightResults   int
	HotelResults    int
	AttractionLimit int
	SearchRadiusM   int
	Currency        string
	ProviderTTL     time.Duration
	LocationTTL     time.Duration
}

// ServiceImpl wires the cached resolver, the four provider adapters, the
// currency converter and the generation client.
type ServiceImpl struct {
	logger      *slog.Logger
	resolver    location.Resolver
	flights     flights.Adapter
	hotels      hotels.Adapter
	weather     weather.Adapter
	attractions attractions.Adapter
	converter   currency.Converter
	generator   Generator
	store       *cache.Store
	opts        Options
}

// Generator produces one text completion for one prompt. Nil when the
// generation credential is missing; composing then fails with ErrGeneration.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

func NewService(
	resolver location.Resolver,
	flightAdapter flights.Adapter,
	hotelAdapter hotels.Adapter,
	weatherAdapter weather.Adapter,
	attractionAdapter attractions.Adapter,
	converter currency.Converter,
	generator Generator,
	store *cache.Store,
	opts Options,
	logger *slog.Logger,
) *ServiceImpl {
	if opts.Currency == "" {
		opts.Currency = "EUR"
	}
	return &ServiceImpl{
		logger:      logger,
		resolver:    resolver,
		flights:     flightAdapter,
		hotels:      hotelAdapter,
		weather:     weatherAdapter,
		attractions: attractionAdapter,
		converter:   converter,
		generator:   generator,
		store:       store,
		opts:        opts,
	}
}

func (s *ServiceImpl) Plan(ctx context.Context, req types.TripRequest) (types.PlanResult, error) {
	ctx, span := otel.Tracer("planner").Start(ctx, "Plan")
	defer span.End()
	span.SetAttributes(
		attribute.String("trip.origin", req.OriginIATA),
		attribute.String("trip.destination", req.DestinationCity),
		attribute.Int("trip.duration_days", req.DurationDays),
	)
	start := time.Now()

	tc, err := s.BuildContext(ctx, req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return types.PlanResult{}, err
	}
	planText, err := s.ComposePlan(ctx, tc)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return types.PlanResult{}, err
	}

	metrics.RecordPlan(ctx, time.Since(start), true)
	return types.PlanResult{
		ID:       uuid.New(),
		PlanText: planText,
		Context:  tc,
	}, nil
}

func (s *ServiceImpl) BuildContext(ctx context.Context, req types.TripRequest) (types.TripContext, error) {
	ctx, span := otel.Tracer("planner").Start(ctx, "BuildContext")
	defer span.End()

	l := s.logger.With(
		slog.String("destination", req.DestinationCity),
		slog.String("origin", req.OriginIATA),
	)

	// The resolver is the one hard prerequisite: every adapter needs the
	// destination codes, so a miss fails the whole run before any
	// provider is invoked.
	loc, err := cache.Cached(s.store, cache.Key("location", req.DestinationCity), s.opts.LocationTTL,
		func() (types.LocationCode, error) {
			return s.resolver.Resolve(ctx, req.DestinationCity)
		})
	if err != nil {
		l.WarnContext(ctx, "Destination could not be resolved", slog.Any("error", err))
		return types.TripContext{}, fmt.Errorf("could not generate plan: %w", err)
	}
	l = l.With(slog.String("iata", loc.IATA), slog.String("country", loc.Country))

	departure := req.StartDate.Format(dateLayout)
	returnDate := req.ReturnDate()
	returnStr := returnDate.Format(dateLayout)

	tc := types.TripContext{
		Request:     req,
		Destination: loc,
		ReturnDate:  returnDate,
		BudgetEUR:   s.convertBudget(ctx, l, req),
	}

	// Provider lookups are independent of each other; each failure or
	// empty result degrades only its own category.
	s.fillFlights(ctx, l, &tc, departure, returnStr)
	s.fillHotels(ctx, l, &tc, departure, returnStr)
	s.fillWeather(ctx, l, &tc)
	s.fillAttractions(ctx, l, &tc)

	return tc, nil
}

func (s *ServiceImpl) fillFlights(ctx context.Context, l *slog.Logger, tc *types.TripContext, departure, returnDate string) {
	req := tc.Request
	params := flights.SearchParams{
		Origin:        req.OriginIATA,
		Destination:   tc.Destination.IATA,
		DepartureDate: departure,
		ReturnDate:    returnDate,
		Adults:        req.Adults,
		Max:           s.opts.FlightResults,
	}
	key := cache.Key("flights", params.Origin, params.Destination, params.DepartureDate, params.ReturnDate, params.Adults, params.Max)
	found, err := cache.Cached(s.store, key, s.opts.ProviderTTL, func() ([]types.FlightOption, error) {
		metrics.CountProviderCall(ctx, "flights")
		return s.flights.Search(ctx, params)
	})
	switch {
	case err != nil:
		l.WarnContext(ctx, "Flight search degraded", slog.Any("error", err))
		metrics.CountProviderError(ctx, "flights")
		tc.FlightDetails = flightsErrorPlaceholder
	case len(found) == 0:
		tc.Flights = []types.FlightOption{}
		tc.FlightDetails = noFlightsPlaceholder
	default:
		sorted := make([]types.FlightOption, len(found))
		copy(sorted, found)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].TotalPrice < sorted[j].TotalPrice })
		tc.Flights = sorted

		lines := make([]string, 0, len(sorted))
		for i, f := range sorted {
			lines = append(lines, fmt.Sprintf("  - Option %d: %.2f EUR, Stops: %d", i+1, f.TotalPrice, f.Stops()))
		}
		tc.FlightDetails = strings.Join(lines, "\n")
	}
}

func (s *ServiceImpl) fillHotels(ctx context.Context, l *slog.Logger, tc *types.TripContext, checkin, checkout string) {
	req := tc.Request
	params := hotels.SearchParams{
		City:     req.DestinationCity,
		Country:  tc.Destination.Country,
		Checkin:  checkin,
		Checkout: checkout,
		Adults:   req.Adults,
		Children: req.Children,
		Currency: s.opts.Currency,
		TopN:     s.opts.HotelResults,
	}
	key := cache.Key("hotels", params.City, params.Country, params.Checkin, params.Checkout, params.Adults, params.Children, params.Currency, params.TopN)
	found, err := cache.Cached(s.store, key, s.opts.ProviderTTL, func() ([]types.HotelOption, error) {
		metrics.CountProviderCall(ctx, "hotels")
		return s.hotels.Search(ctx, params)
	})
	switch {
	case errors.Is(err, types.ErrEmptyResult):
		l.InfoContext(ctx, "No hotels found for destination")
		tc.HotelDetails = noHotelsPlaceholder
	case err != nil:
		l.WarnContext(ctx, "Hotel search degraded", slog.Any("error", err))
		metrics.CountProviderError(ctx, "hotels")
		tc.HotelDetails = hotelsErrorPlaceholder
	case len(found) == 0:
		tc.HotelDetails = noHotelsPlaceholder
	default:
		tc.Hotels = found
		lines := make([]string, 0, len(found))
		for _, h := range found {
			lines = append(lines, fmt.Sprintf("  - %s, Address: %s, Price: %.2f %s", h.Name, h.Address, h.Price, h.Currency))
		}
		tc.HotelDetails = strings.Join(lines, "\n")
	}
}

func (s *ServiceImpl) fillWeather(ctx context.Context, l *slog.Logger, tc *types.TripContext) {
	req := tc.Request
	key := cache.Key("weather", req.DestinationCity, tc.Destination.Country)
	summary, err := cache.Cached(s.store, key, s.opts.ProviderTTL, func() (types.WeatherSummary, error) {
		metrics.CountProviderCall(ctx, "weather")
		return s.weather.Forecast(ctx, req.DestinationCity, tc.Destination.Country)
	})
	if err != nil {
		l.WarnContext(ctx, "Weather forecast degraded", slog.Any("error", err))
		metrics.CountProviderError(ctx, "weather")
		tc.WeatherDetails = weatherErrorPlaceholder
		return
	}
	tc.Weather = summary
	tc.WeatherDetails = summary.Rendered
}

func (s *ServiceImpl) fillAttractions(ctx context.Context, l *slog.Logger, tc *types.TripContext) {
	req := tc.Request
	params := attractions.SearchParams{
		City:        req.DestinationCity,
		CountryCode: tc.Destination.Country,
		RadiusM:     s.opts.SearchRadiusM,
		Limit:       s.opts.AttractionLimit,
	}
	key := cache.Key("attractions", params.City, params.CountryCode, params.RadiusM, params.Limit)
	found, err := cache.Cached(s.store, key, s.opts.ProviderTTL, func() ([]types.Attraction, error) {
		metrics.CountProviderCall(ctx, "attractions")
		return s.attractions.Search(ctx, params)
	})
	if err != nil {
		l.WarnContext(ctx, "Attraction search degraded", slog.Any("error", err))
		metrics.CountProviderError(ctx, "attractions")
	} else {
		tc.Attractions = found
	}

	// Always present exactly AttractionLimit name lines: real attractions
	// first, generic fillers after. A filler is clearly filler, never a
	// claim that a real place was discovered.
	names := make([]string, 0, s.opts.AttractionLimit)
	for _, a := range tc.Attractions {
		if len(names) == s.opts.AttractionLimit {
			break
		}
		names = append(names, a.Name)
	}
	for i := len(names); i < s.opts.AttractionLimit; i++ {
		names = append(names, fmt.Sprintf("Popular attraction in %s #%d", req.DestinationCity, i+1))
	}
	tc.AttractionNames = names
}

// convertBudget expresses the request budget in the plan currency.
// Conversion failure is never fatal: the raw amount is used and logged.
func (s *ServiceImpl) convertBudget(ctx context.Context, l *slog.Logger, req types.TripRequest) float64 {
	from := strings.ToUpper(strings.TrimSpace(req.BudgetCurrency))
	if from == "" || from == s.opts.Currency || s.converter == nil {
		return req.Budget
	}
	key := cache.Key("currency", req.Budget, from, s.opts.Currency)
	converted, err := cache.Cached(s.store, key, s.opts.ProviderTTL, func() (float64, error) {
		metrics.CountProviderCall(ctx, "currency")
		return s.converter.Convert(ctx, req.Budget, from, s.opts.Currency)
	})
	if err != nil {
		l.WarnContext(ctx, "Budget conversion failed, using raw amount",
			slog.String("from", from),
			slog.String("to", s.opts.Currency),
			slog.Any("error", err),
		)
		metrics.CountProviderError(ctx, "currency")
		return req.Budget
	}
	return converted
}

func (s *ServiceImpl) ComposePlan(ctx context.Context, tc types.TripContext) (string, error) {
	ctx, span := otel.Tracer("planner").Start(ctx, "ComposePlan")
	defer span.End()

	if s.generator == nil {
		return "", fmt.Errorf("generation collaborator unavailable: %w", types.ErrGeneration)
	}

	prompt := buildPlanPrompt(tc)
	planText, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, types.ErrGeneration) {
			return "", err
		}
		return "", fmt.Errorf("%v: %w", err, types.ErrGeneration)
	}
	return planText, nil
}
