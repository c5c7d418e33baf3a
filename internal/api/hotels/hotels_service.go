// Package hotels wraps the LiteAPI hotel search: a city-level candidate
// lookup followed by per-candidate rate resolution.
package hotels

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Alik192/AI-Travel-Planner/internal/types"
)

var _ Adapter = (*LiteAPIAdapter)(nil)

// Adapter searches hotels with resolved room rates.
type Adapter interface {
	// Search returns hotels sorted ascending by price, at most
	// params.TopN of them. It returns ErrEmptyResult when the initial
	// city search finds nothing at all.
	Search(ctx context.Context, params SearchParams) ([]types.HotelOption, error)
}

// SearchParams is the full argument tuple for one hotel search.
type SearchParams struct {
	City     string
	Country  string
	Checkin  string
	Checkout string
	Adults   int
	Children int
	Currency string
	TopN     int
}

// LiteAPIAdapter calls LiteAPI with an API key header. Rate lookups are
// per-candidate and expensive, so only the first rateSampleSize candidates
// from the city search are priced. Candidates without a resolvable rate are
// dropped silently. The sample size is a tunable, not a guaranteed-optimal
// sampling strategy.
type LiteAPIAdapter struct {
	logger         *slog.Logger
	baseURL        string
	apiKey         string
	rateSampleSize int
	perPage        int
	httpClient     *http.Client
}

func NewLiteAPIAdapter(baseURL, apiKey string, rateSampleSize int, logger *slog.Logger) *LiteAPIAdapter {
	if rateSampleSize <= 0 {
		rateSampleSize = 3
	}
	return &LiteAPIAdapter{
		logger:         logger,
		baseURL:        strings.TrimRight(baseURL, "/"),
		apiKey:         apiKey,
		rateSampleSize: rateSampleSize,
		perPage:        10,
		httpClient:     &http.Client{Timeout: 20 * time.Second},
	}
}

type hotelListResponse struct {
	Data []struct {
		ID               string  `json:"id"`
		Name             string  `json:"name"`
		Address          string  `json:"address"`
		City             string  `json:"city"`
		Country          string  `json:"country"`
		Stars            int     `json:"stars"`
		Rating           float64 `json:"rating"`
		ReviewCount      int     `json:"reviewCount"`
		HotelDescription string  `json:"hotelDescription"`
	} `json:"data"`
}

type ratesResponse struct {
	Data []struct {
		RoomTypes []struct {
			Rates []struct {
				RetailRate struct {
					Total []struct {
						Amount float64 `json:"amount"`
					} `json:"total"`
				} `json:"retailRate"`
			} `json:"rates"`
		} `json:"roomTypes"`
	} `json:"data"`
}

func (a *LiteAPIAdapter) Search(ctx context.Context, params SearchParams) ([]types.HotelOption, error) {
	if a.apiKey == "" {
		return nil, fmt.Errorf("liteapi key is not set: %w", types.ErrConfig)
	}

	u, err := url.Parse(a.baseURL + "/data/hotels")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("countryCode", params.Country)
	q.Set("cityName", params.City)
	q.Set("checkin", params.Checkin)
	q.Set("checkout", params.Checkout)
	q.Set("adults", strconv.Itoa(params.Adults))
	q.Set("currency", params.Currency)
	q.Set("page", "1")
	q.Set("perPage", strconv.Itoa(a.perPage))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	a.setHeaders(req)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hotel search failed: %v: %w", err, types.ErrProvider)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("hotel search returned status %d: %s: %w", resp.StatusCode, string(body), types.ErrProvider)
	}

	var list hotelListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to parse hotel response: %v: %w", err, types.ErrProvider)
	}
	if len(list.Data) == 0 {
		return nil, fmt.Errorf("no hotels found in %s: %w", params.City, types.ErrEmptyResult)
	}

	candidates := list.Data
	if len(candidates) > a.rateSampleSize {
		candidates = candidates[:a.rateSampleSize]
	}

	hotels := make([]types.HotelOption, 0, len(candidates))
	for _, candidate := range candidates {
		price, ok := a.resolveRate(ctx, candidate.ID, params)
		if !ok {
			// A candidate without a resolvable rate is not an error.
			a.logger.DebugContext(ctx, "Dropping hotel without resolvable rate",
				slog.String("hotel_id", candidate.ID),
				slog.String("name", candidate.Name),
			)
			continue
		}
		hotels = append(hotels, types.HotelOption{
			Name:        candidate.Name,
			Address:     candidate.Address,
			City:        candidate.City,
			Country:     candidate.Country,
			Stars:       candidate.Stars,
			Rating:      candidate.Rating,
			ReviewCount: candidate.ReviewCount,
			Price:       price,
			Currency:    params.Currency,
			Description: candidate.HotelDescription,
		})
	}

	sort.Slice(hotels, func(i, j int) bool { return hotels[i].Price < hotels[j].Price })
	if params.TopN > 0 && len(hotels) > params.TopN {
		hotels = hotels[:params.TopN]
	}
	return hotels, nil
}

// resolveRate returns the total retail rate for one hotel, or false when no
// rate could be resolved for these dates and occupancy.
func (a *LiteAPIAdapter) resolveRate(ctx context.Context, hotelID string, params SearchParams) (float64, bool) {
	childrenAges := make([]int, params.Children)
	for i := range childrenAges {
		childrenAges[i] = 10
	}
	body := map[string]any{
		"hotelIds":         []string{hotelID},
		"checkin":          params.Checkin,
		"checkout":         params.Checkout,
		"currency":         params.Currency,
		"guestNationality": "US",
		"occupancies": []map[string]any{
			{"adults": params.Adults, "children": childrenAges},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.baseURL+"/hotels/rates", bytes.NewReader(payload))
	if err != nil {
		return 0, false
	}
	a.setHeaders(req)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return 0, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, false
	}

	var rates ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&rates); err != nil {
		return 0, false
	}
	if len(rates.Data) == 0 || len(rates.Data[0].RoomTypes) == 0 {
		return 0, false
	}
	room := rates.Data[0].RoomTypes[0]
	if len(room.Rates) == 0 || len(room.Rates[0].RetailRate.Total) == 0 {
		return 0, false
	}
	return room.Rates[0].RetailRate.Total[0].Amount, true
}

func (a *LiteAPIAdapter) setHeaders(req *http.Request) {
	req.Header.Set("X-API-Key", a.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
