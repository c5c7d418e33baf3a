// Package attractions wraps the Geoapify geocoding and places endpoints to
// find tourist attractions within a radius of a city's coordinates.
package attractions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Alik192/AI-Travel-Planner/internal/types"
)

var _ Adapter = (*GeoapifyAdapter)(nil)

// Adapter searches points of interest around a city.
type Adapter interface {
	Search(ctx context.Context, params SearchParams) ([]types.Attraction, error)
}

// SearchParams is the full argument tuple for one attraction search.
type SearchParams struct {
	City        string
	CountryCode string
	RadiusM     int
	Limit       int
}

type GeoapifyAdapter struct {
	logger     *slog.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewGeoapifyAdapter(baseURL, apiKey string, logger *slog.Logger) *GeoapifyAdapter {
	return &GeoapifyAdapter{
		logger:     logger,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type featureCollection struct {
	Features []struct {
		Properties struct {
			Name       string   `json:"name"`
			Formatted  string   `json:"formatted"`
			Lat        float64  `json:"lat"`
			Lon        float64  `json:"lon"`
			Categories []string `json:"categories"`
		} `json:"properties"`
	} `json:"features"`
}

func (a *GeoapifyAdapter) Search(ctx context.Context, params SearchParams) ([]types.Attraction, error) {
	if a.apiKey == "" {
		return nil, fmt.Errorf("geoapify api key is not set: %w", types.ErrConfig)
	}

	lat, lon, err := a.geocode(ctx, params.City, params.CountryCode)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(a.baseURL + "/v2/places")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("categories", "tourism.attraction")
	q.Set("filter", fmt.Sprintf("circle:%f,%f,%d", lon, lat, params.RadiusM))
	q.Set("limit", strconv.Itoa(params.Limit))
	q.Set("apiKey", a.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places request failed: %v: %w", err, types.ErrProvider)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("places returned status %d: %s: %w", resp.StatusCode, string(body), types.ErrProvider)
	}

	var fc featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return nil, fmt.Errorf("failed to parse places response: %v: %w", err, types.ErrProvider)
	}

	attractions := make([]types.Attraction, 0, len(fc.Features))
	for _, feature := range fc.Features {
		props := feature.Properties
		name := props.Name
		if name == "" {
			name = "Unnamed"
		}
		address := props.Formatted
		if address == "" {
			address = "No address available"
		}
		attractions = append(attractions, types.Attraction{
			Name:       name,
			Address:    address,
			Lat:        props.Lat,
			Lon:        props.Lon,
			Categories: props.Categories,
		})
	}
	return attractions, nil
}

// geocode returns the coordinates of the city via the Geoapify geocoder.
// This is coordinate lookup for the places search, independent of the
// IATA-code resolver.
func (a *GeoapifyAdapter) geocode(ctx context.Context, city, countryCode string) (float64, float64, error) {
	query := city
	if countryCode != "" {
		query += "," + countryCode
	}

	u, err := url.Parse(a.baseURL + "/v1/geocode/search")
	if err != nil {
		return 0, 0, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("text", query)
	q.Set("apiKey", a.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("geocoding request failed: %v: %w", err, types.ErrProvider)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, 0, fmt.Errorf("geocoding returned status %d: %s: %w", resp.StatusCode, string(body), types.ErrProvider)
	}

	var fc featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return 0, 0, fmt.Errorf("failed to parse geocoding response: %v: %w", err, types.ErrProvider)
	}
	if len(fc.Features) == 0 {
		return 0, 0, fmt.Errorf("city not found: %q: %w", city, types.ErrEmptyResult)
	}
	props := fc.Features[0].Properties
	return props.Lat, props.Lon, nil
}
