// Package weather wraps the OpenWeatherMap geocoding and forecast endpoints
// and collapses the sub-daily feed into a short per-day summary.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Alik192/AI-Travel-Planner/internal/types"
)

// maxForecastDays bounds the summary to the first distinct calendar dates
// encountered in feed order.
const maxForecastDays = 3

var _ Adapter = (*OpenWeatherAdapter)(nil)

// Adapter fetches a short forecast summary for a city.
type Adapter interface {
	Forecast(ctx context.Context, city, countryCode string) (types.WeatherSummary, error)
}

type OpenWeatherAdapter struct {
	logger     *slog.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewOpenWeatherAdapter(baseURL, apiKey string, logger *slog.Logger) *OpenWeatherAdapter {
	return &OpenWeatherAdapter{
		logger:     logger,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type geocodeResponse []struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type forecastResponse struct {
	List []struct {
		DtTxt string `json:"dt_txt"`
		Main  struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	} `json:"list"`
}

// Forecast geocodes the city (countryCode refines ambiguous names), fetches
// the 5-day/3-hour feed and keeps the first reading of each of the first
// three distinct dates, in feed order.
func (a *OpenWeatherAdapter) Forecast(ctx context.Context, city, countryCode string) (types.WeatherSummary, error) {
	if a.apiKey == "" {
		return types.WeatherSummary{}, fmt.Errorf("openweathermap api key is not set: %w", types.ErrConfig)
	}

	lat, lon, err := a.geocode(ctx, city, countryCode)
	if err != nil {
		return types.WeatherSummary{}, err
	}

	u, err := url.Parse(a.baseURL + "/data/2.5/forecast")
	if err != nil {
		return types.WeatherSummary{}, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))
	q.Set("units", "metric")
	q.Set("appid", a.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return types.WeatherSummary{}, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return types.WeatherSummary{}, fmt.Errorf("forecast request failed: %v: %w", err, types.ErrProvider)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return types.WeatherSummary{}, fmt.Errorf("forecast returned status %d: %s: %w", resp.StatusCode, string(body), types.ErrProvider)
	}

	var forecast forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&forecast); err != nil {
		return types.WeatherSummary{}, fmt.Errorf("failed to parse forecast response: %v: %w", err, types.ErrProvider)
	}
	if len(forecast.List) == 0 {
		return types.WeatherSummary{}, fmt.Errorf("forecast data not available for %q: %w", city, types.ErrEmptyResult)
	}

	summary := types.WeatherSummary{City: city}
	seen := make(map[string]bool, maxForecastDays)
	for _, reading := range forecast.List {
		date, _, found := strings.Cut(reading.DtTxt, " ")
		if !found || seen[date] {
			continue
		}
		seen[date] = true
		description := ""
		if len(reading.Weather) > 0 {
			description = reading.Weather[0].Description
		}
		summary.Days = append(summary.Days, types.WeatherDay{
			Date:        date,
			Temperature: reading.Main.Temp,
			Description: description,
		})
		if len(summary.Days) >= maxForecastDays {
			break
		}
	}
	if len(summary.Days) == 0 {
		return types.WeatherSummary{}, fmt.Errorf("could not summarize forecast for %q: %w", city, types.ErrEmptyResult)
	}

	summary.Rendered = render(summary)
	return summary, nil
}

func (a *OpenWeatherAdapter) geocode(ctx context.Context, city, countryCode string) (float64, float64, error) {
	query := city
	if countryCode != "" {
		query += "," + countryCode
	}

	u, err := url.Parse(a.baseURL + "/geo/1.0/direct")
	if err != nil {
		return 0, 0, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("limit", "1")
	q.Set("appid", a.apiKey)
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

	var geo geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&geo); err != nil {
		return 0, 0, fmt.Errorf("failed to parse geocoding response: %v: %w", err, types.ErrProvider)
	}
	if len(geo) == 0 {
		return 0, 0, fmt.Errorf("could not find coordinates for %q: %w", city, types.ErrEmptyResult)
	}
	return geo[0].Lat, geo[0].Lon, nil
}

func render(s types.WeatherSummary) string {
	lines := make([]string, 0, len(s.Days)+1)
	lines = append(lines, fmt.Sprintf("Forecast for %s:", s.City))
	for _, day := range s.Days {
		lines = append(lines, fmt.Sprintf("%s: %.1f°C, %s", day.Date, day.Temperature, day.Description))
	}
	return strings.Join(lines, "\n")
}
