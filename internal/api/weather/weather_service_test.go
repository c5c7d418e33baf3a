package weather

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alik192/AI-Travel-Planner/internal/types"
)

const geoBody = `[{"lat":38.72,"lon":-9.14}]`

// The feed is sub-daily and feed order is trusted as-is; note the third
// entry repeats the first date.
const forecastBody = `{
  "list": [
    {"dt_txt":"2026-10-10 09:00:00","main":{"temp":21.4},"weather":[{"description":"clear sky"}]},
    {"dt_txt":"2026-10-11 09:00:00","main":{"temp":19.8},"weather":[{"description":"few clouds"}]},
    {"dt_txt":"2026-10-10 12:00:00","main":{"temp":24.1},"weather":[{"description":"scattered clouds"}]},
    {"dt_txt":"2026-10-12 09:00:00","main":{"temp":18.2},"weather":[{"description":"light rain"}]},
    {"dt_txt":"2026-10-13 09:00:00","main":{"temp":17.5},"weather":[{"description":"rain"}]}
  ]
}`

func newFakeOpenWeather(t *testing.T, geo, forecast string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/geo/1.0/direct", func(w http.ResponseWriter, r *http.Request) {
		require.NotEmpty(t, r.URL.Query().Get("appid"))
		w.Write([]byte(geo))
	})
	mux.HandleFunc("/data/2.5/forecast", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "metric", r.URL.Query().Get("units"))
		w.Write([]byte(forecast))
	})
	return httptest.NewServer(mux)
}

func TestForecast_CollapsesToFirstReadingPerDate(t *testing.T) {
	srv := newFakeOpenWeather(t, geoBody, forecastBody)
	defer srv.Close()

	adapter := NewOpenWeatherAdapter(srv.URL, "test-key", slog.Default())
	summary, err := adapter.Forecast(context.Background(), "Lisbon", "PT")
	require.NoError(t, err)

	require.Len(t, summary.Days, 3, "at most three distinct dates")
	assert.Equal(t, "2026-10-10", summary.Days[0].Date)
	assert.Equal(t, 21.4, summary.Days[0].Temperature, "first reading per date wins")
	assert.Equal(t, "2026-10-11", summary.Days[1].Date)
	assert.Equal(t, "2026-10-12", summary.Days[2].Date)
}

func TestForecast_RendersMultiLineSummary(t *testing.T) {
	srv := newFakeOpenWeather(t, geoBody, forecastBody)
	defer srv.Close()

	adapter := NewOpenWeatherAdapter(srv.URL, "test-key", slog.Default())
	summary, err := adapter.Forecast(context.Background(), "Lisbon", "PT")
	require.NoError(t, err)

	assert.Contains(t, summary.Rendered, "Forecast for Lisbon:")
	assert.Contains(t, summary.Rendered, "2026-10-10: 21.4°C, clear sky")
	assert.Contains(t, summary.Rendered, "2026-10-12: 18.2°C, light rain")
}

func TestForecast_GeocodeMissIsEmptyResult(t *testing.T) {
	srv := newFakeOpenWeather(t, `[]`, forecastBody)
	defer srv.Close()

	adapter := NewOpenWeatherAdapter(srv.URL, "test-key", slog.Default())
	_, err := adapter.Forecast(context.Background(), "Atlantis", "")
	assert.ErrorIs(t, err, types.ErrEmptyResult)
}

func TestForecast_EmptyFeedIsEmptyResult(t *testing.T) {
	srv := newFakeOpenWeather(t, geoBody, `{"list":[]}`)
	defer srv.Close()

	adapter := NewOpenWeatherAdapter(srv.URL, "test-key", slog.Default())
	_, err := adapter.Forecast(context.Background(), "Lisbon", "PT")
	assert.ErrorIs(t, err, types.ErrEmptyResult)
}

func TestForecast_MissingKeyIsConfigError(t *testing.T) {
	adapter := NewOpenWeatherAdapter("http://localhost:0", "", slog.Default())
	_, err := adapter.Forecast(context.Background(), "Lisbon", "PT")
	assert.ErrorIs(t, err, types.ErrConfig)
}

func TestForecast_ProviderFailureIsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	adapter := NewOpenWeatherAdapter(srv.URL, "test-key", slog.Default())
	_, err := adapter.Forecast(context.Background(), "Lisbon", "PT")
	assert.ErrorIs(t, err, types.ErrProvider)
}
