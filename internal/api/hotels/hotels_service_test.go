package hotels

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alik192/AI-Travel-Planner/internal/types"
)

// fakeLiteAPI serves a hotel list and per-hotel rates. Hotels with no entry
// in rates get an empty rates payload.
type fakeLiteAPI struct {
	hotels    []map[string]any
	rates     map[string]float64
	rateCalls int
}

func (f *fakeLiteAPI) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/data/hotels", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-key", r.Header.Get("X-API-Key"))
		json.NewEncoder(w).Encode(map[string]any{"data": f.hotels})
	})
	mux.HandleFunc("/hotels/rates", func(w http.ResponseWriter, r *http.Request) {
		f.rateCalls++
		var body struct {
			HotelIDs []string `json:"hotelIds"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.HotelIDs, 1)

		price, ok := f.rates[body.HotelIDs[0]]
		if !ok {
			json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{
				"roomTypes": []map[string]any{{
					"rates": []map[string]any{{
						"retailRate": map[string]any{
							"total": []map[string]any{{"amount": price}},
						},
					}},
				}},
			}},
		})
	})
	return httptest.NewServer(mux)
}

func candidate(id string) map[string]any {
	return map[string]any{
		"id":      id,
		"name":    "Hotel " + id,
		"address": id + " Street",
		"city":    "Lisbon",
		"country": "PT",
		"stars":   4,
	}
}

func testParams() SearchParams {
	return SearchParams{
		City:     "Lisbon",
		Country:  "PT",
		Checkin:  "2026-10-10",
		Checkout: "2026-10-17",
		Adults:   2,
		Children: 0,
		Currency: "EUR",
		TopN:     5,
	}
}

func TestSearch_SortsAscendingByPrice(t *testing.T) {
	fake := &fakeLiteAPI{
		hotels: []map[string]any{candidate("a"), candidate("b"), candidate("c")},
		rates:  map[string]float64{"a": 300, "b": 120, "c": 220},
	}
	srv := fake.server(t)
	defer srv.Close()

	adapter := NewLiteAPIAdapter(srv.URL, "test-key", 3, slog.Default())
	hotels, err := adapter.Search(context.Background(), testParams())
	require.NoError(t, err)
	require.Len(t, hotels, 3)

	assert.True(t, sort.SliceIsSorted(hotels, func(i, j int) bool {
		return hotels[i].Price < hotels[j].Price
	}))
	assert.Equal(t, "Hotel b", hotels[0].Name)
	assert.Equal(t, 120.0, hotels[0].Price)
	assert.Equal(t, "EUR", hotels[0].Currency)
}

func TestSearch_DropsCandidatesWithoutResolvableRate(t *testing.T) {
	fake := &fakeLiteAPI{
		hotels: []map[string]any{candidate("a"), candidate("b"), candidate("c")},
		rates:  map[string]float64{"b": 120},
	}
	srv := fake.server(t)
	defer srv.Close()

	adapter := NewLiteAPIAdapter(srv.URL, "test-key", 3, slog.Default())
	hotels, err := adapter.Search(context.Background(), testParams())
	require.NoError(t, err, "rate-less candidates are dropped silently, not errors")
	require.Len(t, hotels, 1)
	assert.Equal(t, "Hotel b", hotels[0].Name)
}

func TestSearch_RateLookupsCappedAtSampleSize(t *testing.T) {
	hotels := make([]map[string]any, 0, 8)
	rates := make(map[string]float64, 8)
	for i := 0; i < 8; i++ {
		id := fmt.Sprintf("h%d", i)
		hotels = append(hotels, candidate(id))
		rates[id] = float64(100 + i)
	}
	fake := &fakeLiteAPI{hotels: hotels, rates: rates}
	srv := fake.server(t)
	defer srv.Close()

	adapter := NewLiteAPIAdapter(srv.URL, "test-key", 3, slog.Default())
	found, err := adapter.Search(context.Background(), testParams())
	require.NoError(t, err)

	assert.Equal(t, 3, fake.rateCalls, "rate lookup is per-candidate and expensive")
	assert.Len(t, found, 3)
}

func TestSearch_TruncatesToTopN(t *testing.T) {
	fake := &fakeLiteAPI{
		hotels: []map[string]any{candidate("a"), candidate("b"), candidate("c")},
		rates:  map[string]float64{"a": 300, "b": 120, "c": 220},
	}
	srv := fake.server(t)
	defer srv.Close()

	adapter := NewLiteAPIAdapter(srv.URL, "test-key", 3, slog.Default())
	params := testParams()
	params.TopN = 2
	hotels, err := adapter.Search(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, hotels, 2)
	assert.Equal(t, 120.0, hotels[0].Price)
	assert.Equal(t, 220.0, hotels[1].Price)
}

func TestSearch_EmptyCitySearchIsTypedError(t *testing.T) {
	fake := &fakeLiteAPI{hotels: []map[string]any{}}
	srv := fake.server(t)
	defer srv.Close()

	adapter := NewLiteAPIAdapter(srv.URL, "test-key", 3, slog.Default())
	_, err := adapter.Search(context.Background(), testParams())
	assert.ErrorIs(t, err, types.ErrEmptyResult)
	assert.Equal(t, 0, fake.rateCalls)
}

func TestSearch_MissingKeyIsConfigError(t *testing.T) {
	adapter := NewLiteAPIAdapter("http://localhost:0", "", 3, slog.Default())
	_, err := adapter.Search(context.Background(), testParams())
	assert.ErrorIs(t, err, types.ErrConfig)
}

func TestSearch_ProviderFailureIsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	adapter := NewLiteAPIAdapter(srv.URL, "test-key", 3, slog.Default())
	_, err := adapter.Search(context.Background(), testParams())
	assert.ErrorIs(t, err, types.ErrProvider)
}
