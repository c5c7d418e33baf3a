// Package flights wraps the Amadeus flight-offers search, normalizing its
// response into flight options or a typed failure.
package flights

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
	"sync"
	"time"

	"github.com/Alik192/AI-Travel-Planner/internal/types"
)

var _ Adapter = (*AmadeusAdapter)(nil)

// Adapter searches flight offers between two location codes.
type Adapter interface {
	// Search returns offers in provider order. An empty slice means the
	// search succeeded but no applicable fare exists; a non-nil error
	// means the search itself failed.
	Search(ctx context.Context, params SearchParams) ([]types.FlightOption, error)
}

// SearchParams is the full argument tuple for one flight search.
type SearchParams struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
	Adults        int
	Max           int
}

// AmadeusAdapter calls the Amadeus self-service API with an OAuth2
// client-credentials token, refreshed shortly before expiry.
type AmadeusAdapter struct {
	logger       *slog.Logger
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewAmadeusAdapter(baseURL, clientID, clientSecret string, logger *slog.Logger) *AmadeusAdapter {
	return &AmadeusAdapter{
		logger:       logger,
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: 20 * time.Second},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (a *AmadeusAdapter) token(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.accessToken != "" && time.Now().Before(a.tokenExpiry) {
		return a.accessToken, nil
	}
	if a.clientID == "" || a.clientSecret == "" {
		return "", fmt.Errorf("amadeus credentials are not set: %w", types.ErrConfig)
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", a.clientID)
	form.Set("client_secret", a.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.baseURL+"/v1/security/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %v: %w", err, types.ErrProvider)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token request returned status %d: %s: %w", resp.StatusCode, string(body), types.ErrProvider)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("failed to parse token response: %v: %w", err, types.ErrProvider)
	}
	a.accessToken = tok.AccessToken
	// Refresh a minute early so in-flight searches never carry a stale token.
	a.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn-60) * time.Second)
	return a.accessToken, nil
}

// Wire shapes of the flight-offers response, trimmed to the fields we keep.
type offersResponse struct {
	Data []struct {
		Itineraries []struct {
			Duration string `json:"duration"`
			Segments []struct {
				Departure struct {
					IATACode string `json:"iataCode"`
					At       string `json:"at"`
				} `json:"departure"`
				Arrival struct {
					IATACode string `json:"iataCode"`
					At       string `json:"at"`
				} `json:"arrival"`
				CarrierCode string `json:"carrierCode"`
				Number      string `json:"number"`
			} `json:"segments"`
		} `json:"itineraries"`
		Price struct {
			Total string `json:"total"`
		} `json:"price"`
	} `json:"data"`
}

func (a *AmadeusAdapter) Search(ctx context.Context, params SearchParams) ([]types.FlightOption, error) {
	accessToken, err := a.token(ctx)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(a.baseURL + "/v2/shopping/flight-offers")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("originLocationCode", params.Origin)
	q.Set("destinationLocationCode", params.Destination)
	q.Set("departureDate", params.DepartureDate)
	if params.ReturnDate != "" {
		q.Set("returnDate", params.ReturnDate)
	}
	q.Set("adults", strconv.Itoa(params.Adults))
	q.Set("max", strconv.Itoa(params.Max))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("flight search failed: %v: %w", err, types.ErrProvider)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		// "No fare on this route" is a legitimate empty answer, not a
		// provider failure. Callers must be able to tell the two apart.
		if isNoFareError(string(body)) {
			a.logger.InfoContext(ctx, "No applicable fares for route",
				slog.String("origin", params.Origin),
				slog.String("destination", params.Destination),
				slog.String("departure", params.DepartureDate),
			)
			return []types.FlightOption{}, nil
		}
		return nil, fmt.Errorf("flight search returned status %d: %s: %w", resp.StatusCode, string(body), types.ErrProvider)
	}

	var offers offersResponse
	if err := json.NewDecoder(resp.Body).Decode(&offers); err != nil {
		return nil, fmt.Errorf("failed to parse flight response: %v: %w", err, types.ErrProvider)
	}

	flights := make([]types.FlightOption, 0, len(offers.Data))
	for _, offer := range offers.Data {
		price, err := strconv.ParseFloat(offer.Price.Total, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse offer price %q: %w", offer.Price.Total, types.ErrProvider)
		}
		option := types.FlightOption{TotalPrice: price}
		for _, itinerary := range offer.Itineraries {
			it := types.FlightItinerary{}
			for _, segment := range itinerary.Segments {
				it.Segments = append(it.Segments, types.FlightSegment{
					From:         segment.Departure.IATACode,
					To:           segment.Arrival.IATACode,
					Departure:    segment.Departure.At,
					Arrival:      segment.Arrival.At,
					Carrier:      segment.CarrierCode,
					FlightNumber: segment.Number,
					// The provider reports duration per itinerary;
					// every segment carries that value.
					Duration: itinerary.Duration,
				})
			}
			option.Itineraries = append(option.Itineraries, it)
		}
		flights = append(flights, option)
	}
	return flights, nil
}

func isNoFareError(body string) bool {
	return strings.Contains(body, "NO_FARE_APPLICABLE") ||
		strings.Contains(body, "NO_COMBINABLE_FARES") ||
		strings.Contains(body, "NO FARE APPLICABLE") ||
		strings.Contains(body, "NO COMBINABLE FARES")
}
