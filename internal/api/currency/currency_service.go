// Package currency converts amounts between currencies via exchangerate.host.
package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Alik192/AI-Travel-Planner/internal/types"
)

var _ Converter = (*ExchangeRateConverter)(nil)

// Converter converts a monetary amount between two ISO 4217 currencies.
type Converter interface {
	Convert(ctx context.Context, amount float64, from, to string) (float64, error)
}

// ExchangeRateConverter calls the exchangerate.host convert endpoint. The
// free plan works without a key; a key is passed when configured.
type ExchangeRateConverter struct {
	logger     *slog.Logger
	baseURL    string
	accessKey  string
	httpClient *http.Client
}

func NewExchangeRateConverter(baseURL, accessKey string, logger *slog.Logger) *ExchangeRateConverter {
	return &ExchangeRateConverter{
		logger:     logger,
		baseURL:    strings.TrimRight(baseURL, "/"),
		accessKey:  accessKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type convertResponse struct {
	Success bool     `json:"success"`
	Result  *float64 `json:"result"`
	Error   struct {
		Info string `json:"info"`
	} `json:"error"`
}

func (c *ExchangeRateConverter) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	u, err := url.Parse(c.baseURL + "/convert")
	if err != nil {
		return 0, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("from", from)
	q.Set("to", to)
	q.Set("amount", fmt.Sprintf("%f", amount))
	if c.accessKey != "" {
		q.Set("access_key", c.accessKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("conversion request failed: %v: %w", err, types.ErrProvider)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("conversion returned status %d: %s: %w", resp.StatusCode, string(body), types.ErrProvider)
	}

	var payload convertResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("failed to parse conversion response: %v: %w", err, types.ErrProvider)
	}
	if !payload.Success || payload.Result == nil {
		info := payload.Error.Info
		if info == "" {
			info = "unknown conversion error"
		}
		return 0, fmt.Errorf("conversion failed: %s: %w", info, types.ErrProvider)
	}
	return math.Round(*payload.Result*100) / 100, nil
}
