package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"greenmetrics/internal/config"
	"greenmetrics/internal/ports"
)

// Client fetches historical EUR to USD rates from a fixer.io style API.
// Rates are quoted on December 31st of the requested year.
type Client struct {
	endpoint  string
	accessKey string
	http      *http.Client
}

var _ ports.RateProvider = (*Client)(nil)

// NewClient creates a reusable HTTP client.
func NewClient(cfg config.RatesConfig) *Client {
	return &Client{
		endpoint:  cfg.Endpoint,
		accessKey: cfg.AccessKey,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

// FetchRate returns the EUR to USD rate for the given year. Any failure,
// including a response without a USD rate, is returned as an error; the
// caller substitutes a zero rate and continues.
func (c *Client) FetchRate(ctx context.Context, year int) (float64, error) {
	reqURL := fmt.Sprintf("%s/%d-12-31", c.endpoint, year)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("new request: %w", err)
	}

	query := url.Values{}
	query.Set("access_key", c.accessKey)
	query.Set("base", "EUR")
	query.Set("symbols", "USD")
	req.URL.RawQuery = query.Encode()

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch rate for %d: %w", year, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetch rate for %d: unexpected status %s", year, resp.Status)
	}

	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decode rate response for %d: %w", year, err)
	}

	rate, ok := payload.Rates["USD"]
	if !ok {
		return 0, fmt.Errorf("no USD rate in response for %d", year)
	}
	return rate, nil
}
