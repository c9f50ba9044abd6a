package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kahawapay/kahawapay_backend/internal/apperrors"
)

// RateSourceClient fetches raw fiat rate rows from an upstream feed. The feed
// is trusted only for transport: row shapes vary between providers, so rows
// are handed to the rate service untouched for normalization.
type RateSourceClient struct {
	httpClient *http.Client
	url        string
}

// NewRateSourceClient creates a client for the given feed URL.
func NewRateSourceClient(url string) *RateSourceClient {
	return &RateSourceClient{
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		url:        url,
	}
}

// FetchRates pulls the current rate rows. Both a bare array and an object
// wrapping the array under "rates" or "data" are accepted.
func (c *RateSourceClient) FetchRates(ctx context.Context) ([]map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rate feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: rate feed fetch: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: rate feed returned %d", apperrors.ErrUpstreamUnavailable, resp.StatusCode)
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()

	var raw any
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: failed to decode rate feed payload: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	return extractRows(raw)
}

func extractRows(raw any) ([]map[string]any, error) {
	var list []any
	switch v := raw.(type) {
	case []any:
		list = v
	case map[string]any:
		for _, key := range []string{"rates", "data"} {
			if inner, ok := v[key].([]any); ok {
				list = inner
				break
			}
		}
		if list == nil {
			return nil, fmt.Errorf("%w: rate feed object has no rates array", apperrors.ErrUpstreamUnavailable)
		}
	default:
		return nil, fmt.Errorf("%w: unexpected rate feed payload shape", apperrors.ErrUpstreamUnavailable)
	}

	rows := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if row, ok := item.(map[string]any); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}
