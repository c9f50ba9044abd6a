// Package upstream holds clients for third-party price and rate feeds.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/kahawapay/kahawapay_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

const defaultHTTPTimeout = 10 * time.Second

// AssetPriceClient fetches the USD spot price of the source asset from a
// CoinGecko-compatible simple/price endpoint.
type AssetPriceClient struct {
	httpClient *http.Client
	url        string
	symbol     string
	logger     *slog.Logger

	mu        sync.RWMutex
	price     decimal.Decimal
	fetchedAt time.Time
}

// NewAssetPriceClient creates a client for the given endpoint and asset
// symbol (e.g. "bitcoin"). No price is available until the first successful
// Refresh.
func NewAssetPriceClient(url, symbol string, logger *slog.Logger) *AssetPriceClient {
	return &AssetPriceClient{
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		url:        url,
		symbol:     symbol,
		logger:     logger,
	}
}

// Refresh fetches the latest price and caches it. On failure the previously
// cached price stays in place.
func (c *AssetPriceClient) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to build asset price request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: asset price fetch: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: asset price endpoint returned %d", apperrors.ErrUpstreamUnavailable, resp.StatusCode)
	}

	// CoinGecko shape: {"bitcoin":{"usd":117523.12}}
	var payload map[string]map[string]json.Number
	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		return fmt.Errorf("%w: failed to decode asset price payload: %v", apperrors.ErrUpstreamUnavailable, err)
	}

	raw, ok := payload[c.symbol]["usd"]
	if !ok {
		return fmt.Errorf("%w: asset price payload missing %s.usd", apperrors.ErrUpstreamUnavailable, c.symbol)
	}
	price, err := decimal.NewFromString(raw.String())
	if err != nil || !price.IsPositive() {
		return fmt.Errorf("%w: asset price %q is not a positive number", apperrors.ErrInvalidRate, raw.String())
	}

	c.mu.Lock()
	c.price = price
	c.fetchedAt = time.Now().UTC()
	c.mu.Unlock()

	c.logger.Debug("Asset price refreshed",
		slog.String("symbol", c.symbol),
		slog.String("usd", price.String()),
	)
	return nil
}

// CurrentPrice returns the last fetched price in USD.
func (c *AssetPriceClient) CurrentPrice(ctx context.Context) (decimal.Decimal, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.fetchedAt.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: no asset price fetched yet", apperrors.ErrUpstreamUnavailable)
	}
	return c.price, nil
}
