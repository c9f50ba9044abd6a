package upstream_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kahawapay/kahawapay_backend/internal/adapters/upstream"
	"github.com/kahawapay/kahawapay_backend/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetPriceClientRefreshAndCurrentPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":117523.12}}`))
	}))
	defer server.Close()

	client := upstream.NewAssetPriceClient(server.URL, "bitcoin", slog.Default())

	// No price before the first successful refresh.
	_, err := client.CurrentPrice(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)

	require.NoError(t, client.Refresh(context.Background()))

	price, err := client.CurrentPrice(context.Background())
	require.NoError(t, err)
	want, _ := decimal.NewFromString("117523.12")
	assert.True(t, price.Equal(want), "got %s", price)
}

func TestAssetPriceClientKeepsPriceOnFailure(t *testing.T) {
	healthy := true
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":60000}}`))
	}))
	defer server.Close()

	client := upstream.NewAssetPriceClient(server.URL, "bitcoin", slog.Default())
	require.NoError(t, client.Refresh(context.Background()))

	healthy = false
	err := client.Refresh(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)

	// The previously fetched price is still served.
	price, err := client.CurrentPrice(context.Background())
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromInt(60000)))
}

func TestRateSourceClientShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		rows int
	}{
		{"bare array", `[{"currency":"KES","rate":"129"},{"currency":"NGN","rate":1550}]`, 2},
		{"wrapped in rates", `{"rates":[{"target":"kes","rate":"117,000","updated_at":null}]}`, 1},
		{"wrapped in data", `{"data":[{"symbol":"ugx","price":3800}]}`, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := upstream.NewRateSourceClient(server.URL)
			rows, err := client.FetchRates(context.Background())
			require.NoError(t, err)
			assert.Len(t, rows, tc.rows)
		})
	}
}

func TestRateSourceClientErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"unexpected":"shape"}`))
	}))
	defer server.Close()

	client := upstream.NewRateSourceClient(server.URL)
	_, err := client.FetchRates(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer down.Close()

	client = upstream.NewRateSourceClient(down.URL)
	_, err = client.FetchRates(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
}
