package repositories

import (
	"context"

	"github.com/kahawapay/kahawapay_backend/internal/core/domain"
)

// RateReader defines read operations for exchange rate data.
type RateReader interface {
	// ListRates retrieves all stored exchange rates, one per target currency.
	ListRates(ctx context.Context) ([]domain.ExchangeRate, error)

	// FindRate retrieves the stored rate for a target currency.
	FindRate(ctx context.Context, targetCurrency string) (*domain.ExchangeRate, error)
}

// RateWriter defines write operations for exchange rate data.
type RateWriter interface {
	// SaveRate upserts a rate keyed by target currency. The store keeps the
	// freshest entry: a save with an older UpdatedAt than the stored row is a
	// no-op rather than an error.
	SaveRate(ctx context.Context, rate domain.ExchangeRate) error
}

// RateRepositoryFacade combines all exchange rate repository interfaces.
type RateRepositoryFacade interface {
	RateReader
	RateWriter
}
