package services

import (
	"context"

	"github.com/kahawapay/kahawapay_backend/internal/core/domain"
)

// RateReaderSvc defines read operations over the deduplicated rate book.
type RateReaderSvc interface {
	// ListRates returns the current freshest-wins view, sorted by target currency.
	ListRates(ctx context.Context) []domain.ExchangeRate

	// ResolveRate returns the current rate for a target currency.
	// Fails with apperrors.ErrUnsupportedCurrency when the currency is unknown.
	ResolveRate(ctx context.Context, targetCurrency string) (*domain.ExchangeRate, error)

	// Currencies returns the target currency codes currently known, sorted.
	Currencies(ctx context.Context) []string
}

// RateWriterSvc defines write operations for exchange rates.
type RateWriterSvc interface {
	// UpsertRate validates and saves an admin-supplied rate, stamping it with
	// the current time, and returns the normalized entry.
	UpsertRate(ctx context.Context, targetCurrency, rate string) (*domain.ExchangeRate, error)

	// MergeUpstreamRows normalizes heterogeneously shaped upstream rows and
	// merges them into the rate book, freshest entry winning per currency.
	// Malformed rows are skipped, never fatal.
	MergeUpstreamRows(ctx context.Context, rows []map[string]any) []domain.ExchangeRate
}

// RateSvcFacade combines all rate service interfaces.
type RateSvcFacade interface {
	RateReaderSvc
	RateWriterSvc
}
