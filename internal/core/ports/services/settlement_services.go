package services

import (
	"context"

	"github.com/kahawapay/kahawapay_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AssetPriceProvider supplies the current source asset to USD rate.
type AssetPriceProvider interface {
	// CurrentPrice returns the latest known asset price in USD.
	// Fails with apperrors.ErrUpstreamUnavailable when no price has been
	// fetched yet.
	CurrentPrice(ctx context.Context) (decimal.Decimal, error)
}

// SettlementSvcFacade converts preview requests into settlement breakdowns.
type SettlementSvcFacade interface {
	// Preview prices a tip: gross USD value, fee, net, and recipient payout.
	// Fails with apperrors.ErrValidation on malformed input,
	// apperrors.ErrUnsupportedCurrency when no rate is known, and
	// apperrors.ErrGuestLimitExceeded when a guest exceeds the USD limit.
	Preview(ctx context.Context, req domain.PreviewRequest) (*domain.PreviewResult, error)
}
