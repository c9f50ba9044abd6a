package services

import (
	"context"
	"log/slog"
	"time"

	portssvc "github.com/kahawapay/kahawapay_backend/internal/core/ports/services"
	"github.com/kahawapay/kahawapay_backend/internal/platform/metrics"
)

// RateRowsFetcher pulls raw rate rows from an upstream feed. Rows may arrive
// in any of the shapes NormalizeRateRow understands.
type RateRowsFetcher interface {
	FetchRates(ctx context.Context) ([]map[string]any, error)
}

// AssetPriceRefresher re-fetches the source asset's USD price.
type AssetPriceRefresher interface {
	Refresh(ctx context.Context) error
}

// RefreshService periodically refreshes the rate book, the asset price and
// the transaction mirror. Each refresh is independent: a failing upstream
// keeps the previous view and is retried on the next tick.
type RefreshService struct {
	interval   time.Duration
	rates      portssvc.RateSvcFacade
	txns       portssvc.TransactionSvcFacade
	assetPrice AssetPriceRefresher
	rateSource RateRowsFetcher
	logger     *slog.Logger
}

// NewRefreshService creates a new RefreshService. rateSource and assetPrice
// may be nil when the corresponding upstream feed is not configured.
func NewRefreshService(interval time.Duration, rates portssvc.RateSvcFacade, txns portssvc.TransactionSvcFacade, assetPrice AssetPriceRefresher, rateSource RateRowsFetcher, logger *slog.Logger) *RefreshService {
	return &RefreshService{
		interval:   interval,
		rates:      rates,
		txns:       txns,
		assetPrice: assetPrice,
		rateSource: rateSource,
		logger:     logger,
	}
}

// Start launches the refresh loop in a goroutine. It runs one refresh
// immediately, then ticks until ctx is cancelled.
func (s *RefreshService) Start(ctx context.Context) {
	go func() {
		s.RefreshAll(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.logger.Info("Refresh loop stopped")
				return
			case <-ticker.C:
				s.RefreshAll(ctx)
			}
		}
	}()
}

// RefreshAll runs one refresh cycle.
func (s *RefreshService) RefreshAll(ctx context.Context) {
	if s.assetPrice != nil {
		if err := s.assetPrice.Refresh(ctx); err != nil {
			metrics.RateRefreshes.WithLabelValues("asset_price", "error").Inc()
			s.logger.Warn("Asset price refresh failed, keeping previous price", slog.String("error", err.Error()))
		} else {
			metrics.RateRefreshes.WithLabelValues("asset_price", "ok").Inc()
		}
	}

	if s.rateSource != nil {
		rows, err := s.rateSource.FetchRates(ctx)
		if err != nil {
			metrics.RateRefreshes.WithLabelValues("fiat_rates", "error").Inc()
			s.logger.Warn("Rate feed fetch failed, keeping previous rates", slog.String("error", err.Error()))
		} else {
			merged := s.rates.MergeUpstreamRows(ctx, rows)
			metrics.RateRefreshes.WithLabelValues("fiat_rates", "ok").Inc()
			s.logger.Info("Merged upstream rate rows",
				slog.Int("fetched", len(rows)),
				slog.Int("currencies", len(merged)),
			)
		}
	}

	if err := s.txns.RefreshSnapshot(ctx); err != nil {
		metrics.RateRefreshes.WithLabelValues("transactions", "error").Inc()
		s.logger.Warn("Transaction snapshot refresh failed, keeping previous snapshot", slog.String("error", err.Error()))
	} else {
		metrics.RateRefreshes.WithLabelValues("transactions", "ok").Inc()
	}
}
