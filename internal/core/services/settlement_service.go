package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/kahawapay/kahawapay_backend/internal/apperrors"
	"github.com/kahawapay/kahawapay_backend/internal/core/domain"
	portssvc "github.com/kahawapay/kahawapay_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// SettlementService prices tips: it converts a source asset amount into a
// recipient-currency payout, applying the fee and guest-limit policy.
type SettlementService struct {
	rates         portssvc.RateReaderSvc
	assetPrice    portssvc.AssetPriceProvider
	feePercent    decimal.Decimal // fraction, e.g. 0.02 for 2%
	guestLimitUSD decimal.Decimal
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(rates portssvc.RateReaderSvc, assetPrice portssvc.AssetPriceProvider, feePercent, guestLimitUSD decimal.Decimal) *SettlementService {
	return &SettlementService{
		rates:         rates,
		assetPrice:    assetPrice,
		feePercent:    feePercent,
		guestLimitUSD: guestLimitUSD,
	}
}

// Preview computes the full settlement breakdown for a tip request.
//
// All monetary math is decimal; no rounding is applied here. The result
// embeds SourceUSDValue so confirmation-time limit checks reuse the value the
// sender previewed instead of recomputing against drifted rates.
func (s *SettlementService) Preview(ctx context.Context, req domain.PreviewRequest) (*domain.PreviewResult, error) {
	if req.SourceAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: tip amount must be positive", apperrors.ErrValidation)
	}
	code := strings.ToUpper(strings.TrimSpace(req.TargetCurrency))
	if code == "" {
		return nil, fmt.Errorf("%w: target currency is required", apperrors.ErrValidation)
	}

	assetUSDRate, err := s.assetPrice.CurrentPrice(ctx)
	if err != nil {
		return nil, err
	}

	targetRate, err := s.rates.ResolveRate(ctx, code)
	if err != nil {
		return nil, err
	}

	gross := req.SourceAmount.Mul(assetUSDRate)
	fee := gross.Mul(s.feePercent)
	net := gross.Sub(fee)
	payout := net.Mul(targetRate.Rate)

	if req.Actor.IsGuest() && gross.GreaterThan(s.guestLimitUSD) {
		return nil, fmt.Errorf("%w: guests are limited to $%s per tip, got $%s; please log in for higher limits",
			apperrors.ErrGuestLimitExceeded, s.guestLimitUSD.String(), gross.String())
	}

	return &domain.PreviewResult{
		SourceAmount:   req.SourceAmount,
		AssetUSDRate:   assetUSDRate,
		GrossValue:     gross,
		FeeValue:       fee,
		NetValue:       net,
		PayoutAmount:   payout,
		TargetCurrency: code,
		TargetRate:     targetRate.Rate,
		SourceUSDValue: gross,
	}, nil
}
