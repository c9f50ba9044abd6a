package dto

import (
	"time"

	"github.com/kahawapay/kahawapay_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UpsertRateRequest defines the admin rate save payload. Rate is accepted as a
// string so that upstream formatting ("117,000", "3_800") survives binding and
// is cleaned by normalization, not by the caller.
type UpsertRateRequest struct {
	TargetCurrency string `json:"target_currency" binding:"required"`
	Rate           string `json:"rate" binding:"required"`
}

// RateResponse defines the wire shape of a normalized exchange rate. Field
// names match what the frontend's rate table consumes.
type RateResponse struct {
	TargetCurrency string          `json:"target_currency"`
	Rate           decimal.Decimal `json:"rate"`
	UpdatedAt      *time.Time      `json:"updated_at,omitempty"`
}

// CurrenciesResponse wraps the list of known target currency codes.
type CurrenciesResponse struct {
	Currencies []string `json:"currencies"`
}

// ToRateResponse converts a domain.ExchangeRate to RateResponse DTO.
func ToRateResponse(rate *domain.ExchangeRate) RateResponse {
	return RateResponse{
		TargetCurrency: rate.TargetCurrency,
		Rate:           rate.Rate,
		UpdatedAt:      rate.UpdatedAt,
	}
}

// ToListRateResponse converts a slice of domain.ExchangeRate to RateResponse DTOs.
func ToListRateResponse(rates []domain.ExchangeRate) []RateResponse {
	responses := make([]RateResponse, len(rates))
	for i := range rates {
		responses[i] = ToRateResponse(&rates[i])
	}
	return responses
}
