package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is the current conversion rate from USD to a target currency.
// Rate is expressed as units of target currency per 1 USD.
// UpdatedAt is nil when the upstream row carried no timestamp; for
// freshest-wins comparisons a nil timestamp compares as epoch 0.
type ExchangeRate struct {
	TargetCurrency string          `json:"targetCurrency"` // Natural key, normalized uppercase (e.g. "KES", "BTCUSD")
	Rate           decimal.Decimal `json:"rate"`
	UpdatedAt      *time.Time      `json:"updatedAt,omitempty"`
}

// Freshness returns the timestamp used for freshest-wins comparisons.
func (r ExchangeRate) Freshness() time.Time {
	if r.UpdatedAt == nil {
		return time.Unix(0, 0).UTC()
	}
	return *r.UpdatedAt
}
