package domain

import "github.com/shopspring/decimal"

// PreviewRequest is a per-request, never persisted description of a tip the
// caller wants priced. RecipientIdentifier is an opaque string (typically a
// mobile money MSISDN); its format is validated at the transport boundary.
type PreviewRequest struct {
	SourceAmount        decimal.Decimal
	TargetCurrency      string
	RecipientIdentifier string
	Actor               Actor
}

// PreviewResult holds the full settlement breakdown for a tip. All values are
// exact decimals; rounding happens only at presentation time.
//
// SourceUSDValue duplicates GrossValue so that confirmation-time guest-limit
// re-checks use the value the sender previewed, not a recomputation against
// possibly drifted rates.
type PreviewResult struct {
	SourceAmount   decimal.Decimal `json:"sourceAmount"`
	AssetUSDRate   decimal.Decimal `json:"assetUsdRate"`
	GrossValue     decimal.Decimal `json:"grossValue"` // source amount converted to USD, pre-fee
	FeeValue       decimal.Decimal `json:"feeValue"`
	NetValue       decimal.Decimal `json:"netValue"`
	PayoutAmount   decimal.Decimal `json:"payoutAmount"` // credited to the recipient, in target currency
	TargetCurrency string          `json:"targetCurrency"`
	TargetRate     decimal.Decimal `json:"targetRate"`
	SourceUSDValue decimal.Decimal `json:"sourceUsdValue"`
}
