package dto

import (
	"github.com/kahawapay/kahawapay_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PreviewRequest defines the tip preview payload sent by the frontend.
type PreviewRequest struct {
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Currency string          `json:"currency" binding:"required,currencycode"`
	MSISDN   string          `json:"msisdn" binding:"required,min=7,max=20"`
}

// PreviewResponse is the settlement breakdown returned to the frontend. The
// USD value is included so the client can re-check the guest limit at confirm
// time without recomputing against drifted rates.
type PreviewResponse struct {
	SourceAmount    decimal.Decimal `json:"amount"`
	AssetUSDRate    decimal.Decimal `json:"asset_usd_rate"`
	AmountUSD       decimal.Decimal `json:"amount_usd"`
	FeeUSD          decimal.Decimal `json:"fee_usd"`
	NetUSD          decimal.Decimal `json:"net_usd"`
	RecipientAmount decimal.Decimal `json:"recipient_amount"`
	Currency        string          `json:"currency"`
	MSISDN          string          `json:"msisdn"`
	SenderEmail     string          `json:"sender_email,omitempty"`
}

// ToPreviewResponse converts a domain.PreviewResult to PreviewResponse DTO.
func ToPreviewResponse(result *domain.PreviewResult, msisdn, senderEmail string) PreviewResponse {
	return PreviewResponse{
		SourceAmount:    result.SourceAmount,
		AssetUSDRate:    result.AssetUSDRate,
		AmountUSD:       result.SourceUSDValue,
		FeeUSD:          result.FeeValue,
		NetUSD:          result.NetValue,
		RecipientAmount: result.PayoutAmount,
		Currency:        result.TargetCurrency,
		MSISDN:          msisdn,
		SenderEmail:     senderEmail,
	}
}
