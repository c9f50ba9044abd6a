package dto

import (
	"time"

	"github.com/kahawapay/kahawapay_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest confirms a previously previewed tip. AmountUSD and
// RecipientAmount come from the preview the sender approved; the guest limit
// is re-checked against AmountUSD rather than recomputed, so the policy
// decision matches what the sender saw.
type CreateTransactionRequest struct {
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Currency        string          `json:"currency" binding:"required,currencycode"`
	MSISDN          string          `json:"msisdn" binding:"required,min=7,max=20"`
	AmountUSD       decimal.Decimal `json:"amount_usd" binding:"required"`
	RecipientAmount decimal.Decimal `json:"recipient_amount" binding:"required"`
}

// TransactionResponse defines the wire shape of a tip transaction.
type TransactionResponse struct {
	ID              string          `json:"id"`
	SenderEmail     string          `json:"sender_email"`
	MSISDN          string          `json:"recipient_msisdn"`
	RecipientAmount decimal.Decimal `json:"recipient_amount"`
	Currency        string          `json:"currency"`
	AmountUSD       decimal.Decimal `json:"amount_usd"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              txn.ID,
		SenderEmail:     txn.SenderIdentity,
		MSISDN:          txn.RecipientIdentifier,
		RecipientAmount: txn.PayoutAmount,
		Currency:        txn.TargetCurrency,
		AmountUSD:       txn.SourceUSDValue,
		Status:          string(txn.Status),
		CreatedAt:       txn.CreatedAt,
	}
}

// ToListTransactionResponse converts a slice of domain.Transaction to TransactionResponse DTOs.
func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}
