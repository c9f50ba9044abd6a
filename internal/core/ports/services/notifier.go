package services

import (
	"context"

	"github.com/kahawapay/kahawapay_backend/internal/core/domain"
)

// PayoutNotifier publishes an event when a tip has been paid out. Delivery is
// best-effort: a failed publish never fails the transition that triggered it.
type PayoutNotifier interface {
	NotifyPaid(ctx context.Context, txn domain.Transaction) error
}
