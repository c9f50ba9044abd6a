package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the lifecycle state of a tip transaction.
type TransactionStatus string

const (
	StatusPending  TransactionStatus = "pending"
	StatusPaid     TransactionStatus = "paid"
	StatusArchived TransactionStatus = "archived"
)

// TransitionKind names a requested status transition. Transitions are
// requested, never asserted locally: the authoritative status only changes
// after the store confirms the mutation.
type TransitionKind string

const (
	TransitionMarkPaid TransitionKind = "mark-paid"
	TransitionArchive  TransitionKind = "archive"
)

// Transaction is a tip owned by the backend store. Clients hold a local
// mirror and never mutate Status directly; they request transitions and
// reconcile the echoed result.
type Transaction struct {
	ID                  string            `json:"id"`
	SenderIdentity      string            `json:"senderIdentity"` // email, or "guest"
	RecipientIdentifier string            `json:"recipientIdentifier"`
	PayoutAmount        decimal.Decimal   `json:"payoutAmount"`
	TargetCurrency      string            `json:"targetCurrency"`
	SourceUSDValue      decimal.Decimal   `json:"sourceUsdValue"`
	Status              TransactionStatus `json:"status"`
	CreatedAt           time.Time         `json:"createdAt"`
}

// AllowedFrom reports whether the transition may be requested from the given
// status: pending -> paid (MarkPaid), pending|paid -> archived (Archive).
func (k TransitionKind) AllowedFrom(status TransactionStatus) bool {
	switch k {
	case TransitionMarkPaid:
		return status == StatusPending
	case TransitionArchive:
		return status == StatusPending || status == StatusPaid
	default:
		return false
	}
}

// Target returns the status the transition moves a transaction into.
func (k TransitionKind) Target() TransactionStatus {
	switch k {
	case TransitionMarkPaid:
		return StatusPaid
	case TransitionArchive:
		return StatusArchived
	default:
		return ""
	}
}
