package services

import (
	"context"

	"github.com/kahawapay/kahawapay_backend/internal/core/domain"
	"github.com/kahawapay/kahawapay_backend/internal/dto"
)

// TransactionReaderSvc defines read operations over the transaction mirror.
type TransactionReaderSvc interface {
	// Snapshot returns the locally cached transaction list (admin view).
	Snapshot(ctx context.Context) []domain.Transaction

	// ListMine returns the transactions sent by the given actor.
	ListMine(ctx context.Context, actor domain.Actor) ([]domain.Transaction, error)
}

// TransactionWriterSvc defines mutating operations on transactions.
type TransactionWriterSvc interface {
	// Create persists a tip confirmed from a preview and merges the echoed
	// entity into the local mirror optimistically.
	Create(ctx context.Context, req dto.CreateTransactionRequest, actor domain.Actor) (*domain.Transaction, error)

	// RequestTransition asks the store to apply a status transition. On
	// success the local mirror is refreshed; on failure it is left untouched
	// and the store's message is passed through.
	RequestTransition(ctx context.Context, id string, kind domain.TransitionKind) (*domain.Transaction, error)

	// RefreshSnapshot replaces the local mirror with the store's authoritative
	// view. The snapshot always wins over optimistic entries.
	RefreshSnapshot(ctx context.Context) error
}

// TransactionSvcFacade combines all transaction service interfaces.
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
