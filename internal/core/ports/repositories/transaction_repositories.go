package repositories

import (
	"context"

	"github.com/kahawapay/kahawapay_backend/internal/core/domain"
)

// TransactionReader defines read operations for tip transactions.
type TransactionReader interface {
	// ListTransactions retrieves the full authoritative snapshot, newest first.
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)

	// ListTransactionsBySender retrieves the transactions sent by one identity, newest first.
	ListTransactionsBySender(ctx context.Context, senderIdentity string) ([]domain.Transaction, error)

	// FindTransactionByID retrieves a single transaction.
	FindTransactionByID(ctx context.Context, id string) (*domain.Transaction, error)
}

// TransactionWriter defines write operations for tip transactions.
type TransactionWriter interface {
	// SaveTransaction persists a newly created transaction.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// TransitionStatus applies a status transition and returns the updated
	// entity. It fails with apperrors.ErrNotFound when the id is unknown and
	// apperrors.ErrTransitionFailed when the current status does not allow
	// the transition.
	TransitionStatus(ctx context.Context, id string, kind domain.TransitionKind) (*domain.Transaction, error)
}

// TransactionRepositoryFacade combines all transaction repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
