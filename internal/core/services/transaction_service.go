package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kahawapay/kahawapay_backend/internal/apperrors"
	"github.com/kahawapay/kahawapay_backend/internal/core/domain"
	portsrepo "github.com/kahawapay/kahawapay_backend/internal/core/ports/repositories"
	portssvc "github.com/kahawapay/kahawapay_backend/internal/core/ports/services"
	"github.com/kahawapay/kahawapay_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// ApplyOptimistic inserts or replaces the echoed transaction in the local
// list, keyed by ID. New entries are prepended so the list stays newest-first.
// The input slice is not mutated.
func ApplyOptimistic(local []domain.Transaction, echoed domain.Transaction) []domain.Transaction {
	for i, txn := range local {
		if txn.ID == echoed.ID {
			merged := append([]domain.Transaction(nil), local...)
			merged[i] = echoed
			return merged
		}
	}
	merged := make([]domain.Transaction, 0, len(local)+1)
	merged = append(merged, echoed)
	return append(merged, local...)
}

// ReconcileWithServer replaces the local list with the server snapshot. The
// snapshot is always authoritative: optimistic entries exist only to bridge
// the latency between a mutating call and the next poll.
func ReconcileWithServer(local, snapshot []domain.Transaction) []domain.Transaction {
	return append([]domain.Transaction(nil), snapshot...)
}

// TransactionService keeps a locally cached mirror of the transaction store
// consistent despite optimistic updates and the periodic full refresh.
type TransactionService struct {
	txnRepo       portsrepo.TransactionRepositoryFacade
	notifier      portssvc.PayoutNotifier
	guestLimitUSD decimal.Decimal

	mu     sync.RWMutex
	mirror []domain.Transaction
}

// NewTransactionService creates a new TransactionService. notifier may be nil
// when payout notifications are disabled.
func NewTransactionService(txnRepo portsrepo.TransactionRepositoryFacade, notifier portssvc.PayoutNotifier, guestLimitUSD decimal.Decimal) *TransactionService {
	return &TransactionService{
		txnRepo:       txnRepo,
		notifier:      notifier,
		guestLimitUSD: guestLimitUSD,
	}
}

// Create persists a tip confirmed from a preview. The guest limit is
// re-checked against the USD value embedded in the confirmed preview, not
// recomputed, so the policy decision matches what the sender saw.
func (s *TransactionService) Create(ctx context.Context, req dto.CreateTransactionRequest, actor domain.Actor) (*domain.Transaction, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) || req.RecipientAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amounts must be positive", apperrors.ErrValidation)
	}
	code := strings.ToUpper(strings.TrimSpace(req.Currency))
	if code == "" {
		return nil, fmt.Errorf("%w: target currency is required", apperrors.ErrValidation)
	}
	if actor.IsGuest() && req.AmountUSD.GreaterThan(s.guestLimitUSD) {
		return nil, fmt.Errorf("%w: guests are limited to $%s per tip; please log in for higher limits",
			apperrors.ErrGuestLimitExceeded, s.guestLimitUSD.String())
	}

	txn := domain.Transaction{
		ID:                  uuid.NewString(),
		SenderIdentity:      actor.Identity(),
		RecipientIdentifier: req.MSISDN,
		PayoutAmount:        req.RecipientAmount,
		TargetCurrency:      code,
		SourceUSDValue:      req.AmountUSD,
		Status:              domain.StatusPending,
		CreatedAt:           time.Now().UTC(),
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.applyOptimistic(txn)
	return &txn, nil
}

// Snapshot returns the locally cached transaction list.
func (s *TransactionService) Snapshot(ctx context.Context) []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Transaction(nil), s.mirror...)
}

// ListMine returns the transactions sent by the given actor, straight from
// the store (a sender's wallet view must not show other senders' optimistic
// entries anyway, so there is no mirror to consult).
func (s *TransactionService) ListMine(ctx context.Context, actor domain.Actor) ([]domain.Transaction, error) {
	if actor.IsGuest() {
		return nil, fmt.Errorf("%w: guests have no wallet", apperrors.ErrUnauthorized)
	}
	txns, err := s.txnRepo.ListTransactionsBySender(ctx, actor.Identity())
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for sender: %w", err)
	}
	return txns, nil
}

// RequestTransition asks the store to apply a status transition. Nothing is
// asserted locally: on store failure the mirror is untouched and the store's
// message is passed through. On success the echoed entity is merged
// optimistically and a full refresh is attempted; if that refresh fails the
// optimistic entry stands until the next successful poll overwrites it.
func (s *TransactionService) RequestTransition(ctx context.Context, id string, kind domain.TransitionKind) (*domain.Transaction, error) {
	updated, err := s.txnRepo.TransitionStatus(ctx, id, kind)
	if err != nil {
		return nil, err
	}

	s.applyOptimistic(*updated)

	if kind == domain.TransitionMarkPaid && s.notifier != nil {
		// Best-effort: the notifier logs its own failures.
		_ = s.notifier.NotifyPaid(ctx, *updated)
	}

	if err := s.RefreshSnapshot(ctx); err != nil {
		// Keep the optimistic entry; the next poll reconciles.
		return updated, nil
	}
	return updated, nil
}

// RefreshSnapshot replaces the mirror with the store's authoritative view.
func (s *TransactionService) RefreshSnapshot(ctx context.Context) error {
	snapshot, err := s.txnRepo.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh transaction snapshot: %w", err)
	}

	s.mu.Lock()
	s.mirror = ReconcileWithServer(s.mirror, snapshot)
	s.mu.Unlock()
	return nil
}

func (s *TransactionService) applyOptimistic(echoed domain.Transaction) {
	s.mu.Lock()
	s.mirror = ApplyOptimistic(s.mirror, echoed)
	s.mu.Unlock()
}
