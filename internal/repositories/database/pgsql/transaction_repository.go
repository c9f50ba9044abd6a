package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kahawapay/kahawapay_backend/internal/apperrors"
	"github.com/kahawapay/kahawapay_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PgxTransactionRepository implements the transaction repository ports using pgxpool.
type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(db *pgxpool.Pool) *PgxTransactionRepository {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

type transactionRow struct {
	ID                  string
	SenderIdentity      string
	RecipientIdentifier string
	PayoutAmount        decimal.Decimal
	TargetCurrency      string
	SourceUSDValue      decimal.Decimal
	Status              string
	CreatedAt           time.Time
}

func (m transactionRow) toDomain() domain.Transaction {
	return domain.Transaction{
		ID:                  m.ID,
		SenderIdentity:      m.SenderIdentity,
		RecipientIdentifier: m.RecipientIdentifier,
		PayoutAmount:        m.PayoutAmount,
		TargetCurrency:      m.TargetCurrency,
		SourceUSDValue:      m.SourceUSDValue,
		Status:              domain.TransactionStatus(m.Status),
		CreatedAt:           m.CreatedAt,
	}
}

const transactionColumns = `transaction_id, sender_identity, recipient_identifier, payout_amount, target_currency, source_usd_value, status, created_at`

// SaveTransaction persists a newly created transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		txn.ID, txn.SenderIdentity, txn.RecipientIdentifier, txn.PayoutAmount,
		txn.TargetCurrency, txn.SourceUSDValue, string(txn.Status), txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction %s: %w", txn.ID, err)
	}
	return nil
}

// FindTransactionByID retrieves a single transaction.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, id string) (*domain.Transaction, error) {
	var row transactionRow
	err := r.Pool.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE transaction_id = $1`, id,
	).Scan(&row.ID, &row.SenderIdentity, &row.RecipientIdentifier, &row.PayoutAmount,
		&row.TargetCurrency, &row.SourceUSDValue, &row.Status, &row.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	txn := row.toDomain()
	return &txn, nil
}

// ListTransactions retrieves the full authoritative snapshot, newest first.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return r.queryTransactions(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		ORDER BY created_at DESC, transaction_id DESC`)
}

// ListTransactionsBySender retrieves the transactions sent by one identity, newest first.
func (r *PgxTransactionRepository) ListTransactionsBySender(ctx context.Context, senderIdentity string) ([]domain.Transaction, error) {
	return r.queryTransactions(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE sender_identity = $1
		ORDER BY created_at DESC, transaction_id DESC`, senderIdentity)
}

func (r *PgxTransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		var row transactionRow
		if err := rows.Scan(&row.ID, &row.SenderIdentity, &row.RecipientIdentifier, &row.PayoutAmount,
			&row.TargetCurrency, &row.SourceUSDValue, &row.Status, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating transaction rows: %w", err)
	}
	return txns, nil
}

// TransitionStatus applies a status transition atomically. The UPDATE only
// matches rows whose current status allows the transition, so a second probe
// distinguishes an unknown id from a disallowed current status.
func (r *PgxTransactionRepository) TransitionStatus(ctx context.Context, id string, kind domain.TransitionKind) (*domain.Transaction, error) {
	var fromStatuses []string
	for _, s := range []domain.TransactionStatus{domain.StatusPending, domain.StatusPaid, domain.StatusArchived} {
		if kind.AllowedFrom(s) {
			fromStatuses = append(fromStatuses, string(s))
		}
	}
	if len(fromStatuses) == 0 {
		return nil, fmt.Errorf("%w: unknown transition %q", apperrors.ErrValidation, kind)
	}

	var row transactionRow
	err := r.Pool.QueryRow(ctx, `
		UPDATE transactions
		SET status = $1
		WHERE transaction_id = $2 AND status = ANY($3)
		RETURNING `+transactionColumns,
		string(kind.Target()), id, fromStatuses,
	).Scan(&row.ID, &row.SenderIdentity, &row.RecipientIdentifier, &row.PayoutAmount,
		&row.TargetCurrency, &row.SourceUSDValue, &row.Status, &row.CreatedAt)
	if err == nil {
		txn := row.toDomain()
		return &txn, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to transition transaction %s: %w", id, err)
	}

	// The UPDATE matched nothing: either the id does not exist or the current
	// status blocks this transition.
	current, findErr := r.FindTransactionByID(ctx, id)
	if findErr != nil {
		return nil, findErr
	}
	return nil, fmt.Errorf("%w: cannot %s transaction %s in status %s", apperrors.ErrTransitionFailed, kind, id, current.Status)
}
