package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kahawapay/kahawapay_backend/internal/apperrors"
	"github.com/kahawapay/kahawapay_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PgxRateRepository implements the rate repository ports using pgxpool.
type PgxRateRepository struct {
	BaseRepository
}

func newPgxRateRepository(db *pgxpool.Pool) *PgxRateRepository {
	return &PgxRateRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// rateRow is the scan target for exchange_rates queries. UpdatedAt is nullable
// so rows merged from sources without timestamps can be represented.
type rateRow struct {
	TargetCurrency string
	Rate           decimal.Decimal
	UpdatedAt      *time.Time
}

func (m rateRow) toDomain() domain.ExchangeRate {
	return domain.ExchangeRate{
		TargetCurrency: m.TargetCurrency,
		Rate:           m.Rate,
		UpdatedAt:      m.UpdatedAt,
	}
}

// SaveRate upserts a rate keyed by target currency. The freshest entry wins:
// a row with no timestamp counts as epoch, so any timestamped save replaces
// it, while a save older than the stored row leaves the row untouched.
func (r *PgxRateRepository) SaveRate(ctx context.Context, rate domain.ExchangeRate) error {
	targetCurrency := strings.ToUpper(rate.TargetCurrency)
	if targetCurrency == "" {
		return fmt.Errorf("%w: target currency is required", apperrors.ErrValidation)
	}

	_, err := r.Pool.Exec(ctx, `
		INSERT INTO exchange_rates (target_currency, rate, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (target_currency) DO UPDATE
		SET rate = EXCLUDED.rate, updated_at = EXCLUDED.updated_at
		WHERE COALESCE(EXCLUDED.updated_at, 'epoch'::timestamptz) > COALESCE(exchange_rates.updated_at, 'epoch'::timestamptz)`,
		targetCurrency, rate.Rate, rate.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save exchange rate for %s: %w", targetCurrency, err)
	}
	return nil
}

// FindRate retrieves the stored rate for a target currency.
func (r *PgxRateRepository) FindRate(ctx context.Context, targetCurrency string) (*domain.ExchangeRate, error) {
	var row rateRow
	err := r.Pool.QueryRow(ctx, `
		SELECT target_currency, rate, updated_at
		FROM exchange_rates
		WHERE target_currency = $1`,
		strings.ToUpper(targetCurrency),
	).Scan(&row.TargetCurrency, &row.Rate, &row.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: exchange rate for %s", apperrors.ErrNotFound, strings.ToUpper(targetCurrency))
		}
		return nil, fmt.Errorf("failed to find exchange rate: %w", err)
	}
	rate := row.toDomain()
	return &rate, nil
}

// ListRates retrieves all stored exchange rates ordered by target currency.
func (r *PgxRateRepository) ListRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT target_currency, rate, updated_at
		FROM exchange_rates
		ORDER BY target_currency`)
	if err != nil {
		return nil, fmt.Errorf("failed to list exchange rates: %w", err)
	}
	defer rows.Close()

	var rates []domain.ExchangeRate
	for rows.Next() {
		var row rateRow
		if err := rows.Scan(&row.TargetCurrency, &row.Rate, &row.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan exchange rate row: %w", err)
		}
		rates = append(rates, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating exchange rate rows: %w", err)
	}
	return rates, nil
}
