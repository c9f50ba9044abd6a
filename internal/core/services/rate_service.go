package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kahawapay/kahawapay_backend/internal/apperrors"
	"github.com/kahawapay/kahawapay_backend/internal/core/domain"
	portsrepo "github.com/kahawapay/kahawapay_backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// Upstream rate feeds disagree on field names. Candidates are tried in order
// and the first non-empty match wins; this is the single place the fallback
// list is defined.
var (
	currencyFieldCandidates  = []string{"target_currency", "target", "currency", "pair", "symbol", "code"}
	rateFieldCandidates      = []string{"rate", "value", "price", "amount"}
	updatedAtFieldCandidates = []string{"updated_at", "updatedAt"}
)

var (
	currencyCodePattern = regexp.MustCompile(`^[A-Z0-9:_-]{3,32}$`)
	numericNoisePattern = regexp.MustCompile(`[,\s_]+`)
)

// NormalizeCurrencyCode uppercases and trims a currency code and validates it
// against the allowed charset and length.
func NormalizeCurrencyCode(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if !currencyCodePattern.MatchString(code) {
		return "", fmt.Errorf("%w: malformed currency code %q", apperrors.ErrInvalidRate, raw)
	}
	return code, nil
}

// ParseRateValue strips thousands separators, underscores and whitespace from
// a numeric string and parses it as a decimal.
func ParseRateValue(raw string) (decimal.Decimal, error) {
	cleaned := numericNoisePattern.ReplaceAllString(strings.TrimSpace(raw), "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%w: empty rate value", apperrors.ErrInvalidRate)
	}
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: unparseable rate value %q", apperrors.ErrInvalidRate, raw)
	}
	return value, nil
}

// NormalizeRateRow extracts a canonical ExchangeRate from an upstream row of
// any of the known shapes. It fails with apperrors.ErrInvalidRate when no
// candidate field yields a valid currency code or a positive numeric value.
func NormalizeRateRow(raw map[string]any) (domain.ExchangeRate, error) {
	code, err := NormalizeCurrencyCode(firstStringField(raw, currencyFieldCandidates))
	if err != nil {
		return domain.ExchangeRate{}, err
	}

	rateValue, ok := firstNumericField(raw, rateFieldCandidates)
	if !ok {
		return domain.ExchangeRate{}, fmt.Errorf("%w: no numeric rate in row for %s", apperrors.ErrInvalidRate, code)
	}
	if rateValue.LessThanOrEqual(decimal.Zero) {
		return domain.ExchangeRate{}, fmt.Errorf("%w: non-positive rate %s for %s", apperrors.ErrInvalidRate, rateValue, code)
	}

	return domain.ExchangeRate{
		TargetCurrency: code,
		Rate:           rateValue,
		UpdatedAt:      firstTimestampField(raw, updatedAtFieldCandidates),
	}, nil
}

// MergeRates normalizes each incoming row and merges it with the existing set,
// keeping the entry with the latest UpdatedAt per target currency. Entries
// without a timestamp compare as epoch 0, and ties keep the entry already
// present. Malformed rows are skipped. The result is sorted by target
// currency for deterministic presentation.
func MergeRates(existing []domain.ExchangeRate, incoming []map[string]any) []domain.ExchangeRate {
	byCurrency := make(map[string]domain.ExchangeRate, len(existing)+len(incoming))
	for _, rate := range existing {
		keepFreshest(byCurrency, rate)
	}
	for _, raw := range incoming {
		rate, err := NormalizeRateRow(raw)
		if err != nil {
			continue
		}
		keepFreshest(byCurrency, rate)
	}
	return sortedRates(byCurrency)
}

func keepFreshest(byCurrency map[string]domain.ExchangeRate, rate domain.ExchangeRate) {
	current, ok := byCurrency[rate.TargetCurrency]
	if !ok || rate.Freshness().After(current.Freshness()) {
		byCurrency[rate.TargetCurrency] = rate
	}
}

func sortedRates(byCurrency map[string]domain.ExchangeRate) []domain.ExchangeRate {
	rates := make([]domain.ExchangeRate, 0, len(byCurrency))
	for _, rate := range byCurrency {
		rates = append(rates, rate)
	}
	sort.Slice(rates, func(i, j int) bool {
		return rates[i].TargetCurrency < rates[j].TargetCurrency
	})
	return rates
}

func firstStringField(raw map[string]any, candidates []string) string {
	for _, key := range candidates {
		if value, ok := raw[key]; ok {
			if s, ok := value.(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return ""
}

func firstNumericField(raw map[string]any, candidates []string) (decimal.Decimal, bool) {
	for _, key := range candidates {
		value, ok := raw[key]
		if !ok || value == nil {
			continue
		}
		if parsed, ok := coerceDecimal(value); ok {
			return parsed, true
		}
	}
	return decimal.Zero, false
}

func coerceDecimal(value any) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case string:
		parsed, err := ParseRateValue(v)
		if err != nil {
			return decimal.Zero, false
		}
		return parsed, true
	case float64:
		return decimal.NewFromFloat(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	default:
		if n, ok := value.(interface{ String() string }); ok {
			// json.Number and friends
			parsed, err := decimal.NewFromString(n.String())
			if err != nil {
				return decimal.Zero, false
			}
			return parsed, true
		}
		return decimal.Zero, false
	}
}

func firstTimestampField(raw map[string]any, candidates []string) *time.Time {
	for _, key := range candidates {
		value, ok := raw[key]
		if !ok || value == nil {
			continue
		}
		switch v := value.(type) {
		case string:
			if parsed, err := time.Parse(time.RFC3339, v); err == nil {
				utc := parsed.UTC()
				return &utc
			}
		case time.Time:
			utc := v.UTC()
			return &utc
		}
	}
	return nil
}

// RateService maintains the deduplicated, freshest-wins rate book. Admin
// upserts are persisted to the rate store; upstream feed rows live in the
// in-memory book and are re-merged on every refresh cycle.
type RateService struct {
	rateRepo portsrepo.RateRepositoryFacade

	mu   sync.RWMutex
	book map[string]domain.ExchangeRate
}

// NewRateService creates a new RateService.
func NewRateService(rateRepo portsrepo.RateRepositoryFacade) *RateService {
	return &RateService{
		rateRepo: rateRepo,
		book:     make(map[string]domain.ExchangeRate),
	}
}

// LoadFromStore seeds the rate book from the persistent store. Called once at
// startup before the first upstream refresh.
func (s *RateService) LoadFromStore(ctx context.Context) error {
	stored, err := s.rateRepo.ListRates(ctx)
	if err != nil {
		return fmt.Errorf("failed to load rates from store: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rate := range stored {
		keepFreshest(s.book, rate)
	}
	return nil
}

// ListRates returns the current deduplicated view, sorted by target currency.
func (s *RateService) ListRates(ctx context.Context) []domain.ExchangeRate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedRates(s.book)
}

// Currencies returns the known target currency codes, sorted.
func (s *RateService) Currencies(ctx context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	codes := make([]string, 0, len(s.book))
	for code := range s.book {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// ResolveRate returns the current rate for a target currency.
func (s *RateService) ResolveRate(ctx context.Context, targetCurrency string) (*domain.ExchangeRate, error) {
	code := strings.ToUpper(strings.TrimSpace(targetCurrency))
	if code == "" {
		return nil, fmt.Errorf("%w: target currency is required", apperrors.ErrValidation)
	}

	s.mu.RLock()
	rate, ok := s.book[code]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no exchange rate for %s", apperrors.ErrUnsupportedCurrency, code)
	}
	return &rate, nil
}

// UpsertRate validates and saves an admin-supplied rate. The entry is stamped
// with the current time so it wins the freshest-wins merge, persisted, and
// folded into the in-memory book.
func (s *RateService) UpsertRate(ctx context.Context, targetCurrency, rate string) (*domain.ExchangeRate, error) {
	code, err := NormalizeCurrencyCode(targetCurrency)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed currency code %q", apperrors.ErrValidation, targetCurrency)
	}
	value, err := ParseRateValue(rate)
	if err != nil {
		return nil, fmt.Errorf("%w: unparseable rate %q", apperrors.ErrValidation, rate)
	}
	if value.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: rate must be positive", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	entry := domain.ExchangeRate{
		TargetCurrency: code,
		Rate:           value,
		UpdatedAt:      &now,
	}

	if err := s.rateRepo.SaveRate(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save exchange rate: %w", err)
	}

	s.mu.Lock()
	keepFreshest(s.book, entry)
	s.mu.Unlock()

	return &entry, nil
}

// MergeUpstreamRows folds heterogeneously shaped upstream rows into the rate
// book. Malformed rows are dropped; a fetch that yields nothing new leaves the
// previous view intact.
func (s *RateService) MergeUpstreamRows(ctx context.Context, rows []map[string]any) []domain.ExchangeRate {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := MergeRates(sortedRates(s.book), rows)
	s.book = make(map[string]domain.ExchangeRate, len(merged))
	for _, rate := range merged {
		s.book[rate.TargetCurrency] = rate
	}
	return merged
}
