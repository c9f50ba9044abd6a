package domain_test

import (
	"testing"
	"time"

	"github.com/kahawapay/kahawapay_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestTransitionKindAllowedFrom(t *testing.T) {
	assert.True(t, domain.TransitionMarkPaid.AllowedFrom(domain.StatusPending))
	assert.False(t, domain.TransitionMarkPaid.AllowedFrom(domain.StatusPaid))
	assert.False(t, domain.TransitionMarkPaid.AllowedFrom(domain.StatusArchived))

	assert.True(t, domain.TransitionArchive.AllowedFrom(domain.StatusPending))
	assert.True(t, domain.TransitionArchive.AllowedFrom(domain.StatusPaid))
	assert.False(t, domain.TransitionArchive.AllowedFrom(domain.StatusArchived))

	assert.False(t, domain.TransitionKind("promote").AllowedFrom(domain.StatusPending))
}

func TestTransitionKindTarget(t *testing.T) {
	assert.Equal(t, domain.StatusPaid, domain.TransitionMarkPaid.Target())
	assert.Equal(t, domain.StatusArchived, domain.TransitionArchive.Target())
}

func TestExchangeRateFreshness(t *testing.T) {
	stamped := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	rate := domain.ExchangeRate{TargetCurrency: "KES", UpdatedAt: &stamped}
	assert.Equal(t, stamped, rate.Freshness())

	// A missing timestamp counts as epoch, so any timestamped entry is fresher.
	unstamped := domain.ExchangeRate{TargetCurrency: "KES"}
	assert.Equal(t, time.Unix(0, 0).UTC(), unstamped.Freshness())
	assert.True(t, rate.Freshness().After(unstamped.Freshness()))
}
