package services_test

import (
	"context"
	"testing"

	"github.com/kahawapay/kahawapay_backend/internal/apperrors"
	"github.com/kahawapay/kahawapay_backend/internal/core/domain"
	"github.com/kahawapay/kahawapay_backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AssetPriceProvider ---
type MockAssetPriceProvider struct {
	mock.Mock
}

func (m *MockAssetPriceProvider) CurrentPrice(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type SettlementServiceTestSuite struct {
	suite.Suite
	mockAssetPrice *MockAssetPriceProvider
	rateService    *services.RateService
	service        *services.SettlementService
	ctx            context.Context
}

func (suite *SettlementServiceTestSuite) SetupTest() {
	suite.mockAssetPrice = new(MockAssetPriceProvider)
	suite.rateService = services.NewRateService(new(MockRateRepository))
	suite.rateService.MergeUpstreamRows(context.Background(), []map[string]any{
		{"currency": "KES", "rate": "130"},
	})

	feePercent, _ := decimal.NewFromString("0.02")
	suite.service = services.NewSettlementService(
		suite.rateService,
		suite.mockAssetPrice,
		feePercent,
		decimal.NewFromInt(100), // guest limit in USD
	)
	suite.ctx = context.Background()
}

func (suite *SettlementServiceTestSuite) authenticated() domain.Actor {
	return domain.Actor{UserID: "u-1", Email: "sender@example.com", Role: domain.RoleUser}
}

func (suite *SettlementServiceTestSuite) TestPreviewBreakdown() {
	suite.mockAssetPrice.On("CurrentPrice", suite.ctx).Return(decimal.NewFromInt(60000), nil).Once()

	amount, _ := decimal.NewFromString("0.001") // 0.001 BTC at $60k = $60 gross
	result, err := suite.service.Preview(suite.ctx, domain.PreviewRequest{
		SourceAmount:   amount,
		TargetCurrency: "kes",
		Actor:          domain.Guest,
	})
	suite.Require().NoError(err)

	suite.True(result.GrossValue.Equal(decimal.NewFromInt(60)), "gross %s", result.GrossValue)
	wantFee, _ := decimal.NewFromString("1.2") // 2% of 60
	suite.True(result.FeeValue.Equal(wantFee), "fee %s", result.FeeValue)
	wantNet, _ := decimal.NewFromString("58.8")
	suite.True(result.NetValue.Equal(wantNet), "net %s", result.NetValue)
	wantPayout, _ := decimal.NewFromString("7644") // 58.8 * 130
	suite.True(result.PayoutAmount.Equal(wantPayout), "payout %s", result.PayoutAmount)

	suite.Equal("KES", result.TargetCurrency)
	suite.True(result.TargetRate.Equal(decimal.NewFromInt(130)))
	suite.True(result.SourceUSDValue.Equal(result.GrossValue), "embedded USD value must equal gross")
}

func (suite *SettlementServiceTestSuite) TestPreviewGuestLimitOnGross() {
	suite.mockAssetPrice.On("CurrentPrice", suite.ctx).Return(decimal.NewFromInt(60000), nil)

	// $150 gross: over the $100 guest limit even though net is irrelevant.
	amount, _ := decimal.NewFromString("0.0025")
	_, err := suite.service.Preview(suite.ctx, domain.PreviewRequest{
		SourceAmount:   amount,
		TargetCurrency: "KES",
		Actor:          domain.Guest,
	})
	suite.ErrorIs(err, apperrors.ErrGuestLimitExceeded)

	// Same tip from an authenticated sender passes.
	result, err := suite.service.Preview(suite.ctx, domain.PreviewRequest{
		SourceAmount:   amount,
		TargetCurrency: "KES",
		Actor:          suite.authenticated(),
	})
	suite.Require().NoError(err)
	suite.True(result.GrossValue.Equal(decimal.NewFromInt(150)))
}

func (suite *SettlementServiceTestSuite) TestPreviewGuestLimitBoundary() {
	suite.mockAssetPrice.On("CurrentPrice", suite.ctx).Return(decimal.NewFromInt(100), nil).Once()

	// Exactly the limit is allowed; the limit is exclusive.
	result, err := suite.service.Preview(suite.ctx, domain.PreviewRequest{
		SourceAmount:   decimal.NewFromInt(1),
		TargetCurrency: "KES",
		Actor:          domain.Guest,
	})
	suite.Require().NoError(err)
	suite.True(result.GrossValue.Equal(decimal.NewFromInt(100)))
}

func (suite *SettlementServiceTestSuite) TestPreviewUnsupportedCurrency() {
	suite.mockAssetPrice.On("CurrentPrice", suite.ctx).Return(decimal.NewFromInt(60000), nil).Once()

	_, err := suite.service.Preview(suite.ctx, domain.PreviewRequest{
		SourceAmount:   decimal.NewFromInt(1),
		TargetCurrency: "ZZZ",
		Actor:          suite.authenticated(),
	})
	suite.ErrorIs(err, apperrors.ErrUnsupportedCurrency)
}

func (suite *SettlementServiceTestSuite) TestPreviewValidation() {
	_, err := suite.service.Preview(suite.ctx, domain.PreviewRequest{
		SourceAmount:   decimal.Zero,
		TargetCurrency: "KES",
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.Preview(suite.ctx, domain.PreviewRequest{
		SourceAmount:   decimal.NewFromInt(-1),
		TargetCurrency: "KES",
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.Preview(suite.ctx, domain.PreviewRequest{
		SourceAmount: decimal.NewFromInt(1),
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.mockAssetPrice.AssertNotCalled(suite.T(), "CurrentPrice", mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestPreviewPriceUnavailable() {
	suite.mockAssetPrice.On("CurrentPrice", suite.ctx).
		Return(decimal.Zero, apperrors.ErrUpstreamUnavailable).Once()

	_, err := suite.service.Preview(suite.ctx, domain.PreviewRequest{
		SourceAmount:   decimal.NewFromInt(1),
		TargetCurrency: "KES",
		Actor:          suite.authenticated(),
	})
	suite.ErrorIs(err, apperrors.ErrUpstreamUnavailable)
}

func TestSettlementServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SettlementServiceTestSuite))
}
