package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/kahawapay/kahawapay_backend/internal/apperrors"
	"github.com/kahawapay/kahawapay_backend/internal/core/domain"
	"github.com/kahawapay/kahawapay_backend/internal/core/services"
	"github.com/kahawapay/kahawapay_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsBySender(ctx context.Context, senderIdentity string) ([]domain.Transaction, error) {
	args := m.Called(ctx, senderIdentity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, id string) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) TransitionStatus(ctx context.Context, id string, kind domain.TransitionKind) (*domain.Transaction, error) {
	args := m.Called(ctx, id, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

// --- Mock PayoutNotifier ---
type MockPayoutNotifier struct {
	mock.Mock
}

func (m *MockPayoutNotifier) NotifyPaid(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func testTxn(id string, status domain.TransactionStatus) domain.Transaction {
	return domain.Transaction{
		ID:                  id,
		SenderIdentity:      "sender@example.com",
		RecipientIdentifier: "254712345678",
		PayoutAmount:        decimal.NewFromInt(7644),
		TargetCurrency:      "KES",
		SourceUSDValue:      decimal.NewFromInt(60),
		Status:              status,
		CreatedAt:           time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
	}
}

// --- Pure merge helpers ---

func TestApplyOptimistic_ReplacesByID(t *testing.T) {
	local := []domain.Transaction{
		testTxn("5", domain.StatusPending),
		testTxn("4", domain.StatusPaid),
	}
	echoed := testTxn("5", domain.StatusPaid)

	merged := services.ApplyOptimistic(local, echoed)
	require.Len(t, merged, 2)
	assert.Equal(t, domain.StatusPaid, merged[0].Status)

	// Input is not mutated.
	assert.Equal(t, domain.StatusPending, local[0].Status)
}

func TestApplyOptimistic_PrependsUnknownID(t *testing.T) {
	local := []domain.Transaction{testTxn("4", domain.StatusPending)}
	echoed := testTxn("9", domain.StatusPending)

	merged := services.ApplyOptimistic(local, echoed)
	require.Len(t, merged, 2)
	assert.Equal(t, "9", merged[0].ID)
	assert.Equal(t, "4", merged[1].ID)
}

func TestReconcileWithServer_SnapshotWins(t *testing.T) {
	// The local list optimistically shows id 5 as paid; the server snapshot
	// still has it pending. The snapshot overrides.
	local := []domain.Transaction{
		testTxn("5", domain.StatusPaid),
		testTxn("4", domain.StatusPending),
	}
	snapshot := []domain.Transaction{
		testTxn("5", domain.StatusPending),
		testTxn("4", domain.StatusPending),
	}

	merged := services.ReconcileWithServer(local, snapshot)
	require.Len(t, merged, 2)
	assert.Equal(t, domain.StatusPending, merged[0].Status)

	// Entries absent from the snapshot disappear.
	merged = services.ReconcileWithServer(local, snapshot[:1])
	assert.Len(t, merged, 1)
}

// --- TransactionService ---

type TransactionServiceTestSuite struct {
	suite.Suite
	mockRepo     *MockTransactionRepository
	mockNotifier *MockPayoutNotifier
	service      *services.TransactionService
	ctx          context.Context
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockTransactionRepository)
	suite.mockNotifier = new(MockPayoutNotifier)
	suite.service = services.NewTransactionService(suite.mockRepo, suite.mockNotifier, decimal.NewFromInt(100))
	suite.ctx = context.Background()
}

func (suite *TransactionServiceTestSuite) createRequest() dto.CreateTransactionRequest {
	amount, _ := decimal.NewFromString("0.001")
	return dto.CreateTransactionRequest{
		Amount:          amount,
		Currency:        "kes",
		MSISDN:          "254712345678",
		AmountUSD:       decimal.NewFromInt(60),
		RecipientAmount: decimal.NewFromInt(7644),
	}
}

func (suite *TransactionServiceTestSuite) TestCreatePersistsAndMirrors() {
	suite.mockRepo.On("SaveTransaction", suite.ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Status == domain.StatusPending &&
			txn.TargetCurrency == "KES" &&
			txn.SenderIdentity == "sender@example.com" &&
			txn.ID != ""
	})).Return(nil).Once()

	actor := domain.Actor{UserID: "u-1", Email: "sender@example.com"}
	txn, err := suite.service.Create(suite.ctx, suite.createRequest(), actor)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusPending, txn.Status)

	// The created entry shows up in the mirror before any refresh.
	snapshot := suite.service.Snapshot(suite.ctx)
	suite.Require().Len(snapshot, 1)
	suite.Equal(txn.ID, snapshot[0].ID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateGuestUsesGuestIdentity() {
	suite.mockRepo.On("SaveTransaction", suite.ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.SenderIdentity == domain.GuestIdentity
	})).Return(nil).Once()

	txn, err := suite.service.Create(suite.ctx, suite.createRequest(), domain.Guest)
	suite.Require().NoError(err)
	suite.Equal(domain.GuestIdentity, txn.SenderIdentity)
}

func (suite *TransactionServiceTestSuite) TestCreateGuestLimitRecheck() {
	req := suite.createRequest()
	req.AmountUSD = decimal.NewFromInt(150) // previewed over the $100 guest limit

	_, err := suite.service.Create(suite.ctx, req, domain.Guest)
	suite.ErrorIs(err, apperrors.ErrGuestLimitExceeded)

	// An authenticated sender is not capped.
	suite.mockRepo.On("SaveTransaction", suite.ctx, mock.Anything).Return(nil).Once()
	_, err = suite.service.Create(suite.ctx, req, domain.Actor{UserID: "u-1"})
	suite.NoError(err)
}

func (suite *TransactionServiceTestSuite) TestCreateValidation() {
	req := suite.createRequest()
	req.Amount = decimal.Zero
	_, err := suite.service.Create(suite.ctx, req, domain.Guest)
	suite.ErrorIs(err, apperrors.ErrValidation)

	req = suite.createRequest()
	req.Currency = "   "
	_, err = suite.service.Create(suite.ctx, req, domain.Guest)
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.mockRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestRequestTransitionMarkPaidNotifies() {
	updated := testTxn("5", domain.StatusPaid)
	suite.mockRepo.On("TransitionStatus", suite.ctx, "5", domain.TransitionMarkPaid).Return(&updated, nil).Once()
	suite.mockNotifier.On("NotifyPaid", suite.ctx, updated).Return(nil).Once()
	suite.mockRepo.On("ListTransactions", suite.ctx).Return([]domain.Transaction{updated}, nil).Once()

	result, err := suite.service.RequestTransition(suite.ctx, "5", domain.TransitionMarkPaid)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusPaid, result.Status)
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestRequestTransitionNotifierFailureIsSwallowed() {
	updated := testTxn("5", domain.StatusPaid)
	suite.mockRepo.On("TransitionStatus", suite.ctx, "5", domain.TransitionMarkPaid).Return(&updated, nil).Once()
	suite.mockNotifier.On("NotifyPaid", suite.ctx, updated).Return(errors.New("broker down")).Once()
	suite.mockRepo.On("ListTransactions", suite.ctx).Return([]domain.Transaction{updated}, nil).Once()

	result, err := suite.service.RequestTransition(suite.ctx, "5", domain.TransitionMarkPaid)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusPaid, result.Status)
}

func (suite *TransactionServiceTestSuite) TestRequestTransitionArchiveDoesNotNotify() {
	updated := testTxn("5", domain.StatusArchived)
	suite.mockRepo.On("TransitionStatus", suite.ctx, "5", domain.TransitionArchive).Return(&updated, nil).Once()
	suite.mockRepo.On("ListTransactions", suite.ctx).Return([]domain.Transaction{updated}, nil).Once()

	_, err := suite.service.RequestTransition(suite.ctx, "5", domain.TransitionArchive)
	suite.Require().NoError(err)
	suite.mockNotifier.AssertNotCalled(suite.T(), "NotifyPaid", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestRequestTransitionFailureLeavesMirrorUntouched() {
	pending := testTxn("5", domain.StatusPending)
	suite.mockRepo.On("ListTransactions", suite.ctx).Return([]domain.Transaction{pending}, nil).Once()
	suite.Require().NoError(suite.service.RefreshSnapshot(suite.ctx))

	suite.mockRepo.On("TransitionStatus", suite.ctx, "5", domain.TransitionMarkPaid).
		Return(nil, fmt.Errorf("%w: cannot mark-paid transaction 5 in status archived", apperrors.ErrTransitionFailed)).Once()

	_, err := suite.service.RequestTransition(suite.ctx, "5", domain.TransitionMarkPaid)
	suite.ErrorIs(err, apperrors.ErrTransitionFailed)

	snapshot := suite.service.Snapshot(suite.ctx)
	suite.Require().Len(snapshot, 1)
	suite.Equal(domain.StatusPending, snapshot[0].Status)
	suite.mockNotifier.AssertNotCalled(suite.T(), "NotifyPaid", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestRefreshSnapshotOverridesOptimistic() {
	// Seed the mirror with an optimistic paid entry, then refresh against a
	// server snapshot that still shows it pending.
	suite.mockRepo.On("SaveTransaction", suite.ctx, mock.Anything).Return(nil).Once()
	created, err := suite.service.Create(suite.ctx, suite.createRequest(), domain.Guest)
	suite.Require().NoError(err)

	serverView := *created
	serverView.Status = domain.StatusPending
	suite.mockRepo.On("ListTransactions", suite.ctx).Return([]domain.Transaction{serverView}, nil).Once()

	suite.Require().NoError(suite.service.RefreshSnapshot(suite.ctx))
	snapshot := suite.service.Snapshot(suite.ctx)
	suite.Require().Len(snapshot, 1)
	suite.Equal(domain.StatusPending, snapshot[0].Status)
}

func (suite *TransactionServiceTestSuite) TestListMine() {
	actor := domain.Actor{UserID: "u-1", Email: "sender@example.com"}
	mine := []domain.Transaction{testTxn("5", domain.StatusPending)}
	suite.mockRepo.On("ListTransactionsBySender", suite.ctx, "sender@example.com").Return(mine, nil).Once()

	txns, err := suite.service.ListMine(suite.ctx, actor)
	suite.Require().NoError(err)
	suite.Len(txns, 1)

	_, err = suite.service.ListMine(suite.ctx, domain.Guest)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
