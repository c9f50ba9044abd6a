package services_test

import (
	"context"
	"testing"

	"github.com/kahawapay/kahawapay_backend/internal/apperrors"
	"github.com/kahawapay/kahawapay_backend/internal/core/domain"
	"github.com/kahawapay/kahawapay_backend/internal/core/services"
	"github.com/kahawapay/kahawapay_backend/internal/dto"
	"github.com/kahawapay/kahawapay_backend/internal/utils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type UserServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	service  *services.UserService
	ctx      context.Context
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockRepo)
	suite.ctx = context.Background()
}

func (suite *UserServiceTestSuite) TestRegisterHashesAndLowercases() {
	suite.mockRepo.On("SaveUser", suite.ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.Email == "sender@example.com" &&
			user.Role == domain.RoleUser &&
			user.PasswordHash != "" &&
			user.PasswordHash != "s3cret-pass" &&
			utils.CheckPasswordHash("s3cret-pass", user.PasswordHash)
	})).Return(nil).Once()

	user, err := suite.service.Register(suite.ctx, dto.RegisterRequest{
		Email:    "Sender@Example.COM",
		Password: "s3cret-pass",
	})
	suite.Require().NoError(err)
	suite.Equal("sender@example.com", user.Email)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegisterDuplicateEmail() {
	suite.mockRepo.On("SaveUser", suite.ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.Register(suite.ctx, dto.RegisterRequest{
		Email:    "sender@example.com",
		Password: "s3cret-pass",
	})
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *UserServiceTestSuite) TestAuthenticate() {
	hash, err := utils.HashPassword("s3cret-pass")
	suite.Require().NoError(err)
	stored := &domain.User{UserID: "u-1", Email: "sender@example.com", PasswordHash: hash, Role: domain.RoleUser}
	suite.mockRepo.On("FindUserByEmail", suite.ctx, "sender@example.com").Return(stored, nil)

	user, err := suite.service.Authenticate(suite.ctx, "Sender@Example.com", "s3cret-pass")
	suite.Require().NoError(err)
	suite.Equal("u-1", user.UserID)

	_, err = suite.service.Authenticate(suite.ctx, "sender@example.com", "wrong-pass")
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestAuthenticateUnknownEmail() {
	suite.mockRepo.On("FindUserByEmail", suite.ctx, "nobody@example.com").
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Authenticate(suite.ctx, "nobody@example.com", "whatever")
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestFindOrCreateGoogleUser() {
	info := &domain.GoogleUserInfo{ID: "g-1", Email: "Sender@Example.com", VerifiedEmail: true, Name: "Sender"}

	// Existing account is returned as-is.
	stored := &domain.User{UserID: "u-1", Email: "sender@example.com"}
	suite.mockRepo.On("FindUserByEmail", suite.ctx, "sender@example.com").Return(stored, nil).Once()
	user, err := suite.service.FindOrCreateGoogleUser(suite.ctx, info)
	suite.Require().NoError(err)
	suite.Equal("u-1", user.UserID)

	// First sign-in creates the account.
	suite.mockRepo.On("FindUserByEmail", suite.ctx, "sender@example.com").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveUser", suite.ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == "sender@example.com" && u.PasswordHash != ""
	})).Return(nil).Once()
	user, err = suite.service.FindOrCreateGoogleUser(suite.ctx, info)
	suite.Require().NoError(err)
	suite.NotEmpty(user.UserID)
}

func (suite *UserServiceTestSuite) TestFindOrCreateGoogleUserRejectsUnverified() {
	info := &domain.GoogleUserInfo{ID: "g-1", Email: "sender@example.com", VerifiedEmail: false}
	_, err := suite.service.FindOrCreateGoogleUser(suite.ctx, info)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindUserByEmail", mock.Anything, mock.Anything)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
