package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kahawapay/kahawapay_backend/internal/apperrors"
	"github.com/kahawapay/kahawapay_backend/internal/core/domain"
	portsrepo "github.com/kahawapay/kahawapay_backend/internal/core/ports/repositories"
	"github.com/kahawapay/kahawapay_backend/internal/dto"
	"github.com/kahawapay/kahawapay_backend/internal/utils"
)

// UserService provides account management for tip senders.
type UserService struct {
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register creates a new user with a bcrypt-hashed password.
func (s *UserService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", apperrors.ErrValidation)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := domain.User{
		UserID:       uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email %s is already registered", apperrors.ErrDuplicate, email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// Authenticate verifies an email/password pair. Any mismatch yields
// apperrors.ErrUnauthorized without distinguishing unknown email from bad
// password.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
	}
	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

// FindOrCreateGoogleUser resolves the local account for a verified Google
// identity, creating one on first sign-in. Google accounts get a random
// password hash; they authenticate through the OAuth flow only.
func (s *UserService) FindOrCreateGoogleUser(ctx context.Context, info *domain.GoogleUserInfo) (*domain.User, error) {
	if info == nil || info.Email == "" {
		return nil, fmt.Errorf("%w: google user info missing email", apperrors.ErrValidation)
	}
	if !info.VerifiedEmail {
		return nil, fmt.Errorf("%w: google account email is not verified", apperrors.ErrUnauthorized)
	}

	email := strings.ToLower(strings.TrimSpace(info.Email))
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up google user: %w", err)
	}

	randomSecret, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate placeholder credential: %w", err)
	}
	hash, err := utils.HashPassword(randomSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to hash placeholder credential: %w", err)
	}

	created := domain.User{
		UserID:       uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.userRepo.SaveUser(ctx, created); err != nil {
		return nil, fmt.Errorf("failed to create google user: %w", err)
	}
	return &created, nil
}
