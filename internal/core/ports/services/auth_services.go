package services

import (
	"context"
	"time"

	"github.com/kahawapay/kahawapay_backend/internal/core/domain"
	"github.com/kahawapay/kahawapay_backend/internal/dto"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

// UserReaderSvc defines read operations for user data.
type UserReaderSvc interface {
	// GetUserByID retrieves a user by their ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}

// UserWriterSvc defines write operations for user data.
type UserWriterSvc interface {
	// Register creates a new user with a bcrypt-hashed password.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// Authenticate verifies an email/password pair.
	// Fails with apperrors.ErrUnauthorized on any mismatch.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// FindOrCreateGoogleUser resolves the local user for a verified Google
	// identity, creating one on first sign-in.
	FindOrCreateGoogleUser(ctx context.Context, info *domain.GoogleUserInfo) (*domain.User, error)
}

// UserSvcFacade combines all user service interfaces.
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
}

// TokenSvcFacade issues access tokens.
type TokenSvcFacade interface {
	// GenerateAccessToken creates a signed JWT for the user and returns it
	// with its expiry time.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
}

// GoogleOAuthSvcFacade handles the Google sign-in code exchange.
type GoogleOAuthSvcFacade interface {
	// ExchangeCodeForToken exchanges an OAuth authorization code for a token.
	ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error)

	// ValidateGoogleIDToken validates a Google ID token and returns its payload.
	ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error)
}
