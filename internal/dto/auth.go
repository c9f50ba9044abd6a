package dto

import (
	"time"

	"github.com/kahawapay/kahawapay_backend/internal/core/domain"
)

// RegisterRequest defines the data needed to create a new account.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest defines the credentials for a password login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// GoogleCallbackRequest carries the OAuth authorization code posted by the frontend.
type GoogleCallbackRequest struct {
	Code string `json:"code" binding:"required"`
}

// UserResponse defines the data returned for a user.
type UserResponse struct {
	UserID    string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToUserResponse converts a domain.User to UserResponse DTO.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:    user.UserID,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
