package domain

import "time"

// Roles assignable to users.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered sender in the domain.
type User struct {
	UserID       string    `json:"userID"` // Primary Key (UUID)
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// GoogleUserInfo holds the subset of the Google userinfo payload we care about.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}
