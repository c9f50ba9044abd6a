package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kahawapay/kahawapay_backend/internal/apperrors"
	"github.com/kahawapay/kahawapay_backend/internal/core/domain"
)

// uniqueViolationCode is the postgres error code for unique constraint violations.
const uniqueViolationCode = "23505"

// PgxUserRepository implements the user repository ports using pgxpool.
type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(db *pgxpool.Pool) *PgxUserRepository {
	return &PgxUserRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

const userColumns = `user_id, email, password_hash, role, created_at`

// SaveUser persists a new user.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5)`,
		user.UserID, strings.ToLower(user.Email), user.PasswordHash, user.Role, user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return fmt.Errorf("%w: email %s is already registered", apperrors.ErrDuplicate, user.Email)
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// FindUserByID retrieves a user by their ID.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findUser(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE user_id = $1`, userID)
}

// FindUserByEmail retrieves a user by their email address.
func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findUser(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1`, strings.ToLower(email))
}

func (r *PgxUserRepository) findUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	err := r.Pool.QueryRow(ctx, query, arg).Scan(
		&user.UserID, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}
