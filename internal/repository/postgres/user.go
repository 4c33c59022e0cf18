package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hirelane/jobportal/internal/domain"
	apperrors "github.com/hirelane/jobportal/pkg/errors"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, first_name, last_name, phone, role, email_verified, email_otp, otp_expires, created_at, updated_at`

// Create inserts a new account into the database.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, phone, role, email_verified, email_otp, otp_expires, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.Exec(ctx, query,
		u.ID,
		u.Email,
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		u.Phone,
		u.Role,
		u.EmailVerified,
		u.EmailOTP,
		u.OTPExpires,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrAlreadyExists, "insert user")
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves an account by its ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1`

	return r.scanUser(ctx, query, id)
}

// GetByEmail retrieves an account by its email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1`

	return r.scanUser(ctx, query, email)
}

// GetByEmailAndOTP retrieves an account by the (email, code) pair. A code
// that has been consumed no longer matches, so a stale submission naturally
// fails lookup.
func (r *UserRepository) GetByEmailAndOTP(ctx context.Context, email, code string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1 AND email_otp = $2`

	return r.scanUser(ctx, query, email, code)
}

// SetOTP stores a fresh one-time code and expiry, overwriting any previous
// unconsumed code.
func (r *UserRepository) SetOTP(ctx context.Context, userID, code string, expiresAt time.Time) error {
	query := `
		UPDATE users
		SET email_otp = $1, otp_expires = $2, updated_at = $3
		WHERE id = $4`

	ct, err := r.db.Exec(ctx, query, code, expiresAt, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("set otp: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", userID)
	}

	return nil
}

// ConsumeOTPAndVerify sets the verification flag and clears the code and its
// expiry in one statement, so consumption and the authorized state change are
// a single persistence operation.
func (r *UserRepository) ConsumeOTPAndVerify(ctx context.Context, userID string) error {
	query := `
		UPDATE users
		SET email_verified = true, email_otp = NULL, otp_expires = NULL, updated_at = $1
		WHERE id = $2`

	ct, err := r.db.Exec(ctx, query, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("consume otp and verify: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", userID)
	}

	return nil
}

// ConsumeOTPAndSetPassword replaces the password hash and clears the code and
// its expiry in one statement. The verification flag is untouched.
func (r *UserRepository) ConsumeOTPAndSetPassword(ctx context.Context, userID, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = $1, email_otp = NULL, otp_expires = NULL, updated_at = $2
		WHERE id = $3`

	ct, err := r.db.Exec(ctx, query, passwordHash, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("consume otp and set password: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", userID)
	}

	return nil
}

// Update modifies an existing account's mutable fields.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	u.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE users
		SET email = $1, first_name = $2, last_name = $3, phone = $4, updated_at = $5
		WHERE id = $6`

	ct, err := r.db.Exec(ctx, query,
		u.Email,
		u.FirstName,
		u.LastName,
		u.Phone,
		u.UpdatedAt,
		u.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrAlreadyExists, "update user")
		}
		return fmt.Errorf("update user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", u.ID)
	}

	return nil
}

// scanUser is a helper that executes a query expected to return a single user row.
func (r *UserRepository) scanUser(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var u domain.User

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.Phone,
		&u.Role,
		&u.EmailVerified,
		&u.EmailOTP,
		&u.OTPExpires,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	return &u, nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
