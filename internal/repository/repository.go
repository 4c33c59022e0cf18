package repository

import (
	"context"
	"time"

	"github.com/hirelane/jobportal/internal/domain"
)

// UserRepository defines the interface for account persistence operations.
// Passwords are always pre-hashed by the caller; the store never sees
// plaintext.
type UserRepository interface {
	// Create inserts a new account. A duplicate email fails with
	// errors.ErrAlreadyExists.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves an account by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves an account by its email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByEmailAndOTP retrieves an account by the (email, one-time code)
	// pair. A cleared or non-matching code fails lookup, which is what gives
	// codes their at-most-once-use semantics.
	GetByEmailAndOTP(ctx context.Context, email, code string) (*domain.User, error)

	// SetOTP stores a fresh one-time code and its expiry on the account,
	// overwriting any previous unconsumed code (last write wins).
	SetOTP(ctx context.Context, userID, code string, expiresAt time.Time) error

	// ConsumeOTPAndVerify marks the account's email verified and clears the
	// code and expiry in the same statement.
	ConsumeOTPAndVerify(ctx context.Context, userID string) error

	// ConsumeOTPAndSetPassword replaces the password hash and clears the code
	// and expiry in the same statement. The verification flag is untouched.
	ConsumeOTPAndSetPassword(ctx context.Context, userID, passwordHash string) error

	// Update modifies an existing account's mutable profile fields.
	Update(ctx context.Context, user *domain.User) error
}

// RoleRepository defines the read-mostly interface over the role registry.
// Rows are seeded by migration; mutation is an admin concern.
type RoleRepository interface {
	// GetByID retrieves a role by its identifier.
	GetByID(ctx context.Context, id string) (*domain.Role, error)

	// GetByName retrieves a role by its lowercase name.
	GetByName(ctx context.Context, name string) (*domain.Role, error)

	// List returns all roles.
	List(ctx context.Context) ([]domain.Role, error)

	// Create inserts a new role. Duplicate names fail with ErrAlreadyExists.
	Create(ctx context.Context, role *domain.Role) error

	// UpdateName renames a role.
	UpdateName(ctx context.Context, id, name string) error

	// Delete removes a role.
	Delete(ctx context.Context, id string) error
}

// SeekerProfileRepository persists jobseeker profiles, one per account.
type SeekerProfileRepository interface {
	Create(ctx context.Context, profile *domain.SeekerProfile) error
	GetByUserID(ctx context.Context, userID string) (*domain.SeekerProfile, error)
	Update(ctx context.Context, profile *domain.SeekerProfile) error
	DeleteByUserID(ctx context.Context, userID string) error
}

// RecruiterProfileRepository persists recruiter profiles, one per account.
type RecruiterProfileRepository interface {
	Create(ctx context.Context, profile *domain.RecruiterProfile) error
	GetByUserID(ctx context.Context, userID string) (*domain.RecruiterProfile, error)
	Update(ctx context.Context, profile *domain.RecruiterProfile) error
	DeleteByUserID(ctx context.Context, userID string) error
}
