package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hirelane/jobportal/internal/domain"
	apperrors "github.com/hirelane/jobportal/pkg/errors"
)

// SeekerProfileRepository implements repository.SeekerProfileRepository using PostgreSQL.
type SeekerProfileRepository struct {
	db DB
}

// NewSeekerProfileRepository creates a new PostgreSQL-backed seeker profile repository.
func NewSeekerProfileRepository(db DB) *SeekerProfileRepository {
	return &SeekerProfileRepository{db: db}
}

// Create inserts a new seeker profile. Each account holds at most one.
func (r *SeekerProfileRepository) Create(ctx context.Context, p *domain.SeekerProfile) error {
	query := `
		INSERT INTO seeker_profiles (id, user_id, headline, summary, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query, p.ID, p.UserID, p.Headline, p.Summary, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("seeker profile", "user_id", p.UserID)
		}
		return fmt.Errorf("insert seeker profile: %w", err)
	}

	return nil
}

// GetByUserID retrieves a seeker profile by the owning account's ID.
func (r *SeekerProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.SeekerProfile, error) {
	query := `
		SELECT id, user_id, headline, summary, created_at, updated_at
		FROM seeker_profiles
		WHERE user_id = $1`

	var p domain.SeekerProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.Headline, &p.Summary, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan seeker profile: %w", err)
	}

	return &p, nil
}

// Update modifies an existing seeker profile.
func (r *SeekerProfileRepository) Update(ctx context.Context, p *domain.SeekerProfile) error {
	p.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE seeker_profiles
		SET headline = $1, summary = $2, updated_at = $3
		WHERE user_id = $4`

	ct, err := r.db.Exec(ctx, query, p.Headline, p.Summary, p.UpdatedAt, p.UserID)
	if err != nil {
		return fmt.Errorf("update seeker profile: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("seeker profile", p.UserID)
	}

	return nil
}

// DeleteByUserID removes the seeker profile owned by the given account.
func (r *SeekerProfileRepository) DeleteByUserID(ctx context.Context, userID string) error {
	query := `
		DELETE FROM seeker_profiles
		WHERE user_id = $1`

	ct, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("delete seeker profile: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("seeker profile", userID)
	}

	return nil
}

// RecruiterProfileRepository implements repository.RecruiterProfileRepository using PostgreSQL.
type RecruiterProfileRepository struct {
	db DB
}

// NewRecruiterProfileRepository creates a new PostgreSQL-backed recruiter profile repository.
func NewRecruiterProfileRepository(db DB) *RecruiterProfileRepository {
	return &RecruiterProfileRepository{db: db}
}

// Create inserts a new recruiter profile. Each account holds at most one.
func (r *RecruiterProfileRepository) Create(ctx context.Context, p *domain.RecruiterProfile) error {
	query := `
		INSERT INTO recruiter_profiles (id, user_id, company_name, gst_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query, p.ID, p.UserID, p.CompanyName, p.GSTNumber, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("recruiter profile", "user_id", p.UserID)
		}
		return fmt.Errorf("insert recruiter profile: %w", err)
	}

	return nil
}

// GetByUserID retrieves a recruiter profile by the owning account's ID.
func (r *RecruiterProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.RecruiterProfile, error) {
	query := `
		SELECT id, user_id, company_name, gst_number, created_at, updated_at
		FROM recruiter_profiles
		WHERE user_id = $1`

	var p domain.RecruiterProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.CompanyName, &p.GSTNumber, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan recruiter profile: %w", err)
	}

	return &p, nil
}

// Update modifies an existing recruiter profile.
func (r *RecruiterProfileRepository) Update(ctx context.Context, p *domain.RecruiterProfile) error {
	p.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE recruiter_profiles
		SET company_name = $1, gst_number = $2, updated_at = $3
		WHERE user_id = $4`

	ct, err := r.db.Exec(ctx, query, p.CompanyName, p.GSTNumber, p.UpdatedAt, p.UserID)
	if err != nil {
		return fmt.Errorf("update recruiter profile: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("recruiter profile", p.UserID)
	}

	return nil
}

// DeleteByUserID removes the recruiter profile owned by the given account.
func (r *RecruiterProfileRepository) DeleteByUserID(ctx context.Context, userID string) error {
	query := `
		DELETE FROM recruiter_profiles
		WHERE user_id = $1`

	ct, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("delete recruiter profile: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("recruiter profile", userID)
	}

	return nil
}
