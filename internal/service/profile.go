package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hirelane/jobportal/internal/domain"
	"github.com/hirelane/jobportal/internal/repository"
	apperrors "github.com/hirelane/jobportal/pkg/errors"
)

// ProfileService implements per-role profile management. Each account owns at
// most one profile of its role's kind.
type ProfileService struct {
	seekerRepo    repository.SeekerProfileRepository
	recruiterRepo repository.RecruiterProfileRepository
	logger        *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(
	seekerRepo repository.SeekerProfileRepository,
	recruiterRepo repository.RecruiterProfileRepository,
	logger *slog.Logger,
) *ProfileService {
	return &ProfileService{
		seekerRepo:    seekerRepo,
		recruiterRepo: recruiterRepo,
		logger:        logger,
	}
}

// SeekerProfileInput holds the mutable fields of a jobseeker profile.
type SeekerProfileInput struct {
	Headline string
	Summary  string
}

// RecruiterProfileInput holds the mutable fields of a recruiter profile.
type RecruiterProfileInput struct {
	CompanyName string
	GSTNumber   string
}

// UpsertSeekerProfile creates the account's jobseeker profile or updates it
// if it already exists.
func (s *ProfileService) UpsertSeekerProfile(ctx context.Context, userID string, input SeekerProfileInput) (*domain.SeekerProfile, error) {
	existing, err := s.seekerRepo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("get seeker profile: %w", err)
	}

	if existing != nil {
		existing.Headline = input.Headline
		existing.Summary = input.Summary
		if err := s.seekerRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("update seeker profile: %w", err)
		}

		s.logger.InfoContext(ctx, "seeker profile updated",
			slog.String("user_id", userID),
		)
		return existing, nil
	}

	now := time.Now().UTC()
	profile := &domain.SeekerProfile{
		ID:        uuid.New().String(),
		UserID:    userID,
		Headline:  input.Headline,
		Summary:   input.Summary,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.seekerRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("create seeker profile: %w", err)
	}

	s.logger.InfoContext(ctx, "seeker profile created",
		slog.String("user_id", userID),
	)

	return profile, nil
}

// GetSeekerProfile retrieves the account's jobseeker profile.
func (s *ProfileService) GetSeekerProfile(ctx context.Context, userID string) (*domain.SeekerProfile, error) {
	profile, err := s.seekerRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get seeker profile: %w", err)
	}
	return profile, nil
}

// DeleteSeekerProfile removes the account's jobseeker profile.
func (s *ProfileService) DeleteSeekerProfile(ctx context.Context, userID string) error {
	if err := s.seekerRepo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("delete seeker profile: %w", err)
	}

	s.logger.InfoContext(ctx, "seeker profile deleted",
		slog.String("user_id", userID),
	)

	return nil
}

// UpsertRecruiterProfile creates the account's recruiter profile or updates
// it if it already exists.
func (s *ProfileService) UpsertRecruiterProfile(ctx context.Context, userID string, input RecruiterProfileInput) (*domain.RecruiterProfile, error) {
	if input.CompanyName == "" {
		return nil, apperrors.InvalidInput("company name is required")
	}

	existing, err := s.recruiterRepo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("get recruiter profile: %w", err)
	}

	if existing != nil {
		existing.CompanyName = input.CompanyName
		existing.GSTNumber = input.GSTNumber
		if err := s.recruiterRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("update recruiter profile: %w", err)
		}

		s.logger.InfoContext(ctx, "recruiter profile updated",
			slog.String("user_id", userID),
		)
		return existing, nil
	}

	now := time.Now().UTC()
	profile := &domain.RecruiterProfile{
		ID:          uuid.New().String(),
		UserID:      userID,
		CompanyName: input.CompanyName,
		GSTNumber:   input.GSTNumber,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.recruiterRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("create recruiter profile: %w", err)
	}

	s.logger.InfoContext(ctx, "recruiter profile created",
		slog.String("user_id", userID),
	)

	return profile, nil
}

// GetRecruiterProfile retrieves the account's recruiter profile.
func (s *ProfileService) GetRecruiterProfile(ctx context.Context, userID string) (*domain.RecruiterProfile, error) {
	profile, err := s.recruiterRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get recruiter profile: %w", err)
	}
	return profile, nil
}

// DeleteRecruiterProfile removes the account's recruiter profile.
func (s *ProfileService) DeleteRecruiterProfile(ctx context.Context, userID string) error {
	if err := s.recruiterRepo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("delete recruiter profile: %w", err)
	}

	s.logger.InfoContext(ctx, "recruiter profile deleted",
		slog.String("user_id", userID),
	)

	return nil
}
