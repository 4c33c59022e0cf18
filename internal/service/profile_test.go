package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hirelane/jobportal/internal/domain"
	apperrors "github.com/hirelane/jobportal/pkg/errors"
)

func newProfileFixture() (*mockSeekerProfileRepository, *mockRecruiterProfileRepository, *ProfileService) {
	seekerRepo := new(mockSeekerProfileRepository)
	recruiterRepo := new(mockRecruiterProfileRepository)
	svc := NewProfileService(seekerRepo, recruiterRepo, newTestLogger())
	return seekerRepo, recruiterRepo, svc
}

func TestUpsertSeekerProfile_CreatesWhenMissing(t *testing.T) {
	seekerRepo, _, svc := newProfileFixture()
	ctx := context.Background()

	seekerRepo.On("GetByUserID", ctx, "u-1").Return(nil, apperrors.ErrNotFound)
	seekerRepo.On("Create", ctx, mock.AnythingOfType("*domain.SeekerProfile")).Return(nil)

	profile, err := svc.UpsertSeekerProfile(ctx, "u-1", SeekerProfileInput{
		Headline: "Backend engineer",
		Summary:  "Five years building services",
	})

	require.NoError(t, err)
	assert.Equal(t, "u-1", profile.UserID)
	assert.NotEmpty(t, profile.ID)
	seekerRepo.AssertExpectations(t)
}

func TestUpsertSeekerProfile_UpdatesWhenPresent(t *testing.T) {
	seekerRepo, _, svc := newProfileFixture()
	ctx := context.Background()

	existing := &domain.SeekerProfile{ID: "sp-1", UserID: "u-1", Headline: "Old headline"}
	seekerRepo.On("GetByUserID", ctx, "u-1").Return(existing, nil)
	seekerRepo.On("Update", ctx, existing).Return(nil)

	profile, err := svc.UpsertSeekerProfile(ctx, "u-1", SeekerProfileInput{Headline: "New headline"})

	require.NoError(t, err)
	assert.Equal(t, "sp-1", profile.ID)
	assert.Equal(t, "New headline", profile.Headline)
	seekerRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpsertRecruiterProfile_RequiresCompanyName(t *testing.T) {
	_, recruiterRepo, svc := newProfileFixture()
	ctx := context.Background()

	profile, err := svc.UpsertRecruiterProfile(ctx, "u-1", RecruiterProfileInput{})

	assert.Nil(t, profile)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	recruiterRepo.AssertNotCalled(t, "GetByUserID", mock.Anything, mock.Anything)
}

func TestDeleteSeekerProfile(t *testing.T) {
	seekerRepo, _, svc := newProfileFixture()
	ctx := context.Background()

	seekerRepo.On("DeleteByUserID", ctx, "u-1").Return(nil)

	err := svc.DeleteSeekerProfile(ctx, "u-1")
	require.NoError(t, err)
	seekerRepo.AssertExpectations(t)
}

func TestDeleteRecruiterProfile_NotFound(t *testing.T) {
	_, recruiterRepo, svc := newProfileFixture()
	ctx := context.Background()

	recruiterRepo.On("DeleteByUserID", ctx, "u-1").Return(apperrors.ErrNotFound)

	err := svc.DeleteRecruiterProfile(ctx, "u-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetRecruiterProfile_NotFound(t *testing.T) {
	_, recruiterRepo, svc := newProfileFixture()
	ctx := context.Background()

	recruiterRepo.On("GetByUserID", ctx, "u-1").Return(nil, apperrors.ErrNotFound)

	profile, err := svc.GetRecruiterProfile(ctx, "u-1")
	assert.Nil(t, profile)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
