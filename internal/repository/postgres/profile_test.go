package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirelane/jobportal/internal/domain"
	apperrors "github.com/hirelane/jobportal/pkg/errors"
)

func TestSeekerProfileRepository_CreateAndGet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewSeekerProfileRepository(mock)

	now := time.Now().UTC().Truncate(time.Microsecond)
	p := &domain.SeekerProfile{
		ID:        "sp-1",
		UserID:    "u-1234",
		Headline:  "Backend engineer",
		Summary:   "Five years building services",
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectExec("INSERT INTO seeker_profiles").
		WithArgs(p.ID, p.UserID, p.Headline, p.Summary, p.CreatedAt, p.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), p))

	mock.ExpectQuery("FROM seeker_profiles").
		WithArgs(p.UserID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "headline", "summary", "created_at", "updated_at"}).
			AddRow(p.ID, p.UserID, p.Headline, p.Summary, p.CreatedAt, p.UpdatedAt))

	got, err := repo.GetByUserID(context.Background(), p.UserID)
	require.NoError(t, err)
	assert.Equal(t, p.Headline, got.Headline)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeekerProfileRepository_Create_SecondProfileRejected(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewSeekerProfileRepository(mock)

	now := time.Now().UTC()
	p := &domain.SeekerProfile{ID: "sp-2", UserID: "u-1234", CreatedAt: now, UpdatedAt: now}

	mock.ExpectExec("INSERT INTO seeker_profiles").
		WithArgs(p.ID, p.UserID, p.Headline, p.Summary, p.CreatedAt, p.UpdatedAt).
		WillReturnError(fmt.Errorf("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"))

	err = repo.Create(context.Background(), p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecruiterProfileRepository_GetByUserID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewRecruiterProfileRepository(mock)

	mock.ExpectQuery("FROM recruiter_profiles").
		WithArgs("u-none").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByUserID(context.Background(), "u-none")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecruiterProfileRepository_Update_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewRecruiterProfileRepository(mock)

	p := &domain.RecruiterProfile{
		UserID:      "u-5678",
		CompanyName: "Acme Hiring",
		GSTNumber:   "22AAAAA0000A1Z5",
	}

	mock.ExpectExec("UPDATE recruiter_profiles").
		WithArgs(p.CompanyName, p.GSTNumber, pgxmock.AnyArg(), p.UserID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.Update(context.Background(), p))
	assert.NoError(t, mock.ExpectationsWereMet())
}
