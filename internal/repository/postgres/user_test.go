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

func newUserTestFixture(t *testing.T) (*UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := NewUserRepository(mock)
	return repo, mock
}

func sampleUser() *domain.User {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.User{
		ID:            "u-1234",
		Email:         "alice@example.com",
		PasswordHash:  "hash-abc",
		FirstName:     "Alice",
		LastName:      "Smith",
		Phone:         "+1234567890",
		Role:          domain.RoleJobseeker,
		EmailVerified: false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func userTestColumns() []string {
	return []string{
		"id", "email", "password_hash", "first_name", "last_name",
		"phone", "role", "email_verified", "email_otp", "otp_expires",
		"created_at", "updated_at",
	}
}

func userRow(u *domain.User) *pgxmock.Rows {
	return pgxmock.NewRows(userTestColumns()).AddRow(
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName,
		u.Phone, u.Role, u.EmailVerified, u.EmailOTP, u.OTPExpires,
		u.CreatedAt, u.UpdatedAt,
	)
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestUserRepository_Create_Success(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	u := sampleUser()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(
			u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName,
			u.Phone, u.Role, u.EmailVerified, u.EmailOTP, u.OTPExpires,
			u.CreatedAt, u.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), u)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	u := sampleUser()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(
			u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName,
			u.Phone, u.Role, u.EmailVerified, u.EmailOTP, u.OTPExpires,
			u.CreatedAt, u.UpdatedAt,
		).
		WillReturnError(fmt.Errorf("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"))

	err := repo.Create(context.Background(), u)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists), "expected ErrAlreadyExists, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// GetByID / GetByEmail
// ---------------------------------------------------------------------------

func TestUserRepository_GetByID_Success(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	u := sampleUser()

	mock.ExpectQuery("WHERE id =").
		WithArgs(u.ID).
		WillReturnRows(userRow(u))

	got, err := repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.Email, got.Email)
	assert.Equal(t, u.FirstName, got.FirstName)
	assert.Equal(t, u.Role, got.Role)
	assert.Nil(t, got.EmailOTP)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("WHERE id =").
		WithArgs("missing-id").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByID(context.Background(), "missing-id")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail_Success(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	u := sampleUser()

	mock.ExpectQuery("WHERE email =").
		WithArgs(u.Email).
		WillReturnRows(userRow(u))

	got, err := repo.GetByEmail(context.Background(), u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.Email, got.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("WHERE email =").
		WithArgs("nobody@example.com").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// GetByEmailAndOTP
// ---------------------------------------------------------------------------

func TestUserRepository_GetByEmailAndOTP_Success(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	code := "483920"
	expires := time.Now().UTC().Add(10 * time.Minute).Truncate(time.Microsecond)
	u := sampleUser()
	u.EmailOTP = &code
	u.OTPExpires = &expires

	mock.ExpectQuery("WHERE email = .+ AND email_otp =").
		WithArgs(u.Email, code).
		WillReturnRows(userRow(u))

	got, err := repo.GetByEmailAndOTP(context.Background(), u.Email, code)
	require.NoError(t, err)
	require.NotNil(t, got.EmailOTP)
	assert.Equal(t, code, *got.EmailOTP)
	require.NotNil(t, got.OTPExpires)
	assert.Equal(t, expires, *got.OTPExpires)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmailAndOTP_NoMatch(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("WHERE email = .+ AND email_otp =").
		WithArgs("alice@example.com", "000000").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByEmailAndOTP(context.Background(), "alice@example.com", "000000")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// SetOTP
// ---------------------------------------------------------------------------

func TestUserRepository_SetOTP_Success(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	expires := time.Now().UTC().Add(10 * time.Minute)

	mock.ExpectExec("SET email_otp =").
		WithArgs("483920", expires, pgxmock.AnyArg(), "u-1234").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.SetOTP(context.Background(), "u-1234", "483920", expires)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SetOTP_NotFound(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	expires := time.Now().UTC().Add(10 * time.Minute)

	mock.ExpectExec("SET email_otp =").
		WithArgs("483920", expires, pgxmock.AnyArg(), "missing-id").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.SetOTP(context.Background(), "missing-id", "483920", expires)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// ConsumeOTPAndVerify / ConsumeOTPAndSetPassword
// ---------------------------------------------------------------------------

func TestUserRepository_ConsumeOTPAndVerify_Success(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("SET email_verified = true").
		WithArgs(pgxmock.AnyArg(), "u-1234").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.ConsumeOTPAndVerify(context.Background(), "u-1234")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ConsumeOTPAndVerify_NotFound(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("SET email_verified = true").
		WithArgs(pgxmock.AnyArg(), "missing-id").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.ConsumeOTPAndVerify(context.Background(), "missing-id")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ConsumeOTPAndSetPassword_Success(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("SET password_hash =").
		WithArgs("new-hash", pgxmock.AnyArg(), "u-1234").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.ConsumeOTPAndSetPassword(context.Background(), "u-1234", "new-hash")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ConsumeOTPAndSetPassword_NotFound(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("SET password_hash =").
		WithArgs("new-hash", pgxmock.AnyArg(), "missing-id").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.ConsumeOTPAndSetPassword(context.Background(), "missing-id", "new-hash")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestUserRepository_Update_Success(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	u := sampleUser()

	mock.ExpectExec("SET email =").
		WithArgs(
			u.Email, u.FirstName, u.LastName, u.Phone,
			pgxmock.AnyArg(), // updated_at
			u.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(context.Background(), u)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update_NotFound(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	u := sampleUser()

	mock.ExpectExec("SET email =").
		WithArgs(
			u.Email, u.FirstName, u.LastName, u.Phone,
			pgxmock.AnyArg(),
			u.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), u)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update_DuplicateEmail(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	u := sampleUser()
	u.Email = "taken@example.com"

	mock.ExpectExec("SET email =").
		WithArgs(
			u.Email, u.FirstName, u.LastName, u.Phone,
			pgxmock.AnyArg(),
			u.ID,
		).
		WillReturnError(fmt.Errorf("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"))

	err := repo.Update(context.Background(), u)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists), "expected ErrAlreadyExists, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
