package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hirelane/jobportal/internal/auth"
	"github.com/hirelane/jobportal/internal/domain"
	"github.com/hirelane/jobportal/internal/event"
	"github.com/hirelane/jobportal/internal/mailer"
	"github.com/hirelane/jobportal/internal/repository"
	apperrors "github.com/hirelane/jobportal/pkg/errors"
)

// bcryptCost is the cost factor for bcrypt password hashing.
const bcryptCost = 12

// minPasswordLength is the minimum password length required.
const minPasswordLength = 8

// otpTTL is how long a one-time code stays valid after issuance.
const otpTTL = 10 * time.Minute

// AuthService implements the account lifecycle: registration, email
// verification, login, external-identity login, and password reset.
type AuthService struct {
	userRepo      repository.UserRepository
	roleRepo      repository.RoleRepository
	recruiterRepo repository.RecruiterProfileRepository
	jwtManager    *auth.JWTManager
	verifier      auth.IdentityVerifier
	mail          mailer.Sender
	producer      *event.Producer
	logger        *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	recruiterRepo repository.RecruiterProfileRepository,
	jwtManager *auth.JWTManager,
	verifier auth.IdentityVerifier,
	mail mailer.Sender,
	producer *event.Producer,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		roleRepo:      roleRepo,
		recruiterRepo: recruiterRepo,
		jwtManager:    jwtManager,
		verifier:      verifier,
		mail:          mail,
		producer:      producer,
		logger:        logger,
	}
}

// --- Input types ---

// RegisterInput holds the parameters for registering a new account.
type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	Phone       string
	RoleID      string
	CompanyName string
	GSTNumber   string
}

// LoginInput holds the parameters for local login.
type LoginInput struct {
	Email    string
	Password string
}

// GoogleRegisterInput holds the parameters for external-identity registration.
type GoogleRegisterInput struct {
	IDToken     string
	Role        string
	CompanyName string
	GSTNumber   string
}

// --- Registration / verification ---

// Register creates an unverified account, issues a one-time code, and mails
// it. No session token is returned; the session starts at verification.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if input.Email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if input.FirstName == "" {
		return nil, apperrors.InvalidInput("first name is required")
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	role, err := s.roleRepo.GetByID(ctx, input.RoleID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.RoleNotFound()
		}
		return nil, fmt.Errorf("look up role: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	code, err := generateOTP()
	if err != nil {
		return nil, fmt.Errorf("generate otp: %w", err)
	}
	expires := time.Now().UTC().Add(otpTTL)

	now := time.Now().UTC()
	user := &domain.User{
		ID:            uuid.New().String(),
		Email:         input.Email,
		PasswordHash:  string(hashedPassword),
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Phone:         input.Phone,
		Role:          role.Name,
		EmailVerified: false,
		EmailOTP:      &code,
		OTPExpires:    &expires,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return nil, apperrors.DuplicateEmail()
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if role.Name == domain.RoleRecruiter && input.CompanyName != "" {
		if err := s.createRecruiterProfile(ctx, user.ID, input.CompanyName, input.GSTNumber); err != nil {
			s.logger.ErrorContext(ctx, "failed to create recruiter profile",
				slog.String("user_id", user.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	// Code delivery is best-effort; the account exists either way and a new
	// code can be requested through the reset flow.
	if err := s.mail.Send(ctx, mailer.VerificationMessage(user.Email, code)); err != nil {
		s.logger.ErrorContext(ctx, "failed to send verification email",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishUserRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.registered event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
		slog.String("role", user.Role),
	)

	return user, nil
}

// VerifyEmail validates a one-time code, marks the account verified, and
// issues a session token.
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) (*domain.User, string, error) {
	if email == "" || code == "" {
		return nil, "", apperrors.InvalidInput("email and code are required")
	}

	user, err := s.validateOTP(ctx, email, code)
	if err != nil {
		return nil, "", err
	}

	// Consumption and the verification flag flip are one statement, so the
	// code cannot be accepted a second time.
	if err := s.userRepo.ConsumeOTPAndVerify(ctx, user.ID); err != nil {
		return nil, "", fmt.Errorf("consume otp: %w", err)
	}
	user.EmailVerified = true
	user.EmailOTP = nil
	user.OTPExpires = nil

	token, err := s.jwtManager.Generate(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("generate session token: %w", err)
	}

	if err := s.mail.Send(ctx, mailer.WelcomeMessage(user.Email, user.FirstName)); err != nil {
		s.logger.ErrorContext(ctx, "failed to send welcome email",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishUserVerified(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.verified event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "email verified",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, token, nil
}

// --- Login ---

// Login authenticates an account with email and password and issues a
// session token.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*domain.User, string, error) {
	if input.Email == "" || input.Password == "" {
		return nil, "", apperrors.InvalidInput("email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		// Same failure as a wrong password, so the response does not reveal
		// whether the email exists.
		return nil, "", apperrors.InvalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", apperrors.InvalidCredentials()
	}

	token, err := s.jwtManager.Generate(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("generate session token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, token, nil
}

// GoogleLogin validates a Google identity token and issues a session token
// for the matching account. Registration must precede login; no account is
// created here.
func (s *AuthService) GoogleLogin(ctx context.Context, idToken string) (*domain.User, string, error) {
	if idToken == "" {
		return nil, "", apperrors.InvalidInput("token is required")
	}

	identity, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, "", apperrors.InvalidExternalToken()
	}

	user, err := s.userRepo.GetByEmail(ctx, identity.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", apperrors.AccountNotFound(400)
		}
		return nil, "", fmt.Errorf("look up account: %w", err)
	}

	token, err := s.jwtManager.Generate(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("generate session token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in via google",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, token, nil
}

// GoogleRegister validates a Google identity token and creates a verified
// account for it. No OTP round-trip is needed since the provider already
// proved control of the email. The stored password hash is derived from the
// provider's subject identifier, so no usable local password exists.
func (s *AuthService) GoogleRegister(ctx context.Context, input GoogleRegisterInput) (*domain.User, string, error) {
	if input.IDToken == "" {
		return nil, "", apperrors.InvalidInput("token is required")
	}
	if !domain.IsValidRole(input.Role) {
		return nil, "", apperrors.RoleNotFound()
	}

	identity, err := s.verifier.Verify(ctx, input.IDToken)
	if err != nil {
		return nil, "", apperrors.InvalidExternalToken()
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(identity.SubjectID), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash subject id: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:            uuid.New().String(),
		Email:         identity.Email,
		PasswordHash:  string(hashedPassword),
		FirstName:     identity.GivenName,
		LastName:      identity.FamilyName,
		Role:          domain.NormalizeRole(input.Role),
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return nil, "", apperrors.DuplicateEmail()
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	if user.Role == domain.RoleRecruiter && input.CompanyName != "" {
		if err := s.createRecruiterProfile(ctx, user.ID, input.CompanyName, input.GSTNumber); err != nil {
			s.logger.ErrorContext(ctx, "failed to create recruiter profile",
				slog.String("user_id", user.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	token, err := s.jwtManager.Generate(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("generate session token: %w", err)
	}

	if err := s.producer.PublishUserRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.registered event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user registered via google",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
		slog.String("role", user.Role),
	)

	return user, token, nil
}

// --- Password reset ---

// ForgotPassword issues a fresh one-time code for the account and mails it.
// A new code overwrites any unconsumed prior code.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return apperrors.InvalidInput("email is required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.AccountNotFound(404)
		}
		return fmt.Errorf("look up account: %w", err)
	}

	code, err := generateOTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}

	if err := s.userRepo.SetOTP(ctx, user.ID, code, time.Now().UTC().Add(otpTTL)); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	if err := s.mail.Send(ctx, mailer.PasswordResetMessage(user.Email, code)); err != nil {
		s.logger.ErrorContext(ctx, "failed to send password reset email",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishUserPasswordReset(ctx, user.ID, user.Email); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.password_reset event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "password reset requested",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return nil
}

// ResetPassword validates a one-time code and replaces the password hash.
// The verification flag is not changed by a reset.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if email == "" || code == "" {
		return apperrors.InvalidInput("email and code are required")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.validateOTP(ctx, email, code)
	if err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash new password: %w", err)
	}

	if err := s.userRepo.ConsumeOTPAndSetPassword(ctx, user.ID, string(hashedPassword)); err != nil {
		return fmt.Errorf("consume otp: %w", err)
	}

	s.logger.InfoContext(ctx, "password reset completed",
		slog.String("user_id", user.ID),
	)

	return nil
}

// --- Session ---

// Me retrieves the account behind an authenticated session.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return user, nil
}

// --- Helpers ---

// validateOTP looks up the account by (email, code) and checks expiry. It
// does not clear the code; the caller consumes it together with whatever
// state change the code authorizes.
func (s *AuthService) validateOTP(ctx context.Context, email, code string) (*domain.User, error) {
	user, err := s.userRepo.GetByEmailAndOTP(ctx, email, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.InvalidOTP()
		}
		return nil, fmt.Errorf("look up otp: %w", err)
	}

	if user.OTPExpired(time.Now().UTC()) {
		return nil, apperrors.ExpiredOTP()
	}

	return user, nil
}

func (s *AuthService) createRecruiterProfile(ctx context.Context, userID, companyName, gstNumber string) error {
	now := time.Now().UTC()
	return s.recruiterRepo.Create(ctx, &domain.RecruiterProfile{
		ID:          uuid.New().String(),
		UserID:      userID,
		CompanyName: companyName,
		GSTNumber:   gstNumber,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

// generateOTP returns a uniformly random 6-digit decimal code in
// [100000, 999999].
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// validatePassword checks that the password meets minimum complexity requirements.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	var hasUpper, hasLower, hasDigit bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		return apperrors.InvalidInput("password must contain at least one uppercase letter, one lowercase letter, and one digit")
	}

	return nil
}
