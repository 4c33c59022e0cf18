package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/hirelane/jobportal/internal/service"
	"github.com/hirelane/jobportal/pkg/middleware"
	"github.com/hirelane/jobportal/pkg/validator"
)

// SessionCookieConfig controls how the session cookie is written.
type SessionCookieConfig struct {
	// Secure marks the cookie Secure; set in production.
	Secure bool

	// MaxAge is the cookie lifetime, derived from the token expiry.
	MaxAge time.Duration
}

// AuthHandler handles HTTP requests for auth endpoints.
type AuthHandler struct {
	service *service.AuthService
	cookie  SessionCookieConfig
	logger  *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(svc *service.AuthService, cookie SessionCookieConfig, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, cookie: cookie, logger: logger}
}

// --- Request DTOs ---

// RegisterRequest is the JSON request body for local registration.
type RegisterRequest struct {
	FirstName   string `json:"first_name" validate:"required,min=1,max=100"`
	LastName    string `json:"last_name" validate:"max=100"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Phone       string `json:"phone" validate:"max=20"`
	RoleID      string `json:"role_id" validate:"required"`
	CompanyName string `json:"company_name" validate:"max=200"`
	GSTNumber   string `json:"gst_number" validate:"max=50"`
}

// VerifyEmailRequest is the JSON request body for email verification.
type VerifyEmailRequest struct {
	Email    string `json:"email" validate:"required,email"`
	EmailOTP string `json:"email_otp" validate:"required,len=6,numeric"`
}

// LoginRequest is the JSON request body for local login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GoogleLoginRequest is the JSON request body for external-identity login.
type GoogleLoginRequest struct {
	Token string `json:"token" validate:"required"`
}

// GoogleRegisterRequest is the JSON request body for external-identity registration.
type GoogleRegisterRequest struct {
	Token       string `json:"token" validate:"required"`
	Role        string `json:"role" validate:"required"`
	CompanyName string `json:"company_name" validate:"max=200"`
	GSTNumber   string `json:"gst_number" validate:"max=50"`
}

// ForgotPasswordRequest is the JSON request body for forgot password.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest is the JSON request body for password reset.
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	EmailOTP    string `json:"email_otp" validate:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// --- Cookie helpers ---

// setSessionCookie writes the signed session token as an HTTP-only cookie.
// The token is never exposed to client-side script.
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookie.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie immediately.
func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return false
	}
	return true
}

// --- Handlers ---

// Register handles POST /api/v1/auth/register. Registration alone does not
// start a session; the cookie is issued at verification.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	user, err := h.service.Register(r.Context(), service.RegisterInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    req.Password,
		Phone:       req.Phone,
		RoleID:      req.RoleID,
		CompanyName: req.CompanyName,
		GSTNumber:   req.GSTNumber,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{
		Data: map[string]any{
			"message": "registered, check your email for the verification code",
			"user":    user,
		},
	})
}

// VerifyEmail handles POST /api/v1/auth/verify-email
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req VerifyEmailRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	user, token, err := h.service.VerifyEmail(r.Context(), req.Email, req.EmailOTP)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, response{
		Data: map[string]any{
			"message": "email verified",
			"user":    user,
		},
	})
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	user, token, err := h.service.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, response{
		Data: map[string]any{
			"message": "logged in",
			"user":    user,
		},
	})
}

// GoogleLogin handles POST /api/v1/auth/google-login
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req GoogleLoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	user, token, err := h.service.GoogleLogin(r.Context(), req.Token)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, response{
		Data: map[string]any{"user": user},
	})
}

// GoogleRegister handles POST /api/v1/auth/google-register
func (h *AuthHandler) GoogleRegister(w http.ResponseWriter, r *http.Request) {
	var req GoogleRegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	user, token, err := h.service.GoogleRegister(r.Context(), service.GoogleRegisterInput{
		IDToken:     req.Token,
		Role:        req.Role,
		CompanyName: req.CompanyName,
		GSTNumber:   req.GSTNumber,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusCreated, response{
		Data: map[string]any{"user": user},
	})
}

// ForgotPassword handles POST /api/v1/auth/forgot-password
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{
		Data: map[string]string{"message": "a password reset code has been sent"},
	})
}

// ResetPassword handles POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Email, req.EmailOTP, req.NewPassword); err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{
		Data: map[string]string{"message": "password has been reset successfully"},
	})
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, response{
			Error: &errorResponse{Code: "UNAUTHORIZED", Message: "authentication required"},
		})
		return
	}

	user, err := h.service.Me(r.Context(), userID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: user})
}

// Logout handles POST /api/v1/auth/logout. The token is stateless, so logout
// is just discarding the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, response{
		Data: map[string]string{"message": "logged out"},
	})
}
