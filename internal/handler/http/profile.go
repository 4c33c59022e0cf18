package http

import (
	"log/slog"
	"net/http"

	"github.com/hirelane/jobportal/internal/service"
	"github.com/hirelane/jobportal/pkg/middleware"
	"github.com/hirelane/jobportal/pkg/validator"
)

// ProfileHandler handles HTTP requests for per-role profiles. Routes are
// guarded by the session middleware plus a role requirement, so a handler
// only ever sees requests from its own role.
type ProfileHandler struct {
	service *service.ProfileService
	logger  *slog.Logger
}

// NewProfileHandler creates a new profile HTTP handler.
func NewProfileHandler(svc *service.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{service: svc, logger: logger}
}

// SeekerProfileRequest is the JSON request body for a jobseeker profile.
type SeekerProfileRequest struct {
	Headline string `json:"headline" validate:"max=200"`
	Summary  string `json:"summary" validate:"max=2000"`
}

// RecruiterProfileRequest is the JSON request body for a recruiter profile.
type RecruiterProfileRequest struct {
	CompanyName string `json:"company_name" validate:"required,min=1,max=200"`
	GSTNumber   string `json:"gst_number" validate:"max=50"`
}

func sessionUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, response{
			Error: &errorResponse{Code: "UNAUTHORIZED", Message: "authentication required"},
		})
		return "", false
	}
	return userID, true
}

// GetSeekerProfile handles GET /api/v1/profiles/seeker
func (h *ProfileHandler) GetSeekerProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUserID(w, r)
	if !ok {
		return
	}

	profile, err := h.service.GetSeekerProfile(r.Context(), userID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: profile})
}

// UpsertSeekerProfile handles PUT /api/v1/profiles/seeker
func (h *ProfileHandler) UpsertSeekerProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUserID(w, r)
	if !ok {
		return
	}

	var req SeekerProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	profile, err := h.service.UpsertSeekerProfile(r.Context(), userID, service.SeekerProfileInput{
		Headline: req.Headline,
		Summary:  req.Summary,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: profile})
}

// DeleteSeekerProfile handles DELETE /api/v1/profiles/seeker
func (h *ProfileHandler) DeleteSeekerProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteSeekerProfile(r.Context(), userID); err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{
		Data: map[string]string{"message": "profile deleted"},
	})
}

// GetRecruiterProfile handles GET /api/v1/profiles/recruiter
func (h *ProfileHandler) GetRecruiterProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUserID(w, r)
	if !ok {
		return
	}

	profile, err := h.service.GetRecruiterProfile(r.Context(), userID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: profile})
}

// UpsertRecruiterProfile handles PUT /api/v1/profiles/recruiter
func (h *ProfileHandler) UpsertRecruiterProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUserID(w, r)
	if !ok {
		return
	}

	var req RecruiterProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	profile, err := h.service.UpsertRecruiterProfile(r.Context(), userID, service.RecruiterProfileInput{
		CompanyName: req.CompanyName,
		GSTNumber:   req.GSTNumber,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: profile})
}

// DeleteRecruiterProfile handles DELETE /api/v1/profiles/recruiter
func (h *ProfileHandler) DeleteRecruiterProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteRecruiterProfile(r.Context(), userID); err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{
		Data: map[string]string{"message": "profile deleted"},
	})
}
