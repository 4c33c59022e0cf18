package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hirelane/jobportal/internal/service"
	"github.com/hirelane/jobportal/pkg/validator"
)

// RoleHandler handles HTTP requests for the role registry. Listing is public
// (the registration form needs it); mutation requires the admin role.
type RoleHandler struct {
	service *service.RoleService
	logger  *slog.Logger
}

// NewRoleHandler creates a new role HTTP handler.
func NewRoleHandler(svc *service.RoleService, logger *slog.Logger) *RoleHandler {
	return &RoleHandler{service: svc, logger: logger}
}

// RoleRequest is the JSON request body for creating or renaming a role.
type RoleRequest struct {
	RoleName string `json:"role_name" validate:"required,min=1,max=50"`
}

// List handles GET /api/v1/roles
func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	roles, err := h.service.ListRoles(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: roles})
}

// Get handles GET /api/v1/roles/{id}
func (h *RoleHandler) Get(w http.ResponseWriter, r *http.Request) {
	role, err := h.service.GetRole(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: role})
}

// Create handles POST /api/v1/roles
func (h *RoleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req RoleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	role, err := h.service.CreateRole(r.Context(), req.RoleName)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: role})
}

// Update handles PUT /api/v1/roles/{id}
func (h *RoleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "role id is required"},
		})
		return
	}

	var req RoleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	role, err := h.service.UpdateRole(r.Context(), id, req.RoleName)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: role})
}

// Delete handles DELETE /api/v1/roles/{id}
func (h *RoleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "role id is required"},
		})
		return
	}

	if err := h.service.DeleteRole(r.Context(), id); err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"id": id, "status": "deleted"}})
}
