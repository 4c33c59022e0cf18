package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hirelane/jobportal/internal/domain"
	"github.com/hirelane/jobportal/internal/repository"
	apperrors "github.com/hirelane/jobportal/pkg/errors"
)

// RoleService manages the role registry. Reads serve the registration form;
// writes are an admin concern.
type RoleService struct {
	roleRepo repository.RoleRepository
	logger   *slog.Logger
}

// NewRoleService creates a new role service.
func NewRoleService(roleRepo repository.RoleRepository, logger *slog.Logger) *RoleService {
	return &RoleService{
		roleRepo: roleRepo,
		logger:   logger,
	}
}

// ListRoles returns all roles in the registry.
func (s *RoleService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	roles, err := s.roleRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

// GetRole returns a single role by id.
func (s *RoleService) GetRole(ctx context.Context, id string) (*domain.Role, error) {
	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get role: %w", err)
	}
	return role, nil
}

// CreateRole adds a role to the registry. Only names from the closed role
// set are accepted.
func (s *RoleService) CreateRole(ctx context.Context, name string) (*domain.Role, error) {
	if !domain.IsValidRole(name) {
		return nil, apperrors.RoleNotFound()
	}

	role := &domain.Role{
		ID:   uuid.New().String(),
		Name: domain.NormalizeRole(name),
	}

	if err := s.roleRepo.Create(ctx, role); err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}

	s.logger.InfoContext(ctx, "role created",
		slog.String("role_id", role.ID),
		slog.String("role_name", role.Name),
	)

	return role, nil
}

// UpdateRole renames a role in the registry.
func (s *RoleService) UpdateRole(ctx context.Context, id, name string) (*domain.Role, error) {
	if !domain.IsValidRole(name) {
		return nil, apperrors.RoleNotFound()
	}

	if err := s.roleRepo.UpdateName(ctx, id, domain.NormalizeRole(name)); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}

	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get role: %w", err)
	}

	s.logger.InfoContext(ctx, "role updated",
		slog.String("role_id", id),
		slog.String("role_name", role.Name),
	)

	return role, nil
}

// DeleteRole removes a role from the registry.
func (s *RoleService) DeleteRole(ctx context.Context, id string) error {
	if err := s.roleRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete role: %w", err)
	}

	s.logger.InfoContext(ctx, "role deleted",
		slog.String("role_id", id),
	)

	return nil
}
