package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hirelane/jobportal/internal/domain"
	apperrors "github.com/hirelane/jobportal/pkg/errors"
)

// RoleRepository implements repository.RoleRepository using PostgreSQL.
type RoleRepository struct {
	db DB
}

// NewRoleRepository creates a new PostgreSQL-backed role repository.
func NewRoleRepository(db DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// GetByID retrieves a role registry record by its ID.
func (r *RoleRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	query := `
		SELECT id, role_name
		FROM roles
		WHERE id = $1`

	return r.scanRole(ctx, query, id)
}

// GetByName retrieves a role registry record by its name.
func (r *RoleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	query := `
		SELECT id, role_name
		FROM roles
		WHERE role_name = $1`

	return r.scanRole(ctx, query, domain.NormalizeRole(name))
}

// List returns all role registry records.
func (r *RoleRepository) List(ctx context.Context) ([]domain.Role, error) {
	query := `
		SELECT id, role_name
		FROM roles
		ORDER BY role_name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, role)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roles: %w", err)
	}

	return roles, nil
}

// Create inserts a new role registry record.
func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) error {
	query := `
		INSERT INTO roles (id, role_name)
		VALUES ($1, $2)`

	_, err := r.db.Exec(ctx, query, role.ID, role.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("role", "role_name", role.Name)
		}
		return fmt.Errorf("insert role: %w", err)
	}

	return nil
}

// UpdateName renames an existing role registry record.
func (r *RoleRepository) UpdateName(ctx context.Context, id, name string) error {
	query := `
		UPDATE roles
		SET role_name = $1
		WHERE id = $2`

	ct, err := r.db.Exec(ctx, query, domain.NormalizeRole(name), id)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("role", "role_name", name)
		}
		return fmt.Errorf("update role: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("role", id)
	}

	return nil
}

// Delete removes a role registry record.
func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM roles
		WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("role", id)
	}

	return nil
}

func (r *RoleRepository) scanRole(ctx context.Context, query string, args ...any) (*domain.Role, error) {
	var role domain.Role

	err := r.db.QueryRow(ctx, query, args...).Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan role: %w", err)
	}

	return &role, nil
}
