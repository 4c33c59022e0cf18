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

func TestListRoles(t *testing.T) {
	roleRepo := new(mockRoleRepository)
	svc := NewRoleService(roleRepo, newTestLogger())
	ctx := context.Background()

	roleRepo.On("List", ctx).Return([]domain.Role{
		{ID: "r-3", Name: domain.RoleAdmin},
		{ID: "r-1", Name: domain.RoleJobseeker},
		{ID: "r-2", Name: domain.RoleRecruiter},
	}, nil)

	roles, err := svc.ListRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 3)
}

func TestCreateRole_NormalizesName(t *testing.T) {
	roleRepo := new(mockRoleRepository)
	svc := NewRoleService(roleRepo, newTestLogger())
	ctx := context.Background()

	var created *domain.Role
	roleRepo.On("Create", ctx, mock.AnythingOfType("*domain.Role")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*domain.Role)
		}).
		Return(nil)

	role, err := svc.CreateRole(ctx, " Recruiter ")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleRecruiter, role.Name)
	require.NotNil(t, created)
	assert.Equal(t, domain.RoleRecruiter, created.Name)
}

func TestCreateRole_RejectsUnknownName(t *testing.T) {
	roleRepo := new(mockRoleRepository)
	svc := NewRoleService(roleRepo, newTestLogger())
	ctx := context.Background()

	role, err := svc.CreateRole(ctx, "superuser")
	assert.Nil(t, role)
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.HTTPStatus(err))
	roleRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDeleteRole_NotFound(t *testing.T) {
	roleRepo := new(mockRoleRepository)
	svc := NewRoleService(roleRepo, newTestLogger())
	ctx := context.Background()

	roleRepo.On("Delete", ctx, "missing-id").Return(apperrors.NotFound("role", "missing-id"))

	err := svc.DeleteRole(ctx, "missing-id")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
