package repository

import (
	"context"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/types"
)

// CreateRoleInput datos para crear un rol.
type CreateRoleInput struct {
	Name          string
	Description   *string
	IsSystem      bool
	PermissionIDs []string
}

// UpdateRoleInput nil = sin cambio. PermissionIDs != nil reemplaza el conjunto.
type UpdateRoleInput struct {
	Name          *string
	Description   *string
	PermissionIDs []string
}

// RoleSortField columnas ordenables.
type RoleSortField string

const (
	RoleSortName      RoleSortField = "name"
	RoleSortIsSystem  RoleSortField = "isSystem"
	RoleSortCreatedAt RoleSortField = "createdAt"
)

// ListRolesFilter opciones para listar roles.
type ListRolesFilter struct {
	Search   string
	IsSystem *bool
	SortBy   RoleSortField
	SortDir  types.SortDirection
	Page     types.PageRequest
}

// RoleRepository define operaciones sobre roles.
type RoleRepository interface {
	GetByID(ctx context.Context, id string) (*Role, error)
	GetByName(ctx context.Context, name string) (*Role, error)

	// Create retorna ErrConflict si el nombre existe; ErrNotFound si algún permiso no existe.
	Create(ctx context.Context, in CreateRoleInput) (*Role, error)
	Update(ctx context.Context, id string, in UpdateRoleInput) (*Role, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ListRolesFilter) ([]Role, int, error)

	// HasUsers indica si el rol está asignado a algún usuario.
	HasUsers(ctx context.Context, id string) (bool, error)
}
