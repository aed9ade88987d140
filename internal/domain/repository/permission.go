package repository

import (
	"context"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/types"
)

// CreatePermissionInput datos para crear un permiso (ya normalizados).
type CreatePermissionInput struct {
	Resource    string
	Action      string
	Description *string
}

// UpdatePermissionInput nil = sin cambio.
type UpdatePermissionInput struct {
	Resource    *string
	Action      *string
	Description *string
}

// PermissionSortField columnas ordenables.
type PermissionSortField string

const (
	PermissionSortResource  PermissionSortField = "resource"
	PermissionSortAction    PermissionSortField = "action"
	PermissionSortCreatedAt PermissionSortField = "createdAt"
)

// ListPermissionsFilter opciones para listar permisos.
type ListPermissionsFilter struct {
	Search   string
	Resource string
	Action   string
	SortBy   PermissionSortField
	SortDir  types.SortDirection
	Page     types.PageRequest
}

// PermissionRepository define operaciones sobre permisos.
type PermissionRepository interface {
	GetByID(ctx context.Context, id string) (*Permission, error)
	GetByResourceAction(ctx context.Context, resource, action string) (*Permission, error)

	// Create/Update retornan ErrConflict si (resource, action) ya existe.
	Create(ctx context.Context, in CreatePermissionInput) (*Permission, error)
	Update(ctx context.Context, id string, in UpdatePermissionInput) (*Permission, error)
	Delete(ctx context.Context, id string) error

	// BulkDelete elimina los ids (y sus asignaciones a roles).
	BulkDelete(ctx context.Context, ids []string) (int, error)
	List(ctx context.Context, f ListPermissionsFilter) ([]Permission, int, error)

	IsAssignedToRoles(ctx context.Context, id string) (bool, error)

	// DistinctResources retorna los resources ordenados.
	DistinctResources(ctx context.Context) ([]string, error)
}
