package admin

import (
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/types"
)

// Page es un listado paginado.
type Page[T any] struct {
	Items []T
	Meta  types.PageMeta
}

// CreateUserRequest alta administrativa de un usuario.
type CreateUserRequest struct {
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Status    string   `json:"status"`
	RoleIDs   []string `json:"roleIds"`
}

// UpdateUserRequest: campos nil no cambian. RoleIDs nil no toca las
// asignaciones; un slice vacío las quita todas.
type UpdateUserRequest struct {
	Email     *string  `json:"email"`
	FirstName *string  `json:"firstName"`
	LastName  *string  `json:"lastName"`
	Status    *string  `json:"status"`
	RoleIDs   []string `json:"roleIds"`
}

// CreateRoleRequest alta de un rol.
type CreateRoleRequest struct {
	Name          string   `json:"name"`
	Description   *string  `json:"description"`
	PermissionIDs []string `json:"permissionIds"`
}

// UpdateRoleRequest: PermissionIDs nil no toca los grants.
type UpdateRoleRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	PermissionIDs []string `json:"permissionIds"`
}

// CreatePermissionRequest alta de un permiso.
type CreatePermissionRequest struct {
	Resource    string  `json:"resource"`
	Action      string  `json:"action"`
	Description *string `json:"description"`
}

// UpdatePermissionRequest: campos nil no cambian.
type UpdatePermissionRequest struct {
	Resource    *string `json:"resource"`
	Action      *string `json:"action"`
	Description *string `json:"description"`
}
