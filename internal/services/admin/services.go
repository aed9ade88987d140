// Package admin contiene los services administrativos: usuarios, roles y
// permisos. Toda mutación que cambia permisos efectivos invalida el cache
// antes de retornar.
package admin

import (
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/rbac"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/security/password"
)

// Deps contiene las dependencias para crear los services admin.
type Deps struct {
	Store  repository.Store
	Cache  *rbac.PermissionCache // nil = sin cache
	Hasher password.Hasher
	Policy password.Policy
}

// Services agrupa todos los services del dominio admin.
type Services struct {
	Users       UserService
	Roles       RoleService
	Permissions PermissionService
}

// NewServices crea el agregador de services admin.
func NewServices(d Deps) Services {
	if d.Policy == (password.Policy{}) {
		d.Policy = password.DefaultPolicy
	}
	return Services{
		Users:       NewUserService(d),
		Roles:       NewRoleService(d),
		Permissions: NewPermissionService(d),
	}
}
