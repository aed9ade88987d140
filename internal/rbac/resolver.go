package rbac

import (
	"context"
	"fmt"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/errs"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
)

// GrantSource es el colaborador que expone el grafo usuario -> roles -> permisos.
type GrantSource interface {
	FindUserRolesAndPermissions(ctx context.Context, userID string) (*repository.UserGrants, error)
}

// PermissionResolver calcula permisos efectivos.
type PermissionResolver interface {
	Resolve(ctx context.Context, userID string) (Set, error)
}

// Resolver es una función pura del estado de asignaciones: no cachea.
type Resolver struct {
	src GrantSource
}

// NewResolver construye un Resolver sobre el store.
func NewResolver(src GrantSource) *Resolver {
	return &Resolver{src: src}
}

// Resolve retorna la unión de permisos de los roles del usuario.
// Un usuario sin roles retorna un Set vacío; uno inexistente, ErrUserNotFound.
func (r *Resolver) Resolve(ctx context.Context, userID string) (Set, error) {
	grants, err := r.src.FindUserRolesAndPermissions(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errs.ErrUserNotFound
		}
		return nil, fmt.Errorf("rbac: resolve permissions: %w", err)
	}
	if grants == nil {
		return nil, errs.ErrUserNotFound
	}
	return Union(grants.Roles), nil
}
