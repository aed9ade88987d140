package auth

import (
	"context"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/errs"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/rbac"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/security/password"
)

// grantsView retorna los roles asignados y los permisos efectivos con una
// sola lectura del grafo de asignaciones.
func grantsView(ctx context.Context, store repository.Store, userID string) ([]repository.RoleRef, []string, error) {
	g, err := store.RBAC().FindUserRolesAndPermissions(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil, errs.ErrUserNotFound
		}
		return nil, nil, errs.Wrap(errs.KindInternal, "load user roles", err)
	}
	refs := make([]repository.RoleRef, 0, len(g.Roles))
	for _, r := range g.Roles {
		refs = append(refs, repository.RoleRef{ID: r.ID, Name: r.Name})
	}
	return refs, rbac.Union(g.Roles).Slice(), nil
}

// validatePassword aplica la política y arma un InvalidInput legible.
func validatePassword(p password.Policy, plain string) error {
	if ok, reasons := p.Validate(plain); !ok {
		return errs.New(errs.KindInvalidInput, password.Describe(reasons))
	}
	return nil
}
