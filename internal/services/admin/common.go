package admin

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/errs"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/observability/logger"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/rbac"
)

// MaxDescriptionLength aplica a roles y permisos.
const MaxDescriptionLength = 255

func serviceLogger(ctx context.Context, component, op string) *zap.Logger {
	return logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(component),
		logger.Op(op),
	)
}

// internal envuelve una falla del store y la loguea una sola vez.
func internal(log *zap.Logger, msg string, err error) error {
	log.Error(msg, logger.Err(err))
	return errs.Wrap(errs.KindInternal, msg, err)
}

func notFound(what string) error {
	return errs.ErrNotFound.WithMessage(what + " not found")
}

// invalidateUser e invalidateAll nunca fallan la mutación: el write ya
// está confirmado y el TTL acota cualquier residuo.
func invalidateUser(ctx context.Context, c *rbac.PermissionCache, log *zap.Logger, userID string) {
	if err := c.Invalidate(ctx, userID); err != nil {
		log.Error("permission cache invalidation failed", logger.UserID(userID), logger.Err(err))
	}
}

func invalidateAll(ctx context.Context, c *rbac.PermissionCache, log *zap.Logger) {
	if err := c.InvalidateAll(ctx); err != nil {
		log.Error("permission cache flush failed", logger.Err(err))
	}
}

// roleRefs lee los roles asignados de un usuario.
func roleRefs(ctx context.Context, store repository.Store, userID string) ([]repository.RoleRef, error) {
	g, err := store.RBAC().FindUserRolesAndPermissions(ctx, userID)
	if err != nil {
		return nil, err
	}
	refs := make([]repository.RoleRef, 0, len(g.Roles))
	for _, r := range g.Roles {
		refs = append(refs, repository.RoleRef{ID: r.ID, Name: r.Name})
	}
	return refs, nil
}

// cleanDescription recorta y valida el largo.
func cleanDescription(d *string) (*string, error) {
	if d == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*d)
	if len([]rune(v)) > MaxDescriptionLength {
		return nil, errs.Invalid("description must be at most %d characters", MaxDescriptionLength)
	}
	return &v, nil
}

// cleanIDs trim + dedupe, preservando el orden.
func cleanIDs(in []string) []string {
	if in == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
