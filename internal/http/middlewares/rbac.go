package middlewares

import (
	"net/http"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/types"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/rbac"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/services/authz"
)

// =================================================================================
// RBAC MIDDLEWARES
// =================================================================================

// RequirePermission consulta el Gate con los permisos requeridos.
// Reutiliza la identidad de RequireAuth si ya está en el contexto; si no,
// autentica el header en la misma llamada.
//
//	r.With(RequirePermission(svc, rbac.ModeAny, rbac.PermUsersView)).Get("/users", ...)
func RequirePermission(svc authz.Service, mode rbac.Mode, required ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var (
				d   rbac.Decision
				err error
			)
			if ac := GetAuth(ctx); ac != nil {
				d, err = svc.Authorize(ctx, ac, required, mode)
			} else {
				var actx *authz.AuthorizedContext
				actx, d, err = svc.AuthorizeRequest(ctx, r.Header.Get("Authorization"), required, mode)
				if actx != nil {
					ctx = WithAuth(ctx, &types.AuthenticatedContext{UserID: actx.UserID, Email: actx.Email})
				}
			}
			if err != nil {
				writeAuthError(w, r, err)
				return
			}
			if !d.Allowed {
				writeAuthError(w, r, d.Err())
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAny es RequirePermission en modo ANY.
func RequireAny(svc authz.Service, required ...string) Middleware {
	return RequirePermission(svc, rbac.ModeAny, required...)
}

// RequireAll es RequirePermission en modo ALL.
func RequireAll(svc authz.Service, required ...string) Middleware {
	return RequirePermission(svc, rbac.ModeAll, required...)
}
