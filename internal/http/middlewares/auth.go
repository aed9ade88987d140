package middlewares

import (
	"net/http"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/errs"
	httperrors "github.com/jeancarlosleonvega/admin-dashboard/internal/http/errors"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/services/authz"
)

// =================================================================================
// AUTHENTICATION MIDDLEWARES
// =================================================================================

func writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch errs.KindOf(err) {
	case errs.KindInvalidToken:
		w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
	case errs.KindUnauthenticated:
		w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	}
	httperrors.Write(w, r, err)
}

// RequireAuth valida Authorization: Bearer <JWT> y guarda la identidad en el
// contexto. Si el token falta o es inválido responde 401.
func RequireAuth(svc authz.Service) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ac, err := svc.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				writeAuthError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithAuth(r.Context(), ac)))
		})
	}
}

// OptionalAuth inyecta la identidad si el token es válido y sigue sin ella
// en cualquier otro caso.
func OptionalAuth(svc authz.Service) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ac, err := svc.Authenticate(r.Context(), r.Header.Get("Authorization")); err == nil {
				r = r.WithContext(WithAuth(r.Context(), ac))
			}
			next.ServeHTTP(w, r)
		})
	}
}
