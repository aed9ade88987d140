package middlewares

import (
	"context"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/audit"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/types"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/observability/logger"
)

type ctxKey string

const (
	ctxAuthKey      ctxKey = "auth"
	ctxRequestIDKey ctxKey = "request_id"
)

// WithAuth inyecta la identidad verificada en el contexto. También la
// marca como actor de auditoría y la agrega al logger del request.
func WithAuth(ctx context.Context, ac *types.AuthenticatedContext) context.Context {
	if ac.Authenticated() {
		ctx = audit.WithActor(ctx, ac.UserID)
		ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.String("actor_id", ac.UserID)))
	}
	return context.WithValue(ctx, ctxAuthKey, ac)
}

func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// GetAuth obtiene la identidad verificada por RequireAuth.
// Retorna nil si el middleware no se aplicó.
func GetAuth(ctx context.Context) *types.AuthenticatedContext {
	ac, _ := ctx.Value(ctxAuthKey).(*types.AuthenticatedContext)
	return ac
}

// GetUserID retorna "" sin identidad.
func GetUserID(ctx context.Context) string {
	if ac := GetAuth(ctx); ac.Authenticated() {
		return ac.UserID
	}
	return ""
}

// GetRequestID retorna "" si WithRequestID no se aplicó.
func GetRequestID(ctx context.Context) string {
	s, _ := ctx.Value(ctxRequestIDKey).(string)
	return s
}
