// Package audit registra las mutaciones de usuarios, roles y permisos como
// eventos estructurados en el logger "audit".
package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/observability/logger"
)

// Event identifica el tipo de mutación.
type Event string

const (
	UserCreated         Event = "user.created"
	UserUpdated         Event = "user.updated"
	UserPasswordChanged Event = "user.password_changed"
	UserDeleted         Event = "user.deleted"
	RoleCreated         Event = "role.created"
	RoleUpdated         Event = "role.updated"
	RoleDeleted         Event = "role.deleted"
	PermissionCreated   Event = "permission.created"
	PermissionUpdated   Event = "permission.updated"
	PermissionDeleted   Event = "permission.deleted"
)

type actorKey struct{}

// WithActor guarda quién ejecuta la operación.
func WithActor(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

// ActorFrom retorna el actor del contexto o "" (seed, CLI).
func ActorFrom(ctx context.Context) string {
	v, _ := ctx.Value(actorKey{}).(string)
	return v
}

// Log emite el evento con el actor y el request_id del logger del contexto.
func Log(ctx context.Context, ev Event, target string, fields ...zap.Field) {
	base := []zap.Field{
		logger.String("event", string(ev)),
		logger.String("actor_id", ActorFrom(ctx)),
		logger.String("target_id", target),
	}
	logger.From(ctx).Named("audit").Info("audit", append(base, fields...)...)
}
