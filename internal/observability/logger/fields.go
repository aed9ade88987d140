package logger

import (
	"time"

	"go.uber.org/zap"
)

// =================================================================================
// HTTP
// =================================================================================

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field { return zap.String("method", v) }
func Path(v string) zap.Field { return zap.String("path", v) }
func Status(v int) zap.Field { return zap.Int("status", v) }
func ClientIP(v string) zap.Field { return zap.String("client_ip", v) }
func Bytes(v int) zap.Field { return zap.Int("bytes", v) }

// DurationMs registra la duración en milisegundos.
func DurationMs(d time.Duration) zap.Field { return zap.Int64("duration_ms", d.Milliseconds()) }

// =================================================================================
// NEGOCIO
// =================================================================================

func UserID(v string) zap.Field { return zap.String("user_id", v) }
func RoleID(v string) zap.Field { return zap.String("role_id", v) }

// Email registra el email enmascarado (j…@e….com).
func Email(v string) zap.Field { return zap.String("email", MaskEmail(v)) }

// Permission es un PermissionString ("resource.action").
func Permission(v string) zap.Field { return zap.String("permission", v) }

// Permissions registra un conjunto de PermissionStrings.
func Permissions(v []string) zap.Field { return zap.Strings("permissions", v) }

func Mode(v string) zap.Field { return zap.String("mode", v) }
func Reason(v string) zap.Field { return zap.String("reason", v) }

// =================================================================================
// SISTEMA
// =================================================================================

func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field { return zap.String("op", v) }
func Layer(v string) zap.Field { return zap.String("layer", v) }
func Err(err error) zap.Field { return zap.Error(err) }
func Count(v int) zap.Field { return zap.Int("count", v) }
func Key(v string) zap.Field { return zap.String("key", v) }

func String(key, v string) zap.Field { return zap.String(key, v) }
func Int(key string, v int) zap.Field { return zap.Int(key, v) }
func Int64(key string, v int64) zap.Field { return zap.Int64(key, v) }
func Bool(key string, v bool) zap.Field { return zap.Bool(key, v) }
func Any(key string, v any) zap.Field { return zap.Any(key, v) }
