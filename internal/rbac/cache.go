package rbac

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/cache"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/metrics"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/observability/logger"
)

const (
	// KeyPrefix de las entradas: permissions:<userId>
	KeyPrefix = "permissions:"

	// DefaultTTL de una entrada.
	DefaultTTL = 5 * time.Minute

	// Generaciones: cambian en cada invalidación. Viven fuera de KeyPrefix
	// para que InvalidateAll no las borre.
	genPrefix = "permgen:"
	genAllKey = "permgen:all"
)

// PermissionCache memoiza el Set efectivo por usuario.
//
// Un llenado (BeginFill -> resolver -> CompleteFill) nunca deja escrito un
// Set resuelto antes de una invalidación concurrente: CompleteFill relee
// las generaciones después de escribir y borra su propia escritura si
// alguna cambió.
//
// Un PermissionCache nil o sin cliente se comporta como cache deshabilitado.
type PermissionCache struct {
	client cache.Client
	ttl    time.Duration
}

// NewPermissionCache crea el cache. ttl <= 0 usa DefaultTTL.
func NewPermissionCache(client cache.Client, ttl time.Duration) *PermissionCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &PermissionCache{client: client, ttl: ttl}
}

func (c *PermissionCache) enabled() bool { return c != nil && c.client != nil }

func entryKey(userID string) string { return KeyPrefix + userID }
func genKey(userID string) string   { return genPrefix + userID }

// TTL retorna la expiración de las entradas.
func (c *PermissionCache) TTL() time.Duration {
	if c == nil {
		return 0
	}
	return c.ttl
}

// Get retorna el Set cacheado. Cualquier error del backend es un miss.
func (c *PermissionCache) Get(ctx context.Context, userID string) (Set, bool) {
	if !c.enabled() {
		return nil, false
	}
	raw, err := c.client.Get(ctx, entryKey(userID))
	if err != nil {
		if cache.IsNotFound(err) {
			metrics.PermissionCacheLookups.WithLabelValues("miss").Inc()
		} else {
			metrics.PermissionCacheLookups.WithLabelValues("error").Inc()
			logger.From(ctx).Warn("permission cache get failed, treating as miss",
				logger.Component("rbac.cache"), logger.UserID(userID), logger.Err(err))
		}
		return nil, false
	}
	var perms []string
	if err := json.Unmarshal([]byte(raw), &perms); err != nil {
		metrics.PermissionCacheLookups.WithLabelValues("error").Inc()
		logger.From(ctx).Warn("permission cache entry corrupt, treating as miss",
			logger.Component("rbac.cache"), logger.UserID(userID), logger.Err(err))
		_ = c.client.Delete(ctx, entryKey(userID))
		return nil, false
	}
	metrics.PermissionCacheLookups.WithLabelValues("hit").Inc()
	return NewSet(perms...), true
}

// Put guarda el Set sin protección de generación. ttl <= 0 usa el TTL del cache.
// Los llenados desde el Gate usan BeginFill/CompleteFill.
func (c *PermissionCache) Put(ctx context.Context, userID string, perms Set, ttl time.Duration) {
	if !c.enabled() {
		return
	}
	if ttl <= 0 {
		ttl = c.ttl
	}
	if err := c.write(ctx, userID, perms, ttl); err != nil {
		logger.From(ctx).Warn("permission cache put failed",
			logger.Component("rbac.cache"), logger.UserID(userID), logger.Err(err))
	}
}

func (c *PermissionCache) write(ctx context.Context, userID string, perms Set, ttl time.Duration) error {
	b, err := json.Marshal(perms.Slice())
	if err != nil {
		return err
	}
	return c.client.Set(ctx, entryKey(userID), string(b), ttl)
}

// Invalidate elimina la entrada del usuario y cambia su generación.
func (c *PermissionCache) Invalidate(ctx context.Context, userID string) error {
	if !c.enabled() {
		return nil
	}
	genErr := c.client.Set(ctx, genKey(userID), uuid.NewString(), c.genTTL())
	delErr := c.client.Delete(ctx, entryKey(userID))
	err := errors.Join(genErr, delErr)
	observeInvalidation("user", err)
	return err
}

// InvalidateAll elimina todas las entradas. Se usa cuando cambia el conjunto
// de permisos de un rol: no hay índice rol -> usuarios.
func (c *PermissionCache) InvalidateAll(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	genErr := c.client.Set(ctx, genAllKey, uuid.NewString(), c.genTTL())
	_, delErr := c.client.DeleteByPrefix(ctx, KeyPrefix)
	err := errors.Join(genErr, delErr)
	observeInvalidation("all", err)
	return err
}

func observeInvalidation(scope string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.PermissionCacheInvalidations.WithLabelValues(scope, result).Inc()
}

// genTTL: cualquier valor es correcto porque las generaciones son únicas;
// solo acota cuánto viven las keys.
func (c *PermissionCache) genTTL() time.Duration {
	return 2*c.ttl + time.Minute
}

// FillToken captura las generaciones vistas antes de resolver.
type FillToken struct {
	user string
	all  string
	ok   bool
}

func (c *PermissionCache) readGen(ctx context.Context, key string) (string, bool) {
	v, err := c.client.Get(ctx, key)
	if err == nil {
		return v, true
	}
	if cache.IsNotFound(err) {
		return "", true
	}
	return "", false
}

// BeginFill lee las generaciones actuales. Llamar ANTES de resolver.
func (c *PermissionCache) BeginFill(ctx context.Context, userID string) FillToken {
	if !c.enabled() {
		return FillToken{}
	}
	u, ok1 := c.readGen(ctx, genKey(userID))
	a, ok2 := c.readGen(ctx, genAllKey)
	return FillToken{user: u, all: a, ok: ok1 && ok2}
}

// CompleteFill escribe el Set resuelto y lo retira si hubo una invalidación
// entre BeginFill y ahora. Si las generaciones no se pudieron leer no escribe.
func (c *PermissionCache) CompleteFill(ctx context.Context, userID string, perms Set, tok FillToken) {
	if !c.enabled() || !tok.ok {
		return
	}
	log := logger.From(ctx).With(logger.Component("rbac.cache"), logger.UserID(userID))
	if err := c.write(ctx, userID, perms, c.ttl); err != nil {
		log.Warn("permission cache fill failed", logger.Err(err))
		return
	}
	u, ok1 := c.readGen(ctx, genKey(userID))
	a, ok2 := c.readGen(ctx, genAllKey)
	if ok1 && ok2 && u == tok.user && a == tok.all {
		return
	}
	if err := c.client.Delete(ctx, entryKey(userID)); err != nil {
		log.Error("permission cache could not retract stale fill", logger.Err(err))
		return
	}
	log.Debug("permission cache fill retracted after concurrent invalidation")
}
