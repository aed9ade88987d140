package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/cache"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/config"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/observability/logger"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/rate"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/security/password"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/store/memory"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/store/pg"
)

// OpenStore abre el store configurado. Con postgres y flags.migrate
// aplica las migraciones pendientes antes de devolverlo.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch strings.ToLower(cfg.Storage.Driver) {
	case "memory", "":
		return memory.New(), nil
	case "postgres":
		st, err := pg.New(ctx, pg.Config{
			DSN:             cfg.Storage.DSN,
			MaxConns:        cfg.Storage.Postgres.MaxConns,
			MinConns:        cfg.Storage.Postgres.MinConns,
			ConnMaxLifetime: cfg.Storage.Postgres.ConnMaxLifetime,
		})
		if err != nil {
			return nil, err
		}
		if cfg.Flags.Migrate {
			if err := st.Migrate(ctx); err != nil {
				_ = st.Close()
				return nil, err
			}
			logger.From(ctx).Info("migrations applied", logger.Component("app"))
		}
		return st, nil
	default:
		return nil, fmt.Errorf("app: unknown storage driver %q", cfg.Storage.Driver)
	}
}

// Migrate abre postgres y aplica las migraciones. Con el driver memory no
// hay nada que migrar.
func Migrate(ctx context.Context, cfg *config.Config) error {
	if !strings.EqualFold(cfg.Storage.Driver, "postgres") {
		return fmt.Errorf("app: migrate requires storage.driver=postgres (got %q)", cfg.Storage.Driver)
	}
	st, err := pg.New(ctx, pg.Config{DSN: cfg.Storage.DSN})
	if err != nil {
		return err
	}
	defer st.Close()
	return st.Migrate(ctx)
}

// NewHasher construye el hasher de passwords configurado.
func NewHasher(cfg *config.Config) (password.Hasher, error) {
	return password.NewHasher(cfg.Security.PasswordHasher, cfg.Security.BcryptCost)
}

// PasswordPolicy traduce la política de la config.
func PasswordPolicy(cfg *config.Config) password.Policy {
	p := cfg.Security.PasswordPolicy
	return password.Policy{
		MinLength:     p.MinLength,
		RequireUpper:  p.RequireUpper,
		RequireLower:  p.RequireLower,
		RequireDigit:  p.RequireDigit,
		RequireSymbol: p.RequireSymbol,
	}
}

type infra struct {
	cache   cache.Client
	limiter rate.MultiLimiter
	close   func() error
}

// openInfra arma cache y rate limiter. Con redis ambos comparten el
// mismo cliente; si no, cache en memoria y token bucket local.
func openInfra(ctx context.Context, cfg *config.Config) (*infra, error) {
	if !strings.EqualFold(cfg.Cache.Kind, "redis") {
		c := cache.NewMemory(cfg.Cache.Redis.Prefix, cfg.Cache.PermissionsTTL)
		return &infra{cache: c, limiter: rate.NewMemoryLimiter(), close: c.Close}, nil
	}

	rc := cfg.Cache.Redis
	client := redis.NewClient(&redis.Options{
		Addr:     rc.Addr,
		Password: rc.Password,
		DB:       rc.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	// sin redis el cache de permisos cae a misses; se arranca igual
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.From(ctx).Warn("redis startup ping failed", logger.Component("app"),
			logger.String("addr", rc.Addr), logger.Err(err))
	} else {
		logger.From(ctx).Info("redis ready", logger.Component("app"), logger.String("addr", rc.Addr))
	}

	return &infra{
		cache:   cache.NewRedisFromClient(client, rc.Prefix),
		limiter: rate.NewRedisLimiter(client, rc.Prefix+"rl:"),
		close:   client.Close,
	}, nil
}
