// Package app arma el contenedor de dependencias del servicio a partir de
// config.Config.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/cache"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/config"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/email"
	adminctrl "github.com/jeancarlosleonvega/admin-dashboard/internal/http/controllers/admin"
	authctrl "github.com/jeancarlosleonvega/admin-dashboard/internal/http/controllers/auth"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/http/controllers/health"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/http/helpers"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/http/router"
	jwtx "github.com/jeancarlosleonvega/admin-dashboard/internal/jwt"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/metrics"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/observability/logger"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/rate"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/rbac"
	adminsvc "github.com/jeancarlosleonvega/admin-dashboard/internal/services/admin"
	authsvc "github.com/jeancarlosleonvega/admin-dashboard/internal/services/auth"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/services/authz"
)

// App es la aplicación cableada.
type App struct {
	Config  *config.Config
	Handler http.Handler
	Store   repository.Store
	Cache   cache.Client
	Gate    *rbac.Gate

	closers []func() error
}

// Options ajusta New sin tocar la config (tests).
type Options struct {
	Version string
	// Store reemplaza el store configurado.
	Store repository.Store
	// Registry reemplaza el registry default de prometheus.
	Registry *prometheus.Registry
	Now      func() time.Time
}

// New construye todas las dependencias desde cfg. Si falla a mitad de
// camino cierra lo que ya abrió.
func New(ctx context.Context, cfg *config.Config, opts Options) (_ *App, err error) {
	log := logger.From(ctx).With(logger.Component("app"))
	a := &App{Config: cfg}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	// Paso 1: store
	a.Store = opts.Store
	if a.Store == nil {
		st, serr := OpenStore(ctx, cfg)
		if serr != nil {
			return nil, serr
		}
		a.Store = st
		a.closers = append(a.closers, st.Close)
	}

	// Paso 2: cache + limiter (comparten conexión si es redis)
	infra, err := openInfra(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.Cache = infra.cache
	a.closers = append(a.closers, infra.close)

	permCache := rbac.NewPermissionCache(a.Cache, cfg.Cache.PermissionsTTL)
	a.Gate = rbac.NewGate(rbac.NewResolver(a.Store.RBAC()), permCache)

	// Paso 3: seguridad
	hasher, err := NewHasher(cfg)
	if err != nil {
		return nil, err
	}
	issuer, err := jwtx.NewIssuer(jwtx.Config{
		Issuer:        cfg.JWT.Issuer,
		AccessSecret:  cfg.JWT.AccessSecret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
		Now:           opts.Now,
	})
	if err != nil {
		return nil, err
	}
	mailer, err := email.New(email.Config{
		Driver:             cfg.SMTP.Driver,
		Host:               cfg.SMTP.Host,
		Port:               cfg.SMTP.Port,
		From:               cfg.SMTP.From,
		User:               cfg.SMTP.Username,
		Password:           cfg.SMTP.Password,
		TLSMode:            cfg.SMTP.TLS,
		InsecureSkipVerify: cfg.SMTP.InsecureSkipVerify,
	})
	if err != nil {
		return nil, err
	}

	// Paso 4: services
	policy := PasswordPolicy(cfg)
	auth := authsvc.NewServices(authsvc.Deps{
		Store:       a.Store,
		Issuer:      issuer,
		Cache:       permCache,
		Hasher:      hasher,
		Policy:      policy,
		Mailer:      mailer,
		ResetTTL:    cfg.Auth.Reset.TTL,
		ResetURL:    cfg.Auth.Reset.URL,
		DefaultRole: cfg.Auth.DefaultRole,
		Now:         opts.Now,
	})
	admin := adminsvc.NewServices(adminsvc.Deps{
		Store:  a.Store,
		Cache:  permCache,
		Hasher: hasher,
		Policy: policy,
	})
	az := authz.NewService(authz.Deps{Issuer: issuer, Gate: a.Gate})

	// Paso 5: controllers + router
	authDeps := authctrl.Deps{
		Cookie: helpers.CookieConfig{
			Name:     cfg.Auth.RefreshCookie.Name,
			Path:     cfg.Auth.RefreshCookie.Path,
			Domain:   cfg.Auth.RefreshCookie.Domain,
			SameSite: cfg.Auth.RefreshCookie.SameSite,
			Secure:   cfg.Auth.RefreshCookie.Secure,
		},
	}
	if cfg.Rate.Enabled {
		authDeps.Limiter = infra.limiter
		authDeps.LoginRate = rate.Policy{Limit: cfg.Rate.Login.Limit, Window: cfg.Rate.Login.Window}
		authDeps.ForgotRate = rate.Policy{Limit: cfg.Rate.Forgot.Limit, Window: cfg.Rate.Forgot.Window}
	}
	rd := router.Deps{
		Auth:        authctrl.NewControllers(auth, authDeps),
		Admin:       adminctrl.NewControllers(admin),
		Authz:       az,
		CORSOrigins: cfg.Server.CORSAllowedOrigins,
		HSTS:        cfg.IsProd(),
		Health: health.NewController(opts.Version,
			health.Check{Name: "store", Pinger: a.Store},
			health.Check{Name: "cache", Pinger: a.Cache, Optional: true},
		),
	}
	if cfg.Rate.Enabled {
		rd.GlobalLimiter = rate.Bind(infra.limiter, rate.Policy{Limit: cfg.Rate.Global.Limit, Window: cfg.Rate.Global.Window})
		rd.GlobalLimit = cfg.Rate.Global.Limit
	}
	if cfg.Metrics.Enabled {
		h, merr := metricsHandler(opts.Registry)
		if merr != nil {
			return nil, merr
		}
		rd.Metrics = h
		rd.MetricsPath = cfg.Metrics.Path
	}
	a.Handler = router.New(rd)

	log.Info("app wired",
		logger.String("storage", cfg.Storage.Driver),
		logger.String("cache", cfg.Cache.Kind),
		logger.Bool("rate_limit", cfg.Rate.Enabled),
		logger.Bool("metrics", cfg.Metrics.Enabled),
	)
	return a, nil
}

// Server arma el http.Server con los timeouts configurados.
func (a *App) Server() *http.Server {
	return &http.Server{
		Addr:              a.Config.Server.Addr,
		Handler:           a.Handler,
		ReadTimeout:       a.Config.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      a.Config.Server.WriteTimeout,
		IdleTimeout:       a.Config.Server.IdleTimeout,
	}
}

// Close libera recursos en orden inverso de apertura.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func metricsHandler(reg *prometheus.Registry) (http.Handler, error) {
	if reg == nil {
		if err := metrics.Register(nil); err != nil {
			return nil, fmt.Errorf("metrics: register: %w", err)
		}
		return metrics.Handler(nil), nil
	}
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err := metrics.Register(reg); err != nil {
		return nil, fmt.Errorf("metrics: register: %w", err)
	}
	return metrics.Handler(reg), nil
}

// Logger construye el logger del proceso desde la config.
func Logger(cfg *config.Config, version string) *zap.Logger {
	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.App.LogLevel,
		ServiceName: cfg.App.Name,
		Version:     version,
	})
	return logger.L()
}
