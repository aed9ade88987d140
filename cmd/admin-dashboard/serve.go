package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/app"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/bootstrap"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/observability/logger"
)

func newServeCmd(load loadFunc) *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, ctx, err := load(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			log := logger.From(ctx)

			a, err := app.New(ctx, cfg, app.Options{Version: version})
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(); err != nil {
					log.Warn("close failed", logger.Err(err))
				}
			}()

			// Paso 1: con memory el store arranca vacío, así que se siembra
			if seed || strings.EqualFold(cfg.Storage.Driver, "memory") {
				hasher, err := app.NewHasher(cfg)
				if err != nil {
					return err
				}
				rep, err := bootstrap.Seed(ctx, a.Store, hasher, bootstrap.Options{
					AdminEmail:    cfg.Seed.AdminEmail,
					AdminPassword: cfg.Seed.AdminPassword,
					Policy:        app.PasswordPolicy(cfg),
				})
				if err != nil {
					return err
				}
				log.Info("seed done",
					logger.Int("permissions_created", rep.PermissionsCreated),
					logger.Int("roles_created", rep.RolesCreated),
					logger.Bool("admin_created", rep.AdminCreated),
				)
			}

			// Paso 2: servidor + shutdown ordenado
			srv := a.Server()
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				log.Info("http server listening", logger.String("addr", srv.Addr), logger.String("version", version))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				log.Info("shutting down")
				sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
				defer cancel()
				return srv.Shutdown(sctx)
			})
			return g.Wait()
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "Sembrar roles, permisos y admin antes de servir")
	return cmd
}
