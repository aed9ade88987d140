package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/app"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/config"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/observability/logger"
)

// version se inyecta con -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	configPath := os.Getenv("CONFIG_PATH")

	root := &cobra.Command{
		Use:           "admin-dashboard",
		Short:         "API del admin dashboard con control de acceso por roles",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", configPath, "Ruta al YAML de config (env CONFIG_PATH)")

	load := func(ctx context.Context) (*config.Config, context.Context, error) {
		// .env es opcional; las variables del entorno ganan
		_ = godotenv.Load()
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, ctx, err
		}
		log := app.Logger(cfg, version)
		return cfg, logger.ToContext(ctx, log), nil
	}

	root.AddCommand(
		newServeCmd(load),
		newMigrateCmd(load),
		newSeedCmd(load),
		&cobra.Command{
			Use:   "version",
			Short: "Imprime la versión",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), version)
			},
		},
	)
	return root
}

type loadFunc func(ctx context.Context) (*config.Config, context.Context, error)

func newMigrateCmd(load loadFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes de postgres",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, ctx, err := load(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if err := app.Migrate(ctx, cfg); err != nil {
				return err
			}
			logger.From(ctx).Info("migrations applied")
			return nil
		},
	}
}
