package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/app"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/bootstrap"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/observability/logger"
)

// readPassword se reemplaza en tests para no tocar la terminal.
var readPassword = term.ReadPassword

func newSeedCmd(load loadFunc) *cobra.Command {
	var (
		email     string
		firstName string
		lastName  string
		noAdmin   bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Crea permisos, roles de sistema y el usuario admin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, ctx, err := load(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if email == "" {
				email = cfg.Seed.AdminEmail
			}
			pass := cfg.Seed.AdminPassword
			if pass == "" && !noAdmin {
				if pass, err = promptPassword(cmd.ErrOrStderr(), int(os.Stdin.Fd())); err != nil {
					return err
				}
			}
			if noAdmin {
				pass = ""
			}

			st, err := app.OpenStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			hasher, err := app.NewHasher(cfg)
			if err != nil {
				return err
			}
			rep, err := bootstrap.Seed(ctx, st, hasher, bootstrap.Options{
				AdminEmail:     email,
				AdminPassword:  pass,
				AdminFirstName: firstName,
				AdminLastName:  lastName,
				Policy:         app.PasswordPolicy(cfg),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "permissions created: %d\n", rep.PermissionsCreated)
			fmt.Fprintf(out, "roles created:       %d\n", rep.RolesCreated)
			if rep.AdminID != "" {
				fmt.Fprintf(out, "admin:               %s (created=%t)\n", rep.AdminID, rep.AdminCreated)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email del admin (default seed.admin_email)")
	cmd.Flags().StringVar(&firstName, "first-name", "", "Nombre del admin")
	cmd.Flags().StringVar(&lastName, "last-name", "", "Apellido del admin")
	cmd.Flags().BoolVar(&noAdmin, "no-admin", false, "Solo catálogo de roles y permisos")
	return cmd
}

// promptPassword pide la password dos veces sin eco.
func promptPassword(w io.Writer, fd int) (string, error) {
	fmt.Fprint(w, "Admin password: ")
	first, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	fmt.Fprint(w, "Confirm password: ")
	second, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	p := strings.TrimSpace(string(first))
	if p == "" {
		return "", errors.New("password is required (or pass --no-admin)")
	}
	if p != strings.TrimSpace(string(second)) {
		return "", errors.New("passwords do not match")
	}
	return p, nil
}
