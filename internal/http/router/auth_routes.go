package router

import (
	"github.com/go-chi/chi/v5"

	mw "github.com/jeancarlosleonvega/admin-dashboard/internal/http/middlewares"
)

// registerAuthRoutes registra /api/auth. Todas las respuestas van con
// no-store porque llevan tokens.
func registerAuthRoutes(r chi.Router, d Deps) {
	c := d.Auth

	r.Route("/auth", func(r chi.Router) {
		r.Use(mw.WithNoStore())

		// Públicas
		r.Post("/register", c.Register.Register)
		r.Post("/login", c.Login.Login)
		r.Post("/refresh", c.Refresh.Refresh)
		r.Post("/forgot-password", c.Password.Forgot)
		r.Post("/reset-password", c.Password.Reset)

		// Requieren access token
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireAuth(d.Authz))
			r.Post("/logout", c.Logout.Logout)
			r.Get("/me", c.Me.Me)
		})
	})
}
