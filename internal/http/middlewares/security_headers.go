package middlewares

import (
	"net/http"
	"strings"
)

// apiHeaders son fijas: la API sólo responde JSON.
var apiHeaders = [...][2]string{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"Referrer-Policy", "no-referrer"},
	{"Cross-Origin-Resource-Policy", "same-site"},
	{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
}

const hstsValue = "max-age=15552000; includeSubDomains"

// WithSecurityHeaders agrega las cabeceras de seguridad de la API. Con hsts
// activo, los requests que llegan por HTTPS (directo o vía proxy) llevan
// Strict-Transport-Security.
func WithSecurityHeaders(hsts bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for _, kv := range apiHeaders {
				h.Set(kv[0], kv[1])
			}
			if hsts && overHTTPS(r) {
				h.Set("Strict-Transport-Security", hstsValue)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func overHTTPS(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
