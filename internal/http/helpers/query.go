package helpers

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/types"
	httperrors "github.com/jeancarlosleonvega/admin-dashboard/internal/http/errors"
)

// PageFromQuery lee ?page=&limit=. Valores no numéricos son un 400.
func PageFromQuery(r *http.Request) (types.PageRequest, error) {
	var p types.PageRequest
	q := r.URL.Query()
	for name, dst := range map[string]*int{"page": &p.Page, "limit": &p.Limit} {
		raw := strings.TrimSpace(q.Get(name))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return p, httperrors.ErrInvalidParameter.WithDetail(name + " must be a positive integer")
		}
		*dst = n
	}
	if p.Limit > types.MaxPageLimit {
		return p, httperrors.ErrInvalidParameter.WithDetail("limit must be at most " + strconv.Itoa(types.MaxPageLimit))
	}
	return p, nil
}

// SortDirFromQuery lee ?sortDirection= (asc|desc).
func SortDirFromQuery(r *http.Request) (types.SortDirection, error) {
	switch v := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("sortDirection"))); v {
	case "":
		return "", nil
	case string(types.SortAsc), string(types.SortDesc):
		return types.SortDirection(v), nil
	default:
		return "", httperrors.ErrInvalidParameter.WithDetail("sortDirection must be asc or desc")
	}
}

// OneOf valida ?name= contra valores permitidos; "" pasa.
func OneOf(r *http.Request, name string, allowed ...string) (string, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return "", nil
	}
	for _, a := range allowed {
		if v == a {
			return v, nil
		}
	}
	return "", httperrors.ErrInvalidParameter.WithDetail(name + " must be one of: " + strings.Join(allowed, ", "))
}

// BoolFromQuery lee un bool opcional.
func BoolFromQuery(r *http.Request, name string) (*bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, httperrors.ErrInvalidParameter.WithDetail(name + " must be true or false")
	}
	return &b, nil
}

// ClientIP extrae la IP del cliente, considerando proxies.
func ClientIP(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		parts := strings.Split(xf, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}
