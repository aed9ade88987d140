package rbac

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
)

// Separator separa resource y action en un PermissionString.
const Separator = "."

// MaxPartLength es el largo máximo de resource o action.
const MaxPartLength = 50

// Format arma el PermissionString canónico.
func Format(resource, action string) string {
	return resource + Separator + action
}

// Of arma el PermissionString de un permiso persistido.
func Of(p repository.Permission) string {
	return Format(p.Resource, p.Action)
}

// NormalizePart valida y normaliza un resource o action: minúsculas, sin
// espacios y sin puntos.
func NormalizePart(field, s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", fmt.Errorf("%s is required", field)
	}
	if len(s) > MaxPartLength {
		return "", fmt.Errorf("%s must be at most %d characters", field, MaxPartLength)
	}
	for _, r := range s {
		if r == '.' || unicode.IsSpace(r) {
			return "", fmt.Errorf("%s must not contain dots or whitespace", field)
		}
	}
	return s, nil
}

// Parse separa un PermissionString. ok=false si no tiene exactamente un
// separador o alguna parte está vacía.
func Parse(s string) (resource, action string, ok bool) {
	resource, action, found := strings.Cut(s, Separator)
	if !found || resource == "" || action == "" || strings.Contains(action, Separator) {
		return "", "", false
	}
	return resource, action, true
}

// Valid indica si s respeta el formato canónico (minúsculas, un punto).
func Valid(s string) bool {
	r, a, ok := Parse(s)
	if !ok {
		return false
	}
	nr, err1 := NormalizePart("resource", r)
	na, err2 := NormalizePart("action", a)
	return err1 == nil && err2 == nil && nr == r && na == a
}

// Set es un conjunto de PermissionStrings.
type Set map[string]struct{}

// NewSet crea un Set con los permisos dados (deduplicados).
func NewSet(perms ...string) Set {
	s := make(Set, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

func (s Set) Add(p string) { s[p] = struct{}{} }

func (s Set) Has(p string) bool {
	_, ok := s[p]
	return ok
}

func (s Set) Len() int { return len(s) }

// Slice retorna los permisos ordenados (salida estable para JSON y cache).
func (s Set) Slice() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Equal compara dos Sets.
func (s Set) Equal(o Set) bool {
	if len(s) != len(o) {
		return false
	}
	for p := range s {
		if !o.Has(p) {
			return false
		}
	}
	return true
}

// Union calcula los permisos efectivos de un conjunto de roles.
// El resultado no depende del orden de los roles.
func Union(roles []repository.Role) Set {
	out := make(Set)
	for _, role := range roles {
		for _, p := range role.Permissions {
			out.Add(Of(p))
		}
	}
	return out
}
