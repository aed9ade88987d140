// Package memory implementa repository.Store en proceso.
//
// Se usa en tests y en modo desarrollo (storage.driver=memory). Un único
// mutex serializa todas las escrituras, de modo que cada operación del
// contrato (incluidos IncrementTokenVersion y Consume) es atómica.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/types"
)

// Store guarda todo en mapas protegidos por mu.
type Store struct {
	mu sync.RWMutex

	users     map[string]*repository.User
	roles     map[string]*roleRow
	perms     map[string]*repository.Permission
	userRoles map[string][]repository.UserRole // userID -> asignaciones
	resets    map[string]*repository.PasswordReset

	now func() time.Time
}

// roleRow guarda los ids de permisos en orden de asignación.
type roleRow struct {
	role    repository.Role
	permIDs []string
}

// Option configura el Store.
type Option func(*Store)

// WithClock reemplaza time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New crea un Store vacío.
func New(opts ...Option) *Store {
	s := &Store{
		users:     map[string]*repository.User{},
		roles:     map[string]*roleRow{},
		perms:     map[string]*repository.Permission{},
		userRoles: map[string][]repository.UserRole{},
		resets:    map[string]*repository.PasswordReset{},
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

var _ repository.Store = (*Store)(nil)

func (s *Store) Users() repository.UserRepository                   { return usersRepo{s} }
func (s *Store) Roles() repository.RoleRepository                   { return rolesRepo{s} }
func (s *Store) Permissions() repository.PermissionRepository       { return permsRepo{s} }
func (s *Store) RBAC() repository.RBACRepository                    { return rbacRepo{s} }
func (s *Store) PasswordResets() repository.PasswordResetRepository { return resetsRepo{s} }

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close() error               { return nil }

func (s *Store) stamp() time.Time { return s.now().UTC() }

// ─── helpers ───

func normEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// paginate aplica el corte de página sobre una lista ya ordenada.
func paginate[T any](items []T, p types.PageRequest) []T {
	off := p.Offset()
	if off >= len(items) {
		return []T{}
	}
	end := off + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[off:end]
}

// sortBy ordena de forma estable con desempate por id.
func sortBy[T any](items []T, dir types.SortDirection, less func(a, b T) int, id func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		c := less(items[i], items[j])
		if c == 0 {
			c = strings.Compare(id(items[i]), id(items[j]))
		}
		if dir == types.SortDesc {
			return c > 0
		}
		return c < 0
	})
}

func cmpTime(a, b time.Time) int { return a.Compare(b) }

func newID() string { return uuid.NewString() }
