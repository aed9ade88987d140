package memory

import (
	"context"
	"sort"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
)

type rbacRepo struct{ s *Store }

func (r rbacRepo) FindUserRolesAndPermissions(_ context.Context, userID string) (*repository.UserGrants, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if _, ok := r.s.users[userID]; !ok {
		return nil, repository.ErrNotFound
	}
	out := &repository.UserGrants{UserID: userID, Roles: []repository.Role{}}
	for _, ur := range r.s.userRoles[userID] {
		if row, ok := r.s.roles[ur.RoleID]; ok {
			out.Roles = append(out.Roles, r.s.materializeLocked(row))
		}
	}
	sort.Slice(out.Roles, func(i, j int) bool { return out.Roles[i].Name < out.Roles[j].Name })
	return out, nil
}

func (r rbacRepo) SetUserRoles(_ context.Context, userID string, roleIDs []string, assignedBy string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[userID]; !ok {
		return repository.ErrNotFound
	}
	ids := dedupe(roleIDs)
	for _, id := range ids {
		if _, ok := r.s.roles[id]; !ok {
			return repository.ErrNotFound
		}
	}
	now := r.s.stamp()
	list := make([]repository.UserRole, 0, len(ids))
	for _, id := range ids {
		list = append(list, repository.UserRole{UserID: userID, RoleID: id, AssignedBy: assignedBy, AssignedAt: now})
	}
	r.s.userRoles[userID] = list
	return nil
}

func (r rbacRepo) AssignRole(_ context.Context, userID, roleID, assignedBy string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[userID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := r.s.roles[roleID]; !ok {
		return repository.ErrNotFound
	}
	if r.s.hasRoleLocked(userID, roleID) {
		return nil
	}
	r.s.userRoles[userID] = append(r.s.userRoles[userID], repository.UserRole{
		UserID: userID, RoleID: roleID, AssignedBy: assignedBy, AssignedAt: r.s.stamp(),
	})
	return nil
}

// Assignments expone las asignaciones de un usuario (tests).
func (s *Store) Assignments(userID string) []repository.UserRole {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]repository.UserRole(nil), s.userRoles[userID]...)
}
