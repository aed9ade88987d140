package memory

import (
	"context"
	"strings"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/types"
)

type rolesRepo struct{ s *Store }

// materializeLocked arma el Role con sus permisos vigentes.
func (s *Store) materializeLocked(row *roleRow) repository.Role {
	out := row.role
	out.Permissions = make([]repository.Permission, 0, len(row.permIDs))
	for _, pid := range row.permIDs {
		if p, ok := s.perms[pid]; ok {
			out.Permissions = append(out.Permissions, *p)
		}
	}
	return out
}

func (s *Store) roleByNameLocked(name string) *roleRow {
	for _, row := range s.roles {
		if strings.EqualFold(row.role.Name, name) {
			return row
		}
	}
	return nil
}

func (s *Store) checkPermsLocked(ids []string) error {
	for _, id := range ids {
		if _, ok := s.perms[id]; !ok {
			return repository.ErrNotFound
		}
	}
	return nil
}

func (r rolesRepo) GetByID(_ context.Context, id string) (*repository.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.roles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	role := r.s.materializeLocked(row)
	return &role, nil
}

func (r rolesRepo) GetByName(_ context.Context, name string) (*repository.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row := r.s.roleByNameLocked(name)
	if row == nil {
		return nil, repository.ErrNotFound
	}
	role := r.s.materializeLocked(row)
	return &role, nil
}

func (r rolesRepo) Create(_ context.Context, in repository.CreateRoleInput) (*repository.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.roleByNameLocked(in.Name) != nil {
		return nil, repository.ErrConflict
	}
	ids := dedupe(in.PermissionIDs)
	if err := r.s.checkPermsLocked(ids); err != nil {
		return nil, err
	}
	now := r.s.stamp()
	row := &roleRow{
		role: repository.Role{
			ID:          newID(),
			Name:        strings.TrimSpace(in.Name),
			Description: in.Description,
			IsSystem:    in.IsSystem,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		permIDs: ids,
	}
	r.s.roles[row.role.ID] = row
	role := r.s.materializeLocked(row)
	return &role, nil
}

func (r rolesRepo) Update(_ context.Context, id string, in repository.UpdateRoleInput) (*repository.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.roles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if in.Name != nil {
		if other := r.s.roleByNameLocked(*in.Name); other != nil && other.role.ID != id {
			return nil, repository.ErrConflict
		}
	}
	var ids []string
	if in.PermissionIDs != nil {
		ids = dedupe(in.PermissionIDs)
		if err := r.s.checkPermsLocked(ids); err != nil {
			return nil, err
		}
	}

	if in.Name != nil {
		row.role.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		row.role.Description = in.Description
	}
	if in.PermissionIDs != nil {
		row.permIDs = ids
	}
	row.role.UpdatedAt = r.s.stamp()
	role := r.s.materializeLocked(row)
	return &role, nil
}

func (r rolesRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.roles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.roles, id)
	for uid, list := range r.s.userRoles {
		kept := list[:0]
		for _, ur := range list {
			if ur.RoleID != id {
				kept = append(kept, ur)
			}
		}
		r.s.userRoles[uid] = kept
	}
	return nil
}

func (r rolesRepo) List(_ context.Context, f repository.ListRolesFilter) ([]repository.Role, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.TrimSpace(f.Search)
	out := make([]repository.Role, 0, len(r.s.roles))
	for _, row := range r.s.roles {
		desc := ""
		if row.role.Description != nil {
			desc = *row.role.Description
		}
		if search != "" && !containsFold(row.role.Name, search) && !containsFold(desc, search) {
			continue
		}
		if f.IsSystem != nil && row.role.IsSystem != *f.IsSystem {
			continue
		}
		out = append(out, r.s.materializeLocked(row))
	}

	var less func(a, b repository.Role) int
	switch f.SortBy {
	case repository.RoleSortIsSystem:
		less = func(a, b repository.Role) int { return boolCmp(a.IsSystem, b.IsSystem) }
	case repository.RoleSortCreatedAt:
		less = func(a, b repository.Role) int { return cmpTime(a.CreatedAt, b.CreatedAt) }
	default:
		less = func(a, b repository.Role) int { return strings.Compare(a.Name, b.Name) }
	}
	sortBy(out, f.SortDir, less, func(r repository.Role) string { return r.ID })

	total := len(out)
	return paginate(out, f.Page.Normalize(types.DefaultPageLimit)), total, nil
}

func (r rolesRepo) HasUsers(_ context.Context, id string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for uid := range r.s.userRoles {
		if r.s.hasRoleLocked(uid, id) {
			return true, nil
		}
	}
	return false, nil
}

func boolCmp(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
