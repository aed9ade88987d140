package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/types"
)

type permsRepo struct{ s *Store }

func (s *Store) permByPairLocked(resource, action string) *repository.Permission {
	for _, p := range s.perms {
		if p.Resource == resource && p.Action == action {
			return p
		}
	}
	return nil
}

func (r permsRepo) GetByID(_ context.Context, id string) (*repository.Permission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.perms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r permsRepo) GetByResourceAction(_ context.Context, resource, action string) (*repository.Permission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p := r.s.permByPairLocked(resource, action)
	if p == nil {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r permsRepo) Create(_ context.Context, in repository.CreatePermissionInput) (*repository.Permission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.permByPairLocked(in.Resource, in.Action) != nil {
		return nil, repository.ErrConflict
	}
	now := r.s.stamp()
	p := &repository.Permission{
		ID:          newID(),
		Resource:    in.Resource,
		Action:      in.Action,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.s.perms[p.ID] = p
	cp := *p
	return &cp, nil
}

func (r permsRepo) Update(_ context.Context, id string, in repository.UpdatePermissionInput) (*repository.Permission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.perms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	resource, action := p.Resource, p.Action
	if in.Resource != nil {
		resource = *in.Resource
	}
	if in.Action != nil {
		action = *in.Action
	}
	if other := r.s.permByPairLocked(resource, action); other != nil && other.ID != id {
		return nil, repository.ErrConflict
	}
	p.Resource, p.Action = resource, action
	if in.Description != nil {
		p.Description = in.Description
	}
	p.UpdatedAt = r.s.stamp()
	cp := *p
	return &cp, nil
}

func (r permsRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.perms[id]; !ok {
		return repository.ErrNotFound
	}
	r.s.deletePermLocked(id)
	return nil
}

func (r permsRepo) BulkDelete(_ context.Context, ids []string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, id := range dedupe(ids) {
		if _, ok := r.s.perms[id]; ok {
			r.s.deletePermLocked(id)
			n++
		}
	}
	return n, nil
}

func (s *Store) deletePermLocked(id string) {
	delete(s.perms, id)
	for _, row := range s.roles {
		kept := row.permIDs[:0]
		for _, pid := range row.permIDs {
			if pid != id {
				kept = append(kept, pid)
			}
		}
		row.permIDs = kept
	}
}

func (r permsRepo) List(_ context.Context, f repository.ListPermissionsFilter) ([]repository.Permission, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.TrimSpace(f.Search)
	out := make([]repository.Permission, 0, len(r.s.perms))
	for _, p := range r.s.perms {
		desc := ""
		if p.Description != nil {
			desc = *p.Description
		}
		if search != "" && !containsFold(p.Resource, search) && !containsFold(p.Action, search) && !containsFold(desc, search) {
			continue
		}
		if f.Resource != "" && p.Resource != f.Resource {
			continue
		}
		if f.Action != "" && p.Action != f.Action {
			continue
		}
		out = append(out, *p)
	}

	var less func(a, b repository.Permission) int
	switch f.SortBy {
	case repository.PermissionSortAction:
		less = func(a, b repository.Permission) int { return strings.Compare(a.Action, b.Action) }
	case repository.PermissionSortCreatedAt:
		less = func(a, b repository.Permission) int { return cmpTime(a.CreatedAt, b.CreatedAt) }
	default:
		less = func(a, b repository.Permission) int {
			if c := strings.Compare(a.Resource, b.Resource); c != 0 {
				return c
			}
			return strings.Compare(a.Action, b.Action)
		}
	}
	sortBy(out, f.SortDir, less, func(p repository.Permission) string { return p.ID })

	total := len(out)
	return paginate(out, f.Page.Normalize(types.DefaultPermissionPageLimit)), total, nil
}

func (r permsRepo) IsAssignedToRoles(_ context.Context, id string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, row := range r.s.roles {
		for _, pid := range row.permIDs {
			if pid == id {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r permsRepo) DistinctResources(_ context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	seen := map[string]struct{}{}
	for _, p := range r.s.perms {
		seen[p.Resource] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for res := range seen {
		out = append(out, res)
	}
	sort.Strings(out)
	return out, nil
}
