package memory

import (
	"context"
	"strings"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/types"
)

type usersRepo struct{ s *Store }

func (r usersRepo) GetByID(_ context.Context, id string) (*repository.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r usersRepo) GetByEmail(_ context.Context, email string) (*repository.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if u := r.s.userByEmailLocked(email); u != nil {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (s *Store) userByEmailLocked(email string) *repository.User {
	e := normEmail(email)
	for _, u := range s.users {
		if u.Email == e {
			return u
		}
	}
	return nil
}

func (r usersRepo) Create(_ context.Context, in repository.CreateUserInput) (*repository.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.userByEmailLocked(in.Email) != nil {
		return nil, repository.ErrConflict
	}
	status := in.Status
	if status == "" {
		status = types.UserStatusActive
	}
	now := r.s.stamp()
	u := &repository.User{
		ID:           newID(),
		Email:        normEmail(in.Email),
		PasswordHash: in.PasswordHash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.s.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (r usersRepo) Update(_ context.Context, id string, in repository.UpdateUserInput) (*repository.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if in.Email != nil {
		if other := r.s.userByEmailLocked(*in.Email); other != nil && other.ID != id {
			return nil, repository.ErrConflict
		}
		u.Email = normEmail(*in.Email)
	}
	if in.FirstName != nil {
		u.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		u.LastName = *in.LastName
	}
	if in.Status != nil {
		u.Status = *in.Status
	}
	u.UpdatedAt = r.s.stamp()
	cp := *u
	return &cp, nil
}

func (r usersRepo) SetPassword(_ context.Context, id, passwordHash string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.TokenVersion++
	u.UpdatedAt = r.s.stamp()
	return u.TokenVersion, nil
}

func (r usersRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	r.s.deleteUserLocked(id)
	return nil
}

func (r usersRepo) BulkDelete(_ context.Context, ids []string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, id := range dedupe(ids) {
		if _, ok := r.s.users[id]; ok {
			r.s.deleteUserLocked(id)
			n++
		}
	}
	return n, nil
}

// deleteUserLocked borra en cascada asignaciones y resets.
func (s *Store) deleteUserLocked(id string) {
	delete(s.users, id)
	delete(s.userRoles, id)
	for rid, pr := range s.resets {
		if pr.UserID == id {
			delete(s.resets, rid)
		}
	}
}

func (r usersRepo) List(_ context.Context, f repository.ListUsersFilter) ([]repository.User, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.TrimSpace(f.Search)
	out := make([]repository.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		if search != "" && !containsFold(u.Email, search) && !containsFold(u.FirstName, search) && !containsFold(u.LastName, search) {
			continue
		}
		if f.Status != "" && u.Status != f.Status {
			continue
		}
		if f.RoleID != "" && !r.s.hasRoleLocked(u.ID, f.RoleID) {
			continue
		}
		out = append(out, *u)
	}

	var less func(a, b repository.User) int
	switch f.SortBy {
	case repository.UserSortFirstName:
		less = func(a, b repository.User) int { return strings.Compare(a.FirstName, b.FirstName) }
	case repository.UserSortEmail:
		less = func(a, b repository.User) int { return strings.Compare(a.Email, b.Email) }
	case repository.UserSortStatus:
		less = func(a, b repository.User) int { return strings.Compare(string(a.Status), string(b.Status)) }
	default:
		less = func(a, b repository.User) int { return cmpTime(a.CreatedAt, b.CreatedAt) }
	}
	sortBy(out, f.SortDir, less, func(u repository.User) string { return u.ID })

	total := len(out)
	return paginate(out, f.Page.Normalize(types.DefaultPageLimit)), total, nil
}

func (s *Store) hasRoleLocked(userID, roleID string) bool {
	for _, ur := range s.userRoles[userID] {
		if ur.RoleID == roleID {
			return true
		}
	}
	return false
}

func (r usersRepo) GetTokenVersion(_ context.Context, id string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return u.TokenVersion, nil
}

func (r usersRepo) IncrementTokenVersion(_ context.Context, id string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	u.TokenVersion++
	return u.TokenVersion, nil
}
