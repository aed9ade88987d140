package memory

import (
	"context"
	"time"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
)

type resetsRepo struct{ s *Store }

func (r resetsRepo) Create(_ context.Context, userID, tokenHash string, expiresAt time.Time) (*repository.PasswordReset, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[userID]; !ok {
		return nil, repository.ErrNotFound
	}
	// Un solo token activo por usuario
	for id, pr := range r.s.resets {
		if pr.UserID == userID {
			delete(r.s.resets, id)
		}
	}
	pr := &repository.PasswordReset{
		ID:        newID(),
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: r.s.stamp(),
	}
	r.s.resets[pr.ID] = pr
	cp := *pr
	return &cp, nil
}

func (s *Store) validResetLocked(tokenHash string, now time.Time) *repository.PasswordReset {
	for _, pr := range s.resets {
		if pr.TokenHash == tokenHash && pr.UsedAt == nil && now.Before(pr.ExpiresAt) {
			return pr
		}
	}
	return nil
}

func (r resetsRepo) FindValidByHash(_ context.Context, tokenHash string, now time.Time) (*repository.PasswordReset, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	pr := r.s.validResetLocked(tokenHash, now)
	if pr == nil {
		return nil, repository.ErrNotFound
	}
	cp := *pr
	return &cp, nil
}

func (r resetsRepo) Consume(_ context.Context, tokenHash, passwordHash string, now time.Time) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	pr := r.s.validResetLocked(tokenHash, now)
	if pr == nil {
		return "", repository.ErrNotFound
	}
	u, ok := r.s.users[pr.UserID]
	if !ok {
		return "", repository.ErrNotFound
	}
	used := now
	pr.UsedAt = &used
	u.PasswordHash = passwordHash
	u.TokenVersion++
	u.UpdatedAt = r.s.stamp()
	return u.ID, nil
}
