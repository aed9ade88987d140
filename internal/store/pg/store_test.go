package pg_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/store/pg"
)

// openStore requiere TEST_PG_DSN apuntando a una base descartable.
func openStore(t *testing.T) *pg.Store {
	t.Helper()
	dsn := os.Getenv("TEST_PG_DSN")
	if dsn == "" {
		t.Skip("TEST_PG_DSN not set")
	}
	ctx := context.Background()
	s, err := pg.New(ctx, pg.Config{DSN: dsn, MaxConns: 8})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(ctx))
	return s
}

func uniqueEmail() string { return "pg-" + uuid.NewString()[:8] + "@example.com" }

func TestPGIncrementTokenVersionIsAtomic(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	u, err := s.Users().Create(ctx, repository.CreateUserInput{Email: uniqueEmail(), PasswordHash: "h"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Users().Delete(ctx, u.ID) })

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Users().IncrementTokenVersion(ctx, u.ID); err != nil {
				t.Errorf("increment: %v", err)
			}
		}()
	}
	wg.Wait()

	v, err := s.Users().GetTokenVersion(ctx, u.ID)
	require.NoError(t, err)
	require.EqualValues(t, 20, v)
}

func TestPGUniqueEmailMapsToConflict(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	email := uniqueEmail()
	u, err := s.Users().Create(ctx, repository.CreateUserInput{Email: email, PasswordHash: "h"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Users().Delete(ctx, u.ID) })

	_, err = s.Users().Create(ctx, repository.CreateUserInput{Email: email, PasswordHash: "h"})
	require.ErrorIs(t, err, repository.ErrConflict)

	_, err = s.Users().GetByID(ctx, "not-a-uuid")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPGGrantsAndResetConsume(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	u, err := s.Users().Create(ctx, repository.CreateUserInput{Email: uniqueEmail(), PasswordHash: "h"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Users().Delete(ctx, u.ID) })

	res := "pgtest" + uuid.NewString()[:6]
	p, err := s.Permissions().Create(ctx, repository.CreatePermissionInput{Resource: res, Action: "view"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Permissions().Delete(ctx, p.ID) })

	role, err := s.Roles().Create(ctx, repository.CreateRoleInput{Name: "role-" + res, PermissionIDs: []string{p.ID}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Roles().Delete(ctx, role.ID) })
	require.Len(t, role.Permissions, 1)

	require.NoError(t, s.RBAC().SetUserRoles(ctx, u.ID, []string{role.ID}, "tester"))
	g, err := s.RBAC().FindUserRolesAndPermissions(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, g.Roles, 1)
	require.Equal(t, res, g.Roles[0].Permissions[0].Resource)

	now := time.Now()
	_, err = s.PasswordResets().Create(ctx, u.ID, "hash-"+res, now.Add(time.Hour))
	require.NoError(t, err)
	uid, err := s.PasswordResets().Consume(ctx, "hash-"+res, "new-hash", now)
	require.NoError(t, err)
	require.Equal(t, u.ID, uid)
	_, err = s.PasswordResets().Consume(ctx, "hash-"+res, "again", now)
	require.ErrorIs(t, err, repository.ErrNotFound)

	got, err := s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "new-hash", got.PasswordHash)
	require.EqualValues(t, 1, got.TokenVersion)
}
