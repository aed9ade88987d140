package authz_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/cache"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/errs"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
	jwtx "github.com/jeancarlosleonvega/admin-dashboard/internal/jwt"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/rbac"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/services/authz"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/store/memory"
)

type fixture struct {
	svc    authz.Service
	store  *memory.Store
	issuer *jwtx.Issuer
	cache  *rbac.PermissionCache
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: memory.New(), now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	var err error
	f.issuer, err = jwtx.NewIssuer(jwtx.Config{
		AccessSecret:  "a-secret",
		RefreshSecret: "r-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    time.Hour,
		Now:           func() time.Time { return f.now },
	})
	require.NoError(t, err)
	f.cache = rbac.NewPermissionCache(cache.NewMemory("", time.Minute), time.Minute)
	f.svc = authz.NewService(authz.Deps{
		Issuer: f.issuer,
		Gate:   rbac.NewGate(rbac.NewResolver(f.store.RBAC()), f.cache),
	})
	return f
}

func (f *fixture) userWith(t *testing.T, perms ...string) (string, string) {
	t.Helper()
	ctx := context.Background()
	u, err := f.store.Users().Create(ctx, repository.CreateUserInput{Email: "u@example.com", PasswordHash: "x"})
	require.NoError(t, err)
	var ids []string
	for _, p := range perms {
		res, act, ok := rbac.Parse(p)
		require.True(t, ok)
		perm, err := f.store.Permissions().Create(ctx, repository.CreatePermissionInput{Resource: res, Action: act})
		require.NoError(t, err)
		ids = append(ids, perm.ID)
	}
	role, err := f.store.Roles().Create(ctx, repository.CreateRoleInput{Name: "Admin", PermissionIDs: ids})
	require.NoError(t, err)
	require.NoError(t, f.store.RBAC().AssignRole(ctx, u.ID, role.ID, u.ID))

	access, _, err := f.issuer.IssueAccess(u.ID, u.Email)
	require.NoError(t, err)
	return u.ID, "Bearer " + access
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer   abc ", "abc", true},
		{"BEARER abc", "abc", true},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"abc", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := authz.BearerToken(c.in)
		if got != c.want || ok != c.ok {
			t.Errorf("BearerToken(%q) = %q,%v; want %q,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID, header := f.userWith(t, "users.view")

	ac, err := f.svc.Authenticate(ctx, header)
	require.NoError(t, err)
	require.Equal(t, userID, ac.UserID)

	_, err = f.svc.Authenticate(ctx, "")
	require.ErrorIs(t, err, errs.ErrUnauthenticated)

	_, err = f.svc.Authenticate(ctx, "Bearer garbage")
	require.ErrorIs(t, err, errs.ErrInvalidToken)

	f.now = f.now.Add(16 * time.Minute)
	_, err = f.svc.Authenticate(ctx, header)
	require.ErrorIs(t, err, errs.ErrInvalidToken)
}

func TestAuthorizeRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID, header := f.userWith(t, "users.view", "users.edit")

	got, d, err := f.svc.AuthorizeRequest(ctx, header, []string{"users.edit"}, rbac.ModeAny)
	require.NoError(t, err)
	require.True(t, d.Allowed)
	require.Equal(t, userID, got.UserID)

	got, d, err = f.svc.AuthorizeRequest(ctx, header, []string{"users.view", "users.delete"}, rbac.ModeAll)
	require.NoError(t, err)
	require.Nil(t, got)
	require.Equal(t, rbac.ReasonInsufficientPermission, d.Reason)
	require.ErrorIs(t, d.Err(), errs.ErrForbidden)

	_, d, err = f.svc.AuthorizeRequest(ctx, "", []string{"users.view"}, rbac.ModeAny)
	require.NoError(t, err)
	require.Equal(t, rbac.ReasonUnauthenticated, d.Reason)
	require.ErrorIs(t, d.Err(), errs.ErrUnauthenticated)

	// un token forjado o vencido no se confunde con la falta de bearer
	_, d, err = f.svc.AuthorizeRequest(ctx, "Bearer nope", []string{"users.view"}, rbac.ModeAny)
	require.NoError(t, err)
	require.Equal(t, rbac.ReasonInvalidToken, d.Reason)
	require.ErrorIs(t, d.Err(), errs.ErrInvalidToken)

	f.now = f.now.Add(16 * time.Minute)
	_, d, err = f.svc.AuthorizeRequest(ctx, header, []string{"users.view"}, rbac.ModeAny)
	require.NoError(t, err)
	require.Equal(t, rbac.ReasonInvalidToken, d.Reason)
}

func TestAuthorizeRequestDeletedUserIsForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID, header := f.userWith(t, "users.view")

	require.NoError(t, f.store.Users().Delete(ctx, userID))
	require.NoError(t, f.cache.Invalidate(ctx, userID))

	// el access token sigue verificando, pero el Gate deniega
	got, d, err := f.svc.AuthorizeRequest(ctx, header, []string{"users.view"}, rbac.ModeAny)
	require.NoError(t, err)
	require.Nil(t, got)
	require.Equal(t, rbac.ReasonUserNotFound, d.Reason)
	require.ErrorIs(t, d.Err(), errs.ErrForbidden)
}
