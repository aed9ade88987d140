package rbac_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/cache"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/errs"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/types"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/rbac"
)

// fakeGrants es un GrantSource mutable que cuenta lecturas.
type fakeGrants struct {
	mu    sync.Mutex
	users map[string][]repository.Role
	calls int
	err   error
}

func newFakeGrants() *fakeGrants {
	return &fakeGrants{users: map[string][]repository.Role{}}
}

func (f *fakeGrants) set(userID string, roles ...repository.Role) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[userID] = roles
}

func (f *fakeGrants) reads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeGrants) FindUserRolesAndPermissions(_ context.Context, userID string) (*repository.UserGrants, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	roles, ok := f.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &repository.UserGrants{UserID: userID, Roles: append([]repository.Role(nil), roles...)}, nil
}

// hookResolver corre hook una vez, después de resolver y antes de retornar.
type hookResolver struct {
	inner rbac.PermissionResolver
	once  sync.Once
	hook  func()
}

func (h *hookResolver) Resolve(ctx context.Context, userID string) (rbac.Set, error) {
	set, err := h.inner.Resolve(ctx, userID)
	h.once.Do(h.hook)
	return set, err
}

// brokenCache falla en todas las operaciones.
type brokenCache struct{}

var errCacheDown = errors.New("connection refused")

func (brokenCache) Get(context.Context, string) (string, error) { return "", errCacheDown }
func (brokenCache) Set(context.Context, string, string, time.Duration) error { return errCacheDown }
func (brokenCache) Delete(context.Context, string) error { return errCacheDown }
func (brokenCache) DeleteByPrefix(context.Context, string) (int64, error) { return 0, errCacheDown }
func (brokenCache) Ping(context.Context) error { return errCacheDown }
func (brokenCache) Close() error { return nil }
func (brokenCache) Stats(context.Context) (cache.Stats, error) { return cache.Stats{}, errCacheDown }

var (
	adminRole  = role("Admin", perm("users", "view"), perm("users", "edit"))
	deleteRole = role("Deleter", perm("users", "delete"))
)

func identity(id string) *types.AuthenticatedContext {
	return &types.AuthenticatedContext{UserID: id, Email: id + "@example.com"}
}

func newGate(src *fakeGrants) (*rbac.Gate, *rbac.PermissionCache) {
	pc := rbac.NewPermissionCache(cache.NewMemory("", time.Minute), time.Minute)
	return rbac.NewGate(rbac.NewResolver(src), pc), pc
}

func TestGateGrantThenInvalidateChangesOutcome(t *testing.T) {
	ctx := context.Background()
	src := newFakeGrants()
	src.set("u1", adminRole)
	gate, pc := newGate(src)

	d, err := gate.Authorize(ctx, identity("u1"), []string{"users.edit"}, rbac.ModeAny)
	require.NoError(t, err)
	require.True(t, d.Allowed)

	d, err = gate.Authorize(ctx, identity("u1"), []string{"users.delete"}, rbac.ModeAny)
	require.NoError(t, err)
	require.False(t, d.Allowed)
	require.Equal(t, rbac.ReasonInsufficientPermission, d.Reason)
	require.ErrorIs(t, d.Err(), errs.ErrForbidden)

	src.set("u1", adminRole, deleteRole)
	require.NoError(t, pc.Invalidate(ctx, "u1"))

	d, err = gate.Authorize(ctx, identity("u1"), []string{"users.delete"}, rbac.ModeAny)
	require.NoError(t, err)
	require.True(t, d.Allowed)
}

func TestGateRevokingAllRolesDeniesEverything(t *testing.T) {
	ctx := context.Background()
	src := newFakeGrants()
	src.set("u1", adminRole)
	gate, pc := newGate(src)

	_, err := gate.Authorize(ctx, identity("u1"), []string{"users.view"}, rbac.ModeAny)
	require.NoError(t, err)

	src.set("u1")
	require.NoError(t, pc.Invalidate(ctx, "u1"))

	perms, err := gate.EffectivePermissions(ctx, "u1")
	require.NoError(t, err)
	require.Zero(t, perms.Len())

	for _, p := range []string{"users.view", "users.edit", "dashboard.view"} {
		d, err := gate.Authorize(ctx, identity("u1"), []string{p}, rbac.ModeAny)
		require.NoError(t, err)
		require.False(t, d.Allowed, p)
	}
}

func TestGateUsesCacheUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	src := newFakeGrants()
	src.set("u1", adminRole)
	gate, pc := newGate(src)

	for i := 0; i < 5; i++ {
		_, err := gate.Authorize(ctx, identity("u1"), []string{"users.view"}, rbac.ModeAny)
		require.NoError(t, err)
	}
	require.Equal(t, 1, src.reads())

	require.NoError(t, pc.InvalidateAll(ctx))
	_, err := gate.Authorize(ctx, identity("u1"), []string{"users.view"}, rbac.ModeAny)
	require.NoError(t, err)
	require.Equal(t, 2, src.reads())
}

func TestGateDenyReasons(t *testing.T) {
	ctx := context.Background()
	src := newFakeGrants()
	gate, _ := newGate(src)

	d, err := gate.Authorize(ctx, nil, []string{"users.view"}, rbac.ModeAny)
	require.NoError(t, err)
	require.Equal(t, rbac.ReasonUnauthenticated, d.Reason)
	require.ErrorIs(t, d.Err(), errs.ErrUnauthenticated)

	d, err = gate.Authorize(ctx, identity("ghost"), []string{"users.view"}, rbac.ModeAny)
	require.NoError(t, err)
	require.False(t, d.Allowed)
	require.Equal(t, rbac.ReasonUserNotFound, d.Reason)
	require.ErrorIs(t, d.Err(), errs.ErrForbidden)
}

func TestGateEmptyRequirementDenies(t *testing.T) {
	src := newFakeGrants()
	src.set("u1", adminRole)
	gate, _ := newGate(src)

	d, err := gate.Authorize(context.Background(), identity("u1"), nil, rbac.ModeAll)
	require.NoError(t, err)
	require.False(t, d.Allowed)
}

func TestGateStoreFailureIsInternal(t *testing.T) {
	src := newFakeGrants()
	src.err = errors.New("db down")
	gate, _ := newGate(src)

	_, err := gate.Authorize(context.Background(), identity("u1"), []string{"users.view"}, rbac.ModeAny)
	require.Error(t, err)
	require.Equal(t, errs.KindInternal, errs.KindOf(err))
}

func TestGateBrokenCacheFallsThroughToResolver(t *testing.T) {
	ctx := context.Background()
	src := newFakeGrants()
	src.set("u1", adminRole)
	pc := rbac.NewPermissionCache(brokenCache{}, time.Minute)
	gate := rbac.NewGate(rbac.NewResolver(src), pc)

	d, err := gate.Authorize(ctx, identity("u1"), []string{"users.edit"}, rbac.ModeAny)
	require.NoError(t, err)
	require.True(t, d.Allowed)

	src.set("u1")
	d, err = gate.Authorize(ctx, identity("u1"), []string{"users.edit"}, rbac.ModeAny)
	require.NoError(t, err)
	require.False(t, d.Allowed)

	require.Error(t, pc.Invalidate(ctx, "u1"))
	require.Error(t, pc.InvalidateAll(ctx))
}

func TestGateWithoutCache(t *testing.T) {
	src := newFakeGrants()
	src.set("u1", adminRole)
	gate := rbac.NewGate(rbac.NewResolver(src), nil)

	d, err := gate.Authorize(context.Background(), identity("u1"), []string{"users.view", "users.edit"}, rbac.ModeAll)
	require.NoError(t, err)
	require.True(t, d.Allowed)
}

func TestFillRacingInvalidationIsRetracted(t *testing.T) {
	for _, scope := range []string{"user", "all"} {
		t.Run(scope, func(t *testing.T) {
			ctx := context.Background()
			src := newFakeGrants()
			src.set("u1", adminRole)
			pc := rbac.NewPermissionCache(cache.NewMemory("", time.Minute), time.Minute)

			// La revocación ocurre mientras el llenado tiene en mano el Set viejo.
			res := &hookResolver{inner: rbac.NewResolver(src), hook: func() {
				src.set("u1")
				if scope == "user" {
					require.NoError(t, pc.Invalidate(ctx, "u1"))
				} else {
					require.NoError(t, pc.InvalidateAll(ctx))
				}
			}}
			gate := rbac.NewGate(res, pc)

			_, err := gate.Authorize(ctx, identity("u1"), []string{"users.view"}, rbac.ModeAny)
			require.NoError(t, err)

			_, ok := pc.Get(ctx, "u1")
			require.False(t, ok, "stale fill must not survive the invalidation")

			d, err := gate.Authorize(ctx, identity("u1"), []string{"users.view"}, rbac.ModeAny)
			require.NoError(t, err)
			require.False(t, d.Allowed)
		})
	}
}

func TestCacheEntryExpires(t *testing.T) {
	ctx := context.Background()
	pc := rbac.NewPermissionCache(cache.NewMemory("", time.Minute), time.Minute)
	pc.Put(ctx, "u1", rbac.NewSet("users.view"), 20*time.Millisecond)

	got, ok := pc.Get(ctx, "u1")
	require.True(t, ok)
	require.True(t, got.Has("users.view"))

	time.Sleep(40 * time.Millisecond)
	_, ok = pc.Get(ctx, "u1")
	require.False(t, ok)
}

func TestConcurrentAuthorize(t *testing.T) {
	ctx := context.Background()
	src := newFakeGrants()
	gate, pc := newGate(src)
	users := []string{"a", "b", "c", "d"}
	for _, u := range users {
		src.set(u, adminRole)
	}

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u := users[i%len(users)]
			if i%8 == 0 {
				_ = pc.Invalidate(ctx, u)
			}
			d, err := gate.Authorize(ctx, identity(u), []string{"users.view"}, rbac.ModeAny)
			if err != nil || !d.Allowed {
				t.Errorf("user %s: allowed=%v err=%v", u, d.Allowed, err)
			}
		}(i)
	}
	wg.Wait()
}
