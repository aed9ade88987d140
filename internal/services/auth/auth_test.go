package auth_test

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/cache"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/errs"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/types"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/email"
	jwtx "github.com/jeancarlosleonvega/admin-dashboard/internal/jwt"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/rbac"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/security/password"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/services/auth"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/store/memory"
)

const goodPassword = "Sup3rSecret"

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type captureMailer struct {
	mu   sync.Mutex
	msgs []email.Message
	err  error
}

func (m *captureMailer) Send(_ context.Context, msg email.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msg)
	return m.err
}

func (m *captureMailer) sent() []email.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]email.Message(nil), m.msgs...)
}

var tokenRe = regexp.MustCompile(`token=([0-9a-f]{64})`)

func (m *captureMailer) lastToken(t *testing.T) string {
	t.Helper()
	msgs := m.sent()
	require.NotEmpty(t, msgs)
	match := tokenRe.FindStringSubmatch(msgs[len(msgs)-1].Text)
	require.Len(t, match, 2, "reset token not found in mail body")
	return match[1]
}

type harness struct {
	svc    auth.Services
	store  *memory.Store
	clock  *fakeClock
	mail   *captureMailer
	issuer *jwtx.Issuer
	hasher password.Hasher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	issuer, err := jwtx.NewIssuer(jwtx.Config{
		Issuer:        "admin-dashboard-test",
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		Now:           clock.Now,
	})
	require.NoError(t, err)

	st := memory.New(memory.WithClock(clock.Now))
	h := &harness{
		store:  st,
		clock:  clock,
		mail:   &captureMailer{},
		issuer: issuer,
		hasher: password.Bcrypt{Cost: bcrypt.MinCost},
	}
	h.svc = auth.NewServices(auth.Deps{
		Store:       st,
		Issuer:      issuer,
		Cache:       rbac.NewPermissionCache(cache.NewMemory("", time.Minute), time.Minute),
		Hasher:      h.hasher,
		Policy:      password.DefaultPolicy,
		Mailer:      h.mail,
		ResetURL:    "http://localhost:5173/reset-password",
		DefaultRole: "User",
		Now:         clock.Now,
	})
	return h
}

// createUser crea un usuario con un rol que otorga perms.
func (h *harness) createUser(t *testing.T, emailAddr string, status types.UserStatus, perms ...string) *repository.User {
	t.Helper()
	ctx := context.Background()
	hash, err := h.hasher.Hash(goodPassword)
	require.NoError(t, err)
	u, err := h.store.Users().Create(ctx, repository.CreateUserInput{
		Email: emailAddr, PasswordHash: hash, FirstName: "Ada", Status: status,
	})
	require.NoError(t, err)

	var ids []string
	for _, p := range perms {
		res, act, ok := rbac.Parse(p)
		require.True(t, ok, p)
		perm, err := h.store.Permissions().GetByResourceAction(ctx, res, act)
		if repository.IsNotFound(err) {
			perm, err = h.store.Permissions().Create(ctx, repository.CreatePermissionInput{Resource: res, Action: act})
		}
		require.NoError(t, err)
		ids = append(ids, perm.ID)
	}
	if len(ids) > 0 {
		role, err := h.store.Roles().Create(ctx, repository.CreateRoleInput{Name: "role-" + u.ID, PermissionIDs: ids})
		require.NoError(t, err)
		require.NoError(t, h.store.RBAC().AssignRole(ctx, u.ID, role.ID, "test"))
	}
	return u
}

func TestLoginReturnsSessionAndPermissions(t *testing.T) {
	h := newHarness(t)
	u := h.createUser(t, "ada@example.com", types.UserStatusActive, "users.view", "users.edit")

	res, err := h.svc.Login.Login(context.Background(), auth.LoginRequest{Email: " ADA@example.com ", Password: goodPassword})
	require.NoError(t, err)
	require.Equal(t, u.ID, res.User.ID)
	require.Equal(t, []string{"users.edit", "users.view"}, res.Permissions)
	require.Len(t, res.User.Roles, 1)

	access, err := h.issuer.VerifyAccess(res.AccessToken)
	require.NoError(t, err)
	require.Equal(t, u.ID, access.UserID)
	require.Equal(t, "ada@example.com", access.Email)

	refresh, err := h.issuer.VerifyRefresh(res.RefreshToken)
	require.NoError(t, err)
	require.EqualValues(t, 0, refresh.TokenVersion)
}

func TestLoginFailures(t *testing.T) {
	h := newHarness(t)
	h.createUser(t, "ada@example.com", types.UserStatusActive)
	h.createUser(t, "sus@example.com", types.UserStatusSuspended)
	ctx := context.Background()

	_, err := h.svc.Login.Login(ctx, auth.LoginRequest{Email: "nobody@example.com", Password: goodPassword})
	require.ErrorIs(t, err, errs.ErrInvalidCredentials)

	_, err = h.svc.Login.Login(ctx, auth.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	require.ErrorIs(t, err, errs.ErrInvalidCredentials)

	_, err = h.svc.Login.Login(ctx, auth.LoginRequest{Email: "sus@example.com", Password: goodPassword})
	require.ErrorIs(t, err, errs.ErrAccountNotActive)

	_, err = h.svc.Login.Login(ctx, auth.LoginRequest{Email: "", Password: ""})
	require.Equal(t, errs.KindInvalidInput, errs.KindOf(err))
}

func TestLogoutRevokesRefreshButNotAccess(t *testing.T) {
	h := newHarness(t)
	u := h.createUser(t, "ada@example.com", types.UserStatusActive)
	ctx := context.Background()

	sess, err := h.svc.Login.Login(ctx, auth.LoginRequest{Email: "ada@example.com", Password: goodPassword})
	require.NoError(t, err)

	_, err = h.svc.Refresh.Refresh(ctx, sess.RefreshToken)
	require.NoError(t, err)

	require.NoError(t, h.svc.Logout.Logout(ctx, u.ID))

	_, err = h.svc.Refresh.Refresh(ctx, sess.RefreshToken)
	require.ErrorIs(t, err, errs.ErrTokenRevoked)
	require.False(t, errors.Is(err, errs.ErrInvalidToken))

	// el access token emitido antes del logout sigue verificando
	_, err = h.issuer.VerifyAccess(sess.AccessToken)
	require.NoError(t, err)

	h.clock.Advance(16 * time.Minute)
	_, err = h.issuer.VerifyAccess(sess.AccessToken)
	require.ErrorIs(t, err, errs.ErrInvalidToken)
}

func TestConcurrentLogoutsBumpVersionTwice(t *testing.T) {
	h := newHarness(t)
	u := h.createUser(t, "ada@example.com", types.UserStatusActive)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := h.svc.Logout.Logout(ctx, u.ID); err != nil {
				t.Errorf("logout: %v", err)
			}
		}()
	}
	wg.Wait()

	v, err := h.store.Users().GetTokenVersion(ctx, u.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, v)

	require.ErrorIs(t, h.svc.Logout.Logout(ctx, "missing"), errs.ErrUserNotFound)
}

func TestRefreshRejections(t *testing.T) {
	h := newHarness(t)
	u := h.createUser(t, "ada@example.com", types.UserStatusActive)
	ctx := context.Background()

	_, err := h.svc.Refresh.Refresh(ctx, "")
	require.ErrorIs(t, err, errs.ErrInvalidToken)
	_, err = h.svc.Refresh.Refresh(ctx, "not.a.token")
	require.ErrorIs(t, err, errs.ErrInvalidToken)

	// un access token no sirve como refresh
	access, _, err := h.issuer.IssueAccess(u.ID, u.Email)
	require.NoError(t, err)
	_, err = h.svc.Refresh.Refresh(ctx, access)
	require.ErrorIs(t, err, errs.ErrInvalidToken)

	refresh, _, err := h.issuer.IssueRefresh(u.ID, 0)
	require.NoError(t, err)
	st := types.UserStatusInactive
	_, err = h.store.Users().Update(ctx, u.ID, repository.UpdateUserInput{Status: &st})
	require.NoError(t, err)
	_, err = h.svc.Refresh.Refresh(ctx, refresh)
	require.ErrorIs(t, err, errs.ErrUserInactive)

	ghost, _, err := h.issuer.IssueRefresh("ghost", 0)
	require.NoError(t, err)
	_, err = h.svc.Refresh.Refresh(ctx, ghost)
	require.ErrorIs(t, err, errs.ErrUserInactive)
}

func TestRegisterAssignsDefaultRole(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	view, err := h.store.Permissions().Create(ctx, repository.CreatePermissionInput{Resource: "dashboard", Action: "view"})
	require.NoError(t, err)
	_, err = h.store.Roles().Create(ctx, repository.CreateRoleInput{Name: "User", IsSystem: true, PermissionIDs: []string{view.ID}})
	require.NoError(t, err)

	res, err := h.svc.Register.Register(ctx, auth.RegisterRequest{
		Email: "New@Example.com", Password: goodPassword, FirstName: " Grace ", LastName: "Hopper",
	})
	require.NoError(t, err)
	require.Equal(t, "new@example.com", res.User.Email)
	require.Equal(t, "Grace", res.User.FirstName)
	require.Equal(t, []string{"dashboard.view"}, res.Permissions)
	require.NotEmpty(t, res.AccessToken)

	_, err = h.svc.Register.Register(ctx, auth.RegisterRequest{Email: "new@example.com", Password: goodPassword})
	require.ErrorIs(t, err, errs.ErrDuplicateEmail)

	_, err = h.svc.Register.Register(ctx, auth.RegisterRequest{Email: "weak@example.com", Password: "short"})
	require.Equal(t, errs.KindInvalidInput, errs.KindOf(err))

	_, err = h.svc.Register.Register(ctx, auth.RegisterRequest{Email: "not-an-email", Password: goodPassword})
	require.Equal(t, errs.KindInvalidInput, errs.KindOf(err))
}

func TestMeIssuesFreshAccessToken(t *testing.T) {
	h := newHarness(t)
	u := h.createUser(t, "ada@example.com", types.UserStatusActive, "dashboard.view")
	ctx := context.Background()

	res, err := h.svc.Me.Me(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"dashboard.view"}, res.Permissions)
	p, err := h.issuer.VerifyAccess(res.AccessToken)
	require.NoError(t, err)
	require.Equal(t, u.ID, p.UserID)

	_, err = h.svc.Me.Me(ctx, "missing")
	require.ErrorIs(t, err, errs.ErrUserNotFound)
}

func TestResetPasswordIsSingleUse(t *testing.T) {
	h := newHarness(t)
	u := h.createUser(t, "ada@example.com", types.UserStatusActive)
	ctx := context.Background()

	sess, err := h.svc.Login.Login(ctx, auth.LoginRequest{Email: "ada@example.com", Password: goodPassword})
	require.NoError(t, err)

	require.NoError(t, h.svc.Password.ForgotPassword(ctx, "ada@example.com"))
	raw := h.mail.lastToken(t)

	const newPassword = "N3wPassword"
	require.NoError(t, h.svc.Password.ResetPassword(ctx, auth.ResetPasswordRequest{Token: raw, Password: newPassword}))

	err = h.svc.Password.ResetPassword(ctx, auth.ResetPasswordRequest{Token: raw, Password: "An0therPass"})
	require.ErrorIs(t, err, errs.ErrInvalidResetToken)

	_, err = h.svc.Login.Login(ctx, auth.LoginRequest{Email: "ada@example.com", Password: goodPassword})
	require.ErrorIs(t, err, errs.ErrInvalidCredentials)
	_, err = h.svc.Login.Login(ctx, auth.LoginRequest{Email: "ada@example.com", Password: newPassword})
	require.NoError(t, err)

	// el reset incrementó token_version
	_, err = h.svc.Refresh.Refresh(ctx, sess.RefreshToken)
	require.ErrorIs(t, err, errs.ErrTokenRevoked)

	v, err := h.store.Users().GetTokenVersion(ctx, u.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, v)
}

func TestResetTokenExpiresAndIsReplaced(t *testing.T) {
	h := newHarness(t)
	h.createUser(t, "ada@example.com", types.UserStatusActive)
	ctx := context.Background()

	require.NoError(t, h.svc.Password.ForgotPassword(ctx, "ada@example.com"))
	first := h.mail.lastToken(t)
	require.NoError(t, h.svc.Password.ForgotPassword(ctx, "ada@example.com"))
	second := h.mail.lastToken(t)
	require.NotEqual(t, first, second)

	// crear uno nuevo invalida el anterior
	err := h.svc.Password.ResetPassword(ctx, auth.ResetPasswordRequest{Token: first, Password: "N3wPassword"})
	require.ErrorIs(t, err, errs.ErrInvalidResetToken)

	h.clock.Advance(time.Hour + time.Second)
	err = h.svc.Password.ResetPassword(ctx, auth.ResetPasswordRequest{Token: second, Password: "N3wPassword"})
	require.ErrorIs(t, err, errs.ErrInvalidResetToken)
}

func TestResetRejectsWeakPasswordWithoutConsuming(t *testing.T) {
	h := newHarness(t)
	h.createUser(t, "ada@example.com", types.UserStatusActive)
	ctx := context.Background()

	require.NoError(t, h.svc.Password.ForgotPassword(ctx, "ada@example.com"))
	raw := h.mail.lastToken(t)

	err := h.svc.Password.ResetPassword(ctx, auth.ResetPasswordRequest{Token: raw, Password: "weak"})
	require.Equal(t, errs.KindInvalidInput, errs.KindOf(err))
	require.NoError(t, h.svc.Password.ResetPassword(ctx, auth.ResetPasswordRequest{Token: raw, Password: "N3wPassword"}))
}

func TestForgotPasswordIsEnumerationResistant(t *testing.T) {
	h := newHarness(t)
	h.createUser(t, "ada@example.com", types.UserStatusActive)
	ctx := context.Background()

	require.NoError(t, h.svc.Password.ForgotPassword(ctx, "nobody@example.com"))
	require.Empty(t, h.mail.sent())

	// una falla del mailer tampoco se expone
	h.mail.err = errors.New("smtp down")
	require.NoError(t, h.svc.Password.ForgotPassword(ctx, "ada@example.com"))
	require.Len(t, h.mail.sent(), 1)
}

// failingAssign rechaza AssignRole; el resto va al store real.
type failingAssign struct {
	repository.Store
}

func (s failingAssign) RBAC() repository.RBACRepository {
	return failingRBAC{RBACRepository: s.Store.RBAC()}
}

type failingRBAC struct {
	repository.RBACRepository
}

func (failingRBAC) AssignRole(context.Context, string, string, string) error {
	return errors.New("connection reset")
}

func TestRegisterRollsBackWhenDefaultRoleFails(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.store.Roles().Create(ctx, repository.CreateRoleInput{Name: "User", IsSystem: true})
	require.NoError(t, err)

	broken := auth.NewServices(auth.Deps{
		Store:       failingAssign{Store: h.store},
		Issuer:      h.issuer,
		Hasher:      h.hasher,
		Policy:      password.DefaultPolicy,
		Mailer:      h.mail,
		DefaultRole: "User",
		Now:         h.clock.Now,
	})
	req := auth.RegisterRequest{Email: "grace@example.com", Password: goodPassword, FirstName: "Grace", LastName: "Hopper"}

	_, err = broken.Register.Register(ctx, req)
	require.Equal(t, errs.KindInternal, errs.KindOf(err))
	_, err = h.store.Users().GetByEmail(ctx, "grace@example.com")
	require.True(t, repository.IsNotFound(err))

	// el reintento no choca con DuplicateEmail
	res, err := h.svc.Register.Register(ctx, req)
	require.NoError(t, err)
	require.Len(t, res.User.Roles, 1)
}
