package jwt_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/errs"
	jwtx "github.com/jeancarlosleonvega/admin-dashboard/internal/jwt"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newIssuer(t *testing.T, clk *fakeClock) *jwtx.Issuer {
	t.Helper()
	iss, err := jwtx.NewIssuer(jwtx.Config{
		Issuer:        "admin-dashboard",
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		Now:           clk.Now,
	})
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	return iss
}

func TestAccessRoundTrip(t *testing.T) {
	clk := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	iss := newIssuer(t, clk)

	raw, exp, err := iss.IssueAccess("u1", "a@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !exp.Equal(clk.t.Add(15 * time.Minute)) {
		t.Fatalf("exp = %v", exp)
	}

	clk.Advance(14 * time.Minute)
	p, err := iss.VerifyAccess(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if p.UserID != "u1" || p.Email != "a@example.com" {
		t.Fatalf("payload = %+v", p)
	}
}

func TestAccessExpiresAfterTTL(t *testing.T) {
	clk := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	iss := newIssuer(t, clk)

	raw, _, _ := iss.IssueAccess("u1", "a@example.com")
	clk.Advance(15*time.Minute + time.Second)

	_, err := iss.VerifyAccess(raw)
	if !errors.Is(err, errs.ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestRefreshRoundTripAndVersion(t *testing.T) {
	clk := &fakeClock{t: time.Now()}
	iss := newIssuer(t, clk)

	raw, _, err := iss.IssueRefresh("u1", 3)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	p, err := iss.VerifyRefresh(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if p.UserID != "u1" || p.TokenVersion != 3 {
		t.Fatalf("payload = %+v", p)
	}
	if !jwtx.IsRefreshCurrent(p, 3) {
		t.Fatal("same version must be current")
	}
	if jwtx.IsRefreshCurrent(p, 4) {
		t.Fatal("bumped version must not be current")
	}
	if jwtx.IsRefreshCurrent(nil, 0) {
		t.Fatal("nil payload is never current")
	}
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	iss := newIssuer(t, &fakeClock{t: time.Now()})

	access, _, _ := iss.IssueAccess("u1", "a@example.com")
	refresh, _, _ := iss.IssueRefresh("u1", 0)

	if _, err := iss.VerifyRefresh(access); !errors.Is(err, errs.ErrInvalidToken) {
		t.Fatalf("access token accepted as refresh: %v", err)
	}
	if _, err := iss.VerifyAccess(refresh); !errors.Is(err, errs.ErrInvalidToken) {
		t.Fatalf("refresh token accepted as access: %v", err)
	}
}

func TestVerifyRejectsTamperedAndForeignTokens(t *testing.T) {
	iss := newIssuer(t, &fakeClock{t: time.Now()})
	raw, _, _ := iss.IssueAccess("u1", "a@example.com")

	parts := strings.Split(raw, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	if _, err := iss.VerifyAccess(tampered); !errors.Is(err, errs.ErrInvalidToken) {
		t.Fatalf("tampered: %v", err)
	}

	// Firmado con otro secret
	foreign := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, jwtx.AccessClaims{
		UserID: "u1",
		Typ:    "access",
		RegisteredClaims: jwtv5.RegisteredClaims{
			Issuer:    "admin-dashboard",
			Subject:   "u1",
			ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(time.Minute)),
		},
	})
	signed, _ := foreign.SignedString([]byte("other-secret"))
	if _, err := iss.VerifyAccess(signed); !errors.Is(err, errs.ErrInvalidToken) {
		t.Fatalf("foreign: %v", err)
	}

	// alg=none nunca se acepta
	none := jwtv5.NewWithClaims(jwtv5.SigningMethodNone, jwtx.AccessClaims{UserID: "u1", Typ: "access"})
	unsigned, _ := none.SignedString(jwtv5.UnsafeAllowNoneSignatureType)
	if _, err := iss.VerifyAccess(unsigned); !errors.Is(err, errs.ErrInvalidToken) {
		t.Fatalf("alg none: %v", err)
	}

	if _, err := iss.VerifyAccess("  "); !errors.Is(err, errs.ErrInvalidToken) {
		t.Fatalf("empty: %v", err)
	}
}

func TestNewIssuerValidation(t *testing.T) {
	base := jwtx.Config{AccessSecret: "a", RefreshSecret: "b", AccessTTL: time.Minute, RefreshTTL: time.Hour}

	same := base
	same.RefreshSecret = "a"
	if _, err := jwtx.NewIssuer(same); err == nil {
		t.Fatal("identical secrets must be rejected")
	}
	missing := base
	missing.AccessSecret = ""
	if _, err := jwtx.NewIssuer(missing); err == nil {
		t.Fatal("missing secret must be rejected")
	}
	zero := base
	zero.AccessTTL = 0
	if _, err := jwtx.NewIssuer(zero); err == nil {
		t.Fatal("zero ttl must be rejected")
	}
}
