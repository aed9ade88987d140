package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/errs"
)

func TestIsMatchesByKind(t *testing.T) {
	cause := errors.New("db down")
	err := fmt.Errorf("refresh: %w", errs.ErrTokenRevoked.WithCause(cause))

	if !errors.Is(err, errs.ErrTokenRevoked) {
		t.Fatal("wrapped copy must match sentinel")
	}
	if errors.Is(err, errs.ErrInvalidToken) {
		t.Fatal("revoked must not match invalid token")
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause must stay reachable")
	}
}

func TestWithCauseDoesNotMutateSentinel(t *testing.T) {
	_ = errs.ErrForbidden.WithCause(errors.New("x"))
	if errs.ErrForbidden.Err != nil {
		t.Fatal("sentinel mutated")
	}
}

func TestKindOf(t *testing.T) {
	if k := errs.KindOf(errors.New("plain")); k != errs.KindInternal {
		t.Fatalf("plain error kind = %v", k)
	}
	err := fmt.Errorf("ctx: %w", errs.Invalid("bad %s", "email"))
	if k := errs.KindOf(err); k != errs.KindInvalidInput {
		t.Fatalf("kind = %v", k)
	}
	if errs.Wrap(errs.KindConflict, "x", nil) != nil {
		t.Fatal("Wrap(nil) must be nil")
	}
}

func TestUserInactiveSharesAccountNotActiveKind(t *testing.T) {
	if !errors.Is(errs.ErrUserInactive, errs.ErrAccountNotActive) {
		t.Fatal("user inactive is an account-not-active failure")
	}
	if errs.KindInvalidResetToken.String() != "invalid_or_expired_reset_token" {
		t.Fatalf("name = %s", errs.KindInvalidResetToken)
	}
}
