package validation

import (
	"strings"
	"testing"
)

func TestValidEmail(t *testing.T) {
	valids := []string{"ada@example.com", "a.b+tag@sub.example.io", "x@y.co"}
	for _, v := range valids {
		if !ValidEmail(v) {
			t.Fatalf("expected valid: %q", v)
		}
	}
	invalids := []string{"", "ada", "ada@", "@example.com", "ada@example", "a b@example.com", strings.Repeat("a", 250) + "@x.com"}
	for _, v := range invalids {
		if ValidEmail(v) {
			t.Fatalf("expected invalid: %q", v)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Ada@Example.COM "); got != "ada@example.com" {
		t.Fatalf("NormalizeEmail = %q", got)
	}
}

func TestValidRoleName(t *testing.T) {
	for _, v := range []string{"Admin", "Super Admin", "support-l2", "Ñandú"} {
		if !ValidRoleName(v) {
			t.Fatalf("expected valid: %q", v)
		}
	}
	for _, v := range []string{"", " Admin", "Admin;drop", strings.Repeat("x", 51)} {
		if ValidRoleName(v) {
			t.Fatalf("expected invalid: %q", v)
		}
	}
}

func TestValidPersonName(t *testing.T) {
	if !ValidPersonName("") || !ValidPersonName("Ada") {
		t.Fatal("expected valid names")
	}
	if ValidPersonName("Ada\nLovelace") || ValidPersonName(strings.Repeat("x", 101)) {
		t.Fatal("expected invalid names")
	}
}
