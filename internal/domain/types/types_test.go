package types

import "testing"

func TestPageRequestNormalize(t *testing.T) {
	p := PageRequest{}.Normalize(50)
	if p.Page != 1 || p.Limit != 50 {
		t.Fatalf("defaults: %+v", p)
	}
	p = PageRequest{Page: 3, Limit: 500}.Normalize(20)
	if p.Limit != MaxPageLimit || p.Offset() != 2*MaxPageLimit {
		t.Fatalf("capped: %+v offset=%d", p, p.Offset())
	}
}

func TestNewPageMeta(t *testing.T) {
	m := NewPageMeta(PageRequest{Page: 1, Limit: 20}, 41)
	if m.TotalPages != 3 {
		t.Fatalf("totalPages = %d, want 3", m.TotalPages)
	}
	if NewPageMeta(PageRequest{Page: 1, Limit: 20}, 0).TotalPages != 0 {
		t.Fatal("empty result must have zero pages")
	}
}

func TestParseUserStatus(t *testing.T) {
	if st, ok := ParseUserStatus(" active "); !ok || st != UserStatusActive {
		t.Fatalf("got %q %v", st, ok)
	}
	if _, ok := ParseUserStatus("deleted"); ok {
		t.Fatal("unknown status accepted")
	}
}

func TestAuthenticatedContext(t *testing.T) {
	var nilCtx *AuthenticatedContext
	if nilCtx.Authenticated() {
		t.Fatal("nil context must not be authenticated")
	}
	if (&AuthenticatedContext{}).Authenticated() {
		t.Fatal("empty user id must not be authenticated")
	}
	if !(&AuthenticatedContext{UserID: "u1"}).Authenticated() {
		t.Fatal("expected authenticated")
	}
}
