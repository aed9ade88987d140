package password

import (
	"strings"
	"testing"
)

// Params bajos para que los tests no tarden.
var fastArgon = Argon2id{Params: Params{Memory: 1024, Time: 1, Parallelism: 1, KeyLen: 32}}

func TestArgon2idRoundTrip(t *testing.T) {
	h, err := fastArgon.Hash("S3cretPass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(h, "$argon2id$v=19$") {
		t.Fatalf("unexpected format: %s", h)
	}
	if !fastArgon.Verify("S3cretPass", h) {
		t.Fatal("verify should succeed")
	}
	if fastArgon.Verify("wrong", h) {
		t.Fatal("verify should fail for wrong password")
	}
	if fastArgon.Verify("S3cretPass", "$argon2id$garbage") {
		t.Fatal("malformed hash must not verify")
	}
}

func TestBcryptRoundTrip(t *testing.T) {
	b := Bcrypt{Cost: 4}
	h, err := b.Hash("S3cretPass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !b.Verify("S3cretPass", h) || b.Verify("nope", h) {
		t.Fatal("bcrypt verify mismatch")
	}
}

func TestMultiVerifiesBothFormats(t *testing.T) {
	m := Multi{Primary: fastArgon}
	a, _ := fastArgon.Hash("pw-One1")
	b, _ := Bcrypt{Cost: 4}.Hash("pw-One1")
	if !m.Verify("pw-One1", a) || !m.Verify("pw-One1", b) {
		t.Fatal("multi must verify argon2id and bcrypt hashes")
	}
	if m.Verify("pw-One1", "plain-text") {
		t.Fatal("unknown format must not verify")
	}
}

func TestNewHasher(t *testing.T) {
	if _, err := NewHasher("scrypt", 0); err == nil {
		t.Fatal("expected error for unknown hasher")
	}
	h, err := NewHasher("BCRYPT", 0)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	if h.(Bcrypt).Cost != DefaultBcryptCost {
		t.Fatalf("cost = %d", h.(Bcrypt).Cost)
	}
}

func TestPolicy(t *testing.T) {
	ok, reasons := DefaultPolicy.Validate("short")
	if ok {
		t.Fatal("expected failure")
	}
	msg := Describe(reasons)
	for _, want := range []string{"too short", "uppercase", "number"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
	if ok, _ := DefaultPolicy.Validate("Valid1Password"); !ok {
		t.Fatal("expected valid password")
	}
}
