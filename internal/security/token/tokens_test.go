package tokens

import (
	"strings"
	"testing"
)

func TestGenerateHex(t *testing.T) {
	a, err := GenerateHex(ResetTokenBytes)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(a) != 2*ResetTokenBytes {
		t.Fatalf("len = %d", len(a))
	}
	b, _ := GenerateHex(ResetTokenBytes)
	if a == b {
		t.Fatal("two tokens must differ")
	}
	if _, err := GenerateHex(0); err == nil {
		t.Fatal("expected error for zero length")
	}
}

func TestSHA256Hex(t *testing.T) {
	// sha256("abc")
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := SHA256Hex("abc"); got != want {
		t.Fatalf("got %s", got)
	}
	if strings.ToLower(SHA256Hex("x")) != SHA256Hex("x") {
		t.Fatal("hash must be lowercase hex")
	}
}
