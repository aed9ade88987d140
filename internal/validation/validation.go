package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Email rules (pragmáticas, no RFC 5322 completo):
// - local@domain, sin espacios.
// - domain con al menos un punto y TLD de 2+ letras.
// - Largo máximo 254.
//
// Examples valid: ada@example.com, a.b+tag@sub.example.io
// Examples invalid: ada, ada@, @example.com, ada@example, "a b@example.com"
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[A-Za-z]{2,}$`)

const (
	MaxEmailLength    = 254
	MaxNameLength     = 100
	MaxRoleNameLength = 50
)

// NormalizeEmail trim + lowercase.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidEmail espera un email ya normalizado.
func ValidEmail(s string) bool {
	return len(s) <= MaxEmailLength && emailRe.MatchString(s)
}

// ValidPersonName: opcional, hasta MaxNameLength runas, sin saltos de línea.
func ValidPersonName(s string) bool {
	return utf8.RuneCountInString(s) <= MaxNameLength && !strings.ContainsAny(s, "\r\n")
}

// Role name rules:
// - 1..50 runas tras trim.
// - Letras, dígitos, espacios, "_" y "-".
var roleNameRe = regexp.MustCompile(`^[\p{L}\p{N}][\p{L}\p{N} _-]*$`)

// ValidRoleName espera un nombre ya recortado.
func ValidRoleName(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= 1 && n <= MaxRoleNameLength && roleNameRe.MatchString(s)
}
