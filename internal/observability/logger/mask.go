package logger

import "strings"

// MaskEmail deja la primera letra del usuario y del dominio:
// "john@example.com" -> "j…@e….com". Sin '@' se enmascara todo.
func MaskEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	at := strings.IndexByte(s, '@')
	if at <= 0 {
		if s == "" {
			return ""
		}
		return "***"
	}
	local, domain := s[:at], s[at+1:]
	labels := strings.Split(domain, ".")
	labels[0] = firstRune(labels[0])
	return firstRune(local) + "@" + strings.Join(labels, ".")
}

func firstRune(s string) string {
	r := []rune(s)
	if len(r) <= 1 {
		return s
	}
	return string(r[0]) + "…"
}
