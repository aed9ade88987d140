package password

import (
	"strings"
	"unicode"
)

type Policy struct {
	MinLength     int
	RequireUpper  bool
	RequireLower  bool
	RequireDigit  bool
	RequireSymbol bool
}

// DefaultPolicy: 8+ caracteres con mayúscula, minúscula y dígito.
var DefaultPolicy = Policy{MinLength: 8, RequireUpper: true, RequireLower: true, RequireDigit: true}

func (p Policy) Validate(s string) (ok bool, reasons []string) {
	if len([]rune(s)) < p.MinLength {
		reasons = append(reasons, "too_short")
	}
	var hasU, hasL, hasD, hasS bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasU = true
		case unicode.IsLower(r):
			hasL = true
		case unicode.IsDigit(r):
			hasD = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasS = true
		}
	}
	if p.RequireUpper && !hasU {
		reasons = append(reasons, "missing_upper")
	}
	if p.RequireLower && !hasL {
		reasons = append(reasons, "missing_lower")
	}
	if p.RequireDigit && !hasD {
		reasons = append(reasons, "missing_digit")
	}
	if p.RequireSymbol && !hasS {
		reasons = append(reasons, "missing_symbol")
	}
	return len(reasons) == 0, reasons
}

// Describe arma un mensaje legible a partir de los reasons.
func Describe(reasons []string) string {
	msgs := make([]string, 0, len(reasons))
	for _, r := range reasons {
		switch r {
		case "too_short":
			msgs = append(msgs, "password is too short")
		case "missing_upper":
			msgs = append(msgs, "password must contain an uppercase letter")
		case "missing_lower":
			msgs = append(msgs, "password must contain a lowercase letter")
		case "missing_digit":
			msgs = append(msgs, "password must contain a number")
		case "missing_symbol":
			msgs = append(msgs, "password must contain a symbol")
		}
	}
	return strings.Join(msgs, "; ")
}
