package helpers

import (
	"net/http"
	"strings"
	"time"
)

// CookieConfig describe la cookie del refresh token.
type CookieConfig struct {
	Name     string
	Path     string
	Domain   string
	SameSite string
	Secure   bool
}

func ParseSameSite(s string) http.SameSite {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "lax":
		return http.SameSiteLaxMode
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteStrictMode
	}
}

func (c CookieConfig) path() string {
	if strings.TrimSpace(c.Path) == "" {
		return "/"
	}
	return c.Path
}

// BuildCookie arma la cookie httpOnly con vencimiento absoluto.
func BuildCookie(c CookieConfig, value string, expires time.Time) *http.Cookie {
	ck := &http.Cookie{
		Name:     c.Name,
		Value:    value,
		Path:     c.path(),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: ParseSameSite(c.SameSite),
	}
	if strings.TrimSpace(c.Domain) != "" {
		ck.Domain = c.Domain
	}
	if !expires.IsZero() {
		ck.Expires = expires.UTC()
		ck.MaxAge = int(time.Until(expires).Seconds())
	}
	return ck
}

func BuildDeletionCookie(c CookieConfig) *http.Cookie {
	ck := &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     c.path(),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: ParseSameSite(c.SameSite),
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
	}
	if strings.TrimSpace(c.Domain) != "" {
		ck.Domain = c.Domain
	}
	return ck
}
