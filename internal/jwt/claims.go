package jwt

import (
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// Valores del claim "typ". Aunque access y refresh usan secrets distintos,
// el tipo se valida también para que un secret mal configurado (iguales)
// no permita intercambiarlos.
const (
	typAccess  = "access"
	typRefresh = "refresh"
)

// AccessClaims son las claims de un access token.
type AccessClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Typ    string `json:"typ"`
	jwtv5.RegisteredClaims
}

// RefreshClaims son las claims de un refresh token.
type RefreshClaims struct {
	UserID       string `json:"userId"`
	TokenVersion int64  `json:"tokenVersion"`
	Typ          string `json:"typ"`
	jwtv5.RegisteredClaims
}

// AccessPayload es el resultado de verificar un access token.
type AccessPayload struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// RefreshPayload es el resultado de verificar un refresh token.
type RefreshPayload struct {
	UserID       string
	TokenVersion int64
	ExpiresAt    time.Time
}

// IsRefreshCurrent compara la versión embebida con la actual del usuario.
// false significa revocación (logout, cambio o reset de password), no un
// token malformado.
func IsRefreshCurrent(p *RefreshPayload, currentVersion int64) bool {
	return p != nil && p.TokenVersion == currentVersion
}
