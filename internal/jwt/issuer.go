package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/errs"
)

// Config parámetros del Issuer.
type Config struct {
	Issuer        string
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	// Leeway tolera desfasajes de reloj al validar exp/nbf.
	Leeway time.Duration
	// Now permite inyectar un reloj (tests). nil = time.Now.
	Now func() time.Time
}

// Issuer emite y verifica access/refresh tokens HS256 con secrets separados.
// Es seguro para uso concurrente: no tiene estado mutable.
type Issuer struct {
	iss           string
	accessSecret  []byte
	refreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	leeway        time.Duration
	now           func() time.Time
}

// NewIssuer valida la configuración y construye el Issuer.
func NewIssuer(cfg Config) (*Issuer, error) {
	if strings.TrimSpace(cfg.AccessSecret) == "" || strings.TrimSpace(cfg.RefreshSecret) == "" {
		return nil, errors.New("jwt: access and refresh secrets are required")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("jwt: access and refresh secrets must differ")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, fmt.Errorf("jwt: ttl must be positive (access=%s refresh=%s)", cfg.AccessTTL, cfg.RefreshTTL)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Issuer{
		iss:           cfg.Issuer,
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
		leeway:        cfg.Leeway,
		now:           now,
	}, nil
}

func (i *Issuer) registered(sub string, ttl time.Duration) (jwtv5.RegisteredClaims, time.Time) {
	now := i.now().UTC()
	exp := now.Add(ttl)
	return jwtv5.RegisteredClaims{
		Issuer:    i.iss,
		Subject:   sub,
		IssuedAt:  jwtv5.NewNumericDate(now),
		NotBefore: jwtv5.NewNumericDate(now),
		ExpiresAt: jwtv5.NewNumericDate(exp),
		ID:        uuid.NewString(),
	}, exp
}

// IssueAccess firma un access token {userId, email} con expiración AccessTTL.
func (i *Issuer) IssueAccess(userID, email string) (string, time.Time, error) {
	rc, exp := i.registered(userID, i.AccessTTL)
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, AccessClaims{
		UserID:           userID,
		Email:            email,
		Typ:              typAccess,
		RegisteredClaims: rc,
	})
	signed, err := tk.SignedString(i.accessSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("jwt: sign access: %w", err)
	}
	return signed, exp, nil
}

// IssueRefresh firma un refresh token {userId, tokenVersion} con expiración RefreshTTL.
func (i *Issuer) IssueRefresh(userID string, tokenVersion int64) (string, time.Time, error) {
	rc, exp := i.registered(userID, i.RefreshTTL)
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, RefreshClaims{
		UserID:           userID,
		TokenVersion:     tokenVersion,
		Typ:              typRefresh,
		RegisteredClaims: rc,
	})
	signed, err := tk.SignedString(i.refreshSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("jwt: sign refresh: %w", err)
	}
	return signed, exp, nil
}

func (i *Issuer) parserOptions() []jwtv5.ParserOption {
	opts := []jwtv5.ParserOption{
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithTimeFunc(i.now),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithIssuedAt(),
	}
	if i.leeway > 0 {
		opts = append(opts, jwtv5.WithLeeway(i.leeway))
	}
	if i.iss != "" {
		opts = append(opts, jwtv5.WithIssuer(i.iss))
	}
	return opts
}

// VerifyAccess valida firma, expiración y tipo. Cualquier fallo es ErrInvalidToken.
func (i *Issuer) VerifyAccess(raw string) (*AccessPayload, error) {
	var c AccessClaims
	if err := i.parse(raw, &c, i.accessSecret); err != nil {
		return nil, err
	}
	if c.Typ != typAccess || c.UserID == "" || c.UserID != c.Subject {
		return nil, errs.ErrInvalidToken.WithMessage("invalid access token")
	}
	return &AccessPayload{UserID: c.UserID, Email: c.Email, ExpiresAt: c.ExpiresAt.Time}, nil
}

// VerifyRefresh valida firma, expiración y tipo. No consulta la versión
// actual del usuario: eso es IsRefreshCurrent.
func (i *Issuer) VerifyRefresh(raw string) (*RefreshPayload, error) {
	var c RefreshClaims
	if err := i.parse(raw, &c, i.refreshSecret); err != nil {
		return nil, err
	}
	if c.Typ != typRefresh || c.UserID == "" || c.UserID != c.Subject {
		return nil, errs.ErrInvalidToken.WithMessage("invalid refresh token")
	}
	return &RefreshPayload{UserID: c.UserID, TokenVersion: c.TokenVersion, ExpiresAt: c.ExpiresAt.Time}, nil
}

func (i *Issuer) parse(raw string, claims jwtv5.Claims, secret []byte) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return errs.ErrInvalidToken.WithMessage("token is empty")
	}
	tk, err := jwtv5.ParseWithClaims(raw, claims, func(t *jwtv5.Token) (any, error) {
		return secret, nil
	}, i.parserOptions()...)
	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return errs.ErrInvalidToken.WithMessage("token expired").WithCause(err)
		}
		return errs.ErrInvalidToken.WithCause(err)
	}
	if !tk.Valid {
		return errs.ErrInvalidToken
	}
	return nil
}
