// Package errs define la taxonomía de errores de dominio del servicio.
//
// Cada fallo es un *Error con un Kind. errors.Is compara por Kind, de modo
// que un error envuelto con contexto sigue clasificando igual:
//
//	if errors.Is(err, errs.ErrTokenRevoked) { ... }
//
// La capa HTTP traduce Kind a status y código; los services nunca escriben
// respuestas ni conocen HTTP.
package errs

import (
	"errors"
	"fmt"
)

// Kind clasifica un error de dominio.
type Kind uint8

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindNotFound
	KindInvalidCredentials
	KindAccountNotActive
	KindInvalidToken
	KindTokenRevoked
	KindUnauthenticated
	KindForbidden
	KindUserNotFound
	KindInvalidResetToken
	KindDuplicateEmail
	KindDuplicatePermission
	KindDuplicateRoleName
	KindConflict
	KindRateLimited
)

var kindNames = [...]string{
	KindInternal:            "internal",
	KindInvalidInput:        "invalid_input",
	KindNotFound:            "not_found",
	KindInvalidCredentials:  "invalid_credentials",
	KindAccountNotActive:    "account_not_active",
	KindInvalidToken:        "invalid_token",
	KindTokenRevoked:        "token_revoked",
	KindUnauthenticated:     "unauthenticated",
	KindForbidden:           "forbidden",
	KindUserNotFound:        "user_not_found",
	KindInvalidResetToken:   "invalid_or_expired_reset_token",
	KindDuplicateEmail:      "duplicate_email",
	KindDuplicatePermission: "duplicate_permission",
	KindDuplicateRoleName:   "duplicate_role_name",
	KindConflict:            "conflict",
	KindRateLimited:         "rate_limited",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Error es un fallo de dominio tipado.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is compara por Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// New crea un error de dominio.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap clasifica un error existente. Si err es nil retorna nil.
func Wrap(kind Kind, msg string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: msg, Err: err}
}

// WithCause devuelve una COPIA del error con la causa adjunta.
// No muta los sentinels globales.
func (e *Error) WithCause(err error) *Error {
	cp := *e
	cp.Err = err
	return &cp
}

// WithMessage devuelve una COPIA con otro mensaje y el mismo Kind.
func (e *Error) WithMessage(msg string) *Error {
	cp := *e
	cp.Message = msg
	return &cp
}

// Invalid construye un KindInvalidInput con formato.
func Invalid(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// Conflict construye un KindConflict con formato.
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// KindOf retorna el Kind del primer *Error en la cadena, o KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Sentinels. Usar con errors.Is o devolver copias vía WithCause/WithMessage.
var (
	ErrInvalidCredentials = New(KindInvalidCredentials, "invalid email or password")
	ErrAccountNotActive   = New(KindAccountNotActive, "account is not active")
	ErrUserInactive       = New(KindAccountNotActive, "user not found or inactive")
	ErrInvalidToken       = New(KindInvalidToken, "invalid token")
	ErrTokenRevoked       = New(KindTokenRevoked, "token has been revoked")
	ErrUnauthenticated    = New(KindUnauthenticated, "authentication required")
	ErrForbidden          = New(KindForbidden, "access denied")
	ErrUserNotFound       = New(KindUserNotFound, "user not found")
	ErrInvalidResetToken  = New(KindInvalidResetToken, "invalid or expired reset token")
	ErrDuplicateEmail     = New(KindDuplicateEmail, "email already registered")
	ErrDuplicatePerm      = New(KindDuplicatePermission, "permission with this resource and action already exists")
	ErrDuplicateRoleName  = New(KindDuplicateRoleName, "role with this name already exists")
	ErrNotFound           = New(KindNotFound, "resource not found")
	ErrRateLimited        = New(KindRateLimited, "too many requests, please try again later")
	ErrInternal           = New(KindInternal, "internal error")
)
