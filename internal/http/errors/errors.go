// Package errors traduce errores de dominio a respuestas HTTP.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/errs"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/observability/logger"
)

// errorBody controla exactamente qué campos ve el cliente.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

type envelope struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

// byKind es la base HTTP de cada Kind del dominio.
var byKind = map[errs.Kind]*AppError{
	errs.KindInvalidInput:        ErrValidation,
	errs.KindNotFound:            ErrNotFound,
	errs.KindInvalidCredentials:  ErrInvalidCredentials,
	errs.KindAccountNotActive:    ErrAccountNotActive,
	errs.KindInvalidToken:        ErrTokenInvalid,
	errs.KindTokenRevoked:        ErrTokenRevoked,
	errs.KindUnauthenticated:     ErrUnauthorized,
	errs.KindForbidden:           ErrForbidden,
	errs.KindUserNotFound:        ErrUserNotFound,
	errs.KindInvalidResetToken:   ErrInvalidResetToken,
	errs.KindDuplicateEmail:      ErrEmailAlreadyInUse,
	errs.KindDuplicatePermission: ErrPermissionExists,
	errs.KindDuplicateRoleName:   ErrRoleNameTaken,
	errs.KindConflict:            ErrConflict,
	errs.KindRateLimited:         ErrRateLimitExceeded,
}

// FromError convierte cualquier error en un AppError. Los errores de dominio
// se mapean por Kind; el resto es un 500 genérico que conserva la causa.
func FromError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	var de *errs.Error
	if !stderrors.As(err, &de) {
		return ErrInternalServerError.WithCause(err)
	}
	base, ok := byKind[de.Kind]
	if !ok {
		return ErrInternalServerError.WithCause(err)
	}
	out := base.WithCause(err)
	// validación, not found y conflictos llevan el mensaje del dominio
	switch de.Kind {
	case errs.KindInvalidInput, errs.KindNotFound, errs.KindConflict:
		if de.Message != "" {
			out = out.WithDetail(de.Message)
		}
	}
	return out
}

// WriteError escribe {"success":false,"error":{...}} con el status del error.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(envelope{
		Error: errorBody{Code: appErr.Code, Message: appErr.Message, Detail: appErr.Detail},
	})
}

// Write es WriteError con log de los 5xx usando el logger del request.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	appErr := FromError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.From(r.Context()).Error("request failed",
			logger.Layer("http"),
			logger.String("code", appErr.Code),
			logger.Err(appErr.Err),
		)
	}
	WriteError(w, appErr)
}
