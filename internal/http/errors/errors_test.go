package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/errs"
)

func TestFromErrorMapsDomainKinds(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{errs.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{errs.ErrAccountNotActive, http.StatusUnauthorized, "ACCOUNT_NOT_ACTIVE"},
		{errs.ErrInvalidToken, http.StatusUnauthorized, "TOKEN_INVALID"},
		{errs.ErrTokenRevoked, http.StatusUnauthorized, "TOKEN_REVOKED"},
		{errs.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHORIZED"},
		{errs.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{errs.ErrDuplicateEmail, http.StatusConflict, "EMAIL_ALREADY_IN_USE"},
		{errs.ErrRateLimited, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
		{fmt.Errorf("login: %w", errs.ErrTokenRevoked), http.StatusUnauthorized, "TOKEN_REVOKED"},
		{stderrors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
		{ErrBodyTooLarge, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got := FromError(tt.err)
			require.Equal(t, tt.status, got.HTTPStatus)
			require.Equal(t, tt.code, got.Code)
		})
	}
}

func TestFromErrorKeepsDomainDetail(t *testing.T) {
	got := FromError(errs.Invalid("email is invalid"))
	require.Equal(t, http.StatusBadRequest, got.HTTPStatus)
	require.Equal(t, "email is invalid", got.Detail)

	// los 5xx no exponen la causa
	got = FromError(errs.Wrap(errs.KindInternal, "db", stderrors.New("password=secret")))
	require.Empty(t, got.Detail)
}

func TestWriteErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errs.ErrForbidden)

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, false, body["success"])
	e := body["error"].(map[string]any)
	require.Equal(t, "FORBIDDEN", e["code"])
	require.NotContains(t, e, "detail")
}
