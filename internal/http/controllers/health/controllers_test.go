package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/http/controllers/health"
	dto "github.com/jeancarlosleonvega/admin-dashboard/internal/http/dto/health"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func readyz(t *testing.T, c *health.Controller) (int, dto.HealthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	var resp dto.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestReadyz(t *testing.T) {
	down := pinger{err: errors.New("connection refused")}

	tests := []struct {
		name       string
		checks     []health.Check
		code       int
		status     string
		components map[string]string
	}{
		{
			name:       "all up",
			checks:     []health.Check{{Name: "store", Pinger: pinger{}}, {Name: "cache", Pinger: pinger{}, Optional: true}},
			code:       http.StatusOK,
			status:     "ready",
			components: map[string]string{"store": "ok", "cache": "ok"},
		},
		{
			name:       "optional down",
			checks:     []health.Check{{Name: "store", Pinger: pinger{}}, {Name: "cache", Pinger: down, Optional: true}},
			code:       http.StatusOK,
			status:     "ready",
			components: map[string]string{"store": "ok", "cache": "degraded"},
		},
		{
			name:       "required down",
			checks:     []health.Check{{Name: "store", Pinger: down}, {Name: "cache", Pinger: pinger{}, Optional: true}},
			code:       http.StatusServiceUnavailable,
			status:     "unavailable",
			components: map[string]string{"store": "error", "cache": "ok"},
		},
		{
			name:       "disabled",
			checks:     []health.Check{{Name: "store", Pinger: pinger{}}, {Name: "cache"}},
			code:       http.StatusOK,
			status:     "ready",
			components: map[string]string{"store": "ok", "cache": "disabled"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := readyz(t, health.NewController("test", tt.checks...))
			require.Equal(t, tt.code, code)
			require.Equal(t, tt.status, resp.Status)
			for name, want := range tt.components {
				require.Equal(t, want, resp.Components[name].Status, name)
			}
		})
	}
}
