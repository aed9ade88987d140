package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterIsIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := Register(reg); err != nil {
		t.Fatalf("second register: %v", err)
	}
}

func TestObserveHelpers(t *testing.T) {
	before := testutil.ToFloat64(AuthzDecisions.WithLabelValues("deny", "insufficient_permission"))
	ObserveDecision(false, "insufficient_permission")
	after := testutil.ToFloat64(AuthzDecisions.WithLabelValues("deny", "insufficient_permission"))
	if after-before != 1 {
		t.Fatalf("delta = %v", after-before)
	}

	beforeErr := testutil.ToFloat64(AuthEvents.WithLabelValues("login", "error"))
	ObserveAuth("login", errors.New("boom"))
	if testutil.ToFloat64(AuthEvents.WithLabelValues("login", "error"))-beforeErr != 1 {
		t.Fatal("auth error not counted")
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("register: %v", err)
	}
	ObserveDecision(true, "none")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "authz_decisions_total") {
		t.Fatalf("metrics body missing collector:\n%s", rec.Body.String())
	}
}
