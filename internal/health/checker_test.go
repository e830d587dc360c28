package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ErlanBelekov/job-tracker/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

func newTestChecker(p health.Pinger) (*health.Checker, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return health.NewChecker(p, "postgres", slog.Default(), reg), reg
}

func TestLiveness_AlwaysUp(t *testing.T) {
	c, _ := newTestChecker(&mockPinger{err: errors.New("db down")})

	result := c.Liveness(context.Background())
	if result.Status != "up" {
		t.Fatalf("expected status up, got %s", result.Status)
	}
	if result.Checks != nil {
		t.Fatalf("expected no checks, got %v", result.Checks)
	}
	if result.Uptime == "" {
		t.Fatal("expected uptime")
	}
}

func TestReadiness_StorageUp(t *testing.T) {
	c, reg := newTestChecker(&mockPinger{})

	result := c.Readiness(context.Background())
	if result.Status != "up" {
		t.Fatalf("expected status up, got %s", result.Status)
	}
	if pg := result.Checks["postgres"]; pg.Status != "up" {
		t.Fatalf("expected postgres up, got %q", pg.Status)
	}

	expected := `
# HELP tracker_health_check_up Whether a dependency is reachable. 1 = up, 0 = down.
# TYPE tracker_health_check_up gauge
tracker_health_check_up{dependency="postgres"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "tracker_health_check_up"); err != nil {
		t.Fatal(err)
	}
}

func TestReadiness_StorageDown(t *testing.T) {
	c, reg := newTestChecker(&mockPinger{err: errors.New("connection refused")})

	result := c.Readiness(context.Background())
	if result.Status != "down" {
		t.Fatalf("expected status down, got %s", result.Status)
	}
	pg := result.Checks["postgres"]
	if pg.Status != "down" || pg.Error == "" {
		t.Fatalf("expected postgres down with error, got %+v", pg)
	}

	if n := testutil.CollectAndCount(reg, "tracker_health_check_up"); n != 1 {
		t.Fatalf("expected 1 series, got %d", n)
	}
}

func TestServeReadiness_StatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"up", nil, http.StatusOK},
		{"down", errors.New("boom"), http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestChecker(&mockPinger{err: tt.err})

			w := httptest.NewRecorder()
			c.ServeReadiness(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if w.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, w.Code)
			}
			var body health.HealthResult
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Checks["postgres"].Status != tt.name {
				t.Fatalf("expected postgres %s, got %+v", tt.name, body.Checks)
			}
		})
	}
}

func TestServeLiveness_OK(t *testing.T) {
	c, _ := newTestChecker(&mockPinger{err: errors.New("down")})

	w := httptest.NewRecorder()
	c.ServeLiveness(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
