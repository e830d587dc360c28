package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Pinger is satisfied by *pgxpool.Pool and *memory.DB.
type Pinger interface {
	Ping(ctx context.Context) error
}

type CheckResult struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latencyMs"`
	Error     string `json:"error,omitempty"`
}

type HealthResult struct {
	Status string                 `json:"status"`
	Uptime string                 `json:"uptime,omitempty"`
	Checks map[string]CheckResult `json:"checks,omitempty"`
}

// pingTimeout bounds a single readiness check.
const pingTimeout = 2 * time.Second

// Checker verifies that the storage backend is reachable.
type Checker struct {
	store  Pinger
	name   string
	logger  *slog.Logger
	gauge   *prometheus.GaugeVec
	started time.Time
}

// NewChecker creates a health checker for the named storage backend and
// registers its Prometheus gauge.
func NewChecker(store Pinger, name string, logger *slog.Logger, reg prometheus.Registerer) *Checker {
	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "tracker",
		Name:      "health_check_up",
		Help:      "Whether a dependency is reachable. 1 = up, 0 = down.",
	}, []string{"dependency"})
	reg.MustRegister(gauge)

	return &Checker{
		store:   store,
		name:    name,
		logger:  logger.With("component", "health"),
		gauge:   gauge,
		started: time.Now(),
	}
}

func (c *Checker) Liveness(_ context.Context) HealthResult {
	return HealthResult{Status: "up", Uptime: time.Since(c.started).Round(time.Second).String()}
}

func (c *Checker) Readiness(ctx context.Context) HealthResult {
	checkCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := time.Now()
	err := c.store.Ping(checkCtx)
	check := CheckResult{Status: "up", LatencyMS: time.Since(start).Milliseconds()}

	if err != nil {
		c.logger.WarnContext(ctx, "storage health check failed", "storage", c.name, "error", err)
		check.Status = "down"
		check.Error = err.Error()
		c.gauge.WithLabelValues(c.name).Set(0)
	} else {
		c.gauge.WithLabelValues(c.name).Set(1)
	}

	return HealthResult{Status: check.Status, Checks: map[string]CheckResult{c.name: check}}
}

func (c *Checker) ServeLiveness(w http.ResponseWriter, r *http.Request) {
	writeResult(w, c.Liveness(r.Context()))
}

func (c *Checker) ServeReadiness(w http.ResponseWriter, r *http.Request) {
	writeResult(w, c.Readiness(r.Context()))
}

func writeResult(w http.ResponseWriter, res HealthResult) {
	status := http.StatusOK
	if res.Status != "up" {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(res)
}
