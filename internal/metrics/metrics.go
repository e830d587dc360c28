package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tracker"

var (
	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})

	HTTPRequestsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_requests_in_flight",
		Help:      "HTTP requests currently being served.",
	})

	// Auth metrics

	AuthAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Register and login attempts, by action and outcome.",
	}, []string{"action", "outcome"})

	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_requests_total",
		Help:      "Requests rejected by the per-client rate limiter.",
	})

	// Application metrics

	ApplicationMutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "application_mutations_total",
		Help:      "Successful application writes, by operation.",
	}, []string{"op"})

	// Reminder metrics

	RemindersSentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reminders_sent_total",
		Help:      "Follow-up reminder deliveries, by outcome.",
	}, []string{"outcome"})

	ReminderCycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "reminder_cycle_duration_seconds",
		Help:      "Time taken for one reminder dispatch cycle.",
		Buckets:   prometheus.DefBuckets,
	})

	DispatcherStartTime = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "reminder_dispatcher_start_time_seconds",
		Help:      "Unix timestamp when the reminder dispatcher started.",
	})
)

func Register() {
	prometheus.MustRegister(
		HTTPRequestDuration,
		HTTPRequestsTotal,
		HTTPRequestsInFlight,
		AuthAttemptsTotal,
		RateLimitedTotal,
		ApplicationMutationsTotal,
		RemindersSentTotal,
		ReminderCycleDuration,
		DispatcherStartTime,
	)
}

// HealthChecker is implemented by *health.Checker.
type HealthChecker interface {
	ServeLiveness(w http.ResponseWriter, r *http.Request)
	ServeReadiness(w http.ResponseWriter, r *http.Request)
}

// NewServer serves /metrics and, when checker is non-nil, /healthz and /readyz.
func NewServer(addr string, checker HealthChecker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if checker != nil {
		mux.HandleFunc("/healthz", checker.ServeLiveness)
		mux.HandleFunc("/readyz", checker.ServeReadiness)
	}
	return &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}
