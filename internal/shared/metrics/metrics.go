package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Payment metrics
	CheckoutSessionsTotal *prometheus.CounterVec
	WebhookEventsTotal    *prometheus.CounterVec
	LedgerTransitions     *prometheus.CounterVec

	// Auth metrics
	AdminLoginsTotal *prometheus.CounterVec
}

// New creates a new Metrics instance registered with reg.
// A nil registerer uses the default Prometheus registry.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "giftregistry"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),

		CheckoutSessionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "payment",
				Name:      "checkout_sessions_total",
				Help:      "Checkout sessions requested from the payment provider",
			},
			[]string{"result"}, // created, invalid, failed
		),
		WebhookEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "payment",
				Name:      "webhook_events_total",
				Help:      "Inbound provider webhook events by type and outcome",
			},
			[]string{"type", "outcome"}, // outcome: processed, duplicate, ignored, test, rejected, error
		),
		LedgerTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "payment",
				Name:      "ledger_transitions_total",
				Help:      "Transaction ledger writes by resulting status",
			},
			[]string{"status"},
		),

		AdminLoginsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "auth",
				Name:      "admin_logins_total",
				Help:      "Admin login attempts by outcome",
			},
			[]string{"outcome"}, // success, invalid, rate_limited
		),
	}
}

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordCheckout records the result of a checkout session request.
func (m *Metrics) RecordCheckout(result string) {
	if m == nil {
		return
	}
	m.CheckoutSessionsTotal.WithLabelValues(result).Inc()
}

// RecordWebhookEvent records the outcome of a webhook delivery.
func (m *Metrics) RecordWebhookEvent(eventType, outcome string) {
	if m == nil {
		return
	}
	m.WebhookEventsTotal.WithLabelValues(eventType, outcome).Inc()
}

// RecordLedgerTransition records a ledger write.
func (m *Metrics) RecordLedgerTransition(status string) {
	if m == nil {
		return
	}
	m.LedgerTransitions.WithLabelValues(status).Inc()
}

// RecordAdminLogin records an admin login attempt.
func (m *Metrics) RecordAdminLogin(outcome string) {
	if m == nil {
		return
	}
	m.AdminLoginsTotal.WithLabelValues(outcome).Inc()
}
