package metrics

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pinpayments"

// PrometheusMetrics implements core.Metrics with Prometheus collectors
type PrometheusMetrics struct {
	registry        *prometheus.Registry
	gatewayRequests *prometheus.CounterVec
	gatewayLatency  *prometheus.HistogramVec
	charges         *prometheus.CounterVec
	transfers       *prometheus.CounterVec
	synced          *prometheus.CounterVec
}

// NewPrometheusMetrics creates the collectors and registers them on registry
func NewPrometheusMetrics(registry *prometheus.Registry) *PrometheusMetrics {
	m := &PrometheusMetrics{
		registry: registry,
		gatewayRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gateway_requests_total",
				Help:      "Requests sent to the payment gateway.",
			},
			[]string{"environment", "method", "endpoint", "status"},
		),
		gatewayLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "gateway_request_duration_seconds",
				Help:      "Latency of payment gateway requests.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"environment", "method", "endpoint"},
		),
		charges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "charges_total",
				Help:      "Charges submitted, by outcome.",
			},
			[]string{"environment", "outcome"},
		),
		transfers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transfers_total",
				Help:      "Transfers recorded, by gateway status.",
			},
			[]string{"environment", "status"},
		),
		synced: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "synced_records_total",
				Help:      "Records created or updated by gateway syncs.",
			},
			[]string{"environment", "kind", "action"},
		),
	}

	registry.MustRegister(m.gatewayRequests, m.gatewayLatency, m.charges, m.transfers, m.synced)
	return m
}

// ObserveGatewayRequest records one HTTP exchange with the gateway
func (m *PrometheusMetrics) ObserveGatewayRequest(environment, method, endpoint string, status int, duration time.Duration) {
	statusLabel := "error"
	if status > 0 {
		statusLabel = strconv.Itoa(status)
	}
	m.gatewayRequests.WithLabelValues(environment, method, endpoint, statusLabel).Inc()
	m.gatewayLatency.WithLabelValues(environment, method, endpoint).Observe(duration.Seconds())
}

// IncCharge counts a submitted charge by outcome
func (m *PrometheusMetrics) IncCharge(environment string, succeeded bool) {
	outcome := "failed"
	if succeeded {
		outcome = "succeeded"
	}
	m.charges.WithLabelValues(environment, outcome).Inc()
}

// IncTransfer counts a recorded transfer by status
func (m *PrometheusMetrics) IncTransfer(environment, status string) {
	m.transfers.WithLabelValues(environment, status).Inc()
}

// AddSynced counts records created and updated by a sync
func (m *PrometheusMetrics) AddSynced(environment, kind string, created, updated int) {
	m.synced.WithLabelValues(environment, kind, "created").Add(float64(created))
	m.synced.WithLabelValues(environment, kind, "updated").Add(float64(updated))
}

// RegisterDB exposes connection pool statistics for db
func (m *PrometheusMetrics) RegisterDB(db *sql.DB, name string) error {
	return m.registry.Register(collectors.NewDBStatsCollector(db, name))
}

// Handler serves the registry in the Prometheus exposition format
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

var _ core.Metrics = (*PrometheusMetrics)(nil)
