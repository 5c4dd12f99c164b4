package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/refdata-io/valueset-backend/internal/vserr"
)

// Metrics aggregates the prometheus instruments for the API surface and
// the mutation/bulk paths. All observe methods are nil-receiver safe so
// tests can wire services without a registry.
type Metrics struct {
	registry    *prometheus.Registry
	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	mutations   *prometheus.CounterVec
	bulkTargets *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		apiRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "valueset_api_requests_total",
			Help: "API requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		apiLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "valueset_api_request_duration_seconds",
			Help:    "API request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "valueset_mutations_total",
			Help: "Mutation engine operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		bulkTargets: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "valueset_bulk_targets_total",
			Help: "Bulk orchestrator targets by operation and outcome.",
		}, []string{"operation", "outcome"}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveMutation(operation string, err error) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(operation, outcomeOf(err)).Inc()
}

func (m *Metrics) ObserveBulk(operation string, successful, failed int) {
	if m == nil {
		return
	}
	m.bulkTargets.WithLabelValues(operation, "ok").Add(float64(successful))
	m.bulkTargets.WithLabelValues(operation, "failed").Add(float64(failed))
}

func outcomeOf(err error) string {
	if err == nil {
		return "ok"
	}
	if kind := vserr.KindOf(err); kind != "" {
		return string(kind)
	}
	return "error"
}
