package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// AuditOutcomeRecorded labels a successfully persisted audit entry.
	AuditOutcomeRecorded = "recorded"
	// AuditOutcomeFailed labels an audit entry lost to a storage fault.
	AuditOutcomeFailed = "failed"
	// AuditOutcomeDropped labels an audit entry rejected by a full queue.
	AuditOutcomeDropped = "dropped"
)

var (
	registerOnce      sync.Once
	apiRequestsTotal  *prometheus.CounterVec
	apiLatencySeconds *prometheus.HistogramVec
	apiErrorsTotal    *prometheus.CounterVec
	auditAppendsTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fleet_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fleet_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fleet_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		auditAppendsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fleet_audit_appends_total",
			Help: "Audit log append attempts by outcome.",
		}, []string{"outcome"})

		prometheus.MustRegister(apiRequestsTotal, apiLatencySeconds, apiErrorsTotal, auditAppendsTotal)
	})
}

// APIRequests exposes the counter for served requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for served requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// AuditAppends exposes the counter for audit append outcomes.
func AuditAppends() *prometheus.CounterVec {
	RegisterMetrics()
	return auditAppendsTotal
}
