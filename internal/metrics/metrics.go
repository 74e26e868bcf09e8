package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation results
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	// HTTPRequestsTotal counts served requests by status and route template
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"status", "route"},
	)

	// HTTPRequestDuration tracks request latency by route template
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// KeyOperationsTotal counts API key service calls by operation and result
	KeyOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_key_operations_total",
			Help: "Total API key operations",
		},
		[]string{"operation", "result"},
	)
)

// ObserveKeyOperation records the outcome of an API key operation
func ObserveKeyOperation(operation string, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	KeyOperationsTotal.WithLabelValues(operation, result).Inc()
}
