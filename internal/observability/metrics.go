// Package observability provides Prometheus metrics and HTTP middleware
// for the quiz API.
package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	// RequestsTotal counts HTTP requests by method, route pattern and status code.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration records HTTP request duration in seconds.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quiz_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// AuthFailuresTotal counts rejected requests by reason.
	AuthFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_auth_failures_total",
			Help: "Authentication and authorization failures",
		},
		[]string{"reason"},
	)

	// RandomSelectionsTotal counts random question requests by outcome.
	RandomSelectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_random_selections_total",
			Help: "Random question selections",
		},
		[]string{"result"},
	)
)

// Auth failure reasons
const (
	ReasonMissingCredential = "missing_credential"
	ReasonInvalidCredential = "invalid_credential"
	ReasonUnknownPrincipal  = "unknown_principal"
	ReasonForbidden         = "forbidden"
)

// Random selection results
const (
	SelectionFound = "found"
	SelectionEmpty = "empty"
	SelectionError = "error"
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		AuthFailuresTotal,
		RandomSelectionsTotal,
	)
}
