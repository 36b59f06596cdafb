// Package metrics exposes Prometheus collectors for the HTTP API, the SQLite
// store and catalog domain events.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviecatalog_db_query_duration_seconds",
			Help:    "Duration of SQLite store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviecatalog_db_query_errors_total",
			Help: "Total number of failed SQLite store operations",
		},
		[]string{"operation"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviecatalog_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviecatalog_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moviecatalog_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	ReviewsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviecatalog_reviews_submitted_total",
			Help: "Review submissions by outcome",
		},
		[]string{"outcome"},
	)

	MoviesImported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviecatalog_movies_imported_total",
			Help: "Movies inserted by catalog imports, by source",
		},
		[]string{"source"},
	)

	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviecatalog_auth_attempts_total",
			Help: "Login and registration attempts by outcome",
		},
		[]string{"action", "outcome"},
	)
)

// RecordDBQuery observes one store operation.
func RecordDBQuery(operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

func RecordReview(outcome string) {
	ReviewsSubmitted.WithLabelValues(outcome).Inc()
}

func RecordImport(source string, count int) {
	MoviesImported.WithLabelValues(source).Add(float64(count))
}

func RecordAuth(action, outcome string) {
	AuthAttempts.WithLabelValues(action, outcome).Inc()
}
