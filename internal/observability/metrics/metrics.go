package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "homehaven_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "homehaven_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	signInsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "homehaven_sign_ins_total",
		Help: "Count of sign-in attempts by method and result",
	}, []string{"method", "result"})

	listingSearchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "homehaven_listing_searches_total",
		Help: "Count of listing search queries",
	})
)

// ObserveHTTPRequest records an HTTP request metric.
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveSignIn records a sign-in attempt. method is "local" or "google",
// result is "success" or "failure".
func ObserveSignIn(method, result string) {
	signInsTotal.WithLabelValues(method, result).Inc()
}

// ObserveListingSearch increments the search counter.
func ObserveListingSearch() {
	listingSearchesTotal.Inc()
}
