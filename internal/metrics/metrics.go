package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal     prometheus.CounterVec
	HTTPRequestDuration   prometheus.HistogramVec
	HTTPActiveConnections prometheus.GaugeVec

	// Feed metrics
	FeedPageDuration   prometheus.HistogramVec
	FeedPagesTotal     prometheus.CounterVec
	PostMutationsTotal prometheus.CounterVec
	LikeTogglesTotal   prometheus.CounterVec

	// Error metrics
	ErrorsTotal prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers all Prometheus metrics
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			HTTPRequestsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"method", "path", "status"},
			),
			HTTPActiveConnections: *promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "http_active_connections",
					Help: "Number of currently active HTTP connections",
				},
				[]string{"method", "path"},
			),

			FeedPageDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "feed_page_duration_seconds",
					Help:    "Feed page assembly latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
				},
				[]string{"filter"},
			),
			FeedPagesTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "feed_pages_total",
					Help: "Total number of feed pages served",
				},
				[]string{"filter", "status"},
			),
			PostMutationsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "post_mutations_total",
					Help: "Total number of post create/update/delete operations",
				},
				[]string{"operation", "status"},
			),
			LikeTogglesTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "like_toggles_total",
					Help: "Total number of like toggle operations",
				},
				[]string{"direction", "status"},
			),

			ErrorsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "errors_total",
					Help: "Total number of errors by type",
				},
				[]string{"error_type", "endpoint"},
			),
		}
	})
	return instance
}

// Get returns the metrics instance, initializing it if needed
func Get() *Metrics {
	if instance == nil {
		return Initialize()
	}
	return instance
}
