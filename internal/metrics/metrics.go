// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "library_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "library_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)

	// OrdersPlaced counts committed orders.
	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "library_orders_placed_total",
		Help: "Orders committed",
	})

	// OrderStatusChanges counts status transitions by target status.
	OrderStatusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "library_order_status_changes_total",
		Help: "Order status transitions",
	}, []string{"status"})

	// NotificationsFailed counts order notifications that could not be published.
	NotificationsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "library_order_notifications_failed_total",
		Help: "Order notifications that failed to publish",
	})
)

// RecordHTTPMetrics updates the duration histogram and request counter.
func RecordHTTPMetrics(method, path string, status int, duration time.Duration) {
	statusStr := strconv.Itoa(status)
	httpRequestDuration.WithLabelValues(method, path, statusStr).Observe(duration.Seconds())
	httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
}

func IncrementInFlight() { httpRequestsInFlight.Inc() }

func DecrementInFlight() { httpRequestsInFlight.Dec() }
