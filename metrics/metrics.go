package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the shop's Prometheus collectors.
	Registry = prometheus.NewRegistry()

	HTTPInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "veggie_shop",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "veggie_shop",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "veggie_shop",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	OrdersPlaced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "veggie_shop",
			Subsystem: "orders",
			Name:      "placed_total",
			Help:      "Orders successfully placed, by payment method.",
		},
		[]string{"payment_method"},
	)

	OrderRevenue = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "veggie_shop",
			Subsystem: "orders",
			Name:      "revenue_total",
			Help:      "Sum of order totals placed.",
		},
	)

	OrderStatusChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "veggie_shop",
			Subsystem: "orders",
			Name:      "status_changes_total",
			Help:      "Order status transitions applied by admins.",
		},
		[]string{"status"},
	)

	ProductCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "veggie_shop",
			Subsystem: "products",
			Name:      "cache_lookups_total",
			Help:      "Product list cache lookups by result.",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		HTTPInFlight,
		HTTPRequests,
		HTTPDuration,
		OrdersPlaced,
		OrderRevenue,
		OrderStatusChanges,
		ProductCache,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
