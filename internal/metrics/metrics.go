// Package metrics holds the prometheus collectors of the inventory service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes the HTTP and order-recording instruments.
type Metrics struct {
	gatherer     prometheus.Gatherer
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	orders       *prometheus.CounterVec
}

// New registers the collectors on registry. Passing nil uses a fresh registry,
// which keeps tests independent of the process-wide default.
func New(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inventory_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	orders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_orders_recorded_total",
		Help: "Order recording attempts by kind (purchase, sale) and outcome.",
	}, []string{"kind", "outcome"})

	registry.MustRegister(httpRequests, httpDuration, orders)

	return &Metrics{
		gatherer:     registry,
		httpRequests: httpRequests,
		httpDuration: httpDuration,
		orders:       orders,
	}
}

// OrderRecorded counts one order recording attempt.
func (m *Metrics) OrderRecorded(kind, outcome string) {
	if m == nil {
		return
	}
	m.orders.WithLabelValues(kind, outcome).Inc()
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// GinMiddleware records request counts and latency keyed by route template.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.httpRequests.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
