package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPMetrics holds the request collectors for the API.
type HTTPMetrics struct {
	inFlight        prometheus.Gauge
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	accessDenied    *prometheus.CounterVec
	gatherer        prometheus.Gatherer
}

// New registers the collectors on reg. Passing nil uses a fresh registry.
func New(reg *prometheus.Registry) *HTTPMetrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &HTTPMetrics{
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latencies in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		accessDenied: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_access_denied_total",
				Help: "Requests rejected with 401 or 403.",
			},
			[]string{"path", "status"},
		),
		gatherer: reg,
	}

	reg.MustRegister(
		m.inFlight,
		m.requestsTotal,
		m.requestDuration,
		m.accessDenied,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Middleware records count, latency and denials per route template.
func (m *HTTPMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.inFlight.Inc()
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		code := c.Writer.Status()
		status := strconv.Itoa(code)

		m.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		m.requestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		if code == http.StatusUnauthorized || code == http.StatusForbidden {
			m.accessDenied.WithLabelValues(path, status).Inc()
		}
		m.inFlight.Dec()
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *HTTPMetrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}
