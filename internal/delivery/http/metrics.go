package http

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shelfassist/backend/internal/domain"
)

// Metrics holds the HTTP and routing collectors on a private registry
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	routesTotal     *prometheus.CounterVec
	routeConfidence *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with a new registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shelfassist",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "shelfassist",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		routesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shelfassist",
			Subsystem: "router",
			Name:      "classifications_total",
			Help:      "Classified queries by route.",
		}, []string{"route"}),
		routeConfidence: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "shelfassist",
			Subsystem: "router",
			Name:      "confidence",
			Help:      "Routing confidence by route.",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		}, []string{"route"}),
	}
}

// Middleware records request counts and latency per matched route
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.requestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// ObserveClassification counts one routing decision
func (m *Metrics) ObserveClassification(result domain.ClassificationResult) {
	m.routesTotal.WithLabelValues(string(result.Route)).Inc()
	m.routeConfidence.WithLabelValues(string(result.Route)).Observe(result.Confidence)
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
