package metrics

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the application's Prometheus collectors on a private registry.
type Metrics struct {
	registry      *prometheus.Registry
	httpRequests  *prometheus.CounterVec
	prescriptions *prometheus.CounterVec
	storeWrites   *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mediintake_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		prescriptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mediintake_prescriptions_generated_total",
			Help: "Generated prescriptions by source (model or fallback).",
		}, []string{"source"}),
		storeWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mediintake_store_writes_total",
			Help: "Committed record store writes by collection and operation.",
		}, []string{"collection", "op"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.prescriptions,
		m.storeWrites,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware counts every request once it has been handled. Unmatched
// routes are grouped under "unmatched" to keep label cardinality bounded.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

func (m *Metrics) PrescriptionGenerated(source string) {
	m.prescriptions.WithLabelValues(source).Inc()
}

// StoreWrite matches database.WriteHook.
func (m *Metrics) StoreWrite(collection, op string) {
	m.storeWrites.WithLabelValues(collection, op).Inc()
}
