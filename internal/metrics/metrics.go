package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics. A nil *Metrics is valid and records
// nothing, which keeps tests and the CLI free of registry setup.
type Metrics struct {
	gatherer prometheus.Gatherer

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Business metrics
	LeadsSubmitted      *prometheus.CounterVec
	HotLeadAlerts       prometheus.Counter
	IntakeSessionsSwept prometheus.Counter

	// Notification metrics
	NotificationsDropped prometheus.Counter
	DashboardSessions    prometheus.Gauge
}

// New registers every collector with reg.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		gatherer: reg,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),

		LeadsSubmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leads_submitted_total",
				Help: "Total number of intake submissions persisted as leads",
			},
			[]string{"tier"}, // hot, qualified, unqualified
		),
		HotLeadAlerts: factory.NewCounter(prometheus.CounterOpts{
			Name: "hot_lead_alerts_total",
			Help: "Total number of hot-lead alerts pushed to dashboards",
		}),
		IntakeSessionsSwept: factory.NewCounter(prometheus.CounterOpts{
			Name: "intake_sessions_swept_total",
			Help: "Total number of abandoned intake sessions dropped",
		}),

		NotificationsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "notifications_dropped_total",
			Help: "Lead notifications dropped because a subscriber fell behind",
		}),
		DashboardSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_sessions_active",
			Help: "Number of live dashboard sessions",
		}),
	}
}

// Middleware records request counts and latency per route pattern.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// RecordLeadSubmitted increments the submissions counter for tier
func (m *Metrics) RecordLeadSubmitted(tier string) {
	if m == nil {
		return
	}
	m.LeadsSubmitted.WithLabelValues(tier).Inc()
}

func (m *Metrics) RecordHotLeadAlert() {
	if m == nil {
		return
	}
	m.HotLeadAlerts.Inc()
}

func (m *Metrics) RecordSessionsSwept(n int) {
	if m == nil {
		return
	}
	m.IntakeSessionsSwept.Add(float64(n))
}

// RecordNotificationDropped counts one event lost to a full subscriber buffer.
func (m *Metrics) RecordNotificationDropped() {
	if m == nil {
		return
	}
	m.NotificationsDropped.Inc()
}

func (m *Metrics) DashboardSessionOpened() {
	if m == nil {
		return
	}
	m.DashboardSessions.Inc()
}

func (m *Metrics) DashboardSessionClosed() {
	if m == nil {
		return
	}
	m.DashboardSessions.Dec()
}
