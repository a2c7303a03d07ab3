package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordLeadSubmitted(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordLeadSubmitted("hot")
	m.RecordLeadSubmitted("hot")
	m.RecordLeadSubmitted("unqualified")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.LeadsSubmitted.WithLabelValues("hot")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LeadsSubmitted.WithLabelValues("unqualified")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordLeadSubmitted("hot")
		m.RecordNotificationDropped()
		m.RecordSessionsSwept(3)
		m.DashboardSessionOpened()
		m.DashboardSessionClosed()
		m.RecordHotLeadAlert()
	})
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New(prometheus.NewRegistry())

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `http_requests_total{method="GET",path="/healthz",status="200"} 1`)
}
