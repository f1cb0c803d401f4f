package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-attendance-dashboard/internal/metrics"
	"github.com/noah-isme/sma-attendance-dashboard/pkg/response"
)

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics *metrics.Metrics
}

// NewMetricsHandler constructs a metrics handler.
func NewMetricsHandler(m *metrics.Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: m}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Snapshot returns aggregated request counters in the response envelope.
func (h *MetricsHandler) Snapshot(c *gin.Context) {
	if h.metrics == nil {
		response.JSON(c, response.Failure(http.StatusServiceUnavailable, "metrics disabled"))
		return
	}
	response.OK(c, h.metrics.Snapshot())
}
