package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SystemHandler answers liveness and readiness probes.
type SystemHandler struct {
	ready func() error
}

// NewSystemHandler constructs the handler. A nil ready check always reports ready.
func NewSystemHandler(ready func() error) *SystemHandler {
	if ready == nil {
		ready = func() error { return nil }
	}
	return &SystemHandler{ready: ready}
}

// Health responds with a generic OK payload.
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports whether the backing dataset can serve requests.
func (h *SystemHandler) Ready(c *gin.Context) {
	if err := h.ready(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
