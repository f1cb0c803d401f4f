package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-attendance-dashboard/internal/metrics"
	"github.com/noah-isme/sma-attendance-dashboard/internal/repository"
	"github.com/noah-isme/sma-attendance-dashboard/pkg/response"
)

type mockDatabase interface {
	Reset()
	Stats() repository.MockStats
}

// MockAdminHandler exposes administration of the mock dataset.
type MockAdminHandler struct {
	db      mockDatabase
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewMockAdminHandler constructs the handler.
func NewMockAdminHandler(db mockDatabase, m *metrics.Metrics, logger *zap.Logger) *MockAdminHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MockAdminHandler{db: db, metrics: m, logger: logger}
}

// Stats godoc
// @Summary Mock database statistics
// @Tags Mock
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/mock/stats [get]
func (h *MockAdminHandler) Stats(c *gin.Context) {
	response.OK(c, h.db.Stats())
}

// Reset godoc
// @Summary Regenerate the mock database
// @Tags Mock
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/mock/reset [post]
func (h *MockAdminHandler) Reset(c *gin.Context) {
	h.db.Reset()
	h.metrics.RecordMockReset()

	stats := h.db.Stats()
	h.logger.Info("mock database reset",
		zap.Int("students", stats.Students),
		zap.Int("attendances", stats.Attendances),
	)
	response.OK(c, stats)
}
