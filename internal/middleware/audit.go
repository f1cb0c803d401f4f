package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-attendance-dashboard/pkg/middleware/requestid"
)

// Audit logs every successful write against the mock dataset: creates, updates,
// deletes, imports and resets. Reads and failed requests are skipped.
func Audit(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead || c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		start := time.Now().UTC()
		c.Next()

		status := c.Writer.Status()
		if status >= http.StatusBadRequest {
			return
		}
		logger.Info("dataset changed",
			zap.String("request_id", requestid.Value(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Int64("latency_ms", time.Since(start).Milliseconds()),
			zap.String("ip", c.ClientIP()),
			zap.String("user_agent", c.GetHeader("User-Agent")),
		)
	}
}
