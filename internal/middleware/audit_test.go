package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestAuditLogsSuccessfulWrites(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)

	r := gin.New()
	r.Use(Audit(zap.New(core)))
	r.GET("/students", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/students", func(c *gin.Context) { c.Status(http.StatusCreated) })
	r.DELETE("/students/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/students", nil),
		httptest.NewRequest(http.MethodPost, "/students", nil),
		httptest.NewRequest(http.MethodDelete, "/students/x", nil),
	} {
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "dataset changed", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "POST", fields["method"])
	assert.Equal(t, "/students", fields["path"])
	assert.Equal(t, int64(http.StatusCreated), fields["status"])
}
