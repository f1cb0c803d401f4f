package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-attendance-dashboard/internal/mock"
	"github.com/noah-isme/sma-attendance-dashboard/internal/repository"
)

func testOptions(base string) options {
	return options{
		base:    base,
		targets: defaultTargets(time.Now()),
		timeout: 2 * time.Second,
		workers: 3,
		retries: 1,
		seed:    1,
	}
}

func TestRunAgainstMockBackendHasNoDiffs(t *testing.T) {
	backend := mock.NewServer(repository.NewMockDatabase(repository.GeneratorConfig{Seed: 42, Students: 12}, nil), mock.Options{Prefix: "/api/v1", Seed: 42})
	srv := httptest.NewServer(backend)
	defer srv.Close()

	results, err := run(context.Background(), testOptions(srv.URL+"/api/v1"))
	require.NoError(t, err)
	require.Len(t, results, len(defaultTargets(time.Now())))

	for _, res := range results {
		assert.True(t, res.ok(), "%s %s: status %d vs %d, diffs %v, err %v",
			res.Target.Method, res.Target.Path, res.BackendStatus, res.MockStatus, res.ShapeDiffs, res.Error)
	}

	var buf bytes.Buffer
	breaking, optional := printReport(&buf, results)
	assert.Zero(t, breaking)
	assert.Zero(t, optional)
	assert.Contains(t, buf.String(), "[OK] GET /classes")
}

func TestRunReportsDrift(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"code": 200, "msg": "success", "data": []string{"drift"}})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	opts := testOptions(srv.URL + "/api/v1")
	opts.targets = []target{
		{Method: http.MethodGet, Path: "/classes", Critical: true},
		{Method: http.MethodGet, Path: "/students/__missing__", Critical: false},
	}
	results, err := run(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.True(t, results[0].StatusMatch)
	assert.Contains(t, results[0].ShapeDiffs, "$.message: missing in backend")
	assert.Contains(t, results[0].ShapeDiffs, "$.msg: missing in mock")

	assert.Equal(t, http.StatusOK, results[1].BackendStatus)
	assert.Equal(t, http.StatusNotFound, results[1].MockStatus)
	assert.False(t, results[1].StatusMatch)

	var buf bytes.Buffer
	breaking, optional := printReport(&buf, results)
	assert.Equal(t, 1, breaking)
	assert.Equal(t, 1, optional)
	assert.Contains(t, buf.String(), "[DIFF] GET /classes")
}

func TestRunRecordsUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL + "/api/v1"
	srv.Close()

	opts := testOptions(base)
	opts.targets = []target{{Method: http.MethodGet, Path: "/classes", Critical: true}}
	results, err := run(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Error(t, results[0].Error)
	assert.False(t, results[0].ok())
}

func TestDiffShapes(t *testing.T) {
	backend := map[string]any{
		"code": float64(200),
		"data": map[string]any{
			"items": []any{map[string]any{"id": float64(1), "status": "present"}},
			"total": float64(1),
			"extra": nil,
		},
	}
	mocked := map[string]any{
		"code": float64(200),
		"data": map[string]any{
			"items": []any{map[string]any{"id": "1", "status": "present", "remark": ""}},
			"total": float64(3),
			"extra": "anything",
		},
	}

	diffs := diffShapes("$", backend, mocked)
	assert.Equal(t, []string{
		"$.data.items[].id: backend number, mock string",
		"$.data.items[].remark: missing in backend",
	}, diffs)

	assert.Empty(t, diffShapes("$", []any{}, []any{map[string]any{"a": true}}))
	assert.Equal(t, []string{"$: backend array, mock object"}, diffShapes("$", []any{}, map[string]any{}))
}

func TestCompareBodiesRejectsNonJSON(t *testing.T) {
	assert.Equal(t, []string{"backend body is not JSON"}, compareBodies([]byte("<html>"), []byte("{}")))
}
