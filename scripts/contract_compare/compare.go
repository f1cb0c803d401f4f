package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/sma-attendance-dashboard/internal/mock"
	"github.com/noah-isme/sma-attendance-dashboard/internal/preferences"
	"github.com/noah-isme/sma-attendance-dashboard/internal/repository"
	"github.com/noah-isme/sma-attendance-dashboard/pkg/jobs"
)

type comparison struct {
	Target          target
	BackendStatus   int
	MockStatus      int
	StatusMatch     bool
	ShapeDiffs      []string
	Error           error
	BackendDuration time.Duration
}

func (c comparison) ok() bool {
	return c.Error == nil && c.StatusMatch && len(c.ShapeDiffs) == 0
}

// defaultTargets covers the read side of the REST contract, with report periods
// ending today.
func defaultTargets(now time.Time) []target {
	start, end := preferences.ReportPeriodDefaults(now)
	period := url.Values{"start_date": {start}, "end_date": {end}}.Encode()

	return []target{
		{Method: http.MethodGet, Path: "/students?page=1&page_size=5", Critical: true},
		{Method: http.MethodGet, Path: "/students?keyword=__none__", Critical: false},
		{Method: http.MethodGet, Path: "/students/__missing__", Critical: true},
		{Method: http.MethodGet, Path: "/attendances?page=1&page_size=5", Critical: true},
		{Method: http.MethodGet, Path: "/attendances/0", Critical: false},
		{Method: http.MethodGet, Path: "/classes", Critical: true},
		{Method: http.MethodGet, Path: "/reports/daily?date=" + end, Critical: true},
		{Method: http.MethodGet, Path: "/reports/details?" + period, Critical: true},
		{Method: http.MethodGet, Path: "/reports/summary?" + period, Critical: true},
		{Method: http.MethodGet, Path: "/reports/abnormal?" + period, Critical: true},
		{Method: http.MethodGet, Path: "/reports/leave?" + period, Critical: true},
	}
}

type slot struct {
	index  int
	target target
}

// run compares every target on a worker pool and returns the results in target order.
func run(ctx context.Context, opts options) ([]comparison, error) {
	base, err := url.Parse(strings.TrimRight(opts.base, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	server := mock.NewServer(repository.NewMockDatabase(repository.GeneratorConfig{Seed: opts.seed}, nil), mock.Options{
		Prefix: base.Path,
		Seed:   opts.seed,
	})
	client := &http.Client{Timeout: opts.timeout}

	results := make([]comparison, len(opts.targets))
	q := jobs.NewQueue[slot]("contract-compare",
		func(ctx context.Context, j jobs.Job[slot]) error {
			comp, err := compareTarget(ctx, client, server, base, j.Payload.target)
			if err != nil {
				return err
			}
			results[j.Payload.index] = comp
			return nil
		},
		func(j jobs.Job[slot], err error) {
			results[j.Payload.index] = comparison{Target: j.Payload.target, Error: err}
		},
		jobs.QueueConfig{
			Workers:    opts.workers,
			MaxRetries: opts.retries,
			RetryDelay: 200 * time.Millisecond,
			Logger:     opts.logger,
		},
	)
	q.Start(ctx)
	defer q.Stop()

	for i, t := range opts.targets {
		if err := q.Enqueue(jobs.Job[slot]{ID: strconv.Itoa(i), Payload: slot{index: i, target: t}}); err != nil {
			return nil, err
		}
	}
	if err := q.Wait(ctx); err != nil {
		return nil, err
	}
	return results, nil
}

// compareTarget fetches one target from both sides. Only transport failures of the
// backend are returned as errors so the queue retries them.
func compareTarget(ctx context.Context, client *http.Client, server *mock.Server, base *url.URL, tgt target) (comparison, error) {
	comp := comparison{Target: tgt}
	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequestWithContext(ctx, method, base.String()+path, nil)
	if err != nil {
		comp.Error = err
		return comp, nil
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return comp, fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	comp.BackendDuration = time.Since(start)
	backendBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return comp, fmt.Errorf("read backend body: %w", err)
	}
	comp.BackendStatus = resp.StatusCode

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(method, base.Path+path, nil).WithContext(ctx))
	comp.MockStatus = rec.Code

	comp.StatusMatch = comp.BackendStatus == comp.MockStatus
	comp.ShapeDiffs = compareBodies(backendBody, rec.Body.Bytes())
	return comp, nil
}

func compareBodies(backend, mocked []byte) []string {
	if len(backend) == 0 && len(mocked) == 0 {
		return nil
	}
	var b, m any
	if err := json.Unmarshal(backend, &b); err != nil {
		return []string{"backend body is not JSON"}
	}
	if err := json.Unmarshal(mocked, &m); err != nil {
		return []string{"mock body is not JSON"}
	}
	return diffShapes("$", b, m)
}

// diffShapes lists where two decoded JSON documents differ in structure. Objects must
// have the same keys, arrays are compared by their first elements, scalars by kind.
// A null on either side matches anything.
func diffShapes(path string, backend, mocked any) []string {
	if backend == nil || mocked == nil {
		return nil
	}
	if kindOf(backend) != kindOf(mocked) {
		return []string{fmt.Sprintf("%s: backend %s, mock %s", path, kindOf(backend), kindOf(mocked))}
	}

	switch b := backend.(type) {
	case map[string]any:
		m := mocked.(map[string]any)
		keys := make([]string, 0, len(b)+len(m))
		for k := range b {
			keys = append(keys, k)
		}
		for k := range m {
			if _, ok := b[k]; !ok {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)

		var diffs []string
		for _, k := range keys {
			bv, inBackend := b[k]
			mv, inMock := m[k]
			switch {
			case !inBackend:
				diffs = append(diffs, fmt.Sprintf("%s.%s: missing in backend", path, k))
			case !inMock:
				diffs = append(diffs, fmt.Sprintf("%s.%s: missing in mock", path, k))
			default:
				diffs = append(diffs, diffShapes(path+"."+k, bv, mv)...)
			}
		}
		return diffs
	case []any:
		m := mocked.([]any)
		if len(b) == 0 || len(m) == 0 {
			return nil
		}
		return diffShapes(path+"[]", b[0], m[0])
	}
	return nil
}

func kindOf(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "bool"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}
