// Package mock serves the dashboard REST contract from an in-memory database. The same
// dispatcher backs an http.RoundTripper for in-process use and an http.Handler for the API server.
package mock

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-attendance-dashboard/internal/metrics"
	"github.com/noah-isme/sma-attendance-dashboard/internal/repository"
	appErrors "github.com/noah-isme/sma-attendance-dashboard/pkg/errors"
	"github.com/noah-isme/sma-attendance-dashboard/pkg/response"
)

// DefaultPrefix is the API path prefix stripped before routing.
const DefaultPrefix = "/api/v1"

const maxMultipartMemory = 8 << 20

// Options configures the mock server.
type Options struct {
	Prefix     string
	Hosts      []string
	LatencyMin time.Duration
	LatencyMax time.Duration
	Seed       int64
	PDFFont    string
	Validator  *validator.Validate
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
}

// Reply is a fully shaped HTTP response.
type Reply struct {
	Status int
	Header http.Header
	Body   []byte
}

// Server dispatches requests to the mock handlers.
type Server struct {
	db      *repository.MockDatabase
	router  *Router
	opts    Options
	logger  *zap.Logger
	metrics *metrics.Metrics

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewServer builds the router over db.
func NewServer(db *repository.MockDatabase, opts Options) *Server {
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	opts.Prefix = "/" + strings.Trim(opts.Prefix, "/")
	if opts.LatencyMax < opts.LatencyMin {
		opts.LatencyMax = opts.LatencyMin
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Server{
		db:      db,
		router:  NewRouter(),
		opts:    opts,
		logger:  logger,
		metrics: opts.Metrics,
		rng:     rand.New(rand.NewSource(seed)),
	}
	NewHandlers(db, opts.Validator, opts.PDFFont, logger).Register(s.router)
	return s
}

// Database returns the backing database.
func (s *Server) Database() *repository.MockDatabase {
	return s.db
}

// Router exposes the route table.
func (s *Server) Router() *Router {
	return s.router
}

// Prefix returns the stripped API prefix.
func (s *Server) Prefix() string {
	return s.opts.Prefix
}

// Dispatch routes one request and shapes the reply. It returns an error only when ctx
// is cancelled during the simulated latency.
func (s *Server) Dispatch(ctx context.Context, r *http.Request) (*Reply, error) {
	path := s.stripPrefix(r.URL.Path)
	method := strings.ToUpper(r.Method)
	if method == "" {
		method = http.MethodGet
	}

	match, err := s.router.Match(method, path)
	if err != nil && match.Pattern == "" {
		s.logger.Warn("mock route not found", zap.String("method", method), zap.String("path", path))
		s.metrics.ObserveMockRequest(method, "", http.StatusNotFound)
		return envelopeReply(response.FromError(err)), nil
	}

	if err := s.sleep(ctx); err != nil {
		return nil, err
	}

	if match.Handler == nil {
		s.logger.Warn("mock handler not implemented", zap.String("method", method), zap.String("route", match.Pattern))
		s.metrics.ObserveMockRequest(method, match.Pattern, http.StatusNotImplemented)
		return envelopeReply(response.FromError(appErrors.ErrNotImplemented)), nil
	}

	body, err := decodeBody(r)
	if err != nil {
		s.metrics.ObserveMockRequest(method, match.Pattern, http.StatusBadRequest)
		return envelopeReply(response.FromError(appErrors.Wrap(err, appErrors.ErrValidation.Code, "unreadable request body"))), nil
	}

	req := Request{Method: method, URL: r.URL, Params: match.Params, Body: body}
	result := s.invoke(match, req)

	reply := resultReply(result)
	s.metrics.ObserveMockRequest(method, match.Pattern, reply.Status)
	return reply, nil
}

// invoke runs the handler, converting a panic into a 500 envelope.
func (s *Server) invoke(match Match, req Request) (result Result) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("mock handler panicked",
				zap.String("route", match.Pattern),
				zap.String("panic", fmt.Sprint(rec)),
			)
			result = Failure(appErrors.ErrInternal)
		}
	}()
	return match.Handler(req)
}

func (s *Server) stripPrefix(path string) string {
	if path == s.opts.Prefix {
		return "/"
	}
	if strings.HasPrefix(path, s.opts.Prefix+"/") {
		return path[len(s.opts.Prefix):]
	}
	return path
}

func (s *Server) sleep(ctx context.Context) error {
	d := s.latency()
	if d <= 0 {
		return nil
	}
	s.metrics.ObserveMockLatency(d)
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Server) latency() time.Duration {
	spread := s.opts.LatencyMax - s.opts.LatencyMin
	if spread <= 0 {
		return s.opts.LatencyMin
	}
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.opts.LatencyMin + time.Duration(s.rng.Int63n(int64(spread)+1))
}

// ServeHTTP exposes the dispatcher as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("mock request", zap.String("method", r.Method), zap.String("url", r.URL.String()))
	reply, err := s.Dispatch(r.Context(), r)
	if err != nil {
		return
	}
	for k, vs := range reply.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(reply.Status)
	if len(reply.Body) > 0 {
		_, _ = w.Write(reply.Body)
	}
}

// decodeBody reads the request body: JSON when it looks like JSON, a parsed form for
// multipart payloads, raw bytes otherwise.
func decodeBody(r *http.Request) (any, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	mediaType, params, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		form, err := multipart.NewReader(bytes.NewReader(raw), params["boundary"]).ReadForm(maxMultipartMemory)
		if err != nil {
			return nil, err
		}
		return form, nil
	}

	trimmed := bytes.TrimSpace(raw)
	if json.Valid(trimmed) {
		return json.RawMessage(trimmed), nil
	}
	return raw, nil
}

func resultReply(result Result) *Reply {
	if result.Export != nil {
		header := http.Header{}
		header.Set("Content-Type", result.Export.ContentType)
		if result.Export.ContentType != ContentTypeJSON {
			header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=export.%s", result.Export.Format))
		}
		return &Reply{Status: http.StatusOK, Header: header, Body: result.Export.Body}
	}
	return envelopeReply(result.Envelope)
}

func envelopeReply(env response.Envelope) *Reply {
	header := http.Header{}
	header.Set("Cache-Control", "no-store")
	if env.Code == http.StatusNoContent {
		return &Reply{Status: http.StatusNoContent, Header: header}
	}
	body, err := json.Marshal(env)
	if err != nil {
		body = []byte(`{"code":500,"message":"Internal Server Error"}`)
		env.Code = http.StatusInternalServerError
	}
	header.Set("Content-Type", ContentTypeJSON)
	return &Reply{Status: env.HTTPStatus(), Header: header, Body: body}
}
