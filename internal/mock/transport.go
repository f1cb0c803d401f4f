package mock

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-attendance-dashboard/internal/repository"
)

// DefaultHosts are the backend addresses answered by the mock transport.
var DefaultHosts = []string{"localhost:8080", "127.0.0.1:8080"}

// Transport is an http.RoundTripper answering API requests from the mock server and
// delegating everything else to Fallback.
type Transport struct {
	server   *Server
	hosts    map[string]struct{}
	fallback http.RoundTripper
}

// NewTransport builds a mock server over db and wraps it as a RoundTripper. A nil
// fallback means http.DefaultTransport.
func NewTransport(db *repository.MockDatabase, opts Options, fallback http.RoundTripper) *Transport {
	return WrapServer(NewServer(db, opts), opts.Hosts, fallback)
}

// WrapServer exposes an existing server as a RoundTripper.
func WrapServer(server *Server, hosts []string, fallback http.RoundTripper) *Transport {
	if len(hosts) == 0 {
		hosts = DefaultHosts
	}
	if fallback == nil {
		fallback = http.DefaultTransport
	}
	t := &Transport{server: server, hosts: make(map[string]struct{}, len(hosts)), fallback: fallback}
	for _, h := range hosts {
		t.hosts[strings.ToLower(h)] = struct{}{}
	}
	return t
}

// Server returns the wrapped server.
func (t *Transport) Server() *Server {
	return t.server
}

// Intercepts reports whether r is answered by the mock: the host is a known backend
// address, or the URL is relative and under the API prefix.
func (t *Transport) Intercepts(r *http.Request) bool {
	if r.URL == nil {
		return false
	}
	if _, ok := t.hosts[strings.ToLower(r.URL.Host)]; ok {
		return true
	}
	return r.URL.Host == "" && strings.HasPrefix(r.URL.Path, t.server.Prefix())
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(r *http.Request) (*http.Response, error) {
	if !t.Intercepts(r) {
		return t.fallback.RoundTrip(r)
	}
	t.server.logger.Debug("mock intercept", zap.String("method", r.Method), zap.String("url", r.URL.String()))

	in := r.Clone(r.Context())
	if r.Body != nil {
		defer r.Body.Close() //nolint:errcheck
	}

	reply, err := t.server.Dispatch(r.Context(), in)
	if err != nil {
		return nil, err
	}

	header := reply.Header.Clone()
	header.Set("Content-Length", strconv.Itoa(len(reply.Body)))
	return &http.Response{
		Status:        strconv.Itoa(reply.Status) + " " + http.StatusText(reply.Status),
		StatusCode:    reply.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(reply.Body)),
		ContentLength: int64(len(reply.Body)),
		Request:       r,
	}, nil
}
