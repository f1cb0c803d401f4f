// Package client is the dashboard's REST client. It talks to the API through an injected
// NetworkClient, so mock mode is a matter of handing it the mock transport.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-attendance-dashboard/internal/metrics"
	appErrors "github.com/noah-isme/sma-attendance-dashboard/pkg/errors"
	"github.com/noah-isme/sma-attendance-dashboard/pkg/middleware/requestid"
	"github.com/noah-isme/sma-attendance-dashboard/pkg/response"
)

// NetworkClient performs HTTP requests. *http.Client satisfies it.
type NetworkClient interface {
	Do(*http.Request) (*http.Response, error)
}

// ErrUnexpectedResponse is returned when a JSON endpoint answers with something else.
var ErrUnexpectedResponse = appErrors.New(http.StatusBadGateway, "Unexpected response format")

// Client calls the dashboard REST API.
type Client struct {
	baseURL string
	network NetworkClient
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Option customises a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics enables client instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New constructs a client rooted at baseURL, e.g. http://localhost:8080/api/v1.
func New(baseURL string, network NetworkClient, opts ...Option) *Client {
	if network == nil {
		network = http.DefaultClient
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		network: network,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewHTTPClient builds the NetworkClient used in production: an *http.Client with a
// timeout over rt, which is the mock transport in mock mode.
func NewHTTPClient(timeout time.Duration, rt http.RoundTripper) *http.Client {
	return &http.Client{Timeout: timeout, Transport: rt}
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, "invalid request")
	}
	id := requestid.FromContext(ctx)
	if id == "" {
		id = requestid.New()
	}
	req.Header.Set(requestid.Header, id)
	return req, nil
}

// send executes req, translating transport failures and non-2xx statuses into *appErrors.Error.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.network.Do(req)
	if err != nil {
		c.metrics.ObserveClientRequest(req.Method, 0, time.Since(start))
		c.metrics.RecordClientError("network")
		c.logger.Warn("api request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Error(err),
		)
		return nil, appErrors.Wrap(err, appErrors.ErrNetwork.Code, appErrors.ErrNetwork.Message)
	}
	c.metrics.ObserveClientRequest(req.Method, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close() //nolint:errcheck

	c.metrics.RecordClientError("http")
	apiErr := errorFromResponse(resp)
	c.logger.Debug("api request rejected",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.String("message", apiErr.Message),
	)
	return nil, apiErr
}

// errorFromResponse prefers the envelope message of a JSON body, then a text body,
// then a generic "Request failed (status)".
func errorFromResponse(resp *http.Response) *appErrors.Error {
	fallback := fmt.Sprintf("Request failed (%d)", resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)

	if isJSON(resp) {
		var env response.Envelope
		if err := json.Unmarshal(raw, &env); err == nil && env.Message != "" {
			return appErrors.New(resp.StatusCode, env.Message)
		}
		return appErrors.New(resp.StatusCode, fallback)
	}

	if text := strings.TrimSpace(string(raw)); text != "" {
		return appErrors.New(resp.StatusCode, text)
	}
	return appErrors.New(resp.StatusCode, fallback)
}

func isJSON(resp *http.Response) bool {
	return strings.Contains(resp.Header.Get("Content-Type"), "application/json")
}

// doJSON performs a JSON request and unwraps the envelope's data into T.
func doJSON[T any](ctx context.Context, c *Client, method, path string, query url.Values, payload any) (T, error) {
	var zero T

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return zero, appErrors.Wrap(err, appErrors.ErrValidation.Code, "invalid request payload")
		}
		body = bytes.NewReader(raw)
	}

	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return zero, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return decodeEnvelope[T](c, req)
}

func decodeEnvelope[T any](c *Client, req *http.Request) (T, error) {
	var zero T

	resp, err := c.send(req)
	if err != nil {
		return zero, err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusNoContent {
		return zero, nil
	}
	if !isJSON(resp) {
		c.metrics.RecordClientError("decode")
		return zero, ErrUnexpectedResponse
	}

	var env response.TypedEnvelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		c.metrics.RecordClientError("decode")
		return zero, appErrors.Wrap(err, ErrUnexpectedResponse.Code, ErrUnexpectedResponse.Message)
	}
	return env.Data, nil
}

// doNoContent performs a request whose success carries no payload.
func doNoContent(ctx context.Context, c *Client, method, path string) error {
	req, err := c.newRequest(ctx, method, path, nil, nil)
	if err != nil {
		return err
	}
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}
