package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-attendance-dashboard/internal/client"
	"github.com/noah-isme/sma-attendance-dashboard/internal/metrics"
	"github.com/noah-isme/sma-attendance-dashboard/internal/mock"
	"github.com/noah-isme/sma-attendance-dashboard/internal/models"
	"github.com/noah-isme/sma-attendance-dashboard/internal/preferences"
	"github.com/noah-isme/sma-attendance-dashboard/internal/repository"
	"github.com/noah-isme/sma-attendance-dashboard/internal/urlsync"
	"github.com/noah-isme/sma-attendance-dashboard/pkg/config"
	appErrors "github.com/noah-isme/sma-attendance-dashboard/pkg/errors"
	"github.com/noah-isme/sma-attendance-dashboard/pkg/logger"
	"github.com/noah-isme/sma-attendance-dashboard/pkg/storage"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

// rootFlags are the persistent flags shared by every view command.
type rootFlags struct {
	baseURL      string
	mock         bool
	location     string
	dashboardURL string
	output       string
	verbose      bool
	stats        bool
}

// app is the view layer's dependency set for one invocation.
type app struct {
	cfg      *config.Config
	flags    *rootFlags
	logger   *zap.Logger
	metrics  *metrics.Metrics
	api      *client.Client
	prefs    *preferences.Store
	validate *validator.Validate
	out      io.Writer
	now      func() time.Time
	closers  []func() error
}

func newApp(ctx context.Context, cfg *config.Config, flags *rootFlags, out io.Writer) (*app, error) {
	cfg.Log.Format = "console"
	cfg.Log.Level = "warn"
	if flags.verbose {
		cfg.Log.Level = "debug"
	}

	logr, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	var m *metrics.Metrics
	if flags.stats {
		m = metrics.New()
	}

	var transport http.RoundTripper = http.DefaultTransport
	if cfg.Mock.Enabled {
		transport = newMockTransport(cfg, logr, m)
	}

	api := client.New(cfg.APIBaseURL,
		client.NewHTTPClient(cfg.Client.Timeout, transport),
		client.WithLogger(logger.Component(logr, "client")),
		client.WithMetrics(m),
	)

	backend, closeBackend, err := preferences.Open(ctx, cfg, logger.Component(logr, "preferences"))
	if err != nil {
		_ = logr.Sync()
		return nil, fmt.Errorf("open preferences: %w", err)
	}

	return &app{
		cfg:      cfg,
		flags:    flags,
		logger:   logr,
		metrics:  m,
		api:      api,
		prefs:    preferences.New(backend, logger.Component(logr, "preferences"), m),
		validate: models.NewValidator(),
		out:      out,
		now:      time.Now,
		closers:  []func() error{closeBackend},
	}, nil
}

// newMockTransport serves the API from an in-process mock database. Requests to the
// configured base URL host are intercepted along with the configured mock hosts.
func newMockTransport(cfg *config.Config, logr *zap.Logger, m *metrics.Metrics) *mock.Transport {
	db := repository.NewMockDatabase(repository.GeneratorConfig{
		Seed:     cfg.Mock.Seed,
		Students: cfg.Mock.Students,
		Days:     cfg.Mock.Days,
	}, logger.Component(logr, "mockdb"))

	prefix := cfg.APIPrefix
	hosts := append([]string{}, cfg.Mock.Hosts...)
	if u, err := url.Parse(cfg.APIBaseURL); err == nil && u.Host != "" {
		hosts = append(hosts, u.Host)
		if u.Path != "" {
			prefix = u.Path
		}
	}

	return mock.NewTransport(db, mock.Options{
		Prefix:     prefix,
		Hosts:      hosts,
		LatencyMin: cfg.Mock.LatencyMin,
		LatencyMax: cfg.Mock.LatencyMax,
		Seed:       cfg.Mock.Seed,
		PDFFont:    cfg.Exports.PDFFont,
		Logger:     logger.Component(logr, "mock"),
		Metrics:    m,
	}, http.DefaultTransport)
}

func (a *app) close() error {
	var firstErr error
	for _, c := range a.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	_ = a.logger.Sync()
	return firstErr
}

func (a *app) component(name string) *zap.Logger {
	return logger.Component(a.logger, name)
}

// location returns the address bar of a view, seeded from the --url flag.
func (a *app) location() *urlsync.MemoryLocation {
	return urlsync.NewMemoryLocation(queryOf(a.flags.location))
}

// link renders the shareable URL of a view.
func (a *app) link(view string, loc *urlsync.MemoryLocation) string {
	return loc.URL(strings.TrimRight(a.flags.dashboardURL, "/") + "/" + view)
}

func (a *app) jsonOutput() bool {
	return a.flags.output == outputJSON
}

// emit writes v as indented JSON in json mode and runs table otherwise.
func (a *app) emit(v any, table func(io.Writer) error) error {
	if a.jsonOutput() {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return table(a.out)
}

func (a *app) printLink(view string, loc *urlsync.MemoryLocation) {
	if a.jsonOutput() {
		return
	}
	fmt.Fprintf(a.out, "\nlink: %s\n", a.link(view, loc))
}

func (a *app) printStats(w io.Writer) {
	if a.metrics == nil {
		return
	}
	s := a.metrics.Snapshot()
	fmt.Fprintf(w, "requests: %d client, %d client errors, %d mock, %d mock misses\n",
		s.ClientRequestsTotal, s.ClientErrorsTotal, s.MockRequestsTotal, s.MockRouteMisses)
}

// queryOf accepts a full dashboard URL or a bare query string and returns the query.
func queryOf(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		return raw[i+1:]
	}
	if strings.Contains(raw, "://") || strings.HasPrefix(raw, "/") {
		return ""
	}
	return raw
}

// viewError combines the store's user-facing message with the underlying error.
func viewError(message string, err error) error {
	if err == nil {
		return nil
	}
	if message == "" || appErrors.FromError(err).Message == message {
		return err
	}
	return fmt.Errorf("%s: %w", message, err)
}

// exportsStorage opens the directory exported files are written to.
func (a *app) exportsStorage() (*storage.LocalStorage, error) {
	return storage.NewLocalStorage(a.cfg.Exports.Dir)
}
