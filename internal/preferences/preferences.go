// Package preferences persists dashboard UI preferences as independent dot-namespaced
// keys holding JSON values. Writes are best-effort: failures are logged and dropped.
package preferences

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-attendance-dashboard/internal/metrics"
)

// Backend stores raw JSON values by key.
type Backend interface {
	Name() string
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store is the typed preference store over a Backend.
type Store struct {
	backend Backend
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// New constructs a preference store.
func New(backend Backend, logger *zap.Logger, m *metrics.Metrics) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{backend: backend, logger: logger, metrics: m}
}

// Backend returns the underlying backend.
func (s *Store) Backend() Backend {
	return s.backend
}

// Pref is a typed preference bound to one key and its initial value.
type Pref[T any] struct {
	store   *Store
	key     string
	initial T
}

// Define binds key to s with the value returned when nothing usable is stored.
func Define[T any](s *Store, key string, initial T) Pref[T] {
	return Pref[T]{store: s, key: key, initial: initial}
}

// Key returns the storage key.
func (p Pref[T]) Key() string {
	return p.key
}

// Get returns the stored value, or the initial value when the key is missing,
// unreadable or does not decode as T.
func (p Pref[T]) Get(ctx context.Context) T {
	raw, ok, err := p.store.backend.Get(ctx, p.key)
	if err != nil {
		p.store.logger.Debug("preference read failed", zap.String("key", p.key), zap.Error(err))
		return p.initial
	}
	if !ok {
		return p.initial
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		p.store.logger.Debug("preference decode failed", zap.String("key", p.key), zap.Error(err))
		return p.initial
	}
	return v
}

// Set stores v. Errors are logged at debug and never returned.
func (p Pref[T]) Set(ctx context.Context, v T) {
	raw, err := json.Marshal(v)
	if err == nil {
		err = p.store.backend.Set(ctx, p.key, raw)
	}
	p.store.metrics.RecordPreferenceWrite(p.store.backend.Name(), err)
	if err != nil {
		p.store.logger.Debug("preference write dropped", zap.String("key", p.key), zap.Error(err))
	}
}

// Clear removes the stored value so Get returns the initial value again.
func (p Pref[T]) Clear(ctx context.Context) {
	if err := p.store.backend.Delete(ctx, p.key); err != nil {
		p.store.logger.Debug("preference delete dropped", zap.String("key", p.key), zap.Error(err))
	}
}
