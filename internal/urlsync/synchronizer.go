package urlsync

import (
	"context"
	"net/url"
	"sync"

	"go.uber.org/zap"
)

// State is the synchronizer's hydration state.
type State int

const (
	Uninitialized State = iota
	Hydrating
	Synced
)

func (s State) String() string {
	switch s {
	case Hydrating:
		return "hydrating"
	case Synced:
		return "synced"
	default:
		return "uninitialized"
	}
}

// Location is the address bar: the current raw query string and an in-place replace.
type Location interface {
	Query() string
	Replace(rawQuery string)
}

// Target is the store whose query mirrors the URL.
type Target[Q any] interface {
	Query() Q
	Fetch(ctx context.Context, q Q) error
}

// Option customises a Synchronizer.
type Option[Q comparable] func(*Synchronizer[Q])

// WithLogger sets the logger.
func WithLogger[Q comparable](l *zap.Logger) Option[Q] {
	return func(s *Synchronizer[Q]) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithHydrateBase replaces the hard defaults used by the first hydration only.
// The reports page uses it to fall back to persisted preferences.
func WithHydrateBase[Q comparable](resolve func(url.Values) Q) Option[Q] {
	return func(s *Synchronizer[Q]) {
		if resolve != nil {
			s.hydrate = resolve
		}
	}
}

// Synchronizer runs the two-way store/URL protocol for one view.
type Synchronizer[Q comparable] struct {
	mu       sync.Mutex
	state    State
	codec    Codec[Q]
	location Location
	target   Target[Q]
	hydrate  func(url.Values) Q
	logger   *zap.Logger
}

// NewSynchronizer wires a codec, a location and a target.
func NewSynchronizer[Q comparable](codec Codec[Q], location Location, target Target[Q], opts ...Option[Q]) *Synchronizer[Q] {
	s := &Synchronizer[Q]{
		codec:    codec,
		location: location,
		target:   target,
		hydrate:  codec.Resolve,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state.
func (s *Synchronizer[Q]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Hydrate seeds the target from the location. Only the first call does anything; the
// synchronizer is Synced afterwards even when the fetch fails, and the error is returned.
func (s *Synchronizer[Q]) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	if s.state != Uninitialized {
		s.mu.Unlock()
		return nil
	}
	s.state = Hydrating
	s.mu.Unlock()

	q := s.hydrate(Parse(s.location.Query()))
	err := s.target.Fetch(ctx, q)

	s.mu.Lock()
	s.state = Synced
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("hydration fetch failed", zap.Error(err))
	}
	return err
}

// SyncToURL writes the target's query into the location when it differs in content.
// It never runs before hydration completes and reports whether the location changed.
func (s *Synchronizer[Q]) SyncToURL() bool {
	if s.State() != Synced {
		return false
	}

	encoded := s.codec.Encode(s.target.Query())
	if Equivalent(encoded, s.location.Query()) {
		return false
	}

	s.location.Replace(encoded)
	s.logger.Debug("location replaced", zap.String("query", encoded))
	return true
}

// SyncFromURL fetches with the location's query when it differs from the target's
// current query. The comparison reads the target at call time.
func (s *Synchronizer[Q]) SyncFromURL(ctx context.Context) (bool, error) {
	if s.State() != Synced {
		return false, nil
	}

	next := s.codec.Resolve(Parse(s.location.Query()))
	if next == s.codec.Canonical(s.target.Query()) {
		return false, nil
	}

	s.logger.Debug("location changed", zap.String("query", s.location.Query()))
	return true, s.target.Fetch(ctx, next)
}
