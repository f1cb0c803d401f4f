// Package store holds the dashboard's remote data stores. Each store keeps its query,
// the last fetched result and loading/error flags behind a mutex, and talks to the REST
// API through a narrow interface satisfied by *client.Client.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-attendance-dashboard/internal/models"
	appErrors "github.com/noah-isme/sma-attendance-dashboard/pkg/errors"
)

// ListSnapshot is a consistent copy of a list store's state.
type ListSnapshot[Q any, T any] struct {
	Query           Q
	List            *models.ListResponse[T]
	Selected        *T
	LoadingList     bool
	LoadingSelected bool
	Saving          bool
	Error           string
}

// listStore is the state shared by the students and attendances stores.
// Every list fetch is stamped with a sequence number; a response that is not the
// newest issued is dropped so a slow earlier request cannot overwrite a later one.
type listStore[Q any, T any] struct {
	mu              sync.RWMutex
	query           Q
	list            *models.ListResponse[T]
	selected        *T
	loadingList     bool
	loadingSelected bool
	saving          bool
	err             string
	seq             uint64
	logger          *zap.Logger
}

func newListStore[Q any, T any](query Q, logger *zap.Logger) *listStore[Q, T] {
	return &listStore[Q, T]{query: query, logger: logger}
}

func (s *listStore[Q, T]) currentQuery() Q {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

func (s *listStore[Q, T]) setQuery(q Q) {
	s.mu.Lock()
	s.query = q
	s.mu.Unlock()
}

func (s *listStore[Q, T]) snapshot() ListSnapshot[Q, T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ListSnapshot[Q, T]{
		Query:           s.query,
		List:            s.list,
		Selected:        s.selected,
		LoadingList:     s.loadingList,
		LoadingSelected: s.loadingSelected,
		Saving:          s.saving,
		Error:           s.err,
	}
}

func (s *listStore[Q, T]) clearError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
}

func (s *listStore[Q, T]) fetchList(ctx context.Context, q Q, call func(context.Context, Q) (models.ListResponse[T], error), fallback string) error {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.query = q
	s.loadingList = true
	s.err = ""
	s.mu.Unlock()

	res, err := call(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		s.logger.Debug("discarding stale list response", zap.Uint64("seq", seq), zap.Uint64("latest", s.seq))
		return err
	}
	s.loadingList = false
	if err != nil {
		s.err = errorMessage(err, fallback)
		return err
	}
	s.list = &res
	return nil
}

func (s *listStore[Q, T]) fetchOne(ctx context.Context, call func(context.Context) (T, error), fallback string) error {
	s.mu.Lock()
	s.loadingSelected = true
	s.err = ""
	s.mu.Unlock()

	item, err := call(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadingSelected = false
	if err != nil {
		s.err = errorMessage(err, fallback)
		return err
	}
	s.selected = &item
	return nil
}

// save runs a mutation with the saving flag raised. A non-nil selected result replaces the selection.
func (s *listStore[Q, T]) save(ctx context.Context, call func(context.Context) (*T, error), fallback string) error {
	s.mu.Lock()
	s.saving = true
	s.err = ""
	s.mu.Unlock()

	item, err := call(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	if err != nil {
		s.err = errorMessage(err, fallback)
		return err
	}
	if item != nil {
		s.selected = item
	}
	return nil
}

func (s *listStore[Q, T]) fail(err error, fallback string) error {
	s.mu.Lock()
	s.err = errorMessage(err, fallback)
	s.mu.Unlock()
	return err
}

// errorMessage is the text recorded in a store's error state.
func errorMessage(err error, fallback string) string {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}

func validate(v *validator.Validate, payload any, message string) error {
	if err := v.Struct(payload); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, message)
	}
	return nil
}

func newValidator(v *validator.Validate) *validator.Validate {
	if v == nil {
		return models.NewValidator()
	}
	models.RegisterValidations(v)
	return v
}

func nopIfNil(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
