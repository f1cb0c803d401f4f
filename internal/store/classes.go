package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-attendance-dashboard/internal/models"
)

// ClassesAPI is the slice of the REST client used by ClassesStore.
type ClassesAPI interface {
	ListClasses(ctx context.Context) ([]models.ClassInfo, error)
	ClassStudents(ctx context.Context, class string) (models.ClassStudentsResponse, error)
}

// ClassesSnapshot is the observable state of ClassesStore.
type ClassesSnapshot struct {
	Classes         []models.ClassInfo
	SelectedClass   string
	ClassStudents   *models.ClassStudentsResponse
	LoadingClasses  bool
	LoadingStudents bool
	Error           string
}

// ClassesStore is the remote data store of the classes view.
type ClassesStore struct {
	api    ClassesAPI
	logger *zap.Logger

	mu              sync.RWMutex
	classes         []models.ClassInfo
	selected        string
	students        *models.ClassStudentsResponse
	loadingClasses  bool
	loadingStudents bool
	err             string
}

// NewClassesStore constructs an empty classes store.
func NewClassesStore(api ClassesAPI, logger *zap.Logger) *ClassesStore {
	return &ClassesStore{api: api, logger: nopIfNil(logger)}
}

// Snapshot returns a copy of the store state.
func (s *ClassesStore) Snapshot() ClassesSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ClassesSnapshot{
		Classes:         append([]models.ClassInfo(nil), s.classes...),
		SelectedClass:   s.selected,
		ClassStudents:   s.students,
		LoadingClasses:  s.loadingClasses,
		LoadingStudents: s.loadingStudents,
		Error:           s.err,
	}
}

// ClearError resets the error state.
func (s *ClassesStore) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
}

// FetchClasses loads the class list.
func (s *ClassesStore) FetchClasses(ctx context.Context) error {
	s.mu.Lock()
	s.loadingClasses = true
	s.err = ""
	s.mu.Unlock()

	classes, err := s.api.ListClasses(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadingClasses = false
	if err != nil {
		s.err = errorMessage(err, "加载班级列表失败")
		return err
	}
	s.classes = classes
	return nil
}

// Select changes the selected class without fetching. An empty name clears the selection.
func (s *ClassesStore) Select(class string) {
	s.mu.Lock()
	s.selected = class
	s.mu.Unlock()
}

// Has reports whether class is in the loaded class list.
func (s *ClassesStore) Has(class string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.classes {
		if c.Name == class {
			return true
		}
	}
	return false
}

// Restore selects a previously saved class if it still exists and clears the selection
// otherwise. It returns the class that ended up selected.
func (s *ClassesStore) Restore(saved string) string {
	if saved == "" || !s.Has(saved) {
		if saved != "" {
			s.logger.Debug("saved class no longer exists", zap.String("class", saved))
		}
		s.Select("")
		return ""
	}
	s.Select(saved)
	return saved
}

// FetchClassStudents selects class and loads its roster.
func (s *ClassesStore) FetchClassStudents(ctx context.Context, class string) error {
	s.mu.Lock()
	s.loadingStudents = true
	s.err = ""
	s.selected = class
	s.mu.Unlock()

	roster, err := s.api.ClassStudents(ctx, class)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadingStudents = false
	if err != nil {
		s.err = errorMessage(err, "加载班级学生失败")
		return err
	}
	s.students = &roster
	return nil
}
