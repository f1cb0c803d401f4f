package store

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-attendance-dashboard/internal/models"
	"github.com/noah-isme/sma-attendance-dashboard/internal/urlsync"
)

// StudentsAPI is the slice of the REST client used by StudentsStore.
type StudentsAPI interface {
	ListStudents(ctx context.Context, q models.StudentsQuery) (models.StudentListResponse, error)
	GetStudent(ctx context.Context, studentID string) (models.Student, error)
	CreateStudent(ctx context.Context, in models.StudentCreate) (models.Student, error)
	UpdateStudent(ctx context.Context, studentID string, in models.StudentUpdate) (models.Student, error)
	DeleteStudent(ctx context.Context, studentID string) error
}

// StudentsSnapshot is the observable state of StudentsStore.
type StudentsSnapshot = ListSnapshot[models.StudentsQuery, models.Student]

// StudentsStore is the remote data store of the students view.
type StudentsStore struct {
	api       StudentsAPI
	validator *validator.Validate
	logger    *zap.Logger
	state     *listStore[models.StudentsQuery, models.Student]
}

// NewStudentsStore constructs the store with the default query.
func NewStudentsStore(api StudentsAPI, validate *validator.Validate, logger *zap.Logger) *StudentsStore {
	logger = nopIfNil(logger)
	return &StudentsStore{
		api:       api,
		validator: newValidator(validate),
		logger:    logger,
		state:     newListStore[models.StudentsQuery, models.Student](models.DefaultStudentsQuery(), logger),
	}
}

// Query returns the current query.
func (s *StudentsStore) Query() models.StudentsQuery {
	return s.state.currentQuery()
}

// SetQuery overlays patch on the current query without fetching.
func (s *StudentsStore) SetQuery(patch urlsync.StudentsPatch) {
	s.state.setQuery(patch.Apply(s.Query()))
}

// Snapshot returns a copy of the store state.
func (s *StudentsStore) Snapshot() StudentsSnapshot {
	return s.state.snapshot()
}

// ClearError resets the error state.
func (s *StudentsStore) ClearError() {
	s.state.clearError()
}

// Fetch replaces the query with q and loads the list.
func (s *StudentsStore) Fetch(ctx context.Context, q models.StudentsQuery) error {
	return s.state.fetchList(ctx, q, s.api.ListStudents, "加载学生列表失败")
}

// FetchList overlays patch on the current query and loads the list.
func (s *StudentsStore) FetchList(ctx context.Context, patch urlsync.StudentsPatch) error {
	return s.Fetch(ctx, patch.Apply(s.Query()))
}

// FetchOne loads a single student into the selection.
func (s *StudentsStore) FetchOne(ctx context.Context, studentID string) error {
	return s.state.fetchOne(ctx, func(ctx context.Context) (models.Student, error) {
		return s.api.GetStudent(ctx, studentID)
	}, "加载学生信息失败")
}

// Create adds a student and reloads the first page.
func (s *StudentsStore) Create(ctx context.Context, in models.StudentCreate) (models.Student, error) {
	if err := validate(s.validator, in, "invalid student payload"); err != nil {
		return models.Student{}, s.state.fail(err, "创建学生失败")
	}

	var created models.Student
	err := s.state.save(ctx, func(ctx context.Context) (*models.Student, error) {
		var err error
		created, err = s.api.CreateStudent(ctx, in)
		return nil, err
	}, "创建学生失败")
	if err != nil {
		return models.Student{}, err
	}

	page := models.DefaultPage
	s.refetch(ctx, urlsync.StudentsPatch{Page: &page})
	return created, nil
}

// Update changes a student, selects the result and reloads the current query.
func (s *StudentsStore) Update(ctx context.Context, studentID string, in models.StudentUpdate) (models.Student, error) {
	if err := validate(s.validator, in, "invalid student payload"); err != nil {
		return models.Student{}, s.state.fail(err, "更新学生失败")
	}

	var updated models.Student
	err := s.state.save(ctx, func(ctx context.Context) (*models.Student, error) {
		var err error
		updated, err = s.api.UpdateStudent(ctx, studentID, in)
		if err != nil {
			return nil, err
		}
		return &updated, nil
	}, "更新学生失败")
	if err != nil {
		return models.Student{}, err
	}

	s.refetch(ctx, urlsync.StudentsPatch{})
	return updated, nil
}

// Remove deletes a student and reloads the current query.
func (s *StudentsStore) Remove(ctx context.Context, studentID string) error {
	err := s.state.save(ctx, func(ctx context.Context) (*models.Student, error) {
		return nil, s.api.DeleteStudent(ctx, studentID)
	}, "删除学生失败")
	if err != nil {
		return err
	}

	s.refetch(ctx, urlsync.StudentsPatch{})
	return nil
}

// refetch reloads after a successful mutation. Its failure lands in error state only.
func (s *StudentsStore) refetch(ctx context.Context, patch urlsync.StudentsPatch) {
	if err := s.FetchList(ctx, patch); err != nil {
		s.logger.Warn("reload students after mutation", zap.Error(err))
	}
}
