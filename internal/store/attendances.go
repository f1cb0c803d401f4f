package store

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-attendance-dashboard/internal/models"
	"github.com/noah-isme/sma-attendance-dashboard/internal/urlsync"
)

// AttendancesAPI is the slice of the REST client used by AttendancesStore.
type AttendancesAPI interface {
	ListAttendances(ctx context.Context, q models.AttendancesQuery) (models.AttendanceListResponse, error)
	GetAttendance(ctx context.Context, id int) (models.Attendance, error)
	CreateAttendance(ctx context.Context, in models.AttendanceCreate) (models.Attendance, error)
	BatchCreateAttendances(ctx context.Context, in models.AttendanceBatchCreate) (models.AttendanceBatchResult, error)
	UpdateAttendance(ctx context.Context, id int, in models.AttendanceUpdate) (models.Attendance, error)
	DeleteAttendance(ctx context.Context, id int) error
}

// AttendancesSnapshot is the observable state of AttendancesStore.
type AttendancesSnapshot = ListSnapshot[models.AttendancesQuery, models.Attendance]

// AttendancesStore is the remote data store of the attendances view.
type AttendancesStore struct {
	api       AttendancesAPI
	validator *validator.Validate
	logger    *zap.Logger
	state     *listStore[models.AttendancesQuery, models.Attendance]
}

// NewAttendancesStore constructs the store with the default query.
func NewAttendancesStore(api AttendancesAPI, validate *validator.Validate, logger *zap.Logger) *AttendancesStore {
	logger = nopIfNil(logger)
	return &AttendancesStore{
		api:       api,
		validator: newValidator(validate),
		logger:    logger,
		state:     newListStore[models.AttendancesQuery, models.Attendance](models.DefaultAttendancesQuery(), logger),
	}
}

// Query returns the current query.
func (s *AttendancesStore) Query() models.AttendancesQuery {
	return s.state.currentQuery()
}

// SetQuery overlays patch on the current query without fetching.
func (s *AttendancesStore) SetQuery(patch urlsync.AttendancesPatch) {
	s.state.setQuery(patch.Apply(s.Query()))
}

// Snapshot returns a copy of the store state.
func (s *AttendancesStore) Snapshot() AttendancesSnapshot {
	return s.state.snapshot()
}

// ClearError resets the error state.
func (s *AttendancesStore) ClearError() {
	s.state.clearError()
}

// Fetch replaces the query with q and loads the list.
func (s *AttendancesStore) Fetch(ctx context.Context, q models.AttendancesQuery) error {
	return s.state.fetchList(ctx, q, s.api.ListAttendances, "加载考勤列表失败")
}

// FetchList overlays patch on the current query and loads the list.
func (s *AttendancesStore) FetchList(ctx context.Context, patch urlsync.AttendancesPatch) error {
	return s.Fetch(ctx, patch.Apply(s.Query()))
}

// FetchOne loads a single attendance into the selection.
func (s *AttendancesStore) FetchOne(ctx context.Context, id int) error {
	return s.state.fetchOne(ctx, func(ctx context.Context) (models.Attendance, error) {
		return s.api.GetAttendance(ctx, id)
	}, "加载考勤记录失败")
}

// Create records one attendance and reloads the first page.
func (s *AttendancesStore) Create(ctx context.Context, in models.AttendanceCreate) (models.Attendance, error) {
	if err := validate(s.validator, in, "invalid attendance payload"); err != nil {
		return models.Attendance{}, s.state.fail(err, "创建考勤记录失败")
	}

	var created models.Attendance
	err := s.state.save(ctx, func(ctx context.Context) (*models.Attendance, error) {
		var err error
		created, err = s.api.CreateAttendance(ctx, in)
		return nil, err
	}, "创建考勤记录失败")
	if err != nil {
		return models.Attendance{}, err
	}

	page := models.DefaultPage
	s.refetch(ctx, urlsync.AttendancesPatch{Page: &page})
	return created, nil
}

// BatchCreate records one date for many students and reloads the first page filtered to that date.
func (s *AttendancesStore) BatchCreate(ctx context.Context, in models.AttendanceBatchCreate) (models.AttendanceBatchResult, error) {
	if err := validate(s.validator, in, "invalid attendance batch payload"); err != nil {
		return models.AttendanceBatchResult{}, s.state.fail(err, "批量创建失败")
	}

	var result models.AttendanceBatchResult
	err := s.state.save(ctx, func(ctx context.Context) (*models.Attendance, error) {
		var err error
		result, err = s.api.BatchCreateAttendances(ctx, in)
		return nil, err
	}, "批量创建失败")
	if err != nil {
		return models.AttendanceBatchResult{}, err
	}

	page := models.DefaultPage
	date := in.Date
	s.refetch(ctx, urlsync.AttendancesPatch{Page: &page, Date: &date})
	return result, nil
}

// Update changes an attendance, selects the result and reloads the current query.
func (s *AttendancesStore) Update(ctx context.Context, id int, in models.AttendanceUpdate) (models.Attendance, error) {
	if err := validate(s.validator, in, "invalid attendance payload"); err != nil {
		return models.Attendance{}, s.state.fail(err, "更新考勤记录失败")
	}

	var updated models.Attendance
	err := s.state.save(ctx, func(ctx context.Context) (*models.Attendance, error) {
		var err error
		updated, err = s.api.UpdateAttendance(ctx, id, in)
		if err != nil {
			return nil, err
		}
		return &updated, nil
	}, "更新考勤记录失败")
	if err != nil {
		return models.Attendance{}, err
	}

	s.refetch(ctx, urlsync.AttendancesPatch{})
	return updated, nil
}

// Remove deletes an attendance and reloads the current query.
func (s *AttendancesStore) Remove(ctx context.Context, id int) error {
	err := s.state.save(ctx, func(ctx context.Context) (*models.Attendance, error) {
		return nil, s.api.DeleteAttendance(ctx, id)
	}, "删除考勤记录失败")
	if err != nil {
		return err
	}

	s.refetch(ctx, urlsync.AttendancesPatch{})
	return nil
}

func (s *AttendancesStore) refetch(ctx context.Context, patch urlsync.AttendancesPatch) {
	if err := s.FetchList(ctx, patch); err != nil {
		s.logger.Warn("reload attendances after mutation", zap.Error(err))
	}
}
