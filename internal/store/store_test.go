package store

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-attendance-dashboard/internal/client"
	"github.com/noah-isme/sma-attendance-dashboard/internal/mock"
	"github.com/noah-isme/sma-attendance-dashboard/internal/models"
	"github.com/noah-isme/sma-attendance-dashboard/internal/repository"
	"github.com/noah-isme/sma-attendance-dashboard/internal/urlsync"
	appErrors "github.com/noah-isme/sma-attendance-dashboard/pkg/errors"
)

func newAPI(t *testing.T) *client.Client {
	t.Helper()
	db := repository.NewMockDatabase(repository.GeneratorConfig{
		Seed:     3,
		Students: 25,
		Days:     3,
		Now:      func() time.Time { return time.Date(2025, time.March, 7, 8, 0, 0, 0, time.UTC) },
	}, nil)
	tr := mock.NewTransport(db, mock.Options{}, nil)
	return client.New("http://localhost:8080/api/v1", &http.Client{Transport: tr})
}

type fakeStudents struct {
	StudentsAPI
	calls int
	list  func(context.Context, models.StudentsQuery) (models.StudentListResponse, error)
	err   error
}

func (f *fakeStudents) ListStudents(ctx context.Context, q models.StudentsQuery) (models.StudentListResponse, error) {
	f.calls++
	if f.list != nil {
		return f.list(ctx, q)
	}
	return models.StudentListResponse{Page: q.Page, PageSize: q.PageSize}, nil
}

func (f *fakeStudents) CreateStudent(_ context.Context, in models.StudentCreate) (models.Student, error) {
	f.calls++
	if f.err != nil {
		return models.Student{}, f.err
	}
	return models.Student{StudentID: in.StudentID, Name: in.Name, Class: in.Class}, nil
}

func TestStudentsStoreCreateReloadsFirstPage(t *testing.T) {
	s := NewStudentsStore(newAPI(t), nil, nil)
	ctx := context.Background()

	page := 2
	size := 10
	require.NoError(t, s.FetchList(ctx, urlsync.StudentsPatch{Page: &page, PageSize: &size}))
	snap := s.Snapshot()
	require.NotNil(t, snap.List)
	assert.Equal(t, 25, snap.List.Total)
	assert.Equal(t, 2, snap.Query.Page)

	created, err := s.Create(ctx, models.StudentCreate{StudentID: "S1", Name: "Ayu", Class: "X-1"})
	require.NoError(t, err)
	assert.Equal(t, "S1", created.StudentID)

	snap = s.Snapshot()
	assert.Equal(t, 1, snap.Query.Page)
	assert.Equal(t, 10, snap.Query.PageSize)
	assert.Equal(t, 26, snap.List.Total)
	assert.False(t, snap.Saving)
	assert.Empty(t, snap.Error)
}

func TestStudentsStoreUpdateAndRemove(t *testing.T) {
	s := NewStudentsStore(newAPI(t), nil, nil)
	ctx := context.Background()
	id := repository.StudentID(0)

	name := "Renamed"
	updated, err := s.Update(ctx, id, models.StudentUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	require.NotNil(t, s.Snapshot().Selected)
	assert.Equal(t, name, s.Snapshot().Selected.Name)

	require.NoError(t, s.Remove(ctx, id))
	assert.Equal(t, 24, s.Snapshot().List.Total)

	err = s.FetchOne(ctx, id)
	require.Error(t, err)
	assert.Equal(t, "学生不存在", s.Snapshot().Error)

	s.ClearError()
	assert.Empty(t, s.Snapshot().Error)
}

func TestStudentsStoreValidationBlocksCall(t *testing.T) {
	api := &fakeStudents{}
	s := NewStudentsStore(api, nil, nil)

	_, err := s.Create(context.Background(), models.StudentCreate{Name: "No ID"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Zero(t, api.calls)
	assert.Equal(t, "invalid student payload", s.Snapshot().Error)
}

func TestStudentsStoreRecordsErrors(t *testing.T) {
	api := &fakeStudents{err: appErrors.New(http.StatusConflict, "学号已存在")}
	s := NewStudentsStore(api, nil, nil)

	_, err := s.Create(context.Background(), models.StudentCreate{StudentID: "S1", Name: "A", Class: "X-1"})
	require.Error(t, err)
	assert.Equal(t, "学号已存在", s.Snapshot().Error)
	assert.Equal(t, 1, api.calls, "no reload after a failed create")

	api.err = errors.New("boom")
	_, err = s.Create(context.Background(), models.StudentCreate{StudentID: "S1", Name: "A", Class: "X-1"})
	require.Error(t, err)
	assert.Equal(t, "创建学生失败", s.Snapshot().Error)
}

func TestStudentsStoreDiscardsStaleResponse(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	api := &fakeStudents{list: func(_ context.Context, q models.StudentsQuery) (models.StudentListResponse, error) {
		if q.Page == 1 {
			close(started)
			<-release
			return models.StudentListResponse{Page: 1}, errors.New("late failure")
		}
		return models.StudentListResponse{Page: q.Page}, nil
	}}
	s := NewStudentsStore(api, nil, nil)
	ctx := context.Background()

	first := make(chan error, 1)
	go func() {
		first <- s.Fetch(ctx, models.DefaultStudentsQuery())
	}()
	<-started

	q := models.DefaultStudentsQuery()
	q.Page = 2
	require.NoError(t, s.Fetch(ctx, q))

	close(release)
	require.Error(t, <-first)

	snap := s.Snapshot()
	require.NotNil(t, snap.List)
	assert.Equal(t, 2, snap.List.Page)
	assert.Equal(t, 2, snap.Query.Page)
	assert.Empty(t, snap.Error)
	assert.False(t, snap.LoadingList)
}

func TestAttendancesStoreBatchReloadsBatchDate(t *testing.T) {
	s := NewAttendancesStore(newAPI(t), nil, nil)
	ctx := context.Background()

	page := 3
	require.NoError(t, s.FetchList(ctx, urlsync.AttendancesPatch{Page: &page}))

	result, err := s.BatchCreate(ctx, models.AttendanceBatchCreate{
		Date: "02-30",
		Records: []models.AttendanceBatchRecord{
			{StudentID: repository.StudentID(0), Status: models.StatusPresent},
			{StudentID: repository.StudentID(1), Status: models.StatusLate},
			{StudentID: "nobody", Status: models.StatusAbsent},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.CreatedCount)

	snap := s.Snapshot()
	assert.Equal(t, 1, snap.Query.Page)
	assert.Equal(t, "02-30", snap.Query.Date)
	assert.Equal(t, 2, snap.List.Total)
}

func TestAttendancesStoreMutations(t *testing.T) {
	s := NewAttendancesStore(newAPI(t), nil, nil)
	ctx := context.Background()

	_, err := s.Create(ctx, models.AttendanceCreate{StudentID: repository.StudentID(0), Date: "2025-03-01", Status: models.StatusPresent})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	created, err := s.Create(ctx, models.AttendanceCreate{StudentID: repository.StudentID(0), Date: "03-08", Status: models.StatusPresent})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Snapshot().Query.Page)

	status := models.StatusAbsent
	updated, err := s.Update(ctx, created.ID, models.AttendanceUpdate{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.StatusAbsent, updated.Status)

	require.NoError(t, s.Remove(ctx, created.ID))
	require.Error(t, s.FetchOne(ctx, created.ID))
	assert.Equal(t, "考勤记录不存在", s.Snapshot().Error)
}

func TestClassesStoreRestore(t *testing.T) {
	s := NewClassesStore(newAPI(t), nil)
	ctx := context.Background()

	require.NoError(t, s.FetchClasses(ctx))
	snap := s.Snapshot()
	require.Len(t, snap.Classes, len(repository.ClassNames))

	existing := repository.ClassNames[0]
	assert.Equal(t, existing, s.Restore(existing))
	assert.Equal(t, existing, s.Snapshot().SelectedClass)

	assert.Empty(t, s.Restore("Kelas Hilang"))
	assert.Empty(t, s.Snapshot().SelectedClass)

	require.NoError(t, s.FetchClassStudents(ctx, existing))
	snap = s.Snapshot()
	assert.Equal(t, existing, snap.SelectedClass)
	require.NotNil(t, snap.ClassStudents)
	assert.Len(t, snap.ClassStudents.Students, snap.Classes[0].StudentCount)
}

func TestReportsStoreHydratesActiveTab(t *testing.T) {
	s := NewReportsStore(newAPI(t), urlsync.ReportsState{}, nil)
	loc := urlsync.NewMemoryLocation("tab=summary&summary_start_date=03-05&summary_end_date=03-07")
	syncer := urlsync.NewSynchronizer[urlsync.ReportsState](urlsync.ReportsCodec{}, loc, s)

	require.NoError(t, syncer.Hydrate(context.Background()))

	snap := s.Snapshot()
	assert.Equal(t, models.TabSummary, snap.State.Tab)
	require.NotNil(t, snap.Summary)
	assert.Len(t, snap.Summary.Summary, 25)
	assert.Nil(t, snap.Daily)
	assert.False(t, snap.Loading)

	assert.False(t, syncer.SyncToURL())

	s.SetTab(models.TabLeave)
	s.SetTab("bogus")
	assert.True(t, syncer.SyncToURL())
	assert.True(t, strings.HasPrefix(loc.Query(), "tab=leave"))
}

func TestReportsStoreFetchPanels(t *testing.T) {
	s := NewReportsStore(newAPI(t), urlsync.ReportsState{Tab: models.TabDaily}, nil)
	ctx := context.Background()

	require.NoError(t, s.FetchDaily(ctx, models.DailyReportQuery{Date: "03-07"}))
	require.NoError(t, s.FetchDetails(ctx, models.DetailsReportQuery{StartDate: "03-05", EndDate: "03-07"}))
	require.NoError(t, s.FetchAbnormal(ctx, models.AbnormalReportQuery{StartDate: "03-05", EndDate: "03-07"}))
	require.NoError(t, s.FetchLeave(ctx, models.LeaveReportQuery{StartDate: "03-05", EndDate: "03-07"}))

	snap := s.Snapshot()
	assert.Equal(t, 25, snap.Daily.Summary.TotalStudents)
	assert.Len(t, snap.Details.Records, 25)
	assert.Equal(t, "03-07", snap.State.Daily.Date)
	assert.Equal(t, "03-05", snap.State.Leave.StartDate)
	assert.Equal(t, snap.Abnormal.Statistics.TotalAbnormal, len(snap.Abnormal.AbnormalRecords))
	assert.Equal(t, models.TabDaily, snap.State.Tab)
}

type failingData struct{ DataAPI }

func (failingData) Import(context.Context, models.ImportType, string, io.Reader) (models.ImportResult, error) {
	return models.ImportResult{}, errors.New("socket closed")
}

func TestDataStore(t *testing.T) {
	s := NewDataStore(newAPI(t), nil)
	ctx := context.Background()

	content, err := s.Export(ctx, models.ExportAttendances, models.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, models.FormatCSV, content.Format)
	assert.False(t, s.Snapshot().Exporting)

	result, err := s.Import(ctx, models.ImportStudents, "s.json", strings.NewReader(`[{"student_id":"J1","name":"Joko","class":"X-1"}]`))
	require.NoError(t, err)
	assert.Equal(t, 1, result.ImportedCount)
	require.NotNil(t, s.Snapshot().ImportResult)

	s.Clear()
	assert.Nil(t, s.Snapshot().ImportResult)

	failing := NewDataStore(failingData{}, nil)
	_, err = failing.Import(ctx, models.ImportStudents, "s.csv", strings.NewReader(""))
	require.Error(t, err)
	assert.Equal(t, "导入失败", failing.Snapshot().Error)
}
