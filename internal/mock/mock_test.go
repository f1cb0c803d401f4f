package mock

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-attendance-dashboard/internal/models"
	"github.com/noah-isme/sma-attendance-dashboard/internal/repository"
	"github.com/noah-isme/sma-attendance-dashboard/pkg/export"
	"github.com/noah-isme/sma-attendance-dashboard/pkg/response"
)

const baseURL = "http://localhost:8080/api/v1"

func newTestDB() *repository.MockDatabase {
	return repository.NewMockDatabase(repository.GeneratorConfig{
		Seed:     7,
		Students: 10,
		Days:     5,
		Now:      func() time.Time { return time.Date(2025, time.March, 7, 8, 0, 0, 0, time.UTC) },
	}, nil)
}

func newTestClient(t *testing.T) (*http.Client, *Server) {
	t.Helper()
	tr := NewTransport(newTestDB(), Options{Seed: 1}, roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("unexpected network call")
	}))
	return &http.Client{Transport: tr}, tr.Server()
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func do(t *testing.T, c *http.Client, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, baseURL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) response.TypedEnvelope[T] {
	t.Helper()
	var env response.TypedEnvelope[T]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func TestStudentCRUDScenario(t *testing.T) {
	c, srv := newTestClient(t)

	resp := do(t, c, http.MethodPost, "/students", map[string]string{"student_id": "T1", "name": "A", "class": "C1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[models.Student](t, resp)
	assert.Equal(t, 201, created.Code)
	assert.Equal(t, models.Student{StudentID: "T1", Name: "A", Class: "C1"}, created.Data)

	resp = do(t, c, http.MethodPost, "/attendances", map[string]string{"student_id": "T1", "date": "03-07", "status": "late"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, c, http.MethodPost, "/students", map[string]string{"student_id": "T1", "name": "B", "class": "C1"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, 409, decode[any](t, resp).Code)

	resp = do(t, c, http.MethodDelete, "/students/T1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Empty(t, raw)

	resp = do(t, c, http.MethodGet, "/students/T1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	srv.Database().Atomic(func(tx *repository.Tx) {
		for _, a := range tx.Attendances() {
			assert.NotEqual(t, "T1", a.StudentID)
		}
	})
}

func TestCreateStudentValidation(t *testing.T) {
	c, _ := newTestClient(t)

	resp := do(t, c, http.MethodPost, "/students", map[string]string{"student_id": "T2"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid student payload", decode[any](t, resp).Message)
}

func TestUpdateStudent(t *testing.T) {
	c, _ := newTestClient(t)

	resp := do(t, c, http.MethodPut, "/students/2024001", map[string]string{"class": "C9"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "C9", decode[models.Student](t, resp).Data.Class)

	resp = do(t, c, http.MethodPut, "/students/missing", map[string]string{"class": "C9"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListStudentsFilterSortPaginate(t *testing.T) {
	c, _ := newTestClient(t)

	resp := do(t, c, http.MethodGet, "/students?sort_by=student_id&order=desc&page=2&page_size=3", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[models.StudentListResponse](t, resp).Data
	assert.Equal(t, 10, list.Total)
	assert.Equal(t, 2, list.Page)
	assert.Equal(t, 3, list.PageSize)
	require.Len(t, list.Items, 3)
	assert.Equal(t, "2024007", list.Items[0].StudentID)

	resp = do(t, c, http.MethodGet, "/students?keyword=2024010", nil)
	list = decode[models.StudentListResponse](t, resp).Data
	assert.Equal(t, 1, list.Total)

	resp = do(t, c, http.MethodGet, "/students?page=9", nil)
	list = decode[models.StudentListResponse](t, resp).Data
	assert.Equal(t, 10, list.Total)
	assert.Empty(t, list.Items)

	resp = do(t, c, http.MethodGet, "/students?page=4611686018427387905&page_size=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list = decode[models.StudentListResponse](t, resp).Data
	assert.Equal(t, 10, list.Total)
	assert.Empty(t, list.Items)

	resp = do(t, c, http.MethodGet, "/students?page=1&page_size=9223372036854775807", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list = decode[models.StudentListResponse](t, resp).Data
	assert.Len(t, list.Items, 10)
}

func TestListAttendancesFilterByStatusTotal(t *testing.T) {
	c, srv := newTestClient(t)

	want := 0
	srv.Database().Atomic(func(tx *repository.Tx) {
		for _, a := range tx.Attendances() {
			if a.Status == models.StatusPresent {
				want++
			}
		}
	})

	resp := do(t, c, http.MethodGet, "/attendances?status=present&page_size=5", nil)
	list := decode[models.AttendanceListResponse](t, resp).Data
	assert.Equal(t, want, list.Total)
	assert.LessOrEqual(t, len(list.Items), 5)
	for _, a := range list.Items {
		assert.Equal(t, models.StatusPresent, a.Status)
	}
}

func TestBatchCreateSkipsUnknownStudents(t *testing.T) {
	c, _ := newTestClient(t)

	resp := do(t, c, http.MethodPost, "/attendances/batch", models.AttendanceBatchCreate{
		Date: "12-31",
		Records: []models.AttendanceBatchRecord{
			{StudentID: "2024001", Status: models.StatusPresent},
			{StudentID: "nobody", Status: models.StatusPresent},
			{StudentID: "2024002", Status: models.StatusLate},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 2, decode[models.AttendanceBatchResult](t, resp).Data.CreatedCount)

	resp = do(t, c, http.MethodGet, "/attendances?date=12-31", nil)
	assert.Equal(t, 2, decode[models.AttendanceListResponse](t, resp).Data.Total)
}

func TestAttendanceByID(t *testing.T) {
	c, _ := newTestClient(t)

	resp := do(t, c, http.MethodGet, "/attendances/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, decode[models.Attendance](t, resp).Data.ID)

	resp = do(t, c, http.MethodPut, "/attendances/1", map[string]string{"status": "absent", "remark": "no show"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[models.Attendance](t, resp).Data
	assert.Equal(t, "X", updated.StatusSymbol)
	assert.Equal(t, "no show", updated.Remark)

	resp = do(t, c, http.MethodDelete, "/attendances/1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, c, http.MethodDelete, "/attendances/1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, c, http.MethodPost, "/attendances", map[string]string{"student_id": "ghost", "date": "03-07", "status": "late"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDailyReportAggregation(t *testing.T) {
	c, _ := newTestClient(t)

	records := make([]models.AttendanceBatchRecord, 0, 10)
	statuses := []models.AttendanceStatus{
		models.StatusPresent, models.StatusPresent, models.StatusPresent, models.StatusPresent,
		models.StatusPresent, models.StatusPresent, models.StatusPresent,
		models.StatusLate, models.StatusAbsent, models.StatusSickLeave,
	}
	for i, s := range statuses {
		records = append(records, models.AttendanceBatchRecord{StudentID: repository.StudentID(i), Status: s})
	}
	resp := do(t, c, http.MethodPost, "/attendances/batch", models.AttendanceBatchCreate{Date: "12-31", Records: records})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, c, http.MethodGet, "/reports/daily?date=12-31", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := decode[models.DailyReport](t, resp).Data

	assert.Equal(t, "12-31", report.Date)
	assert.Equal(t, models.DailyReportSummary{
		TotalStudents:  10,
		Present:        7,
		Absent:         1,
		Late:           1,
		SickLeave:      1,
		AttendanceRate: "70.00%",
	}, report.Summary)
	assert.Len(t, report.Details, 10)

	resp = do(t, c, http.MethodGet, "/reports/daily?date=01-01", nil)
	assert.Equal(t, "0.00%", decode[models.DailyReport](t, resp).Data.Summary.AttendanceRate)
}

func TestPeriodReports(t *testing.T) {
	c, _ := newTestClient(t)

	resp := do(t, c, http.MethodGet, "/reports/summary?start_date=03-03&end_date=03-07", nil)
	summary := decode[models.SummaryReport](t, resp).Data
	require.Len(t, summary.Summary, 10)
	for _, row := range summary.Summary {
		assert.Equal(t, 5, row.TotalDays)
		assert.Equal(t, row.TotalDays, row.PresentCount+row.AbsentCount+row.LateCount+row.EarlyLeaveCount+row.PersonalLeaveCount+row.SickLeaveCount)
	}

	resp = do(t, c, http.MethodGet, "/reports/details?start_date=03-06&end_date=03-07&student_id=2024003", nil)
	details := decode[models.AttendanceDetailsReport](t, resp).Data
	require.Len(t, details.Records, 1)
	assert.Len(t, details.Records[0].AttendanceDetails, 2)

	resp = do(t, c, http.MethodGet, "/reports/abnormal?start_date=03-01&end_date=03-31&type=late", nil)
	abnormal := decode[models.AbnormalReport](t, resp).Data
	assert.Equal(t, abnormal.Statistics.LateCount, abnormal.Statistics.TotalAbnormal)
	assert.Zero(t, abnormal.Statistics.AbsentCount)
	for _, row := range abnormal.AbnormalRecords {
		assert.Equal(t, models.StatusLate, row.Status)
	}

	resp = do(t, c, http.MethodGet, "/reports/leave?start_date=03-01&end_date=03-31", nil)
	leave := decode[models.LeaveReport](t, resp).Data
	assert.Equal(t, leave.Statistics.PersonalLeaveCount+leave.Statistics.SickLeaveCount, leave.Statistics.TotalLeave)
	assert.Equal(t, "03-01", leave.Period.StartDate)
}

func TestClasses(t *testing.T) {
	c, _ := newTestClient(t)

	resp := do(t, c, http.MethodGet, "/classes", nil)
	classes := decode[[]models.ClassInfo](t, resp).Data
	require.Len(t, classes, 5)
	assert.Equal(t, 2, classes[0].StudentCount)

	resp = do(t, c, http.MethodGet, "/classes/"+url.PathEscape(repository.ClassNames[2])+"/students", nil)
	roster := decode[models.ClassStudentsResponse](t, resp).Data
	assert.Equal(t, repository.ClassNames[2], roster.Class)
	assert.Len(t, roster.Students, 2)
}

func TestRoutingMisses(t *testing.T) {
	c, _ := newTestClient(t)

	resp := do(t, c, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	env := decode[any](t, resp)
	assert.Equal(t, 404, env.Code)
	assert.Equal(t, "Not Found", env.Message)

	resp = do(t, c, http.MethodPatch, "/students", nil)
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
	assert.Equal(t, "Not Implemented", decode[any](t, resp).Message)

	resp = do(t, c, http.MethodGet, "/attendances/abc", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandlerPanicBecomes500(t *testing.T) {
	c, srv := newTestClient(t)
	srv.Router().Handle(http.MethodGet, "/boom", func(Request) Result { panic("kaboom") })

	resp := do(t, c, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Internal Server Error", decode[any](t, resp).Message)
}

func TestExport(t *testing.T) {
	c, _ := newTestClient(t)

	resp := do(t, c, http.MethodGet, "/data/export?type=students&format=csv", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/csv"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), export.BOM+"student_id,name,class\n"))
	assert.Equal(t, 11, strings.Count(string(body), "\n"))

	resp = do(t, c, http.MethodGet, "/data/export?type=all&format=csv", nil)
	assert.Equal(t, ContentTypeJSON, resp.Header.Get("Content-Type"))
	var bundle models.ExportBundle
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&bundle))
	assert.Len(t, bundle.Students, 10)
	assert.Len(t, bundle.Attendances, 50)

	resp = do(t, c, http.MethodGet, "/data/export?type=attendances&format=pdf", nil)
	assert.Equal(t, ContentTypePDF, resp.Header.Get("Content-Type"))
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestImport(t *testing.T) {
	c, srv := newTestClient(t)

	csvBody := "student_id,name,class\nN1,New One,C1\n2024001,Dup,C1\n,Missing,C1\nN2,New Two,C2\n"
	resp := postImport(t, c, "students", "students.csv", csvBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decode[models.ImportResult](t, resp).Data
	assert.Equal(t, 2, result.ImportedCount)
	assert.Equal(t, 2, result.SkippedCount)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 3, result.Errors[0].Line)
	assert.Equal(t, "学号已存在", result.Errors[0].Message)
	assert.Equal(t, 4, result.Errors[1].Line)

	jsonBody := `[{"student_id":"N1","date":"03-08","status":"late"},{"student_id":"N1","date":"bad","status":"late"}]`
	resp = postImport(t, c, "attendances", "rows.json", jsonBody)
	result = decode[models.ImportResult](t, resp).Data
	assert.Equal(t, 1, result.ImportedCount)
	assert.Equal(t, 1, result.SkippedCount)
	assert.Equal(t, 2, result.Errors[0].Line)

	srv.Database().Atomic(func(tx *repository.Tx) {
		_, ok := tx.Student("N2")
		assert.True(t, ok)
	})

	resp = postImport(t, c, "teachers", "x.csv", csvBody)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func postImport(t *testing.T, c *http.Client, kind, filename, content string) *http.Response {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	require.NoError(t, w.WriteField("type", kind))
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, baseURL+"/data/import", buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := c.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestTransportDelegatesOtherHosts(t *testing.T) {
	called := false
	tr := NewTransport(newTestDB(), Options{}, roundTripFunc(func(r *http.Request) (*http.Response, error) {
		called = true
		return &http.Response{StatusCode: http.StatusTeapot, Body: http.NoBody, Request: r}, nil
	}))

	req := httptest.NewRequest(http.MethodGet, "https://example.com/api/v1/students", nil)
	req.RequestURI = ""
	resp, err := tr.RoundTrip(req)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)

	rel, err := http.NewRequest(http.MethodGet, "/api/v1/classes", nil)
	require.NoError(t, err)
	assert.True(t, tr.Intercepts(rel))
}

func TestLatencyHonoursCancellation(t *testing.T) {
	tr := NewTransport(newTestDB(), Options{LatencyMin: time.Second, LatencyMax: 2 * time.Second}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/classes", nil)
	require.NoError(t, err)

	_, err = tr.RoundTrip(req)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestServeHTTP(t *testing.T) {
	srv := NewServer(newTestDB(), Options{})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/students/2024002", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ContentTypeJSON, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"student_id":"2024002"`)
}
