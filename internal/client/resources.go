package client

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/noah-isme/sma-attendance-dashboard/internal/models"
	appErrors "github.com/noah-isme/sma-attendance-dashboard/pkg/errors"
)

// ListStudents calls GET /students.
func (c *Client) ListStudents(ctx context.Context, q models.StudentsQuery) (models.StudentListResponse, error) {
	return doJSON[models.StudentListResponse](ctx, c, http.MethodGet, "/students", q.Values(), nil)
}

// CreateStudent calls POST /students.
func (c *Client) CreateStudent(ctx context.Context, in models.StudentCreate) (models.Student, error) {
	return doJSON[models.Student](ctx, c, http.MethodPost, "/students", nil, in)
}

// GetStudent calls GET /students/{id}.
func (c *Client) GetStudent(ctx context.Context, studentID string) (models.Student, error) {
	return doJSON[models.Student](ctx, c, http.MethodGet, "/students/"+url.PathEscape(studentID), nil, nil)
}

// UpdateStudent calls PUT /students/{id}.
func (c *Client) UpdateStudent(ctx context.Context, studentID string, in models.StudentUpdate) (models.Student, error) {
	return doJSON[models.Student](ctx, c, http.MethodPut, "/students/"+url.PathEscape(studentID), nil, in)
}

// DeleteStudent calls DELETE /students/{id}.
func (c *Client) DeleteStudent(ctx context.Context, studentID string) error {
	return doNoContent(ctx, c, http.MethodDelete, "/students/"+url.PathEscape(studentID))
}

// ListAttendances calls GET /attendances.
func (c *Client) ListAttendances(ctx context.Context, q models.AttendancesQuery) (models.AttendanceListResponse, error) {
	return doJSON[models.AttendanceListResponse](ctx, c, http.MethodGet, "/attendances", q.Values(), nil)
}

// CreateAttendance calls POST /attendances.
func (c *Client) CreateAttendance(ctx context.Context, in models.AttendanceCreate) (models.Attendance, error) {
	return doJSON[models.Attendance](ctx, c, http.MethodPost, "/attendances", nil, in)
}

// BatchCreateAttendances calls POST /attendances/batch.
func (c *Client) BatchCreateAttendances(ctx context.Context, in models.AttendanceBatchCreate) (models.AttendanceBatchResult, error) {
	return doJSON[models.AttendanceBatchResult](ctx, c, http.MethodPost, "/attendances/batch", nil, in)
}

// GetAttendance calls GET /attendances/{id}.
func (c *Client) GetAttendance(ctx context.Context, id int) (models.Attendance, error) {
	return doJSON[models.Attendance](ctx, c, http.MethodGet, "/attendances/"+strconv.Itoa(id), nil, nil)
}

// UpdateAttendance calls PUT /attendances/{id}.
func (c *Client) UpdateAttendance(ctx context.Context, id int, in models.AttendanceUpdate) (models.Attendance, error) {
	return doJSON[models.Attendance](ctx, c, http.MethodPut, "/attendances/"+strconv.Itoa(id), nil, in)
}

// DeleteAttendance calls DELETE /attendances/{id}.
func (c *Client) DeleteAttendance(ctx context.Context, id int) error {
	return doNoContent(ctx, c, http.MethodDelete, "/attendances/"+strconv.Itoa(id))
}

// DailyReport calls GET /reports/daily.
func (c *Client) DailyReport(ctx context.Context, q models.DailyReportQuery) (models.DailyReport, error) {
	return doJSON[models.DailyReport](ctx, c, http.MethodGet, "/reports/daily", q.Values(), nil)
}

// DetailsReport calls GET /reports/details.
func (c *Client) DetailsReport(ctx context.Context, q models.DetailsReportQuery) (models.AttendanceDetailsReport, error) {
	return doJSON[models.AttendanceDetailsReport](ctx, c, http.MethodGet, "/reports/details", q.Values(), nil)
}

// SummaryReport calls GET /reports/summary.
func (c *Client) SummaryReport(ctx context.Context, q models.SummaryReportQuery) (models.SummaryReport, error) {
	return doJSON[models.SummaryReport](ctx, c, http.MethodGet, "/reports/summary", q.Values(), nil)
}

// AbnormalReport calls GET /reports/abnormal.
func (c *Client) AbnormalReport(ctx context.Context, q models.AbnormalReportQuery) (models.AbnormalReport, error) {
	return doJSON[models.AbnormalReport](ctx, c, http.MethodGet, "/reports/abnormal", q.Values(), nil)
}

// LeaveReport calls GET /reports/leave.
func (c *Client) LeaveReport(ctx context.Context, q models.LeaveReportQuery) (models.LeaveReport, error) {
	return doJSON[models.LeaveReport](ctx, c, http.MethodGet, "/reports/leave", q.Values(), nil)
}

// ListClasses calls GET /classes.
func (c *Client) ListClasses(ctx context.Context) ([]models.ClassInfo, error) {
	return doJSON[[]models.ClassInfo](ctx, c, http.MethodGet, "/classes", nil, nil)
}

// ClassStudents calls GET /classes/{name}/students.
func (c *Client) ClassStudents(ctx context.Context, class string) (models.ClassStudentsResponse, error) {
	return doJSON[models.ClassStudentsResponse](ctx, c, http.MethodGet, "/classes/"+url.PathEscape(class)+"/students", nil, nil)
}

// Export calls GET /data/export and returns the raw payload tagged with its format.
func (c *Client) Export(ctx context.Context, kind models.ExportType, format models.ExportFormat) (models.ExportContent, error) {
	query := url.Values{}
	query.Set("type", string(kind))
	if format != "" {
		query.Set("format", string(format))
	}
	req, err := c.newRequest(ctx, http.MethodGet, "/data/export", query, nil)
	if err != nil {
		return models.ExportContent{}, err
	}
	switch format {
	case models.FormatCSV:
		req.Header.Set("Accept", "text/csv")
	case models.FormatPDF:
		req.Header.Set("Accept", "application/pdf")
	default:
		req.Header.Set("Accept", "application/json")
	}

	resp, err := c.send(req)
	if err != nil {
		return models.ExportContent{}, err
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.ExportContent{}, appErrors.Wrap(err, appErrors.ErrNetwork.Code, appErrors.ErrNetwork.Message)
	}

	contentType := resp.Header.Get("Content-Type")
	out := models.ExportContent{Format: models.FormatJSON, ContentType: contentType, Body: body}
	switch {
	case strings.Contains(contentType, "text/csv"):
		out.Format = models.FormatCSV
	case strings.Contains(contentType, "application/pdf"):
		out.Format = models.FormatPDF
	}
	return out, nil
}

// Import calls POST /data/import with a multipart {type, file} body.
func (c *Client) Import(ctx context.Context, kind models.ImportType, filename string, file io.Reader) (models.ImportResult, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	if err := w.WriteField("type", string(kind)); err != nil {
		return models.ImportResult{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, "build import form")
	}
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return models.ImportResult{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, "build import form")
	}
	if _, err := io.Copy(part, file); err != nil {
		return models.ImportResult{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, "read import file")
	}
	if err := w.Close(); err != nil {
		return models.ImportResult{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, "build import form")
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/data/import", nil, buf)
	if err != nil {
		return models.ImportResult{}, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", w.FormDataContentType())
	return decodeEnvelope[models.ImportResult](c, req)
}
