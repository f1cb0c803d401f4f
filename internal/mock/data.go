package mock

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-attendance-dashboard/internal/models"
	"github.com/noah-isme/sma-attendance-dashboard/internal/repository"
	appErrors "github.com/noah-isme/sma-attendance-dashboard/pkg/errors"
	"github.com/noah-isme/sma-attendance-dashboard/pkg/export"
)

// Export content types.
const (
	ContentTypeJSON = "application/json"
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypePDF  = "application/pdf"
)

var (
	studentHeaders    = []string{"student_id", "name", "class"}
	attendanceHeaders = []string{"id", "student_id", "name", "class", "date", "status", "remark"}
)

// Export handles GET /data/export. Tabular formats cover a single entity type, so
// type=all is always answered as JSON.
func (h *Handlers) Export(req Request) Result {
	q := req.Query()
	kind := models.ExportType(q.Get("type"))
	if kind != models.ExportStudents && kind != models.ExportAttendances {
		kind = models.ExportAll
	}
	format := models.ExportFormat(q.Get("format"))
	if kind == models.ExportAll || (format != models.FormatCSV && format != models.FormatPDF) {
		format = models.FormatJSON
	}

	var bundle models.ExportBundle
	h.db.Atomic(func(tx *repository.Tx) {
		bundle.Students = tx.Students()
		bundle.Attendances = tx.Attendances()
	})

	content, err := h.render(kind, format, bundle)
	if err != nil {
		h.logger.Error("render export", zap.String("type", string(kind)), zap.String("format", string(format)), zap.Error(err))
		return Failure(appErrors.Wrap(err, appErrors.ErrInternal.Code, "export failed"))
	}
	return Result{Export: content}
}

func (h *Handlers) render(kind models.ExportType, format models.ExportFormat, bundle models.ExportBundle) (*models.ExportContent, error) {
	if format == models.FormatJSON {
		var payload any = bundle
		switch kind {
		case models.ExportStudents:
			payload = nonNil(bundle.Students)
		case models.ExportAttendances:
			payload = nonNil(bundle.Attendances)
		}
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		return &models.ExportContent{Format: models.FormatJSON, ContentType: ContentTypeJSON, Body: body}, nil
	}

	data := Dataset(kind, bundle)
	if format == models.FormatPDF {
		body, err := h.pdf.Render(data, string(kind))
		if err != nil {
			return nil, err
		}
		return &models.ExportContent{Format: models.FormatPDF, ContentType: ContentTypePDF, Body: body}, nil
	}

	body, err := h.csv.Render(data)
	if err != nil {
		return nil, err
	}
	return &models.ExportContent{Format: models.FormatCSV, ContentType: ContentTypeCSV, Body: body}, nil
}

// Dataset tabulates one entity type of the bundle.
func Dataset(kind models.ExportType, bundle models.ExportBundle) export.Dataset {
	if kind == models.ExportAttendances {
		data := export.Dataset{Headers: attendanceHeaders}
		for _, a := range bundle.Attendances {
			data.Rows = append(data.Rows, []string{
				strconv.Itoa(a.ID), a.StudentID, a.Name, a.Class, a.Date, string(a.Status), a.Remark,
			})
		}
		return data
	}
	data := export.Dataset{Headers: studentHeaders}
	for _, s := range bundle.Students {
		data.Rows = append(data.Rows, []string{s.StudentID, s.Name, s.Class})
	}
	return data
}

// Import handles POST /data/import with a multipart {type, file} body. The file is a CSV
// with a header row or a JSON array. Bad rows are skipped and reported by line.
func (h *Handlers) Import(req Request) Result {
	form, ok := req.Body.(*multipart.Form)
	if !ok || form == nil {
		return Failure(appErrors.Clone(appErrors.ErrValidation, "multipart form body required"))
	}
	kind := models.ImportType(firstValue(form.Value["type"]))
	if kind != models.ImportStudents && kind != models.ImportAttendances {
		return Failure(appErrors.Clone(appErrors.ErrValidation, "type must be students or attendances"))
	}
	files := form.File["file"]
	if len(files) == 0 {
		return Failure(appErrors.Clone(appErrors.ErrValidation, "file is required"))
	}

	raw, err := readPart(files[0])
	if err != nil {
		return Failure(appErrors.Wrap(err, appErrors.ErrValidation.Code, "unreadable file"))
	}
	rows, err := parseRows(raw)
	if err != nil {
		return Failure(appErrors.Wrap(err, appErrors.ErrValidation.Code, "unsupported file content"))
	}

	result := models.ImportResult{Errors: []models.ImportError{}}
	h.db.Atomic(func(tx *repository.Tx) {
		for _, row := range rows {
			var err error
			if kind == models.ImportStudents {
				err = h.importStudent(tx, row.fields)
			} else {
				err = h.importAttendance(tx, row.fields)
			}
			if err != nil {
				result.SkippedCount++
				result.Errors = append(result.Errors, models.ImportError{Line: row.line, Message: errorMessage(err)})
				continue
			}
			result.ImportedCount++
		}
	})

	h.logger.Info("import finished",
		zap.String("type", string(kind)),
		zap.Int("imported", result.ImportedCount),
		zap.Int("skipped", result.SkippedCount),
	)
	return Success(http.StatusOK, result)
}

func (h *Handlers) importStudent(tx *repository.Tx, fields map[string]string) error {
	in := models.StudentCreate{
		StudentID: fields["student_id"],
		Name:      fields["name"],
		Class:     fields["class"],
	}
	if err := h.validate.Struct(in); err != nil {
		return fmt.Errorf("invalid student row: %w", err)
	}
	_, err := tx.AddStudent(models.Student(in))
	return err
}

func (h *Handlers) importAttendance(tx *repository.Tx, fields map[string]string) error {
	in := models.AttendanceCreate{
		StudentID: fields["student_id"],
		Date:      fields["date"],
		Status:    models.AttendanceStatus(fields["status"]),
		Remark:    fields["remark"],
	}
	if err := h.validate.Struct(in); err != nil {
		return fmt.Errorf("invalid attendance row: %w", err)
	}
	_, err := tx.AddAttendance(in)
	return err
}

type importRow struct {
	line   int
	fields map[string]string
}

// parseRows reads a JSON array of objects or a CSV document with a header row.
func parseRows(raw []byte) ([]importRow, error) {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(raw, []byte(export.BOM)))
	if len(trimmed) == 0 {
		return nil, errors.New("empty file")
	}
	if trimmed[0] == '[' {
		return parseJSONRows(trimmed)
	}
	return parseCSVRows(trimmed)
}

func parseJSONRows(raw []byte) ([]importRow, error) {
	var items []map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&items); err != nil {
		return nil, err
	}
	rows := make([]importRow, 0, len(items))
	for i, item := range items {
		fields := make(map[string]string, len(item))
		for k, v := range item {
			switch val := v.(type) {
			case string:
				fields[k] = strings.TrimSpace(val)
			case nil:
			default:
				fields[k] = strings.TrimSpace(fmt.Sprint(val))
			}
		}
		rows = append(rows, importRow{line: i + 1, fields: fields})
	}
	return rows, nil
}

func parseCSVRows(raw []byte) ([]importRow, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var rows []importRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := reader.FieldPos(0)
		fields := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				fields[name] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, importRow{line: line, fields: fields})
	}
	return rows, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck
	return io.ReadAll(f)
}

func errorMessage(err error) string {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func firstValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
