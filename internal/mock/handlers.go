package mock

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-attendance-dashboard/internal/models"
	"github.com/noah-isme/sma-attendance-dashboard/internal/repository"
	"github.com/noah-isme/sma-attendance-dashboard/pkg/export"
)

// Handlers implements the REST contract over the mock database. Every handler runs
// inside a single database transaction.
type Handlers struct {
	db       *repository.MockDatabase
	validate *validator.Validate
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewHandlers constructs the handler set.
func NewHandlers(db *repository.MockDatabase, validate *validator.Validate, pdfFont string, logger *zap.Logger) *Handlers {
	if validate == nil {
		validate = validator.New()
	}
	models.RegisterValidations(validate)
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		db:       db,
		validate: validate,
		csv:      export.NewCSVExporter(export.WithBOM()),
		pdf:      export.NewPDFExporter(pdfFont),
		logger:   logger,
	}
}

// Register installs every route. Order matters: the first matching pattern wins.
func (h *Handlers) Register(r *Router) {
	r.Handle("GET", "/students", h.ListStudents)
	r.Handle("POST", "/students", h.CreateStudent)
	r.Handle("GET", "/students/:id", h.GetStudent)
	r.Handle("PUT", "/students/:id", h.UpdateStudent)
	r.Handle("DELETE", "/students/:id", h.DeleteStudent)

	r.Handle("GET", "/attendances", h.ListAttendances)
	r.Handle("POST", "/attendances", h.CreateAttendance)
	r.Handle("POST", "/attendances/batch", h.BatchCreateAttendances)
	r.Handle("GET", `/attendances/:id(\d+)`, h.GetAttendance)
	r.Handle("PUT", `/attendances/:id(\d+)`, h.UpdateAttendance)
	r.Handle("DELETE", `/attendances/:id(\d+)`, h.DeleteAttendance)

	r.Handle("GET", "/reports/details", h.DetailsReport)
	r.Handle("GET", "/reports/daily", h.DailyReport)
	r.Handle("GET", "/reports/summary", h.SummaryReport)
	r.Handle("GET", "/reports/abnormal", h.AbnormalReport)
	r.Handle("GET", "/reports/leave", h.LeaveReport)

	r.Handle("GET", "/classes", h.ListClasses)
	r.Handle("GET", "/classes/:name/students", h.ClassStudents)

	r.Handle("GET", "/data/export", h.Export)
	r.Handle("POST", "/data/import", h.Import)
}
