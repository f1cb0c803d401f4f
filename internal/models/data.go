package models

// ExportType selects which entities are exported.
type ExportType string

const (
	ExportStudents    ExportType = "students"
	ExportAttendances ExportType = "attendances"
	ExportAll         ExportType = "all"
)

// ExportFormat selects the export encoding.
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatCSV  ExportFormat = "csv"
	FormatPDF  ExportFormat = "pdf"
)

// ExportBundle is the full dataset returned by type=all JSON exports.
type ExportBundle struct {
	Students    []Student    `json:"students"`
	Attendances []Attendance `json:"attendances"`
}

// ExportContent is a format-tagged export payload.
type ExportContent struct {
	Format      ExportFormat
	ContentType string
	Body        []byte
}

// ImportType selects which entity an import file holds.
type ImportType string

const (
	ImportStudents    ImportType = "students"
	ImportAttendances ImportType = "attendances"
)

// ImportError reports one rejected line of an import file.
type ImportError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ImportResult is the outcome of POST /data/import.
type ImportResult struct {
	ImportedCount int           `json:"imported_count"`
	SkippedCount  int           `json:"skipped_count"`
	Errors        []ImportError `json:"errors"`
}
