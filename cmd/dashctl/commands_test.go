package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-attendance-dashboard/internal/models"
	"github.com/noah-isme/sma-attendance-dashboard/pkg/export"
)

// setupCLI points dashctl at a fresh mock database with file preferences and an
// exports directory under a temp dir.
func setupCLI(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ENV", "development")
	t.Setenv("API_BASE_URL", "http://localhost:8080/api/v1")
	t.Setenv("MOCK_ENABLED", "true")
	t.Setenv("MOCK_LATENCY_MIN", "0s")
	t.Setenv("MOCK_LATENCY_MAX", "0s")
	t.Setenv("MOCK_SEED", "5")
	t.Setenv("MOCK_STUDENTS", "30")
	t.Setenv("MOCK_DAYS", "3")
	t.Setenv("PREFERENCES_BACKEND", "file")
	t.Setenv("PREFERENCES_DIR", filepath.Join(dir, "prefs"))
	t.Setenv("EXPORTS_DIR", filepath.Join(dir, "exports"))
	return dir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	cmd.SetErr(io.Discard)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestStudentsListHydratesFromURL(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "students", "list", "--url", "http://localhost:3000/students?page=2&page_size=10")
	require.NoError(t, err)

	assert.Contains(t, out, "2024011")
	assert.NotContains(t, out, "2024001 ")
	assert.Contains(t, out, "30 total, page 2 of 3")
	assert.Contains(t, out, "1 [2] 3")
	assert.Contains(t, out, "link: /students?page=2&page_size=10")
}

func TestStudentsListFilterGoesBackToFirstPage(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "students", "list", "--url", "?page=3&page_size=5", "--keyword", "2024")
	require.NoError(t, err)

	assert.Contains(t, out, "30 total, page 1 of 6")
	assert.Contains(t, out, "link: /students?page_size=5&keyword=2024")
}

func TestStudentsListCollapsesDefaults(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "--dashboard-url", "http://localhost:3000/", "students", "list", "--url", "?page=1&sort_by=student_id&order=asc")
	require.NoError(t, err)

	assert.Contains(t, out, "link: http://localhost:3000/students\n")
}

func TestStudentsListHugePaging(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "students", "list", "--page-size", "9223372036854775807")
	require.NoError(t, err)
	assert.Contains(t, out, "30 total, page 1 of 1")

	out, err = runCLI(t, "students", "list", "--page", "4611686018427387905", "--page-size", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "30 total, page 4611686018427387905 of 15")
}

func TestStudentsListRejectsBadFlags(t *testing.T) {
	setupCLI(t)

	_, err := runCLI(t, "students", "list", "--sort-by", "age")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--sort-by")

	_, err = runCLI(t, "students", "list", "--page", "0")
	require.Error(t, err)

	_, err = runCLI(t, "-o", "xml", "students", "list")
	require.Error(t, err)
}

func TestStudentsCreateReloadsFirstPage(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "students", "create", "--id", "2099001", "--name", "新同学", "--class", "人文2401班")
	require.NoError(t, err)
	assert.Contains(t, out, "created 2099001 新同学 (人文2401班)")
	assert.Contains(t, out, "31 total, page 1 of 2")

	_, err = runCLI(t, "students", "create", "--id", "2024001", "--name", "重复", "--class", "人文2401班")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "学号已存在")

	_, err = runCLI(t, "students", "create", "--id", "2099002")
	require.Error(t, err, "missing name and class fail validation before any request")
}

func TestStudentsGetAndMissing(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "-o", "json", "students", "get", "2024003")
	require.NoError(t, err)
	var s models.Student
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, "2024003", s.StudentID)

	_, err = runCLI(t, "students", "delete", "2099999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "学生不存在")
}

func TestAttendancesListJSON(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "-o", "json", "attendances", "list", "--status", "absent", "--page-size", "100")
	require.NoError(t, err)

	var list models.AttendanceListResponse
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Equal(t, 1, list.Page)
	for _, a := range list.Items {
		assert.Equal(t, models.StatusAbsent, a.Status)
	}

	_, err = runCLI(t, "attendances", "list", "--status", "asleep")
	require.Error(t, err)
	_, err = runCLI(t, "attendances", "list", "--date", "2024-03-01")
	require.Error(t, err)
}

func TestAttendancesBatch(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "attendances", "batch", "--date", "02-30",
		"--record", "2024001=present",
		"--record", "2024002=late",
		"--record", "9999999=absent",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "created 2 of 3 records for 02-30")
	assert.Contains(t, out, "2 total, page 1 of 1")

	_, err = runCLI(t, "attendances", "batch", "--date", "02-30", "--record", "2024001")
	require.Error(t, err)
}

func TestAttendancesUpdateAndDelete(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "attendances", "update", "1", "--status", "sick_leave", "--remark", "发烧")
	require.NoError(t, err)
	assert.Contains(t, out, "updated #1")
	assert.Contains(t, out, "○ 病假")

	_, err = runCLI(t, "attendances", "update", "1")
	require.Error(t, err)

	_, err = runCLI(t, "attendances", "delete", "99999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "考勤记录不存在")

	_, err = runCLI(t, "attendances", "get", "abc")
	require.Error(t, err)
}

func TestReportsPersistFilters(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "reports", "summary", "--start", "01-01", "--end", "12-31")
	require.NoError(t, err)
	assert.Contains(t, out, "summary 01-01 ~ 12-31")
	assert.Contains(t, out, "出勤率")
	assert.Contains(t, out, "tab=summary")
	assert.Contains(t, out, "summary_start_date=01-01")

	out, err = runCLI(t, "reports")
	require.NoError(t, err)
	assert.Contains(t, out, "summary 01-01 ~ 12-31", "tab and period come back from preferences")

	out, err = runCLI(t, "reports", "--url", "?tab=leave&leave_start_date=01-01&leave_end_date=12-31")
	require.NoError(t, err)
	assert.Contains(t, out, "leave 01-01 ~ 12-31", "the link wins over preferences")
}

func TestReportsRejectsFlagsOfOtherTabs(t *testing.T) {
	setupCLI(t)

	_, err := runCLI(t, "reports", "daily", "--start", "01-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not apply")

	_, err = runCLI(t, "reports", "abnormal", "--type", "sick_leave")
	require.Error(t, err)

	_, err = runCLI(t, "reports", "weekly")
	require.Error(t, err)
}

func TestReportsCSV(t *testing.T) {
	dir := setupCLI(t)

	out, err := runCLI(t, "reports", "summary", "--start", "01-01", "--end", "12-31", "--csv")
	require.NoError(t, err)

	path := filepath.Join(dir, "exports", "report-summary-01-01-12-31.csv")
	assert.Contains(t, out, "saved "+path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(raw)
	assert.True(t, strings.HasPrefix(content, export.BOM+"学号,姓名,班级,总天数"))
	assert.Contains(t, content, "\r\n")
}

func TestClassesRememberSelection(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "-o", "json", "classes", "list")
	require.NoError(t, err)
	var classes []models.ClassInfo
	require.NoError(t, json.Unmarshal([]byte(out), &classes))
	require.NotEmpty(t, classes)
	class := classes[0].Name

	out, err = runCLI(t, "classes", "show", class)
	require.NoError(t, err)
	assert.Contains(t, out, class+": ")

	out, err = runCLI(t, "classes", "list")
	require.NoError(t, err)
	var marked []string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "*") {
			marked = append(marked, line)
		}
	}
	require.Len(t, marked, 1)
	assert.Contains(t, marked[0], class)

	out, err = runCLI(t, "classes", "show")
	require.NoError(t, err)
	assert.Contains(t, out, class+": ")

	_, err = runCLI(t, "classes", "show", "不存在的班级")
	require.Error(t, err)
}

func TestDataExportRemembersChoice(t *testing.T) {
	dir := setupCLI(t)

	out, err := runCLI(t, "data", "export", "--type", "students", "--format", "csv", "--name", "students.csv")
	require.NoError(t, err)
	path := filepath.Join(dir, "exports", "students.csv")
	assert.Contains(t, out, "saved "+path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "2024001")

	out, err = runCLI(t, "-o", "json", "data", "export")
	require.NoError(t, err)
	var result struct {
		Path   string `json:"path"`
		Format string `json:"format"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "csv", result.Format)
	assert.True(t, strings.HasPrefix(filepath.Base(result.Path), "students-"))

	_, err = runCLI(t, "data", "export", "--format", "xlsx")
	require.Error(t, err)
}

func TestDataImport(t *testing.T) {
	dir := setupCLI(t)

	file := filepath.Join(dir, "students.csv")
	content := "student_id,name,class\n2099001,新同学,人文2401班\n2024001,重复,人文2401班\n"
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))

	out, err := runCLI(t, "data", "import", "--type", "students", file)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 1, skipped 1")
	assert.Contains(t, out, "学号已存在")

	_, err = runCLI(t, "data", "import", filepath.Join(dir, "missing.csv"))
	require.Error(t, err)
}
