package main

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-attendance-dashboard/internal/models"
	"github.com/noah-isme/sma-attendance-dashboard/internal/urlsync"
	appErrors "github.com/noah-isme/sma-attendance-dashboard/pkg/errors"
)

func TestPager(t *testing.T) {
	cases := []struct {
		name                  string
		page, pageSize, total int
		want                  string
	}{
		{"single page hides control", 1, 20, 20, ""},
		{"empty list", 1, 20, 0, ""},
		{"middle of many", 5, 10, 100, "1 … 4 [5] 6 … 10"},
		{"first page", 1, 10, 100, "[1] 2 … 10"},
		{"single skipped page is shown", 3, 10, 50, "1 2 [3] 4 5"},
		{"page past the end", 9, 10, 30, "1 2 3"},
		{"huge page size", 1, math.MaxInt, 50, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, pager(tc.page, tc.pageSize, tc.total))
		})
	}
}

func TestWriteListFooter(t *testing.T) {
	list := &models.StudentListResponse{
		Total:    45,
		Page:     2,
		PageSize: 20,
		Items:    []models.Student{{StudentID: "2024021", Name: "学生21", Class: "人文2401班"}},
	}
	var buf bytes.Buffer
	require.NoError(t, writeList(&buf, list, studentsDataset(list.Items)))

	out := buf.String()
	assert.Contains(t, out, "2024021")
	assert.Contains(t, out, "45 total, page 2 of 3")
	assert.Contains(t, out, "1 [2] 3")
}

func TestDetailsDatasetFillsMissingDays(t *testing.T) {
	report := &models.AttendanceDetailsReport{
		Records: []models.DetailsReportItem{
			{
				StudentID: "2024001", Name: "甲", Class: "A",
				AttendanceDetails: []models.DetailsReportEntry{
					{Date: "03-02", Status: models.StatusLate, Symbol: "+"},
					{Date: "03-01", Status: models.StatusPresent, Symbol: "√"},
				},
			},
			{
				StudentID: "2024002", Name: "乙", Class: "A",
				AttendanceDetails: []models.DetailsReportEntry{
					{Date: "03-03", Status: models.StatusAbsent, Symbol: "X"},
				},
			},
		},
	}

	data := detailsDataset(report)
	assert.Equal(t, []string{"学号", "姓名", "班级", "03-01", "03-02", "03-03"}, data.Headers)
	assert.Equal(t, []string{"2024001", "甲", "A", "√", "+", "-"}, data.Rows[0])
	assert.Equal(t, []string{"2024002", "乙", "A", "-", "-", "X"}, data.Rows[1])
}

func TestStatusCell(t *testing.T) {
	assert.Equal(t, "√ 出勤", statusCell(models.StatusPresent))
	assert.Equal(t, "unknown", statusCell("unknown"))
}

func TestReportFileName(t *testing.T) {
	st := urlsync.ReportsState{
		Tab:     models.TabSummary,
		Daily:   models.DailyReportQuery{Date: "03-05"},
		Summary: models.SummaryReportQuery{StartDate: "03-01", EndDate: "03-07", Class: "人文2401班"},
	}
	assert.Equal(t, "report-summary-03-01-03-07-人文2401班.csv", reportFileName(st))

	st.Tab = models.TabDaily
	assert.Equal(t, "report-daily-03-05.csv", reportFileName(st))
}

func TestQueryOf(t *testing.T) {
	cases := map[string]string{
		"":                                      "",
		"page=2&class=A":                        "page=2&class=A",
		"?page=2":                               "page=2",
		"http://localhost:3000/students?page=2": "page=2",
		"http://localhost:3000/students":        "",
		"/reports?tab=leave#top":                "tab=leave",
		"/reports":                              "",
	}
	for in, want := range cases {
		assert.Equal(t, want, queryOf(in), in)
	}
}

func TestViewError(t *testing.T) {
	assert.NoError(t, viewError("加载学生列表失败", nil))

	conflict := appErrors.New(409, "学号已存在")
	assert.Same(t, conflict, viewError("学号已存在", conflict))

	network := appErrors.Wrap(errors.New("dial tcp: refused"), 0, "network request failed")
	err := viewError("加载学生列表失败", network)
	assert.EqualError(t, err, "加载学生列表失败: network request failed: dial tcp: refused")
	assert.ErrorIs(t, err, appErrors.ErrNetwork)
}
