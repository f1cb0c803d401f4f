package urlsync

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sma-attendance-dashboard/internal/models"
)

func TestEncodeStudentsDefaultCollapse(t *testing.T) {
	assert.Equal(t, "", EncodeStudents(models.DefaultStudentsQuery()))

	q := models.DefaultStudentsQuery()
	q.Page = 3
	q.Class = "人文2401班"
	assert.Equal(t, "page=3&class=%E4%BA%BA%E6%96%872401%E7%8F%AD", EncodeStudents(q))
}

func TestEncodeStudentsSchemaOrder(t *testing.T) {
	q := models.StudentsQuery{Page: 2, PageSize: 50, SortBy: "name", Order: "desc", Class: "c", Keyword: "li"}
	assert.Equal(t, "page=2&page_size=50&sort_by=name&order=desc&class=c&keyword=li", EncodeStudents(q))
}

func TestStudentsRoundTrip(t *testing.T) {
	codec := StudentsCodec{}
	cases := []models.StudentsQuery{
		models.DefaultStudentsQuery(),
		{Page: 4, PageSize: 10, SortBy: "class", Order: "desc", Class: "电子2401班", Keyword: "王 五"},
		{Page: 1, PageSize: 20, SortBy: "name", Order: "asc", Keyword: "a&b=c"},
	}
	for _, q := range cases {
		assert.Equal(t, q, codec.Resolve(Parse(codec.Encode(q))))
	}
}

func TestDecodeStudentsDropsInvalid(t *testing.T) {
	p := DecodeStudents(Parse("page=0&page_size=abc&sort_by=age&order=DESC&class=%20%20&keyword=%20x%20"))
	assert.Nil(t, p.Page)
	assert.Nil(t, p.PageSize)
	assert.Nil(t, p.SortBy)
	assert.Nil(t, p.Order)
	assert.Nil(t, p.Class)
	if assert.NotNil(t, p.Keyword) {
		assert.Equal(t, "x", *p.Keyword)
	}

	q := p.Apply(models.DefaultStudentsQuery())
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, "student_id", q.SortBy)
}

func TestDecodeStudentsNegativePage(t *testing.T) {
	assert.Nil(t, DecodeStudents(Parse("page=-2")).Page)
}

func TestAttendancesRoundTrip(t *testing.T) {
	codec := AttendancesCodec{}
	q := models.AttendancesQuery{
		Page: 2, PageSize: 20, StudentID: "2024001", Class: "人文2401班",
		StartDate: "03-01", EndDate: "03-07", Status: models.StatusLate, SortBy: "date", Order: "desc",
	}
	encoded := codec.Encode(q)
	assert.Equal(t, "page=2&student_id=2024001&class=%E4%BA%BA%E6%96%872401%E7%8F%AD&start_date=03-01&end_date=03-07&status=late&sort_by=date&order=desc", encoded)
	assert.Equal(t, q, codec.Resolve(Parse(encoded)))
	assert.Equal(t, "", codec.Encode(models.DefaultAttendancesQuery()))
}

func TestDecodeAttendancesRejectsUnknownStatus(t *testing.T) {
	p := DecodeAttendances(Parse("status=on_leave&sort_by=class"))
	assert.Nil(t, p.Status)
	assert.Nil(t, p.SortBy)
}

func TestReportsRoundTrip(t *testing.T) {
	codec := ReportsCodec{}
	s := ReportsState{
		Tab:      models.TabAbnormal,
		Daily:    models.DailyReportQuery{Date: "03-07"},
		Summary:  models.SummaryReportQuery{StartDate: "03-01", EndDate: "03-07", Class: "计算机2401班"},
		Abnormal: models.AbnormalReportQuery{StartDate: "03-01", EndDate: "03-07", Type: models.StatusLate},
		Leave:    models.LeaveReportQuery{Type: models.StatusSickLeave},
	}
	assert.Equal(t, s, codec.Resolve(Parse(codec.Encode(s))))
}

func TestReportsDefaultCollapse(t *testing.T) {
	assert.Equal(t, "", EncodeReports(ReportsState{Tab: models.TabDaily}))
	assert.Equal(t, "tab=leave&leave_type=personal_leave", EncodeReports(ReportsState{
		Tab:   models.TabLeave,
		Leave: models.LeaveReportQuery{Type: models.StatusPersonalLeave},
	}))
}

func TestReportsLinkKeepsInactivePanels(t *testing.T) {
	s := ReportsState{
		Tab:     models.TabDaily,
		Daily:   models.DailyReportQuery{Date: "03-07"},
		Summary: models.SummaryReportQuery{StartDate: "03-01", EndDate: "03-07"},
	}
	assert.Equal(t, "daily_date=03-07&summary_start_date=03-01&summary_end_date=03-07", EncodeReports(s))
	assert.Equal(t, s, ReportsCodec{}.Resolve(Parse(EncodeReports(s))))
}

func TestReportsTypeMustMatchPanel(t *testing.T) {
	s := ReportsCodec{}.Resolve(Parse("tab=bogus&abnormal_type=sick_leave&leave_type=late&details_student_id=2024003"))
	assert.Equal(t, models.TabDaily, s.Tab)
	assert.Empty(t, s.Abnormal.Type)
	assert.Empty(t, s.Leave.Type)
	assert.Equal(t, "2024003", s.Details.StudentID)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, Normalize("b=2&a=1"), Normalize("a=1&b=2"))
	assert.Equal(t, "a=1&b=2", Normalize("?b=2&a=1"))
	assert.True(t, Equivalent("", "?"))
	assert.False(t, Equivalent("a=1", "a=2"))
}
