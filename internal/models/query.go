package models

import "net/url"

// Student sort fields.
const (
	StudentSortID    = "student_id"
	StudentSortName  = "name"
	StudentSortClass = "class"
)

// Attendance sort fields.
const (
	AttendanceSortStudentID = "student_id"
	AttendanceSortName      = "name"
	AttendanceSortDate      = "date"
)

// StudentsQuery is the filter, sort and page state of the students view.
type StudentsQuery struct {
	Page     int
	PageSize int
	SortBy   string
	Order    string
	Class    string
	Keyword  string
}

// DefaultStudentsQuery returns the canonical default students query.
func DefaultStudentsQuery() StudentsQuery {
	return StudentsQuery{Page: DefaultPage, PageSize: DefaultPageSize, SortBy: StudentSortID, Order: OrderAsc}
}

// Values renders the query as API parameters, skipping empty fields.
func (q StudentsQuery) Values() url.Values {
	v := url.Values{}
	setInt(v, "page", q.Page)
	setInt(v, "page_size", q.PageSize)
	setString(v, "sort_by", q.SortBy)
	setString(v, "order", q.Order)
	setString(v, "class", q.Class)
	setString(v, "keyword", q.Keyword)
	return v
}

// AttendancesQuery is the filter, sort and page state of the attendances view.
type AttendancesQuery struct {
	Page      int
	PageSize  int
	StudentID string
	Name      string
	Class     string
	Date      string
	StartDate string
	EndDate   string
	Status    AttendanceStatus
	SortBy    string
	Order     string
}

// DefaultAttendancesQuery returns the canonical default attendances query. No sort field means input order.
func DefaultAttendancesQuery() AttendancesQuery {
	return AttendancesQuery{Page: DefaultPage, PageSize: DefaultPageSize, Order: OrderAsc}
}

// Values renders the query as API parameters, skipping empty fields.
func (q AttendancesQuery) Values() url.Values {
	v := url.Values{}
	setInt(v, "page", q.Page)
	setInt(v, "page_size", q.PageSize)
	setString(v, "student_id", q.StudentID)
	setString(v, "name", q.Name)
	setString(v, "class", q.Class)
	setString(v, "date", q.Date)
	setString(v, "start_date", q.StartDate)
	setString(v, "end_date", q.EndDate)
	setString(v, "status", string(q.Status))
	setString(v, "sort_by", q.SortBy)
	setString(v, "order", q.Order)
	return v
}

// DailyReportQuery parameterises GET /reports/daily.
type DailyReportQuery struct {
	Date  string
	Class string
}

// Values renders the query as API parameters.
func (q DailyReportQuery) Values() url.Values {
	v := url.Values{}
	v.Set("date", q.Date)
	setString(v, "class", q.Class)
	return v
}

// DetailsReportQuery parameterises GET /reports/details.
type DetailsReportQuery struct {
	StartDate string
	EndDate   string
	Class     string
	StudentID string
}

// Values renders the query as API parameters.
func (q DetailsReportQuery) Values() url.Values {
	v := periodValues(q.StartDate, q.EndDate, q.Class)
	setString(v, "student_id", q.StudentID)
	return v
}

// SummaryReportQuery parameterises GET /reports/summary.
type SummaryReportQuery struct {
	StartDate string
	EndDate   string
	Class     string
}

// Values renders the query as API parameters.
func (q SummaryReportQuery) Values() url.Values {
	return periodValues(q.StartDate, q.EndDate, q.Class)
}

// AbnormalReportQuery parameterises GET /reports/abnormal. Type narrows to one abnormal status.
type AbnormalReportQuery struct {
	StartDate string
	EndDate   string
	Class     string
	Type      AttendanceStatus
}

// Values renders the query as API parameters.
func (q AbnormalReportQuery) Values() url.Values {
	v := periodValues(q.StartDate, q.EndDate, q.Class)
	setString(v, "type", string(q.Type))
	return v
}

// LeaveReportQuery parameterises GET /reports/leave. Type narrows to one leave status.
type LeaveReportQuery struct {
	StartDate string
	EndDate   string
	Class     string
	Type      AttendanceStatus
}

// Values renders the query as API parameters.
func (q LeaveReportQuery) Values() url.Values {
	v := periodValues(q.StartDate, q.EndDate, q.Class)
	setString(v, "type", string(q.Type))
	return v
}

func periodValues(start, end, class string) url.Values {
	v := url.Values{}
	v.Set("start_date", start)
	v.Set("end_date", end)
	setString(v, "class", class)
	return v
}

func setString(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func setInt(v url.Values, key string, value int) {
	if value > 0 {
		v.Set(key, itoa(value))
	}
}
