package models

// ReportsTab identifies a report sub-tab.
type ReportsTab string

const (
	TabDaily    ReportsTab = "daily"
	TabDetails  ReportsTab = "details"
	TabSummary  ReportsTab = "summary"
	TabAbnormal ReportsTab = "abnormal"
	TabLeave    ReportsTab = "leave"
)

// ReportTabs lists the tabs in display order.
var ReportTabs = []ReportsTab{TabDaily, TabDetails, TabSummary, TabAbnormal, TabLeave}

// Valid reports whether t is a known tab.
func (t ReportsTab) Valid() bool {
	for _, tab := range ReportTabs {
		if t == tab {
			return true
		}
	}
	return false
}

// DatePeriod is an inclusive MM-DD date range.
type DatePeriod struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// DailyReport aggregates one date.
type DailyReport struct {
	Date    string             `json:"date"`
	Summary DailyReportSummary `json:"summary"`
	Details []DailyReportRow   `json:"details"`
}

// DailyReportSummary holds per-status counts for a day.
type DailyReportSummary struct {
	TotalStudents  int    `json:"total_students"`
	Present        int    `json:"present"`
	Absent         int    `json:"absent"`
	Late           int    `json:"late"`
	EarlyLeave     int    `json:"early_leave"`
	PersonalLeave  int    `json:"personal_leave"`
	SickLeave      int    `json:"sick_leave"`
	AttendanceRate string `json:"attendance_rate"`
}

// DailyReportRow is one student's status on the report date.
type DailyReportRow struct {
	StudentID string           `json:"student_id"`
	Name      string           `json:"name"`
	Class     string           `json:"class"`
	Status    AttendanceStatus `json:"status"`
	Symbol    string           `json:"symbol"`
}

// AttendanceDetailsReport lists every status per student over a period.
type AttendanceDetailsReport struct {
	Period  DatePeriod          `json:"period"`
	Records []DetailsReportItem `json:"records"`
}

// DetailsReportItem is one student's row in the details report.
type DetailsReportItem struct {
	StudentID         string               `json:"student_id"`
	Name              string               `json:"name"`
	Class             string               `json:"class"`
	AttendanceDetails []DetailsReportEntry `json:"attendance_details"`
}

// DetailsReportEntry is one day in a details row.
type DetailsReportEntry struct {
	Date   string           `json:"date"`
	Status AttendanceStatus `json:"status"`
	Symbol string           `json:"symbol"`
}

// SummaryReport aggregates per-student counts over a period.
type SummaryReport struct {
	Period  DatePeriod         `json:"period"`
	Summary []SummaryReportRow `json:"summary"`
}

// SummaryReportRow is one student's totals.
type SummaryReportRow struct {
	StudentID          string `json:"student_id"`
	Name               string `json:"name"`
	Class              string `json:"class"`
	TotalDays          int    `json:"total_days"`
	PresentCount       int    `json:"present_count"`
	AbsentCount        int    `json:"absent_count"`
	LateCount          int    `json:"late_count"`
	EarlyLeaveCount    int    `json:"early_leave_count"`
	PersonalLeaveCount int    `json:"personal_leave_count"`
	SickLeaveCount     int    `json:"sick_leave_count"`
	AttendanceRate     string `json:"attendance_rate"`
}

// AbnormalReport lists absent, late and early-leave rows over a period.
type AbnormalReport struct {
	Period          DatePeriod          `json:"period"`
	AbnormalRecords []AbnormalReportRow `json:"abnormal_records"`
	Statistics      AbnormalStatistics  `json:"statistics"`
}

// AbnormalReportRow is one abnormal attendance.
type AbnormalReportRow struct {
	StudentID string           `json:"student_id"`
	Name      string           `json:"name"`
	Class     string           `json:"class"`
	Date      string           `json:"date"`
	Status    AttendanceStatus `json:"status"`
	Symbol    string           `json:"symbol"`
	Remark    string           `json:"remark"`
}

// AbnormalStatistics counts abnormal rows by status.
type AbnormalStatistics struct {
	TotalAbnormal   int `json:"total_abnormal"`
	AbsentCount     int `json:"absent_count"`
	LateCount       int `json:"late_count"`
	EarlyLeaveCount int `json:"early_leave_count"`
}

// LeaveReport lists personal and sick leave rows over a period.
type LeaveReport struct {
	Period       DatePeriod       `json:"period"`
	LeaveRecords []LeaveReportRow `json:"leave_records"`
	Statistics   LeaveStatistics  `json:"statistics"`
}

// LeaveReportRow is one leave attendance.
type LeaveReportRow struct {
	StudentID string           `json:"student_id"`
	Name      string           `json:"name"`
	Class     string           `json:"class"`
	Date      string           `json:"date"`
	Type      AttendanceStatus `json:"type"`
	Symbol    string           `json:"symbol"`
	Remark    string           `json:"remark"`
}

// LeaveStatistics counts leave rows by type.
type LeaveStatistics struct {
	TotalLeave         int `json:"total_leave"`
	PersonalLeaveCount int `json:"personal_leave_count"`
	SickLeaveCount     int `json:"sick_leave_count"`
}
