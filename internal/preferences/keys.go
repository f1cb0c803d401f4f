package preferences

import (
	"context"
	"time"

	"github.com/noah-isme/sma-attendance-dashboard/internal/models"
	"github.com/noah-isme/sma-attendance-dashboard/internal/urlsync"
)

// Preference keys.
const (
	KeyClassesSelectedClass = "classes.selectedClass"

	KeyReportsActiveTab = "reports.activeTab"

	KeyReportsDailyDate  = "reports.daily.date"
	KeyReportsDailyClass = "reports.daily.class"

	KeyReportsDetailsStartDate = "reports.details.startDate"
	KeyReportsDetailsEndDate   = "reports.details.endDate"
	KeyReportsDetailsClass     = "reports.details.class"
	KeyReportsDetailsStudentID = "reports.details.studentId"

	KeyReportsSummaryStartDate = "reports.summary.startDate"
	KeyReportsSummaryEndDate   = "reports.summary.endDate"
	KeyReportsSummaryClass     = "reports.summary.class"

	KeyReportsAbnormalStartDate = "reports.abnormal.startDate"
	KeyReportsAbnormalEndDate   = "reports.abnormal.endDate"
	KeyReportsAbnormalClass     = "reports.abnormal.class"
	KeyReportsAbnormalType      = "reports.abnormal.type"

	KeyReportsLeaveStartDate = "reports.leave.startDate"
	KeyReportsLeaveEndDate   = "reports.leave.endDate"
	KeyReportsLeaveClass     = "reports.leave.class"
	KeyReportsLeaveType      = "reports.leave.type"

	KeyDataExportType   = "data.exportType"
	KeyDataExportFormat = "data.exportFormat"
	KeyDataImportType   = "data.importType"
)

// SelectedClass is the class last opened on the classes page.
func (s *Store) SelectedClass() Pref[string] {
	return Define(s, KeyClassesSelectedClass, "")
}

// ActiveTab is the reports tab last shown.
func (s *Store) ActiveTab() Pref[models.ReportsTab] {
	return Define(s, KeyReportsActiveTab, urlsync.DefaultTab)
}

// ExportType is the last chosen export dataset.
func (s *Store) ExportType() Pref[models.ExportType] {
	return Define(s, KeyDataExportType, models.ExportStudents)
}

// ExportFormat is the last chosen export format.
func (s *Store) ExportFormat() Pref[models.ExportFormat] {
	return Define(s, KeyDataExportFormat, models.FormatCSV)
}

// ImportType is the last chosen import dataset.
func (s *Store) ImportType() Pref[models.ImportType] {
	return Define(s, KeyDataImportType, models.ImportStudents)
}

// ReportPeriodDefaults returns the default start and end dates of a report panel:
// six days before now and now, as MM-DD.
func ReportPeriodDefaults(now time.Time) (start, end string) {
	return models.FormatMMDD(now.AddDate(0, 0, -6)), models.FormatMMDD(now)
}

// LoadReports reads the persisted reports page state. Unset dates fall back to the
// last seven days and unknown tabs or types to their defaults.
func (s *Store) LoadReports(ctx context.Context, now time.Time) urlsync.ReportsState {
	start, end := ReportPeriodDefaults(now)
	str := func(key, initial string) string {
		return Define(s, key, initial).Get(ctx)
	}

	st := urlsync.ReportsState{
		Tab: s.ActiveTab().Get(ctx),
		Daily: models.DailyReportQuery{
			Date:  str(KeyReportsDailyDate, end),
			Class: str(KeyReportsDailyClass, ""),
		},
		Details: models.DetailsReportQuery{
			StartDate: str(KeyReportsDetailsStartDate, start),
			EndDate:   str(KeyReportsDetailsEndDate, end),
			Class:     str(KeyReportsDetailsClass, ""),
			StudentID: str(KeyReportsDetailsStudentID, ""),
		},
		Summary: models.SummaryReportQuery{
			StartDate: str(KeyReportsSummaryStartDate, start),
			EndDate:   str(KeyReportsSummaryEndDate, end),
			Class:     str(KeyReportsSummaryClass, ""),
		},
		Abnormal: models.AbnormalReportQuery{
			StartDate: str(KeyReportsAbnormalStartDate, start),
			EndDate:   str(KeyReportsAbnormalEndDate, end),
			Class:     str(KeyReportsAbnormalClass, ""),
			Type:      statusOrEmpty(str(KeyReportsAbnormalType, ""), models.AbnormalStatuses),
		},
		Leave: models.LeaveReportQuery{
			StartDate: str(KeyReportsLeaveStartDate, start),
			EndDate:   str(KeyReportsLeaveEndDate, end),
			Class:     str(KeyReportsLeaveClass, ""),
			Type:      statusOrEmpty(str(KeyReportsLeaveType, ""), models.LeaveStatuses),
		},
	}
	if !st.Tab.Valid() {
		st.Tab = urlsync.DefaultTab
	}
	return st
}

// SaveReports persists every field of the reports page state.
func (s *Store) SaveReports(ctx context.Context, st urlsync.ReportsState) {
	s.ActiveTab().Set(ctx, st.Tab)

	values := []struct{ key, value string }{
		{KeyReportsDailyDate, st.Daily.Date},
		{KeyReportsDailyClass, st.Daily.Class},
		{KeyReportsDetailsStartDate, st.Details.StartDate},
		{KeyReportsDetailsEndDate, st.Details.EndDate},
		{KeyReportsDetailsClass, st.Details.Class},
		{KeyReportsDetailsStudentID, st.Details.StudentID},
		{KeyReportsSummaryStartDate, st.Summary.StartDate},
		{KeyReportsSummaryEndDate, st.Summary.EndDate},
		{KeyReportsSummaryClass, st.Summary.Class},
		{KeyReportsAbnormalStartDate, st.Abnormal.StartDate},
		{KeyReportsAbnormalEndDate, st.Abnormal.EndDate},
		{KeyReportsAbnormalClass, st.Abnormal.Class},
		{KeyReportsAbnormalType, string(st.Abnormal.Type)},
		{KeyReportsLeaveStartDate, st.Leave.StartDate},
		{KeyReportsLeaveEndDate, st.Leave.EndDate},
		{KeyReportsLeaveClass, st.Leave.Class},
		{KeyReportsLeaveType, string(st.Leave.Type)},
	}
	for _, v := range values {
		Define(s, v.key, "").Set(ctx, v.value)
	}
}

func statusOrEmpty(raw string, allowed []models.AttendanceStatus) models.AttendanceStatus {
	for _, s := range allowed {
		if string(s) == raw {
			return s
		}
	}
	return ""
}
