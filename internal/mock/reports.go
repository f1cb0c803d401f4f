package mock

import (
	"net/http"

	"github.com/noah-isme/sma-attendance-dashboard/internal/models"
	"github.com/noah-isme/sma-attendance-dashboard/internal/repository"
)

// DailyReport handles GET /reports/daily.
func (h *Handlers) DailyReport(req Request) Result {
	q := req.Query()
	date := q.Get("date")

	var rows []models.Attendance
	h.db.Atomic(func(tx *repository.Tx) {
		rows = filterAttendances(tx.Attendances(), attendanceFilter{date: date, class: q.Get("class")})
	})
	// an empty date filter would match every row
	if date == "" {
		rows = nil
	}

	report := models.DailyReport{Date: date, Details: make([]models.DailyReportRow, 0, len(rows))}
	s := &report.Summary
	s.TotalStudents = len(rows)
	for _, a := range rows {
		switch a.Status {
		case models.StatusPresent:
			s.Present++
		case models.StatusAbsent:
			s.Absent++
		case models.StatusLate:
			s.Late++
		case models.StatusEarlyLeave:
			s.EarlyLeave++
		case models.StatusPersonalLeave:
			s.PersonalLeave++
		case models.StatusSickLeave:
			s.SickLeave++
		}
		report.Details = append(report.Details, models.DailyReportRow{
			StudentID: a.StudentID,
			Name:      a.Name,
			Class:     a.Class,
			Status:    a.Status,
			Symbol:    a.StatusSymbol,
		})
	}
	s.AttendanceRate = models.AttendanceRate(s.Present, s.TotalStudents)

	return Success(http.StatusOK, report)
}

// DetailsReport handles GET /reports/details.
func (h *Handlers) DetailsReport(req Request) Result {
	q := req.Query()
	period := periodOf(q.Get("start_date"), q.Get("end_date"))
	class, studentID := q.Get("class"), q.Get("student_id")

	report := models.AttendanceDetailsReport{Period: period, Records: []models.DetailsReportItem{}}
	h.db.Atomic(func(tx *repository.Tx) {
		rows := tx.Attendances()
		for _, s := range tx.Students() {
			if (class != "" && s.Class != class) || (studentID != "" && s.StudentID != studentID) {
				continue
			}
			item := models.DetailsReportItem{
				StudentID:         s.StudentID,
				Name:              s.Name,
				Class:             s.Class,
				AttendanceDetails: []models.DetailsReportEntry{},
			}
			for _, a := range rows {
				if a.StudentID == s.StudentID && inPeriod(a.Date, period.StartDate, period.EndDate) {
					item.AttendanceDetails = append(item.AttendanceDetails, models.DetailsReportEntry{
						Date:   a.Date,
						Status: a.Status,
						Symbol: a.StatusSymbol,
					})
				}
			}
			report.Records = append(report.Records, item)
		}
	})
	return Success(http.StatusOK, report)
}

// SummaryReport handles GET /reports/summary.
func (h *Handlers) SummaryReport(req Request) Result {
	q := req.Query()
	period := periodOf(q.Get("start_date"), q.Get("end_date"))
	class := q.Get("class")

	report := models.SummaryReport{Period: period, Summary: []models.SummaryReportRow{}}
	h.db.Atomic(func(tx *repository.Tx) {
		rows := tx.Attendances()
		for _, s := range tx.Students() {
			if class != "" && s.Class != class {
				continue
			}
			row := models.SummaryReportRow{StudentID: s.StudentID, Name: s.Name, Class: s.Class}
			for _, a := range rows {
				if a.StudentID != s.StudentID || !inPeriod(a.Date, period.StartDate, period.EndDate) {
					continue
				}
				row.TotalDays++
				switch a.Status {
				case models.StatusPresent:
					row.PresentCount++
				case models.StatusAbsent:
					row.AbsentCount++
				case models.StatusLate:
					row.LateCount++
				case models.StatusEarlyLeave:
					row.EarlyLeaveCount++
				case models.StatusPersonalLeave:
					row.PersonalLeaveCount++
				case models.StatusSickLeave:
					row.SickLeaveCount++
				}
			}
			row.AttendanceRate = models.AttendanceRate(row.PresentCount, row.TotalDays)
			report.Summary = append(report.Summary, row)
		}
	})
	return Success(http.StatusOK, report)
}

// AbnormalReport handles GET /reports/abnormal. type narrows to one abnormal status.
func (h *Handlers) AbnormalReport(req Request) Result {
	q := req.Query()
	period := periodOf(q.Get("start_date"), q.Get("end_date"))
	rows := h.periodRows(period, q.Get("class"), narrow(models.AbnormalStatuses, q.Get("type")))

	report := models.AbnormalReport{Period: period, AbnormalRecords: make([]models.AbnormalReportRow, 0, len(rows))}
	for _, a := range rows {
		report.AbnormalRecords = append(report.AbnormalRecords, models.AbnormalReportRow{
			StudentID: a.StudentID,
			Name:      a.Name,
			Class:     a.Class,
			Date:      a.Date,
			Status:    a.Status,
			Symbol:    a.StatusSymbol,
			Remark:    a.Remark,
		})
		switch a.Status {
		case models.StatusAbsent:
			report.Statistics.AbsentCount++
		case models.StatusLate:
			report.Statistics.LateCount++
		case models.StatusEarlyLeave:
			report.Statistics.EarlyLeaveCount++
		}
	}
	report.Statistics.TotalAbnormal = len(rows)
	return Success(http.StatusOK, report)
}

// LeaveReport handles GET /reports/leave. type narrows to one leave status.
func (h *Handlers) LeaveReport(req Request) Result {
	q := req.Query()
	period := periodOf(q.Get("start_date"), q.Get("end_date"))
	rows := h.periodRows(period, q.Get("class"), narrow(models.LeaveStatuses, q.Get("type")))

	report := models.LeaveReport{Period: period, LeaveRecords: make([]models.LeaveReportRow, 0, len(rows))}
	for _, a := range rows {
		report.LeaveRecords = append(report.LeaveRecords, models.LeaveReportRow{
			StudentID: a.StudentID,
			Name:      a.Name,
			Class:     a.Class,
			Date:      a.Date,
			Type:      a.Status,
			Symbol:    a.StatusSymbol,
			Remark:    a.Remark,
		})
		switch a.Status {
		case models.StatusPersonalLeave:
			report.Statistics.PersonalLeaveCount++
		case models.StatusSickLeave:
			report.Statistics.SickLeaveCount++
		}
	}
	report.Statistics.TotalLeave = len(rows)
	return Success(http.StatusOK, report)
}

// periodRows returns rows inside the period with one of statuses, optionally within class.
func (h *Handlers) periodRows(period models.DatePeriod, class string, statuses []models.AttendanceStatus) []models.Attendance {
	var out []models.Attendance
	h.db.Atomic(func(tx *repository.Tx) {
		for _, a := range tx.Attendances() {
			if !inPeriod(a.Date, period.StartDate, period.EndDate) {
				continue
			}
			if class != "" && a.Class != class {
				continue
			}
			for _, s := range statuses {
				if a.Status == s {
					out = append(out, a)
					break
				}
			}
		}
	})
	return out
}

// narrow restricts allowed to the single status named by raw when it is one of them.
func narrow(allowed []models.AttendanceStatus, raw string) []models.AttendanceStatus {
	for _, s := range allowed {
		if string(s) == raw {
			return []models.AttendanceStatus{s}
		}
	}
	return allowed
}

func periodOf(start, end string) models.DatePeriod {
	return models.DatePeriod{StartDate: start, EndDate: end}
}
