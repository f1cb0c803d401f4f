package mock

import (
	"sort"
	"strings"

	"github.com/noah-isme/sma-attendance-dashboard/internal/models"
)

// paginate slices one page out of items. Total is always the full match count. Page
// bounds are checked by division so huge page numbers or sizes yield an empty page.
func paginate[T any](items []T, page, pageSize int) models.ListResponse[T] {
	out := models.ListResponse[T]{Total: len(items), Page: page, PageSize: pageSize, Items: []T{}}
	if page < 1 || pageSize < 1 || page-1 >= pageCount(len(items), pageSize) {
		return out
	}
	start := (page - 1) * pageSize
	end := len(items)
	if pageSize < end-start {
		end = start + pageSize
	}
	out.Items = append(out.Items, items[start:end]...)
	return out
}

func pageCount(n, pageSize int) int {
	pages := n / pageSize
	if n%pageSize != 0 {
		pages++
	}
	return pages
}

// sortBy stable-sorts items by the string key; an unknown field keeps input order.
func sortBy[T any](items []T, key func(T) string, order string) {
	if key == nil {
		return
	}
	desc := order == models.OrderDesc
	sort.SliceStable(items, func(i, j int) bool {
		a, b := key(items[i]), key(items[j])
		if desc {
			return a > b
		}
		return a < b
	})
}

func studentKey(field string) func(models.Student) string {
	switch field {
	case models.StudentSortID:
		return func(s models.Student) string { return s.StudentID }
	case models.StudentSortName:
		return func(s models.Student) string { return s.Name }
	case models.StudentSortClass:
		return func(s models.Student) string { return s.Class }
	}
	return nil
}

func attendanceKey(field string) func(models.Attendance) string {
	switch field {
	case models.AttendanceSortStudentID:
		return func(a models.Attendance) string { return a.StudentID }
	case models.AttendanceSortName:
		return func(a models.Attendance) string { return a.Name }
	case models.AttendanceSortDate:
		return func(a models.Attendance) string { return a.Date }
	}
	return nil
}

func filterStudents(students []models.Student, class, keyword string) []models.Student {
	kw := strings.ToLower(keyword)
	out := make([]models.Student, 0, len(students))
	for _, s := range students {
		if class != "" && s.Class != class {
			continue
		}
		if kw != "" && !strings.Contains(strings.ToLower(s.StudentID), kw) && !strings.Contains(strings.ToLower(s.Name), kw) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// attendanceFilter holds the list filters; empty fields match everything.
type attendanceFilter struct {
	studentID string
	name      string
	class     string
	date      string
	startDate string
	endDate   string
	statuses  []models.AttendanceStatus
}

func (f attendanceFilter) match(a models.Attendance) bool {
	switch {
	case f.studentID != "" && a.StudentID != f.studentID:
		return false
	case f.name != "" && !strings.Contains(strings.ToLower(a.Name), strings.ToLower(f.name)):
		return false
	case f.class != "" && a.Class != f.class:
		return false
	case f.date != "" && a.Date != f.date:
		return false
	case f.startDate != "" && a.Date < f.startDate:
		return false
	case f.endDate != "" && a.Date > f.endDate:
		return false
	}
	if len(f.statuses) == 0 {
		return true
	}
	for _, s := range f.statuses {
		if a.Status == s {
			return true
		}
	}
	return false
}

func filterAttendances(rows []models.Attendance, f attendanceFilter) []models.Attendance {
	out := make([]models.Attendance, 0, len(rows))
	for _, a := range rows {
		if f.match(a) {
			out = append(out, a)
		}
	}
	return out
}

// inPeriod reports whether date falls within [start, end]. MM-DD strings order lexically.
func inPeriod(date, start, end string) bool {
	return date >= start && date <= end
}
