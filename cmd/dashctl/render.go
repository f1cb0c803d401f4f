package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/noah-isme/sma-attendance-dashboard/internal/models"
	"github.com/noah-isme/sma-attendance-dashboard/internal/pagination"
	"github.com/noah-isme/sma-attendance-dashboard/pkg/export"
)

const missingCell = "-"

// writeTable prints a dataset as aligned columns.
func writeTable(w io.Writer, data export.Dataset) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(data.Headers, "\t"))
	for _, row := range data.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// pager renders the pagination control, current page in brackets. It is empty when
// everything fits on one page.
func pager(page, pageSize, total int) string {
	totalPages := pagination.TotalPages(total, pageSize)
	if totalPages <= 1 {
		return ""
	}

	parts := make([]string, 0, 7)
	for _, item := range pagination.Window(page, totalPages) {
		switch {
		case item.Ellipsis:
			parts = append(parts, "…")
		case item.Page == page:
			parts = append(parts, "["+strconv.Itoa(item.Page)+"]")
		default:
			parts = append(parts, strconv.Itoa(item.Page))
		}
	}
	return strings.Join(parts, " ")
}

// writeList prints one page of a list response with its footer.
func writeList[T any](w io.Writer, list *models.ListResponse[T], data export.Dataset) error {
	if list == nil {
		return nil
	}
	if err := writeTable(w, data); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%d total, page %d of %d\n", list.Total, list.Page, pagination.TotalPages(list.Total, list.PageSize))
	if p := pager(list.Page, list.PageSize, list.Total); p != "" {
		fmt.Fprintln(w, p)
	}
	return nil
}

func statusCell(s models.AttendanceStatus) string {
	if !s.Valid() {
		return string(s)
	}
	return s.Symbol() + " " + s.Label()
}

func studentsDataset(items []models.Student) export.Dataset {
	rows := make([][]string, 0, len(items))
	for _, s := range items {
		rows = append(rows, []string{s.StudentID, s.Name, s.Class})
	}
	return export.Dataset{Headers: []string{"学号", "姓名", "班级"}, Rows: rows}
}

func attendancesDataset(items []models.Attendance) export.Dataset {
	rows := make([][]string, 0, len(items))
	for _, a := range items {
		rows = append(rows, []string{
			strconv.Itoa(a.ID), a.StudentID, a.Name, a.Class, a.Date, statusCell(a.Status), a.Remark,
		})
	}
	return export.Dataset{Headers: []string{"ID", "学号", "姓名", "班级", "日期", "状态", "备注"}, Rows: rows}
}

func classesDataset(items []models.ClassInfo, selected string) export.Dataset {
	rows := make([][]string, 0, len(items))
	for _, c := range items {
		mark := ""
		if c.Name == selected {
			mark = "*"
		}
		rows = append(rows, []string{mark, c.Name, strconv.Itoa(c.StudentCount)})
	}
	return export.Dataset{Headers: []string{"", "班级", "人数"}, Rows: rows}
}

func rosterDataset(items []models.StudentBasic) export.Dataset {
	rows := make([][]string, 0, len(items))
	for _, s := range items {
		rows = append(rows, []string{s.StudentID, s.Name})
	}
	return export.Dataset{Headers: []string{"学号", "姓名"}, Rows: rows}
}

func dailyDataset(r *models.DailyReport) export.Dataset {
	rows := make([][]string, 0, len(r.Details))
	for _, d := range r.Details {
		rows = append(rows, []string{d.StudentID, d.Name, d.Class, statusCell(d.Status)})
	}
	return export.Dataset{Headers: []string{"学号", "姓名", "班级", "状态"}, Rows: rows}
}

// detailsDataset lays out one column per date seen in any record, sorted; days without
// a record show "-".
func detailsDataset(r *models.AttendanceDetailsReport) export.Dataset {
	seen := map[string]struct{}{}
	var dates []string
	for _, rec := range r.Records {
		for _, d := range rec.AttendanceDetails {
			if _, ok := seen[d.Date]; !ok {
				seen[d.Date] = struct{}{}
				dates = append(dates, d.Date)
			}
		}
	}
	sort.Strings(dates)

	rows := make([][]string, 0, len(r.Records))
	for _, rec := range r.Records {
		symbols := make(map[string]string, len(rec.AttendanceDetails))
		for _, d := range rec.AttendanceDetails {
			symbols[d.Date] = d.Symbol
		}
		row := []string{rec.StudentID, rec.Name, rec.Class}
		for _, date := range dates {
			cell, ok := symbols[date]
			if !ok || cell == "" {
				cell = missingCell
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}
	return export.Dataset{Headers: append([]string{"学号", "姓名", "班级"}, dates...), Rows: rows}
}

func summaryDataset(r *models.SummaryReport) export.Dataset {
	rows := make([][]string, 0, len(r.Summary))
	for _, s := range r.Summary {
		rows = append(rows, []string{
			s.StudentID, s.Name, s.Class,
			strconv.Itoa(s.TotalDays),
			strconv.Itoa(s.PresentCount),
			strconv.Itoa(s.AbsentCount),
			strconv.Itoa(s.LateCount),
			strconv.Itoa(s.EarlyLeaveCount),
			strconv.Itoa(s.PersonalLeaveCount),
			strconv.Itoa(s.SickLeaveCount),
			s.AttendanceRate,
		})
	}
	return export.Dataset{
		Headers: []string{"学号", "姓名", "班级", "总天数", "出勤", "旷课", "迟到", "早退", "事假", "病假", "出勤率"},
		Rows:    rows,
	}
}

func abnormalDataset(r *models.AbnormalReport) export.Dataset {
	rows := make([][]string, 0, len(r.AbnormalRecords))
	for _, a := range r.AbnormalRecords {
		rows = append(rows, []string{a.StudentID, a.Name, a.Class, a.Date, statusCell(a.Status), a.Remark})
	}
	return export.Dataset{Headers: []string{"学号", "姓名", "班级", "日期", "状态", "备注"}, Rows: rows}
}

func leaveDataset(r *models.LeaveReport) export.Dataset {
	rows := make([][]string, 0, len(r.LeaveRecords))
	for _, l := range r.LeaveRecords {
		rows = append(rows, []string{l.StudentID, l.Name, l.Class, l.Date, statusCell(l.Type), l.Remark})
	}
	return export.Dataset{Headers: []string{"学号", "姓名", "班级", "日期", "类型", "备注"}, Rows: rows}
}

func importErrorsDataset(errs []models.ImportError) export.Dataset {
	rows := make([][]string, 0, len(errs))
	for _, e := range errs {
		rows = append(rows, []string{strconv.Itoa(e.Line), e.Message})
	}
	return export.Dataset{Headers: []string{"行", "错误"}, Rows: rows}
}
