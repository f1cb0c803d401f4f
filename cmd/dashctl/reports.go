package main

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noah-isme/sma-attendance-dashboard/internal/models"
	"github.com/noah-isme/sma-attendance-dashboard/internal/store"
	"github.com/noah-isme/sma-attendance-dashboard/internal/urlsync"
	"github.com/noah-isme/sma-attendance-dashboard/pkg/export"
)

const reportsView = "reports"

// errNoReportData is returned when a CSV export is asked for an empty report.
var errNoReportData = errors.New("暂无数据可导出")

type reportsFlags struct {
	date      string
	startDate string
	endDate   string
	class     string
	studentID string
	kind      string
	csv       bool
}

func newReportsCmd(c *cli) *cobra.Command {
	f := &reportsFlags{}
	tabs := make([]string, 0, len(models.ReportTabs))
	for _, t := range models.ReportTabs {
		tabs = append(tabs, string(t))
	}

	cmd := &cobra.Command{
		Use:       "reports [" + strings.Join(tabs, "|") + "]",
		Aliases:   []string{"report"},
		Short:     "Show a report; filters persist between runs",
		Long:      "Shows one report tab. The tab and its filters come from the argument and flags, then --url, then the last run.",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: tabs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			ctx := cmd.Context()
			loc := a.location()
			persisted := a.prefs.LoadReports(ctx, a.now())

			tab := persisted.Tab
			if t := urlsync.DecodeTab(urlsync.Parse(loc.Query())); t != nil {
				tab = *t
			}
			if len(args) == 1 {
				tab = models.ReportsTab(args[0])
			}
			if err := f.validate(cmd, tab); err != nil {
				return err
			}

			st := store.NewReportsStore(a.api, persisted, a.component("reports"))
			syncer := urlsync.NewSynchronizer[urlsync.ReportsState](urlsync.ReportsCodec{}, loc, st,
				urlsync.WithLogger[urlsync.ReportsState](a.component("urlsync")),
				urlsync.WithHydrateBase(func(v url.Values) urlsync.ReportsState {
					next := urlsync.DecodeReports(v, persisted)
					next.Tab = tab
					return f.overlay(cmd, next)
				}),
			)

			if err := syncer.Hydrate(ctx); err != nil {
				return viewError(st.Snapshot().Error, err)
			}
			syncer.SyncToURL()
			a.prefs.SaveReports(ctx, st.Query())

			snap := st.Snapshot()
			payload, data, heading := reportView(snap)
			if err := a.emit(payload, func(w io.Writer) error {
				if heading != "" {
					fmt.Fprintf(w, "%s\n\n", heading)
				}
				return writeTable(w, data)
			}); err != nil {
				return err
			}

			if f.csv {
				path, err := a.saveReportCSV(snap.State, data)
				if err != nil {
					return err
				}
				if !a.jsonOutput() {
					fmt.Fprintf(a.out, "\nsaved %s\n", path)
				}
			}
			a.printLink(reportsView, loc)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.date, "date", "", "daily: report day (MM-DD)")
	fl.StringVar(&f.startDate, "start", "", "period reports: first day (MM-DD)")
	fl.StringVar(&f.endDate, "end", "", "period reports: last day (MM-DD)")
	fl.StringVar(&f.class, "class", "", "only this class")
	fl.StringVar(&f.studentID, "student", "", "details: only this student id")
	fl.StringVar(&f.kind, "type", "", "abnormal and leave: only this status")
	fl.BoolVar(&f.csv, "csv", false, "also save the report as CSV in the exports directory")
	return cmd
}

// validate rejects flags that do not apply to tab or carry malformed values.
func (f *reportsFlags) validate(cmd *cobra.Command, tab models.ReportsTab) error {
	fl := cmd.Flags()
	only := func(name string, tabs ...models.ReportsTab) error {
		if !fl.Changed(name) {
			return nil
		}
		for _, t := range tabs {
			if t == tab {
				return nil
			}
		}
		return fmt.Errorf("--%s does not apply to the %s report", name, tab)
	}

	periodTabs := []models.ReportsTab{models.TabDetails, models.TabSummary, models.TabAbnormal, models.TabLeave}
	checks := []error{
		only("date", models.TabDaily),
		only("start", periodTabs...),
		only("end", periodTabs...),
		only("student", models.TabDetails),
		only("type", models.TabAbnormal, models.TabLeave),
		dateFlag("date", f.date),
		dateFlag("start", f.startDate),
		dateFlag("end", f.endDate),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}

	if fl.Changed("type") && f.kind != "" {
		allowed := models.AbnormalStatuses
		if tab == models.TabLeave {
			allowed = models.LeaveStatuses
		}
		for _, s := range allowed {
			if string(s) == f.kind {
				return nil
			}
		}
		return fmt.Errorf("--type %q does not apply to the %s report, want one of %v", f.kind, tab, allowed)
	}
	return nil
}

// overlay applies the flags given on the command line to the active tab's filters.
func (f *reportsFlags) overlay(cmd *cobra.Command, st urlsync.ReportsState) urlsync.ReportsState {
	fl := cmd.Flags()
	set := func(name string, dst *string, v string) {
		if fl.Changed(name) {
			*dst = v
		}
	}
	setType := func(dst *models.AttendanceStatus) {
		if fl.Changed("type") {
			*dst = models.AttendanceStatus(f.kind)
		}
	}

	switch st.Tab {
	case models.TabDaily:
		set("date", &st.Daily.Date, f.date)
		set("class", &st.Daily.Class, f.class)
	case models.TabDetails:
		set("start", &st.Details.StartDate, f.startDate)
		set("end", &st.Details.EndDate, f.endDate)
		set("class", &st.Details.Class, f.class)
		set("student", &st.Details.StudentID, f.studentID)
	case models.TabSummary:
		set("start", &st.Summary.StartDate, f.startDate)
		set("end", &st.Summary.EndDate, f.endDate)
		set("class", &st.Summary.Class, f.class)
	case models.TabAbnormal:
		set("start", &st.Abnormal.StartDate, f.startDate)
		set("end", &st.Abnormal.EndDate, f.endDate)
		set("class", &st.Abnormal.Class, f.class)
		setType(&st.Abnormal.Type)
	case models.TabLeave:
		set("start", &st.Leave.StartDate, f.startDate)
		set("end", &st.Leave.EndDate, f.endDate)
		set("class", &st.Leave.Class, f.class)
		setType(&st.Leave.Type)
	}
	return st
}

// reportView picks the active tab's result and lays it out as a table with a heading.
func reportView(snap store.ReportsSnapshot) (any, export.Dataset, string) {
	switch snap.State.Tab {
	case models.TabDetails:
		if r := snap.Details; r != nil {
			return r, detailsDataset(r), fmt.Sprintf("details %s ~ %s", r.Period.StartDate, r.Period.EndDate)
		}
	case models.TabSummary:
		if r := snap.Summary; r != nil {
			return r, summaryDataset(r), fmt.Sprintf("summary %s ~ %s", r.Period.StartDate, r.Period.EndDate)
		}
	case models.TabAbnormal:
		if r := snap.Abnormal; r != nil {
			s := r.Statistics
			return r, abnormalDataset(r), fmt.Sprintf("abnormal %s ~ %s: %d total, 旷课 %d, 迟到 %d, 早退 %d",
				r.Period.StartDate, r.Period.EndDate, s.TotalAbnormal, s.AbsentCount, s.LateCount, s.EarlyLeaveCount)
		}
	case models.TabLeave:
		if r := snap.Leave; r != nil {
			s := r.Statistics
			return r, leaveDataset(r), fmt.Sprintf("leave %s ~ %s: %d total, 事假 %d, 病假 %d",
				r.Period.StartDate, r.Period.EndDate, s.TotalLeave, s.PersonalLeaveCount, s.SickLeaveCount)
		}
	default:
		if r := snap.Daily; r != nil {
			s := r.Summary
			return r, dailyDataset(r), fmt.Sprintf("daily %s: %d students, 出勤 %d, 旷课 %d, 迟到 %d, 早退 %d, 事假 %d, 病假 %d, 出勤率 %s",
				r.Date, s.TotalStudents, s.Present, s.Absent, s.Late, s.EarlyLeave, s.PersonalLeave, s.SickLeave, s.AttendanceRate)
		}
	}
	return nil, export.Dataset{}, ""
}

// reportFileName names a report CSV after its tab, date range and class.
func reportFileName(st urlsync.ReportsState) string {
	var parts []string
	var class string
	switch st.Tab {
	case models.TabDetails:
		parts, class = []string{st.Details.StartDate, st.Details.EndDate}, st.Details.Class
	case models.TabSummary:
		parts, class = []string{st.Summary.StartDate, st.Summary.EndDate}, st.Summary.Class
	case models.TabAbnormal:
		parts, class = []string{st.Abnormal.StartDate, st.Abnormal.EndDate}, st.Abnormal.Class
	case models.TabLeave:
		parts, class = []string{st.Leave.StartDate, st.Leave.EndDate}, st.Leave.Class
	default:
		parts, class = []string{st.Daily.Date}, st.Daily.Class
	}
	if class != "" {
		parts = append(parts, class)
	}
	return "report-" + string(st.Tab) + "-" + strings.Join(parts, "-") + ".csv"
}

// saveReportCSV writes the report table as a BOM-prefixed CRLF CSV.
func (a *app) saveReportCSV(st urlsync.ReportsState, data export.Dataset) (string, error) {
	if len(data.Rows) == 0 {
		return "", errNoReportData
	}
	body, err := export.NewCSVExporter(export.WithBOM(), export.WithCRLF()).Render(data)
	if err != nil {
		return "", fmt.Errorf("render csv: %w", err)
	}
	files, err := a.exportsStorage()
	if err != nil {
		return "", err
	}
	return files.Save(reportFileName(st), body)
}
