package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noah-isme/sma-attendance-dashboard/internal/models"
	"github.com/noah-isme/sma-attendance-dashboard/internal/store"
	"github.com/noah-isme/sma-attendance-dashboard/internal/urlsync"
)

const attendancesView = "attendances"

func newAttendancesCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "attendances",
		Aliases: []string{"attendance", "att"},
		Short:   "Browse and edit attendance records",
	}
	cmd.AddCommand(
		newAttendancesListCmd(c),
		newAttendancesGetCmd(c),
		newAttendancesCreateCmd(c),
		newAttendancesBatchCmd(c),
		newAttendancesUpdateCmd(c),
		newAttendancesDeleteCmd(c),
	)
	return cmd
}

type attendancesListFlags struct {
	page      int
	pageSize  int
	studentID string
	name      string
	class     string
	date      string
	startDate string
	endDate   string
	status    string
	sortBy    string
	order     string
}

func (f *attendancesListFlags) patch(cmd *cobra.Command) (urlsync.AttendancesPatch, error) {
	var p urlsync.AttendancesPatch
	flags := cmd.Flags()

	if flags.Changed("page") {
		if err := positiveFlag("page", f.page); err != nil {
			return p, err
		}
		p.Page = &f.page
	}
	if flags.Changed("page-size") {
		if err := positiveFlag("page-size", f.pageSize); err != nil {
			return p, err
		}
		p.PageSize = &f.pageSize
	}
	strFlags := []struct {
		name string
		dst  **string
		val  *string
	}{
		{"student", &p.StudentID, &f.studentID},
		{"name", &p.Name, &f.name},
		{"class", &p.Class, &f.class},
	}
	for _, s := range strFlags {
		if flags.Changed(s.name) {
			*s.dst = s.val
		}
	}
	dateFlags := []struct {
		name string
		dst  **string
		val  *string
	}{
		{"date", &p.Date, &f.date},
		{"start", &p.StartDate, &f.startDate},
		{"end", &p.EndDate, &f.endDate},
	}
	for _, d := range dateFlags {
		if !flags.Changed(d.name) {
			continue
		}
		if err := dateFlag(d.name, *d.val); err != nil {
			return p, err
		}
		*d.dst = d.val
	}
	if flags.Changed("status") {
		status, err := statusFlag("status", f.status)
		if err != nil {
			return p, err
		}
		p.Status = &status
	}
	if flags.Changed("sort-by") {
		if err := oneOfFlag("sort-by", f.sortBy, models.AttendanceSortStudentID, models.AttendanceSortName, models.AttendanceSortDate); err != nil {
			return p, err
		}
		p.SortBy = &f.sortBy
	}
	if flags.Changed("order") {
		if err := oneOfFlag("order", f.order, models.OrderAsc, models.OrderDesc); err != nil {
			return p, err
		}
		p.Order = &f.order
	}

	if p.Page == nil && p != (urlsync.AttendancesPatch{}) {
		first := models.DefaultPage
		p.Page = &first
	}
	return p, nil
}

func newAttendancesListCmd(c *cli) *cobra.Command {
	f := &attendancesListFlags{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List attendance records, starting from the state in --url",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			patch, err := f.patch(cmd)
			if err != nil {
				return err
			}

			a := c.app
			ctx := cmd.Context()
			st := store.NewAttendancesStore(a.api, a.validate, a.component("attendances"))
			loc := a.location()
			syncer := urlsync.NewSynchronizer[models.AttendancesQuery](urlsync.AttendancesCodec{}, loc, st,
				urlsync.WithLogger[models.AttendancesQuery](a.component("urlsync")))

			if err := syncer.Hydrate(ctx); err != nil {
				return viewError(st.Snapshot().Error, err)
			}
			if patch != (urlsync.AttendancesPatch{}) {
				if err := st.FetchList(ctx, patch); err != nil {
					return viewError(st.Snapshot().Error, err)
				}
			}
			syncer.SyncToURL()

			snap := st.Snapshot()
			if err := a.emit(snap.List, func(w io.Writer) error {
				return writeList(w, snap.List, attendancesDataset(listItems(snap.List)))
			}); err != nil {
				return err
			}
			a.printLink(attendancesView, loc)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.IntVar(&f.page, "page", models.DefaultPage, "page number")
	fl.IntVar(&f.pageSize, "page-size", models.DefaultPageSize, "rows per page")
	fl.StringVar(&f.studentID, "student", "", "only this student id")
	fl.StringVar(&f.name, "name", "", "match student name")
	fl.StringVar(&f.class, "class", "", "only this class")
	fl.StringVar(&f.date, "date", "", "only this day (MM-DD)")
	fl.StringVar(&f.startDate, "start", "", "first day (MM-DD)")
	fl.StringVar(&f.endDate, "end", "", "last day (MM-DD)")
	fl.StringVar(&f.status, "status", "", "only this status")
	fl.StringVar(&f.sortBy, "sort-by", "", "sort field: student_id, name or date")
	fl.StringVar(&f.order, "order", models.OrderAsc, "sort order: asc or desc")
	return cmd
}

func newAttendancesGetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one attendance record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := recordID(args[0])
			if err != nil {
				return err
			}
			a := c.app
			st := store.NewAttendancesStore(a.api, a.validate, a.component("attendances"))
			if err := st.FetchOne(cmd.Context(), id); err != nil {
				return viewError(st.Snapshot().Error, err)
			}
			rec := *st.Snapshot().Selected
			return a.emit(rec, func(w io.Writer) error {
				return writeTable(w, attendancesDataset([]models.Attendance{rec}))
			})
		},
	}
}

func newAttendancesCreateCmd(c *cli) *cobra.Command {
	var (
		in     models.AttendanceCreate
		status string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record one student's attendance for a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Status = models.AttendanceStatus(status)
			a := c.app
			st := a.attendancesStoreAt()
			created, err := st.Create(cmd.Context(), in)
			if err != nil {
				return viewError(st.Snapshot().Error, err)
			}
			return a.afterAttendanceMutation(st, created, fmt.Sprintf("created #%d", created.ID))
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&in.StudentID, "student", "", "student id")
	fl.StringVar(&in.Date, "date", "", "day (MM-DD)")
	fl.StringVar(&status, "status", "", "attendance status")
	fl.StringVar(&in.Remark, "remark", "", "remark")
	return cmd
}

func newAttendancesBatchCmd(c *cli) *cobra.Command {
	var (
		date    string
		records []string
		class   string
		status  string
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Record a day for many students at once",
		Long: "Each --record is STUDENT_ID=STATUS. With --class and --status every student of the class\n" +
			"not named by a --record gets that status.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := models.AttendanceBatchCreate{Date: date}
			listed := map[string]struct{}{}
			for _, raw := range records {
				rec, err := parseBatchRecord(raw)
				if err != nil {
					return err
				}
				listed[rec.StudentID] = struct{}{}
				in.Records = append(in.Records, rec)
			}

			a := c.app
			ctx := cmd.Context()
			if class != "" {
				fill, err := statusFlag("status", status)
				if err != nil {
					return err
				}
				roster, err := a.api.ClassStudents(ctx, class)
				if err != nil {
					return viewError("加载班级学生失败", err)
				}
				for _, s := range roster.Students {
					if _, ok := listed[s.StudentID]; ok {
						continue
					}
					in.Records = append(in.Records, models.AttendanceBatchRecord{StudentID: s.StudentID, Status: fill})
				}
			}
			if len(in.Records) == 0 {
				return fmt.Errorf("no records, pass --record or --class with --status")
			}

			st := a.attendancesStoreAt()
			result, err := st.BatchCreate(ctx, in)
			if err != nil {
				return viewError(st.Snapshot().Error, err)
			}
			if a.jsonOutput() {
				return a.emit(result, nil)
			}
			fmt.Fprintf(a.out, "created %d of %d records for %s\n\n", result.CreatedCount, len(in.Records), date)
			return a.writeAttendancesReload(st)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&date, "date", "", "day (MM-DD)")
	fl.StringArrayVar(&records, "record", nil, "STUDENT_ID=STATUS, repeatable")
	fl.StringVar(&class, "class", "", "fill the rest of this class")
	fl.StringVar(&status, "status", string(models.StatusPresent), "status used with --class")
	return cmd
}

func newAttendancesUpdateCmd(c *cli) *cobra.Command {
	var status, remark string
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change a record's status or remark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := recordID(args[0])
			if err != nil {
				return err
			}
			var in models.AttendanceUpdate
			if cmd.Flags().Changed("status") {
				s := models.AttendanceStatus(status)
				in.Status = &s
			}
			if cmd.Flags().Changed("remark") {
				in.Remark = &remark
			}
			if in.Status == nil && in.Remark == nil {
				return fmt.Errorf("nothing to update, pass --status or --remark")
			}

			a := c.app
			st := a.attendancesStoreAt()
			updated, err := st.Update(cmd.Context(), id, in)
			if err != nil {
				return viewError(st.Snapshot().Error, err)
			}
			return a.afterAttendanceMutation(st, updated, fmt.Sprintf("updated #%d", updated.ID))
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "new status")
	cmd.Flags().StringVar(&remark, "remark", "", "new remark")
	return cmd
}

func newAttendancesDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Remove an attendance record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := recordID(args[0])
			if err != nil {
				return err
			}
			a := c.app
			st := a.attendancesStoreAt()
			if err := st.Remove(cmd.Context(), id); err != nil {
				return viewError(st.Snapshot().Error, err)
			}
			if a.jsonOutput() {
				return a.emit(map[string]int{"deleted": id}, nil)
			}
			fmt.Fprintf(a.out, "deleted #%d\n\n", id)
			return a.writeAttendancesReload(st)
		},
	}
}

func (a *app) attendancesStoreAt() *store.AttendancesStore {
	st := store.NewAttendancesStore(a.api, a.validate, a.component("attendances"))
	st.SetQuery(urlsync.DecodeAttendances(urlsync.Parse(a.location().Query())))
	return st
}

func (a *app) afterAttendanceMutation(st *store.AttendancesStore, rec models.Attendance, verb string) error {
	if a.jsonOutput() {
		return a.emit(rec, nil)
	}
	fmt.Fprintf(a.out, "%s %s %s %s %s\n\n", verb, rec.StudentID, rec.Name, rec.Date, statusCell(rec.Status))
	return a.writeAttendancesReload(st)
}

func (a *app) writeAttendancesReload(st *store.AttendancesStore) error {
	snap := st.Snapshot()
	if snap.Error != "" {
		fmt.Fprintf(a.out, "reload failed: %s\n", snap.Error)
		return nil
	}
	return writeList(a.out, snap.List, attendancesDataset(listItems(snap.List)))
}

func parseBatchRecord(raw string) (models.AttendanceBatchRecord, error) {
	id, status, ok := strings.Cut(raw, "=")
	id = strings.TrimSpace(id)
	if !ok || id == "" {
		return models.AttendanceBatchRecord{}, fmt.Errorf("--record %q: want STUDENT_ID=STATUS", raw)
	}
	s, err := statusFlag("record", strings.TrimSpace(status))
	if err != nil {
		return models.AttendanceBatchRecord{}, err
	}
	return models.AttendanceBatchRecord{StudentID: id, Status: s}, nil
}

func recordID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid attendance id %q", raw)
	}
	return id, nil
}

func statusFlag(name, raw string) (models.AttendanceStatus, error) {
	s, ok := models.ParseStatus(raw)
	if !ok {
		return "", fmt.Errorf("--%s: unknown status %q", name, raw)
	}
	return s, nil
}

func dateFlag(name, raw string) error {
	if raw != "" && !models.IsMMDD(raw) {
		return fmt.Errorf("--%s must be MM-DD, got %q", name, raw)
	}
	return nil
}
