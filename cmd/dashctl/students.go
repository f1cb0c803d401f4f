package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/noah-isme/sma-attendance-dashboard/internal/models"
	"github.com/noah-isme/sma-attendance-dashboard/internal/store"
	"github.com/noah-isme/sma-attendance-dashboard/internal/urlsync"
)

const studentsView = "students"

func newStudentsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "students",
		Aliases: []string{"student"},
		Short:   "Browse and edit students",
	}
	cmd.AddCommand(
		newStudentsListCmd(c),
		newStudentsGetCmd(c),
		newStudentsCreateCmd(c),
		newStudentsUpdateCmd(c),
		newStudentsDeleteCmd(c),
	)
	return cmd
}

type studentsListFlags struct {
	page     int
	pageSize int
	sortBy   string
	order    string
	class    string
	keyword  string
}

// patch collects the flags given on the command line. Changing a filter without
// --page goes back to the first page.
func (f *studentsListFlags) patch(cmd *cobra.Command) (urlsync.StudentsPatch, error) {
	var p urlsync.StudentsPatch
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
	if flags.Changed("sort-by") {
		if err := oneOfFlag("sort-by", f.sortBy, models.StudentSortID, models.StudentSortName, models.StudentSortClass); err != nil {
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
	if flags.Changed("class") {
		p.Class = &f.class
	}
	if flags.Changed("keyword") {
		p.Keyword = &f.keyword
	}

	if p.Page == nil && p != (urlsync.StudentsPatch{}) {
		first := models.DefaultPage
		p.Page = &first
	}
	return p, nil
}

func newStudentsListCmd(c *cli) *cobra.Command {
	f := &studentsListFlags{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List students, starting from the state in --url",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			patch, err := f.patch(cmd)
			if err != nil {
				return err
			}

			a := c.app
			ctx := cmd.Context()
			st := store.NewStudentsStore(a.api, a.validate, a.component("students"))
			loc := a.location()
			syncer := urlsync.NewSynchronizer[models.StudentsQuery](urlsync.StudentsCodec{}, loc, st,
				urlsync.WithLogger[models.StudentsQuery](a.component("urlsync")))

			if err := syncer.Hydrate(ctx); err != nil {
				return viewError(st.Snapshot().Error, err)
			}
			if patch != (urlsync.StudentsPatch{}) {
				if err := st.FetchList(ctx, patch); err != nil {
					return viewError(st.Snapshot().Error, err)
				}
			}
			syncer.SyncToURL()

			snap := st.Snapshot()
			if err := a.emit(snap.List, func(w io.Writer) error {
				return writeList(w, snap.List, studentsDataset(listItems(snap.List)))
			}); err != nil {
				return err
			}
			a.printLink(studentsView, loc)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.IntVar(&f.page, "page", models.DefaultPage, "page number")
	fl.IntVar(&f.pageSize, "page-size", models.DefaultPageSize, "rows per page")
	fl.StringVar(&f.sortBy, "sort-by", models.StudentSortID, "sort field: student_id, name or class")
	fl.StringVar(&f.order, "order", models.OrderAsc, "sort order: asc or desc")
	fl.StringVar(&f.class, "class", "", "only this class")
	fl.StringVar(&f.keyword, "keyword", "", "match student id or name")
	return cmd
}

func newStudentsGetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "get STUDENT_ID",
		Short: "Show one student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			st := store.NewStudentsStore(a.api, a.validate, a.component("students"))
			if err := st.FetchOne(cmd.Context(), args[0]); err != nil {
				return viewError(st.Snapshot().Error, err)
			}
			return a.emitStudent(*st.Snapshot().Selected)
		},
	}
}

func newStudentsCreateCmd(c *cli) *cobra.Command {
	var in models.StudentCreate
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a student",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := c.app
			st := a.studentsStoreAt()
			created, err := st.Create(cmd.Context(), in)
			if err != nil {
				return viewError(st.Snapshot().Error, err)
			}
			return a.afterStudentMutation(st, &created, "created")
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&in.StudentID, "id", "", "student id")
	fl.StringVar(&in.Name, "name", "", "student name")
	fl.StringVar(&in.Class, "class", "", "class name")
	return cmd
}

func newStudentsUpdateCmd(c *cli) *cobra.Command {
	var name, class string
	cmd := &cobra.Command{
		Use:   "update STUDENT_ID",
		Short: "Change a student's name or class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in models.StudentUpdate
			if cmd.Flags().Changed("name") {
				in.Name = &name
			}
			if cmd.Flags().Changed("class") {
				in.Class = &class
			}
			if in.Name == nil && in.Class == nil {
				return fmt.Errorf("nothing to update, pass --name or --class")
			}

			a := c.app
			st := a.studentsStoreAt()
			updated, err := st.Update(cmd.Context(), args[0], in)
			if err != nil {
				return viewError(st.Snapshot().Error, err)
			}
			return a.afterStudentMutation(st, &updated, "updated")
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&class, "class", "", "new class")
	return cmd
}

func newStudentsDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete STUDENT_ID",
		Short: "Remove a student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			st := a.studentsStoreAt()
			if err := st.Remove(cmd.Context(), args[0]); err != nil {
				return viewError(st.Snapshot().Error, err)
			}
			return a.afterStudentMutation(st, nil, "deleted "+args[0])
		},
	}
}

// studentsStoreAt builds a students store whose query is the view state in --url, so
// the reload after a mutation shows the page the link points at.
func (a *app) studentsStoreAt() *store.StudentsStore {
	st := store.NewStudentsStore(a.api, a.validate, a.component("students"))
	st.SetQuery(urlsync.DecodeStudents(urlsync.Parse(a.location().Query())))
	return st
}

func (a *app) afterStudentMutation(st *store.StudentsStore, changed *models.Student, verb string) error {
	snap := st.Snapshot()
	if a.jsonOutput() {
		if changed != nil {
			return a.emit(changed, nil)
		}
		return a.emit(map[string]string{"result": verb}, nil)
	}

	if changed != nil {
		fmt.Fprintf(a.out, "%s %s %s (%s)\n\n", verb, changed.StudentID, changed.Name, changed.Class)
	} else {
		fmt.Fprintf(a.out, "%s\n\n", verb)
	}
	if snap.Error != "" {
		fmt.Fprintf(a.out, "reload failed: %s\n", snap.Error)
		return nil
	}
	return writeList(a.out, snap.List, studentsDataset(listItems(snap.List)))
}

func (a *app) emitStudent(s models.Student) error {
	return a.emit(s, func(w io.Writer) error {
		return writeTable(w, studentsDataset([]models.Student{s}))
	})
}

func listItems[T any](list *models.ListResponse[T]) []T {
	if list == nil {
		return nil
	}
	return list.Items
}

func positiveFlag(name string, v int) error {
	if v <= 0 {
		return fmt.Errorf("--%s must be a positive number", name)
	}
	return nil
}

func oneOfFlag(name, v string, allowed ...string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return fmt.Errorf("--%s must be one of %v", name, allowed)
}
