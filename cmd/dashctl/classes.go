package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/noah-isme/sma-attendance-dashboard/internal/store"
)

func newClassesCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "classes",
		Aliases: []string{"class"},
		Short:   "Classes and their rosters",
	}
	cmd.AddCommand(newClassesListCmd(c), newClassesShowCmd(c))
	return cmd
}

func newClassesListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List classes with headcounts; * marks the remembered class",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := c.app
			st, err := a.loadClasses(cmd)
			if err != nil {
				return err
			}
			snap := st.Snapshot()
			return a.emit(snap.Classes, func(w io.Writer) error {
				return writeTable(w, classesDataset(snap.Classes, snap.SelectedClass))
			})
		},
	}
}

func newClassesShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show [CLASS]",
		Short: "Show a class roster; without CLASS the remembered class is used",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			ctx := cmd.Context()
			st, err := a.loadClasses(cmd)
			if err != nil {
				return err
			}

			class := st.Snapshot().SelectedClass
			if len(args) == 1 {
				class = args[0]
				if !st.Has(class) {
					return fmt.Errorf("unknown class %q", class)
				}
			}
			if class == "" {
				return errors.New("no class remembered, pass CLASS")
			}

			if err := st.FetchClassStudents(ctx, class); err != nil {
				return viewError(st.Snapshot().Error, err)
			}
			a.prefs.SelectedClass().Set(ctx, class)

			roster := st.Snapshot().ClassStudents
			return a.emit(roster, func(w io.Writer) error {
				fmt.Fprintf(w, "%s: %d students\n\n", roster.Class, len(roster.Students))
				return writeTable(w, rosterDataset(roster.Students))
			})
		},
	}
}

// loadClasses fetches the class list and restores the remembered selection, forgetting
// it when the class is gone.
func (a *app) loadClasses(cmd *cobra.Command) (*store.ClassesStore, error) {
	ctx := cmd.Context()
	st := store.NewClassesStore(a.api, a.component("classes"))
	if err := st.FetchClasses(ctx); err != nil {
		return nil, viewError(st.Snapshot().Error, err)
	}

	pref := a.prefs.SelectedClass()
	saved := pref.Get(ctx)
	if restored := st.Restore(saved); restored != saved {
		pref.Clear(ctx)
	}
	return st, nil
}
