package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/noah-isme/sma-attendance-dashboard/internal/models"
	"github.com/noah-isme/sma-attendance-dashboard/internal/store"
)

func newDataCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Export and import students and attendance records",
	}
	cmd.AddCommand(newDataExportCmd(c), newDataImportCmd(c))
	return cmd
}

func newDataExportCmd(c *cli) *cobra.Command {
	var kind, format, name string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download a dataset into the exports directory; type and format are remembered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := c.app
			ctx := cmd.Context()

			typePref, formatPref := a.prefs.ExportType(), a.prefs.ExportFormat()
			exportType, exportFormat := typePref.Get(ctx), formatPref.Get(ctx)
			if cmd.Flags().Changed("type") {
				if err := oneOfFlag("type", kind, string(models.ExportStudents), string(models.ExportAttendances), string(models.ExportAll)); err != nil {
					return err
				}
				exportType = models.ExportType(kind)
			}
			if cmd.Flags().Changed("format") {
				if err := oneOfFlag("format", format, string(models.FormatJSON), string(models.FormatCSV), string(models.FormatPDF)); err != nil {
					return err
				}
				exportFormat = models.ExportFormat(format)
			}

			st := store.NewDataStore(a.api, a.component("data"))
			content, err := st.Export(ctx, exportType, exportFormat)
			if err != nil {
				return viewError(st.Snapshot().Error, err)
			}
			typePref.Set(ctx, exportType)
			formatPref.Set(ctx, exportFormat)

			if name == "" {
				name = fmt.Sprintf("%s-%s.%s", exportType, a.now().Format("20060102-150405"), content.Format)
			}
			files, err := a.exportsStorage()
			if err != nil {
				return err
			}
			path, err := files.Save(name, content.Body)
			if err != nil {
				return err
			}

			result := map[string]any{"path": path, "format": content.Format, "bytes": len(content.Body)}
			return a.emit(result, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "saved %s (%s, %d bytes)\n", path, content.Format, len(content.Body))
				return err
			})
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&kind, "type", "", "students, attendances or all (default: last used, else students)")
	fl.StringVar(&format, "format", "", "json, csv or pdf (default: last used, else csv); type all is always json")
	fl.StringVar(&name, "name", "", "file name inside the exports directory")
	return cmd
}

func newDataImportCmd(c *cli) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Upload a JSON or CSV file of students or attendance records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			ctx := cmd.Context()

			pref := a.prefs.ImportType()
			importType := pref.Get(ctx)
			if cmd.Flags().Changed("type") {
				if err := oneOfFlag("type", kind, string(models.ImportStudents), string(models.ImportAttendances)); err != nil {
					return err
				}
				importType = models.ImportType(kind)
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open import file: %w", err)
			}
			defer file.Close()

			st := store.NewDataStore(a.api, a.component("data"))
			result, err := st.Import(ctx, importType, filepath.Base(args[0]), file)
			if err != nil {
				return viewError(st.Snapshot().Error, err)
			}
			pref.Set(ctx, importType)

			return a.emit(result, func(w io.Writer) error {
				fmt.Fprintf(w, "imported %d, skipped %d\n", result.ImportedCount, result.SkippedCount)
				if len(result.Errors) == 0 {
					return nil
				}
				fmt.Fprintln(w)
				return writeTable(w, importErrorsDataset(result.Errors))
			})
		},
	}
	cmd.Flags().StringVar(&kind, "type", "", "students or attendances (default: last used, else students)")
	return cmd
}
