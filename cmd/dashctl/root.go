package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/noah-isme/sma-attendance-dashboard/pkg/config"
)

// cli carries the state shared between the root command and its subcommands. app is
// built in the root's PersistentPreRunE, after flags are parsed.
type cli struct {
	flags rootFlags
	out   io.Writer
	app   *app
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	root := &cobra.Command{
		Use:           "dashctl",
		Short:         "Attendance dashboard from the terminal",
		Long:          "dashctl browses and edits students, attendance records, classes and reports through the dashboard REST API.\nWith --mock the API is served from an in-process mock database that lives for one invocation.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if c.flags.baseURL != "" {
				cfg.APIBaseURL = c.flags.baseURL
			}
			if cmd.Flags().Changed("mock") {
				cfg.Mock.Enabled = c.flags.mock
			}
			switch c.flags.output {
			case outputTable, outputJSON:
			default:
				return fmt.Errorf("unknown output %q, want %s or %s", c.flags.output, outputTable, outputJSON)
			}

			a, err := newApp(cmd.Context(), cfg, &c.flags, c.out)
			if err != nil {
				return err
			}
			c.app = a
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if c.app == nil {
				return nil
			}
			c.app.printStats(cmd.ErrOrStderr())
			return c.app.close()
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.baseURL, "base-url", "", "API base URL (default from API_BASE_URL)")
	pf.BoolVar(&c.flags.mock, "mock", false, "serve the API from the in-process mock database (default from MOCK_ENABLED)")
	pf.StringVar(&c.flags.location, "url", "", "dashboard link or query string to open the view with")
	pf.StringVar(&c.flags.dashboardURL, "dashboard-url", "", "origin used when printing shareable links")
	pf.StringVarP(&c.flags.output, "output", "o", outputTable, "output format: table or json")
	pf.BoolVarP(&c.flags.verbose, "verbose", "v", false, "debug logging on stderr")
	pf.BoolVar(&c.flags.stats, "stats", false, "print request counters on stderr when done")

	root.AddCommand(
		newStudentsCmd(c),
		newAttendancesCmd(c),
		newClassesCmd(c),
		newReportsCmd(c),
		newDataCmd(c),
	)
	return root
}
