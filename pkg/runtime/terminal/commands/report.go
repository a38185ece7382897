package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/reporter/pkg/models/domain"
	"github.com/de-tools/reporter/pkg/runtime/terminal/export"
	"github.com/de-tools/reporter/pkg/services/report"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type ReportCmd struct {
	view       bool
	filename   string
	recipients string
	date       string
	listAll    bool
	env        func() *Environment
	reporter   *export.Reporter
}

func NewReportCmd(env func() *Environment, reporter *export.Reporter) *cobra.Command {
	rc := &ReportCmd{env: env, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "report FREQUENCY REPORT_NAME [REPORT ARGS]",
		Short: "Run a registered report",
		Long: `Runs reports registered by the installed apps. Valid frequencies are "daily",
"weekly", and "monthly". By default, the reports are emailed to the report's
default recipients. This can be overridden through options. Additional
arguments after the report name are passed to the report.`,
		Args: cobra.ArbitraryArgs,
		RunE: rc.run,
	}

	cmd.Flags().BoolVar(&rc.view, "view", false, "Send the data to stdout instead of emailing or saving to a file")
	cmd.Flags().StringVar(&rc.filename, "filename", "", "Instead of emailing the results, save them to the provided filename")
	cmd.Flags().StringVar(&rc.recipients, "recipients", "", "Override the default recipients, separated by commas")
	cmd.Flags().StringVar(&rc.date, "date", "", "Date to run the report for (YYYY-MM-DD), defaults to today")
	cmd.Flags().BoolVar(&rc.listAll, "list-all", false, "List all available reports, and then exit")
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		_ = c.Usage()
		return NewUsageError(err.Error())
	})

	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	env := rc.env()

	if err := env.Discover(ctx); err != nil {
		return fmt.Errorf("failed to discover reports: %w", err)
	}

	if rc.listAll {
		return rc.reporter.HandleListing(env.Registry.ByFrequency())
	}

	opts, name, err := rc.options(args)
	if err != nil {
		_ = cmd.Usage()
		return err
	}

	def, err := env.Registry.Get(name)
	if err != nil {
		return err
	}

	deps := env.Dependencies
	if deps.Console == nil {
		deps.Console = cmd.OutOrStdout()
	}

	run, err := report.New(def, opts, deps)
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Debug().
		Str("report", name).
		Str("frequency", string(opts.Frequency)).
		Bool("send", run.Sends()).
		Str("path", run.Path()).
		Msg("running report")

	return run.Execute(ctx)
}

func (rc *ReportCmd) options(args []string) (report.Options, string, error) {
	if len(args) < 2 {
		return report.Options{}, "", NewUsageError("please provide both a frequency and a report name")
	}

	frequency, err := domain.ParseFrequency(args[0])
	if err != nil {
		return report.Options{}, "", NewUsageError("please provide a valid frequency")
	}

	opts := report.Options{
		Frequency:  frequency,
		View:       rc.view,
		Filename:   rc.filename,
		Recipients: splitRecipients(rc.recipients),
	}
	if len(args) > 2 {
		opts.Args = args[2:]
	}

	if rc.date != "" {
		date, err := time.ParseInLocation(domain.DateLayout, rc.date, time.Local)
		if err != nil {
			return report.Options{}, "", NewUsageError(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", rc.date))
		}
		opts.Date = date
	}

	return opts, args[1], nil
}

func splitRecipients(s string) []string {
	var out []string
	for _, r := range strings.Split(s, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
