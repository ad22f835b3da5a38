package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/subcommands"

	"github.com/simaogato/wealthflow-analytics/internal/adapter/report"
)

// reportCmd prints the full analytics dashboard
type reportCmd struct {
	raw bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "display the analytics dashboard" }
func (*reportCmd) Usage() string {
	return `wealthflow report [-raw]

  Displays net worth, financial health, spending trends and prediction, category
  analysis, budgets, goals, portfolio and anomalies.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.raw, "raw", false, "Print the markdown source instead of rendering it")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return execute(ctx, c, f)
}

func (c *reportCmd) run(ctx context.Context, app *App, _ []string) error {
	snap, err := app.Dashboard.Snapshot(ctx, app.Now())
	if err != nil {
		return err
	}
	if c.raw {
		app.Raw = true
	}
	app.printMarkdown(report.Markdown(snap))
	return nil
}

// exportCmd writes the dashboard to a file
type exportCmd struct {
	format string
	dir    string
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the analytics to csv, xlsx or markdown" }
func (*exportCmd) Usage() string {
	return `wealthflow export [-f csv|xlsx|md] [-dir <folder>] [-o <file>]

  Writes the analytics to wealthflow-analytics-<date>.<format> in the folder,
  or to the file given with -o ("-" for stdout).
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "f", string(report.FormatCSV), "Export format: csv, xlsx or md")
	f.StringVar(&c.dir, "dir", ".", "Output folder")
	f.StringVar(&c.output, "o", "", "Output file, overrides -dir and the default name")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return execute(ctx, c, f)
}

func (c *exportCmd) run(ctx context.Context, app *App, _ []string) error {
	format, err := report.ParseFormat(c.format)
	if err != nil {
		return usageError("%v", err)
	}

	now := app.Now()
	snap, err := app.Dashboard.Snapshot(ctx, now)
	if err != nil {
		return err
	}

	if c.output == "-" {
		return report.Write(app.Out, snap, format)
	}

	path := c.output
	if path == "" {
		path = filepath.Join(c.dir, report.Filename(now, format))
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := report.Write(f, snap, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(app.Out, "Exported %s\n", path)
	return nil
}
