package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/warp/solarwork/api"
	"github.com/warp/solarwork/payroll"
	"github.com/warp/solarwork/report"
	"github.com/warp/solarwork/worklog"
)

type payrollOptions struct {
	month   string
	from    string
	to      string
	project string
	workers []string
	types   []string
	format  string
	out     string
}

var payrollOpts payrollOptions

var payrollCmd = &cobra.Command{
	Use:   "payroll",
	Short: "Print per-worker earnings",
	Example: `  solarwork payroll --month 2025-03
  solarwork payroll --project p1 --type cables --format json
  solarwork payroll --month 2025-03 --format xlsx -o march.xlsx`,
	Args: cobra.NoArgs,
	RunE: runPayroll,
}

func init() {
	f := payrollCmd.Flags()
	f.StringVar(&payrollOpts.month, "month", "", "month to report (YYYY-MM)")
	f.StringVar(&payrollOpts.from, "from", "", "first day (YYYY-MM-DD)")
	f.StringVar(&payrollOpts.to, "to", "", "last day (YYYY-MM-DD)")
	f.StringVar(&payrollOpts.project, "project", "", "only this project")
	f.StringSliceVar(&payrollOpts.workers, "worker", nil, "only these workers (repeatable)")
	f.StringSliceVar(&payrollOpts.types, "type", nil, "only these work types (repeatable)")
	f.StringVar(&payrollOpts.format, "format", "table", "output format: table, json, xlsx or pdf")
	f.StringVarP(&payrollOpts.out, "out", "o", "", "output file (default stdout)")
}

func runPayroll(cmd *cobra.Command, args []string) error {
	filter, err := payrollOpts.filter()
	if err != nil {
		return err
	}
	switch payrollOpts.format {
	case "table", "json", "xlsx", "pdf":
	default:
		return fmt.Errorf("unknown format %q", payrollOpts.format)
	}

	t, db, err := openTracker(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	stats := t.Payroll(filter)

	w, err := output(cmd, payrollOpts.out)
	if err != nil {
		return err
	}
	if err := writePayroll(w, payrollOpts.format, filter, stats); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func writePayroll(w io.Writer, format string, f payroll.Filter, stats []payroll.WorkerStats) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(api.NewPayrollDTO(f, stats))
	case "xlsx":
		return report.WritePayrollXLSX(w, "Payroll "+period(f), stats)
	case "pdf":
		return report.WritePayrollPDF(w, "Payroll", period(f), stats)
	default:
		return writePayrollTable(w, stats)
	}
}

// writePayrollTable prints one aligned row per worker and a totals row.
func writePayrollTable(w io.Writer, stats []payroll.WorkerStats) error {
	if len(stats) == 0 {
		_, err := fmt.Fprintln(w, "No earnings in this period.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, strings.Join(report.PayrollHeader, "\t")+"\t")
	for _, s := range stats {
		fmt.Fprintln(tw, strings.Join(report.PayrollRow(s), "\t")+"\t")
	}

	sum := payroll.Summarize(stats)
	fmt.Fprintf(tw, "Total\t%s\t\t\t%s\t\t%s\t\t%s\t\t\n",
		sum.TotalHours.StringFixed(2),
		sum.Panels.StringFixed(1),
		sum.Tables.StringFixed(1),
		sum.TotalEarnings.StringFixed(2))
	if sum.Warnings > 0 {
		fmt.Fprintf(tw, "\n%d entries had no rate set\n", sum.Warnings)
	}
	return tw.Flush()
}

func (o payrollOptions) filter() (payroll.Filter, error) {
	var f payroll.Filter
	if o.month != "" {
		mf, err := payroll.MonthFilter(o.month)
		if err != nil {
			return payroll.Filter{}, fmt.Errorf("--month: %w", err)
		}
		f = mf
	}
	if o.from != "" {
		d, err := worklog.ParseDate(o.from)
		if err != nil {
			return payroll.Filter{}, fmt.Errorf("--from: %w", err)
		}
		f.From = d
	}
	if o.to != "" {
		d, err := worklog.ParseDate(o.to)
		if err != nil {
			return payroll.Filter{}, fmt.Errorf("--to: %w", err)
		}
		f.To = d
	}
	f.ProjectID = o.project
	f.WorkerIDs = o.workers
	for _, raw := range o.types {
		kind := worklog.WorkKind(raw)
		if !kind.Valid() {
			return payroll.Filter{}, fmt.Errorf("--type %q: %w", raw, worklog.ErrUnknownWorkType)
		}
		f.Kinds = append(f.Kinds, kind)
	}
	return f, nil
}

func period(f payroll.Filter) string {
	switch {
	case f.From.IsZero() && f.To.IsZero():
		return "all time"
	case f.To.IsZero():
		return "from " + f.From.String()
	case f.From.IsZero():
		return "until " + f.To.String()
	default:
		return f.From.String() + " to " + f.To.String()
	}
}
