package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/warp/solarwork/forecast"
	"github.com/warp/solarwork/worklog"
)

var forecastToday string

var forecastCmd = &cobra.Command{
	Use:   "forecast PROJECT_ID",
	Short: "Estimate when a project's tables will all be cabled",
	Args:  cobra.ExactArgs(1),
	RunE:  runForecast,
}

func init() {
	forecastCmd.Flags().StringVar(&forecastToday, "today", "", "reference day (YYYY-MM-DD, default today)")
}

func runForecast(cmd *cobra.Command, args []string) error {
	today := worklog.Today()
	if forecastToday != "" {
		d, err := worklog.ParseDate(forecastToday)
		if err != nil {
			return fmt.Errorf("--today: %w", err)
		}
		today = d
	}

	t, db, err := openTracker(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	p, err := t.Project(args[0])
	if err != nil {
		return err
	}
	f, err := t.Forecast(p.ID, today)
	if err != nil {
		return err
	}
	printForecast(cmd.OutOrStdout(), p, f)
	return nil
}

func printForecast(w io.Writer, p worklog.Project, f forecast.Forecast) {
	fmt.Fprintf(w, "%s (%s)\n", p.Name, p.ID)
	fmt.Fprintf(w, "  tables:   %d of %d cabled (%s%%), %d left\n",
		f.CompletedTables, f.TotalTables, f.ProgressPercent.StringFixed(1), f.RemainingTables)
	fmt.Fprintf(w, "  pace:     %s tables/day over %d days\n", f.TablesPerDay.StringFixed(2), f.DaysWorked)

	switch f.Status {
	case forecast.StatusComplete:
		fmt.Fprintln(w, "  status:   complete")
	case forecast.StatusProjected:
		fmt.Fprintf(w, "  status:   %d days left, done by %s\n", f.RemainingDays, f.CompletionDate)
	default:
		fmt.Fprintln(w, "  status:   unknown, nothing cabled yet")
	}
}
