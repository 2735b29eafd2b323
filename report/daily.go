/*
Package report renders work data for people: the plain-text daily report
and payroll sheets as XLSX and PDF.

SEE ALSO:
  - payroll/aggregate.go: WorkerStats rendered by the payroll sheets
  - api/handlers.go: /api/reports/daily, /api/payroll/export.*
*/
package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/warp/solarwork/worklog"
)

// ErrNoEntries is returned when there is nothing to report.
var ErrNoEntries = errors.New("no entries for the day")

const (
	UnknownProject = "Unknown Project"
	UnknownWorker  = "Unknown Worker"
)

// Daily lists the entries dated day, one line each, in the order given.
func Daily(day worklog.Date, entries []worklog.WorkEntry, projects []worklog.Project, workers []worklog.Worker) (string, error) {
	projectNames := make(map[string]string, len(projects))
	for _, p := range projects {
		projectNames[p.ID] = p.Name
	}
	workerNames := make(map[string]string, len(workers))
	for _, w := range workers {
		workerNames[w.ID] = w.Name
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Daily Report for %s:\n\n", day)

	n := 0
	for _, e := range entries {
		if e.Date != day {
			continue
		}
		project, ok := projectNames[e.ProjectID]
		if !ok {
			project = UnknownProject
		}
		names := make([]string, len(e.WorkerIDs))
		for i, id := range e.WorkerIDs {
			name, ok := workerNames[id]
			if !ok {
				name = UnknownWorker
			}
			names[i] = name
		}
		fmt.Fprintf(&b, "Project: %s, Workers: %s, Duration: %.2fh, Work: %s\n",
			project, strings.Join(names, ", "), e.Duration, Describe(e))
		n++
	}
	if n == 0 {
		return "", ErrNoEntries
	}
	return b.String(), nil
}

// Describe is a short human label of an entry's work.
func Describe(e worklog.WorkEntry) string {
	switch w := e.Work.(type) {
	case worklog.Hourly:
		if w.Description == "" {
			return "hourly"
		}
		return "hourly (" + w.Description + ")"
	case worklog.Construction:
		return "construction (" + w.Description + ")"
	case worklog.Paneling:
		return fmt.Sprintf("paneling (%d modules)", w.ModuleCount)
	case worklog.Cables:
		if w.Size == "" {
			return "cables (table " + w.Table + ")"
		}
		return fmt.Sprintf("cables (table %s, %s)", w.Table, w.Size)
	}
	return "-"
}
