/*
Package assistant answers free-text questions about the crew's data using
a hosted language model.

PURPOSE:
  Builds a compact JSON picture of the current state (project progress,
  worker totals, the last 30 days of logs) and sends it together with the
  question to a generateContent-style endpoint.

OFFLINE:
  The assistant is optional. When no credentials are configured, or the
  endpoint cannot be reached, Ask returns an error wrapping ErrUnavailable
  and the rest of the application is unaffected.

SEE ALSO:
  - client.go: HTTP client and auth
  - payroll/aggregate.go: worker totals
*/
package assistant

import (
	"fmt"
	"strings"
	"time"

	"github.com/warp/solarwork/forecast"
	"github.com/warp/solarwork/payroll"
	"github.com/warp/solarwork/worklog"
)

// RecentDays is how far back detailed logs go.
const RecentDays = 30

type ProjectSummary struct {
	Name            string `json:"name"`
	Status          string `json:"status"`
	TotalTables     int    `json:"totalTables"`
	CompletedTables int    `json:"completedTables"`
	Progress        string `json:"progress"`
}

type WorkerSummary struct {
	Name             string  `json:"name"`
	HourlyRate       float64 `json:"hourlyRate"`
	TotalHoursLogged string  `json:"totalHoursLogged"`
	TotalEarnings    string  `json:"totalEarnings"`
}

type LogLine struct {
	Date     string `json:"date"`
	Project  string `json:"project"`
	Workers  string `json:"workers"`
	Type     string `json:"type"`
	Duration string `json:"duration"`
	Details  string `json:"details"`
}

// Context is the data sent along with every question.
type Context struct {
	Projects   []ProjectSummary `json:"projects"`
	Workers    []WorkerSummary  `json:"workers"`
	RecentLogs []LogLine        `json:"recentLogs"`
}

// BuildContext summarizes state as of now.
func BuildContext(state worklog.Snapshot, now time.Time) Context {
	var c Context

	byProject := make(map[string][]worklog.WorkEntry)
	for _, e := range state.WorkEntries {
		byProject[e.ProjectID] = append(byProject[e.ProjectID], e)
	}
	projectNames := make(map[string]string, len(state.Projects))
	for _, p := range state.Projects {
		projectNames[p.ID] = p.Name
		done := len(forecast.CompletedTables(p.Tables, byProject[p.ID]))
		c.Projects = append(c.Projects, ProjectSummary{
			Name:            p.Name,
			Status:          string(p.Status),
			TotalTables:     len(p.Tables),
			CompletedTables: done,
			Progress:        forecast.Progress(done, len(p.Tables)).StringFixed(1) + "%",
		})
	}

	workerNames := make(map[string]string, len(state.Workers))
	all := make([]string, 0, len(state.Workers))
	for _, w := range state.Workers {
		workerNames[w.ID] = w.Name
		all = append(all, w.ID)
	}
	stats := payroll.Aggregate(state.WorkEntries, state.Workers, payroll.Filter{WorkerIDs: all})
	byWorker := make(map[string]payroll.WorkerStats, len(stats))
	for _, s := range stats {
		byWorker[s.WorkerID] = s
	}
	for _, w := range state.Workers {
		s := byWorker[w.ID]
		c.Workers = append(c.Workers, WorkerSummary{
			Name:             w.Name,
			HourlyRate:       w.Rate,
			TotalHoursLogged: s.TotalHours.StringFixed(1),
			TotalEarnings:    s.TotalEarnings.StringFixed(2),
		})
	}

	since := worklog.DateOf(now).AddDays(-RecentDays)
	for _, e := range state.WorkEntries {
		if e.Date.Before(since) {
			continue
		}
		c.RecentLogs = append(c.RecentLogs, logLine(e, projectNames, workerNames))
	}
	return c
}

func logLine(e worklog.WorkEntry, projects, workers map[string]string) LogLine {
	project, ok := projects[e.ProjectID]
	if !ok {
		project = "Unknown"
	}
	names := make([]string, 0, len(e.WorkerIDs))
	for _, id := range e.WorkerIDs {
		if n, ok := workers[id]; ok {
			names = append(names, n)
		}
	}

	line := LogLine{
		Date:     e.Date.String(),
		Project:  project,
		Workers:  strings.Join(names, ", "),
		Type:     string(e.Kind()),
		Duration: fmt.Sprintf("%.2fh", e.Duration),
		Details:  "-",
	}
	switch w := e.Work.(type) {
	case worklog.Cables:
		line.Details = "Table " + w.Table
	case worklog.Paneling:
		line.Details = fmt.Sprintf("%d modules", w.ModuleCount)
	case worklog.Hourly:
		if w.Description != "" {
			line.Details = w.Description
		}
	case worklog.Construction:
		if w.Description != "" {
			line.Details = w.Description
		}
	}
	return line
}
