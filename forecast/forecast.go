/*
Package forecast estimates when a project's cabling will be finished.

PURPOSE:
  Projects a completion date from the pace at which tables have been
  cabled so far. The project's table list is the universe; only cable
  entries count.

ALGORITHM:
  completed     = distinct tables of cable entries that are in the universe
                  (the first log completes a table, re-logs change nothing)
  daysWorked    = distinct dates with at least one cable entry
  tablesPerDay  = completed / daysWorked
  remaining     = total - completed
  remainingDays = ceil(remaining / tablesPerDay)
                = ceil(remaining * daysWorked / completed)

  The second form of remainingDays is evaluated in integers, so a pace of
  exactly 2 tables/day with 4 tables left is 2 days and never 3.

STATES:
  StatusComplete   nothing left: 0 days, completion date = today
  StatusProjected  a finite estimate with a date
  StatusUnknown    no pace yet (nothing cabled); no days and no date

SEE ALSO:
  - payroll/aggregate.go: per-worker tables of the same entries
  - tracker/tracker.go: Tracker.Forecast
*/
package forecast

import (
	"github.com/shopspring/decimal"
	"github.com/warp/solarwork/worklog"
)

type Status string

const (
	StatusComplete  Status = "complete"
	StatusProjected Status = "projected"
	StatusUnknown   Status = "unknown"
)

// Forecast is the estimate for one project.
type Forecast struct {
	Status          Status
	TotalTables     int
	CompletedTables int
	RemainingTables int
	DaysWorked      int
	TablesPerDay    decimal.Decimal
	ProgressPercent decimal.Decimal

	// Set unless Status is StatusUnknown.
	RemainingDays  int
	CompletionDate worklog.Date
}

// HasDate reports whether the forecast carries a completion date.
func (f Forecast) HasDate() bool {
	return f.Status != StatusUnknown
}

// CompletedTables returns the distinct tables of cable entries that are in
// universe, in the order they were first logged. Entries are expected in
// log order.
func CompletedTables(universe []string, entries []worklog.WorkEntry) []string {
	inUniverse := make(map[string]bool, len(universe))
	for _, t := range universe {
		inUniverse[t] = true
	}

	var done []string
	seen := make(map[string]bool)
	for _, e := range entries {
		table, ok := e.CableTable()
		if !ok || !inUniverse[table] || seen[table] {
			continue
		}
		seen[table] = true
		done = append(done, table)
	}
	return done
}

// Estimate forecasts completion of universe given the entries logged so
// far. Non-cable entries are ignored.
func Estimate(universe []string, entries []worklog.WorkEntry, today worklog.Date) Forecast {
	total := len(distinct(universe))
	completed := len(CompletedTables(universe, entries))

	days := make(map[worklog.Date]bool)
	for _, e := range entries {
		if e.Kind() == worklog.KindCables && !e.Date.IsZero() {
			days[e.Date] = true
		}
	}

	f := Forecast{
		TotalTables:     total,
		CompletedTables: completed,
		RemainingTables: total - completed,
		DaysWorked:      len(days),
	}
	if f.RemainingTables < 0 {
		f.RemainingTables = 0
	}
	if f.DaysWorked > 0 {
		f.TablesPerDay = decimal.NewFromInt(int64(completed)).Div(decimal.NewFromInt(int64(f.DaysWorked)))
	}
	f.ProgressPercent = Progress(completed, total)

	switch {
	case f.RemainingTables == 0:
		f.Status = StatusComplete
		f.CompletionDate = today
	case completed == 0 || f.DaysWorked == 0:
		f.Status = StatusUnknown
	default:
		f.Status = StatusProjected
		f.RemainingDays = ceilDiv(f.RemainingTables*f.DaysWorked, completed)
		f.CompletionDate = today.AddDays(f.RemainingDays)
	}
	return f
}

// Progress returns completed/total as a percentage, 0 for an empty universe.
func Progress(completed, total int) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(completed)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total)))
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func distinct(tables []string) []string {
	seen := make(map[string]bool, len(tables))
	out := tables[:0:0]
	for _, t := range tables {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
