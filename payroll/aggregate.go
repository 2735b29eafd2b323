/*
aggregate.go - Per-worker statistics over a filtered set of entries

PURPOSE:
  Answers "how much did each worker earn, and on what?" for any
  combination of project, date range, workers and kinds of work. The same
  fold backs the payroll screen, the statistics screen, the spreadsheet
  export and the assistant context.

ALGORITHM:
  For every entry that passes the filter, with N = len(entry.WorkerIDs):

    hourly, construction:  hours += duration/N, earnings += duration*rate/N
    paneling:              hours += duration/N, earnings += modules*rate/N,
                           panels += modules/N
    cables:                hours += duration/N, earnings += rate/N,
                           tables[size] += 1/N, entries++ (sharedEntries++ if N>1)

  Worker ids that are not in the roster still count towards N but produce
  no stats. Derived figures (average wage, tables per hour, euros per
  table, shared tables %) are computed at the end and are zero whenever
  their denominator is zero.

RESULT:
  Workers with zero total earnings are dropped unless the filter names
  workers explicitly. The result is sorted by total earnings, highest
  first; ties keep roster order.

SEE ALSO:
  - rates.go: ResolveRate
  - forecast/forecast.go: uses the cables tallies of the same entries
*/
package payroll

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/solarwork/worklog"
)

var hundred = decimal.NewFromInt(100)

// =============================================================================
// FILTER
// =============================================================================

// Filter selects the entries that feed an aggregation. Zero fields match
// everything. From and To are inclusive.
type Filter struct {
	ProjectID string
	From      worklog.Date
	To        worklog.Date
	WorkerIDs []string
	Kinds     []worklog.WorkKind
}

// MonthFilter returns a filter covering one "2006-01" month.
func MonthFilter(month string) (Filter, error) {
	from, to, err := worklog.MonthRange(month)
	if err != nil {
		return Filter{}, err
	}
	return Filter{From: from, To: to}, nil
}

// Match reports whether e passes the project, date and kind criteria.
// Worker selection is applied per crew member during aggregation.
func (f Filter) Match(e worklog.WorkEntry) bool {
	if f.ProjectID != "" && e.ProjectID != f.ProjectID {
		return false
	}
	if !f.From.IsZero() && e.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && e.Date.After(f.To) {
		return false
	}
	if len(f.Kinds) > 0 {
		kind := e.Kind()
		found := false
		for _, k := range f.Kinds {
			if k == kind {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// =============================================================================
// WORKER STATS
// =============================================================================

// TimeBucket accumulates hours-paid work (hourly, construction).
type TimeBucket struct {
	Hours    decimal.Decimal
	Earnings decimal.Decimal
}

// PanelBucket accumulates paneling work.
type PanelBucket struct {
	Hours    decimal.Decimal
	Earnings decimal.Decimal
	Panels   decimal.Decimal
}

// TableCounts are fractional table shares by size. A table without a
// known size only counts towards Total.
type TableCounts struct {
	Small  decimal.Decimal
	Medium decimal.Decimal
	Large  decimal.Decimal
	Total  decimal.Decimal
}

// CableBucket accumulates cabling work.
type CableBucket struct {
	Hours         decimal.Decimal
	Earnings      decimal.Decimal
	Tables        TableCounts
	Entries       int
	SharedEntries int

	// Derived
	TablesPerHour       decimal.Decimal
	EurosPerTable       decimal.Decimal
	SharedTablesPercent decimal.Decimal
}

// WorkerStats is one worker's share of the filtered entries.
type WorkerStats struct {
	WorkerID string
	Name     string

	TotalHours    decimal.Decimal
	TotalEarnings decimal.Decimal
	AvgHourlyWage decimal.Decimal // TotalEarnings / TotalHours
	EntryCount    int

	Hourly       TimeBucket
	Construction TimeBucket
	Paneling     PanelBucket
	Cables       CableBucket

	Warnings []RateWarning
}

// EarningsFor returns the earnings of one kind of work.
func (s WorkerStats) EarningsFor(kind worklog.WorkKind) decimal.Decimal {
	switch kind {
	case worklog.KindHourly:
		return s.Hourly.Earnings
	case worklog.KindConstruction:
		return s.Construction.Earnings
	case worklog.KindPaneling:
		return s.Paneling.Earnings
	case worklog.KindCables:
		return s.Cables.Earnings
	}
	return decimal.Zero
}

// HoursFor returns the hours of one kind of work.
func (s WorkerStats) HoursFor(kind worklog.WorkKind) decimal.Decimal {
	switch kind {
	case worklog.KindHourly:
		return s.Hourly.Hours
	case worklog.KindConstruction:
		return s.Construction.Hours
	case worklog.KindPaneling:
		return s.Paneling.Hours
	case worklog.KindCables:
		return s.Cables.Hours
	}
	return decimal.Zero
}

// =============================================================================
// AGGREGATE
// =============================================================================

// Aggregate folds entries into per-worker stats for every worker in the
// roster selected by f. It never fails; missing rates become warnings.
func Aggregate(entries []worklog.WorkEntry, workers []worklog.Worker, f Filter) []WorkerStats {
	named := make(map[string]bool, len(f.WorkerIDs))
	for _, id := range f.WorkerIDs {
		named[id] = true
	}

	stats := make([]*WorkerStats, 0, len(workers))
	byID := make(map[string]*WorkerStats, len(workers))
	roster := make(map[string]worklog.Worker, len(workers))
	for _, w := range workers {
		if len(named) > 0 && !named[w.ID] {
			continue
		}
		if _, dup := byID[w.ID]; dup {
			continue
		}
		s := &WorkerStats{WorkerID: w.ID, Name: w.Name}
		stats = append(stats, s)
		byID[w.ID] = s
		roster[w.ID] = w
	}

	for _, e := range entries {
		if e.Work == nil || !f.Match(e) {
			continue
		}
		n := len(e.WorkerIDs)
		if n == 0 {
			continue
		}
		for _, wid := range e.WorkerIDs {
			s, ok := byID[wid]
			if !ok {
				continue
			}
			s.add(e, roster[wid], n)
		}
	}

	out := make([]WorkerStats, 0, len(stats))
	for _, s := range stats {
		s.finish()
		if len(named) == 0 && !s.TotalEarnings.IsPositive() {
			continue
		}
		out = append(out, *s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalEarnings.GreaterThan(out[j].TotalEarnings)
	})
	return out
}

// add credits worker's 1/n share of e to s.
func (s *WorkerStats) add(e worklog.WorkEntry, worker worklog.Worker, n int) {
	crew := decimal.NewFromInt(int64(n))
	duration := fromFloat(e.Duration)
	hours := duration.Div(crew)

	rate, warn := ResolveRate(e.Work, worker)
	if warn != "" {
		s.Warnings = append(s.Warnings, RateWarning{
			EntryID:  e.ID,
			WorkerID: worker.ID,
			Kind:     e.Kind(),
			Code:     warn,
		})
	}

	var earned decimal.Decimal
	switch w := e.Work.(type) {
	case worklog.Hourly:
		earned = duration.Mul(rate).Div(crew)
		s.Hourly.Hours = s.Hourly.Hours.Add(hours)
		s.Hourly.Earnings = s.Hourly.Earnings.Add(earned)
	case worklog.Construction:
		earned = duration.Mul(rate).Div(crew)
		s.Construction.Hours = s.Construction.Hours.Add(hours)
		s.Construction.Earnings = s.Construction.Earnings.Add(earned)
	case worklog.Paneling:
		modules := decimal.Zero
		if w.ModuleCount > 0 {
			modules = decimal.NewFromInt(int64(w.ModuleCount))
		}
		earned = modules.Mul(rate).Div(crew)
		s.Paneling.Hours = s.Paneling.Hours.Add(hours)
		s.Paneling.Earnings = s.Paneling.Earnings.Add(earned)
		s.Paneling.Panels = s.Paneling.Panels.Add(modules.Div(crew))
	case worklog.Cables:
		earned = rate.Div(crew)
		share := decimal.NewFromInt(1).Div(crew)
		c := &s.Cables
		c.Hours = c.Hours.Add(hours)
		c.Earnings = c.Earnings.Add(earned)
		switch w.Size {
		case worklog.SizeSmall:
			c.Tables.Small = c.Tables.Small.Add(share)
		case worklog.SizeMedium:
			c.Tables.Medium = c.Tables.Medium.Add(share)
		case worklog.SizeLarge:
			c.Tables.Large = c.Tables.Large.Add(share)
		}
		c.Tables.Total = c.Tables.Total.Add(share)
		c.Entries++
		if n > 1 {
			c.SharedEntries++
		}
	default:
		return
	}

	s.TotalHours = s.TotalHours.Add(hours)
	s.TotalEarnings = s.TotalEarnings.Add(earned)
	s.EntryCount++
}

// finish computes the derived figures.
func (s *WorkerStats) finish() {
	s.AvgHourlyWage = safeDiv(s.TotalEarnings, s.TotalHours)

	c := &s.Cables
	c.TablesPerHour = safeDiv(c.Tables.Total, c.Hours)
	c.EurosPerTable = safeDiv(c.Earnings, c.Tables.Total)
	if c.Entries > 0 {
		c.SharedTablesPercent = decimal.NewFromInt(int64(c.SharedEntries)).
			Mul(hundred).
			Div(decimal.NewFromInt(int64(c.Entries)))
	}
}

// =============================================================================
// SUMMARY
// =============================================================================

// KindTotal is the crew-wide total of one kind of work.
type KindTotal struct {
	Kind     worklog.WorkKind
	Hours    decimal.Decimal
	Earnings decimal.Decimal
}

// Summary totals a set of WorkerStats.
type Summary struct {
	Workers       int
	TotalHours    decimal.Decimal
	TotalEarnings decimal.Decimal
	Tables        decimal.Decimal
	Panels        decimal.Decimal
	ByKind        []KindTotal // in worklog.AllKinds order
	Warnings      int
}

// Summarize adds up stats. Shares of the same entry sum back to the whole,
// so TotalHours is the crew-hours of the filtered entries.
func Summarize(stats []WorkerStats) Summary {
	sum := Summary{Workers: len(stats)}
	byKind := make(map[worklog.WorkKind]*KindTotal, len(worklog.AllKinds))
	for _, k := range worklog.AllKinds {
		sum.ByKind = append(sum.ByKind, KindTotal{Kind: k})
	}
	for i := range sum.ByKind {
		byKind[sum.ByKind[i].Kind] = &sum.ByKind[i]
	}

	for _, s := range stats {
		sum.TotalHours = sum.TotalHours.Add(s.TotalHours)
		sum.TotalEarnings = sum.TotalEarnings.Add(s.TotalEarnings)
		sum.Tables = sum.Tables.Add(s.Cables.Tables.Total)
		sum.Panels = sum.Panels.Add(s.Paneling.Panels)
		sum.Warnings += len(s.Warnings)
		for _, k := range worklog.AllKinds {
			kt := byKind[k]
			kt.Hours = kt.Hours.Add(s.HoursFor(k))
			kt.Earnings = kt.Earnings.Add(s.EarningsFor(k))
		}
	}
	return sum
}
