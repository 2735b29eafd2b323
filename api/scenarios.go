/*
scenarios.go - Demo data loaders for testing and demonstrations

PURPOSE:

	Provides pre-built crews that populate the tracker with realistic
	data for demos. Each scenario creates projects, workers, a week or
	two of work entries and attendance, dated relative to today so
	forecasts and the daily report always have something to show.

AVAILABLE SCENARIOS:

	small-crew:     One site, two workers cabling tables in pairs
	two-sites:      An active and a finished site, mixed work types
	missing-rates:  A worker without piece rates (payroll warnings)

HOW SCENARIOS WORK:
 1. Reset the tracker (only the built-in project survives)
 2. Build a snapshot for the scenario
 3. Import it through the normal merge path

USAGE VIA API:

	POST /api/scenarios/load
	{"scenarioId": "two-sites"}

NOTE:

	Loading a scenario deletes all data. Only use in demo environments.

SEE ALSO:
  - handlers.go: error mapping
  - tracker/merge.go: Import
*/
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/warp/solarwork/worklog"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "small-crew",
		Name:        "Small Crew",
		Description: "One site with 24 tables, two workers cabling in pairs",
		Category:    "cables",
	},
	{
		ID:          "two-sites",
		Name:        "Two Sites",
		Description: "Active and completed sites with paneling, construction and hourly work",
		Category:    "mixed",
	},
	{
		ID:          "missing-rates",
		Name:        "Missing Rates",
		Description: "A new worker without panel or cable rates, showing payroll warnings",
		Category:    "payroll",
	},
}

var scenarioBuilders = map[string]func(b *scenarioBuilder){
	"small-crew":    buildSmallCrew,
	"two-sites":     buildTwoSites,
	"missing-rates": buildMissingRates,
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario replaces all data with a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if !decode(w, r, &req) {
		return
	}
	snap, ok := ScenarioSnapshot(req.ScenarioID, h.Tracker.Today())
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	h.currentScenario = ""
	if err := h.Tracker.Reset(ctx); err != nil {
		h.fail(w, "Failed to reset data", err)
		return
	}
	res, err := h.Tracker.Import(ctx, snap)
	if err != nil {
		h.fail(w, fmt.Sprintf("Failed to load scenario %s", req.ScenarioID), err)
		return
	}
	h.currentScenario = req.ScenarioID
	h.log.Info("scenario loaded", "scenario", req.ScenarioID, "entries", res.WorkEntries.Added)

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetData deletes everything but the built-in project.
func (h *Handler) ResetData(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Tracker.Reset(r.Context()); err != nil {
		h.fail(w, "Failed to reset data", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// ScenarioSnapshot builds the data of scenario id with today as the last
// working day.
func ScenarioSnapshot(id string, today worklog.Date) (worklog.Snapshot, bool) {
	build, ok := scenarioBuilders[id]
	if !ok {
		return worklog.Snapshot{}, false
	}
	b := &scenarioBuilder{prefix: id, today: today}
	build(b)
	return b.snap, true
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func buildSmallCrew(b *scenarioBuilder) {
	b.worker("jonas", "Jonas", 12, 0.6, 4, 6, 8)
	b.worker("tomas", "Tomas", 11, 0.6, 4, 6, 8)
	b.project("utena", "Utena", worklog.StatusActive, tableRange("A", 24), "jonas", "tomas")

	// Three tables a day, six working days back.
	table := 1
	for day := 6; day >= 1; day-- {
		for i := 0; i < 3; i++ {
			b.entry(day, 7+2*i, 2, "utena", worklog.Cables{Table: fmt.Sprintf("A%d", table), Size: worklog.SizeMedium}, "jonas", "tomas")
			table++
		}
		b.attendance(day, "utena", "jonas", "tomas")
	}
	b.entry(3, 14, 3, "utena", worklog.Hourly{Description: "unloading rails"}, "tomas")
}

func buildTwoSites(b *scenarioBuilder) {
	b.worker("jonas", "Jonas", 12, 0.6, 4, 6, 8)
	b.worker("tomas", "Tomas", 11, 0.6, 4, 6, 8)
	b.worker("petras", "Petras", 13, 0.7, 5, 7, 9)
	b.worker("lukas", "Lukas", 10, 0.5, 4, 6, 8)

	b.project("utena", "Utena", worklog.StatusActive, tableRange("A", 30), "jonas", "tomas", "petras")
	b.project("moletai", "Moletai", worklog.StatusCompleted, tableRange("M", 8), "lukas", "petras")

	// Moletai: done two weeks ago.
	for i := 0; i < 8; i++ {
		day := 14 - i/4
		size := worklog.SizeSmall
		if i%2 == 1 {
			size = worklog.SizeLarge
		}
		b.entry(day, 7+2*(i%4), 2, "moletai", worklog.Cables{Table: fmt.Sprintf("M%d", i+1), Size: size}, "lukas", "petras")
	}
	b.entry(15, 7, 8, "moletai", worklog.Construction{Description: "fence and gate"}, "lukas")

	// Utena: paneling first, then cabling.
	b.entry(8, 7, 8, "utena", worklog.Paneling{ModuleCount: 96}, "jonas", "tomas")
	b.entry(7, 7, 8, "utena", worklog.Paneling{ModuleCount: 120}, "jonas", "petras")
	b.entry(7, 7, 4, "utena", worklog.Construction{Description: "cable trench"}, "tomas")
	table := 1
	for day := 5; day >= 1; day-- {
		for i := 0; i < 2; i++ {
			b.entry(day, 7+3*i, 3, "utena", worklog.Cables{Table: fmt.Sprintf("A%d", table), Size: worklog.SizeMedium}, "jonas", "tomas")
			table++
		}
		b.entry(day, 7, 6, "utena", worklog.Cables{Table: fmt.Sprintf("A%d", table), Size: worklog.SizeLarge}, "petras")
		table++
		b.attendance(day, "utena", "jonas", "tomas", "petras")
	}
	b.entry(2, 13, 2, "", worklog.Hourly{Description: "warehouse inventory"}, "lukas")
}

func buildMissingRates(b *scenarioBuilder) {
	b.worker("jonas", "Jonas", 12, 0.6, 4, 6, 8)
	b.worker("rokas", "Rokas", 10, 0, 0, 0, 0)
	b.project("zarasai-2", "Zarasai II", worklog.StatusActive, tableRange("Z", 12), "jonas", "rokas")

	b.entry(3, 7, 8, "zarasai-2", worklog.Paneling{ModuleCount: 80}, "jonas", "rokas")
	b.entry(2, 7, 2, "zarasai-2", worklog.Cables{Table: "Z1", Size: worklog.SizeSmall}, "jonas", "rokas")
	b.entry(2, 9, 2, "zarasai-2", worklog.Cables{Table: "Z2"}, "jonas")
	b.entry(1, 7, 4, "zarasai-2", worklog.Hourly{Description: "training"}, "rokas")
}

// =============================================================================
// BUILDER
// =============================================================================

type scenarioBuilder struct {
	prefix string
	today  worklog.Date
	snap   worklog.Snapshot
	n      int
}

func (b *scenarioBuilder) worker(id, name string, rate, panel, small, medium, large float64) {
	b.snap.Workers = append(b.snap.Workers, worklog.Worker{
		ID:              id,
		Name:            name,
		Rate:            rate,
		PanelRate:       panel,
		CableRateSmall:  small,
		CableRateMedium: medium,
		CableRateLarge:  large,
	})
}

func (b *scenarioBuilder) project(id, name string, status worklog.ProjectStatus, tables []string, crew ...string) {
	b.snap.Projects = append(b.snap.Projects, worklog.Project{
		ID:        id,
		Name:      name,
		Status:    status,
		Tables:    tables,
		WorkerIDs: crew,
	})
}

// entry logs work daysAgo days before today from hour for hours.
func (b *scenarioBuilder) entry(daysAgo, hour, hours int, project string, work worklog.Work, crew ...string) {
	b.n++
	d := b.today.AddDays(-daysAgo).Time()
	start := time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.UTC)
	b.snap.WorkEntries = append(b.snap.WorkEntries, worklog.Normalize(worklog.WorkEntry{
		ID:        fmt.Sprintf("%s-%03d", b.prefix, b.n),
		ProjectID: project,
		WorkerIDs: crew,
		StartTime: start,
		EndTime:   start.Add(time.Duration(hours) * time.Hour),
		Work:      work,
	}))
}

func (b *scenarioBuilder) attendance(daysAgo int, project string, present ...string) {
	date := b.today.AddDays(-daysAgo)
	b.snap.AttendanceRecords = append(b.snap.AttendanceRecords, worklog.AttendanceRecord{
		ID:               worklog.AttendanceID(project, date),
		ProjectID:        project,
		Date:             date,
		PresentWorkerIDs: present,
	})
}

func tableRange(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", prefix, i+1)
	}
	return out
}
