/*
Package worklog provides the entity model of the crew tracker.

PURPOSE:
  Defines the records the rest of the system reads and writes: work
  entries, workers, projects, attendance records and the snapshot used for
  export/import. The JSON shape of these types IS the storage format: the
  durable store keeps one JSON array per collection key, and the export file
  is a single object with the same keys.

KEY CONCEPTS IN THIS FILE (types.go):
  - WorkEntry: a unit of work with a closed set of variants (Work)
  - Work: Hourly | Paneling | Construction | Cables
  - Worker: pay rates per kind of work
  - Project: the fixed universe of installable tables + the crew roster
  - AttendanceRecord: who was on site, one record per project per day

WORK VARIANTS:
  The wire format is a flat object discriminated by "type" and, for task
  entries, "subType":

    {"type": "hourly", "description": "..."}
    {"type": "task", "subType": "paneling", "moduleCount": 120}
    {"type": "task", "subType": "construction", "description": "..."}
    {"type": "task", "subType": "cables", "table": "T12", "tableSize": "medium"}

  In Go the variant lives in WorkEntry.Work. Code that needs per-variant
  behaviour switches on the concrete type.

SEE ALSO:
  - date.go: calendar Date used for grouping
  - validate.go: entry and project validation
  - store.go: persistence interfaces
*/
package worklog

import (
	"encoding/json"
	"fmt"
	"time"
)

// =============================================================================
// STORE KEYS
// =============================================================================

const (
	KeyProjects          = "projects"
	KeyWorkers           = "workers"
	KeyWorkEntries       = "workEntries"
	KeyAttendanceRecords = "attendanceRecords"
	KeyTheme             = "theme"
	KeyLocale            = "locale"
)

// SnapshotKeys lists every key that belongs to an export, in write order.
var SnapshotKeys = []string{
	KeyProjects,
	KeyWorkers,
	KeyWorkEntries,
	KeyAttendanceRecords,
	KeyTheme,
	KeyLocale,
}

// =============================================================================
// WORK VARIANTS
// =============================================================================

// WorkKind is the tag of a work variant. It doubles as a filter tag.
type WorkKind string

const (
	KindHourly       WorkKind = "hourly"
	KindPaneling     WorkKind = "paneling"
	KindConstruction WorkKind = "construction"
	KindCables       WorkKind = "cables"
)

// AllKinds in display order.
var AllKinds = []WorkKind{KindHourly, KindConstruction, KindPaneling, KindCables}

func (k WorkKind) Valid() bool {
	switch k {
	case KindHourly, KindPaneling, KindConstruction, KindCables:
		return true
	}
	return false
}

// TableSize selects the per-table cable rate.
type TableSize string

const (
	SizeSmall  TableSize = "small"
	SizeMedium TableSize = "medium"
	SizeLarge  TableSize = "large"
)

func (s TableSize) Valid() bool {
	return s == SizeSmall || s == SizeMedium || s == SizeLarge
}

// Work is the variant payload of a WorkEntry.
// Implemented only by Hourly, Paneling, Construction and Cables.
type Work interface {
	Kind() WorkKind
	isWork()
}

// Hourly is time paid at the worker's hourly rate.
type Hourly struct {
	Description string
}

// Paneling is module mounting paid per panel.
type Paneling struct {
	ModuleCount    int
	ModulesPerHour float64 // derived: ModuleCount / duration
}

// Construction is task work paid at the hourly rate; description is required.
type Construction struct {
	Description string
}

// Cables is the cabling of one table, paid per table by size.
type Cables struct {
	Table string
	Size  TableSize
}

func (Hourly) Kind() WorkKind       { return KindHourly }
func (Paneling) Kind() WorkKind     { return KindPaneling }
func (Construction) Kind() WorkKind { return KindConstruction }
func (Cables) Kind() WorkKind       { return KindCables }

func (Hourly) isWork()       {}
func (Paneling) isWork()     {}
func (Construction) isWork() {}
func (Cables) isWork()       {}

// =============================================================================
// WORK ENTRY
// =============================================================================

// MaxWorkersPerEntry is the crew cap for a single entry.
const MaxWorkersPerEntry = 2

// WorkEntry is one logged unit of work.
type WorkEntry struct {
	ID        string
	ProjectID string
	WorkerIDs []string
	StartTime time.Time
	EndTime   time.Time
	Duration  float64 // hours, EndTime - StartTime
	Date      Date    // grouping date, normally the start date
	Work      Work
}

// Kind returns the variant tag, or "" when the entry has no variant.
func (e WorkEntry) Kind() WorkKind {
	if e.Work == nil {
		return ""
	}
	return e.Work.Kind()
}

// HasWorker reports whether workerID is part of the entry's crew.
func (e WorkEntry) HasWorker(workerID string) bool {
	for _, id := range e.WorkerIDs {
		if id == workerID {
			return true
		}
	}
	return false
}

// CableTable returns the table of a cables entry.
func (e WorkEntry) CableTable() (string, bool) {
	c, ok := e.Work.(Cables)
	if !ok {
		return "", false
	}
	return c.Table, true
}

// Clone returns a copy that shares no slices with e.
func (e WorkEntry) Clone() WorkEntry {
	e.WorkerIDs = append([]string(nil), e.WorkerIDs...)
	return e
}

// Hours returns the elapsed hours between start and end.
func Hours(start, end time.Time) float64 {
	return end.Sub(start).Hours()
}

// Normalize recomputes the derived fields of an entry: duration from the
// time window, the grouping date when unset, and modules per hour.
func Normalize(e WorkEntry) WorkEntry {
	if !e.StartTime.IsZero() && !e.EndTime.IsZero() {
		e.Duration = Hours(e.StartTime, e.EndTime)
	}
	if e.Date.IsZero() && !e.StartTime.IsZero() {
		e.Date = DateOf(e.StartTime)
	}
	if p, ok := e.Work.(Paneling); ok {
		p.ModulesPerHour = 0
		if e.Duration > 0 {
			p.ModulesPerHour = float64(p.ModuleCount) / e.Duration
		}
		e.Work = p
	}
	return e
}

// entryJSON is the flat wire shape of a WorkEntry.
type entryJSON struct {
	ID             string    `json:"id"`
	ProjectID      string    `json:"projectId"`
	WorkerIDs      []string  `json:"workerIds"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
	Duration       float64   `json:"duration"`
	Date           Date      `json:"date"`
	Type           string    `json:"type"`
	SubType        string    `json:"subType,omitempty"`
	Description    string    `json:"description,omitempty"`
	ModuleCount    int       `json:"moduleCount,omitempty"`
	ModulesPerHour float64   `json:"modulesPerHour,omitempty"`
	Table          string    `json:"table,omitempty"`
	TableSize      TableSize `json:"tableSize,omitempty"`
}

const (
	typeHourly = "hourly"
	typeTask   = "task"
)

func (e WorkEntry) MarshalJSON() ([]byte, error) {
	w := entryJSON{
		ID:        e.ID,
		ProjectID: e.ProjectID,
		WorkerIDs: e.WorkerIDs,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
		Duration:  e.Duration,
		Date:      e.Date,
	}
	if w.WorkerIDs == nil {
		w.WorkerIDs = []string{}
	}

	switch v := e.Work.(type) {
	case Hourly:
		w.Type = typeHourly
		w.Description = v.Description
	case Paneling:
		w.Type, w.SubType = typeTask, string(KindPaneling)
		w.ModuleCount = v.ModuleCount
		w.ModulesPerHour = v.ModulesPerHour
	case Construction:
		w.Type, w.SubType = typeTask, string(KindConstruction)
		w.Description = v.Description
	case Cables:
		w.Type, w.SubType = typeTask, string(KindCables)
		w.Table = v.Table
		w.TableSize = v.Size
	default:
		return nil, fmt.Errorf("entry %s: %w", e.ID, ErrUnknownWorkType)
	}
	return json.Marshal(w)
}

func (e *WorkEntry) UnmarshalJSON(data []byte) error {
	var w entryJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var work Work
	switch {
	case w.Type == typeHourly:
		work = Hourly{Description: w.Description}
	case w.Type == typeTask && w.SubType == string(KindPaneling):
		work = Paneling{ModuleCount: w.ModuleCount, ModulesPerHour: w.ModulesPerHour}
	case w.Type == typeTask && w.SubType == string(KindConstruction):
		work = Construction{Description: w.Description}
	case w.Type == typeTask && w.SubType == string(KindCables):
		work = Cables{Table: w.Table, Size: w.TableSize}
	default:
		return fmt.Errorf("entry %s: type %q subType %q: %w", w.ID, w.Type, w.SubType, ErrUnknownWorkType)
	}

	*e = WorkEntry{
		ID:        w.ID,
		ProjectID: w.ProjectID,
		WorkerIDs: w.WorkerIDs,
		StartTime: w.StartTime,
		EndTime:   w.EndTime,
		Duration:  w.Duration,
		Date:      w.Date,
		Work:      work,
	}
	if e.Date.IsZero() && !e.StartTime.IsZero() {
		e.Date = DateOf(e.StartTime)
	}
	return nil
}

// =============================================================================
// WORKER
// =============================================================================

// Worker is a crew member and their rates. A rate of 0 means "not set".
type Worker struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Rate            float64 `json:"rate"`                      // €/hour, hourly + construction
	PanelRate       float64 `json:"panelRate,omitempty"`       // €/panel
	CableRateSmall  float64 `json:"cableRateSmall,omitempty"`  // €/table
	CableRateMedium float64 `json:"cableRateMedium,omitempty"` // €/table
	CableRateLarge  float64 `json:"cableRateLarge,omitempty"`  // €/table
}

// =============================================================================
// PROJECT
// =============================================================================

type ProjectStatus string

const (
	StatusActive    ProjectStatus = "active"
	StatusCompleted ProjectStatus = "completed"
	StatusPaused    ProjectStatus = "paused"
)

func (s ProjectStatus) Valid() bool {
	return s == StatusActive || s == StatusCompleted || s == StatusPaused
}

// Project is a site with a fixed list of tables and an assigned crew.
type Project struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Status    ProjectStatus `json:"status"`
	Tables    []string      `json:"tables"`
	WorkerIDs []string      `json:"workerIds"`
}

func (p Project) HasTable(table string) bool {
	for _, t := range p.Tables {
		if t == table {
			return true
		}
	}
	return false
}

func (p Project) HasWorker(workerID string) bool {
	for _, id := range p.WorkerIDs {
		if id == workerID {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with p.
func (p Project) Clone() Project {
	p.Tables = append([]string(nil), p.Tables...)
	p.WorkerIDs = append([]string(nil), p.WorkerIDs...)
	return p
}

// =============================================================================
// ATTENDANCE
// =============================================================================

// AttendanceRecord lists who was present on a project for one day.
type AttendanceRecord struct {
	ID               string   `json:"id"`
	ProjectID        string   `json:"projectId"`
	Date             Date     `json:"date"`
	PresentWorkerIDs []string `json:"presentWorkerIds"`
}

// AttendanceID is the composite key of a record: projectId_date.
func AttendanceID(projectID string, date Date) string {
	return projectID + "_" + date.String()
}

// =============================================================================
// SETTINGS
// =============================================================================

type Theme string

const (
	ThemeDusk    Theme = "dusk"
	ThemeSlate   Theme = "slate"
	ThemeForest  Theme = "forest"
	ThemeCrimson Theme = "crimson"

	DefaultTheme  = ThemeDusk
	DefaultLocale = "cs"
)

func (t Theme) Valid() bool {
	switch t {
	case ThemeDusk, ThemeSlate, ThemeForest, ThemeCrimson:
		return true
	}
	return false
}

// Settings are the per-installation preferences kept next to the data.
type Settings struct {
	Theme  Theme  `json:"theme"`
	Locale string `json:"locale"`
}

// =============================================================================
// SNAPSHOT - export/import document
// =============================================================================

// Snapshot is the whole persisted state. Its JSON keys match the store keys.
// A zero Theme or empty Locale means "not present in the payload".
type Snapshot struct {
	Projects          []Project          `json:"projects,omitempty"`
	Workers           []Worker           `json:"workers,omitempty"`
	WorkEntries       []WorkEntry        `json:"workEntries,omitempty"`
	AttendanceRecords []AttendanceRecord `json:"attendanceRecords,omitempty"`
	Theme             Theme              `json:"theme,omitempty"`
	Locale            string             `json:"locale,omitempty"`
}
