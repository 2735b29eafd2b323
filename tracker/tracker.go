/*
Package tracker owns the application state of the crew tracker.

PURPOSE:
  Holds the in-memory collections (projects, workers, work entries,
  attendance, settings), validates every change against them, and writes
  each change through to the durable store before it becomes visible.

WRITE PATH:
  Every mutation follows the same steps under the write lock:
    1. copy the affected collection(s)
    2. validate and change the copies
    3. write the whole collection(s) to the store in one PutBatch
    4. swap the copies in

  A failed write returns an error wrapping worklog.ErrStore and leaves the
  in-memory state exactly as it was.

CASCADES:
  DeleteProject  -> its entries, its attendance records, its plan blob
  DeleteWorker   -> removed from every entry (entries left with no crew are
                    dropped), from every project roster and attendance record

BUILT-IN PROJECT:
  One project (see WithBuiltinProject) always exists. It can be edited but
  never deleted, and Import never overwrites it.

SEE ALSO:
  - merge.go: Import/Export and the merge policy
  - backup.go: snapshot file codec
  - payroll/aggregate.go, forecast/forecast.go: read-side queries
*/
package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/warp/solarwork/forecast"
	"github.com/warp/solarwork/payroll"
	"github.com/warp/solarwork/worklog"
)

const (
	BuiltinProjectID   = "zarasai_predefined"
	BuiltinProjectName = "Zarasai"
)

// DefaultBuiltinProject returns the built-in project with no tables.
func DefaultBuiltinProject() worklog.Project {
	return worklog.Project{
		ID:     BuiltinProjectID,
		Name:   BuiltinProjectName,
		Status: worklog.StatusActive,
	}
}

// =============================================================================
// TRACKER
// =============================================================================

// Tracker is safe for concurrent use.
type Tracker struct {
	store   worklog.Store
	blobs   worklog.BlobStore
	log     *slog.Logger
	builtin worklog.Project
	now     func() time.Time
	newID   func() string

	mu         sync.RWMutex
	projects   []worklog.Project
	workers    []worklog.Worker
	entries    []worklog.WorkEntry
	attendance []worklog.AttendanceRecord
	settings   worklog.Settings
}

type Option func(*Tracker)

func WithLogger(log *slog.Logger) Option {
	return func(t *Tracker) { t.log = log }
}

// WithBuiltinProject replaces the default built-in project.
func WithBuiltinProject(p worklog.Project) Option {
	return func(t *Tracker) {
		p.Tables = worklog.NormalizeTables(p.Tables)
		if p.Status == "" {
			p.Status = worklog.StatusActive
		}
		t.builtin = p
	}
}

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(t *Tracker) { t.newID = newID }
}

// New creates a tracker over store and blobs. blobs may be nil, in which
// case plan operations fail. Call Load before use.
func New(store worklog.Store, blobs worklog.BlobStore, opts ...Option) *Tracker {
	t := &Tracker{
		store:    store,
		blobs:    blobs,
		log:      slog.Default(),
		builtin:  DefaultBuiltinProject(),
		now:      time.Now,
		newID:    uuid.NewString,
		settings: worklog.Settings{Theme: worklog.DefaultTheme, Locale: worklog.DefaultLocale},
	}
	for _, opt := range opts {
		opt(t)
	}
	t.projects = []worklog.Project{t.builtin.Clone()}
	return t
}

// BuiltinProject returns the id of the project that cannot be deleted.
func (t *Tracker) BuiltinProject() string { return t.builtin.ID }

// Today returns the current date by the tracker's clock.
func (t *Tracker) Today() worklog.Date { return worklog.DateOf(t.now()) }

// =============================================================================
// LOAD - clean-slate reload from the store
// =============================================================================

// Load replaces all in-memory state with what the store holds.
func (t *Tracker) Load(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loadLocked(ctx)
}

func (t *Tracker) loadLocked(ctx context.Context) error {
	snap, err := readStore(ctx, t.store, t.log)
	if err != nil {
		return err
	}

	projects := snap.Projects
	if indexOfProject(projects, t.builtin.ID) < 0 {
		projects = append([]worklog.Project{t.builtin.Clone()}, projects...)
	}
	for i := range snap.WorkEntries {
		snap.WorkEntries[i] = worklog.Normalize(snap.WorkEntries[i])
	}

	settings := worklog.Settings{Theme: worklog.DefaultTheme, Locale: worklog.DefaultLocale}
	if snap.Theme.Valid() {
		settings.Theme = snap.Theme
	}
	if snap.Locale != "" {
		settings.Locale = snap.Locale
	}

	t.projects = projects
	t.workers = snap.Workers
	t.entries = snap.WorkEntries
	t.attendance = snap.AttendanceRecords
	t.settings = settings

	t.log.Debug("state loaded",
		"projects", len(t.projects),
		"workers", len(t.workers),
		"entries", len(t.entries),
		"attendance", len(t.attendance))
	return nil
}

// Reset empties every collection and restores default settings. Only the
// built-in project, with its configured tables, survives. Plans of the
// removed projects are deleted after the collections are written.
func (t *Tracker) Reset(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	values := map[string]any{
		worklog.KeyProjects:          []worklog.Project{t.builtin.Clone()},
		worklog.KeyWorkers:           []worklog.Worker{},
		worklog.KeyWorkEntries:       []worklog.WorkEntry{},
		worklog.KeyAttendanceRecords: []worklog.AttendanceRecord{},
		worklog.KeyTheme:             worklog.DefaultTheme,
		worklog.KeyLocale:            worklog.DefaultLocale,
	}
	if err := t.write(ctx, values); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	if t.blobs != nil {
		for _, p := range t.projects {
			if err := t.blobs.DeleteBlob(ctx, p.ID); err != nil {
				t.log.Warn("plan not deleted on reset", "project", p.ID, "error", err)
			}
		}
	}
	if err := t.loadLocked(ctx); err != nil {
		return fmt.Errorf("reset: reload: %w", err)
	}
	t.log.Info("state reset")
	return nil
}

// readStore decodes every snapshot key present in store. Entries that
// cannot be decoded are logged and skipped.
func readStore(ctx context.Context, store worklog.Store, log *slog.Logger) (worklog.Snapshot, error) {
	var snap worklog.Snapshot

	get := func(key string, into any) error {
		raw, ok, err := store.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("%w: read %s: %v", worklog.ErrStore, key, err)
		}
		if !ok || len(raw) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, into); err != nil {
			return fmt.Errorf("%w: decode %s: %v", worklog.ErrStore, key, err)
		}
		return nil
	}

	if err := get(worklog.KeyProjects, &snap.Projects); err != nil {
		return snap, err
	}
	if err := get(worklog.KeyWorkers, &snap.Workers); err != nil {
		return snap, err
	}
	if err := get(worklog.KeyAttendanceRecords, &snap.AttendanceRecords); err != nil {
		return snap, err
	}
	if err := get(worklog.KeyTheme, &snap.Theme); err != nil {
		return snap, err
	}
	if err := get(worklog.KeyLocale, &snap.Locale); err != nil {
		return snap, err
	}

	var rawEntries []json.RawMessage
	if err := get(worklog.KeyWorkEntries, &rawEntries); err != nil {
		return snap, err
	}
	for _, raw := range rawEntries {
		var e worklog.WorkEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			log.Warn("skipping unreadable work entry", "error", err)
			continue
		}
		snap.WorkEntries = append(snap.WorkEntries, e)
	}
	return snap, nil
}

// =============================================================================
// WRITE PATH
// =============================================================================

// write persists whole collections in one batch.
func (t *Tracker) write(ctx context.Context, values map[string]any) error {
	batch := make(map[string][]byte, len(values))
	for key, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		batch[key] = raw
	}
	if err := t.store.PutBatch(ctx, batch); err != nil {
		t.log.Error("store write failed", "keys", len(batch), "error", err)
		return fmt.Errorf("%w: %v", worklog.ErrStore, err)
	}
	return nil
}

// =============================================================================
// PROJECTS
// =============================================================================

func (t *Tracker) Projects() []worklog.Project {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]worklog.Project, len(t.projects))
	for i, p := range t.projects {
		out[i] = p.Clone()
	}
	return out
}

func (t *Tracker) Project(id string) (worklog.Project, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	i := indexOfProject(t.projects, id)
	if i < 0 {
		return worklog.Project{}, &worklog.NotFoundError{Kind: "project", ID: id}
	}
	return t.projects[i].Clone(), nil
}

// AddProject creates a project. An empty id is generated, an empty status
// defaults to active.
func (t *Tracker) AddProject(ctx context.Context, p worklog.Project) (worklog.Project, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if p.ID == "" {
		p.ID = t.newID()
	}
	if p.Status == "" {
		p.Status = worklog.StatusActive
	}
	p.Tables = worklog.NormalizeTables(p.Tables)
	p.WorkerIDs = dedupe(p.WorkerIDs)
	if err := worklog.ValidateProject(p); err != nil {
		return worklog.Project{}, err
	}
	if indexOfProject(t.projects, p.ID) >= 0 {
		return worklog.Project{}, worklog.Invalid(worklog.CodeFormIncomplete, "id", "project %q already exists", p.ID)
	}
	if err := t.checkWorkers(p.WorkerIDs); err != nil {
		return worklog.Project{}, err
	}

	projects := append(cloneProjects(t.projects), p.Clone())
	if err := t.write(ctx, map[string]any{worklog.KeyProjects: projects}); err != nil {
		return worklog.Project{}, err
	}
	t.projects = projects
	t.log.Info("project added", "project", p.ID, "tables", len(p.Tables))
	return p.Clone(), nil
}

// UpdateProject replaces name, status and tables. A nil WorkerIDs keeps the
// current roster.
func (t *Tracker) UpdateProject(ctx context.Context, p worklog.Project) (worklog.Project, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := indexOfProject(t.projects, p.ID)
	if i < 0 {
		return worklog.Project{}, &worklog.NotFoundError{Kind: "project", ID: p.ID}
	}
	if p.Status == "" {
		p.Status = t.projects[i].Status
	}
	if p.WorkerIDs == nil {
		p.WorkerIDs = t.projects[i].WorkerIDs
	}
	p.Tables = worklog.NormalizeTables(p.Tables)
	p.WorkerIDs = dedupe(p.WorkerIDs)
	if err := worklog.ValidateProject(p); err != nil {
		return worklog.Project{}, err
	}
	if err := t.checkWorkers(p.WorkerIDs); err != nil {
		return worklog.Project{}, err
	}

	projects := cloneProjects(t.projects)
	projects[i] = p.Clone()
	if err := t.write(ctx, map[string]any{worklog.KeyProjects: projects}); err != nil {
		return worklog.Project{}, err
	}
	t.projects = projects
	return p.Clone(), nil
}

// SetProjectWorkers replaces the project roster.
func (t *Tracker) SetProjectWorkers(ctx context.Context, projectID string, workerIDs []string) (worklog.Project, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := indexOfProject(t.projects, projectID)
	if i < 0 {
		return worklog.Project{}, &worklog.NotFoundError{Kind: "project", ID: projectID}
	}
	workerIDs = dedupe(workerIDs)
	if err := t.checkWorkers(workerIDs); err != nil {
		return worklog.Project{}, err
	}

	projects := cloneProjects(t.projects)
	projects[i].WorkerIDs = workerIDs
	if err := t.write(ctx, map[string]any{worklog.KeyProjects: projects}); err != nil {
		return worklog.Project{}, err
	}
	t.projects = projects
	return projects[i].Clone(), nil
}

// DeleteProject removes a project with its entries, attendance records and
// plan. The built-in project cannot be deleted.
func (t *Tracker) DeleteProject(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if id == t.builtin.ID {
		return worklog.ErrBuiltinProject
	}
	i := indexOfProject(t.projects, id)
	if i < 0 {
		return &worklog.NotFoundError{Kind: "project", ID: id}
	}

	projects := append(cloneProjects(t.projects[:i]), cloneProjects(t.projects[i+1:])...)
	entries := make([]worklog.WorkEntry, 0, len(t.entries))
	for _, e := range t.entries {
		if e.ProjectID != id {
			entries = append(entries, e.Clone())
		}
	}
	attendance := make([]worklog.AttendanceRecord, 0, len(t.attendance))
	for _, r := range t.attendance {
		if r.ProjectID != id {
			attendance = append(attendance, cloneRecord(r))
		}
	}

	err := t.write(ctx, map[string]any{
		worklog.KeyProjects:          projects,
		worklog.KeyWorkEntries:       entries,
		worklog.KeyAttendanceRecords: attendance,
	})
	if err != nil {
		return err
	}
	removed := len(t.entries) - len(entries)
	t.projects, t.entries, t.attendance = projects, entries, attendance

	if t.blobs != nil {
		if err := t.blobs.DeleteBlob(ctx, id); err != nil {
			t.log.Warn("plan not removed", "project", id, "error", err)
		}
	}
	t.log.Info("project deleted", "project", id, "entries_removed", removed)
	return nil
}

// =============================================================================
// WORKERS
// =============================================================================

func (t *Tracker) Workers() []worklog.Worker {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]worklog.Worker(nil), t.workers...)
}

func (t *Tracker) Worker(id string) (worklog.Worker, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	i := indexOfWorker(t.workers, id)
	if i < 0 {
		return worklog.Worker{}, &worklog.NotFoundError{Kind: "worker", ID: id}
	}
	return t.workers[i], nil
}

func (t *Tracker) AddWorker(ctx context.Context, w worklog.Worker) (worklog.Worker, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if w.ID == "" {
		w.ID = t.newID()
	}
	if err := worklog.ValidateWorker(w); err != nil {
		return worklog.Worker{}, err
	}
	if indexOfWorker(t.workers, w.ID) >= 0 {
		return worklog.Worker{}, worklog.Invalid(worklog.CodeFormIncomplete, "id", "worker %q already exists", w.ID)
	}

	workers := append(append([]worklog.Worker(nil), t.workers...), w)
	if err := t.write(ctx, map[string]any{worklog.KeyWorkers: workers}); err != nil {
		return worklog.Worker{}, err
	}
	t.workers = workers
	t.log.Info("worker added", "worker", w.ID)
	return w, nil
}

func (t *Tracker) UpdateWorker(ctx context.Context, w worklog.Worker) (worklog.Worker, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := indexOfWorker(t.workers, w.ID)
	if i < 0 {
		return worklog.Worker{}, &worklog.NotFoundError{Kind: "worker", ID: w.ID}
	}
	if err := worklog.ValidateWorker(w); err != nil {
		return worklog.Worker{}, err
	}

	workers := append([]worklog.Worker(nil), t.workers...)
	workers[i] = w
	if err := t.write(ctx, map[string]any{worklog.KeyWorkers: workers}); err != nil {
		return worklog.Worker{}, err
	}
	t.workers = workers
	return w, nil
}

// DeleteWorker removes a worker everywhere. Entries the worker logged
// alone are deleted; shared entries keep the other worker.
func (t *Tracker) DeleteWorker(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := indexOfWorker(t.workers, id)
	if i < 0 {
		return &worklog.NotFoundError{Kind: "worker", ID: id}
	}

	workers := append(append([]worklog.Worker(nil), t.workers[:i]...), t.workers[i+1:]...)

	entries := make([]worklog.WorkEntry, 0, len(t.entries))
	for _, e := range t.entries {
		e = e.Clone()
		e.WorkerIDs = without(e.WorkerIDs, id)
		if len(e.WorkerIDs) == 0 {
			continue
		}
		entries = append(entries, e)
	}

	projects := cloneProjects(t.projects)
	for j := range projects {
		projects[j].WorkerIDs = without(projects[j].WorkerIDs, id)
	}

	attendance := make([]worklog.AttendanceRecord, len(t.attendance))
	for j, r := range t.attendance {
		r = cloneRecord(r)
		r.PresentWorkerIDs = without(r.PresentWorkerIDs, id)
		attendance[j] = r
	}

	err := t.write(ctx, map[string]any{
		worklog.KeyWorkers:           workers,
		worklog.KeyWorkEntries:       entries,
		worklog.KeyProjects:          projects,
		worklog.KeyAttendanceRecords: attendance,
	})
	if err != nil {
		return err
	}
	t.log.Info("worker deleted", "worker", id, "entries_removed", len(t.entries)-len(entries))
	t.workers, t.entries, t.projects, t.attendance = workers, entries, projects, attendance
	return nil
}

// =============================================================================
// WORK ENTRIES
// =============================================================================

// Entries returns the entries matching f, newest first. A worker filter
// matches entries where any crew member is named.
func (t *Tracker) Entries(f payroll.Filter) []worklog.WorkEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	named := make(map[string]bool, len(f.WorkerIDs))
	for _, id := range f.WorkerIDs {
		named[id] = true
	}

	var out []worklog.WorkEntry
	for _, e := range t.entries {
		if !f.Match(e) {
			continue
		}
		if len(named) > 0 && !anyNamed(e.WorkerIDs, named) {
			continue
		}
		out = append(out, e.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.After(out[j].StartTime)
	})
	return out
}

func (t *Tracker) WorkEntry(id string) (worklog.WorkEntry, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	i := indexOfEntry(t.entries, id)
	if i < 0 {
		return worklog.WorkEntry{}, &worklog.NotFoundError{Kind: "entry", ID: id}
	}
	return t.entries[i].Clone(), nil
}

// AddWorkEntry validates and stores a new entry. Duration, date and
// modules per hour are derived from the entry itself.
func (t *Tracker) AddWorkEntry(ctx context.Context, e worklog.WorkEntry) (worklog.WorkEntry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if e.ID == "" {
		e.ID = t.newID()
	}
	e = worklog.Normalize(e.Clone())
	if indexOfEntry(t.entries, e.ID) >= 0 {
		return worklog.WorkEntry{}, worklog.Invalid(worklog.CodeFormIncomplete, "id", "entry %q already exists", e.ID)
	}
	if err := t.checkEntry(e, ""); err != nil {
		return worklog.WorkEntry{}, err
	}

	entries := append(cloneEntries(t.entries), e)
	if err := t.write(ctx, map[string]any{worklog.KeyWorkEntries: entries}); err != nil {
		return worklog.WorkEntry{}, err
	}
	t.entries = entries
	t.log.Debug("entry added", "entry", e.ID, "kind", e.Kind(), "project", e.ProjectID)
	return e.Clone(), nil
}

// CableLog is a quick-log of several cabled tables by the same crew in the
// same time window.
type CableLog struct {
	ProjectID string
	WorkerIDs []string
	StartTime time.Time
	EndTime   time.Time
	Tables    []string
	Size      worklog.TableSize
}

// AddCableTables creates one cables entry per table. Either every table is
// logged or none is.
func (t *Tracker) AddCableTables(ctx context.Context, l CableLog) ([]worklog.WorkEntry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tables := worklog.NormalizeTables(l.Tables)
	if len(tables) == 0 {
		return nil, worklog.Invalid(worklog.CodeFormIncomplete, "tables", "select at least one table")
	}

	created := make([]worklog.WorkEntry, 0, len(tables))
	for _, table := range tables {
		e := worklog.Normalize(worklog.WorkEntry{
			ID:        t.newID(),
			ProjectID: l.ProjectID,
			WorkerIDs: append([]string(nil), l.WorkerIDs...),
			StartTime: l.StartTime,
			EndTime:   l.EndTime,
			Work:      worklog.Cables{Table: table, Size: l.Size},
		})
		if err := t.checkEntry(e, ""); err != nil {
			return nil, err
		}
		created = append(created, e)
	}

	entries := append(cloneEntries(t.entries), created...)
	if err := t.write(ctx, map[string]any{worklog.KeyWorkEntries: entries}); err != nil {
		return nil, err
	}
	t.entries = entries
	t.log.Info("tables logged", "project", l.ProjectID, "tables", len(created))
	return cloneEntries(created), nil
}

// UpdateWorkEntry replaces an existing entry.
func (t *Tracker) UpdateWorkEntry(ctx context.Context, e worklog.WorkEntry) (worklog.WorkEntry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := indexOfEntry(t.entries, e.ID)
	if i < 0 {
		return worklog.WorkEntry{}, &worklog.NotFoundError{Kind: "entry", ID: e.ID}
	}
	e = e.Clone()
	e.Date = worklog.Date{}
	e = worklog.Normalize(e)
	if err := t.checkEntry(e, e.ID); err != nil {
		return worklog.WorkEntry{}, err
	}

	entries := cloneEntries(t.entries)
	entries[i] = e
	if err := t.write(ctx, map[string]any{worklog.KeyWorkEntries: entries}); err != nil {
		return worklog.WorkEntry{}, err
	}
	t.entries = entries
	return e.Clone(), nil
}

func (t *Tracker) DeleteWorkEntry(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := indexOfEntry(t.entries, id)
	if i < 0 {
		return &worklog.NotFoundError{Kind: "entry", ID: id}
	}

	entries := append(cloneEntries(t.entries[:i]), cloneEntries(t.entries[i+1:])...)
	if err := t.write(ctx, map[string]any{worklog.KeyWorkEntries: entries}); err != nil {
		return err
	}
	t.entries = entries
	return nil
}

// checkEntry runs the stand-alone checks plus the reference checks.
// selfID is excluded from the completed-table check.
func (t *Tracker) checkEntry(e worklog.WorkEntry, selfID string) error {
	if err := worklog.ValidateEntry(e); err != nil {
		return err
	}
	if err := t.checkWorkers(e.WorkerIDs); err != nil {
		return err
	}

	var project *worklog.Project
	if e.ProjectID != "" {
		i := indexOfProject(t.projects, e.ProjectID)
		if i < 0 {
			return worklog.Invalid(worklog.CodeUnknownProject, "projectId", "unknown project %q", e.ProjectID)
		}
		project = &t.projects[i]
	}

	table, ok := e.CableTable()
	if !ok {
		return nil
	}
	if project == nil {
		return worklog.Invalid(worklog.CodeUnknownProject, "projectId", "cable work needs a project")
	}
	if !project.HasTable(table) {
		return worklog.Invalid(worklog.CodeTableNotInProject, "table", "table %q is not part of %s", table, project.Name)
	}
	for _, other := range t.entries {
		if other.ID == selfID || other.ProjectID != project.ID {
			continue
		}
		if done, ok := other.CableTable(); ok && done == table {
			return worklog.Invalid(worklog.CodeTableAlreadyCompleted, "table", "table %q is already completed", table)
		}
	}
	return nil
}

func (t *Tracker) checkWorkers(ids []string) error {
	for _, id := range ids {
		if indexOfWorker(t.workers, id) < 0 {
			return worklog.Invalid(worklog.CodeUnknownWorker, "workerIds", "unknown worker %q", id)
		}
	}
	return nil
}

// =============================================================================
// ATTENDANCE
// =============================================================================

// AttendanceView is the attendance of one project on one day. Saved is
// false when nothing was recorded yet and the whole roster is assumed
// present.
type AttendanceView struct {
	Record worklog.AttendanceRecord
	Saved  bool
}

// SaveAttendance upserts the record of projectID on date.
func (t *Tracker) SaveAttendance(ctx context.Context, projectID string, date worklog.Date, present []string) (worklog.AttendanceRecord, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if indexOfProject(t.projects, projectID) < 0 {
		return worklog.AttendanceRecord{}, &worklog.NotFoundError{Kind: "project", ID: projectID}
	}
	if date.IsZero() {
		return worklog.AttendanceRecord{}, worklog.Invalid(worklog.CodeFormIncomplete, "date", "date is required")
	}
	present = dedupe(present)
	if err := t.checkWorkers(present); err != nil {
		return worklog.AttendanceRecord{}, err
	}

	rec := worklog.AttendanceRecord{
		ID:               worklog.AttendanceID(projectID, date),
		ProjectID:        projectID,
		Date:             date,
		PresentWorkerIDs: present,
	}
	attendance := make([]worklog.AttendanceRecord, 0, len(t.attendance)+1)
	replaced := false
	for _, r := range t.attendance {
		if r.ID == rec.ID {
			r, replaced = rec, true
		}
		attendance = append(attendance, cloneRecord(r))
	}
	if !replaced {
		attendance = append(attendance, cloneRecord(rec))
	}

	if err := t.write(ctx, map[string]any{worklog.KeyAttendanceRecords: attendance}); err != nil {
		return worklog.AttendanceRecord{}, err
	}
	t.attendance = attendance
	return cloneRecord(rec), nil
}

// Attendance returns the record of projectID on date.
func (t *Tracker) Attendance(projectID string, date worklog.Date) (AttendanceView, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	i := indexOfProject(t.projects, projectID)
	if i < 0 {
		return AttendanceView{}, &worklog.NotFoundError{Kind: "project", ID: projectID}
	}
	id := worklog.AttendanceID(projectID, date)
	for _, r := range t.attendance {
		if r.ID == id {
			return AttendanceView{Record: cloneRecord(r), Saved: true}, nil
		}
	}
	return AttendanceView{Record: worklog.AttendanceRecord{
		ID:               id,
		ProjectID:        projectID,
		Date:             date,
		PresentWorkerIDs: append([]string{}, t.projects[i].WorkerIDs...),
	}}, nil
}

// AttendanceRecords lists saved records of a project, newest first.
func (t *Tracker) AttendanceRecords(projectID string) []worklog.AttendanceRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []worklog.AttendanceRecord
	for _, r := range t.attendance {
		if r.ProjectID == projectID {
			out = append(out, cloneRecord(r))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// =============================================================================
// SETTINGS
// =============================================================================

func (t *Tracker) Settings() worklog.Settings {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.settings
}

func (t *Tracker) SetTheme(ctx context.Context, theme worklog.Theme) error {
	if !theme.Valid() {
		return worklog.Invalid(worklog.CodeInvalidTheme, "theme", "unknown theme %q", theme)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.write(ctx, map[string]any{worklog.KeyTheme: theme}); err != nil {
		return err
	}
	t.settings.Theme = theme
	return nil
}

func (t *Tracker) SetLocale(ctx context.Context, locale string) error {
	if locale == "" {
		return worklog.Invalid(worklog.CodeFormIncomplete, "locale", "locale is required")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.write(ctx, map[string]any{worklog.KeyLocale: locale}); err != nil {
		return err
	}
	t.settings.Locale = locale
	return nil
}

// =============================================================================
// PLANS - one blob per project
// =============================================================================

func (t *Tracker) SavePlan(ctx context.Context, projectID, contentType string, data []byte) error {
	if _, err := t.Project(projectID); err != nil {
		return err
	}
	if t.blobs == nil {
		return fmt.Errorf("%w: no blob store configured", worklog.ErrStore)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	err := t.blobs.PutBlob(ctx, worklog.Blob{
		ID:          projectID,
		ContentType: contentType,
		Data:        data,
		UpdatedAt:   t.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("%w: save plan: %v", worklog.ErrStore, err)
	}
	return nil
}

func (t *Tracker) Plan(ctx context.Context, projectID string) (*worklog.Blob, error) {
	if t.blobs == nil {
		return nil, fmt.Errorf("%w: no blob store configured", worklog.ErrStore)
	}
	b, err := t.blobs.GetBlob(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%w: load plan: %v", worklog.ErrStore, err)
	}
	if b == nil {
		return nil, &worklog.NotFoundError{Kind: "plan", ID: projectID}
	}
	return b, nil
}

func (t *Tracker) DeletePlan(ctx context.Context, projectID string) error {
	if t.blobs == nil {
		return fmt.Errorf("%w: no blob store configured", worklog.ErrStore)
	}
	if err := t.blobs.DeleteBlob(ctx, projectID); err != nil {
		return fmt.Errorf("%w: delete plan: %v", worklog.ErrStore, err)
	}
	return nil
}

// =============================================================================
// QUERIES
// =============================================================================

// Payroll aggregates the current entries.
func (t *Tracker) Payroll(f payroll.Filter) []payroll.WorkerStats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return payroll.Aggregate(t.entries, t.workers, f)
}

// Forecast estimates completion of a project. A zero today uses the clock.
func (t *Tracker) Forecast(projectID string, today worklog.Date) (forecast.Forecast, error) {
	if today.IsZero() {
		today = t.Today()
	}
	p, entries, err := t.projectEntries(projectID)
	if err != nil {
		return forecast.Forecast{}, err
	}
	return forecast.Estimate(p.Tables, entries, today), nil
}

// CompletedTables lists the project's cabled tables in completion order.
func (t *Tracker) CompletedTables(projectID string) ([]string, error) {
	p, entries, err := t.projectEntries(projectID)
	if err != nil {
		return nil, err
	}
	return forecast.CompletedTables(p.Tables, entries), nil
}

// projectEntries returns the project and its entries in log order.
func (t *Tracker) projectEntries(projectID string) (worklog.Project, []worklog.WorkEntry, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	i := indexOfProject(t.projects, projectID)
	if i < 0 {
		return worklog.Project{}, nil, &worklog.NotFoundError{Kind: "project", ID: projectID}
	}
	var entries []worklog.WorkEntry
	for _, e := range t.entries {
		if e.ProjectID == projectID {
			entries = append(entries, e)
		}
	}
	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].StartTime.Before(entries[b].StartTime)
	})
	return t.projects[i].Clone(), entries, nil
}

// State returns a copy of the in-memory collections.
func (t *Tracker) State() worklog.Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return worklog.Snapshot{
		Projects:          cloneProjects(t.projects),
		Workers:           append([]worklog.Worker(nil), t.workers...),
		WorkEntries:       cloneEntries(t.entries),
		AttendanceRecords: cloneRecords(t.attendance),
		Theme:             t.settings.Theme,
		Locale:            t.settings.Locale,
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func indexOfProject(projects []worklog.Project, id string) int {
	for i, p := range projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func indexOfWorker(workers []worklog.Worker, id string) int {
	for i, w := range workers {
		if w.ID == id {
			return i
		}
	}
	return -1
}

func indexOfEntry(entries []worklog.WorkEntry, id string) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func cloneProjects(in []worklog.Project) []worklog.Project {
	out := make([]worklog.Project, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}

func cloneEntries(in []worklog.WorkEntry) []worklog.WorkEntry {
	out := make([]worklog.WorkEntry, len(in))
	for i, e := range in {
		out[i] = e.Clone()
	}
	return out
}

func cloneRecord(r worklog.AttendanceRecord) worklog.AttendanceRecord {
	r.PresentWorkerIDs = append([]string{}, r.PresentWorkerIDs...)
	return r
}

func cloneRecords(in []worklog.AttendanceRecord) []worklog.AttendanceRecord {
	out := make([]worklog.AttendanceRecord, len(in))
	for i, r := range in {
		out[i] = cloneRecord(r)
	}
	return out
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func anyNamed(ids []string, named map[string]bool) bool {
	for _, id := range ids {
		if named[id] {
			return true
		}
	}
	return false
}
