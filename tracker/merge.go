/*
merge.go - Import / export of the whole state

PURPOSE:
  Export reads the store into a Snapshot. Import merges a Snapshot from
  another device into the local state, writes the result and reloads.

MERGE POLICY:
  projects, workers   incoming overwrites local by id. The built-in
                      project is never overwritten and is always present.
  work entries        keep latest by endTime: an incoming entry replaces
                      the local entry with the same id only when its
                      endTime is strictly later. Unknown ids are added.
  attendance          incoming overwrites local by id (projectId_date when
                      the id is missing).
  theme, locale       applied when present (and, for theme, valid).

  Records without an id are skipped. Order is local order first, then new
  records in incoming order.

AFTER THE MERGE:
  Every collection is written in one PutBatch, then the tracker reloads
  from the store. A failed write leaves memory untouched.

SEE ALSO:
  - backup.go: reading/writing snapshot files
  - tracker.go: Load
*/
package tracker

import (
	"context"
	"fmt"

	"github.com/warp/solarwork/worklog"
)

// MergeCounts reports what happened to one collection.
type MergeCounts struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Kept    int `json:"kept"`
}

// MergeResult reports the outcome of an import.
type MergeResult struct {
	Projects      MergeCounts `json:"projects"`
	Workers       MergeCounts `json:"workers"`
	WorkEntries   MergeCounts `json:"workEntries"`
	Attendance    MergeCounts `json:"attendanceRecords"`
	Skipped       int         `json:"skipped"`
	ThemeApplied  bool        `json:"themeApplied"`
	LocaleApplied bool        `json:"localeApplied"`
}

// Merge combines local and incoming. It does not modify either input.
func Merge(local, incoming worklog.Snapshot, builtin worklog.Project) (worklog.Snapshot, MergeResult) {
	var res MergeResult
	out := worklog.Snapshot{Theme: local.Theme, Locale: local.Locale}

	// Projects: overwrite by id, built-in protected.
	out.Projects = cloneProjects(local.Projects)
	if indexOfProject(out.Projects, builtin.ID) < 0 {
		out.Projects = append([]worklog.Project{builtin.Clone()}, out.Projects...)
	}
	for _, p := range incoming.Projects {
		switch {
		case p.ID == "":
			res.Skipped++
		case p.ID == builtin.ID:
			res.Projects.Kept++
		default:
			if i := indexOfProject(out.Projects, p.ID); i >= 0 {
				out.Projects[i] = p.Clone()
				res.Projects.Updated++
			} else {
				out.Projects = append(out.Projects, p.Clone())
				res.Projects.Added++
			}
		}
	}

	// Workers: overwrite by id.
	out.Workers = append([]worklog.Worker(nil), local.Workers...)
	for _, w := range incoming.Workers {
		if w.ID == "" {
			res.Skipped++
			continue
		}
		if i := indexOfWorker(out.Workers, w.ID); i >= 0 {
			out.Workers[i] = w
			res.Workers.Updated++
		} else {
			out.Workers = append(out.Workers, w)
			res.Workers.Added++
		}
	}

	// Entries: keep latest by endTime.
	out.WorkEntries = cloneEntries(local.WorkEntries)
	for _, e := range incoming.WorkEntries {
		if e.ID == "" {
			res.Skipped++
			continue
		}
		i := indexOfEntry(out.WorkEntries, e.ID)
		switch {
		case i < 0:
			out.WorkEntries = append(out.WorkEntries, e.Clone())
			res.WorkEntries.Added++
		case e.EndTime.After(out.WorkEntries[i].EndTime):
			out.WorkEntries[i] = e.Clone()
			res.WorkEntries.Updated++
		default:
			res.WorkEntries.Kept++
		}
	}

	// Attendance: overwrite by id.
	out.AttendanceRecords = cloneRecords(local.AttendanceRecords)
	for _, r := range incoming.AttendanceRecords {
		if r.ID == "" && r.ProjectID != "" && !r.Date.IsZero() {
			r.ID = worklog.AttendanceID(r.ProjectID, r.Date)
		}
		if r.ID == "" {
			res.Skipped++
			continue
		}
		found := false
		for i := range out.AttendanceRecords {
			if out.AttendanceRecords[i].ID == r.ID {
				out.AttendanceRecords[i] = cloneRecord(r)
				found = true
				break
			}
		}
		if found {
			res.Attendance.Updated++
		} else {
			out.AttendanceRecords = append(out.AttendanceRecords, cloneRecord(r))
			res.Attendance.Added++
		}
	}

	if incoming.Theme.Valid() {
		out.Theme = incoming.Theme
		res.ThemeApplied = true
	}
	if incoming.Locale != "" {
		out.Locale = incoming.Locale
		res.LocaleApplied = true
	}
	return out, res
}

// Import merges snap into the stored state and reloads from the store.
func (t *Tracker) Import(ctx context.Context, snap worklog.Snapshot) (MergeResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	local := worklog.Snapshot{
		Projects:          t.projects,
		Workers:           t.workers,
		WorkEntries:       t.entries,
		AttendanceRecords: t.attendance,
		Theme:             t.settings.Theme,
		Locale:            t.settings.Locale,
	}
	merged, res := Merge(local, snap, t.builtin)

	values := map[string]any{
		worklog.KeyProjects:          nonNil(merged.Projects),
		worklog.KeyWorkers:           nonNil(merged.Workers),
		worklog.KeyWorkEntries:       nonNil(merged.WorkEntries),
		worklog.KeyAttendanceRecords: nonNil(merged.AttendanceRecords),
		worklog.KeyTheme:             merged.Theme,
		worklog.KeyLocale:            merged.Locale,
	}
	if err := t.write(ctx, values); err != nil {
		return MergeResult{}, fmt.Errorf("import: %w", err)
	}
	if err := t.loadLocked(ctx); err != nil {
		return MergeResult{}, fmt.Errorf("import: reload: %w", err)
	}

	t.log.Info("import merged",
		"projects_added", res.Projects.Added,
		"workers_added", res.Workers.Added,
		"entries_added", res.WorkEntries.Added,
		"entries_updated", res.WorkEntries.Updated,
		"entries_kept", res.WorkEntries.Kept,
		"skipped", res.Skipped)
	return res, nil
}

// Export reads the stored state.
func (t *Tracker) Export(ctx context.Context) (worklog.Snapshot, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap, err := readStore(ctx, t.store, t.log)
	if err != nil {
		return worklog.Snapshot{}, fmt.Errorf("export: %w", err)
	}
	return snap, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
