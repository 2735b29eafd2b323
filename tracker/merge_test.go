package tracker_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/solarwork/payroll"
	"github.com/warp/solarwork/tracker"
	"github.com/warp/solarwork/worklog"
)

// =============================================================================
// MERGE POLICY
// =============================================================================

func TestMerge_KeepsLatestEntryByEndTime(t *testing.T) {
	// GIVEN: local e1 ends at 9:00
	// WHEN: importing e1 ending at 8:00, then e1 ending at 10:00
	// THEN: the earlier one is ignored, the later one wins

	builtin := tracker.DefaultBuiltinProject()
	local := worklog.Snapshot{WorkEntries: []worklog.WorkEntry{hourly("e1", "w")}}

	older := hourly("e1", "w")
	older.EndTime = at(10, 8)
	merged, res := tracker.Merge(local, worklog.Snapshot{WorkEntries: []worklog.WorkEntry{older}}, builtin)
	require.Len(t, merged.WorkEntries, 1)
	assert.Equal(t, at(10, 9), merged.WorkEntries[0].EndTime)
	assert.Equal(t, 1, res.WorkEntries.Kept)

	same := hourly("e1", "v")
	merged, res = tracker.Merge(local, worklog.Snapshot{WorkEntries: []worklog.WorkEntry{same}}, builtin)
	assert.Equal(t, []string{"w"}, merged.WorkEntries[0].WorkerIDs, "equal endTime keeps local")
	assert.Equal(t, 1, res.WorkEntries.Kept)

	newer := hourly("e1", "v")
	newer.EndTime = at(10, 10)
	added := hourly("e2", "v")
	merged, res = tracker.Merge(local, worklog.Snapshot{WorkEntries: []worklog.WorkEntry{newer, added}}, builtin)
	require.Len(t, merged.WorkEntries, 2)
	assert.Equal(t, at(10, 10), merged.WorkEntries[0].EndTime)
	assert.Equal(t, "e2", merged.WorkEntries[1].ID)
	assert.Equal(t, tracker.MergeCounts{Added: 1, Updated: 1}, res.WorkEntries)
}

func TestMerge_BuiltinProjectProtected(t *testing.T) {
	builtin := tracker.DefaultBuiltinProject()
	builtin.Tables = []string{"A1"}
	local := worklog.Snapshot{Projects: []worklog.Project{
		builtin,
		{ID: "p1", Name: "Old name", Status: worklog.StatusActive},
	}}

	incoming := worklog.Snapshot{Projects: []worklog.Project{
		{ID: tracker.BuiltinProjectID, Name: "Hijacked", Status: worklog.StatusPaused},
		{ID: "p1", Name: "New name", Status: worklog.StatusCompleted},
		{ID: "p2", Name: "Fresh", Status: worklog.StatusActive},
	}}

	merged, res := tracker.Merge(local, incoming, builtin)

	require.Len(t, merged.Projects, 3)
	assert.Equal(t, "Zarasai", merged.Projects[0].Name)
	assert.Equal(t, []string{"A1"}, merged.Projects[0].Tables)
	assert.Equal(t, "New name", merged.Projects[1].Name)
	assert.Equal(t, "Fresh", merged.Projects[2].Name)
	assert.Equal(t, tracker.MergeCounts{Added: 1, Updated: 1, Kept: 1}, res.Projects)

	// Missing locally and in the payload: still present afterwards.
	merged, _ = tracker.Merge(worklog.Snapshot{}, worklog.Snapshot{}, builtin)
	require.Len(t, merged.Projects, 1)
	assert.Equal(t, tracker.BuiltinProjectID, merged.Projects[0].ID)
}

func TestMerge_WorkersAttendanceSettings(t *testing.T) {
	day := worklog.NewDate(2025, time.March, 10)
	local := worklog.Snapshot{
		Workers: []worklog.Worker{{ID: "w", Name: "Jonas", Rate: 10}},
		AttendanceRecords: []worklog.AttendanceRecord{
			{ID: "p1_2025-03-10", ProjectID: "p1", Date: day, PresentWorkerIDs: []string{"w"}},
		},
		Theme:  worklog.ThemeDusk,
		Locale: "cs",
	}
	incoming := worklog.Snapshot{
		Workers: []worklog.Worker{{ID: "w", Name: "Jonas", Rate: 14}, {Name: "no id"}},
		AttendanceRecords: []worklog.AttendanceRecord{
			{ProjectID: "p1", Date: day, PresentWorkerIDs: []string{}},
		},
		Theme:  "not-a-theme",
		Locale: "lt",
	}

	merged, res := tracker.Merge(local, incoming, tracker.DefaultBuiltinProject())

	assert.Equal(t, 14.0, merged.Workers[0].Rate)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, merged.AttendanceRecords, 1)
	assert.Empty(t, merged.AttendanceRecords[0].PresentWorkerIDs)
	assert.Equal(t, 1, res.Attendance.Updated)
	assert.Equal(t, worklog.ThemeDusk, merged.Theme, "invalid theme ignored")
	assert.False(t, res.ThemeApplied)
	assert.Equal(t, "lt", merged.Locale)
}

// =============================================================================
// IMPORT / EXPORT
// =============================================================================

func TestImport_WritesAndReloads(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTracker(t)
	seed(t, tr)
	_, err := tr.AddWorkEntry(ctx, hourly("e1", "w"))
	require.NoError(t, err)

	older := hourly("e1", "v")
	older.EndTime = at(10, 8)
	res, err := tr.Import(ctx, worklog.Snapshot{
		Workers:     []worklog.Worker{{ID: "x", Name: "Marius", Rate: 9}},
		WorkEntries: []worklog.WorkEntry{older, cables("c9", "T4", 11, "x")},
		Theme:       worklog.ThemeSlate,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.WorkEntries.Kept)
	assert.Equal(t, 1, res.WorkEntries.Added)
	assert.Len(t, tr.Workers(), 3)
	e1, err := tr.WorkEntry("e1")
	require.NoError(t, err)
	assert.Equal(t, []string{"w"}, e1.WorkerIDs, "local entry not overwritten by an older one")
	assert.Equal(t, worklog.ThemeSlate, tr.Settings().Theme)

	snap, err := tr.Export(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.WorkEntries, 2)
	assert.Equal(t, worklog.ThemeSlate, snap.Theme)
}

func TestImport_ExportRoundTripThroughFile(t *testing.T) {
	ctx := context.Background()
	src, _ := newTestTracker(t)
	seed(t, src)
	_, err := src.AddWorkEntry(ctx, cables("c1", "T1", 10, "w", "v"))
	require.NoError(t, err)

	snap, err := src.Export(ctx)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tracker.WriteSnapshot(&buf, snap, true))

	read, err := tracker.ReadSnapshot(&buf)
	require.NoError(t, err)

	dst, _ := newTestTracker(t)
	_, err = dst.Import(ctx, read)
	require.NoError(t, err)

	assert.Equal(t,
		src.Payroll(payroll.Filter{})[0].TotalEarnings.String(),
		dst.Payroll(payroll.Filter{})[0].TotalEarnings.String())
	done, err := dst.CompletedTables("p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"T1"}, done)
}

// =============================================================================
// SNAPSHOT FILES
// =============================================================================

func TestReadSnapshot_PlainJSON(t *testing.T) {
	snap, err := tracker.ReadSnapshot(strings.NewReader(`{
		"workers": [{"id": "w", "name": "Jonas", "rate": 10}],
		"workEntries": [{
			"id": "e1", "projectId": "p1", "workerIds": ["w"],
			"startTime": "2025-03-10T07:00:00.000Z", "endTime": "2025-03-10T09:00:00.000Z",
			"duration": 2, "date": "2025-03-10T07:00:00.000Z",
			"type": "task", "subType": "cables", "table": "T1", "tableSize": "large"
		}],
		"theme": "forest"
	}`))
	require.NoError(t, err)

	require.Len(t, snap.WorkEntries, 1)
	assert.Equal(t, worklog.Cables{Table: "T1", Size: worklog.SizeLarge}, snap.WorkEntries[0].Work)
	assert.Equal(t, worklog.NewDate(2025, time.March, 10), snap.WorkEntries[0].Date)
	assert.Equal(t, worklog.ThemeForest, snap.Theme)
}

func TestReadSnapshot_Malformed(t *testing.T) {
	_, err := tracker.ReadSnapshot(strings.NewReader(`{"workers": [`))
	assert.ErrorIs(t, err, worklog.ErrImportFormat)

	_, err = tracker.ReadSnapshot(strings.NewReader(`{"workEntries": [{"id": "e1", "type": "overtime"}]}`))
	assert.ErrorIs(t, err, worklog.ErrImportFormat)

	_, err = tracker.ReadSnapshot(bytes.NewReader([]byte{0xFD, '7', 'z', 'X', 'Z', 0x00, 1, 2, 3}))
	assert.ErrorIs(t, err, worklog.ErrImportFormat)
}
