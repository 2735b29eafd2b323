package worklog_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/solarwork/worklog"
)

// =============================================================================
// WORK ENTRY WIRE FORMAT
// =============================================================================

func TestWorkEntry_JSONVariants(t *testing.T) {
	tests := []struct {
		name string
		wire string
		want worklog.Work
	}{
		{
			name: "hourly",
			wire: `{"type":"hourly","description":"fencing"}`,
			want: worklog.Hourly{Description: "fencing"},
		},
		{
			name: "paneling",
			wire: `{"type":"task","subType":"paneling","moduleCount":120,"modulesPerHour":15}`,
			want: worklog.Paneling{ModuleCount: 120, ModulesPerHour: 15},
		},
		{
			name: "construction",
			wire: `{"type":"task","subType":"construction","description":"rails"}`,
			want: worklog.Construction{Description: "rails"},
		},
		{
			name: "cables",
			wire: `{"type":"task","subType":"cables","table":"T12","tableSize":"large"}`,
			want: worklog.Cables{Table: "T12", Size: worklog.SizeLarge},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN the variant fields merged into a full entry
			var fields map[string]any
			require.NoError(t, json.Unmarshal([]byte(tt.wire), &fields))
			fields["id"] = "e1"
			fields["projectId"] = "p1"
			fields["workerIds"] = []string{"w"}
			fields["startTime"] = "2025-03-10T07:00:00Z"
			fields["endTime"] = "2025-03-10T15:00:00Z"
			data, err := json.Marshal(fields)
			require.NoError(t, err)

			// WHEN it is decoded
			var e worklog.WorkEntry
			require.NoError(t, json.Unmarshal(data, &e))

			// THEN the variant and the common fields come through
			assert.Equal(t, tt.want, e.Work)
			assert.Equal(t, "p1", e.ProjectID)
			assert.Equal(t, worklog.NewDate(2025, time.March, 10), e.Date)

			// AND encoding it again yields the same type tags
			out, err := json.Marshal(e)
			require.NoError(t, err)
			var back map[string]any
			require.NoError(t, json.Unmarshal(out, &back))
			assert.Equal(t, fields["type"], back["type"])
			assert.Equal(t, fields["subType"], back["subType"])
			assert.Equal(t, "2025-03-10", back["date"])
		})
	}
}

func TestWorkEntry_UnknownType(t *testing.T) {
	for _, wire := range []string{
		`{"id":"e1","type":"overtime"}`,
		`{"id":"e1","type":"task","subType":"welding"}`,
		`{"id":"e1","type":"task"}`,
	} {
		var e worklog.WorkEntry
		err := json.Unmarshal([]byte(wire), &e)
		assert.ErrorIs(t, err, worklog.ErrUnknownWorkType, wire)
	}
}

func TestWorkEntry_MarshalWithoutWork(t *testing.T) {
	_, err := json.Marshal(worklog.WorkEntry{ID: "e1"})
	assert.ErrorIs(t, err, worklog.ErrUnknownWorkType)
}

func TestWorkEntry_EmptyCrewEncodesAsArray(t *testing.T) {
	out, err := json.Marshal(worklog.WorkEntry{ID: "e1", Work: worklog.Hourly{}})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"workerIds":[]`)
}

func TestNormalize(t *testing.T) {
	start := time.Date(2025, time.March, 10, 7, 0, 0, 0, time.UTC)
	e := worklog.Normalize(worklog.WorkEntry{
		StartTime: start,
		EndTime:   start.Add(4 * time.Hour),
		Work:      worklog.Paneling{ModuleCount: 60, ModulesPerHour: 99},
	})

	assert.Equal(t, 4.0, e.Duration)
	assert.Equal(t, worklog.NewDate(2025, time.March, 10), e.Date)
	assert.Equal(t, 15.0, e.Work.(worklog.Paneling).ModulesPerHour)

	// An explicit grouping date is kept.
	e.Date = worklog.NewDate(2025, time.March, 9)
	assert.Equal(t, worklog.NewDate(2025, time.March, 9), worklog.Normalize(e).Date)
}

func TestWorkEntry_CableTable(t *testing.T) {
	table, ok := worklog.WorkEntry{Work: worklog.Cables{Table: "T3"}}.CableTable()
	assert.True(t, ok)
	assert.Equal(t, "T3", table)

	_, ok = worklog.WorkEntry{Work: worklog.Hourly{}}.CableTable()
	assert.False(t, ok)
}

func TestWorkEntry_CloneSharesNothing(t *testing.T) {
	e := worklog.WorkEntry{WorkerIDs: []string{"w", "v"}}
	c := e.Clone()
	c.WorkerIDs[0] = "x"
	assert.Equal(t, "w", e.WorkerIDs[0])
}

// =============================================================================
// DATES
// =============================================================================

func TestParseDate(t *testing.T) {
	d, err := worklog.ParseDate("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, worklog.NewDate(2025, time.March, 10), d)

	// Timestamps keep their literal date part.
	d, err = worklog.ParseDate("2025-03-10T23:30:00.000Z")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", d.String())

	for _, bad := range []string{"", "2025-3-1", "10.03.2025", "2025-02-30"} {
		_, err := worklog.ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestDate_JSON(t *testing.T) {
	var rec worklog.AttendanceRecord
	require.NoError(t, json.Unmarshal([]byte(`{"id":"p1_2025-03-10","date":"2025-03-10"}`), &rec))
	assert.Equal(t, worklog.NewDate(2025, time.March, 10), rec.Date)

	out, err := json.Marshal(worklog.Date{})
	require.NoError(t, err)
	assert.Equal(t, `""`, string(out))
}

func TestDate_Arithmetic(t *testing.T) {
	d := worklog.NewDate(2025, time.February, 27)

	assert.Equal(t, worklog.NewDate(2025, time.March, 1), d.AddDays(2))
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.AddDays(1).After(d))
	assert.True(t, d.InMonth(2025, time.February))
}

func TestMonthRange(t *testing.T) {
	from, to, err := worklog.MonthRange("2024-02")
	require.NoError(t, err)
	assert.Equal(t, worklog.NewDate(2024, time.February, 1), from)
	assert.Equal(t, worklog.NewDate(2024, time.February, 29), to)

	_, _, err = worklog.MonthRange("Feb")
	assert.Error(t, err)
}

func TestAttendanceID(t *testing.T) {
	assert.Equal(t, "p1_2025-03-10", worklog.AttendanceID("p1", worklog.NewDate(2025, time.March, 10)))
}
