package report_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/solarwork/payroll"
	"github.com/warp/solarwork/report"
	"github.com/warp/solarwork/worklog"
	"github.com/xuri/excelize/v2"
)

var (
	march10 = worklog.NewDate(2025, time.March, 10)

	projects = []worklog.Project{{ID: "p1", Name: "Utena", Tables: []string{"T1", "T2"}}}
	workers  = []worklog.Worker{
		{ID: "w", Name: "Jonas", Rate: 10, CableRateMedium: 5},
		{ID: "v", Name: "Tomas", Rate: 12, CableRateMedium: 5},
	}
)

func entry(id string, day, hour int, project string, work worklog.Work, crew ...string) worklog.WorkEntry {
	start := time.Date(2025, time.March, day, hour, 0, 0, 0, time.UTC)
	return worklog.Normalize(worklog.WorkEntry{
		ID: id, ProjectID: project, WorkerIDs: crew,
		StartTime: start, EndTime: start.Add(2 * time.Hour), Work: work,
	})
}

func entries() []worklog.WorkEntry {
	return []worklog.WorkEntry{
		entry("e1", 10, 7, "p1", worklog.Hourly{Description: "fencing"}, "w"),
		entry("e2", 10, 9, "p1", worklog.Cables{Table: "T1", Size: worklog.SizeMedium}, "w", "v"),
		entry("e3", 11, 7, "p1", worklog.Hourly{}, "v"),
		entry("e4", 10, 12, "gone", worklog.Paneling{ModuleCount: 12}, "ghost"),
	}
}

func TestDaily(t *testing.T) {
	// GIVEN three entries on the 10th, one of them for a deleted project and worker
	// WHEN the daily report is built
	got, err := report.Daily(march10, entries(), projects, workers)

	// THEN each entry of the day has one line, in order
	require.NoError(t, err)
	assert.Equal(t, "Daily Report for 2025-03-10:\n\n"+
		"Project: Utena, Workers: Jonas, Duration: 2.00h, Work: hourly (fencing)\n"+
		"Project: Utena, Workers: Jonas, Tomas, Duration: 2.00h, Work: cables (table T1, medium)\n"+
		"Project: Unknown Project, Workers: Unknown Worker, Duration: 2.00h, Work: paneling (12 modules)\n",
		got)
}

func TestDaily_NoEntries(t *testing.T) {
	_, err := report.Daily(worklog.NewDate(2025, time.March, 9), entries(), projects, workers)
	assert.ErrorIs(t, err, report.ErrNoEntries)
}

func stats(t *testing.T) []payroll.WorkerStats {
	t.Helper()
	s := payroll.Aggregate(entries()[:3], workers, payroll.Filter{ProjectID: "p1", From: march10, To: march10})
	require.Len(t, s, 2)
	return s
}

func TestWritePayrollXLSX(t *testing.T) {
	// GIVEN Jonas earning 20 hourly + 2.5 cables and Tomas 2.5 cables
	var buf bytes.Buffer

	// WHEN the workbook is written
	require.NoError(t, report.WritePayrollXLSX(&buf, "Utena 2025-03-10", stats(t)))

	// THEN it reads back with a title, a header, one row per worker and totals
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	cell := func(ref string) string {
		v, err := f.GetCellValue("Payroll", ref)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Utena 2025-03-10", cell("A1"))
	assert.Equal(t, "Worker", cell("A3"))
	assert.Equal(t, "Avg EUR/h", cell("J3"))
	assert.Equal(t, "Jonas", cell("A4"))
	assert.Equal(t, "22.5", cell("I4"))
	assert.Equal(t, "Tomas", cell("A5"))
	assert.Equal(t, "2.5", cell("I5"))
	assert.Equal(t, "Total", cell("A7"))
	assert.Equal(t, "25", cell("I7"))
	assert.Equal(t, "1", cell("G7"), "one shared table")
}

func TestWritePayrollPDF(t *testing.T) {
	t.Run("with rows", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, report.WritePayrollPDF(&buf, "Payroll", "2025-03-10", stats(t)))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	})

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, report.WritePayrollPDF(&buf, "Payroll", "", nil))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	})
}

func TestPayrollRow(t *testing.T) {
	row := report.PayrollRow(stats(t)[0])
	require.Len(t, row, len(report.PayrollHeader))
	assert.Equal(t, []string{"Jonas", "3.00", "20.00", "0.00", "0.0", "0.00", "0.5", "2.50", "22.50", "7.50"}, row)
}
