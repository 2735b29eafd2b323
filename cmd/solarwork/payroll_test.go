package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/solarwork/api"
	"github.com/warp/solarwork/forecast"
	"github.com/warp/solarwork/payroll"
	"github.com/warp/solarwork/worklog"
)

func testStats() []payroll.WorkerStats {
	start := time.Date(2025, time.March, 10, 7, 0, 0, 0, time.UTC)
	workers := []worklog.Worker{
		{ID: "w", Name: "Jonas", Rate: 10, CableRateMedium: 5},
		{ID: "v", Name: "Tomas", Rate: 12, CableRateMedium: 5},
	}
	entries := []worklog.WorkEntry{
		worklog.Normalize(worklog.WorkEntry{
			ID: "e1", ProjectID: "p1", WorkerIDs: []string{"w"},
			StartTime: start, EndTime: start.Add(2 * time.Hour), Work: worklog.Hourly{},
		}),
		worklog.Normalize(worklog.WorkEntry{
			ID: "e2", ProjectID: "p1", WorkerIDs: []string{"w", "v"},
			StartTime: start.Add(2 * time.Hour), EndTime: start.Add(4 * time.Hour),
			Work: worklog.Cables{Table: "T1", Size: worklog.SizeMedium},
		}),
	}
	return payroll.Aggregate(entries, workers, payroll.Filter{})
}

func TestPayrollOptions_Filter(t *testing.T) {
	o := payrollOptions{
		month:   "2025-03",
		to:      "2025-03-15",
		project: "p1",
		workers: []string{"w"},
		types:   []string{"cables", "hourly"},
	}

	f, err := o.filter()

	require.NoError(t, err)
	assert.Equal(t, worklog.NewDate(2025, time.March, 1), f.From)
	assert.Equal(t, worklog.NewDate(2025, time.March, 15), f.To)
	assert.Equal(t, "p1", f.ProjectID)
	assert.Equal(t, []string{"w"}, f.WorkerIDs)
	assert.Equal(t, []worklog.WorkKind{worklog.KindCables, worklog.KindHourly}, f.Kinds)
}

func TestPayrollOptions_FilterErrors(t *testing.T) {
	tests := []struct {
		name string
		opts payrollOptions
	}{
		{"bad month", payrollOptions{month: "March"}},
		{"bad from", payrollOptions{from: "10.03.2025"}},
		{"unknown type", payrollOptions{types: []string{"welding"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.opts.filter()
			assert.Error(t, err)
		})
	}

	_, err := payrollOptions{types: []string{"welding"}}.filter()
	assert.ErrorIs(t, err, worklog.ErrUnknownWorkType)
}

func TestWritePayrollTable(t *testing.T) {
	// GIVEN Jonas with 20 hourly + 2.5 cables and Tomas with 2.5 cables
	var buf bytes.Buffer

	// WHEN the table is written
	require.NoError(t, writePayrollTable(&buf, testStats()))

	// THEN there is a header, one row per worker and a totals row
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Worker")
	assert.Contains(t, lines[0], "Total EUR")
	assert.Contains(t, lines[1], "Jonas")
	assert.Contains(t, lines[1], "22.50")
	assert.Contains(t, lines[2], "Tomas")
	assert.Contains(t, lines[3], "Total")
	assert.Contains(t, lines[3], "25.00")
}

func TestWritePayrollTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writePayrollTable(&buf, nil))
	assert.Equal(t, "No earnings in this period.\n", buf.String())
}

func TestWritePayroll_JSON(t *testing.T) {
	var buf bytes.Buffer
	f := payroll.Filter{From: worklog.NewDate(2025, time.March, 1)}

	require.NoError(t, writePayroll(&buf, "json", f, testStats()))

	var dto api.PayrollDTO
	require.NoError(t, json.Unmarshal(buf.Bytes(), &dto))
	assert.Equal(t, "2025-03-01", dto.From)
	assert.Len(t, dto.Workers, 2)
	assert.Equal(t, "25.00", dto.Summary.TotalEarnings)
}

func TestPeriod(t *testing.T) {
	march1 := worklog.NewDate(2025, time.March, 1)
	march31 := worklog.NewDate(2025, time.March, 31)

	assert.Equal(t, "all time", period(payroll.Filter{}))
	assert.Equal(t, "from 2025-03-01", period(payroll.Filter{From: march1}))
	assert.Equal(t, "until 2025-03-31", period(payroll.Filter{To: march31}))
	assert.Equal(t, "2025-03-01 to 2025-03-31", period(payroll.Filter{From: march1, To: march31}))
}

func TestPrintForecast(t *testing.T) {
	p := worklog.Project{ID: "p1", Name: "Utena", Tables: []string{"T1", "T2", "T3", "T4"}}

	var buf bytes.Buffer
	printForecast(&buf, p, forecast.Forecast{
		Status:          forecast.StatusProjected,
		TotalTables:     4,
		CompletedTables: 2,
		RemainingTables: 2,
		DaysWorked:      2,
		TablesPerDay:    decimal.NewFromInt(1),
		ProgressPercent: decimal.NewFromInt(50),
		RemainingDays:   2,
		CompletionDate:  worklog.NewDate(2025, time.March, 14),
	})

	assert.Equal(t, "Utena (p1)\n"+
		"  tables:   2 of 4 cabled (50.0%), 2 left\n"+
		"  pace:     1.00 tables/day over 2 days\n"+
		"  status:   2 days left, done by 2025-03-14\n", buf.String())

	buf.Reset()
	printForecast(&buf, p, forecast.Forecast{Status: forecast.StatusUnknown, TotalTables: 4, RemainingTables: 4})
	assert.Contains(t, buf.String(), "status:   unknown")
}
