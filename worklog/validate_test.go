package worklog_test

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/warp/solarwork/worklog"
)

func validEntry(work worklog.Work) worklog.WorkEntry {
	start := time.Date(2025, time.March, 10, 7, 0, 0, 0, time.UTC)
	return worklog.WorkEntry{
		ID:        "e1",
		ProjectID: "p1",
		WorkerIDs: []string{"w"},
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
		Work:      work,
	}
}

func TestValidateEntry(t *testing.T) {
	tests := []struct {
		name   string
		modify func(e *worklog.WorkEntry)
		code   string
	}{
		{"valid hourly", func(e *worklog.WorkEntry) {}, ""},
		{"no work", func(e *worklog.WorkEntry) { e.Work = nil }, worklog.CodeFormIncomplete},
		{"no end", func(e *worklog.WorkEntry) { e.EndTime = time.Time{} }, worklog.CodeFormIncomplete},
		{"end equals start", func(e *worklog.WorkEntry) { e.EndTime = e.StartTime }, worklog.CodeEndBeforeStart},
		{"end before start", func(e *worklog.WorkEntry) { e.EndTime = e.StartTime.Add(-time.Hour) }, worklog.CodeEndBeforeStart},
		{"no workers", func(e *worklog.WorkEntry) { e.WorkerIDs = nil }, worklog.CodeNoWorkers},
		{"three workers", func(e *worklog.WorkEntry) { e.WorkerIDs = []string{"a", "b", "c"} }, worklog.CodeTooManyWorkers},
		{"duplicate worker", func(e *worklog.WorkEntry) { e.WorkerIDs = []string{"w", "w"} }, worklog.CodeDuplicateWorker},
		{"zero modules", func(e *worklog.WorkEntry) { e.Work = worklog.Paneling{} }, worklog.CodeInvalidModuleCount},
		{"valid paneling", func(e *worklog.WorkEntry) { e.Work = worklog.Paneling{ModuleCount: 1} }, ""},
		{"construction without description", func(e *worklog.WorkEntry) { e.Work = worklog.Construction{Description: "  "} }, worklog.CodeDescriptionRequired},
		{"cables without table", func(e *worklog.WorkEntry) { e.Work = worklog.Cables{Size: worklog.SizeSmall} }, worklog.CodeFormIncomplete},
		{"cables bad size", func(e *worklog.WorkEntry) { e.Work = worklog.Cables{Table: "T1", Size: "huge"} }, worklog.CodeInvalidTableSize},
		{"valid cables with two workers", func(e *worklog.WorkEntry) {
			e.Work = worklog.Cables{Table: "T1", Size: worklog.SizeLarge}
			e.WorkerIDs = []string{"w", "v"}
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEntry(worklog.Hourly{})
			tt.modify(&e)

			err := worklog.ValidateEntry(e)

			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, worklog.ErrValidation)
			assert.Equal(t, tt.code, worklog.ValidationCode(err))
			assert.True(t, worklog.IsClientError(err))
		})
	}
}

func TestValidateProject(t *testing.T) {
	assert.NoError(t, worklog.ValidateProject(worklog.Project{Name: "Utena", Status: worklog.StatusActive}))
	assert.Equal(t, worklog.CodeNameRequired,
		worklog.ValidationCode(worklog.ValidateProject(worklog.Project{Name: " ", Status: worklog.StatusActive})))
	assert.Equal(t, worklog.CodeInvalidStatus,
		worklog.ValidationCode(worklog.ValidateProject(worklog.Project{Name: "Utena", Status: "archived"})))
}

func TestValidateWorker(t *testing.T) {
	assert.NoError(t, worklog.ValidateWorker(worklog.Worker{Name: "Jonas"}))
	assert.Equal(t, worklog.CodeNameRequired, worklog.ValidationCode(worklog.ValidateWorker(worklog.Worker{})))

	for _, bad := range []float64{-1, math.NaN(), math.Inf(1)} {
		err := worklog.ValidateWorker(worklog.Worker{Name: "Jonas", CableRateLarge: bad})
		assert.Equal(t, worklog.CodeInvalidRate, worklog.ValidationCode(err))
	}
}

func TestParseTables(t *testing.T) {
	got := worklog.ParseTables("T1, T2\nT3,,T2\n  \nT4")
	assert.Equal(t, []string{"T1", "T2", "T3", "T4"}, got)

	assert.Empty(t, worklog.ParseTables(""))
}

func TestErrorHelpers(t *testing.T) {
	notFound := fmt.Errorf("get: %w", &worklog.NotFoundError{Kind: "project", ID: "p9"})
	assert.True(t, worklog.IsNotFound(notFound))
	assert.False(t, worklog.IsClientError(notFound))
	assert.Equal(t, `get: project "p9" not found`, notFound.Error())

	assert.True(t, worklog.IsClientError(fmt.Errorf("x: %w", worklog.ErrUnknownWorkType)))
	assert.True(t, worklog.IsClientError(fmt.Errorf("x: %w", worklog.ErrImportFormat)))
	assert.False(t, worklog.IsClientError(errors.New("disk full")))
	assert.Equal(t, "", worklog.ValidationCode(errors.New("disk full")))
}
