/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Projects, workers,
  work entries, attendance records and settings travel in their stored
  camelCase wire format (worklog types); everything computed (payroll,
  forecasts, reports) gets a response type here.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Small response wrappers

MONEY AND QUANTITIES:
  Decimal values are rendered as fixed-point strings ("27.50") so clients
  never see float rounding.

SEE ALSO:
  - handlers.go: Uses these types
  - worklog/types.go: Wire format of stored records
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/solarwork/forecast"
	"github.com/warp/solarwork/payroll"
	"github.com/warp/solarwork/worklog"
)

// =============================================================================
// PROJECTS / ATTENDANCE
// =============================================================================

// ProjectDTO is a project with its cabling progress.
type ProjectDTO struct {
	worklog.Project
	Builtin         bool     `json:"builtin"`
	CompletedTables []string `json:"completedTables"`
	Progress        string   `json:"progress"`
}

// SetWorkersRequest replaces a project roster.
type SetWorkersRequest struct {
	WorkerIDs []string `json:"workerIds"`
}

// AttendanceDTO is one day of attendance. Saved is false when the record
// is the roster default.
type AttendanceDTO struct {
	worklog.AttendanceRecord
	Saved bool `json:"saved"`
}

// AttendanceRequest saves who was present.
type AttendanceRequest struct {
	PresentWorkerIDs []string `json:"presentWorkerIds"`
}

// =============================================================================
// ENTRIES
// =============================================================================

// CableLogRequest logs several cabled tables at once.
type CableLogRequest struct {
	ProjectID string            `json:"projectId"`
	WorkerIDs []string          `json:"workerIds"`
	StartTime time.Time         `json:"startTime"`
	EndTime   time.Time         `json:"endTime"`
	Tables    []string          `json:"tables"`
	Size      worklog.TableSize `json:"tableSize"`
}

// =============================================================================
// FORECAST
// =============================================================================

// ForecastDTO is the completion estimate of a project.
type ForecastDTO struct {
	ProjectID         string   `json:"projectId"`
	Status            string   `json:"status"`
	TotalTables       int      `json:"totalTables"`
	CompletedTables   int      `json:"completedTables"`
	RemainingTables   int      `json:"remainingTables"`
	CompletedTableIDs []string `json:"completedTableIds"`
	DaysWorked        int      `json:"daysWorked"`
	TablesPerDay      string   `json:"tablesPerDay"`
	ProgressPercent   string   `json:"progressPercent"`
	RemainingDays     *int     `json:"remainingDays,omitempty"`
	CompletionDate    string   `json:"completionDate,omitempty"`
}

func toForecastDTO(projectID string, f forecast.Forecast, completed []string) ForecastDTO {
	dto := ForecastDTO{
		ProjectID:         projectID,
		Status:            string(f.Status),
		TotalTables:       f.TotalTables,
		CompletedTables:   f.CompletedTables,
		RemainingTables:   f.RemainingTables,
		CompletedTableIDs: nonNil(completed),
		DaysWorked:        f.DaysWorked,
		TablesPerDay:      f.TablesPerDay.StringFixed(2),
		ProgressPercent:   f.ProgressPercent.StringFixed(1),
	}
	if f.HasDate() {
		days := f.RemainingDays
		dto.RemainingDays = &days
		dto.CompletionDate = f.CompletionDate.String()
	}
	return dto
}

// =============================================================================
// PAYROLL
// =============================================================================

type TimeBucketDTO struct {
	Hours    string `json:"hours"`
	Earnings string `json:"earnings"`
}

type PanelBucketDTO struct {
	Hours    string `json:"hours"`
	Earnings string `json:"earnings"`
	Panels   string `json:"panels"`
}

type TableCountsDTO struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
	Total  string `json:"total"`
}

type CableBucketDTO struct {
	Hours               string         `json:"hours"`
	Earnings            string         `json:"earnings"`
	Tables              TableCountsDTO `json:"tables"`
	Entries             int            `json:"entries"`
	SharedEntries       int            `json:"sharedEntries"`
	TablesPerHour       string         `json:"tablesPerHour"`
	EurosPerTable       string         `json:"eurosPerTable"`
	SharedTablesPercent string         `json:"sharedTablesPercent"`
}

type WarningDTO struct {
	EntryID  string `json:"entryId"`
	WorkerID string `json:"workerId"`
	Type     string `json:"type"`
	Code     string `json:"code"`
}

// WorkerStatsDTO is one row of the payroll.
type WorkerStatsDTO struct {
	WorkerID      string         `json:"workerId"`
	Name          string         `json:"name"`
	TotalHours    string         `json:"totalHours"`
	TotalEarnings string         `json:"totalEarnings"`
	AvgHourlyWage string         `json:"avgHourlyWage"`
	EntryCount    int            `json:"entryCount"`
	Hourly        TimeBucketDTO  `json:"hourly"`
	Construction  TimeBucketDTO  `json:"construction"`
	Paneling      PanelBucketDTO `json:"paneling"`
	Cables        CableBucketDTO `json:"cables"`
	Warnings      []WarningDTO   `json:"warnings"`
}

type KindTotalDTO struct {
	Type     string `json:"type"`
	Hours    string `json:"hours"`
	Earnings string `json:"earnings"`
}

// SummaryDTO totals a payroll.
type SummaryDTO struct {
	Workers       int            `json:"workers"`
	TotalHours    string         `json:"totalHours"`
	TotalEarnings string         `json:"totalEarnings"`
	Tables        string         `json:"tables"`
	Panels        string         `json:"panels"`
	ByType        []KindTotalDTO `json:"byType"`
	Warnings      int            `json:"warnings"`
}

// PayrollDTO is the response of GET /api/payroll.
type PayrollDTO struct {
	ProjectID string           `json:"projectId,omitempty"`
	From      string           `json:"from,omitempty"`
	To        string           `json:"to,omitempty"`
	Workers   []WorkerStatsDTO `json:"workers"`
	Summary   SummaryDTO       `json:"summary"`
}

// NewPayrollDTO renders stats aggregated with f.
func NewPayrollDTO(f payroll.Filter, stats []payroll.WorkerStats) PayrollDTO {
	dto := PayrollDTO{
		ProjectID: f.ProjectID,
		Workers:   make([]WorkerStatsDTO, len(stats)),
		Summary:   toSummaryDTO(payroll.Summarize(stats)),
	}
	if !f.From.IsZero() {
		dto.From = f.From.String()
	}
	if !f.To.IsZero() {
		dto.To = f.To.String()
	}
	for i, s := range stats {
		dto.Workers[i] = toWorkerStatsDTO(s)
	}
	return dto
}

func fixed2(d decimal.Decimal) string { return d.StringFixed(2) }

func toWorkerStatsDTO(s payroll.WorkerStats) WorkerStatsDTO {
	warnings := make([]WarningDTO, len(s.Warnings))
	for i, w := range s.Warnings {
		warnings[i] = WarningDTO{EntryID: w.EntryID, WorkerID: w.WorkerID, Type: string(w.Kind), Code: string(w.Code)}
	}
	c := s.Cables
	return WorkerStatsDTO{
		WorkerID:      s.WorkerID,
		Name:          s.Name,
		TotalHours:    fixed2(s.TotalHours),
		TotalEarnings: fixed2(s.TotalEarnings),
		AvgHourlyWage: fixed2(s.AvgHourlyWage),
		EntryCount:    s.EntryCount,
		Hourly:        TimeBucketDTO{Hours: fixed2(s.Hourly.Hours), Earnings: fixed2(s.Hourly.Earnings)},
		Construction:  TimeBucketDTO{Hours: fixed2(s.Construction.Hours), Earnings: fixed2(s.Construction.Earnings)},
		Paneling: PanelBucketDTO{
			Hours:    fixed2(s.Paneling.Hours),
			Earnings: fixed2(s.Paneling.Earnings),
			Panels:   fixed2(s.Paneling.Panels),
		},
		Cables: CableBucketDTO{
			Hours:    fixed2(c.Hours),
			Earnings: fixed2(c.Earnings),
			Tables: TableCountsDTO{
				Small:  fixed2(c.Tables.Small),
				Medium: fixed2(c.Tables.Medium),
				Large:  fixed2(c.Tables.Large),
				Total:  fixed2(c.Tables.Total),
			},
			Entries:             c.Entries,
			SharedEntries:       c.SharedEntries,
			TablesPerHour:       fixed2(c.TablesPerHour),
			EurosPerTable:       fixed2(c.EurosPerTable),
			SharedTablesPercent: c.SharedTablesPercent.StringFixed(1),
		},
		Warnings: warnings,
	}
}

func toSummaryDTO(sum payroll.Summary) SummaryDTO {
	byType := make([]KindTotalDTO, len(sum.ByKind))
	for i, kt := range sum.ByKind {
		byType[i] = KindTotalDTO{Type: string(kt.Kind), Hours: fixed2(kt.Hours), Earnings: fixed2(kt.Earnings)}
	}
	return SummaryDTO{
		Workers:       sum.Workers,
		TotalHours:    fixed2(sum.TotalHours),
		TotalEarnings: fixed2(sum.TotalEarnings),
		Tables:        fixed2(sum.Tables),
		Panels:        fixed2(sum.Panels),
		ByType:        byType,
		Warnings:      sum.Warnings,
	}
}

// =============================================================================
// REPORTS / ASSISTANT / SCENARIOS
// =============================================================================

// DailyReportDTO is the plain-text report of one day.
type DailyReportDTO struct {
	Date string `json:"date"`
	Text string `json:"text"`
}

type AskRequest struct {
	Question string `json:"question"`
}

type AskResponse struct {
	Answer string `json:"answer"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// LoadScenarioRequest is the request to load a scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenarioId"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
