/*
handlers.go - HTTP API handlers for the crew tracker

PURPOSE:
  Exposes the tracker via REST API. Handles HTTP request/response, JSON
  serialization, and delegates to the tracker, payroll, forecast and
  report packages.

ENDPOINTS:
  Projects:
    GET    /api/projects                     List projects with progress
    POST   /api/projects                     Create project
    GET    /api/projects/{id}                Get project
    PUT    /api/projects/{id}                Update project
    DELETE /api/projects/{id}                Delete project (cascades)
    PUT    /api/projects/{id}/workers        Replace roster
    GET    /api/projects/{id}/forecast       Completion estimate
    GET    /api/projects/{id}/plan           Site plan (raw body)
    GET    /api/projects/{id}/attendance     Saved attendance, newest first

  Workers, entries:
    /api/workers, /api/entries, /api/entries/cables

  Payroll and reports:
    GET    /api/payroll                      Per-worker earnings
    GET    /api/payroll/export.xlsx|pdf      Same as a file
    GET    /api/stats                        Totals by work type
    GET    /api/reports/daily                Text report of one day

  Data:
    GET    /api/export                       Snapshot (?compress=xz)
    POST   /api/import                       Merge a snapshot

ERROR HANDLING:
  Errors are returned as ErrorResponse with an HTTP status picked from the
  error chain:
  - 400: Validation errors, unknown work types, unreadable imports
  - 404: Unknown project, worker, entry or plan
  - 409: Deleting the built-in project
  - 503: Assistant offline
  - 500: Store failures

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo data loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/solarwork/assistant"
	"github.com/warp/solarwork/forecast"
	"github.com/warp/solarwork/payroll"
	"github.com/warp/solarwork/report"
	"github.com/warp/solarwork/tracker"
	"github.com/warp/solarwork/worklog"
)

const (
	maxBodyBytes = 8 << 20
	maxPlanBytes = 32 << 20
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Tracker   *tracker.Tracker
	Assistant *assistant.Client

	log *slog.Logger
	now func() time.Time

	// Track currently loaded scenario
	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a handler. assistant may be nil.
func NewHandler(t *tracker.Tracker, a *assistant.Client, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		Tracker:   t,
		Assistant: a,
		log:       log,
		now:       time.Now,
	}
}

// =============================================================================
// PROJECT HANDLERS
// =============================================================================

func (h *Handler) projectDTO(p worklog.Project) ProjectDTO {
	done, _ := h.Tracker.CompletedTables(p.ID)
	return ProjectDTO{
		Project:         p,
		Builtin:         p.ID == h.Tracker.BuiltinProject(),
		CompletedTables: nonNil(done),
		Progress:        forecast.Progress(len(done), len(p.Tables)).StringFixed(1),
	}
}

// ListProjects returns all projects.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects := h.Tracker.Projects()
	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = h.projectDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetProject returns a single project.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.Tracker.Project(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "Failed to get project", err)
		return
	}
	writeJSON(w, http.StatusOK, h.projectDTO(p))
}

// CreateProject creates a new project.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req worklog.Project
	if !decode(w, r, &req) {
		return
	}
	p, err := h.Tracker.AddProject(r.Context(), req)
	if err != nil {
		h.fail(w, "Failed to create project", err)
		return
	}
	writeJSON(w, http.StatusCreated, h.projectDTO(p))
}

// UpdateProject replaces a project's name, status, tables and roster. A
// missing workerIds keeps the roster.
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var req worklog.Project
	if !decode(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	p, err := h.Tracker.UpdateProject(r.Context(), req)
	if err != nil {
		h.fail(w, "Failed to update project", err)
		return
	}
	writeJSON(w, http.StatusOK, h.projectDTO(p))
}

// DeleteProject deletes a project with its entries, attendance and plan.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.Tracker.DeleteProject(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, "Failed to delete project", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetProjectWorkers replaces the roster of a project.
func (h *Handler) SetProjectWorkers(w http.ResponseWriter, r *http.Request) {
	var req SetWorkersRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := h.Tracker.SetProjectWorkers(r.Context(), chi.URLParam(r, "id"), req.WorkerIDs)
	if err != nil {
		h.fail(w, "Failed to set project workers", err)
		return
	}
	writeJSON(w, http.StatusOK, h.projectDTO(p))
}

// GetForecast estimates when a project's tables will all be cabled.
// GET /api/projects/{id}/forecast?today=2025-03-12
func (h *Handler) GetForecast(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	today, err := optionalDate(r, "today")
	if err != nil {
		h.fail(w, "Invalid today parameter", err)
		return
	}
	f, err := h.Tracker.Forecast(id, today)
	if err != nil {
		h.fail(w, "Failed to forecast project", err)
		return
	}
	done, err := h.Tracker.CompletedTables(id)
	if err != nil {
		h.fail(w, "Failed to forecast project", err)
		return
	}
	writeJSON(w, http.StatusOK, toForecastDTO(id, f, done))
}

// =============================================================================
// PLAN HANDLERS - raw binary bodies
// =============================================================================

// GetPlan streams the stored site plan.
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	blob, err := h.Tracker.Plan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "Failed to get plan", err)
		return
	}
	w.Header().Set("Content-Type", blob.ContentType)
	w.Header().Set("Last-Modified", blob.UpdatedAt.UTC().Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)
	w.Write(blob.Data)
}

// PutPlan stores the request body as the project's site plan.
func (h *Handler) PutPlan(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPlanBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read plan", err)
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "Plan is empty", nil)
		return
	}
	if err := h.Tracker.SavePlan(r.Context(), chi.URLParam(r, "id"), r.Header.Get("Content-Type"), data); err != nil {
		h.fail(w, "Failed to save plan", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeletePlan removes the project's site plan.
func (h *Handler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.Tracker.Project(id); err != nil {
		h.fail(w, "Failed to delete plan", err)
		return
	}
	if err := h.Tracker.DeletePlan(r.Context(), id); err != nil {
		h.fail(w, "Failed to delete plan", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ATTENDANCE HANDLERS
// =============================================================================

// GetAttendance returns the attendance of a project on one day. Unsaved
// days default to the full roster.
func (h *Handler) GetAttendance(w http.ResponseWriter, r *http.Request) {
	date, err := worklog.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}
	view, err := h.Tracker.Attendance(chi.URLParam(r, "id"), date)
	if err != nil {
		h.fail(w, "Failed to get attendance", err)
		return
	}
	writeJSON(w, http.StatusOK, AttendanceDTO{AttendanceRecord: view.Record, Saved: view.Saved})
}

// PutAttendance saves who was present.
func (h *Handler) PutAttendance(w http.ResponseWriter, r *http.Request) {
	date, err := worklog.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}
	var req AttendanceRequest
	if !decode(w, r, &req) {
		return
	}
	rec, err := h.Tracker.SaveAttendance(r.Context(), chi.URLParam(r, "id"), date, req.PresentWorkerIDs)
	if err != nil {
		h.fail(w, "Failed to save attendance", err)
		return
	}
	writeJSON(w, http.StatusOK, AttendanceDTO{AttendanceRecord: rec, Saved: true})
}

// ListAttendance returns the saved records of a project.
func (h *Handler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.Tracker.Project(id); err != nil {
		h.fail(w, "Failed to list attendance", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(h.Tracker.AttendanceRecords(id)))
}

// =============================================================================
// WORKER HANDLERS
// =============================================================================

func (h *Handler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, nonNil(h.Tracker.Workers()))
}

func (h *Handler) GetWorker(w http.ResponseWriter, r *http.Request) {
	worker, err := h.Tracker.Worker(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "Failed to get worker", err)
		return
	}
	writeJSON(w, http.StatusOK, worker)
}

func (h *Handler) CreateWorker(w http.ResponseWriter, r *http.Request) {
	var req worklog.Worker
	if !decode(w, r, &req) {
		return
	}
	worker, err := h.Tracker.AddWorker(r.Context(), req)
	if err != nil {
		h.fail(w, "Failed to create worker", err)
		return
	}
	writeJSON(w, http.StatusCreated, worker)
}

func (h *Handler) UpdateWorker(w http.ResponseWriter, r *http.Request) {
	var req worklog.Worker
	if !decode(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	worker, err := h.Tracker.UpdateWorker(r.Context(), req)
	if err != nil {
		h.fail(w, "Failed to update worker", err)
		return
	}
	writeJSON(w, http.StatusOK, worker)
}

// DeleteWorker removes a worker from rosters, entries and attendance.
func (h *Handler) DeleteWorker(w http.ResponseWriter, r *http.Request) {
	if err := h.Tracker.DeleteWorker(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, "Failed to delete worker", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ENTRY HANDLERS
// =============================================================================

// ListEntries returns the entries matching the query filters, newest first.
// GET /api/entries?project=p1&from=2025-03-01&to=2025-03-31&worker=w&type=cables
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		h.fail(w, "Invalid filter", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(h.Tracker.Entries(f)))
}

func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	e, err := h.Tracker.WorkEntry(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "Failed to get entry", err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// CreateEntry logs one unit of work.
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req worklog.WorkEntry
	if !decode(w, r, &req) {
		return
	}
	e, err := h.Tracker.AddWorkEntry(r.Context(), req)
	if err != nil {
		h.fail(w, "Failed to create entry", err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// CreateCableEntries logs one cables entry per table. Nothing is saved
// when any table is rejected.
func (h *Handler) CreateCableEntries(w http.ResponseWriter, r *http.Request) {
	var req CableLogRequest
	if !decode(w, r, &req) {
		return
	}
	created, err := h.Tracker.AddCableTables(r.Context(), tracker.CableLog{
		ProjectID: req.ProjectID,
		WorkerIDs: req.WorkerIDs,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Tables:    req.Tables,
		Size:      req.Size,
	})
	if err != nil {
		h.fail(w, "Failed to log tables", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	var req worklog.WorkEntry
	if !decode(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	e, err := h.Tracker.UpdateWorkEntry(r.Context(), req)
	if err != nil {
		h.fail(w, "Failed to update entry", err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.Tracker.DeleteWorkEntry(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, "Failed to delete entry", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PAYROLL / STATS HANDLERS
// =============================================================================

// GetPayroll returns per-worker earnings for the filter.
// GET /api/payroll?month=2025-03&project=p1&worker=w&worker=v&type=cables
func (h *Handler) GetPayroll(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		h.fail(w, "Invalid filter", err)
		return
	}
	writeJSON(w, http.StatusOK, NewPayrollDTO(f, h.Tracker.Payroll(f)))
}

// ExportPayrollXLSX returns the payroll as a spreadsheet.
func (h *Handler) ExportPayrollXLSX(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		h.fail(w, "Invalid filter", err)
		return
	}
	var buf bytes.Buffer
	if err := report.WritePayrollXLSX(&buf, h.payrollTitle(f), h.Tracker.Payroll(f)); err != nil {
		h.fail(w, "Failed to build spreadsheet", err)
		return
	}
	writeFile(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "payroll.xlsx", buf.Bytes())
}

// ExportPayrollPDF returns the payroll as a PDF.
func (h *Handler) ExportPayrollPDF(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		h.fail(w, "Invalid filter", err)
		return
	}
	var buf bytes.Buffer
	if err := report.WritePayrollPDF(&buf, "Payroll", h.payrollTitle(f), h.Tracker.Payroll(f)); err != nil {
		h.fail(w, "Failed to build PDF", err)
		return
	}
	writeFile(w, "application/pdf", "payroll.pdf", buf.Bytes())
}

// GetStats returns totals by work type.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		h.fail(w, "Invalid filter", err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(payroll.Summarize(h.Tracker.Payroll(f))))
}

// payrollTitle names the project and the date range of f.
func (h *Handler) payrollTitle(f payroll.Filter) string {
	parts := []string{"Payroll"}
	if f.ProjectID != "" {
		name := f.ProjectID
		if p, err := h.Tracker.Project(f.ProjectID); err == nil {
			name = p.Name
		}
		parts = append(parts, name)
	}
	switch {
	case !f.From.IsZero() && !f.To.IsZero():
		parts = append(parts, f.From.String()+" - "+f.To.String())
	case !f.From.IsZero():
		parts = append(parts, "from "+f.From.String())
	case !f.To.IsZero():
		parts = append(parts, "until "+f.To.String())
	}
	return strings.Join(parts, ", ")
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetDailyReport returns the text report of ?date= (default today).
func (h *Handler) GetDailyReport(w http.ResponseWriter, r *http.Request) {
	date, err := optionalDate(r, "date")
	if err != nil {
		h.fail(w, "Invalid date parameter", err)
		return
	}
	if date.IsZero() {
		date = h.Tracker.Today()
	}

	state := h.Tracker.State()
	text, err := report.Daily(date, h.Tracker.Entries(payroll.Filter{From: date, To: date}), state.Projects, state.Workers)
	if errors.Is(err, report.ErrNoEntries) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "No entries for " + date.String(), Code: "no_entries"})
		return
	}
	if err != nil {
		h.fail(w, "Failed to build report", err)
		return
	}
	writeJSON(w, http.StatusOK, DailyReportDTO{Date: date.String(), Text: text})
}

// =============================================================================
// SETTINGS HANDLERS
// =============================================================================

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Tracker.Settings())
}

// PutSettings updates the fields present in the body.
func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	var req worklog.Settings
	if !decode(w, r, &req) {
		return
	}
	if req.Theme != "" {
		if err := h.Tracker.SetTheme(r.Context(), req.Theme); err != nil {
			h.fail(w, "Failed to save theme", err)
			return
		}
	}
	if req.Locale != "" {
		if err := h.Tracker.SetLocale(r.Context(), req.Locale); err != nil {
			h.fail(w, "Failed to save locale", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, h.Tracker.Settings())
}

// =============================================================================
// EXPORT / IMPORT HANDLERS
// =============================================================================

// Export returns the stored state as a backup file.
// GET /api/export?compress=xz
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Tracker.Export(r.Context())
	if err != nil {
		h.fail(w, "Failed to export data", err)
		return
	}
	compress := r.URL.Query().Get("compress") == "xz"

	var buf bytes.Buffer
	if err := tracker.WriteSnapshot(&buf, snap, compress); err != nil {
		h.fail(w, "Failed to export data", err)
		return
	}
	name := "solarwork-backup-" + h.Tracker.Today().String() + ".json"
	contentType := "application/json"
	if compress {
		name += ".xz"
		contentType = "application/x-xz"
	}
	writeFile(w, contentType, name, buf.Bytes())
}

// Import merges a backup file (plain or xz JSON) into the stored state.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	snap, err := tracker.ReadSnapshot(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.fail(w, "Failed to read import file", err)
		return
	}
	res, err := h.Tracker.Import(r.Context(), snap)
	if err != nil {
		h.fail(w, "Failed to import data", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// =============================================================================
// ASSISTANT HANDLERS
// =============================================================================

// Ask answers a free-text question about the current data.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if !decode(w, r, &req) {
		return
	}
	if h.Assistant == nil {
		h.fail(w, "Assistant is offline", assistant.ErrUnavailable)
		return
	}
	data := assistant.BuildContext(h.Tracker.State(), h.now())
	answer, err := h.Assistant.Ask(r.Context(), req.Question, data)
	if err != nil {
		h.fail(w, "Assistant is offline", err)
		return
	}
	writeJSON(w, http.StatusOK, AskResponse{Answer: answer})
}

// =============================================================================
// HELPERS
// =============================================================================

// fail writes err with the status its chain maps to.
func (h *Handler) fail(w http.ResponseWriter, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case worklog.IsClientError(err):
		status = http.StatusBadRequest
	case worklog.IsNotFound(err):
		status = http.StatusNotFound
	case errors.Is(err, worklog.ErrBuiltinProject):
		status = http.StatusConflict
	case errors.Is(err, assistant.ErrUnavailable):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		h.log.Error(message, "error", err)
	}

	resp := ErrorResponse{Error: message, Code: worklog.ValidationCode(err)}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// decode reads a JSON body into v. On failure it writes a 400 and returns
// false.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil {
		return true
	}
	if errors.Is(err, worklog.ErrUnknownWorkType) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Unknown work type", Details: err.Error()})
		return false
	}
	writeError(w, http.StatusBadRequest, "Invalid request body", err)
	return false
}

// parseFilter reads project, from, to, month, worker and type from the
// query. from/to override the bounds of month.
func parseFilter(r *http.Request) (payroll.Filter, error) {
	q := r.URL.Query()

	var f payroll.Filter
	if month := q.Get("month"); month != "" {
		mf, err := payroll.MonthFilter(month)
		if err != nil {
			return payroll.Filter{}, worklog.Invalid(worklog.CodeFormIncomplete, "month", "%v", err)
		}
		f = mf
	}
	f.ProjectID = q.Get("project")

	for _, key := range []string{"from", "to"} {
		d, err := optionalDate(r, key)
		if err != nil {
			return payroll.Filter{}, err
		}
		if d.IsZero() {
			continue
		}
		if key == "from" {
			f.From = d
		} else {
			f.To = d
		}
	}

	f.WorkerIDs = q["worker"]
	for _, raw := range q["type"] {
		kind := worklog.WorkKind(raw)
		if !kind.Valid() {
			return payroll.Filter{}, fmt.Errorf("type %q: %w", raw, worklog.ErrUnknownWorkType)
		}
		f.Kinds = append(f.Kinds, kind)
	}
	return f, nil
}

// optionalDate parses query parameter key. A missing value is the zero date.
func optionalDate(r *http.Request, key string) (worklog.Date, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return worklog.Date{}, nil
	}
	d, err := worklog.ParseDate(raw)
	if err != nil {
		return worklog.Date{}, worklog.Invalid(worklog.CodeFormIncomplete, key, "invalid date %q (use YYYY-MM-DD)", raw)
	}
	return d, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func writeFile(w http.ResponseWriter, contentType, name string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
