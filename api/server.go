/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Client address from X-Forwarded-For / X-Real-IP
  3. Logger:     slog request logging (method, path, status, duration)
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. CORS:       Cross-origin requests for the frontend

ROUTE GROUPS:
  /api/projects/*       Projects, rosters, plans, attendance, forecasts
  /api/workers/*        Crew members and rates
  /api/entries/*        Work entries and the cable quick-log
  /api/payroll/*        Earnings and their XLSX/PDF exports
  /api/reports/*        Daily text report
  /api/settings         Theme and locale
  /api/export|import    Backup files
  /api/assistant/*      Questions to the language model
  /api/scenarios/*      Demo data

SECURITY NOTE:
  No authentication middleware. The server is meant to run on the crew's
  own machine or behind an authenticating proxy.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/solarwork/serve.go: Server startup
*/
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// DefaultAllowedOrigins are used when no origins are configured.
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultAllowedOrigins
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Project routes
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.ListProjects)
			r.Post("/", h.CreateProject)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetProject)
				r.Put("/", h.UpdateProject)
				r.Delete("/", h.DeleteProject)
				r.Put("/workers", h.SetProjectWorkers)
				r.Get("/forecast", h.GetForecast)

				r.Get("/plan", h.GetPlan)
				r.Put("/plan", h.PutPlan)
				r.Delete("/plan", h.DeletePlan)

				r.Get("/attendance", h.ListAttendance)
				r.Get("/attendance/{date}", h.GetAttendance)
				r.Put("/attendance/{date}", h.PutAttendance)
			})
		})

		// Worker routes
		r.Route("/workers", func(r chi.Router) {
			r.Get("/", h.ListWorkers)
			r.Post("/", h.CreateWorker)
			r.Get("/{id}", h.GetWorker)
			r.Put("/{id}", h.UpdateWorker)
			r.Delete("/{id}", h.DeleteWorker)
		})

		// Entry routes
		r.Route("/entries", func(r chi.Router) {
			r.Get("/", h.ListEntries)
			r.Post("/", h.CreateEntry)
			r.Post("/cables", h.CreateCableEntries)
			r.Get("/{id}", h.GetEntry)
			r.Put("/{id}", h.UpdateEntry)
			r.Delete("/{id}", h.DeleteEntry)
		})

		// Payroll and reports
		r.Route("/payroll", func(r chi.Router) {
			r.Get("/", h.GetPayroll)
			r.Get("/export.xlsx", h.ExportPayrollXLSX)
			r.Get("/export.pdf", h.ExportPayrollPDF)
		})
		r.Get("/stats", h.GetStats)
		r.Get("/reports/daily", h.GetDailyReport)

		// Settings and data
		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.PutSettings)
		r.Get("/export", h.Export)
		r.Post("/import", h.Import)

		r.Post("/assistant/ask", h.Ask)

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetData)
		})
	})

	return r
}

// requestLogger logs one line per request once the response is written.
func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				level := slog.LevelInfo
				if status >= http.StatusInternalServerError {
					level = slog.LevelError
				}
				log.Log(r.Context(), level, "request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", status,
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()),
					"remote", r.RemoteAddr)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
