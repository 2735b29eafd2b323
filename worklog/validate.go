package worklog

import (
	"math"
	"strings"
)

// ValidateEntry checks the invariants an entry must satisfy on its own.
// Checks against other records (known workers, project tables, completed
// tables) are done by the tracker.
func ValidateEntry(e WorkEntry) error {
	if e.Work == nil {
		return Invalid(CodeFormIncomplete, "type", "work type is required")
	}
	if e.StartTime.IsZero() || e.EndTime.IsZero() {
		return Invalid(CodeFormIncomplete, "startTime", "start and end time are required")
	}
	if !e.EndTime.After(e.StartTime) {
		return Invalid(CodeEndBeforeStart, "endTime", "end time must be after start time")
	}
	if err := validateCrew(e.WorkerIDs); err != nil {
		return err
	}

	switch w := e.Work.(type) {
	case Hourly:
	case Paneling:
		if w.ModuleCount <= 0 {
			return Invalid(CodeInvalidModuleCount, "moduleCount", "module count must be positive, got %d", w.ModuleCount)
		}
	case Construction:
		if strings.TrimSpace(w.Description) == "" {
			return Invalid(CodeDescriptionRequired, "description", "construction work needs a description")
		}
	case Cables:
		if strings.TrimSpace(w.Table) == "" {
			return Invalid(CodeFormIncomplete, "table", "table is required")
		}
		if !w.Size.Valid() {
			return Invalid(CodeInvalidTableSize, "tableSize", "unknown table size %q", w.Size)
		}
	default:
		return Invalid(CodeFormIncomplete, "type", "unsupported work type")
	}
	return nil
}

func validateCrew(workerIDs []string) error {
	if len(workerIDs) == 0 {
		return Invalid(CodeNoWorkers, "workerIds", "at least one worker is required")
	}
	if len(workerIDs) > MaxWorkersPerEntry {
		return Invalid(CodeTooManyWorkers, "workerIds", "at most %d workers per entry, got %d", MaxWorkersPerEntry, len(workerIDs))
	}
	seen := make(map[string]bool, len(workerIDs))
	for _, id := range workerIDs {
		if id == "" {
			return Invalid(CodeNoWorkers, "workerIds", "empty worker id")
		}
		if seen[id] {
			return Invalid(CodeDuplicateWorker, "workerIds", "worker %q listed twice", id)
		}
		seen[id] = true
	}
	return nil
}

// ValidateProject checks name and status.
func ValidateProject(p Project) error {
	if strings.TrimSpace(p.Name) == "" {
		return Invalid(CodeNameRequired, "name", "project name is required")
	}
	if !p.Status.Valid() {
		return Invalid(CodeInvalidStatus, "status", "unknown status %q", p.Status)
	}
	return nil
}

// ValidateWorker checks name and that no rate is negative or NaN.
func ValidateWorker(w Worker) error {
	if strings.TrimSpace(w.Name) == "" {
		return Invalid(CodeNameRequired, "name", "worker name is required")
	}
	rates := map[string]float64{
		"rate":            w.Rate,
		"panelRate":       w.PanelRate,
		"cableRateSmall":  w.CableRateSmall,
		"cableRateMedium": w.CableRateMedium,
		"cableRateLarge":  w.CableRateLarge,
	}
	for field, r := range rates {
		if r < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
			return Invalid(CodeInvalidRate, field, "rate must be a non-negative number")
		}
	}
	return nil
}

// ParseTables splits a free-text table list on commas and newlines,
// trimming blanks and dropping duplicates while keeping order.
func ParseTables(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == '\n' })
	return NormalizeTables(fields)
}

// NormalizeTables trims ids and drops empties and duplicates, keeping order.
func NormalizeTables(tables []string) []string {
	out := make([]string, 0, len(tables))
	seen := make(map[string]bool, len(tables))
	for _, t := range tables {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
