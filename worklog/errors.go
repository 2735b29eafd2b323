/*
errors.go - Centralized error types for the crew tracker

PURPOSE:
  All error types in one place for consistency and discoverability.
  Packages wrap these with context using fmt.Errorf("...: %w", err).

ERROR CATEGORIES:
  1. Validation errors - incomplete forms, bad time windows, crew cap,
     tables outside the project or already completed
  2. Reference errors - unknown project/worker/entry ids
  3. Persistence / IO errors - store failures, unreadable import files

  Payroll aggregation and forecasting never return errors: missing rates and
  empty inputs resolve to zero values (see payroll.RateWarning).

USAGE:
    if errors.Is(err, worklog.ErrValidation) {
        // surface as a user notification, nothing was written
    }

SEE ALSO:
  - validate.go: produces ValidationError
  - tracker/tracker.go: wraps store errors
*/
package worklog

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is the parent of every ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a referenced record doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrBuiltinProject is returned when deleting the built-in project.
	ErrBuiltinProject = errors.New("built-in project cannot be deleted")

	// ErrUnknownWorkType is returned when decoding an entry with an
	// unrecognized type/subType pair.
	ErrUnknownWorkType = errors.New("unknown work type")

	// ErrImportFormat is returned when an import payload cannot be parsed.
	ErrImportFormat = errors.New("invalid import format")

	// ErrStore wraps failures of the durable or blob store.
	ErrStore = errors.New("store failure")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// Validation codes.
const (
	CodeFormIncomplete        = "form_incomplete"
	CodeEndBeforeStart        = "end_before_start"
	CodeNoWorkers             = "no_workers"
	CodeTooManyWorkers        = "too_many_workers"
	CodeDuplicateWorker       = "duplicate_worker"
	CodeUnknownWorker         = "unknown_worker"
	CodeUnknownProject        = "unknown_project"
	CodeTableNotInProject     = "table_not_in_project"
	CodeTableAlreadyCompleted = "table_already_completed"
	CodeInvalidModuleCount    = "invalid_module_count"
	CodeDescriptionRequired   = "description_required"
	CodeInvalidTableSize      = "invalid_table_size"
	CodeInvalidStatus         = "invalid_status"
	CodeInvalidTheme          = "invalid_theme"
	CodeNameRequired          = "name_required"
	CodeInvalidRate           = "invalid_rate"
)

// ValidationError describes why a record was rejected.
type ValidationError struct {
	Code    string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Field)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid builds a ValidationError.
func Invalid(code, field, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError names the missing record.
type NotFoundError struct {
	Kind string // "project", "worker", "entry", "plan"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrUnknownWorkType) ||
		errors.Is(err, ErrImportFormat)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ValidationCode extracts the code of a ValidationError, or "".
func ValidationCode(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}
