/*
Package payroll turns work entries into per-worker earnings.

PURPOSE:
  Resolves the rate that applies to a worker for a given kind of work and
  folds a collection of entries into per-worker statistics over an
  arbitrary project/date/worker/kind filter.

RATE RESOLUTION:
  hourly, construction  -> Worker.Rate            (€/hour)
  paneling              -> Worker.PanelRate       (€/panel)
  cables                -> Worker.CableRate{Size} (€/table)

  A rate that is not configured resolves to zero. That zero is never
  silent: every entry/worker pair that hit a missing rate is reported as a
  RateWarning on the worker's stats, and the same rule applies to every
  kind of work.

CREW SPLIT:
  An entry logged for N workers is split evenly: each worker gets duration/N
  hours and 1/N of the money, no matter who did what.

SEE ALSO:
  - aggregate.go: Aggregate, Filter, WorkerStats
  - worklog/types.go: Work variants
*/
package payroll

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/warp/solarwork/worklog"
)

// =============================================================================
// RATE WARNINGS
// =============================================================================

type WarningCode string

const (
	WarnMissingHourlyRate WarningCode = "missing_hourly_rate"
	WarnMissingPanelRate  WarningCode = "missing_panel_rate"
	WarnMissingCableRate  WarningCode = "missing_cable_rate"
	WarnMissingTableSize  WarningCode = "missing_table_size"
	WarnUnknownWorkType   WarningCode = "unknown_work_type"
)

// RateWarning records an entry that earned a worker nothing because a rate
// or the table size was missing.
type RateWarning struct {
	EntryID  string
	WorkerID string
	Kind     worklog.WorkKind
	Code     WarningCode
}

// =============================================================================
// RATE RESOLVER
// =============================================================================

// ResolveRate returns the €/unit rate of worker for work. When the rate is
// missing the returned rate is zero and the warning code is set.
func ResolveRate(work worklog.Work, worker worklog.Worker) (decimal.Decimal, WarningCode) {
	switch w := work.(type) {
	case worklog.Hourly, worklog.Construction:
		return rateOrWarn(worker.Rate, WarnMissingHourlyRate)
	case worklog.Paneling:
		return rateOrWarn(worker.PanelRate, WarnMissingPanelRate)
	case worklog.Cables:
		switch w.Size {
		case worklog.SizeSmall:
			return rateOrWarn(worker.CableRateSmall, WarnMissingCableRate)
		case worklog.SizeMedium:
			return rateOrWarn(worker.CableRateMedium, WarnMissingCableRate)
		case worklog.SizeLarge:
			return rateOrWarn(worker.CableRateLarge, WarnMissingCableRate)
		default:
			return decimal.Zero, WarnMissingTableSize
		}
	default:
		return decimal.Zero, WarnUnknownWorkType
	}
}

func rateOrWarn(rate float64, code WarningCode) (decimal.Decimal, WarningCode) {
	d := fromFloat(rate)
	if !d.IsPositive() {
		return decimal.Zero, code
	}
	return d, ""
}

// fromFloat converts f, mapping NaN, ±Inf and negatives to zero.
func fromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// safeDiv returns a/b, or zero when b is zero.
func safeDiv(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.Div(b)
}
