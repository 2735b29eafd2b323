package worklog

import (
	"encoding/json"
	"fmt"
	"time"
)

// =============================================================================
// DATE - Calendar day used for grouping, filtering and attendance keys
// =============================================================================

const DateLayout = "2006-01-02"

// Date is a calendar day without time zone. It is comparable and can be
// used as a map key.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func Today() Date { return DateOf(time.Now()) }

// ParseDate accepts "2006-01-02" or any timestamp starting with it
// (e.g. "2025-03-10T07:00:00.000Z"); the date part is taken verbatim.
func ParseDate(s string) (Date, error) {
	if len(s) < len(DateLayout) {
		return Date{}, fmt.Errorf("invalid date %q", s)
	}
	t, err := time.Parse(DateLayout, s[:len(DateLayout)])
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) IsZero() bool           { return d == Date{} }
func (d Date) AddDays(n int) Date     { return DateOf(d.Time().AddDate(0, 0, n)) }
func (d Date) Before(other Date) bool { return d.Time().Before(other.Time()) }
func (d Date) After(other Date) bool  { return d.Time().After(other.Time()) }

func (d Date) InMonth(year int, month time.Month) bool {
	return d.Year == year && d.Month == month
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MonthRange returns the first and last day of a "2006-01" month.
func MonthRange(month string) (Date, Date, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return Date{}, Date{}, fmt.Errorf("invalid month %q: %w", month, err)
	}
	first := DateOf(t)
	return first, DateOf(t.AddDate(0, 1, -1)), nil
}
