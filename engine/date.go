package engine

import (
	"time"
)

// =============================================================================
// DATE - Calendar date abstraction (due-date math works on whole days)
// =============================================================================

// Date is a calendar date normalized to midnight UTC. All due-date arithmetic
// in the engine operates on Date, never on raw time.Time, so results are
// independent of wall-clock time and time zones.
type Date struct {
	Time time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date. This is the engine's only contact
// with the wall clock; callers that need reproducibility pass explicit dates.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// ParseDate parses an ISO date string (2006-01-02).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

// Comparison
func (d Date) Before(other Date) bool { return d.normalize().Before(other.normalize()) }
func (d Date) Equal(other Date) bool  { return d.normalize().Equal(other.normalize()) }
func (d Date) After(other Date) bool  { return d.normalize().After(other.normalize()) }
func (d Date) IsZero() bool           { return d.Time.IsZero() }

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{Time: d.normalize().AddDate(0, 0, n)} }

// AddMonths advances by whole calendar months, clamping the day-of-month when
// the target month is shorter (Jan 31 + 1 month = Feb 28/29, not Mar 2).
func (d Date) AddMonths(n int) Date {
	year, month, day := d.Time.Year(), d.Time.Month(), d.Time.Day()
	// First day of the target month, then clamp the day.
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	if max := daysInMonth(first.Year(), first.Month()); day > max {
		day = max
	}
	return NewDate(first.Year(), first.Month(), day)
}

// WithDay pins the day-of-month, clamping against short months
// (WithDay(31) in February yields Feb 28/29).
func (d Date) WithDay(day int) Date {
	if max := daysInMonth(d.Time.Year(), d.Time.Month()); day > max {
		day = max
	}
	return NewDate(d.Time.Year(), d.Time.Month(), day)
}

// Properties
func (d Date) Year() int         { return d.Time.Year() }
func (d Date) Month() time.Month { return d.Time.Month() }
func (d Date) Day() int          { return d.Time.Day() }

func (d Date) String() string { return d.normalize().Format("2006-01-02") }

// =============================================================================
// DATE UTILITIES
// =============================================================================

// DaysBetween returns the whole-day distance from one date to another.
// Negative when to precedes from.
func DaysBetween(from, to Date) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
