package generic

import (
	"fmt"
	"time"
)

// =============================================================================
// TIME POINT - Calendar date at day granularity
// =============================================================================

// DateLayout is the ISO calendar date format used on every boundary.
const DateLayout = "2006-01-02"

// TimePoint is a calendar date. Labor rules only ever look at days, so the
// time of day is discarded on construction.
type TimePoint struct {
	Time time.Time
}

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates t to its calendar date.
func FromTime(t time.Time) TimePoint {
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (TimePoint, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return TimePoint{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return FromTime(t), nil
}

// Today reads the wall clock. Only outer layers (HTTP handlers, cmd) may call
// it; calculators always receive dates as parameters.
func Today() TimePoint {
	return FromTime(time.Now())
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.Time.Before(other.Time) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.Time.Equal(other.Time) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.Time.After(other.Time) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return !tp.After(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return !tp.Before(other) }

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint { return TimePoint{Time: tp.Time.AddDate(0, 0, n)} }

// AddMonths adds n calendar months, clamping to the last day of the target
// month instead of overflowing (Jan 31 + 1 month = Feb 28/29).
func (tp TimePoint) AddMonths(n int) TimePoint {
	first := time.Date(tp.Year(), tp.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := EndOfMonth(first.Year(), first.Month())
	day := tp.Day()
	if day > last.Day() {
		day = last.Day()
	}
	return NewTimePoint(first.Year(), first.Month(), day)
}

// AddYears adds n years with the same clamping rule (Feb 29 -> Feb 28).
func (tp TimePoint) AddYears(n int) TimePoint { return tp.AddMonths(12 * n) }

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsZero() bool          { return tp.Time.IsZero() }
func (tp TimePoint) IsWeekend() bool {
	wd := tp.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (tp TimePoint) String() string { return tp.Time.Format(DateLayout) }

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

// Holiday is a dated non-business day.
type Holiday struct {
	ID        string
	Date      TimePoint
	Name      string
	Recurring bool // true = same month/day every year
}

// FixedHoliday is a national holiday that falls on the same month/day every year.
type FixedHoliday struct {
	Month time.Month
	Day   int
	Name  string
}

// HolidayCalendar answers whether a date is a holiday.
type HolidayCalendar interface {
	IsHoliday(date TimePoint) bool
}

// FixedHolidays is a HolidayCalendar over a list of recurring month/day holidays.
type FixedHolidays []FixedHoliday

func (f FixedHolidays) IsHoliday(date TimePoint) bool {
	for _, h := range f {
		if h.Month == date.Month() && h.Day == date.Day() {
			return true
		}
	}
	return false
}

// Calendars combines several calendars; a date is a holiday if any says so.
type Calendars []HolidayCalendar

func (c Calendars) IsHoliday(date TimePoint) bool {
	for _, cal := range c {
		if cal != nil && cal.IsHoliday(date) {
			return true
		}
	}
	return false
}

// IsBusinessDay checks weekends and the given calendar (nil = weekends only).
func (tp TimePoint) IsBusinessDay(calendar HolidayCalendar) bool {
	if tp.IsWeekend() {
		return false
	}
	if calendar != nil && calendar.IsHoliday(tp) {
		return false
	}
	return true
}

// NextBusinessDay returns date itself when it is a business day, otherwise
// the first following business day.
func NextBusinessDay(date TimePoint, calendar HolidayCalendar) TimePoint {
	d := date
	for !d.IsBusinessDay(calendar) {
		d = d.AddDays(1)
	}
	return d
}

// =============================================================================
// TIME UTILITIES
// =============================================================================

func DaysBetween(from, to TimePoint) int { return int(to.Time.Sub(from.Time).Hours() / 24) }
func StartOfYear(year int) TimePoint     { return NewTimePoint(year, time.January, 1) }
func EndOfYear(year int) TimePoint       { return NewTimePoint(year, time.December, 31) }
func StartOfMonth(year int, month time.Month) TimePoint {
	return NewTimePoint(year, month, 1)
}
func EndOfMonth(year int, month time.Month) TimePoint {
	return FromTime(time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1))
}
