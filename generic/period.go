package generic

import "time"

// =============================================================================
// PERIOD - Closed date interval [Start, End]
// =============================================================================

// Period is an inclusive date range.
//
// Examples:
//   - Calendar year 2025: Jan 1 - Dec 31
//   - Acquisition period: admission date + n years, one year long
//   - Notice projection: termination date + notice days
type Period struct {
	Start TimePoint
	End   TimePoint
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Days returns the number of calendar days in the period, both ends included.
func (p Period) Days() int {
	if p.End.Before(p.Start) {
		return 0
	}
	return DaysBetween(p.Start, p.End) + 1
}

// Validate fails when End precedes Start.
func (p Period) Validate() error {
	if p.End.Before(p.Start) {
		return ErrInvalidPeriod
	}
	return nil
}

// Intersect returns the overlap of two periods and whether it is non-empty.
func (p Period) Intersect(other Period) (Period, bool) {
	start := p.Start
	if other.Start.After(start) {
		start = other.Start
	}
	end := p.End
	if other.End.Before(end) {
		end = other.End
	}
	if end.Before(start) {
		return Period{}, false
	}
	return Period{Start: start, End: end}, true
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// MonthPeriod returns the calendar month as a period.
func MonthPeriod(year int, month time.Month) Period {
	return Period{Start: StartOfMonth(year, month), End: EndOfMonth(year, month)}
}

// =============================================================================
// ANNIVERSARY MATH
// =============================================================================

// CompletedYears counts whole years between from and to by anniversary
// comparison: subtract the years, then take one back when the anniversary
// has not been reached yet in the final year. Never a naive year difference.
func CompletedYears(from, to TimePoint) int {
	if to.Before(from) {
		return 0
	}
	years := to.Year() - from.Year()
	if to.Month() < from.Month() || (to.Month() == from.Month() && to.Day() < from.Day()) {
		years--
	}
	return years
}

// AnniversaryPeriod returns the one-year period, anchored on anchor's
// month/day, that contains date. The anchor is typically the admission date,
// which makes the result the current vacation acquisition period.
func AnniversaryPeriod(anchor, date TimePoint) Period {
	years := CompletedYears(anchor, date)
	start := anchor.AddYears(years)
	end := anchor.AddYears(years + 1).AddDays(-1)
	return Period{Start: start, End: end}
}
