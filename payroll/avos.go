package payroll

import (
	"time"

	"github.com/warp/esocial-engine/generic"
)

// CountAvos counts the calendar months touched by period in which at least
// AvoThresholdDays days fall inside the period. This is the rule for the 13th
// salary: a month counts when the employee worked 15 days or more in it.
func CountAvos(period generic.Period) int {
	if period.End.Before(period.Start) {
		return 0
	}
	avos := 0
	year, month := period.Start.Year(), period.Start.Month()
	for {
		m := generic.MonthPeriod(year, month)
		if m.Start.After(period.End) {
			break
		}
		if overlap, ok := m.Intersect(period); ok && overlap.Days() >= AvoThresholdDays {
			avos++
		}
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}
	return avos
}

// ThirteenthMonthsWorked counts the 13th-salary avos of year for an employee
// admitted on admission and still employed on through (inclusive).
func ThirteenthMonthsWorked(admission, through generic.TimePoint, year int) int {
	start := generic.StartOfYear(year)
	if admission.After(start) {
		start = admission
	}
	end := generic.EndOfYear(year)
	if through.Before(end) {
		end = through
	}
	return CountAvos(generic.Period{Start: start, End: end})
}

// VacationAvos counts vacation avos from the start of an acquisition period
// up to end (inclusive). Months are anniversary months, not calendar months:
// each whole month from start counts, and a trailing fraction counts when it
// reaches AvoThresholdDays days. The result is capped at 12.
func VacationAvos(start, end generic.TimePoint) int {
	if end.Before(start) {
		return 0
	}
	months := 0
	for months < 12 && start.AddMonths(months+1).AddDays(-1).BeforeOrEqual(end) {
		months++
	}
	if months < 12 {
		rest := generic.Period{Start: start.AddMonths(months), End: end}
		if rest.Days() >= AvoThresholdDays {
			months++
		}
	}
	return months
}

// NoticeDays returns the proportional notice for completed years of service.
func NoticeDays(yearsWorked int) int {
	if yearsWorked < 0 {
		yearsWorked = 0
	}
	days := BaseNoticeDays + NoticeDaysPerYear*yearsWorked
	if days > MaxNoticeDays {
		return MaxNoticeDays
	}
	return days
}
