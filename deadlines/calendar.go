/*
calendar.go - Statutory due dates for domestic employers

PURPOSE:
  Generates the recurring eSocial deadlines of a month and classifies each
  one against a reference date supplied by the caller.

KEY CONCEPTS:
  Nominal day: the day-of-month fixed by law (DAE on the 7th, payroll
  events on the 15th, ...). The effective date is the nominal day advanced
  past weekends and holidays with generic.NextBusinessDay.

  Status: derived by comparing ISO dates (YYYY-MM-DD) as strings, which
  orders them correctly at day granularity. "today" is always a parameter;
  nothing in this package reads the clock.

USAGE:
  cal, err := deadlines.NewCalendar(table.Holidays)
  for _, d := range cal.ForMonth(2025, time.June, today) { ... }

SEE ALSO:
  - generic/time.go: HolidayCalendar, NextBusinessDay
  - store/sqlite: stored holidays implement generic.HolidayCalendar
*/
package deadlines

import (
	"fmt"
	"sort"
	"time"

	"github.com/warp/esocial-engine/generic"
)

// Type identifies a recurring obligation.
type Type string

const (
	TypeDAE              Type = "dae"
	TypeESocialPayroll   Type = "esocial_payroll"
	TypeThirteenthFirst  Type = "thirteenth_first"
	TypeThirteenthSecond Type = "thirteenth_second"
	TypeIncomeReport     Type = "income_report"
)

// Status of a deadline relative to the reference date.
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusDueToday Status = "due_today"
	StatusPast     Status = "past"
)

// Instance is one concrete deadline.
type Instance struct {
	Type        Type
	Label       string
	Description string
	NominalDate generic.TimePoint
	Date        generic.TimePoint // after business-day advancement
	Status      Status
}

// rule describes when a deadline type occurs. A zero month means every month;
// a zero day means the last day of the month.
type rule struct {
	typ         Type
	month       time.Month
	day         int
	label       string
	description string
}

var rules = []rule{
	{TypeDAE, 0, 7, "DAE", "Pagamento do DAE (INSS, GILRAT e FGTS) da competência anterior"},
	{TypeESocialPayroll, 0, 15, "Folha eSocial", "Envio e fechamento da folha de pagamento no eSocial"},
	{TypeIncomeReport, time.February, 0, "Informe de rendimentos", "Entrega do informe de rendimentos ao empregado"},
	{TypeThirteenthFirst, time.November, 30, "13º - 1ª parcela", "Pagamento da primeira parcela do 13º salário"},
	{TypeThirteenthSecond, time.December, 20, "13º - 2ª parcela", "Pagamento da segunda parcela do 13º salário"},
}

// Calendar generates deadlines over a holiday calendar.
type Calendar struct {
	holidays generic.HolidayCalendar
}

// NewCalendar combines the given holiday calendars. At least one non-nil
// calendar is required: deadlines without holiday data would silently land on
// holidays.
func NewCalendar(holidays ...generic.HolidayCalendar) (*Calendar, error) {
	var cals generic.Calendars
	for _, h := range holidays {
		if h == nil {
			continue
		}
		if fixed, ok := h.(generic.FixedHolidays); ok && len(fixed) == 0 {
			continue
		}
		cals = append(cals, h)
	}
	if len(cals) == 0 {
		return nil, &generic.MissingTableError{Table: "holidays"}
	}
	return &Calendar{holidays: cals}, nil
}

// NextBusinessDay advances date past weekends and holidays.
func (c *Calendar) NextBusinessDay(date generic.TimePoint) generic.TimePoint {
	return generic.NextBusinessDay(date, c.holidays)
}

// IsBusinessDay reports whether date is neither a weekend nor a holiday.
func (c *Calendar) IsBusinessDay(date generic.TimePoint) bool {
	return date.IsBusinessDay(c.holidays)
}

// ForMonth returns the deadlines whose nominal date falls in year/month,
// ordered by effective date.
func (c *Calendar) ForMonth(year int, month time.Month, today generic.TimePoint) []Instance {
	var out []Instance
	for _, r := range rules {
		if r.month != 0 && r.month != month {
			continue
		}
		nominal := generic.EndOfMonth(year, month)
		if r.day != 0 {
			nominal = generic.NewTimePoint(year, month, r.day)
		}
		date := c.NextBusinessDay(nominal)
		out = append(out, Instance{
			Type:        r.typ,
			Label:       r.label,
			Description: r.description,
			NominalDate: nominal,
			Date:        date,
			Status:      StatusOf(date, today),
		})
	}
	sortByDate(out)
	return out
}

// Between returns every deadline with a nominal date in the inclusive range
// of months spanned by period.
func (c *Calendar) Between(period generic.Period, today generic.TimePoint) ([]Instance, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	var out []Instance
	year, month := period.Start.Year(), period.Start.Month()
	for !generic.StartOfMonth(year, month).After(period.End) {
		for _, d := range c.ForMonth(year, month, today) {
			if period.Contains(d.NominalDate) {
				out = append(out, d)
			}
		}
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}
	return out, nil
}

// StatusOf classifies date against today by ISO string comparison.
func StatusOf(date, today generic.TimePoint) Status {
	d, t := date.String(), today.String()
	switch {
	case d == t:
		return StatusDueToday
	case d < t:
		return StatusPast
	default:
		return StatusUpcoming
	}
}

func (i Instance) String() string {
	return fmt.Sprintf("%s %s (%s)", i.Date, i.Type, i.Status)
}

func sortByDate(items []Instance) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Date.Before(items[j].Date) })
}
