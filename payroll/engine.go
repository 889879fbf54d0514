/*
Package payroll computes domestic-employer payroll breakdowns.

PURPOSE:
  One Engine, four calculations, all pure:
    - Payroll:     monthly gross-to-net with overtime, absences, DSR and DAE
    - Thirteenth:  annual bonus in two installments, taxed on the full base
    - Vacation:    vacation pay, constitutional third, sold days (abono)
    - Termination: rescission settlement by termination and notice type

  Every downstream artifact (calculator screen, saved record, payslip PDF,
  eSocial payload, DAE guide) must come from these breakdowns so that the
  figures never diverge.

ROUNDING:
  Intermediate values keep full decimal precision. Each published field is
  rounded to centavos once, and totals are sums of already-rounded fields,
  so TotalEarnings - TotalDeductions equals the net field exactly.

DATES:
  No function here reads the clock. Reference dates are always inputs.

SEE ALSO:
  - tax/: the bracket and flat-rate calculators used here
  - avos.go: the "15 days or more counts as a month" rule
*/
package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/esocial-engine/tax"
)

// Legal constants that do not change with the yearly tables.
var (
	// MonthlyHoursDivisor converts a monthly salary into an hourly rate.
	MonthlyHoursDivisor = decimal.NewFromInt(220)

	// OvertimeMultiplier is the minimum 50% overtime premium.
	OvertimeMultiplier = decimal.NewFromFloat(1.5)
)

const (
	// MaxVacationDays is the yearly vacation entitlement.
	MaxVacationDays = 30

	// MaxSoldDays is one third of the entitlement (abono pecuniário).
	MaxSoldDays = 10

	// BaseNoticeDays, NoticeDaysPerYear and MaxNoticeDays define the
	// proportional notice: 30 days plus 3 per completed year, up to 90.
	BaseNoticeDays    = 30
	NoticeDaysPerYear = 3
	MaxNoticeDays     = 90

	// AvoThresholdDays is the minimum days worked in a month for it to count.
	AvoThresholdDays = 15
)

// Engine runs the payroll calculations against one tax table.
// It is immutable and safe for concurrent use.
type Engine struct {
	calc *tax.Calculator
}

// NewEngine validates table and builds an engine. A missing or malformed
// table is a configuration error.
func NewEngine(table tax.Table) (*Engine, error) {
	calc, err := tax.NewCalculator(table)
	if err != nil {
		return nil, err
	}
	return &Engine{calc: calc}, nil
}

// Calculator exposes the underlying tax calculator.
func (e *Engine) Calculator() *tax.Calculator { return e.calc }

// Year returns the year of the table in use.
func (e *Engine) Year() int { return e.calc.Table().Year }
