/*
Package generic provides the domain-agnostic primitives of the payroll engine.

PURPOSE:
  This package contains the building blocks shared by every calculator:
  money arithmetic on decimals, calendar dates at day granularity, periods,
  holiday calendars and the error taxonomy. Nothing here knows about INSS,
  IRRF or FGTS; those live in the tax and payroll packages.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: decimal.Decimal values in reais, published with 2 decimal places
  - Rate: a fraction in [0,1] (0.075 = 7.5%)
  - Rounding: every published money field goes through Round

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal everywhere, never float64 for money
  2. Purity: no function in this package reads the clock or performs I/O
  3. Single rounding point: intermediate values keep full precision,
     published fields are rounded once with Round

USAGE:
  salary := decimal.RequireFromString("1518.00")
  daily := generic.Round(salary.Div(generic.Thirty))

SEE ALSO:
  - time.go: TimePoint and holiday calendars
  - period.go: Periods and anniversary math
  - errors.go: Validation and configuration errors
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Decimal amounts in reais
// =============================================================================

// MoneyPlaces is the number of decimal places published for money (centavos).
const MoneyPlaces = 2

// Common divisors used by the labor rules.
var (
	Two     = decimal.NewFromInt(2)
	Three   = decimal.NewFromInt(3)
	Twelve  = decimal.NewFromInt(12)
	Thirty  = decimal.NewFromInt(30)
	Hundred = decimal.NewFromInt(100)
	Half    = decimal.NewFromFloat(0.5)
)

// Round rounds a money value to centavos, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// ApplyRate multiplies base by a fractional rate and rounds to centavos.
// Non-positive bases yield zero.
func ApplyRate(base, rate decimal.Decimal) decimal.Decimal {
	if !base.IsPositive() {
		return decimal.Zero
	}
	return Round(base.Mul(rate))
}

// Daily returns the commercial daily rate (monthly / 30), unrounded.
func Daily(monthly decimal.Decimal) decimal.Decimal {
	return monthly.Div(Thirty)
}

// NonNegative clamps negative values to zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Sum adds all values.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// =============================================================================
// RATE - Fraction in [0,1]
// =============================================================================

// IsValidRate reports whether r is a fraction in [0,1].
func IsValidRate(r decimal.Decimal) bool {
	return !r.IsNegative() && r.LessThanOrEqual(decimal.NewFromInt(1))
}

// PercentToRate converts 7.5 into 0.075.
func PercentToRate(percent decimal.Decimal) decimal.Decimal {
	return percent.Div(Hundred)
}
