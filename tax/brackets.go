/*
Package tax implements the progressive-bracket and flat-rate calculators
used by Brazilian domestic payroll: INSS, IRRF, GILRAT and FGTS.

PURPOSE:
  Every downstream figure (payslip, 13th, vacation, termination, DAE guide)
  is derived from the functions in this package, so they are pure and take
  their tables as data. A new legislative year is a new Table, never a code
  change.

BRACKET ALGORITHM (brackets.go):
  The canonical algorithm is the marginal-sum walk: each bracket taxes the
  slice of the base that falls inside [Min, Max) at its own rate. The
  simplified "base x rate - deduction" form published by the Receita for
  IRRF is a consequence of it: for a consistent table, deduction_k equals
  base x rate_k minus the marginal tax of any base inside bracket k.
  DeriveDeductions rebuilds those constants from the rates.

  A bounded top bracket acts as a ceiling: the part of the base above its
  Max is not taxed (INSS contribution ceiling). An unbounded top bracket
  taxes everything above its Min at the top rate (IRRF).

SEE ALSO:
  - table.go: Table and Rates
  - inss.go, irrf.go, fgts.go: the individual calculators
*/
package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/esocial-engine/generic"
)

// =============================================================================
// BRACKET
// =============================================================================

// Bracket is one row of a progressive table.
type Bracket struct {
	Min       decimal.Decimal
	Max       decimal.Decimal // ignored when Unbounded
	Unbounded bool
	Rate      decimal.Decimal // fraction in [0,1]
	Deduction decimal.Decimal // cumulative deduction for the simplified form
	Label     string
}

// Contains reports whether base falls in [Min, Max) (or [Min, inf)).
func (b Bracket) Contains(base decimal.Decimal) bool {
	if base.LessThan(b.Min) {
		return false
	}
	return b.Unbounded || base.LessThan(b.Max)
}

// DisplayLabel returns Label or a generated "min - max" label.
func (b Bracket) DisplayLabel() string {
	if b.Label != "" {
		return b.Label
	}
	if b.Unbounded {
		return fmt.Sprintf("above %s", b.Min.StringFixed(2))
	}
	return fmt.Sprintf("%s - %s", b.Min.StringFixed(2), b.Max.StringFixed(2))
}

// BracketAmount is the tax attributed to a single bracket.
type BracketAmount struct {
	Label   string
	Rate    decimal.Decimal
	Taxable decimal.Decimal
	Amount  decimal.Decimal
}

// BracketResult is the outcome of a progressive evaluation.
type BracketResult struct {
	Base          decimal.Decimal
	TotalTax      decimal.Decimal
	EffectiveRate decimal.Decimal
	PerBracket    []BracketAmount
}

// =============================================================================
// EVALUATION
// =============================================================================

// ApplyBrackets runs the marginal-sum walk over brackets and returns the
// total tax (rounded to centavos) with a per-bracket breakdown. Per-bracket
// amounts keep full precision so that they add up to the unrounded total.
// base <= 0 yields zero tax.
func ApplyBrackets(base decimal.Decimal, brackets []Bracket) BracketResult {
	result := BracketResult{
		Base:          base,
		TotalTax:      decimal.Zero,
		EffectiveRate: decimal.Zero,
		PerBracket:    make([]BracketAmount, 0, len(brackets)),
	}

	total := decimal.Zero
	for _, b := range brackets {
		taxable := decimal.Zero
		if base.GreaterThan(b.Min) {
			upper := base
			if !b.Unbounded && b.Max.LessThan(upper) {
				upper = b.Max
			}
			taxable = upper.Sub(b.Min)
		}
		amount := taxable.Mul(b.Rate)
		total = total.Add(amount)
		result.PerBracket = append(result.PerBracket, BracketAmount{
			Label:   b.DisplayLabel(),
			Rate:    b.Rate,
			Taxable: taxable,
			Amount:  amount,
		})
	}

	result.TotalTax = generic.Round(total)
	if base.IsPositive() {
		result.EffectiveRate = total.Div(base).Round(6)
	}
	return result
}

// SimplifiedTax evaluates the "base x rate - deduction" form using the single
// bracket that contains base. Above a bounded top bracket the base is capped
// at its Max. base <= 0 yields zero.
func SimplifiedTax(base decimal.Decimal, brackets []Bracket) decimal.Decimal {
	if !base.IsPositive() || len(brackets) == 0 {
		return decimal.Zero
	}
	top := brackets[len(brackets)-1]
	if !top.Unbounded && base.GreaterThanOrEqual(top.Max) {
		base = top.Max
		return generic.NonNegative(generic.Round(base.Mul(top.Rate).Sub(top.Deduction)))
	}
	for _, b := range brackets {
		if b.Contains(base) {
			return generic.NonNegative(generic.Round(base.Mul(b.Rate).Sub(b.Deduction)))
		}
	}
	return decimal.Zero
}

// DeriveDeductions returns a copy of brackets whose Deduction fields are the
// exact cumulative deductions implied by the rates:
//
//	d_0 = Min_0 x rate_0
//	d_k = d_{k-1} + Min_k x (rate_k - rate_{k-1})
//
// With these constants SimplifiedTax equals ApplyBrackets for every base.
func DeriveDeductions(brackets []Bracket) []Bracket {
	out := make([]Bracket, len(brackets))
	copy(out, brackets)
	deduction := decimal.Zero
	prevRate := decimal.Zero
	for i := range out {
		deduction = deduction.Add(out[i].Min.Mul(out[i].Rate.Sub(prevRate)))
		out[i].Deduction = deduction
		prevRate = out[i].Rate
	}
	return out
}

// ValidateBrackets checks ordering, contiguity and rates. Only the last
// bracket may be unbounded.
func ValidateBrackets(name string, brackets []Bracket) error {
	if len(brackets) == 0 {
		return &generic.MissingTableError{Table: name}
	}
	for i, b := range brackets {
		if !generic.IsValidRate(b.Rate) {
			return fmt.Errorf("%s bracket %d: rate %s outside [0,1]: %w", name, i, b.Rate, generic.ErrInvalidTable)
		}
		if b.Unbounded && i != len(brackets)-1 {
			return fmt.Errorf("%s bracket %d: only the last bracket may be unbounded: %w", name, i, generic.ErrInvalidTable)
		}
		if !b.Unbounded && !b.Max.GreaterThan(b.Min) {
			return fmt.Errorf("%s bracket %d: max %s must exceed min %s: %w", name, i, b.Max, b.Min, generic.ErrInvalidTable)
		}
		if i > 0 && !b.Min.Equal(brackets[i-1].Max) {
			return fmt.Errorf("%s bracket %d: min %s does not continue previous max %s: %w", name, i, b.Min, brackets[i-1].Max, generic.ErrInvalidTable)
		}
	}
	return nil
}
