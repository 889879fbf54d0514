package tax

import (
	"github.com/shopspring/decimal"
	"github.com/warp/esocial-engine/generic"
)

// IRRFResult is the withholding with the base it was computed on.
type IRRFResult struct {
	Amount   decimal.Decimal
	Base     decimal.Decimal
	Brackets BracketResult
}

// IRRF computes income tax withholding. taxBase must already be net of the
// employee INSS contribution; only the dependent deduction is subtracted
// here. A base at or below the exemption limit pays nothing.
func (c *Calculator) IRRF(taxBase decimal.Decimal, dependents int) IRRFResult {
	if dependents < 0 {
		dependents = 0
	}
	deduction := c.table.DependentDeduction.Mul(decimal.NewFromInt(int64(dependents)))
	base := generic.Round(generic.NonNegative(taxBase.Sub(deduction)))

	res := ApplyBrackets(base, c.table.IRRF)
	if base.LessThanOrEqual(c.table.IRRFExemptionLimit()) {
		res.TotalTax = decimal.Zero
	}
	return IRRFResult{Amount: res.TotalTax, Base: base, Brackets: res}
}

// IRRFSimplified is the "base x rate - deduction" form with the table's
// published deductions, kept for cross-checking published guides.
func (c *Calculator) IRRFSimplified(taxBase decimal.Decimal, dependents int) decimal.Decimal {
	if dependents < 0 {
		dependents = 0
	}
	deduction := c.table.DependentDeduction.Mul(decimal.NewFromInt(int64(dependents)))
	base := generic.Round(generic.NonNegative(taxBase.Sub(deduction)))
	return SimplifiedTax(base, c.table.IRRF)
}
