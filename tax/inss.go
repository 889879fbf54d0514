package tax

import (
	"github.com/shopspring/decimal"
	"github.com/warp/esocial-engine/generic"
)

// Calculator evaluates INSS, IRRF, GILRAT and FGTS against one Table.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	table Table
}

// NewCalculator validates table and returns a calculator bound to it.
func NewCalculator(table Table) (*Calculator, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{table: table}, nil
}

// Table returns the table the calculator was built with.
func (c *Calculator) Table() Table { return c.table }

// INSSResult is the employee contribution with its bracket breakdown.
type INSSResult struct {
	Amount   decimal.Decimal
	Brackets BracketResult
}

// INSSEmployee computes the employee contribution progressively. Salary above
// the ceiling pays exactly the ceiling contribution.
func (c *Calculator) INSSEmployee(gross decimal.Decimal) INSSResult {
	if !gross.IsPositive() {
		return INSSResult{Amount: decimal.Zero, Brackets: ApplyBrackets(decimal.Zero, c.table.INSS)}
	}
	res := ApplyBrackets(gross, c.table.INSS)
	return INSSResult{Amount: res.TotalTax, Brackets: res}
}

// INSSEmployer is the flat employer contribution on gross salary.
func (c *Calculator) INSSEmployer(gross decimal.Decimal) decimal.Decimal {
	return generic.ApplyRate(gross, c.table.Rates.INSSEmployer)
}

// GILRAT is the flat work-accident insurance contribution on gross salary.
func (c *Calculator) GILRAT(gross decimal.Decimal) decimal.Decimal {
	return generic.ApplyRate(gross, c.table.Rates.GILRAT)
}

// EmployerCharges groups the flat employer-side amounts of one base.
type EmployerCharges struct {
	INSSEmployer     decimal.Decimal
	GILRAT           decimal.Decimal
	FGTSMonthly      decimal.Decimal
	FGTSAnticipation decimal.Decimal
}

// Employer computes every employer-side charge on base.
func (c *Calculator) Employer(base decimal.Decimal) EmployerCharges {
	return EmployerCharges{
		INSSEmployer:     c.INSSEmployer(base),
		GILRAT:           c.GILRAT(base),
		FGTSMonthly:      c.FGTSMonthly(base),
		FGTSAnticipation: c.FGTSAnticipation(base),
	}
}

// DAE sums the consolidated guide: employee INSS is collected on the same
// guide as the employer charges in the domestic regime.
func (e EmployerCharges) DAE(inssEmployee decimal.Decimal) decimal.Decimal {
	return generic.Sum(inssEmployee, e.INSSEmployer, e.GILRAT, e.FGTSMonthly, e.FGTSAnticipation)
}
