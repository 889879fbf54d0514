package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/esocial-engine/generic"
	"github.com/warp/esocial-engine/tax"
)

// ThirteenthInput is the annual bonus request. MonthsWorked is the number of
// avos the caller counted (see CountAvos / ThirteenthMonthsWorked).
type ThirteenthInput struct {
	MonthlySalary decimal.Decimal
	MonthsWorked  int
	Dependents    int
}

// ThirteenthBreakdown splits the 13th salary into its two installments.
type ThirteenthBreakdown struct {
	MonthlySalary    decimal.Decimal
	MonthsWorked     int
	ProportionalBase decimal.Decimal

	FirstInstallment       decimal.Decimal // 50% of the base, untaxed
	SecondInstallmentGross decimal.Decimal

	// Taxes on the full base, withheld from the second installment
	INSSEmployee decimal.Decimal
	IRRFEmployee decimal.Decimal
	IRRFBase     decimal.Decimal

	SecondInstallmentNet decimal.Decimal
	TotalEmployeePay     decimal.Decimal

	TotalEarnings   decimal.Decimal
	TotalDeductions decimal.Decimal
	NetAmount       decimal.Decimal

	INSSEmployer     decimal.Decimal
	GILRAT           decimal.Decimal
	FGTSMonthly      decimal.Decimal
	FGTSAnticipation decimal.Decimal
	DAETotal         decimal.Decimal

	INSSBrackets tax.BracketResult
	IRRFBrackets tax.BracketResult
}

func (in ThirteenthInput) validate() error {
	if !in.MonthlySalary.IsPositive() {
		return generic.Invalid("monthly_salary", "must be positive, got %s", in.MonthlySalary)
	}
	if in.MonthsWorked < 1 || in.MonthsWorked > 12 {
		return generic.Invalid("months_worked", "must be between 1 and 12, got %d", in.MonthsWorked)
	}
	if in.Dependents < 0 {
		return generic.Invalid("dependents", "must not be negative, got %d", in.Dependents)
	}
	return nil
}

// Thirteenth computes the annual bonus. INSS and IRRF are computed on the
// whole proportional base and withheld entirely from the second installment.
func (e *Engine) Thirteenth(in ThirteenthInput) (ThirteenthBreakdown, error) {
	if err := in.validate(); err != nil {
		return ThirteenthBreakdown{}, err
	}

	base := generic.Round(in.MonthlySalary.Div(generic.Twelve).Mul(decimal.NewFromInt(int64(in.MonthsWorked))))
	first := generic.Round(base.Mul(generic.Half))
	second := base.Sub(first)

	inss := e.calc.INSSEmployee(base)
	irrf := e.calc.IRRF(base.Sub(inss.Amount), in.Dependents)

	deductions := inss.Amount.Add(irrf.Amount)
	secondNet := second.Sub(deductions)
	totalPay := first.Add(secondNet)

	employer := e.calc.Employer(base)

	return ThirteenthBreakdown{
		MonthlySalary:          in.MonthlySalary,
		MonthsWorked:           in.MonthsWorked,
		ProportionalBase:       base,
		FirstInstallment:       first,
		SecondInstallmentGross: second,
		INSSEmployee:           inss.Amount,
		IRRFEmployee:           irrf.Amount,
		IRRFBase:               irrf.Base,
		SecondInstallmentNet:   secondNet,
		TotalEmployeePay:       totalPay,
		TotalEarnings:          base,
		TotalDeductions:        deductions,
		NetAmount:              totalPay,
		INSSEmployer:           employer.INSSEmployer,
		GILRAT:                 employer.GILRAT,
		FGTSMonthly:            employer.FGTSMonthly,
		FGTSAnticipation:       employer.FGTSAnticipation,
		DAETotal:               employer.DAE(inss.Amount),
		INSSBrackets:           inss.Brackets,
		IRRFBrackets:           irrf.Brackets,
	}, nil
}
