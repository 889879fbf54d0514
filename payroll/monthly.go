package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/esocial-engine/generic"
	"github.com/warp/esocial-engine/tax"
)

// PayrollInput is one month of a domestic employee.
type PayrollInput struct {
	GrossSalary     decimal.Decimal
	Dependents      int
	OvertimeHours   decimal.Decimal // optional
	AbsenceDays     int             // unjustified absences
	DSRAbsenceDays  int             // weekly rest days forfeited by those absences
	OtherEarnings   decimal.Decimal // taxable, optional
	OtherDeductions decimal.Decimal // optional, after taxes
}

// PayrollBreakdown is the monthly payslip and DAE composition.
//
// Absence and DSR amounts are shown in the deduction column but are netted
// out of TotalEarnings, which is the base for INSS and IRRF. They are not
// part of TotalDeductions, so NetSalary = TotalEarnings - TotalDeductions.
type PayrollBreakdown struct {
	// Earnings
	GrossSalary   decimal.Decimal
	OvertimePay   decimal.Decimal
	OtherEarnings decimal.Decimal
	TotalEarnings decimal.Decimal

	// Deductions
	INSSEmployee     decimal.Decimal
	IRRFEmployee     decimal.Decimal
	AbsenceDeduction decimal.Decimal
	DSRDeduction     decimal.Decimal
	OtherDeductions  decimal.Decimal
	TotalDeductions  decimal.Decimal

	NetSalary decimal.Decimal

	// Employer charges (on GrossSalary)
	INSSEmployer     decimal.Decimal
	GILRAT           decimal.Decimal
	FGTSMonthly      decimal.Decimal
	FGTSAnticipation decimal.Decimal
	DAETotal         decimal.Decimal

	// Transparency
	Dependents   int
	IRRFBase     decimal.Decimal
	INSSBrackets tax.BracketResult
	IRRFBrackets tax.BracketResult
}

func (in PayrollInput) validate() error {
	if !generic.Round(in.GrossSalary).IsPositive() {
		return generic.Invalid("gross_salary", "must be at least one centavo, got %s", in.GrossSalary)
	}
	if in.Dependents < 0 {
		return generic.Invalid("dependents", "must not be negative, got %d", in.Dependents)
	}
	if in.OvertimeHours.IsNegative() {
		return generic.Invalid("overtime_hours", "must not be negative, got %s", in.OvertimeHours)
	}
	if in.AbsenceDays < 0 || in.DSRAbsenceDays < 0 {
		return generic.Invalid("absence_days", "absence and DSR days must not be negative")
	}
	if in.AbsenceDays+in.DSRAbsenceDays > 30 {
		return generic.Invalid("absence_days", "absence plus DSR days exceed the 30-day month (%d)", in.AbsenceDays+in.DSRAbsenceDays)
	}
	if in.OtherEarnings.IsNegative() || in.OtherDeductions.IsNegative() {
		return generic.Invalid("other", "other earnings and deductions must not be negative")
	}
	return nil
}

// Payroll computes the monthly breakdown. Order matters: earnings are
// adjusted for overtime, absences and DSR before INSS, and IRRF is computed
// on the earnings base net of INSS. Employer charges use GrossSalary, rounded
// to centavos. Other deductions may not push the net below zero.
func (e *Engine) Payroll(in PayrollInput) (PayrollBreakdown, error) {
	if err := in.validate(); err != nil {
		return PayrollBreakdown{}, err
	}

	gross := generic.Round(in.GrossSalary)
	daily := generic.Daily(gross)

	overtime := decimal.Zero
	if in.OvertimeHours.IsPositive() {
		hourly := gross.Div(MonthlyHoursDivisor)
		overtime = generic.Round(hourly.Mul(OvertimeMultiplier).Mul(in.OvertimeHours))
	}
	absence := generic.Round(daily.Mul(decimal.NewFromInt(int64(in.AbsenceDays))))
	dsr := generic.Round(daily.Mul(decimal.NewFromInt(int64(in.DSRAbsenceDays))))
	other := generic.Round(in.OtherEarnings)

	totalEarnings := gross.Add(overtime).Add(other).Sub(absence).Sub(dsr)

	inss := e.calc.INSSEmployee(totalEarnings)
	irrf := e.calc.IRRF(totalEarnings.Sub(inss.Amount), in.Dependents)

	otherDeductions := generic.Round(in.OtherDeductions)
	if available := totalEarnings.Sub(inss.Amount).Sub(irrf.Amount); otherDeductions.GreaterThan(available) {
		return PayrollBreakdown{}, generic.Invalid("other_deductions",
			"%s exceeds the %s left after INSS and IRRF", otherDeductions.StringFixed(2), available.StringFixed(2))
	}
	totalDeductions := generic.Sum(inss.Amount, irrf.Amount, otherDeductions)

	employer := e.calc.Employer(gross)

	return PayrollBreakdown{
		GrossSalary:      gross,
		OvertimePay:      overtime,
		OtherEarnings:    other,
		TotalEarnings:    totalEarnings,
		INSSEmployee:     inss.Amount,
		IRRFEmployee:     irrf.Amount,
		AbsenceDeduction: absence,
		DSRDeduction:     dsr,
		OtherDeductions:  otherDeductions,
		TotalDeductions:  totalDeductions,
		NetSalary:        totalEarnings.Sub(totalDeductions),
		INSSEmployer:     employer.INSSEmployer,
		GILRAT:           employer.GILRAT,
		FGTSMonthly:      employer.FGTSMonthly,
		FGTSAnticipation: employer.FGTSAnticipation,
		DAETotal:         employer.DAE(inss.Amount),
		Dependents:       in.Dependents,
		IRRFBase:         irrf.Base,
		INSSBrackets:     inss.Brackets,
		IRRFBrackets:     irrf.Brackets,
	}, nil
}
