package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/esocial-engine/generic"
	"github.com/warp/esocial-engine/tax"
)

// =============================================================================
// TERMINATION AND NOTICE TYPES
// =============================================================================

type TerminationType string

const (
	TerminationWithoutCause    TerminationType = "without_cause"    // dispensa sem justa causa
	TerminationResignation     TerminationType = "resignation"      // pedido de demissão
	TerminationWithCause       TerminationType = "with_cause"       // dispensa por justa causa
	TerminationMutualAgreement TerminationType = "mutual_agreement" // acordo, art. 484-A CLT
)

// Label is the Portuguese description printed on the rescission statement.
func (t TerminationType) Label() string {
	switch t {
	case TerminationWithoutCause:
		return "Dispensa sem justa causa"
	case TerminationResignation:
		return "Pedido de demissão"
	case TerminationWithCause:
		return "Dispensa por justa causa"
	case TerminationMutualAgreement:
		return "Rescisão por acordo entre as partes"
	default:
		return string(t)
	}
}

// EmployerInitiated reports whether the notice is owed by the employer.
func (t TerminationType) EmployerInitiated() bool {
	return t == TerminationWithoutCause || t == TerminationMutualAgreement
}

type NoticeType string

const (
	NoticeWorked      NoticeType = "worked"      // aviso trabalhado
	NoticeIndemnified NoticeType = "indemnified" // aviso indenizado
	NoticeNotGiven    NoticeType = "not_given"   // employee resigned without serving notice
	NoticeWaived      NoticeType = "waived"      // employer released the resigning employee
	NoticeNone        NoticeType = "none"        // no notice applies (with cause)
)

// normalizeNotice fills the default notice for a termination type and rejects
// combinations that do not exist.
func normalizeNotice(t TerminationType, n NoticeType) (NoticeType, error) {
	switch t {
	case TerminationWithoutCause, TerminationMutualAgreement:
		if n == "" {
			return NoticeIndemnified, nil
		}
		if n == NoticeWorked || n == NoticeIndemnified {
			return n, nil
		}
	case TerminationResignation:
		if n == "" {
			return NoticeWorked, nil
		}
		if n == NoticeWorked || n == NoticeNotGiven || n == NoticeWaived {
			return n, nil
		}
	case TerminationWithCause:
		if n == "" || n == NoticeNone {
			return NoticeNone, nil
		}
	default:
		return "", generic.Invalid("termination_type", "unknown termination type %q", t)
	}
	return "", generic.Invalid("notice_type", "%q is not allowed for %s", n, t)
}

// =============================================================================
// INPUT / OUTPUT
// =============================================================================

// TerminationInput describes a contract termination.
type TerminationInput struct {
	AdmissionDate   generic.TimePoint
	TerminationDate generic.TimePoint // last day worked
	Salary          decimal.Decimal
	TerminationType TerminationType
	NoticeType      NoticeType // defaulted per termination type when empty
	Dependents      int

	// FGTSBalance is the cumulative fund balance, from the deposit history.
	FGTSBalance decimal.Decimal

	// PendingVacationPeriods is the number of completed acquisition periods
	// whose vacation was never taken.
	PendingVacationPeriods int

	// ThirteenthAdvancePaid is the first 13th installment already paid in the
	// termination year.
	ThirteenthAdvancePaid decimal.Decimal
}

// TerminationBreakdown is the rescission statement (TRCT).
type TerminationBreakdown struct {
	TerminationType      TerminationType
	TerminationTypeLabel string
	NoticeType           NoticeType

	AdmissionDate    generic.TimePoint
	TerminationDate  generic.TimePoint
	ProjectedEndDate generic.TimePoint // termination date plus indemnified notice
	YearsWorked      int
	NoticeDays       int

	// Earnings
	SaldoSalarioDays          int
	SaldoSalario              decimal.Decimal
	AvisoPrevio               decimal.Decimal
	ThirteenthAvos            int
	ThirteenthProportional    decimal.Decimal
	VacationAvos              int
	VacationProportional      decimal.Decimal
	VacationProportionalTerco decimal.Decimal
	AccruedVacationPeriods    int
	AccruedVacation           decimal.Decimal
	AccruedVacationTerco      decimal.Decimal
	TotalEarnings             decimal.Decimal

	// Deductions
	INSSEmployee               decimal.Decimal // on saldo + notice
	IRRFEmployee               decimal.Decimal
	IRRFBase                   decimal.Decimal
	INSSThirteenth             decimal.Decimal // 13th is taxed on its own base
	IRRFThirteenth             decimal.Decimal
	ThirteenthAdvanceDeduction decimal.Decimal
	AvisoPrevioDeduction       decimal.Decimal
	TotalDeductions            decimal.Decimal

	NetAmount decimal.Decimal

	// FGTS, paid into the fund, not through the statement
	FGTSBase          decimal.Decimal
	FGTSOnTermination decimal.Decimal
	FGTSBalance       decimal.Decimal
	FGTSPenaltyRate   decimal.Decimal
	FGTSPenalty       decimal.Decimal
	TotalFGTS         decimal.Decimal

	TotalToReceive decimal.Decimal

	INSSBrackets tax.BracketResult
	IRRFBrackets tax.BracketResult
}

func (in TerminationInput) validate() error {
	if !in.Salary.IsPositive() {
		return generic.Invalid("salary", "must be positive, got %s", in.Salary)
	}
	if in.AdmissionDate.IsZero() {
		return generic.Invalid("admission_date", "is required")
	}
	if in.TerminationDate.IsZero() {
		return generic.Invalid("termination_date", "is required")
	}
	if in.TerminationDate.Before(in.AdmissionDate) {
		return generic.Invalid("termination_date", "%s precedes admission %s", in.TerminationDate, in.AdmissionDate)
	}
	if in.Dependents < 0 {
		return generic.Invalid("dependents", "must not be negative, got %d", in.Dependents)
	}
	if in.FGTSBalance.IsNegative() {
		return generic.Invalid("fgts_balance", "must not be negative, got %s", in.FGTSBalance)
	}
	if in.ThirteenthAdvancePaid.IsNegative() {
		return generic.Invalid("thirteenth_advance_paid", "must not be negative, got %s", in.ThirteenthAdvancePaid)
	}
	completed := generic.CompletedYears(in.AdmissionDate, in.TerminationDate)
	if in.PendingVacationPeriods < 0 || in.PendingVacationPeriods > completed {
		return generic.Invalid("pending_vacation_periods", "must be between 0 and %d completed periods, got %d", completed, in.PendingVacationPeriods)
	}
	return nil
}

// =============================================================================
// CALCULATION
// =============================================================================

// Termination computes the rescission settlement.
//
// Indemnified notice projects the contract end forward by the notice days;
// the projected date is used for the 13th and vacation avos and may complete
// an acquisition period. INSS and IRRF apply to saldo de salário plus notice
// pay; the proportional 13th is taxed separately on its own base. Vacation
// amounts are indemnities and are never taxed. The FGTS penalty is paid into
// the fund, so TotalToReceive = NetAmount + FGTSPenalty.
func (e *Engine) Termination(in TerminationInput) (TerminationBreakdown, error) {
	if err := in.validate(); err != nil {
		return TerminationBreakdown{}, err
	}
	notice, err := normalizeNotice(in.TerminationType, in.NoticeType)
	if err != nil {
		return TerminationBreakdown{}, err
	}

	table := e.calc.Table()
	salary := in.Salary
	daily := generic.Daily(salary)
	years := generic.CompletedYears(in.AdmissionDate, in.TerminationDate)

	out := TerminationBreakdown{
		TerminationType:      in.TerminationType,
		TerminationTypeLabel: in.TerminationType.Label(),
		NoticeType:           notice,
		AdmissionDate:        in.AdmissionDate,
		TerminationDate:      in.TerminationDate,
		ProjectedEndDate:     in.TerminationDate,
		YearsWorked:          years,
		FGTSBalance:          in.FGTSBalance,
	}

	// Notice
	switch {
	case in.TerminationType.EmployerInitiated():
		out.NoticeDays = NoticeDays(years)
	case in.TerminationType == TerminationResignation:
		out.NoticeDays = BaseNoticeDays
	}
	if notice == NoticeIndemnified {
		out.ProjectedEndDate = in.TerminationDate.AddDays(out.NoticeDays)
		pay := daily.Mul(decimal.NewFromInt(int64(out.NoticeDays)))
		if in.TerminationType == TerminationMutualAgreement {
			pay = pay.Mul(generic.Half)
		}
		out.AvisoPrevio = generic.Round(pay)
	}

	// Saldo de salário
	out.SaldoSalarioDays = saldoDays(in.AdmissionDate, in.TerminationDate)
	out.SaldoSalario = generic.Round(daily.Mul(decimal.NewFromInt(int64(out.SaldoSalarioDays))))

	// Proportional 13th and vacation, forfeited on dismissal with cause
	if in.TerminationType != TerminationWithCause {
		start := generic.StartOfYear(in.TerminationDate.Year())
		if in.AdmissionDate.After(start) {
			start = in.AdmissionDate
		}
		end := out.ProjectedEndDate
		if yearEnd := generic.EndOfYear(in.TerminationDate.Year()); end.After(yearEnd) {
			end = yearEnd
		}
		out.ThirteenthAvos = CountAvos(generic.Period{Start: start, End: end})
		out.ThirteenthProportional = avosValue(salary, out.ThirteenthAvos)

		acquisition := generic.AnniversaryPeriod(in.AdmissionDate, out.ProjectedEndDate)
		out.VacationAvos = VacationAvos(acquisition.Start, out.ProjectedEndDate)
		out.VacationProportional = avosValue(salary, out.VacationAvos)
		out.VacationProportionalTerco = generic.Round(out.VacationProportional.Div(generic.Three))
	}

	// Accrued vacation: declared pending periods plus any period completed
	// only by the notice projection.
	projected := generic.CompletedYears(in.AdmissionDate, out.ProjectedEndDate) - years
	out.AccruedVacationPeriods = in.PendingVacationPeriods + projected
	out.AccruedVacation = generic.Round(salary.Mul(decimal.NewFromInt(int64(out.AccruedVacationPeriods))))
	out.AccruedVacationTerco = generic.Round(out.AccruedVacation.Div(generic.Three))

	out.TotalEarnings = generic.Sum(
		out.SaldoSalario,
		out.AvisoPrevio,
		out.ThirteenthProportional,
		out.VacationProportional,
		out.VacationProportionalTerco,
		out.AccruedVacation,
		out.AccruedVacationTerco,
	)

	// Taxes
	taxable := out.SaldoSalario.Add(out.AvisoPrevio)
	inss := e.calc.INSSEmployee(taxable)
	irrf := e.calc.IRRF(taxable.Sub(inss.Amount), in.Dependents)
	out.INSSEmployee = inss.Amount
	out.IRRFEmployee = irrf.Amount
	out.IRRFBase = irrf.Base
	out.INSSBrackets = inss.Brackets
	out.IRRFBrackets = irrf.Brackets

	if out.ThirteenthProportional.IsPositive() {
		inss13 := e.calc.INSSEmployee(out.ThirteenthProportional)
		irrf13 := e.calc.IRRF(out.ThirteenthProportional.Sub(inss13.Amount), in.Dependents)
		out.INSSThirteenth = inss13.Amount
		out.IRRFThirteenth = irrf13.Amount
	}

	// Deductions that cannot push the statement below zero
	available := out.TotalEarnings.Sub(generic.Sum(out.INSSEmployee, out.IRRFEmployee, out.INSSThirteenth, out.IRRFThirteenth))
	out.ThirteenthAdvanceDeduction = capAt(generic.Round(in.ThirteenthAdvancePaid), available)
	available = available.Sub(out.ThirteenthAdvanceDeduction)
	if notice == NoticeNotGiven {
		out.AvisoPrevioDeduction = capAt(generic.Round(daily.Mul(decimal.NewFromInt(int64(out.NoticeDays)))), available)
	}

	out.TotalDeductions = generic.Sum(
		out.INSSEmployee,
		out.IRRFEmployee,
		out.INSSThirteenth,
		out.IRRFThirteenth,
		out.ThirteenthAdvanceDeduction,
		out.AvisoPrevioDeduction,
	)
	out.NetAmount = out.TotalEarnings.Sub(out.TotalDeductions)

	// FGTS
	out.FGTSBase = generic.Sum(out.SaldoSalario, out.AvisoPrevio, out.ThirteenthProportional)
	out.FGTSOnTermination = e.calc.FGTSMonthly(out.FGTSBase)
	switch in.TerminationType {
	case TerminationWithoutCause:
		out.FGTSPenaltyRate = table.Rates.FGTSPenalty
	case TerminationMutualAgreement:
		out.FGTSPenaltyRate = table.Rates.FGTSPenaltyHalf
	default:
		out.FGTSPenaltyRate = decimal.Zero
	}
	out.FGTSPenalty = e.calc.FGTSPenalty(in.FGTSBalance, out.FGTSPenaltyRate)
	out.TotalFGTS = out.FGTSOnTermination.Add(out.FGTSPenalty)

	out.TotalToReceive = out.NetAmount.Add(out.FGTSPenalty)
	return out, nil
}

// saldoDays counts the days worked in the termination month on a 30-day
// commercial month: from the 1st (or the admission day, if admitted that
// month) through the termination date. A complete month is 30 days.
func saldoDays(admission, termination generic.TimePoint) int {
	start := generic.StartOfMonth(termination.Year(), termination.Month())
	if admission.After(start) {
		start = admission
	}
	days := generic.Period{Start: start, End: termination}.Days()
	if start.Day() == 1 && termination.Equal(generic.EndOfMonth(termination.Year(), termination.Month())) {
		return 30
	}
	if days > 30 {
		return 30
	}
	return days
}

func avosValue(salary decimal.Decimal, avos int) decimal.Decimal {
	return generic.Round(salary.Div(generic.Twelve).Mul(decimal.NewFromInt(int64(avos))))
}

func capAt(value, limit decimal.Decimal) decimal.Decimal {
	limit = generic.NonNegative(limit)
	if value.GreaterThan(limit) {
		return limit
	}
	return value
}
