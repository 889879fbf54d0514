package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/esocial-engine/generic"
	"github.com/warp/esocial-engine/tax"
)

// PaymentLeadDays is how many calendar days before the vacation starts the
// payment is due.
const PaymentLeadDays = 2

// VacationInput describes one vacation grant.
type VacationInput struct {
	Salary            decimal.Decimal
	DaysEnjoyed       int
	DaysSold          int // abono pecuniário, up to MaxSoldDays
	Dependents        int
	StartDate         generic.TimePoint
	AcquisitionPeriod generic.Period // optional
}

// VacationBreakdown is the vacation receipt.
type VacationBreakdown struct {
	DaysEnjoyed int
	DaysSold    int
	StartDate   generic.TimePoint
	EndDate     generic.TimePoint

	VacationPay         decimal.Decimal
	TercoConstitucional decimal.Decimal
	AbonoPay            decimal.Decimal // exempt
	AbonoTerco          decimal.Decimal // exempt
	TotalGross          decimal.Decimal
	TaxableBase         decimal.Decimal

	INSSEmployee    decimal.Decimal
	IRRFEmployee    decimal.Decimal
	IRRFBase        decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPayment      decimal.Decimal

	// PaymentDeadline is StartDate minus two calendar days, unadjusted.
	PaymentDeadline   generic.TimePoint
	AcquisitionPeriod generic.Period

	INSSEmployer     decimal.Decimal
	GILRAT           decimal.Decimal
	FGTSMonthly      decimal.Decimal
	FGTSAnticipation decimal.Decimal
	DAETotal         decimal.Decimal

	INSSBrackets tax.BracketResult
	IRRFBrackets tax.BracketResult
}

func (in VacationInput) validate() error {
	if !in.Salary.IsPositive() {
		return generic.Invalid("salary", "must be positive, got %s", in.Salary)
	}
	if in.DaysEnjoyed < 1 {
		return generic.Invalid("days_enjoyed", "must be at least 1, got %d", in.DaysEnjoyed)
	}
	if in.DaysSold < 0 || in.DaysSold > MaxSoldDays {
		return generic.Invalid("days_sold", "must be between 0 and %d, got %d", MaxSoldDays, in.DaysSold)
	}
	if in.DaysEnjoyed+in.DaysSold > MaxVacationDays {
		return generic.Invalid("days_enjoyed", "days enjoyed plus days sold exceed %d (%d)", MaxVacationDays, in.DaysEnjoyed+in.DaysSold)
	}
	if in.Dependents < 0 {
		return generic.Invalid("dependents", "must not be negative, got %d", in.Dependents)
	}
	if in.StartDate.IsZero() {
		return generic.Invalid("start_date", "is required")
	}
	if !in.AcquisitionPeriod.Start.IsZero() {
		if err := in.AcquisitionPeriod.Validate(); err != nil {
			return generic.Invalid("acquisition_period", "%v", err)
		}
		if !in.StartDate.After(in.AcquisitionPeriod.End) {
			return generic.Invalid("start_date", "vacation must start after the acquisition period ends (%s)", in.AcquisitionPeriod.End)
		}
	}
	return nil
}

// Vacation computes vacation pay. Only VacationPay and its third are subject
// to INSS, IRRF and employer charges; the abono and its third are exempt.
func (e *Engine) Vacation(in VacationInput) (VacationBreakdown, error) {
	if err := in.validate(); err != nil {
		return VacationBreakdown{}, err
	}

	daily := generic.Daily(in.Salary)
	pay := generic.Round(daily.Mul(decimal.NewFromInt(int64(in.DaysEnjoyed))))
	terco := generic.Round(pay.Div(generic.Three))

	abono, abonoTerco := decimal.Zero, decimal.Zero
	if in.DaysSold > 0 {
		abono = generic.Round(daily.Mul(decimal.NewFromInt(int64(in.DaysSold))))
		abonoTerco = generic.Round(abono.Div(generic.Three))
	}

	taxable := pay.Add(terco)
	totalGross := generic.Sum(taxable, abono, abonoTerco)

	inss := e.calc.INSSEmployee(taxable)
	irrf := e.calc.IRRF(taxable.Sub(inss.Amount), in.Dependents)
	deductions := inss.Amount.Add(irrf.Amount)

	employer := e.calc.Employer(taxable)

	return VacationBreakdown{
		DaysEnjoyed:         in.DaysEnjoyed,
		DaysSold:            in.DaysSold,
		StartDate:           in.StartDate,
		EndDate:             in.StartDate.AddDays(in.DaysEnjoyed - 1),
		VacationPay:         pay,
		TercoConstitucional: terco,
		AbonoPay:            abono,
		AbonoTerco:          abonoTerco,
		TotalGross:          totalGross,
		TaxableBase:         taxable,
		INSSEmployee:        inss.Amount,
		IRRFEmployee:        irrf.Amount,
		IRRFBase:            irrf.Base,
		TotalDeductions:     deductions,
		NetPayment:          totalGross.Sub(deductions),
		PaymentDeadline:     in.StartDate.AddDays(-PaymentLeadDays),
		AcquisitionPeriod:   in.AcquisitionPeriod,
		INSSEmployer:        employer.INSSEmployer,
		GILRAT:              employer.GILRAT,
		FGTSMonthly:         employer.FGTSMonthly,
		FGTSAnticipation:    employer.FGTSAnticipation,
		DAETotal:            employer.DAE(inss.Amount),
		INSSBrackets:        inss.Brackets,
		IRRFBrackets:        irrf.Brackets,
	}, nil
}
