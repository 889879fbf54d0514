/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's breakdowns from the external contract:
  - money leaves the engine as decimal.Decimal and is published as a JSON
    number with two decimal places
  - dates are ISO calendar dates (YYYY-MM-DD) without time

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Calculations:
    PayrollRequest / PayrollDTO
    ThirteenthRequest / ThirteenthDTO
    VacationRequest / VacationDTO
    TerminationRequest / TerminationDTO

  Deadlines:
    DeadlineDTO

  Persistence:
    EmployeeDTO, CreateEmployeeRequest, RecordDTO, HolidayDTO

VALIDATION:
  Handlers only check formats (dates, unknown enums). Range checks live in
  the engines, which return generic.ValidationError.

SEE ALSO:
  - handlers.go: Uses these types
  - payroll/: Breakdown types converted here
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/esocial-engine/deadlines"
	"github.com/warp/esocial-engine/generic"
	"github.com/warp/esocial-engine/payroll"
	"github.com/warp/esocial-engine/store/sqlite"
	"github.com/warp/esocial-engine/tax"
)

// =============================================================================
// CALCULATION REQUESTS
// =============================================================================

// PayrollRequest is the body of POST /api/calc/payroll. For stored employees
// GrossSalary and Dependents default to the employee record.
type PayrollRequest struct {
	GrossSalary     float64 `json:"gross_salary"`
	Dependents      *int    `json:"dependents,omitempty"`
	OvertimeHours   float64 `json:"overtime_hours"`
	AbsenceDays     int     `json:"absence_days"`
	DSRAbsenceDays  int     `json:"dsr_absence_days"`
	OtherEarnings   float64 `json:"other_earnings"`
	OtherDeductions float64 `json:"other_deductions"`
}

// ThirteenthRequest is the body of POST /api/calc/thirteenth. When
// months_worked is omitted it is counted from admission_date for year.
type ThirteenthRequest struct {
	MonthlySalary float64 `json:"monthly_salary"`
	MonthsWorked  int     `json:"months_worked"`
	Dependents    int     `json:"dependents"`
	AdmissionDate string  `json:"admission_date,omitempty"`
	Year          int     `json:"year,omitempty"`
}

// VacationRequest is the body of POST /api/calc/vacation. For stored
// employees Salary and Dependents default to the employee record.
type VacationRequest struct {
	Salary           float64 `json:"salary"`
	DaysEnjoyed      int     `json:"days_enjoyed"`
	DaysSold         int     `json:"days_sold"`
	Dependents       *int    `json:"dependents,omitempty"`
	StartDate        string  `json:"start_date"`
	AcquisitionStart string  `json:"acquisition_start,omitempty"`
	AcquisitionEnd   string  `json:"acquisition_end,omitempty"`
}

// TerminationRequest is the body of POST /api/calc/termination. For stored
// employees Salary and Dependents default to the employee record.
type TerminationRequest struct {
	AdmissionDate          string   `json:"admission_date"`
	TerminationDate        string   `json:"termination_date"`
	Salary                 float64  `json:"salary"`
	TerminationType        string   `json:"termination_type"`
	NoticeType             string   `json:"notice_type,omitempty"`
	Dependents             *int     `json:"dependents,omitempty"`
	FGTSBalance            *float64 `json:"fgts_balance,omitempty"`
	PendingVacationPeriods int      `json:"pending_vacation_periods"`
	ThirteenthAdvancePaid  float64  `json:"thirteenth_advance_paid"`
}

// =============================================================================
// CALCULATION RESPONSES
// =============================================================================

// BracketAmountDTO is one row of a bracket breakdown.
type BracketAmountDTO struct {
	Label   string  `json:"label"`
	Rate    float64 `json:"rate"`
	Taxable float64 `json:"taxable"`
	Amount  float64 `json:"amount"`
}

// BracketResultDTO is a bracket breakdown.
type BracketResultDTO struct {
	Base          float64            `json:"base"`
	TotalTax      float64            `json:"total_tax"`
	EffectiveRate float64            `json:"effective_rate"`
	PerBracket    []BracketAmountDTO `json:"per_bracket"`
}

// EmployerChargesDTO groups the DAE composition.
type EmployerChargesDTO struct {
	INSSEmployer     float64 `json:"inss_employer"`
	GILRAT           float64 `json:"gilrat"`
	FGTSMonthly      float64 `json:"fgts_monthly"`
	FGTSAnticipation float64 `json:"fgts_anticipation"`
	DAETotal         float64 `json:"dae_total"`
}

// PayrollDTO is the monthly payslip.
type PayrollDTO struct {
	GrossSalary   float64 `json:"gross_salary"`
	OvertimePay   float64 `json:"overtime_pay"`
	OtherEarnings float64 `json:"other_earnings"`
	TotalEarnings float64 `json:"total_earnings"`

	INSSEmployee     float64 `json:"inss_employee"`
	IRRFEmployee     float64 `json:"irrf_employee"`
	AbsenceDeduction float64 `json:"absence_deduction"`
	DSRDeduction     float64 `json:"dsr_deduction"`
	OtherDeductions  float64 `json:"other_deductions"`
	TotalDeductions  float64 `json:"total_deductions"`

	NetSalary float64 `json:"net_salary"`

	EmployerChargesDTO

	Dependents   int              `json:"dependents"`
	IRRFBase     float64          `json:"irrf_base"`
	INSSBrackets BracketResultDTO `json:"inss_brackets"`
	IRRFBrackets BracketResultDTO `json:"irrf_brackets"`
}

// ThirteenthDTO is the 13th salary statement.
type ThirteenthDTO struct {
	MonthlySalary          float64 `json:"monthly_salary"`
	MonthsWorked           int     `json:"months_worked"`
	ProportionalBase       float64 `json:"proportional_base"`
	FirstInstallment       float64 `json:"first_installment"`
	SecondInstallmentGross float64 `json:"second_installment_gross"`
	INSSEmployee           float64 `json:"inss_employee"`
	IRRFEmployee           float64 `json:"irrf_employee"`
	SecondInstallmentNet   float64 `json:"second_installment_net"`
	TotalEmployeePay       float64 `json:"total_employee_pay"`
	TotalEarnings          float64 `json:"total_earnings"`
	TotalDeductions        float64 `json:"total_deductions"`
	NetAmount              float64 `json:"net_amount"`

	EmployerChargesDTO
}

// VacationDTO is the vacation receipt.
type VacationDTO struct {
	DaysEnjoyed         int     `json:"days_enjoyed"`
	DaysSold            int     `json:"days_sold"`
	StartDate           string  `json:"start_date"`
	EndDate             string  `json:"end_date"`
	PaymentDeadline     string  `json:"payment_deadline"`
	AcquisitionStart    string  `json:"acquisition_start,omitempty"`
	AcquisitionEnd      string  `json:"acquisition_end,omitempty"`
	VacationPay         float64 `json:"vacation_pay"`
	TercoConstitucional float64 `json:"terco_constitucional"`
	AbonoPay            float64 `json:"abono_pay"`
	AbonoTerco          float64 `json:"abono_terco"`
	TotalGross          float64 `json:"total_gross"`
	TaxableBase         float64 `json:"taxable_base"`
	INSSEmployee        float64 `json:"inss_employee"`
	IRRFEmployee        float64 `json:"irrf_employee"`
	TotalDeductions     float64 `json:"total_deductions"`
	NetPayment          float64 `json:"net_payment"`

	EmployerChargesDTO
}

// TerminationDTO is the rescission statement.
type TerminationDTO struct {
	TerminationType      string `json:"termination_type"`
	TerminationTypeLabel string `json:"termination_type_label"`
	NoticeType           string `json:"notice_type"`
	AdmissionDate        string `json:"admission_date"`
	TerminationDate      string `json:"termination_date"`
	ProjectedEndDate     string `json:"projected_end_date"`
	YearsWorked          int    `json:"years_worked"`
	NoticeDays           int    `json:"notice_days"`

	SaldoSalarioDays          int     `json:"saldo_salario_days"`
	SaldoSalario              float64 `json:"saldo_salario"`
	AvisoPrevio               float64 `json:"aviso_previo"`
	ThirteenthAvos            int     `json:"thirteenth_avos"`
	ThirteenthProportional    float64 `json:"thirteenth_proportional"`
	VacationAvos              int     `json:"vacation_avos"`
	VacationProportional      float64 `json:"vacation_proportional"`
	VacationProportionalTerco float64 `json:"vacation_proportional_terco"`
	AccruedVacationPeriods    int     `json:"accrued_vacation_periods"`
	AccruedVacation           float64 `json:"accrued_vacation"`
	AccruedVacationTerco      float64 `json:"accrued_vacation_terco"`
	TotalEarnings             float64 `json:"total_earnings"`

	INSSEmployee               float64 `json:"inss_employee"`
	IRRFEmployee               float64 `json:"irrf_employee"`
	INSSThirteenth             float64 `json:"inss_thirteenth"`
	IRRFThirteenth             float64 `json:"irrf_thirteenth"`
	ThirteenthAdvanceDeduction float64 `json:"thirteenth_advance_deduction"`
	AvisoPrevioDeduction       float64 `json:"aviso_previo_deduction"`
	TotalDeductions            float64 `json:"total_deductions"`

	NetAmount float64 `json:"net_amount"`

	FGTSOnTermination float64 `json:"fgts_on_termination"`
	FGTSBalance       float64 `json:"fgts_balance"`
	FGTSPenalty       float64 `json:"fgts_penalty"`
	TotalFGTS         float64 `json:"total_fgts"`
	TotalToReceive    float64 `json:"total_to_receive"`
}

// DeadlineDTO is one statutory due date.
type DeadlineDTO struct {
	Type        string `json:"type"`
	Label       string `json:"label"`
	Description string `json:"description"`
	NominalDate string `json:"nominal_date"`
	Date        string `json:"date"`
	Status      string `json:"status"`
}

// =============================================================================
// PERSISTENCE TYPES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	CPF           string  `json:"cpf,omitempty"`
	AdmissionDate string  `json:"admission_date"`
	Salary        float64 `json:"salary"`
	Dependents    int     `json:"dependents"`
	CreatedAt     string  `json:"created_at,omitempty"`
}

// CreateEmployeeRequest is the request to create an employee.
type CreateEmployeeRequest struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	CPF           string  `json:"cpf"`
	AdmissionDate string  `json:"admission_date"`
	Salary        float64 `json:"salary"`
	Dependents    int     `json:"dependents"`
}

// RecordDTO is a saved breakdown summary.
type RecordDTO struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	Kind            string  `json:"kind"`
	Reference       string  `json:"reference"`
	TotalEarnings   float64 `json:"total_earnings"`
	TotalDeductions float64 `json:"total_deductions"`
	NetAmount       float64 `json:"net_amount"`
	DAETotal        float64 `json:"dae_total"`
	FGTSDeposit     float64 `json:"fgts_deposit"`
	CreatedAt       string  `json:"created_at,omitempty"`
}

// HolidayDTO is a stored holiday.
type HolidayDTO struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func money(d decimal.Decimal) float64 {
	f, _ := d.Round(generic.MoneyPlaces).Float64()
	return f
}

func rate(d decimal.Decimal) float64 {
	f, _ := d.Round(6).Float64()
	return f
}

func toDecimal(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func dateString(tp generic.TimePoint) string {
	if tp.IsZero() {
		return ""
	}
	return tp.String()
}

func toBracketResultDTO(r tax.BracketResult) BracketResultDTO {
	dto := BracketResultDTO{
		Base:          money(r.Base),
		TotalTax:      money(r.TotalTax),
		EffectiveRate: rate(r.EffectiveRate),
		PerBracket:    make([]BracketAmountDTO, 0, len(r.PerBracket)),
	}
	for _, b := range r.PerBracket {
		dto.PerBracket = append(dto.PerBracket, BracketAmountDTO{
			Label:   b.Label,
			Rate:    rate(b.Rate),
			Taxable: money(b.Taxable),
			Amount:  money(b.Amount),
		})
	}
	return dto
}

func toPayrollDTO(b payroll.PayrollBreakdown) PayrollDTO {
	return PayrollDTO{
		GrossSalary:      money(b.GrossSalary),
		OvertimePay:      money(b.OvertimePay),
		OtherEarnings:    money(b.OtherEarnings),
		TotalEarnings:    money(b.TotalEarnings),
		INSSEmployee:     money(b.INSSEmployee),
		IRRFEmployee:     money(b.IRRFEmployee),
		AbsenceDeduction: money(b.AbsenceDeduction),
		DSRDeduction:     money(b.DSRDeduction),
		OtherDeductions:  money(b.OtherDeductions),
		TotalDeductions:  money(b.TotalDeductions),
		NetSalary:        money(b.NetSalary),
		EmployerChargesDTO: EmployerChargesDTO{
			INSSEmployer:     money(b.INSSEmployer),
			GILRAT:           money(b.GILRAT),
			FGTSMonthly:      money(b.FGTSMonthly),
			FGTSAnticipation: money(b.FGTSAnticipation),
			DAETotal:         money(b.DAETotal),
		},
		Dependents:   b.Dependents,
		IRRFBase:     money(b.IRRFBase),
		INSSBrackets: toBracketResultDTO(b.INSSBrackets),
		IRRFBrackets: toBracketResultDTO(b.IRRFBrackets),
	}
}

func toThirteenthDTO(b payroll.ThirteenthBreakdown) ThirteenthDTO {
	return ThirteenthDTO{
		MonthlySalary:          money(b.MonthlySalary),
		MonthsWorked:           b.MonthsWorked,
		ProportionalBase:       money(b.ProportionalBase),
		FirstInstallment:       money(b.FirstInstallment),
		SecondInstallmentGross: money(b.SecondInstallmentGross),
		INSSEmployee:           money(b.INSSEmployee),
		IRRFEmployee:           money(b.IRRFEmployee),
		SecondInstallmentNet:   money(b.SecondInstallmentNet),
		TotalEmployeePay:       money(b.TotalEmployeePay),
		TotalEarnings:          money(b.TotalEarnings),
		TotalDeductions:        money(b.TotalDeductions),
		NetAmount:              money(b.NetAmount),
		EmployerChargesDTO: EmployerChargesDTO{
			INSSEmployer:     money(b.INSSEmployer),
			GILRAT:           money(b.GILRAT),
			FGTSMonthly:      money(b.FGTSMonthly),
			FGTSAnticipation: money(b.FGTSAnticipation),
			DAETotal:         money(b.DAETotal),
		},
	}
}

func toVacationDTO(b payroll.VacationBreakdown) VacationDTO {
	return VacationDTO{
		DaysEnjoyed:         b.DaysEnjoyed,
		DaysSold:            b.DaysSold,
		StartDate:           dateString(b.StartDate),
		EndDate:             dateString(b.EndDate),
		PaymentDeadline:     dateString(b.PaymentDeadline),
		AcquisitionStart:    dateString(b.AcquisitionPeriod.Start),
		AcquisitionEnd:      dateString(b.AcquisitionPeriod.End),
		VacationPay:         money(b.VacationPay),
		TercoConstitucional: money(b.TercoConstitucional),
		AbonoPay:            money(b.AbonoPay),
		AbonoTerco:          money(b.AbonoTerco),
		TotalGross:          money(b.TotalGross),
		TaxableBase:         money(b.TaxableBase),
		INSSEmployee:        money(b.INSSEmployee),
		IRRFEmployee:        money(b.IRRFEmployee),
		TotalDeductions:     money(b.TotalDeductions),
		NetPayment:          money(b.NetPayment),
		EmployerChargesDTO: EmployerChargesDTO{
			INSSEmployer:     money(b.INSSEmployer),
			GILRAT:           money(b.GILRAT),
			FGTSMonthly:      money(b.FGTSMonthly),
			FGTSAnticipation: money(b.FGTSAnticipation),
			DAETotal:         money(b.DAETotal),
		},
	}
}

func toTerminationDTO(b payroll.TerminationBreakdown) TerminationDTO {
	return TerminationDTO{
		TerminationType:            string(b.TerminationType),
		TerminationTypeLabel:       b.TerminationTypeLabel,
		NoticeType:                 string(b.NoticeType),
		AdmissionDate:              dateString(b.AdmissionDate),
		TerminationDate:            dateString(b.TerminationDate),
		ProjectedEndDate:           dateString(b.ProjectedEndDate),
		YearsWorked:                b.YearsWorked,
		NoticeDays:                 b.NoticeDays,
		SaldoSalarioDays:           b.SaldoSalarioDays,
		SaldoSalario:               money(b.SaldoSalario),
		AvisoPrevio:                money(b.AvisoPrevio),
		ThirteenthAvos:             b.ThirteenthAvos,
		ThirteenthProportional:     money(b.ThirteenthProportional),
		VacationAvos:               b.VacationAvos,
		VacationProportional:       money(b.VacationProportional),
		VacationProportionalTerco:  money(b.VacationProportionalTerco),
		AccruedVacationPeriods:     b.AccruedVacationPeriods,
		AccruedVacation:            money(b.AccruedVacation),
		AccruedVacationTerco:       money(b.AccruedVacationTerco),
		TotalEarnings:              money(b.TotalEarnings),
		INSSEmployee:               money(b.INSSEmployee),
		IRRFEmployee:               money(b.IRRFEmployee),
		INSSThirteenth:             money(b.INSSThirteenth),
		IRRFThirteenth:             money(b.IRRFThirteenth),
		ThirteenthAdvanceDeduction: money(b.ThirteenthAdvanceDeduction),
		AvisoPrevioDeduction:       money(b.AvisoPrevioDeduction),
		TotalDeductions:            money(b.TotalDeductions),
		NetAmount:                  money(b.NetAmount),
		FGTSOnTermination:          money(b.FGTSOnTermination),
		FGTSBalance:                money(b.FGTSBalance),
		FGTSPenalty:                money(b.FGTSPenalty),
		TotalFGTS:                  money(b.TotalFGTS),
		TotalToReceive:             money(b.TotalToReceive),
	}
}

func toDeadlineDTOs(items []deadlines.Instance) []DeadlineDTO {
	dtos := make([]DeadlineDTO, 0, len(items))
	for _, d := range items {
		dtos = append(dtos, DeadlineDTO{
			Type:        string(d.Type),
			Label:       d.Label,
			Description: d.Description,
			NominalDate: d.NominalDate.String(),
			Date:        d.Date.String(),
			Status:      string(d.Status),
		})
	}
	return dtos
}

func toEmployeeDTO(e sqlite.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:            e.ID,
		Name:          e.Name,
		CPF:           e.CPF,
		AdmissionDate: e.AdmissionDate.String(),
		Salary:        money(e.Salary),
		Dependents:    e.Dependents,
	}
	if !e.CreatedAt.IsZero() {
		dto.CreatedAt = e.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

func toRecordDTO(r sqlite.Record) RecordDTO {
	dto := RecordDTO{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		Kind:            string(r.Kind),
		Reference:       r.Reference,
		TotalEarnings:   money(r.TotalEarnings),
		TotalDeductions: money(r.TotalDeductions),
		NetAmount:       money(r.NetAmount),
		DAETotal:        money(r.DAETotal),
		FGTSDeposit:     money(r.FGTSDeposit),
	}
	if !r.CreatedAt.IsZero() {
		dto.CreatedAt = r.CreatedAt.Format(time.RFC3339)
	}
	return dto
}
