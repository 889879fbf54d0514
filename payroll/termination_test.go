package payroll_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/esocial-engine/generic"
	"github.com/warp/esocial-engine/payroll"
)

func baseTermination() payroll.TerminationInput {
	return payroll.TerminationInput{
		AdmissionDate:   date("2020-01-10"),
		TerminationDate: date("2024-03-15"),
		Salary:          d("3000"),
		TerminationType: payroll.TerminationWithoutCause,
		FGTSBalance:     d("10000"),
	}
}

func TestTermination_WithoutCauseIndemnified(t *testing.T) {
	// GIVEN: four completed years, notice defaulted to indemnified
	engine := newEngine(t)

	// WHEN
	got, err := engine.Termination(baseTermination())
	require.NoError(t, err)

	// THEN: 30 + 3x4 = 42 notice days project the end to April 26
	assert.Equal(t, payroll.NoticeIndemnified, got.NoticeType)
	assert.Equal(t, 4, got.YearsWorked)
	assert.Equal(t, 42, got.NoticeDays)
	assert.Equal(t, "2024-04-26", got.ProjectedEndDate.String())
	assert.Equal(t, "Dispensa sem justa causa", got.TerminationTypeLabel)

	// Earnings
	assert.Equal(t, 15, got.SaldoSalarioDays)
	assertMoney(t, "1500.00", got.SaldoSalario, "saldo")
	assertMoney(t, "4200.00", got.AvisoPrevio, "aviso")
	assert.Equal(t, 4, got.ThirteenthAvos)
	assertMoney(t, "1000.00", got.ThirteenthProportional, "13th")
	assert.Equal(t, 4, got.VacationAvos)
	assertMoney(t, "1000.00", got.VacationProportional, "vacation")
	assertMoney(t, "333.33", got.VacationProportionalTerco, "vacation terço")
	assert.Equal(t, 0, got.AccruedVacationPeriods)
	assertMoney(t, "8033.33", got.TotalEarnings, "total earnings")

	// Deductions
	assertMoney(t, "607.60", got.INSSEmployee, "inss")
	assertMoney(t, "491.69", got.IRRFEmployee, "irrf")
	assertMoney(t, "75.00", got.INSSThirteenth, "inss 13th")
	assertMoney(t, "0", got.IRRFThirteenth, "irrf 13th")
	assertMoney(t, "1174.29", got.TotalDeductions, "total deductions")
	assertMoney(t, "6859.04", got.NetAmount, "net")

	// FGTS
	assertMoney(t, "6700.00", got.FGTSBase, "fgts base")
	assertMoney(t, "536.00", got.FGTSOnTermination, "fgts on termination")
	assertMoney(t, "4000.00", got.FGTSPenalty, "penalty")
	assertMoney(t, "4536.00", got.TotalFGTS, "total fgts")
	assertMoney(t, "10859.04", got.TotalToReceive, "total to receive")
}

func TestTermination_WorkedNotice(t *testing.T) {
	engine := newEngine(t)
	in := baseTermination()
	in.NoticeType = payroll.NoticeWorked

	got, err := engine.Termination(in)
	require.NoError(t, err)

	assert.True(t, got.AvisoPrevio.IsZero())
	assert.Equal(t, "2024-03-15", got.ProjectedEndDate.String())
	assert.Equal(t, 3, got.ThirteenthAvos)
	assert.Equal(t, 2, got.VacationAvos)
}

func TestTermination_NoticeCappedAtNinetyDays(t *testing.T) {
	engine := newEngine(t)
	in := baseTermination()
	in.AdmissionDate = date("2000-01-01")

	got, err := engine.Termination(in)
	require.NoError(t, err)

	assert.Equal(t, 24, got.YearsWorked)
	assert.Equal(t, 90, got.NoticeDays)
	assertMoney(t, "9000.00", got.AvisoPrevio, "aviso")
}

func TestTermination_NoticeCompletesAcquisitionPeriod(t *testing.T) {
	// GIVEN: dismissal a few days before the fifth anniversary
	engine := newEngine(t)
	in := baseTermination()
	in.TerminationDate = date("2024-12-31")
	in.PendingVacationPeriods = 1

	// WHEN
	got, err := engine.Termination(in)
	require.NoError(t, err)

	// THEN: the projected end crosses 2025-01-10, adding one accrued period
	assert.Equal(t, 4, got.YearsWorked)
	assert.Equal(t, 2, got.AccruedVacationPeriods)
	assertMoney(t, "6000.00", got.AccruedVacation, "accrued")
	assertMoney(t, "2000.00", got.AccruedVacationTerco, "accrued terço")
	assert.Equal(t, 30, got.SaldoSalarioDays)

	// avos the projection adds in January are not carried into this year's 13th
	assert.Equal(t, 12, got.ThirteenthAvos)
	assert.Equal(t, 1, got.VacationAvos)
}

func TestTermination_ResignationWithoutNotice(t *testing.T) {
	// GIVEN: the employee resigns and does not serve the notice
	engine := newEngine(t)
	in := baseTermination()
	in.TerminationType = payroll.TerminationResignation
	in.NoticeType = payroll.NoticeNotGiven

	// WHEN
	got, err := engine.Termination(in)
	require.NoError(t, err)

	// THEN: 30 days are deducted, capped at what is left, and no penalty
	assert.Equal(t, 30, got.NoticeDays)
	assert.True(t, got.AvisoPrevio.IsZero())
	assertMoney(t, "2916.67", got.TotalEarnings, "total earnings")
	assertMoney(t, "112.50", got.INSSEmployee, "inss")
	assertMoney(t, "56.25", got.INSSThirteenth, "inss 13th")
	assertMoney(t, "2747.92", got.AvisoPrevioDeduction, "notice deduction")
	assertMoney(t, "0", got.NetAmount, "net")
	assert.True(t, got.FGTSPenalty.IsZero())
	assertMoney(t, "0", got.TotalToReceive, "total to receive")
}

func TestTermination_ResignationDefaultsToWorkedNotice(t *testing.T) {
	engine := newEngine(t)
	in := baseTermination()
	in.TerminationType = payroll.TerminationResignation

	got, err := engine.Termination(in)
	require.NoError(t, err)

	assert.Equal(t, payroll.NoticeWorked, got.NoticeType)
	assert.True(t, got.AvisoPrevioDeduction.IsZero())
	assert.True(t, got.FGTSPenaltyRate.IsZero())
}

func TestTermination_WithCause(t *testing.T) {
	engine := newEngine(t)
	in := baseTermination()
	in.TerminationType = payroll.TerminationWithCause
	in.PendingVacationPeriods = 1

	got, err := engine.Termination(in)
	require.NoError(t, err)

	// proportional 13th and vacation are forfeited; accrued vacation is not
	assert.Equal(t, payroll.NoticeNone, got.NoticeType)
	assert.True(t, got.ThirteenthProportional.IsZero())
	assert.True(t, got.VacationProportional.IsZero())
	assertMoney(t, "3000.00", got.AccruedVacation, "accrued")
	assertMoney(t, "1000.00", got.AccruedVacationTerco, "accrued terço")
	assertMoney(t, "5500.00", got.TotalEarnings, "total earnings")
	assertMoney(t, "1387.50", got.SaldoSalario.Sub(got.INSSEmployee), "saldo net of inss")
	assert.True(t, got.FGTSPenalty.IsZero())
}

func TestTermination_MutualAgreement(t *testing.T) {
	engine := newEngine(t)
	in := baseTermination()
	in.TerminationType = payroll.TerminationMutualAgreement

	got, err := engine.Termination(in)
	require.NoError(t, err)

	// half the indemnified notice, 20% penalty
	assert.Equal(t, 42, got.NoticeDays)
	assertMoney(t, "2100.00", got.AvisoPrevio, "aviso")
	assert.Equal(t, "2024-04-26", got.ProjectedEndDate.String())
	assertMoney(t, "0.2", got.FGTSPenaltyRate, "penalty rate")
	assertMoney(t, "2000.00", got.FGTSPenalty, "penalty")
	assertMoney(t, "325.41", got.INSSEmployee, "inss on 3600")
}

func TestTermination_ThirteenthAdvanceDeducted(t *testing.T) {
	engine := newEngine(t)
	in := baseTermination()
	in.ThirteenthAdvancePaid = d("500")

	got, err := engine.Termination(in)
	require.NoError(t, err)

	assertMoney(t, "500.00", got.ThirteenthAdvanceDeduction, "advance")
	assertMoney(t, "6359.04", got.NetAmount, "net")
}

func TestTermination_NetReconciles(t *testing.T) {
	engine := newEngine(t)
	types := []payroll.TerminationType{
		payroll.TerminationWithoutCause,
		payroll.TerminationResignation,
		payroll.TerminationWithCause,
		payroll.TerminationMutualAgreement,
	}

	for _, tt := range types {
		for _, salary := range []string{"1518", "2750.50", "8000", "15000"} {
			in := baseTermination()
			in.TerminationType = tt
			in.Salary = d(salary)
			in.Dependents = 1

			got, err := engine.Termination(in)
			require.NoError(t, err, "%s %s", tt, salary)

			assert.True(t, got.NetAmount.Equal(got.TotalEarnings.Sub(got.TotalDeductions)), "%s %s", tt, salary)
			assert.False(t, got.NetAmount.IsNegative(), "%s %s", tt, salary)
			assert.True(t, got.TotalToReceive.Equal(got.NetAmount.Add(got.FGTSPenalty)), "%s %s", tt, salary)
		}
	}
}

func TestTermination_Idempotent(t *testing.T) {
	engine := newEngine(t)

	first, err := engine.Termination(baseTermination())
	require.NoError(t, err)
	second, err := engine.Termination(baseTermination())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestTermination_Validation(t *testing.T) {
	engine := newEngine(t)

	tests := []struct {
		name   string
		mutate func(*payroll.TerminationInput)
		field  string
	}{
		{"zero salary", func(in *payroll.TerminationInput) { in.Salary = d("0") }, "salary"},
		{"termination before admission", func(in *payroll.TerminationInput) { in.TerminationDate = date("2019-12-31") }, "termination_date"},
		{"missing admission", func(in *payroll.TerminationInput) { in.AdmissionDate = generic.TimePoint{} }, "admission_date"},
		{"negative balance", func(in *payroll.TerminationInput) { in.FGTSBalance = d("-1") }, "fgts_balance"},
		{"too many pending periods", func(in *payroll.TerminationInput) { in.PendingVacationPeriods = 5 }, "pending_vacation_periods"},
		{"unknown type", func(in *payroll.TerminationInput) { in.TerminationType = "retired" }, "termination_type"},
		{"indemnified notice on resignation", func(in *payroll.TerminationInput) {
			in.TerminationType = payroll.TerminationResignation
			in.NoticeType = payroll.NoticeIndemnified
		}, "notice_type"},
		{"notice on dismissal with cause", func(in *payroll.TerminationInput) {
			in.TerminationType = payroll.TerminationWithCause
			in.NoticeType = payroll.NoticeWorked
		}, "notice_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseTermination()
			tt.mutate(&in)

			_, err := engine.Termination(in)

			require.ErrorIs(t, err, generic.ErrInvalidInput)
			var vErr *generic.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}
