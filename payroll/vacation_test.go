package payroll_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/esocial-engine/generic"
	"github.com/warp/esocial-engine/payroll"
)

func TestVacation_WithAbono(t *testing.T) {
	// GIVEN: 20 days enjoyed and 10 sold on a 2000 salary
	engine := newEngine(t)
	in := payroll.VacationInput{
		Salary:      d("2000"),
		DaysEnjoyed: 20,
		DaysSold:    10,
		StartDate:   date("2025-07-01"),
	}

	// WHEN
	got, err := engine.Vacation(in)
	require.NoError(t, err)

	// THEN: only the enjoyed days and their third are taxed
	assertMoney(t, "1333.33", got.VacationPay, "vacation pay")
	assertMoney(t, "444.44", got.TercoConstitucional, "terço")
	assertMoney(t, "666.67", got.AbonoPay, "abono")
	assertMoney(t, "222.22", got.AbonoTerco, "abono terço")
	assertMoney(t, "1777.77", got.TaxableBase, "taxable")
	assertMoney(t, "137.23", got.INSSEmployee, "inss")
	assertMoney(t, "0", got.IRRFEmployee, "irrf")
	assertMoney(t, "2666.66", got.TotalGross, "total gross")
	assertMoney(t, "2529.43", got.NetPayment, "net")

	assert.Equal(t, "2025-07-20", got.EndDate.String())
	assert.Equal(t, "2025-06-29", got.PaymentDeadline.String())
}

func TestVacation_EmployerChargesOnTaxableOnly(t *testing.T) {
	engine := newEngine(t)

	got, err := engine.Vacation(payroll.VacationInput{
		Salary:      d("3000"),
		DaysEnjoyed: 30,
		StartDate:   date("2025-01-06"),
	})
	require.NoError(t, err)

	assertMoney(t, "3000.00", got.VacationPay, "vacation pay")
	assertMoney(t, "1000.00", got.TercoConstitucional, "terço")
	assert.True(t, got.AbonoPay.IsZero())
	assertMoney(t, "320.00", got.FGTSMonthly, "fgts on 4000")
	assert.True(t, got.NetPayment.Equal(got.TotalGross.Sub(got.TotalDeductions)))
}

func TestVacation_Validation(t *testing.T) {
	engine := newEngine(t)
	valid := payroll.VacationInput{Salary: d("2000"), DaysEnjoyed: 20, StartDate: date("2025-07-01")}

	tests := []struct {
		name   string
		mutate func(*payroll.VacationInput)
		field  string
	}{
		{"no days", func(in *payroll.VacationInput) { in.DaysEnjoyed = 0 }, "days_enjoyed"},
		{"sold more than a third", func(in *payroll.VacationInput) { in.DaysSold = 11 }, "days_sold"},
		{"more than 30 days", func(in *payroll.VacationInput) { in.DaysEnjoyed, in.DaysSold = 25, 10 }, "days_enjoyed"},
		{"no start date", func(in *payroll.VacationInput) { in.StartDate = generic.TimePoint{} }, "start_date"},
		{"starts inside the acquisition period", func(in *payroll.VacationInput) {
			in.AcquisitionPeriod = generic.Period{Start: date("2024-08-01"), End: date("2025-07-31")}
		}, "start_date"},
		{"inverted acquisition period", func(in *payroll.VacationInput) {
			in.AcquisitionPeriod = generic.Period{Start: date("2024-08-01"), End: date("2024-01-31")}
		}, "acquisition_period"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)

			_, err := engine.Vacation(in)

			var vErr *generic.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestVacation_Idempotent(t *testing.T) {
	engine := newEngine(t)
	in := payroll.VacationInput{
		Salary:      d("2000"),
		DaysEnjoyed: 20,
		DaysSold:    10,
		Dependents:  2,
		StartDate:   date("2025-07-01"),
	}

	first, err := engine.Vacation(in)
	require.NoError(t, err)
	second, err := engine.Vacation(in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
