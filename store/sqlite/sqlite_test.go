package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/esocial-engine/generic"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func maria() Employee {
	return Employee{
		ID:            "emp-001",
		Name:          "Maria da Silva",
		CPF:           "123.456.789-09",
		AdmissionDate: generic.NewTimePoint(2024, time.March, 1),
		Salary:        decimal.RequireFromString("1518.00"),
	}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func TestEmployees_CRUD(t *testing.T) {
	// GIVEN: an empty store
	store := newStore(t)
	ctx := context.Background()

	// WHEN: an employee is saved without an ID
	emp := maria()
	emp.ID = ""
	id, err := store.SaveEmployee(ctx, emp)
	require.NoError(t, err)

	// THEN: a UUID is assigned and the row reads back intact
	assert.Len(t, id, 36)
	got, err := store.GetEmployee(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Maria da Silva", got.Name)
	assert.Equal(t, "2024-03-01", got.AdmissionDate.String())
	assert.True(t, decimal.RequireFromString("1518").Equal(got.Salary))
	assert.False(t, got.CreatedAt.IsZero())

	// WHEN: updated
	emp.ID = id
	emp.Salary = decimal.RequireFromString("1600.50")
	emp.Dependents = 1
	_, err = store.SaveEmployee(ctx, emp)
	require.NoError(t, err)

	got, err = store.GetEmployee(ctx, id)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1600.50").Equal(got.Salary))
	assert.Equal(t, 1, got.Dependents)

	all, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	// WHEN: deleted
	require.NoError(t, store.DeleteEmployee(ctx, id))
	_, err = store.GetEmployee(ctx, id)
	assert.ErrorIs(t, err, generic.ErrNotFound)
	assert.ErrorIs(t, store.DeleteEmployee(ctx, id), generic.ErrNotFound)
}

func TestSaveEmployee_Validation(t *testing.T) {
	store := newStore(t)

	emp := maria()
	emp.Salary = decimal.Zero
	_, err := store.SaveEmployee(context.Background(), emp)

	assert.ErrorIs(t, err, generic.ErrInvalidInput)
}

// =============================================================================
// RECORDS
// =============================================================================

func payrollRecord(reference, fgts string) Record {
	return Record{
		EmployeeID:      "emp-001",
		Kind:            KindPayroll,
		Reference:       reference,
		TotalEarnings:   decimal.RequireFromString("1518.00"),
		TotalDeductions: decimal.RequireFromString("113.85"),
		NetAmount:       decimal.RequireFromString("1404.15"),
		DAETotal:        decimal.RequireFromString("417.45"),
		FGTSDeposit:     decimal.RequireFromString(fgts),
	}
}

func TestSaveRecord_UpsertKeepsID(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	_, err := store.SaveEmployee(ctx, maria())
	require.NoError(t, err)

	// GIVEN: a saved payroll for June
	first, err := store.SaveRecord(ctx, payrollRecord("2025-06", "121.44"))
	require.NoError(t, err)

	// WHEN: June is recalculated and saved again
	again := payrollRecord("2025-06", "130.00")
	again.NetAmount = decimal.RequireFromString("1500.00")
	second, err := store.SaveRecord(ctx, again)
	require.NoError(t, err)

	// THEN: one row, original ID, new values
	assert.Equal(t, first, second)
	got, err := store.GetRecord(ctx, first)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1500").Equal(got.NetAmount))
	assert.Equal(t, "{}", got.PayloadJSON)

	records, err := store.ListRecords(ctx, "emp-001", KindPayroll)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestSaveRecord_UnknownEmployee(t *testing.T) {
	store := newStore(t)

	_, err := store.SaveRecord(context.Background(), payrollRecord("2025-06", "121.44"))

	assert.ErrorIs(t, err, generic.ErrNotFound)
}

func TestSaveRecord_RequiresReference(t *testing.T) {
	store := newStore(t)

	_, err := store.SaveRecord(context.Background(), payrollRecord("", "0"))

	assert.ErrorIs(t, err, generic.ErrInvalidInput)
}

func TestListRecords_NewestFirstAndFiltered(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	_, err := store.SaveEmployee(ctx, maria())
	require.NoError(t, err)

	for _, ref := range []string{"2025-01", "2025-03", "2025-02"} {
		_, err := store.SaveRecord(ctx, payrollRecord(ref, "121.44"))
		require.NoError(t, err)
	}
	thirteenth := payrollRecord("2025", "240.00")
	thirteenth.Kind = KindThirteenth
	_, err = store.SaveRecord(ctx, thirteenth)
	require.NoError(t, err)

	payrolls, err := store.ListRecords(ctx, "emp-001", KindPayroll)
	require.NoError(t, err)
	require.Len(t, payrolls, 3)
	assert.Equal(t, "2025-03", payrolls[0].Reference)
	assert.Equal(t, "2025-01", payrolls[2].Reference)

	all, err := store.ListRecords(ctx, "emp-001", "")
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestFGTSBalance(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	_, err := store.SaveEmployee(ctx, maria())
	require.NoError(t, err)

	// GIVEN: three deposits and a termination record
	for _, ref := range []string{"2025-01", "2025-02", "2025-03"} {
		_, err := store.SaveRecord(ctx, payrollRecord(ref, "121.44"))
		require.NoError(t, err)
	}
	termination := payrollRecord("2025-03-31", "999.99")
	termination.Kind = KindTermination
	_, err = store.SaveRecord(ctx, termination)
	require.NoError(t, err)

	// WHEN
	balance, err := store.FGTSBalance(ctx, "emp-001")
	require.NoError(t, err)

	// THEN: the termination's own deposit is not part of the balance
	assert.True(t, decimal.RequireFromString("364.32").Equal(balance), "got %s", balance)

	empty, err := store.FGTSBalance(ctx, "nobody")
	require.NoError(t, err)
	assert.True(t, empty.IsZero())
}

func TestRecords_CorruptAmountIsAnError(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	_, err := store.SaveEmployee(ctx, maria())
	require.NoError(t, err)
	id, err := store.SaveRecord(ctx, payrollRecord("2025-06", "121.44"))
	require.NoError(t, err)

	// GIVEN: a net amount that no longer parses
	_, err = store.db.ExecContext(ctx, "UPDATE records SET net_amount = 'n/a' WHERE id = ?", id)
	require.NoError(t, err)

	// THEN: reads fail instead of returning zero
	_, err = store.GetRecord(ctx, id)
	assert.ErrorContains(t, err, "net_amount")
	_, err = store.ListRecords(ctx, "emp-001", KindPayroll)
	assert.Error(t, err)
}

func TestDeleteEmployee_CascadesRecords(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	_, err := store.SaveEmployee(ctx, maria())
	require.NoError(t, err)
	id, err := store.SaveRecord(ctx, payrollRecord("2025-06", "121.44"))
	require.NoError(t, err)

	require.NoError(t, store.DeleteEmployee(ctx, "emp-001"))

	_, err = store.GetRecord(ctx, id)
	assert.ErrorIs(t, err, generic.ErrNotFound)
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func TestHolidays(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	// GIVEN: a recurring municipal holiday and a one-off closure
	recurring, err := store.SaveHoliday(ctx, generic.Holiday{
		Date:      generic.NewTimePoint(2025, time.January, 25),
		Name:      "Aniversário de São Paulo",
		Recurring: true,
	})
	require.NoError(t, err)
	_, err = store.SaveHoliday(ctx, generic.Holiday{
		Date: generic.NewTimePoint(2025, time.June, 9),
		Name: "Ponto facultativo",
	})
	require.NoError(t, err)

	// THEN
	assert.True(t, store.IsHoliday(generic.NewTimePoint(2025, time.January, 25)))
	assert.True(t, store.IsHoliday(generic.NewTimePoint(2031, time.January, 25)))
	assert.True(t, store.IsHoliday(generic.NewTimePoint(2025, time.June, 9)))
	assert.False(t, store.IsHoliday(generic.NewTimePoint(2026, time.June, 9)))

	all, err := store.GetAllHolidays(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "2025-01-25", all[0].Date.String())
	assert.True(t, all[0].Recurring)

	// saving the same holiday again keeps its ID
	again, err := store.SaveHoliday(ctx, generic.Holiday{
		Date: generic.NewTimePoint(2025, time.January, 25),
		Name: "Aniversário de São Paulo",
	})
	require.NoError(t, err)
	assert.Equal(t, recurring, again)

	require.NoError(t, store.DeleteHoliday(ctx, recurring))
	assert.False(t, store.IsHoliday(generic.NewTimePoint(2025, time.January, 25)))
	assert.ErrorIs(t, store.DeleteHoliday(ctx, recurring), generic.ErrNotFound)
}

func TestReset(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	_, err := store.SaveEmployee(ctx, maria())
	require.NoError(t, err)

	require.NoError(t, store.Reset(ctx))

	all, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	require.NoError(t, store.Ping(ctx))
}
