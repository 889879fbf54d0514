/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for demos. Each scenario creates employees, runs the engine for a
	range of months and saves the resulting records, so the FGTS deposit
	history and the records list are populated the same way real use would.

AVAILABLE SCENARIOS:

	minimum-wage:  One employee on the 2025 minimum wage, six saved payslips
	long-tenure:   Twenty-plus years of service, a year of deposits, ready
	               for a termination with the 90-day notice cap
	local-holidays: Municipal holidays that move the DAE due date

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create employees
 3. Compute and save monthly payroll records
 4. Optionally add holidays

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "long-tenure"}

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: saveRecord
  - store/sqlite: FGTSBalance
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/esocial-engine/generic"
	"github.com/warp/esocial-engine/payroll"
	"github.com/warp/esocial-engine/store/sqlite"
)

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "minimum-wage",
		Name:        "Minimum Wage",
		Description: "Employee on R$ 1.518,00 with payslips saved for January to June 2025",
	},
	{
		ID:          "long-tenure",
		Name:        "Long Tenure",
		Description: "Employee admitted in 2003 with two dependents and a year of FGTS deposits",
	},
	{
		ID:          "local-holidays",
		Name:        "Local Holidays",
		Description: "Municipal holidays that push deadlines to the next business day",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if !decode(w, r, &req) {
		return
	}

	var load func(context.Context) error
	switch req.ScenarioID {
	case "minimum-wage":
		load = h.loadMinimumWageScenario
	case "long-tenure":
		load = h.loadLongTenureScenario
	case "local-holidays":
		load = h.loadLocalHolidaysScenario
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", fmt.Errorf("scenario %q", req.ScenarioID))
		return
	}

	ctx := r.Context()
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	if err := load(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}
	h.currentScenario = req.ScenarioID
	h.Logger.Info("scenario loaded", "scenario", req.ScenarioID)

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadMinimumWageScenario(ctx context.Context) error {
	emp := sqlite.Employee{
		ID:            "emp-001",
		Name:          "Maria da Silva",
		AdmissionDate: generic.NewTimePoint(2024, time.March, 1),
		Salary:        decimal.RequireFromString("1518.00"),
	}
	if _, err := h.Store.SaveEmployee(ctx, emp); err != nil {
		return err
	}
	return h.seedPayrolls(ctx, emp, 2025, time.January, time.June)
}

func (h *Handler) loadLongTenureScenario(ctx context.Context) error {
	emp := sqlite.Employee{
		ID:            "emp-002",
		Name:          "José Pereira",
		AdmissionDate: generic.NewTimePoint(2003, time.May, 5),
		Salary:        decimal.RequireFromString("3500.00"),
		Dependents:    2,
	}
	if _, err := h.Store.SaveEmployee(ctx, emp); err != nil {
		return err
	}
	return h.seedPayrolls(ctx, emp, 2024, time.January, time.December)
}

func (h *Handler) loadLocalHolidaysScenario(ctx context.Context) error {
	holidays := []generic.Holiday{
		{Date: generic.NewTimePoint(2025, time.January, 25), Name: "Aniversário da cidade", Recurring: true},
		{Date: generic.NewTimePoint(2025, time.April, 7), Name: "Ponto facultativo municipal"},
		{Date: generic.NewTimePoint(2025, time.June, 19), Name: "Corpus Christi"},
	}
	for _, hol := range holidays {
		if _, err := h.Store.SaveHoliday(ctx, hol); err != nil {
			return err
		}
	}
	return h.loadMinimumWageScenario(ctx)
}

// seedPayrolls computes and saves one payroll record per month in [from, to].
func (h *Handler) seedPayrolls(ctx context.Context, emp sqlite.Employee, year int, from, to time.Month) error {
	for m := from; m <= to; m++ {
		b, err := h.Engine.Payroll(payroll.PayrollInput{
			GrossSalary: emp.Salary,
			Dependents:  emp.Dependents,
		})
		if err != nil {
			return err
		}
		payload := toPayrollDTO(b)
		_, err = h.Store.SaveRecord(ctx, sqlite.Record{
			EmployeeID:      emp.ID,
			Kind:            sqlite.KindPayroll,
			Reference:       fmt.Sprintf("%04d-%02d", year, int(m)),
			TotalEarnings:   b.TotalEarnings,
			TotalDeductions: b.TotalDeductions,
			NetAmount:       b.NetSalary,
			DAETotal:        b.DAETotal,
			FGTSDeposit:     b.FGTSMonthly,
			PayloadJSON:     mustJSON(payload),
		})
		if err != nil {
			return err
		}
	}
	return nil
}
