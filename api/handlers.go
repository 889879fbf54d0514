/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes the calculation engines via REST API. Handles HTTP request and
  response, JSON serialization, and delegates to the payroll engine, the
  deadline calendar and the store.

ENDPOINTS:
  Calculations (stateless):
    POST   /api/calc/payroll            Monthly payslip + DAE
    POST   /api/calc/thirteenth         13th salary installments
    POST   /api/calc/vacation           Vacation receipt
    POST   /api/calc/termination        Rescission statement

  Reference data:
    GET    /api/deadlines               Deadlines of a month (?year&month&today)
    GET    /api/tables/current          Active tax table

  Employees:
    GET    /api/employees               List all employees
    POST   /api/employees               Create employee
    GET    /api/employees/{id}          Get employee details
    DELETE /api/employees/{id}          Delete employee and records
    POST   /api/employees/{id}/payroll     Payslip from stored salary (?save=true&reference=YYYY-MM)
    POST   /api/employees/{id}/thirteenth  13th from admission date (?save=true&year=YYYY)
    POST   /api/employees/{id}/termination Rescission using recorded FGTS deposits (?save=true)
    GET    /api/employees/{id}/records     Saved breakdowns (?kind=)

  Holidays:
    GET    /api/holidays                List stored holidays
    POST   /api/holidays                Create holiday
    DELETE /api/holidays/{id}           Delete holiday

REQUEST FLOW:
  1. Parse HTTP request
  2. Parse formats (dates, enums)
  3. Call the engine, which validates ranges
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: generic.ErrInvalidInput (code "invalid_input", details = field)
  - 404: generic.ErrNotFound
  - 500: Internal errors

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/warp/esocial-engine/deadlines"
	"github.com/warp/esocial-engine/factory"
	"github.com/warp/esocial-engine/generic"
	"github.com/warp/esocial-engine/payroll"
	"github.com/warp/esocial-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    *sqlite.Store
	Engine   *payroll.Engine
	Calendar *deadlines.Calendar
	Tables   *factory.TableFactory
	Logger   *slog.Logger

	// Today supplies the reference date when a request does not carry one.
	Today func() generic.TimePoint

	// Track currently loaded scenario
	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a handler. The calendar combines the table's national
// holidays with the holidays kept in the store.
func NewHandler(store *sqlite.Store, engine *payroll.Engine, logger *slog.Logger) (*Handler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cal, err := deadlines.NewCalendar(engine.Calculator().Table().Holidays, store)
	if err != nil {
		return nil, err
	}
	return &Handler{
		Store:    store,
		Engine:   engine,
		Calendar: cal,
		Tables:   factory.NewTableFactory(),
		Logger:   logger,
		Today:    generic.Today,
	}, nil
}

// =============================================================================
// CALCULATION HANDLERS
// =============================================================================

// CalculatePayroll computes a monthly payslip.
// POST /api/calc/payroll
func (h *Handler) CalculatePayroll(w http.ResponseWriter, r *http.Request) {
	var req PayrollRequest
	if !decode(w, r, &req) {
		return
	}

	b, err := h.Engine.Payroll(payrollInput(req, toDecimal(req.GrossSalary), 0))
	if err != nil {
		h.writeDomainError(w, "Payroll calculation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toPayrollDTO(b))
}

// CalculateThirteenth computes the 13th salary.
// POST /api/calc/thirteenth
func (h *Handler) CalculateThirteenth(w http.ResponseWriter, r *http.Request) {
	var req ThirteenthRequest
	if !decode(w, r, &req) {
		return
	}

	months := req.MonthsWorked
	if months == 0 && req.AdmissionDate != "" {
		admission, err := parseDateField("admission_date", req.AdmissionDate)
		if err != nil {
			h.writeDomainError(w, "Invalid admission date", err)
			return
		}
		year := req.Year
		if year == 0 {
			year = h.Today().Year()
		}
		months = payroll.ThirteenthMonthsWorked(admission, generic.EndOfYear(year), year)
	}

	b, err := h.Engine.Thirteenth(payroll.ThirteenthInput{
		MonthlySalary: toDecimal(req.MonthlySalary),
		MonthsWorked:  months,
		Dependents:    req.Dependents,
	})
	if err != nil {
		h.writeDomainError(w, "Thirteenth calculation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toThirteenthDTO(b))
}

// CalculateVacation computes a vacation receipt.
// POST /api/calc/vacation
func (h *Handler) CalculateVacation(w http.ResponseWriter, r *http.Request) {
	var req VacationRequest
	if !decode(w, r, &req) {
		return
	}

	in, err := vacationInput(req, 0)
	if err != nil {
		h.writeDomainError(w, "Invalid vacation request", err)
		return
	}
	b, err := h.Engine.Vacation(in)
	if err != nil {
		h.writeDomainError(w, "Vacation calculation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toVacationDTO(b))
}

// CalculateTermination computes a rescission statement. fgts_balance is
// required here; the employee-scoped endpoint can derive it.
// POST /api/calc/termination
func (h *Handler) CalculateTermination(w http.ResponseWriter, r *http.Request) {
	var req TerminationRequest
	if !decode(w, r, &req) {
		return
	}
	if req.FGTSBalance == nil {
		h.writeDomainError(w, "Invalid termination request", generic.Invalid("fgts_balance", "is required"))
		return
	}

	in, err := terminationInput(req, 0)
	if err != nil {
		h.writeDomainError(w, "Invalid termination request", err)
		return
	}
	b, err := h.Engine.Termination(in)
	if err != nil {
		h.writeDomainError(w, "Termination calculation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toTerminationDTO(b))
}

// =============================================================================
// REFERENCE DATA
// =============================================================================

// ListDeadlines returns the deadlines of a month.
// GET /api/deadlines?year=2025&month=6&today=2025-06-10
func (h *Handler) ListDeadlines(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	today := h.Today()
	if s := q.Get("today"); s != "" {
		t, err := parseDateField("today", s)
		if err != nil {
			h.writeDomainError(w, "Invalid today parameter", err)
			return
		}
		today = t
	}

	year, month := today.Year(), today.Month()
	if s := q.Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil || y < 1 {
			h.writeDomainError(w, "Invalid year parameter", generic.Invalid("year", "must be a positive integer, got %q", s))
			return
		}
		year = y
	}
	if s := q.Get("month"); s != "" {
		m, err := strconv.Atoi(s)
		if err != nil || m < 1 || m > 12 {
			h.writeDomainError(w, "Invalid month parameter", generic.Invalid("month", "must be between 1 and 12, got %q", s))
			return
		}
		month = time.Month(m)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"year":      year,
		"month":     int(month),
		"today":     today.String(),
		"deadlines": toDeadlineDTOs(h.Calendar.ForMonth(year, month, today)),
	})
}

// GetCurrentTable returns the tax table the engine runs on.
// GET /api/tables/current
func (h *Handler) GetCurrentTable(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Tables.ToYAML(h.Engine.Calculator().Table()))
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Store.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// CreateEmployee creates a new employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if !decode(w, r, &req) {
		return
	}

	admission, err := parseDateField("admission_date", req.AdmissionDate)
	if err != nil {
		h.writeDomainError(w, "Invalid admission date", err)
		return
	}

	emp := sqlite.Employee{
		ID:            req.ID,
		Name:          req.Name,
		CPF:           req.CPF,
		AdmissionDate: admission,
		Salary:        toDecimal(req.Salary),
		Dependents:    req.Dependents,
	}
	id, err := h.Store.SaveEmployee(r.Context(), emp)
	if err != nil {
		h.writeDomainError(w, "Failed to create employee", err)
		return
	}
	emp.ID = id

	h.Logger.Info("employee saved", "employee_id", id)
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// DeleteEmployee removes an employee and their records.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteEmployee(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, "Failed to delete employee", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// EmployeePayroll computes the payslip of a stored employee. Salary and
// dependents come from the employee unless the body overrides them.
// POST /api/employees/{id}/payroll?save=true&reference=2025-06
func (h *Handler) EmployeePayroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	emp, err := h.Store.GetEmployee(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, "Failed to get employee", err)
		return
	}

	var req PayrollRequest
	if !decodeOptional(w, r, &req) {
		return
	}
	gross := emp.Salary
	if req.GrossSalary != 0 {
		gross = toDecimal(req.GrossSalary)
	}

	reference := r.URL.Query().Get("reference")
	if reference == "" {
		reference = h.Today().Time.Format("2006-01")
	}
	if _, err := time.Parse("2006-01", reference); err != nil {
		h.writeDomainError(w, "Invalid reference", generic.Invalid("reference", "must be YYYY-MM, got %q", reference))
		return
	}

	b, err := h.Engine.Payroll(payrollInput(req, gross, emp.Dependents))
	if err != nil {
		h.writeDomainError(w, "Payroll calculation failed", err)
		return
	}
	dto := toPayrollDTO(b)

	resp := map[string]any{"employee_id": emp.ID, "reference": reference, "payroll": dto}
	if saveRequested(r) {
		id, err := h.saveRecord(r, sqlite.Record{
			EmployeeID:      emp.ID,
			Kind:            sqlite.KindPayroll,
			Reference:       reference,
			TotalEarnings:   b.TotalEarnings,
			TotalDeductions: b.TotalDeductions,
			NetAmount:       b.NetSalary,
			DAETotal:        b.DAETotal,
			FGTSDeposit:     b.FGTSMonthly,
		}, dto)
		if err != nil {
			h.writeDomainError(w, "Failed to save record", err)
			return
		}
		resp["record_id"] = id
	}
	writeJSON(w, http.StatusOK, resp)
}

// EmployeeThirteenth computes the 13th of a stored employee for a year,
// counting months from the admission date.
// POST /api/employees/{id}/thirteenth?save=true&year=2025
func (h *Handler) EmployeeThirteenth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	emp, err := h.Store.GetEmployee(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, "Failed to get employee", err)
		return
	}

	year := h.Today().Year()
	if s := r.URL.Query().Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil || y < 1 {
			h.writeDomainError(w, "Invalid year parameter", generic.Invalid("year", "must be a positive integer, got %q", s))
			return
		}
		year = y
	}

	b, err := h.Engine.Thirteenth(payroll.ThirteenthInput{
		MonthlySalary: emp.Salary,
		MonthsWorked:  payroll.ThirteenthMonthsWorked(emp.AdmissionDate, generic.EndOfYear(year), year),
		Dependents:    emp.Dependents,
	})
	if err != nil {
		h.writeDomainError(w, "Thirteenth calculation failed", err)
		return
	}
	dto := toThirteenthDTO(b)

	resp := map[string]any{"employee_id": emp.ID, "year": year, "thirteenth": dto}
	if saveRequested(r) {
		id, err := h.saveRecord(r, sqlite.Record{
			EmployeeID:      emp.ID,
			Kind:            sqlite.KindThirteenth,
			Reference:       strconv.Itoa(year),
			TotalEarnings:   b.TotalEarnings,
			TotalDeductions: b.TotalDeductions,
			NetAmount:       b.NetAmount,
			DAETotal:        b.DAETotal,
			FGTSDeposit:     b.FGTSMonthly,
		}, dto)
		if err != nil {
			h.writeDomainError(w, "Failed to save record", err)
			return
		}
		resp["record_id"] = id
	}
	writeJSON(w, http.StatusOK, resp)
}

// EmployeeVacation computes a vacation receipt for a stored employee. The
// record's reference is the start date; its FGTS deposit counts toward the
// balance used at termination.
// POST /api/employees/{id}/vacation?save=true
func (h *Handler) EmployeeVacation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	emp, err := h.Store.GetEmployee(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, "Failed to get employee", err)
		return
	}

	var req VacationRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Salary == 0 {
		req.Salary = money(emp.Salary)
	}

	in, err := vacationInput(req, emp.Dependents)
	if err != nil {
		h.writeDomainError(w, "Invalid vacation request", err)
		return
	}
	b, err := h.Engine.Vacation(in)
	if err != nil {
		h.writeDomainError(w, "Vacation calculation failed", err)
		return
	}
	dto := toVacationDTO(b)

	resp := map[string]any{"employee_id": emp.ID, "vacation": dto}
	if saveRequested(r) {
		id, err := h.saveRecord(r, sqlite.Record{
			EmployeeID:      emp.ID,
			Kind:            sqlite.KindVacation,
			Reference:       b.StartDate.String(),
			TotalEarnings:   b.TotalGross,
			TotalDeductions: b.TotalDeductions,
			NetAmount:       b.NetPayment,
			DAETotal:        b.DAETotal,
			FGTSDeposit:     b.FGTSMonthly,
		}, dto)
		if err != nil {
			h.writeDomainError(w, "Failed to save record", err)
			return
		}
		resp["record_id"] = id
	}
	writeJSON(w, http.StatusOK, resp)
}

// EmployeeTermination computes the rescission of a stored employee. Without
// fgts_balance in the body, the balance is the sum of recorded deposits.
// POST /api/employees/{id}/termination?save=true
func (h *Handler) EmployeeTermination(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	emp, err := h.Store.GetEmployee(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, "Failed to get employee", err)
		return
	}

	var req TerminationRequest
	if !decode(w, r, &req) {
		return
	}
	req.AdmissionDate = emp.AdmissionDate.String()
	if req.Salary == 0 {
		req.Salary = money(emp.Salary)
	}

	in, err := terminationInput(req, emp.Dependents)
	if err != nil {
		h.writeDomainError(w, "Invalid termination request", err)
		return
	}
	if req.FGTSBalance == nil {
		in.FGTSBalance, err = h.Store.FGTSBalance(ctx, emp.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load FGTS balance", err)
			return
		}
	}

	b, err := h.Engine.Termination(in)
	if err != nil {
		h.writeDomainError(w, "Termination calculation failed", err)
		return
	}
	dto := toTerminationDTO(b)

	resp := map[string]any{"employee_id": emp.ID, "termination": dto}
	if saveRequested(r) {
		id, err := h.saveRecord(r, sqlite.Record{
			EmployeeID:      emp.ID,
			Kind:            sqlite.KindTermination,
			Reference:       b.TerminationDate.String(),
			TotalEarnings:   b.TotalEarnings,
			TotalDeductions: b.TotalDeductions,
			NetAmount:       b.NetAmount,
			DAETotal:        b.TotalFGTS,
			FGTSDeposit:     b.FGTSOnTermination,
		}, dto)
		if err != nil {
			h.writeDomainError(w, "Failed to save record", err)
			return
		}
		resp["record_id"] = id
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetRecords returns an employee's saved breakdowns.
// GET /api/employees/{id}/records?kind=payroll
func (h *Handler) GetRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	if _, err := h.Store.GetEmployee(ctx, id); err != nil {
		h.writeDomainError(w, "Failed to get employee", err)
		return
	}

	records, err := h.Store.ListRecords(ctx, id, sqlite.RecordKind(r.URL.Query().Get("kind")))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list records", err)
		return
	}

	dtos := make([]RecordDTO, 0, len(records))
	for _, rec := range records {
		dtos = append(dtos, toRecordDTO(rec))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) saveRecord(r *http.Request, rec sqlite.Record, payload any) (string, error) {
	rec.PayloadJSON = mustJSON(payload)

	id, err := h.Store.SaveRecord(r.Context(), rec)
	if err != nil {
		return "", err
	}
	h.Logger.Info("record saved",
		"record_id", id,
		"employee_id", rec.EmployeeID,
		"kind", rec.Kind,
		"reference", rec.Reference,
	)
	return id, nil
}

// =============================================================================
// HOLIDAY ENDPOINTS
// =============================================================================

// ListHolidays returns all stored holidays.
// GET /api/holidays
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Store.GetAllHolidays(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get holidays", err)
		return
	}

	dtos := make([]HolidayDTO, 0, len(holidays))
	for _, hol := range holidays {
		dtos = append(dtos, HolidayDTO{
			ID:        hol.ID,
			Date:      hol.Date.String(),
			Name:      hol.Name,
			Recurring: hol.Recurring,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"holidays": dtos})
}

// CreateHoliday creates a new holiday.
// POST /api/holidays
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req HolidayDTO
	if !decode(w, r, &req) {
		return
	}

	date, err := parseDateField("date", req.Date)
	if err != nil {
		h.writeDomainError(w, "Invalid holiday date", err)
		return
	}

	id, err := h.Store.SaveHoliday(r.Context(), generic.Holiday{
		Date:      date,
		Name:      req.Name,
		Recurring: req.Recurring,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to create holiday", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status":  "created",
		"holiday": id,
	})
}

// DeleteHoliday deletes a holiday.
// DELETE /api/holidays/{id}
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteHoliday(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, "Failed to delete holiday", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// Health reports whether the store is reachable.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "Database unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"year":   h.Engine.Year(),
	})
}

// =============================================================================
// INPUT CONVERSION
// =============================================================================

func payrollInput(req PayrollRequest, gross decimal.Decimal, defaultDependents int) payroll.PayrollInput {
	return payroll.PayrollInput{
		GrossSalary:     gross,
		Dependents:      dependentsOr(req.Dependents, defaultDependents),
		OvertimeHours:   toDecimal(req.OvertimeHours),
		AbsenceDays:     req.AbsenceDays,
		DSRAbsenceDays:  req.DSRAbsenceDays,
		OtherEarnings:   toDecimal(req.OtherEarnings),
		OtherDeductions: toDecimal(req.OtherDeductions),
	}
}

func dependentsOr(req *int, def int) int {
	if req != nil {
		return *req
	}
	return def
}

func vacationInput(req VacationRequest, defaultDependents int) (payroll.VacationInput, error) {
	start, err := parseDateField("start_date", req.StartDate)
	if err != nil {
		return payroll.VacationInput{}, err
	}
	in := payroll.VacationInput{
		Salary:      toDecimal(req.Salary),
		DaysEnjoyed: req.DaysEnjoyed,
		DaysSold:    req.DaysSold,
		Dependents:  dependentsOr(req.Dependents, defaultDependents),
		StartDate:   start,
	}
	if req.AcquisitionStart != "" || req.AcquisitionEnd != "" {
		from, err := parseDateField("acquisition_start", req.AcquisitionStart)
		if err != nil {
			return payroll.VacationInput{}, err
		}
		to, err := parseDateField("acquisition_end", req.AcquisitionEnd)
		if err != nil {
			return payroll.VacationInput{}, err
		}
		in.AcquisitionPeriod = generic.Period{Start: from, End: to}
	}
	return in, nil
}

func terminationInput(req TerminationRequest, defaultDependents int) (payroll.TerminationInput, error) {
	admission, err := parseDateField("admission_date", req.AdmissionDate)
	if err != nil {
		return payroll.TerminationInput{}, err
	}
	termination, err := parseDateField("termination_date", req.TerminationDate)
	if err != nil {
		return payroll.TerminationInput{}, err
	}
	in := payroll.TerminationInput{
		AdmissionDate:          admission,
		TerminationDate:        termination,
		Salary:                 toDecimal(req.Salary),
		TerminationType:        payroll.TerminationType(req.TerminationType),
		NoticeType:             payroll.NoticeType(req.NoticeType),
		Dependents:             dependentsOr(req.Dependents, defaultDependents),
		PendingVacationPeriods: req.PendingVacationPeriods,
		ThirteenthAdvancePaid:  toDecimal(req.ThirteenthAdvancePaid),
	}
	if req.FGTSBalance != nil {
		in.FGTSBalance = toDecimal(*req.FGTSBalance)
	}
	return in, nil
}

func parseDateField(field, s string) (generic.TimePoint, error) {
	if s == "" {
		return generic.TimePoint{}, generic.Invalid(field, "is required")
	}
	t, err := generic.ParseDate(s)
	if err != nil {
		return generic.TimePoint{}, generic.Invalid(field, "must be YYYY-MM-DD, got %q", s)
	}
	return t, nil
}

// mustJSON encodes DTOs, which contain only marshalable fields.
func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(data)
}

func saveRequested(r *http.Request) bool {
	save, _ := strconv.ParseBool(r.URL.Query().Get("save"))
	return save
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

// decodeOptional accepts an empty body.
func decodeOptional(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps engine and store errors to HTTP statuses.
func (h *Handler) writeDomainError(w http.ResponseWriter, message string, err error) {
	var vErr *generic.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   message,
			Code:    "invalid_input",
			Details: map[string]string{"field": vErr.Field, "message": vErr.Message},
		})
	case generic.IsClientError(err):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: message, Code: "invalid_input", Details: err.Error()})
	case generic.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: message, Code: "not_found", Details: err.Error()})
	default:
		h.Logger.Error(message, "error", err)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
