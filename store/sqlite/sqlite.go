/*
Package sqlite provides the SQLite-backed persistence collaborator.

PURPOSE:
  Stores the inputs the engines need (employees, holidays) and the scalar
  fields of every saved breakdown as a historical record. The engines never
  touch the store; handlers load inputs from here and save results back.

KEY TABLES:
  employees: domestic employees (admission date, salary, dependents)
  records:   saved breakdowns, one per employee/kind/reference
  holidays:  additional non-business days (municipal, state, one-off)

RECORDS:
  A record keeps the totals as TEXT decimals plus the full breakdown as
  JSON, so a stored payslip can be re-rendered exactly as it was computed.
  Saving the same employee/kind/reference again replaces the previous row.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of SQLite's own locking.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time

USAGE:
  store, err := sqlite.New("./data/esocial.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  cal, _ := deadlines.NewCalendar(table.Holidays, store)

SEE ALSO:
  - generic/time.go: HolidayCalendar (implemented by Store)
  - api/handlers.go: the only caller
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/esocial-engine/generic"
)

// Store implements persistence using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// every :memory: connection is a separate database
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Employees
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		cpf TEXT,
		admission_date TEXT NOT NULL,
		salary TEXT NOT NULL,
		dependents INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	-- Saved breakdowns
	CREATE TABLE IF NOT EXISTS records (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		kind TEXT NOT NULL,
		reference TEXT NOT NULL,
		total_earnings TEXT NOT NULL,
		total_deductions TEXT NOT NULL,
		net_amount TEXT NOT NULL,
		dae_total TEXT NOT NULL,
		fgts_deposit TEXT NOT NULL DEFAULT '0',
		payload_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE(employee_id, kind, reference)
	);

	CREATE INDEX IF NOT EXISTS idx_records_employee
		ON records(employee_id, reference DESC);

	-- Holidays (in addition to the national list shipped with the tax table)
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		recurring BOOLEAN DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_unique
		ON holidays(date, name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Reset clears all data. Used by tests and the demo reset endpoint.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"records", "employees", "holidays"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// Employee is a stored domestic employee.
type Employee struct {
	ID            string
	Name          string
	CPF           string
	AdmissionDate generic.TimePoint
	Salary        decimal.Decimal
	Dependents    int
	CreatedAt     time.Time
}

// Validate checks the fields the engines rely on.
func (e Employee) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return generic.Invalid("name", "is required")
	}
	if e.AdmissionDate.IsZero() {
		return generic.Invalid("admission_date", "is required")
	}
	if !e.Salary.IsPositive() {
		return generic.Invalid("salary", "must be positive, got %s", e.Salary)
	}
	if e.Dependents < 0 {
		return generic.Invalid("dependents", "must not be negative, got %d", e.Dependents)
	}
	return nil
}

// SaveEmployee inserts or updates an employee. An empty ID gets a new UUID,
// which is returned.
func (s *Store) SaveEmployee(ctx context.Context, emp Employee) (string, error) {
	if err := emp.Validate(); err != nil {
		return "", err
	}
	if emp.ID == "" {
		emp.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO employees (id, name, cpf, admission_date, salary, dependents, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			cpf = excluded.cpf,
			admission_date = excluded.admission_date,
			salary = excluded.salary,
			dependents = excluded.dependents
	`

	_, err := s.db.ExecContext(ctx, query,
		emp.ID, emp.Name, nullString(emp.CPF),
		emp.AdmissionDate.String(),
		emp.Salary.String(),
		emp.Dependents,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("failed to save employee: %w", err)
	}
	return emp.ID, nil
}

// GetEmployee retrieves an employee by ID. Returns generic.ErrNotFound when
// there is none.
func (s *Store) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, cpf, admission_date, salary, dependents, created_at FROM employees WHERE id = ?",
		id,
	)
	emp, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("employee %s: %w", id, generic.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// ListEmployees returns all employees ordered by name.
func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, cpf, admission_date, salary, dependents, created_at FROM employees ORDER BY name",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// DeleteEmployee removes an employee and, by cascade, their records.
func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireAffected(res, "employee", id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row scanner) (Employee, error) {
	var emp Employee
	var cpf sql.NullString
	var admission, salary, createdAt string
	if err := row.Scan(&emp.ID, &emp.Name, &cpf, &admission, &salary, &emp.Dependents, &createdAt); err != nil {
		return Employee{}, err
	}
	date, err := generic.ParseDate(admission)
	if err != nil {
		return Employee{}, fmt.Errorf("employee %s: %w", emp.ID, err)
	}
	amount, err := decimal.NewFromString(salary)
	if err != nil {
		return Employee{}, fmt.Errorf("employee %s: invalid salary %q: %w", emp.ID, salary, err)
	}
	emp.CPF = cpf.String
	emp.AdmissionDate = date
	emp.Salary = amount
	emp.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return emp, nil
}

// =============================================================================
// RECORDS
// =============================================================================

// RecordKind is the engine a record came from.
type RecordKind string

const (
	KindPayroll     RecordKind = "payroll"
	KindThirteenth  RecordKind = "thirteenth"
	KindVacation    RecordKind = "vacation"
	KindTermination RecordKind = "termination"
)

// Record is the stored scalar summary of one breakdown.
type Record struct {
	ID              string
	EmployeeID      string
	Kind            RecordKind
	Reference       string // competência, e.g. "2025-06", or a start/termination date
	TotalEarnings   decimal.Decimal
	TotalDeductions decimal.Decimal
	NetAmount       decimal.Decimal
	DAETotal        decimal.Decimal
	FGTSDeposit     decimal.Decimal // FGTS deposited for this record
	PayloadJSON     string
	CreatedAt       time.Time
}

// SaveRecord stores a record, replacing any previous record of the same
// employee, kind and reference. Returns the record ID.
func (s *Store) SaveRecord(ctx context.Context, r Record) (string, error) {
	if r.EmployeeID == "" {
		return "", generic.Invalid("employee_id", "is required")
	}
	if r.Reference == "" {
		return "", generic.Invalid("reference", "is required")
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.PayloadJSON == "" {
		r.PayloadJSON = "{}"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO records (id, employee_id, kind, reference, total_earnings, total_deductions,
			net_amount, dae_total, fgts_deposit, payload_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, kind, reference) DO UPDATE SET
			total_earnings = excluded.total_earnings,
			total_deductions = excluded.total_deductions,
			net_amount = excluded.net_amount,
			dae_total = excluded.dae_total,
			fgts_deposit = excluded.fgts_deposit,
			payload_json = excluded.payload_json,
			created_at = excluded.created_at
	`

	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.EmployeeID, string(r.Kind), r.Reference,
		r.TotalEarnings.String(), r.TotalDeductions.String(),
		r.NetAmount.String(), r.DAETotal.String(), r.FGTSDeposit.String(),
		r.PayloadJSON,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isForeignKeyError(err) {
			return "", fmt.Errorf("employee %s: %w", r.EmployeeID, generic.ErrNotFound)
		}
		return "", fmt.Errorf("failed to save record: %w", err)
	}

	// on conflict the original ID is kept
	var id string
	err = s.db.QueryRowContext(ctx,
		"SELECT id FROM records WHERE employee_id = ? AND kind = ? AND reference = ?",
		r.EmployeeID, string(r.Kind), r.Reference,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetRecord retrieves a record by ID.
func (s *Store) GetRecord(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, recordSelect+" WHERE id = ?", id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("record %s: %w", id, generic.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRecords returns an employee's records, newest reference first. An
// empty kind returns every kind.
func (s *Store) ListRecords(ctx context.Context, employeeID string, kind RecordKind) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := recordSelect + " WHERE employee_id = ?"
	args := []any{employeeID}
	if kind != "" {
		query += " AND kind = ?"
		args = append(args, string(kind))
	}
	query += " ORDER BY reference DESC, kind"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// FGTSBalance sums the FGTS deposits recorded for an employee. This is the
// deposit history the termination penalty is computed on.
func (s *Store) FGTSBalance(ctx context.Context, employeeID string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT fgts_deposit FROM records WHERE employee_id = ? AND kind != ?",
		employeeID, string(KindTermination),
	)
	if err != nil {
		return decimal.Zero, err
	}
	defer rows.Close()

	// summed in Go: SQLite would add TEXT decimals as floats
	total := decimal.Zero
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return decimal.Zero, err
		}
		d, err := decimal.NewFromString(value)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid fgts_deposit %q: %w", value, err)
		}
		total = total.Add(d)
	}
	return total, rows.Err()
}

const recordSelect = `
	SELECT id, employee_id, kind, reference, total_earnings, total_deductions,
		net_amount, dae_total, fgts_deposit, payload_json, created_at
	FROM records`

func scanRecord(row scanner) (Record, error) {
	var r Record
	var kind, earnings, deductions, net, dae, fgts, createdAt string
	if err := row.Scan(&r.ID, &r.EmployeeID, &kind, &r.Reference,
		&earnings, &deductions, &net, &dae, &fgts, &r.PayloadJSON, &createdAt); err != nil {
		return Record{}, err
	}
	r.Kind = RecordKind(kind)
	amounts := []struct {
		column string
		value  string
		dst    *decimal.Decimal
	}{
		{"total_earnings", earnings, &r.TotalEarnings},
		{"total_deductions", deductions, &r.TotalDeductions},
		{"net_amount", net, &r.NetAmount},
		{"dae_total", dae, &r.DAETotal},
		{"fgts_deposit", fgts, &r.FGTSDeposit},
	}
	for _, a := range amounts {
		d, err := decimal.NewFromString(a.value)
		if err != nil {
			return Record{}, fmt.Errorf("record %s: invalid %s %q: %w", r.ID, a.column, a.value, err)
		}
		*a.dst = d
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return r, nil
}

// =============================================================================
// HOLIDAY CALENDAR IMPLEMENTATION
// =============================================================================

// SaveHoliday saves a holiday and returns its stored ID. Saving the same
// date and name again only updates the recurring flag.
func (s *Store) SaveHoliday(ctx context.Context, h generic.Holiday) (string, error) {
	if h.Date.IsZero() {
		return "", generic.Invalid("date", "is required")
	}
	if strings.TrimSpace(h.Name) == "" {
		return "", generic.Invalid("name", "is required")
	}
	if h.ID == "" {
		h.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO holidays (id, date, name, recurring, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date, name) DO UPDATE SET
			recurring = excluded.recurring
	`

	_, err := s.db.ExecContext(ctx, query,
		h.ID,
		h.Date.String(),
		h.Name,
		h.Recurring,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("failed to save holiday: %w", err)
	}

	var id string
	err = s.db.QueryRowContext(ctx,
		"SELECT id FROM holidays WHERE date = ? AND name = ?",
		h.Date.String(), h.Name,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

// DeleteHoliday deletes a holiday by ID.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM holidays WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireAffected(res, "holiday", id)
}

// IsHoliday implements generic.HolidayCalendar. Recurring holidays match on
// month and day in any year. Query errors count as "not a holiday".
func (s *Store) IsHoliday(date generic.TimePoint) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT COUNT(*) FROM holidays
		WHERE (recurring = FALSE AND date = ?)
		   OR (recurring = TRUE AND strftime('%m-%d', date) = ?)
	`

	var count int
	err := s.db.QueryRow(query, date.String(), date.Time.Format("01-02")).Scan(&count)
	if err != nil {
		return false
	}
	return count > 0
}

// GetAllHolidays returns all stored holidays ordered by date.
func (s *Store) GetAllHolidays(ctx context.Context) ([]generic.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, date, name, recurring FROM holidays ORDER BY date ASC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []generic.Holiday
	for rows.Next() {
		var h generic.Holiday
		var dateStr string
		if err := rows.Scan(&h.ID, &dateStr, &h.Name, &h.Recurring); err != nil {
			return nil, err
		}
		h.Date, err = generic.ParseDate(dateStr)
		if err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}

	return holidays, rows.Err()
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func requireAffected(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, generic.ErrNotFound)
	}
	return nil
}

func isForeignKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
