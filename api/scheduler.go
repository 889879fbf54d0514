/*
scheduler.go - Deadline reminder scheduler

PURPOSE:
  Periodically checks the deadline calendar and logs the obligations that
  are due today or within the lead window. For the DAE it also sums the
  DAE totals saved for the previous competência, so the log line carries
  the amount the employer must pay.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Reads "today" from a clock function once per run and passes it down;
    the calendar itself never reads the clock
  - Delivery (email, WhatsApp) is someone else's job; this only logs

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - LeadDays:      How many days ahead to warn (default: 3)
  - Enabled:       Whether scheduler is active (default: true)

USAGE:
  scheduler := NewDeadlineScheduler(handler)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - deadlines/calendar.go: ForMonth
  - handlers.go: ListDeadlines endpoint
*/
package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/esocial-engine/deadlines"
	"github.com/warp/esocial-engine/generic"
	"github.com/warp/esocial-engine/store/sqlite"
)

// Reminder is a deadline that needs attention.
type Reminder struct {
	Deadline  deadlines.Instance
	DaysLeft  int
	Amount    decimal.Decimal // DAE only: sum of saved DAE totals
	Employees int
}

// DeadlineScheduler logs upcoming deadlines.
type DeadlineScheduler struct {
	Handler       *Handler
	CheckInterval time.Duration
	LeadDays      int
	Enabled       bool

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewDeadlineScheduler creates a new scheduler.
func NewDeadlineScheduler(handler *Handler) *DeadlineScheduler {
	return &DeadlineScheduler{
		Handler:       handler,
		CheckInterval: 1 * time.Hour,
		LeadDays:      3,
		Enabled:       true,
	}
}

// Start begins the scheduler.
func (ds *DeadlineScheduler) Start() {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	logger := ds.Handler.Logger
	if !ds.Enabled {
		logger.Info("deadline scheduler disabled")
		return
	}
	if ds.ticker != nil {
		return
	}

	ds.ticker = time.NewTicker(ds.CheckInterval)
	ds.stop = make(chan struct{})
	ds.wg.Add(1)

	go ds.run()

	logger.Info("deadline scheduler started", "interval", ds.CheckInterval.String(), "lead_days", ds.LeadDays)
}

// Stop stops the scheduler.
func (ds *DeadlineScheduler) Stop() {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if ds.ticker != nil {
		ds.ticker.Stop()
		close(ds.stop)
		ds.wg.Wait()
		ds.ticker = nil
		ds.Handler.Logger.Info("deadline scheduler stopped")
	}
}

func (ds *DeadlineScheduler) run() {
	defer ds.wg.Done()

	// Run immediately on start
	ds.checkAndLog()

	for {
		select {
		case <-ds.ticker.C:
			ds.checkAndLog()
		case <-ds.stop:
			return
		}
	}
}

func (ds *DeadlineScheduler) checkAndLog() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	reminders, err := ds.Due(ctx, ds.Handler.Today())
	if err != nil {
		ds.Handler.Logger.Error("deadline check failed", "error", err)
		return
	}
	for _, r := range reminders {
		attrs := []any{
			"type", r.Deadline.Type,
			"date", r.Deadline.Date.String(),
			"status", r.Deadline.Status,
			"days_left", r.DaysLeft,
		}
		if r.Deadline.Type == deadlines.TypeDAE {
			attrs = append(attrs, "amount", r.Amount.StringFixed(2), "employees", r.Employees)
		}
		ds.Handler.Logger.Warn("deadline approaching", attrs...)
	}
}

// Due returns the deadlines between today and today+LeadDays, looking into
// the next month when the window crosses it.
func (ds *DeadlineScheduler) Due(ctx context.Context, today generic.TimePoint) ([]Reminder, error) {
	window := generic.Period{Start: today, End: today.AddDays(ds.LeadDays)}
	cal := ds.Handler.Calendar

	var items []deadlines.Instance
	seen := map[string]bool{}
	for _, month := range []generic.TimePoint{today, window.End} {
		for _, d := range cal.ForMonth(month.Year(), month.Month(), today) {
			key := fmt.Sprintf("%s/%s", d.Type, d.Date)
			if seen[key] || !window.Contains(d.Date) {
				continue
			}
			seen[key] = true
			items = append(items, d)
		}
	}

	var reminders []Reminder
	for _, d := range items {
		r := Reminder{Deadline: d, DaysLeft: generic.DaysBetween(today, d.Date)}
		if d.Type == deadlines.TypeDAE {
			// the DAE due in a month pays the previous competência
			competencia := d.NominalDate.AddMonths(-1).Time.Format("2006-01")
			amount, n, err := ds.daeTotal(ctx, competencia)
			if err != nil {
				return nil, err
			}
			r.Amount, r.Employees = amount, n
		}
		reminders = append(reminders, r)
	}
	return reminders, nil
}

func (ds *DeadlineScheduler) daeTotal(ctx context.Context, reference string) (decimal.Decimal, int, error) {
	store := ds.Handler.Store
	employees, err := store.ListEmployees(ctx)
	if err != nil {
		return decimal.Zero, 0, err
	}

	total := decimal.Zero
	count := 0
	for _, emp := range employees {
		records, err := store.ListRecords(ctx, emp.ID, sqlite.KindPayroll)
		if err != nil {
			return decimal.Zero, 0, err
		}
		for _, rec := range records {
			if rec.Reference == reference {
				total = total.Add(rec.DAETotal)
				count++
			}
		}
	}
	return total, count, nil
}
