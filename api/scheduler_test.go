package api

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/esocial-engine/deadlines"
	"github.com/warp/esocial-engine/generic"
)

func TestDeadlineScheduler_DueIncludesDAEAmount(t *testing.T) {
	// GIVEN: June payroll saved, DAE for June due Monday July 7
	h := newTestHandler(t)
	loadScenario(t, h, "minimum-wage")
	ds := NewDeadlineScheduler(h)

	// WHEN
	reminders, err := ds.Due(context.Background(), generic.NewTimePoint(2025, time.July, 5))
	require.NoError(t, err)

	// THEN
	require.Len(t, reminders, 1)
	r := reminders[0]
	assert.Equal(t, deadlines.TypeDAE, r.Deadline.Type)
	assert.Equal(t, "2025-07-07", r.Deadline.Date.String())
	assert.Equal(t, 2, r.DaysLeft)
	assert.True(t, decimal.RequireFromString("417.45").Equal(r.Amount), "got %s", r.Amount)
	assert.Equal(t, 1, r.Employees)
}

func TestDeadlineScheduler_WindowCrossesMonth(t *testing.T) {
	// GIVEN: June 30, 2025 with a ten-day lead
	h := newTestHandler(t)
	ds := NewDeadlineScheduler(h)
	ds.LeadDays = 10

	// WHEN
	reminders, err := ds.Due(context.Background(), generic.NewTimePoint(2025, time.June, 30))
	require.NoError(t, err)

	// THEN: only July's DAE falls inside; nothing was saved for June
	require.Len(t, reminders, 1)
	assert.Equal(t, "2025-07-07", reminders[0].Deadline.Date.String())
	assert.True(t, reminders[0].Amount.IsZero())
	assert.Equal(t, 0, reminders[0].Employees)
}

func TestDeadlineScheduler_NothingDue(t *testing.T) {
	h := newTestHandler(t)
	ds := NewDeadlineScheduler(h)

	reminders, err := ds.Due(context.Background(), generic.NewTimePoint(2025, time.June, 20))

	require.NoError(t, err)
	assert.Empty(t, reminders)
}

func TestDeadlineScheduler_StartStop(t *testing.T) {
	h := newTestHandler(t)
	ds := NewDeadlineScheduler(h)
	ds.CheckInterval = time.Hour

	ds.Start()
	ds.Start()
	ds.Stop()
	ds.Stop()

	disabled := NewDeadlineScheduler(h)
	disabled.Enabled = false
	disabled.Start()
	assert.Nil(t, disabled.ticker)
}
