package tax

import (
	"github.com/shopspring/decimal"
	"github.com/warp/esocial-engine/generic"
)

// FGTSMonthly is the monthly severance fund deposit.
func (c *Calculator) FGTSMonthly(gross decimal.Decimal) decimal.Decimal {
	return generic.ApplyRate(gross, c.table.Rates.FGTS)
}

// FGTSAnticipation is the monthly advance toward the termination penalty,
// collected on the DAE instead of as a lump sum at dismissal.
func (c *Calculator) FGTSAnticipation(gross decimal.Decimal) decimal.Decimal {
	return generic.ApplyRate(gross, c.table.Rates.FGTSAnticipation)
}

// FGTSPenalty applies rate to the cumulative FGTS balance. The balance
// depends on the deposit history and is always supplied by the caller.
func (c *Calculator) FGTSPenalty(balance, rate decimal.Decimal) decimal.Decimal {
	return generic.ApplyRate(balance, rate)
}
