package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/esocial-engine/generic"
)

// Rates holds the employer-side flat percentages, as fractions.
type Rates struct {
	INSSEmployer     decimal.Decimal // 8%
	GILRAT           decimal.Decimal // 0.8%
	FGTS             decimal.Decimal // 8%
	FGTSAnticipation decimal.Decimal // 3.2%
	FGTSPenalty      decimal.Decimal // 40%, dismissal without cause
	FGTSPenaltyHalf  decimal.Decimal // 20%, mutual agreement
}

// Table is one year of legislative data. Calculators read it, never mutate it.
type Table struct {
	Year               int
	INSS               []Bracket
	IRRF               []Bracket
	DependentDeduction decimal.Decimal
	Rates              Rates
	Holidays           generic.FixedHolidays
}

// Validate reports missing or malformed tables. A Table that fails here is a
// configuration error and must not reach a calculator.
func (t Table) Validate() error {
	if err := ValidateBrackets("inss", t.INSS); err != nil {
		return err
	}
	if err := ValidateBrackets("irrf", t.IRRF); err != nil {
		return err
	}
	if t.INSS[len(t.INSS)-1].Unbounded {
		return fmt.Errorf("inss: top bracket must be bounded by the contribution ceiling: %w", generic.ErrInvalidTable)
	}
	if !t.IRRF[len(t.IRRF)-1].Unbounded {
		return fmt.Errorf("irrf: top bracket must be unbounded: %w", generic.ErrInvalidTable)
	}
	if t.DependentDeduction.IsNegative() {
		return fmt.Errorf("irrf: negative dependent deduction: %w", generic.ErrInvalidTable)
	}
	for name, r := range map[string]decimal.Decimal{
		"inss_employer":     t.Rates.INSSEmployer,
		"gilrat":            t.Rates.GILRAT,
		"fgts":              t.Rates.FGTS,
		"fgts_anticipation": t.Rates.FGTSAnticipation,
		"fgts_penalty":      t.Rates.FGTSPenalty,
		"fgts_penalty_half": t.Rates.FGTSPenaltyHalf,
	} {
		if !generic.IsValidRate(r) {
			return fmt.Errorf("rate %s = %s outside [0,1]: %w", name, r, generic.ErrInvalidTable)
		}
	}
	if len(t.Holidays) == 0 {
		return &generic.MissingTableError{Table: "holidays"}
	}
	return nil
}

// INSSCeiling is the top of the INSS table (teto previdenciário).
func (t Table) INSSCeiling() decimal.Decimal {
	if len(t.INSS) == 0 {
		return decimal.Zero
	}
	return t.INSS[len(t.INSS)-1].Max
}

// IRRFExemptionLimit is the top of the first IRRF bracket.
func (t Table) IRRFExemptionLimit() decimal.Decimal {
	if len(t.IRRF) == 0 {
		return decimal.Zero
	}
	return t.IRRF[0].Max
}
