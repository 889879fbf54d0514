package tax_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/esocial-engine/factory"
	"github.com/warp/esocial-engine/generic"
	"github.com/warp/esocial-engine/tax"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func table2025(t *testing.T) tax.Table {
	t.Helper()
	table, err := factory.DefaultTable()
	require.NoError(t, err)
	return table
}

func calculator(t *testing.T) *tax.Calculator {
	t.Helper()
	calc, err := tax.NewCalculator(table2025(t))
	require.NoError(t, err)
	return calc
}

// syntheticBrackets is a made-up table with round numbers, unbounded top.
func syntheticBrackets() []tax.Bracket {
	return tax.DeriveDeductions([]tax.Bracket{
		{Min: d("0"), Max: d("1000"), Rate: d("0")},
		{Min: d("1000"), Max: d("2000"), Rate: d("0.1")},
		{Min: d("2000"), Max: d("5000"), Rate: d("0.2")},
		{Min: d("5000"), Unbounded: true, Rate: d("0.3")},
	})
}

// sweep returns bases from 0 to max in steps, plus a few cents off each step.
func sweep(max, step string) []decimal.Decimal {
	var out []decimal.Decimal
	for b := decimal.Zero; b.LessThanOrEqual(d(max)); b = b.Add(d(step)) {
		out = append(out, b, b.Add(d("0.01")), b.Add(d("0.37")))
	}
	return out
}

// =============================================================================
// APPLY BRACKETS
// =============================================================================

func TestApplyBrackets_ZeroAndNegativeBase(t *testing.T) {
	for _, base := range []string{"0", "-100"} {
		res := tax.ApplyBrackets(d(base), syntheticBrackets())
		assert.True(t, res.TotalTax.IsZero(), "base %s", base)
		assert.True(t, res.EffectiveRate.IsZero(), "base %s", base)
	}
}

func TestApplyBrackets_MarginalWalk(t *testing.T) {
	// GIVEN: a base in the third bracket
	// WHEN: evaluated
	res := tax.ApplyBrackets(d("3000"), syntheticBrackets())

	// THEN: 0 on the first 1000, 10% of 1000, 20% of 1000
	assert.True(t, d("300").Equal(res.TotalTax), "got %s", res.TotalTax)
	require.Len(t, res.PerBracket, 4)
	assert.True(t, d("100").Equal(res.PerBracket[1].Amount))
	assert.True(t, d("200").Equal(res.PerBracket[2].Amount))
	assert.True(t, res.PerBracket[3].Amount.IsZero())
	assert.True(t, d("0.1").Equal(res.EffectiveRate))
}

func TestApplyBrackets_PerBracketSumsToTotal(t *testing.T) {
	table := table2025(t)
	for _, base := range sweep("12000", "733") {
		res := tax.ApplyBrackets(base, table.INSS)
		sum := decimal.Zero
		for _, b := range res.PerBracket {
			sum = sum.Add(b.Amount)
		}
		assert.True(t, generic.Round(sum).Equal(res.TotalTax), "base %s: %s != %s", base, sum, res.TotalTax)
	}
}

func TestApplyBrackets_Monotonic(t *testing.T) {
	table := table2025(t)
	for name, brackets := range map[string][]tax.Bracket{
		"inss":      table.INSS,
		"irrf":      table.IRRF,
		"synthetic": syntheticBrackets(),
	} {
		prev := decimal.Zero
		for _, base := range sweep("15000", "41") {
			got := tax.ApplyBrackets(base, brackets).TotalTax
			assert.True(t, got.GreaterThanOrEqual(prev), "%s: tax decreased at base %s (%s < %s)", name, base, got, prev)
			prev = got
		}
	}
}

func TestApplyBrackets_BoundedTopIsACeiling(t *testing.T) {
	table := table2025(t)
	ceiling := tax.ApplyBrackets(table.INSSCeiling(), table.INSS).TotalTax

	for _, base := range []string{"8157.42", "10000", "50000"} {
		got := tax.ApplyBrackets(d(base), table.INSS).TotalTax
		assert.True(t, ceiling.Equal(got), "base %s: %s != ceiling %s", base, got, ceiling)
	}
	assert.True(t, d("951.63").Equal(ceiling), "got %s", ceiling)
}

// =============================================================================
// SIMPLIFIED FORM
// =============================================================================

func TestSimplifiedTax_MatchesMarginalForDerivedDeductions(t *testing.T) {
	// GIVEN: a table whose deductions are derived from its rates
	brackets := syntheticBrackets()

	// THEN: both forms agree exactly everywhere, including at boundaries
	for _, base := range sweep("9000", "250") {
		marginal := tax.ApplyBrackets(base, brackets).TotalTax
		simplified := tax.SimplifiedTax(base, brackets)
		assert.True(t, marginal.Equal(simplified), "base %s: marginal %s, simplified %s", base, marginal, simplified)
	}
}

func TestSimplifiedTax_BoundedTable(t *testing.T) {
	table := table2025(t)
	inss := tax.DeriveDeductions(table.INSS)

	for _, base := range sweep("10000", "317") {
		marginal := tax.ApplyBrackets(base, inss).TotalTax
		simplified := tax.SimplifiedTax(base, inss)
		assert.True(t, marginal.Equal(simplified), "base %s: marginal %s, simplified %s", base, marginal, simplified)
	}
}

func TestSimplifiedTax_PublishedIRRFWithinOneCentavo(t *testing.T) {
	// The published deductions are rounded to centavos, so the two forms
	// can differ by one centavo after rounding.
	table := table2025(t)
	for _, base := range sweep("12000", "59") {
		marginal := tax.ApplyBrackets(base, table.IRRF).TotalTax
		simplified := tax.SimplifiedTax(base, table.IRRF)
		diff := marginal.Sub(simplified).Abs()
		assert.True(t, diff.LessThanOrEqual(d("0.01")), "base %s: marginal %s, simplified %s", base, marginal, simplified)
	}
}

func TestDeriveDeductions_PublishedIRRF(t *testing.T) {
	table := table2025(t)
	derived := tax.DeriveDeductions(table.IRRF)

	for i := range derived {
		diff := derived[i].Deduction.Sub(table.IRRF[i].Deduction).Abs()
		assert.True(t, diff.LessThan(d("0.01")), "bracket %d: derived %s, published %s", i, derived[i].Deduction, table.IRRF[i].Deduction)
	}
	assert.True(t, d("182.16").Equal(derived[1].Deduction))
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestValidateBrackets(t *testing.T) {
	tests := []struct {
		name     string
		brackets []tax.Bracket
		wantErr  error
	}{
		{"empty", nil, generic.ErrMissingTable},
		{"rate above one", []tax.Bracket{{Min: d("0"), Unbounded: true, Rate: d("1.5")}}, generic.ErrInvalidTable},
		{"gap", []tax.Bracket{
			{Min: d("0"), Max: d("100"), Rate: d("0.1")},
			{Min: d("200"), Unbounded: true, Rate: d("0.2")},
		}, generic.ErrInvalidTable},
		{"unbounded in the middle", []tax.Bracket{
			{Min: d("0"), Unbounded: true, Rate: d("0.1")},
			{Min: d("100"), Max: d("200"), Rate: d("0.2")},
		}, generic.ErrInvalidTable},
		{"empty range", []tax.Bracket{{Min: d("100"), Max: d("100"), Rate: d("0.1")}}, generic.ErrInvalidTable},
		{"valid", syntheticBrackets(), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tax.ValidateBrackets("test", tt.brackets)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewCalculator_RejectsMissingHolidays(t *testing.T) {
	table := table2025(t)
	table.Holidays = nil

	_, err := tax.NewCalculator(table)

	assert.ErrorIs(t, err, generic.ErrMissingTable)
}

func TestNewCalculator_RejectsUnboundedINSS(t *testing.T) {
	table := table2025(t)
	table.INSS = syntheticBrackets()

	_, err := tax.NewCalculator(table)

	assert.ErrorIs(t, err, generic.ErrInvalidTable)
}
