/*
Package factory converts yearly tax-table documents into tax.Table values.

PURPOSE:
  Bracket thresholds, rates, the IRRF dependent deduction and the national
  holiday list change by law every year. They live in YAML documents so that
  a new year is a data change: drop a file, point -tables at it, restart.

YAML SCHEMA:
  year: 2025
  inss:                      # progressive, last bracket bounded (ceiling)
    - up_to: "1518.00"
      rate: "7.5"            # percent
  irrf:                      # progressive, last bracket has no up_to
    - up_to: "2428.80"
      rate: "0"
      deduction: "0"         # published cumulative deduction
    - rate: "27.5"
      deduction: "908.73"
  dependent_deduction: "189.59"
  rates:
    inss_employer: "8"
    gilrat: "0.8"
    fgts: "8"
    fgts_anticipation: "3.2"
    fgts_penalty: "40"
    fgts_penalty_half: "20"
  holidays:
    - { date: "12-25", name: "Natal" }   # MM-DD, recurring

  Amounts are quoted strings so they reach decimal.Decimal without passing
  through float64. JSON documents with the same keys parse too, since YAML
  is a superset of JSON.

KEY FEATURES:
  - Builds contiguous brackets: each Min is the previous up_to
  - Validates the resulting table (tax.Table.Validate)
  - Embeds the current year's table (DefaultTable)

USAGE:
  table, err := factory.LoadTable("tables/2026.yaml")
  calc, err := tax.NewCalculator(table)

SEE ALSO:
  - tax/table.go: Table definition and validation
  - tables/2025.yaml: embedded default
*/
package factory

import (
	"embed"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/esocial-engine/generic"
	"github.com/warp/esocial-engine/tax"
	"gopkg.in/yaml.v3"
)

//go:embed tables/*.yaml
var embedded embed.FS

// DefaultYear is the year of the embedded table returned by DefaultTable.
const DefaultYear = 2025

// =============================================================================
// YAML SCHEMA TYPES
// =============================================================================

// TableYAML is the document representation of a tax.Table.
type TableYAML struct {
	Year               int           `yaml:"year" json:"year"`
	INSS               []BracketYAML `yaml:"inss" json:"inss"`
	IRRF               []BracketYAML `yaml:"irrf" json:"irrf"`
	DependentDeduction string        `yaml:"dependent_deduction" json:"dependent_deduction"`
	Rates              RatesYAML     `yaml:"rates" json:"rates"`
	Holidays           []HolidayYAML `yaml:"holidays" json:"holidays"`
}

// BracketYAML is one bracket; an empty UpTo marks the unbounded top bracket.
type BracketYAML struct {
	UpTo      string `yaml:"up_to,omitempty" json:"up_to,omitempty"`
	Rate      string `yaml:"rate" json:"rate"`
	Deduction string `yaml:"deduction,omitempty" json:"deduction,omitempty"`
	Label     string `yaml:"label,omitempty" json:"label,omitempty"`
}

// RatesYAML holds employer flat rates in percent.
type RatesYAML struct {
	INSSEmployer     string `yaml:"inss_employer" json:"inss_employer"`
	GILRAT           string `yaml:"gilrat" json:"gilrat"`
	FGTS             string `yaml:"fgts" json:"fgts"`
	FGTSAnticipation string `yaml:"fgts_anticipation" json:"fgts_anticipation"`
	FGTSPenalty      string `yaml:"fgts_penalty" json:"fgts_penalty"`
	FGTSPenaltyHalf  string `yaml:"fgts_penalty_half" json:"fgts_penalty_half"`
}

// HolidayYAML is a recurring holiday, date as MM-DD.
type HolidayYAML struct {
	Date string `yaml:"date" json:"date"`
	Name string `yaml:"name" json:"name"`
}

// =============================================================================
// TABLE FACTORY
// =============================================================================

// TableFactory converts table documents to tax.Table.
type TableFactory struct{}

// NewTableFactory creates a new table factory.
func NewTableFactory() *TableFactory {
	return &TableFactory{}
}

// ParseTable parses a YAML (or JSON) document into a validated tax.Table.
func (f *TableFactory) ParseTable(data []byte) (tax.Table, error) {
	var ty TableYAML
	if err := yaml.Unmarshal(data, &ty); err != nil {
		return tax.Table{}, fmt.Errorf("failed to parse tax table: %w", err)
	}
	return f.FromYAML(ty)
}

// FromYAML converts TableYAML to tax.Table and validates it.
func (f *TableFactory) FromYAML(ty TableYAML) (tax.Table, error) {
	if ty.Year == 0 {
		return tax.Table{}, &generic.MissingTableError{Table: "year"}
	}

	inss, err := parseBrackets("inss", ty.INSS)
	if err != nil {
		return tax.Table{}, err
	}
	irrf, err := parseBrackets("irrf", ty.IRRF)
	if err != nil {
		return tax.Table{}, err
	}
	dependent, err := parseAmount("dependent_deduction", ty.DependentDeduction)
	if err != nil {
		return tax.Table{}, err
	}
	rates, err := parseRates(ty.Rates)
	if err != nil {
		return tax.Table{}, err
	}
	holidays, err := parseHolidays(ty.Holidays)
	if err != nil {
		return tax.Table{}, err
	}

	table := tax.Table{
		Year:               ty.Year,
		INSS:               inss,
		IRRF:               irrf,
		DependentDeduction: dependent,
		Rates:              rates,
		Holidays:           holidays,
	}
	if err := table.Validate(); err != nil {
		return tax.Table{}, err
	}
	return table, nil
}

// ToYAML converts a tax.Table back to its document form.
func (f *TableFactory) ToYAML(t tax.Table) TableYAML {
	ty := TableYAML{
		Year:               t.Year,
		INSS:               bracketsToYAML(t.INSS),
		IRRF:               bracketsToYAML(t.IRRF),
		DependentDeduction: t.DependentDeduction.StringFixed(2),
		Rates: RatesYAML{
			INSSEmployer:     rateToPercent(t.Rates.INSSEmployer),
			GILRAT:           rateToPercent(t.Rates.GILRAT),
			FGTS:             rateToPercent(t.Rates.FGTS),
			FGTSAnticipation: rateToPercent(t.Rates.FGTSAnticipation),
			FGTSPenalty:      rateToPercent(t.Rates.FGTSPenalty),
			FGTSPenaltyHalf:  rateToPercent(t.Rates.FGTSPenaltyHalf),
		},
	}
	for _, h := range t.Holidays {
		ty.Holidays = append(ty.Holidays, HolidayYAML{
			Date: fmt.Sprintf("%02d-%02d", int(h.Month), h.Day),
			Name: h.Name,
		})
	}
	return ty
}

// LoadTable reads and parses a table document from disk.
func LoadTable(path string) (tax.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tax.Table{}, fmt.Errorf("failed to read tax table %s: %w", path, err)
	}
	return NewTableFactory().ParseTable(data)
}

// EmbeddedTable returns the table shipped in the binary for year.
func EmbeddedTable(year int) (tax.Table, error) {
	data, err := embedded.ReadFile(fmt.Sprintf("tables/%d.yaml", year))
	if err != nil {
		return tax.Table{}, &generic.MissingTableError{Table: fmt.Sprintf("tables/%d.yaml", year)}
	}
	return NewTableFactory().ParseTable(data)
}

// DefaultTable returns the embedded table for DefaultYear.
func DefaultTable() (tax.Table, error) {
	return EmbeddedTable(DefaultYear)
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseBrackets(name string, rows []BracketYAML) ([]tax.Bracket, error) {
	if len(rows) == 0 {
		return nil, &generic.MissingTableError{Table: name}
	}
	brackets := make([]tax.Bracket, 0, len(rows))
	min := decimal.Zero
	for i, row := range rows {
		rate, err := parsePercent(fmt.Sprintf("%s[%d].rate", name, i), row.Rate)
		if err != nil {
			return nil, err
		}
		b := tax.Bracket{Min: min, Rate: rate, Label: row.Label}
		if row.Deduction != "" {
			if b.Deduction, err = parseAmount(fmt.Sprintf("%s[%d].deduction", name, i), row.Deduction); err != nil {
				return nil, err
			}
		}
		if row.UpTo == "" {
			b.Unbounded = true
		} else {
			if b.Max, err = parseAmount(fmt.Sprintf("%s[%d].up_to", name, i), row.UpTo); err != nil {
				return nil, err
			}
			min = b.Max
		}
		brackets = append(brackets, b)
	}
	return brackets, nil
}

func parseRates(ry RatesYAML) (tax.Rates, error) {
	var (
		r   tax.Rates
		err error
	)
	fields := []struct {
		name  string
		value string
		dest  *decimal.Decimal
	}{
		{"rates.inss_employer", ry.INSSEmployer, &r.INSSEmployer},
		{"rates.gilrat", ry.GILRAT, &r.GILRAT},
		{"rates.fgts", ry.FGTS, &r.FGTS},
		{"rates.fgts_anticipation", ry.FGTSAnticipation, &r.FGTSAnticipation},
		{"rates.fgts_penalty", ry.FGTSPenalty, &r.FGTSPenalty},
		{"rates.fgts_penalty_half", ry.FGTSPenaltyHalf, &r.FGTSPenaltyHalf},
	}
	for _, f := range fields {
		if *f.dest, err = parsePercent(f.name, f.value); err != nil {
			return tax.Rates{}, err
		}
	}
	return r, nil
}

func parseHolidays(rows []HolidayYAML) (generic.FixedHolidays, error) {
	if len(rows) == 0 {
		return nil, &generic.MissingTableError{Table: "holidays"}
	}
	holidays := make(generic.FixedHolidays, 0, len(rows))
	for _, row := range rows {
		parts := strings.Split(row.Date, "-")
		if len(parts) != 2 {
			return nil, fmt.Errorf("holiday %q: date %q must be MM-DD: %w", row.Name, row.Date, generic.ErrInvalidTable)
		}
		month, errM := strconv.Atoi(parts[0])
		day, errD := strconv.Atoi(parts[1])
		if errM != nil || errD != nil || month < 1 || month > 12 || day < 1 || day > 31 {
			return nil, fmt.Errorf("holiday %q: date %q must be MM-DD: %w", row.Name, row.Date, generic.ErrInvalidTable)
		}
		holidays = append(holidays, generic.FixedHoliday{Month: time.Month(month), Day: day, Name: row.Name})
	}
	return holidays, nil
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, &generic.MissingTableError{Table: field}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %q is not a decimal: %w", field, s, generic.ErrInvalidTable)
	}
	return d, nil
}

func parsePercent(field, s string) (decimal.Decimal, error) {
	d, err := parseAmount(field, s)
	if err != nil {
		return decimal.Zero, err
	}
	return generic.PercentToRate(d), nil
}

func bracketsToYAML(brackets []tax.Bracket) []BracketYAML {
	out := make([]BracketYAML, 0, len(brackets))
	for _, b := range brackets {
		by := BracketYAML{Rate: rateToPercent(b.Rate), Label: b.Label}
		if !b.Unbounded {
			by.UpTo = b.Max.StringFixed(2)
		}
		if !b.Deduction.IsZero() {
			by.Deduction = b.Deduction.StringFixed(2)
		}
		out = append(out, by)
	}
	return out
}

func rateToPercent(r decimal.Decimal) string {
	return r.Mul(generic.Hundred).String()
}
