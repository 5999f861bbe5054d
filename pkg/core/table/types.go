// Package table turns raw spreadsheet data of unknown quality into a
// validated, date-ordered set of reporting periods.
//
// Real small-business files contain "1 200 000" and "1,200,000" instead of
// numbers, dashes for empty cells, totals rows at the bottom, and headers in
// mixed languages. Everything here exists to absorb that noise.
package table

import "time"

// Canonical field names all source columns are mapped to.
const (
	FieldPeriod        = "period"
	FieldRevenue       = "revenue"
	FieldCOGS          = "cogs"
	FieldRent          = "rent"
	FieldPayroll       = "payroll"
	FieldMarketing     = "marketing"
	FieldOtherExpenses = "other_expenses"
)

// NumericFields lists the canonical columns that hold money amounts.
var NumericFields = []string{
	FieldRevenue, FieldCOGS, FieldRent, FieldPayroll, FieldMarketing, FieldOtherExpenses,
}

// Table is the generic rows-by-named-columns shape handed over by the file
// readers. Cells are either numbers or strings; no semantic guarantees.
type Table struct {
	Headers []string
	Rows    [][]interface{}
}

// PeriodRow is one validated reporting period. Revenue is always present and
// strictly positive. Expense categories are pointers because an absent value
// and an explicit zero mean different things downstream.
type PeriodRow struct {
	Period        time.Time
	Revenue       float64
	COGS          *float64
	Rent          *float64
	Payroll       *float64
	Marketing     *float64
	OtherExpenses *float64
}

// Expenses returns the expense categories in a fixed order, absent ones as nil.
func (r *PeriodRow) Expenses() []*float64 {
	return []*float64{r.COGS, r.Rent, r.Payroll, r.Marketing, r.OtherExpenses}
}

// CleanResult is the output of one cleaning run: rows sorted ascending by
// period, plus one human-readable warning per corrective action taken.
type CleanResult struct {
	Rows     []PeriodRow
	Warnings []string
}
