package table

import (
	"fmt"
	"log"
	"sort"
	"strings"
)

// Cleaner applies the full normalization pipeline to a raw Table.
type Cleaner struct {
	synonyms SynonymTable
}

// NewCleaner builds a cleaner; a nil synonym table selects the defaults.
func NewCleaner(synonyms SynonymTable) *Cleaner {
	if synonyms == nil {
		synonyms = DefaultSynonyms()
	}
	return &Cleaner{synonyms: synonyms}
}

// Clean runs the pipeline: drop empty rows, map headers, normalize numbers,
// drop rows without revenue, parse periods, sort. Each discard step appends
// one consolidated warning. Only a missing revenue/period column or a
// duplicate period is fatal.
func (c *Cleaner) Clean(t Table) (*CleanResult, error) {
	var warnings []string

	// 1. Fully empty rows carry no information.
	rows := t.Rows[:0:0]
	for _, row := range t.Rows {
		if !rowEmpty(row) {
			rows = append(rows, row)
		}
	}
	if dropped := len(t.Rows) - len(rows); dropped > 0 {
		warnings = append(warnings, fmt.Sprintf("removed %d empty rows", dropped))
	}

	// 2. Map headers to the canonical schema; first claim per field wins.
	colIndex := map[string]int{}
	var unmapped []string
	for i, header := range t.Headers {
		field, ok := c.synonyms.MapColumn(header)
		if !ok {
			unmapped = append(unmapped, strings.TrimSpace(header))
			continue
		}
		if _, claimed := colIndex[field]; claimed {
			unmapped = append(unmapped, strings.TrimSpace(header))
			continue
		}
		colIndex[field] = i
	}
	if len(unmapped) > 0 {
		warnings = append(warnings, fmt.Sprintf("unrecognized columns: %s", strings.Join(unmapped, ", ")))
	}

	// 3. Revenue and period are the only schema-fatal columns.
	if _, ok := colIndex[FieldRevenue]; !ok {
		return nil, &MissingColumnError{Column: FieldRevenue}
	}
	if _, ok := colIndex[FieldPeriod]; !ok {
		return nil, &MissingColumnError{Column: FieldPeriod}
	}

	// 4–5. Normalize numeric cells and drop rows without positive revenue
	// (totals rows, header leakage, blank tails).
	type staged struct {
		periodCell interface{}
		values     map[string]*float64
		revenue    float64
	}
	var stagedRows []staged
	droppedNoRevenue := 0
	for _, row := range rows {
		revenue, ok := CleanNumber(cellAt(row, colIndex[FieldRevenue]))
		if !ok || revenue <= 0 {
			droppedNoRevenue++
			continue
		}
		values := map[string]*float64{}
		for _, field := range NumericFields {
			if field == FieldRevenue {
				continue
			}
			idx, present := colIndex[field]
			if !present {
				continue
			}
			if v, okNum := CleanNumber(cellAt(row, idx)); okNum {
				val := v
				values[field] = &val
			}
		}
		stagedRows = append(stagedRows, staged{
			periodCell: cellAt(row, colIndex[FieldPeriod]),
			values:     values,
			revenue:    revenue,
		})
	}
	if droppedNoRevenue > 0 {
		warnings = append(warnings, fmt.Sprintf("removed %d rows without revenue", droppedNoRevenue))
	}

	// 6. Parse periods. Rows that still carry revenue but no parseable date
	// are almost always totals rows.
	var out []PeriodRow
	droppedBadDate := 0
	for _, s := range stagedRows {
		period, ok := ParsePeriod(s.periodCell)
		if !ok {
			droppedBadDate++
			continue
		}
		out = append(out, PeriodRow{
			Period:        period,
			Revenue:       s.revenue,
			COGS:          s.values[FieldCOGS],
			Rent:          s.values[FieldRent],
			Payroll:       s.values[FieldPayroll],
			Marketing:     s.values[FieldMarketing],
			OtherExpenses: s.values[FieldOtherExpenses],
		})
	}
	if droppedBadDate > 0 {
		warnings = append(warnings, fmt.Sprintf("removed %d rows with unrecognized dates (possibly totals rows)", droppedBadDate))
	}

	// 7. Sort ascending; identical periods after normalization are ambiguous
	// and fail fast.
	sort.SliceStable(out, func(i, j int) bool { return out[i].Period.Before(out[j].Period) })
	for i := 1; i < len(out); i++ {
		if out[i].Period.Equal(out[i-1].Period) {
			return nil, &DuplicatePeriodError{Period: out[i].Period}
		}
	}

	log.Printf("[Cleaner] done: %d rows, %d warnings", len(out), len(warnings))
	return &CleanResult{Rows: out, Warnings: warnings}, nil
}

func cellAt(row []interface{}, idx int) interface{} {
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}

func rowEmpty(row []interface{}) bool {
	for _, cell := range row {
		if cell == nil {
			continue
		}
		if s, ok := cell.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		return false
	}
	return true
}

func toString(value interface{}) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}
