package table

import (
	"fmt"
	"time"
)

// Header suggestions shown when a required column is missing.
var columnHints = map[string]string{
	FieldRevenue: "Выручка / Revenue / Sales",
	FieldPeriod:  "Месяц / Дата / Period / Date",
}

// MissingColumnError is the schema-fatal condition: no source column mapped
// to revenue or to period.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column %q not found (expected a header like %s)", e.Column, columnHints[e.Column])
}

// DuplicatePeriodError reports two surviving rows that normalized to the same
// period. Neither merge nor last-wins is safe for financial figures, so the
// cleaner fails fast instead of guessing.
type DuplicatePeriodError struct {
	Period time.Time
}

func (e *DuplicatePeriodError) Error() string {
	return fmt.Sprintf("two rows resolve to the same period %s; resolve the duplicate in the source file", e.Period.Format("2006-01-02"))
}
