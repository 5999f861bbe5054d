// Package analyzer sequences the full analysis: clean, compute, prompt,
// complete, validate. Any stage failure aborts the run; nothing partial is
// ever returned.
package analyzer

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"finlens/pkg/core/insight"
	"finlens/pkg/core/metrics"
)

// Result aggregates everything one analysis run produced. Built once, never
// mutated, never persisted.
type Result struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Metrics  *metrics.Snapshot `json:"metrics"`
	Insights []insight.Insight `json:"insights"`
	Warnings []string          `json:"warnings"`

	// RawResponse keeps the model's final text for diagnostics only.
	RawResponse string `json:"raw_response,omitempty"`
}

// InsufficientDataError means the cleaned dataset is below the minimum
// period count; raised before any model call is attempted.
type InsufficientDataError struct {
	Found int
	Min   int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("not enough data: found %d periods, need at least %d", e.Found, e.Min)
}
