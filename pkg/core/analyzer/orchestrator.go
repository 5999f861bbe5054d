package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"finlens/pkg/core/insight"
	"finlens/pkg/core/llm"
	"finlens/pkg/core/metrics"
	"finlens/pkg/core/prompt"
	"finlens/pkg/core/table"
)

const (
	analysisTemperature = 0.7
	analysisMaxTokens   = 2000
)

// CompletionClient is what the orchestrator needs from the LLM layer.
type CompletionClient interface {
	CompleteWithRepair(ctx context.Context, messages []llm.Message, temperature float64, maxTokens int) (string, error)
}

// Limits bounds the dataset accepted for one analysis.
type Limits struct {
	MaxRows    int
	MinPeriods int
}

// Orchestrator wires cleaner, metrics engine and completion client into the
// analysis pipeline. Safe for concurrent use: each run owns its own data.
type Orchestrator struct {
	cleaner *table.Cleaner
	engine  *metrics.Engine
	client  CompletionClient
	limits  Limits
}

func New(cleaner *table.Cleaner, engine *metrics.Engine, client CompletionClient, limits Limits) *Orchestrator {
	return &Orchestrator{
		cleaner: cleaner,
		engine:  engine,
		client:  client,
		limits:  limits,
	}
}

// Analyze runs the full pipeline over one raw table.
func (o *Orchestrator) Analyze(ctx context.Context, tbl table.Table, businessContext string) (*Result, error) {
	cleaned, err := o.cleaner.Clean(tbl)
	if err != nil {
		return nil, err
	}
	rows := cleaned.Rows
	warnings := cleaned.Warnings

	// Oversized datasets keep only the most recent periods.
	if o.limits.MaxRows > 0 && len(rows) > o.limits.MaxRows {
		rows = rows[len(rows)-o.limits.MaxRows:]
		warnings = append(warnings, fmt.Sprintf("limited to the most recent %d periods", o.limits.MaxRows))
		log.Printf("[Analyzer] truncated to most recent %d periods", o.limits.MaxRows)
	}

	if len(rows) < o.limits.MinPeriods {
		return nil, &InsufficientDataError{Found: len(rows), Min: o.limits.MinPeriods}
	}

	snapshot := o.engine.Compute(rows)
	log.Printf("[Analyzer] metrics computed over %d periods, trend=%s", len(rows), snapshot.RevenueTrendDirection)

	tableMD := prompt.RenderTable(rows)
	if !prompt.ValidateMarkdown(tableMD) {
		log.Printf("[Analyzer] rendered table failed markdown validation, sending as-is")
	}
	metricsJSON, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize metrics: %w", err)
	}

	userPrompt, err := prompt.BuildAnalysisPrompt(prompt.Input{
		TableMarkdown:   tableMD,
		MetricsJSON:     string(metricsJSON),
		BusinessContext: businessContext,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build analysis prompt: %w", err)
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: prompt.SystemPrompt},
		{Role: llm.RoleUser, Content: userPrompt},
	}
	raw, err := o.client.CompleteWithRepair(ctx, messages, analysisTemperature, analysisMaxTokens)
	if err != nil {
		return nil, &llm.TransportError{Err: err}
	}

	insights, err := insight.ParseInsights(raw)
	if err != nil {
		return nil, err
	}
	log.Printf("[Analyzer] analysis complete: %d insights", len(insights))

	return &Result{
		ID:          uuid.New(),
		CreatedAt:   time.Now(),
		Metrics:     snapshot,
		Insights:    insights,
		Warnings:    warnings,
		RawResponse: raw,
	}, nil
}
