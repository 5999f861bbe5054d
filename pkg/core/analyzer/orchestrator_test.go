package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"finlens/pkg/core/insight"
	"finlens/pkg/core/llm"
	"finlens/pkg/core/metrics"
	"finlens/pkg/core/table"
)

// stubClient records the prompt it received and replies with a fixed body.
type stubClient struct {
	response string
	err      error
	calls    int
	lastMsgs []llm.Message
}

func (s *stubClient) CompleteWithRepair(ctx context.Context, messages []llm.Message, temperature float64, maxTokens int) (string, error) {
	s.calls++
	s.lastMsgs = messages
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

const goodResponse = `{"insights": [{"type": "observation", "title": "Steady growth", "explanation": "Revenue grew in the latest quarter.", "recommendation": "Keep the current course.", "potential_impact": "Sustained profit."}]}`

func growingTable(periods int) table.Table {
	rows := make([][]interface{}, 0, periods)
	for i := 0; i < periods; i++ {
		revenue := 1000.0
		if i >= periods/2 {
			revenue = 1200.0
		}
		rows = append(rows, []interface{}{
			fmt.Sprintf("2024-%02d", i+1),
			fmt.Sprintf("%.0f", revenue),
			"400",
		})
	}
	return table.Table{
		Headers: []string{"Период", "Выручка", "Себестоимость"},
		Rows:    rows,
	}
}

func newOrchestrator(client CompletionClient, limits Limits) *Orchestrator {
	return New(table.NewCleaner(nil), metrics.NewEngine(metrics.DefaultConfig()), client, limits)
}

func TestAnalyzeEndToEnd(t *testing.T) {
	client := &stubClient{response: goodResponse}
	o := newOrchestrator(client, Limits{MaxRows: 100, MinPeriods: 3})

	result, err := o.Analyze(context.Background(), growingTable(6), "Small coffee shop")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if result.Metrics.RevenueTrendDirection != metrics.TrendGrowing {
		t.Errorf("trend = %q, want growing", result.Metrics.RevenueTrendDirection)
	}
	if len(result.Insights) != 1 {
		t.Fatalf("expected 1 insight, got %d", len(result.Insights))
	}
	if result.Insights[0].Type != insight.TypeObservation {
		t.Errorf("insight type = %q", result.Insights[0].Type)
	}
	if result.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("result has zero ID")
	}
	if result.RawResponse != goodResponse {
		t.Error("raw response not retained")
	}

	if len(client.lastMsgs) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(client.lastMsgs))
	}
	user := client.lastMsgs[1].Content
	if !strings.Contains(user, "Small coffee shop") {
		t.Error("business context missing from prompt")
	}
	if !strings.Contains(user, "revenue_trend_direction") {
		t.Error("metrics JSON missing from prompt")
	}
	if !strings.Contains(user, "| Period |") {
		t.Error("markdown table missing from prompt")
	}
}

func TestAnalyzeInsufficientDataSkipsModelCall(t *testing.T) {
	client := &stubClient{response: goodResponse}
	o := newOrchestrator(client, Limits{MaxRows: 100, MinPeriods: 3})

	_, err := o.Analyze(context.Background(), growingTable(2), "")

	var insufficient *InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
	if insufficient.Found != 2 || insufficient.Min != 3 {
		t.Errorf("error carries %d/%d, want 2/3", insufficient.Found, insufficient.Min)
	}
	if client.calls != 0 {
		t.Errorf("model called %d times before data validation", client.calls)
	}
}

func TestAnalyzeTruncatesToMostRecent(t *testing.T) {
	client := &stubClient{response: goodResponse}
	o := newOrchestrator(client, Limits{MaxRows: 4, MinPeriods: 3})

	result, err := o.Analyze(context.Background(), growingTable(6), "")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(result.Metrics.ByPeriod) != 4 {
		t.Fatalf("expected 4 periods after truncation, got %d", len(result.Metrics.ByPeriod))
	}
	// Most recent survive: first kept period is the third month.
	if got := result.Metrics.ByPeriod[0].Period; got != "2024-03-01" {
		t.Errorf("first kept period = %q, want 2024-03-01", got)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "most recent 4") {
			found = true
		}
	}
	if !found {
		t.Errorf("truncation warning missing: %v", result.Warnings)
	}
}

func TestAnalyzeWrapsProviderFailure(t *testing.T) {
	client := &stubClient{err: errors.New("connection refused")}
	o := newOrchestrator(client, Limits{MaxRows: 100, MinPeriods: 3})

	_, err := o.Analyze(context.Background(), growingTable(6), "")

	var transport *llm.TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if !strings.Contains(err.Error(), "analysis service unavailable") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestAnalyzeUnparseableResponse(t *testing.T) {
	client := &stubClient{response: "I cannot produce JSON today."}
	o := newOrchestrator(client, Limits{MaxRows: 100, MinPeriods: 3})

	_, err := o.Analyze(context.Background(), growingTable(6), "")

	var unparseable *insight.UnparseableResponseError
	if !errors.As(err, &unparseable) {
		t.Fatalf("expected UnparseableResponseError, got %v", err)
	}
}
