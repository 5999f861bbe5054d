package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

// scriptedProvider returns the queued responses in order; a nil entry means
// that attempt fails.
type scriptedProvider struct {
	responses []string
	errs      []error
	calls     []call
}

type call struct {
	messages    []Message
	temperature float64
}

func (p *scriptedProvider) Complete(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error) {
	i := len(p.calls)
	p.calls = append(p.calls, call{messages: messages, temperature: temperature})
	if i < len(p.errs) && p.errs[i] != nil {
		return "", p.errs[i]
	}
	if i < len(p.responses) {
		return p.responses[i], nil
	}
	return "", errors.New("no scripted response")
}

func newTestClient(p Provider, maxRetries int) (*Client, *[]time.Duration) {
	c := NewClient(p, maxRetries)
	var slept []time.Duration
	c.sleep = func(d time.Duration) { slept = append(slept, d) }
	return c, &slept
}

func TestCompleteSucceedsFirstAttempt(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"hello"}}
	client, slept := newTestClient(provider, 2)

	got, err := client.Complete(context.Background(), nil, 0.7, 100)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if got != "hello" {
		t.Errorf("got %q", got)
	}
	if len(provider.calls) != 1 {
		t.Errorf("expected 1 provider call, got %d", len(provider.calls))
	}
	if len(*slept) != 0 {
		t.Errorf("slept %d times on a first-attempt success", len(*slept))
	}
}

func TestCompleteRetriesWithBackoff(t *testing.T) {
	provider := &scriptedProvider{
		responses: []string{"", "", "third time"},
		errs:      []error{errors.New("timeout"), errors.New("timeout"), nil},
	}
	client, slept := newTestClient(provider, 2)

	got, err := client.Complete(context.Background(), nil, 0.7, 100)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if got != "third time" {
		t.Errorf("got %q", got)
	}
	if len(provider.calls) != 3 {
		t.Errorf("expected 3 provider calls, got %d", len(provider.calls))
	}
	want := []time.Duration{1 * time.Second, 2 * time.Second}
	if len(*slept) != len(want) {
		t.Fatalf("slept %v, want %v", *slept, want)
	}
	for i, d := range want {
		if (*slept)[i] != d {
			t.Errorf("backoff %d = %v, want %v", i, (*slept)[i], d)
		}
	}
}

func TestCompleteExhaustedReturnsLastError(t *testing.T) {
	lastErr := errors.New("rate limited")
	provider := &scriptedProvider{
		errs: []error{errors.New("timeout"), lastErr},
	}
	client, _ := newTestClient(provider, 1)

	_, err := client.Complete(context.Background(), nil, 0.7, 100)
	if !errors.Is(err, lastErr) {
		t.Fatalf("expected last error back, got %v", err)
	}
	if len(provider.calls) != 2 {
		t.Errorf("expected 2 provider calls, got %d", len(provider.calls))
	}
}

func TestCompleteWithRepairSkipsRepairOnValidJSON(t *testing.T) {
	provider := &scriptedProvider{responses: []string{`{"insights": []}`}}
	client, _ := newTestClient(provider, 0)

	got, err := client.CompleteWithRepair(context.Background(), nil, 0.7, 100)
	if err != nil {
		t.Fatalf("CompleteWithRepair failed: %v", err)
	}
	if got != `{"insights": []}` {
		t.Errorf("got %q", got)
	}
	if len(provider.calls) != 1 {
		t.Errorf("expected 1 provider call, got %d", len(provider.calls))
	}
}

func TestCompleteWithRepairOneRoundTrip(t *testing.T) {
	messages := []Message{
		{Role: RoleSystem, Content: "sys"},
		{Role: RoleUser, Content: "analyze"},
	}
	provider := &scriptedProvider{
		responses: []string{"sorry, no JSON for you", `{"insights": [{"type": "problem"}]}`},
	}
	client, _ := newTestClient(provider, 0)

	got, err := client.CompleteWithRepair(context.Background(), messages, 0.7, 100)
	if err != nil {
		t.Fatalf("CompleteWithRepair failed: %v", err)
	}
	if got != `{"insights": [{"type": "problem"}]}` {
		t.Errorf("got %q", got)
	}
	if len(provider.calls) != 2 {
		t.Fatalf("expected 2 provider calls, got %d", len(provider.calls))
	}

	repair := provider.calls[1]
	if repair.temperature != repairTemperature {
		t.Errorf("repair temperature = %v, want %v", repair.temperature, repairTemperature)
	}
	if n := len(repair.messages); n != 4 {
		t.Fatalf("repair conversation has %d messages, want 4", n)
	}
	if repair.messages[2].Role != RoleAssistant || repair.messages[2].Content != "sorry, no JSON for you" {
		t.Errorf("original reply not echoed back: %+v", repair.messages[2])
	}
	if repair.messages[3].Role != RoleUser {
		t.Errorf("repair instruction role = %q", repair.messages[3].Role)
	}
}

func TestCompleteWithRepairReturnsBrokenSecondReply(t *testing.T) {
	provider := &scriptedProvider{
		responses: []string{"still prose", "still not JSON either"},
	}
	client, _ := newTestClient(provider, 0)

	got, err := client.CompleteWithRepair(context.Background(), nil, 0.7, 100)
	if err != nil {
		t.Fatalf("CompleteWithRepair failed: %v", err)
	}
	if got != "still not JSON either" {
		t.Errorf("got %q", got)
	}
	if len(provider.calls) != 2 {
		t.Errorf("expected exactly 2 provider calls, got %d", len(provider.calls))
	}
}
