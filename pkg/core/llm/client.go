package llm

import (
	"context"
	"fmt"
	"log"
	"time"

	"finlens/pkg/core/insight"
)

// TransportError wraps a provider failure that exhausted all retries. The
// message shown upward is generic; the original error stays attached for logs.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("analysis service unavailable: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

const (
	repairTemperature = 0.3
	repairInstruction = "Your previous reply does not contain valid JSON. " +
		"Respond again with ONLY the corrected JSON object, no explanations and no markdown."
)

// Client wraps one Provider with bounded retry and a single repair
// round-trip. Retries are strictly sequential to keep conversation ordering
// with the provider intact.
type Client struct {
	provider   Provider
	maxRetries int
	sleep      func(time.Duration) // swapped out in tests
}

// NewClient builds a client performing at most maxRetries+1 attempts per call.
func NewClient(provider Provider, maxRetries int) *Client {
	return &Client{
		provider:   provider,
		maxRetries: maxRetries,
		sleep:      time.Sleep,
	}
}

// Complete performs one logical completion with retries. The delay between
// attempts grows exponentially (1s, 2s, 4s...). After the final attempt the
// last error is propagated unchanged.
func (c *Client) Complete(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		start := time.Now()
		content, err := c.provider.Complete(ctx, messages, temperature, maxTokens)
		if err == nil {
			log.Printf("[LLM] response received in %.1fs (%d chars)", time.Since(start).Seconds(), len(content))
			return content, nil
		}

		lastErr = err
		log.Printf("[LLM] attempt %d/%d failed: %v", attempt+1, c.maxRetries+1, err)
		if attempt < c.maxRetries {
			c.sleep(time.Duration(1<<attempt) * time.Second)
		}
	}
	return "", lastErr
}

// CompleteWithRepair performs one completion and, if the reply carries no
// recoverable JSON, asks the model once to correct itself at a lower
// temperature. It never loops further: final repair and validation are the
// caller's job.
func (c *Client) CompleteWithRepair(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error) {
	response, err := c.Complete(ctx, messages, temperature, maxTokens)
	if err != nil {
		return "", err
	}

	if _, parseErr := insight.ExtractObject(response); parseErr == nil {
		return response, nil
	}
	log.Printf("[LLM] first reply has no recoverable JSON, requesting a corrected one")

	repairMessages := make([]Message, 0, len(messages)+2)
	repairMessages = append(repairMessages, messages...)
	repairMessages = append(repairMessages,
		Message{Role: RoleAssistant, Content: response},
		Message{Role: RoleUser, Content: repairInstruction},
	)
	return c.Complete(ctx, repairMessages, repairTemperature, maxTokens)
}
