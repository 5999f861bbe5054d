// Package llm talks to a completion provider and makes that conversation
// survivable: bounded retries with backoff, plus one repair round-trip when
// the model returns broken JSON.
package llm

import "context"

// Message is one turn of a chat completion conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Provider is the single swappable completion interface. Implementations
// perform exactly one request; retries and repair live in Client.
type Provider interface {
	Complete(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error)
}
