package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiProvider implements Provider on Google's GenAI SDK.
type GeminiProvider struct {
	Model  string // e.g. "gemini-2.0-flash"
	APIKey string
}

var _ Provider = (*GeminiProvider)(nil)

func (p *GeminiProvider) Complete(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error) {
	if p.APIKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY not set")
	}

	model := p.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create GenAI client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(temperature)),
	}
	if maxTokens > 0 {
		config.MaxOutputTokens = int32(maxTokens)
	}

	// Gemini takes the system instruction out of band; everything else is
	// folded into a single user prompt in conversation order.
	var userParts []string
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			config.SystemInstruction = &genai.Content{
				Parts: []*genai.Part{{Text: m.Content}},
			}
		case RoleAssistant:
			userParts = append(userParts, "Previous reply:\n"+m.Content)
		default:
			userParts = append(userParts, m.Content)
		}
	}

	result, err := client.Models.GenerateContent(ctx, model, genai.Text(strings.Join(userParts, "\n\n")), config)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}
	return result.Text(), nil
}
