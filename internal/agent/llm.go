package agent

import (
	"context"
	"strings"
)

// Usage counts the tokens spent on one or more model calls
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

func (u *Usage) Add(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}

// Completion is a single model reply
type Completion struct {
	Text  string
	Usage Usage
}

type LLMClient interface {
	Generate(ctx context.Context, prompt string) (*Completion, error)
}

func NewLLMClient(provider string, model string, apiKey string, endpoint string) LLMClient {
	switch strings.ToLower(provider) {
	case "anthropic":
		return &ClaudeClient{
			APIKey:   apiKey,
			Model:    model,
			Endpoint: endpoint,
		}
	case "openai":
		return NewOpenAIClient(model, apiKey, endpoint)
	case "gemini", "google", "":
		return &GeminiClient{
			APIKey:   apiKey,
			Model:    model,
			Endpoint: endpoint,
		}
	case "ollama":
		return NewOllamaClient(model, endpoint)
	default:
		// Any other provider is assumed to speak the OpenAI chat API:
		// groq, mistral, together, perplexity, openrouter, etc.
		if apiKey != "" {
			return NewGenericClient(provider, model, apiKey, endpoint)
		}
		return NewOllamaClient(model, "")
	}
}

// NeedsAPIKey reports whether provider requires credentials
func NeedsAPIKey(provider string) bool {
	return strings.ToLower(provider) != "ollama"
}
