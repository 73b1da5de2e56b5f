package agent

import (
	"fmt"
	"strings"
)

// Known OpenAI-compatible API base URLs
var knownEndpoints = map[string]string{
	"groq":       "https://api.groq.com/openai/v1/",
	"mistral":    "https://api.mistral.ai/v1/",
	"together":   "https://api.together.xyz/v1/",
	"perplexity": "https://api.perplexity.ai/",
	"openrouter": "https://openrouter.ai/api/v1/",
	"deepseek":   "https://api.deepseek.com/v1/",
	"fireworks":  "https://api.fireworks.ai/inference/v1/",
}

// NewGenericClient creates a client for any OpenAI-compatible API
func NewGenericClient(provider, model, apiKey, endpoint string) *OpenAIClient {
	return newChatCompletionsClient(provider, model, apiKey, ResolveEndpoint(provider, endpoint))
}

// ResolveEndpoint returns the base URL for an OpenAI-compatible provider.
// An explicit endpoint always wins; unknown providers are assumed to follow
// https://api.{provider}.com/v1/.
func ResolveEndpoint(provider, endpoint string) string {
	if endpoint != "" {
		return endpoint
	}
	if known, ok := knownEndpoints[strings.ToLower(provider)]; ok {
		return known
	}
	return fmt.Sprintf("https://api.%s.com/v1/", strings.ToLower(provider))
}
