package agent

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// OpenAIClient talks to the OpenAI chat completions API, or to any endpoint
// that implements it.
type OpenAIClient struct {
	Model    string
	Provider string
	client   openai.Client
}

// NewOpenAIClient creates an OpenAI client. A non-empty endpoint replaces the
// default base URL.
func NewOpenAIClient(model, apiKey, endpoint string) *OpenAIClient {
	return newChatCompletionsClient("openai", model, apiKey, endpoint)
}

func newChatCompletionsClient(provider, model, apiKey, baseURL string) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		// The runner owns retries.
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAIClient{
		Model:    model,
		Provider: provider,
		client:   openai.NewClient(opts...),
	}
}

func (o *OpenAIClient) Generate(ctx context.Context, prompt string) (*Completion, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			switch apiErr.StatusCode {
			case http.StatusTooManyRequests:
				return nil, fmt.Errorf("QUOTA_EXCEEDED[%s]: rate limit reached", o.Provider)
			case http.StatusUnauthorized:
				return nil, fmt.Errorf("%s: invalid API key", o.Provider)
			}
		}
		return nil, fmt.Errorf("%s api error: %w", o.Provider, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from %s", o.Provider)
	}

	return &Completion{
		Text: resp.Choices[0].Message.Content,
		Usage: Usage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
		},
	}, nil
}
