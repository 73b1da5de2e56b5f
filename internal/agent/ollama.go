package agent

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
)

const defaultOllamaEndpoint = "http://localhost:11434"

type OllamaClient struct {
	Endpoint string
	Model    string
	client   *api.Client
}

func NewOllamaClient(model, endpoint string) *OllamaClient {
	if endpoint == "" {
		endpoint = defaultOllamaEndpoint
	}
	o := &OllamaClient{Endpoint: endpoint, Model: model}
	if base, err := url.Parse(endpoint); err == nil {
		o.client = api.NewClient(base, http.DefaultClient)
	}
	return o
}

func (o *OllamaClient) Generate(ctx context.Context, prompt string) (*Completion, error) {
	if o.client == nil {
		return nil, fmt.Errorf("ollama: invalid endpoint %q", o.Endpoint)
	}

	stream := false
	req := &api.GenerateRequest{
		Model:  o.Model,
		Prompt: prompt,
		Stream: &stream,
	}

	var out Completion
	err := o.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		out.Text += resp.Response
		if resp.Done {
			out.Usage = Usage{
				InputTokens:  resp.PromptEvalCount,
				OutputTokens: resp.EvalCount,
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama api error: %w", err)
	}

	return &out, nil
}
