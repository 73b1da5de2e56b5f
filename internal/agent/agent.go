package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"Fincrew/internal/logging"
	"Fincrew/internal/tools"
	"Fincrew/pkg/types"
)

const (
	maxRetries     = 3
	memoryRecall   = 3
	defaultBackoff = time.Second
)

// ErrMaxIterations is returned when an agent runs out of reasoning rounds
// before giving a final answer.
var ErrMaxIterations = errors.New("iteration budget exhausted")

// Recaller returns notes relevant to a query
type Recaller interface {
	Recall(ctx context.Context, query string, limit int) ([]string, error)
}

// Request asks an agent to perform one task
type Request struct {
	Agent *types.Agent
	Task  *types.Task
	// Inputs fill the {placeholders} of the goal, description and expected output.
	Inputs  map[string]string
	Context string
	Memory  Recaller
	Log     logging.RunLogger

	nested bool
}

// Response is an agent's final answer with bookkeeping
type Response struct {
	Output     string
	Iterations int
	ToolCalls  int
	Usage      Usage
}

type Runner struct {
	Crew    *types.CrewConfig
	Clients map[string]LLMClient
	Tools   *tools.Registry
	Logger  *slog.Logger
	Backoff time.Duration
}

// NewRunner creates a runner with one client per crew model. Model API keys
// must already be resolved.
func NewRunner(crew *types.CrewConfig, registry *tools.Registry) *Runner {
	runner := &Runner{
		Crew:    crew,
		Clients: make(map[string]LLMClient),
		Tools:   registry,
		Logger:  logging.Discard(),
		Backoff: defaultBackoff,
	}

	for name, model := range crew.Models {
		runner.Clients[name] = NewLLMClient(
			model.Provider,
			model.Model,
			model.APIKey,
			model.Endpoint,
		)
	}

	return runner
}

// Execute runs the reasoning loop for one task until the agent gives a final
// answer or exhausts its iteration budget.
func (r *Runner) Execute(ctx context.Context, req Request) (*Response, error) {
	a := req.Agent
	if a == nil || req.Task == nil {
		return nil, errors.New("agent and task are required")
	}
	client, ok := r.Clients[a.Model]
	if !ok {
		return nil, fmt.Errorf("model not found: %s", a.Model)
	}
	log := req.Log
	if log == nil {
		log = &logging.NullLogger{}
	}

	toolset, err := r.toolset(req)
	if err != nil {
		return nil, err
	}

	description := Interpolate(req.Task.Description, req.Inputs)
	prompt := promptParts{
		agent:    a,
		goal:     Interpolate(a.Goal, req.Inputs),
		task:     description,
		expected: Interpolate(req.Task.ExpectedOutput, req.Inputs),
		context:  req.Context,
		memory:   r.recall(ctx, req, description),
		tools:    toolset,
	}.String()

	resp := &Response{}
	transcript := prompt
	for iter := 1; iter <= a.Budget(); iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		completion, err := r.generate(ctx, req, client, transcript)
		if err != nil {
			return nil, err
		}
		resp.Iterations = iter
		resp.Usage.Add(completion.Usage)

		calls := tools.ParseToolCalls(completion.Text)
		if len(calls) == 0 {
			resp.Output = strings.TrimSpace(completion.Text)
			return resp, nil
		}

		r.Logger.Debug("agent requested tools", "agent", a.ID, "task", req.Task.ID, "iteration", iter, "calls", len(calls))
		results := tools.ExecuteToolCalls(ctx, toolset, calls)
		for i, res := range results {
			output := res.Output
			if res.Error != nil {
				output = "ERROR: " + res.Error.Error()
			}
			log.LogToolCall(res.ToolName, calls[i].Input, output)
		}
		resp.ToolCalls += len(calls)

		transcript += "\n\n" + completion.Text + tools.FormatToolResults(results) + continuePrompt
	}

	return nil, fmt.Errorf("agent %s: %w after %d iterations", a.ID, ErrMaxIterations, a.Budget())
}

func (r *Runner) generate(ctx context.Context, req Request, client LLMClient, prompt string) (*Completion, error) {
	var completion *Completion
	var err error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		completion, err = client.Generate(ctx, prompt)
		if err == nil {
			return completion, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		r.Logger.Warn("model call failed", "agent", req.Agent.ID, "attempt", attempt, "err", err)
		if req.Log != nil {
			req.Log.LogTask(req.Task.ID, "retry", fmt.Sprintf("attempt %d failed: %v", attempt, err))
		}

		if attempt < maxRetries {
			select {
			case <-time.After(r.Backoff * time.Duration(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return nil, fmt.Errorf("agent %s failed after %d attempts: %w", req.Agent.ID, maxRetries, err)
}

func (r *Runner) toolset(req Request) ([]tools.Tool, error) {
	var set []tools.Tool
	if names := req.Task.EffectiveTools(req.Agent); len(names) > 0 {
		if r.Tools == nil {
			return nil, fmt.Errorf("agent %s needs tools but no registry is configured", req.Agent.ID)
		}
		resolved, err := r.Tools.GetByNames(names)
		if err != nil {
			return nil, fmt.Errorf("agent %s: %w", req.Agent.ID, err)
		}
		set = append(set, resolved...)
	}

	if req.Agent.AllowDelegation && !req.nested {
		if d := r.delegateTool(req); d != nil {
			set = append(set, d)
		}
	}
	return set, nil
}

func (r *Runner) recall(ctx context.Context, req Request, query string) []string {
	if !req.Agent.Memory || req.Memory == nil {
		return nil
	}
	notes, err := req.Memory.Recall(ctx, query, memoryRecall)
	if err != nil {
		r.Logger.Warn("memory recall failed", "agent", req.Agent.ID, "err", err)
		return nil
	}
	return notes
}
