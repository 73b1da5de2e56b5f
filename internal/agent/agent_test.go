package agent

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"Fincrew/internal/tools"
	"Fincrew/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedClient replies with the queued responses in order and records the
// prompts it was given.
type scriptedClient struct {
	mu      sync.Mutex
	replies []string
	errs    []error
	prompts []string
}

func (s *scriptedClient) Generate(_ context.Context, prompt string) (*Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prompts = append(s.prompts, prompt)
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	if len(s.replies) == 0 {
		return &Completion{Text: "final", Usage: Usage{InputTokens: 1, OutputTokens: 1}}, nil
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return &Completion{Text: reply, Usage: Usage{InputTokens: 10, OutputTokens: 5}}, nil
}

type echoTool struct{ name string }

func (e *echoTool) Name() string        { return e.name }
func (e *echoTool) Description() string { return "echoes its input" }
func (e *echoTool) Execute(_ context.Context, input string) (string, error) {
	return "echo:" + input, nil
}

func testCrew() *types.CrewConfig {
	return &types.CrewConfig{
		Agents: []types.Agent{
			{
				ID: "analyst", Model: "m", Role: "Senior Financial Analyst",
				Goal: "Answer {query}", Backstory: "Numbers person.",
				Tools: []string{"echo"}, MaxIter: 3, AllowDelegation: true,
			},
			{ID: "verifier", Model: "m", Role: "Financial Document Verifier", Goal: "Verify", MaxIter: 2},
		},
	}
}

func newTestRunner(client LLMClient) *Runner {
	r := NewRunner(testCrew(), tools.NewRegistry(&echoTool{name: "echo"}))
	r.Clients["m"] = client
	r.Backoff = 0
	return r
}

func TestExecuteFinalAnswer(t *testing.T) {
	client := &scriptedClient{replies: []string{"  The company is healthy.  "}}
	runner := newTestRunner(client)
	crew := runner.Crew

	resp, err := runner.Execute(context.Background(), Request{
		Agent:   crew.GetAgent("analyst"),
		Task:    &types.Task{ID: "analysis", Description: "Analyze {file_path}", ExpectedOutput: "A report on {query}"},
		Inputs:  map[string]string{"file_path": "data/q1.pdf", "query": "is ACME a buy?"},
		Context: "Context from previous tasks:\n\n[verification]:\nvalid\n\n",
	})
	require.NoError(t, err)
	assert.Equal(t, "The company is healthy.", resp.Output)
	assert.Equal(t, 1, resp.Iterations)
	assert.Equal(t, Usage{InputTokens: 10, OutputTokens: 5}, resp.Usage)

	prompt := client.prompts[0]
	assert.Contains(t, prompt, "You are Senior Financial Analyst.")
	assert.Contains(t, prompt, "Your personal goal is: Answer is ACME a buy?")
	assert.Contains(t, prompt, "Current Task: Analyze data/q1.pdf")
	assert.Contains(t, prompt, "expected criteria for your final answer: A report on is ACME a buy?")
	assert.Contains(t, prompt, "[verification]:\nvalid")
	assert.Contains(t, prompt, "**echo**")
	assert.Contains(t, prompt, "**"+DelegateToolName+"**")
}

func TestExecuteToolLoop(t *testing.T) {
	client := &scriptedClient{replies: []string{
		"```tool:echo\nrevenue\n```",
		"Revenue grew.",
	}}
	runner := newTestRunner(client)

	resp, err := runner.Execute(context.Background(), Request{
		Agent: runner.Crew.GetAgent("analyst"),
		Task:  &types.Task{ID: "analysis", Description: "d", ExpectedOutput: "e"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Revenue grew.", resp.Output)
	assert.Equal(t, 2, resp.Iterations)
	assert.Equal(t, 1, resp.ToolCalls)
	require.Len(t, client.prompts, 2)
	assert.Contains(t, client.prompts[1], "[echo]:\necho:revenue")
}

func TestExecuteRejectsToolsOutsideTheTaskSet(t *testing.T) {
	client := &scriptedClient{replies: []string{"```tool:echo\nx\n```", "done"}}
	runner := newTestRunner(client)

	// The task narrows the analyst's tools to the calculator, which the
	// registry does not know.
	_, err := runner.Execute(context.Background(), Request{
		Agent: runner.Crew.GetAgent("analyst"),
		Task:  &types.Task{ID: "t", Description: "d", ExpectedOutput: "e", Tools: []string{"calculator"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tool not found: calculator")

	verifier := runner.Crew.GetAgent("verifier")
	resp, err := runner.Execute(context.Background(), Request{
		Agent: verifier,
		Task:  &types.Task{ID: "t", Description: "d", ExpectedOutput: "e"},
	})
	require.NoError(t, err)
	assert.Equal(t, "done", resp.Output)
	assert.Contains(t, client.prompts[len(client.prompts)-1], "tool not available to this agent: echo")
}

func TestExecuteIterationBudget(t *testing.T) {
	loop := strings.Repeat("```tool:echo\nagain\n```|", 5)
	client := &scriptedClient{replies: strings.Split(strings.TrimSuffix(loop, "|"), "|")}
	runner := newTestRunner(client)

	_, err := runner.Execute(context.Background(), Request{
		Agent: runner.Crew.GetAgent("analyst"),
		Task:  &types.Task{ID: "t", Description: "d", ExpectedOutput: "e"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMaxIterations)
	assert.Len(t, client.prompts, 3)
}

func TestExecuteRetriesModelErrors(t *testing.T) {
	flaky := errors.New("503")
	client := &scriptedClient{errs: []error{flaky, flaky}, replies: []string{"ok"}}
	runner := newTestRunner(client)

	resp, err := runner.Execute(context.Background(), Request{
		Agent: runner.Crew.GetAgent("verifier"),
		Task:  &types.Task{ID: "t", Description: "d", ExpectedOutput: "e"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Output)

	client = &scriptedClient{errs: []error{flaky, flaky, flaky}}
	runner = newTestRunner(client)
	_, err = runner.Execute(context.Background(), Request{
		Agent: runner.Crew.GetAgent("verifier"),
		Task:  &types.Task{ID: "t", Description: "d", ExpectedOutput: "e"},
	})
	assert.ErrorIs(t, err, flaky)
	assert.Contains(t, err.Error(), "failed after 3 attempts")
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner := newTestRunner(&scriptedClient{})

	_, err := runner.Execute(ctx, Request{
		Agent: runner.Crew.GetAgent("verifier"),
		Task:  &types.Task{ID: "t", Description: "d", ExpectedOutput: "e"},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecuteUnknownModel(t *testing.T) {
	runner := newTestRunner(&scriptedClient{})
	a := *runner.Crew.GetAgent("verifier")
	a.Model = "missing"

	_, err := runner.Execute(context.Background(), Request{Agent: &a, Task: &types.Task{ID: "t"}})
	assert.ErrorContains(t, err, "model not found: missing")
}

func TestDelegation(t *testing.T) {
	client := &scriptedClient{replies: []string{
		"```tool:" + DelegateToolName + "\nverifier\nCheck the reporting period.\n```",
		"Period is Q1 2024.",
		"Analysis complete for Q1 2024.",
	}}
	runner := newTestRunner(client)

	resp, err := runner.Execute(context.Background(), Request{
		Agent: runner.Crew.GetAgent("analyst"),
		Task:  &types.Task{ID: "analysis", Description: "d", ExpectedOutput: "e"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Analysis complete for Q1 2024.", resp.Output)

	require.Len(t, client.prompts, 3)
	assert.Contains(t, client.prompts[1], "You are Financial Document Verifier.")
	assert.Contains(t, client.prompts[1], "Current Task: Check the reporting period.")
	assert.NotContains(t, client.prompts[1], DelegateToolName)
	assert.Contains(t, client.prompts[2], "Period is Q1 2024.")
}

type staticMemory []string

func (m staticMemory) Recall(context.Context, string, int) ([]string, error) { return m, nil }

func TestExecuteRecallsMemoryOnlyForMemoryAgents(t *testing.T) {
	client := &scriptedClient{}
	runner := newTestRunner(client)
	mem := staticMemory{"Verifier confirmed the 10-Q."}

	a := *runner.Crew.GetAgent("verifier")
	_, err := runner.Execute(context.Background(), Request{Agent: &a, Task: &types.Task{ID: "t"}, Memory: mem})
	require.NoError(t, err)
	assert.NotContains(t, client.prompts[0], "Verifier confirmed")

	a.Memory = true
	_, err = runner.Execute(context.Background(), Request{Agent: &a, Task: &types.Task{ID: "t"}, Memory: mem})
	require.NoError(t, err)
	assert.Contains(t, client.prompts[1], "- Verifier confirmed the 10-Q.")
}

func TestInterpolate(t *testing.T) {
	inputs := map[string]string{"file_path": "a.pdf", "query": "q"}
	assert.Equal(t, "read a.pdf for q", Interpolate("read {file_path} for {query}", inputs))
	assert.Equal(t, "keep {other}", Interpolate("keep {other}", inputs))
	assert.Equal(t, "x {query}", Interpolate("x {query}", nil))
	assert.Equal(t, []string{"file_path", "query"}, Placeholders("{file_path} {query} {file_path}"))
	assert.Empty(t, Placeholders("no placeholders, {not valid}"))
}

func TestContextManager(t *testing.T) {
	cm := NewContextManager()
	cm.AddOutput(TaskOutput{TaskID: "verification", Output: "valid"})
	cm.AddOutput(TaskOutput{TaskID: "analysis", Output: "growing"})

	ctx := cm.ContextFor([]string{"analysis", "missing", "verification"})
	assert.Equal(t, "Context from previous tasks:\n\n[analysis]:\ngrowing\n\n[verification]:\nvalid\n\n", ctx)
	assert.Empty(t, cm.ContextFor(nil))
}

func TestNewLLMClient(t *testing.T) {
	assert.IsType(t, &GeminiClient{}, NewLLMClient("gemini", "gemini-2.0-flash", "k", ""))
	assert.IsType(t, &ClaudeClient{}, NewLLMClient("anthropic", "claude", "k", ""))
	assert.IsType(t, &OpenAIClient{}, NewLLMClient("openai", "gpt-4o", "k", ""))
	assert.IsType(t, &OpenAIClient{}, NewLLMClient("groq", "llama", "k", ""))
	assert.IsType(t, &OllamaClient{}, NewLLMClient("ollama", "llama3", "", ""))
	assert.IsType(t, &OllamaClient{}, NewLLMClient("somewhere", "x", "", ""))

	assert.Equal(t, "https://api.groq.com/openai/v1/", ResolveEndpoint("groq", ""))
	assert.Equal(t, "https://api.acme.com/v1/", ResolveEndpoint("acme", ""))
	assert.Equal(t, "http://local/v1", ResolveEndpoint("acme", "http://local/v1"))

	assert.False(t, NeedsAPIKey("ollama"))
}
