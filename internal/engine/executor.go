package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"Fincrew/internal/agent"
	"Fincrew/internal/logging"
	"Fincrew/pkg/types"
)

// RunContext carries the user inputs of one run
type RunContext struct {
	FilePath string
	Query    string
}

// Inputs maps the run context onto template placeholders
func (rc RunContext) Inputs() map[string]string {
	return map[string]string{
		"file_path": rc.FilePath,
		"query":     rc.Query,
	}
}

// TaskResult is the outcome of one task in one run
type TaskResult struct {
	TaskID     string
	AgentID    string
	Role       string
	Output     string
	Iterations int
	Usage      agent.Usage
	StartedAt  time.Time
	FinishedAt time.Time
}

// RunResult holds the task results of a run in completion order
type RunResult struct {
	ID      string
	Context RunContext
	Results []TaskResult
	Stats   *ExecutionStats
}

func (r *RunResult) Get(taskID string) (TaskResult, bool) {
	for _, res := range r.Results {
		if res.TaskID == taskID {
			return res, true
		}
	}
	return TaskResult{}, false
}

// TaskRunner performs a single task with an agent
type TaskRunner interface {
	Execute(ctx context.Context, req agent.Request) (*agent.Response, error)
}

// Memory is a run-scoped store agents can recall from
type Memory interface {
	agent.Recaller
	Remember(ctx context.Context, id, text string, meta map[string]string) error
}

type Option func(*Executor)

// WithPreflight sets the check that runs before any task starts
func WithPreflight(check func(RunContext) error) Option {
	return func(e *Executor) { e.preflight = check }
}

// WithMemory sets the factory that creates a fresh memory for every run
func WithMemory(newMemory func(runID string) (Memory, error)) Option {
	return func(e *Executor) { e.newMemory = newMemory }
}

// WithRunLog sets the factory that opens an execution log for every run. The
// executor closes each log when its run ends.
func WithRunLog(open func(runID string) (logging.RunLogger, error)) Option {
	return func(e *Executor) { e.openRunLog = open }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) { e.logger = l }
}

// OnTaskComplete registers a callback fired after each successful task
func OnTaskComplete(fn func(TaskResult)) Option {
	return func(e *Executor) { e.onComplete = fn }
}

type Executor struct {
	Crew   *types.CrewConfig
	Graph  *TaskGraph
	Runner TaskRunner

	preflight  func(RunContext) error
	newMemory  func(runID string) (Memory, error)
	openRunLog func(runID string) (logging.RunLogger, error)
	logger     *slog.Logger
	onComplete func(TaskResult)

	mu    sync.Mutex
	state *State
}

// NewExecutor validates the crew's task graph and agent references
func NewExecutor(crew *types.CrewConfig, runner TaskRunner, opts ...Option) (*Executor, error) {
	if crew == nil {
		return nil, invalidf("no crew")
	}
	graph, err := NewTaskGraph(crew.Tasks)
	if err != nil {
		return nil, err
	}
	for _, t := range crew.Tasks {
		if t.Agent == "" {
			return nil, invalidf("task %q has no agent", t.ID)
		}
		if crew.GetAgent(t.Agent) == nil {
			return nil, invalidf("task %q uses unknown agent %q", t.ID, t.Agent)
		}
	}

	e := &Executor{
		Crew:   crew,
		Graph:  graph,
		Runner: runner,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// GetState returns the state of the most recent run
func (e *Executor) GetState() *State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// run holds everything that belongs to a single Run call
type run struct {
	result *RunResult
	board  *agent.ContextManager
	state  *State
	memory Memory
	inputs map[string]string
	log    logging.RunLogger
	mu     sync.Mutex
}

// Run executes every task of the crew once. On a task failure the partial
// result is returned together with a *TaskFailure.
func (e *Executor) Run(ctx context.Context, rc RunContext) (*RunResult, error) {
	if e.preflight != nil {
		if err := e.preflight(rc); err != nil {
			return nil, err
		}
	}

	r := &run{
		result: &RunResult{
			ID:      uuid.NewString(),
			Context: rc,
			Stats:   NewExecutionStats(),
		},
		board:  agent.NewContextManager(),
		state:  NewState(e.Graph.TopologicalOrder()),
		inputs: rc.Inputs(),
		log:    &logging.NullLogger{},
	}

	if e.openRunLog != nil {
		l, err := e.openRunLog(r.result.ID)
		if err != nil {
			e.logger.Warn("execution log unavailable", "error", err)
		} else {
			r.log = l
			defer l.Close()
		}
	}

	if e.newMemory != nil {
		mem, err := e.newMemory(r.result.ID)
		if err != nil {
			e.logger.Warn("crew memory unavailable", "error", err)
		} else {
			r.memory = mem
		}
	}

	e.mu.Lock()
	e.state = r.state
	e.mu.Unlock()

	e.logger.Info("run started", "run", r.result.ID, "tasks", e.Graph.Len(), "process", e.process())
	r.log.LogSection(fmt.Sprintf("RUN %s", r.result.ID))
	r.log.Log("File: %s", rc.FilePath)
	r.log.Log("Query: %s", rc.Query)

	var err error
	if e.Crew.IsParallel() {
		err = e.runWaves(ctx, r)
	} else {
		err = e.runSequential(ctx, r)
	}
	if err != nil {
		r.state.SkipPending()
		r.log.LogError(err)
		e.logger.Error("run failed", "run", r.result.ID, "error", err)
		return r.result, err
	}

	e.logger.Info("run completed", "run", r.result.ID, "elapsed", r.result.Stats.GetElapsedTime())
	return r.result, nil
}

func (e *Executor) process() string {
	if e.Crew.IsParallel() {
		return types.ProcessParallel
	}
	return types.ProcessSequential
}

func (e *Executor) runSequential(ctx context.Context, r *run) error {
	for _, id := range e.Graph.TopologicalOrder() {
		if err := e.runTask(ctx, r, id); err != nil {
			return err
		}
	}
	return nil
}

// runWaves starts every ready task at once and waits for the whole wave. A
// failing task does not cancel its siblings; the next wave never starts.
func (e *Executor) runWaves(ctx context.Context, r *run) error {
	done := make(map[string]bool, e.Graph.Len())
	for wave := e.Graph.Ready(done); len(wave) > 0; wave = e.Graph.Ready(done) {
		var g errgroup.Group
		for _, id := range wave {
			g.Go(func() error {
				return e.runTask(ctx, r, id)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		for _, id := range wave {
			done[id] = true
		}
	}
	return nil
}

func (e *Executor) runTask(ctx context.Context, r *run, taskID string) error {
	task := e.Crew.GetTask(taskID)
	a := e.Crew.GetAgent(task.Agent)

	model := a.Model
	if m, ok := e.Crew.Models[a.Model]; ok {
		model = m.Model
	}

	r.state.Start(taskID)
	r.result.Stats.StartTask(taskID, a.ID, model)
	r.log.LogTask(taskID, "STARTED", a.Role)
	e.logger.Info("task started", "task", taskID, "agent", a.ID)

	started := time.Now()
	req := agent.Request{
		Agent:   a,
		Task:    task,
		Inputs:  r.inputs,
		Context: r.board.ContextFor(task.Context),
		Log:     r.log,
	}
	if r.memory != nil {
		req.Memory = r.memory
	}

	resp, err := e.Runner.Execute(ctx, req)
	if err != nil {
		failure := &TaskFailure{TaskID: taskID, AgentID: a.ID, Err: err}
		r.state.Fail(taskID, failure)
		r.log.LogTask(taskID, "FAILED", err.Error())
		if blocked := e.Graph.Dependents(taskID); len(blocked) > 0 {
			e.logger.Warn("dependent tasks will not run", "task", taskID, "blocked", blocked)
		}
		return failure
	}

	res := TaskResult{
		TaskID:     taskID,
		AgentID:    a.ID,
		Role:       a.Role,
		Output:     resp.Output,
		Iterations: resp.Iterations,
		Usage:      resp.Usage,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}

	r.board.AddOutput(agent.TaskOutput{
		TaskID:    taskID,
		AgentID:   a.ID,
		Role:      a.Role,
		Output:    resp.Output,
		Timestamp: res.FinishedAt,
	})

	r.mu.Lock()
	r.result.Results = append(r.result.Results, res)
	r.mu.Unlock()

	r.state.Complete(taskID)
	r.result.Stats.CompleteTask(taskID, resp.Iterations, resp.Usage)
	r.log.LogTaskOutput(taskID, a.Role, resp.Output)
	e.logger.Info("task completed", "task", taskID, "iterations", resp.Iterations)

	if r.memory != nil {
		meta := map[string]string{"task": taskID, "agent": a.ID}
		if err := r.memory.Remember(ctx, taskID, resp.Output, meta); err != nil {
			e.logger.Warn("could not store task output in memory", "task", taskID, "error", err)
		}
	}

	if e.onComplete != nil {
		e.onComplete(res)
	}
	return nil
}
