package agent

import (
	"context"
	"fmt"
	"strings"

	"Fincrew/pkg/types"
)

const DelegateToolName = "delegate_work"

// delegateTool lets an agent hand a sub-task to a coworker. The coworker
// works with its own tools and cannot delegate further.
type delegateTool struct {
	runner    *Runner
	parent    Request
	coworkers []*types.Agent
}

func (r *Runner) delegateTool(parent Request) *delegateTool {
	if r.Crew == nil {
		return nil
	}
	var coworkers []*types.Agent
	for i := range r.Crew.Agents {
		if r.Crew.Agents[i].ID != parent.Agent.ID {
			coworkers = append(coworkers, &r.Crew.Agents[i])
		}
	}
	if len(coworkers) == 0 {
		return nil
	}
	return &delegateTool{runner: r, parent: parent, coworkers: coworkers}
}

func (d *delegateTool) Name() string {
	return DelegateToolName
}

func (d *delegateTool) Description() string {
	names := make([]string, 0, len(d.coworkers))
	for _, c := range d.coworkers {
		names = append(names, fmt.Sprintf("%s (%s)", c.ID, c.Role))
	}
	return "Delegate a specific sub-task to a coworker. The first line of the input is the coworker id, " +
		"the following lines describe the task with all the context the coworker needs. Coworkers: " +
		strings.Join(names, ", ") + "."
}

func (d *delegateTool) Execute(ctx context.Context, input string) (string, error) {
	id, task, _ := strings.Cut(strings.TrimSpace(input), "\n")
	id = strings.TrimSpace(id)
	task = strings.TrimSpace(task)
	if task == "" {
		return "", fmt.Errorf("delegation needs a coworker id and a task description")
	}

	var coworker *types.Agent
	for _, c := range d.coworkers {
		if c.ID == id || strings.EqualFold(c.Role, id) {
			coworker = c
			break
		}
	}
	if coworker == nil {
		return "", fmt.Errorf("unknown coworker: %s", id)
	}

	resp, err := d.runner.Execute(ctx, Request{
		Agent: coworker,
		Task: &types.Task{
			ID:             d.parent.Task.ID + "/" + coworker.ID,
			Description:    task,
			ExpectedOutput: "A complete, self-contained answer to the delegated task.",
			Tools:          coworker.Tools,
		},
		Inputs: d.parent.Inputs,
		Memory: d.parent.Memory,
		Log:    d.parent.Log,
		nested: true,
	})
	if err != nil {
		return "", err
	}
	return resp.Output, nil
}
