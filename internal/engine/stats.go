package engine

import (
	"sync"
	"time"

	"Fincrew/internal/agent"
)

// ModelPricing stores cost per 1M tokens (input/output)
var ModelPricing = map[string]struct{ Input, Output float64 }{
	"gpt-4o":           {2.50, 10.00},
	"gpt-4o-mini":      {0.15, 0.60},
	"gpt-4-turbo":      {10.00, 30.00},
	"gpt-3.5-turbo":    {0.50, 1.50},
	"gemini-2.0-flash": {0.10, 0.40},
	"gemini-1.5-pro":   {1.25, 5.00},
}

// ExecutionStats tracks timing and cost for a crew run
type ExecutionStats struct {
	mu          sync.Mutex
	StartTime   time.Time
	TaskStats   map[string]*TaskStat
	TotalTokens agent.Usage
}

// TaskStat tracks per-task statistics
type TaskStat struct {
	TaskID     string
	AgentID    string
	Model      string
	StartTime  time.Time
	Duration   time.Duration
	Iterations int
	Usage      agent.Usage
	Completed  bool
}

func NewExecutionStats() *ExecutionStats {
	return &ExecutionStats{
		StartTime: time.Now(),
		TaskStats: make(map[string]*TaskStat),
	}
}

// StartTask marks a task as started
func (s *ExecutionStats) StartTask(taskID, agentID, model string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.TaskStats[taskID] = &TaskStat{
		TaskID:    taskID,
		AgentID:   agentID,
		Model:     model,
		StartTime: time.Now(),
	}
}

// CompleteTask marks a task as completed with its usage
func (s *ExecutionStats) CompleteTask(taskID string, iterations int, usage agent.Usage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stat, ok := s.TaskStats[taskID]; ok {
		stat.Duration = time.Since(stat.StartTime)
		stat.Iterations = iterations
		stat.Usage = usage
		stat.Completed = true

		s.TotalTokens.Add(usage)
	}
}

// GetElapsedTime returns total elapsed time
func (s *ExecutionStats) GetElapsedTime() time.Duration {
	return time.Since(s.StartTime)
}

// GetCompletedCount returns number of completed tasks
func (s *ExecutionStats) GetCompletedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, stat := range s.TaskStats {
		if stat.Completed {
			count++
		}
	}
	return count
}

// EstimateCost calculates estimated cost based on token usage and model.
// Models without a known price count as free.
func (s *ExecutionStats) EstimateCost() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var totalCost float64
	for _, stat := range s.TaskStats {
		totalCost += EstimateCost(stat.Model, stat.Usage)
	}
	return totalCost
}

// EstimateCost calculates cost based on token counts
func EstimateCost(model string, usage agent.Usage) float64 {
	p, ok := ModelPricing[model]
	if !ok {
		return 0
	}
	inputCost := float64(usage.InputTokens) / 1000000 * p.Input
	outputCost := float64(usage.OutputTokens) / 1000000 * p.Output
	return inputCost + outputCost
}
