package agent

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// TaskOutput is the final answer an agent produced for a task
type TaskOutput struct {
	TaskID    string
	AgentID   string
	Role      string
	Output    string
	Timestamp time.Time
}

// ContextManager collects task outputs for one run and hands them to the
// tasks that depend on them.
type ContextManager struct {
	mu      sync.RWMutex
	history []TaskOutput
	byTask  map[string]int
}

func NewContextManager() *ContextManager {
	return &ContextManager{
		history: []TaskOutput{},
		byTask:  make(map[string]int),
	}
}

func (cm *ContextManager) AddOutput(out TaskOutput) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if out.Timestamp.IsZero() {
		out.Timestamp = time.Now()
	}
	cm.byTask[out.TaskID] = len(cm.history)
	cm.history = append(cm.history, out)
}

// ContextFor renders the outputs of the given tasks, in the given order.
// Tasks without an output are skipped.
func (cm *ContextManager) ContextFor(taskIDs []string) string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	var sb strings.Builder
	for _, id := range taskIDs {
		i, ok := cm.byTask[id]
		if !ok {
			continue
		}
		if sb.Len() == 0 {
			sb.WriteString("Context from previous tasks:\n\n")
		}
		out := cm.history[i]
		fmt.Fprintf(&sb, "[%s]:\n%s\n\n", out.TaskID, out.Output)
	}

	return sb.String()
}
