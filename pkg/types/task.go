package types

type Task struct {
	ID             string   `yaml:"id"`
	Description    string   `yaml:"description"`
	ExpectedOutput string   `yaml:"expected_output"`
	Agent          string   `yaml:"agent"`
	Tools          []string `yaml:"tools,omitempty"`
	Context        []string `yaml:"context,omitempty"` // Prerequisite task IDs, in order
}

// EffectiveTools returns the tools a task may use: its own list when it has
// one, otherwise the assigned agent's.
func (t *Task) EffectiveTools(agent *Agent) []string {
	if len(t.Tools) > 0 {
		return t.Tools
	}
	if agent == nil {
		return nil
	}
	return agent.Tools
}
