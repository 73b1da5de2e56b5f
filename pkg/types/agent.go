package types

// DefaultMaxIter is the iteration budget of an agent that does not declare one.
const DefaultMaxIter = 15

type Agent struct {
	ID              string   `yaml:"id"`
	Model           string   `yaml:"model"`
	Role            string   `yaml:"role"`
	Goal            string   `yaml:"goal"`
	Backstory       string   `yaml:"backstory,omitempty"`
	Tools           []string `yaml:"tools,omitempty"`
	MaxIter         int      `yaml:"max_iter,omitempty"`
	AllowDelegation bool     `yaml:"allow_delegation,omitempty"`
	Memory          bool     `yaml:"memory,omitempty"` // Recall earlier outputs of the run
}

// Budget returns the maximum number of reasoning rounds the agent may take.
func (a *Agent) Budget() int {
	if a.MaxIter > 0 {
		return a.MaxIter
	}
	return DefaultMaxIter
}

func (a *Agent) HasTool(name string) bool {
	for _, t := range a.Tools {
		if t == name {
			return true
		}
	}
	return false
}
