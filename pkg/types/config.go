package types

const (
	ProcessSequential = "sequential"
	ProcessParallel   = "parallel"
)

// Model binds a logical model name used by agents to a provider.
type Model struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
}

// MCPServerConfig defines an MCP server configuration
type MCPServerConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
	Env     []string `yaml:"env,omitempty"`
}

// CrewConfig is the full declaration of a crew: who works, on what, with which
// models.
type CrewConfig struct {
	Name       string                     `yaml:"name,omitempty"`
	Process    string                     `yaml:"process,omitempty"`
	Agents     []Agent                    `yaml:"agents"`
	Tasks      []Task                     `yaml:"tasks"`
	Models     map[string]Model           `yaml:"models,omitempty"`
	MCPServers map[string]MCPServerConfig `yaml:"mcp_servers,omitempty"`
}

func (c *CrewConfig) GetAgent(id string) *Agent {
	for i := range c.Agents {
		if c.Agents[i].ID == id {
			return &c.Agents[i]
		}
	}
	return nil
}

func (c *CrewConfig) GetTask(id string) *Task {
	for i := range c.Tasks {
		if c.Tasks[i].ID == id {
			return &c.Tasks[i]
		}
	}
	return nil
}

func (c *CrewConfig) IsParallel() bool {
	return c.Process == ProcessParallel
}
