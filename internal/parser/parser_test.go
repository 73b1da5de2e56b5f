package parser

import (
	"os"
	"path/filepath"
	"testing"

	"Fincrew/internal/crew"
	"Fincrew/internal/engine"
	"Fincrew/internal/tools"
	"Fincrew/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var builtinTools = []string{tools.DocumentToolName, tools.SearchToolName, tools.CalcToolName}

const sampleCrew = `
name: earnings-review
process: parallel
models:
  fast:
    provider: openai
    model: gpt-4o-mini
mcp_servers:
  filings:
    command: filings-mcp
    args: ["--stdio"]
agents:
  - id: reader
    model: fast
    role: Filing Reader
    goal: Summarize {file_path}
    tools: [read_financial_document, filings.lookup]
  - id: writer
    role: Report Writer
    goal: Answer {query}
    max_iter: 4
tasks:
  - id: read
    description: Read {file_path}
    expected_output: A summary
    agent: reader
  - id: write
    description: Write the report for {query}
    expected_output: A report
    agent: writer
    tools: [calculator]
    context: [read]
`

func TestParseAppliesDefaults(t *testing.T) {
	c, err := Parse([]byte(sampleCrew))
	require.NoError(t, err)

	assert.Equal(t, "earnings-review", c.Name)
	assert.True(t, c.IsParallel())
	require.Len(t, c.Agents, 2)
	assert.Equal(t, types.DefaultMaxIter, c.GetAgent("reader").MaxIter)
	assert.Equal(t, 4, c.GetAgent("writer").MaxIter)
	assert.Equal(t, crew.DefaultModel, c.GetAgent("writer").Model)
	assert.Equal(t, crew.DefaultModelName, c.Models[crew.DefaultModel].Model)
	assert.Equal(t, []string{"read"}, c.GetTask("write").Context)
	assert.Equal(t, []string{"--stdio"}, c.MCPServers["filings"].Args)

	assert.NoError(t, Validate(c, builtinTools))
}

func TestParseDefaultProcess(t *testing.T) {
	c, err := Parse([]byte("agents: []\ntasks: []\n"))
	require.NoError(t, err)
	assert.Equal(t, types.ProcessSequential, c.Process)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("agents: []\nworkflow:\n  type: sequential\n"))
	assert.Error(t, err)
}

func TestParseYAMLMissingFile(t *testing.T) {
	_, err := ParseYAML(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crew.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleCrew), 0644))

	c, err := ParseYAML(path)
	require.NoError(t, err)
	assert.Len(t, c.Tasks, 2)
}

func TestValidateBuiltinCrew(t *testing.T) {
	assert.NoError(t, Validate(crew.Default(), builtinTools))
}

func TestValidateReportsProblems(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *types.CrewConfig)
		want   string
	}{
		{"unknown agent", func(c *types.CrewConfig) { c.Tasks[0].Agent = "ghost" }, `unknown agent "ghost"`},
		{"unknown tool", func(c *types.CrewConfig) { c.Agents[0].Tools = []string{"shell"} }, `unknown tool "shell"`},
		{"undeclared mcp server", func(c *types.CrewConfig) { c.Tasks[1].Tools = []string{"edgar.search"} }, `unknown tool "edgar.search"`},
		{"unknown placeholder", func(c *types.CrewConfig) { c.Tasks[0].Description += " {ticker}" }, "{ticker}"},
		{"undefined model", func(c *types.CrewConfig) { c.Agents[1].Model = "huge" }, `undefined model "huge"`},
		{"bad process", func(c *types.CrewConfig) { c.Process = "hierarchical" }, `unknown process "hierarchical"`},
		{"missing description", func(c *types.CrewConfig) { c.Tasks[2].Description = "" }, "has no description"},
		{"cycle", func(c *types.CrewConfig) { c.Tasks[0].Context = []string{crew.RiskReport} }, engine.ErrCycle.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := crew.Default()
			tt.mutate(c)
			err := Validate(c, builtinTools)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateCycleIsDetectable(t *testing.T) {
	c := crew.Default()
	c.Tasks[0].Context = []string{crew.InvestmentReport}

	err := Validate(c, builtinTools)
	assert.ErrorIs(t, err, engine.ErrCycle)
}
