/*
Copyright © 2026 Fincrew Authors
*/
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"Fincrew/internal/agent"
	"Fincrew/internal/config"
	"Fincrew/internal/engine"
	"Fincrew/internal/logging"
	"Fincrew/internal/mcp"
	"Fincrew/internal/memory"
	"Fincrew/internal/parser"
	"Fincrew/internal/tools"
	"Fincrew/internal/vectorstore"
	"Fincrew/pkg/types"

	"github.com/spf13/cobra"
)

const DefaultQuery = "Analyze this financial document for investment insights"

var (
	filePath      string
	query         string
	crewFile      string
	useProvider   string
	useModel      string
	enableLogging bool
	parallel      bool
	crewMemory    bool
	outDir        string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Analyze a financial document",
	Long: `Run executes the crew over a financial document: the document is
verified, analyzed, and turned into an investment report and a risk report.

Inputs:
  --file <path>     Document to analyze (default data/sample.pdf)
  --query <text>    Question the analysis should answer

Crew Options:
  --crew <file>     Run a crew defined in YAML instead of the built-in one
  --parallel        Run independent tasks concurrently
  --memory          Let agents recall earlier outputs of the run (needs an embedding provider)

Model Override:
  --use-provider    Override provider for all agents (e.g., ollama, openai)
  --use-model       Override model name for all agents

Output:
  --out <dir>       Also write each report to <dir>/<task id>.md
  --log             Enable file-based execution logging

Examples:
  fincrew run --file reports/q1.pdf
  fincrew run --file q1.pdf --query "Is the dividend sustainable?"
  fincrew run --use-provider ollama --use-model llama3
  fincrew run --crew crews/earnings.yaml --out reports/`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runCrew(cmd.Context()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			printErrorTips(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&filePath, "file", "f", tools.DefaultDocument, "Financial document to analyze")
	runCmd.Flags().StringVarP(&query, "query", "q", DefaultQuery, "Question the analysis should answer")
	runCmd.Flags().StringVar(&crewFile, "crew", "", "Crew definition file (default is the built-in crew)")
	runCmd.Flags().StringVar(&useProvider, "use-provider", "", "Override provider for all agents (e.g., ollama, gemini)")
	runCmd.Flags().StringVar(&useModel, "use-model", "", "Override model for all agents (e.g., llama3, gpt-4o-mini)")
	runCmd.Flags().BoolVar(&enableLogging, "log", false, "Enable file-based execution logging")
	runCmd.Flags().BoolVar(&parallel, "parallel", false, "Run independent tasks concurrently")
	runCmd.Flags().BoolVar(&crewMemory, "memory", false, "Enable crew memory for agents that use it")
	runCmd.Flags().StringVarP(&outDir, "out", "o", "", "Directory to write one Markdown report per task")
}

func runCrew(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	cfg := loadSettings()
	logger := logging.Console(verbose)

	c, err := loadCrew(crewFile)
	if err != nil {
		return err
	}
	if parallel {
		c.Process = types.ProcessParallel
	}
	if crewFile == "" {
		applyOverrides(c, cfg.Provider, cfg.Model)
	}
	for _, note := range applyOverrides(c, useProvider, useModel) {
		fmt.Println("⚡ " + note)
	}

	registry, doc := buildRegistry(cfg)
	if err := doc.Check(filePath); err != nil {
		return err
	}

	if len(c.MCPServers) > 0 {
		client := mcp.NewClient(logger)
		defer client.Close()
		if err := mcp.ConnectAll(ctx, client, registry, c.MCPServers); err != nil {
			return err
		}
		for _, line := range describeMCPServers(client.ListServerNames(), registry) {
			fmt.Println("🔌 " + line)
		}
	}

	if err := parser.Validate(c, registry.ListNames()); err != nil {
		return fmt.Errorf("invalid crew: %w", err)
	}
	if err := ensureAPIKeys(c, cfg, os.Stdin, os.Stdout); err != nil {
		return err
	}

	runner := agent.NewRunner(c, registry)
	runner.Logger = logger

	var runLog *logging.Logger
	var done atomic.Int32
	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithPreflight(func(rc engine.RunContext) error { return doc.Check(rc.FilePath) }),
		engine.OnTaskComplete(func(r engine.TaskResult) {
			n := int(done.Add(1))
			fmt.Printf("%s✓%s %-32s %s %s\n", ColorGreen, ColorReset, r.TaskID,
				ProgressBar(n, len(c.Tasks), 20),
				ColorDim+FormatDuration(r.FinishedAt.Sub(r.StartedAt).Seconds())+ColorReset)
		}),
	}
	if enableLogging {
		opts = append(opts, engine.WithRunLog(func(runID string) (logging.RunLogger, error) {
			l, err := logging.NewLogger(runID, cfg.LogsDir())
			if err != nil {
				return nil, err
			}
			runLog = l
			fmt.Printf("📝 Logging execution to: %s\n", l.GetFilePath())
			return l, nil
		}))
	}
	if crewMemory {
		ef, err := embeddingFunc(cfg)
		if err != nil {
			fmt.Printf("⚠️  Crew memory disabled: %v\n", err)
		} else {
			opts = append(opts, engine.WithMemory(func(runID string) (engine.Memory, error) {
				return vectorstore.NewRunMemory(runID, ef)
			}))
		}
	}

	executor, err := engine.NewExecutor(c, runner, opts...)
	if err != nil {
		return err
	}

	fmt.Println()
	printBox(ColorGreen, "🚀 STARTING CREW 🚀")
	fmt.Printf("\n  📄 Document: %s\n  💬 Query:    %s\n\n", filePath, query)
	printPlan(c, executor.Graph)

	result, runErr := executor.Run(ctx, engine.RunContext{FilePath: filePath, Query: query})
	if result == nil {
		return runErr
	}

	archived := archiveRun(ctx, cfg, crewName(c), result, runErr)
	if runErr != nil {
		if len(result.Results) > 0 {
			printResults(result)
		}
		printTaskStates(executor.GetState())
		if archived != "" {
			fmt.Printf("💾 Partial run saved: %s\n", archived)
		}
		return runErr
	}

	fmt.Println()
	printBox(ColorCyan, "✨ ANALYSIS COMPLETE ✨")
	printResults(result)

	if outDir != "" {
		paths, err := writeReports(outDir, c, result)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Printf("📁 Wrote %s\n", p)
		}
	}

	printStats(result, archived)
	if runLog != nil {
		fmt.Printf("📝 Execution log: %s\n", runLog.GetFilePath())
	}
	return nil
}

func crewName(c *types.CrewConfig) string {
	if c.Name != "" {
		return c.Name
	}
	if crewFile != "" {
		return filepath.Base(crewFile)
	}
	return "default"
}

// archiveRun saves the run, indexes it for search when embeddings are
// configured and prunes old runs. It returns the saved run ID.
func archiveRun(ctx context.Context, cfg *config.Config, name string, result *engine.RunResult, runErr error) string {
	archive := memory.NewArchive(cfg.RunsDir())
	run := memory.FromResult(name, result, runErr)
	if err := archive.Save(run); err != nil {
		fmt.Printf("Warning: Could not save run: %v\n", err)
		return ""
	}

	if cfg.Embedding != "" && len(run.Results) > 0 {
		if ef, err := embeddingFunc(cfg); err == nil {
			if store, err := vectorstore.Open(cfg.VectorDir(), ef); err == nil {
				indexCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
				fmt.Print("🧠 Indexing run...")
				if err := vectorstore.IndexRun(indexCtx, store, run); err != nil {
					fmt.Printf(" failed: %v\n", err)
				} else {
					fmt.Println(" done.")
				}
				cancel()
				store.Close()
			}
		}
	}

	if _, err := archive.Cleanup(); err != nil {
		fmt.Printf("Warning: Could not clean up old runs: %v\n", err)
	}
	return run.ID
}

func printResults(result *engine.RunResult) {
	for i, r := range result.Results {
		fmt.Println()
		fmt.Printf("%s%s %s%s %s(%s)%s\n", ColorBold, GetAgentEmoji(i), r.Role, ColorReset, ColorDim, r.TaskID, ColorReset)
		fmt.Println(strings.Repeat("─", 80))
		fmt.Println(r.Output)
	}
	fmt.Println()
}

func printStats(result *engine.RunResult, runID string) {
	stats := result.Stats
	fmt.Println(ColorGreen + strings.Repeat("═", 80) + ColorReset)
	if runID != "" {
		fmt.Printf("  💾 Run:    %s%s%s\n", ColorBold, runID, ColorReset)
	}
	fmt.Printf("  ⏱️  Time:   %s\n", FormatDuration(stats.GetElapsedTime().Seconds()))
	fmt.Printf("  🔢 Tokens: %d in / %d out\n", stats.TotalTokens.InputTokens, stats.TotalTokens.OutputTokens)
	if cost := stats.EstimateCost(); cost > 0 {
		fmt.Printf("  💰 Est. Cost: %s$%.6f%s\n", ColorYellow, cost, ColorReset)
	}
	fmt.Println(ColorGreen + strings.Repeat("═", 80) + ColorReset)
}

func printTaskStates(state *engine.State) {
	if state == nil {
		return
	}
	for _, ts := range state.Snapshot() {
		mark, color := "•", ColorDim
		switch ts.State {
		case engine.StateCompleted:
			mark, color = "✓", ColorGreen
		case engine.StateFailed:
			mark, color = "✗", ColorRed
		}
		fmt.Printf("  %s %-32s %s\n", ColorText(mark, color), ts.ID, ColorText(ts.State.String(), color))
	}
	fmt.Println()
}

// writeReports writes one Markdown file per task result
func writeReports(dir string, c *types.CrewConfig, result *engine.RunResult) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	paths := make([]string, 0, len(result.Results))
	for _, r := range result.Results {
		var sb strings.Builder
		fmt.Fprintf(&sb, "# %s\n\n", r.Role)
		if t := c.GetTask(r.TaskID); t != nil && len(t.Context) > 0 {
			fmt.Fprintf(&sb, "_Based on: %s_\n\n", strings.Join(t.Context, ", "))
		}
		sb.WriteString(strings.TrimSpace(r.Output))
		sb.WriteString("\n")

		path := filepath.Join(dir, r.TaskID+".md")
		if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
			return paths, fmt.Errorf("writing %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func printErrorTips(err error) {
	var fileErr *tools.FileAccessError
	if errors.As(err, &fileErr) {
		fmt.Println("\n💡 Check the --file path; the document must exist and be a readable PDF.")
		return
	}

	msg := err.Error()
	if strings.Contains(msg, "QUOTA_EXCEEDED") {
		fmt.Println("\n╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("║  💡 QUOTA EXCEEDED - Switch to a different model          ║")
		fmt.Println("╠═══════════════════════════════════════════════════════════╣")
		fmt.Println("║  Try one of these:                                        ║")
		fmt.Println("║  --use-provider openai --use-model gpt-4o-mini            ║")
		fmt.Println("║  --use-provider ollama --use-model llama3                 ║")
		fmt.Println("╚═══════════════════════════════════════════════════════════╝")
	}
	if strings.Contains(msg, "API_KEY") || strings.Contains(msg, "invalid_api_key") || strings.Contains(msg, "API key") {
		fmt.Println("\n╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("║  🔑 API KEY ERROR - Check your credentials                ║")
		fmt.Println("╠═══════════════════════════════════════════════════════════╣")
		fmt.Println("║  1. Set env: export GEMINI_API_KEY='...'                  ║")
		fmt.Println("║  2. Set env: export OPENAI_API_KEY='...'                  ║")
		fmt.Println("║  3. Save it: fincrew config --api '...' --provider gemini ║")
		fmt.Println("╚═══════════════════════════════════════════════════════════╝")
	}
}
