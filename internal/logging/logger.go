package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// RunLogger records the events of a single crew run
type RunLogger interface {
	Log(format string, args ...interface{})
	LogTask(taskID, event, details string)
	LogSection(title string)
	LogTaskOutput(taskID, role, output string)
	LogError(err error)
	LogToolCall(toolName, input, output string)
	Close() error
	GetFilePath() string
}

const boxWidth = 62

// Logger writes the timeline of one run to a file. Entries are stamped with
// the time elapsed since the run started; Close appends a summary.
type Logger struct {
	mu       sync.Mutex
	file     *os.File
	filePath string
	runID    string
	started  time.Time

	taskStart map[string]time.Time
	reports   int
	failures  int
	toolCalls int
	errors    int
}

// NewLogger creates <logDir>/<timestamp>_<runID>.log
func NewLogger(runID string, logDir string) (*Logger, error) {
	if logDir == "" {
		home, _ := os.UserHomeDir()
		logDir = filepath.Join(home, ".fincrew", "logs")
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	now := time.Now()
	filePath := filepath.Join(logDir, fmt.Sprintf("%s_%s.log", now.Format("2006-01-02_15-04-05"), runID))
	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	l := &Logger{
		file:      file,
		filePath:  filePath,
		runID:     runID,
		started:   now,
		taskStart: make(map[string]time.Time),
	}
	l.write(box("FINCREW RUN LOG",
		"Run:     "+runID,
		"Started: "+now.Format("2006-01-02 15:04:05"),
	) + "\n")
	return l, nil
}

// box renders a titled frame around lines
func box(title string, lines ...string) string {
	var sb strings.Builder
	rule := strings.Repeat("═", boxWidth)
	fmt.Fprintf(&sb, "╔%s╗\n", rule)
	pad := (boxWidth - len(title)) / 2
	fmt.Fprintf(&sb, "║%s%-*s║\n", strings.Repeat(" ", pad), boxWidth-pad, title)
	fmt.Fprintf(&sb, "╠%s╣\n", rule)
	for _, line := range lines {
		fmt.Fprintf(&sb, "║  %-*s║\n", boxWidth-2, line)
	}
	fmt.Fprintf(&sb, "╚%s╝\n", rule)
	return sb.String()
}

// write appends s unless the log is closed. Callers must not hold l.mu.
func (l *Logger) write(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		l.file.WriteString(s)
	}
}

func (l *Logger) stamp() string {
	d := time.Since(l.started)
	return fmt.Sprintf("+%02d:%04.1f", int(d.Minutes()), d.Seconds()-float64(int(d.Minutes())*60))
}

// Log appends a timeline entry
func (l *Logger) Log(format string, args ...interface{}) {
	l.write(fmt.Sprintf("[%s] %s\n", l.stamp(), fmt.Sprintf(format, args...)))
}

// LogTask records a task event. A task's first event starts its clock and
// later events report the time spent on it.
func (l *Logger) LogTask(taskID, event, details string) {
	l.mu.Lock()
	start, seen := l.taskStart[taskID]
	if !seen {
		l.taskStart[taskID] = time.Now()
	}
	if strings.EqualFold(event, "FAILED") {
		l.failures++
	}
	l.mu.Unlock()

	if seen {
		l.Log("[%s] %s after %s: %s", taskID, event, time.Since(start).Round(time.Millisecond), details)
		return
	}
	l.Log("[%s] %s: %s", taskID, event, details)
}

// LogSection writes a section header
func (l *Logger) LogSection(title string) {
	rule := strings.Repeat("─", boxWidth)
	l.write(fmt.Sprintf("\n%s\n  %s\n%s\n\n", rule, title, rule))
}

// LogTaskOutput writes a task's report in full
func (l *Logger) LogTaskOutput(taskID, role, output string) {
	l.mu.Lock()
	l.reports++
	l.mu.Unlock()

	header := box("REPORT: "+taskID,
		"Role:  "+role,
		fmt.Sprintf("Words: %d", len(strings.Fields(output))),
	)
	l.write("\n" + header + strings.TrimRight(output, "\n") + "\n\n")
}

func (l *Logger) LogError(err error) {
	l.mu.Lock()
	l.errors++
	l.mu.Unlock()
	l.Log("ERROR: %v", err)
}

// LogToolCall records a tool invocation with its input and a preview of
// the output.
func (l *Logger) LogToolCall(toolName, input, output string) {
	l.mu.Lock()
	l.toolCalls++
	l.mu.Unlock()
	l.Log("TOOL [%s] Input: %s", toolName, truncate(input, 100))
	l.Log("TOOL [%s] Output: %s", toolName, truncate(output, 200))
}

// Close writes the run summary and closes the file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}

	l.file.WriteString("\n" + box("RUN SUMMARY",
		"Run:       "+l.runID,
		fmt.Sprintf("Reports:   %d", l.reports),
		fmt.Sprintf("Failed:    %d", l.failures),
		fmt.Sprintf("Tools:     %d", l.toolCalls),
		fmt.Sprintf("Errors:    %d", l.errors),
		"Duration:  "+time.Since(l.started).Round(time.Millisecond).String(),
		"Completed: "+time.Now().Format("2006-01-02 15:04:05"),
	))

	err := l.file.Close()
	l.file = nil
	return err
}

func (l *Logger) GetFilePath() string {
	return l.filePath
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// NullLogger is a no-op logger when logging is disabled
type NullLogger struct{}

func (n *NullLogger) Log(format string, args ...interface{})     {}
func (n *NullLogger) LogTask(taskID, event, details string)      {}
func (n *NullLogger) LogSection(title string)                    {}
func (n *NullLogger) LogTaskOutput(taskID, role, output string)  {}
func (n *NullLogger) LogError(err error)                         {}
func (n *NullLogger) LogToolCall(toolName, input, output string) {}
func (n *NullLogger) Close() error                               { return nil }
func (n *NullLogger) GetFilePath() string                        { return "" }

var (
	_ RunLogger = (*Logger)(nil)
	_ RunLogger = (*NullLogger)(nil)
)
