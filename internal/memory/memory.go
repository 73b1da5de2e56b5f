// Package memory archives finished runs as JSON files.
package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"Fincrew/internal/engine"
)

const (
	MaxRuns    = 50
	ExpiryDays = 30
)

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

var ErrRunNotFound = errors.New("run not found")

type Result struct {
	TaskID       string    `json:"task_id"`
	AgentID      string    `json:"agent_id"`
	Role         string    `json:"role"`
	Output       string    `json:"output"`
	Iterations   int       `json:"iterations"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
}

// Run is the archived record of one crew execution
type Run struct {
	ID        string    `json:"id"`
	Crew      string    `json:"crew"`
	FilePath  string    `json:"file_path"`
	Query     string    `json:"query"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	Cost      float64   `json:"cost,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Results   []Result  `json:"results"`
}

// FromResult records a run outcome. runErr is the error Run returned, if any.
func FromResult(crewName string, res *engine.RunResult, runErr error) *Run {
	now := time.Now()
	run := &Run{
		ID:        res.ID,
		Crew:      crewName,
		FilePath:  res.Context.FilePath,
		Query:     res.Context.Query,
		Status:    StatusCompleted,
		CreatedAt: now,
		UpdatedAt: now,
		Results:   []Result{},
	}
	if res.Stats != nil {
		run.CreatedAt = res.Stats.StartTime
		run.Cost = res.Stats.EstimateCost()
	}
	if runErr != nil {
		run.Status = StatusFailed
		run.Error = runErr.Error()
	}
	for _, r := range res.Results {
		run.Results = append(run.Results, Result{
			TaskID:       r.TaskID,
			AgentID:      r.AgentID,
			Role:         r.Role,
			Output:       r.Output,
			Iterations:   r.Iterations,
			InputTokens:  r.Usage.InputTokens,
			OutputTokens: r.Usage.OutputTokens,
			StartedAt:    r.StartedAt,
			FinishedAt:   r.FinishedAt,
		})
	}
	return run
}

// ShortID returns the first block of the run ID
func (r *Run) ShortID() string {
	if i := strings.IndexByte(r.ID, '-'); i > 0 {
		return r.ID[:i]
	}
	return r.ID
}

// Get returns the archived result of a task
func (r *Run) Get(taskID string) (Result, bool) {
	for _, res := range r.Results {
		if res.TaskID == taskID {
			return res, true
		}
	}
	return Result{}, false
}

// Archive stores runs in a directory, one JSON file per run
type Archive struct {
	Dir     string
	MaxRuns int
	Expiry  time.Duration
}

func NewArchive(dir string) *Archive {
	return &Archive{
		Dir:     dir,
		MaxRuns: MaxRuns,
		Expiry:  ExpiryDays * 24 * time.Hour,
	}
}

func (a *Archive) path(id string) string {
	return filepath.Join(a.Dir, id+".json")
}

// Save persists the run to disk
func (a *Archive) Save(run *Run) error {
	if run.ID == "" {
		return errors.New("run has no id")
	}
	if err := os.MkdirAll(a.Dir, 0755); err != nil {
		return err
	}
	run.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(a.path(run.ID), data, 0644)
}

// Load loads a run by ID or by an unambiguous ID prefix
func (a *Archive) Load(id string) (*Run, error) {
	run, err := a.read(id)
	if err == nil {
		return run, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	runs, err := a.List()
	if err != nil {
		return nil, err
	}
	var match *Run
	for i := range runs {
		if strings.HasPrefix(runs[i].ID, id) {
			if match != nil {
				return nil, fmt.Errorf("run id %q is ambiguous", id)
			}
			match = &runs[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return match, nil
}

func (a *Archive) read(id string) (*Run, error) {
	data, err := os.ReadFile(a.path(id))
	if err != nil {
		return nil, err
	}
	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("decoding run %s: %w", id, err)
	}
	return &run, nil
}

// List returns all runs, most recently updated first
func (a *Archive) List() ([]Run, error) {
	files, err := os.ReadDir(a.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Run{}, nil
		}
		return nil, err
	}

	runs := []Run{}
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".json" {
			continue
		}
		run, err := a.read(strings.TrimSuffix(f.Name(), ".json"))
		if err != nil {
			continue
		}
		runs = append(runs, *run)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].UpdatedAt.After(runs[j].UpdatedAt)
	})
	return runs, nil
}

// Latest returns the most recently updated run, or nil when there is none
func (a *Archive) Latest() (*Run, error) {
	runs, err := a.List()
	if err != nil || len(runs) == 0 {
		return nil, err
	}
	return &runs[0], nil
}

// Cleanup removes expired runs and everything beyond the newest MaxRuns. It
// returns the IDs it removed.
func (a *Archive) Cleanup() ([]string, error) {
	runs, err := a.List()
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().Add(-a.Expiry)
	var removed []string
	for i, run := range runs {
		expired := a.Expiry > 0 && run.UpdatedAt.Before(cutoff)
		excess := a.MaxRuns > 0 && i >= a.MaxRuns
		if !expired && !excess {
			continue
		}
		if err := os.Remove(a.path(run.ID)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, err
		}
		removed = append(removed, run.ID)
	}
	return removed, nil
}

// Delete removes a run by ID
func (a *Archive) Delete(id string) error {
	err := os.Remove(a.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return err
}
