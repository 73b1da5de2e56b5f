package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"Fincrew/internal/agent"
	"Fincrew/internal/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeRun stores a run without touching its timestamps
func writeRun(t *testing.T, a *Archive, run Run) {
	t.Helper()
	require.NoError(t, os.MkdirAll(a.Dir, 0755))
	data, err := json.Marshal(run)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(a.path(run.ID), data, 0644))
}

func TestArchiveSaveAndLoad(t *testing.T) {
	a := NewArchive(filepath.Join(t.TempDir(), "runs"))
	run := &Run{
		ID:     "0b9f6a1e-1111-4c2d-9e8f-000000000001",
		Crew:   "financial-document-analysis",
		Query:  "Is revenue growing?",
		Status: StatusCompleted,
		Results: []Result{
			{TaskID: "verification", AgentID: "verifier", Output: "valid 10-Q"},
		},
	}
	require.NoError(t, a.Save(run))
	assert.False(t, run.UpdatedAt.IsZero())

	loaded, err := a.Load(run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Query, loaded.Query)
	res, ok := loaded.Get("verification")
	require.True(t, ok)
	assert.Equal(t, "valid 10-Q", res.Output)

	byPrefix, err := a.Load("0b9f6a1e")
	require.NoError(t, err)
	assert.Equal(t, run.ID, byPrefix.ID)
	assert.Equal(t, "0b9f6a1e", byPrefix.ShortID())
}

func TestArchiveLoadErrors(t *testing.T) {
	a := NewArchive(t.TempDir())
	writeRun(t, a, Run{ID: "abc-1", UpdatedAt: time.Now()})
	writeRun(t, a, Run{ID: "abc-2", UpdatedAt: time.Now()})

	_, err := a.Load("zzz")
	assert.ErrorIs(t, err, ErrRunNotFound)

	_, err = a.Load("abc")
	assert.ErrorContains(t, err, "ambiguous")
}

func TestArchiveListOrderAndLatest(t *testing.T) {
	a := NewArchive(t.TempDir())

	latest, err := a.Latest()
	require.NoError(t, err)
	assert.Nil(t, latest)

	now := time.Now()
	writeRun(t, a, Run{ID: "old", UpdatedAt: now.Add(-2 * time.Hour)})
	writeRun(t, a, Run{ID: "new", UpdatedAt: now})
	writeRun(t, a, Run{ID: "mid", UpdatedAt: now.Add(-time.Hour)})
	require.NoError(t, os.WriteFile(filepath.Join(a.Dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(a.Dir, "broken.json"), []byte("{"), 0644))

	runs, err := a.List()
	require.NoError(t, err)
	ids := []string{}
	for _, r := range runs {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"new", "mid", "old"}, ids)

	latest, err = a.Latest()
	require.NoError(t, err)
	assert.Equal(t, "new", latest.ID)
}

func TestArchiveCleanup(t *testing.T) {
	a := NewArchive(t.TempDir())
	a.MaxRuns = 3

	now := time.Now()
	for i := 0; i < 5; i++ {
		writeRun(t, a, Run{ID: fmt.Sprintf("run-%d", i), UpdatedAt: now.Add(-time.Duration(i) * time.Minute)})
	}
	writeRun(t, a, Run{ID: "ancient", UpdatedAt: now.AddDate(0, 0, -ExpiryDays-1)})

	removed, err := a.Cleanup()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"run-3", "run-4", "ancient"}, removed)

	runs, err := a.List()
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestArchiveDelete(t *testing.T) {
	a := NewArchive(t.TempDir())
	writeRun(t, a, Run{ID: "gone", UpdatedAt: time.Now()})

	require.NoError(t, a.Delete("gone"))
	assert.True(t, errors.Is(a.Delete("gone"), ErrRunNotFound))
}

func TestFromResult(t *testing.T) {
	started := time.Now().Add(-time.Minute)
	res := &engine.RunResult{
		ID:      "run-1",
		Context: engine.RunContext{FilePath: "data/sample.pdf", Query: "q"},
		Stats:   engine.NewExecutionStats(),
		Results: []engine.TaskResult{{
			TaskID: "verification", AgentID: "verifier", Role: "Financial Document Verifier",
			Output: "ok", Iterations: 2, Usage: agent.Usage{InputTokens: 10, OutputTokens: 3},
			StartedAt: started, FinishedAt: started.Add(time.Second),
		}},
	}

	run := FromResult("crew", res, nil)
	assert.Equal(t, StatusCompleted, run.Status)
	assert.Equal(t, "data/sample.pdf", run.FilePath)
	require.Len(t, run.Results, 1)
	assert.Equal(t, 10, run.Results[0].InputTokens)

	failed := FromResult("crew", res, errors.New("task failed"))
	assert.Equal(t, StatusFailed, failed.Status)
	assert.Equal(t, "task failed", failed.Error)
}
