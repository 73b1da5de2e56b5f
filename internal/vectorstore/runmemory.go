package vectorstore

import (
	"context"
	"fmt"

	"github.com/philippgille/chromem-go"
)

// RunMemory is the crew memory of a single run. Agents with memory enabled
// recall earlier task outputs of the same run from it.
type RunMemory struct {
	store *ChromemStore
}

// NewRunMemory creates an empty in-memory collection for one run
func NewRunMemory(runID string, ef chromem.EmbeddingFunc) (*RunMemory, error) {
	store, err := NewMemoryStore("run_"+runID, ef)
	if err != nil {
		return nil, err
	}
	return &RunMemory{store: store}, nil
}

func (m *RunMemory) Remember(ctx context.Context, id, text string, meta map[string]string) error {
	return m.store.AddDocument(ctx, id, text, meta)
}

// Recall returns up to limit stored notes, most similar first, each prefixed
// with the task that produced it.
func (m *RunMemory) Recall(ctx context.Context, query string, limit int) ([]string, error) {
	results, err := m.store.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	notes := make([]string, 0, len(results))
	for _, r := range results {
		if task := r.Metadata["task"]; task != "" {
			notes = append(notes, fmt.Sprintf("[%s] %s", task, r.Content))
			continue
		}
		notes = append(notes, r.Content)
	}
	return notes, nil
}
