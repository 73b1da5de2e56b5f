package vectorstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/philippgille/chromem-go"

	"Fincrew/internal/memory"
)

// IndexRun adds every task output of an archived run to the store
func IndexRun(ctx context.Context, store *ChromemStore, run *memory.Run) error {
	docs := make([]chromem.Document, 0, len(run.Results))
	for _, res := range run.Results {
		if strings.TrimSpace(res.Output) == "" {
			continue
		}
		docs = append(docs, chromem.Document{
			ID:      fmt.Sprintf("%s_%s", run.ID, res.TaskID),
			Content: res.Output,
			Metadata: map[string]string{
				"run_id":   run.ID,
				"crew":     run.Crew,
				"query":    run.Query,
				"task_id":  res.TaskID,
				"agent_id": res.AgentID,
				"role":     res.Role,
				"finished": res.FinishedAt.Format("2006-01-02 15:04:05"),
			},
		})
	}
	if len(docs) == 0 {
		return nil
	}
	if err := store.AddDocuments(ctx, docs); err != nil {
		return fmt.Errorf("failed to index run %s: %w", run.ID, err)
	}
	return nil
}
