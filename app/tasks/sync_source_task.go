package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/career-comb/app/news"
)

type SyncSourceTask struct {
	Task
	Source  *news.Config
	sources SourceUpserter
}

func NewSyncSourceTask(source *news.Config, sources SourceUpserter) *SyncSourceTask {
	return &SyncSourceTask{
		Task:    NewTask(TaskTypeSyncSource, source.Name, DefaultMaxRetries),
		Source:  source,
		sources: sources,
	}
}

func (t *SyncSourceTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := t.sources.UpsertSource(ctx, t.Source.Name, t.Source.URL); err != nil {
		return fmt.Errorf("failed to sync source config to database: %w", err)
	}

	slog.Info("Task completed",
		"type", "SyncSource",
		"source", t.Source.Name,
		"duration", t.GetDuration())

	return nil
}
