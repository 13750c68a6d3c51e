package tasks

import (
	"context"
	"fmt"
	"log/slog"
)

type CrawlTask struct {
	Task
	Category string
	crawler  Crawler
}

// NewCrawlTask crawls every source; an empty category means an unscoped crawl.
func NewCrawlTask(category string, crawler Crawler) *CrawlTask {
	return &CrawlTask{
		Task:     NewTask(TaskTypeCrawl, category, 0),
		Category: category,
		crawler:  crawler,
	}
}

func (t *CrawlTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	count, err := t.crawler.CrawlAndProcess(ctx, t.Category)
	if err != nil {
		return fmt.Errorf("failed to crawl: %w", err)
	}

	slog.Info("Task completed",
		"type", "Crawl",
		"category", t.Category,
		"duration", t.GetDuration(),
		"new", count)

	return nil
}
