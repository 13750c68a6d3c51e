package tasks

import (
	"context"
)

// TaskSchedulerInterface is the worker pool used for background work.
//
//	scheduler := NewScheduler(workerCount, time.UTC)
//	scheduler.Schedule("0 9 * * *", func() TaskInterface { return NewCrawlTask("", service) })
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewTranslateBodyTask(articleID, service))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

// Crawler runs one crawl over every source and returns the number of new articles.
type Crawler interface {
	CrawlAndProcess(ctx context.Context, category string) (int, error)
}

// BodyTranslator translates and stores the body of one stored article.
type BodyTranslator interface {
	TranslateBody(ctx context.Context, articleID string) error
}

// SourceUpserter registers a configured source in the store.
type SourceUpserter interface {
	UpsertSource(ctx context.Context, name, feedURL string) error
}
