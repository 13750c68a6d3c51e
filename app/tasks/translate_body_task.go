package tasks

import (
	"context"
	"fmt"
	"log/slog"
)

// TranslateBodyTask is the asynchronous half of article enrichment. It is
// not retried; articles left untranslated are picked up by the next
// unprocessed pass.
type TranslateBodyTask struct {
	Task
	ArticleID  string
	translator BodyTranslator
}

func NewTranslateBodyTask(articleID string, translator BodyTranslator) *TranslateBodyTask {
	return &TranslateBodyTask{
		Task:       NewTask(TaskTypeTranslateBody, articleID, 0),
		ArticleID:  articleID,
		translator: translator,
	}
}

func (t *TranslateBodyTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := t.translator.TranslateBody(ctx, t.ArticleID); err != nil {
		return fmt.Errorf("failed to translate body of article %s: %w", t.ArticleID, err)
	}

	slog.Info("Task completed",
		"type", "TranslateBody",
		"article", t.ArticleID,
		"duration", t.GetDuration())

	return nil
}
