package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

func TestArticleRepository_SaveInsertAssignsID(t *testing.T) {
	repo := NewArticleRepository(newTestDB(t))
	ctx := context.Background()

	article := &Article{
		Title:     "Hiring trends for backend developers",
		Body:      "Companies keep hiring backend developers.",
		SourceURL: "https://example.com/a",
		Category:  CategoryGeneral,
		Language:  LanguageEnglish,
	}

	if err := repo.Save(ctx, article); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if article.ID == "" {
		t.Fatal("Expected an ID to be assigned")
	}
	if article.CreatedAt.IsZero() || article.PublishedAt.IsZero() {
		t.Error("Expected timestamps to be set")
	}

	found, err := repo.FindByID(ctx, article.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found == nil {
		t.Fatal("Expected article to be found")
	}
	if found.Title != article.Title {
		t.Errorf("Expected title %q, got %q", article.Title, found.Title)
	}
	if found.Summary != "" || found.TranslatedBody != "" || found.Keywords != "" {
		t.Errorf("Expected empty nullable fields, got summary=%q translated=%q keywords=%q",
			found.Summary, found.TranslatedBody, found.Keywords)
	}
}

func TestArticleRepository_SaveUpdatesExisting(t *testing.T) {
	repo := NewArticleRepository(newTestDB(t))
	ctx := context.Background()

	article := &Article{Title: "Original", SourceURL: "https://example.com/b", Category: "general", Language: "en"}
	if err := repo.Save(ctx, article); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	article.Summary = "A short summary"
	article.IsAnalyzed = true
	article.RelevanceScore = 0.8
	if err := repo.Save(ctx, article); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	found, err := repo.FindByID(ctx, article.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.Summary != "A short summary" {
		t.Errorf("Expected updated summary, got %q", found.Summary)
	}
	if !found.IsAnalyzed {
		t.Error("Expected article to be analyzed")
	}
	if found.RelevanceScore != 0.8 {
		t.Errorf("Expected relevance 0.8, got %f", found.RelevanceScore)
	}
}

func TestArticleRepository_SaveMissingRow(t *testing.T) {
	repo := NewArticleRepository(newTestDB(t))

	err := repo.Save(context.Background(), &Article{ID: "does-not-exist", Title: "Gone", SourceURL: "https://example.com/x"})
	if !errors.Is(err, ErrArticleNotFound) {
		t.Errorf("Expected ErrArticleNotFound, got %v", err)
	}
}

func TestArticleRepository_ExistsByURL(t *testing.T) {
	repo := NewArticleRepository(newTestDB(t))
	ctx := context.Background()

	exists, err := repo.ExistsByURL(ctx, "https://example.com/c")
	if err != nil {
		t.Fatalf("ExistsByURL failed: %v", err)
	}
	if exists {
		t.Error("Expected URL to be unknown")
	}

	if err := repo.Save(ctx, &Article{Title: "C", SourceURL: "https://example.com/c"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	exists, err = repo.ExistsByURL(ctx, "https://example.com/c")
	if err != nil {
		t.Fatalf("ExistsByURL failed: %v", err)
	}
	if !exists {
		t.Error("Expected URL to exist")
	}
}

func TestArticleRepository_FindByIDMissing(t *testing.T) {
	repo := NewArticleRepository(newTestDB(t))

	found, err := repo.FindByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found != nil {
		t.Errorf("Expected nil article, got %+v", found)
	}
}

func TestArticleRepository_FindUnanalyzed(t *testing.T) {
	repo := NewArticleRepository(newTestDB(t))
	ctx := context.Background()

	for i, analyzed := range []bool{false, true, false} {
		article := &Article{
			Title:      "Article",
			SourceURL:  "https://example.com/" + string(rune('a'+i)),
			IsAnalyzed: analyzed,
		}
		if err := repo.Save(ctx, article); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	articles, err := repo.FindUnanalyzed(ctx)
	if err != nil {
		t.Fatalf("FindUnanalyzed failed: %v", err)
	}
	if len(articles) != 2 {
		t.Errorf("Expected 2 unanalyzed articles, got %d", len(articles))
	}

	all, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 articles, got %d", len(all))
	}
}

func TestArticleRepository_ListByCategory(t *testing.T) {
	repo := NewArticleRepository(newTestDB(t))
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	fixtures := []Article{
		{Title: "Old backend", SourceURL: "https://example.com/1", Category: "backend", PublishedAt: base},
		{Title: "New backend", SourceURL: "https://example.com/2", Category: "backend", PublishedAt: base.Add(time.Hour)},
		{Title: "Design", SourceURL: "https://example.com/3", Category: "design", PublishedAt: base},
	}
	for i := range fixtures {
		if err := repo.Save(ctx, &fixtures[i]); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	articles, err := repo.List(ctx, ArticleFilter{Category: "backend", Limit: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("Expected 2 backend articles, got %d", len(articles))
	}
	if articles[0].Title != "New backend" {
		t.Errorf("Expected newest first, got %q", articles[0].Title)
	}

	page, err := repo.List(ctx, ArticleFilter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(page) != 1 {
		t.Errorf("Expected 1 article on the page, got %d", len(page))
	}
}

func TestArticleRepository_Search(t *testing.T) {
	repo := NewArticleRepository(newTestDB(t))
	ctx := context.Background()

	fixtures := []Article{
		{Title: "Kubernetes operators", SourceURL: "https://example.com/k"},
		{Title: "Other", Summary: "All about kubernetes", SourceURL: "https://example.com/s"},
		{Title: "Unrelated", Keywords: "design, figma", SourceURL: "https://example.com/u"},
	}
	for i := range fixtures {
		if err := repo.Save(ctx, &fixtures[i]); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	results, err := repo.Search(ctx, "kubernetes", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Expected 2 results, got %d", len(results))
	}

	results, err = repo.Search(ctx, "figma", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("Expected 1 keyword match, got %d", len(results))
	}

	results, err = repo.Search(ctx, "   ", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected no results for blank query, got %d", len(results))
	}
}

func TestArticleRepository_GetStats(t *testing.T) {
	repo := NewArticleRepository(newTestDB(t))
	ctx := context.Background()

	fixtures := []Article{
		{Title: "A", SourceURL: "https://example.com/1", Category: "backend", Language: "en", IsAnalyzed: true, IsRelevant: true},
		{Title: "B", SourceURL: "https://example.com/2", Category: "backend", Language: "en", TranslatedBody: "번역"},
		{Title: "C", SourceURL: "https://example.com/3", Category: "general", Language: "ko"},
	}
	for i := range fixtures {
		if err := repo.Save(ctx, &fixtures[i]); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	stats, err := repo.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}

	if stats.Total != 3 {
		t.Errorf("Expected total 3, got %d", stats.Total)
	}
	if stats.Analyzed != 1 {
		t.Errorf("Expected 1 analyzed, got %d", stats.Analyzed)
	}
	if stats.Relevant != 1 {
		t.Errorf("Expected 1 relevant, got %d", stats.Relevant)
	}
	if stats.PendingTranslation != 1 {
		t.Errorf("Expected 1 pending translation, got %d", stats.PendingTranslation)
	}
	if stats.ByCategory["backend"] != 2 {
		t.Errorf("Expected 2 backend articles, got %d", stats.ByCategory["backend"])
	}
}

func TestArticleRepository_PartialUpdatesKeepOtherColumns(t *testing.T) {
	repo := NewArticleRepository(newTestDB(t))
	ctx := context.Background()

	article := &Article{Title: "Original", Body: "Body", SourceURL: "https://example.com/p", Category: "general", Language: "en"}
	if err := repo.Save(ctx, article); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := repo.UpdateTranslatedBody(ctx, article.ID, "번역된 본문"); err != nil {
		t.Fatalf("UpdateTranslatedBody failed: %v", err)
	}
	if err := repo.UpdateEnrichment(ctx, article.ID, "번역된 제목", "요약"); err != nil {
		t.Fatalf("UpdateEnrichment failed: %v", err)
	}
	if err := repo.UpdateAnalysis(ctx, article.ID, Analysis{IsRelevant: true, RelevanceScore: 0.7, Reason: "ok"}); err != nil {
		t.Fatalf("UpdateAnalysis failed: %v", err)
	}
	if err := repo.UpdateCategory(ctx, article.ID, "backend"); err != nil {
		t.Fatalf("UpdateCategory failed: %v", err)
	}
	if err := repo.UpdateKeywords(ctx, article.ID, "go, hiring"); err != nil {
		t.Fatalf("UpdateKeywords failed: %v", err)
	}

	found, err := repo.FindByID(ctx, article.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.TranslatedBody != "번역된 본문" {
		t.Errorf("Expected translated body to survive later updates, got %q", found.TranslatedBody)
	}
	if found.Title != "번역된 제목" || found.Summary != "요약" {
		t.Errorf("Expected enrichment to be stored, got title=%q summary=%q", found.Title, found.Summary)
	}
	if !found.IsAnalyzed || !found.IsRelevant || found.RelevanceScore != 0.7 {
		t.Errorf("Expected analysis to be stored, got %+v", found)
	}
	if found.Category != "backend" || found.Keywords != "go, hiring" {
		t.Errorf("Expected category and keywords, got category=%q keywords=%q", found.Category, found.Keywords)
	}
	if found.Body != "Body" || found.SourceURL != "https://example.com/p" {
		t.Errorf("Expected untouched columns to be kept, got body=%q url=%q", found.Body, found.SourceURL)
	}
}

func TestArticleRepository_UpdateAnalysisKeepsKeywordsWhenEmpty(t *testing.T) {
	repo := NewArticleRepository(newTestDB(t))
	ctx := context.Background()

	article := &Article{Title: "A", SourceURL: "https://example.com/k", Keywords: "existing"}
	if err := repo.Save(ctx, article); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := repo.UpdateAnalysis(ctx, article.ID, Analysis{}); err != nil {
		t.Fatalf("UpdateAnalysis failed: %v", err)
	}

	found, _ := repo.FindByID(ctx, article.ID)
	if found.Keywords != "existing" {
		t.Errorf("Expected keywords to be kept, got %q", found.Keywords)
	}
}

func TestArticleRepository_PartialUpdateMissingRow(t *testing.T) {
	repo := NewArticleRepository(newTestDB(t))

	err := repo.UpdateTranslatedBody(context.Background(), "missing", "text")
	if !errors.Is(err, ErrArticleNotFound) {
		t.Errorf("Expected ErrArticleNotFound, got %v", err)
	}
}
