package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lysyi3m/career-comb/app/analysis"
	"github.com/lysyi3m/career-comb/app/database"
	"github.com/lysyi3m/career-comb/app/news"
	"github.com/lysyi3m/career-comb/app/summarize"
	"github.com/lysyi3m/career-comb/app/tasks"
	"github.com/lysyi3m/career-comb/app/translate"
)

type Translator interface {
	TranslateShort(ctx context.Context, text string, maxLen int) string
	TranslateLong(ctx context.Context, text string) string
}

type Summarizer interface {
	Summarize(text string, maxSentences int) string
}

type Analyzer interface {
	Analyze(ctx context.Context, title, body, targetCategory string) analysis.Result
	Classify(ctx context.Context, title, body string) string
	ExtractKeywords(ctx context.Context, title, body string) []string
}

type Enqueuer interface {
	EnqueueTask(task tasks.TaskInterface) error
}

// FeedInvalidator drops rendered feeds after the stored articles change.
type FeedInvalidator interface {
	InvalidateFeeds(ctx context.Context) (int, error)
}

const maxParallelFetches = 4

var (
	_ tasks.Crawler        = (*Service)(nil)
	_ tasks.BodyTranslator = (*Service)(nil)
)

// Service sequences fetching, filtering, storage and enrichment of articles.
// Per-article failures are logged and skipped; entry points only return an
// error when the store cannot list the articles to work on.
type Service struct {
	fetchers   []news.Fetcher
	articles   database.ArticleRepository
	translator Translator
	summarizer Summarizer
	analyzer   Analyzer
	queue      Enqueuer
	feeds      FeedInvalidator // nil when no feed cache is configured

	mu      sync.Mutex
	pending map[string]struct{} // articles with a queued body translation
}

func NewService(fetchers []news.Fetcher, articles database.ArticleRepository, translator Translator,
	summarizer Summarizer, analyzer Analyzer, queue Enqueuer, feeds FeedInvalidator) *Service {
	return &Service{
		fetchers:   fetchers,
		articles:   articles,
		translator: translator,
		summarizer: summarizer,
		analyzer:   analyzer,
		queue:      queue,
		feeds:      feeds,
		pending:    make(map[string]struct{}),
	}
}

// CrawlAndProcess fetches from every source, drops duplicates, rejected and
// already stored articles, then stores and enriches the rest. An empty
// category runs an unscoped crawl. It returns the number of new articles.
func (s *Service) CrawlAndProcess(ctx context.Context, category string) (int, error) {
	start := time.Now()

	fetched := s.fetchAll(ctx, category)
	unique := news.Dedupe(fetched)

	var rejected, existing, failed, processed int
	for _, candidate := range unique {
		if ctx.Err() != nil {
			slog.Warn("Crawl interrupted", "processed", processed, "error", ctx.Err())
			break
		}

		if category != "" {
			candidate.Category = category
		}

		if !news.IsAcceptable(candidate.Body, candidate.Title) {
			rejected++
			continue
		}

		exists, err := s.articles.ExistsByURL(ctx, candidate.SourceURL)
		if err != nil {
			slog.Error("Failed to check article existence", "url", candidate.SourceURL, "error", err)
			failed++
			continue
		}
		if exists {
			existing++
			continue
		}

		if err := s.processNew(ctx, newArticle(candidate)); err != nil {
			slog.Error("Failed to process article", "url", candidate.SourceURL, "error", err)
			failed++
			continue
		}
		processed++
	}

	slog.Info("Crawl completed",
		"category", category,
		"duration", time.Since(start),
		"fetched", len(fetched),
		"unique", len(unique),
		"rejected", rejected,
		"existing", existing,
		"failed", failed,
		"new", processed)

	if processed > 0 {
		s.invalidateFeeds(ctx)
	}

	return processed, nil
}

// ProcessUnprocessed re-runs enrichment for stored articles that are missing
// a summary, a translated title or a translated body.
func (s *Service) ProcessUnprocessed(ctx context.Context) (int, error) {
	articles, err := s.articles.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list articles: %w", err)
	}

	processed := 0
	for i := range articles {
		if ctx.Err() != nil {
			break
		}

		article := &articles[i]
		needsTitle := !ContainsKorean(article.Title)
		needsSummary := article.Summary == ""
		needsBody := needsBodyTranslation(article)

		if !needsTitle && !needsSummary && !needsBody {
			continue
		}

		if needsTitle || needsSummary {
			s.enrich(ctx, article, needsTitle, needsSummary)
			if err := s.articles.UpdateEnrichment(ctx, article.ID, article.Title, article.Summary); err != nil {
				slog.Error("Failed to save enriched article", "id", article.ID, "error", err)
				continue
			}
		}

		if needsBody {
			s.enqueueBodyTranslation(article.ID)
		}
		processed++
	}

	slog.Info("Unprocessed pass completed", "total", len(articles), "processed", processed)

	return processed, nil
}

// TranslateBody translates the body of a stored article and stores the
// result. A record that disappeared in the meantime is skipped.
func (s *Service) TranslateBody(ctx context.Context, articleID string) error {
	defer s.clearPending(articleID)

	article, err := s.articles.FindByID(ctx, articleID)
	if err != nil {
		return fmt.Errorf("failed to load article: %w", err)
	}
	if article == nil {
		slog.Warn("Article vanished before body translation", "id", articleID)
		return nil
	}

	translated := s.translator.TranslateLong(ctx, article.Body)

	if err := s.articles.UpdateTranslatedBody(ctx, articleID, translated); err != nil {
		if errors.Is(err, database.ErrArticleNotFound) {
			slog.Warn("Article vanished before translated body was stored", "id", articleID)
			return nil
		}
		return fmt.Errorf("failed to store translated body: %w", err)
	}

	return nil
}

// AnalyzeUnanalyzed runs AI analysis over every article not analysed yet.
func (s *Service) AnalyzeUnanalyzed(ctx context.Context) (int, error) {
	articles, err := s.articles.FindUnanalyzed(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list unanalyzed articles: %w", err)
	}

	analyzed, failed := 0, 0
	for i := range articles {
		if ctx.Err() != nil {
			break
		}

		article := &articles[i]
		result := s.analyzer.Analyze(ctx, article.Title, article.Body, article.Category)

		err := s.articles.UpdateAnalysis(ctx, article.ID, database.Analysis{
			IsRelevant:        result.IsRelevant,
			CategoryMatches:   result.CategoryMatch,
			RelevanceScore:    result.RelevanceScore,
			SuggestedCategory: result.SuggestedCategory,
			Reason:            result.Reason,
			Keywords:          joinKeywords(result.Keywords),
		})
		if err != nil {
			slog.Error("Failed to save analysis", "id", article.ID, "error", err)
			failed++
			continue
		}
		analyzed++
	}

	slog.Info("Analysis pass completed", "total", len(articles), "analyzed", analyzed, "failed", failed)

	return analyzed, nil
}

// ClassifyAll assigns a category to every stored article and returns how
// many categories changed.
func (s *Service) ClassifyAll(ctx context.Context) (int, error) {
	articles, err := s.articles.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list articles: %w", err)
	}

	updated := 0
	for i := range articles {
		if ctx.Err() != nil {
			break
		}

		article := &articles[i]
		category := s.analyzer.Classify(ctx, article.Title, article.Body)
		if category == article.Category {
			continue
		}

		if err := s.articles.UpdateCategory(ctx, article.ID, category); err != nil {
			slog.Error("Failed to save category", "id", article.ID, "error", err)
			continue
		}
		updated++
	}

	slog.Info("Classification pass completed", "total", len(articles), "updated", updated)

	if updated > 0 {
		s.invalidateFeeds(ctx)
	}

	return updated, nil
}

// ExtractKeywordsAll fills keywords for stored articles that have none.
func (s *Service) ExtractKeywordsAll(ctx context.Context) (int, error) {
	articles, err := s.articles.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list articles: %w", err)
	}

	updated := 0
	for i := range articles {
		if ctx.Err() != nil {
			break
		}

		article := &articles[i]
		if article.Keywords != "" {
			continue
		}

		keywords := s.analyzer.ExtractKeywords(ctx, article.Title, article.Body)
		if len(keywords) == 0 {
			continue
		}

		if err := s.articles.UpdateKeywords(ctx, article.ID, joinKeywords(keywords)); err != nil {
			slog.Error("Failed to save keywords", "id", article.ID, "error", err)
			continue
		}
		updated++
	}

	slog.Info("Keyword pass completed", "total", len(articles), "updated", updated)

	return updated, nil
}

// fetchAll queries the fetchers concurrently and concatenates their results
// in fetcher order.
func (s *Service) fetchAll(ctx context.Context, category string) []news.Candidate {
	results := make([][]news.Candidate, len(s.fetchers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFetches)
	for i, fetcher := range s.fetchers {
		g.Go(func() error {
			results[i] = fetcher.Fetch(gctx, category)
			slog.Debug("Fetcher finished", "fetcher", fetcher.Name(), "candidates", len(results[i]))
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		slog.Warn("Fetching interrupted, using partial results", "error", err)
	}

	var all []news.Candidate
	for _, r := range results {
		all = append(all, r...)
	}
	return all
}

func (s *Service) processNew(ctx context.Context, article *database.Article) error {
	if err := s.articles.Save(ctx, article); err != nil {
		return fmt.Errorf("failed to store article: %w", err)
	}

	s.enrich(ctx, article, true, true)

	if err := s.articles.UpdateEnrichment(ctx, article.ID, article.Title, article.Summary); err != nil {
		return fmt.Errorf("failed to store enriched article %s: %w", article.ID, err)
	}

	if needsBodyTranslation(article) {
		s.enqueueBodyTranslation(article.ID)
	}

	return nil
}

// enrich runs the synchronous steps: title translation and a translated summary.
func (s *Service) enrich(ctx context.Context, article *database.Article, title, summary bool) {
	if title {
		article.Title = s.translator.TranslateShort(ctx, article.Title, translate.TitleMaxLength)
	}

	if summary {
		text := s.summarizer.Summarize(article.Body, summarize.MaxSentencesFor(article.Body))
		article.Summary = s.translator.TranslateShort(ctx, text, translate.SummaryMaxLength)
	}
}

// enqueueBodyTranslation queues at most one body translation per article.
func (s *Service) enqueueBodyTranslation(articleID string) {
	s.mu.Lock()
	if _, ok := s.pending[articleID]; ok {
		s.mu.Unlock()
		slog.Debug("Body translation already queued", "id", articleID)
		return
	}
	s.pending[articleID] = struct{}{}
	s.mu.Unlock()

	if err := s.queue.EnqueueTask(tasks.NewTranslateBodyTask(articleID, s)); err != nil {
		s.clearPending(articleID)
		slog.Warn("Failed to enqueue body translation", "id", articleID, "error", err)
	}
}

func (s *Service) clearPending(articleID string) {
	s.mu.Lock()
	delete(s.pending, articleID)
	s.mu.Unlock()
}

func (s *Service) invalidateFeeds(ctx context.Context) {
	if s.feeds == nil {
		return
	}
	if n, err := s.feeds.InvalidateFeeds(ctx); err != nil {
		slog.Warn("Failed to invalidate cached feeds", "error", err)
	} else if n > 0 {
		slog.Debug("Invalidated cached feeds", "count", n)
	}
}

func newArticle(c news.Candidate) *database.Article {
	return &database.Article{
		Title:        c.Title,
		Body:         c.Body,
		SourceName:   c.SourceName,
		SourceURL:    c.SourceURL,
		ThumbnailURL: c.ThumbnailURL,
		Category:     c.Category,
		Language:     c.Language,
		PublishedAt:  c.PublishedAt,
	}
}

func needsBodyTranslation(article *database.Article) bool {
	return article.Language != database.LanguageKorean && article.TranslatedBody == "" && strings.TrimSpace(article.Body) != ""
}

// ContainsKorean reports whether s has any Hangul syllable.
func ContainsKorean(s string) bool {
	for _, r := range s {
		if r >= 0xAC00 && r <= 0xD7AF {
			return true
		}
	}
	return false
}

func joinKeywords(keywords []string) string {
	return strings.Join(keywords, ", ")
}
