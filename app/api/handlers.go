package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/career-comb/app/analysis"
	"github.com/lysyi3m/career-comb/app/cache"
	"github.com/lysyi3m/career-comb/app/database"
	"github.com/lysyi3m/career-comb/app/news"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	feedSize        = 30

	allCategories = "all"
)

func NewHandler(configCache *news.ConfigCache, articleRepo database.ArticleRepository,
	sourceRepo database.SourceRepository, generator GeneratorInterface,
	pipeline PipelineInterface, responseCache ResponseCache, cacheTTL time.Duration) *Handler {
	return &Handler{
		articleRepo: articleRepo,
		sourceRepo:  sourceRepo,
		configCache: configCache,
		generator:   generator,
		pipeline:    pipeline,
		cache:       responseCache,
		cacheTTL:    cacheTTL,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if sourceCount, err := h.sourceRepo.GetSourceCount(c.Request.Context()); err == nil {
		health["sources"] = sourceCount
	}

	health["loaded_configurations"] = h.configCache.GetConfigCount()

	if h.cache != nil {
		health["cache"] = h.cache.Health(c.Request.Context())
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) ListArticles(c *gin.Context) {
	category := c.Query("category")
	if category != "" && !analysis.IsValidCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
		return
	}

	limit := queryInt(c, "limit", defaultPageSize, maxPageSize)
	offset := queryInt(c, "offset", 0, -1)

	articles, err := h.articleRepo.List(c.Request.Context(), database.ArticleFilter{
		Category: category,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		slog.Error("Database error", "operation", "list_articles", "category", category, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"articles": newArticleResponses(articles),
		"limit":    limit,
		"offset":   offset,
	})
}

func (h *Handler) GetArticle(c *gin.Context) {
	id := c.Param("id")

	article, err := h.articleRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		slog.Error("Database error", "operation", "get_article", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	c.JSON(http.StatusOK, newArticleResponse(*article, true))
}

func (h *Handler) SearchArticles(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing q parameter"})
		return
	}

	limit := queryInt(c, "limit", defaultPageSize, maxPageSize)

	articles, err := h.articleRepo.Search(c.Request.Context(), query, limit)
	if err != nil {
		slog.Error("Database error", "operation", "search_articles", "query", query, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":    query,
		"articles": newArticleResponses(articles),
		"total":    len(articles),
	})
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.articleRepo.GetStats(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "get_stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetFeed(c *gin.Context) {
	category := c.Param("category")
	filterCategory := category
	if category == allCategories {
		filterCategory = ""
	} else if !analysis.IsValidCategory(category) {
		c.Status(http.StatusNotFound)
		return
	}

	ctx := c.Request.Context()
	key := cache.FeedKey(category, feedSize)

	if h.cache != nil {
		if rss, ok, err := h.cache.Get(ctx, key); err != nil {
			slog.Warn("Cache read failed", "key", key, "error", err)
		} else if ok {
			writeFeed(c, category, rss, "HIT")
			return
		}
	}

	articles, err := h.articleRepo.List(ctx, database.ArticleFilter{Category: filterCategory, Limit: feedSize})
	if err != nil {
		slog.Error("Database error", "operation", "get_feed", "category", category, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	rss, err := h.generator.Run(category, articles)
	if err != nil {
		slog.Error("RSS generation error", "category", category, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, key, rss, h.cacheTTL); err != nil {
			slog.Warn("Cache write failed", "key", key, "error", err)
		}
	}

	c.Header("X-Feed-Items", strconv.Itoa(len(articles)))
	writeFeed(c, category, rss, "MISS")
}

func (h *Handler) APIListSources(c *gin.Context) {
	sources, err := h.sourceRepo.ListSources(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "list_sources", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	stored := make(map[string]database.Source, len(sources))
	for _, source := range sources {
		stored[source.Name] = source
	}

	configs := h.configCache.GetConfigs()
	result := make([]map[string]interface{}, 0, len(configs))
	for _, sourceConfig := range configs {
		info := map[string]interface{}{
			"name":            sourceConfig.Name,
			"url":             sourceConfig.URL,
			"title":           sourceConfig.Title,
			"enabled":         sourceConfig.Settings.Enabled,
			"max_items":       sourceConfig.Settings.MaxItems,
			"timeout":         (time.Duration(sourceConfig.Settings.Timeout) * time.Second).String(),
			"extract_content": sourceConfig.Settings.ExtractContent,
			"filters":         len(sourceConfig.Filters),
		}

		if source, ok := stored[sourceConfig.Name]; ok {
			if source.Title != "" {
				info["title"] = source.Title
			}
			info["language"] = source.Language
			info["last_fetched_at"] = source.LastFetchedAt
			info["updated_at"] = source.UpdatedAt
		}

		result = append(result, info)
	}

	c.JSON(http.StatusOK, gin.H{
		"sources": result,
		"total":   len(result),
	})
}

func (h *Handler) APICrawl(c *gin.Context) {
	category := c.Query("category")
	if category != "" && !analysis.IsValidCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
		return
	}

	h.runBatch(c, "crawl", func(ctx context.Context) (int, error) {
		return h.pipeline.CrawlAndProcess(ctx, category)
	})
}

func (h *Handler) APIProcessUnprocessed(c *gin.Context) {
	h.runBatch(c, "process_unprocessed", h.pipeline.ProcessUnprocessed)
}

func (h *Handler) APIAnalyze(c *gin.Context) {
	h.runBatch(c, "analyze", h.pipeline.AnalyzeUnanalyzed)
}

func (h *Handler) APIClassify(c *gin.Context) {
	h.runBatch(c, "classify", h.pipeline.ClassifyAll)
}

func (h *Handler) APIExtractKeywords(c *gin.Context) {
	h.runBatch(c, "keywords", h.pipeline.ExtractKeywordsAll)
}

// runBatch runs a pipeline pass synchronously and reports how many
// articles it touched.
func (h *Handler) runBatch(c *gin.Context, operation string, run func(ctx context.Context) (int, error)) {
	start := time.Now()

	processed, err := run(c.Request.Context())
	if err != nil {
		slog.Error("Batch operation failed", "operation", operation, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Batch operation failed",
			"details": err.Error(),
		})
		return
	}

	slog.Info("Batch operation completed", "operation", operation, "processed", processed, "duration", time.Since(start))

	c.JSON(http.StatusOK, gin.H{
		"operation": operation,
		"processed": processed,
		"duration":  time.Since(start).String(),
	})
}

func writeFeed(c *gin.Context, category, rss, cacheStatus string) {
	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Category", category)
	c.Header("X-Cache", cacheStatus)
	c.String(http.StatusOK, rss)
}

// queryInt reads a non-negative integer parameter; upper < 0 means unbounded.
func queryInt(c *gin.Context, name string, fallback, upper int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	if upper >= 0 && value > upper {
		return upper
	}
	return value
}
