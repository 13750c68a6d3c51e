package api

import (
	"context"
	"strings"
	"time"

	"github.com/lysyi3m/career-comb/app/cache"
	"github.com/lysyi3m/career-comb/app/database"
	"github.com/lysyi3m/career-comb/app/news"
	"github.com/lysyi3m/career-comb/app/pipeline"
)

type GeneratorInterface interface {
	Run(category string, articles []database.Article) (string, error)
}

var _ GeneratorInterface = (*news.Generator)(nil)

// PipelineInterface is the set of batch operations exposed to admins.
type PipelineInterface interface {
	CrawlAndProcess(ctx context.Context, category string) (int, error)
	ProcessUnprocessed(ctx context.Context) (int, error)
	AnalyzeUnanalyzed(ctx context.Context) (int, error)
	ClassifyAll(ctx context.Context) (int, error)
	ExtractKeywordsAll(ctx context.Context) (int, error)
}

var _ PipelineInterface = (*pipeline.Service)(nil)

type ResponseCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Health(ctx context.Context) map[string]interface{}
}

var _ ResponseCache = (*cache.Cache)(nil)

type Handler struct {
	articleRepo database.ArticleRepository
	sourceRepo  database.SourceRepository
	configCache *news.ConfigCache
	generator   GeneratorInterface
	pipeline    PipelineInterface
	cache       ResponseCache // nil when caching is disabled
	cacheTTL    time.Duration
}

type ArticleResponse struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Summary           string    `json:"summary,omitempty"`
	Body              string    `json:"body,omitempty"`
	TranslatedBody    string    `json:"translated_body,omitempty"`
	SourceName        string    `json:"source_name"`
	SourceURL         string    `json:"source_url"`
	ThumbnailURL      string    `json:"thumbnail_url,omitempty"`
	Category          string    `json:"category"`
	Language          string    `json:"language"`
	Keywords          []string  `json:"keywords"`
	IsAnalyzed        bool      `json:"is_analyzed"`
	IsRelevant        bool      `json:"is_relevant"`
	CategoryMatches   bool      `json:"category_matches"`
	RelevanceScore    float64   `json:"relevance_score"`
	SuggestedCategory string    `json:"suggested_category,omitempty"`
	AnalysisReason    string    `json:"analysis_reason,omitempty"`
	PublishedAt       time.Time `json:"published_at"`
	CreatedAt         time.Time `json:"created_at"`
}

// newArticleResponse maps a stored article; bodies are only included for
// single-article responses.
func newArticleResponse(article database.Article, withBody bool) ArticleResponse {
	response := ArticleResponse{
		ID:                article.ID,
		Title:             article.Title,
		Summary:           article.Summary,
		SourceName:        article.SourceName,
		SourceURL:         article.SourceURL,
		ThumbnailURL:      article.ThumbnailURL,
		Category:          article.Category,
		Language:          article.Language,
		Keywords:          splitKeywords(article.Keywords),
		IsAnalyzed:        article.IsAnalyzed,
		IsRelevant:        article.IsRelevant,
		CategoryMatches:   article.CategoryMatches,
		RelevanceScore:    article.RelevanceScore,
		SuggestedCategory: article.SuggestedCategory,
		AnalysisReason:    article.AnalysisReason,
		PublishedAt:       article.PublishedAt,
		CreatedAt:         article.CreatedAt,
	}

	if withBody {
		response.Body = article.Body
		response.TranslatedBody = article.TranslatedBody
	}

	return response
}

func newArticleResponses(articles []database.Article) []ArticleResponse {
	responses := make([]ArticleResponse, 0, len(articles))
	for _, article := range articles {
		responses = append(responses, newArticleResponse(article, false))
	}
	return responses
}

func splitKeywords(keywords string) []string {
	result := []string{}
	for _, keyword := range strings.Split(keywords, ",") {
		if keyword = strings.TrimSpace(keyword); keyword != "" {
			result = append(result, keyword)
		}
	}
	return result
}
