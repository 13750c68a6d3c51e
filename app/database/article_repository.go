package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var articleColumns = []string{
	"id", "title", "body",
	"COALESCE(translated_body, '') AS translated_body",
	"COALESCE(summary, '') AS summary",
	"source_name", "source_url", "thumbnail_url", "category", "language",
	"COALESCE(keywords, '') AS keywords",
	"is_analyzed", "is_relevant", "category_matches", "relevance_score",
	"suggested_category", "analysis_reason",
	"published_at", "created_at", "updated_at",
}

// ArticleRepositoryImpl handles database operations for articles
type ArticleRepositoryImpl struct {
	db *DB
}

var _ ArticleRepository = (*ArticleRepositoryImpl)(nil)

func NewArticleRepository(db *DB) *ArticleRepositoryImpl {
	return &ArticleRepositoryImpl{db: db}
}

func (r *ArticleRepositoryImpl) ExistsByURL(ctx context.Context, sourceURL string) (bool, error) {
	query, args, err := sq.Select("1").From("articles").Where(sq.Eq{"source_url": sourceURL}).Limit(1).ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build exists query: %w", err)
	}

	var found int
	err = r.db.GetContext(ctx, &found, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check article existence: %w", err)
	}

	return true, nil
}

func (r *ArticleRepositoryImpl) FindByID(ctx context.Context, id string) (*Article, error) {
	query, args, err := sq.Select(articleColumns...).From("articles").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find query: %w", err)
	}

	var article Article
	err = r.db.GetContext(ctx, &article, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article by ID: %w", err)
	}

	return &article, nil
}

func (r *ArticleRepositoryImpl) FindAll(ctx context.Context) ([]Article, error) {
	return r.selectArticles(ctx, sq.Select(articleColumns...).From("articles").OrderBy("created_at ASC"))
}

func (r *ArticleRepositoryImpl) FindUnanalyzed(ctx context.Context) ([]Article, error) {
	return r.selectArticles(ctx, sq.Select(articleColumns...).
		From("articles").
		Where(sq.Eq{"is_analyzed": false}).
		OrderBy("created_at ASC"))
}

func (r *ArticleRepositoryImpl) List(ctx context.Context, filter ArticleFilter) ([]Article, error) {
	builder := sq.Select(articleColumns...).From("articles").OrderBy("published_at DESC")

	if filter.Category != "" {
		builder = builder.Where(sq.Eq{"category": filter.Category})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	return r.selectArticles(ctx, builder)
}

func (r *ArticleRepositoryImpl) Search(ctx context.Context, query string, limit int) ([]Article, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Article{}, nil
	}

	pattern := "%" + query + "%"
	builder := sq.Select(articleColumns...).
		From("articles").
		Where(sq.Or{
			sq.Like{"title": pattern},
			sq.Like{"summary": pattern},
			sq.Like{"keywords": pattern},
		}).
		OrderBy("published_at DESC")

	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	return r.selectArticles(ctx, builder)
}

func (r *ArticleRepositoryImpl) GetStats(ctx context.Context) (*Stats, error) {
	var totals struct {
		Total              int `db:"total"`
		Analyzed           int `db:"analyzed"`
		Relevant           int `db:"relevant"`
		PendingTranslation int `db:"pending_translation"`
	}

	err := r.db.GetContext(ctx, &totals, `
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN is_analyzed = 1 THEN 1 ELSE 0 END), 0) AS analyzed,
			COALESCE(SUM(CASE WHEN is_relevant = 1 THEN 1 ELSE 0 END), 0) AS relevant,
			COALESCE(SUM(CASE WHEN language != 'ko' AND COALESCE(translated_body, '') = '' THEN 1 ELSE 0 END), 0) AS pending_translation
		FROM articles
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get article totals: %w", err)
	}

	var rows []struct {
		Category string `db:"category"`
		Count    int    `db:"count"`
	}
	err = r.db.SelectContext(ctx, &rows, `SELECT category, COUNT(*) AS count FROM articles GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to get category counts: %w", err)
	}

	stats := &Stats{
		Total:              totals.Total,
		Analyzed:           totals.Analyzed,
		Relevant:           totals.Relevant,
		PendingTranslation: totals.PendingTranslation,
		ByCategory:         make(map[string]int, len(rows)),
	}
	for _, row := range rows {
		stats.ByCategory[row.Category] = row.Count
	}

	return stats, nil
}

func (r *ArticleRepositoryImpl) Save(ctx context.Context, article *Article) error {
	if article == nil {
		return fmt.Errorf("article is nil")
	}

	now := time.Now().UTC()
	if article.ID == "" {
		return r.insert(ctx, article, now)
	}
	return r.update(ctx, article, now)
}

func (r *ArticleRepositoryImpl) insert(ctx context.Context, article *Article, now time.Time) error {
	id := uuid.NewString()
	if article.PublishedAt.IsZero() {
		article.PublishedAt = now
	}

	values := r.columnValues(article)
	values["id"] = id
	values["created_at"] = now
	values["updated_at"] = now

	query, args, err := sq.Insert("articles").SetMap(values).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert article: %w", err)
	}

	article.ID = id
	article.CreatedAt = now
	article.UpdatedAt = now
	return nil
}

func (r *ArticleRepositoryImpl) update(ctx context.Context, article *Article, now time.Time) error {
	values := r.columnValues(article)
	values["updated_at"] = now

	if err := r.updateColumns(ctx, article.ID, values); err != nil {
		return err
	}

	article.UpdatedAt = now
	return nil
}

func (r *ArticleRepositoryImpl) UpdateEnrichment(ctx context.Context, id, title, summary string) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"title":   title,
		"summary": nullString(summary),
	})
}

func (r *ArticleRepositoryImpl) UpdateTranslatedBody(ctx context.Context, id, translatedBody string) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"translated_body": nullString(translatedBody),
	})
}

func (r *ArticleRepositoryImpl) UpdateAnalysis(ctx context.Context, id string, analysis Analysis) error {
	values := map[string]interface{}{
		"is_analyzed":        true,
		"is_relevant":        analysis.IsRelevant,
		"category_matches":   analysis.CategoryMatches,
		"relevance_score":    analysis.RelevanceScore,
		"suggested_category": analysis.SuggestedCategory,
		"analysis_reason":    analysis.Reason,
	}
	if analysis.Keywords != "" {
		values["keywords"] = analysis.Keywords
	}

	return r.updateColumns(ctx, id, values)
}

func (r *ArticleRepositoryImpl) UpdateCategory(ctx context.Context, id, category string) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"category": category})
}

func (r *ArticleRepositoryImpl) UpdateKeywords(ctx context.Context, id, keywords string) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"keywords": nullString(keywords)})
}

func (r *ArticleRepositoryImpl) updateColumns(ctx context.Context, id string, values map[string]interface{}) error {
	if _, ok := values["updated_at"]; !ok {
		values["updated_at"] = time.Now().UTC()
	}

	query, args, err := sq.Update("articles").SetMap(values).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update article: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("failed to update article %s: %w", id, ErrArticleNotFound)
	}

	return nil
}

func (r *ArticleRepositoryImpl) columnValues(article *Article) map[string]interface{} {
	return map[string]interface{}{
		"title":              article.Title,
		"body":               article.Body,
		"translated_body":    nullString(article.TranslatedBody),
		"summary":            nullString(article.Summary),
		"source_name":        article.SourceName,
		"source_url":         article.SourceURL,
		"thumbnail_url":      article.ThumbnailURL,
		"category":           article.Category,
		"language":           article.Language,
		"keywords":           nullString(article.Keywords),
		"is_analyzed":        article.IsAnalyzed,
		"is_relevant":        article.IsRelevant,
		"category_matches":   article.CategoryMatches,
		"relevance_score":    article.RelevanceScore,
		"suggested_category": article.SuggestedCategory,
		"analysis_reason":    article.AnalysisReason,
		"published_at":       article.PublishedAt.UTC(),
	}
}

func (r *ArticleRepositoryImpl) selectArticles(ctx context.Context, builder sq.SelectBuilder) ([]Article, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	articles := []Article{}
	if err := r.db.SelectContext(ctx, &articles, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select articles: %w", err)
	}

	return articles, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
