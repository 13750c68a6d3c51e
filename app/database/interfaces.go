package database

import (
	"context"
	"errors"
)

var ErrArticleNotFound = errors.New("article not found")

type ArticleRepository interface {
	ExistsByURL(ctx context.Context, sourceURL string) (bool, error)
	FindByID(ctx context.Context, id string) (*Article, error)
	FindAll(ctx context.Context) ([]Article, error)
	FindUnanalyzed(ctx context.Context) ([]Article, error)

	List(ctx context.Context, filter ArticleFilter) ([]Article, error)
	Search(ctx context.Context, query string, limit int) ([]Article, error)
	GetStats(ctx context.Context) (*Stats, error)

	// Save inserts articles without an ID (assigning one) and updates the rest.
	// Updating a row that no longer exists returns ErrArticleNotFound.
	Save(ctx context.Context, article *Article) error

	// Partial updates write only the columns a stage owns, so concurrent
	// stages do not overwrite each other. A missing row returns ErrArticleNotFound.
	UpdateEnrichment(ctx context.Context, id, title, summary string) error
	UpdateTranslatedBody(ctx context.Context, id, translatedBody string) error
	UpdateAnalysis(ctx context.Context, id string, analysis Analysis) error
	UpdateCategory(ctx context.Context, id, category string) error
	UpdateKeywords(ctx context.Context, id, keywords string) error
}

type SourceRepository interface {
	GetSource(ctx context.Context, name string) (*Source, error)
	ListSources(ctx context.Context) ([]Source, error)
	GetSourceCount(ctx context.Context) (int, error)

	UpsertSource(ctx context.Context, name, feedURL string) error
	UpdateSourceMetadata(ctx context.Context, name, title, language string) error
}
