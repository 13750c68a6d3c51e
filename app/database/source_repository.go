package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SourceRepositoryImpl handles database operations for configured feed sources
type SourceRepositoryImpl struct {
	db *DB
}

var _ SourceRepository = (*SourceRepositoryImpl)(nil)

func NewSourceRepository(db *DB) *SourceRepositoryImpl {
	return &SourceRepositoryImpl{db: db}
}

// UpsertSource inserts or updates a source configuration
func (r *SourceRepositoryImpl) UpsertSource(ctx context.Context, name, feedURL string) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sources (name, feed_url, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET feed_url = excluded.feed_url, updated_at = excluded.updated_at
	`, name, feedURL, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert source: %w", err)
	}

	return nil
}

// UpdateSourceMetadata records the feed's own metadata after a successful fetch
func (r *SourceRepositoryImpl) UpdateSourceMetadata(ctx context.Context, name, title, language string) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		UPDATE sources
		SET title = ?, language = ?, last_fetched_at = ?, updated_at = ?
		WHERE name = ?
	`, title, language, now, now, name)
	if err != nil {
		return fmt.Errorf("failed to update source metadata: %w", err)
	}

	return nil
}

func (r *SourceRepositoryImpl) GetSource(ctx context.Context, name string) (*Source, error) {
	var source Source
	err := r.db.GetContext(ctx, &source, `
		SELECT name, feed_url, title, language, last_fetched_at, created_at, updated_at
		FROM sources
		WHERE name = ?
	`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get source: %w", err)
	}

	return &source, nil
}

func (r *SourceRepositoryImpl) ListSources(ctx context.Context) ([]Source, error) {
	sources := []Source{}
	err := r.db.SelectContext(ctx, &sources, `
		SELECT name, feed_url, title, language, last_fetched_at, created_at, updated_at
		FROM sources
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}

	return sources, nil
}

func (r *SourceRepositoryImpl) GetSourceCount(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM sources`); err != nil {
		return 0, fmt.Errorf("failed to get source count: %w", err)
	}

	return count, nil
}
