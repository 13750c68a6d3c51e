package news

import (
	"cmp"
	"context"
	"log/slog"
	"net/http"
	"time"
)

var _ Fetcher = (*RSSFetcher)(nil)

// RSSFetcher reads every enabled source from the config cache.
type RSSFetcher struct {
	configCache *ConfigCache
	httpClient  *http.Client
	parser      *Parser
	filterer    *Filterer
	pages       PageExtractor
	sources     SourceRecorder
	userAgent   string
}

func NewRSSFetcher(configCache *ConfigCache, httpClient *http.Client, parser *Parser, filterer *Filterer,
	pages PageExtractor, sources SourceRecorder, userAgent string) *RSSFetcher {
	return &RSSFetcher{
		configCache: configCache,
		httpClient:  httpClient,
		parser:      parser,
		filterer:    filterer,
		pages:       pages,
		sources:     sources,
		userAgent:   userAgent,
	}
}

func (f *RSSFetcher) Name() string {
	return "rss"
}

func (f *RSSFetcher) Fetch(ctx context.Context, category string) []Candidate {
	var candidates []Candidate

	for _, source := range f.configCache.GetEnabledConfigs() {
		if ctx.Err() != nil {
			slog.Warn("RSS fetch interrupted", "collected", len(candidates), "error", ctx.Err())
			return candidates
		}

		fetched, err := f.fetchSource(ctx, source)
		if err != nil {
			slog.Warn("Failed to fetch source", "source", source.Name, "url", source.URL, "error", err)
			continue
		}
		candidates = append(candidates, fetched...)
	}

	return candidates
}

func (f *RSSFetcher) fetchSource(ctx context.Context, source *Config) ([]Candidate, error) {
	timeout := time.Duration(source.Settings.Timeout) * time.Second

	data, err := fetchURL(ctx, f.httpClient, source.URL, f.userAgent, timeout)
	if err != nil {
		return nil, err
	}

	metadata, items, err := f.parser.Run(data)
	if err != nil {
		return nil, err
	}

	if f.sources != nil {
		if err := f.sources.UpdateSourceMetadata(ctx, source.Name, metadata.Title, metadata.Language); err != nil {
			slog.Warn("Failed to store source metadata", "source", source.Name, "error", err)
		}
	}

	kept := f.filterer.Keep(items, source)
	if len(kept) > source.Settings.MaxItems {
		kept = kept[:source.Settings.MaxItems]
	}

	sourceName := cmp.Or(source.Title, metadata.Title, source.Name)
	candidates := make([]Candidate, 0, len(kept))
	for _, item := range kept {
		body := htmlToText(cmp.Or(item.Content, item.Description))
		if source.Settings.ExtractContent {
			body = completeBody(ctx, f.pages, body, item.Link, timeout)
		}

		candidates = append(candidates, newCandidate(item.Title, body, sourceName, item.Link, item.ThumbnailURL, item.PublishedAt))
	}

	slog.Debug("Source fetched", "source", source.Name, "items", len(items), "kept", len(candidates))

	return candidates, nil
}
