package news

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"
)

const DefaultGNewsEndpoint = "https://gnews.io/api/v4/search"

var _ Fetcher = (*GNewsFetcher)(nil)

type GNewsFetcher struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	pages      PageExtractor
	userAgent  string
}

func NewGNewsFetcher(httpClient *http.Client, endpoint, apiKey string, pages PageExtractor, userAgent string) *GNewsFetcher {
	if endpoint == "" {
		endpoint = DefaultGNewsEndpoint
	}

	return &GNewsFetcher{
		httpClient: httpClient,
		endpoint:   endpoint,
		apiKey:     apiKey,
		pages:      pages,
		userAgent:  userAgent,
	}
}

func (f *GNewsFetcher) Name() string {
	return "gnews"
}

func (f *GNewsFetcher) Fetch(ctx context.Context, category string) []Candidate {
	query := url.Values{}
	query.Set("q", SearchQuery(category))
	query.Set("lang", "en")
	query.Set("max", fmt.Sprint(searchResultLimit))
	query.Set("apikey", f.apiKey)

	data, err := fetchURL(ctx, f.httpClient, f.endpoint+"?"+query.Encode(), f.userAgent, searchTimeout)
	if err != nil {
		slog.Warn("Failed to query GNews", "category", category, "error", err)
		return nil
	}

	if !gjson.ValidBytes(data) {
		slog.Warn("GNews returned invalid JSON", "category", category)
		return nil
	}

	result := gjson.ParseBytes(data)
	if errs := result.Get("errors"); errs.Exists() {
		slog.Warn("GNews returned an error", "errors", errs.String())
		return nil
	}

	var candidates []Candidate
	for _, article := range result.Get("articles").Array() {
		if len(candidates) >= searchResultLimit || ctx.Err() != nil {
			break
		}

		link := article.Get("url").String()
		title := article.Get("title").String()
		if link == "" || title == "" {
			continue
		}

		body := truncationMarker.ReplaceAllString(htmlToText(article.Get("content").String()), "")
		if description := htmlToText(article.Get("description").String()); len(description) > len(body) {
			body = description
		}
		body = completeBody(ctx, f.pages, body, link, searchTimeout)

		candidates = append(candidates, newCandidate(
			title,
			body,
			article.Get("source.name").String(),
			link,
			article.Get("image").String(),
			parseTime(article.Get("publishedAt").String()),
		))
	}

	return candidates
}
