package news

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	DefaultNewsAPIEndpoint = "https://newsapi.org/v2/everything"
	searchResultLimit      = 3
)

// Search APIs truncate content with markers like "[+1234 chars]" or "... [1234 chars]".
var truncationMarker = regexp.MustCompile(`\s*(\.\.\.\s*)?\[\+?\d+ chars\]\s*$`)

var _ Fetcher = (*NewsAPIFetcher)(nil)

type NewsAPIFetcher struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	pages      PageExtractor
	userAgent  string
}

func NewNewsAPIFetcher(httpClient *http.Client, endpoint, apiKey string, pages PageExtractor, userAgent string) *NewsAPIFetcher {
	if endpoint == "" {
		endpoint = DefaultNewsAPIEndpoint
	}

	return &NewsAPIFetcher{
		httpClient: httpClient,
		endpoint:   endpoint,
		apiKey:     apiKey,
		pages:      pages,
		userAgent:  userAgent,
	}
}

func (f *NewsAPIFetcher) Name() string {
	return "newsapi"
}

func (f *NewsAPIFetcher) Fetch(ctx context.Context, category string) []Candidate {
	query := url.Values{}
	query.Set("q", SearchQuery(category))
	query.Set("language", "en")
	query.Set("sortBy", "publishedAt")
	query.Set("pageSize", fmt.Sprint(searchResultLimit))
	query.Set("apiKey", f.apiKey)

	data, err := fetchURL(ctx, f.httpClient, f.endpoint+"?"+query.Encode(), f.userAgent, searchTimeout)
	if err != nil {
		slog.Warn("Failed to query NewsAPI", "category", category, "error", err)
		return nil
	}

	if !gjson.ValidBytes(data) {
		slog.Warn("NewsAPI returned invalid JSON", "category", category)
		return nil
	}

	result := gjson.ParseBytes(data)
	if status := result.Get("status").String(); status != "" && status != "ok" {
		slog.Warn("NewsAPI returned an error", "code", result.Get("code").String(), "message", result.Get("message").String())
		return nil
	}

	var candidates []Candidate
	result.Get("articles").ForEach(func(_, article gjson.Result) bool {
		if len(candidates) >= searchResultLimit || ctx.Err() != nil {
			return false
		}

		link := article.Get("url").String()
		title := article.Get("title").String()
		if link == "" || title == "" {
			return true
		}

		body := htmlToText(article.Get("description").String())
		if content := truncationMarker.ReplaceAllString(htmlToText(article.Get("content").String()), ""); len(content) > len(body) {
			body = content
		}
		body = completeBody(ctx, f.pages, body, link, searchTimeout)

		candidates = append(candidates, newCandidate(
			title,
			body,
			strings.TrimSpace(article.Get("source.name").String()),
			link,
			article.Get("urlToImage").String(),
			parseTime(article.Get("publishedAt").String()),
		))
		return true
	})

	return candidates
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return parsed.UTC()
}
