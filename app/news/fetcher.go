package news

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lysyi3m/career-comb/app/database"
)

// Fetcher retrieves candidate articles from one origin. Failures are logged
// and whatever was collected before the failure is returned.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, category string) []Candidate
}

// PageExtractor returns the readable text of an article page.
type PageExtractor interface {
	Extract(ctx context.Context, pageURL string, timeout time.Duration) (string, error)
}

// SourceRecorder stores feed metadata after a successful parse.
type SourceRecorder interface {
	UpdateSourceMetadata(ctx context.Context, name, title, language string) error
}

const searchTimeout = 10 * time.Second

func fetchURL(ctx context.Context, client *http.Client, url, userAgent string, timeout time.Duration) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

// completeBody replaces a body that is too short to be valid with the
// extracted page text when that text is longer.
func completeBody(ctx context.Context, pages PageExtractor, body, pageURL string, timeout time.Duration) string {
	if pages == nil || IsValid(body) || pageURL == "" {
		return body
	}

	extracted, err := pages.Extract(ctx, pageURL, timeout)
	if err != nil {
		slog.Debug("Content extraction failed", "url", pageURL, "error", err)
		return body
	}
	if len([]rune(extracted)) > len([]rune(body)) {
		return extracted
	}
	return body
}

func newCandidate(title, body, sourceName, sourceURL, thumbnail string, publishedAt time.Time) Candidate {
	return Candidate{
		Title:        cleanText(title),
		Body:         strings.TrimSpace(body),
		SourceName:   sourceName,
		SourceURL:    strings.TrimSpace(sourceURL),
		ThumbnailURL: strings.TrimSpace(thumbnail),
		Category:     database.CategoryGeneral,
		Language:     database.LanguageEnglish,
		PublishedAt:  publishedAt,
	}
}
