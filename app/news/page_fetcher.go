package news

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
)

// PageFetcher downloads article pages and extracts their main text.
type PageFetcher struct {
	base      *colly.Collector
	extractor *ContentExtractor
}

func NewPageFetcher(userAgent string, extractor *ContentExtractor) *PageFetcher {
	base := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.IgnoreRobotsTxt(),
		colly.MaxDepth(1),
		colly.AllowURLRevisit(),
	)

	return &PageFetcher{base: base, extractor: extractor}
}

// Extract fetches pageURL within timeout and returns its readable text.
func (f *PageFetcher) Extract(ctx context.Context, pageURL string, timeout time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := f.base.Clone()
	c.SetRequestTimeout(timeout)

	var (
		body     []byte
		fetchErr error
	)

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})
	c.OnResponse(func(r *colly.Response) {
		if r.StatusCode == http.StatusOK {
			body = r.Body
		}
	})
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("HTTP error: %d: %w", r.StatusCode, err)
	})

	if err := c.Visit(pageURL); err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	if fetchErr != nil {
		return "", fetchErr
	}
	if body == nil {
		return "", fmt.Errorf("no page body received")
	}

	return f.extractor.Run(body, pageURL)
}
