package news

import (
	"bytes"
	"cmp"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

func (p *Parser) Run(data []byte) (*Metadata, []Item, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	metadata := &Metadata{
		Title:       strings.TrimSpace(feed.Title),
		Link:        feed.Link,
		Description: feed.Description,
		Language:    normalizeLanguage(feed.Language),
	}

	items := make([]Item, 0, len(feed.Items))
	for _, item := range feed.Items {
		items = append(items, p.normalizeItem(item))
	}

	return metadata, items, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) Item {
	normalized := Item{
		GUID:         cmp.Or(item.GUID, item.Link),
		Title:        cleanText(item.Title),
		Link:         strings.TrimSpace(item.Link),
		Description:  item.Description,
		Content:      item.Content,
		Categories:   item.Categories,
		ThumbnailURL: p.extractThumbnail(item),
	}

	if item.PublishedParsed != nil {
		normalized.PublishedAt = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		normalized.PublishedAt = *item.UpdatedParsed
	}

	return normalized
}

// extractThumbnail checks the item image, image enclosures and media
// extensions before falling back to the first <img> in the description.
func (p *Parser) extractThumbnail(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}

	for _, enclosure := range item.Enclosures {
		if enclosure != nil && enclosure.URL != "" && strings.HasPrefix(enclosure.Type, "image/") {
			return enclosure.URL
		}
	}

	if media, ok := item.Extensions["media"]; ok {
		for _, name := range []string{"thumbnail", "content"} {
			for _, ext := range media[name] {
				url := ext.Attrs["url"]
				if url == "" || !isImageMedia(ext.Attrs) {
					continue
				}
				return url
			}
		}
	}

	if src := firstImage(item.Description); src != "" {
		return src
	}
	return firstImage(item.Content)
}

func isImageMedia(attrs map[string]string) bool {
	if medium := attrs["medium"]; medium != "" {
		return medium == "image"
	}
	if mimeType := attrs["type"]; mimeType != "" {
		return strings.HasPrefix(mimeType, "image/")
	}
	return true
}
