package news

import (
	"time"
)

// Candidate is a fetched article that has not been deduplicated or stored yet.
type Candidate struct {
	Title        string
	Body         string
	SourceName   string
	SourceURL    string
	ThumbnailURL string // empty when none was found
	Category     string
	Language     string
	PublishedAt  time.Time
}

// Feed processing types

type Metadata struct {
	Title       string
	Link        string
	Description string
	Language    string
}

type Item struct {
	GUID         string
	Title        string
	Link         string
	Description  string
	Content      string
	PublishedAt  time.Time
	Categories   []string
	ThumbnailURL string
}

// Configuration types

type Config struct {
	Name     string         // Derived from filename (without .yml extension)
	URL      string         `yaml:"url"`
	Title    string         `yaml:"name"` // Display name used as the article source name
	Settings ConfigSettings `yaml:"settings"`
	Filters  []ConfigFilter `yaml:"filters"`
}

type ConfigSettings struct {
	Enabled        bool `yaml:"enabled"`
	MaxItems       int  `yaml:"max_items"`
	Timeout        int  `yaml:"timeout"`         // seconds
	ExtractContent bool `yaml:"extract_content"` // fetch the article page when the feed body is short
}

type ConfigFilter struct {
	Field    string   `yaml:"field"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// SourceName returns the display name, falling back to the config name.
func (c *Config) SourceName() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Name
}
