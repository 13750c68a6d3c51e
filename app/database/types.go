package database

import (
	"time"
)

const (
	CategoryGeneral = "general"

	LanguageEnglish = "en"
	LanguageKorean  = "ko"
)

type Article struct {
	ID             string `db:"id"`
	Title          string `db:"title"`
	Body           string `db:"body"`
	TranslatedBody string `db:"translated_body"` // empty until the async body translation lands
	Summary        string `db:"summary"`
	SourceName     string `db:"source_name"`
	SourceURL      string `db:"source_url"` // dedup key
	ThumbnailURL   string `db:"thumbnail_url"`
	Category       string `db:"category"`
	Language       string `db:"language"`
	Keywords       string `db:"keywords"` // comma-joined

	IsAnalyzed        bool    `db:"is_analyzed"`
	IsRelevant        bool    `db:"is_relevant"`
	CategoryMatches   bool    `db:"category_matches"`
	RelevanceScore    float64 `db:"relevance_score"`
	SuggestedCategory string  `db:"suggested_category"`
	AnalysisReason    string  `db:"analysis_reason"`

	PublishedAt time.Time `db:"published_at"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Analysis holds the AI analysis columns. An empty Keywords leaves the
// stored keywords untouched.
type Analysis struct {
	IsRelevant        bool
	CategoryMatches   bool
	RelevanceScore    float64
	SuggestedCategory string
	Reason            string
	Keywords          string
}

type Source struct {
	Name          string     `db:"name"`     // Derived from the source filename
	FeedURL       string     `db:"feed_url"` // RSS/Atom URL from configuration
	Title         string     `db:"title"`    // Feed's own title from the last successful parse
	Language      string     `db:"language"`
	LastFetchedAt *time.Time `db:"last_fetched_at"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

type ArticleFilter struct {
	Category string // empty means every category
	Limit    int
	Offset   int
}

type Stats struct {
	Total              int            `json:"total"`
	Analyzed           int            `json:"analyzed"`
	Relevant           int            `json:"relevant"`
	PendingTranslation int            `json:"pending_translation"`
	ByCategory         map[string]int `json:"by_category"`
}
