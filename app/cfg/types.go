package cfg

import "time"

type Cfg struct {
	// Storage
	DBPath     string
	SourcesDir string

	// HTTP surface
	Port         string
	BaseUrl      string
	APIAccessKey string

	// Background processing
	WorkerCount   int
	CrawlSchedule string

	// Translation provider
	TranslatorKey      string
	TranslatorRegion   string
	TranslatorEndpoint string
	TranslateInterval  time.Duration

	// Text-completion provider
	AIProvider string
	AIKey      string
	AIModel    string
	AIBaseURL  string

	// News search APIs
	NewsAPIKey string
	GNewsKey   string

	// Response cache
	RedisAddr string
	CacheTTL  time.Duration

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
