package cfg

import (
	"cmp"
	"fmt"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage
	DBPath     string `long:"db-path" env:"DB_PATH" default:"./data/career-comb.db" description:"SQLite database file"`
	SourcesDir string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing RSS source files"`

	// HTTP surface
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl      string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://careers.example.com)"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for admin endpoints (optional)"`

	// Background processing
	WorkerCount   int    `long:"worker-count" env:"WORKER_COUNT" default:"3" description:"Number of background workers"`
	CrawlSchedule string `long:"crawl-schedule" env:"CRAWL_SCHEDULE" default:"0 9 * * *" description:"Cron expression for the daily crawl"`

	// Translation provider
	TranslatorKey      string `long:"translator-key" env:"TRANSLATOR_KEY" description:"Microsoft Translator subscription key (required)" required:"true"`
	TranslatorRegion   string `long:"translator-region" env:"TRANSLATOR_REGION" description:"Microsoft Translator resource region"`
	TranslatorEndpoint string `long:"translator-endpoint" env:"TRANSLATOR_ENDPOINT" default:"https://api.cognitive.microsofttranslator.com" description:"Microsoft Translator endpoint"`
	TranslateInterval  int    `long:"translate-interval" env:"TRANSLATE_INTERVAL_MS" default:"300" description:"Minimum delay between translation calls in milliseconds"`

	// Text-completion provider
	AIProvider string `long:"ai-provider" env:"AI_PROVIDER" default:"openai" choice:"openai" choice:"compat" description:"Chat completion backend"`
	AIKey      string `long:"ai-key" env:"AI_API_KEY" description:"Chat completion API key (required)" required:"true"`
	AIModel    string `long:"ai-model" env:"AI_MODEL" default:"gpt-4o-mini" description:"Chat completion model"`
	AIBaseURL  string `long:"ai-base-url" env:"AI_BASE_URL" description:"Base URL for OpenAI-compatible endpoints"`

	// News search APIs
	NewsAPIKey string `long:"newsapi-key" env:"NEWSAPI_KEY" description:"newsapi.org key (optional)"`
	GNewsKey   string `long:"gnews-key" env:"GNEWS_KEY" description:"gnews.io key (optional)"`

	// Response cache
	RedisAddr string `long:"redis-addr" env:"REDIS_ADDR" description:"Redis address for response caching (optional)"`
	CacheTTL  int    `long:"cache-ttl" env:"CACHE_TTL" default:"300" description:"Response cache TTL in seconds"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Career Comb/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps and the crawl schedule"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	return load(nil)
}

func load(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	var err error
	if args == nil {
		_, err = parser.Parse()
	} else {
		_, err = parser.ParseArgs(args)
	}
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := validate(&raw); err != nil {
		return nil, err
	}

	cfg := &Cfg{
		DBPath:             raw.DBPath,
		SourcesDir:         raw.SourcesDir,
		Port:               raw.Port,
		BaseUrl:            strings.TrimRight(raw.BaseUrl, "/"),
		APIAccessKey:       raw.APIAccessKey,
		WorkerCount:        raw.WorkerCount,
		CrawlSchedule:      raw.CrawlSchedule,
		TranslatorKey:      raw.TranslatorKey,
		TranslatorRegion:   raw.TranslatorRegion,
		TranslatorEndpoint: strings.TrimRight(raw.TranslatorEndpoint, "/"),
		TranslateInterval:  time.Duration(raw.TranslateInterval) * time.Millisecond,
		AIProvider:         raw.AIProvider,
		AIKey:              raw.AIKey,
		AIModel:            raw.AIModel,
		AIBaseURL:          raw.AIBaseURL,
		NewsAPIKey:         raw.NewsAPIKey,
		GNewsKey:           raw.GNewsKey,
		RedisAddr:          raw.RedisAddr,
		CacheTTL:           time.Duration(raw.CacheTTL) * time.Second,
		UserAgent:          raw.UserAgent,
		Timezone:           raw.Timezone,
		Debug:              raw.Debug,
		Version:            GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func validate(raw *rawCfg) error {
	if raw.WorkerCount <= 0 {
		return fmt.Errorf("worker count must be positive")
	}
	if raw.TranslateInterval < 0 {
		return fmt.Errorf("translate interval must be non-negative")
	}
	if raw.CacheTTL < 0 {
		return fmt.Errorf("cache TTL must be non-negative")
	}
	if raw.AIProvider == "compat" && raw.AIBaseURL == "" {
		return fmt.Errorf("ai base URL is required for the compat provider")
	}
	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
