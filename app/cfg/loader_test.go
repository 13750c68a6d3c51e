package cfg

import (
	"testing"
	"time"
)

func TestGetVersion(t *testing.T) {
	// Test default version
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}

	version := GetVersion()
	if version != "dev" && version != "unknown" {
		// This is fine, version could be set at build time
		t.Logf("Version: %s", version)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TZ", "UTC")

	cfg, err := load([]string{"--translator-key", "tk", "--ai-key", "ak"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.WorkerCount != 3 {
		t.Errorf("Expected worker count 3, got %d", cfg.WorkerCount)
	}
	if cfg.CrawlSchedule != "0 9 * * *" {
		t.Errorf("Expected crawl schedule '0 9 * * *', got '%s'", cfg.CrawlSchedule)
	}
	if cfg.TranslateInterval != 300*time.Millisecond {
		t.Errorf("Expected translate interval 300ms, got %v", cfg.TranslateInterval)
	}
	if cfg.CacheTTL != 300*time.Second {
		t.Errorf("Expected cache TTL 300s, got %v", cfg.CacheTTL)
	}
	if cfg.AIProvider != "openai" {
		t.Errorf("Expected AI provider 'openai', got '%s'", cfg.AIProvider)
	}
	if cfg.UserAgent != "Career Comb/1.0" {
		t.Errorf("Expected user agent 'Career Comb/1.0', got '%s'", cfg.UserAgent)
	}
	if Get() != cfg {
		t.Error("Expected Get to return the loaded configuration")
	}
}

func TestLoadTrimsURLs(t *testing.T) {
	t.Setenv("TZ", "UTC")

	cfg, err := load([]string{
		"--translator-key", "tk",
		"--ai-key", "ak",
		"--base-url", "https://careers.example.com/",
		"--translator-endpoint", "https://translator.example.com/",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.BaseUrl != "https://careers.example.com" {
		t.Errorf("Expected trimmed base URL, got '%s'", cfg.BaseUrl)
	}
	if cfg.TranslatorEndpoint != "https://translator.example.com" {
		t.Errorf("Expected trimmed translator endpoint, got '%s'", cfg.TranslatorEndpoint)
	}
}

func TestLoadMissingCredentials(t *testing.T) {
	t.Setenv("TRANSLATOR_KEY", "")
	t.Setenv("AI_API_KEY", "")

	if _, err := load([]string{"--ai-key", "ak"}); err == nil {
		t.Error("Expected error when translator key is missing")
	}
}

func TestLoadCompatRequiresBaseURL(t *testing.T) {
	t.Setenv("AI_BASE_URL", "")

	_, err := load([]string{"--translator-key", "tk", "--ai-key", "ak", "--ai-provider", "compat"})
	if err == nil {
		t.Error("Expected error for compat provider without base URL")
	}
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	_, err := load([]string{"--translator-key", "tk", "--ai-key", "ak", "--ai-provider", "bard"})
	if err == nil {
		t.Error("Expected error for unknown AI provider")
	}
}

func TestLoadRejectsNonPositiveWorkers(t *testing.T) {
	_, err := load([]string{"--translator-key", "tk", "--ai-key", "ak", "--worker-count", "0"})
	if err == nil {
		t.Error("Expected error for zero workers")
	}
}
