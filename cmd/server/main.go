package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/career-comb/app/analysis"
	"github.com/lysyi3m/career-comb/app/api"
	"github.com/lysyi3m/career-comb/app/cache"
	"github.com/lysyi3m/career-comb/app/cfg"
	"github.com/lysyi3m/career-comb/app/database"
	"github.com/lysyi3m/career-comb/app/news"
	"github.com/lysyi3m/career-comb/app/pipeline"
	"github.com/lysyi3m/career-comb/app/summarize"
	"github.com/lysyi3m/career-comb/app/tasks"
	"github.com/lysyi3m/career-comb/app/translate"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	c, err := cfg.Load()
	if err != nil {
		return err
	}
	if c == nil {
		return nil
	}

	level := slog.LevelInfo
	if c.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	slog.Info("Starting Career Comb server", "version", c.Version)

	db, err := database.NewConnection(c.DBPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Info("Database ready", "path", c.DBPath, "schema_version", version, "dirty", dirty)

	articleRepo := database.NewArticleRepository(db)
	sourceRepo := database.NewSourceRepository(db)

	configCache := news.NewConfigCache(c.SourcesDir, news.DefaultSources())
	if err := configCache.Run(); err != nil {
		return fmt.Errorf("failed to load source configurations: %w", err)
	}
	slog.Info("Source configurations loaded", "dir", c.SourcesDir, "count", configCache.GetConfigCount())

	httpClient := &http.Client{Timeout: 30 * time.Second}
	pages := news.NewPageFetcher(c.UserAgent, news.NewContentExtractor())

	fetchers := []news.Fetcher{
		news.NewRSSFetcher(configCache, httpClient, news.NewParser(), news.NewFilterer(), pages, sourceRepo, c.UserAgent),
	}
	if c.NewsAPIKey != "" {
		fetchers = append(fetchers, news.NewNewsAPIFetcher(httpClient, news.DefaultNewsAPIEndpoint, c.NewsAPIKey, pages, c.UserAgent))
	} else {
		slog.Info("NewsAPI fetcher disabled (NEWSAPI_KEY not set)")
	}
	if c.GNewsKey != "" {
		fetchers = append(fetchers, news.NewGNewsFetcher(httpClient, news.DefaultGNewsEndpoint, c.GNewsKey, pages, c.UserAgent))
	} else {
		slog.Info("GNews fetcher disabled (GNEWS_KEY not set)")
	}

	translator := translate.NewMicrosoftTranslator(httpClient, c.TranslatorEndpoint, c.TranslatorKey, c.TranslatorRegion)
	translationEngine := translate.NewEngine(translator, translate.NewLimiter(c.TranslateInterval))

	summarizer, err := summarize.NewSummarizer()
	if err != nil {
		return fmt.Errorf("failed to initialize summarizer: %w", err)
	}

	completer, err := analysis.NewCompleter(c.AIProvider, c.AIKey, c.AIModel, c.AIBaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize completion provider: %w", err)
	}
	analysisEngine := analysis.NewEngine(completer)

	location, err := time.LoadLocation(c.Timezone)
	if err != nil {
		slog.Warn("Invalid timezone for crawl schedule, using UTC", "timezone", c.Timezone, "error", err)
		location = time.UTC
	}

	var responseCache api.ResponseCache
	var feedCache pipeline.FeedInvalidator
	if c.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisCache, err := cache.NewCache(ctx, c.RedisAddr)
		cancel()
		if err != nil {
			slog.Warn("Response cache disabled", "addr", c.RedisAddr, "error", err)
		} else {
			defer redisCache.Close()
			responseCache = redisCache
			feedCache = redisCache
		}
	}

	scheduler := tasks.NewScheduler(c.WorkerCount, location)
	service := pipeline.NewService(fetchers, articleRepo, translationEngine, summarizer, analysisEngine, scheduler, feedCache)

	if err := scheduler.Schedule(c.CrawlSchedule, func() tasks.TaskInterface {
		return tasks.NewCrawlTask("", service)
	}); err != nil {
		return err
	}

	slog.Info("Starting background scheduler", "workers", c.WorkerCount, "crawl_schedule", c.CrawlSchedule)
	scheduler.Start()
	defer scheduler.Stop()

	for _, sourceConfig := range configCache.GetConfigs() {
		if err := scheduler.EnqueueTask(tasks.NewSyncSourceTask(sourceConfig, sourceRepo)); err != nil {
			slog.Warn("Failed to enqueue source sync", "source", sourceConfig.Name, "error", err)
		}
	}

	generator := news.NewGenerator(c.BaseUrl, c.Version)
	handler := api.NewHandler(configCache, articleRepo, sourceRepo, generator, service, responseCache, c.CacheTTL)

	httpServer := &http.Server{
		Addr:         ":" + c.Port,
		Handler:      api.NewServer(handler, c.APIAccessKey),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute, // admin batch endpoints run synchronously
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", c.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case runErr = <-serverErrChan:
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	return runErr
}
