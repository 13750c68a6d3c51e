package translate

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"
)

const (
	TitleMaxLength   = 200
	SummaryMaxLength = 500

	// Texts up to directLimit runes are sent in a single call; longer texts
	// are split into chunks of at most ChunkSize runes.
	directLimit = 2000
	ChunkSize   = 1500

	SourceLanguage = "en"
	TargetLanguage = "ko"
)

// Engine translates article text and never fails: on provider errors the
// original text is returned in place of the translation.
type Engine struct {
	translator Translator
	limiter    *rate.Limiter
}

// NewEngine paces provider calls with limiter. A nil limiter means no pacing.
func NewEngine(translator Translator, limiter *rate.Limiter) *Engine {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}

	return &Engine{translator: translator, limiter: limiter}
}

// NewLimiter allows one provider call per interval.
func NewLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// TranslateShort translates a title or summary in one call. Empty text and
// text longer than maxLen runes are returned unchanged.
func (e *Engine) TranslateShort(ctx context.Context, text string, maxLen int) string {
	if strings.TrimSpace(text) == "" || utf8.RuneCountInString(text) > maxLen {
		return text
	}

	translated, err := e.call(ctx, text)
	if err != nil {
		slog.Warn("Short translation failed, keeping original", "length", utf8.RuneCountInString(text), "error", err)
		return text
	}

	return translated
}

// TranslateLong translates an article body. Long bodies are chunked and the
// chunks translated in order; a failed chunk keeps its original text.
func (e *Engine) TranslateLong(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	if utf8.RuneCountInString(text) <= directLimit {
		translated, err := e.call(ctx, text)
		if err != nil {
			slog.Warn("Body translation failed, keeping original", "length", utf8.RuneCountInString(text), "error", err)
			return text
		}
		return translated
	}

	chunks := SplitChunks(text, ChunkSize)
	results := make([]string, len(chunks))
	failed := 0

	for i, chunk := range chunks {
		translated, err := e.call(ctx, chunk)
		if err != nil {
			slog.Warn("Chunk translation failed, keeping original", "chunk", i, "chunks", len(chunks), "error", err)
			results[i] = chunk
			failed++
			continue
		}
		results[i] = translated
	}

	slog.Debug("Body translated", "chunks", len(chunks), "failed", failed)

	return strings.Join(results, " ")
}

func (e *Engine) call(ctx context.Context, text string) (string, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return e.translator.Translate(ctx, text, SourceLanguage, TargetLanguage)
}
