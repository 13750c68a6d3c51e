package translate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"
)

type mockTranslator struct {
	mu     sync.Mutex
	calls  []string
	failOn func(text string) bool
}

func (m *mockTranslator) Translate(ctx context.Context, text, from, to string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, text)
	if m.failOn != nil && m.failOn(text) {
		return "", errors.New("provider unavailable")
	}
	return text, nil
}

type upperTranslator struct{}

func (upperTranslator) Translate(ctx context.Context, text, from, to string) (string, error) {
	if from != "en" || to != "ko" {
		return "", errors.New("unexpected language pair")
	}
	return strings.ToUpper(text), nil
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func longText(paragraphs int) string {
	sentence := "Backend teams are hiring engineers who understand distributed systems. "
	paragraph := strings.Repeat(sentence, 8)

	parts := make([]string, paragraphs)
	for i := range parts {
		parts[i] = strings.TrimSpace(paragraph)
	}
	return strings.Join(parts, "\n\n")
}

func TestTranslateShort(t *testing.T) {
	engine := NewEngine(upperTranslator{}, nil)
	ctx := context.Background()

	if got := engine.TranslateShort(ctx, "hello", TitleMaxLength); got != "HELLO" {
		t.Errorf("Expected translated title, got %q", got)
	}

	tooLong := strings.Repeat("a", TitleMaxLength+1)
	if got := engine.TranslateShort(ctx, tooLong, TitleMaxLength); got != tooLong {
		t.Error("Expected over-limit text to be returned unchanged")
	}

	if got := engine.TranslateShort(ctx, "", SummaryMaxLength); got != "" {
		t.Errorf("Expected empty text unchanged, got %q", got)
	}
}

func TestTranslateShortFailureKeepsOriginal(t *testing.T) {
	translator := &mockTranslator{failOn: func(string) bool { return true }}
	engine := NewEngine(translator, nil)

	if got := engine.TranslateShort(context.Background(), "summary", SummaryMaxLength); got != "summary" {
		t.Errorf("Expected original text on failure, got %q", got)
	}
}

func TestTranslateLongSingleCall(t *testing.T) {
	translator := &mockTranslator{}
	engine := NewEngine(translator, nil)

	text := strings.Repeat("a", 2000)
	if got := engine.TranslateLong(context.Background(), text); got != text {
		t.Error("Expected identity translation")
	}
	if len(translator.calls) != 1 {
		t.Errorf("Expected exactly one provider call, got %d", len(translator.calls))
	}
}

func TestTranslateLongChunksRoundTrip(t *testing.T) {
	translator := &mockTranslator{}
	engine := NewEngine(translator, nil)

	text := longText(6)
	if utf8.RuneCountInString(text) <= 2000 {
		t.Fatalf("Fixture too short: %d", utf8.RuneCountInString(text))
	}

	got := engine.TranslateLong(context.Background(), text)

	if len(translator.calls) < 2 {
		t.Errorf("Expected at least 2 chunks, got %d", len(translator.calls))
	}
	for i, chunk := range translator.calls {
		if n := utf8.RuneCountInString(chunk); n > ChunkSize {
			t.Errorf("Chunk %d has %d runes, over the limit", i, n)
		}
	}
	if normalizeSpace(got) != normalizeSpace(text) {
		t.Error("Expected identity translation to reproduce the text modulo whitespace")
	}
}

func TestTranslateLongPartialFailureKeepsOrder(t *testing.T) {
	text := strings.Join([]string{
		strings.Repeat("alpha ", 200),
		strings.Repeat("bravo ", 200),
		strings.Repeat("charlie ", 150),
	}, "\n\n")

	failing := &mockTranslator{failOn: func(s string) bool { return strings.HasPrefix(s, "bravo") }}

	got := NewEngine(&chainTranslator{failing, upperTranslator{}}, nil).TranslateLong(context.Background(), text)

	alpha := strings.Index(got, "ALPHA")
	bravo := strings.Index(got, "bravo")
	charlie := strings.Index(got, "CHARLIE")

	if alpha < 0 || bravo < 0 || charlie < 0 {
		t.Fatalf("Expected translated, original, translated chunks, got %q", got[:80])
	}
	if !(alpha < bravo && bravo < charlie) {
		t.Errorf("Expected chunk order to be preserved, got positions %d %d %d", alpha, bravo, charlie)
	}
}

// chainTranslator fails when the first translator fails, otherwise delegates to the second.
type chainTranslator struct {
	gate Translator
	next Translator
}

func (c *chainTranslator) Translate(ctx context.Context, text, from, to string) (string, error) {
	if _, err := c.gate.Translate(ctx, text, from, to); err != nil {
		return "", err
	}
	return c.next.Translate(ctx, text, from, to)
}

func TestTranslateLongCancelledContextKeepsOriginal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := NewEngine(&mockTranslator{}, NewLimiter(time.Hour))
	text := longText(6)

	if got := engine.TranslateLong(ctx, text); normalizeSpace(got) != normalizeSpace(text) {
		t.Error("Expected original text when the context is cancelled")
	}
}

type timedTranslator struct {
	mu    sync.Mutex
	times []time.Time
}

func (m *timedTranslator) Translate(ctx context.Context, text, from, to string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.times = append(m.times, time.Now())
	return text, nil
}

func TestTranslateLongPacesProviderCalls(t *testing.T) {
	text := strings.Join([]string{
		strings.Repeat("alpha ", 200),
		strings.Repeat("bravo ", 200),
		strings.Repeat("charlie ", 150),
	}, "\n\n")

	interval := 50 * time.Millisecond
	translator := &timedTranslator{}
	engine := NewEngine(translator, NewLimiter(interval))

	start := time.Now()
	engine.TranslateLong(context.Background(), text)
	elapsed := time.Since(start)

	if len(translator.times) != 3 {
		t.Fatalf("Expected 3 chunk calls, got %d", len(translator.times))
	}

	// Allow some slack for timer granularity.
	minGap := interval - 10*time.Millisecond
	for i := 1; i < len(translator.times); i++ {
		if gap := translator.times[i].Sub(translator.times[i-1]); gap < minGap {
			t.Errorf("Expected calls %d and %d at least %v apart, got %v", i-1, i, minGap, gap)
		}
	}
	if elapsed < 2*minGap {
		t.Errorf("Expected pacing to take at least %v, took %v", 2*minGap, elapsed)
	}
}
