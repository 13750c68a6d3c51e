package summarize

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

const (
	DefaultMaxSentences = 5
	LongMaxSentences    = 8
	longTextThreshold   = 3000
	fallbackLength      = 500
)

var tokenPattern = regexp.MustCompile(`\w+|[^\w\s]`)

// Summarizer builds extractive summaries from the highest scoring sentences.
type Summarizer struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

func NewSummarizer() (*Summarizer, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load sentence tokenizer: %w", err)
	}

	return &Summarizer{tokenizer: tokenizer}, nil
}

// MaxSentencesFor returns the sentence budget for a body.
func MaxSentencesFor(text string) int {
	if utf8.RuneCountInString(text) > longTextThreshold {
		return LongMaxSentences
	}
	return DefaultMaxSentences
}

type scoredSentence struct {
	position int
	text     string
	score    float64
}

// Summarize returns the maxSentences best sentences of text in their original
// order. Texts with no more sentences than that are returned unchanged.
func (s *Summarizer) Summarize(text string, maxSentences int) (summary string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("Summarization failed, truncating", "error", r)
			summary = truncate(text)
		}
	}()

	if maxSentences <= 0 {
		maxSentences = DefaultMaxSentences
	}

	detected := s.split(text)
	if len(detected) <= maxSentences {
		return text
	}

	total := float64(len(detected))
	scored := make([]scoredSentence, len(detected))
	for i, sentence := range detected {
		tokens := float64(len(tokenPattern.FindAllString(sentence, -1)))
		scored[i] = scoredSentence{
			position: i,
			text:     sentence,
			score:    0.6*(1-float64(i)/total) + 0.4*min(1, tokens/20),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	selected := scored[:maxSentences]
	sort.Slice(selected, func(i, j int) bool { return selected[i].position < selected[j].position })

	parts := make([]string, len(selected))
	for i, sentence := range selected {
		parts[i] = sentence.text
	}

	return strings.Join(parts, " ")
}

func (s *Summarizer) split(text string) []string {
	var result []string
	for _, sentence := range s.tokenizer.Tokenize(text) {
		if trimmed := strings.TrimSpace(sentence.Text); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func truncate(text string) string {
	if utf8.RuneCountInString(text) <= fallbackLength {
		return text
	}
	return string([]rune(text)[:fallbackLength]) + "..."
}
