package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

const (
	CategoryGeneral = "general"

	analyzeBodyLimit = 1500
	promptBodyLimit  = 1000
	maxKeywords      = 5

	fallbackScore = 0.6
	defaultScore  = 0.5
	defaultReason = "default due to analysis error"
)

// Categories is the fixed set an article can be classified into.
var Categories = []string{"frontend", "backend", "design", "planning", "devops", CategoryGeneral}

var techTerms = []string{
	"javascript", "typescript", "react", "vue", "angular", "node", "python", "java",
	"go", "kotlin", "spring", "docker", "kubernetes", "aws", "cloud", "ai", "figma", "sql",
}

// Result is the outcome of analysing one article against a target category.
type Result struct {
	IsRelevant        bool
	CategoryMatch     bool
	RelevanceScore    float64
	SuggestedCategory string
	Keywords          []string
	Reason            string
}

// Engine runs analysis prompts. None of its operations return errors: provider
// failures and unparseable answers fall back to fixed defaults.
type Engine struct {
	completer Completer
}

func NewEngine(completer Completer) *Engine {
	return &Engine{completer: completer}
}

func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

func (e *Engine) Analyze(ctx context.Context, title, body, targetCategory string) Result {
	prompt := fmt.Sprintf(`Analyse whether this article is useful career news for the "%s" job category.

Title: %s
Body: %s

Respond with JSON only, no other text:
{"isRelevant": true|false, "categoryMatch": true|false, "relevanceScore": 0.0-1.0, "suggestedCategory": one of [%s], "keywords": [at most 5 strings], "reason": "short explanation"}`,
		targetCategory, title, truncate(body, analyzeBodyLimit), strings.Join(Categories, ", "))

	response, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		slog.Warn("Analysis request failed, using defaults", "title", title, "error", err)
		return Result{
			IsRelevant:        true,
			CategoryMatch:     false,
			RelevanceScore:    defaultScore,
			SuggestedCategory: targetCategory,
			Keywords:          []string{},
			Reason:            defaultReason,
		}
	}

	if result, ok := parseAnalysisJSON(response, targetCategory); ok {
		return result
	}

	slog.Debug("Analysis response is not JSON, parsing as text", "title", title)
	return parseAnalysisText(response, targetCategory)
}

func (e *Engine) Classify(ctx context.Context, title, body string) string {
	prompt := fmt.Sprintf(`Classify this IT career article into exactly one category from: %s.

Title: %s
Body: %s

Answer with the category name only.`, strings.Join(Categories, ", "), title, truncate(body, promptBodyLimit))

	response, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		slog.Warn("Classification request failed", "title", title, "error", err)
		return CategoryGeneral
	}

	category := strings.ToLower(strings.Trim(strings.TrimSpace(response), `"'.`))
	if !IsValidCategory(category) {
		slog.Debug("Unrecognised category", "title", title, "response", response)
		return CategoryGeneral
	}

	return category
}

func (e *Engine) ExtractKeywords(ctx context.Context, title, body string) []string {
	prompt := fmt.Sprintf(`Extract 5 keywords from this IT career article.

Title: %s
Body: %s

Answer with 5 comma-separated keywords only.`, title, truncate(body, promptBodyLimit))

	response, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		slog.Warn("Keyword request failed", "title", title, "error", err)
		return []string{}
	}

	return parseKeywords(response)
}

func parseAnalysisJSON(response, targetCategory string) (Result, bool) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start < 0 || end <= start {
		return Result{}, false
	}

	payload := response[start : end+1]
	if !gjson.Valid(payload) {
		return Result{}, false
	}

	parsed := gjson.Parse(payload)
	if !parsed.IsObject() {
		return Result{}, false
	}

	result := Result{
		IsRelevant:        parsed.Get("isRelevant").Bool(),
		CategoryMatch:     parsed.Get("categoryMatch").Bool(),
		RelevanceScore:    clamp(parsed.Get("relevanceScore").Float()),
		SuggestedCategory: strings.ToLower(parsed.Get("suggestedCategory").String()),
		Keywords:          []string{},
		Reason:            parsed.Get("reason").String(),
	}

	if !IsValidCategory(result.SuggestedCategory) {
		result.SuggestedCategory = targetCategory
	}

	for _, keyword := range parsed.Get("keywords").Array() {
		if len(result.Keywords) == maxKeywords {
			break
		}
		if k := strings.TrimSpace(keyword.String()); k != "" {
			result.Keywords = append(result.Keywords, k)
		}
	}

	return result, true
}

func parseAnalysisText(response, targetCategory string) Result {
	lowered := strings.ToLower(response)

	result := Result{
		IsRelevant:        !strings.Contains(lowered, "not relevant") && !strings.Contains(lowered, "false"),
		CategoryMatch:     strings.Contains(lowered, "match") || strings.Contains(lowered, "appropriate"),
		RelevanceScore:    fallbackScore,
		SuggestedCategory: targetCategory,
		Keywords:          []string{},
		Reason:            truncate(strings.TrimSpace(response), 200),
	}

	words := strings.FieldsFunc(lowered, func(r rune) bool {
		return !(r == '+' || r == '#' || r == '.' || r == '-' || ('a' <= r && r <= 'z') || ('0' <= r && r <= '9'))
	})
	present := make(map[string]bool, len(words))
	for _, w := range words {
		present[strings.Trim(w, ".")] = true
	}

	for _, term := range techTerms {
		if len(result.Keywords) == maxKeywords {
			break
		}
		if present[term] {
			result.Keywords = append(result.Keywords, term)
		}
	}

	return result
}

func parseKeywords(response string) []string {
	keywords := []string{}

	for _, raw := range strings.Split(response, ",") {
		keyword := strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), "\"'`[](){}"))
		if utf8.RuneCountInString(keyword) <= 1 {
			continue
		}
		keywords = append(keywords, keyword)
		if len(keywords) == maxKeywords {
			break
		}
	}

	return keywords
}

func clamp(score float64) float64 {
	return max(0, min(1, score))
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
