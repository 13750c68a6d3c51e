package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	goopenai "github.com/sashabaranov/go-openai"
)

const systemPrompt = "You are an assistant that analyses IT career news articles. Follow the requested output format exactly."

// Completer sends a single prompt to a text-completion model.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

var (
	_ Completer = (*OpenAICompleter)(nil)
	_ Completer = (*CompatCompleter)(nil)
)

// OpenAICompleter uses the official SDK against api.openai.com or a base URL override.
type OpenAICompleter struct {
	client openai.Client
	model  string
}

func NewOpenAICompleter(apiKey, model, baseURL string) (*OpenAICompleter, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key missing")
	}
	if model == "" {
		return nil, errors.New("model is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAICompleter{client: openai.NewClient(opts...), model: model}, nil
}

func (c *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// CompatCompleter talks to OpenAI-compatible endpoints (local gateways, other vendors).
type CompatCompleter struct {
	client *goopenai.Client
	model  string
}

func NewCompatCompleter(apiKey, model, baseURL string) (*CompatCompleter, error) {
	if baseURL == "" {
		return nil, errors.New("base URL is required for compatible providers")
	}
	if model == "" {
		return nil, errors.New("model is required")
	}

	config := goopenai.DefaultConfig(apiKey)
	config.BaseURL = strings.TrimRight(baseURL, "/")

	return &CompatCompleter{client: goopenai.NewClientWithConfig(config), model: model}, nil
}

func (c *CompatCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("compat: empty choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// NewCompleter picks the client for provider ("openai" or "compat").
func NewCompleter(provider, apiKey, model, baseURL string) (Completer, error) {
	switch provider {
	case "", "openai":
		return NewOpenAICompleter(apiKey, model, baseURL)
	case "compat":
		return NewCompatCompleter(apiKey, model, baseURL)
	default:
		return nil, fmt.Errorf("unknown AI provider: %s", provider)
	}
}
