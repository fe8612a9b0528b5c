package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"planner-backend/internal/llm"
)

const defaultTimeout = 60 * time.Second

// Config selects an OpenAI-compatible endpoint and its fallback models.
type Config struct {
	APIKey  string
	BaseURL string
	Models  []string
	Timeout time.Duration
	// FallbackPause is the wait before trying the next model.
	FallbackPause time.Duration
}

// Client implements llm.Client using the openai-go chat completions API.
// Models are tried in order until one answers.
type Client struct {
	client openai.Client
	models []string
	pause  time.Duration
}

// NewClient constructs a new OpenAI client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	models := cleanModels(cfg.Models)
	if len(models) == 0 {
		return nil, fmt.Errorf("LLM_MODELS is required for OpenAI")
	}
	return &Client{client: openai.NewClient(requestOptions(cfg)...), models: models, pause: cfg.FallbackPause}, nil
}

func requestOptions(cfg Config) []option.RequestOption {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return opts
}

func cleanModels(models []string) []string {
	out := make([]string, 0, len(models))
	for _, m := range models {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out
}

// Models returns the fallback order.
func (c *Client) Models() []string {
	return append([]string(nil), c.models...)
}

func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	return llm.TryModels(ctx, "openai", c.models, c.pause, func(model string) (string, error) {
		return c.completeOnce(ctx, model, req)
	})
}

func (c *Client) completeOnce(ctx context.Context, model string, req llm.Request) (string, error) {
	var msgs []openai.ChatCompletionMessageParamUnion
	if strings.TrimSpace(req.System) != "" {
		msgs = append(msgs, openai.SystemMessage(req.System))
	}
	msgs = append(msgs, openai.UserMessage(req.User))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: msgs,
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai %s: %w", model, err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai response missing choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

var _ llm.Client = (*Client)(nil)
