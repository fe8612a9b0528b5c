package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"planner-backend/internal/llm"
)

// Client implements llm.Client with the Gemini API. Models are tried in
// order until one answers.
type Client struct {
	client *genai.Client
	models []string
	pause  time.Duration
}

// Config selects the Gemini key and its fallback models.
type Config struct {
	APIKey string
	Models []string
	// FallbackPause is the wait before trying the next model.
	FallbackPause time.Duration
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	var cleaned []string
	for _, m := range cfg.Models {
		if m = strings.TrimSpace(m); m != "" {
			cleaned = append(cleaned, m)
		}
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("LLM_MODELS is required for Gemini")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{client: client, models: cleaned, pause: cfg.FallbackPause}, nil
}

func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	return llm.TryModels(ctx, "gemini", c.models, c.pause, func(name string) (string, error) {
		model := c.client.GenerativeModel(name)
		if req.Temperature > 0 {
			model.SetTemperature(float32(req.Temperature))
		}
		if strings.TrimSpace(req.System) != "" {
			model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
		}
		resp, err := model.GenerateContent(ctx, genai.Text(req.User))
		if err != nil {
			return "", fmt.Errorf("gemini %s: %w", name, err)
		}
		return extractText(resp)
	})
}

// Embedder returns an llm.Embedder backed by the same client.
func (c *Client) Embedder(model string) *Embedder {
	return &Embedder{model: c.client.EmbeddingModel(model)}
}

func (c *Client) Close() error {
	return c.client.Close()
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("gemini response has no candidates")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.New("gemini response has no content")
	}
	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return strings.TrimSpace(b.String()), nil
}

// Embedder implements llm.Embedder with a Gemini embedding model.
type Embedder struct {
	model *genai.EmbeddingModel
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	res, err := e.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if res == nil || res.Embedding == nil {
		return nil, errors.New("gemini embed: empty embedding")
	}
	return res.Embedding.Values, nil
}

var (
	_ llm.Client   = (*Client)(nil)
	_ llm.Embedder = (*Embedder)(nil)
)
