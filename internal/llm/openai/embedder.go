package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"

	"planner-backend/internal/llm"
)

const defaultEmbeddingModel = "text-embedding-3-small"

// Embedder implements llm.Embedder with the embeddings API.
type Embedder struct {
	client openai.Client
	model  string
}

func NewEmbedder(cfg Config, model string) (*Embedder, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		model = defaultEmbeddingModel
	}
	return &Embedder{client: openai.NewClient(requestOptions(cfg)...), model: model}, nil
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("openai embed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("openai embed: empty data")
	}
	vec := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}

var _ llm.Embedder = (*Embedder)(nil)
