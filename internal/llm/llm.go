package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"planner-backend/internal/shared/telemetry"
)

// Request is one completion call.
type Request struct {
	System      string
	User        string
	Temperature float64
}

// Client abstracts LLM providers for completions.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Embedder turns text into a query vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("LLM not configured")

// PlaceholderClient is used when no provider is configured.
type PlaceholderClient struct{}

func (PlaceholderClient) Complete(ctx context.Context, req Request) (string, error) {
	_ = ctx
	_ = req
	return "", ErrNotConfigured
}

// ErrAllModelsFailed wraps the last model error once the fallback list is exhausted.
var ErrAllModelsFailed = errors.New("all models failed")

// TryModels calls fn for each model in order until one returns non-empty text,
// waiting pause between attempts. A zero pause moves on immediately.
func TryModels(ctx context.Context, provider string, models []string, pause time.Duration, fn func(model string) (string, error)) (string, error) {
	if len(models) == 0 {
		return "", errors.New("no models configured")
	}
	var lastErr error
	for i, model := range models {
		text, err := fn(model)
		if err == nil && strings.TrimSpace(text) == "" {
			err = errors.New("empty completion")
		}
		if err == nil {
			if i > 0 {
				telemetry.Warn("llm.fallback_used", map[string]any{
					"provider": provider,
					"model":    model,
					"position": i,
				})
			}
			return text, nil
		}
		lastErr = err
		telemetry.Warn("llm.model_failed", map[string]any{
			"provider": provider,
			"model":    model,
			"error":    sanitizeError(err),
		})
		if i == len(models)-1 {
			break
		}
		if pause <= 0 {
			continue
		}
		select {
		case <-time.After(pause):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", errors.Join(ErrAllModelsFailed, lastErr)
}

func sanitizeError(err error) string {
	msg := err.Error()
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
