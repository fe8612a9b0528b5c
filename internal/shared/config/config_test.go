package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("PORT", "")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("LLM_MODELS", "")
	t.Setenv("PLANNER_CONFLICT_GAP", "")
	t.Setenv("LLM_FALLBACK_PAUSE_MS", "")

	cfg := Load()
	if cfg.Env != "dev" {
		t.Fatalf("expected env dev, got %q", cfg.Env)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.LLMProvider != "openai" {
		t.Fatalf("expected provider openai, got %q", cfg.LLMProvider)
	}
	if len(cfg.LLMModels) != 2 {
		t.Fatalf("expected 2 fallback models, got %v", cfg.LLMModels)
	}
	if cfg.LLMFallbackPauseMs != 1000 {
		t.Fatalf("expected fallback pause 1000ms, got %d", cfg.LLMFallbackPauseMs)
	}
	if cfg.PlannerConflictGap != 0.5 {
		t.Fatalf("expected conflict gap 0.5, got %v", cfg.PlannerConflictGap)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("LLM_PROVIDER", "google")
	t.Setenv("LLM_MODELS", "gemini-1.5-flash, gemini-1.5-pro ,")
	t.Setenv("PLANNER_CONFLICT_GAP", "0.75")
	t.Setenv("PLANNER_FRAGMENT_LIMIT", "not-a-number")

	cfg := Load()
	if cfg.Env != "production" {
		t.Fatalf("expected env production, got %q", cfg.Env)
	}
	if cfg.LLMProvider != "gemini" {
		t.Fatalf("expected provider gemini, got %q", cfg.LLMProvider)
	}
	if len(cfg.LLMModels) != 2 || cfg.LLMModels[1] != "gemini-1.5-pro" {
		t.Fatalf("unexpected models: %v", cfg.LLMModels)
	}
	if cfg.PlannerConflictGap != 0.75 {
		t.Fatalf("expected conflict gap 0.75, got %v", cfg.PlannerConflictGap)
	}
	if cfg.PlannerFragmentLimit != 25 {
		t.Fatalf("expected fallback fragment limit 25, got %d", cfg.PlannerFragmentLimit)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]Config{
		"missing port":          {Env: "dev", LLMProvider: "none"},
		"unknown env":           {Port: "8080", Env: "qa", LLMProvider: "none"},
		"models required":       {Port: "8080", Env: "dev", LLMProvider: "openai"},
		"qdrant collection":     {Port: "8080", Env: "dev", LLMProvider: "none", QdrantHost: "localhost"},
		"production jwt secret": {Port: "8080", Env: "production", LLMProvider: "none"},
		"threshold range":       {Port: "8080", Env: "dev", LLMProvider: "none", QdrantScoreThreshold: 1.5},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
