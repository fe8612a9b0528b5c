package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config holds application configuration.
type Config struct {
	Port            string `validate:"required"`
	CORSAllowOrigin []string
	DatabaseURL     string
	Env             string `validate:"oneof=dev local staging production"`
	JWTSecret       string

	LLMProvider    string   `validate:"oneof=openai gemini none"`
	LLMModels      []string `validate:"required_unless=LLMProvider none"`
	LLMBaseURL     string   `validate:"omitempty,url"`
	OpenAIAPIKey   string
	GeminiAPIKey   string
	LLMTimeoutSecs int `validate:"gte=0"`
	// LLMFallbackPauseMs is the wait before trying the next model in LLMModels.
	LLMFallbackPauseMs int `validate:"gte=0"`
	EmbeddingModel     string

	QdrantHost           string
	QdrantPort           int     `validate:"gte=0,lte=65535"`
	QdrantCollection     string  `validate:"required_with=QdrantHost"`
	QdrantScoreThreshold float64 `validate:"gte=0,lte=1"`

	PlannerConflictGap   float64 `validate:"gte=0"`
	PlannerFragmentLimit int     `validate:"gte=0,lte=200"`
	ChatRateLimitRPS     float64 `validate:"gte=0"`
	ChatRateLimitBurst   int     `validate:"gte=0"`
}

var validate = validator.New()

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		DatabaseURL:     dbURL,
		Env:             env,
		JWTSecret:       os.Getenv("JWT_SECRET"),

		LLMProvider:        normalizeProvider(getEnv("LLM_PROVIDER", "openai")),
		LLMModels:          splitAndTrim(getEnv("LLM_MODELS", "google/gemini-2.0-flash-exp:free,openai/gpt-oss-120b:free")),
		LLMBaseURL:         getEnv("LLM_BASE_URL", ""),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		LLMTimeoutSecs:     getEnvInt("LLM_TIMEOUT_SECONDS", 60),
		LLMFallbackPauseMs: getEnvInt("LLM_FALLBACK_PAUSE_MS", 1000),
		EmbeddingModel:     getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),

		QdrantHost:           getEnv("QDRANT_HOST", ""),
		QdrantPort:           getEnvInt("QDRANT_PORT", 6334),
		QdrantCollection:     getEnv("QDRANT_COLLECTION", ""),
		QdrantScoreThreshold: getEnvFloat("QDRANT_SCORE_THRESHOLD", 0.35),

		PlannerConflictGap:   getEnvFloat("PLANNER_CONFLICT_GAP", 0.5),
		PlannerFragmentLimit: getEnvInt("PLANNER_FRAGMENT_LIMIT", 25),
		ChatRateLimitRPS:     getEnvFloat("RATE_LIMIT_CHAT_RPS", 2),
		ChatRateLimitBurst:   getEnvInt("RATE_LIMIT_CHAT_BURST", 10),
	}
}

// Validate checks struct constraints after Load or manual construction.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Env == "production" && strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("invalid config: JWT_SECRET is required in production")
	}
	return nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config env %s invalid int: %v", key, err)
		return def
	}
	return val
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("config env %s invalid float: %v", key, err)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "gemini", "google":
		return "gemini"
	case "none", "off", "":
		return "none"
	default:
		return "openai"
	}
}
