package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"planner-backend/internal/academic"
	"planner-backend/internal/chat"
	"planner-backend/internal/documents"
	"planner-backend/internal/llm"
	"planner-backend/internal/llm/gemini"
	openai "planner-backend/internal/llm/openai"
	"planner-backend/internal/planner"
	"planner-backend/internal/retrieval/qdrant"
	"planner-backend/internal/services/health"
	"planner-backend/internal/sessions"
	"planner-backend/internal/shared/config"
	"planner-backend/internal/shared/server"
	"planner-backend/internal/shared/storage/db"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	LLM              llm.Client
	DocumentsService *documents.Service
	SessionsService  *sessions.Service
	ChatService      *chat.Service
	PlannerService   *planner.Service
	closers          []func() error
}

// Close releases provider clients and the database pool.
func (a *App) Close() error {
	var firstErr error
	for _, c := range a.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: sqlDB}
	if err := buildServices(ctx, app); err != nil {
		_ = app.Close()
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config: app.Config,
		Health: health.NewService(app.DB),
		Handlers: []server.RouteRegistrar{
			documents.NewHandler(app.DocumentsService),
			chat.NewHandler(app.ChatService, app.PlannerService, app.SessionsService),
			sessions.NewHandler(app.SessionsService, chatHistory{svc: app.ChatService}, plannerHistory{svc: app.PlannerService}),
		},
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(ctx context.Context, app *App) error {
	var (
		docRepo     documents.Repo
		sessionRepo sessions.Repo
		chatRepo    chat.Repo
		store       planner.HistoryStore
	)
	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
		sessionRepo = &sessions.PGRepo{DB: app.DB}
		chatRepo = &chat.PGRepo{DB: app.DB}
		store = &planner.PGStore{DB: app.DB}
	} else {
		docRepo = documents.NewMemoryRepo()
		sessionRepo = sessions.NewMemoryRepo()
		chatRepo = chat.NewMemoryRepo()
		store = planner.NewMemoryStore()
	}

	client, embedder, err := buildLLM(ctx, app)
	if err != nil {
		return err
	}
	app.LLM = client

	docSvc := &documents.Service{Repo: docRepo}
	if strings.TrimSpace(app.Config.QdrantHost) != "" {
		if embedder == nil {
			return fmt.Errorf("QDRANT_HOST requires an embedding-capable LLM_PROVIDER")
		}
		source, err := qdrant.Dial(qdrant.Config{
			Host:           app.Config.QdrantHost,
			Port:           app.Config.QdrantPort,
			Collection:     app.Config.QdrantCollection,
			ScoreThreshold: float32(app.Config.QdrantScoreThreshold),
		}, embedder)
		if err != nil {
			return err
		}
		docSvc.Retriever = source
	}

	cal := academic.DefaultCalibration()
	if app.Config.PlannerConflictGap > 0 {
		cal.ConflictGap = app.Config.PlannerConflictGap
	}

	var narrator planner.PlanNarrator
	if app.Config.LLMProvider != "none" {
		narrator = llm.NewNarrator(client)
	}

	app.DocumentsService = docSvc
	app.SessionsService = &sessions.Service{Repo: sessionRepo}
	app.ChatService = &chat.Service{Repo: chatRepo, LLM: client, Sources: docSvc}
	app.PlannerService = &planner.Service{
		Store:    store,
		Hints:    academic.NewExtractor(docSvc, cal, app.Config.PlannerFragmentLimit),
		Gate:     docSvc,
		Narrator: narrator,
	}
	return nil
}

// buildLLM returns the completion client for the configured provider and,
// when the provider supports it, an embedder for vector retrieval.
func buildLLM(ctx context.Context, app *App) (llm.Client, llm.Embedder, error) {
	cfg := app.Config
	pause := time.Duration(cfg.LLMFallbackPauseMs) * time.Millisecond
	switch cfg.LLMProvider {
	case "openai":
		oc := openai.Config{
			APIKey:        cfg.OpenAIAPIKey,
			BaseURL:       cfg.LLMBaseURL,
			Models:        cfg.LLMModels,
			Timeout:       time.Duration(cfg.LLMTimeoutSecs) * time.Second,
			FallbackPause: pause,
		}
		client, err := openai.NewClient(oc)
		if err != nil {
			return nil, nil, err
		}
		embedder, err := openai.NewEmbedder(oc, cfg.EmbeddingModel)
		if err != nil {
			return nil, nil, err
		}
		return llm.WithRetry(client), embedder, nil
	case "gemini":
		client, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:        cfg.GeminiAPIKey,
			Models:        cfg.LLMModels,
			FallbackPause: pause,
		})
		if err != nil {
			return nil, nil, err
		}
		app.closers = append(app.closers, client.Close)
		return llm.WithRetry(client), client.Embedder(cfg.EmbeddingModel), nil
	default:
		return llm.PlaceholderClient{}, nil, nil
	}
}
