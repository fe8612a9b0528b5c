package server

import (
	"github.com/gin-gonic/gin"

	"planner-backend/internal/services/health"
	"planner-backend/internal/shared/config"
	"planner-backend/internal/shared/metrics"
	"planner-backend/internal/shared/server/middleware"
	"planner-backend/internal/shared/server/respond"
)

// RouteRegistrar attaches a feature's routes to the API group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouterDeps holds what NewRouter wires.
type RouterDeps struct {
	Config   config.Config
	Health   *health.Service
	Handlers []RouteRegistrar
}

const rateLimitGroupChat = "CHAT"

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	rules := map[string]middleware.RateLimitRule{}
	if cfg.ChatRateLimitBurst > 0 {
		rules[rateLimitGroupChat] = middleware.RateLimitRule{Rate: cfg.ChatRateLimitRPS, Burst: cfg.ChatRateLimitBurst}
	}

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(cfg.Env),
		middleware.RateLimit(middleware.RateLimitConfig{
			GroupFor: middleware.RouteGroups(map[string]string{
				"POST /api/v1/chat": rateLimitGroupChat,
			}),
			Rules: rules,
		}),
	)

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService(nil)
	}

	r.GET("/metrics", metrics.Handler())
	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		status, ok := healthSvc.Status(c.Request.Context())
		if !ok {
			respond.ServiceUnavailable(c, status)
			return
		}
		respond.OK(c, status)
	})
	registerMeRoutes(api)
	for _, h := range deps.Handlers {
		if h != nil {
			h.RegisterRoutes(api)
		}
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
