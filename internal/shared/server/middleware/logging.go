package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"planner-backend/internal/shared/telemetry"
)

const (
	sessionIDKey   = "sessionId"
	plannerStepKey = "plannerStep"
)

// SetSessionID records the conversation session for the request log and
// echoes it in the X-Session-Id response header.
func SetSessionID(c *gin.Context, id string) {
	c.Set(sessionIDKey, id)
	c.Writer.Header().Set(sessionIDHeader, id)
}

// SessionIDFromContext returns the session recorded by SetSessionID.
func SessionIDFromContext(c *gin.Context) string {
	return stringFromContext(c, sessionIDKey)
}

// SetPlannerStep records the planner step a turn ended on.
func SetPlannerStep(c *gin.Context, step string) {
	c.Set(plannerStepKey, step)
}

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		userID, _ := c.Get(userIDKey)
		isGuest, _ := c.Get(isGuestKey)

		telemetry.Info("request.complete", map[string]any{
			"request_id":   RequestIDFromContext(c),
			"method":       c.Request.Method,
			"path":         c.Request.URL.Path,
			"status":       c.Writer.Status(),
			"duration_ms":  float64(latency.Microseconds()) / 1000.0,
			"user_id":      userID,
			"session_id":   c.GetString(sessionIDKey),
			"planner_step": c.GetString(plannerStepKey),
			"is_guest":     isGuest,
			"client_ip":    c.ClientIP(),
			"user_agent":   c.Request.UserAgent(),
		})
	}
}
