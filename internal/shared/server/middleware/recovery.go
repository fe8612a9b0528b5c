package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"planner-backend/internal/shared/server/respond"
	"planner-backend/internal/shared/telemetry"
)

// Recovery turns a panic in a handler into a 500 with the standard error body.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			fields := map[string]any{
				"request_id": RequestIDFromContext(c),
				"error":      rec,
				"stack":      string(debug.Stack()),
				"path":       c.Request.URL.Path,
				"method":     c.Request.Method,
			}
			if sessionID := SessionIDFromContext(c); sessionID != "" {
				fields["session_id"] = sessionID
			}
			if step := stringFromContext(c, plannerStepKey); step != "" {
				fields["planner_step"] = step
			}
			telemetry.Error("http.panic", fields)
			if !c.Writer.Written() {
				respond.Error(c, http.StatusInternalServerError, "internal_error", "unexpected server error", nil)
			}
			c.Abort()
		}()
		c.Next()
	}
}
