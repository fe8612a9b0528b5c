package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}

func Created(c *gin.Context, payload any) {
	JSON(c, http.StatusCreated, payload)
}

// ServiceUnavailable writes a 503 with a JSON body, used by readiness checks.
func ServiceUnavailable(c *gin.Context, payload any) {
	JSON(c, http.StatusServiceUnavailable, payload)
}
