package middleware

import (
	"crypto/subtle"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/denisAlshanov/vidsplit/internal/config"
	"github.com/denisAlshanov/vidsplit/internal/utils"
)

// abortWithError writes the same error body the handlers use.
func abortWithError(c *gin.Context, err *utils.AppError) {
	body := gin.H{
		"error":      err.Message,
		"code":       err.Code,
		"request_id": c.GetString("request_id"),
		"timestamp":  time.Now().Format(time.RFC3339),
	}
	if len(err.Details) > 0 {
		body["details"] = err.Details
	}
	c.AbortWithStatusJSON(err.StatusCode, body)
}

// AuthMiddleware requires the X-API-Key header to match the configured key.
// With no key configured every request passes.
func AuthMiddleware(cfg *config.APIConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APIKey == "" {
			c.Next()
			return
		}

		apiKey := c.GetHeader("X-API-Key")
		if apiKey != "" && subtle.ConstantTimeCompare([]byte(apiKey), []byte(cfg.APIKey)) == 1 {
			c.Next()
			return
		}

		utils.LogWarn(c.Request.Context(), "Rejected request without valid API key", utils.Fields{
			"path": c.Request.URL.Path,
			"ip":   c.ClientIP(),
		})
		abortWithError(c, utils.NewUnauthorizedError())
	}
}
