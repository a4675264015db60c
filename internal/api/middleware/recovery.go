package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/denisAlshanov/vidsplit/internal/utils"
)

// RecoveryMiddleware turns handler panics into an INTERNAL_ERROR response.
// http.ErrAbortHandler is re-raised so the server drops the connection; the
// stream handlers use it to signal a failure after the body has started.
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		if err, ok := recovered.(error); ok && errors.Is(err, http.ErrAbortHandler) {
			panic(http.ErrAbortHandler)
		}

		utils.LogError(c.Request.Context(), "Recovered from panic", fmt.Errorf("%v", recovered), utils.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		})

		if c.Writer.Written() {
			c.Abort()
			return
		}
		abortWithError(c, utils.NewInternalError())
	})
}
