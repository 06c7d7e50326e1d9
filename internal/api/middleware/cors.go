package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// PublicCORS opens the API to any origin. Paths under the skipped prefixes
// keep their own CORS handling.
func PublicCORS(skipPrefixes ...string) gin.HandlerFunc {
	handle := cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		ExposeHeaders:   []string{"X-Request-Id", "Retry-After"},
		MaxAge:          12 * time.Hour,
	})
	return func(c *gin.Context) {
		for _, p := range skipPrefixes {
			if strings.HasPrefix(c.Request.URL.Path, p) {
				c.Next()
				return
			}
		}
		handle(c)
	}
}

const notifyAllowHeaders = "authorization, x-client-info, apikey, content-type"

// NotifyCORS sets the permissive headers the browser client of the
// notification function expects on every response, errors included, and
// answers preflight requests itself.
func NotifyCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", notifyAllowHeaders)
		h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
