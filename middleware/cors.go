package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows cross-origin calls from the configured frontends.
// ALLOWED_ORIGINS is a comma-separated list; empty means allow any origin.
func CORSMiddleware() gin.HandlerFunc {
	allowed := strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allow := ""
		if len(allowed) == 1 && allowed[0] == "" {
			allow = "*"
		} else {
			for _, candidate := range allowed {
				if strings.TrimSpace(candidate) == origin {
					allow = origin
					break
				}
			}
		}

		if allow != "" {
			c.Header("Access-Control-Allow-Origin", allow)
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
