package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// DevOrigins are the local front-end addresses always allowed
var DevOrigins = []string{
	"http://localhost:5174",
	"http://localhost:5173",
	"http://localhost:3000",
}

// CORS allows cross-origin requests from the configured front-end and the
// local development servers
func CORS(frontendURL string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(DevOrigins)+1)
	for _, origin := range DevOrigins {
		allowed[origin] = true
	}
	if frontendURL != "" {
		allowed[strings.TrimRight(frontendURL, "/")] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && allowed[origin] {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
