package middleware

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// corsDefaultOrigins covers the Vite dev server and a same-host
// production frontend.
var corsDefaultOrigins = []string{
	"http://localhost:5173",
	"http://localhost:8080",
}

// CORS builds the cross-origin policy for the API. Origins come from
// the CADENZA_CORS_ORIGINS env var (comma-separated) or fall back to
// the local frontend defaults. Range headers are allowed and exposed
// so the browser can seek within streamed audio.
func CORS() gin.HandlerFunc {
	origins := corsDefaultOrigins
	if env := os.Getenv("CADENZA_CORS_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}

	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = origins
	cfg.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Range"}
	cfg.ExposeHeaders = []string{"Content-Length", "Content-Range", "Accept-Ranges"}

	return cors.New(cfg)
}
