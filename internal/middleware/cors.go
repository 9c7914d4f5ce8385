package middleware

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tablescore/internal/config"
)

// allowedOrigins lists the scoreboard frontends permitted for the environment.
func allowedOrigins(cfg *config.Config) []string {
	if cfg.Environment == "development" {
		return []string{
			"http://localhost:5173", // Vite dev server
			"http://127.0.0.1:5173",
		}
	}
	origins := []string{"https://tablescore.playmatatu.com"}
	if cfg.FrontendURL != "" {
		origins = append(origins, cfg.FrontendURL)
	}
	return origins
}

// CORSMiddleware returns a CORS middleware configured for the environment
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	log.Printf("[CORS] Environment: %s, FrontendURL: %s", cfg.Environment, cfg.FrontendURL)

	corsConfig := cors.Config{
		AllowMethods: []string{
			"GET", "POST", "PUT", "DELETE", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin", "Content-Length", "Content-Type", "Authorization",
			"Accept", "Cache-Control", "X-Requested-With",
		},
		ExposeHeaders: []string{
			"Content-Length", "X-Table-ID",
		},
		AllowOrigins:     allowedOrigins(cfg),
		AllowCredentials: true,
		MaxAge:           12 * time.Hour, // Cache preflight responses
	}
	if cfg.Environment != "development" {
		log.Printf("[CORS] Production allowed origins: %v", corsConfig.AllowOrigins)
	}

	return cors.New(corsConfig)
}

// WebSocketCORSCheck validates WebSocket upgrade origins. Requests without an
// Origin header (native clients, the terminal scorekeeper) are let through.
func WebSocketCORSCheck(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Only check for WebSocket upgrade requests
		if !strings.Contains(strings.ToLower(c.GetHeader("Connection")), "upgrade") ||
			strings.ToLower(c.GetHeader("Upgrade")) != "websocket" {
			c.Next()
			return
		}

		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}

		allowed := false
		if cfg.Environment == "development" {
			// Allow localhost variants in dev
			allowed = strings.HasPrefix(origin, "http://localhost:") ||
				strings.HasPrefix(origin, "http://127.0.0.1:")
		} else {
			for _, o := range allowedOrigins(cfg) {
				if origin == o {
					allowed = true
					break
				}
			}
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "WebSocket origin not allowed"})
			return
		}

		c.Next()
	}
}
