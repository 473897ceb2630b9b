// Package routes defines the HTTP routes for the public chat service.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/eventscout/chat-service/internal/api/handlers"
	"github.com/eventscout/chat-service/internal/api/middleware"
)

// Config holds the dependencies for setting up routes.
type Config struct {
	HealthHandler        *handlers.HealthHandler
	ChatHandler          *handlers.ChatHandler
	ConversationsHandler *handlers.ConversationsHandler
	AuthMiddleware       *middleware.AuthMiddleware
	RateLimitMiddleware  *middleware.RateLimitMiddleware
}

// Setup configures all routes on the Gin engine.
func Setup(r *gin.Engine, cfg *Config) {
	// Health check routes (no auth required)
	r.GET("/health", cfg.HealthHandler.Health)
	r.GET("/ready", cfg.HealthHandler.Ready)
	r.GET("/live", cfg.HealthHandler.Live)

	// Public API: auth first, then admission control. Order matters
	// because anything past the limiter has consumed one unit of quota.
	public := r.Group("/api/public")
	public.Use(cfg.AuthMiddleware.Authenticate())
	public.Use(cfg.RateLimitMiddleware.Limit())
	{
		public.POST("/chat", cfg.ChatHandler.Chat)
		public.GET("/conversations/:conversationId", cfg.ConversationsHandler.Get)
	}
}

// SetupWithMiddleware sets up routes with common middleware.
func SetupWithMiddleware(r *gin.Engine, cfg *Config, loggingMw *middleware.LoggingMiddleware, errorMw *middleware.ErrorMiddleware, corsMw gin.HandlerFunc) {
	r.Use(loggingMw.Logger())
	r.Use(errorMw.Recovery())
	r.Use(gin.Recovery())
	if corsMw != nil {
		r.Use(corsMw)
	}

	Setup(r, cfg)
}
