package routes

import (
	"netgauge/internal/controllers"
	"netgauge/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers the token endpoint and the WebSocket
// delta stream.
func RegisterAuthRoutes(r *gin.Engine, tokenLimiter *middleware.TokenRateLimiter) {
	r.GET("/auth/token", middleware.TokenRateLimitMiddleware(tokenLimiter), controllers.HandleGetToken)

	// WebSocket endpoint for real-time deltas
	r.GET("/ws", controllers.HandleWebSocket)
}
