package handlers

import (
	"github.com/gin-gonic/gin"
)

// Router handles HTTP routing setup
type Router struct {
	tradersHandler *TradersHandler
	healthHandler  *HealthHandler
}

// NewRouter creates a new Router instance with all handlers
func NewRouter(tradersHandler *TradersHandler, healthHandler *HealthHandler) *Router {
	return &Router{
		tradersHandler: tradersHandler,
		healthHandler:  healthHandler,
	}
}

// SetupRoutes configures the report routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	engine.GET("/traders", r.tradersHandler.GetTraders)
}

// SetupHealthRoutes configures health check routes
func (r *Router) SetupHealthRoutes(engine *gin.Engine) {
	health := engine.Group("/health")
	{
		health.GET("", r.healthHandler.GetHealth)
		health.GET("/live", r.healthHandler.GetLiveness)
		health.GET("/ready", r.healthHandler.GetReadiness)
	}

	// The devops probes historically hit /status as well.
	engine.GET("/status", r.healthHandler.GetLiveness)
}
