package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/shelfassist/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger zerolog.Logger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(LoggerMiddleware(logger))
	router.Use(RecoveryMiddleware(logger))
	router.Use(handler.metrics.Middleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", handler.metrics.Handler())

	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		v1.POST("/query", handler.Query)
		v1.POST("/classify", handler.Classify)
		v1.POST("/classify/batch", handler.ClassifyBatch)
		v1.POST("/extract", handler.Extract)
		v1.POST("/explain", handler.Explain)
		v1.GET("/stats", handler.Stats)
	}

	return router
}
