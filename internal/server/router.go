package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/playfinity/adaptive-backend/internal/handlers"
	"github.com/playfinity/adaptive-backend/internal/middleware"
)

type RouterConfig struct {
	AdaptiveHandler  *handlers.AdaptiveHandler
	AnalyticsHandler *handlers.AnalyticsHandler
	RequestLog       *middleware.RequestLogMiddleware
	CORSOrigins      []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://127.0.0.1:3000",
			"http://127.0.0.1:5173",
		}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "X-Request-ID"},
		AllowCredentials: true,
	}))
	if cfg.RequestLog != nil {
		router.Use(cfg.RequestLog.Handler())
	}

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		analytics := api.Group("/analytics")
		{
			analytics.POST("/game-session", cfg.AnalyticsHandler.SubmitSession)
			analytics.GET("/user-stats/:userId", cfg.AnalyticsHandler.GetUserStats)
			analytics.GET("/recent-sessions/:userId", cfg.AnalyticsHandler.GetRecentSessions)
			analytics.GET("/performance-scores/:userId", cfg.AnalyticsHandler.GetPerformanceScores)
		}

		adaptive := api.Group("/adaptive")
		{
			adaptive.GET("/sequence/:userId", cfg.AdaptiveHandler.GetSequence)
			adaptive.GET("/difficulty/:userId/:activityId", cfg.AdaptiveHandler.GetBaselineDifficulty)
			adaptive.GET("/realtime-difficulty/:userId/:activityId", cfg.AdaptiveHandler.GetRealtimeDifficulty)
		}
	}

	return router
}
