package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/playfinity/adaptive-backend/internal/clients/redis"
	"github.com/playfinity/adaptive-backend/internal/data/repos"
	"github.com/playfinity/adaptive-backend/internal/db"
	"github.com/playfinity/adaptive-backend/internal/handlers"
	"github.com/playfinity/adaptive-backend/internal/middleware"
	"github.com/playfinity/adaptive-backend/internal/pkg/betarand"
	"github.com/playfinity/adaptive-backend/internal/pkg/logger"
	"github.com/playfinity/adaptive-backend/internal/server"
	"github.com/playfinity/adaptive-backend/internal/services"
	"github.com/playfinity/adaptive-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos...")
	armRepo := repos.NewBanditArmRepo(thePG, log)
	sessionRepo := repos.NewGameSessionRepo(thePG, log)
	statRepo := repos.NewAggregateStatRepo(thePG, log)

	// Redis (optional)
	var bus redis.EventBus
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		b, err := redis.NewEventBus(log)
		if err != nil {
			log.Error("Redis event bus init failed", "error", err)
			os.Exit(1)
		}
		defer b.Close()
		bus = b
	}

	// Services
	log.Info("Setting up services...")
	priorService, err := services.NewPriorService(log)
	if err != nil {
		log.Error("Prior table init failed", "error", err)
		os.Exit(1)
	}
	sampler := betarand.New()
	banditService := services.NewBanditService(thePG, log, armRepo, sessionRepo, statRepo, priorService, bus)
	difficultyService := services.NewDifficultyService(thePG, log, sessionRepo)
	activities := utils.GetEnvAsList("ACTIVITY_SET", services.DefaultActivitySet, log)
	sequenceService := services.NewSequenceService(thePG, log, armRepo, priorService, difficultyService, sampler, bus, activities)
	analyticsService := services.NewAnalyticsService(thePG, log, sessionRepo, statRepo)

	// Handlers
	log.Info("Setting up handlers...")
	adaptiveHandler := handlers.NewAdaptiveHandler(log, sequenceService, difficultyService)
	analyticsHandler := handlers.NewAnalyticsHandler(log, banditService, analyticsService)

	// Router
	router := server.NewRouter(server.RouterConfig{
		AdaptiveHandler:  adaptiveHandler,
		AnalyticsHandler: analyticsHandler,
		RequestLog:       middleware.NewRequestLogMiddleware(log),
		CORSOrigins:      utils.GetEnvAsList("CORS_ORIGINS", nil, log),
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
