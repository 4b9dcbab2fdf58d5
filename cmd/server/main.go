package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/neurocare/triage-service/internal/cache"
	"github.com/neurocare/triage-service/internal/config"
	"github.com/neurocare/triage-service/internal/engine"
	"github.com/neurocare/triage-service/internal/handlers"
	"github.com/neurocare/triage-service/internal/repositories/postgres"
	"github.com/neurocare/triage-service/internal/services"
	"github.com/neurocare/triage-service/internal/utils"
	"github.com/neurocare/triage-service/internal/validator"
	"github.com/neurocare/triage-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	var appLogger utils.Logger
	if cfg.Environment == "production" {
		appLogger = utils.NewDefaultLogger()
		gin.SetMode(gin.ReleaseMode)
	} else {
		appLogger = utils.NewDevelopmentLogger()
	}
	logger := utils.ToSlogLogger(appLogger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Error("Failed to initialize Redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	catalog, err := engine.DefaultCatalog()
	if err != nil {
		logger.Error("Invalid question catalog", "error", err)
		os.Exit(1)
	}

	publisher, err := cfg.Events.CreateEventPublisher(logger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	repo := postgres.New(db)
	sessionStore := cache.NewRedisSessionStore(redisClient, logger)

	serviceManager := services.NewServiceManager(
		catalog,
		engine.DefaultTextResolver(),
		sessionStore,
		repo,
		publisher,
		validator.New(),
		logger,
		services.TriageServiceConfig{
			SessionTTL: cfg.SessionTTL,
			Thresholds: engine.DefaultThresholds(),
		},
	)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(appLogger))
	router.Use(utils.ContextLogger(appLogger))

	handlerManager := handlers.NewHandlerManager(serviceManager, appLogger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting triage service", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down triage service")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("Server stopped")
}
