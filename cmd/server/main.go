package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/study-assistant/internal/assistant"
	"github.com/SAP-F-2025/study-assistant/internal/cache"
	"github.com/SAP-F-2025/study-assistant/internal/config"
	"github.com/SAP-F-2025/study-assistant/internal/events"
	"github.com/SAP-F-2025/study-assistant/internal/handlers"
	"github.com/SAP-F-2025/study-assistant/internal/repositories"
	"github.com/SAP-F-2025/study-assistant/internal/repositories/memory"
	"github.com/SAP-F-2025/study-assistant/internal/repositories/postgres"
	sessionredis "github.com/SAP-F-2025/study-assistant/internal/repositories/redis"
	"github.com/SAP-F-2025/study-assistant/internal/services"
	"github.com/SAP-F-2025/study-assistant/internal/utils"
	"github.com/SAP-F-2025/study-assistant/internal/validator"
	"github.com/SAP-F-2025/study-assistant/pkg"
	"github.com/gin-gonic/gin"
)

const sweepInterval = 10 * time.Minute

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.NewDefaultLogger().LogError(err, "Failed to load configuration")
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Environment)
	slogger := utils.ToSlogLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessions, closeSessions, err := newSessionRepository(ctx, cfg, logger)
	if err != nil {
		logger.LogError(err, "Failed to initialize session store", "store", cfg.SessionStore)
		os.Exit(1)
	}
	defer closeSessions()

	attempts, err := newAttemptRepository(cfg, logger)
	if err != nil {
		logger.LogError(err, "Failed to initialize attempt history")
		os.Exit(1)
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.LogError(err, "Failed to create event publisher, falling back to mock")
		publisher = events.NewMockEventPublisher(slogger)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.LogError(err, "Failed to close event publisher")
		}
	}()

	serviceManager := services.NewServiceManager(services.Dependencies{
		Sessions: sessions,
		Attempts: attempts,
		Assistant: assistant.NewClient(assistant.Config{
			BaseURL: cfg.AssistantBaseURL,
			Timeout: cfg.AssistantTimeout,
			Logger:  slogger,
		}),
		Publisher:      publisher,
		Validator:      validator.New(),
		Logger:         slogger,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxUploadBytes
	router.Use(
		gin.Recovery(),
		handlers.CORSMiddleware(cfg.CORSOrigins),
		utils.ContextLogger(logger),
		utils.LoggerMiddleware(logger),
	)
	handlers.NewHandlerManager(serviceManager, cfg.MaxUploadBytes, logger).SetupRoutes(router)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			"port", cfg.Port,
			"environment", cfg.Environment,
			"assistant", cfg.AssistantBaseURL,
			"session_store", cfg.SessionStore,
			"events_enabled", cfg.Events.Enabled,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogError(err, "Server failed")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	// Upstream assistant calls can run for the full assistant timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.AssistantTimeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.LogError(err, "Server forced to shutdown")
	}

	logger.Info("Server exited")
}

// newSessionRepository returns the configured session store and its cleanup.
func newSessionRepository(ctx context.Context, cfg *config.Config, logger utils.Logger) (repositories.SessionRepository, func(), error) {
	if cfg.SessionStore == "redis" {
		client, err := pkg.NewRedisClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Connected to Redis")
		store := sessionredis.NewSessionRedis(cache.NewRedisCache(client, utils.ToSlogLogger(logger)), cfg.SessionTTL)
		return store, func() { client.Close() }, nil
	}

	store := memory.NewSessionMemory(cfg.SessionTTL)
	sweepCtx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				if n := store.Sweep(); n > 0 {
					logger.Debug("Expired sessions removed", "count", n)
				}
			}
		}
	}()
	return store, cancel, nil
}

// newAttemptRepository keeps attempt history in Postgres when DATABASE_URL is
// set and in memory otherwise.
func newAttemptRepository(cfg *config.Config, logger utils.Logger) (repositories.AttemptRepository, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, attempt history is kept in memory")
		return memory.NewAttemptMemory(), nil
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("Connected to database")
	return postgres.NewAttemptPostgreSQL(db), nil
}
