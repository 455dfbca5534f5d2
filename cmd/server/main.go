package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studysync/internal/api"
	"studysync/internal/api/handlers"
	"studysync/internal/config"
	"studysync/internal/logger"
	"studysync/internal/materials"
	"studysync/internal/storage"
	"studysync/internal/studysync"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load environment variables FIRST; everything below reads cfg
	cfg := config.Load()

	// Structured logging; gin's own debug output goes through it too
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.Port).
		Str("mode", cfg.GinMode).
		Str("backend", cfg.BackendURL).
		Msg("Starting StudySync")

	// Set up context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Upload storage: R2 when the bucket is configured, local disk otherwise
	files, err := storage.NewFromConfig(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize upload storage")
	}

	// --- Session Configuration ---
	// Workspace state lives in the session store (postgres or in-memory)
	store, closeSessions, err := api.NewSessionStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize session store")
	}
	defer closeSessions() // Ensure the session DB connection is closed

	// Expose the backend route on this origin, as a dev server would
	var proxy http.Handler
	if cfg.EnableDevProxy {
		proxy, err = handlers.NewGenerateProxy(cfg.BackendURL, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize generation proxy")
		}
	}

	// Generation backend client and the per-workspace orchestrator
	generator := materials.NewClient(cfg.BackendURL, nil)
	orchestrator := studysync.NewOrchestrator(files, generator, studysync.NewInflight(), log)
	handler := handlers.NewHandler(files, orchestrator, store, proxy, log)

	// Set up Gin router
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, handler, store, cfg, log)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start the server in a goroutine so shutdown signals can be handled
	go func() {
		log.Info().Str("addr", server.Addr).Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	// Generation requests have no deadline, so in-flight ones may be cut here.
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
