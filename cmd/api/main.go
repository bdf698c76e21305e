package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/rok/internal/config"
	"github.com/jwebster45206/rok/internal/handlers"
	"github.com/jwebster45206/rok/internal/logger"
	"github.com/jwebster45206/rok/internal/middleware"
	"github.com/jwebster45206/rok/internal/session"
	"github.com/jwebster45206/rok/internal/storage"
	"github.com/jwebster45206/rok/pkg/textfilter"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.Setup(cfg, os.Stdout)

	log.Info("Starting rok API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"data_dir", cfg.DataDir,
		"content_rating", cfg.ContentRating)

	store := storage.NewFileStorage(cfg.DataDir, log)
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer storageCancel()

	if err := store.Ping(storageCtx); err != nil {
		log.Error("Story storage is not available", "error", err)
		os.Exit(1)
	}
	log.Info("Story storage ready")

	sessions := session.NewRegistry()
	filter := textfilter.ForRating(cfg.ContentRating)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, sessions, log)
	mux.Handle("/health", healthHandler)

	storyHandler := handlers.NewStoryHandler(log, store)
	mux.Handle("/v1/stories", storyHandler)

	tellingHandler := handlers.NewTellingHandler(log, store, sessions, filter)
	mux.Handle("/v1/tellings", tellingHandler)
	mux.Handle("/v1/tellings/", tellingHandler)

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...", "tellings", sessions.Len())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
