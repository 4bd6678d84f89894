package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/serverless-task-manager/internal/config"
	"github.com/BuzzLyutic/serverless-task-manager/internal/handler"
	"github.com/BuzzLyutic/serverless-task-manager/internal/logging"
	"github.com/BuzzLyutic/serverless-task-manager/internal/repo"
	"github.com/BuzzLyutic/serverless-task-manager/internal/service"
)

// Локальный HTTP-сервер с теми же маршрутами, что и за API Gateway
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	store, closeStore, err := repo.Open(context.Background(), cfg)
	if err != nil {
		logger.Fatal("Failed to open task store", zap.Error(err))
	}
	defer closeStore()
	logger.Info("Task store ready", zap.String("backend", cfg.StoreBackend))

	srv := service.NewTaskService(store, service.WithPolicy(service.Policy{StrictStatus: cfg.StrictStatus}))
	taskHandler := handler.NewTaskHandler(srv, logger, handler.Headers(cfg.AllowOrigin))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok"}`)
	})

	taskHandler.Routes(r)

	server := http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Shutdown error", zap.Error(err))
		return
	}
	logger.Info("Server stopped")
}
