package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/narratif/studio/internal/api"
	"github.com/narratif/studio/internal/api/ws"
	"github.com/narratif/studio/internal/assets"
	"github.com/narratif/studio/internal/config"
	"github.com/narratif/studio/internal/gateway"
	"github.com/narratif/studio/internal/orchestrator"
	"github.com/narratif/studio/internal/pipeline"
	"github.com/narratif/studio/internal/store"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	// A .env file is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.Server.Production {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	kv, err := store.NewKV(cfg.Storage, logger)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}

	projects := store.NewProjectStore(kv, logger)
	settings := store.NewSettingsStore(kv, logger)

	gw := gateway.New(cfg.Providers, logger)
	pipe := pipeline.New(gw, logger)

	var assetStore assets.Store
	if cfg.Assets.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		assetStore, err = assets.NewMinioStore(ctx, cfg.Assets, logger)
		cancel()
		if err != nil {
			logger.Fatal("Failed to initialize asset storage", zap.Error(err))
		}
		logger.Info("Asset storage enabled", zap.String("bucket", cfg.Assets.Bucket))
	}

	orch := orchestrator.New(projects, settings, pipe, gw, assetStore, logger)

	hub := ws.NewHub(logger)
	orch.SetNotifier(hub)

	router := api.NewRouter(orch, hub, cfg, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("Server listening", zap.String("addr", addr), zap.String("storage", cfg.Storage.Driver))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}
