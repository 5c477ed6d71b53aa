package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"postguard/internal/analyzer"
	"postguard/internal/analyzer/workers"
	"postguard/internal/api/routes"
	"postguard/internal/background"
	"postguard/internal/config"
	"postguard/internal/extractor"
	"postguard/internal/llm"
	_ "postguard/internal/llm/providers"
	"postguard/internal/logging"
	"postguard/internal/search"
	"postguard/internal/verifier"
	"postguard/pkg/utils"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Missing collaborator credentials abort before anything is served
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize logging
	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseLogging()

	logger := logging.GetGlobalLogger()
	logger.Info("Starting Postguard Job Posting Analyzer")

	// Initialize LLM manager
	llmManager := llm.NewManager(cfg)
	if err := llmManager.Start(); err != nil {
		logger.Fatal("Failed to start LLM manager", map[string]interface{}{"error": err.Error()})
	}

	// Domain verifier, optionally backed by the redis cache
	var verifierOpts []verifier.Option
	if cfg.Verifier.CacheEnabled {
		redisClient := utils.NewRedisClient(cfg)
		if err := redisClient.Ping(context.Background()); err != nil {
			logger.Warn("Redis unavailable, domain verification cache disabled", map[string]interface{}{
				"error": err.Error(),
			})
			redisClient.Close()
		} else {
			verifierOpts = append(verifierOpts, verifier.WithCache(redisClient))
			defer redisClient.Close()
		}
	}
	domainVerifier := verifier.New(cfg, verifierOpts...)
	defer domainVerifier.Stop()

	// Corroboration gateway
	var newsSearcher search.QuerySearcher
	if cfg.Search.NewsFeed {
		newsSearcher = search.NewNewsSearcher(cfg.Search.MaxResults)
	}
	gateway := search.NewGateway(search.NewTavilyClient(cfg), newsSearcher)

	// Analysis pipeline
	pipeline := analyzer.NewPipeline(extractor.New(llmManager), domainVerifier, gateway)

	// Initialize background task manager
	logger.Info("Initializing background task manager")
	taskManager := background.NewTaskManager(cfg)
	ctx := context.Background()
	if err := taskManager.Start(ctx); err != nil {
		logger.Fatal("Failed to start task manager", map[string]interface{}{"error": err.Error()})
	}

	// Initialize worker pool
	poolManager := workers.NewPoolManager(cfg, pipeline)
	if err := poolManager.Initialize(); err != nil {
		logger.Fatal("Failed to start worker pool", map[string]interface{}{"error": err.Error()})
	}
	defer poolManager.Shutdown()

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	// Setup routes
	routes.SetupRoutes(e, cfg, poolManager, taskManager)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		logger.Info("Stopping background task manager...")
		if err := taskManager.Stop(shutdownCtx); err != nil {
			logger.Error("Error stopping task manager", map[string]interface{}{"error": err.Error()})
		}

		logger.Info("Stopping worker pool...")
		if err := poolManager.Shutdown(); err != nil {
			logger.Error("Error stopping worker pool", map[string]interface{}{"error": err.Error()})
		}

		logger.Info("Stopping LLM manager...")
		if err := llmManager.Stop(); err != nil {
			logger.Error("Error stopping LLM manager", map[string]interface{}{"error": err.Error()})
		}

		logger.Info("Stopping HTTP server...")
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", map[string]interface{}{"error": err.Error()})
		}

		logger.Info("Server shutdown complete")
	}()

	// Start server
	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", map[string]interface{}{"address": address})

	if err := e.Start(address); err != nil {
		logger.Fatal("Server failed to start", map[string]interface{}{"error": err.Error()})
	}
}
