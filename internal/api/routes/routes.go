package routes

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"postguard/internal/api/handlers"
	"postguard/internal/api/middleware"
	"postguard/internal/analyzer/workers"
	"postguard/internal/background"
	"postguard/internal/config"
)

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, poolManager *workers.PoolManager, taskManager background.TaskManager) {
	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig())
	e.Use(middleware.RequestValidation())
	// Analysis endpoints wait on LLM inference plus outbound lookups and
	// get a longer budget than the rest of the surface
	e.Use(middleware.SelectiveTimeoutConfig(cfg.Server.ReadTimeout, 2*time.Minute))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler)
		health.GET("/live", handlers.LivenessHandler)
		health.GET("/workers", handlers.WorkerHealthHandler(poolManager))
	}

	// Status route
	e.GET("/status", handlers.StatusHandler)

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		v1.POST("/analyze", handlers.AnalyzeHandler(cfg, poolManager))
		v1.POST("/analyze/async", handlers.AnalyzeAsyncHandler(cfg, poolManager, taskManager))

		// Background task routes
		tasks := v1.Group("/tasks")
		{
			tasks.GET("", handlers.TaskListHandler(taskManager))
			tasks.GET("/:id", handlers.TaskStatusHandler(taskManager))
		}

		// Worker monitoring routes
		workerRoutes := v1.Group("/workers")
		{
			workerRoutes.GET("/stats", handlers.WorkerStatsHandler(poolManager))
		}
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "Postguard Job Posting Analyzer",
			"version": "1.0.0",
			"status":  "running",
		})
	})
}
