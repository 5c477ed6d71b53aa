package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"postguard/internal/analyzer/workers"
	"postguard/internal/logging"
	"postguard/pkg/models"
)

// WorkerStatsHandler returns worker pool statistics
func WorkerStatsHandler(poolManager *workers.PoolManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := requestIDFrom(c)
		logger := logging.LogWithRequestID(requestID)

		stats, err := poolManager.GetStats()
		if err != nil {
			logger.Error("Failed to get worker pool stats", map[string]interface{}{
				"error": err.Error(),
			})
			return c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
				Error:     "stats_unavailable",
				Message:   "Worker pool statistics are not available",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		return c.JSON(http.StatusOK, stats)
	}
}

// WorkerHealthHandler reports the health of the worker pool
func WorkerHealthHandler(poolManager *workers.PoolManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		healthy := poolManager.IsHealthy()

		status := http.StatusOK
		state := "healthy"
		if !healthy {
			status = http.StatusServiceUnavailable
			state = "unhealthy"
		}

		return c.JSON(status, map[string]interface{}{
			"status":    state,
			"timestamp": time.Now(),
		})
	}
}
