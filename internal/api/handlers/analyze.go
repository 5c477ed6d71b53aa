package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"postguard/internal/analyzer/workers"
	"postguard/internal/background"
	"postguard/internal/config"
	"postguard/internal/logging"
	"postguard/pkg/models"
	"postguard/pkg/utils"
)

var validate = validator.New()

// AnalyzeHandler handles synchronous posting analysis requests
func AnalyzeHandler(cfg *config.Config, poolManager *workers.PoolManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		startTime := time.Now()
		requestID := requestIDFrom(c)
		logger := logging.LogWithRequestID(requestID)

		logger.Info("Analyze request received")

		var req models.AnalyzeRequest
		if err := c.Bind(&req); err != nil {
			logger.Error("Failed to bind request", map[string]interface{}{"error": err.Error()})
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_request",
				Message:   "Invalid request format",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		if err := validate.Struct(&req); err != nil {
			logger.Error("Request validation failed", map[string]interface{}{"error": err.Error()})
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "validation_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		ctx := c.Request().Context()
		result, err := poolManager.SubmitJob(ctx, req.Posting, req.Options)
		if err != nil {
			logger.Error("Failed to submit job to worker pool", map[string]interface{}{"error": err.Error()})
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:     "job_submission_failed",
				Message:   fmt.Sprintf("Failed to submit analysis job: %v", err),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		if result.Error != nil {
			logger.Error("Analysis job failed", map[string]interface{}{"error": result.Error.Error()})
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:     "analysis_failed",
				Message:   fmt.Sprintf("Failed to analyze posting: %v", result.Error),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		verdict := result.State.Verdict()
		response := models.AnalyzeResponse{
			Success:        true,
			Verdict:        verdict,
			ProcessingTime: time.Since(startTime),
			RequestID:      requestID,
		}

		logger.Info("Analyze request completed successfully", map[string]interface{}{
			"processing_time":  utils.FormatDuration(time.Since(startTime)),
			"legitimacy_score": verdict.LegitimacyScore,
			"risk_level":       verdict.RiskLevel,
			"findings":         len(verdict.Findings),
		})

		return c.JSON(http.StatusOK, response)
	}
}

// AnalyzeAsyncHandler accepts an analysis request for background processing
// and returns a process ID immediately. Results are retrievable via the
// tasks endpoint and pushed to the callback URL when one was supplied.
func AnalyzeAsyncHandler(cfg *config.Config, poolManager *workers.PoolManager, taskManager background.TaskManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := requestIDFrom(c)
		logger := logging.LogWithRequestID(requestID)

		logger.Info("Async analyze request received")

		var req models.AnalyzeRequest
		if err := c.Bind(&req); err != nil {
			logger.Error("Failed to bind request", map[string]interface{}{"error": err.Error()})
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_request",
				Message:   "Invalid request format",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		if err := validate.Struct(&req); err != nil {
			logger.Error("Request validation failed", map[string]interface{}{"error": err.Error()})
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "validation_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		processID := utils.GenerateRequestID()
		if err := taskManager.SubmitAnalyzeTask(c.Request().Context(), processID, req, poolManager); err != nil {
			logger.Error("Failed to submit background task", map[string]interface{}{"error": err.Error()})
			return c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
				Error:     "task_submission_failed",
				Message:   fmt.Sprintf("Failed to accept analysis task: %v", err),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		logger.Info("Async analysis accepted", map[string]interface{}{
			"process_id": processID,
		})

		return c.JSON(http.StatusAccepted, models.AsyncAnalyzeResponse{
			ProcessID: processID,
			Status:    string(background.TaskStatusAccepted),
			Timestamp: time.Now(),
		})
	}
}

// requestIDFrom returns the request ID set by the validation middleware,
// generating one when the middleware did not run.
func requestIDFrom(c echo.Context) string {
	if id, ok := c.Get("request_id").(string); ok && id != "" {
		return id
	}
	return utils.GenerateRequestID()
}
