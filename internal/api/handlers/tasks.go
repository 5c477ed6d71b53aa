package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"postguard/internal/background"
	"postguard/internal/logging"
	"postguard/pkg/models"
)

// TaskStatusHandler returns the status and result of a background task
func TaskStatusHandler(taskManager background.TaskManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := requestIDFrom(c)
		logger := logging.LogWithRequestID(requestID)

		processID := c.Param("id")
		if processID == "" {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "missing_process_id",
				Message:   "Process ID is required",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		result, err := taskManager.GetTaskResult(c.Request().Context(), processID)
		if err != nil {
			var taskErr *background.TaskError
			if errors.As(err, &taskErr) {
				return c.JSON(http.StatusNotFound, models.ErrorResponse{
					Error:     "task_not_found",
					Message:   "No task with that process ID",
					RequestID: requestID,
					Timestamp: time.Now(),
				})
			}

			logger.Error("Failed to retrieve task", map[string]interface{}{
				"process_id": processID,
				"error":      err.Error(),
			})
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:     "task_lookup_failed",
				Message:   "Failed to retrieve task result",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		return c.JSON(http.StatusOK, result)
	}
}

// TaskListHandler lists all known background tasks (for monitoring)
func TaskListHandler(taskManager background.TaskManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := requestIDFrom(c)

		tasks, err := taskManager.ListTasks(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:     "task_list_failed",
				Message:   "Failed to list tasks",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		return c.JSON(http.StatusOK, map[string]interface{}{
			"count": len(tasks),
			"tasks": tasks,
		})
	}
}
