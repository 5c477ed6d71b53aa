package background

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"postguard/internal/callback"
	"postguard/internal/logging"
	"postguard/internal/logging/types"
)

// TaskCompletionLogger handles structured logging for task completion and,
// when a callback URL accompanied the request, webhook delivery of the
// result.
type TaskCompletionLogger struct {
	logger          types.Logger
	callbackClient  *callback.Client
	callbackEnabled bool
}

// NewTaskCompletionLogger creates a new task completion logger
func NewTaskCompletionLogger() *TaskCompletionLogger {
	return &TaskCompletionLogger{
		logger: logging.GetGlobalLogger(),
	}
}

// NewTaskCompletionLoggerWithCallback creates a task completion logger with
// webhook callback support
func NewTaskCompletionLoggerWithCallback(callbackClient *callback.Client, enabled bool) *TaskCompletionLogger {
	return &TaskCompletionLogger{
		logger:          logging.GetGlobalLogger(),
		callbackClient:  callbackClient,
		callbackEnabled: enabled,
	}
}

// TaskCompletionLog represents the structured log entry for task completion
type TaskCompletionLog struct {
	ProcessID      string                 `json:"processId"`
	Status         string                 `json:"status"`
	Error          string                 `json:"error,omitempty"`
	Timestamp      time.Time              `json:"timestamp"`
	Operation      string                 `json:"operation"`
	ProcessingTime string                 `json:"processing_time"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// LogTaskCompletion logs task completion and pushes the webhook when the
// task carries a callback URL.
func (l *TaskCompletionLogger) LogTaskCompletion(result *TaskResult, callbackURL string) error {
	processingTimeStr := "0s"
	if result.ProcessingTime != nil {
		processingTimeStr = result.ProcessingTime.String()
	}

	logEntry := TaskCompletionLog{
		ProcessID:      result.ProcessID,
		Status:         string(result.Status),
		Error:          result.Error,
		Timestamp:      time.Now(),
		Operation:      string(result.Type),
		ProcessingTime: processingTimeStr,
		Metadata:       result.Metadata,
	}

	jsonData, err := json.Marshal(logEntry)
	if err != nil {
		l.logger.Error("Failed to marshal task completion log", map[string]interface{}{
			"error": err.Error(),
		})
		return fmt.Errorf("failed to marshal task completion log: %w", err)
	}

	// Stdout copy is captured by container orchestrators
	fmt.Println(string(jsonData))

	l.logger.Info("Background task completed", map[string]interface{}{
		"process_id":      result.ProcessID,
		"status":          result.Status,
		"operation":       result.Type,
		"processing_time": processingTimeStr,
	})

	if l.callbackEnabled && l.callbackClient != nil && callbackURL != "" {
		if err := l.sendTaskCallback(context.Background(), result, callbackURL); err != nil {
			l.logger.Error("Failed to send task callback", map[string]interface{}{
				"process_id": result.ProcessID,
				"error":      err.Error(),
			})
			// Logging succeeded; callback failure is not fatal
		}
	}

	return nil
}

// LogTaskAccepted logs when a task is accepted for processing
func (l *TaskCompletionLogger) LogTaskAccepted(processID string, taskType TaskType) {
	l.logger.Info("Background task accepted", map[string]interface{}{
		"process_id": processID,
		"operation":  taskType,
		"status":     string(TaskStatusAccepted),
	})
}

// LogTaskStart logs when a task starts processing
func (l *TaskCompletionLogger) LogTaskStart(processID string, taskType TaskType) {
	l.logger.Info("Background task started", map[string]interface{}{
		"process_id": processID,
		"operation":  taskType,
		"status":     string(TaskStatusProcessing),
	})
}

// LogTaskSuccess logs when a task completes successfully
func (l *TaskCompletionLogger) LogTaskSuccess(processID string, taskType TaskType, processingTime time.Duration) {
	l.logger.Info("Background task succeeded", map[string]interface{}{
		"process_id":      processID,
		"operation":       taskType,
		"status":          string(TaskStatusSuccess),
		"processing_time": processingTime.String(),
	})
}

// LogTaskError logs when a task fails
func (l *TaskCompletionLogger) LogTaskError(processID string, taskType TaskType, err error) {
	l.logger.Error("Background task failed", map[string]interface{}{
		"process_id": processID,
		"operation":  taskType,
		"status":     string(TaskStatusFailure),
		"error":      err.Error(),
	})
}

func (l *TaskCompletionLogger) sendTaskCallback(ctx context.Context, result *TaskResult, callbackURL string) error {
	payload := &callback.Payload{
		ProcessID: result.ProcessID,
		Status:    string(result.Status),
		Data:      result.Data,
		Error:     result.Error,
		Operation: string(result.Type),
		Timestamp: time.Now(),
	}
	if result.ProcessingTime != nil {
		payload.ProcessingTime = result.ProcessingTime.String()
	}

	return l.callbackClient.Send(ctx, callbackURL, payload)
}
