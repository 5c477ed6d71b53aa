package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"postguard/internal/analyzer"
	"postguard/internal/config"
	"postguard/internal/logging"
	"postguard/pkg/models"
	"postguard/pkg/utils"
)

// JobResult represents the result of an analysis job
type JobResult struct {
	State     *models.AnalysisState
	Error     error
	RequestID string
	Duration  time.Duration
}

// AnalysisJob represents a job to be processed by workers
type AnalysisJob struct {
	ID         string
	Posting    string
	Options    *models.AnalyzeOptions
	ResultChan chan JobResult
	Context    context.Context
	CreatedAt  time.Time
}

// Worker represents a single worker goroutine
type Worker struct {
	ID       int
	JobChan  chan AnalysisJob
	QuitChan chan bool
	Pool     *WorkerPool
	logger   logging.Logger
}

// WorkerPool manages multiple worker goroutines and the job queue
type WorkerPool struct {
	config     *config.Config
	workers    []*Worker
	jobQueue   chan AnalysisJob
	dispatcher *Dispatcher
	pipeline   *analyzer.Pipeline
	logger     logging.Logger
	mu         sync.RWMutex
	running    bool
	stats      *PoolStats
}

// PoolStats tracks worker pool statistics
type PoolStats struct {
	mu                    sync.RWMutex
	JobsQueued            int64
	JobsProcessed         int64
	JobsSuccessful        int64
	JobsFailed            int64
	TotalProcessingTime   time.Duration
	AverageProcessingTime time.Duration
}

// PoolStatsData is the lock-free snapshot of PoolStats used in responses
type PoolStatsData struct {
	JobsQueued            int64         `json:"jobs_queued"`
	JobsProcessed         int64         `json:"jobs_processed"`
	JobsSuccessful        int64         `json:"jobs_successful"`
	JobsFailed            int64         `json:"jobs_failed"`
	AverageProcessingTime time.Duration `json:"average_processing_time"`
}

// NewWorkerPool creates a new worker pool instance
func NewWorkerPool(cfg *config.Config, pipeline *analyzer.Pipeline) *WorkerPool {
	logger := logging.GetGlobalLogger()

	pool := &WorkerPool{
		config:   cfg,
		jobQueue: make(chan AnalysisJob, cfg.Workers.QueueSize),
		pipeline: pipeline,
		logger:   logger,
		stats:    &PoolStats{},
	}

	pool.workers = make([]*Worker, cfg.Workers.PoolSize)
	for i := 0; i < cfg.Workers.PoolSize; i++ {
		worker := &Worker{
			ID:       i + 1,
			JobChan:  make(chan AnalysisJob),
			QuitChan: make(chan bool),
			Pool:     pool,
			logger:   logger.WithField("worker_id", i+1),
		}
		pool.workers[i] = worker
	}

	pool.dispatcher = NewDispatcher(pool.jobQueue, pool.workers)

	logger.Info("Worker pool initialized", map[string]interface{}{
		"pool_size": cfg.Workers.PoolSize,
	})
	return pool
}

// Start starts the worker pool
func (wp *WorkerPool) Start() error {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.running {
		return fmt.Errorf("worker pool is already running")
	}

	wp.logger.Info("Starting worker pool")

	wp.dispatcher.Start()
	for _, worker := range wp.workers {
		go worker.Start()
	}

	wp.running = true
	wp.logger.Info("Worker pool started successfully", map[string]interface{}{
		"workers": len(wp.workers),
	})
	return nil
}

// Stop stops the worker pool gracefully
func (wp *WorkerPool) Stop() error {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if !wp.running {
		return nil
	}

	wp.logger.Info("Stopping worker pool")

	wp.dispatcher.Stop()
	for _, worker := range wp.workers {
		worker.Stop()
	}
	close(wp.jobQueue)

	wp.running = false
	wp.logger.Info("Worker pool stopped successfully")
	return nil
}

// SubmitJob submits a new analysis job to the pool and waits for its result
func (wp *WorkerPool) SubmitJob(ctx context.Context, posting string, options *models.AnalyzeOptions) (*JobResult, error) {
	if !wp.IsRunning() {
		return nil, fmt.Errorf("worker pool is not running")
	}

	job := AnalysisJob{
		ID:         utils.GenerateRequestID(),
		Posting:    posting,
		Options:    options,
		ResultChan: make(chan JobResult, 1),
		Context:    ctx,
		CreatedAt:  time.Now(),
	}

	wp.stats.mu.Lock()
	wp.stats.JobsQueued++
	wp.stats.mu.Unlock()

	select {
	case wp.jobQueue <- job:
		wp.logger.Info("Job submitted to queue", map[string]interface{}{
			"job_id": job.ID,
		})
	case <-time.After(5 * time.Second):
		return nil, utils.NewTimeoutError("job queue is full, request timed out")
	}

	timeout := wp.config.Workers.Timeout
	if options != nil && options.Timeout > 0 {
		timeout = time.Duration(options.Timeout)
	}

	select {
	case result := <-job.ResultChan:
		return &result, nil
	case <-time.After(timeout):
		return nil, utils.NewTimeoutError(fmt.Sprintf("analysis timed out after %v", timeout))
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// IsRunning returns true if the worker pool is running
func (wp *WorkerPool) IsRunning() bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	return wp.running
}

// GetStats returns current pool statistics
func (wp *WorkerPool) GetStats() PoolStatsData {
	wp.stats.mu.RLock()
	defer wp.stats.mu.RUnlock()

	data := PoolStatsData{
		JobsQueued:     wp.stats.JobsQueued,
		JobsProcessed:  wp.stats.JobsProcessed,
		JobsSuccessful: wp.stats.JobsSuccessful,
		JobsFailed:     wp.stats.JobsFailed,
	}
	if data.JobsProcessed > 0 {
		data.AverageProcessingTime = wp.stats.TotalProcessingTime / time.Duration(data.JobsProcessed)
	}
	return data
}

// Start starts the worker goroutine
func (w *Worker) Start() {
	w.logger.Info("Worker started")

	for {
		select {
		case job := <-w.JobChan:
			w.processJob(job)
		case <-w.QuitChan:
			w.logger.Info("Worker stopping")
			return
		}
	}
}

// Stop stops the worker
func (w *Worker) Stop() {
	w.QuitChan <- true
}

// processJob runs one analysis job through the pipeline
func (w *Worker) processJob(job AnalysisJob) {
	startTime := time.Now()

	w.logger.Debug("Processing job", map[string]interface{}{
		"job_id":    job.ID,
		"worker_id": w.ID,
	})

	w.Pool.stats.mu.Lock()
	w.Pool.stats.JobsProcessed++
	w.Pool.stats.mu.Unlock()

	result := w.analyzeJob(job)

	processingTime := time.Since(startTime)
	result.Duration = processingTime

	w.Pool.stats.mu.Lock()
	w.Pool.stats.TotalProcessingTime += processingTime
	if result.Error != nil {
		w.Pool.stats.JobsFailed++
	} else {
		w.Pool.stats.JobsSuccessful++
	}
	w.Pool.stats.mu.Unlock()

	// Send result back (non-blocking)
	select {
	case job.ResultChan <- result:
		w.logger.Info("Job completed", map[string]interface{}{
			"job_id":          job.ID,
			"worker_id":       w.ID,
			"processing_time": processingTime.String(),
			"success":         result.Error == nil,
		})
	case <-time.After(100 * time.Millisecond):
		w.logger.Debug("Result channel timeout - client may have disconnected", map[string]interface{}{
			"job_id":    job.ID,
			"worker_id": w.ID,
		})
	}
}

// analyzeJob performs the actual analysis work
func (w *Worker) analyzeJob(job AnalysisJob) JobResult {
	result := JobResult{RequestID: job.ID}

	format := "text"
	provider := ""
	if job.Options != nil {
		if job.Options.Format != "" {
			format = job.Options.Format
		}
		provider = job.Options.LLMProvider
	}

	ctx := job.Context
	if job.Options != nil && job.Options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(job.Options.Timeout))
		defer cancel()
	}

	result.State = w.Pool.pipeline.Analyze(ctx, job.Posting, format, provider)
	return result
}
