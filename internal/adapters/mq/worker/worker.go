// Package worker defines worker contracts for asynchronous evaluation and
// cohort updates.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/ywutian/admitscore/internal/adapters/mq/queue"
	"github.com/ywutian/admitscore/internal/adapters/record"
	"github.com/ywutian/admitscore/internal/domain/model"
	"github.com/ywutian/admitscore/internal/domain/normalize"
	"github.com/ywutian/admitscore/pkg/logger"
	"github.com/ywutian/admitscore/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 20 // multiplier for runtime.NumCPU()
	metricsUpdateInterval   = 5 * time.Second
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Submission abstracts what workers read off the queue.
type Submission = queue.Submission

// Upserter replaces the stored breakdown for an applicant.
type Upserter interface {
	Upsert(ctx context.Context, applicantID string, breakdown model.ScoreBreakdown) (bool, error)
}

// Evaluator computes a score breakdown for a raw student record.
type Evaluator interface {
	Evaluate(ctx context.Context, student record.StudentRecord) (model.ScoreBreakdown, error)
}

// Recorder accumulates observed applicant metrics for percentile history.
type Recorder interface {
	Observe(ctx context.Context, sat, gpa, toefl *float64)
}

// Queue defines how workers receive submissions.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Submission
}

// Worker processes submissions and writes cohort updates using the provided
// interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker. It processes any remaining
	// submissions before stopping.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing submissions.
type InMemoryWorker struct {
	queue     Queue
	evaluator Evaluator
	recorder  Recorder
	upserter  Upserter
	name      string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, evaluator Evaluator, recorder Recorder, upserter Upserter, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     queue,
		evaluator: evaluator,
		recorder:  recorder,
		upserter:  upserter,
		name:      "worker", // default name
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	subChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case s, ok := <-subChan:
			if !ok {
				// Channel closed, worker should stop.
				return
			}

			if err := w.processSubmission(ctx, s); err != nil {
				w.logger.Error(ctx, "error processing submission", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processSubmission handles a single submission: record the observed metrics
// into the cohort history, evaluate the breakdown against the current
// history snapshot, then replace the applicant's cohort entry.
func (w *InMemoryWorker) processSubmission(ctx context.Context, s Submission) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	// History first so the evaluation below already sees this applicant.
	// GPA observations are stored on the common 4.0 basis.
	gpa := s.Student.GPA
	if gpa != nil {
		scale := normalize.NativeGPAScale
		if s.Student.GPAScale != nil {
			scale = *s.Student.GPAScale
		}
		v := normalize.GPA(*gpa, scale)
		gpa = &v
	}
	w.recorder.Observe(ctx, s.Student.SATScore, gpa, s.Student.TOEFLScore)

	evalStart := time.Now()
	breakdown, err := w.evaluator.Evaluate(ctx, s.Student)
	metrics.RecordEvaluationLatency(float64(time.Since(evalStart).Milliseconds()))

	if err != nil {
		metrics.RecordEvaluationError()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "evaluation_error")
		metrics.RecordErrorByType("evaluation_error", "high")
		w.logger.Error(ctx, "evaluation failed for submission",
			logger.String("submissionID", s.SubmissionID),
			logger.Error(err),
		)
		return fmt.Errorf("failed to evaluate submission %s: %w", s.SubmissionID, err)
	}

	if _, err := w.upserter.Upsert(ctx, s.ApplicantID, breakdown); err != nil {
		metrics.RecordCohortUpdateError()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "cohort_error")
		metrics.RecordErrorByType("cohort_error", "high")
		w.logger.Error(ctx, "cohort update failed for submission",
			logger.String("submissionID", s.SubmissionID),
			logger.Error(err),
		)
		return fmt.Errorf("cohort update failed: %w", err)
	}

	metrics.RecordCohortUpdate()
	metrics.RecordSubmissionProcessed()

	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers   []*InMemoryWorker
	queue     Queue
	evaluator Evaluator
	recorder  Recorder
	upserter  Upserter

	// Shutdown control
	shutdown chan struct{}

	// Metrics tracking
	processedCount    int64
	lastProcessedTime time.Time

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, evaluator Evaluator, recorder Recorder, upserter Upserter) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:           make([]*InMemoryWorker, workerCount),
		queue:             queue,
		evaluator:         evaluator,
		recorder:          recorder,
		upserter:          upserter,
		shutdown:          make(chan struct{}),
		lastProcessedTime: time.Now(),
		logger:            logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			evaluator,
			recorder,
			upserter,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerActiveCount(workerCount)
	metrics.UpdateWorkerIdleCount(0)
	metrics.UpdateWorkerMessagesPerSecond(0.0)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}

	go p.startMetricsUpdater(ctx)
}

// startMetricsUpdater refreshes worker metrics in the background.
func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case <-ticker.C:
			p.updateMetrics()
		}
	}
}

// updateMetrics updates worker-related metrics.
func (p *Pool) updateMetrics() {
	now := time.Now()
	timeDiff := now.Sub(p.lastProcessedTime).Seconds()
	if timeDiff > 0 {
		metrics.UpdateWorkerMessagesPerSecond(float64(p.processedCount) / timeDiff)
	}

	p.processedCount = 0
	p.lastProcessedTime = now
}

// RecordProcessedMessage increments the processed message count.
func (p *Pool) RecordProcessedMessage() {
	p.processedCount++
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	close(p.shutdown)

	for _, worker := range p.workers {
		select {
		case <-worker.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown gracefully shuts down the entire worker pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	// Close the queue first so no new submissions arrive.
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	close(p.shutdown)

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}
