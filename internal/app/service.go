// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"runtime"
	"sync"

	submissionqueue "github.com/ywutian/admitscore/internal/adapters/mq/queue"
	workerpool "github.com/ywutian/admitscore/internal/adapters/mq/worker"
	"github.com/ywutian/admitscore/internal/adapters/record"
	repository "github.com/ywutian/admitscore/internal/adapters/repository"
	"github.com/ywutian/admitscore/internal/domain/admission"
	"github.com/ywutian/admitscore/internal/domain/dedupe"
	"github.com/ywutian/admitscore/internal/domain/model"
	"github.com/ywutian/admitscore/internal/domain/scoring"
	"github.com/ywutian/admitscore/internal/domain/types"
	"github.com/ywutian/admitscore/pkg/logger"
	"github.com/ywutian/admitscore/pkg/metrics"
)

// cohortEvaluator adapts the scoring engine to the worker's Evaluator
// interface. Cohort evaluation scores the applicant in isolation: no
// institution context, only the platform's own percentile history.
type cohortEvaluator struct {
	history *repository.HistoryBook
}

func (e *cohortEvaluator) Evaluate(ctx context.Context, student record.StudentRecord) (model.ScoreBreakdown, error) {
	hist := e.history.Snapshot(ctx)
	return scoring.Evaluate(record.Applicant(student), model.InstitutionMetrics{}, hist), nil
}

// Service implements the API dependencies for the admission scoring system.
type Service struct {
	mu sync.RWMutex

	// Core components
	cohort     *repository.TreapStore
	history    *repository.HistoryBook
	deduper    dedupe.Deduper
	queue      submissionqueue.Queue
	workerPool *workerpool.Pool

	// Configuration
	workerCount     int
	queueSize       int
	dedupeSize      int
	historyCapacity int

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the submission queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithHistoryCapacity sets the per-metric capacity of the cohort history.
func WithHistoryCapacity(capacity int) Option {
	return func(s *Service) {
		if capacity > 0 {
			s.historyCapacity = capacity
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:     runtime.NumCPU() * 2,
		queueSize:       100000,
		dedupeSize:      50000,
		historyCapacity: 10000,
		stopCh:          make(chan struct{}),
		logger:          nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting admission scoring service...")

	// Initialize components
	s.cohort = repository.NewTreapStore(ctx)
	s.logger.Info(ctx, "using treap store")
	s.history = repository.NewHistoryBook(s.historyCapacity)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = submissionqueue.NewInMemoryQueue(
		submissionqueue.WithCapacity(s.queueSize),
		submissionqueue.WithBufferSize(s.queueSize),
	)

	// Create and start the worker pool: observe history, evaluate, upsert.
	evaluator := &cohortEvaluator{history: s.history}
	s.workerPool = workerpool.NewPool(s.workerCount, s.queue, evaluator, s.history, s.cohort)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "admission scoring service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("historyCapacity", s.historyCapacity),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping admission scoring service...")

	// Stop worker pool
	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	// Close cohort store
	if s.cohort != nil {
		_ = s.cohort.Close()
	}

	// Close queue
	if q, ok := s.queue.(*submissionqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	// Signal cleanup loop to stop
	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "admission scoring service stopped")
}

// SeenAndRecord atomically checks if a submission id was seen and records it
// if not. Returns true if the submission was already seen, false if it was
// newly recorded. This is the ONLY method for deduplication - thread-safe
// and atomic.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	return s.deduper.SeenAndRecord(ctx, id)
}

// Unrecord removes a submission ID from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// Enqueue submits a profile for asynchronous cohort processing.
func (s *Service) Enqueue(ctx context.Context, sub record.Submission) bool {
	s.logger.Debug(ctx, "enqueueing submission",
		logger.String("submissionID", sub.SubmissionID),
		logger.String("applicantID", sub.ApplicantID),
	)

	success := s.queue.Enqueue(ctx, sub)
	if success {
		metrics.UpdateQueueSize(s.queue.Len(ctx))
	}
	return success
}

// TopN returns the top N cohort leaderboard entries.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	entries, err := s.cohort.TopN(ctx, n)
	if err != nil {
		return nil, err
	}

	// Convert to API format
	apiEntries := make([]types.Entry, len(entries))
	for i, entry := range entries {
		apiEntries[i] = toAPIEntry(entry)
	}

	return apiEntries, nil
}

// Rank returns the cohort rank and breakdown for a given applicant id.
func (s *Service) Rank(ctx context.Context, applicantID string) (types.Entry, error) {
	entry, err := s.cohort.Rank(ctx, applicantID)
	if err != nil {
		return types.Entry{}, err
	}
	return toAPIEntry(entry), nil
}

// Bands returns quartile bands for each score dimension over the cohort.
func (s *Service) Bands(ctx context.Context) types.Bands {
	bands := s.cohort.Bands(ctx)
	return types.Bands{
		CohortSize: bands.Size,
		Overall:    toAPIBand(bands.Overall),
		Academic:   toAPIBand(bands.Academic),
		Activity:   toAPIBand(bands.Activity),
		Award:      toAPIBand(bands.Award),
	}
}

// Predict synchronously scores the applicant against one institution.
func (s *Service) Predict(ctx context.Context, student record.StudentRecord, school record.SchoolRecord) (types.Prediction, error) {
	app := record.Applicant(student)
	inst := record.Institution(school)
	hist := s.history.Snapshot(ctx)

	breakdown := scoring.Evaluate(app, inst, hist)
	probability := admission.Probability(breakdown.Overall, inst.AcceptanceRate)
	tier := admission.ClassifyTier(probability, inst.AcceptanceRate)
	confidence := admission.EstimateConfidence(app, inst)

	return types.Prediction{
		Breakdown: types.ScoreBreakdown{
			Academic: breakdown.Academic,
			Activity: breakdown.Activity,
			Award:    breakdown.Award,
			Overall:  breakdown.Overall,
		},
		Probability: probability,
		Tier:        string(tier),
		Confidence:  string(confidence),
	}, nil
}

// SchoolList evaluates the applicant against every school in the list and
// groups the school ids into reach, match and safety buckets. List order is
// preserved within each bucket.
func (s *Service) SchoolList(ctx context.Context, student record.StudentRecord, schools []record.SchoolEntry) (types.SchoolList, error) {
	result := types.SchoolList{
		Results: make([]types.SchoolPrediction, 0, len(schools)),
		Reach:   []string{},
		Match:   []string{},
		Safety:  []string{},
	}

	for _, entry := range schools {
		prediction, err := s.Predict(ctx, student, entry.School)
		if err != nil {
			return types.SchoolList{}, err
		}

		result.Results = append(result.Results, types.SchoolPrediction{
			SchoolID:   entry.SchoolID,
			Prediction: prediction,
		})

		switch admission.Tier(prediction.Tier) {
		case admission.TierReach:
			result.Reach = append(result.Reach, entry.SchoolID)
		case admission.TierMatch:
			result.Match = append(result.Match, entry.SchoolID)
		case admission.TierSafety:
			result.Safety = append(result.Safety, entry.SchoolID)
		}
	}

	return result, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":         s.started,
		"workerCount":     s.workerCount,
		"queueSize":       s.queueSize,
		"dedupeSize":      s.dedupeSize,
		"historyCapacity": s.historyCapacity,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		cohortSize := s.cohort.Count(ctx)

		stats["queueLength"] = queueLen
		stats["cohortSize"] = cohortSize
		stats["historySamples"] = s.history.Size(ctx)

		// Update metrics
		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateCohortSize(cohortSize)
		metrics.UpdateWorkerActiveCount(s.workerCount)
	}

	return stats
}

func toAPIEntry(entry repository.Entry) types.Entry {
	return types.Entry{
		Rank:        entry.Rank,
		ApplicantID: entry.ApplicantID,
		Overall:     entry.Breakdown.Overall,
		Academic:    entry.Breakdown.Academic,
		Activity:    entry.Breakdown.Activity,
		Award:       entry.Breakdown.Award,
	}
}

func toAPIBand(b model.Band) types.Band {
	return types.Band{P25: b.P25, P50: b.P50, P75: b.P75}
}
