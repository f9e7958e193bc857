// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	jobqueue "github.com/scottkoons/the-social-studio-sub000/internal/adapters/mq/queue"
	workerpool "github.com/scottkoons/the-social-studio-sub000/internal/adapters/mq/worker"
	repository "github.com/scottkoons/the-social-studio-sub000/internal/adapters/repository"
	"github.com/scottkoons/the-social-studio-sub000/internal/domain/dedupe"
	"github.com/scottkoons/the-social-studio-sub000/internal/domain/model"
	"github.com/scottkoons/the-social-studio-sub000/internal/domain/plan"
	"github.com/scottkoons/the-social-studio-sub000/internal/domain/validate"
	"github.com/scottkoons/the-social-studio-sub000/pkg/logger"
	"github.com/scottkoons/the-social-studio-sub000/pkg/metrics"
)

// Service implements the API dependencies for the scheduling system.
type Service struct {
	mu sync.RWMutex

	// Core components
	plans   repository.Store
	deduper dedupe.Deduper
	jobs    jobqueue.Queue
	pool    *workerpool.Pool

	// Configuration
	workerCount     int
	queueSize       int
	dedupeSize      int
	shardCount      int
	maxRangeDays    int
	maxBatchItems   int
	defaultPlatform model.Platform
	seedPrefix      string

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

// WithQueueSize sets the maximum size of the job queue.
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

// WithShardCount sets the number of plan store shards.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithMaxRangeDays caps the length of a schedule date range.
func WithMaxRangeDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.maxRangeDays = days
		}
	}
}

// WithMaxBatchItems caps the number of items per request.
func WithMaxBatchItems(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBatchItems = n
		}
	}
}

// WithDefaultPlatform sets the platform used when a request omits one.
func WithDefaultPlatform(p model.Platform) Option {
	return func(s *Service) {
		if p != "" {
			s.defaultPlatform = p
		}
	}
}

// WithSeedPrefix sets the default seed prefix for time assignment.
func WithSeedPrefix(prefix string) Option {
	return func(s *Service) {
		if prefix != "" {
			s.seedPrefix = prefix
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
		queueSize:       10000,
		dedupeSize:      50000,
		shardCount:      8,
		maxRangeDays:    366,
		maxBatchItems:   500,
		defaultPlatform: model.PlatformInstagram,
		seedPrefix:      "studio",
		stopCh:          make(chan struct{}),
	}

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

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting scheduling service...")

	s.plans = repository.NewMemStore(ctx,
		repository.WithShardCount(s.shardCount),
	)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.jobs = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
	)

	s.pool = workerpool.NewPool(s.workerCount, s.jobs, workerpool.BuilderFunc(plan.Build), s.plans)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "scheduling service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
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

	s.logger.Info(context.Background(), "stopping scheduling service...")

	if s.pool != nil {
		s.pool.Stop()
	}

	if q, ok := s.jobs.(*jobqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "scheduling service stopped")
}

// normalize applies configured defaults and limits to a request.
func (s *Service) normalize(req *plan.Request) error {
	if req.Platform == "" {
		req.Platform = s.defaultPlatform
	}
	if req.SeedPrefix == "" {
		req.SeedPrefix = s.seedPrefix
	}
	if req.Range.Valid() && req.Range.Days() > s.maxRangeDays {
		return fmt.Errorf("%w: %d days (max %d)", ErrRangeTooLong, req.Range.Days(), s.maxRangeDays)
	}
	if len(req.Items) > s.maxBatchItems {
		return fmt.Errorf("%w: %d items (max %d)", ErrTooManyItems, len(req.Items), s.maxBatchItems)
	}
	return nil
}

// Preview runs the scheduling pipeline synchronously without storing
// anything. The returned result carries validation issues when the
// request could not produce a plan.
func (s *Service) Preview(ctx context.Context, req plan.Request) (model.SchedulePlan, validate.Result, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return model.SchedulePlan{}, validate.Result{}, ErrNotStarted
	}

	if err := s.normalize(&req); err != nil {
		return model.SchedulePlan{}, validate.Result{}, err
	}

	start := time.Now()
	p, res, err := plan.Build(ctx, req)
	if err != nil {
		return model.SchedulePlan{}, validate.Result{}, err
	}
	if !res.OK {
		metrics.RecordPlanRejected()
		return model.SchedulePlan{}, res, nil
	}
	metrics.RecordPlanBuilt(float64(time.Since(start).Milliseconds()), len(p.Entries), p.BlockedByExisting)
	return p, res, nil
}

// Submit queues a request for asynchronous plan building. requestID
// deduplicates retries: a repeated id is acknowledged with duplicate
// set and no plan id, and nothing is queued again. On backpressure the
// dedupe record and the pending store record are rolled back so the
// caller can retry.
func (s *Service) Submit(ctx context.Context, requestID string, req plan.Request) (string, bool, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return "", false, ErrNotStarted
	}

	if err := s.normalize(&req); err != nil {
		return "", false, err
	}

	if requestID != "" && s.deduper.SeenAndRecord(ctx, requestID) {
		metrics.RecordDuplicateRequest()
		s.logger.Debug(ctx, "duplicate submission",
			logger.String("requestID", requestID),
		)
		return "", true, nil
	}

	planID := uuid.NewString()
	rec := repository.Record{
		PlanID:      planID,
		Status:      repository.StatusPending,
		SubmittedAt: time.Now().UTC(),
	}
	if err := s.plans.Create(ctx, rec); err != nil {
		if requestID != "" {
			s.deduper.Unrecord(ctx, requestID)
		}
		return "", false, fmt.Errorf("create plan record: %w", err)
	}

	if !s.jobs.Enqueue(ctx, jobqueue.Job{PlanID: planID, Request: req}) {
		s.plans.Delete(ctx, planID)
		if requestID != "" {
			s.deduper.Unrecord(ctx, requestID)
		}
		s.logger.Warn(ctx, "submission rejected, queue full",
			logger.String("planID", planID),
		)
		return "", false, ErrBacklogFull
	}

	s.logger.Debug(ctx, "submission enqueued",
		logger.String("planID", planID),
		logger.String("requestID", requestID),
	)
	return planID, false, nil
}

// Plan returns the stored record for a plan id.
func (s *Service) Plan(ctx context.Context, planID string) (repository.Record, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return repository.Record{}, ErrNotStarted
	}
	return s.plans.Get(ctx, planID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.jobs.Len(ctx)
		storedPlans := s.plans.Count(ctx)

		stats["queueLength"] = queueLen
		stats["storedPlans"] = storedPlans
		stats["trackedRequests"] = s.deduper.Size()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateStoredPlans(storedPlans)
	}

	return stats
}
