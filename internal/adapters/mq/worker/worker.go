// Package worker runs the pool that turns queued plan jobs into stored
// plan records.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/scottkoons/the-social-studio-sub000/internal/adapters/mq/queue"
	"github.com/scottkoons/the-social-studio-sub000/internal/domain/model"
	"github.com/scottkoons/the-social-studio-sub000/internal/domain/plan"
	"github.com/scottkoons/the-social-studio-sub000/internal/domain/validate"
	"github.com/scottkoons/the-social-studio-sub000/pkg/logger"
	"github.com/scottkoons/the-social-studio-sub000/pkg/metrics"
)

const workerShutdownTimeout = 5 * time.Second

// Builder runs the scheduling pipeline for one request.
type Builder interface {
	Build(ctx context.Context, req plan.Request) (model.SchedulePlan, validate.Result, error)
}

// BuilderFunc adapts a plain function to Builder.
type BuilderFunc func(ctx context.Context, req plan.Request) (model.SchedulePlan, validate.Result, error)

// Build implements Builder.
func (f BuilderFunc) Build(ctx context.Context, req plan.Request) (model.SchedulePlan, validate.Result, error) {
	return f(ctx, req)
}

// Sink receives the outcome of a processed job.
type Sink interface {
	Complete(ctx context.Context, planID string, p model.SchedulePlan) error
	Fail(ctx context.Context, planID string, issues []validate.Issue) error
}

// Source defines how workers receive jobs.
type Source interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes plan jobs until stopped.
type Worker struct {
	source  Source
	builder Builder
	sink    Sink
	name    string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// New creates a worker.
func New(source Source, builder Builder, sink Sink, opts ...Option) *Worker {
	w := &Worker{
		source:   source,
		builder:  builder,
		sink:     sink,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run consumes jobs until ctx is cancelled, the source closes, or
// Shutdown is called.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.source.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, open := <-jobs:
			if !open {
				return
			}
			if err := w.process(ctx, job); err != nil {
				w.logger.Error(ctx, "job processing failed",
					logger.String("planID", job.PlanID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown stops the worker and waits for the in-flight job.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("worker shutdown: %w", ctx.Err())
	}
}

func (w *Worker) process(ctx context.Context, job queue.Job) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	p, res, err := w.builder.Build(ctx, job.Request)
	if err != nil {
		metrics.RecordWorkerError()
		if failErr := w.sink.Fail(ctx, job.PlanID, nil); failErr != nil {
			return fmt.Errorf("build failed (%w) and record not updated: %w", err, failErr)
		}
		return fmt.Errorf("build plan %s: %w", job.PlanID, err)
	}
	if !res.OK {
		metrics.RecordPlanRejected()
		if err := w.sink.Fail(ctx, job.PlanID, res.Issues); err != nil {
			return fmt.Errorf("store rejection for %s: %w", job.PlanID, err)
		}
		w.logger.Info(ctx, "plan rejected by validation",
			logger.String("planID", job.PlanID),
			logger.Int("issues", len(res.Issues)),
		)
		return nil
	}

	if err := w.sink.Complete(ctx, job.PlanID, p); err != nil {
		metrics.RecordWorkerError()
		return fmt.Errorf("store plan %s: %w", job.PlanID, err)
	}
	metrics.RecordPlanBuilt(float64(time.Since(start).Milliseconds()), len(p.Entries), p.BlockedByExisting)
	return nil
}

// Pool manages a fixed set of workers.
type Pool struct {
	workers []*Worker
	logger  logger.Logger
}

// NewPool creates count workers over the same source, builder, and sink.
func NewPool(count int, source Source, builder Builder, sink Sink) *Pool {
	if count < 1 {
		count = 1
	}
	p := &Pool{
		workers: make([]*Worker, count),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		p.workers[i] = New(source, builder, sink, WithName("worker-"+strconv.Itoa(i)))
	}
	metrics.UpdateWorkerActiveCount(count)
	return p
}

// Start launches every worker.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop signals all workers and waits bounded time for each.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		ctx, cancel := context.WithTimeout(context.Background(), workerShutdownTimeout)
		_ = w.Shutdown(ctx)
		cancel()
	}
	metrics.UpdateWorkerActiveCount(0)
}
