// Package worker defines worker contracts for asynchronous conflict badge
// recomputation.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	queue "github.com/okian/greenroom/internal/adapters/mq/queue"
	"github.com/okian/greenroom/internal/domain/conflict"
	"github.com/okian/greenroom/internal/domain/model"
	"github.com/okian/greenroom/pkg/logger"
	"github.com/okian/greenroom/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
)

// Job abstracts what workers read off the queue.
type Job = model.RecomputeJob

// Source supplies the raw rows a recompute needs.
type Source interface {
	ScenesByRun(ctx context.Context, runID string) ([]model.Scene, error)
	AssignmentsByRun(ctx context.Context, runID string) ([]model.RoleAssignment, error)
}

// BadgeSink receives the recomputed badge snapshot.
type BadgeSink interface {
	SetConflictBadges(ctx context.Context, runID string, roleIDs map[string]bool)
}

// Releaser clears a run's pending mark once its job has been taken, so
// later mutations can queue a fresh recompute.
type Releaser interface {
	Unrecord(ctx context.Context, id string)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes recompute jobs using the provided interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// BadgeWorker implements Worker for conflict badge recomputation.
type BadgeWorker struct {
	queue    Queue
	source   Source
	detector conflict.Detector
	sink     BadgeSink
	releaser Releaser
	name     string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewBadgeWorker creates a new worker with configuration options.
func NewBadgeWorker(q Queue, source Source, detector conflict.Detector, sink BadgeSink, releaser Releaser, opts ...Option) *BadgeWorker {
	w := &BadgeWorker{
		queue:    q,
		source:   source,
		detector: detector,
		sink:     sink,
		releaser: releaser,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
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
func (w *BadgeWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.processJob(ctx, job); err != nil {
				metrics.RecordRecomputeError()
				w.logger.Error(ctx, "badge recompute failed",
					logger.String("run_id", job.RunID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *BadgeWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob recomputes one run's conflict badges.
func (w *BadgeWorker) processJob(ctx context.Context, job Job) error {
	// Release the pending mark before computing: a mutation that lands
	// mid-scan must queue a fresh recompute or its change would be lost.
	if w.releaser != nil {
		w.releaser.Unrecord(ctx, job.RunID)
	}

	scenes, err := w.source.ScenesByRun(ctx, job.RunID)
	if err != nil {
		return fmt.Errorf("load scenes for run %s: %w", job.RunID, err)
	}
	assignments, err := w.source.AssignmentsByRun(ctx, job.RunID)
	if err != nil {
		return fmt.Errorf("load assignments for run %s: %w", job.RunID, err)
	}

	start := time.Now()
	conflicts, err := w.detector.Detect(ctx, scenes, assignments)
	latencyMs := float64(time.Since(start).Microseconds()) / 1000.0
	if err != nil {
		return fmt.Errorf("detect conflicts for run %s: %w", job.RunID, err)
	}
	metrics.RecordConflictScan(len(conflicts), latencyMs)

	w.sink.SetConflictBadges(ctx, job.RunID, conflict.RoleBadges(conflicts))
	w.logger.Debug(ctx, "badges recomputed",
		logger.String("run_id", job.RunID),
		logger.Int("conflicts", len(conflicts)),
	)
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*BadgeWorker

	shutdown chan struct{}

	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, q Queue, source Source, detector conflict.Detector, sink BadgeSink, releaser Releaser) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:  make([]*BadgeWorker, workerCount),
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewBadgeWorker(
			q,
			source,
			detector,
			sink,
			releaser,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop gracefully stops all workers. The queue must be closed first so
// worker loops see their job channel drain and close.
func (p *Pool) Stop() {
	close(p.shutdown)

	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
			p.logger.Warn(context.Background(), "worker stop timed out", logger.String("worker", w.name))
		}
	}
}

// Size reports the number of workers in the pool.
func (p *Pool) Size() int {
	return len(p.workers)
}
