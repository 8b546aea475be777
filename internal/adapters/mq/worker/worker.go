// Package worker runs the asynchronous scoring pipeline: workers drain
// the job queue, run each batch through the scoring engine and store
// the result. The engine itself stays synchronous and pure; all
// concurrency lives here.
package worker

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/skipperlabs/skipper/internal/adapters/mq/queue"
	"github.com/skipperlabs/skipper/internal/domain/model"
	"github.com/skipperlabs/skipper/internal/domain/scoring"
	"github.com/skipperlabs/skipper/pkg/logger"
	"github.com/skipperlabs/skipper/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerCount    = 4
	workerShutdownTimeout = 5 * time.Second
)

// Job is what workers read off the queue.
type Job = model.ScoringJob

// Sink stores a finished batch, scored or failed.
type Sink interface {
	Put(ctx context.Context, b model.Batch) error
}

// JobSource defines how workers receive jobs.
type JobSource interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker scores queued batches until stopped.
type Worker struct {
	source JobSource
	scorer scoring.Scorer
	sink   Sink
	name   string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewWorker creates a worker with configuration options.
func NewWorker(source JobSource, scorer scoring.Scorer, sink Sink, opts ...Option) *Worker {
	w := &Worker{
		source:   source,
		scorer:   scorer,
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

// Run starts the worker loop until ctx is cancelled, shutdown is
// requested or the job channel closes.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.source.Dequeue(ctx)
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
				w.logger.Error(ctx, "failed to store batch",
					logger.String("batchID", job.BatchID),
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
		return fmt.Errorf("worker shutdown timed out: %w", ctx.Err())
	}
}

// processJob scores one batch and stores the outcome. A scoring
// failure is stored as a failed batch so readers can surface the
// message; only sink errors propagate.
func (w *Worker) processJob(ctx context.Context, job Job) error {
	start := time.Now()
	entries, err := w.scorer.Score(ctx, job.Records, job.Weights)
	metrics.RecordScoringLatency(float64(time.Since(start).Milliseconds()))

	batch := model.Batch{
		BatchID:   job.BatchID,
		Label:     job.Label,
		Weights:   job.Weights,
		CreatedAt: time.Now().UTC(),
	}

	if err != nil {
		metrics.RecordBatchFailed(errorKind(err))
		w.logger.Warn(ctx, "batch rejected by scoring engine",
			logger.String("batchID", job.BatchID),
			logger.Error(err),
		)
		batch.Err = err.Error()
		return w.sink.Put(ctx, batch)
	}

	batch.Entries = entries
	if len(entries) > 0 {
		// Summarize cannot fail on a non-empty scored batch.
		batch.Summary, _ = scoring.Summarize(entries)
	}

	metrics.RecordBatchScored()
	metrics.RecordRecordsScored(len(entries))
	w.logger.Debug(ctx, "batch scored",
		logger.String("batchID", job.BatchID),
		logger.Int("records", len(entries)),
	)
	return w.sink.Put(ctx, batch)
}

// errorKind maps an engine error to its metric label.
func errorKind(err error) string {
	var mfe *scoring.MissingFieldError
	if errors.As(err, &mfe) {
		return "missing_field"
	}
	var pe *scoring.ProcessingError
	if errors.As(err, &pe) {
		return "processing"
	}
	return "other"
}

// Pool manages a fixed set of workers sharing one queue.
type Pool struct {
	workers []*Worker
	logger  logger.Logger
}

// NewPool creates a worker pool. A non-positive count falls back to
// the default.
func NewPool(workerCount int, source JobSource, scorer scoring.Scorer, sink Sink) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}

	p := &Pool{
		workers: make([]*Worker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewWorker(source, scorer, sink,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start launches all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop stops all workers, waiting up to the shutdown timeout each.
func (p *Pool) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), workerShutdownTimeout)
	defer cancel()
	for _, w := range p.workers {
		if err := w.Shutdown(ctx); err != nil {
			p.logger.Warn(ctx, "worker did not stop in time", logger.Error(err))
		}
	}
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int {
	return len(p.workers)
}
