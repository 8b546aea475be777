// Package service provides the core business service implementing the
// dependencies required by the HTTP API: batch submission, the async
// scoring pipeline and ranking reads.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	jobqueue "github.com/skipperlabs/skipper/internal/adapters/mq/queue"
	workerpool "github.com/skipperlabs/skipper/internal/adapters/mq/worker"
	repository "github.com/skipperlabs/skipper/internal/adapters/repository"
	"github.com/skipperlabs/skipper/internal/domain/dataset"
	"github.com/skipperlabs/skipper/internal/domain/dedupe"
	"github.com/skipperlabs/skipper/internal/domain/model"
	"github.com/skipperlabs/skipper/internal/domain/scoring"
	"github.com/skipperlabs/skipper/pkg/logger"
	"github.com/skipperlabs/skipper/pkg/metrics"
)

// LatestBatchID is the read alias resolving to the newest batch.
const LatestBatchID = "latest"

// Default pipeline sizing.
const (
	defaultQueueSize   = 256
	defaultWorkerCount = 4
	defaultDedupeSize  = 10_000
	defaultMaxBatches  = 64
)

// Submission is one dataset handed to the service for scoring.
type Submission struct {
	Label          string
	IdempotencyKey string
	Records        []model.CaptainRecord
	// Weights used for this batch; nil means the service defaults.
	Weights *model.Weights
}

// Service wires the scoring engine, queue, workers, dedupe cache and
// batch store into one unit behind the HTTP API.
type Service struct {
	mu sync.RWMutex

	store   repository.Store
	deduper dedupe.Deduper
	queue   jobqueue.Queue
	engine  scoring.Scorer
	pool    *workerpool.Pool

	workerCount int
	queueSize   int
	dedupeSize  int
	maxBatches  int
	weights     model.Weights

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of scoring workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize bounds the scoring job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize bounds the idempotency-key cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxBatches bounds the number of retained scored batches.
func WithMaxBatches(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBatches = n
		}
	}
}

// WithDefaultWeights sets the weights used when a submission carries none.
func WithDefaultWeights(w model.Weights) Option {
	return func(s *Service) {
		s.weights = w
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: defaultWorkerCount,
		queueSize:   defaultQueueSize,
		dedupeSize:  defaultDedupeSize,
		maxBatches:  defaultMaxBatches,
		weights:     model.Weights{Win: 0.4, Close: 0.2, Player: 0.2, Strategy: 0.2},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the pipeline and scores the bundled default
// dataset so ranking reads work before any upload.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting captaincy analytics service")

	s.store = repository.NewMemStore(repository.WithMaxBatches(s.maxBatches))
	s.deduper = dedupe.New(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = jobqueue.NewMemoryQueue(jobqueue.WithCapacity(s.queueSize))
	s.engine = scoring.NewEngine()

	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.engine, s.store)
	s.pool.Start(ctx)

	if err := s.seedDefaultBatch(ctx); err != nil {
		s.logger.Warn(ctx, "failed to seed default dataset", logger.Error(err))
	}

	s.started = true
	s.logger.Info(ctx, "captaincy analytics service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("maxBatches", s.maxBatches),
	)
	return nil
}

// seedDefaultBatch scores the embedded dataset synchronously so the
// initial latest batch exists deterministically at startup.
func (s *Service) seedDefaultBatch(ctx context.Context) error {
	records, err := dataset.Default()
	if err != nil {
		return fmt.Errorf("load default dataset: %w", err)
	}

	entries, err := s.engine.Score(ctx, records, s.weights)
	if err != nil {
		return fmt.Errorf("score default dataset: %w", err)
	}

	summary, err := scoring.Summarize(entries)
	if err != nil {
		return fmt.Errorf("summarize default dataset: %w", err)
	}

	batch := model.Batch{
		BatchID:   uuid.NewString(),
		Label:     "default",
		Weights:   s.weights,
		Entries:   entries,
		Summary:   summary,
		CreatedAt: time.Now().UTC(),
	}
	metrics.RecordBatchScored()
	metrics.RecordRecordsScored(len(entries))
	return s.store.Put(ctx, batch)
}

// Stop gracefully shuts down the pipeline.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping captaincy analytics service")

	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.pool != nil {
		s.pool.Stop()
	}

	s.started = false
	s.logger.Info(ctx, "captaincy analytics service stopped")
}

// Submit queues a dataset for scoring. It returns the new batch id, or
// duplicate=true when the submission's idempotency key was already
// seen. Queue saturation returns ErrBackpressure and rolls back the
// idempotency record so the client can retry.
func (s *Service) Submit(ctx context.Context, sub Submission) (batchID string, duplicate bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return "", false, ErrNotStarted
	}

	if sub.IdempotencyKey != "" && s.deduper.SeenAndRecord(ctx, sub.IdempotencyKey) {
		metrics.RecordBatchDuplicate()
		s.logger.Debug(ctx, "duplicate submission",
			logger.String("idempotencyKey", sub.IdempotencyKey),
		)
		return "", true, nil
	}

	weights := s.weights
	if sub.Weights != nil {
		weights = *sub.Weights
	}

	job := model.ScoringJob{
		BatchID:    uuid.NewString(),
		Label:      sub.Label,
		Records:    sub.Records,
		Weights:    weights,
		ReceivedAt: time.Now().UTC(),
	}

	if !s.queue.Enqueue(ctx, job) {
		if sub.IdempotencyKey != "" {
			s.deduper.Unrecord(ctx, sub.IdempotencyKey)
		}
		return "", false, ErrBackpressure
	}

	s.logger.Debug(ctx, "submission queued",
		logger.String("batchID", job.BatchID),
		logger.Int("records", len(job.Records)),
	)
	return job.BatchID, false, nil
}

// Batch returns a stored batch by id; LatestBatchID resolves the most
// recent one. Unknown ids return repository.ErrNotFound.
func (s *Service) Batch(ctx context.Context, id string) (model.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return model.Batch{}, ErrNotStarted
	}
	if id == LatestBatchID {
		return s.store.Latest(ctx)
	}
	return s.store.Get(ctx, id)
}

// Rankings returns a batch's scored table after applying the filter,
// sort and limit parameters.
func (s *Service) Rankings(ctx context.Context, id string, minMatches int, sortField string, limit int) ([]model.ScoredRecord, error) {
	batch, err := s.Batch(ctx, id)
	if err != nil {
		return nil, err
	}
	if batch.Failed() {
		return nil, scoring.NewProcessing(fmt.Errorf("batch %s failed: %s", batch.BatchID, batch.Err))
	}

	view, err := scoring.FilterSort(batch.Entries, minMatches, sortField)
	if err != nil {
		return nil, err
	}
	if limit > 0 && limit < len(view) {
		view = view[:limit]
	}
	return view, nil
}

// Summary returns the derived summary view of a batch.
func (s *Service) Summary(ctx context.Context, id string) (model.Summary, error) {
	batch, err := s.Batch(ctx, id)
	if err != nil {
		return model.Summary{}, err
	}
	if batch.Failed() {
		return model.Summary{}, scoring.NewProcessing(fmt.Errorf("batch %s failed: %s", batch.BatchID, batch.Err))
	}
	if len(batch.Entries) == 0 {
		return model.Summary{}, scoring.ErrEmptyBatch
	}
	return batch.Summary, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"maxBatches":  s.maxBatches,
	}

	if s.started {
		ctx := context.Background()
		queueLen := s.queue.Len(ctx)
		batches := s.store.Count(ctx)

		stats["queueLength"] = queueLen
		stats["batchesStored"] = batches
		stats["dedupeKeys"] = s.deduper.Size()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateBatchesStored(batches)
	}

	return stats
}
