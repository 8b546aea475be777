// Package queue defines the contract for enqueuing and consuming
// scoring jobs. The in-memory implementation is a bounded channel;
// enqueue never blocks, it reports backpressure instead.
package queue

import (
	"context"
	"sync"

	"github.com/skipperlabs/skipper/internal/domain/model"
	"github.com/skipperlabs/skipper/pkg/metrics"
)

// Default queue capacity. Batches are whole datasets, so the queue
// stays small compared to a per-event pipeline.
const defaultCapacity = 256

// Job is the payload type flowing through the queue.
type Job = model.ScoringJob

// Queue provides non-blocking enqueue and channel-based dequeue.
type Queue interface {
	// Enqueue adds a job to the queue.
	// Returns false if the queue is full or closed.
	Enqueue(ctx context.Context, j Job) bool

	// Dequeue returns a channel delivering jobs as they arrive.
	// The channel is closed when the queue is closed and drained.
	// A job taken but not yet delivered when ctx is cancelled is
	// handed back to the queue; if the queue is meanwhile closed or
	// full the job is dropped and counted as a queue error.
	Dequeue(ctx context.Context) <-chan Job

	// Len returns the current number of queued jobs.
	Len(ctx context.Context) int

	// Close shuts down the queue. After closing, Enqueue fails and the
	// dequeue channel closes once remaining jobs are drained.
	Close() error
}

// MemoryQueue implements Queue with a buffered channel.
type MemoryQueue struct {
	jobs     chan Job
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewMemoryQueue creates an in-memory job queue.
func NewMemoryQueue(opts ...Option) *MemoryQueue {
	q := &MemoryQueue{
		capacity: defaultCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}

	q.jobs = make(chan Job, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0)

	return q
}

// Enqueue implements Queue.
func (q *MemoryQueue) Enqueue(ctx context.Context, j Job) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueError("closed")
		return false
	}

	select {
	case <-ctx.Done():
		metrics.RecordQueueError("context_cancelled")
		return false
	case q.jobs <- j:
		metrics.RecordQueueEnqueue()
		q.observeOccupancy()
		return true
	default:
		metrics.RecordQueueError("queue_full")
		return false
	}
}

// Dequeue implements Queue.
func (q *MemoryQueue) Dequeue(ctx context.Context) <-chan Job {
	out := make(chan Job)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case j, ok := <-q.jobs:
				if !ok {
					return
				}
				select {
				case out <- j:
					metrics.RecordQueueDequeue()
					q.observeOccupancy()
				case <-ctx.Done():
					q.requeue(j)
					return
				}
			}
		}
	}()
	return out
}

// requeue hands back a job that was taken off the queue but never
// delivered, so cancelling a consumer does not lose an accepted batch.
func (q *MemoryQueue) requeue(j Job) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueError("dropped_on_shutdown")
		return
	}
	select {
	case q.jobs <- j:
		q.observeOccupancy()
	default:
		metrics.RecordQueueError("dropped_on_shutdown")
	}
}

// Len implements Queue.
func (q *MemoryQueue) Len(_ context.Context) int {
	return len(q.jobs)
}

// Close implements Queue.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.jobs)
	q.closed = true
	return nil
}

// IsClosed reports whether the queue has been closed.
func (q *MemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *MemoryQueue) observeOccupancy() {
	size := len(q.jobs)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
}
