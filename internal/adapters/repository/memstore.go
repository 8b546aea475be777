package repository

import (
	"context"
	"sync"
	"time"

	"github.com/skipperlabs/skipper/internal/domain/model"
	"github.com/skipperlabs/skipper/pkg/metrics"
)

// Default bound on retained batches.
const defaultMaxBatches = 64

// MemStore implements Store with an in-memory, bounded batch map.
// When the bound is reached the oldest batch is evicted. The latest
// pointer always refers to a live batch.
type MemStore struct {
	mu         sync.RWMutex
	batches    map[string]model.Batch
	order      []string // insertion order, oldest first
	latest     string
	maxBatches int
}

// NewMemStore creates an in-memory batch store.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		batches:    make(map[string]model.Batch),
		maxBatches: defaultMaxBatches,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put implements Store.
func (s *MemStore) Put(ctx context.Context, b model.Batch) error {
	if b.BatchID == "" {
		return ErrInvalidID
	}

	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.batches[b.BatchID]; !exists {
		if s.maxBatches > 0 && len(s.batches) >= s.maxBatches {
			s.evictOldestLocked()
		}
		s.order = append(s.order, b.BatchID)
	}
	s.batches[b.BatchID] = b
	s.latest = b.BatchID

	metrics.UpdateBatchesStored(len(s.batches))
	return nil
}

// Get implements Store.
func (s *MemStore) Get(ctx context.Context, id string) (model.Batch, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.batches[id]
	if !ok {
		return model.Batch{}, ErrNotFound
	}
	return b, nil
}

// Latest implements Store.
func (s *MemStore) Latest(ctx context.Context) (model.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == "" {
		return model.Batch{}, ErrEmpty
	}
	return s.batches[s.latest], nil
}

// Count implements Store.
func (s *MemStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.batches)
}

// evictOldestLocked drops the oldest batch that is not the latest.
func (s *MemStore) evictOldestLocked() {
	for i, id := range s.order {
		if id == s.latest && len(s.order) > 1 {
			continue
		}
		delete(s.batches, id)
		s.order = append(s.order[:i], s.order[i+1:]...)
		return
	}
}
