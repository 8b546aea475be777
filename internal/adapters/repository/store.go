// Package repository defines the scored-batch store interface and errors.
package repository

import (
	"context"

	"github.com/skipperlabs/skipper/internal/domain/model"
)

// Store provides read/write access to scored batches. Batches are
// immutable once stored; a new upload always produces a new batch.
type Store interface {
	// Put stores a batch and makes it the latest.
	Put(ctx context.Context, b model.Batch) error

	// Get returns the batch with the given id.
	// Returns ErrNotFound if the id is unknown or already evicted.
	Get(ctx context.Context, id string) (model.Batch, error)

	// Latest returns the most recently stored batch.
	// Returns ErrEmpty when nothing has been stored yet.
	Latest(ctx context.Context) (model.Batch, error)

	// Count returns the number of batches currently held.
	Count(ctx context.Context) int
}
