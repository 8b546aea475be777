// Package repository defines the scored-batch store interface and errors.
package repository

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithMaxBatches bounds the number of retained batches. A bound of 0
// or less disables eviction.
func WithMaxBatches(n int) Option {
	return func(s *MemStore) {
		s.maxBatches = n
	}
}
