// Package config defines service configuration structures and loading.
//
// Conventions:
// - Provide New(...) to build a Config with defaults.
// - Load layers defaults, an optional YAML file and env vars.
// - External errors are wrapped via this package's sentinels.
package config

import (
	"runtime"

	"github.com/skipperlabs/skipper/internal/domain/model"
)

// Default weight configuration, matching the reference ranking.
const (
	defaultWeightWin      = 0.4
	defaultWeightClose    = 0.2
	defaultWeightPlayer   = 0.2
	defaultWeightStrategy = 0.2
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8880".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory scoring job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of scoring workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the idempotency-key cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxBatches bounds the number of retained scored batches.
	MaxBatches int `koanf:"max_batches"`

	// MaxLimit caps the limit query parameter on ranking reads.
	MaxLimit int `koanf:"max_limit"`

	// Default weights applied when a submission carries none.
	WeightWin      float64 `koanf:"weight_win"`
	WeightClose    float64 `koanf:"weight_close"`
	WeightPlayer   float64 `koanf:"weight_player"`
	WeightStrategy float64 `koanf:"weight_strategy"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":8880",
		QueueSize:      256,
		WorkerCount:    runtime.NumCPU(),
		DedupeSize:     10_000,
		MaxBatches:     64,
		MaxLimit:       100,
		WeightWin:      defaultWeightWin,
		WeightClose:    defaultWeightClose,
		WeightPlayer:   defaultWeightPlayer,
		WeightStrategy: defaultWeightStrategy,
	}
}

// Weights returns the configured default weight set.
func (c *Config) Weights() model.Weights {
	return model.Weights{
		Win:      c.WeightWin,
		Close:    c.WeightClose,
		Player:   c.WeightPlayer,
		Strategy: c.WeightStrategy,
	}
}
