// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load(ctx) layers file/env.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// PlanQueueSize bounds the in-memory plan job queue.
	PlanQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of plan-building workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the request deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the number of shards in the plan store.
	ShardCount int `koanf:"shard_count"`

	// MaxRangeDays caps the length of a schedule date range.
	MaxRangeDays int `koanf:"max_range_days"`

	// MaxBatchItems caps the number of items in one plan request.
	MaxBatchItems int `koanf:"max_batch_items"`

	// DefaultPlatform applies when a request omits the platform.
	DefaultPlatform string `koanf:"default_platform"`

	// SeedPrefix is the default seed prefix for time assignment.
	SeedPrefix string `koanf:"seed_prefix"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":9080",
		PlanQueueSize:   10_000,
		WorkerCount:     runtime.NumCPU() * 2,
		DedupeSize:      50_000,
		ShardCount:      8,
		MaxRangeDays:    366,
		MaxBatchItems:   500,
		DefaultPlatform: "instagram",
		SeedPrefix:      "studio",
	}
}
