package repository

// storeConfig collects construction-time settings for MemStore.
type storeConfig struct {
	shardCount int
}

// Option applies a configuration option to the MemStore.
type Option func(*storeConfig)

// WithShardCount sets the number of shards. Values < 1 keep the default.
func WithShardCount(n int) Option {
	return func(c *storeConfig) {
		if n >= 1 {
			c.shardCount = n
		}
	}
}
