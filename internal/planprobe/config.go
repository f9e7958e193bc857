// Package planprobe exercises a running scheduler instance end to end:
// it previews a plan twice to confirm determinism, submits it
// asynchronously, and polls the stored record until it completes.
package planprobe

import "time"

// Defaults for probe configuration.
const (
	DefaultItems       = 5
	DefaultRangeDays   = 14
	DefaultTimeout     = 10 * time.Second
	DefaultPollBudget  = 30 * time.Second
	DefaultPollBackoff = 200 * time.Millisecond
)

// Config controls one probe run.
type Config struct {
	// BaseURL of the service under probe, e.g. http://localhost:9080.
	BaseURL string

	// Items is the number of auto-allocated items to request.
	Items int

	// RangeDays is the length of the probe's date range starting today.
	RangeDays int

	// Platform selects the posting window table; empty uses the
	// service default.
	Platform string

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// Verbose enables per-step detail output.
	Verbose bool
}

// withDefaults fills zero fields.
func (c Config) withDefaults() Config {
	if c.Items <= 0 {
		c.Items = DefaultItems
	}
	if c.RangeDays <= 0 {
		c.RangeDays = DefaultRangeDays
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}
