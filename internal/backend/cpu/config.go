package cpu

import "github.com/born-ml/devpolicy/internal/parallel"

// defaultLocalSize is the default number of work items per work-group.
const defaultLocalSize = 256

// Config controls the host device.
type Config struct {
	// LocalSize is the work-group size reported as the device maximum.
	LocalSize int

	// MemoryLimitBytes bounds the bytes held by live device buffers.
	// If 0, no limit is enforced.
	MemoryLimitBytes int64

	// Parallel controls how work-groups are spread over goroutines.
	Parallel parallel.Config
}

// DefaultConfig returns a configuration using every CPU with no memory limit.
func DefaultConfig() Config {
	return Config{
		LocalSize: defaultLocalSize,
		Parallel:  parallel.DefaultConfig(),
	}
}

// Option configures a host device queue.
type Option func(*Config)

// WithLocalSize sets the work-group size.
func WithLocalSize(n int) Option {
	return func(c *Config) {
		c.LocalSize = n
	}
}

// WithComputeUnits sets how many work-groups may run at once.
// n <= 1 runs every work-group on the submitting goroutine.
func WithComputeUnits(n int) Option {
	return func(c *Config) {
		c.Parallel.NumWorkers = n
		c.Parallel.Enabled = n > 1
	}
}

// WithMemoryLimit bounds the device memory held by live buffers.
func WithMemoryLimit(bytes int64) Option {
	return func(c *Config) {
		c.MemoryLimitBytes = bytes
	}
}

// WithParallel replaces the work-group fan-out configuration.
func WithParallel(cfg parallel.Config) Option {
	return func(c *Config) {
		c.Parallel = cfg
	}
}
