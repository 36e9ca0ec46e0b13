package asyncpipe

import "go.uber.org/zap"

// Option configures a pipe created by Pipe or Duplex.
type Option func(*config)

type config struct {
	capacity int
	logger   *zap.Logger
	metrics  *Metrics
}

func newConfig(opts []Option) config {
	cfg := config{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithCapacity bounds the shared buffer to size bytes. Writers block while
// the buffer is full. A size of zero or less keeps the buffer unbounded,
// which is the default.
func WithCapacity(size int) Option {
	return func(c *config) {
		c.capacity = size
	}
}

// WithLogger sets the logger used for lifecycle events. A nil logger
// disables logging.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger == nil {
			logger = zap.NewNop()
		}
		c.logger = logger
	}
}

// WithMetrics records pipe activity into m.
func WithMetrics(m *Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}
