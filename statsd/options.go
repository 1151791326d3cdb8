package statsd

import "time"

// ClientOption configures a Client or BatchClient at construction time.
// Grounded on the functional-options idiom used across the retrieval pack
// (e.g. grafana-tempo's New(cfg, opts ...Option) constructors).
type ClientOption func(*clientConfig)

type clientConfig struct {
	async        bool
	onError      func(error)
	batchSize    int
	closeTimeout time.Duration
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{batchSize: 512}
}

// WithAsync wraps the client's transport with a background send worker
// (§4.7). Submitting goroutines no longer block on network I/O.
func WithAsync() ClientOption {
	return func(c *clientConfig) { c.async = true }
}

// WithErrorHandler overrides how an async worker reports a failed Send. The
// default logs at Warn via the package logger.
func WithErrorHandler(fn func(error)) ClientOption {
	return func(c *clientConfig) { c.onError = fn }
}

// WithBatchSize sets the frame size limit for a BatchClient. Ignored by a
// plain Client.
func WithBatchSize(limit int) ClientOption {
	return func(c *clientConfig) { c.batchSize = limit }
}

// WithCloseTimeout bounds how long Close waits for a still-draining async
// worker before returning regardless.
func WithCloseTimeout(d time.Duration) ClientOption {
	return func(c *clientConfig) { c.closeTimeout = d }
}
