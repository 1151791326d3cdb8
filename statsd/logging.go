package statsd

import "go.uber.org/zap"

// logger backs the async sender's diagnostics hook. Transport failures inside
// the worker are never surfaced to the submitter (see §7 of the design), so
// this is the only way they become observable by default.
var logger = zap.NewNop()

// SetLogger replaces the package-level diagnostics logger. Passing nil is a
// no-op; callers that want silence again can pass zap.NewNop() explicitly.
func SetLogger(l *zap.Logger) {
	if l != nil {
		logger = l
	}
}

func logAsyncSendFailure(err error) {
	logger.Warn("statsd: async transport send failed", zap.Error(err))
}
