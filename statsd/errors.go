package statsd

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Sentinel errors. Use errors.Is to test for these; ResolutionError and
// TransportError wrap an underlying cause but are not sentinels themselves.
var (
	// ErrInvalidArgument is returned when a metric, client, or endpoint
	// argument fails validation. It is never sent over the wire.
	ErrInvalidArgument = errors.New("statsd: invalid argument")

	// ErrClientClosed is returned by an async client's submit path once
	// Close has been called.
	ErrClientClosed = errors.New("statsd: client is closed")

	// ErrEndpointClosed is returned by a shared endpoint once its last
	// attached user has detached and the underlying socket was released.
	ErrEndpointClosed = errors.New("statsd: endpoint is closed")
)

func invalidArgumentf(format string, args ...interface{}) error {
	return pkgerrors.Wrapf(ErrInvalidArgument, format, args...)
}

// ResolutionError reports a failed host-name resolution, surfaced on the
// first send after an address change invalidates the cached address.
type ResolutionError struct {
	Host string
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("statsd: resolve %q: %v", e.Host, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// TransportError reports a failed socket write or connect.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("statsd: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
