package statsd

import "time"

// Transport is the uniform capability every client variant dispatches
// through. A plain Client holds one directly; BatchClient flushes buffered
// frames through one; asyncTransport decorates one to move the write off
// the caller's goroutine. Composition over inheritance: datagram vs stream,
// and sync vs async, vary independently along this one interface.
type Transport interface {
	// Send transmits frame to resolvedAddr ("ip:port"). resolvedAddr is used
	// by the datagram transport on every call (it's connectionless) and by
	// the stream transport only to dial when no connection is open yet.
	Send(frame []byte, resolvedAddr string) error

	// onAddressChange reacts to a host/port change on the owning client's
	// address cache: a no-op for datagram (the socket is destination-
	// agnostic), a disconnect for stream (the next Send reconnects).
	onAddressChange()

	// Close releases this transport's share of its endpoint.
	Close() error

	// cloneSharing returns a new Transport of the same kind that attaches to
	// the same underlying endpoint (if one is already open), for spawning a
	// batch sibling that shares its parent's socket.
	cloneSharing() Transport
}

// disconnecter is implemented by transports that support an explicit,
// caller-triggered reconnect (the stream transport; datagram has nothing to
// reconnect).
type disconnecter interface {
	disconnect() error
}

// waitCloser is implemented by transports that need to drain something
// before a final close completes (the async decorator).
type waitCloser interface {
	CloseWait(wait bool, timeout time.Duration) error
}
