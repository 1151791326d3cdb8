package statsd

import "sync"

// streamTransport sends length-delimited frames terminated by a single "\n"
// over one persistent TCP connection. Re-addressing forces a disconnect
// since the connection is bound to a specific destination; the next Send
// reconnects to the (now current) resolved address. Grounded on
// statsdmetrics/client/tcp.py's TCPClientMixIn.
type streamTransport struct {
	mu sync.Mutex
	ep *endpoint
}

func (t *streamTransport) getEndpoint(resolvedAddr string) (*endpoint, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ep != nil {
		return t.ep, nil
	}
	ep, err := newStreamEndpoint(resolvedAddr)
	if err != nil {
		return nil, err
	}
	ep.attach(t)
	t.ep = ep
	return ep, nil
}

// Send implements Transport. Writes must be atomic with respect to the
// stream: the full bytes of one frame are written before any bytes of the
// next (a single ep.sendStream call does exactly that).
//
// A frame produced by the batching layer already ends in "\n" (every packed
// line carries its own terminator); a frame submitted directly for a single
// metric does not. Rather than unconditionally appending "\n" — which would
// double up the terminator on an already-packed batch frame — this only
// adds one when the frame doesn't already end with one. See DESIGN.md, Open
// Question 2.
func (t *streamTransport) Send(frame []byte, resolvedAddr string) error {
	ep, err := t.getEndpoint(resolvedAddr)
	if err != nil {
		return err
	}
	if len(frame) == 0 || frame[len(frame)-1] != '\n' {
		terminated := make([]byte, len(frame)+1)
		copy(terminated, frame)
		terminated[len(frame)] = '\n'
		frame = terminated
	}
	if err := ep.sendStream(frame); err != nil {
		return &TransportError{Op: "write", Err: err}
	}
	return nil
}

func (t *streamTransport) onAddressChange() {
	_ = t.disconnect()
}

// disconnect detaches from the current endpoint (closing it if this was the
// last user) so the next Send reconnects. Exposed publicly via
// Client.Reconnect.
func (t *streamTransport) disconnect() error {
	t.mu.Lock()
	ep := t.ep
	t.ep = nil
	t.mu.Unlock()
	if ep == nil {
		return nil
	}
	return ep.detach(t)
}

func (t *streamTransport) Close() error {
	return t.disconnect()
}

func (t *streamTransport) cloneSharing() Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	clone := &streamTransport{}
	if t.ep != nil {
		t.ep.attach(clone)
		clone.ep = t.ep
	}
	return clone
}
