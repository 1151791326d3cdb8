package statsd

import (
	"net"
	"sync"
)

// datagramTransport sends each frame as one UDP datagram to the resolved
// destination address. Re-addressing never touches the socket: the
// destination is supplied per packet, so the endpoint stays open across a
// host/port change. Grounded on oveddan-go-statsd-client's SimpleSender.
type datagramTransport struct {
	mu sync.Mutex
	ep *endpoint
}

func (t *datagramTransport) getEndpoint() (*endpoint, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ep != nil {
		return t.ep, nil
	}
	ep, err := newDatagramEndpoint()
	if err != nil {
		return nil, err
	}
	ep.attach(t)
	t.ep = ep
	return ep, nil
}

// Send implements Transport. A datagram must fit in a single send; no
// fragmentation is performed by this layer.
func (t *datagramTransport) Send(frame []byte, resolvedAddr string) error {
	ep, err := t.getEndpoint()
	if err != nil {
		return err
	}
	addr, err := net.ResolveUDPAddr("udp", resolvedAddr)
	if err != nil {
		return &ResolutionError{Host: resolvedAddr, Err: err}
	}
	if err := ep.sendDatagram(frame, addr); err != nil {
		return &TransportError{Op: "send", Err: err}
	}
	return nil
}

func (t *datagramTransport) onAddressChange() {
	// the destination is resolved per packet; nothing to invalidate here.
}

func (t *datagramTransport) Close() error {
	t.mu.Lock()
	ep := t.ep
	t.ep = nil
	t.mu.Unlock()
	if ep == nil {
		return nil
	}
	return ep.detach(t)
}

func (t *datagramTransport) cloneSharing() Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	clone := &datagramTransport{}
	if t.ep != nil {
		t.ep.attach(clone)
		clone.ep = t.ep
	}
	return clone
}
