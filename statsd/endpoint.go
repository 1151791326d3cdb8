package statsd

import (
	"net"
	"sync"
)

// endpoint wraps one OS socket (a UDP PacketConn or a TCP Conn) and tracks
// the set of transports currently using it. It is shared by reference: a
// base client and any batch siblings it spawns over the same transport kind
// attach to the same endpoint instance rather than each opening their own
// socket. The last detach closes the socket deterministically — no
// finalizer is relied on. Two independent transport instances (parent and
// sibling) can hold a pointer to the same endpoint while guarding their own
// access with their own mutex, so the endpoint's own user-set and closed
// flag need their own lock — see §5's "users list is mutated under an
// exclusive lock" requirement.
type endpoint struct {
	mu    sync.Mutex
	users map[interface{}]struct{}

	packetConn net.PacketConn // non-nil for a datagram endpoint
	conn       net.Conn       // non-nil for a stream endpoint

	closed bool
}

func newDatagramEndpoint() (*endpoint, error) {
	pc, err := net.ListenPacket("udp", ":0")
	if err != nil {
		return nil, &TransportError{Op: "listen", Err: err}
	}
	return &endpoint{packetConn: pc, users: make(map[interface{}]struct{})}, nil
}

func newStreamEndpoint(addr string) (*endpoint, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, &TransportError{Op: "dial", Err: err}
	}
	return &endpoint{conn: conn, users: make(map[interface{}]struct{})}, nil
}

// attach registers owner as a user of this endpoint.
func (e *endpoint) attach(owner interface{}) {
	e.mu.Lock()
	e.users[owner] = struct{}{}
	e.mu.Unlock()
}

// detach removes owner from the user set (idempotent); once it was the last
// user, the endpoint closes itself and releases the OS socket.
func (e *endpoint) detach(owner interface{}) error {
	e.mu.Lock()
	delete(e.users, owner)
	empty := len(e.users) == 0
	e.mu.Unlock()
	if empty {
		return e.close()
	}
	return nil
}

func (e *endpoint) close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	if e.packetConn != nil {
		return e.packetConn.Close()
	}
	if e.conn != nil {
		return e.conn.Close()
	}
	return nil
}

func (e *endpoint) sendDatagram(b []byte, addr *net.UDPAddr) error {
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return ErrEndpointClosed
	}
	_, err := e.packetConn.(*net.UDPConn).WriteToUDP(b, addr)
	return err
}

func (e *endpoint) sendStream(b []byte) error {
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return ErrEndpointClosed
	}
	_, err := e.conn.Write(b)
	return err
}
