package statsd

import (
	"math/rand"
	"time"
)

// Client sends one metric per call directly through its transport. It is
// the composition root for the three orthogonal axes this package models:
// transport kind (datagram/stream), dispatch mode (sync/async), and
// buffering discipline (none here; BatchClient adds it). Grounded on
// oveddan-go-statsd-client's Client, generalized from its UDP-only,
// sync-only shape to cover all three axes via the Transport interface.
type Client struct {
	addr      *addressCache
	transport Transport
	prefix    string
	cfg       *clientConfig
}

// NewClient returns a Client that sends each metric as its own UDP
// datagram to host:port.
func NewClient(host string, port int, prefix string, opts ...ClientOption) (*Client, error) {
	return newClient(host, port, prefix, &datagramTransport{}, opts...)
}

// NewStreamClient returns a Client that sends each metric over a single
// persistent TCP connection to host:port.
func NewStreamClient(host string, port int, prefix string, opts ...ClientOption) (*Client, error) {
	return newClient(host, port, prefix, &streamTransport{}, opts...)
}

func newClient(host string, port int, prefix string, base Transport, opts ...ClientOption) (*Client, error) {
	addr, err := newAddressCache(host, port)
	if err != nil {
		return nil, err
	}
	cfg := defaultClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	var transport Transport = base
	if cfg.async {
		transport = newAsyncTransport(transport, cfg.onError)
	}
	return &Client{addr: addr, transport: transport, prefix: prefix, cfg: cfg}, nil
}

func (c *Client) Host() string { return c.addr.getHost() }
func (c *Client) Port() int    { return c.addr.getPort() }

// SetHost repoints the client at a new host. The stream transport
// disconnects so the next send dials the new destination; the datagram
// transport needs no such reset.
func (c *Client) SetHost(host string) {
	c.addr.setHost(host)
	c.transport.onAddressChange()
}

// SetPort repoints the client at a new port.
func (c *Client) SetPort(port int) error {
	if err := c.addr.setPort(port); err != nil {
		return err
	}
	c.transport.onAddressChange()
	return nil
}

// Reconnect forces the stream transport to drop its current connection; the
// next metric sent dials again. A no-op for a datagram client. Supplements
// the distilled spec with statsdmetrics/client/tcp.py's TCPClientMixIn's
// explicit reconnect affordance.
func (c *Client) Reconnect() error {
	transport := c.transport
	if at, ok := transport.(*asyncTransport); ok {
		transport = at.inner
	}
	if d, ok := transport.(disconnecter); ok {
		return d.disconnect()
	}
	return nil
}

func (c *Client) send(m Metric) error {
	addr, err := c.addr.resolve()
	if err != nil {
		return err
	}
	return c.transport.Send([]byte(m.Encode()), addr)
}

// shouldSend implements the sample-rate gate: always at rate >= 1, fails
// closed (never sends) at rate <= 0, otherwise sends with probability rate.
func shouldSend(rate float64) bool {
	if rate >= 1 {
		return true
	}
	if rate <= 0 {
		return false
	}
	return rand.Float64() <= rate
}

func (c *Client) name(name string) string {
	return c.prefix + Normalize(name)
}

// Increment sends a counter of +1 at rate 1.
func (c *Client) Increment(name string) error {
	return c.Count(name, 1, 1)
}

// Decrement sends a counter of -1 at rate 1.
func (c *Client) Decrement(name string) error {
	return c.Count(name, -1, 1)
}

// Count sends a counter metric, gated by rate.
func (c *Client) Count(name string, count int64, rate float64) error {
	if !shouldSend(rate) {
		return nil
	}
	m, err := newCounter(c.name(name), count, clampRate(rate))
	if err != nil {
		return err
	}
	return c.send(m)
}

// Timing sends a timer metric in milliseconds, gated by rate.
func (c *Client) Timing(name string, milliseconds float64, rate float64) error {
	if !shouldSend(rate) {
		return nil
	}
	m, err := newTimer(c.name(name), milliseconds, clampRate(rate))
	if err != nil {
		return err
	}
	return c.send(m)
}

// TimingDuration is Timing with a time.Duration instead of a raw float.
func (c *Client) TimingDuration(name string, d time.Duration, rate float64) error {
	return c.Timing(name, float64(d)/float64(time.Millisecond), rate)
}

// Gauge sends an absolute gauge value, gated by rate.
func (c *Client) Gauge(name string, value float64, rate float64) error {
	if !shouldSend(rate) {
		return nil
	}
	m, err := newGauge(c.name(name), value, clampRate(rate))
	if err != nil {
		return err
	}
	return c.send(m)
}

// GaugeDelta sends a signed adjustment to a gauge, gated by rate.
func (c *Client) GaugeDelta(name string, delta float64, rate float64) error {
	if !shouldSend(rate) {
		return nil
	}
	m, err := newGaugeDelta(c.name(name), delta, clampRate(rate))
	if err != nil {
		return err
	}
	return c.send(m)
}

// Set records a value's membership in a named set, gated by rate.
func (c *Client) Set(name string, value string, rate float64) error {
	if !shouldSend(rate) {
		return nil
	}
	m, err := newSet(c.name(name), value, clampRate(rate))
	if err != nil {
		return err
	}
	return c.send(m)
}

// clampRate maps a rate already accepted by shouldSend's gate (which allows
// rate<=0) onto the value Metric construction requires (rate>0): the gate
// having let a call through at rate<1 means rate>0 held, and rate>=1 calls
// pass 1 unchanged, so no information is lost between the two checks.
func clampRate(rate float64) float64 {
	if rate >= 1 {
		return 1
	}
	return rate
}

// Close releases this client's share of its transport's endpoint. For an
// async client, it waits for the worker to drain when the client was built
// with WithCloseTimeout; otherwise it's a non-blocking close. Use
// CloseTimeout directly to control this per call.
func (c *Client) Close() error {
	if c.cfg.closeTimeout > 0 {
		return c.CloseTimeout(true, c.cfg.closeTimeout)
	}
	return c.transport.Close()
}

// CloseTimeout closes an async client, optionally blocking until its
// worker has drained the queue or timeout elapses (timeout<=0 waits
// unboundedly). A non-async client ignores wait/timeout and closes
// immediately.
func (c *Client) CloseTimeout(wait bool, timeout time.Duration) error {
	if wc, ok := c.transport.(waitCloser); ok {
		return wc.CloseWait(wait, timeout)
	}
	return c.transport.Close()
}

// BatchClient buffers encoded metrics into size-bounded frames and sends
// them as a deliberate act (Flush), rather than one per call. It shares its
// parent Client's transport kind and, where the transport already has an
// open endpoint, the endpoint itself — sibling sockets are not opened.
type BatchClient struct {
	addr      *addressCache
	transport Transport
	prefix    string
	buf       *batchBuffer
}

// BatchClient spawns a batching sibling of c sharing its transport's
// endpoint and address cache values (a snapshot, independently mutable
// afterward). size is the per-frame byte limit; it's the caller's
// responsibility to keep it under the transport's practical packet/frame
// ceiling (for UDP, under the path MTU). A size of 0 uses the client's
// WithBatchSize option (or the package default of 512 if none was given).
func (c *Client) BatchClient(size int) (*BatchClient, error) {
	if size == 0 {
		size = c.cfg.batchSize
	}
	buf, err := newBatchBuffer(size)
	if err != nil {
		return nil, err
	}
	return &BatchClient{
		addr:      c.addr.snapshot(),
		transport: c.transport.cloneSharing(),
		prefix:    c.prefix,
		buf:       buf,
	}, nil
}

func (b *BatchClient) name(name string) string {
	return b.prefix + Normalize(name)
}

func (b *BatchClient) append(m Metric) error {
	line := []byte(m.Encode() + "\n")
	b.buf.append(line)
	return nil
}

func (b *BatchClient) Increment(name string) error { return b.Count(name, 1, 1) }
func (b *BatchClient) Decrement(name string) error { return b.Count(name, -1, 1) }

func (b *BatchClient) Count(name string, count int64, rate float64) error {
	if !shouldSend(rate) {
		return nil
	}
	m, err := newCounter(b.name(name), count, clampRate(rate))
	if err != nil {
		return err
	}
	return b.append(m)
}

func (b *BatchClient) Timing(name string, milliseconds float64, rate float64) error {
	if !shouldSend(rate) {
		return nil
	}
	m, err := newTimer(b.name(name), milliseconds, clampRate(rate))
	if err != nil {
		return err
	}
	return b.append(m)
}

func (b *BatchClient) Gauge(name string, value float64, rate float64) error {
	if !shouldSend(rate) {
		return nil
	}
	m, err := newGauge(b.name(name), value, clampRate(rate))
	if err != nil {
		return err
	}
	return b.append(m)
}

func (b *BatchClient) GaugeDelta(name string, delta float64, rate float64) error {
	if !shouldSend(rate) {
		return nil
	}
	m, err := newGaugeDelta(b.name(name), delta, clampRate(rate))
	if err != nil {
		return err
	}
	return b.append(m)
}

func (b *BatchClient) Set(name string, value string, rate float64) error {
	if !shouldSend(rate) {
		return nil
	}
	m, err := newSet(b.name(name), value, clampRate(rate))
	if err != nil {
		return err
	}
	return b.append(m)
}

// Flush sends every buffered frame, front-to-back, removing each only once
// its Send succeeds — a failure midway leaves the rest buffered for the
// next Flush.
func (b *BatchClient) Flush() error {
	addr, err := b.addr.resolve()
	if err != nil {
		return err
	}
	return b.buf.flush(func(frame []byte) error {
		return b.transport.Send(frame, addr)
	})
}

// Close flushes any buffered frames before releasing this batch client's
// share of its transport's endpoint, per §4.7: close on a batching variant
// flushes first so nothing buffered is silently dropped.
func (b *BatchClient) Close() error {
	flushErr := b.Flush()
	closeErr := b.transport.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// Batch is a scoped-buffer helper on Client: it spawns a BatchClient of the
// given frame size, runs fn against it, and guarantees Flush runs — even if
// fn panics — before the sibling's transport share is released.
func (c *Client) Batch(size int, fn func(*BatchClient) error) (err error) {
	bc, err := c.BatchClient(size)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := bc.Close()
		if err == nil {
			err = closeErr
		}
	}()
	return fn(bc)
}
