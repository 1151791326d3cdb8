package statsd

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingTransport records every frame handed to Send, in order, under a
// mutex, standing in for a real endpoint in unit tests.
type recordingTransport struct {
	mu     sync.Mutex
	frames []string
	fail   bool
}

func (r *recordingTransport) Send(frame []byte, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errSendFailed
	}
	r.frames = append(r.frames, string(frame))
	return nil
}

func (r *recordingTransport) onAddressChange()      {}
func (r *recordingTransport) Close() error           { return nil }
func (r *recordingTransport) cloneSharing() Transport { return &recordingTransport{} }

func (r *recordingTransport) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.frames))
	copy(out, r.frames)
	return out
}

type boomErr struct{}

func (boomErr) Error() string { return "boom" }

var errSendFailed = &TransportError{Op: "send", Err: boomErr{}}

func TestAsyncTransportPreservesOrder(t *testing.T) {
	inner := &recordingTransport{}
	at := newAsyncTransport(inner, nil)

	var want []string
	for i := 0; i < 50; i++ {
		frame := []byte{byte('a' + i%26)}
		want = append(want, string(frame))
		require.NoError(t, at.Send(frame, "x"))
	}
	require.NoError(t, at.CloseWait(true, time.Second))
	assert.Equal(t, want, inner.snapshot())
}

func TestAsyncTransportReportsFailure(t *testing.T) {
	inner := &recordingTransport{fail: true}
	var gotErr error
	var mu sync.Mutex
	at := newAsyncTransport(inner, func(err error) {
		mu.Lock()
		gotErr = err
		mu.Unlock()
	})

	require.NoError(t, at.Send([]byte("x"), "x"))
	require.NoError(t, at.CloseWait(true, time.Second))

	mu.Lock()
	defer mu.Unlock()
	assert.Error(t, gotErr)
}

func TestAsyncTransportRejectsSendAfterClose(t *testing.T) {
	inner := &recordingTransport{}
	at := newAsyncTransport(inner, nil)
	require.NoError(t, at.CloseWait(true, time.Second))

	err := at.Send([]byte("x"), "x")
	assert.ErrorIs(t, err, ErrClientClosed)
}

func TestAsyncTransportCloseWithoutWaitReturns(t *testing.T) {
	inner := &recordingTransport{}
	at := newAsyncTransport(inner, nil)
	// a zero/negative timeout with wait=false never blocks.
	require.NoError(t, at.CloseWait(false, 0))
}
