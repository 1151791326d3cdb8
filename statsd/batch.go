package statsd

// batchBuffer packs encoded metric lines into size-bounded frames for a
// single Send call apiece. Grounded on statsdmetrics/client/tcp.py's
// TCPBatchClientMixIn.batch_data / flush, reimplemented as a plain slice of
// frames rather than a list of BytesIO objects.
type batchBuffer struct {
	limit  int
	frames [][]byte
}

func newBatchBuffer(limit int) (*batchBuffer, error) {
	if limit <= 0 {
		return nil, invalidArgumentf("batch size limit must be positive, got %d", limit)
	}
	return &batchBuffer{limit: limit}, nil
}

// append packs the encoded line p (already carrying its trailing "\n") into
// the buffer:
//   - if p alone is at or over the limit, it gets its own frame regardless
//     of size (a single metric line is never split or dropped)
//   - else if there is no current frame, or appending p would take the
//     current frame to or over the limit, start a fresh frame
//   - otherwise extend the current (last) frame with p
func (b *batchBuffer) append(p []byte) {
	if len(p) >= b.limit {
		frame := make([]byte, len(p))
		copy(frame, p)
		b.frames = append(b.frames, frame)
		return
	}
	if len(b.frames) == 0 || len(b.frames[len(b.frames)-1])+len(p) >= b.limit {
		b.frames = append(b.frames, nil)
	}
	last := len(b.frames) - 1
	b.frames[last] = append(b.frames[last], p...)
}

func (b *batchBuffer) empty() bool {
	return len(b.frames) == 0
}

// flush sends frames front-to-back through send, removing each only after a
// successful send. A failure stops the sweep, leaving the failed frame and
// everything after it buffered for the next flush attempt — nothing is
// dropped or reordered.
func (b *batchBuffer) flush(send func(frame []byte) error) error {
	for len(b.frames) > 0 {
		if err := send(b.frames[0]); err != nil {
			return err
		}
		b.frames = b.frames[1:]
	}
	return nil
}

func (b *batchBuffer) clear() {
	b.frames = nil
}
