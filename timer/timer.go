// Package timer provides wall-clock timing helpers layered on top of a
// statsd client's Timing method. Grounded on
// statsdmetrics/client/timer.py's Timer/ClientWrapper.
package timer

import "time"

// Sender is satisfied by *statsd.Client and *statsd.BatchClient: anything
// that can submit a timer metric in milliseconds at a sample rate.
type Sender interface {
	Timing(name string, milliseconds float64, rate float64) error
}

// Timer wraps a Sender with elapsed-time convenience methods. The wrapped
// Sender can be swapped out with Rebind, mirroring ClientWrapper's settable
// client property.
type Timer struct {
	sender Sender
}

// New wraps sender for timing use.
func New(sender Sender) *Timer {
	return &Timer{sender: sender}
}

// Rebind swaps the Sender a Timer submits through.
func (t *Timer) Rebind(sender Sender) {
	t.sender = sender
}

// Since sends a timer metric measuring the elapsed time from start to now,
// gated by rate.
func (t *Timer) Since(name string, start time.Time, rate float64) error {
	return t.sender.Timing(name, float64(time.Since(start))/float64(time.Millisecond), rate)
}

// Time runs fn and sends a timer metric for its duration, gated by rate.
func (t *Timer) Time(name string, rate float64, fn func()) error {
	start := time.Now()
	fn()
	return t.Since(name, start, rate)
}

// Call runs fn, sends a timer metric for its duration, and returns fn's
// result alongside any submission error. The generic counterpart to
// time_callable, which in Python has no return-type to preserve.
func Call[T any](t *Timer, name string, rate float64, fn func() T) (T, error) {
	start := time.Now()
	result := fn()
	err := t.Since(name, start, rate)
	return result, err
}

// Stopwatch is a single in-flight measurement started by Start, sent to
// statsd on Stop.
type Stopwatch struct {
	timer *Timer
	name  string
	rate  float64
	start time.Time
}

// Start begins a stopwatch that Stop will report under name at rate.
func (t *Timer) Start(name string, rate float64) *Stopwatch {
	return &Stopwatch{timer: t, name: name, rate: rate, start: time.Now()}
}

// Stop sends the elapsed time since Start as a timer metric.
func (s *Stopwatch) Stop() error {
	return s.timer.Since(s.name, s.start, s.rate)
}
