package statsd

import (
	"math"
	"strconv"
)

// Metric is a single StatsD metric value, ready to be rendered to its wire
// form. Construction validates; Encode is pure.
type Metric interface {
	// Encode renders the metric's wire-format payload, without any framing
	// newline: "<name>:<value>|<kind>[|@<rate>]".
	Encode() string
}

// Counter is a monotonic count, optionally sampled.
type Counter struct {
	name  string
	count int64
	rate  float64
}

func newCounter(name string, count int64, rate float64) (*Counter, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateRate(rate); err != nil {
		return nil, err
	}
	return &Counter{name: name, count: count, rate: rate}, nil
}

// Encode implements Metric.
func (c *Counter) Encode() string {
	return encode(c.name, strconv.FormatInt(c.count, 10), "c", c.rate)
}

// Timer is a duration in milliseconds; the value must be non-negative.
type Timer struct {
	name         string
	milliseconds float64
	rate         float64
}

func newTimer(name string, milliseconds, rate float64) (*Timer, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if milliseconds < 0 {
		return nil, invalidArgumentf("timer %q: milliseconds must be non-negative, got %v", name, milliseconds)
	}
	if err := validateRate(rate); err != nil {
		return nil, err
	}
	return &Timer{name: name, milliseconds: milliseconds, rate: rate}, nil
}

// Encode implements Metric.
func (t *Timer) Encode() string {
	return encode(t.name, formatFloat(t.milliseconds), "ms", t.rate)
}

// Gauge is an absolute, non-negative instantaneous value.
type Gauge struct {
	name  string
	value float64
	rate  float64
}

func newGauge(name string, value, rate float64) (*Gauge, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if value < 0 {
		return nil, invalidArgumentf("gauge %q: value must be non-negative, got %v", name, value)
	}
	if err := validateRate(rate); err != nil {
		return nil, err
	}
	return &Gauge{name: name, value: value, rate: rate}, nil
}

// Encode implements Metric.
func (g *Gauge) Encode() string {
	return encode(g.name, formatFloat(g.value), "g", g.rate)
}

// GaugeDelta is a signed adjustment to a previously-set gauge. It always
// renders with an explicit leading sign.
type GaugeDelta struct {
	name  string
	delta float64
	rate  float64
}

func newGaugeDelta(name string, delta, rate float64) (*GaugeDelta, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateRate(rate); err != nil {
		return nil, err
	}
	return &GaugeDelta{name: name, delta: delta, rate: rate}, nil
}

// Encode implements Metric.
func (g *GaugeDelta) Encode() string {
	sign := "+"
	if g.delta < 0 {
		sign = "-"
	}
	magnitude := formatFloat(math.Abs(g.delta))
	return encode(g.name, sign+magnitude, "g", g.rate)
}

// Set carries a value whose server-side cardinality is tallied; the client
// treats the value as an opaque, already-stringified token.
type Set struct {
	name  string
	value string
	rate  float64
}

func newSet(name, value string, rate float64) (*Set, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateRate(rate); err != nil {
		return nil, err
	}
	return &Set{name: name, value: value, rate: rate}, nil
}

// Encode implements Metric.
func (s *Set) Encode() string {
	return encode(s.name, s.value, "s", s.rate)
}

func encode(name, value, kind string, rate float64) string {
	s := name + ":" + value + "|" + kind
	if rate != 1 {
		s += "|@" + formatFloat(rate)
	}
	return s
}

// formatFloat renders v in a locale-independent minimal decimal form: no
// trailing zeros beyond significance, and no decimal point for integral
// values (1.0 -> "1").
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func validateName(name string) error {
	if name == "" {
		return invalidArgumentf("metric name must not be empty")
	}
	return nil
}

// validateRate enforces the strict, construction-time rule: a bare Metric
// requires a positive sample rate. The separate submission-time gate
// (shouldSend) is more permissive by design — see shouldSend's doc comment.
func validateRate(rate float64) error {
	if rate <= 0 {
		return invalidArgumentf("sample rate must be positive, got %v", rate)
	}
	return nil
}
