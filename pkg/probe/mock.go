package probe

import (
	"context"
	"sync/atomic"
	"time"
)

// MockProbe is a configurable Probe for tests.
type MockProbe struct {
	name      string
	interval  time.Duration
	report    Report
	err       error
	pollFunc  func(ctx context.Context) (Report, error)
	callCount atomic.Int64
}

// MockOption configures a MockProbe.
type MockOption func(*MockProbe)

// WithReport sets the report returned by Poll.
func WithReport(r Report) MockOption {
	return func(m *MockProbe) { m.report = r }
}

// WithError sets the error returned by Poll.
func WithError(err error) MockOption {
	return func(m *MockProbe) { m.err = err }
}

// WithPollFunc replaces Poll entirely.
func WithPollFunc(fn func(ctx context.Context) (Report, error)) MockOption {
	return func(m *MockProbe) { m.pollFunc = fn }
}

// NewMockProbe creates a mock probe.
func NewMockProbe(name string, interval time.Duration, opts ...MockOption) *MockProbe {
	m := &MockProbe{name: name, interval: interval}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name returns the probe name.
func (m *MockProbe) Name() string { return m.name }

// Interval returns the poll interval.
func (m *MockProbe) Interval() time.Duration { return m.interval }

// Poll returns the configured report or delegates to the poll func.
func (m *MockProbe) Poll(ctx context.Context) (Report, error) {
	m.callCount.Add(1)
	if m.pollFunc != nil {
		return m.pollFunc(ctx)
	}
	return m.report, m.err
}

// CallCount returns how many times Poll has been called.
func (m *MockProbe) CallCount() int64 {
	return m.callCount.Load()
}
