// Package probe defines the Probe interface, the result sum type, the
// registry and the scheduler that runs every probe on its own interval.
// Concrete probes live in pkg/probes and are registered at startup.
package probe

import (
	"context"
	"errors"
	"slices"
	"time"

	"gitlab.com/tinyland/lab/kitty-panel/pkg/state"
)

// ErrNotFound is returned when a probe name is not registered.
var ErrNotFound = errors.New("probe not found")

// Probe is one pollable data source.
type Probe interface {
	// Name returns a unique identifier for this probe (e.g., "bluetooth").
	Name() string

	// Interval returns how long the scheduler sleeps between polls.
	Interval() time.Duration

	// Poll performs one cycle and returns a result for every field the
	// probe owns. A non-nil error is a hard dependency failure: the
	// scheduler logs it and leaves the probe's fields untouched this cycle.
	Poll(ctx context.Context) (Report, error)
}

// Kind discriminates a Result.
type Kind uint8

const (
	// Success carries a payload in Text or List.
	Success Kind = iota
	// Empty means the feature is inactive; the field is cleared.
	Empty
	// Failure means the source could not be read; Fallback is displayed.
	Failure
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Empty:
		return "empty"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// Result is the outcome of probing one field.
type Result struct {
	Kind     Kind
	Text     string
	List     []string
	Fallback string
	Err      error
}

// Text returns a Success result with a text payload.
func Text(s string) Result {
	return Result{Kind: Success, Text: s}
}

// List returns a Success result with a list payload.
func List(items ...string) Result {
	return Result{Kind: Success, List: slices.Clone(items)}
}

// None returns an Empty result.
func None() Result {
	return Result{Kind: Empty}
}

// Fail returns a Failure result that displays fallback.
func Fail(fallback string, err error) Result {
	return Result{Kind: Failure, Fallback: fallback, Err: err}
}

// Value converts the result into the state value written for its field.
func (r Result) Value() state.Value {
	switch r.Kind {
	case Empty:
		return state.Inactive()
	case Failure:
		return state.Fallback(r.Fallback)
	default:
		if r.List != nil {
			return state.List(r.List...)
		}
		return state.Text(r.Text)
	}
}

// Report maps a state field to the result probed for it.
type Report map[string]Result

// Single is a Report for a probe that owns one field.
func Single(field string, r Result) Report {
	return Report{field: r}
}

// Sink receives field values. *state.State satisfies it.
type Sink interface {
	Set(field string, v state.Value) bool
}

// Func adapts a poll function into a Probe.
type Func struct {
	name     string
	interval time.Duration
	poll     func(ctx context.Context) (Report, error)
}

// New creates a Probe from a name, an interval and a poll function.
func New(name string, interval time.Duration, poll func(ctx context.Context) (Report, error)) *Func {
	return &Func{name: name, interval: interval, poll: poll}
}

// Name returns the probe name.
func (f *Func) Name() string { return f.name }

// Interval returns the poll interval.
func (f *Func) Interval() time.Duration { return f.interval }

// Poll runs the poll function.
func (f *Func) Poll(ctx context.Context) (Report, error) { return f.poll(ctx) }

// Status tracks the runtime state of a single probe. The scheduler updates
// it after every poll.
type Status struct {
	Name        string
	Healthy     bool
	LastRun     time.Time
	LastError   error
	RunCount    int64
	ErrorCount  int64
	LastLatency time.Duration
}
