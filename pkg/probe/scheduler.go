package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultTimeout bounds a single poll when no timeout option is given.
const DefaultTimeout = 10 * time.Second

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger used for poll failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// WithTimeout bounds each poll. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Scheduler) { s.timeout = d }
}

// Scheduler drives every registered probe in its own goroutine and writes
// results into a Sink. Each probe sleeps for its interval after a poll
// completes, so polls of the same probe never overlap.
type Scheduler struct {
	registry *Registry
	sink     Sink
	logger   *slog.Logger
	timeout  time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// NewScheduler creates a scheduler for the probes in r.
func NewScheduler(r *Registry, sink Sink, opts ...Option) *Scheduler {
	s := &Scheduler{
		registry: r,
		sink:     sink,
		logger:   slog.Default(),
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches one goroutine per registered probe. A probe that was
// primed less than one interval ago waits out the remainder before its
// first scheduled poll; every other probe polls immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("scheduler already running")
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	for _, p := range s.registry.probes() {
		s.wg.Add(1)
		go s.loop(ctx, p)
	}
	return nil
}

// Stop cancels all probe loops and waits for in-flight polls to return.
// It is safe to call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	s.wg.Wait()
}

// Run starts the scheduler and blocks until ctx is cancelled, then stops
// every loop before returning ctx.Err().
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return ctx.Err()
}

// RunOnce polls the named probe synchronously and applies its report.
func (s *Scheduler) RunOnce(ctx context.Context, name string) (Report, error) {
	p, ok := s.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return s.runProbe(ctx, p)
}

// Prime polls the named probes concurrently, once each, and returns when
// all of them have finished or ctx is done. Probe failures are logged, not
// returned; only unknown names are errors.
func (s *Scheduler) Prime(ctx context.Context, names ...string) error {
	probes := make([]Probe, 0, len(names))
	for _, name := range names {
		p, ok := s.registry.Get(name)
		if !ok {
			return fmt.Errorf("prime: %w: %s", ErrNotFound, name)
		}
		probes = append(probes, p)
	}

	var g errgroup.Group
	for _, p := range probes {
		g.Go(func() error {
			s.runProbe(ctx, p) //nolint:errcheck // logged in runProbe
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		g.Wait() //nolint:errcheck // goroutines always return nil
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) loop(ctx context.Context, p Probe) {
	defer s.wg.Done()

	timer := time.NewTimer(s.initialDelay(p))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		s.runProbe(ctx, p) //nolint:errcheck // logged in runProbe
		timer.Reset(p.Interval())
	}
}

func (s *Scheduler) initialDelay(p Probe) time.Duration {
	st, ok := s.registry.Status(p.Name())
	if !ok || st.LastRun.IsZero() {
		return 0
	}
	remaining := p.Interval() - time.Since(st.LastRun)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// runProbe performs one bounded poll, applies the report to the sink and
// records the outcome in the registry.
func (s *Scheduler) runProbe(ctx context.Context, p Probe) (Report, error) {
	name := p.Name()

	pctx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		pctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	report, err := safePoll(pctx, p)
	latency := time.Since(start)

	// Shutting down: discard whatever the interrupted poll produced.
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	failure := err
	if err != nil {
		s.logger.Error("probe poll failed", "probe", name, "error", err, "latency", latency)
	} else {
		for field, r := range report {
			if !s.sink.Set(field, r.Value()) {
				s.logger.Warn("probe reported unknown field", "probe", name, "field", field)
				continue
			}
			if r.Kind == Failure {
				s.logger.Debug("probe field fell back", "probe", name, "field", field, "fallback", r.Fallback, "error", r.Err)
				if failure == nil {
					failure = r.Err
					if failure == nil {
						failure = fmt.Errorf("%s: %s unavailable", name, field)
					}
				}
			}
		}
	}

	s.registry.record(name, func(st *Status) {
		st.LastRun = time.Now()
		st.RunCount++
		st.LastLatency = latency
		if failure != nil {
			st.Healthy = false
			st.LastError = failure
			st.ErrorCount++
		} else {
			st.Healthy = true
			st.LastError = nil
		}
	})

	return report, err
}

func safePoll(ctx context.Context, p Probe) (report Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			report = nil
			err = fmt.Errorf("probe %s panicked: %v", p.Name(), r)
		}
	}()
	return p.Poll(ctx)
}
