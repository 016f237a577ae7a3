// Package panel wires configuration, probes, the scheduler and a renderer
// into the long-running dashboard process.
package panel

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/kitty-panel/pkg/components"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/config"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/logo"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/probe"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/probes"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/render"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/state"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/terminal"
)

// Mode selects the renderer.
type Mode string

const (
	ModePanel Mode = "panel"
	ModeBar   Mode = "bar"
)

// healthEvery is how often a running instance rewrites its health file.
const healthEvery = 5 * time.Second

// Options configures Run.
type Options struct {
	Mode Mode
	// ConfigPath is watched for screen-share allowlist changes. Empty
	// disables the watch.
	ConfigPath string
	Out        io.Writer
	Logger     *slog.Logger
	Deps       Deps
	// Logo replaces the drawer selected by display.logo.
	Logo  logo.Drawer
	Width func() int
	Now   func() time.Time
	// PIDFile and HealthFile are skipped when empty.
	PIDFile    string
	HealthFile string
}

// NewState returns the dashboard state for a probe set: every field
// pending, the palette white, and fields of disabled probes inactive.
func NewState(b *Built) *state.State {
	st := state.New(state.Fields...)
	white := components.DefaultAccent
	st.Set(state.FieldColors, state.List(white, white, white))
	for _, f := range b.Disabled {
		if f != state.FieldColors {
			st.Set(f, state.Inactive())
		}
	}
	return st
}

// Run drives the dashboard until ctx is cancelled, then restores the
// cursor and returns nil. Errors are returned only for startup failures.
func Run(ctx context.Context, cfg *config.Config, opts Options) error {
	if opts.Mode == "" {
		opts.Mode = ModePanel
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Width == nil {
		opts.Width = terminal.Width
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger.With("mode", opts.Mode)

	if opts.PIDFile != "" {
		if err := AcquirePID(opts.PIDFile); err != nil {
			return fmt.Errorf("%s: %w", opts.Mode, err)
		}
		defer func() {
			if err := ReleasePID(opts.PIDFile); err != nil {
				logger.Warn("release PID file", "error", err)
			}
		}()
	}

	lg := render.NewLipgloss(opts.Out, cfg.Display.ColorProfile)
	deps := opts.Deps
	deps.Today = probes.TodayStyle(lg)
	deps.Logger = logger
	built, err := Build(cfg, deps)
	if err != nil {
		return err
	}
	st := NewState(built)

	r, err := newRenderer(cfg, opts, lg)
	if err != nil {
		return err
	}

	if f, ok := opts.Out.(*os.File); ok && terminal.IsTerminal(f) {
		terminal.HideCursor(f)
		defer terminal.ShowCursor(f)
	}

	sched := probe.NewScheduler(built.Registry, st,
		probe.WithLogger(logger),
		probe.WithTimeout(cfg.General.ProbeTimeout.Duration),
	)
	prime(ctx, sched, built.Registry, cfg.Panel, logger)

	if built.Battery != nil {
		defer built.Battery.Wait()
	}
	schedDone := make(chan error, 1)
	go func() { schedDone <- sched.Run(ctx) }()
	defer func() { <-schedDone }()

	if opts.ConfigPath != "" && built.Media != nil {
		go func() {
			err := config.Watch(ctx, opts.ConfigPath, logger, func(c *config.Config) {
				built.Media.SetScreenShareMatch(c.Probes.Media.ScreenShareMatch)
				logger.Info("screen-share allowlist reloaded", "entries", len(built.Media.ScreenShareMatch()))
			})
			if err != nil {
				logger.Warn("config watch stopped", "error", err)
			}
		}()
	}

	started := opts.Now()
	var lastHealth time.Time
	frame := func() {
		now := opts.Now()
		if err := r.Render(ctx, opts.Out, st.Snapshot(), now); err != nil {
			logger.Warn("render failed", "error", err)
		}
		if opts.HealthFile != "" && now.Sub(lastHealth) >= healthEvery {
			h := &Health{
				PID:     os.Getpid(),
				Mode:    opts.Mode,
				Started: started,
				Updated: now,
				Probes:  NewProbeHealth(built.Registry.AllStatus()),
			}
			if err := WriteHealth(opts.HealthFile, h); err != nil {
				logger.Warn("write health file", "error", err)
			}
			lastHealth = now
		}
	}

	logger.Info("started", "probes", built.Registry.List(), "refresh", cfg.Display.Refresh.Duration)
	frame()
	ticker := time.NewTicker(cfg.Display.Refresh.Duration)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return nil
		case <-ticker.C:
			frame()
		}
	}
}

// prime runs the startup-critical probes once before the first frame.
// Probes that are disabled are skipped; a timeout only costs a few pending
// fields.
func prime(ctx context.Context, sched *probe.Scheduler, reg *probe.Registry, pc config.PanelConfig, logger *slog.Logger) {
	var names []string
	for _, n := range pc.Prime {
		if _, ok := reg.Get(n); ok {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return
	}

	pctx, cancel := context.WithTimeout(ctx, pc.PrimeTimeout.Duration)
	defer cancel()
	start := time.Now()
	if err := sched.Prime(pctx, names...); err != nil {
		logger.Warn("startup probes incomplete", "probes", names, "error", err)
		return
	}
	logger.Debug("startup probes done", "probes", names, "took", time.Since(start))
}

func newRenderer(cfg *config.Config, opts Options, lg *lipgloss.Renderer) (render.Renderer, error) {
	switch opts.Mode {
	case ModeBar:
		return render.NewBar(lg, cfg.Display.BarWidth), nil
	case ModePanel:
		drawer := opts.Logo
		if drawer == nil {
			d, err := logo.New(cfg.Display.Logo.Backend, logo.Options{
				Size:   cfg.Display.Logo.Size,
				Logger: opts.Logger,
			})
			if err != nil {
				return nil, err
			}
			drawer = d
		}
		return render.NewPanel(lg, render.PanelOptions{
			Width:  opts.Width,
			Logo:   drawer,
			Logger: opts.Logger,
		}), nil
	default:
		return nil, fmt.Errorf("unknown mode %q", opts.Mode)
	}
}
