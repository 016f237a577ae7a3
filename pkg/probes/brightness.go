package probes

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"gitlab.com/tinyland/lab/kitty-panel/pkg/probe"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/state"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/sysexec"
)

// Brightness reports the backlight level as a percentage of its maximum.
type Brightness struct {
	run      sysexec.Runner
	interval time.Duration
}

// NewBrightness creates the brightness probe.
func NewBrightness(run sysexec.Runner, interval time.Duration) *Brightness {
	return &Brightness{run: run, interval: interval}
}

func (b *Brightness) Name() string { return state.FieldBrightness }
func (b *Brightness) Interval() time.Duration { return b.interval }

// Poll queries the current and maximum level concurrently.
func (b *Brightness) Poll(ctx context.Context) (probe.Report, error) {
	var cur, peak string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		cur, err = b.run.Run(gctx, "brightnessctl", "g")
		return err
	})
	g.Go(func() (err error) {
		peak, err = b.run.Run(gctx, "brightnessctl", "max")
		return err
	})
	if err := g.Wait(); err != nil {
		return probe.Single(state.FieldBrightness, probe.Fail("N/A", err)), nil
	}

	pct, err := BrightnessPercent(cur, peak)
	if err != nil {
		return probe.Single(state.FieldBrightness, probe.Fail("N/A", err)), nil
	}
	return probe.Single(state.FieldBrightness, probe.Text(strconv.Itoa(pct))), nil
}

// BrightnessPercent returns floor(cur*100/max).
func BrightnessPercent(cur, peak string) (int, error) {
	c, err := strconv.ParseFloat(strings.TrimSpace(cur), 64)
	if err != nil {
		return 0, fmt.Errorf("brightness: current level %q: %w", cur, err)
	}
	m, err := strconv.ParseFloat(strings.TrimSpace(peak), 64)
	if err != nil {
		return 0, fmt.Errorf("brightness: max level %q: %w", peak, err)
	}
	if m <= 0 {
		return 0, fmt.Errorf("brightness: max level %v is not positive", m)
	}
	return int(math.Floor(c * 100 / m)), nil
}
