package probes

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"gitlab.com/tinyland/lab/kitty-panel/pkg/notify"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/probe"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/state"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/sysexec"
)

const (
	upowerDisplayDevice = "/org/freedesktop/UPower/devices/DisplayDevice"
	lowBatterySummary   = "Battery low"
	notifyTimeout       = 5 * time.Second
)

// BatteryOptions configures the battery probe.
type BatteryOptions struct {
	Interval time.Duration
	// LowThreshold triggers a notification when the level is below it.
	LowThreshold int
	// NotifyCooldown is the minimum gap between two notifications. Zero
	// notifies on every low reading.
	NotifyCooldown time.Duration
	Logger         *slog.Logger
}

// Battery reports the charge level of the UPower display device and warns
// when it runs low.
type Battery struct {
	run    sysexec.Runner
	sender notify.Sender
	opts   BatteryOptions
	now    func() time.Time

	mu           sync.Mutex
	lastNotified time.Time
	inflight     sync.WaitGroup
}

// NewBattery creates the battery probe. sender may be nil to disable
// notifications.
func NewBattery(run sysexec.Runner, sender notify.Sender, opts BatteryOptions) *Battery {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Battery{run: run, sender: sender, opts: opts, now: time.Now}
}

func (b *Battery) Name() string { return state.FieldBattery }
func (b *Battery) Interval() time.Duration { return b.opts.Interval }

func (b *Battery) Poll(ctx context.Context) (probe.Report, error) {
	out, err := b.run.Run(ctx, "upower", "-i", upowerDisplayDevice)
	if err != nil {
		return probe.Single(state.FieldBattery, probe.Fail("N/A", err)), nil
	}
	level, ok := ParseBattery(out)
	if !ok {
		return probe.Single(state.FieldBattery, probe.Fail("N/A", errors.New("battery: no percentage in upower output"))), nil
	}

	if pct, ok := leadingInt(level); ok && pct < b.opts.LowThreshold {
		b.warn()
	}
	return probe.Single(state.FieldBattery, probe.Text(level)), nil
}

// Wait blocks until notifications already started have returned.
func (b *Battery) Wait() {
	b.inflight.Wait()
}

// warn sends the low battery notification without blocking the poll.
func (b *Battery) warn() {
	if b.sender == nil {
		return
	}

	b.mu.Lock()
	now := b.now()
	if b.opts.NotifyCooldown > 0 && !b.lastNotified.IsZero() && now.Sub(b.lastNotified) < b.opts.NotifyCooldown {
		b.mu.Unlock()
		return
	}
	b.lastNotified = now
	b.mu.Unlock()

	b.inflight.Add(1)
	go func() {
		defer b.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := b.sender.Notify(ctx, notify.UrgencyCritical, lowBatterySummary); err != nil {
			b.opts.Logger.Debug("low battery notification failed", "error", err)
		}
	}()
}

// ParseBattery returns the first whitespace-separated token containing '%'.
func ParseBattery(out string) (string, bool) {
	for _, word := range strings.Fields(out) {
		if strings.Contains(word, "%") {
			return word, true
		}
	}
	return "", false
}

// leadingInt parses the decimal digits at the start of s.
func leadingInt(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	return n, err == nil
}
