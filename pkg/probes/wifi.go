package probes

import (
	"context"
	"errors"
	"regexp"
	"time"

	"gitlab.com/tinyland/lab/kitty-panel/pkg/probe"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/state"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/sysexec"
)

var essidRe = regexp.MustCompile(`ESSID:"([^"]+)"`)

// Wifi reports the SSID of the configured wireless interface.
type Wifi struct {
	run      sysexec.Runner
	iface    string
	interval time.Duration
}

// NewWifi creates the wifi probe for iface.
func NewWifi(run sysexec.Runner, iface string, interval time.Duration) *Wifi {
	return &Wifi{run: run, iface: iface, interval: interval}
}

func (w *Wifi) Name() string { return state.FieldWifi }
func (w *Wifi) Interval() time.Duration { return w.interval }

func (w *Wifi) Poll(ctx context.Context) (probe.Report, error) {
	out, err := w.run.Run(ctx, "iwconfig", w.iface)
	if err != nil {
		return probe.Single(state.FieldWifi, probe.Fail("N/A", err)), nil
	}
	ssid, ok := ParseESSID(out)
	if !ok {
		return probe.Single(state.FieldWifi, probe.Fail("N/A", errors.New("wifi: no ESSID"))), nil
	}
	return probe.Single(state.FieldWifi, probe.Text(ssid)), nil
}

// ParseESSID returns the quoted ESSID from iwconfig output.
func ParseESSID(out string) (string, bool) {
	m := essidRe.FindStringSubmatch(out)
	if m == nil {
		return "", false
	}
	return m[1], true
}
