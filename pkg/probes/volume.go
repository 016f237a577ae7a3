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

var percentRe = regexp.MustCompile(`\d+%`)

// Volume reports the default sink volume.
type Volume struct {
	run      sysexec.Runner
	interval time.Duration
}

// NewVolume creates the volume probe.
func NewVolume(run sysexec.Runner, interval time.Duration) *Volume {
	return &Volume{run: run, interval: interval}
}

func (v *Volume) Name() string { return state.FieldVolume }
func (v *Volume) Interval() time.Duration { return v.interval }

func (v *Volume) Poll(ctx context.Context) (probe.Report, error) {
	out, err := v.run.Run(ctx, "pactl", "get-sink-volume", "@DEFAULT_SINK@")
	if err != nil {
		return probe.Single(state.FieldVolume, probe.Fail("N/A", err)), nil
	}
	vol, ok := ParseVolume(out)
	if !ok {
		return probe.Single(state.FieldVolume, probe.Fail("N/A", errors.New("volume: no percentage"))), nil
	}
	return probe.Single(state.FieldVolume, probe.Text(vol)), nil
}

// ParseVolume returns the first NN% token of pactl output.
func ParseVolume(out string) (string, bool) {
	m := percentRe.FindString(out)
	return m, m != ""
}
