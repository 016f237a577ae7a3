package probes

import (
	"context"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/kitty-panel/pkg/probe"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/state"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/sysexec"
)

// pgrep and fuser exit 1 when nothing matched.
const noMatchExit = 1

// Location reports whether the geolocation service is running.
type Location struct {
	run      sysexec.Runner
	namer    ProcessNamer
	process  string
	interval time.Duration
}

// NewLocation creates the location probe watching for process.
func NewLocation(run sysexec.Runner, namer ProcessNamer, process string, interval time.Duration) *Location {
	return &Location{run: run, namer: namer, process: process, interval: interval}
}

func (l *Location) Name() string { return state.FieldLocation }
func (l *Location) Interval() time.Duration { return l.interval }

func (l *Location) Poll(ctx context.Context) (probe.Report, error) {
	return probe.Single(state.FieldLocation, l.check(ctx)), nil
}

func (l *Location) check(ctx context.Context) probe.Result {
	out, err := l.run.Run(ctx, "pgrep", "-x", l.process)
	if err != nil {
		if sysexec.ExitCode(err) == noMatchExit {
			return probe.None()
		}
		return probe.Fail("Error", err)
	}
	pids := ParsePIDs(out)
	if len(pids) == 0 {
		return probe.None()
	}
	return probe.Text(strings.Join(names(ctx, l.namer, pids, l.process), joinSep))
}
