package probes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/kitty-panel/pkg/probe"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/state"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/sysexec"
)

// Camera reports which processes hold a video device open.
type Camera struct {
	run       sysexec.Runner
	namer     ProcessNamer
	deviceDir string
	interval  time.Duration
}

// NewCamera creates the camera probe scanning deviceDir for video* nodes.
func NewCamera(run sysexec.Runner, namer ProcessNamer, deviceDir string, interval time.Duration) *Camera {
	return &Camera{run: run, namer: namer, deviceDir: deviceDir, interval: interval}
}

func (c *Camera) Name() string { return state.FieldCamera }
func (c *Camera) Interval() time.Duration { return c.interval }

func (c *Camera) Poll(ctx context.Context) (probe.Report, error) {
	return probe.Single(state.FieldCamera, c.check(ctx)), nil
}

func (c *Camera) check(ctx context.Context) probe.Result {
	devices, err := VideoDevices(c.deviceDir)
	if err != nil {
		return probe.Fail("Error", err)
	}

	var pids []int32
	for _, dev := range devices {
		out, err := c.run.Run(ctx, "fuser", dev)
		if err != nil {
			if ctx.Err() != nil {
				return probe.Fail("Error", ctx.Err())
			}
			if sysexec.ExitCode(err) == noMatchExit {
				continue
			}
			return probe.Fail("Error", err)
		}
		pids = append(pids, ParsePIDs(out)...)
	}
	if len(pids) == 0 {
		return probe.None()
	}

	apps := names(ctx, c.namer, uniquePIDs(pids), "unknown")
	return probe.Text(strings.Join(apps, joinSep))
}

// VideoDevices lists the video* entries of dir as full paths, sorted.
func VideoDevices(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list video devices: %w", err)
	}
	var devices []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "video") {
			devices = append(devices, filepath.Join(dir, e.Name()))
		}
	}
	return devices, nil
}

func uniquePIDs(pids []int32) []int32 {
	seen := make(map[int32]bool, len(pids))
	out := pids[:0:0]
	for _, pid := range pids {
		if !seen[pid] {
			seen[pid] = true
			out = append(out, pid)
		}
	}
	return out
}
