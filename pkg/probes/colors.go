package probes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/kitty-panel/pkg/probe"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/state"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/sysexec"
)

// paletteKeys are the kitty color names used as accents 0, 1 and 2.
var paletteKeys = []string{"cursor", "color1", "active_tab_background"}

// Colors reads the accent palette from the running kitty instance.
type Colors struct {
	run      sysexec.Runner
	interval time.Duration
}

// NewColors creates the colors probe.
func NewColors(run sysexec.Runner, interval time.Duration) *Colors {
	return &Colors{run: run, interval: interval}
}

func (c *Colors) Name() string { return state.FieldColors }
func (c *Colors) Interval() time.Duration { return c.interval }

// Poll replaces the palette as a whole. A missing color is a hard error so
// the previous palette stays in place.
func (c *Colors) Poll(ctx context.Context) (probe.Report, error) {
	out, err := c.run.Run(ctx, "kitty", "@", "get-colors")
	if err != nil {
		return nil, fmt.Errorf("read kitty colors: %w", err)
	}
	palette, err := ParsePalette(out)
	if err != nil {
		return nil, err
	}
	return probe.Single(state.FieldColors, probe.List(palette...)), nil
}

// ParsePalette extracts the cursor, color1 and active_tab_background values
// from `kitty @ get-colors` output, in that order.
func ParsePalette(out string) ([]string, error) {
	found := make(map[string]string, len(paletteKeys))
	for _, line := range lines(out) {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if _, dup := found[fields[0]]; dup {
			continue
		}
		found[fields[0]] = fields[1]
	}

	palette := make([]string, 0, len(paletteKeys))
	for _, key := range paletteKeys {
		v, ok := found[key]
		if !ok {
			return nil, fmt.Errorf("kitty colors: %s not set", key)
		}
		palette = append(palette, v)
	}
	return palette, nil
}
