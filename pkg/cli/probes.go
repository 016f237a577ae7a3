package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"gitlab.com/tinyland/lab/kitty-panel/pkg/components"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/config"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/panel"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/probe"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/state"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/sysexec"
)

// maxValueWidth caps the value column of the probes table.
const maxValueWidth = 60

// ProbeRow is one line of the probes table.
type ProbeRow struct {
	Name     string
	Interval time.Duration
	Status   string
	Latency  time.Duration
	Value    string
}

func newProbesCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "probes [name...]",
		Short: "Poll enabled probes once and print the results",
		Long: `Poll every enabled probe once, concurrently, and print a table of
outcomes and values. Given probe names, only those are polled, one after
another.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.loadConfig()
			if err != nil {
				return err
			}
			rows, err := PollAll(commandContext(cmd), cfg, panel.Deps{
				Runner: sysexec.New(),
				Logger: g.stderrLogger(cmd.ErrOrStderr()),
			}, args...)
			if err != nil {
				return err
			}

			table := newTable(cmd.OutOrStdout(), "PROBE", "INTERVAL", "STATUS", "LATENCY", "VALUE")
			for _, r := range rows {
				table.Append([]string{
					r.Name,
					r.Interval.String(),
					r.Status,
					r.Latency.Round(time.Millisecond).String(),
					r.Value,
				})
			}
			table.Render()
			return nil
		},
	}
}

// PollAll runs enabled probes once and reports each probe's outcome and the
// values it wrote. With no names every probe runs concurrently; otherwise
// the named probes run in order and an unknown or disabled name is an
// error. Battery warnings are not sent.
func PollAll(ctx context.Context, cfg *config.Config, deps panel.Deps, names ...string) ([]ProbeRow, error) {
	deps.Notifier = nil
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	deps.Today = lipgloss.NewStyle()
	built, err := panel.Build(cfg, deps)
	if err != nil {
		return nil, err
	}
	st := panel.NewState(built)

	sched := probe.NewScheduler(built.Registry, st,
		probe.WithLogger(deps.Logger),
		probe.WithTimeout(cfg.General.ProbeTimeout.Duration),
	)
	if len(names) == 0 {
		names = built.Registry.List()
		if err := sched.Prime(ctx, names...); err != nil {
			return nil, err
		}
	} else {
		for _, name := range names {
			// Poll failures show up in the row status.
			if _, err := sched.RunOnce(ctx, name); errors.Is(err, probe.ErrNotFound) {
				return nil, fmt.Errorf("probe %q is unknown or disabled", name)
			}
		}
	}

	snap := st.Snapshot()
	rows := make([]ProbeRow, 0, len(names))
	for _, name := range names {
		s, _ := built.Registry.Status(name)
		p, _ := built.Registry.Get(name)
		rows = append(rows, ProbeRow{
			Name:     s.Name,
			Interval: p.Interval(),
			Status:   probeStatus(s),
			Latency:  s.LastLatency,
			Value:    fieldValues(snap, panel.Fields(s.Name)),
		})
	}
	return rows, nil
}

func probeStatus(s probe.Status) string {
	switch {
	case s.RunCount == 0:
		return "not run"
	case s.Healthy:
		return "ok"
	case s.LastError != nil:
		return "failed: " + s.LastError.Error()
	default:
		return "failed"
	}
}

// fieldValues flattens the values of fields onto one line.
func fieldValues(snap state.Snapshot, fields []string) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		v := snap.Get(f)
		text := v.Display("-")
		if len(v.List) > 0 {
			text = strings.Join(v.List, " ")
		}
		text = strings.Join(strings.Fields(text), " ")
		if len(fields) > 1 {
			text = f + "=" + text
		}
		parts = append(parts, text)
	}
	return components.Truncate(strings.Join(parts, " "), maxValueWidth)
}
