package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"gitlab.com/tinyland/lab/kitty-panel/pkg/panel"
)

func newStatusCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show probe health of the running panel (or bar with --bar)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := g.mode()
			h, err := panel.ReadHealth(panel.RuntimePath(mode, ".json"))
			if err != nil {
				return fmt.Errorf("%s is not running: %w", mode, err)
			}
			return printStatus(cmd, h, time.Now())
		},
	}
}

func printStatus(cmd *cobra.Command, h *panel.Health, now time.Time) error {
	out := cmd.OutOrStdout()
	if !panel.Alive(h.PID) {
		fmt.Fprintf(out, "%s is not running (last PID %d, last update %s)\n", h.Mode, h.PID, h.Updated.Format(time.DateTime))
		return nil
	}
	fmt.Fprintf(out, "%s running as PID %d for %s, updated %s ago\n",
		h.Mode, h.PID, now.Sub(h.Started).Round(time.Second), now.Sub(h.Updated).Round(time.Second))

	table := newTable(out, "PROBE", "HEALTHY", "RUNS", "ERRORS", "LATENCY", "LAST ERROR")
	for _, p := range h.Probes {
		table.Append([]string{
			p.Name,
			strconv.FormatBool(p.Healthy),
			strconv.FormatInt(p.RunCount, 10),
			strconv.FormatInt(p.ErrorCount, 10),
			p.Latency.Round(time.Millisecond).String(),
			p.LastError,
		})
	}
	table.Render()
	return nil
}
