package probes

import (
	"context"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v4/process"

	"gitlab.com/tinyland/lab/kitty-panel/pkg/sysexec"
)

// ProcessNamer resolves a PID to its command name. It returns "" when the
// name cannot be determined.
type ProcessNamer interface {
	ProcessName(ctx context.Context, pid int32) string
}

// ProcNames reads names from procfs, falling back to ps.
type ProcNames struct {
	run sysexec.Runner
}

// NewProcNames creates a ProcessNamer that uses run for the ps fallback.
func NewProcNames(run sysexec.Runner) *ProcNames {
	return &ProcNames{run: run}
}

func (p *ProcNames) ProcessName(ctx context.Context, pid int32) string {
	if proc, err := process.NewProcessWithContext(ctx, pid); err == nil {
		if name, err := proc.NameWithContext(ctx); err == nil && name != "" {
			return name
		}
	}
	if out, err := p.run.Run(ctx, "ps", "-p", strconv.Itoa(int(pid)), "-o", "comm="); err == nil {
		return out
	}
	return ""
}

// ParsePIDs extracts process IDs from fuser or pgrep output. fuser may
// append access letters to a PID (1234m); those are dropped.
func ParsePIDs(out string) []int32 {
	var pids []int32
	seen := make(map[int32]bool)
	for _, field := range strings.Fields(out) {
		n, ok := leadingInt(field)
		if !ok || n <= 0 {
			continue
		}
		pid := int32(n)
		if seen[pid] {
			continue
		}
		seen[pid] = true
		pids = append(pids, pid)
	}
	return pids
}

// names resolves each PID, substituting fallback for unknown ones, and
// dedupes the result.
func names(ctx context.Context, namer ProcessNamer, pids []int32, fallback string) []string {
	out := make([]string, 0, len(pids))
	for _, pid := range pids {
		name := namer.ProcessName(ctx, pid)
		if name == "" {
			name = fallback
		}
		out = append(out, name)
	}
	return dedupe(out)
}
