package probes

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"gitlab.com/tinyland/lab/kitty-panel/pkg/probe"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/state"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/sysexec"
)

const (
	activeWorkspaceGlyph = "●"
	idleWorkspaceGlyph   = "♦"
)

type hyprWorkspace struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type hyprMonitor struct {
	ActiveWorkspace struct {
		ID int `json:"id"`
	} `json:"activeWorkspace"`
}

// Workspace renders one glyph per Hyprland workspace.
type Workspace struct {
	run      sysexec.Runner
	interval time.Duration
}

// NewWorkspace creates the workspace probe.
func NewWorkspace(run sysexec.Runner, interval time.Duration) *Workspace {
	return &Workspace{run: run, interval: interval}
}

func (w *Workspace) Name() string { return state.FieldWorkspace }
func (w *Workspace) Interval() time.Duration { return w.interval }

// Poll clears the field on any failure; outside Hyprland there is simply
// nothing to show.
func (w *Workspace) Poll(ctx context.Context) (probe.Report, error) {
	var workspaces, monitors string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		workspaces, err = w.run.Run(gctx, "hyprctl", "workspaces", "-j")
		return err
	})
	g.Go(func() (err error) {
		monitors, err = w.run.Run(gctx, "hyprctl", "monitors", "-j")
		return err
	})
	if err := g.Wait(); err != nil {
		return probe.Single(state.FieldWorkspace, probe.None()), nil
	}

	glyphs, err := WorkspaceGlyphs([]byte(workspaces), []byte(monitors))
	if err != nil || glyphs == "" {
		return probe.Single(state.FieldWorkspace, probe.None()), nil
	}
	return probe.Single(state.FieldWorkspace, probe.Text(glyphs)), nil
}

// WorkspaceGlyphs marks each non-special workspace active or idle, in the
// order hyprctl returned them.
func WorkspaceGlyphs(workspacesJSON, monitorsJSON []byte) (string, error) {
	var workspaces []hyprWorkspace
	if err := json.Unmarshal(workspacesJSON, &workspaces); err != nil {
		return "", fmt.Errorf("decode hyprctl workspaces: %w", err)
	}
	var monitors []hyprMonitor
	if err := json.Unmarshal(monitorsJSON, &monitors); err != nil {
		return "", fmt.Errorf("decode hyprctl monitors: %w", err)
	}

	active := make([]int, 0, len(monitors))
	for _, m := range monitors {
		active = append(active, m.ActiveWorkspace.ID)
	}

	glyphs := make([]string, 0, len(workspaces))
	for _, ws := range workspaces {
		if strings.Contains(ws.Name, "special") {
			continue
		}
		if slices.Contains(active, ws.ID) {
			glyphs = append(glyphs, activeWorkspaceGlyph)
		} else {
			glyphs = append(glyphs, idleWorkspaceGlyph)
		}
	}
	return strings.Join(glyphs, " "), nil
}
