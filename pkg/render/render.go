// Package render draws a state snapshot as either the one-line bar or the
// multi-box side panel. Both write a complete frame in place, starting from
// the top-left corner, so the previous frame is overwritten rather than
// scrolled.
package render

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"gitlab.com/tinyland/lab/kitty-panel/pkg/components"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/state"
)

// NoneText is shown in the panel for inactive fields.
const NoneText = "None"

// Renderer draws one frame.
type Renderer interface {
	Render(ctx context.Context, w io.Writer, snap state.Snapshot, now time.Time) error
}

// NewLipgloss returns a lipgloss renderer for w using the named color
// profile. "auto" detects the profile from the terminal.
func NewLipgloss(w io.Writer, profile string) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	switch profile {
	case "truecolor":
		r.SetColorProfile(termenv.TrueColor)
	case "ansi256":
		r.SetColorProfile(termenv.ANSI256)
	case "ansi":
		r.SetColorProfile(termenv.ANSI)
	case "ascii":
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

// palette returns the three accent colors of snap.
func palette(snap state.Snapshot) [3]string {
	colors := snap.Get(state.FieldColors).List
	return [3]string{
		components.Accent(colors, 0),
		components.Accent(colors, 1),
		components.Accent(colors, 2),
	}
}
