package render

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"gitlab.com/tinyland/lab/kitty-panel/pkg/components"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/state"
)

// LogoDrawer draws the panel logo in the given color.
type LogoDrawer interface {
	Draw(ctx context.Context, w io.Writer, color string) error
}

// PanelOptions configures the panel renderer.
type PanelOptions struct {
	// Width returns the terminal width the frame is right-aligned to.
	Width func() int
	// Logo may be nil.
	Logo   LogoDrawer
	Logger *slog.Logger
}

// Panel renders the dashboard as bordered boxes. The logo is redrawn only
// when the palette changes.
type Panel struct {
	lg   *lipgloss.Renderer
	opts PanelOptions

	lastColors []string
	drawn      bool
}

// NewPanel creates the panel renderer.
func NewPanel(lg *lipgloss.Renderer, opts PanelOptions) *Panel {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Panel{lg: lg, opts: opts}
}

func (p *Panel) Render(ctx context.Context, w io.Writer, snap state.Snapshot, now time.Time) error {
	colors := snap.Get(state.FieldColors).List
	if !p.drawn || !slices.Equal(colors, p.lastColors) {
		if p.opts.Logo != nil {
			if err := p.opts.Logo.Draw(ctx, w, palette(snap)[0]); err != nil {
				p.opts.Logger.Debug("logo draw failed", "error", err)
			}
		}
		p.lastColors = slices.Clone(colors)
		p.drawn = true
	}

	frame := p.Frame(snap, now)
	if p.opts.Width != nil {
		frame = components.AlignRight(frame, p.opts.Width())
	}
	_, err := io.WriteString(w, ansi.CursorHomePosition+frame)
	return err
}

func (p *Panel) box(text, color string) string {
	s := p.lg.NewStyle().Border(lipgloss.RoundedBorder())
	if color != "" {
		s = s.Foreground(lipgloss.Color(color)).BorderForeground(lipgloss.Color(color))
	}
	return s.Render(text)
}

// Frame composes the panel boxes without cursor movement or alignment.
func (p *Panel) Frame(snap state.Snapshot, now time.Time) string {
	c := palette(snap)
	text := func(field string) string { return snap.Text(field, NoneText) }

	vol := p.box("Volume: "+text(state.FieldVolume), c[1])
	screen := p.box("Screen: "+text(state.FieldScreenShare), c[1])
	bt := p.box("Bluetooth: "+text(state.FieldBluetooth), c[2])
	loc := p.box("Location: "+text(state.FieldLocation), c[2])

	wifi := p.box("Wifi: "+text(state.FieldWifi), c[0])
	bright := p.box("Brightness: "+text(state.FieldBrightness), c[0])
	batt := p.box("Battery: "+text(state.FieldBattery), c[0])
	cam := p.box("Camera: "+text(state.FieldCamera), c[0])
	mic := p.box("Microphone: "+text(state.FieldMicrophone), c[0])

	weather := p.box(text(state.FieldWeather), "")
	calendar := p.box(text(state.FieldCalendar), c[1])
	clock := p.lg.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(c[0])).
		Foreground(lipgloss.Color(c[0])).
		Padding(0, 3).
		Render(Clock(now))

	audio := "\n" + lipgloss.JoinVertical(lipgloss.Right,
		lipgloss.JoinHorizontal(lipgloss.Top, vol, screen),
		lipgloss.JoinHorizontal(lipgloss.Top, bt, loc),
	)
	top := lipgloss.JoinHorizontal(lipgloss.Top, audio, weather)
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, wifi, bright, batt, cam, mic)
	info := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Right, top, bottom),
		calendar,
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, info, clock)
}

// Clock renders the time in block digits over the date line.
func Clock(now time.Time) string {
	return "\n" + lipgloss.JoinVertical(lipgloss.Center,
		components.BlockDigits(now.Format(timeLayout)),
		"\n"+now.Format(dateLayout),
	)
}
