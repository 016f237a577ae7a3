package render

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"gitlab.com/tinyland/lab/kitty-panel/pkg/state"
)

const (
	barOpen  = "◖"
	barClose = "◗"
	barSep   = " ♦ "

	timeLayout = "15:04:05"
	dateLayout = "Mon Jan 02 2006"
)

// barFields are the labelled bar segments, in display order.
var barFields = []struct {
	label string
	field string
}{
	{"Battery", state.FieldBattery},
	{"Bluetooth", state.FieldBluetooth},
	{"Brightness", state.FieldBrightness},
	{"Camera", state.FieldCamera},
	{"Location", state.FieldLocation},
	{"Microphone", state.FieldMicrophone},
	{"Sound", state.FieldVolume},
	{"Screenshare", state.FieldScreenShare},
	{"Wifi", state.FieldWifi},
}

// Bar renders every active field as a pill on one centred line.
type Bar struct {
	lg    *lipgloss.Renderer
	width int
}

// NewBar creates a bar renderer centred in width columns.
func NewBar(lg *lipgloss.Renderer, width int) *Bar {
	return &Bar{lg: lg, width: width}
}

func (b *Bar) Render(ctx context.Context, w io.Writer, snap state.Snapshot, now time.Time) error {
	_, err := io.WriteString(w, b.Frame(snap, now)+ansi.CursorHomePosition)
	return err
}

// Frame returns the bar line without cursor movement.
func (b *Bar) Frame(snap state.Snapshot, now time.Time) string {
	accent := palette(snap)[0]
	edge := b.lg.NewStyle().Foreground(lipgloss.Color(accent))
	body := b.lg.NewStyle().
		Background(lipgloss.Color(accent)).
		Foreground(lipgloss.Color("#000000")).
		Bold(true)

	pill := func(label, value string) string {
		if value == "" {
			return ""
		}
		if label != "" {
			value = label + barSep + value
		}
		return edge.Render(barOpen) + body.Render(value) + edge.Render(barClose) + " "
	}
	field := func(name string) string {
		v := snap.Get(name)
		if v.Status == state.Absent {
			return ""
		}
		return v.Display("")
	}

	var line strings.Builder
	line.WriteString(pill("", field(state.FieldWorkspace)))
	line.WriteString(pill("", now.Format(timeLayout)))
	line.WriteString(pill("", now.Format(dateLayout)))
	for _, f := range barFields {
		line.WriteString(pill(f.label, field(f.field)))
	}
	return b.lg.PlaceHorizontal(b.width, lipgloss.Center, line.String())
}
