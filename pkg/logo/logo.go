// Package logo draws the panel's logo in the terminal's accent color.
//
// Two backends exist. The icat backend pipes the SVG document into
// "kitty +kitten icat", which is what the panel has always done. The kitty
// backend rasterises the artwork in-process and writes it with the Kitty
// graphics protocol, so no external program is needed.
package logo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/blacktop/go-termimg"
	"github.com/charmbracelet/x/ansi"

	"gitlab.com/tinyland/lab/kitty-panel/pkg/sysexec"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/terminal"
)

// Backend names accepted by New.
const (
	BackendAuto  = "auto"
	BackendIcat  = "icat"
	BackendKitty = "kitty"
	BackendNone  = "none"
)

// deleteAll removes every image the terminal holds for this window.
const deleteAll = "\x1b_Ga=d\x1b\\"

// Drawer draws the logo in the given color.
type Drawer interface {
	Draw(ctx context.Context, w io.Writer, color string) error
}

// Options configures New.
type Options struct {
	// Size is the logo edge in terminal cells.
	Size int
	// Pipe runs icat. Defaults to sysexec.New().
	Pipe sysexec.Piper
	// CellSize reports the pixel size of one terminal cell. Defaults to
	// terminal.CellSize.
	CellSize func() (w, h int)
	Logger   *slog.Logger
}

// New returns the drawer for backend. "auto" picks icat when running inside
// kitty and draws nothing elsewhere.
func New(backend string, opts Options) (Drawer, error) {
	if opts.Size <= 0 {
		opts.Size = 25
	}
	if opts.Pipe == nil {
		opts.Pipe = sysexec.New()
	}
	if opts.CellSize == nil {
		opts.CellSize = terminal.CellSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if backend == BackendAuto {
		backend = BackendNone
		if terminal.Detect().SupportsKittyGraphics() {
			backend = BackendIcat
		}
		opts.Logger.Debug("logo backend selected", "backend", backend)
	}

	switch backend {
	case BackendIcat:
		return &Icat{pipe: opts.Pipe, size: opts.Size}, nil
	case BackendKitty:
		return &Kitty{size: opts.Size, cellSize: opts.CellSize}, nil
	case BackendNone:
		return None{}, nil
	default:
		return nil, fmt.Errorf("unknown logo backend %q", backend)
	}
}

// Icat draws the SVG through kitty's icat kitten.
type Icat struct {
	pipe sysexec.Piper
	size int
}

// Args returns the icat command line without the program name.
func (d *Icat) Args() []string {
	n := strconv.Itoa(d.size)
	return []string{"+kitten", "icat", "--align=center", "--place", n + "x" + n + "@0x0", "--scale", "--clear"}
}

func (d *Icat) Draw(ctx context.Context, w io.Writer, color string) error {
	if err := d.pipe.Pipe(ctx, strings.NewReader(SVG(color)), w, "kitty", d.Args()...); err != nil {
		return fmt.Errorf("icat: %w", err)
	}
	return nil
}

// Kitty rasterises the logo and emits it with the Kitty graphics protocol
// at the top-left cell.
type Kitty struct {
	size     int
	cellSize func() (w, h int)
}

func (d *Kitty) Draw(ctx context.Context, w io.Writer, color string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cw, ch := d.cellSize()
	img, err := Rasterize(color, d.size*cw, d.size*ch)
	if err != nil {
		return err
	}

	ti := termimg.New(img)
	if ti == nil {
		return fmt.Errorf("go-termimg: failed to create image wrapper")
	}
	ti.Protocol(termimg.Kitty).Size(d.size, d.size).Scale(termimg.ScaleFit)
	seq, err := ti.Render()
	if err != nil {
		return fmt.Errorf("kitty graphics: %w", err)
	}

	_, err = io.WriteString(w, ansi.CursorHomePosition+deleteAll+seq)
	return err
}

// None draws nothing.
type None struct{}

func (None) Draw(context.Context, io.Writer, string) error { return nil }
