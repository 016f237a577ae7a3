package terminal

import (
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

// Fallback cell pixel size when the terminal does not report one.
const (
	DefaultCellW = 8
	DefaultCellH = 16
)

// Size represents terminal dimensions in both character cells and pixels.
type Size struct {
	Cols  int
	Rows  int
	CellW int // Pixel width per cell (0 if unknown)
	CellH int // Pixel height per cell (0 if unknown)
}

// GetSize returns the current terminal dimensions. It tries TIOCGWINSZ on
// stdout, then stderr, then COLUMNS/LINES, then 80x24.
func GetSize() Size {
	for _, fd := range []uintptr{os.Stdout.Fd(), os.Stderr.Fd()} {
		if s := sizeFromIoctl(fd); s.Cols > 0 && s.Rows > 0 {
			return s
		}
	}
	return sizeFromEnv()
}

// Width returns the terminal width in columns. The panel right-aligns its
// frame to it on every redraw, so a resize takes effect on the next tick.
func Width() int {
	return GetSize().Cols
}

// CellSize returns the pixel size of one cell of the controlling terminal,
// or DefaultCellW x DefaultCellH when it cannot be determined. /dev/tty is
// queried because stdout may be redirected.
func CellSize() (w, h int) {
	f, err := os.Open("/dev/tty")
	if err != nil {
		return DefaultCellW, DefaultCellH
	}
	defer f.Close()

	s := sizeFromIoctl(f.Fd())
	if s.CellW <= 0 || s.CellH <= 0 {
		return DefaultCellW, DefaultCellH
	}
	return s.CellW, s.CellH
}

// sizeFromIoctl returns a zero Size on failure.
func sizeFromIoctl(fd uintptr) Size {
	ws, err := unix.IoctlGetWinsize(int(fd), unix.TIOCGWINSZ)
	if err != nil {
		return Size{}
	}

	s := Size{Cols: int(ws.Col), Rows: int(ws.Row)}
	if ws.Xpixel > 0 && s.Cols > 0 {
		s.CellW = int(ws.Xpixel) / s.Cols
	}
	if ws.Ypixel > 0 && s.Rows > 0 {
		s.CellH = int(ws.Ypixel) / s.Rows
	}
	return s
}

func sizeFromEnv() Size {
	return Size{Cols: envInt("COLUMNS", 80), Rows: envInt("LINES", 24)}
}

// envInt returns fallback unless name holds a positive integer.
func envInt(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
