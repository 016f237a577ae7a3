package terminal

import (
	"io"
	"os"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// HideCursor hides the text cursor while the panel owns the screen.
func HideCursor(w io.Writer) error {
	_, err := io.WriteString(w, ansi.HideCursor)
	return err
}

// ShowCursor restores the text cursor.
func ShowCursor(w io.Writer) error {
	_, err := io.WriteString(w, ansi.ShowCursor)
	return err
}
