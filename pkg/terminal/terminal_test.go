package terminal

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

var termEnvVars = []string{
	"TERM_PROGRAM", "TERM", "KITTY_WINDOW_ID", "WEZTERM_EXECUTABLE", "TMUX",
	"COLUMNS", "LINES",
}

// clearTermEnv unsets every variable Detect inspects; t.Setenv restores
// them after the test.
func clearTermEnv(t *testing.T) {
	t.Helper()
	for _, v := range termEnvVars {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want Terminal
	}{
		{"term program kitty", map[string]string{"TERM_PROGRAM": "kitty"}, TermKitty},
		{"term program case", map[string]string{"TERM_PROGRAM": "WezTerm"}, TermWezTerm},
		{"TERM kitty", map[string]string{"TERM": "xterm-kitty"}, TermKitty},
		{"TERM ghostty", map[string]string{"TERM": "xterm-ghostty"}, TermGhostty},
		{"window id", map[string]string{"TERM": "xterm-256color", "KITTY_WINDOW_ID": "3"}, TermKitty},
		{"kitty inside tmux", map[string]string{"TMUX": "/tmp/tmux-1000/default,1,0", "KITTY_WINDOW_ID": "1"}, TermKitty},
		{"bare tmux", map[string]string{"TMUX": "/tmp/tmux-1000/default,1,0"}, TermTmux},
		{"nothing", nil, TermGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearTermEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if got := Detect(); got != tt.want {
				t.Errorf("Detect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSupportsKittyGraphics(t *testing.T) {
	for _, term := range []Terminal{TermKitty, TermGhostty, TermWezTerm} {
		if !term.SupportsKittyGraphics() {
			t.Errorf("%v should support kitty graphics", term)
		}
	}
	for _, term := range []Terminal{TermUnknown, TermTmux, TermGeneric} {
		if term.SupportsKittyGraphics() {
			t.Errorf("%v should not support kitty graphics", term)
		}
	}
	if got := Terminal(99).String(); got != "unknown" {
		t.Errorf("String() = %q, want unknown", got)
	}
}

func TestSizeFromEnv(t *testing.T) {
	clearTermEnv(t)
	if s := sizeFromEnv(); s.Cols != 80 || s.Rows != 24 {
		t.Errorf("default size = %dx%d, want 80x24", s.Cols, s.Rows)
	}

	t.Setenv("COLUMNS", "300")
	t.Setenv("LINES", "bogus")
	if s := sizeFromEnv(); s.Cols != 300 || s.Rows != 24 {
		t.Errorf("size = %dx%d, want 300x24", s.Cols, s.Rows)
	}
}

func TestSizeFromIoctlNonTerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "plain"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if s := sizeFromIoctl(f.Fd()); s != (Size{}) {
		t.Errorf("sizeFromIoctl(file) = %+v, want zero", s)
	}
	if IsTerminal(f) {
		t.Error("IsTerminal(regular file) = true")
	}
}

func TestCellSizePositive(t *testing.T) {
	w, h := CellSize()
	if w <= 0 || h <= 0 {
		t.Errorf("CellSize() = %dx%d, want positive", w, h)
	}
}

func TestCursorVisibility(t *testing.T) {
	var buf bytes.Buffer
	if err := HideCursor(&buf); err != nil {
		t.Fatal(err)
	}
	if err := ShowCursor(&buf); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), ansi.HideCursor+ansi.ShowCursor; got != want {
		t.Errorf("cursor sequences = %q, want %q", got, want)
	}
}
