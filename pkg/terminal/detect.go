// Package terminal answers the few questions the panel asks about the
// terminal it owns: which emulator it is, how large it is, and whether
// stdout is a terminal at all.
package terminal

import (
	"os"
	"strings"
)

// Terminal identifies the terminal emulator in use.
type Terminal int

const (
	TermUnknown Terminal = iota
	TermKitty
	TermGhostty
	TermWezTerm
	TermTmux
	TermGeneric
)

var terminalNames = [...]string{
	TermUnknown: "unknown",
	TermKitty:   "kitty",
	TermGhostty: "ghostty",
	TermWezTerm: "wezterm",
	TermTmux:    "tmux",
	TermGeneric: "generic",
}

func (t Terminal) String() string {
	if int(t) < len(terminalNames) {
		return terminalNames[t]
	}
	return "unknown"
}

// SupportsKittyGraphics reports whether the terminal understands the Kitty
// graphics protocol used to draw the logo.
func (t Terminal) SupportsKittyGraphics() bool {
	switch t {
	case TermKitty, TermGhostty, TermWezTerm:
		return true
	default:
		return false
	}
}

// Detect identifies the terminal emulator from environment variables. It
// performs no I/O. Signals are checked in order of reliability:
//
//  1. TERM_PROGRAM
//  2. TERM (xterm-kitty, xterm-ghostty)
//  3. KITTY_WINDOW_ID, WEZTERM_EXECUTABLE
//  4. TMUX
func Detect() Terminal {
	if tp := os.Getenv("TERM_PROGRAM"); tp != "" {
		switch strings.ToLower(tp) {
		case "kitty":
			return TermKitty
		case "ghostty":
			return TermGhostty
		case "wezterm":
			return TermWezTerm
		case "tmux":
			return TermTmux
		}
	}

	switch os.Getenv("TERM") {
	case "xterm-kitty":
		return TermKitty
	case "xterm-ghostty":
		return TermGhostty
	}

	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return TermKitty
	}
	if os.Getenv("WEZTERM_EXECUTABLE") != "" {
		return TermWezTerm
	}

	// Checked late so the inner terminal wins when it is visible.
	if os.Getenv("TMUX") != "" {
		return TermTmux
	}
	return TermGeneric
}
