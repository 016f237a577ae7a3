// Package components holds the small text primitives the renderers share:
// width-aware padding and alignment, palette colors and block digits.
package components

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// VisibleLen returns the visible width of s in terminal cells. ANSI escape
// sequences are ignored and wide characters count as two cells.
func VisibleLen(s string) int {
	return ansi.StringWidth(s)
}

// BlockWidth returns the width of the widest line of a multi-line block.
func BlockWidth(block string) int {
	w := 0
	for _, line := range strings.Split(block, "\n") {
		w = max(w, VisibleLen(line))
	}
	return w
}

// Truncate cuts s to at most maxWidth cells, keeping escape sequences that
// appear before the cut.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return ansi.Truncate(s, maxWidth, "")
}

// PadLeft pads s with leading spaces so that its visible width equals
// width. If s is already wider than width, it is returned unchanged.
func PadLeft(s string, width int) string {
	vis := VisibleLen(s)
	if vis >= width {
		return s
	}
	return strings.Repeat(" ", width-vis) + s
}

// PadCenter pads s with spaces on both sides so that it is centered
// within width. If the padding is odd, the extra space goes on the right.
func PadCenter(s string, width int) string {
	vis := VisibleLen(s)
	if vis >= width {
		return s
	}
	total := width - vis
	left := total / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", total-left)
}

// AlignRight shifts every line of block right so the block as a whole ends
// at column width. Lines keep their relative indentation.
func AlignRight(block string, width int) string {
	shift := width - BlockWidth(block)
	if shift <= 0 {
		return block
	}
	pad := strings.Repeat(" ", shift)
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		lines[i] = pad + line
	}
	return strings.Join(lines, "\n")
}
