package components

import (
	"image/color"
	"strconv"
	"strings"
)

// DefaultAccent is used for palette slots that are missing or malformed.
const DefaultAccent = "#ffffff"

// Accent returns palette[i] if it is a valid hex color, DefaultAccent
// otherwise.
func Accent(palette []string, i int) string {
	if i < 0 || i >= len(palette) {
		return DefaultAccent
	}
	if _, ok := ParseHex(palette[i]); !ok {
		return DefaultAccent
	}
	return palette[i]
}

// ParseHex parses "#RRGGBB", "RRGGBB" or the short "#RGB" form into an
// opaque color.
func ParseHex(hex string) (color.RGBA, bool) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
}
