package components

import (
	"strings"
	"testing"
)

func TestVisibleLenIgnoresEscapes(t *testing.T) {
	if got := VisibleLen("\x1b[1mbold\x1b[22m"); got != 4 {
		t.Errorf("VisibleLen = %d, want 4", got)
	}
	if got := VisibleLen("◖ ♦ ◗"); got != 5 {
		t.Errorf("VisibleLen = %d, want 5", got)
	}
}

func TestPadding(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"left", PadLeft("ab", 5), "   ab"},
		{"left overflow", PadLeft("abcdef", 3), "abcdef"},
		{"center even", PadCenter("ab", 6), "  ab  "},
		{"center odd", PadCenter("ab", 5), " ab  "},
		{"truncate", Truncate("abcdef", 3), "abc"},
		{"truncate zero", Truncate("abc", 0), ""},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestAlignRight(t *testing.T) {
	got := AlignRight("ab\nabcd", 6)
	if got != "  ab\n  abcd" {
		t.Errorf("AlignRight = %q", got)
	}
	if got := AlignRight("abcdef", 4); got != "abcdef" {
		t.Errorf("AlignRight overflow = %q", got)
	}
	if BlockWidth("a\nabc\nab") != 3 {
		t.Error("BlockWidth wrong")
	}
}

func TestParseHex(t *testing.T) {
	c, ok := ParseHex("#ff8000")
	if !ok || c.R != 0xff || c.G != 0x80 || c.B != 0 || c.A != 0xff {
		t.Errorf("ParseHex(#ff8000) = %v, %v", c, ok)
	}
	c, ok = ParseHex("#fff")
	if !ok || c.R != 0xff || c.B != 0xff {
		t.Errorf("ParseHex(#fff) = %v, %v", c, ok)
	}
	for _, bad := range []string{"", "#12345", "#gggggg", "red"} {
		if _, ok := ParseHex(bad); ok {
			t.Errorf("ParseHex(%q) accepted", bad)
		}
	}
}

func TestAccent(t *testing.T) {
	palette := []string{"#111111", "nonsense"}
	if Accent(palette, 0) != "#111111" {
		t.Error("valid slot not returned")
	}
	if Accent(palette, 1) != DefaultAccent || Accent(palette, 2) != DefaultAccent || Accent(nil, -1) != DefaultAccent {
		t.Error("invalid slots should fall back")
	}
}

func TestBlockDigits(t *testing.T) {
	out := BlockDigits("12:05")
	rows := strings.Split(out, "\n")
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	// four 3-wide digits, one 1-wide colon, four separators
	for i, row := range rows {
		if w := VisibleLen(row); w != 4*3+1+4 {
			t.Errorf("row %d width = %d, want 17", i, w)
		}
	}
	if BlockDigits("x") != "\n\n" {
		t.Errorf("unknown runes should be skipped, got %q", BlockDigits("x"))
	}
}
