package logo

import (
	"bytes"
	"context"
	"image/color"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/image/vector"

	"gitlab.com/tinyland/lab/kitty-panel/pkg/sysexec"
)

const icatLine = "kitty +kitten icat --align=center --place 25x25@0x0 --scale --clear"

func TestSVG(t *testing.T) {
	doc := SVG("#12ab34")
	if !strings.HasPrefix(doc, "<svg") || !strings.HasSuffix(doc, "</svg>\n") {
		t.Fatalf("not an svg document:\n%s", doc)
	}
	if n := strings.Count(doc, `fill="#12ab34"`); n != len(paths) {
		t.Errorf("fill count = %d, want %d", n, len(paths))
	}
	if !strings.Contains(doc, `viewBox="0 0 452 452"`) {
		t.Error("missing viewBox")
	}
	if !strings.Contains(doc, "M330.121460,254.796204") {
		t.Error("missing first glyph outline")
	}
}

func TestTokenize(t *testing.T) {
	got := tokenize("M1,2 C3 4\t5,6 7 8z\nm-1.5e1,2L3 4Z")
	want := []string{"M", "1", "2", "C", "3", "4", "5", "6", "7", "8", "z", "m", "-1.5e1", "2", "L", "3", "4", "Z"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("tokenize = %q, want %q", got, want)
	}
}

func TestTraceErrors(t *testing.T) {
	tests := map[string]string{
		"no command":  "1 2",
		"short cubic": "M0 0 C1 2 3 4",
		"bad number":  "M0 x",
		"after close": "M0 0 L1 1 z 4 4",
	}
	for name, d := range tests {
		t.Run(name, func(t *testing.T) {
			if err := trace(vector.NewRasterizer(10, 10), d, 1); err == nil {
				t.Errorf("trace(%q) succeeded, want error", d)
			}
		})
	}
}

func TestTraceLogoPaths(t *testing.T) {
	for i, d := range paths {
		if err := trace(vector.NewRasterizer(viewBox, viewBox), d, 1); err != nil {
			t.Errorf("path %d: %v", i, err)
		}
	}
}

func TestRasterizeNative(t *testing.T) {
	img, err := Rasterize("#ff0000", viewBox, viewBox)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != viewBox || b.Dy() != viewBox {
		t.Fatalf("bounds = %v", b)
	}

	red := color.NRGBA{R: 0xff, A: 0xff}
	// One point inside each glyph's solid band.
	for _, p := range [][2]int{{230, 70}, {230, 380}} {
		if got := img.NRGBAAt(p[0], p[1]); got != red {
			t.Errorf("pixel %v = %v, want %v", p, got, red)
		}
	}
	if got := img.NRGBAAt(2, 2); got.A != 0 {
		t.Errorf("corner pixel = %v, want transparent", got)
	}
}

func TestRasterizeFitsBox(t *testing.T) {
	// 25 cells of 8x16 pixels.
	img, err := Rasterize("#00f", 200, 400)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 200 {
		t.Errorf("bounds = %v, want 200x200", b)
	}

	big, err := Rasterize("#00f", 900, 900)
	if err != nil {
		t.Fatal(err)
	}
	if b := big.Bounds(); b.Dx() != 900 {
		t.Errorf("large logo bounds = %v, want 900x900", b)
	}
}

func TestRasterizeRejects(t *testing.T) {
	if _, err := Rasterize("red", 10, 10); err == nil {
		t.Error("named color accepted")
	}
	if _, err := Rasterize("#fff", 0, 10); err == nil {
		t.Error("empty box accepted")
	}
}

func TestIcatDraw(t *testing.T) {
	fake := sysexec.NewFake().Set(icatLine, "<image>")
	d, err := New(BackendIcat, Options{Size: 25, Pipe: fake})
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := d.Draw(context.Background(), &out, "#abcdef"); err != nil {
		t.Fatal(err)
	}
	if out.String() != "<image>" {
		t.Errorf("output = %q", out.String())
	}
	if got := string(fake.Stdin(icatLine)); got != SVG("#abcdef") {
		t.Errorf("icat stdin = %q", got)
	}
}

func TestIcatDrawFailure(t *testing.T) {
	d, err := New(BackendIcat, Options{Pipe: sysexec.NewFake()})
	if err != nil {
		t.Fatal(err)
	}
	err = d.Draw(context.Background(), &bytes.Buffer{}, "#ffffff")
	if err == nil || !strings.Contains(err.Error(), "icat") {
		t.Errorf("err = %v, want icat failure", err)
	}
}

func TestKittyDraw(t *testing.T) {
	d, err := New(BackendKitty, Options{Size: 4, CellSize: func() (int, int) { return 8, 16 }})
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := d.Draw(context.Background(), &out, "#ff8800"); err != nil {
		t.Fatal(err)
	}
	s := out.String()
	if !strings.HasPrefix(s, ansi.CursorHomePosition+deleteAll) {
		t.Errorf("output does not start by clearing images: %q", s[:min(len(s), 20)])
	}
	if !strings.Contains(s[len(ansi.CursorHomePosition+deleteAll):], "\x1b_G") {
		t.Error("no graphics command after the delete")
	}
}

func TestKittyDrawCancelled(t *testing.T) {
	d, _ := New(BackendKitty, Options{CellSize: func() (int, int) { return 8, 16 }})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	if err := d.Draw(ctx, &out, "#ffffff"); err == nil || out.Len() != 0 {
		t.Errorf("cancelled draw: err=%v wrote %d bytes", err, out.Len())
	}
}

func TestNewBackends(t *testing.T) {
	if _, err := New("sixel", Options{}); err == nil {
		t.Error("unknown backend accepted")
	}

	d, err := New(BackendNone, Options{})
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := d.Draw(context.Background(), &out, "#fff"); err != nil || out.Len() != 0 {
		t.Errorf("none backend wrote %q, err %v", out.String(), err)
	}
}

func TestNewAuto(t *testing.T) {
	for _, v := range []string{"TERM_PROGRAM", "TERM", "KITTY_WINDOW_ID", "WEZTERM_EXECUTABLE", "TMUX"} {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}

	d, err := New(BackendAuto, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := d.(None); !ok {
		t.Errorf("auto outside kitty = %T, want None", d)
	}

	t.Setenv("KITTY_WINDOW_ID", "1")
	d, err = New(BackendAuto, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := d.(*Icat); !ok {
		t.Errorf("auto inside kitty = %T, want *Icat", d)
	}
}
