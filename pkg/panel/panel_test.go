package panel

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"gitlab.com/tinyland/lab/kitty-panel/pkg/config"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/probe"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/state"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/sysexec"
)

const upowerLine = "upower -i /org/freedesktop/UPower/devices/DisplayDevice"

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testConfig is the default configuration made hermetic: no network, no
// real /dev, and a fast refresh.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Display.Refresh = config.D(10 * time.Millisecond)
	cfg.Display.ColorProfile = "ascii"
	cfg.Probes.Weather.Enabled = false
	cfg.Probes.Camera.DeviceDir = t.TempDir()
	return cfg
}

func runFor(t *testing.T, d time.Duration, cfg *config.Config, opts Options) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- Run(ctx, cfg, opts) }()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
		return nil
	}
}

func TestFields(t *testing.T) {
	if got := Fields("media"); !slices.Equal(got, []string{state.FieldScreenShare, state.FieldMicrophone}) {
		t.Errorf("Fields(media) = %v", got)
	}
	if got := Fields("wifi"); !slices.Equal(got, []string{state.FieldWifi}) {
		t.Errorf("Fields(wifi) = %v", got)
	}
}

func TestBuildSkipsDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Probes.Wifi.Enabled = false
	cfg.Probes.Media.Enabled = false

	b, err := Build(cfg, Deps{Runner: sysexec.NewFake(), Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	names := b.Registry.List()
	for _, gone := range []string{"wifi", "media", "weather"} {
		if slices.Contains(names, gone) {
			t.Errorf("disabled probe %s registered", gone)
		}
	}
	if len(names) != 9 {
		t.Errorf("registered %d probes, want 9: %v", len(names), names)
	}
	want := []string{state.FieldWifi, state.FieldScreenShare, state.FieldMicrophone, state.FieldWeather}
	if !slices.Equal(b.Disabled, want) {
		t.Errorf("Disabled = %v, want %v", b.Disabled, want)
	}
	if b.Media != nil {
		t.Error("Media set for a disabled probe")
	}
	if b.Battery == nil {
		t.Error("Battery not kept")
	}
	if p, _ := b.Registry.Get("battery"); p.Interval() != 5*time.Second {
		t.Errorf("battery interval = %v", p.Interval())
	}
}

func TestNewState(t *testing.T) {
	cfg := testConfig(t)
	cfg.Probes.Colors.Enabled = false
	b, err := Build(cfg, Deps{Runner: sysexec.NewFake()})
	if err != nil {
		t.Fatal(err)
	}
	st := NewState(b)

	colors := st.Get(state.FieldColors)
	if colors.Status != state.Ready || !slices.Equal(colors.List, []string{"#ffffff", "#ffffff", "#ffffff"}) {
		t.Errorf("colors = %+v, want white palette", colors)
	}
	if v := st.Get(state.FieldWeather); v.Status != state.Absent {
		t.Errorf("weather = %v, want absent", v.Status)
	}
	if v := st.Get(state.FieldBattery); v.Status != state.Pending {
		t.Errorf("battery = %v, want pending", v.Status)
	}
}

func TestRunBar(t *testing.T) {
	cfg := testConfig(t)
	fake := sysexec.NewFake().Set(upowerLine, "  percentage:          85%")
	dir := t.TempDir()
	pidFile := filepath.Join(dir, "bar.pid")
	healthFile := filepath.Join(dir, "bar.json")
	now := time.Date(2025, 6, 14, 12, 34, 56, 0, time.UTC)

	var out bytes.Buffer
	err := runFor(t, 150*time.Millisecond, cfg, Options{
		Mode:       ModeBar,
		Out:        &out,
		Logger:     quietLogger(),
		Deps:       Deps{Runner: fake},
		Now:        func() time.Time { return now },
		PIDFile:    pidFile,
		HealthFile: healthFile,
	})
	if err != nil {
		t.Fatalf("Run = %v", err)
	}

	frames := strings.Split(out.String(), ansi.CursorHomePosition)
	if len(frames) < 3 {
		t.Fatalf("expected several frames, got %q", out.String())
	}
	first := ansi.Strip(frames[0])
	last := ansi.Strip(frames[len(frames)-2])
	// battery is primed, so it is resolved before the first frame.
	for _, want := range []string{"12:34:56", "Sat Jun 14 2025", "Battery ♦ 85%"} {
		if !strings.Contains(first, want) {
			t.Errorf("first frame missing %q:\n%s", want, first)
		}
	}
	if !strings.Contains(last, "Wifi ♦ N/A") {
		t.Errorf("last frame missing wifi fallback:\n%s", last)
	}

	if _, err := os.Stat(pidFile); !os.IsNotExist(err) {
		t.Errorf("PID file left behind: %v", err)
	}
	h, err := ReadHealth(healthFile)
	if err != nil {
		t.Fatal(err)
	}
	if h.PID != os.Getpid() || h.Mode != ModeBar || len(h.Probes) != 11 {
		t.Errorf("health = pid %d mode %s probes %d", h.PID, h.Mode, len(h.Probes))
	}
}

type countingLogo struct{ n atomic.Int32 }

func (c *countingLogo) Draw(ctx context.Context, w io.Writer, color string) error {
	c.n.Add(1)
	return nil
}

func TestRunPanelDrawsLogoOnce(t *testing.T) {
	cfg := testConfig(t)
	logo := &countingLogo{}
	var out bytes.Buffer
	err := runFor(t, 100*time.Millisecond, cfg, Options{
		Out:    &out,
		Logger: quietLogger(),
		Deps:   Deps{Runner: sysexec.NewFake()},
		Logo:   logo,
		Width:  func() int { return 200 },
	})
	if err != nil {
		t.Fatalf("Run = %v", err)
	}
	// The colors probe fails on every poll, so the white palette never
	// changes after the first frame.
	if n := logo.n.Load(); n != 1 {
		t.Errorf("logo drawn %d times, want 1", n)
	}
	if frames := strings.Count(out.String(), ansi.CursorHomePosition); frames < 2 {
		t.Errorf("rendered %d frames", frames)
	}
	if !strings.Contains(ansi.Strip(out.String()), "N/A") {
		t.Error("panel never showed the fallback values")
	}
}

func TestRunRejectsSecondInstance(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "panel.pid")
	if err := os.WriteFile(pidFile, []byte(strconv.Itoa(os.Getppid())), 0o644); err != nil {
		t.Fatal(err)
	}
	err := Run(context.Background(), testConfig(t), Options{
		Logger:  quietLogger(),
		Deps:    Deps{Runner: sysexec.NewFake()},
		PIDFile: pidFile,
	})
	if !errors.Is(err, ErrRunning) {
		t.Errorf("Run = %v, want ErrRunning", err)
	}
}

func TestRunUnknownMode(t *testing.T) {
	err := Run(context.Background(), testConfig(t), Options{
		Mode:   "sidebar",
		Out:    io.Discard,
		Logger: quietLogger(),
		Deps:   Deps{Runner: sysexec.NewFake()},
	})
	if err == nil || !strings.Contains(err.Error(), "sidebar") {
		t.Errorf("Run = %v, want unknown mode error", err)
	}
}

func TestAcquirePIDReplacesStale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "panel.pid")
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("2147483646"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := AcquirePID(path); err != nil {
		t.Fatalf("AcquirePID over stale file: %v", err)
	}
	if pid, err := ReadPID(path); err != nil || pid != os.Getpid() {
		t.Errorf("ReadPID = %d, %v", pid, err)
	}
	// Re-acquiring our own file is allowed.
	if err := AcquirePID(path); err != nil {
		t.Errorf("second AcquirePID: %v", err)
	}
	if err := ReleasePID(path); err != nil {
		t.Fatal(err)
	}
	if err := ReleasePID(path); err != nil {
		t.Errorf("ReleasePID of missing file: %v", err)
	}
}

func TestAlive(t *testing.T) {
	if !Alive(os.Getpid()) {
		t.Error("own process reported dead")
	}
	if Alive(0) || Alive(-1) {
		t.Error("non-positive PID reported alive")
	}
}

func TestRuntimePath(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	if got := RuntimePath(ModeBar, ".pid"); got != "/run/user/1000/kitty-panel/bar.pid" {
		t.Errorf("RuntimePath = %q", got)
	}
	t.Setenv("XDG_RUNTIME_DIR", "")
	if got := RuntimePath(ModePanel, ".json"); !strings.HasSuffix(got, "panel.json") || !strings.Contains(got, "kitty-panel-") {
		t.Errorf("RuntimePath fallback = %q", got)
	}
}

func TestNewProbeHealth(t *testing.T) {
	got := NewProbeHealth([]probe.Status{
		{Name: "wifi", Healthy: true, RunCount: 3},
		{Name: "media", LastError: errors.New("pw-dump: exit 1"), ErrorCount: 2},
	})
	if len(got) != 2 || got[0].LastError != "" || got[1].LastError != "pw-dump: exit 1" || got[1].ErrorCount != 2 {
		t.Errorf("NewProbeHealth = %+v", got)
	}
}
