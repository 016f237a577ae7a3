package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"gitlab.com/tinyland/lab/kitty-panel/pkg/config"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/panel"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/probe"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/state"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/sysexec"
)

// unusedPID is far above any real pid_max, so gopsutil never finds it and
// the ps fallback is used.
const unusedPID = "2147483000"

const pwDump = `[
  {"id": 40, "type": "PipeWire:Interface:Node", "info": {"state": "running",
    "props": {"media.class": "Stream/Input/Audio", "node.name": "firefox"}}},
  {"id": 41, "type": "PipeWire:Interface:Node", "info": {"state": "idle",
    "props": {"media.class": "Stream/Input/Video", "media.name": "OBS capture"}}}
]`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func hermeticConfig(t *testing.T) (*config.Config, string) {
	t.Helper()
	cfg := config.DefaultConfig()
	dir := t.TempDir()
	cfg.Probes.Camera.DeviceDir = dir
	cfg.Probes.Weather.Enabled = false
	return cfg, dir
}

func TestDetect(t *testing.T) {
	cfg, dir := hermeticConfig(t)
	video := filepath.Join(dir, "video0")
	if err := os.WriteFile(video, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	fake := sysexec.NewFake().
		Set("fuser "+video, unusedPID+"m").
		Set("ps -p "+unusedPID+" -o comm=", "zoom").
		Exit("pgrep -x geoclue", 1).
		Set("pw-dump", pwDump)

	got, err := Detect(context.Background(), cfg, fake, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	want := Privacy{Microphone: "firefox", Camera: "zoom"}
	if *got != want {
		t.Errorf("Detect = %+v, want %+v", *got, want)
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(got); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"screenshare":""`) {
		t.Errorf("json = %s", buf.String())
	}
}

func TestDetectHardFailureLeavesEmpty(t *testing.T) {
	cfg, _ := hermeticConfig(t)
	got, err := Detect(context.Background(), cfg, sysexec.NewFake().Exit("pgrep -x geoclue", 1), quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if got.Microphone != "" || got.ScreenShare != "" || got.Camera != "" {
		t.Errorf("Detect = %+v, want all empty", *got)
	}
}

func TestPollAll(t *testing.T) {
	cfg, _ := hermeticConfig(t)
	fake := sysexec.NewFake().Set("upower -i /org/freedesktop/UPower/devices/DisplayDevice", "percentage: 85%")

	rows, err := PollAll(context.Background(), cfg, panel.Deps{Runner: fake, Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 11 {
		t.Fatalf("got %d rows, want 11", len(rows))
	}
	byName := map[string]ProbeRow{}
	for _, r := range rows {
		byName[r.Name] = r
	}

	if r := byName["battery"]; r.Status != "ok" || r.Value != "85%" || r.Interval != 5*time.Second {
		t.Errorf("battery row = %+v", r)
	}
	if r := byName["wifi"]; !strings.HasPrefix(r.Status, "failed") || r.Value != "N/A" {
		t.Errorf("wifi row = %+v", r)
	}
	// pw-dump is missing, so the media fields are never written.
	if r := byName["media"]; !strings.HasPrefix(r.Status, "failed: ") ||
		r.Value != "screenshare="+state.PendingText+" microphone="+state.PendingText {
		t.Errorf("media row = %+v", r)
	}
	if r := byName["colors"]; r.Value != "#ffffff #ffffff #ffffff" {
		t.Errorf("colors row = %+v", r)
	}
	if fake.CallCount("notify-send -u critical Battery low") != 0 {
		t.Error("probes command sent a notification")
	}
}

func TestPollAllNamed(t *testing.T) {
	cfg, _ := hermeticConfig(t)
	fake := sysexec.NewFake().Set("upower -i /org/freedesktop/UPower/devices/DisplayDevice", "percentage: 40%")

	rows, err := PollAll(context.Background(), cfg, panel.Deps{Runner: fake, Logger: quietLogger()}, "volume", "battery")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0].Name != "volume" || rows[1].Name != "battery" {
		t.Fatalf("rows = %+v, want volume then battery", rows)
	}
	if rows[1].Status != "ok" || rows[1].Value != "40%" {
		t.Errorf("battery row = %+v", rows[1])
	}
	if !strings.HasPrefix(rows[0].Status, "failed") {
		t.Errorf("volume row = %+v", rows[0])
	}
	for _, call := range fake.Calls() {
		if strings.HasPrefix(call, "iwconfig") {
			t.Errorf("unrequested probe ran: %s", call)
		}
	}

	// weather is disabled by hermeticConfig.
	if _, err := PollAll(context.Background(), cfg, panel.Deps{Runner: fake, Logger: quietLogger()}, "weather"); err == nil {
		t.Error("polling a disabled probe should fail")
	}
}

func TestProbeStatus(t *testing.T) {
	tests := []struct {
		s    probe.Status
		want string
	}{
		{probe.Status{Healthy: true}, "not run"},
		{probe.Status{Healthy: true, RunCount: 1}, "ok"},
		{probe.Status{RunCount: 1, LastError: io.ErrUnexpectedEOF}, "failed: unexpected EOF"},
		{probe.Status{RunCount: 1}, "failed"},
	}
	for _, tt := range tests {
		if got := probeStatus(tt.s); got != tt.want {
			t.Errorf("probeStatus(%+v) = %q, want %q", tt.s, got, tt.want)
		}
	}
}

func TestFieldValues(t *testing.T) {
	snap := state.Snapshot{
		state.FieldWeather:     state.Text("Sunny\n +21°C\n ↗ 9 km/h"),
		state.FieldScreenShare: state.Inactive(),
		state.FieldMicrophone:  state.Text("firefox"),
	}
	if got := fieldValues(snap, []string{state.FieldWeather}); got != "Sunny +21°C ↗ 9 km/h" {
		t.Errorf("weather = %q", got)
	}
	if got := fieldValues(snap, []string{state.FieldScreenShare, state.FieldMicrophone}); got != "screenshare=- microphone=firefox" {
		t.Errorf("media = %q", got)
	}
	long := state.Snapshot{state.FieldWifi: state.Text(strings.Repeat("x", 100))}
	if got := fieldValues(long, []string{state.FieldWifi}); len(got) != maxValueWidth {
		t.Errorf("long value width = %d", len(got))
	}
}

func TestPrintStatus(t *testing.T) {
	now := time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)
	h := &panel.Health{
		PID:     os.Getpid(),
		Mode:    panel.ModeBar,
		Started: now.Add(-time.Hour),
		Updated: now.Add(-3 * time.Second),
		Probes: []panel.ProbeHealth{
			{Name: "wifi", Healthy: false, RunCount: 4, ErrorCount: 4, LastError: "iwconfig wlan0: exit status 1"},
		},
	}
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	if err := printStatus(cmd, h, now); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"bar running as PID", "for 1h0m0s", "updated 3s ago", "wifi", "iwconfig wlan0: exit status 1"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("status output missing %q:\n%s", want, out.String())
		}
	}

	h.PID = 2147483000
	out.Reset()
	if err := printStatus(cmd, h, now); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "bar is not running") {
		t.Errorf("dead instance output:\n%s", out.String())
	}
}

func TestVersionFlag(t *testing.T) {
	cmd := NewRootCmd("1.2.3")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--version"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if out.String() != "kitty-panel version 1.2.3\n" {
		t.Errorf("version output = %q", out.String())
	}
}

func TestStatusNotRunning(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	cmd := NewRootCmd("dev")
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{"status", "--bar"})
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "bar is not running") {
		t.Errorf("status = %v", err)
	}
}

func TestExplicitConfigMustExist(t *testing.T) {
	g := &globals{configPath: filepath.Join(t.TempDir(), "missing.toml")}
	if _, _, err := g.loadConfig(); err == nil {
		t.Error("missing explicit config accepted")
	}
}

func TestLevel(t *testing.T) {
	cfg := config.DefaultConfig()
	g := &globals{}

	cfg.General.LogLevel = "warn"
	if got := g.level(cfg); got != slog.LevelWarn {
		t.Errorf("level(warn) = %v", got)
	}
	cfg.General.LogLevel = "loud"
	if got := g.level(cfg); got != slog.LevelInfo {
		t.Errorf("level(loud) = %v", got)
	}
	g.verbose = true
	if got := g.level(cfg); got != slog.LevelDebug {
		t.Errorf("verbose level = %v", got)
	}
}

func TestOpenLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "kitty-panel", "panel.log")
	logger, closer, err := openLog(path, slog.LevelInfo)
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("hidden")
	logger.Info("hello", "probe", "wifi")
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "msg=hello probe=wifi") || strings.Contains(string(data), "hidden") {
		t.Errorf("log contents:\n%s", data)
	}
}
