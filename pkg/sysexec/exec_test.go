package sysexec

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestExecRunTrimsOutput(t *testing.T) {
	out, err := New().Run(context.Background(), "sh", "-c", "printf '  hello\\n\\n'")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out != "hello" {
		t.Errorf("Run = %q, want %q", out, "hello")
	}
}

func TestExecRunNonZeroExit(t *testing.T) {
	_, err := New().Run(context.Background(), "sh", "-c", "echo oops >&2; exit 3")
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if code := ExitCode(err); code != 3 {
		t.Errorf("ExitCode = %d, want 3", code)
	}
	if !strings.Contains(err.Error(), "oops") {
		t.Errorf("error %q should carry stderr", err)
	}
}

func TestExecRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Run(ctx, "sleep", "5")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestExecPipe(t *testing.T) {
	var out bytes.Buffer
	err := New().Pipe(context.Background(), strings.NewReader("svg"), &out, "cat")
	if err != nil {
		t.Fatalf("Pipe failed: %v", err)
	}
	if out.String() != "svg" {
		t.Errorf("Pipe stdout = %q, want %q", out.String(), "svg")
	}
}

func TestExitCodeNonProcessError(t *testing.T) {
	if code := ExitCode(errors.New("plain")); code != -1 {
		t.Errorf("ExitCode = %d, want -1", code)
	}
}

func TestLine(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"pgrep", nil, "pgrep"},
		{"pgrep", []string{"-x", "geoclue"}, "pgrep -x geoclue"},
	}
	for _, tt := range tests {
		if got := Line(tt.name, tt.args...); got != tt.want {
			t.Errorf("Line(%q, %v) = %q, want %q", tt.name, tt.args, got, tt.want)
		}
	}
}

func TestFake(t *testing.T) {
	f := NewFake().
		Set("iwconfig wlan0", `ESSID:"home"`).
		Exit("pgrep -x geoclue", 1)

	out, err := f.Run(context.Background(), "iwconfig", "wlan0")
	if err != nil || out != `ESSID:"home"` {
		t.Errorf("Run = (%q, %v)", out, err)
	}

	_, err = f.Run(context.Background(), "pgrep", "-x", "geoclue")
	if ExitCode(err) != 1 {
		t.Errorf("ExitCode = %d, want 1", ExitCode(err))
	}

	_, err = f.Run(context.Background(), "missing")
	if ExitCode(err) != 127 {
		t.Errorf("unknown command ExitCode = %d, want 127", ExitCode(err))
	}

	if n := f.CallCount("iwconfig wlan0"); n != 1 {
		t.Errorf("CallCount = %d, want 1", n)
	}
	if len(f.Calls()) != 3 {
		t.Errorf("Calls = %v, want 3 entries", f.Calls())
	}
}

func TestFakePipeRecordsStdin(t *testing.T) {
	f := NewFake().Set("icat", "")
	if err := f.Pipe(context.Background(), strings.NewReader("<svg/>"), nil, "icat"); err != nil {
		t.Fatalf("Pipe failed: %v", err)
	}
	if got := string(f.Stdin("icat")); got != "<svg/>" {
		t.Errorf("Stdin = %q, want %q", got, "<svg/>")
	}
}
