package panel

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// ErrRunning is returned by AcquirePID when another instance holds the file.
var ErrRunning = errors.New("already running")

// RuntimePath returns the path of a per-user runtime file for mode, such as
// the PID file of the bar. It lives under $XDG_RUNTIME_DIR when set.
func RuntimePath(mode Mode, ext string) string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "kitty-panel-"+strconv.Itoa(os.Getuid()))
	} else {
		dir = filepath.Join(dir, "kitty-panel")
	}
	return filepath.Join(dir, string(mode)+ext)
}

// AcquirePID writes the current PID to path. A file naming a live process
// makes it fail with ErrRunning; a stale one is replaced. The write goes
// through a temporary file so readers never see a partial PID.
func AcquirePID(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create PID directory: %w", err)
	}

	if pid, err := ReadPID(path); err == nil && pid != os.Getpid() && Alive(pid) {
		return fmt.Errorf("%w (PID %d)", ErrRunning, pid)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		return fmt.Errorf("write PID file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename PID file: %w", err)
	}
	return nil
}

// ReleasePID removes the PID file at path.
func ReleasePID(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove PID file: %w", err)
	}
	return nil
}

// ReadPID reads the PID stored at path.
func ReadPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read PID file: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parse PID file: %w", err)
	}
	return pid, nil
}

// Alive reports whether a process with pid exists. EPERM means it exists
// but belongs to someone else.
func Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}
