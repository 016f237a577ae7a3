// Package sysexec runs the external programs the probes depend on. Every
// invocation is context-bound so a hung tool is killed when its poll times
// out, and failures carry the command line and stderr for the log.
package sysexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Runner executes a command and returns its trimmed stdout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// Piper executes a command with caller-supplied stdin and stdout. It is used
// for tools that consume a document (the logo SVG) and draw straight to the
// terminal.
type Piper interface {
	Pipe(ctx context.Context, stdin io.Reader, stdout io.Writer, name string, args ...string) error
}

// Exec is the os/exec backed Runner and Piper.
type Exec struct{}

// New returns the default command runner.
func New() *Exec {
	return &Exec{}
}

// Run executes name with args and returns stdout with surrounding whitespace
// removed. A non-zero exit is returned as an *ExitError wrapped with the
// command line and stderr.
func (e *Exec) Run(ctx context.Context, name string, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%s: %w: %s", Line(name, args...), err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Pipe executes name with stdin and stdout attached to the given streams.
func (e *Exec) Pipe(ctx context.Context, stdin io.Reader, stdout io.Writer, name string, args ...string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%s: %w: %s", Line(name, args...), err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// ExitCode extracts the process exit status from an error returned by Run or
// Pipe. It returns -1 when err does not come from a process that exited.
func ExitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	var fakeErr *FakeExitError
	if errors.As(err, &fakeErr) {
		return fakeErr.Code
	}
	return -1
}

// Line renders a command and its arguments as a single string. It is used
// for error messages and as the lookup key of Fake.
func Line(name string, args ...string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}
