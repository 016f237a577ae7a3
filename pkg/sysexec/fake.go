package sysexec

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// FakeExitError simulates a command that exited with a non-zero status.
type FakeExitError struct {
	Code int
}

func (e *FakeExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// FakeResponse is the canned result for one command line.
type FakeResponse struct {
	Output string
	Err    error
}

// Fake is a Runner and Piper for tests. Responses are keyed by the full
// command line as rendered by Line. Unknown commands fail with exit status
// 127, like a missing binary.
type Fake struct {
	mu        sync.Mutex
	responses map[string]FakeResponse
	calls     []string
	stdin     map[string][]byte
}

// NewFake returns an empty Fake.
func NewFake() *Fake {
	return &Fake{
		responses: make(map[string]FakeResponse),
		stdin:     make(map[string][]byte),
	}
}

// Set registers the stdout returned for a command line.
func (f *Fake) Set(line, output string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[line] = FakeResponse{Output: output}
	return f
}

// Fail registers an error for a command line.
func (f *Fake) Fail(line string, err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[line] = FakeResponse{Err: err}
	return f
}

// Exit registers a non-zero exit status for a command line.
func (f *Fake) Exit(line string, code int) *Fake {
	return f.Fail(line, &FakeExitError{Code: code})
}

// Run returns the registered response for the command line.
func (f *Fake) Run(ctx context.Context, name string, args ...string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	line := Line(name, args...)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, line)
	resp, ok := f.responses[line]
	if !ok {
		return "", fmt.Errorf("%s: %w", line, &FakeExitError{Code: 127})
	}
	if resp.Err != nil {
		return "", fmt.Errorf("%s: %w", line, resp.Err)
	}
	return resp.Output, nil
}

// Pipe records stdin for the command line and writes the registered output
// to stdout.
func (f *Fake) Pipe(ctx context.Context, stdin io.Reader, stdout io.Writer, name string, args ...string) error {
	var in []byte
	if stdin != nil {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return err
		}
		in = b
	}
	out, err := f.Run(ctx, name, args...)
	f.mu.Lock()
	f.stdin[Line(name, args...)] = in
	f.mu.Unlock()
	if err != nil {
		return err
	}
	if stdout != nil && out != "" {
		_, err = io.WriteString(stdout, out)
	}
	return err
}

// Calls returns every command line run so far, in order.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how many times the command line was run.
func (f *Fake) CallCount(line string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == line {
			n++
		}
	}
	return n
}

// Stdin returns what was piped into the command line on its last run.
func (f *Fake) Stdin(line string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stdin[line]
}
