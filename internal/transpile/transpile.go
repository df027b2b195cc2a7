// Package transpile runs an external OpenAPI-to-TypeScript transpiler.
package transpile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/google/shlex"
)

// DefaultCommand is used when no transpiler command is configured.
const DefaultCommand = "npx --yes openapi-typescript"

// ErrCommandTimeout indicates the transpiler did not finish in time.
var ErrCommandTimeout = errors.New("transpiler timeout")

// Transpiler invokes Argv with a spec file path appended and treats the
// process stdout as the generated module.
type Transpiler struct {
	Argv []string

	// Timeout bounds the run. Zero means no bound.
	Timeout time.Duration
}

// New parses commandLine with shell-style lexing. Empty means DefaultCommand.
func New(commandLine string) (*Transpiler, error) {
	if strings.TrimSpace(commandLine) == "" {
		commandLine = DefaultCommand
	}
	argv, err := shlex.Split(commandLine)
	if err != nil {
		return nil, fmt.Errorf("invalid transpiler command %q: %w", commandLine, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("invalid transpiler command %q", commandLine)
	}
	return &Transpiler{Argv: argv}, nil
}

// specExt guesses the file extension the transpiler expects.
func specExt(spec string) string {
	if strings.HasPrefix(strings.TrimSpace(spec), "{") {
		return ".json"
	}
	return ".yaml"
}

// Transpile writes spec to a temp file, runs the transpiler on it and
// returns its stdout.
func (t *Transpiler) Transpile(ctx context.Context, spec string) (string, error) {
	tmp, err := os.CreateTemp("", "oapigen-spec-*"+specExt(spec))
	if err != nil {
		return "", fmt.Errorf("create temp spec: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(spec); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp spec: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp spec: %w", err)
	}

	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	args := append(append([]string{}, t.Argv[1:]...), tmpPath)
	cmd := exec.CommandContext(ctx, t.Argv[0], args...)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	// Grandchildren holding the pipes must not outlive the deadline.
	cmd.WaitDelay = time.Second

	err = cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return "", ErrCommandTimeout
	}
	if err != nil {
		msg := strings.TrimSpace(errBuf.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("transpiler %s failed: %s", t.Argv[0], msg)
	}
	return outBuf.String(), nil
}
