package script

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

const (
	DefaultOsascriptPath = "/usr/bin/osascript"
	DefaultOsascriptFlag = "-e"
)

// Runner executes an automation script and returns its raw standard output.
type Runner interface {
	Run(ctx context.Context, script string) (string, error)
}

// Error reports a script that could not be started or exited non-zero.
type Error struct {
	Stderr   string
	ExitCode int
	Err      error
}

func (e *Error) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = fmt.Sprintf("exit status %d", e.ExitCode)
	}
	return "script execution failed: " + msg
}

func (e *Error) Unwrap() error { return e.Err }

// ExecRunner runs scripts as `<Path> <Flag> <script>` in a child process.
type ExecRunner struct {
	Path string
	Flag string
}

// NewExecRunner constructs a runner; empty arguments fall back to osascript -e.
func NewExecRunner(path, flag string) *ExecRunner {
	if path == "" {
		path = DefaultOsascriptPath
	}
	if flag == "" {
		flag = DefaultOsascriptFlag
	}
	return &ExecRunner{Path: path, Flag: flag}
}

func (r *ExecRunner) Run(ctx context.Context, script string) (string, error) {
	cmd := exec.CommandContext(ctx, r.Path, r.Flag, script)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if exitErr := (&exec.ExitError{}); errors.As(err, &exitErr) {
			return "", &Error{Stderr: stderr.String(), ExitCode: exitErr.ExitCode(), Err: err}
		}
		return "", &Error{Stderr: stderr.String(), ExitCode: -1, Err: err}
	}
	return stdout.String(), nil
}
