package logview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// ErrSpawn wraps failures to start the interpreter at all.
var ErrSpawn = errors.New("logview: cannot run command")

// Output is what a finished command produced.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes an operator-configured command line.
type Runner interface {
	Run(ctx context.Context, command string) (Output, error)
}

// ShellRunner hands the command line to `<Shell> -c`, so pipes and
// redirection work. Commands come from configuration only.
type ShellRunner struct {
	Shell string
	// Timeout of zero lets commands run until they exit.
	Timeout time.Duration
}

// NewShellRunner returns a runner for shell, defaulting to sh.
func NewShellRunner(shell string, timeout time.Duration) *ShellRunner {
	if shell == "" {
		shell = "sh"
	}
	return &ShellRunner{Shell: shell, Timeout: timeout}
}

// Run returns an error only when the process could not be started or was
// killed on timeout. A non-zero exit is reported through Output.ExitCode.
func (r *ShellRunner) Run(ctx context.Context, command string) (Output, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	} else {
		// The browser abandoning a poll must not kill the command.
		ctx = context.WithoutCancel(ctx)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.Shell, "-c", command)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	configureProcessGroup(cmd)
	if r.Timeout > 0 {
		cmd.WaitDelay = time.Second
	}

	err := cmd.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return out, nil
	}

	if ctx.Err() != nil {
		out.ExitCode = -1
		return out, fmt.Errorf("logview: command timed out after %s", r.Timeout)
	}

	var exitError *exec.ExitError
	if errors.As(err, &exitError) {
		out.ExitCode = exitError.ExitCode()
		return out, nil
	}

	return out, fmt.Errorf("%w: %w", ErrSpawn, err)
}
