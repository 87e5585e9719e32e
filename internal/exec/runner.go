// Package exec runs external commands behind an interface that tests can stub.
package exec

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// CmdResult holds the outcome of a command that ran to completion.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunOpts holds optional parameters for a command.
type RunOpts struct {
	Dir string            // working directory
	Env map[string]string // overlaid on the current environment
}

// CommandRunner runs external commands.
type CommandRunner interface {
	// Run executes name with args. A non-zero exit is reported through
	// CmdResult.ExitCode, not as an error. Errors mean the process could
	// not run at all (binary missing, context cancelled, I/O failure).
	Run(ctx context.Context, name string, args []string, opts RunOpts) (CmdResult, error)
}

// RealRunner is the os/exec implementation of CommandRunner.
type RealRunner struct{}

// NewRealRunner creates a RealRunner.
func NewRealRunner() *RealRunner {
	return &RealRunner{}
}

// Run executes the command and captures stdout and stderr.
func (r *RealRunner) Run(ctx context.Context, name string, args []string, opts RunOpts) (CmdResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Dir = opts.Dir

	if len(opts.Env) > 0 {
		cmd.Env = cmd.Environ()
		for k, v := range opts.Env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
	}

	err := cmd.Run()
	result := CmdResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil && ctx.Err() != nil {
		// The process was killed because ctx ended; its exit status is meaningless.
		return result, ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	if err != nil {
		return result, err
	}
	return result, nil
}

// IsNotFound reports whether err means the binary could not be located.
func IsNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound)
}
